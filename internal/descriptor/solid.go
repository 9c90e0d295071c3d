package descriptor

import (
	"fmt"
	"slices"
	"strings"

	"scig/internal/units"
)

// Kind is a solid type tag as written in a descriptor line.
type Kind string

const (
	KindBox      Kind = "Box"
	KindTube     Kind = "Tube"
	KindSphere   Kind = "Sphere"
	KindPolycone Kind = "Polycone"
	KindTrd      Kind = "Trd"
)

// Kinds lists every solid tag the decoder understands.
func Kinds() []Kind {
	return []Kind{KindBox, KindTube, KindSphere, KindPolycone, KindTrd}
}

// Solid is one of Box, Tube, Sphere, Polycone or Trd.
type Solid interface {
	Kind() Kind
	// Args returns the decoded arguments in builder order.
	Args() []float64
	isSolid()
}

// Box is a G4Box given by its half lengths.
type Box struct {
	DX, DY, DZ float64
	LengthUnit string
}

// Tube is a G4Tubs cylindrical section.
type Tube struct {
	RInner, ROuter, Length float64
	PhiStart, PhiTotal     float64
	LengthUnit, AngleUnit  string
}

// Sphere is a G4Sphere spherical shell section.
type Sphere struct {
	RInner, ROuter         float64
	PhiStart, PhiTotal     float64
	ThetaStart, ThetaTotal float64
	LengthUnit, AngleUnit  string
}

// Trd is a G4Trd trapezoid.
type Trd struct {
	DX1, DX2, DY1, DY2, DZ float64
	LengthUnit             string
}

// Polycone is a G4Polycone with len(Z) planes.
type Polycone struct {
	PhiStart, PhiTotal    float64
	Z, RInner, ROuter     []float64
	LengthUnit, AngleUnit string
}

func (Box) Kind() Kind      { return KindBox }
func (Tube) Kind() Kind     { return KindTube }
func (Sphere) Kind() Kind   { return KindSphere }
func (Trd) Kind() Kind      { return KindTrd }
func (Polycone) Kind() Kind { return KindPolycone }

func (Box) isSolid()      {}
func (Tube) isSolid()     {}
func (Sphere) isSolid()   {}
func (Trd) isSolid()      {}
func (Polycone) isSolid() {}

func (s Box) Args() []float64 { return []float64{s.DX, s.DY, s.DZ} }

func (s Tube) Args() []float64 {
	return []float64{s.RInner, s.ROuter, s.Length, s.PhiStart, s.PhiTotal}
}

func (s Sphere) Args() []float64 {
	return []float64{s.RInner, s.ROuter, s.PhiStart, s.PhiTotal, s.ThetaStart, s.ThetaTotal}
}

func (s Trd) Args() []float64 { return []float64{s.DX1, s.DX2, s.DY1, s.DY2, s.DZ} }

// Args returns (start, total, planes, z..., inner..., outer...).
func (s Polycone) Args() []float64 {
	args := make([]float64, 0, 3+3*len(s.Z))
	args = append(args, s.PhiStart, s.PhiTotal, float64(s.Planes()))
	args = append(args, s.Z...)
	args = append(args, s.RInner...)
	return append(args, s.ROuter...)
}

// Planes returns the number of z planes.
func (s Polycone) Planes() int { return len(s.Z) }

// ParseSolid decodes a dimension string for the solid named by tag.
func ParseSolid(tag, dims string, opts Options) (Solid, error) {
	opts = opts.normalized()

	kind := Kind(tag)
	if !slices.Contains(Kinds(), kind) {
		return nil, fieldError("solid type", fmt.Sprintf("one of %v", Kinds()), tag,
			fmt.Errorf("%w: %q", ErrUnsupportedSolidType, tag))
	}

	d := dimensions{kind: kind, raw: dims}
	numbers, tags, err := units.Split(strings.Fields(dims), opts.Separator)
	if err != nil {
		return nil, d.fail("numeric values", err)
	}
	d.numbers, d.units = numbers, tags

	switch kind {
	case KindBox:
		return d.box()
	case KindTube:
		return d.tube()
	case KindSphere:
		return d.sphere()
	case KindTrd:
		return d.trd()
	default:
		return d.polycone(opts.PolyconeLayout)
	}
}

// dimensions carries one tokenized dimension string through its decoder.
type dimensions struct {
	kind    Kind
	raw     string
	numbers []float64
	units   []string
}

func (d dimensions) field() string {
	return strings.ToLower(string(d.kind)) + " dimensions"
}

func (d dimensions) fail(expected string, err error) error {
	return fieldError(d.field(), expected, d.raw, err)
}

func (d dimensions) expect(n int) error {
	if len(d.numbers) != n {
		return arityError(d.field(), fmt.Sprintf("%d values", n), d.raw, len(d.numbers))
	}
	return nil
}

// unit resolves the unit group units[from:to].
func (d dimensions) unit(group string, from, to int) (string, error) {
	u, err := units.Single(d.units[from:to])
	if err != nil {
		return "", d.fail("a single "+group+" unit", err)
	}
	return u, nil
}

func (d dimensions) box() (Solid, error) {
	if err := d.expect(3); err != nil {
		return nil, err
	}
	lunit, err := d.unit("length", 0, 3)
	if err != nil {
		return nil, err
	}
	n := d.numbers
	return Box{DX: n[0], DY: n[1], DZ: n[2], LengthUnit: lunit}, nil
}

func (d dimensions) tube() (Solid, error) {
	if err := d.expect(5); err != nil {
		return nil, err
	}
	lunit, err := d.unit("length", 0, 3)
	if err != nil {
		return nil, err
	}
	aunit, err := d.unit("angle", 3, 5)
	if err != nil {
		return nil, err
	}
	n := d.numbers
	return Tube{
		RInner: n[0], ROuter: n[1], Length: n[2],
		PhiStart: n[3], PhiTotal: n[4],
		LengthUnit: lunit, AngleUnit: aunit,
	}, nil
}

func (d dimensions) sphere() (Solid, error) {
	if err := d.expect(6); err != nil {
		return nil, err
	}
	lunit, err := d.unit("length", 0, 2)
	if err != nil {
		return nil, err
	}
	aunit, err := d.unit("angle", 2, 6)
	if err != nil {
		return nil, err
	}
	n := d.numbers
	return Sphere{
		RInner: n[0], ROuter: n[1],
		PhiStart: n[2], PhiTotal: n[3],
		ThetaStart: n[4], ThetaTotal: n[5],
		LengthUnit: lunit, AngleUnit: aunit,
	}, nil
}

func (d dimensions) trd() (Solid, error) {
	if err := d.expect(5); err != nil {
		return nil, err
	}
	lunit, err := d.unit("length", 0, 5)
	if err != nil {
		return nil, err
	}
	n := d.numbers
	return Trd{DX1: n[0], DX2: n[1], DY1: n[2], DY2: n[3], DZ: n[4], LengthUnit: lunit}, nil
}

// polycone decodes "start total N c0... c1... c2..." where each chunk holds
// N values. The plane count carries no unit; the angle group is the two
// header values and the length group is every chunk value.
func (d dimensions) polycone(layout PolyconeLayout) (Solid, error) {
	if len(d.numbers) < 3 {
		return nil, arityError(d.field(), "start angle, total angle, plane count and 3 chunks of plane values", d.raw, len(d.numbers))
	}

	count := d.numbers[2]
	planes := int(count)
	switch {
	case float64(planes) != count || planes < 1:
		return nil, d.fail("a positive integer plane count", fmt.Errorf("%w: %v", ErrInvalidPlaneCount, count))
	case d.units[2] != "":
		return nil, d.fail("a unit-less plane count", fmt.Errorf("%w: unit %q on plane count", ErrInvalidPlaneCount, d.units[2]))
	case len(d.numbers)-3 != 3*planes:
		return nil, d.fail(fmt.Sprintf("%d plane values for %d planes", 3*planes, planes),
			fmt.Errorf("%w: %d planes but %d plane values", ErrInvalidPlaneCount, planes, len(d.numbers)-3))
	}

	aunit, err := d.unit("angle", 0, 2)
	if err != nil {
		return nil, err
	}
	lunit, err := d.unit("length", 3, len(d.units))
	if err != nil {
		return nil, err
	}

	chunk := func(i int) []float64 {
		start := 3 + i*planes
		return slices.Clone(d.numbers[start : start+planes])
	}

	p := Polycone{
		PhiStart:   d.numbers[0],
		PhiTotal:   d.numbers[1],
		LengthUnit: lunit,
		AngleUnit:  aunit,
	}
	if layout == LayoutInnerOuterZ {
		p.RInner, p.ROuter, p.Z = chunk(0), chunk(1), chunk(2)
	} else {
		p.Z, p.RInner, p.ROuter = chunk(0), chunk(1), chunk(2)
	}
	return p, nil
}
