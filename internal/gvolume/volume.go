// Package gvolume holds the publishable geometry volume produced from a
// descriptor, in the text form used by sci-g geometry factories.
package gvolume

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

const (
	DefaultLengthUnit = "mm"
	DefaultAngleUnit  = "deg"

	notAssigned = "na"
)

// Publisher stores a finished volume in a geometry factory.
type Publisher interface {
	Publish(ctx context.Context, v *Volume) error
}

// Volume is one geometry volume. Fields hold the published text form.
type Volume struct {
	Name         string
	Mother       string
	Description  string
	Pos          string
	Rot          string
	Solid        string
	Parameters   string
	Material     string
	Mfield       string
	Visible      int
	Style        int
	Color        string
	Digitization string
	Identifier   string
	CopyOf       string
	ReplicaOf    string
	SolidsOpr    string
	Mirror       string
	Exist        int
}

// New returns a volume with sci-g defaults.
func New(name string) *Volume {
	return &Volume{
		Name:         name,
		Mother:       "root",
		Description:  notAssigned,
		Pos:          "0*mm, 0*mm, 0*mm",
		Rot:          "0*deg, 0*deg, 0*deg",
		Material:     "G4_AIR",
		Mfield:       notAssigned,
		Visible:      1,
		Style:        1,
		Color:        "778899",
		Digitization: notAssigned,
		Identifier:   notAssigned,
		CopyOf:       notAssigned,
		ReplicaOf:    notAssigned,
		SolidsOpr:    notAssigned,
		Mirror:       notAssigned,
		Exist:        1,
	}
}

// SetPosition places the volume in its mother. An empty unit means DefaultLengthUnit.
func (v *Volume) SetPosition(x, y, z float64, unit string) {
	v.Pos = withUnit(or(unit, DefaultLengthUnit), x, y, z)
}

// SetRotation sets the X, Y, Z rotation angles. An empty unit means DefaultAngleUnit.
func (v *Volume) SetRotation(x, y, z float64, unit string) {
	v.Rot = withUnit(or(unit, DefaultAngleUnit), x, y, z)
}

// MakeBox makes a G4Box from its half lengths dx, dy, dz.
func (v *Volume) MakeBox(dx, dy, dz float64, lunit string) {
	v.Solid = "G4Box"
	v.Parameters = withUnit(or(lunit, DefaultLengthUnit), dx, dy, dz)
}

// MakeTube makes a G4Tubs: inner radius, outer radius, half length,
// starting phi and phi span.
func (v *Volume) MakeTube(rin, rout, length, phiStart, phiTotal float64, lunit, aunit string) {
	v.Solid = "G4Tubs"
	v.Parameters = join(
		withUnit(or(lunit, DefaultLengthUnit), rin, rout, length),
		withUnit(or(aunit, DefaultAngleUnit), phiStart, phiTotal),
	)
}

// MakeSphere makes a G4Sphere: inner and outer radius, starting phi, phi
// span, starting theta and theta span.
func (v *Volume) MakeSphere(rmin, rmax, phiStart, phiTotal, thetaStart, thetaTotal float64, lunit, aunit string) {
	v.Solid = "G4Sphere"
	v.Parameters = join(
		withUnit(or(lunit, DefaultLengthUnit), rmin, rmax),
		withUnit(or(aunit, DefaultAngleUnit), phiStart, phiTotal, thetaStart, thetaTotal),
	)
}

// MakePolycone makes a G4Polycone from its phi range and one z, inner
// radius and outer radius per plane. The three slices must have the same
// length; the plane count is written as N*counts.
func (v *Volume) MakePolycone(phiStart, phiTotal float64, z, rInner, rOuter []float64, lunit, aunit string) {
	lunit = or(lunit, DefaultLengthUnit)
	v.Solid = "G4Polycone"
	v.Parameters = join(
		withUnit(or(aunit, DefaultAngleUnit), phiStart, phiTotal),
		strconv.Itoa(len(z))+"*counts",
		withUnit(lunit, z...),
		withUnit(lunit, rInner...),
		withUnit(lunit, rOuter...),
	)
}

// MakeTrd makes a G4Trd: x half lengths at -dz and +dz, y half lengths at
// -dz and +dz, then the z half length.
func (v *Volume) MakeTrd(dx1, dx2, dy1, dy2, dz float64, lunit string) {
	v.Solid = "G4Trd"
	v.Parameters = withUnit(or(lunit, DefaultLengthUnit), dx1, dx2, dy1, dy2, dz)
}

// Scalar attribute setters.
func (v *Volume) SetMother(s string)       { v.Mother = s }
func (v *Volume) SetMaterial(s string)     { v.Material = s }
func (v *Volume) SetMfield(s string)       { v.Mfield = s }
func (v *Volume) SetColor(s string)        { v.Color = s }
func (v *Volume) SetStyle(n int)           { v.Style = n }
func (v *Volume) SetVisibility(n int)      { v.Visible = n }
func (v *Volume) SetDigitization(s string) { v.Digitization = s }
func (v *Volume) SetIdentifier(s string)   { v.Identifier = s }
func (v *Volume) SetCopyOf(s string)       { v.CopyOf = s }
func (v *Volume) SetReplicaOf(s string)    { v.ReplicaOf = s }
func (v *Volume) SetSolidsOpr(s string)    { v.SolidsOpr = s }
func (v *Volume) SetMirror(s string)       { v.Mirror = s }
func (v *Volume) SetExist(n int)           { v.Exist = n }
func (v *Volume) SetDescription(s string)  { v.Description = s }

// Validate reports a volume that cannot be published.
func (v *Volume) Validate() error {
	if v.Name == "" {
		return fmt.Errorf("volume has no name")
	}
	if v.Solid == "" {
		return fmt.Errorf("volume %s has no solid", v.Name)
	}
	return nil
}

// Publish hands the finished volume to p.
func (v *Volume) Publish(ctx context.Context, p Publisher) error {
	if err := v.Validate(); err != nil {
		return err
	}
	return p.Publish(ctx, v)
}

// FieldNames names the columns returned by Fields.
var FieldNames = []string{
	"name", "mother", "description", "pos", "rot", "solid", "parameters",
	"material", "mfield", "visible", "style", "color", "digitization",
	"identifier", "copyOf", "replicaOf", "solidsOpr", "mirror", "exist",
}

// Fields returns the published field values in FieldNames order.
func (v *Volume) Fields() []string {
	return []string{
		v.Name, v.Mother, v.Description, v.Pos, v.Rot, v.Solid, v.Parameters,
		v.Material, v.Mfield, strconv.Itoa(v.Visible), strconv.Itoa(v.Style),
		v.Color, v.Digitization, v.Identifier, v.CopyOf, v.ReplicaOf,
		v.SolidsOpr, v.Mirror, strconv.Itoa(v.Exist),
	}
}

// String returns the sci-g text geometry line for v.
func (v *Volume) String() string {
	return strings.Join(v.Fields(), " | ")
}

func withUnit(unit string, values ...float64) string {
	parts := make([]string, len(values))
	for i, x := range values {
		parts[i] = strconv.FormatFloat(x, 'g', -1, 64) + "*" + unit
	}
	return strings.Join(parts, ", ")
}

func join(parts ...string) string {
	return strings.Join(parts, ", ")
}

func or(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
