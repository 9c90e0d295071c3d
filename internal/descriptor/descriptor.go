// Package descriptor parses pipe-delimited geometry descriptor lines into
// validated volume descriptions and applies them to a volume builder.
//
// A descriptor line has seven positional fields:
//
//	name | mother | x y z | rotation | solid type | dimensions | identifier
//
// Numeric tokens may carry a unit joined by the separator ("10*mm").
// Any further fields are key=value attribute assignments
// ("material=G4_Al", "color=838EDE", "visibility=0").
package descriptor

import (
	"strings"

	"scig/internal/gvolume"
)

const fieldCount = 7

// Descriptor is the decoded form of one descriptor line.
type Descriptor struct {
	Name       string
	Mother     string
	Position   Position
	Rotation   Rotation
	Solid      Solid
	Identifier Identifier
	Attributes Attributes

	raw string
}

// Parse decodes one descriptor line with DefaultOptions.
func Parse(line string) (*Descriptor, error) {
	return ParseWith(line, DefaultOptions())
}

// ParseWith decodes one descriptor line. It either returns a fully
// decoded descriptor or the first error found.
func ParseWith(line string, opts Options) (*Descriptor, error) {
	opts = opts.normalized()

	fields := strings.Split(line, "|")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	if len(fields) < fieldCount {
		return nil, arityError("descriptor", "7 pipe-delimited fields", strings.TrimSpace(line), len(fields))
	}
	if fields[0] == "" {
		return nil, fieldError("name", "a volume name", line, ErrArity)
	}

	pos, err := ParsePosition(fields[2], opts.Separator)
	if err != nil {
		return nil, err
	}
	rot, err := ParseRotation(fields[3], opts.Separator)
	if err != nil {
		return nil, err
	}
	solid, err := ParseSolid(fields[4], fields[5], opts)
	if err != nil {
		return nil, err
	}

	d := &Descriptor{
		Name:       fields[0],
		Mother:     fields[1],
		Position:   pos,
		Rotation:   rot,
		Solid:      solid,
		Identifier: ParseIdentifier(fields[6]),
		raw:        line,
	}

	for _, f := range fields[fieldCount:] {
		if f == "" {
			continue
		}
		if err := d.Attributes.set(f); err != nil {
			return nil, err
		}
	}
	if opts.IdentifierTemplate != "" && d.Attributes.Identifier == "" && !d.Identifier.IsZero() {
		d.Attributes.Identifier = d.Identifier.Expand(opts.IdentifierTemplate)
	}

	return d, nil
}

// Raw returns the line the descriptor was parsed from.
func (d *Descriptor) Raw() string { return d.raw }

// Apply drives b with the descriptor: placement, solid, mother and every
// attribute that was given.
func (d *Descriptor) Apply(b VolumeBuilder) {
	p, r := d.Position, d.Rotation
	b.SetPosition(p.X(), p.Y(), p.Z(), p.Unit)
	b.SetRotation(r.X(), r.Y(), r.Z(), r.Unit)
	applySolid(d.Solid, b)
	if d.Mother != "" {
		b.SetMother(d.Mother)
	}
	d.Attributes.applyTo(b)
}

// Build creates a volume named after the descriptor and applies it.
func (d *Descriptor) Build() *gvolume.Volume {
	v := gvolume.New(d.Name)
	d.Apply(v)
	return v
}
