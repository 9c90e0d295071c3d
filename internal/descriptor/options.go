package descriptor

import (
	"fmt"
	"runtime"

	"scig/internal/units"
)

// PolyconeLayout names the order of the three per-plane chunks in a
// polycone dimension string.
type PolyconeLayout string

const (
	// LayoutZInnerOuter lists z planes, then inner radii, then outer radii.
	LayoutZInnerOuter PolyconeLayout = "z-inner-outer"
	// LayoutInnerOuterZ is the legacy sci-g text layout: inner radii,
	// outer radii, then z planes.
	LayoutInnerOuterZ PolyconeLayout = "inner-outer-z"
)

// Options tune descriptor parsing. The zero value is usable.
type Options struct {
	// Separator joins a number and its unit inside a token. Default '*'.
	Separator byte
	// PolyconeLayout selects the chunk order of polycone dimensions.
	PolyconeLayout PolyconeLayout
	// IdentifierTemplate, when set, is expanded with the identifier
	// tokens and becomes the volume identifier.
	IdentifierTemplate string
	// Workers bounds parallel line parsing in Read. Default GOMAXPROCS.
	Workers int
}

// DefaultOptions returns the options used by Parse.
func DefaultOptions() Options {
	return Options{
		Separator:      units.DefaultSeparator,
		PolyconeLayout: LayoutZInnerOuter,
		Workers:        runtime.GOMAXPROCS(0),
	}
}

// Validate reports options that cannot be used for parsing.
func (o Options) Validate() error {
	switch o.PolyconeLayout {
	case "", LayoutZInnerOuter, LayoutInnerOuterZ:
	default:
		return fmt.Errorf("invalid polycone layout %q (valid: %s, %s)", o.PolyconeLayout, LayoutZInnerOuter, LayoutInnerOuterZ)
	}
	if o.Separator == ' ' || o.Separator == '|' {
		return fmt.Errorf("unit separator %q collides with descriptor delimiters", o.Separator)
	}
	if o.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", o.Workers)
	}
	return nil
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.Separator == 0 {
		o.Separator = d.Separator
	}
	if o.PolyconeLayout == "" {
		o.PolyconeLayout = d.PolyconeLayout
	}
	if o.Workers <= 0 {
		o.Workers = d.Workers
	}
	return o
}
