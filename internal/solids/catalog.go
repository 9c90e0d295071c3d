// Package solids is the reference catalog of Geant4 solids known to sci-g,
// with the descriptor form of the ones the decoder supports.
package solids

import (
	"fmt"
	"strings"

	"scig/internal/descriptor"
)

// DocsURL is the Geant4 guide describing the solid constructors.
const DocsURL = "https://geant4-userdoc.web.cern.ch/UsersGuides/ForApplicationDeveloper/html/Detector/Geometry/geomSolids.html"

// Solid is one catalog entry.
type Solid struct {
	Name        string
	Description string
	Constructor string
	// Kind is the descriptor solid tag, empty when the decoder does not
	// read this solid.
	Kind descriptor.Kind
	// Dimensions is an example dimension field for Kind.
	Dimensions string
}

// Supported reports whether descriptor lines can use this solid.
func (s Solid) Supported() bool { return s.Kind != "" }

var catalog = []Solid{
	{
		Name:        "G4Box",
		Description: "Simple Box",
		Constructor: "make_box(dx, dy, dz, lunit='mm')",
		Kind:        descriptor.KindBox,
		Dimensions:  "dx*mm dy*mm dz*mm",
	},
	{
		Name:        "G4Tubs",
		Description: "Cylindrical Section or Tube",
		Constructor: "make_tube(rin, rout, length, phistart, phitotal, lunit1='mm', lunit2='deg')",
		Kind:        descriptor.KindTube,
		Dimensions:  "rin*mm rout*mm length*mm phiStart*deg phiTotal*deg",
	},
	{
		Name:        "G4Cons",
		Description: "Cone or Conical section",
		Constructor: "make_cone(rin1, rout1, rin2, rout2, length, phiStart, totalPhi, lunit1='mm', lunit2='deg')",
	},
	{
		Name:        "G4Trd",
		Description: "Trapezoid",
		Constructor: "make_trapezoid(dx1, dx2, dy1, dy2, z, lunit='mm')",
		Kind:        descriptor.KindTrd,
		Dimensions:  "dx1*mm dx2*mm dy1*mm dy2*mm dz*mm",
	},
	{
		Name:        "G4TrapRAW",
		Description: "Generic Trapezoid: right Angular Wedge (4 parameters)",
		Constructor: "make_trap_from_angular_wedges(pZ, pY, pX, pLTX, lunit1='mm')",
	},
	{
		Name:        "G4TrapG",
		Description: "Generic Trapezoid: general trapezoid (11 parameters)",
		Constructor: "make_general_trapezoid(pDz, pTheta, pPhi, pDy1, pDx1, pDx2, pAlp1, pDy2, pDx3, pDx4, pAlp2, lunit1='mm', lunit2='deg')",
	},
	{
		Name:        "G4Trap8",
		Description: "Generic Trapezoid: from eight points (24 parameters)",
		Constructor: "make_trap_from_vertices(pt, lunit1='mm')",
	},
	{
		Name:        "G4Trap",
		Description: "Generic Trapezoid: will call the G4Trap constructor based on the number of parameters",
		Constructor: "make_trap(params, lunit1='mm', lunit2='deg')",
	},
	{
		Name:        "G4Sphere",
		Description: "Sphere or Spherical Shell Section",
		Constructor: "make_sphere(rmin, rmax, sphi, dphi, stheta, dtheta, lunit1='mm', lunit2='deg')",
		Kind:        descriptor.KindSphere,
		Dimensions:  "rmin*mm rmax*mm phiStart*deg phiTotal*deg thetaStart*deg thetaTotal*deg",
	},
	{
		Name:        "G4Polycone",
		Description: "Polycons",
		Constructor: "make_polycone(phiStart, phiTotal, zplane, iradius, oradius, lunit1='mm', lunit2='deg')",
		Kind:        descriptor.KindPolycone,
		Dimensions:  "phiStart*deg phiTotal*deg N z1*mm..zN*mm rin1*mm..rinN*mm rout1*mm..routN*mm",
	},
}

// All returns the catalog in reference order.
func All() []Solid {
	out := make([]Solid, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup finds a solid by Geant4 name or descriptor tag, ignoring case.
func Lookup(name string) (Solid, bool) {
	for _, s := range catalog {
		if strings.EqualFold(s.Name, name) || (s.Kind != "" && strings.EqualFold(string(s.Kind), name)) {
			return s, true
		}
	}
	return Solid{}, false
}

// Snippet returns a commented descriptor template for a supported solid,
// listing the volume defaults and the optional attributes.
func Snippet(name string) (string, error) {
	s, ok := Lookup(name)
	if !ok {
		return "", fmt.Errorf("unknown solid %q", name)
	}
	if !s.Supported() {
		return "", fmt.Errorf("%s not supported yet", s.Name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s: %s\n", s.Name, s.Description)
	b.WriteString("# name | mother | x y z | rotation | type | dimensions | identifier | key=value...\n")
	fmt.Fprintf(&b, "myVolume | root | 0*mm 0*mm 0*mm | 0*deg 0*deg 0*deg | %s | %s | | material=G4_AIR\n", s.Kind, s.Dimensions)
	b.WriteString("# Defaults when omitted: mother root, description na, color 778899,\n")
	b.WriteString("# style 1 (surface), visibility 1, digitization na, identifier na.\n")
	fmt.Fprintf(&b, "# Attributes: %s\n", strings.Join(descriptor.AttributeNames(), ", "))
	return b.String(), nil
}
