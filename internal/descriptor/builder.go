package descriptor

// AttributeSetter receives the scalar attributes of a volume.
type AttributeSetter interface {
	SetMother(string)
	SetMaterial(string)
	SetMfield(string)
	SetColor(string)
	SetStyle(int)
	SetVisibility(int)
	SetDigitization(string)
	SetIdentifier(string)
	SetCopyOf(string)
	SetReplicaOf(string)
	SetSolidsOpr(string)
	SetMirror(string)
	SetExist(int)
	SetDescription(string)
}

// VolumeBuilder is the geometry-construction capability a descriptor is
// applied to. An empty unit means "use the builder default".
type VolumeBuilder interface {
	AttributeSetter

	SetPosition(x, y, z float64, unit string)
	SetRotation(x, y, z float64, unit string)

	MakeBox(dx, dy, dz float64, lunit string)
	MakeTube(rin, rout, length, phiStart, phiTotal float64, lunit, aunit string)
	MakeSphere(rmin, rmax, phiStart, phiTotal, thetaStart, thetaTotal float64, lunit, aunit string)
	MakePolycone(phiStart, phiTotal float64, z, rInner, rOuter []float64, lunit, aunit string)
	MakeTrd(dx1, dx2, dy1, dy2, dz float64, lunit string)
}

func applySolid(s Solid, b VolumeBuilder) {
	switch s := s.(type) {
	case Box:
		b.MakeBox(s.DX, s.DY, s.DZ, s.LengthUnit)
	case Tube:
		b.MakeTube(s.RInner, s.ROuter, s.Length, s.PhiStart, s.PhiTotal, s.LengthUnit, s.AngleUnit)
	case Sphere:
		b.MakeSphere(s.RInner, s.ROuter, s.PhiStart, s.PhiTotal, s.ThetaStart, s.ThetaTotal, s.LengthUnit, s.AngleUnit)
	case Polycone:
		b.MakePolycone(s.PhiStart, s.PhiTotal, s.Z, s.RInner, s.ROuter, s.LengthUnit, s.AngleUnit)
	case Trd:
		b.MakeTrd(s.DX1, s.DX2, s.DY1, s.DY2, s.DZ, s.LengthUnit)
	}
}
