package gvolume

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	v := New("flux")

	assert.Equal(t, "flux", v.Name)
	assert.Equal(t, "root", v.Mother)
	assert.Equal(t, "G4_AIR", v.Material)
	assert.Equal(t, "778899", v.Color)
	assert.Equal(t, 1, v.Visible)
	assert.Equal(t, 1, v.Exist)
	assert.Equal(t, "na", v.Mfield)
	assert.Empty(t, v.Solid)
}

func TestMakeSolids(t *testing.T) {
	tests := []struct {
		name   string
		make   func(v *Volume)
		solid  string
		params string
	}{
		{
			name:   "box",
			make:   func(v *Volume) { v.MakeBox(1, 2, 3.5, "cm") },
			solid:  "G4Box",
			params: "1*cm, 2*cm, 3.5*cm",
		},
		{
			name:   "tube defaults units",
			make:   func(v *Volume) { v.MakeTube(0, 5, 10, 0, 360, "", "") },
			solid:  "G4Tubs",
			params: "0*mm, 5*mm, 10*mm, 0*deg, 360*deg",
		},
		{
			name:   "sphere",
			make:   func(v *Volume) { v.MakeSphere(1, 2, 0, 6.28, 0, 3.14, "m", "rad") },
			solid:  "G4Sphere",
			params: "1*m, 2*m, 0*rad, 6.28*rad, 0*rad, 3.14*rad",
		},
		{
			name:   "polycone",
			make:   func(v *Volume) { v.MakePolycone(0, 360, []float64{0, 10}, []float64{1, 2}, []float64{5, 6}, "cm", "") },
			solid:  "G4Polycone",
			params: "0*deg, 360*deg, 2*counts, 0*cm, 10*cm, 1*cm, 2*cm, 5*cm, 6*cm",
		},
		{
			name:   "trd",
			make:   func(v *Volume) { v.MakeTrd(1, 2, 3, 4, 5, "mm") },
			solid:  "G4Trd",
			params: "1*mm, 2*mm, 3*mm, 4*mm, 5*mm",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New("v")
			tt.make(v)
			assert.Equal(t, tt.solid, v.Solid)
			assert.Equal(t, tt.params, v.Parameters)
		})
	}
}

func TestPlacement(t *testing.T) {
	v := New("v")
	v.SetPosition(1, -2, 3, "")
	v.SetRotation(0, 90, 0, "rad")

	assert.Equal(t, "1*mm, -2*mm, 3*mm", v.Pos)
	assert.Equal(t, "0*rad, 90*rad, 0*rad", v.Rot)
}

func TestFieldsAndString(t *testing.T) {
	v := New("v")
	v.MakeBox(1, 1, 1, "")
	v.SetVisibility(0)

	fields := v.Fields()
	require.Len(t, fields, len(FieldNames))
	assert.Equal(t, "v", fields[0])
	assert.Equal(t, "0", fields[9])
	assert.Equal(t, "v | root | na | 0*mm, 0*mm, 0*mm | 0*deg, 0*deg, 0*deg | G4Box | 1*mm, 1*mm, 1*mm | G4_AIR | na | 0 | 1 | 778899 | na | na | na | na | na | na | 1", v.String())
}

type publisherFunc func(ctx context.Context, v *Volume) error

func (f publisherFunc) Publish(ctx context.Context, v *Volume) error { return f(ctx, v) }

func TestPublish(t *testing.T) {
	var got []*Volume
	p := publisherFunc(func(_ context.Context, v *Volume) error {
		got = append(got, v)
		return nil
	})

	v := New("v")
	assert.Error(t, v.Publish(context.Background(), p), "volume without solid")
	assert.Empty(t, got)

	v.MakeBox(1, 1, 1, "mm")
	require.NoError(t, v.Publish(context.Background(), p))
	assert.Equal(t, []*Volume{v}, got)

	boom := errors.New("boom")
	err := v.Publish(context.Background(), publisherFunc(func(context.Context, *Volume) error { return boom }))
	assert.ErrorIs(t, err, boom)

	assert.Error(t, New("").Validate())
}
