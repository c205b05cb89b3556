package geom

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenXZ(t *testing.T) {
	cases := []struct {
		name string
		in   mgl64.Vec3
		want mgl64.Vec3
		ok   bool
	}{
		{"horizontal", mgl64.Vec3{0, 0, -3}, mgl64.Vec3{0, 0, -1}, true},
		{"pitched_down", mgl64.Vec3{1, -5, 1}, mgl64.Vec3{math.Sqrt2 / 2, 0, math.Sqrt2 / 2}, true},
		{"straight_down", mgl64.Vec3{0, -1, 0}, mgl64.Vec3{}, false},
		{"nan", mgl64.Vec3{math.NaN(), 0, 1}, mgl64.Vec3{}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := FlattenXZ(c.in)
			require.Equal(t, c.ok, ok)
			assert.True(t, got.ApproxEqualThreshold(c.want, 1e-9), "got %v want %v", got, c.want)
		})
	}
}

func TestYaw(t *testing.T) {
	cases := []struct {
		name string
		q    mgl64.Quat
		want float64
		ok   bool
	}{
		{"identity_faces_forward", mgl64.QuatIdent(), 0, true},
		{"quarter_left", mgl64.QuatRotate(math.Pi/2, Up), math.Pi / 2, true},
		{"facing_plus_z", mgl64.QuatRotate(math.Pi, Up), math.Pi, true},
		{"pitched_keeps_heading", mgl64.QuatRotate(0.3, Up).Mul(mgl64.QuatRotate(0.5, Right)), 0.3, true},
		{"looking_straight_up", mgl64.QuatRotate(math.Pi/2, Right), 0, false},
		{"zero_quat", mgl64.Quat{}, 0, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := Yaw(c.q)
			require.Equal(t, c.ok, ok)
			if !ok {
				return
			}
			// compare on the circle so pi and -pi match
			assert.InDelta(t, 0, math.Remainder(got-c.want, 2*math.Pi), 1e-9)
		})
	}
}

func TestEulerRoundTrip(t *testing.T) {
	angles := [][3]float64{
		{0, 0, 0},
		{0.4, -0.2, 1.1},
		{-1.2, 0.7, -0.3},
	}
	for _, a := range angles {
		q := FromEulerXYZ(a[0], a[1], a[2])
		x, y, z := EulerXYZ(q)
		assert.InDelta(t, a[0], x, 1e-9)
		assert.InDelta(t, a[1], y, 1e-9)
		assert.InDelta(t, a[2], z, 1e-9)
	}
}

func TestYawIgnoresPitchAndRoll(t *testing.T) {
	q := YawQuat(0.8).Mul(mgl64.QuatRotate(0.5, Right)).Mul(mgl64.QuatRotate(0.3, Forward))
	yaw, ok := Yaw(q)
	require.True(t, ok)
	assert.InDelta(t, 0.8, yaw, 1e-9)
}

func TestFacingQuat(t *testing.T) {
	dirs := []mgl64.Vec3{
		{1, 0, 0},
		{0, 0, 1},
		{0, -1, -1},
	}
	for _, d := range dirs {
		got := FacingQuat(d).Rotate(Forward)
		assert.True(t, got.ApproxEqualThreshold(d.Normalize(), 1e-9), "got %v want %v", got, d.Normalize())
	}
	assert.Equal(t, mgl64.QuatIdent(), FacingQuat(mgl64.Vec3{}))
}
