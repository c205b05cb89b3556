package minimap

import (
	"math"
	"sort"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/minimap/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sortedIDs(m *MiniMap) []string {
	ids := m.VehicleIDs()
	sort.Strings(ids)
	return ids
}

func TestRegistryBijection(t *testing.T) {
	frames := []struct {
		name string
		ids  []string
	}{
		{"empty", nil},
		{"one", []string{"a"}},
		{"grow", []string{"a", "b", "c"}},
		{"swap", []string{"c", "d"}},
		{"empty_again", []string{}},
		{"refill", []string{"a", "e"}},
	}

	f := newFixture(t, DefaultConfig())
	for _, fr := range frames {
		t.Run(fr.name, func(t *testing.T) {
			vs := make([]*fakeVehicle, 0, len(fr.ids))
			for i, id := range fr.ids {
				vs = append(vs, vehicle(id, float64(i), float64(-i)))
			}
			f.world.setVehicles(vs...)
			f.mm.Update()

			want := append([]string{}, fr.ids...)
			sort.Strings(want)
			if len(want) == 0 {
				assert.Empty(t, sortedIDs(f.mm))
			} else {
				assert.Equal(t, want, sortedIDs(f.mm))
			}
			// player and spawn markers plus one node per vehicle
			assert.Equal(t, 2+len(fr.ids), f.mm.Markers().ChildCount())
		})
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	f.world.setVehicles(vehicle("a", 1, 2), vehicle("b", 3, 4))
	f.mm.Update()

	markerA, _ := f.mm.VehicleMarker("a")
	markerB, _ := f.mm.VehicleMarker("b")
	children := f.mm.Markers().ChildCount()

	f.mm.Update()

	assert.Equal(t, 2, f.mm.VehicleCount())
	assert.Equal(t, children, f.mm.Markers().ChildCount())
	again, _ := f.mm.VehicleMarker("a")
	assert.Same(t, markerA, again)
	again, _ = f.mm.VehicleMarker("b")
	assert.Same(t, markerB, again)
}

func TestIdentitySurvivesReordering(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	a, b := vehicle("a", 1, 1), vehicle("b", 2, 2)

	f.world.setVehicles(a, b)
	f.mm.Update()
	markerA, _ := f.mm.VehicleMarker("a")

	f.world.setVehicles(b, a)
	f.mm.Update()
	again, _ := f.mm.VehicleMarker("a")
	assert.Same(t, markerA, again)
	assert.Equal(t, mgl64.Vec3{1, 15, 1}, again.Position)
}

func TestVehicleAppearsThenLeaves(t *testing.T) {
	f := newFixture(t, DefaultConfig())

	f.world.setVehicles(vehicle("v1", 4, -6))
	f.mm.Update()
	require.Equal(t, 1, f.mm.VehicleCount())
	marker, ok := f.mm.VehicleMarker("v1")
	require.True(t, ok)
	assert.True(t, f.world.root.Contains(marker))
	assert.Equal(t, mgl64.Vec3{4, 15, -6}, marker.Position)

	f.world.setVehicles()
	f.mm.Update()
	assert.Equal(t, 0, f.mm.VehicleCount())
	assert.False(t, f.mm.HasVehicle("v1"))
	assert.Nil(t, marker.Parent())
	assert.False(t, f.world.root.Contains(marker))
}

func TestVehicleMarkerLiesFlat(t *testing.T) {
	cases := []struct {
		name string
		rot  mgl64.Quat
	}{
		{"climbing", geom.YawQuat(0.8).Mul(mgl64.QuatRotate(0.5, geom.Right))},
		{"banked", geom.YawQuat(0.8).Mul(mgl64.QuatRotate(-0.4, geom.Forward))},
		{"climbing_banked", geom.YawQuat(0.8).Mul(mgl64.QuatRotate(0.5, geom.Right)).Mul(mgl64.QuatRotate(0.3, geom.Forward))},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := newFixture(t, DefaultConfig())
			v := vehicle("tilted", 0, 0)
			v.pos = mgl64.Vec3{3, 8, 9}
			v.rot = c.rot
			f.world.setVehicles(v)
			f.mm.Update()

			marker, ok := f.mm.VehicleMarker("tilted")
			require.True(t, ok)
			assert.Equal(t, mgl64.Vec3{3, 15, 9}, marker.Position)

			up := marker.Rotation.Rotate(geom.Up)
			assert.True(t, up.ApproxEqualThreshold(geom.Up, 1e-9), "marker up %v", up)
			yaw, ok := geom.Yaw(marker.Rotation)
			require.True(t, ok)
			assert.InDelta(t, 0.8, yaw, 1e-9)
		})
	}
}

func TestVehicleMarkerKeepsHeadingOnDegenerateOrientation(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	v := vehicle("car", 0, 0)
	v.rot = geom.YawQuat(-1.1)
	f.world.setVehicles(v)
	f.mm.Update()

	for _, q := range []mgl64.Quat{
		geom.YawQuat(-1.1).Mul(mgl64.QuatRotate(math.Pi/2, geom.Right)),
		{W: math.NaN()},
		{},
	} {
		v.rot = q
		f.mm.Update()

		marker, _ := f.mm.VehicleMarker("car")
		yaw, ok := geom.Yaw(marker.Rotation)
		require.True(t, ok)
		assert.InDelta(t, -1.1, yaw, 1e-9)
	}
}

func TestVehicleMarkerStartsElevated(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	v := vehicle("lost", 0, 0)
	v.pos = mgl64.Vec3{math.NaN(), 0, math.Inf(1)}
	f.world.setVehicles(v)
	f.mm.Update()

	marker, ok := f.mm.VehicleMarker("lost")
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec3{0, 15, 0}, marker.Position)
}

func TestVehicleMarkerFollowsEntity(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	v := vehicle("car", 0, 0)
	f.world.setVehicles(v)

	for i := 0; i < 5; i++ {
		v.pos = mgl64.Vec3{float64(i) * 2, 0, float64(i) * -3}
		v.rot = geom.YawQuat(float64(i) * 0.25)
		f.mm.Update()

		marker, _ := f.mm.VehicleMarker("car")
		assert.Equal(t, mgl64.Vec3{float64(i) * 2, 15, float64(i) * -3}, marker.Position)
		yaw, ok := geom.Yaw(marker.Rotation)
		require.True(t, ok)
		assert.InDelta(t, float64(i)*0.25, yaw, 1e-9)
	}
}

func TestVehicleReconcileWithoutFocus(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	f.world.target = nil
	f.world.setVehicles(vehicle("x", 0, 0), vehicle("y", 0, 0))
	f.mm.Update()
	assert.Equal(t, 2, f.mm.VehicleCount())
	assert.Len(t, f.gfx.surface.renders, 1)
}
