package world

import (
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/minimap/ecs/component"
	"github.com/milk9111/minimap/geom"
	"github.com/milk9111/minimap/minimap"
	"github.com/milk9111/minimap/prefabs"
	"github.com/milk9111/minimap/scene"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSpec() *prefabs.WorldSpec {
	return &prefabs.WorldSpec{
		Terrain: prefabs.TerrainSpec{Width: 100, Depth: 100},
		Player:  prefabs.PlayerSpec{Spawn: prefabs.Vec3Spec{X: 4, Y: 3, Z: -2}, MoveSpeed: 1, TurnSpeed: 0.1},
		Camera:  prefabs.CameraSpec{FovDegrees: 60, Distance: 10, Height: 4, Near: 0.1, Far: 500, Smoothness: 1},
		Vehicles: prefabs.VehiclesSpec{
			Mass: 10, Width: 2, Length: 4, MaxSpeed: 5, Damping: 1,
		},
		Traffic: prefabs.TrafficSpec{Script: "traffic.tengo", MaxVehicles: 4, SpawnRadius: 20, Seed: 3},
	}
}

func still() component.Input { return component.Input{} }

func TestNewRejectsNilSpec(t *testing.T) {
	_, err := New(nil, zerolog.Nop())
	assert.ErrorIs(t, err, ErrNilSpec)
}

func TestFocusTargetIsPlayerNode(t *testing.T) {
	w, err := New(testSpec(), zerolog.Nop(), WithInput(still))
	require.NoError(t, err)

	target, ok := w.FocusTarget().(minimap.TransformSource)
	require.True(t, ok)
	pos := target.WorldPosition()
	assert.InDelta(t, 4, pos.X(), 1e-9)
	assert.InDelta(t, -2, pos.Z(), 1e-9)

	ground, ok := w.PlayerPosition()
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec3{4, 0, -2}, ground)
}

func TestFreeLookSwitchesToOperator(t *testing.T) {
	w, err := New(testSpec(), zerolog.Nop(), WithInput(func() component.Input {
		return component.Input{FreeLook: true, LookX: 1}
	}))
	require.NoError(t, err)
	w.Update()

	target := w.FocusTarget()
	_, isTransform := target.(minimap.TransformSource)
	assert.False(t, isTransform)
	aim, ok := target.(minimap.AimPointSource)
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec3{4, 0, -2}, aim.AimPoint())
}

func TestCameraForwardTracksPlayerHeading(t *testing.T) {
	w, err := New(testSpec(), zerolog.Nop(), WithInput(still))
	require.NoError(t, err)

	fwd, ok := geom.FlattenXZ(w.CameraForward())
	require.True(t, ok)
	assert.True(t, fwd.ApproxEqualThreshold(geom.Forward, 1e-9), "got %v", fwd)
}

func TestVehiclesAreStableAndOrdered(t *testing.T) {
	w, err := New(testSpec(), zerolog.Nop(), WithInput(still))
	require.NoError(t, err)
	assert.Empty(t, w.Vehicles())

	a, err := w.SpawnVehicle()
	require.NoError(t, err)
	b, err := w.SpawnVehicle()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	w.Update()
	vs := w.Vehicles()
	require.Len(t, vs, 2)
	assert.Equal(t, a, vs[0].Identity())
	assert.Equal(t, b, vs[1].Identity())
	assert.True(t, geom.FiniteQuat(vs[0].WorldQuaternion()))
}

func TestSpawnVehicleWithoutTraffic(t *testing.T) {
	w, err := New(testSpec(), zerolog.Nop(), WithInput(still), WithoutTraffic())
	require.NoError(t, err)
	_, err = w.SpawnVehicle()
	assert.Error(t, err)
}

type nopSurface struct{ renders int }

func (s *nopSurface) Render(*scene.Node, scene.Camera) { s.renders++ }
func (s *nopSurface) Image() *ebiten.Image             { return nil }
func (s *nopSurface) Release()                         {}

type nopGraphics struct{ surface *nopSurface }

func (g *nopGraphics) NewSurface(int, int) (minimap.Surface, error) {
	g.surface = &nopSurface{}
	return g.surface, nil
}

func (g *nopGraphics) NewLabel(string, int, int, color.Color) (*ebiten.Image, error) {
	return nil, nil
}

type nopMount struct{}

func (nopMount) Attach(string, minimap.Surface) error { return nil }
func (nopMount) Detach(string)                        {}

func TestMinimapFollowsWorld(t *testing.T) {
	w, err := New(testSpec(), zerolog.Nop(), WithInput(func() component.Input {
		return component.Input{Move: 1}
	}))
	require.NoError(t, err)

	gfx := &nopGraphics{}
	mm, err := minimap.New(w, nopMount{}, gfx, minimap.DefaultConfig())
	require.NoError(t, err)
	defer mm.Close()

	id, err := w.SpawnVehicle()
	require.NoError(t, err)

	for range 3 {
		w.Update()
		mm.Update()
	}

	pos, _ := w.PlayerPosition()
	marker := mm.PlayerMarker()
	assert.InDelta(t, pos.X(), marker.Position.X(), 1e-9)
	assert.InDelta(t, pos.Z(), marker.Position.Z(), 1e-9)
	assert.True(t, mm.HasVehicle(id))
	assert.Equal(t, 3, gfx.surface.renders)
	assert.True(t, w.Scene().Contains(mm.Markers()))
}
