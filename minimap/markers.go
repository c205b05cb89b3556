package minimap

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/minimap/scene"
)

const (
	labelWidth  = 512
	labelHeight = 256
)

var (
	spawnScale  = mgl64.Vec3{15, 7.5, 1}
	playerScale = mgl64.Vec3{1.5, 1.5, 1.5}
	playerShape = scene.Cone{Radius: 1, Height: 4, Notched: true}
	vehicleBox  = scene.Box{Width: 2, Height: 1, Depth: 4}
)

// tagMarker puts n on the minimap layer only and draws it over everything.
func (m *MiniMap) tagMarker(n *scene.Node) {
	n.Layers.Set(m.cfg.Layer)
	n.DepthTest = false
}

func (m *MiniMap) createSpawnMarker(gfx Graphics) error {
	img, err := gfx.NewLabel(m.cfg.Label, labelWidth, labelHeight, m.cfg.LabelColor)
	if err != nil {
		return fmt.Errorf("minimap: create spawn label: %w", err)
	}

	n := scene.NewNode("spawn-marker")
	n.Geometry = scene.Sprite{Image: img}
	n.Scale = spawnScale
	n.Position = m.cfg.Spawn.Add(mgl64.Vec3{0, m.cfg.SpawnOffset, 0})
	m.tagMarker(n)

	m.spawnMarker = n
	m.markers.Add(n)
	return nil
}

func (m *MiniMap) createPlayerMarker() {
	n := scene.NewMesh("player-marker", playerShape, m.cfg.PlayerColor)
	n.Scale = playerScale
	n.Position = mgl64.Vec3{0, m.cfg.PlayerElevation, 0}
	m.tagMarker(n)

	m.playerMarker = n
	m.markers.Add(n)
}

func (m *MiniMap) newVehicleMarker(id string) *scene.Node {
	n := scene.NewMesh("vehicle-marker:"+id, vehicleBox, m.cfg.VehicleColor)
	n.Position = mgl64.Vec3{0, m.cfg.VehicleElevation, 0}
	m.tagMarker(n)
	m.markers.Add(n)
	return n
}

// SetSpawnPoint moves the spawn landmark to a ground position. The marker is
// always raised by the spawn offset so it stays above terrain.
func (m *MiniMap) SetSpawnPoint(position mgl64.Vec3) {
	if m == nil || m.spawnMarker == nil {
		return
	}
	m.cfg.Spawn = position
	m.spawnMarker.Position = position.Add(mgl64.Vec3{0, m.cfg.SpawnOffset, 0})
	m.log.Debug().
		Float64("x", position.X()).
		Float64("y", position.Y()).
		Float64("z", position.Z()).
		Msg("spawn point moved")
}

// ApplyConfig retunes zoom, elevations and marker colors at runtime. Surface
// size, pixel ratio, label text and layer are fixed at construction. Zero
// elevations and a zero spawn offset are applied as given.
func (m *MiniMap) ApplyConfig(cfg Config) {
	if m == nil || m.closed {
		return
	}
	cfg = cfg.withSurfaceDefaults()
	cfg.Size = m.cfg.Size
	cfg.PixelRatio = m.cfg.PixelRatio
	cfg.Label = m.cfg.Label
	cfg.Layer = m.cfg.Layer
	m.cfg = cfg

	d := cfg.Zoom
	m.camera.Left, m.camera.Right = -d, d
	m.camera.Top, m.camera.Bottom = d, -d
	m.camera.Near, m.camera.Far = cfg.Near, cfg.Far
	m.camera.Position[1] = cfg.CameraHeight

	m.playerMarker.Position[1] = cfg.PlayerElevation
	m.playerMarker.Color = cfg.PlayerColor
	for _, n := range m.vehicleMarkers {
		n.Position[1] = cfg.VehicleElevation
		n.Color = cfg.VehicleColor
	}
	m.SetSpawnPoint(cfg.Spawn)
}
