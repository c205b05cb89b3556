package minimap

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// Layer is the render layer reserved for minimap markers.
const Layer = 1

type Config struct {
	// Size is the logical edge length of the square surface in pixels.
	Size int
	// PixelRatio multiplies Size to get the device pixel size.
	PixelRatio float64
	// Zoom is the half extent of the visible square in world units.
	Zoom float64

	Near         float64
	Far          float64
	CameraHeight float64
	Layer        int

	PlayerElevation  float64
	VehicleElevation float64
	SpawnOffset      float64
	// Spawn is the ground position of the spawn landmark.
	Spawn mgl64.Vec3

	Label        string
	LabelColor   color.Color
	PlayerColor  color.Color
	VehicleColor color.Color
}

func DefaultConfig() Config {
	return Config{
		Size:             200,
		PixelRatio:       1,
		Zoom:             20,
		Near:             1,
		Far:              1000,
		CameraHeight:     100,
		Layer:            Layer,
		PlayerElevation:  20,
		VehicleElevation: 15,
		SpawnOffset:      10,
		Label:            "SPAWN",
		LabelColor:       color.NRGBA{R: 0xff, G: 0xcc, A: 0xff},
		PlayerColor:      color.NRGBA{G: 0xff, A: 0xff},
		VehicleColor:     color.NRGBA{R: 0xff, A: 0xff},
	}
}

// withDefaults fills zero fields from DefaultConfig, elevations and the spawn
// offset included.
func (c Config) withDefaults() Config {
	c = c.withSurfaceDefaults()
	d := DefaultConfig()
	if c.PlayerElevation == 0 {
		c.PlayerElevation = d.PlayerElevation
	}
	if c.VehicleElevation == 0 {
		c.VehicleElevation = d.VehicleElevation
	}
	if c.SpawnOffset == 0 {
		c.SpawnOffset = d.SpawnOffset
	}
	return c
}

// withSurfaceDefaults is withDefaults without the elevations and the spawn
// offset, which keep whatever c holds.
func (c Config) withSurfaceDefaults() Config {
	d := DefaultConfig()
	if c.Size <= 0 {
		c.Size = d.Size
	}
	if c.PixelRatio <= 0 {
		c.PixelRatio = d.PixelRatio
	}
	if c.Zoom <= 0 {
		c.Zoom = d.Zoom
	}
	if c.Near <= 0 {
		c.Near = d.Near
	}
	if c.Far <= c.Near {
		c.Far = d.Far
	}
	if c.CameraHeight <= 0 {
		c.CameraHeight = d.CameraHeight
	}
	if c.Layer <= 0 || c.Layer > 31 {
		c.Layer = d.Layer
	}
	if c.Label == "" {
		c.Label = d.Label
	}
	if c.LabelColor == nil {
		c.LabelColor = d.LabelColor
	}
	if c.PlayerColor == nil {
		c.PlayerColor = d.PlayerColor
	}
	if c.VehicleColor == nil {
		c.VehicleColor = d.VehicleColor
	}
	return c
}

// PixelSize is the device pixel edge length of the surface.
func (c Config) PixelSize() int {
	px := int(float64(c.Size)*c.PixelRatio + 0.5)
	if px < 1 {
		px = 1
	}
	return px
}
