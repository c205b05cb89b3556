package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
)

// Geometry is the fixed visual form of a node.
type Geometry interface {
	geometry()
}

// Mesh is geometry drawn as a filled outline in the node's local frame. The
// outline is fan-triangulated from its first vertex.
type Mesh interface {
	Geometry
	Outline() []mgl64.Vec3
}

// Cone is laid flat in the XZ plane with its tip toward -Z, so a node with
// identity rotation points forward. A notched cone reads as an arrow head.
type Cone struct {
	Radius  float64
	Height  float64
	Notched bool
}

func (Cone) geometry() {}

func (c Cone) Outline() []mgl64.Vec3 {
	half := c.Height / 2
	if !c.Notched {
		return []mgl64.Vec3{
			{0, 0, -half},
			{c.Radius, 0, half},
			{-c.Radius, 0, half},
		}
	}
	return []mgl64.Vec3{
		{0, 0, -half},
		{c.Radius, 0, half},
		{0, 0, half * 0.5},
		{-c.Radius, 0, half},
	}
}

// Box is an axis-aligned cuboid; its top face is the drawn outline.
type Box struct {
	Width  float64
	Height float64
	Depth  float64
}

func (Box) geometry() {}

func (b Box) Outline() []mgl64.Vec3 {
	w, h, d := b.Width/2, b.Height/2, b.Depth/2
	return []mgl64.Vec3{
		{-w, h, -d},
		{w, h, -d},
		{w, h, d},
		{-w, h, d},
	}
}

// Plane lies in the XZ plane.
type Plane struct {
	Width float64
	Depth float64
}

func (Plane) geometry() {}

func (p Plane) Outline() []mgl64.Vec3 {
	w, d := p.Width/2, p.Depth/2
	return []mgl64.Vec3{
		{-w, 0, -d},
		{w, 0, -d},
		{w, 0, d},
		{-w, 0, d},
	}
}

// Sprite is an image plane that always faces the camera. The node's X and Y
// scale give its size in world units.
type Sprite struct {
	Image *ebiten.Image
}

func (Sprite) geometry() {}
