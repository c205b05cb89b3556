package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/minimap/geom"
)

// Camera supplies the transforms a renderer needs to draw the graph.
type Camera interface {
	ViewProjection() mgl64.Mat4
	CameraLayers() Layers
	// Basis returns the camera's world-space right, up and forward axes.
	Basis() (right, up, forward mgl64.Vec3)
}

type cameraBase struct {
	Position mgl64.Vec3
	// Up is the reference used to roll the view around its forward axis.
	Up     mgl64.Vec3
	Layers Layers

	target mgl64.Vec3
}

func newCameraBase() cameraBase {
	return cameraBase{
		Up:     geom.Up,
		Layers: LayerMask(DefaultLayer),
		target: geom.Forward,
	}
}

// LookAt aims the camera at a world point using the current Up.
func (c *cameraBase) LookAt(target mgl64.Vec3) {
	c.target = target
}

func (c *cameraBase) Target() mgl64.Vec3 {
	return c.target
}

// WorldDirection is the unit vector the camera looks along.
func (c *cameraBase) WorldDirection() mgl64.Vec3 {
	d := c.target.Sub(c.Position)
	if d.Len() < geom.Epsilon {
		return geom.Forward
	}
	return d.Normalize()
}

func (c *cameraBase) CameraLayers() Layers {
	return c.Layers
}

func (c *cameraBase) Basis() (right, up, forward mgl64.Vec3) {
	forward = c.WorldDirection()
	ref := c.referenceUp(forward)
	right = forward.Cross(ref).Normalize()
	up = right.Cross(forward)
	return right, up, forward
}

// referenceUp returns Up, or a substitute when Up is parallel to forward.
func (c *cameraBase) referenceUp(forward mgl64.Vec3) mgl64.Vec3 {
	up := c.Up
	if up.Len() < geom.Epsilon || forward.Cross(up).Len() < geom.Epsilon {
		up = geom.Forward
		if forward.Cross(up).Len() < geom.Epsilon {
			up = geom.Up
		}
	}
	return up
}

func (c *cameraBase) view() mgl64.Mat4 {
	forward := c.WorldDirection()
	return mgl64.LookAtV(c.Position, c.Position.Add(forward), c.referenceUp(forward))
}

// OrthographicCamera projects along its forward axis without perspective.
type OrthographicCamera struct {
	cameraBase

	Left, Right float64
	Top, Bottom float64
	Near, Far   float64
}

func NewOrthographicCamera(left, right, top, bottom, near, far float64) *OrthographicCamera {
	return &OrthographicCamera{
		cameraBase: newCameraBase(),
		Left:       left,
		Right:      right,
		Top:        top,
		Bottom:     bottom,
		Near:       near,
		Far:        far,
	}
}

func (c *OrthographicCamera) Projection() mgl64.Mat4 {
	return mgl64.Ortho(c.Left, c.Right, c.Bottom, c.Top, c.Near, c.Far)
}

func (c *OrthographicCamera) ViewProjection() mgl64.Mat4 {
	return c.Projection().Mul4(c.view())
}

// PerspectiveCamera is the primary view camera of a host world.
type PerspectiveCamera struct {
	cameraBase

	// FovY is the vertical field of view in radians.
	FovY      float64
	Aspect    float64
	Near, Far float64
}

func NewPerspectiveCamera(fovY, aspect, near, far float64) *PerspectiveCamera {
	return &PerspectiveCamera{
		cameraBase: newCameraBase(),
		FovY:       fovY,
		Aspect:     aspect,
		Near:       near,
		Far:        far,
	}
}

func (c *PerspectiveCamera) Projection() mgl64.Mat4 {
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	return mgl64.Perspective(c.FovY, aspect, c.Near, c.Far)
}

func (c *PerspectiveCamera) ViewProjection() mgl64.Mat4 {
	return c.Projection().Mul4(c.view())
}

// Project maps a world point to pixel coordinates on a width×height target.
// depth is the normalized device depth in [-1, 1]; ok is false for points
// behind a perspective camera or outside the depth range.
func Project(cam Camera, p mgl64.Vec3, width, height int) (x, y, depth float64, ok bool) {
	clip := cam.ViewProjection().Mul4x1(p.Vec4(1))
	if clip.W() <= geom.Epsilon {
		return 0, 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	if math.IsNaN(ndc.X()) || ndc.Z() < -1 || ndc.Z() > 1 {
		return 0, 0, 0, false
	}
	x = (ndc.X() + 1) / 2 * float64(width)
	y = (1 - ndc.Y()) / 2 * float64(height)
	return x, y, ndc.Z(), true
}
