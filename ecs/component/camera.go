package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/minimap/scene"
)

// Camera is a third person chase rig around a target entity.
type Camera struct {
	Camera     *scene.PerspectiveCamera
	Distance   float64
	Height     float64
	Smoothness float64

	// FreeLook detaches the camera from the target heading. Yaw and Pitch
	// orbit the target while it is set.
	FreeLook bool
	Yaw      float64
	Pitch    float64

	// Aim is the ground point the camera currently looks at.
	Aim mgl64.Vec3
}

var CameraComponent = NewComponent[Camera]()
