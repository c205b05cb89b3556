package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/minimap/ecs"
	"github.com/milk9111/minimap/ecs/component"
	"github.com/milk9111/minimap/geom"
)

const (
	lookRate     = 0.04
	maxLookPitch = 1.2
	targetHeight = 1.5
)

// CameraSystem keeps the chase camera behind the player. While free look is
// held the camera orbits the player instead of following its heading.
type CameraSystem struct {
	camEntity    ecs.Entity
	targetEntity ecs.Entity
}

func NewCameraSystem() *CameraSystem {
	return &CameraSystem{}
}

func (cs *CameraSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	if !ecs.IsAlive(w, cs.camEntity) {
		cs.camEntity, _ = ecs.First(w, component.CameraComponent.Kind())
	}
	if !ecs.IsAlive(w, cs.targetEntity) {
		cs.targetEntity, _ = ecs.First(w, component.PlayerTagComponent.Kind())
	}

	cam, ok := ecs.Get(w, cs.camEntity, component.CameraComponent.Kind())
	if !ok || cam.Camera == nil {
		return
	}
	target, ok := ecs.Get(w, cs.targetEntity, component.TransformComponent.Kind())
	if !ok {
		return
	}

	heading, ok := geom.Yaw(target.Rotation)
	if !ok {
		heading = cam.Yaw
	}

	freeLook := false
	if input, ok := ecs.Get(w, cs.targetEntity, component.InputComponent.Kind()); ok && input.FreeLook {
		freeLook = true
		if !cam.FreeLook {
			cam.Yaw = heading
			cam.Pitch = 0
		}
		cam.Yaw += input.LookX * lookRate
		cam.Pitch = mgl64.Clamp(cam.Pitch+input.LookY*lookRate, -maxLookPitch, maxLookPitch)
	}
	cam.FreeLook = freeLook
	if !freeLook {
		cam.Yaw = heading
		cam.Pitch = 0
	}

	focus := target.Position.Add(mgl64.Vec3{0, targetHeight, 0})
	desired := focus.Add(orbitOffset(cam.Yaw, cam.Pitch, cam.Distance, cam.Height))

	smooth := cam.Smoothness
	if smooth <= 0 || smooth > 1 {
		smooth = 1
	}
	pos := cam.Camera.Position
	cam.Camera.Position = mgl64.Vec3{
		geom.Lerp(pos.X(), desired.X(), smooth),
		geom.Lerp(pos.Y(), desired.Y(), smooth),
		geom.Lerp(pos.Z(), desired.Z(), smooth),
	}
	cam.Camera.LookAt(focus)
	cam.Aim = mgl64.Vec3{target.Position.X(), 0, target.Position.Z()}
}

// orbitOffset places the camera behind a subject facing yaw, raised by
// height and tilted by pitch.
func orbitOffset(yaw, pitch, distance, height float64) mgl64.Vec3 {
	back := headingForward(yaw).Mul(-distance * math.Cos(pitch))
	return back.Add(mgl64.Vec3{0, height + distance*math.Sin(pitch), 0})
}
