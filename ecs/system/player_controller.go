package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/minimap/ecs"
	"github.com/milk9111/minimap/ecs/component"
	"github.com/milk9111/minimap/geom"
)

// PlayerControllerSystem moves the player kinematically on the ground plane.
type PlayerControllerSystem struct {
	// HalfWidth and HalfDepth clamp the player around the origin. Zero means
	// unbounded on that axis.
	HalfWidth float64
	HalfDepth float64
}

func NewPlayerControllerSystem() *PlayerControllerSystem {
	return &PlayerControllerSystem{}
}

func (p *PlayerControllerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach3(w, component.PlayerComponent.Kind(), component.InputComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, player *component.Player, input *component.Input, t *component.Transform) {
		player.Heading += input.Turn * player.TurnSpeed
		forward := headingForward(player.Heading)
		t.Position = t.Position.Add(forward.Mul(input.Move * player.MoveSpeed))
		t.Position[1] = 0
		if p.HalfWidth > 0 {
			t.Position[0] = mgl64.Clamp(t.Position[0], -p.HalfWidth, p.HalfWidth)
		}
		if p.HalfDepth > 0 {
			t.Position[2] = mgl64.Clamp(t.Position[2], -p.HalfDepth, p.HalfDepth)
		}
		t.Rotation = geom.YawQuat(player.Heading)
	})
}

// headingForward is the ground direction a yaw of heading faces.
func headingForward(heading float64) mgl64.Vec3 {
	return mgl64.Vec3{-math.Sin(heading), 0, -math.Cos(heading)}
}
