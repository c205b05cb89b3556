package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/minimap/ecs"
	"github.com/milk9111/minimap/ecs/component"
	"github.com/milk9111/minimap/geom"
)

const (
	physicsStep     = 1.0 / 60.0
	vehicleTurnRate = 1.2
)

// PhysicsSystem simulates vehicles on the ground plane. Chipmunk's X axis is
// world X and its Y axis is world Z; a body angle of a is a world yaw of -a.
type PhysicsSystem struct {
	space  *cp.Space
	bodies map[ecs.Entity]*component.PhysicsBody
}

func NewPhysicsSystem(damping float64) *PhysicsSystem {
	space := cp.NewSpace()
	space.Iterations = 10
	space.SetGravity(cp.Vector{})
	if damping > 0 && damping <= 1 {
		space.SetDamping(damping)
	}
	return &PhysicsSystem{
		space:  space,
		bodies: make(map[ecs.Entity]*component.PhysicsBody),
	}
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

// BodyCount is the number of bodies currently in the space.
func (ps *PhysicsSystem) BodyCount() int {
	if ps == nil {
		return 0
	}
	return len(ps.bodies)
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}

	ps.removeStale(w)
	ps.syncEntities(w)
	ps.drive(w)

	ps.space.Step(physicsStep)

	ps.syncTransforms(w)
}

func (ps *PhysicsSystem) removeStale(w *ecs.World) {
	for e, body := range ps.bodies {
		if ecs.IsAlive(w, e) && ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) {
			continue
		}
		if body.Shape != nil {
			ps.space.RemoveShape(body.Shape)
		}
		if body.Body != nil {
			ps.space.RemoveBody(body.Body)
		}
		body.Body, body.Shape = nil, nil
		delete(ps.bodies, e)
	}
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, body *component.PhysicsBody, t *component.Transform) {
		if body.Body != nil {
			return
		}

		mass := body.Mass
		if mass <= 0 {
			mass = 1
		}
		moment := cp.MomentForBox(mass, body.Width, body.Length)
		cpBody := ps.space.AddBody(cp.NewBody(mass, moment))
		cpBody.SetPosition(cp.Vector{X: t.Position.X(), Y: t.Position.Z()})
		if yaw, ok := geom.Yaw(t.Rotation); ok {
			cpBody.SetAngle(-yaw)
		}

		shape := ps.space.AddShape(cp.NewBox(cpBody, body.Width, body.Length, 0))
		shape.SetFriction(0.7)

		body.Body = cpBody
		body.Shape = shape
		ps.bodies[e] = body
	})
}

func (ps *PhysicsSystem) drive(w *ecs.World) {
	ecs.ForEach2(w, component.VehicleComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, v *component.Vehicle, body *component.PhysicsBody) {
		if body.Body == nil {
			return
		}

		angle := body.Body.Angle()
		forward := cp.Vector{X: math.Sin(angle), Y: -math.Cos(angle)}
		speed := v.Throttle * v.MaxSpeed
		body.Body.SetVelocityVector(forward.Mult(speed))
		body.Body.SetAngularVelocity(-v.Steer * vehicleTurnRate * v.Throttle)
		v.Ticks++
	})
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, body *component.PhysicsBody, t *component.Transform) {
		if body.Body == nil {
			return
		}
		pos := body.Body.Position()
		t.Position[0] = pos.X
		t.Position[2] = pos.Y
		t.Rotation = geom.YawQuat(-body.Body.Angle())
	})
}
