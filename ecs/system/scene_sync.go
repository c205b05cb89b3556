package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/minimap/ecs"
	"github.com/milk9111/minimap/ecs/component"
)

// SceneSyncSystem copies entity transforms onto their scene nodes.
type SceneSyncSystem struct{}

func NewSceneSyncSystem() *SceneSyncSystem {
	return &SceneSyncSystem{}
}

func (s *SceneSyncSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach2(w, component.SceneNodeComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, sn *component.SceneNode, t *component.Transform) {
		if sn.Node == nil {
			return
		}
		sn.Node.Position = t.Position.Add(mgl64.Vec3{0, sn.Lift, 0})
		sn.Node.Rotation = t.Rotation
	})
}
