package system

import (
	"github.com/milk9111/minimap/ecs"
	"github.com/milk9111/minimap/ecs/component"
)

// TTLSystem decrements tick-based TTL components and destroys entities,
// detaching their scene nodes, when the TTL reaches zero.
type TTLSystem struct{}

func NewTTLSystem() *TTLSystem {
	return &TTLSystem{}
}

func (s *TTLSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.TTLComponent.Kind(), func(e ecs.Entity, ttl *component.TTL) {
		if ttl.Frames > 0 {
			ttl.Frames--
			if ttl.Frames > 0 {
				return
			}
		}

		if sn, ok := ecs.Get(w, e, component.SceneNodeComponent.Kind()); ok && sn.Node != nil {
			sn.Node.RemoveFromParent()
		}
		ecs.DestroyEntity(w, e)
	})
}
