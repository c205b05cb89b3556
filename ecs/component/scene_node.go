package component

import "github.com/milk9111/minimap/scene"

// SceneNode links an entity to its node in the shared scene graph.
type SceneNode struct {
	Node *scene.Node
	// Lift raises the node above the transform's ground position.
	Lift float64
}

var SceneNodeComponent = NewComponent[SceneNode]()
