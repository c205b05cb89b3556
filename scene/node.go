package scene

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// Node is a transform in the shared render graph. A node with a Geometry is
// drawn by renderers whose camera layers intersect the node's layers.
type Node struct {
	Name     string
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    mgl64.Vec3
	Layers   Layers

	Geometry  Geometry
	Color     color.Color
	DepthTest bool
	Visible   bool

	parent   *Node
	children []*Node
}

// NewNode returns a visible, depth-tested node on the default layer.
func NewNode(name string) *Node {
	return &Node{
		Name:      name,
		Rotation:  mgl64.QuatIdent(),
		Scale:     mgl64.Vec3{1, 1, 1},
		Layers:    LayerMask(DefaultLayer),
		DepthTest: true,
		Visible:   true,
	}
}

// NewGroup returns an empty node used only to parent other nodes.
func NewGroup(name string) *Node {
	return NewNode(name)
}

// NewMesh returns a node carrying geometry.
func NewMesh(name string, g Geometry, clr color.Color) *Node {
	n := NewNode(name)
	n.Geometry = g
	n.Color = clr
	return n
}

// Add reparents child under n.
func (n *Node) Add(child *Node) {
	if n == nil || child == nil || child == n {
		return
	}
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// Remove detaches child from n. It reports whether child was attached.
func (n *Node) Remove(child *Node) bool {
	if n == nil || child == nil {
		return false
	}
	for i, c := range n.children {
		if c != child {
			continue
		}
		copy(n.children[i:], n.children[i+1:])
		n.children[len(n.children)-1] = nil
		n.children = n.children[:len(n.children)-1]
		child.parent = nil
		return true
	}
	return false
}

// RemoveFromParent detaches n from its parent, if any.
func (n *Node) RemoveFromParent() bool {
	if n == nil || n.parent == nil {
		return false
	}
	return n.parent.Remove(n)
}

func (n *Node) Parent() *Node {
	if n == nil {
		return nil
	}
	return n.parent
}

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	if n == nil {
		return nil
	}
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

func (n *Node) ChildCount() int {
	if n == nil {
		return 0
	}
	return len(n.children)
}

// Contains reports whether target is n or one of its descendants.
func (n *Node) Contains(target *Node) bool {
	for p := target; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// LocalMatrix composes translation, rotation and scale.
func (n *Node) LocalMatrix() mgl64.Mat4 {
	t := mgl64.Translate3D(n.Position.X(), n.Position.Y(), n.Position.Z())
	r := n.Rotation.Normalize().Mat4()
	s := mgl64.Scale3D(n.Scale.X(), n.Scale.Y(), n.Scale.Z())
	return t.Mul4(r).Mul4(s)
}

func (n *Node) WorldMatrix() mgl64.Mat4 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}

func (n *Node) WorldPosition() mgl64.Vec3 {
	return n.WorldMatrix().Col(3).Vec3()
}

// WorldQuaternion accumulates rotations up the parent chain. Non-uniform
// parent scale is ignored.
func (n *Node) WorldQuaternion() mgl64.Quat {
	q := n.Rotation.Normalize()
	for p := n.parent; p != nil; p = p.parent {
		q = p.Rotation.Normalize().Mul(q)
	}
	return q.Normalize()
}

// Traverse visits n and its descendants depth-first in child order. Returning
// false from fn skips the node's subtree.
func (n *Node) Traverse(fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Traverse(fn)
	}
}
