// Package scene provides the minimal scene-graph surface consumed by
// the particle engine: nodes with world transforms and the per-frame
// render context. The full node hierarchy, transform propagation and
// rendering live in the host application; the engine only ever asks a
// node for its current world transform.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// RenderContext carries the per-frame state handed to emitters by the
// render loop.
type RenderContext struct {
	// TimeMs is the render-context time in milliseconds. Emitters
	// measure all durations and delays against this clock; if frames
	// are not delivered, emitter time does not advance.
	TimeMs float64
}

// Node is a scene-graph node with a local TRS transform. Nodes own the
// emitters attached to them; emitters hold only a non-owning reference
// back and must tolerate the node being destroyed first.
type Node struct {
	position mgl32.Vec3
	rotation mgl32.Quat
	scale    mgl32.Vec3

	parent    *Node
	destroyed bool
}

// NewNode creates a node at the origin with identity rotation and
// unit scale.
func NewNode() *Node {
	return &Node{
		rotation: mgl32.QuatIdent(),
		scale:    mgl32.Vec3{1, 1, 1},
	}
}

// SetParent re-parents the node. A nil parent makes the node a root.
func (n *Node) SetParent(parent *Node) {
	n.parent = parent
}

// SetPosition sets the node's local position.
func (n *Node) SetPosition(p mgl32.Vec3) {
	n.position = p
}

// Position returns the node's local position.
func (n *Node) Position() mgl32.Vec3 {
	return n.position
}

// SetRotation sets the node's local rotation.
func (n *Node) SetRotation(q mgl32.Quat) {
	n.rotation = q
}

// SetScale sets the node's local scale.
func (n *Node) SetScale(s mgl32.Vec3) {
	n.scale = s
}

// Destroy marks the node as torn down. Subsequent transform queries
// report the node as absent, which attached emitters rely on to avoid
// dereferencing a dead host.
func (n *Node) Destroy() {
	n.destroyed = true
	n.parent = nil
}

// WorldTransform returns the node's local-to-world matrix. ok is false
// when this node, or any ancestor, has been destroyed.
func (n *Node) WorldTransform() (mgl32.Mat4, bool) {
	if n == nil || n.destroyed {
		return mgl32.Ident4(), false
	}
	local := mgl32.Translate3D(n.position.X(), n.position.Y(), n.position.Z()).
		Mul4(n.rotation.Mat4()).
		Mul4(mgl32.Scale3D(n.scale.X(), n.scale.Y(), n.scale.Z()))
	if n.parent == nil {
		return local, true
	}
	parentWorld, ok := n.parent.WorldTransform()
	if !ok {
		return mgl32.Ident4(), false
	}
	return parentWorld.Mul4(local), true
}

// WorldPosition returns the node's position in world space. ok is
// false when the node is absent.
func (n *Node) WorldPosition() (mgl32.Vec3, bool) {
	world, ok := n.WorldTransform()
	if !ok {
		return mgl32.Vec3{}, false
	}
	return world.Col(3).Vec3(), true
}
