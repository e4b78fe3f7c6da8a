// Package scene is a small retained-mode 3D scene graph.
//
// Nodes carry a local transform (position, unit-quaternion rotation, scale)
// and an ordered list of children. World transforms are composed on demand
// by walking up the parent chain; nothing is cached, so mutating a node is
// visible to the next render without any invalidation step.
//
// Axis convention: right handed, +Y up, cameras look down their local -Z.
package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Object is anything that can live in the graph.
type Object interface {
	Base() *Node
}

var (
	AxisX = mgl64.Vec3{1, 0, 0}
	AxisY = mgl64.Vec3{0, 1, 0}
	AxisZ = mgl64.Vec3{0, 0, 1}
)

// Node is the transform and hierarchy shared by every object.
type Node struct {
	Name     string
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    mgl64.Vec3
	Visible  bool

	parent   *Node
	children []Object
}

// NewNode returns a visible node with an identity transform.
func NewNode(name string) Node {
	return Node{
		Name:     name,
		Rotation: mgl64.QuatIdent(),
		Scale:    mgl64.Vec3{1, 1, 1},
		Visible:  true,
	}
}

// Base returns n itself.
func (n *Node) Base() *Node { return n }

// Parent returns the node n is attached to, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns n's direct children in insertion order. The slice must
// not be modified.
func (n *Node) Children() []Object { return n.children }

// Add attaches objects as children of n, detaching each from any previous
// parent first. Adding n to itself is a no-op.
func (n *Node) Add(objects ...Object) {
	for _, o := range objects {
		child := o.Base()
		if child == n {
			continue
		}
		if child.parent != nil {
			child.parent.remove(child)
		}
		child.parent = n
		n.children = append(n.children, o)
	}
}

func (n *Node) remove(child *Node) {
	for i, c := range n.children {
		if c.Base() == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// RotateOnAxis rotates n by angle radians about a unit axis expressed in
// n's local space.
func (n *Node) RotateOnAxis(axis mgl64.Vec3, angle float64) {
	q := mgl64.QuatRotate(angle, axis)
	n.Rotation = n.Rotation.Mul(q).Normalize()
}

// RotateX rotates n about its local X axis.
func (n *Node) RotateX(angle float64) { n.RotateOnAxis(AxisX, angle) }

// RotateY rotates n about its local Y axis.
func (n *Node) RotateY(angle float64) { n.RotateOnAxis(AxisY, angle) }

// RotateZ rotates n about its local Z axis.
func (n *Node) RotateZ(angle float64) { n.RotateOnAxis(AxisZ, angle) }

// Matrix returns the local transform T·R·S.
func (n *Node) Matrix() mgl64.Mat4 {
	t := mgl64.Translate3D(n.Position[0], n.Position[1], n.Position[2])
	s := mgl64.Scale3D(n.Scale[0], n.Scale[1], n.Scale[2])
	return t.Mul4(n.Rotation.Mat4()).Mul4(s)
}

// WorldMatrix returns the transform from n's local space to world space.
func (n *Node) WorldMatrix() mgl64.Mat4 {
	m := n.Matrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.Matrix().Mul4(m)
	}
	return m
}

// WorldPosition returns n's origin in world space.
func (n *Node) WorldPosition() mgl64.Vec3 {
	return n.WorldMatrix().Col(3).Vec3()
}

// Traverse calls fn for o and every descendant, depth first, parents
// before children.
func Traverse(o Object, fn func(Object)) {
	fn(o)
	for _, c := range o.Base().children {
		Traverse(c, fn)
	}
}

// TraverseVisible is Traverse that skips invisible subtrees.
func TraverseVisible(o Object, fn func(Object)) {
	if !o.Base().Visible {
		return
	}
	fn(o)
	for _, c := range o.Base().children {
		TraverseVisible(c, fn)
	}
}

// AngleAbout returns the rotation angle of q about a unit axis, wrapped to
// [0, 2π). It is exact for rotations purely about that axis.
func AngleAbout(q mgl64.Quat, axis mgl64.Vec3) float64 {
	a := 2 * math.Atan2(q.V.Dot(axis), q.W)
	return WrapAngle(a)
}

// WrapAngle maps a to [0, 2π).
func WrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	if a >= 2*math.Pi {
		a = 0
	}
	return a
}
