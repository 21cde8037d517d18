// Package scene provides a minimal retained transform hierarchy: nodes with a
// local position, rotation and scale, a parent, and children. World matrices
// are computed on demand from the chain of parents.
package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Node is a transform in the hierarchy.
type Node struct {
	Name     string
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    mgl64.Vec3
	Visible  bool

	parent   *Node
	children []*Node
}

// NewNode creates an identity node.
func NewNode(name string) *Node {
	return &Node{
		Name:     name,
		Rotation: mgl64.QuatIdent(),
		Scale:    mgl64.Vec3{1, 1, 1},
		Visible:  true,
	}
}

// Parent returns the node's parent, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Len returns the number of children.
func (n *Node) Len() int {
	return len(n.children)
}

// Add appends child without touching its local transform.
// The child is removed from any previous parent first.
func (n *Node) Add(child *Node) {
	if child == nil || child == n {
		return
	}
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// Remove detaches child without touching its local transform.
func (n *Node) Remove(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// LocalMatrix returns T * R * S.
func (n *Node) LocalMatrix() mgl64.Mat4 {
	t := mgl64.Translate3D(n.Position.X(), n.Position.Y(), n.Position.Z())
	s := mgl64.Scale3D(n.Scale.X(), n.Scale.Y(), n.Scale.Z())
	return t.Mul4(n.Rotation.Mat4()).Mul4(s)
}

// WorldMatrix returns the product of every local matrix from the root down.
func (n *Node) WorldMatrix() mgl64.Mat4 {
	if n.parent == nil {
		return n.LocalMatrix()
	}
	return n.parent.WorldMatrix().Mul4(n.LocalMatrix())
}

// WorldRotation returns the accumulated rotation from the root down.
func (n *Node) WorldRotation() mgl64.Quat {
	if n.parent == nil {
		return n.Rotation
	}
	return n.parent.WorldRotation().Mul(n.Rotation).Normalize()
}

// WorldPosition returns the node origin in world space.
func (n *Node) WorldPosition() mgl64.Vec3 {
	return n.WorldMatrix().Col(3).Vec3()
}

// SetMatrix replaces the local transform with the decomposition of m.
func (n *Node) SetMatrix(m mgl64.Mat4) {
	n.Position, n.Rotation, n.Scale = Decompose(m)
}

// ApplyMatrix premultiplies the local transform by m.
func (n *Node) ApplyMatrix(m mgl64.Mat4) {
	n.SetMatrix(m.Mul4(n.LocalMatrix()))
}

// Attach reparents child under n while keeping its world transform.
// The child's world matrix is applied first, then the inverse of n's.
func (n *Node) Attach(child *Node) {
	if child == nil || child == n {
		return
	}
	world := child.WorldMatrix()
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.SetMatrix(world)
	child.ApplyMatrix(n.WorldMatrix().Inv())
	child.parent = n
	n.children = append(n.children, child)
}

// RotateOnAxis rotates the node around an axis in its own local frame.
func (n *Node) RotateOnAxis(axis mgl64.Vec3, angle float64) {
	if angle == 0 || axis.Len() == 0 {
		return
	}
	q := mgl64.QuatRotate(angle, axis.Normalize())
	n.Rotation = n.Rotation.Mul(q).Normalize()
}

// RotateOnWorldAxis rotates the node around an axis expressed in its
// parent's frame (the world frame for a root node).
func (n *Node) RotateOnWorldAxis(axis mgl64.Vec3, angle float64) {
	if angle == 0 || axis.Len() == 0 {
		return
	}
	q := mgl64.QuatRotate(angle, axis.Normalize())
	n.Rotation = q.Mul(n.Rotation).Normalize()
}

// TranslateZ moves the node along its local Z axis.
func (n *Node) TranslateZ(distance float64) {
	n.Position = n.Position.Add(n.Rotation.Rotate(mgl64.Vec3{0, 0, distance}))
}

// LookAt orients the node so its local +Z axis points at target, both in
// the parent's frame.
func (n *Node) LookAt(target mgl64.Vec3) {
	z := target.Sub(n.Position)
	if z.Len() == 0 {
		return
	}
	z = z.Normalize()
	up := mgl64.Vec3{0, 1, 0}
	if math.Abs(z.Dot(up)) > 1-1e-9 {
		up = mgl64.Vec3{0, 0, 1}
	}
	x := up.Cross(z).Normalize()
	y := z.Cross(x)
	m := mgl64.Mat4{
		x[0], x[1], x[2], 0,
		y[0], y[1], y[2], 0,
		z[0], z[1], z[2], 0,
		0, 0, 0, 1,
	}
	n.Rotation = mgl64.Mat4ToQuat(m).Normalize()
}

// LocalToWorld converts a point from the node's frame to world space.
func (n *Node) LocalToWorld(p mgl64.Vec3) mgl64.Vec3 {
	return n.WorldMatrix().Mul4x1(p.Vec4(1)).Vec3()
}

// WorldToLocal converts a world-space point into the node's frame.
func (n *Node) WorldToLocal(p mgl64.Vec3) mgl64.Vec3 {
	return n.WorldMatrix().Inv().Mul4x1(p.Vec4(1)).Vec3()
}

// WorldDirectionToLocal converts a world-space direction into the node's
// frame, ignoring translation, and normalizes it.
func (n *Node) WorldDirectionToLocal(d mgl64.Vec3) mgl64.Vec3 {
	v := n.WorldMatrix().Inv().Mul4x1(d.Vec4(0)).Vec3()
	if v.Len() == 0 {
		return v
	}
	return v.Normalize()
}

// Traverse visits n and all of its descendants depth first.
func (n *Node) Traverse(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Traverse(fn)
	}
}

// Decompose splits an affine matrix into translation, rotation and scale.
func Decompose(m mgl64.Mat4) (mgl64.Vec3, mgl64.Quat, mgl64.Vec3) {
	pos := m.Col(3).Vec3()
	cx, cy, cz := m.Col(0).Vec3(), m.Col(1).Vec3(), m.Col(2).Vec3()
	sx, sy, sz := cx.Len(), cy.Len(), cz.Len()
	if m.Mat3().Det() < 0 {
		sx = -sx
	}
	if sx == 0 || sy == 0 || sz == 0 {
		return pos, mgl64.QuatIdent(), mgl64.Vec3{sx, sy, sz}
	}
	cx, cy, cz = cx.Mul(1/sx), cy.Mul(1/sy), cz.Mul(1/sz)
	r := mgl64.Mat4{
		cx[0], cx[1], cx[2], 0,
		cy[0], cy[1], cy[2], 0,
		cz[0], cz[1], cz[2], 0,
		0, 0, 0, 1,
	}
	return pos, mgl64.Mat4ToQuat(r).Normalize(), mgl64.Vec3{sx, sy, sz}
}

// SnapRotation rounds every entry of the rotation matrix of q to -1, 0 or 1.
// Only meaningful for rotations that are already close to axis aligned.
func SnapRotation(q mgl64.Quat) mgl64.Quat {
	m := q.Mat4()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i*4+j] = math.Round(m[i*4+j])
		}
	}
	return mgl64.Mat4ToQuat(m).Normalize()
}

// EulerXYZ extracts intrinsic X, Y, Z angles from a rotation.
func EulerXYZ(q mgl64.Quat) mgl64.Vec3 {
	m := q.Mat4()
	m13 := m.At(0, 2)
	y := math.Asin(mgl64.Clamp(m13, -1, 1))
	var x, z float64
	if math.Abs(m13) < 0.9999999 {
		x = math.Atan2(-m.At(1, 2), m.At(2, 2))
		z = math.Atan2(-m.At(0, 1), m.At(0, 0))
	} else {
		x = math.Atan2(m.At(2, 1), m.At(1, 1))
	}
	return mgl64.Vec3{x, y, z}
}

// QuatFromEulerXYZ builds Rx * Ry * Rz.
func QuatFromEulerXYZ(e mgl64.Vec3) mgl64.Quat {
	qx := mgl64.QuatRotate(e[0], mgl64.Vec3{1, 0, 0})
	qy := mgl64.QuatRotate(e[1], mgl64.Vec3{0, 1, 0})
	qz := mgl64.QuatRotate(e[2], mgl64.Vec3{0, 0, 1})
	return qx.Mul(qy).Mul(qz).Normalize()
}
