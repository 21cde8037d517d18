package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// approxVec compares componentwise with an absolute tolerance.
func approxVec(t *testing.T, want, got mgl64.Vec3) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], 1e-9, "want %v, got %v", want, got)
}

func approxMat(t *testing.T, want, got mgl64.Mat4) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], 1e-9, "want %v, got %v", want, got)
}

func TestWorldMatrixChain(t *testing.T) {
	root := NewNode("root")
	root.Position = mgl64.Vec3{1, 0, 0}
	child := NewNode("child")
	child.Position = mgl64.Vec3{0, 2, 0}
	root.Add(child)

	approxVec(t, mgl64.Vec3{1, 2, 0}, child.WorldPosition())

	root.RotateOnAxis(mgl64.Vec3{0, 0, 1}, math.Pi/2)
	// (0,2,0) rotated 90 about Z is (-2,0,0), then translated by (1,0,0).
	approxVec(t, mgl64.Vec3{-1, 0, 0}, child.WorldPosition())
}

func TestAttachPreservesWorldTransform(t *testing.T) {
	root := NewNode("root")
	root.RotateOnAxis(mgl64.Vec3{0, 1, 0}, math.Pi/2)
	a := NewNode("a")
	b := NewNode("b")
	b.Position = mgl64.Vec3{3, 0, 0}
	b.RotateOnAxis(mgl64.Vec3{1, 0, 0}, 0.3)
	root.Add(a)
	root.Add(b)

	a.RotateOnAxis(mgl64.Vec3{0, 0, 1}, 0.7)
	a.Position = mgl64.Vec3{0, 1, 0}

	before := b.WorldMatrix()
	a.Attach(b)
	require.Equal(t, a, b.Parent())
	approxMat(t, before, b.WorldMatrix())

	root.Attach(b)
	require.Equal(t, root, b.Parent())
	approxMat(t, before, b.WorldMatrix())
	assert.Equal(t, 0, a.Len())
	assert.Equal(t, 2, root.Len())
}

func TestRotateOnWorldAxisMatchesLocalForRoot(t *testing.T) {
	n := NewNode("n")
	n.RotateOnWorldAxis(mgl64.Vec3{0, 1, 0}, math.Pi/2)
	approxVec(t, mgl64.Vec3{0, 0, -1}, n.LocalToWorld(mgl64.Vec3{1, 0, 0}))
}

func TestWorldToLocalRoundTrip(t *testing.T) {
	root := NewNode("root")
	root.Position = mgl64.Vec3{0.5, -1, 2}
	root.RotateOnAxis(mgl64.Vec3{1, 1, 0}, 1.1)
	p := mgl64.Vec3{0.2, 0.4, -0.9}
	approxVec(t, p, root.WorldToLocal(root.LocalToWorld(p)))
}

func TestLookAtPointsZ(t *testing.T) {
	n := NewNode("plane")
	n.LookAt(mgl64.Vec3{1, 0, 0})
	approxVec(t, mgl64.Vec3{1, 0, 0}, n.Rotation.Rotate(mgl64.Vec3{0, 0, 1}))

	n = NewNode("plane")
	n.LookAt(mgl64.Vec3{0, 1, 0})
	approxVec(t, mgl64.Vec3{0, 1, 0}, n.Rotation.Rotate(mgl64.Vec3{0, 0, 1}))
}

func TestSnapRotation(t *testing.T) {
	q := mgl64.QuatRotate(math.Pi/2+0.001, mgl64.Vec3{0, 0, 1})
	s := SnapRotation(q)
	approxVec(t, mgl64.Vec3{0, 1, 0}, s.Rotate(mgl64.Vec3{1, 0, 0}))
}

func TestEulerRoundTrip(t *testing.T) {
	e := mgl64.Vec3{0.3, -0.6, 1.2}
	got := EulerXYZ(QuatFromEulerXYZ(e))
	approxVec(t, e, got)
}

func TestApproxVecToleratesZeroResidue(t *testing.T) {
	// A quarter turn about Y leaves a rounding residue where X should be 0.
	got := mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0}).Rotate(mgl64.Vec3{0, 0, 1})
	approxVec(t, mgl64.Vec3{1, 0, 0}, got)
	approxVec(t, mgl64.Vec3{0, 0, -1}, mgl64.Vec3{2.220446049250313e-16, 0, -1})
}
