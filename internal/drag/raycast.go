package drag

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/SeamusWaldron/cubetwist/internal/scene"
)

// ProxyScale is the size of the invisible hit box relative to the puzzle.
// Slightly smaller than the puzzle so grazing rays count as misses.
const ProxyScale = 0.95

// Hit is a ray intersection in a node's local frame.
type Hit struct {
	T      float64
	Point  mgl64.Vec3
	Normal mgl64.Vec3 // Outward normal of the face that was entered
}

// localRay re-expresses a world ray in n's frame. The direction keeps any
// scale so T values stay comparable across boxes in the same frame.
func localRay(n *scene.Node, r Ray) Ray {
	inv := n.WorldMatrix().Inv()
	return Ray{
		Origin:    inv.Mul4x1(r.Origin.Vec4(1)).Vec3(),
		Direction: inv.Mul4x1(r.Direction.Vec4(0)).Vec3(),
	}
}

// intersectBox runs a slab test against an axis-aligned box.
func intersectBox(r Ray, center mgl64.Vec3, half float64) (Hit, bool) {
	tmin, tmax := math.Inf(-1), math.Inf(1)
	entry := -1
	entrySign := 0.0
	for a := 0; a < 3; a++ {
		lo, hi := center[a]-half, center[a]+half
		if r.Direction[a] == 0 {
			if r.Origin[a] < lo || r.Origin[a] > hi {
				return Hit{}, false
			}
			continue
		}
		t1 := (lo - r.Origin[a]) / r.Direction[a]
		t2 := (hi - r.Origin[a]) / r.Direction[a]
		sign := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1
		}
		if t1 > tmin {
			tmin = t1
			entry = a
			entrySign = sign
		}
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return Hit{}, false
		}
	}
	if entry < 0 || tmin < 0 {
		return Hit{}, false
	}
	var n mgl64.Vec3
	n[entry] = entrySign
	return Hit{T: tmin, Point: r.At(tmin), Normal: n}, true
}

// intersectPlane intersects a ray with the z=0 plane of n's frame and
// returns the point in that frame.
func intersectPlane(n *scene.Node, r Ray) (mgl64.Vec3, bool) {
	lr := localRay(n, r)
	if math.Abs(lr.Direction.Z()) < 1e-12 {
		return mgl64.Vec3{}, false
	}
	t := -lr.Origin.Z() / lr.Direction.Z()
	if t < 0 {
		return mgl64.Vec3{}, false
	}
	p := lr.At(t)
	p[2] = 0
	return p, true
}
