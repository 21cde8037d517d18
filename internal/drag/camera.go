package drag

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Ray is a half line in world space.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// At returns the point at parameter t.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Camera turns a point in normalized device coordinates into a world ray.
type Camera interface {
	Ray(ndc mgl64.Vec2) Ray
}

// PerspectiveCamera is a pinhole camera looking at Target.
type PerspectiveCamera struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3
	Up       mgl64.Vec3
	FovY     float64 // degrees
	Aspect   float64
	Near     float64
	Far      float64
}

// DefaultCamera frames a puzzle whose holder is scaled by scale.
func DefaultCamera(scale float64) *PerspectiveCamera {
	d := 4 * math.Max(scale, 1)
	return &PerspectiveCamera{
		Position: mgl64.Vec3{d, d, d},
		Up:       mgl64.Vec3{0, 1, 0},
		FovY:     30,
		Aspect:   1,
		Near:     0.1,
		Far:      1000,
	}
}

// Ray unprojects ndc through the near and far planes.
func (c *PerspectiveCamera) Ray(ndc mgl64.Vec2) Ray {
	proj := mgl64.Perspective(mgl64.DegToRad(c.FovY), c.Aspect, c.Near, c.Far)
	view := mgl64.LookAtV(c.Position, c.Target, c.Up)
	inv := proj.Mul4(view).Inv()

	near := inv.Mul4x1(mgl64.Vec4{ndc.X(), ndc.Y(), -1, 1})
	far := inv.Mul4x1(mgl64.Vec4{ndc.X(), ndc.Y(), 1, 1})
	n := near.Vec3().Mul(1 / near.W())
	f := far.Vec3().Mul(1 / far.W())
	return Ray{Origin: n, Direction: f.Sub(n).Normalize()}
}

// Project maps a world point to normalized device coordinates.
func (c *PerspectiveCamera) Project(p mgl64.Vec3) mgl64.Vec2 {
	proj := mgl64.Perspective(mgl64.DegToRad(c.FovY), c.Aspect, c.Near, c.Far)
	view := mgl64.LookAtV(c.Position, c.Target, c.Up)
	v := proj.Mul4(view).Mul4x1(p.Vec4(1))
	return mgl64.Vec2{v.X() / v.W(), v.Y() / v.W()}
}

// ToNDC converts a pixel position inside a width×height viewport to
// normalized device coordinates, y up.
func ToNDC(x, y, width, height float64) mgl64.Vec2 {
	if width <= 0 || height <= 0 {
		return mgl64.Vec2{}
	}
	return mgl64.Vec2{x/width*2 - 1, -(y/height)*2 + 1}
}
