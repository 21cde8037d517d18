// Package layer resolves which cubies make up a layer and moves them in and
// out of the selection group.
package layer

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/SeamusWaldron/cubetwist/internal/model"
	"github.com/SeamusWaldron/cubetwist/pkg/types"
)

// Tolerance for comparing grid coordinates.
const Tolerance = 1e-6

// Layer errors.
var (
	ErrUnknownLayer = errors.New("layer: unknown face or layer label")
	ErrEmptyLayer   = errors.New("layer: no cubies on layer")
	ErrBadLayer     = errors.New("layer: layer failed validation")
)

// Resolver maps grid coordinates and face labels to sets of cubies.
type Resolver struct {
	model *model.Model
	log   logrus.FieldLogger
}

// NewResolver creates a resolver over m.
func NewResolver(m *model.Model, log logrus.FieldLogger) *Resolver {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Resolver{model: m, log: log}
}

// Model returns the underlying model.
func (r *Resolver) Model() *model.Model { return r.model }

// GridPosition returns the cubie's current grid coordinate.
func (r *Resolver) GridPosition(c *model.Cubie) [3]float64 {
	return r.model.GridPosition(c)
}

// MainAxis returns the axis of v's largest component.
func MainAxis(v [3]float64) types.Axis {
	return types.MainAxis(v)
}

// Members returns the indices of every cubie whose grid coordinate on axis
// equals value. An empty result is logged as a warning.
func (r *Resolver) Members(axis types.Axis, value float64) []int {
	var out []int
	for _, c := range r.model.Cubies() {
		p := r.model.GridPosition(c)
		if math.Abs(p[axis]-value) < Tolerance {
			out = append(out, c.Index)
		}
	}
	if len(out) == 0 {
		r.log.WithFields(logrus.Fields{"axis": axis, "value": value}).Warn("layer: empty layer match")
	}
	return out
}

// MembersAt returns the layer through the cubie at index i along axis,
// using the cubie's current grid position.
func (r *Resolver) MembersAt(i int, axis types.Axis) []int {
	c := r.model.Cubie(i)
	if c == nil {
		return nil
	}
	return r.Members(axis, r.model.GridPosition(c)[axis])
}

// Values returns every layer coordinate of an axis in ascending order.
// Axes are symmetric, so this is the same set for all three.
func (r *Resolver) Values() []float64 {
	n := r.model.Dimensions()
	half := float64(n-1) / 2
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) - half
	}
	return out
}

// ClosestValue returns the layer coordinate nearest to v.
func (r *Resolver) ClosestValue(v float64) float64 {
	best := 0.0
	bestDist := math.Inf(1)
	for _, lv := range r.Values() {
		if d := math.Abs(lv - v); d < bestDist {
			best, bestDist = lv, d
		}
	}
	return best
}

// Validate checks that a layer has N² members all on value.
func (r *Resolver) Validate(members []int, axis types.Axis, value float64) error {
	n := r.model.Dimensions()
	if len(members) != n*n {
		return fmt.Errorf("%w: %s=%g has %d cubies, want %d", ErrBadLayer, axis, value, len(members), n*n)
	}
	for _, i := range members {
		c := r.model.Cubie(i)
		if c == nil {
			return fmt.Errorf("%w: cubie %d out of range", ErrBadLayer, i)
		}
		if p := r.model.GridPosition(c); math.Abs(p[axis]-value) >= Tolerance {
			return fmt.Errorf("%w: cubie %d at %s=%g, want %g", ErrBadLayer, i, axis, p[axis], value)
		}
	}
	return nil
}
