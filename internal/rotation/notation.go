package rotation

import (
	"math"

	"github.com/SeamusWaldron/cubetwist/pkg/types"
)

// MoveForLayer names a puzzle-frame layer turn: the layer at value on axis
// of an n-sized puzzle, turned quarters quarter turns counter-clockwise
// about +axis. Layers on the positive side (and the middle layer of odd
// puzzles) are named from the positive face. Returns false for a net turn
// of zero.
func MoveForLayer(n int, axis types.Axis, value float64, quarters int) (types.Move, bool) {
	half := float64(n-1) / 2
	face := types.AxisFace(axis, value >= 0)
	var depth int
	if value >= 0 {
		depth = int(math.Round(half-value)) + 1
		quarters = -quarters
	} else {
		depth = int(math.Round(value+half)) + 1
	}
	turn, ok := types.TurnFromQuarters(quarters)
	if !ok {
		return types.Move{}, false
	}
	m := types.Move{Face: face, Turn: turn}
	if depth > 1 {
		m.Depth = depth
	}
	return m, true
}
