// Package types contains shared type definitions for the cubetwist puzzle core.
package types

import (
	"fmt"
	"math"
)

// Face represents a cube face in standard notation.
type Face string

const (
	FaceR Face = "R" // Right
	FaceL Face = "L" // Left
	FaceU Face = "U" // Up
	FaceD Face = "D" // Down
	FaceF Face = "F" // Front
	FaceB Face = "B" // Back
)

// Faces lists the six faces in serialization order.
var Faces = []Face{FaceU, FaceR, FaceF, FaceD, FaceL, FaceB}

// Valid reports whether f is one of the six faces.
func (f Face) Valid() bool {
	switch f {
	case FaceR, FaceL, FaceU, FaceD, FaceF, FaceB:
		return true
	}
	return false
}

// Axis returns the axis the face is perpendicular to.
func (f Face) Axis() Axis {
	switch f {
	case FaceR, FaceL:
		return AxisX
	case FaceU, FaceD:
		return AxisY
	default:
		return AxisZ
	}
}

// Sign returns +1 for faces on the positive side of their axis (R, U, F)
// and -1 for the others.
func (f Face) Sign() float64 {
	switch f {
	case FaceR, FaceU, FaceF:
		return 1
	default:
		return -1
	}
}

// Normal returns the outward unit normal of the face as x, y, z.
func (f Face) Normal() [3]float64 {
	var n [3]float64
	n[f.Axis()] = f.Sign()
	return n
}

// Opposite returns the face on the other side of the same axis.
func (f Face) Opposite() Face {
	switch f {
	case FaceR:
		return FaceL
	case FaceL:
		return FaceR
	case FaceU:
		return FaceD
	case FaceD:
		return FaceU
	case FaceF:
		return FaceB
	default:
		return FaceF
	}
}

// FaceFromNormal maps an axis-aligned direction to the face it points at.
// Returns false when the vector is zero.
func FaceFromNormal(x, y, z float64) (Face, bool) {
	v := [3]float64{x, y, z}
	axis := MainAxis(v)
	if v[axis] == 0 {
		return "", false
	}
	return AxisFace(axis, v[axis] > 0), true
}

// AxisFace returns the face on the given side of an axis.
func AxisFace(a Axis, positive bool) Face {
	switch a {
	case AxisX:
		if positive {
			return FaceR
		}
		return FaceL
	case AxisY:
		if positive {
			return FaceU
		}
		return FaceD
	default:
		if positive {
			return FaceF
		}
		return FaceB
	}
}

// Axis identifies one of the three coordinate axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "?"
	}
}

// MainAxis returns the axis of the largest-magnitude component.
// Ties prefer X over Y over Z.
func MainAxis(v [3]float64) Axis {
	ax, ay, az := math.Abs(v[0]), math.Abs(v[1]), math.Abs(v[2])
	switch {
	case ax >= ay && ax >= az:
		return AxisX
	case ay >= az:
		return AxisY
	default:
		return AxisZ
	}
}

// Turn represents the direction and magnitude of a face turn.
type Turn int

const (
	TurnCW  Turn = 1  // Clockwise quarter turn
	TurnCCW Turn = -1 // Counter-clockwise quarter turn
	Turn180 Turn = 2  // 180 degree turn (half turn)
)

// Quarters returns the signed number of clockwise quarter turns.
func (t Turn) Quarters() int {
	return int(t)
}

// TurnFromQuarters normalizes a clockwise quarter-turn count.
// Returns false when the count is a multiple of four.
func TurnFromQuarters(q int) (Turn, bool) {
	switch ((q % 4) + 4) % 4 {
	case 1:
		return TurnCW, true
	case 2:
		return Turn180, true
	case 3:
		return TurnCCW, true
	}
	return 0, false
}

// Move represents a single layer turn. Depth 1 is the outer layer; depth 2
// is the layer directly beneath it, and so on.
type Move struct {
	Face      Face  `json:"face"`
	Turn      Turn  `json:"turn"`
	Depth     int   `json:"depth,omitempty"`
	Timestamp int64 `json:"ts_ms,omitempty"` // Milliseconds since session start
}

// Layer returns the move's depth, treating zero as the outer layer.
func (m Move) Layer() int {
	if m.Depth < 1 {
		return 1
	}
	return m.Depth
}

// Notation returns the standard cube notation string for this move.
// Examples: R, R', R2, 2R, 2R'
func (m Move) Notation() string {
	suffix := ""
	switch m.Turn {
	case TurnCCW:
		suffix = "'"
	case Turn180:
		suffix = "2"
	}
	prefix := ""
	if m.Layer() > 1 {
		prefix = fmt.Sprintf("%d", m.Layer())
	}
	return prefix + string(m.Face) + suffix
}

// String returns the notation string (alias for Notation).
func (m Move) String() string {
	return m.Notation()
}

// Inverse returns the inverse of this move. A half turn is its own inverse.
func (m Move) Inverse() Move {
	inv := m
	switch m.Turn {
	case TurnCW:
		inv.Turn = TurnCCW
	case TurnCCW:
		inv.Turn = TurnCW
	}
	return inv
}

// SameLayer returns true if both moves turn the same layer.
func (m Move) SameLayer(other Move) bool {
	return m.Face == other.Face && m.Layer() == other.Layer()
}

// IsCancellation returns true if the other move cancels this move.
func (m Move) IsCancellation(other Move) bool {
	if !m.SameLayer(other) {
		return false
	}
	return m.Turn == -other.Turn ||
		(m.Turn == Turn180 && other.Turn == Turn180)
}

// Merge combines two same-layer moves into one (or returns nil if they cancel).
// Returns nil if the moves cannot be merged or if they cancel out completely.
func (m Move) Merge(other Move) *Move {
	if !m.SameLayer(other) {
		return nil
	}

	turn, ok := TurnFromQuarters(int(m.Turn) + int(other.Turn))
	if !ok {
		return nil // Moves cancel out
	}

	return &Move{
		Face:      m.Face,
		Turn:      turn,
		Depth:     m.Depth,
		Timestamp: other.Timestamp,
	}
}

// Inverse returns the inverse of a whole sequence.
func Inverse(moves []Move) []Move {
	out := make([]Move, len(moves))
	for i, m := range moves {
		out[len(moves)-1-i] = m.Inverse()
	}
	return out
}
