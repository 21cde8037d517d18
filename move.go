package cubetwist

import (
	"github.com/SeamusWaldron/cubetwist/internal/notation"
	"github.com/SeamusWaldron/cubetwist/pkg/types"
)

type (
	// Move is a single layer turn. Depth 1 is the outer layer.
	Move = types.Move
	// Face is a face letter in standard notation.
	Face = types.Face
	// Turn is the direction and magnitude of a turn.
	Turn = types.Turn
	// Axis is a puzzle axis.
	Axis = types.Axis
)

const (
	FaceR = types.FaceR // Right
	FaceL = types.FaceL // Left
	FaceU = types.FaceU // Up
	FaceD = types.FaceD // Down
	FaceF = types.FaceF // Front
	FaceB = types.FaceB // Back
)

const (
	CW     = types.TurnCW  // Clockwise (90 degrees)
	CCW    = types.TurnCCW // Counter-clockwise (90 degrees)
	Double = types.Turn180 // Half turn (180 degrees)
)

// ParseMove parses a single token such as R, R', R2 or 2R.
func ParseMove(s string) (Move, error) {
	return notation.Parse(s)
}

// ParseMoves parses a space-separated sequence of moves.
// Example: "R U R' U'"
// Invalid tokens are skipped and reported in the returned error.
func ParseMoves(s string) ([]Move, error) {
	return notation.ParseSequence(s)
}

// FormatMoves formats a slice of moves as a space-separated notation string.
func FormatMoves(moves []Move) string {
	return notation.FormatSequence(moves)
}

// InverseMoves returns the sequence that undoes moves.
func InverseMoves(moves []Move) []Move {
	return types.Inverse(moves)
}
