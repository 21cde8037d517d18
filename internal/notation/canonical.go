// Package notation parses and formats move notation.
package notation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/SeamusWaldron/cubetwist/pkg/types"
)

// ErrInvalidNotation is returned for tokens that do not name a move.
var ErrInvalidNotation = errors.New("notation: invalid move")

// ParseNotation parses a single move token.
// Examples: R, R', R2, 2R, 3U2, F2'
func ParseNotation(s string) (types.Move, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return types.Move{}, false
	}

	// Optional depth prefix
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	depth := 0
	if i > 0 {
		d, err := strconv.Atoi(s[:i])
		if err != nil || d < 1 {
			return types.Move{}, false
		}
		depth = d
	}
	if i >= len(s) {
		return types.Move{}, false
	}

	var face types.Face
	switch s[i] {
	case 'R', 'r':
		face = types.FaceR
	case 'L', 'l':
		face = types.FaceL
	case 'U', 'u':
		face = types.FaceU
	case 'D', 'd':
		face = types.FaceD
	case 'F', 'f':
		face = types.FaceF
	case 'B', 'b':
		face = types.FaceB
	default:
		return types.Move{}, false
	}

	turn := types.TurnCW
	switch s[i+1:] {
	case "":
	case "'", "`":
		turn = types.TurnCCW
	case "2", "2'":
		turn = types.Turn180
	default:
		return types.Move{}, false
	}

	m := types.Move{Face: face, Turn: turn}
	if depth > 1 {
		m.Depth = depth
	}
	return m, true
}

// Parse is ParseNotation with an error naming the token.
func Parse(s string) (types.Move, error) {
	m, ok := ParseNotation(s)
	if !ok {
		return types.Move{}, fmt.Errorf("%w: %q", ErrInvalidNotation, s)
	}
	return m, nil
}

// ParseSequence parses whitespace-separated tokens. Invalid tokens are
// skipped; the moves that did parse are returned together with an error
// listing every bad token.
func ParseSequence(s string) ([]types.Move, error) {
	return ParseTokens(strings.Fields(s)...)
}

// ParseTokens is ParseSequence over pre-split tokens.
func ParseTokens(tokens ...string) ([]types.Move, error) {
	moves := make([]types.Move, 0, len(tokens))
	var errs []error
	for _, tok := range tokens {
		m, err := Parse(tok)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		moves = append(moves, m)
	}
	return moves, errors.Join(errs...)
}

// FormatSequence formats a slice of moves as a space-separated string.
func FormatSequence(moves []types.Move) string {
	if len(moves) == 0 {
		return ""
	}

	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.Notation()
	}

	return strings.Join(parts, " ")
}

// Simplify merges adjacent turns of the same layer and drops turns that
// cancel. A cancellation can expose a new adjacent pair, which is merged
// in turn.
func Simplify(moves []types.Move) []types.Move {
	out := make([]types.Move, 0, len(moves))
	for _, m := range moves {
		if len(out) == 0 {
			out = append(out, m)
			continue
		}
		last := out[len(out)-1]
		if !last.SameLayer(m) {
			out = append(out, m)
			continue
		}
		out = out[:len(out)-1]
		if merged := last.Merge(m); merged != nil {
			out = append(out, *merged)
		}
	}
	return out
}
