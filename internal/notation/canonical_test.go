package notation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/cubetwist/pkg/types"
)

func TestParseNotation(t *testing.T) {
	cases := []struct {
		in   string
		want types.Move
	}{
		{"R", types.Move{Face: types.FaceR, Turn: types.TurnCW}},
		{"U'", types.Move{Face: types.FaceU, Turn: types.TurnCCW}},
		{"F`", types.Move{Face: types.FaceF, Turn: types.TurnCCW}},
		{"B2", types.Move{Face: types.FaceB, Turn: types.Turn180}},
		{"D2'", types.Move{Face: types.FaceD, Turn: types.Turn180}},
		{"2R", types.Move{Face: types.FaceR, Turn: types.TurnCW, Depth: 2}},
		{"3L'", types.Move{Face: types.FaceL, Turn: types.TurnCCW, Depth: 3}},
		{"1U", types.Move{Face: types.FaceU, Turn: types.TurnCW}},
		{" l ", types.Move{Face: types.FaceL, Turn: types.TurnCW}},
	}
	for _, c := range cases {
		got, ok := ParseNotation(c.in)
		require.True(t, ok, c.in)
		assert.Equal(t, c.want, got, c.in)
	}

	for _, bad := range []string{"", "X", "R3", "2", "0R", "R''", "RU"} {
		_, ok := ParseNotation(bad)
		assert.False(t, ok, bad)
	}
}

func TestNotationRoundTrip(t *testing.T) {
	for _, s := range []string{"R", "R'", "R2", "2R", "2R'", "3F2"} {
		m, ok := ParseNotation(s)
		require.True(t, ok)
		assert.Equal(t, s, m.Notation())
	}
}

func TestParseSequenceSkipsBadTokens(t *testing.T) {
	moves, err := ParseSequence("R U X R' Q U'")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidNotation))
	assert.Contains(t, err.Error(), `"X"`)
	assert.Contains(t, err.Error(), `"Q"`)
	assert.Equal(t, "R U R' U'", FormatSequence(moves))

	moves, err = ParseSequence("  ")
	require.NoError(t, err)
	assert.Empty(t, moves)
}

func TestSimplify(t *testing.T) {
	moves, err := ParseSequence("R R U U' R' F 2F F")
	require.NoError(t, err)
	assert.Equal(t, "R F 2F F", FormatSequence(Simplify(moves)))

	moves, _ = ParseSequence("R U U' R'")
	assert.Empty(t, Simplify(moves))

	moves, _ = ParseSequence("R R R")
	assert.Equal(t, "R'", FormatSequence(Simplify(moves)))
}
