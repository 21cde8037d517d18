package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/cubetwist/internal/notation"
	"github.com/SeamusWaldron/cubetwist/pkg/types"
)

func parse(t *testing.T, s string) []types.Move {
	t.Helper()
	moves, err := notation.ParseSequence(s)
	require.NoError(t, err)
	return moves
}

func TestMineNGramsFindsRepeats(t *testing.T) {
	moves := parse(t, "R U R' U' F R U R' U' 2R")
	report := MineNGrams(moves, 2, 5, 3)

	four := report.TopNGrams[4]
	require.NotEmpty(t, four)
	assert.Equal(t, []string{"R", "U", "R'", "U'"}, four[0].Sequence)
	assert.Equal(t, 2, four[0].Count)
	assert.Equal(t, 0, four[0].Occurrences[0].StartIndex)
	assert.Equal(t, 5, four[0].Occurrences[1].StartIndex)

	_, ok := report.TopNGrams[5]
	assert.False(t, ok, "no 5-move sequence repeats")
}

func TestMineNGramsShortInput(t *testing.T) {
	report := MineNGrams(parse(t, "R"), 2, 4, 5)
	assert.Empty(t, report.TopNGrams)
}

func TestRollingHashMatchesFreshWindow(t *testing.T) {
	a := NewRollingHash(3)
	for _, tok := range []uint32{9, 1, 2, 3} {
		a.Roll(tok)
	}
	b := NewRollingHash(3)
	for _, tok := range []uint32{1, 2, 3} {
		b.Roll(tok)
	}
	assert.Equal(t, b.Hash(), a.Hash())
	assert.Equal(t, []uint32{1, 2, 3}, a.Window())
}

func TestSummarize(t *testing.T) {
	moves := parse(t, "R R U U' 2F")
	for i := range moves {
		moves[i].Timestamp = int64(i) * 500
	}
	moves[4].Timestamp = 4000

	s := Summarize("abc", moves, 0)
	assert.Equal(t, int64(4000), s.DurationMs)
	assert.Equal(t, 5, s.TotalMoves)
	assert.Equal(t, 2, s.SimplifiedMoves, "R R becomes R2 and U U' cancels")
	assert.InDelta(t, 0.4, s.Efficiency, 1e-12)
	assert.InDelta(t, 1.25, s.TPS, 1e-12)
	assert.Equal(t, int64(2500), s.LongestPauseMs)
	assert.Equal(t, 1, s.PauseCount)
	assert.InDelta(t, 1000, s.AvgMoveDurationMs, 1e-12)

	assert.Equal(t, 2, s.Profile.FaceCounts[types.FaceR])
	assert.Equal(t, 1, s.Profile.InnerLayer)
	assert.Equal(t, types.FaceU, s.Profile.MostUsedFace, "U wins the tie by face order")
	assert.Equal(t, 1, s.Profile.FaceSequences["RU"])
}

func TestAnalyzePauses(t *testing.T) {
	moves := parse(t, "R U F")
	moves[1].Timestamp = 2000
	moves[2].Timestamp = 2100
	pauses := AnalyzePauses(moves, 1500)
	require.Len(t, pauses, 1)
	assert.Equal(t, PauseInfo{AfterMoveIndex: 0, DurationMs: 2000, TsMs: 0}, pauses[0])
}
