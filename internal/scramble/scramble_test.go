package scramble

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoConsecutiveFace(t *testing.T) {
	g := New(rand.New(rand.NewSource(42)))
	for _, n := range []int{2, 5, 20, 200} {
		moves := g.Generate(n)
		require.Len(t, moves, n)
		for i := 1; i < len(moves); i++ {
			assert.NotEqual(t, moves[i-1].Face, moves[i].Face, "moves %d and %d", i-1, i)
		}
	}
}

func TestOnlyQuarterTurns(t *testing.T) {
	g := New(rand.New(rand.NewSource(1)))
	for _, m := range g.Generate(100) {
		assert.Contains(t, Tokens, m)
		assert.Equal(t, 1, m.Layer())
	}
}

func TestDefaultLength(t *testing.T) {
	assert.Len(t, New(nil).Generate(0), DefaultLength)
}

// fixed replays a scripted sequence of draws.
type fixed struct {
	draws []int
	i     int
}

func (f *fixed) Intn(int) int {
	v := f.draws[f.i%len(f.draws)]
	f.i++
	return v
}

func TestRejectionRedraws(t *testing.T) {
	// U, U' (rejected), U (rejected), R.
	src := &fixed{draws: []int{0, 1, 0, 6}}
	moves := New(src).Generate(2)
	require.Len(t, moves, 2)
	assert.Equal(t, "U", moves[0].Notation())
	assert.Equal(t, "R", moves[1].Notation())
	assert.Equal(t, 4, src.i)
}

func TestSeededIsDeterministic(t *testing.T) {
	a := New(rand.New(rand.NewSource(9))).Generate(25)
	b := New(rand.New(rand.NewSource(9))).Generate(25)
	assert.Equal(t, a, b)
}
