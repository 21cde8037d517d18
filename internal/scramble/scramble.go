// Package scramble generates random move sequences.
package scramble

import (
	"math/rand"
	"sync"
	"time"

	"github.com/SeamusWaldron/cubetwist/pkg/types"
)

// DefaultLength is used when a caller asks for zero moves.
const DefaultLength = 15

// Tokens is the pool scrambles draw from: each face clockwise and
// counter-clockwise.
var Tokens = []types.Move{
	{Face: types.FaceU, Turn: types.TurnCW}, {Face: types.FaceU, Turn: types.TurnCCW},
	{Face: types.FaceD, Turn: types.TurnCW}, {Face: types.FaceD, Turn: types.TurnCCW},
	{Face: types.FaceL, Turn: types.TurnCW}, {Face: types.FaceL, Turn: types.TurnCCW},
	{Face: types.FaceR, Turn: types.TurnCW}, {Face: types.FaceR, Turn: types.TurnCCW},
	{Face: types.FaceF, Turn: types.TurnCW}, {Face: types.FaceF, Turn: types.TurnCCW},
	{Face: types.FaceB, Turn: types.TurnCW}, {Face: types.FaceB, Turn: types.TurnCCW},
}

// Source is the randomness a generator draws from. *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// Generator produces scrambles. Safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng Source
}

// New creates a generator. A nil source is seeded from the clock.
func New(rng Source) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rng: rng}
}

// Generate returns length moves where no two neighbours share a face.
// Rejected draws are simply redrawn.
func (g *Generator) Generate(length int) []types.Move {
	if length <= 0 {
		length = DefaultLength
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]types.Move, 0, length)
	var last types.Face
	for len(out) < length {
		m := Tokens[g.rng.Intn(len(Tokens))]
		if m.Face == last {
			continue
		}
		out = append(out, m)
		last = m.Face
	}
	return out
}
