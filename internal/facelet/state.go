// Package facelet serializes the sticker layout of a puzzle into a facelet
// string and renders it as a flat net.
package facelet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/SeamusWaldron/cubetwist/internal/model"
	"github.com/SeamusWaldron/cubetwist/pkg/types"
)

// Unknown marks a facelet with no sticker found.
const Unknown = '?'

// ErrBadState is returned for facelet strings of the wrong shape.
var ErrBadState = errors.New("facelet: malformed state string")

// frame gives the in-face right and down directions for reading a face
// from the outside, rows top to bottom.
type frame struct {
	right, down mgl64.Vec3
}

var frames = map[types.Face]frame{
	types.FaceU: {right: mgl64.Vec3{1, 0, 0}, down: mgl64.Vec3{0, 0, 1}},
	types.FaceR: {right: mgl64.Vec3{0, 0, -1}, down: mgl64.Vec3{0, -1, 0}},
	types.FaceF: {right: mgl64.Vec3{1, 0, 0}, down: mgl64.Vec3{0, -1, 0}},
	types.FaceD: {right: mgl64.Vec3{1, 0, 0}, down: mgl64.Vec3{0, 0, -1}},
	types.FaceL: {right: mgl64.Vec3{0, 0, 1}, down: mgl64.Vec3{0, -1, 0}},
	types.FaceB: {right: mgl64.Vec3{-1, 0, 0}, down: mgl64.Vec3{0, -1, 0}},
}

// State reads the puzzle in face order U R F D L B, N² characters per
// face, rows top to bottom. Each character is the home face of the sticker
// found there, so a solved puzzle reads UUU…RRR…FFF…DDD…LLL…BBB regardless
// of how the whole puzzle is oriented.
func State(m *model.Model) string {
	n := m.Dimensions()
	half := float64(n-1) / 2

	byGrid := make(map[[3]float64]*model.Cubie, len(m.Cubies()))
	for _, c := range m.Cubies() {
		byGrid[m.GridPosition(c)] = c
	}

	var b strings.Builder
	b.Grow(6 * n * n)
	for _, face := range types.Faces {
		fr := frames[face]
		normal := mgl64.Vec3(face.Normal()).Mul(half)
		for row := 0; row < n; row++ {
			for col := 0; col < n; col++ {
				p := normal.
					Add(fr.right.Mul(float64(col) - half)).
					Add(fr.down.Mul(float64(row) - half))
				key := [3]float64{clean(p[0]), clean(p[1]), clean(p[2])}
				b.WriteByte(stickerAt(m, byGrid[key], face))
			}
		}
	}
	return b.String()
}

func stickerAt(m *model.Model, c *model.Cubie, face types.Face) byte {
	if c == nil {
		return Unknown
	}
	for _, s := range c.Stickers {
		if f, ok := m.StickerFacing(s, true); ok && f == face {
			return string(s.Face)[0]
		}
	}
	return Unknown
}

func clean(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}

// Solved returns the state string of a solved puzzle of size n.
func Solved(n int) string {
	var b strings.Builder
	for _, f := range types.Faces {
		b.WriteString(strings.Repeat(string(f), n*n))
	}
	return b.String()
}

// IsSolved reports whether every face of state is a single color.
func IsSolved(state string, n int) bool {
	faces, err := Split(state, n)
	if err != nil {
		return false
	}
	for _, f := range faces {
		for i := 1; i < len(f); i++ {
			if f[i] != f[0] || f[i] == Unknown {
				return false
			}
		}
	}
	return true
}

// Split cuts a state string into its six faces.
func Split(state string, n int) ([]string, error) {
	size := n * n
	if n < 1 || len(state) != 6*size {
		return nil, fmt.Errorf("%w: length %d for %d×%d", ErrBadState, len(state), n, n)
	}
	out := make([]string, 6)
	for i := range out {
		out[i] = state[i*size : (i+1)*size]
	}
	return out, nil
}
