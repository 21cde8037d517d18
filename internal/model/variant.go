// Package model holds the cubie geometry of an N×N×N puzzle: rest positions,
// per-cubie sticker assignment, the scene nodes that carry their transforms,
// and the size-specific variants that produce them.
package model

import (
	"github.com/SeamusWaldron/cubetwist/pkg/types"
)

// Geometry describes piece and sticker proportions. Only PieceSize affects
// layer math; the rest is carried for renderers.
type Geometry struct {
	PieceSize         float64 `yaml:"piece_size" json:"piece_size"`
	PieceCornerRadius float64 `yaml:"piece_corner_radius" json:"piece_corner_radius"`
	StickerRoundness  float64 `yaml:"sticker_roundness" json:"sticker_roundness"`
	StickerScale      float64 `yaml:"sticker_scale" json:"sticker_scale"`
	StickerDepth      float64 `yaml:"sticker_depth" json:"sticker_depth"`
}

// Position is a rest grid coordinate plus the faces that carry a sticker.
type Position struct {
	Grid  [3]float64
	Faces []types.Face
}

// Variant is a puzzle size. Implementations differ in geometry defaults,
// display scale and layer value mapping.
type Variant interface {
	Name() string
	Dimensions() int
	ScaleMultiplier() float64
	DefaultGeometry() Geometry
	GeneratePositions() []Position
	// LayerValue returns the grid coordinate of the layer at depth (1 is
	// the outer layer) seen from face.
	LayerValue(face types.Face, depth int) (float64, bool)
}

// stickerOrder is the order stickers are attached to a cubie.
var stickerOrder = []types.Face{
	types.FaceL, types.FaceR, types.FaceD, types.FaceU, types.FaceB, types.FaceF,
}

// base implements Variant for any size; variants embed it and override
// what differs.
type base struct {
	name  string
	n     int
	scale float64
	geom  Geometry
}

func (b *base) Name() string              { return b.name }
func (b *base) Dimensions() int           { return b.n }
func (b *base) ScaleMultiplier() float64  { return b.scale }
func (b *base) DefaultGeometry() Geometry { return b.geom }

// GeneratePositions walks x, then y, then z from the negative corner.
func (b *base) GeneratePositions() []Position {
	n := b.n
	half := float64(n-1) / 2
	out := make([]Position, 0, n*n*n)
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			for z := 0; z < n; z++ {
				idx := [3]int{x, y, z}
				p := Position{Grid: [3]float64{float64(x) - half, float64(y) - half, float64(z) - half}}
				for _, f := range stickerOrder {
					i := idx[f.Axis()]
					if (f.Sign() < 0 && i == 0) || (f.Sign() > 0 && i == n-1) {
						p.Faces = append(p.Faces, f)
					}
				}
				out = append(out, p)
			}
		}
	}
	return out
}

func (b *base) LayerValue(face types.Face, depth int) (float64, bool) {
	if !face.Valid() || depth < 1 || depth > b.n {
		return 0, false
	}
	half := float64(b.n-1) / 2
	return face.Sign() * (half - float64(depth-1)), true
}

func defaultGeometry(n int) Geometry {
	return Geometry{
		PieceSize:         1 / float64(n),
		PieceCornerRadius: 0.12,
		StickerRoundness:  0.15,
		StickerScale:      0.82,
		StickerDepth:      0.01,
	}
}
