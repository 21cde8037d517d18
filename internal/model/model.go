package model

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/SeamusWaldron/cubetwist/internal/scene"
	"github.com/SeamusWaldron/cubetwist/pkg/types"
)

// ErrInvalidGeometry is returned for non-positive piece sizes.
var ErrInvalidGeometry = errors.New("model: invalid geometry")

// Sticker is a colored face attachment on a cubie.
type Sticker struct {
	Face  types.Face // Home face, fixed for the sticker's lifetime
	Color uint32
	Node  *scene.Node
}

// Cubie is a single piece of the puzzle.
type Cubie struct {
	Index    int
	Rest     [3]float64 // Grid coordinate at generation time
	Node     *scene.Node
	Stickers []*Sticker
}

// Sticker returns the sticker whose home face is f, or nil.
func (c *Cubie) Sticker(f types.Face) *Sticker {
	for _, s := range c.Stickers {
		if s.Face == f {
			return s
		}
	}
	return nil
}

// Model owns the cubies and the three nodes they hang from:
// Holder (display scale) → Object (puzzle frame) → cubies and Group.
type Model struct {
	variant  Variant
	geometry Geometry
	theme    Theme

	Holder *scene.Node
	Object *scene.Node
	Group  *scene.Node

	cubies          []*Cubie
	stickersVisible bool
}

// New builds a model for the variant with its default geometry.
func New(v Variant, theme Theme) *Model {
	m := &Model{
		variant:         v,
		geometry:        v.DefaultGeometry(),
		theme:           theme,
		Holder:          scene.NewNode("holder"),
		Object:          scene.NewNode("object"),
		Group:           scene.NewNode("group"),
		stickersVisible: true,
	}
	s := v.ScaleMultiplier()
	m.Holder.Scale = mgl64.Vec3{s, s, s}
	m.Holder.Add(m.Object)
	m.Object.Add(m.Group)
	m.generate()
	return m
}

// Variant returns the puzzle variant.
func (m *Model) Variant() Variant { return m.variant }

// Dimensions returns N.
func (m *Model) Dimensions() int { return m.variant.Dimensions() }

// Geometry returns the current geometry settings.
func (m *Model) Geometry() Geometry { return m.geometry }

// PieceSize returns the edge length of one cubie in the puzzle frame.
func (m *Model) PieceSize() float64 { return m.geometry.PieceSize }

// Theme returns the active theme.
func (m *Model) Theme() Theme { return m.theme }

// Cubies returns the cubies in index order.
func (m *Model) Cubies() []*Cubie { return m.cubies }

// Cubie returns the cubie at index i, or nil when out of range.
func (m *Model) Cubie(i int) *Cubie {
	if i < 0 || i >= len(m.cubies) {
		return nil
	}
	return m.cubies[i]
}

// generate rebuilds every cubie from the variant's rest positions.
func (m *Model) generate() {
	for _, c := range m.cubies {
		if p := c.Node.Parent(); p != nil {
			p.Remove(c.Node)
		}
	}
	m.Group.Position = mgl64.Vec3{}
	m.Group.Rotation = mgl64.QuatIdent()

	positions := m.variant.GeneratePositions()
	m.cubies = make([]*Cubie, 0, len(positions))
	for i, p := range positions {
		node := scene.NewNode("cubie")
		node.Position = mgl64.Vec3(p.Grid).Mul(m.geometry.PieceSize)
		c := &Cubie{Index: i, Rest: p.Grid, Node: node}
		for _, f := range p.Faces {
			sn := scene.NewNode(string(f))
			sn.Visible = m.stickersVisible
			node.Add(sn)
			c.Stickers = append(c.Stickers, &Sticker{Face: f, Color: m.theme.Color(f), Node: sn})
		}
		m.placeStickers(c)
		m.Object.Add(node)
		m.cubies = append(m.cubies, c)
	}
}

// placeStickers positions each sticker on its face of the cubie with its
// local +Z pointing out.
func (m *Model) placeStickers(c *Cubie) {
	g := m.geometry
	dist := g.PieceSize / 2
	for _, s := range c.Stickers {
		n := mgl64.Vec3(s.Face.Normal())
		s.Node.Position = n.Mul(dist)
		s.Node.LookAt(s.Node.Position.Add(n))
		s.Node.Scale = mgl64.Vec3{g.StickerScale, g.StickerScale, 1}
	}
}

// Regenerate rebuilds all cubies at rest with new geometry.
func (m *Model) Regenerate(g Geometry) error {
	if g.PieceSize <= 0 {
		return ErrInvalidGeometry
	}
	m.geometry = g
	m.Object.Rotation = mgl64.QuatIdent()
	m.generate()
	return nil
}

// Reset returns every cubie and the puzzle frame to rest.
func (m *Model) Reset() {
	m.Object.Rotation = mgl64.QuatIdent()
	m.generate()
}

// UpdatePieceSize changes the piece size in place, rescaling each cubie's
// position so its grid coordinate is unchanged.
func (m *Model) UpdatePieceSize(size float64) error {
	if size <= 0 {
		return ErrInvalidGeometry
	}
	ratio := size / m.geometry.PieceSize
	m.geometry.PieceSize = size
	for _, c := range m.cubies {
		c.Node.Position = c.Node.Position.Mul(ratio)
		m.placeStickers(c)
	}
	return nil
}

// SetCornerRadius updates the piece corner radius.
func (m *Model) SetCornerRadius(r float64) { m.geometry.PieceCornerRadius = r }

// SetStickerRoundness updates the sticker corner roundness.
func (m *Model) SetStickerRoundness(r float64) { m.geometry.StickerRoundness = r }

// SetStickerDepth updates the sticker thickness.
func (m *Model) SetStickerDepth(d float64) { m.geometry.StickerDepth = d }

// SetStickerScale resizes stickers relative to their piece.
func (m *Model) SetStickerScale(s float64) {
	m.geometry.StickerScale = s
	for _, c := range m.cubies {
		m.placeStickers(c)
	}
}

// SetTheme recolors every sticker.
func (m *Model) SetTheme(t Theme) {
	m.theme = t
	for _, c := range m.cubies {
		for _, s := range c.Stickers {
			s.Color = t.Color(s.Face)
		}
	}
}

// SetStickersVisible shows or hides all stickers.
func (m *Model) SetStickersVisible(v bool) {
	m.stickersVisible = v
	for _, c := range m.cubies {
		for _, s := range c.Stickers {
			s.Node.Visible = v
		}
	}
}

// ToggleStickers flips sticker visibility and returns the new value.
func (m *Model) ToggleStickers() bool {
	m.SetStickersVisible(!m.stickersVisible)
	return m.stickersVisible
}

// StickersVisible reports whether stickers are shown.
func (m *Model) StickersVisible() bool { return m.stickersVisible }

// StickerFacing returns the face a sticker currently points at, measured in
// the puzzle frame when puzzleFrame is set and in world space otherwise.
func (m *Model) StickerFacing(s *Sticker, puzzleFrame bool) (types.Face, bool) {
	rot := s.Node.WorldRotation()
	if puzzleFrame {
		rot = m.Object.WorldRotation().Inverse().Mul(rot)
	}
	n := rot.Rotate(mgl64.Vec3{0, 0, 1})
	return types.FaceFromNormal(snap(n[0]), snap(n[1]), snap(n[2]))
}

// PieceFace describes one sticker of a cubie for diagnostics.
type PieceFace struct {
	Home    types.Face `json:"home"`
	Current types.Face `json:"current"`
	Color   string     `json:"color"`
}

// PieceInfo describes a cubie's grid position and sticker orientation.
type PieceInfo struct {
	Index    int         `json:"index"`
	Position [3]float64  `json:"position"`
	Faces    []PieceFace `json:"faces"`
}

// FaceOrientation reports where every sticker currently points in world
// space. Centers of odd cubes and hidden inner cubies have no faces.
func (m *Model) FaceOrientation() []PieceInfo {
	out := make([]PieceInfo, 0, len(m.cubies))
	for _, c := range m.cubies {
		info := PieceInfo{Index: c.Index, Position: m.GridPosition(c)}
		for _, s := range c.Stickers {
			cur, _ := m.StickerFacing(s, false)
			info.Faces = append(info.Faces, PieceFace{Home: s.Face, Current: cur, Color: m.theme.Hex(s.Face)})
		}
		out = append(out, info)
	}
	return out
}

// GridPosition converts a cubie's world position into the puzzle frame,
// divides by piece size and rounds to the nearest half step.
func (m *Model) GridPosition(c *Cubie) [3]float64 {
	p := m.Object.WorldToLocal(c.Node.WorldPosition()).Mul(1 / m.geometry.PieceSize)
	return [3]float64{halfStep(p[0]), halfStep(p[1]), halfStep(p[2])}
}

func halfStep(v float64) float64 {
	r := math.Round(v*2) / 2
	if r == 0 {
		return 0 // drop negative zero
	}
	return r
}

func snap(v float64) float64 {
	if math.Abs(v) < 1e-6 {
		return 0
	}
	return v
}
