package model

import (
	"fmt"
	"sort"

	"github.com/SeamusWaldron/cubetwist/pkg/types"
)

// Theme is a named per-face color table (0xRRGGBB).
type Theme struct {
	Name   string
	Colors map[types.Face]uint32
}

// Color returns the face color, falling back to mid grey.
func (t Theme) Color(f types.Face) uint32 {
	if c, ok := t.Colors[f]; ok {
		return c
	}
	return 0x808080
}

// Hex formats a face color as #rrggbb.
func (t Theme) Hex(f types.Face) string {
	return fmt.Sprintf("#%06x", t.Color(f))
}

// DefaultTheme is used when no theme is configured.
const DefaultTheme = "classic"

var themes = map[string]Theme{
	"classic": {Name: "classic", Colors: map[types.Face]uint32{
		types.FaceU: 0xffff00,
		types.FaceD: 0xffffff,
		types.FaceF: 0xff0000,
		types.FaceB: 0xff8c00,
		types.FaceL: 0x00ff00,
		types.FaceR: 0x0000ff,
	}},
	"coolBlue": {Name: "coolBlue", Colors: map[types.Face]uint32{
		types.FaceU: 0x000066,
		types.FaceD: 0x87ceeb,
		types.FaceF: 0x0066cc,
		types.FaceB: 0x8a2be2,
		types.FaceL: 0x1e90ff,
		types.FaceR: 0x00bfff,
	}},
	"warmOrange": {Name: "warmOrange", Colors: map[types.Face]uint32{
		types.FaceU: 0xbe0a00,
		types.FaceD: 0xffeb99,
		types.FaceF: 0xff4500,
		types.FaceB: 0xff5349,
		types.FaceL: 0xffa500,
		types.FaceR: 0xffe013,
	}},
	"forest": {Name: "forest", Colors: map[types.Face]uint32{
		types.FaceU: 0x006400,
		types.FaceD: 0xb8f5b8,
		types.FaceF: 0x00ff7f,
		types.FaceB: 0x228b22,
		types.FaceL: 0x7fff00,
		types.FaceR: 0x32cd32,
	}},
}

// ThemeByName returns a theme, or the classic theme and false when the name
// is unknown.
func ThemeByName(name string) (Theme, bool) {
	t, ok := themes[name]
	if !ok {
		return themes[DefaultTheme], false
	}
	return t, true
}

// ThemeNames lists the built-in themes.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for n := range themes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
