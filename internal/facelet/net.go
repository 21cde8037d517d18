package facelet

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/SeamusWaldron/cubetwist/internal/model"
	"github.com/SeamusWaldron/cubetwist/pkg/types"
)

// Net lays the state out as a cross:
//
//	  U
//	L F R B
//	  D
func Net(state string, n int) string {
	return render(state, n, func(c byte) string { return string(c) + " " }, strings.Repeat(" ", 2*n))
}

// ColorNet renders the net with each facelet drawn as a colored block.
func ColorNet(state string, n int, theme model.Theme) string {
	styles := make(map[byte]lipgloss.Style, 6)
	for _, f := range types.Faces {
		styles[string(f)[0]] = lipgloss.NewStyle().
			Background(lipgloss.Color(theme.Hex(f))).
			Foreground(lipgloss.Color("#000000"))
	}
	blank := lipgloss.NewStyle().Background(lipgloss.Color("#333333"))
	cell := func(c byte) string {
		if s, ok := styles[c]; ok {
			return s.Render(string(c) + " ")
		}
		return blank.Render("  ")
	}
	return render(state, n, cell, strings.Repeat(" ", 2*n))
}

func render(state string, n int, cell func(byte) string, pad string) string {
	faces, err := Split(state, n)
	if err != nil {
		return fmt.Sprintf("<%v>\n", err)
	}
	idx := map[types.Face]string{}
	for i, f := range types.Faces {
		idx[f] = faces[i]
	}

	var b strings.Builder
	row := func(face types.Face, r int) {
		for c := 0; c < n; c++ {
			b.WriteString(cell(idx[face][r*n+c]))
		}
	}

	for r := 0; r < n; r++ {
		b.WriteString(pad)
		row(types.FaceU, r)
		b.WriteString("\n")
	}
	for r := 0; r < n; r++ {
		for _, f := range []types.Face{types.FaceL, types.FaceF, types.FaceR, types.FaceB} {
			row(f, r)
		}
		b.WriteString("\n")
	}
	for r := 0; r < n; r++ {
		b.WriteString(pad)
		row(types.FaceD, r)
		b.WriteString("\n")
	}
	return b.String()
}
