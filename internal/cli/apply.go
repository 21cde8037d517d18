package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubetwist"
	"github.com/SeamusWaldron/cubetwist/internal/notation"
)

var (
	applySize     int
	applyColor    bool
	applySimplify bool
)

var applyCmd = &cobra.Command{
	Use:   "apply <moves>...",
	Short: "Apply moves to a solved puzzle and print the result",
	Long: `Apply a move sequence to a solved puzzle, then print the facelet state
and the unfolded net. Invalid tokens are reported and skipped.

Examples:
  cubetwist apply "R U R' U'"
  cubetwist apply --size 4 2R 2R 2U2
  cubetwist apply --simplify "R R U U'"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runApply,
}

func init() {
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().IntVarP(&applySize, "size", "n", 0, "Puzzle size N (default from config)")
	applyCmd.Flags().BoolVar(&applyColor, "color", false, "Use theme colors for the net")
	applyCmd.Flags().BoolVar(&applySimplify, "simplify", false, "Merge adjacent turns of the same layer first")
}

func runApply(cmd *cobra.Command, args []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}

	p, err := s.newPuzzle(applySize)
	if err != nil {
		return err
	}
	defer p.Close()

	moves, perr := parseMoves(strings.Join(args, " "), applySimplify)
	if perr != nil {
		fmt.Printf("Warning: %v\n", perr)
	}
	if err := p.Apply(moves...); err != nil {
		return err
	}

	fmt.Printf("Moves:  %s\n", formatOrDash(moves))
	fmt.Printf("State:  %s\n", p.State())
	fmt.Printf("Solved: %v\n\n", p.IsSolved())
	printNet(p, applyColor)
	return nil
}

// parseMoves parses s, keeping the valid moves when some tokens are bad.
func parseMoves(s string, simplify bool) ([]cubetwist.Move, error) {
	moves, err := cubetwist.ParseMoves(s)
	if simplify {
		moves = notation.Simplify(moves)
	}
	return moves, err
}

func formatOrDash(moves []cubetwist.Move) string {
	if len(moves) == 0 {
		return "-"
	}
	return cubetwist.FormatMoves(moves)
}
