package cli

import (
	"fmt"
	"math/rand"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubetwist"
)

var (
	scrambleSize  int
	scrambleSeed  int64
	scrambleShow  bool
	scrambleColor bool
)

var scrambleCmd = &cobra.Command{
	Use:   "scramble [length]",
	Short: "Print a random scramble",
	Long: `Print a random sequence of quarter turns. With --show the scramble is
applied to a solved puzzle and the resulting net is printed.

Examples:
  cubetwist scramble
  cubetwist scramble 30 --size 4 --show
  cubetwist scramble --seed 42`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScramble,
}

func init() {
	rootCmd.AddCommand(scrambleCmd)
	scrambleCmd.Flags().IntVarP(&scrambleSize, "size", "n", 0, "Puzzle size N (default from config)")
	scrambleCmd.Flags().Int64Var(&scrambleSeed, "seed", 0, "Random seed (default: time based)")
	scrambleCmd.Flags().BoolVar(&scrambleShow, "show", false, "Print the scrambled net")
	scrambleCmd.Flags().BoolVar(&scrambleColor, "color", false, "Use theme colors for the net")
}

func runScramble(cmd *cobra.Command, args []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}

	length := s.cfg.Puzzle.Scramble
	if len(args) == 1 {
		length, err = strconv.Atoi(args[0])
		if err != nil || length < 0 {
			return fmt.Errorf("invalid scramble length %q", args[0])
		}
	}

	var extra []cubetwist.Option
	if scrambleSeed != 0 {
		extra = append(extra, cubetwist.WithRand(rand.New(rand.NewSource(scrambleSeed))))
	}
	p, err := s.newPuzzle(scrambleSize, extra...)
	if err != nil {
		return err
	}
	defer p.Close()

	moves, err := p.ScrambleNow(length)
	if err != nil {
		return err
	}
	fmt.Println(cubetwist.FormatMoves(moves))

	if scrambleShow {
		fmt.Println()
		printNet(p, scrambleColor)
	}
	return nil
}

func printNet(p *cubetwist.Puzzle, color bool) {
	if color {
		fmt.Print(p.ColorNet())
	} else {
		fmt.Print(p.Net())
	}
}
