package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubetwist/internal/analysis"
	"github.com/SeamusWaldron/cubetwist/internal/recorder"
	"github.com/SeamusWaldron/cubetwist/pkg/types"
)

var (
	statsID   string
	statsLast bool
	statsJSON bool
	statsTopK int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize a journaled session",
	Long: `Show move counts, turns per second, pauses and the most repeated move
sequences of a session.

Examples:
  cubetwist stats --last
  cubetwist stats --id <session_id> --json`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVar(&statsID, "id", "", "Session ID")
	statsCmd.Flags().BoolVar(&statsLast, "last", false, "Use the last session")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Print JSON")
	statsCmd.Flags().IntVar(&statsTopK, "top", 3, "Repeated sequences to show per length")
}

func runStats(cmd *cobra.Command, args []string) error {
	if statsID == "" && !statsLast {
		return fmt.Errorf("specify --id or --last")
	}
	s, err := loadSettings()
	if err != nil {
		return err
	}
	db, err := s.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	sess, err := findSession(db, statsID, statsLast)
	if err != nil {
		return err
	}
	moves, err := recorder.LoadMoves(db, sess.SessionID)
	if err != nil {
		return fmt.Errorf("failed to load moves: %w", err)
	}

	var duration int64
	if sess.DurationMs != nil {
		duration = *sess.DurationMs
	}
	summary := analysis.Summarize(sess.SessionID, moves, duration)
	ngrams := analysis.MineNGrams(moves, 3, 8, statsTopK)

	if statsJSON {
		data, err := json.MarshalIndent(struct {
			*analysis.Summary
			NGrams *analysis.NGramReport `json:"ngrams"`
		}{summary, ngrams}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Session:      %s (%dx%d)\n", sess.SessionID, sess.Size, sess.Size)
	fmt.Printf("Solved:       %s\n", yesNo(sess.Solved))
	fmt.Printf("Moves:        %d (%d after merging)\n", summary.TotalMoves, summary.SimplifiedMoves)
	fmt.Printf("Duration:     %s\n", formatDuration(&summary.DurationMs, false))
	fmt.Printf("TPS:          %.2f\n", summary.TPS)
	fmt.Printf("Longest gap:  %d ms (%d over %d ms)\n", summary.LongestPauseMs, summary.PauseCount, analysis.DefaultPauseThresholdMs)

	var faces []string
	for _, f := range types.Faces {
		faces = append(faces, fmt.Sprintf("%s:%d", f, summary.Profile.FaceCounts[f]))
	}
	fmt.Printf("Faces:        %s (inner layers %d)\n", strings.Join(faces, " "), summary.Profile.InnerLayer)

	for n := 3; n <= 8; n++ {
		for _, ng := range ngrams.TopNGrams[n] {
			fmt.Printf("  x%-3d %s\n", ng.Count, strings.Join(ng.Sequence, " "))
		}
	}
	return nil
}
