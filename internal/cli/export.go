package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubetwist/internal/storage"
)

var (
	exportID     string
	exportFormat string
	exportOutput string
	exportLast   bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export session data",
	Long:  `Export journaled session data in various formats.`,
}

var exportMovesCmd = &cobra.Command{
	Use:   "moves",
	Short: "Export moves from a session",
	Long: `Export the move sequence from a session in text or JSON format.

Examples:
  cubetwist export moves --last
  cubetwist export moves --id <session_id> --format json
  cubetwist export moves --id <session_id> --format txt -o moves.txt`,
	RunE: runExportMoves,
}

var exportEventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Export non-move events from a session as JSON lines",
	RunE:  runExportEvents,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	for _, c := range []*cobra.Command{exportMovesCmd, exportEventsCmd} {
		exportCmd.AddCommand(c)
		c.Flags().StringVar(&exportID, "id", "", "Session ID to export")
		c.Flags().BoolVar(&exportLast, "last", false, "Export the last session")
		c.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
	}
	exportMovesCmd.Flags().StringVar(&exportFormat, "format", "txt", "Export format (txt, json)")
}

func openExportSession() (*storage.DB, *storage.Session, error) {
	if exportID == "" && !exportLast {
		return nil, nil, fmt.Errorf("specify --id or --last")
	}
	s, err := loadSettings()
	if err != nil {
		return nil, nil, err
	}
	db, err := s.openDB()
	if err != nil {
		return nil, nil, err
	}
	sess, err := findSession(db, exportID, exportLast)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, sess, nil
}

func runExportMoves(cmd *cobra.Command, args []string) error {
	db, sess, err := openExportSession()
	if err != nil {
		return err
	}
	defer db.Close()

	moves, err := storage.NewMoveRepository(db).GetBySession(sess.SessionID)
	if err != nil {
		return fmt.Errorf("failed to get moves: %w", err)
	}
	if len(moves) == 0 {
		return fmt.Errorf("no moves found for session %s", sess.SessionID)
	}

	var output string
	switch strings.ToLower(exportFormat) {
	case "txt":
		var notations []string
		for _, m := range moves {
			notations = append(notations, m.Notation)
		}
		output = strings.Join(notations, " ")

	case "json":
		type MoveJSON struct {
			MoveIndex int    `json:"move_index"`
			TsMs      int64  `json:"ts_ms"`
			Face      string `json:"face"`
			Turn      int    `json:"turn"`
			Depth     int    `json:"depth"`
			Notation  string `json:"notation"`
			Source    string `json:"source"`
		}

		movesJSON := make([]MoveJSON, 0, len(moves))
		for _, m := range moves {
			movesJSON = append(movesJSON, MoveJSON{
				MoveIndex: m.MoveIndex,
				TsMs:      m.TsMs,
				Face:      m.Face,
				Turn:      m.Turn,
				Depth:     m.Depth,
				Notation:  m.Notation,
				Source:    m.Source,
			})
		}

		data, err := json.MarshalIndent(movesJSON, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		output = string(data)

	default:
		return fmt.Errorf("unknown format: %s (use txt or json)", exportFormat)
	}

	return writeExport(output, fmt.Sprintf("%d moves", len(moves)))
}

func runExportEvents(cmd *cobra.Command, args []string) error {
	db, sess, err := openExportSession()
	if err != nil {
		return err
	}
	defer db.Close()

	events, err := storage.NewEventRepository(db).GetBySession(sess.SessionID)
	if err != nil {
		return fmt.Errorf("failed to get events: %w", err)
	}

	lines := make([]string, 0, len(events))
	for _, e := range events {
		lines = append(lines, fmt.Sprintf(`{"ts_ms":%d,"type":%q,"payload":%s}`, e.TsMs, e.EventType, e.PayloadJSON))
	}
	return writeExport(strings.Join(lines, "\n"), fmt.Sprintf("%d events", len(events)))
}

func writeExport(output, what string) error {
	if exportOutput == "" {
		fmt.Println(output)
		return nil
	}

	dir := filepath.Dir(exportOutput)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(exportOutput, []byte(output+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Printf("Exported %s to %s\n", what, exportOutput)
	return nil
}
