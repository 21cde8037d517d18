package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubetwist/internal/recorder"
	"github.com/SeamusWaldron/cubetwist/internal/storage"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List journaled sessions",
	Long:  `List the most recent sessions, newest first.`,
	RunE:  runHistory,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show journal status",
	Long:  `Display the database location, the last session and any session left open.`,
	RunE:  runStatus,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session and its moves",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(deleteCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "Maximum number of sessions")
}

func runHistory(cmd *cobra.Command, args []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}
	db, err := s.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	sessions, err := storage.NewSessionRepository(db).List(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Println("No sessions recorded")
		return nil
	}

	moveRepo := storage.NewMoveRepository(db)
	fmt.Printf("%-8s  %-19s  %-7s  %5s  %9s  %s\n", "ID", "STARTED", "PUZZLE", "MOVES", "DURATION", "SOLVED")
	for _, sess := range sessions {
		count, err := moveRepo.Count(sess.SessionID)
		if err != nil {
			return fmt.Errorf("failed to count moves: %w", err)
		}
		fmt.Printf("%-8s  %-19s  %-7s  %5d  %9s  %s\n",
			sess.SessionID[:8],
			sess.StartedAt.Local().Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%dx%d", sess.Size, sess.Size),
			count,
			formatDuration(sess.DurationMs, sess.EndedAt == nil),
			yesNo(sess.Solved),
		)
	}
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}

	fmt.Println("cubetwist Status")
	fmt.Println("================")
	fmt.Println()

	path, err := s.getDBPath()
	if err != nil {
		return err
	}
	fmt.Printf("Database: %s\n", path)

	db, err := storage.Open(path)
	if err == nil {
		defer db.Close()
		if v, err := db.CurrentVersion(); err == nil {
			fmt.Printf("Schema version: %d\n", v)
		}
		last, err := storage.NewSessionRepository(db).GetLast()
		switch {
		case errors.Is(err, storage.ErrNotFound):
			fmt.Println("No sessions recorded")
		case err != nil:
			fmt.Printf("Error reading sessions: %v\n", err)
		default:
			fmt.Printf("Last session: %s (%s)\n", last.SessionID, last.StartedAt.Local().Format(time.RFC3339))
		}
	} else {
		fmt.Printf("Database unavailable: %v\n", err)
	}

	fmt.Println()

	stateFile, err := recorder.NewDefaultStateFile()
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	if stateFile.HasActiveSession() {
		fmt.Printf("Open session: %s\n", stateFile.ActiveSessionID())
		fmt.Printf("  (It was not ended cleanly; 'cubetwist play --resume %s' continues it)\n", stateFile.ActiveSessionID())
	} else {
		fmt.Println("No open session")
	}
	if st := stateFile.State(); st.LastSize > 0 {
		fmt.Printf("Last puzzle: %dx%d, theme %s\n", st.LastSize, st.LastSize, st.LastTheme)
	}
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}
	db, err := s.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := storage.NewSessionRepository(db).Delete(args[0]); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	fmt.Printf("Deleted session %s\n", args[0])
	return nil
}

func formatDuration(ms *int64, open bool) string {
	if open {
		return "open"
	}
	if ms == nil {
		return "-"
	}
	return (time.Duration(*ms) * time.Millisecond).Round(time.Second).String()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
