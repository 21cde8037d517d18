// Package cli implements the command-line interface for cubetwist.
package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubetwist"
	"github.com/SeamusWaldron/cubetwist/internal/config"
	"github.com/SeamusWaldron/cubetwist/internal/storage"
)

const version = "0.1.0"

var (
	// Global flags
	configPath string
	dbPath     string
	verbose    bool
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "cubetwist",
	Short: "Twisty puzzle simulator",
	Long: `cubetwist - A terminal simulator for 2x2 to 5x5 twisty puzzles.

Turn layers from the keyboard, scramble and replay, and keep a journal of
every session in a local SQLite database.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: $"+config.EnvConfig+")")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database file path (default: ~/.cubetwist/cubetwist.db)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

// settings bundles what every command needs.
type settings struct {
	cfg *config.Config
	log *logrus.Logger
}

func loadSettings() (*settings, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(cfg.LogLevel())
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return &settings{cfg: cfg, log: log}, nil
}

// puzzleOptions turns the configuration into puzzle options. size overrides
// the configured size when positive.
func (s *settings) puzzleOptions(size int) ([]cubetwist.Option, error) {
	if size <= 0 {
		size = s.cfg.Puzzle.Size
	}
	easing, err := cubetwist.EasingByName(s.cfg.Animation.Easing, s.cfg.Animation.EasingParam)
	if err != nil {
		return nil, err
	}
	return []cubetwist.Option{
		cubetwist.WithSize(size),
		cubetwist.WithTheme(s.cfg.Puzzle.Theme),
		cubetwist.WithFlip(s.cfg.Puzzle.Flip),
		cubetwist.WithTurnDuration(s.cfg.TurnDuration()),
		cubetwist.WithSettleDelay(s.cfg.SettleDelay()),
		cubetwist.WithEasing(easing),
		cubetwist.WithLogger(s.log),
	}, nil
}

func (s *settings) newPuzzle(size int, extra ...cubetwist.Option) (*cubetwist.Puzzle, error) {
	opts, err := s.puzzleOptions(size)
	if err != nil {
		return nil, err
	}
	return cubetwist.New(append(opts, extra...)...)
}

// getDBPath returns the database path from the --db flag or the config.
func (s *settings) getDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	return s.cfg.DBPath()
}

func (s *settings) openDB() (*storage.DB, error) {
	path, err := s.getDBPath()
	if err != nil {
		return nil, err
	}
	db, err := storage.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}
