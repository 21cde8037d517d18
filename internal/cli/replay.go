package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubetwist"
	"github.com/SeamusWaldron/cubetwist/internal/anim"
	"github.com/SeamusWaldron/cubetwist/internal/recorder"
	"github.com/SeamusWaldron/cubetwist/internal/storage"
)

var (
	replayID    string
	replayLast  bool
	replaySpeed float64
	replayStep  bool
	replayPrint bool
	replayColor bool
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a journaled session",
	Long: `Replay the moves of a journaled session on a fresh puzzle.

Usage:
  cubetwist replay --last                # Animate the last session
  cubetwist replay --id <id> --speed 2   # Replay at 2x speed
  cubetwist replay --last --step         # Step through moves with SPACE
  cubetwist replay --last --print        # Print the final net and exit`,
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().StringVar(&replayID, "id", "", "Session ID to replay")
	replayCmd.Flags().BoolVar(&replayLast, "last", false, "Replay the last session")
	replayCmd.Flags().Float64VarP(&replaySpeed, "speed", "s", 1.0, "Playback speed multiplier")
	replayCmd.Flags().BoolVarP(&replayStep, "step", "t", false, "Step through moves manually")
	replayCmd.Flags().BoolVar(&replayPrint, "print", false, "Apply instantly and print the result")
	replayCmd.Flags().BoolVar(&replayColor, "color", false, "Use theme colors for the printed net")
}

func runReplay(cmd *cobra.Command, args []string) error {
	if replayID == "" && !replayLast {
		return fmt.Errorf("specify --id or --last")
	}
	if replaySpeed <= 0 {
		return fmt.Errorf("speed must be positive")
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

	sess, err := findSession(db, replayID, replayLast)
	if err != nil {
		return err
	}
	moves, err := recorder.LoadMoves(db, sess.SessionID)
	if err != nil {
		return fmt.Errorf("failed to load moves: %w", err)
	}

	opts, err := s.puzzleOptions(sess.Size)
	if err != nil {
		return err
	}
	opts = append(opts,
		cubetwist.WithTurnDuration(time.Duration(float64(s.cfg.TurnDuration())/replaySpeed)),
		cubetwist.WithSettleDelay(time.Duration(float64(s.cfg.SettleDelay())/replaySpeed)),
	)
	p, err := cubetwist.New(opts...)
	if err != nil {
		return err
	}
	defer p.Close()

	fmt.Printf("Session: %s\n", sess.SessionID)
	fmt.Printf("Started: %s\n", sess.StartedAt.Local().Format(time.RFC3339))
	fmt.Printf("Moves:   %d\n", len(moves))

	if replayPrint {
		if err := p.Apply(moves...); err != nil {
			return err
		}
		fmt.Printf("Solved:  %v\n\n", p.IsSolved())
		printNet(p, replayColor)
		return nil
	}

	m := newReplayModel(p, sess, moves, replayStep)
	prog := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("replay error: %w", err)
	}
	return nil
}

// findSession resolves --id or --last. An ID may be given as a prefix.
func findSession(db *storage.DB, id string, last bool) (*storage.Session, error) {
	repo := storage.NewSessionRepository(db)
	if last {
		sess, err := repo.GetLast()
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("no sessions found")
		}
		return sess, err
	}
	sess, err := repo.Get(id)
	if err == nil || !errors.Is(err, storage.ErrNotFound) {
		return sess, err
	}
	recent, lerr := repo.List(1000)
	if lerr != nil {
		return nil, lerr
	}
	var match *storage.Session
	for i := range recent {
		if strings.HasPrefix(recent[i].SessionID, id) {
			if match != nil {
				return nil, fmt.Errorf("session prefix %q is ambiguous", id)
			}
			match = &recent[i]
		}
	}
	if match == nil {
		return nil, err
	}
	return match, nil
}

type replayModel struct {
	puzzle  *cubetwist.Puzzle
	session *storage.Session
	moves   []cubetwist.Move
	step    bool

	next     int // index of the next move to enqueue
	paused   bool
	quitting bool
}

func newReplayModel(p *cubetwist.Puzzle, sess *storage.Session, moves []cubetwist.Move, step bool) *replayModel {
	return &replayModel{puzzle: p, session: sess, moves: moves, step: step}
}

func (m *replayModel) Init() tea.Cmd {
	return m.frameCmd()
}

func (m *replayModel) frameCmd() tea.Cmd {
	return tea.Tick(anim.FrameDuration, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m *replayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case " ", "n", "right":
			if m.step {
				m.enqueueNext()
			} else {
				m.paused = !m.paused
			}
		case "r":
			if err := m.puzzle.Reset(); err == nil {
				m.next = 0
			}
		}

	case frameMsg:
		if !m.step && !m.paused && m.puzzle.QueueLength() == 0 && !m.puzzle.IsRotating() {
			m.enqueueNext()
		}
		m.puzzle.Tick()
		return m, m.frameCmd()
	}
	return m, nil
}

func (m *replayModel) enqueueNext() {
	if m.next >= len(m.moves) {
		return
	}
	if err := m.puzzle.Enqueue(m.moves[m.next]); err == nil {
		m.next++
	}
}

func (m *replayModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Replay %s", m.session.SessionID[:8])))
	b.WriteString("\n\n")
	b.WriteString(m.puzzle.ColorNet())
	b.WriteString("\n")

	done := len(m.puzzle.Moves())
	b.WriteString(phaseStyle.Render(fmt.Sprintf("%d/%d", done, len(m.moves))))
	switch {
	case done == len(m.moves) && m.puzzle.IsSolved():
		b.WriteString(statusStyle.Render("  solved"))
	case done == len(m.moves):
		b.WriteString(statusStyle.Render("  finished"))
	case m.paused:
		b.WriteString(statusStyle.Render("  paused"))
	}
	b.WriteString("\n")

	if done > 0 {
		start := max(0, done-20)
		if start > 0 {
			b.WriteString("... ")
		}
		b.WriteString(moveStyle.Render(cubetwist.FormatMoves(m.moves[start:done])))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.step {
		b.WriteString(helpStyle.Render("[space] next move  [r] restart  [q] quit"))
	} else {
		b.WriteString(helpStyle.Render("[space] pause  [r] restart  [q] quit"))
	}
	b.WriteString("\n")
	return b.String()
}
