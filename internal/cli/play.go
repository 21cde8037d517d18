package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubetwist"
	"github.com/SeamusWaldron/cubetwist/internal/anim"
	"github.com/SeamusWaldron/cubetwist/internal/model"
	"github.com/SeamusWaldron/cubetwist/internal/recorder"
	"github.com/SeamusWaldron/cubetwist/internal/storage"
)

var (
	playSize     int
	playNoRecord bool
	playResume   string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Interactive puzzle",
	Long: `Start an interactive TUI showing the puzzle as an unfolded net.

Keyboard shortcuts:
  r u f d l b   - Turn a face clockwise
  R U F D L B   - Turn a face counter-clockwise
  1-7           - Layer depth for the next turn (2 then r is 2R)
  s / S         - Scramble animated / instantly
  z             - Undo the last turn
  c             - Clear the queue and settle
  x             - Reset to solved
  + / -         - Grow or shrink the puzzle
  t             - Next color theme
  p             - Pause or resume animation
  q/Esc         - Quit

Every session is journaled unless --no-record is given. --resume reopens
a session that was not ended cleanly, replays its moves and keeps
journaling into it.`,
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().IntVarP(&playSize, "size", "n", 0, "Puzzle size N (default from config)")
	playCmd.Flags().BoolVar(&playNoRecord, "no-record", false, "Do not journal the session")
	playCmd.Flags().StringVar(&playResume, "resume", "", "Continue an unfinished session by ID or ID prefix")
	playCmd.MarkFlagsMutuallyExclusive("resume", "no-record")
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	phaseStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	moveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// Messages
type frameMsg time.Time
type puzzleEventMsg struct{ ev cubetwist.Event }

type playModel struct {
	puzzle *cubetwist.Puzzle
	log    logrus.FieldLogger
	events chan cubetwist.Event

	// Journal
	db        *storage.DB
	stateFile *recorder.StateFile
	session   *recorder.Session
	detach    func()
	sessionID string

	// Input
	depth int

	// Display
	themes   []string
	themeIdx int
	lastMove string
	err      error
	quitting bool
}

func runPlay(cmd *cobra.Command, args []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}
	size := playSize
	if size <= 0 {
		if sf, err := recorder.NewDefaultStateFile(); err == nil && sf.State().LastSize > 0 {
			size = sf.State().LastSize
		}
	}

	p, err := s.newPuzzle(size)
	if err != nil {
		return err
	}
	defer p.Close()

	m := newPlayModel(p, s.log)
	if !playNoRecord {
		db, err := s.openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		stateFile, err := recorder.NewDefaultStateFile()
		if err != nil {
			s.log.WithError(err).Warn("cli: state file unavailable")
			stateFile = nil
		}
		m.db = db
		m.stateFile = stateFile
		m.session = recorder.NewSession(db, stateFile, s.log)
		if playResume != "" {
			err = m.resumeSession(playResume)
		} else {
			err = m.startSession()
		}
		if err != nil {
			return err
		}
	}

	prog := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}

	if m.sessionID != "" {
		fmt.Printf("Session saved: %s (%d moves)\n", m.sessionID, m.session.MoveCount())
	}
	return nil
}

func newPlayModel(p *cubetwist.Puzzle, log logrus.FieldLogger) *playModel {
	m := &playModel{
		puzzle: p,
		log:    log,
		events: make(chan cubetwist.Event, 256),
		themes: model.ThemeNames(),
	}
	p.Subscribe(func(ev cubetwist.Event) {
		if ev.Kind == cubetwist.EventRotationStep {
			return
		}
		select {
		case m.events <- ev:
		default:
			// Channel full, drop event
		}
	})
	return m
}

func (m *playModel) startSession() error {
	if m.session == nil {
		return nil
	}
	st := m.puzzle.Status()
	id, err := m.session.Start(st.Variant, st.Size, "", "")
	if err != nil {
		return err
	}
	m.sessionID = id
	m.detach = m.session.Attach(m.puzzle)
	if m.stateFile != nil {
		if err := m.stateFile.SetLastPuzzle(st.Size, m.currentTheme()); err != nil {
			m.log.WithError(err).Warn("cli: failed to update state file")
		}
	}
	return nil
}

// resumeSession reopens an unfinished session, rebuilds its puzzle from the
// journaled moves and keeps recording into it.
func (m *playModel) resumeSession(id string) error {
	sess, err := findSession(m.db, id, false)
	if err != nil {
		return err
	}
	moves, err := m.session.Resume(sess.SessionID)
	if err != nil {
		return fmt.Errorf("failed to resume session %s: %w", sess.SessionID, err)
	}
	if sess.Size != m.puzzle.Size() {
		if err := m.puzzle.Resize(sess.Size); err != nil {
			return err
		}
	}
	if err := m.puzzle.Apply(moves...); err != nil {
		return fmt.Errorf("failed to replay session %s: %w", sess.SessionID, err)
	}
	m.sessionID = sess.SessionID
	m.detach = m.session.Attach(m.puzzle)
	m.log.WithFields(logrus.Fields{"session": sess.SessionID, "moves": len(moves)}).Info("cli: resumed session")
	return nil
}

func (m *playModel) endSession() {
	if m.session == nil || m.session.State() != recorder.StateRecording {
		return
	}
	if m.detach != nil {
		m.detach()
		m.detach = nil
	}
	if err := m.session.End(); err != nil {
		m.err = err
	}
}

// restartSession closes the journal before the puzzle is rebuilt and opens
// a new one afterwards.
func (m *playModel) restartSession(rebuild func() error) {
	m.endSession()
	if err := rebuild(); err != nil {
		m.err = err
	}
	if m.session != nil {
		if err := m.startSession(); err != nil {
			m.err = err
		}
	}
}

func (m *playModel) currentTheme() string {
	if len(m.themes) == 0 {
		return model.DefaultTheme
	}
	return m.themes[m.themeIdx%len(m.themes)]
}

func (m *playModel) Init() tea.Cmd {
	return tea.Batch(m.frameCmd(), m.listenForEvents())
}

func (m *playModel) frameCmd() tea.Cmd {
	return tea.Tick(anim.FrameDuration, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m *playModel) listenForEvents() tea.Cmd {
	return func() tea.Msg {
		return puzzleEventMsg{ev: <-m.events}
	}
}

func (m *playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg.String())

	case frameMsg:
		m.puzzle.Tick()
		return m, m.frameCmd()

	case puzzleEventMsg:
		switch msg.ev.Kind {
		case cubetwist.EventRotationDone, cubetwist.EventDragMove:
			m.lastMove = msg.ev.Move.Notation()
		case cubetwist.EventQueueCleared:
			m.lastMove = ""
		}
		return m, m.listenForEvents()
	}

	return m, nil
}

func (m *playModel) handleKey(key string) tea.Cmd {
	m.err = nil
	switch key {
	case "q", "esc", "ctrl+c":
		m.quitting = true
		m.endSession()
		return tea.Quit

	case "1", "2", "3", "4", "5", "6", "7":
		m.depth = int(key[0] - '0')

	case "r", "u", "f", "d", "l", "b", "R", "U", "F", "D", "L", "B":
		token := strings.ToUpper(key)
		if m.depth > 1 {
			token = fmt.Sprintf("%d%s", m.depth, token)
		}
		if key == strings.ToUpper(key) {
			token += "'"
		}
		m.depth = 0
		m.err = m.puzzle.Do(token)

	case "s":
		moves, err := m.puzzle.Scramble(0)
		m.noteScramble(moves, err)

	case "S":
		moves, err := m.puzzle.ScrambleNow(0)
		m.noteScramble(moves, err)

	case "z":
		moves := m.puzzle.Moves()
		if len(moves) > 0 {
			m.err = m.puzzle.Enqueue(moves[len(moves)-1].Inverse())
		}

	case "c":
		m.puzzle.ClearQueue()
		m.puzzle.Settle()

	case "x":
		m.restartSession(m.puzzle.Reset)

	case "+", "=":
		m.resize(m.puzzle.Size() + 1)

	case "-", "_":
		m.resize(m.puzzle.Size() - 1)

	case "t":
		m.themeIdx = (m.themeIdx + 1) % max(1, len(m.themes))
		m.puzzle.SetTheme(m.currentTheme())

	case "p":
		if m.puzzle.Status().Paused {
			m.puzzle.Resume()
		} else {
			m.puzzle.Pause()
		}
	}
	return nil
}

func (m *playModel) resize(n int) {
	m.restartSession(func() error { return m.puzzle.Resize(n) })
}

func (m *playModel) noteScramble(moves []cubetwist.Move, err error) {
	if err != nil {
		m.err = err
		return
	}
	if m.session != nil && m.session.State() == recorder.StateRecording {
		if err := m.session.SetScramble(cubetwist.FormatMoves(moves)); err != nil {
			m.err = err
		}
	}
}

func (m *playModel) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	var b strings.Builder
	st := m.puzzle.Status()

	b.WriteString(titleStyle.Render(fmt.Sprintf("cubetwist %dx%d", st.Size, st.Size)))
	b.WriteString("  ")
	b.WriteString(statusStyle.Render(m.currentTheme()))
	b.WriteString("\n\n")

	b.WriteString(m.puzzle.ColorNet())
	b.WriteString("\n")

	if st.Solved {
		b.WriteString(phaseStyle.Render("SOLVED"))
	} else {
		b.WriteString(phaseStyle.Render(strings.ToUpper(st.Phase)))
	}
	status := fmt.Sprintf("  queue: %d  moves: %d", st.Pending, st.Moves)
	if m.depth > 1 {
		status += fmt.Sprintf("  depth: %d", m.depth)
	}
	if st.Paused {
		status += "  (paused)"
	}
	b.WriteString(statusStyle.Render(status))
	b.WriteString("\n")

	if moves := m.puzzle.Moves(); len(moves) > 0 {
		start := 0
		if len(moves) > 20 {
			start = len(moves) - 20
			b.WriteString("... ")
		}
		b.WriteString(moveStyle.Render(cubetwist.FormatMoves(moves[start:])))
		b.WriteString("\n")
	}

	if m.lastMove != "" {
		b.WriteString(statusStyle.Render("Last: "))
		b.WriteString(moveStyle.Render(m.lastMove))
		b.WriteString("\n")
	}

	if m.sessionID != "" {
		b.WriteString(statusStyle.Render(fmt.Sprintf("Session: %s", m.sessionID[:8])))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("[rufdlb] turn  [RUFDLB] reverse  [1-7] depth  [s] scramble  [z] undo  [x] reset  [+/-] size  [t] theme  [q] quit"))
	b.WriteString("\n")

	return b.String()
}
