package recorder

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/SeamusWaldron/cubetwist"
	"github.com/SeamusWaldron/cubetwist/internal/storage"
)

// Errors returned by Session.
var (
	ErrAlreadyRecording = errors.New("recorder: session already in progress")
	ErrNotRecording     = errors.New("recorder: no session in progress")
	ErrSessionEnded     = errors.New("recorder: session already ended")
)

// SessionState represents the current state of a recording session.
type SessionState int

const (
	StateIdle SessionState = iota
	StateRecording
	StateEnded
)

// String returns the string representation of the session state.
func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Session journals one puzzle's moves and notable events.
type Session struct {
	db        *storage.DB
	stateFile *StateFile
	log       logrus.FieldLogger

	mu        sync.RWMutex
	state     SessionState
	sessionID string
	startTime time.Time
	moveIndex int
	solved    bool

	sessionRepo *storage.SessionRepository
	moveRepo    *storage.MoveRepository
	eventRepo   *storage.EventRepository
}

// NewSession creates a session manager. stateFile may be nil.
func NewSession(db *storage.DB, stateFile *StateFile, log logrus.FieldLogger) *Session {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Session{
		db:          db,
		stateFile:   stateFile,
		log:         log,
		state:       StateIdle,
		sessionRepo: storage.NewSessionRepository(db),
		moveRepo:    storage.NewMoveRepository(db),
		eventRepo:   storage.NewEventRepository(db),
	}
}

// State returns the current session state.
func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SessionID returns the current session ID.
func (s *Session) SessionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionID
}

// MoveCount returns the number of moves recorded so far.
func (s *Session) MoveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.moveIndex
}

// ElapsedMs returns the time since the session started.
func (s *Session) ElapsedMs() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateRecording {
		return 0
	}
	return time.Since(s.startTime).Milliseconds()
}

// Start opens a new session for a puzzle.
func (s *Session) Start(variant string, size int, scramble, notes string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRecording {
		return "", ErrAlreadyRecording
	}

	id, err := s.sessionRepo.Create(variant, size, scramble, notes)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	s.sessionID = id
	s.startTime = time.Now()
	s.moveIndex = 0
	s.solved = false
	s.state = StateRecording

	if s.stateFile != nil {
		if err := s.stateFile.SetActiveSession(id); err != nil {
			s.log.WithError(err).Warn("recorder: failed to update state file")
		}
	}

	return id, nil
}

// SetScramble stores the scramble text once it is known.
func (s *Session) SetScramble(scramble string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateRecording {
		return ErrNotRecording
	}
	return s.sessionRepo.SetScramble(s.sessionID, scramble)
}

// End closes the current session.
func (s *Session) End() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRecording {
		return ErrNotRecording
	}

	if err := s.sessionRepo.End(s.sessionID, s.solved); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}

	s.state = StateEnded

	if s.stateFile != nil {
		if err := s.stateFile.ClearActiveSession(); err != nil {
			s.log.WithError(err).Warn("recorder: failed to update state file")
		}
	}

	return nil
}

// Resume continues an unfinished session and returns its moves so the
// caller can rebuild the puzzle.
func (s *Session) Resume(sessionID string) ([]cubetwist.Move, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessionRepo.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.EndedAt != nil {
		return nil, ErrSessionEnded
	}

	records, err := s.moveRepo.GetBySession(sessionID)
	if err != nil {
		return nil, err
	}
	nextIndex, err := s.moveRepo.GetNextIndex(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get next move index: %w", err)
	}

	s.sessionID = sessionID
	s.startTime = sess.StartedAt
	s.moveIndex = nextIndex
	s.solved = sess.Solved
	s.state = StateRecording

	if s.stateFile != nil {
		if err := s.stateFile.SetActiveSession(sessionID); err != nil {
			s.log.WithError(err).Warn("recorder: failed to update state file")
		}
	}

	return storage.ToMoves(records), nil
}

// Attach journals p's events until the returned function is called.
func (s *Session) Attach(p *cubetwist.Puzzle) (detach func()) {
	return p.Subscribe(func(ev cubetwist.Event) {
		if err := s.HandleEvent(ev); err != nil {
			s.log.WithError(err).WithField("event", ev.Kind).Warn("recorder: failed to journal event")
		}
	})
}

// HandleEvent records one puzzle event. Completed turns become moves;
// animation frames and queue bookkeeping are dropped; everything else is
// kept as a JSON event.
func (s *Session) HandleEvent(ev cubetwist.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRecording {
		return nil
	}

	tsMs := time.Since(s.startTime).Milliseconds()

	switch ev.Kind {
	case cubetwist.EventRotationDone, cubetwist.EventDragMove:
		move := ev.Move
		move.Timestamp = tsMs
		if _, err := s.moveRepo.Create(s.sessionID, s.moveIndex, move, ev.Source); err != nil {
			return fmt.Errorf("failed to store move: %w", err)
		}
		s.moveIndex++
		return nil

	case cubetwist.EventRotationStep, cubetwist.EventRotationStart, cubetwist.EventQueued, cubetwist.EventQueueEmpty:
		return nil

	case cubetwist.EventSolved:
		s.solved = true
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if _, err := s.eventRepo.Create(s.sessionID, tsMs, string(ev.Kind), string(payload)); err != nil {
		return fmt.Errorf("failed to store event: %w", err)
	}
	return nil
}

// LoadMoves returns a session's moves in order.
func LoadMoves(db *storage.DB, sessionID string) ([]cubetwist.Move, error) {
	records, err := storage.NewMoveRepository(db).GetBySession(sessionID)
	if err != nil {
		return nil, err
	}
	return storage.ToMoves(records), nil
}
