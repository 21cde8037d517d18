package recorder

import (
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/cubetwist"
	"github.com/SeamusWaldron/cubetwist/internal/storage"
)

func setup(t *testing.T) (*storage.DB, *StateFile, *Session) {
	t.Helper()
	dir := t.TempDir()
	db, err := storage.Open(filepath.Join(dir, "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	sf, err := NewStateFile(filepath.Join(dir, "state.json"))
	require.NoError(t, err)
	log := logrus.New()
	log.SetOutput(io.Discard)
	return db, sf, NewSession(db, sf, log)
}

func newPuzzle(t *testing.T) (*cubetwist.Puzzle, *cubetwist.ManualClock) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	clock := cubetwist.NewManualClock()
	p, err := cubetwist.New(
		cubetwist.WithClock(clock),
		cubetwist.WithLogger(log),
		cubetwist.WithTurnDuration(50*time.Millisecond),
		cubetwist.WithSettleDelay(0),
	)
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	return p, clock
}

func TestSessionJournalsMoves(t *testing.T) {
	db, sf, s := setup(t)
	p, clock := newPuzzle(t)

	id, err := s.Start("cube3", 3, "", "")
	require.NoError(t, err)
	assert.Equal(t, id, sf.ActiveSessionID())
	_, err = s.Start("cube3", 3, "", "")
	assert.True(t, errors.Is(err, ErrAlreadyRecording))

	detach := s.Attach(p)
	defer detach()

	scramble, err := p.ScrambleNow(8)
	require.NoError(t, err)
	require.NoError(t, s.SetScramble(cubetwist.FormatMoves(scramble)))

	require.NoError(t, p.Enqueue(cubetwist.InverseMoves(scramble)...))
	for i := 0; i < 1000 && (p.IsRotating() || p.QueueLength() > 0); i++ {
		clock.Advance(16 * time.Millisecond)
		p.Tick()
	}
	require.True(t, p.IsSolved())
	assert.Equal(t, 16, s.MoveCount())

	require.NoError(t, s.End())
	assert.False(t, sf.HasActiveSession())
	assert.True(t, errors.Is(s.End(), ErrNotRecording))

	sess, err := storage.NewSessionRepository(db).Get(id)
	require.NoError(t, err)
	assert.True(t, sess.Solved)
	require.NotNil(t, sess.ScrambleText)
	assert.Equal(t, cubetwist.FormatMoves(scramble), *sess.ScrambleText)

	records, err := storage.NewMoveRepository(db).GetBySession(id)
	require.NoError(t, err)
	require.Len(t, records, 16)
	assert.Equal(t, "scramble", records[0].Source)
	assert.Equal(t, "queue", records[8].Source)

	solved, err := storage.NewEventRepository(db).GetByType(id, string(cubetwist.EventSolved))
	require.NoError(t, err)
	assert.Len(t, solved, 1)
}

func TestReplayReproducesState(t *testing.T) {
	db, _, s := setup(t)
	p, _ := newPuzzle(t)

	id, err := s.Start("cube3", 3, "", "")
	require.NoError(t, err)
	detach := s.Attach(p)
	require.NoError(t, p.ApplyNotation("R U2 F' L D B2"))
	detach()
	require.NoError(t, p.Apply(cubetwist.R), "moves after detach are not journaled")

	moves, err := LoadMoves(db, id)
	require.NoError(t, err)
	assert.Equal(t, "R U2 F' L D B2", cubetwist.FormatMoves(moves))

	fresh, _ := newPuzzle(t)
	require.NoError(t, fresh.Apply(moves...))
	require.NoError(t, fresh.Apply(cubetwist.R))
	assert.Equal(t, p.State(), fresh.State())
}

func TestResumeContinuesIndex(t *testing.T) {
	db, _, s := setup(t)
	p, _ := newPuzzle(t)

	id, err := s.Start("cube3", 3, "", "")
	require.NoError(t, err)
	detach := s.Attach(p)
	require.NoError(t, p.ApplyNotation("R U"))
	detach()

	s2 := NewSession(db, nil, nil)
	moves, err := s2.Resume(id)
	require.NoError(t, err)
	assert.Len(t, moves, 2)
	assert.Equal(t, 2, s2.MoveCount())

	p2, _ := newPuzzle(t)
	require.NoError(t, p2.Apply(moves...))
	detach = s2.Attach(p2)
	defer detach()
	require.NoError(t, p2.Apply(cubetwist.F))

	all, err := LoadMoves(db, id)
	require.NoError(t, err)
	assert.Equal(t, "R U F", cubetwist.FormatMoves(all))

	require.NoError(t, s2.End())
	_, err = NewSession(db, nil, nil).Resume(id)
	assert.True(t, errors.Is(err, ErrSessionEnded))
}

func TestStateFilePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	sf, err := NewStateFile(path)
	require.NoError(t, err)
	require.NoError(t, sf.SetLastPuzzle(4, "forest"))
	require.NoError(t, sf.SetActiveSession("abc"))

	again, err := NewStateFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4, again.State().LastSize)
	assert.Equal(t, "forest", again.State().LastTheme)
	assert.Equal(t, "abc", again.ActiveSessionID())
}
