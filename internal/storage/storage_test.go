package storage

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/cubetwist/pkg/types"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenMigrates(t *testing.T) {
	db := openTestDB(t)
	v, err := db.CurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	// Reopening does not re-run migrations.
	path := db.Path()
	require.NoError(t, db.Close())
	db2, err := Open(path)
	require.NoError(t, err)
	defer db2.Close()
	v, err = db2.CurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestSessionLifecycle(t *testing.T) {
	db := openTestDB(t)
	repo := NewSessionRepository(db)

	id, err := repo.Create("cube3", 3, "", "")
	require.NoError(t, err)
	require.NoError(t, repo.SetScramble(id, "R U F'"))

	s, err := repo.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "cube3", s.Variant)
	assert.Equal(t, 3, s.Size)
	require.NotNil(t, s.ScrambleText)
	assert.Equal(t, "R U F'", *s.ScrambleText)
	assert.Nil(t, s.Notes)
	assert.Nil(t, s.EndedAt)
	assert.False(t, s.Solved)

	require.NoError(t, repo.End(id, true))
	s, err = repo.Get(id)
	require.NoError(t, err)
	assert.NotNil(t, s.EndedAt)
	assert.NotNil(t, s.DurationMs)
	assert.True(t, s.Solved)

	_, err = repo.Get("missing")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(repo.End("missing", false), ErrNotFound))
}

func TestListNewestFirst(t *testing.T) {
	db := openTestDB(t)
	repo := NewSessionRepository(db)

	_, err := repo.GetLast()
	assert.True(t, errors.Is(err, ErrNotFound))

	var ids []string
	for i := 2; i <= 4; i++ {
		id, err := repo.Create("cube", i, "", "")
		require.NoError(t, err)
		ids = append(ids, id)
	}

	list, err := repo.List(10)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, ids[2], list[0].SessionID)
	assert.Equal(t, ids[0], list[2].SessionID)

	last, err := repo.GetLast()
	require.NoError(t, err)
	assert.Equal(t, ids[2], last.SessionID)
}

func TestMovesRoundTrip(t *testing.T) {
	db := openTestDB(t)
	id, err := NewSessionRepository(db).Create("cube4", 4, "", "")
	require.NoError(t, err)

	repo := NewMoveRepository(db)
	moves := []types.Move{
		{Face: types.FaceR, Turn: types.TurnCW, Timestamp: 10},
		{Face: types.FaceU, Turn: types.TurnCCW, Depth: 2, Timestamp: 20},
	}
	require.NoError(t, repo.CreateBatch(id, moves, 0, types.SourceScramble))
	_, err = repo.Create(id, 2, types.Move{Face: types.FaceF, Turn: types.Turn180, Timestamp: 30}, types.SourceDrag)
	require.NoError(t, err)

	next, err := repo.GetNextIndex(id)
	require.NoError(t, err)
	assert.Equal(t, 3, next)

	records, err := repo.GetBySession(id)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "2U'", records[1].Notation)
	assert.Equal(t, 2, records[1].Depth)
	assert.Equal(t, "scramble", records[0].Source)
	assert.Equal(t, "drag", records[2].Source)

	back := ToMoves(records)
	assert.Equal(t, "R 2U' F2", back[0].Notation()+" "+back[1].Notation()+" "+back[2].Notation())
	assert.Equal(t, int64(20), back[1].Timestamp)

	_, err = repo.Create(id, 2, moves[0], types.SourceQueue)
	assert.Error(t, err, "duplicate index")
}

func TestDeleteCascades(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionRepository(db)
	id, err := sessions.Create("cube3", 3, "", "")
	require.NoError(t, err)

	_, err = NewMoveRepository(db).Create(id, 0, types.Move{Face: types.FaceR, Turn: types.TurnCW}, types.SourceQueue)
	require.NoError(t, err)
	events := NewEventRepository(db)
	_, err = events.Create(id, 5, "solved", `{"kind":"solved"}`)
	require.NoError(t, err)

	got, err := events.GetByType(id, "solved")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(5), got[0].TsMs)

	require.NoError(t, sessions.Delete(id))
	n, err := NewMoveRepository(db).Count(id)
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = events.Count(id)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOpenInMemory(t *testing.T) {
	db, err := Open(MemoryPath)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, MemoryPath, db.Path())
	v, err := db.CurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestTransactionRollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	id, err := NewSessionRepository(db).Create("cube3", 3, "", "")
	require.NoError(t, err)

	boom := errors.New("boom")
	err = db.Transaction(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM sessions WHERE session_id = ?`, id); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = NewSessionRepository(db).Get(id)
	assert.NoError(t, err, "delete was rolled back")
}
