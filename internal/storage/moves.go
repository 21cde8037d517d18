package storage

import (
	"database/sql"
	"fmt"

	"github.com/SeamusWaldron/cubetwist/pkg/types"
)

// MoveRecord represents a move in the database.
type MoveRecord struct {
	MoveID    int64
	SessionID string
	MoveIndex int
	TsMs      int64
	Face      string
	Turn      int
	Depth     int
	Notation  string
	Source    string
}

// Move converts the record back to a move.
func (m MoveRecord) Move() types.Move {
	mv := types.Move{Face: types.Face(m.Face), Turn: types.Turn(m.Turn), Timestamp: m.TsMs}
	if m.Depth > 1 {
		mv.Depth = m.Depth
	}
	return mv
}

// MoveRepository provides CRUD operations for moves.
type MoveRepository struct {
	db *DB
}

// NewMoveRepository creates a new move repository.
func NewMoveRepository(db *DB) *MoveRepository {
	return &MoveRepository{db: db}
}

const insertMove = `
	INSERT INTO moves (session_id, move_index, ts_ms, face, turn, depth, notation, source)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

// Create stores a move and returns its ID.
func (r *MoveRepository) Create(sessionID string, moveIndex int, move types.Move, source types.MoveSource) (int64, error) {
	result, err := r.db.Exec(insertMove,
		sessionID, moveIndex, move.Timestamp, string(move.Face), int(move.Turn), move.Layer(), move.Notation(), string(source))

	if err != nil {
		return 0, fmt.Errorf("failed to create move: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get move ID: %w", err)
	}

	return id, nil
}

// CreateBatch stores moves with consecutive indices in one transaction.
func (r *MoveRepository) CreateBatch(sessionID string, moves []types.Move, startIndex int, source types.MoveSource) error {
	return r.db.Transaction(func(tx *sql.Tx) error {
		for i, move := range moves {
			_, err := tx.Exec(insertMove,
				sessionID, startIndex+i, move.Timestamp, string(move.Face), int(move.Turn), move.Layer(), move.Notation(), string(source))
			if err != nil {
				return fmt.Errorf("failed to create move %d: %w", startIndex+i, err)
			}
		}
		return nil
	})
}

// GetBySession retrieves all moves for a session in order.
func (r *MoveRepository) GetBySession(sessionID string) ([]MoveRecord, error) {
	rows, err := r.db.Query(`
		SELECT move_id, session_id, move_index, ts_ms, face, turn, depth, notation, source
		FROM moves
		WHERE session_id = ?
		ORDER BY move_index
	`, sessionID)

	if err != nil {
		return nil, fmt.Errorf("failed to get moves: %w", err)
	}
	defer rows.Close()

	var moves []MoveRecord
	for rows.Next() {
		var m MoveRecord
		err := rows.Scan(&m.MoveID, &m.SessionID, &m.MoveIndex, &m.TsMs, &m.Face, &m.Turn, &m.Depth, &m.Notation, &m.Source)
		if err != nil {
			return nil, fmt.Errorf("failed to scan move: %w", err)
		}
		moves = append(moves, m)
	}

	return moves, rows.Err()
}

// GetNextIndex returns the next move index for a session.
func (r *MoveRepository) GetNextIndex(sessionID string) (int, error) {
	var maxIndex int
	err := r.db.QueryRow(`
		SELECT COALESCE(MAX(move_index), -1) FROM moves WHERE session_id = ?
	`, sessionID).Scan(&maxIndex)
	if err != nil {
		return 0, fmt.Errorf("failed to get max move index: %w", err)
	}
	return maxIndex + 1, nil
}

// Count returns the number of moves for a session.
func (r *MoveRepository) Count(sessionID string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM moves WHERE session_id = ?", sessionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count moves: %w", err)
	}
	return count, nil
}

// ToMoves converts records to moves.
func ToMoves(records []MoveRecord) []types.Move {
	moves := make([]types.Move, len(records))
	for i, r := range records {
		moves[i] = r.Move()
	}
	return moves
}
