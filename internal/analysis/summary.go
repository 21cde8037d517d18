// Package analysis computes statistics over journaled move sequences.
package analysis

import (
	"github.com/SeamusWaldron/cubetwist/internal/notation"
	"github.com/SeamusWaldron/cubetwist/pkg/types"
)

// DefaultPauseThresholdMs is the gap counted as a pause.
const DefaultPauseThresholdMs = 1500

// Summary contains statistics for one session.
type Summary struct {
	SessionID         string           `json:"session_id"`
	DurationMs        int64            `json:"duration_ms"`
	TotalMoves        int              `json:"total_moves"`
	SimplifiedMoves   int              `json:"simplified_moves"`
	Efficiency        float64          `json:"efficiency"`
	TPS               float64          `json:"tps"`
	LongestPauseMs    int64            `json:"longest_pause_ms"`
	PauseCount        int              `json:"pause_count"`
	AvgMoveDurationMs float64          `json:"avg_move_duration_ms"`
	Profile           *MovementProfile `json:"profile"`
}

// Summarize computes a summary. durationMs <= 0 uses the span of the
// move timestamps.
func Summarize(sessionID string, moves []types.Move, durationMs int64) *Summary {
	if durationMs <= 0 && len(moves) > 1 {
		durationMs = moves[len(moves)-1].Timestamp - moves[0].Timestamp
	}
	s := &Summary{
		SessionID:         sessionID,
		DurationMs:        durationMs,
		TotalMoves:        len(moves),
		SimplifiedMoves:   len(notation.Simplify(moves)),
		TPS:               CalculateTPS(moves, durationMs),
		LongestPauseMs:    FindLongestPause(moves),
		PauseCount:        CountPausesOver(moves, DefaultPauseThresholdMs),
		AvgMoveDurationMs: CalculateAvgMoveDuration(moves),
		Profile:           AnalyzeMovementProfile(moves),
	}
	if s.TotalMoves > 0 {
		s.Efficiency = float64(s.SimplifiedMoves) / float64(s.TotalMoves)
	}
	return s
}

// PauseInfo represents a gap between two moves.
type PauseInfo struct {
	AfterMoveIndex int   `json:"after_move_index"`
	DurationMs     int64 `json:"duration_ms"`
	TsMs           int64 `json:"ts_ms"`
}

// AnalyzePauses finds all gaps of at least thresholdMs.
func AnalyzePauses(moves []types.Move, thresholdMs int64) []PauseInfo {
	var pauses []PauseInfo

	for i := 1; i < len(moves); i++ {
		gap := moves[i].Timestamp - moves[i-1].Timestamp
		if gap >= thresholdMs {
			pauses = append(pauses, PauseInfo{
				AfterMoveIndex: i - 1,
				DurationMs:     gap,
				TsMs:           moves[i-1].Timestamp,
			})
		}
	}

	return pauses
}

// CalculateTPS calculates turns per second.
func CalculateTPS(moves []types.Move, durationMs int64) float64 {
	if durationMs <= 0 {
		return 0
	}
	return float64(len(moves)) / (float64(durationMs) / 1000.0)
}

// CalculateAvgMoveDuration calculates the average time between moves.
func CalculateAvgMoveDuration(moves []types.Move) float64 {
	if len(moves) < 2 {
		return 0
	}

	totalGap := moves[len(moves)-1].Timestamp - moves[0].Timestamp
	return float64(totalGap) / float64(len(moves)-1)
}

// FindLongestPause finds the longest gap between consecutive moves.
func FindLongestPause(moves []types.Move) int64 {
	var longest int64

	for i := 1; i < len(moves); i++ {
		gap := moves[i].Timestamp - moves[i-1].Timestamp
		if gap > longest {
			longest = gap
		}
	}

	return longest
}

// CountPausesOver counts gaps over a threshold.
func CountPausesOver(moves []types.Move, thresholdMs int64) int {
	count := 0
	for i := 1; i < len(moves); i++ {
		gap := moves[i].Timestamp - moves[i-1].Timestamp
		if gap > thresholdMs {
			count++
		}
	}
	return count
}

// MovementProfile counts which layers and turns were used.
type MovementProfile struct {
	FaceCounts    map[types.Face]int `json:"face_counts"`
	TurnCounts    map[types.Turn]int `json:"turn_counts"`
	InnerLayer    int                `json:"inner_layer_moves"`
	MostUsedFace  types.Face         `json:"most_used_face"`
	FaceSequences map[string]int     `json:"face_sequences"` // e.g. "RU" -> count
}

// AnalyzeMovementProfile counts face and turn usage.
func AnalyzeMovementProfile(moves []types.Move) *MovementProfile {
	profile := &MovementProfile{
		FaceCounts:    make(map[types.Face]int),
		TurnCounts:    make(map[types.Turn]int),
		FaceSequences: make(map[string]int),
	}

	for i, m := range moves {
		profile.FaceCounts[m.Face]++
		profile.TurnCounts[m.Turn]++
		if m.Layer() > 1 {
			profile.InnerLayer++
		}

		if i > 0 {
			seq := string(moves[i-1].Face) + string(m.Face)
			profile.FaceSequences[seq]++
		}
	}

	maxFaceCount := 0
	for _, face := range types.Faces {
		if count := profile.FaceCounts[face]; count > maxFaceCount {
			maxFaceCount = count
			profile.MostUsedFace = face
		}
	}

	return profile
}
