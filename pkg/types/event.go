package types

// EventKind identifies what happened in the puzzle core.
type EventKind string

const (
	EventQueued         EventKind = "queued"          // Move appended to the queue
	EventRotationStart  EventKind = "rotation_start"  // Layer selected, animation begins
	EventRotationStep   EventKind = "rotation_step"   // One animation frame applied
	EventRotationDone   EventKind = "rotation_done"   // Snapped and deselected
	EventForcedComplete EventKind = "forced_complete" // Finished in one step after a suspend
	EventQueueEmpty     EventKind = "queue_empty"     // Queue drained, animator idle
	EventQueueCleared   EventKind = "queue_cleared"   // Hard cancellation
	EventDragMove       EventKind = "drag_move"       // Layer drag landed on a turn
	EventCubeRotated    EventKind = "cube_rotated"    // Whole-cube drag finished
	EventSolved         EventKind = "solved"          // Every face uniform after a move
)

// MoveSource records where a move came from.
type MoveSource string

const (
	SourceQueue    MoveSource = "queue"
	SourceDrag     MoveSource = "drag"
	SourceScramble MoveSource = "scramble"
	SourceInstant  MoveSource = "instant"
)

// Event is published to subscribers of the puzzle core.
type Event struct {
	Kind     EventKind  `json:"kind"`
	Move     Move       `json:"move"`
	Source   MoveSource `json:"source,omitempty"`
	Progress float64    `json:"progress,omitempty"` // 0..1 within the current rotation
	Pending  int        `json:"pending"`            // Entries still waiting in the queue
}
