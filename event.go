package cubetwist

import "github.com/SeamusWaldron/cubetwist/pkg/types"

type (
	// Event is delivered to subscribers after the call that raised it
	// returns.
	Event = types.Event
	// EventKind identifies what happened.
	EventKind = types.EventKind
	// MoveSource records where a move came from.
	MoveSource = types.MoveSource
)

const (
	EventQueued         = types.EventQueued
	EventRotationStart  = types.EventRotationStart
	EventRotationStep   = types.EventRotationStep
	EventRotationDone   = types.EventRotationDone
	EventForcedComplete = types.EventForcedComplete
	EventQueueEmpty     = types.EventQueueEmpty
	EventQueueCleared   = types.EventQueueCleared
	EventDragMove       = types.EventDragMove
	EventCubeRotated    = types.EventCubeRotated
	EventSolved         = types.EventSolved
)

const (
	SourceQueue    = types.SourceQueue
	SourceDrag     = types.SourceDrag
	SourceScramble = types.SourceScramble
	SourceInstant  = types.SourceInstant
)
