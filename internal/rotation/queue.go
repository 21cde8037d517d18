// Package rotation runs layer turns one at a time: each queued move selects
// its layer, animates the selection group with an eased tween, snaps to the
// grid and releases the layer before the next move starts.
package rotation

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"

	"github.com/SeamusWaldron/cubetwist/internal/anim"
	"github.com/SeamusWaldron/cubetwist/internal/layer"
	"github.com/SeamusWaldron/cubetwist/internal/model"
	"github.com/SeamusWaldron/cubetwist/pkg/types"
)

// Defaults.
const (
	DefaultDuration = 500 * time.Millisecond
	DefaultSettle   = DefaultDuration
)

// Queue errors.
var (
	ErrBusy        = errors.New("rotation: a rotation is in progress")
	ErrInvalidMove = errors.New("rotation: invalid move")
)

// Phase is the lifecycle position of the queue's current entry.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePending
	PhaseAnimating
	PhaseSnapping
	PhaseSettling
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePending:
		return "pending"
	case PhaseAnimating:
		return "animating"
	case PhaseSnapping:
		return "snapping"
	case PhaseSettling:
		return "settling"
	default:
		return "unknown"
	}
}

// Entry is one queued rotation.
type Entry struct {
	Requested types.Move // As given by the caller, relative to the current view
	Move      types.Move // Resolved against the puzzle frame
	Source    types.MoveSource
	Axis      types.Axis // Puzzle-frame axis
	Value     float64    // Layer coordinate on Axis
	Angle     float64    // Radians about +Axis
}

// Config tunes animation timing.
type Config struct {
	Duration time.Duration
	Settle   time.Duration
	Easing   anim.Func
}

// Queue serializes layer rotations.
type Queue struct {
	model    *model.Model
	resolver *layer.Resolver
	sel      *layer.Selection
	sched    *anim.Scheduler
	log      logrus.FieldLogger
	cfg      Config

	pending   []Entry
	current   *Entry
	worldAxis mgl64.Vec3
	tween     *anim.Tween
	settle    *anim.Timer
	phase     Phase

	gate    func() bool
	onEvent func(types.Event)
}

// NewQueue creates a queue that animates on sched.
func NewQueue(m *model.Model, r *layer.Resolver, sel *layer.Selection, sched *anim.Scheduler, cfg Config, log logrus.FieldLogger) *Queue {
	if cfg.Duration <= 0 {
		cfg.Duration = DefaultDuration
	}
	if cfg.Settle < 0 {
		cfg.Settle = 0
	}
	if cfg.Easing == nil {
		cfg.Easing = anim.SineOut()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	q := &Queue{model: m, resolver: r, sel: sel, sched: sched, cfg: cfg, log: log}
	sched.OnResume(q.forceComplete)
	return q
}

// SetGate installs a check consulted before each entry starts. The queue
// waits while it returns false; call Kick once it would return true.
func (q *Queue) SetGate(fn func() bool) { q.gate = fn }

// SetEventHandler installs the event sink.
func (q *Queue) SetEventHandler(fn func(types.Event)) { q.onEvent = fn }

// Len returns the number of entries waiting to start.
func (q *Queue) Len() int { return len(q.pending) }

// Phase returns the current lifecycle phase.
func (q *Queue) Phase() Phase { return q.phase }

// Rotating reports whether an entry is animating or settling.
func (q *Queue) Rotating() bool { return q.phase != PhaseIdle }

// Current returns the in-flight entry, if any.
func (q *Queue) Current() (Entry, bool) {
	if q.current == nil {
		return Entry{}, false
	}
	return *q.current, true
}

// Resolve validates a move and maps it onto the puzzle frame. The move's
// face is read relative to the current view: "U" is whichever layer faces
// up in world space.
func (q *Queue) Resolve(m types.Move, src types.MoveSource) (Entry, error) {
	if !m.Face.Valid() {
		return Entry{}, fmt.Errorf("%w: face %q", ErrInvalidMove, m.Face)
	}
	if _, ok := types.TurnFromQuarters(m.Turn.Quarters()); !ok {
		return Entry{}, fmt.Errorf("%w: turn %d", ErrInvalidMove, m.Turn)
	}
	local := q.model.Object.WorldDirectionToLocal(mgl64.Vec3(m.Face.Normal()))
	face, ok := types.FaceFromNormal(local[0], local[1], local[2])
	if !ok {
		return Entry{}, fmt.Errorf("%w: cannot orient face %s", ErrInvalidMove, m.Face)
	}
	axis, value, err := q.resolver.FaceLayer(face, m.Layer())
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %w", ErrInvalidMove, err)
	}
	resolved := m
	resolved.Face = face
	return Entry{
		Requested: m,
		Move:      resolved,
		Source:    src,
		Axis:      axis,
		Value:     value,
		Angle:     -face.Sign() * float64(m.Turn.Quarters()) * math.Pi / 2,
	}, nil
}

// Enqueue validates and appends moves, then starts processing if idle.
// Invalid moves are logged and skipped; the first error is returned.
func (q *Queue) Enqueue(src types.MoveSource, moves ...types.Move) error {
	var firstErr error
	for _, m := range moves {
		if _, err := q.Resolve(m, src); err != nil {
			q.log.WithError(err).WithField("move", m.Notation()).Warn("rotation: skipping move")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		// Resolution is repeated at start time against the orientation then.
		q.pending = append(q.pending, Entry{Requested: m, Source: src})
		q.emit(types.Event{Kind: types.EventQueued, Move: m, Source: src})
	}
	q.Kick()
	return firstErr
}

// Kick starts the next entry if the queue is idle and the gate allows it.
func (q *Queue) Kick() {
	for q.phase == PhaseIdle && len(q.pending) > 0 {
		if q.gate != nil && !q.gate() {
			return
		}
		next := q.pending[0]
		q.pending = q.pending[1:]
		if q.start(next) {
			return
		}
	}
}

// start begins animating e. Returns false when the entry was dropped.
func (q *Queue) start(req Entry) bool {
	e, err := q.Resolve(req.Requested, req.Source)
	if err != nil {
		q.log.WithError(err).Warn("rotation: dropping move")
		return false
	}
	q.phase = PhasePending
	if q.sel.Active() {
		q.log.Warn("rotation: stranded layer found, settling before next move")
		q.Settle()
	}
	members := q.resolver.Members(e.Axis, e.Value)
	if len(members) == 0 {
		q.phase = PhaseIdle
		return false
	}
	q.sel.Select(e.Axis, e.Value, members)
	q.current = &e
	var axis mgl64.Vec3
	axis[e.Axis] = 1
	q.worldAxis = q.model.Object.WorldRotation().Rotate(axis)
	q.phase = PhaseAnimating
	q.emit(types.Event{Kind: types.EventRotationStart, Move: e.Move, Source: e.Source})
	q.tween = anim.NewTween(q.sched, q.cfg.Duration, q.cfg.Easing, q.step, q.complete)
	return true
}

// step applies one frame's share of the angle about the world axis,
// re-expressed in the group's local frame.
func (q *Queue) step(t *anim.Tween) {
	if q.current == nil || t.Delta() == 0 {
		return
	}
	g := q.model.Group
	local := g.WorldDirectionToLocal(q.worldAxis)
	g.RotateOnAxis(local, t.Delta()*q.current.Angle)
	q.emit(types.Event{Kind: types.EventRotationStep, Move: q.current.Move, Source: q.current.Source, Progress: t.Value()})
}

func (q *Queue) complete(*anim.Tween) {
	e := q.current
	q.tween = nil
	q.phase = PhaseSnapping
	q.sel.SnapGroup()
	q.sel.Deselect()
	q.current = nil
	q.phase = PhaseSettling
	if e != nil {
		q.emit(types.Event{Kind: types.EventRotationDone, Move: e.Move, Source: e.Source, Progress: 1})
	}
	q.settle = q.sched.After(q.cfg.Settle, q.settled)
}

func (q *Queue) settled() {
	q.settle = nil
	q.phase = PhaseIdle
	q.Kick()
	if q.phase == PhaseIdle && len(q.pending) == 0 {
		q.emit(types.Event{Kind: types.EventQueueEmpty})
	}
}

// forceComplete finishes an in-flight rotation in one step after the
// scheduler resumes from a suspend.
func (q *Queue) forceComplete() {
	if q.tween == nil || q.tween.Done() || q.current == nil {
		return
	}
	e := *q.current
	q.log.WithFields(logrus.Fields{
		"move":      e.Move.Notation(),
		"remaining": q.tween.Remaining(),
	}).Info("rotation: completing interrupted rotation")
	q.emit(types.Event{Kind: types.EventForcedComplete, Move: e.Move, Source: e.Source, Progress: q.tween.Value()})
	q.tween.Finish()
}

// Clear drops pending entries and stops the in-flight tween and settle
// timer where they are. A partially turned layer is left selected; call
// Settle to snap it.
func (q *Queue) Clear() {
	dropped := len(q.pending)
	q.pending = nil
	if q.tween != nil {
		q.tween.Stop()
		q.tween = nil
	}
	if q.settle != nil {
		q.settle.Stop()
		q.settle = nil
	}
	q.current = nil
	q.phase = PhaseIdle
	q.log.WithField("dropped", dropped).Debug("rotation: queue cleared")
	q.emit(types.Event{Kind: types.EventQueueCleared})
}

// Settle snaps a layer left selected by Clear to the nearest quarter turn
// and releases it. Does nothing while an entry is in flight.
func (q *Queue) Settle() {
	if !q.sel.Active() || q.tween != nil {
		return
	}
	q.sel.SnapGroup()
	q.sel.Deselect()
}

// Apply performs moves instantly, without animation or settle delay.
// It fails with ErrBusy while the queue is rotating.
func (q *Queue) Apply(src types.MoveSource, moves ...types.Move) error {
	if q.Rotating() {
		return ErrBusy
	}
	q.Settle()
	var firstErr error
	for _, m := range moves {
		e, err := q.Resolve(m, src)
		if err != nil {
			q.log.WithError(err).WithField("move", m.Notation()).Warn("rotation: skipping move")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		members := q.resolver.Members(e.Axis, e.Value)
		if len(members) == 0 {
			continue
		}
		q.sel.Select(e.Axis, e.Value, members)
		var axis mgl64.Vec3
		axis[e.Axis] = 1
		world := q.model.Object.WorldRotation().Rotate(axis)
		g := q.model.Group
		g.RotateOnAxis(g.WorldDirectionToLocal(world), e.Angle)
		q.sel.SnapGroup()
		q.sel.Deselect()
		q.emit(types.Event{Kind: types.EventRotationDone, Move: e.Move, Source: e.Source, Progress: 1})
	}
	return firstErr
}

func (q *Queue) emit(ev types.Event) {
	if q.onEvent == nil {
		return
	}
	ev.Pending = len(q.pending)
	q.onEvent(ev)
}
