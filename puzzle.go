package cubetwist

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"

	"github.com/SeamusWaldron/cubetwist/internal/anim"
	"github.com/SeamusWaldron/cubetwist/internal/drag"
	"github.com/SeamusWaldron/cubetwist/internal/facelet"
	"github.com/SeamusWaldron/cubetwist/internal/layer"
	"github.com/SeamusWaldron/cubetwist/internal/model"
	"github.com/SeamusWaldron/cubetwist/internal/notation"
	"github.com/SeamusWaldron/cubetwist/internal/rotation"
	"github.com/SeamusWaldron/cubetwist/internal/scramble"
	"github.com/SeamusWaldron/cubetwist/pkg/types"
)

type (
	// SelectionInfo describes the layer currently held for rotation.
	SelectionInfo = layer.Info
	// PieceInfo describes where one cubie's stickers point.
	PieceInfo = model.PieceInfo
)

// Status is a snapshot of the puzzle for status lines and diagnostics.
type Status struct {
	Variant string `json:"variant"`
	Size    int    `json:"size"`
	Pending int    `json:"pending"`
	Phase   string `json:"phase"`
	Drag    string `json:"drag"`
	Solved  bool   `json:"solved"`
	Moves   int    `json:"moves"`
	Paused  bool   `json:"paused"`
}

// Puzzle is a twisty puzzle with an animated move queue and drag controls.
//
// Create a Puzzle with New, then drive it either with Run or by calling
// Tick once per frame:
//
//	p, err := cubetwist.New(cubetwist.WithSize(4))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close()
//	p.Do("R U R' U'")
//
// All methods are safe to call from multiple goroutines. Event handlers run
// after the lock is released, so they may call back into the Puzzle.
type Puzzle struct {
	cfg *config
	log logrus.FieldLogger

	mu        sync.Mutex
	model     *model.Model
	res       *layer.Resolver
	sel       *layer.Selection
	sched     *anim.Scheduler
	queue     *rotation.Queue
	controls  *drag.Controls
	scrambler *scramble.Generator

	history []Move
	started time.Time
	solved  bool
	closed  bool

	// Raised under the lock, delivered by flush.
	events []Event

	subs     map[int]func(Event)
	nextSub  int
	onMove   func(Move)
	onSolved func()
}

// New creates a solved puzzle.
func New(opts ...Option) (*Puzzle, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.clock == nil {
		cfg.clock = anim.SystemClock{}
	}
	log := cfg.log
	if log == nil {
		l := logrus.New()
		l.SetOutput(os.Stderr)
		l.SetLevel(logrus.WarnLevel)
		log = l
	}

	v, err := variantFor(cfg)
	if err != nil {
		return nil, err
	}

	p := &Puzzle{
		cfg:       cfg,
		log:       log,
		scrambler: scramble.New(cfg.rng),
		subs:      make(map[int]func(Event)),
	}
	if err := p.build(v); err != nil {
		return nil, err
	}
	return p, nil
}

func variantFor(cfg *config) (model.Variant, error) {
	var (
		v   model.Variant
		err error
	)
	if cfg.variant != "" {
		v, err = model.Create(cfg.variant)
	} else {
		v, err = model.ForSize(cfg.size)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedSize, err)
	}
	return v, nil
}

// build wires a fresh model and animation stack for v. Called with the
// lock held, or before the Puzzle is shared.
func (p *Puzzle) build(v model.Variant) error {
	theme, ok := model.ThemeByName(p.cfg.theme)
	if !ok {
		p.log.WithField("theme", p.cfg.theme).Warn("cubetwist: unknown theme, using default")
		p.cfg.theme = theme.Name
	}
	m := model.New(v, theme)
	if p.cfg.geometry != nil {
		if err := m.Regenerate(*p.cfg.geometry); err != nil {
			return fmt.Errorf("cubetwist: geometry: %w", err)
		}
	}

	log := p.log.WithField("variant", v.Name())
	sched := anim.NewScheduler(p.cfg.clock, log)
	res := layer.NewResolver(m, log)
	sel := layer.NewSelection(m, log)
	q := rotation.NewQueue(m, res, sel, sched, rotation.Config{
		Duration: p.cfg.duration,
		Settle:   p.cfg.settle,
		Easing:   p.cfg.easing,
	}, log)
	ctl := drag.NewControls(m, res, sel, sched, p.cfg.camera, log)
	ctl.SetFlip(p.cfg.flip)
	ctl.SetQueue(q)
	q.SetGate(ctl.Idle)
	q.SetEventHandler(p.handle)
	ctl.SetEventHandler(p.handle)

	if p.sched != nil {
		p.sched.Dispose()
	}
	p.model, p.res, p.sel, p.sched, p.queue, p.controls = m, res, sel, sched, q, ctl
	p.history = nil
	p.started = p.cfg.clock.Now()
	p.solved = true
	return nil
}

// Close stops all animation. Further commands return ErrPuzzleNotReady.
func (p *Puzzle) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	p.queue.Clear()
	p.controls.Cancel()
	p.sched.Dispose()
	p.events = nil
	return nil
}

// Event delivery

// handle receives events from the queue and drag controls with the lock
// held.
func (p *Puzzle) handle(ev Event) {
	switch ev.Kind {
	case types.EventRotationDone, types.EventDragMove:
		ev.Move.Timestamp = p.cfg.clock.Now().Sub(p.started).Milliseconds()
		if p.cfg.history {
			p.history = append(p.history, ev.Move)
		}
		p.events = append(p.events, ev)
		p.checkSolved()
		return
	}
	p.events = append(p.events, ev)
}

func (p *Puzzle) checkSolved() {
	solved := facelet.IsSolved(facelet.State(p.model), p.model.Dimensions())
	if solved && !p.solved {
		p.events = append(p.events, Event{Kind: types.EventSolved})
	}
	p.solved = solved
}

// flush delivers queued events outside the lock.
func (p *Puzzle) flush() {
	p.mu.Lock()
	evs := p.events
	p.events = nil
	ids := make([]int, 0, len(p.subs))
	for id := range p.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	subs := make([]func(Event), len(ids))
	for i, id := range ids {
		subs[i] = p.subs[id]
	}
	onMove, onSolved := p.onMove, p.onSolved
	p.mu.Unlock()

	for _, ev := range evs {
		for _, fn := range subs {
			fn(ev)
		}
		switch ev.Kind {
		case types.EventRotationDone, types.EventDragMove:
			if onMove != nil {
				onMove(ev.Move)
			}
		case types.EventSolved:
			if onSolved != nil {
				onSolved()
			}
		}
	}
}

// Subscribe registers fn for every event and returns a function that
// removes it. Subscribers are called in registration order.
func (p *Puzzle) Subscribe(fn func(Event)) (unsubscribe func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subs, id)
	}
}

// OnMove sets a callback that fires for each completed turn, queued,
// instant or dragged.
func (p *Puzzle) OnMove(cb func(Move)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onMove = cb
}

// OnSolved sets a callback that fires when a turn leaves the puzzle solved.
func (p *Puzzle) OnSolved(cb func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onSolved = cb
}

// Move commands

// Do parses tokens and queues the moves. Each argument may hold several
// space-separated tokens. Invalid tokens are logged and skipped; the valid
// ones are still queued and the error names every bad token.
func (p *Puzzle) Do(tokens ...string) error {
	moves, perr := notation.ParseTokens(splitTokens(tokens)...)
	if perr != nil {
		p.log.WithError(perr).Warn("cubetwist: skipping invalid tokens")
	}
	return errors.Join(perr, p.Enqueue(moves...))
}

// Enqueue queues moves for animation. Face letters are read relative to
// the view at the time each move starts.
func (p *Puzzle) Enqueue(moves ...Move) error {
	return p.enqueue(types.SourceQueue, moves)
}

func (p *Puzzle) enqueue(src MoveSource, moves []Move) error {
	defer p.flush()
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPuzzleNotReady
	}
	return p.queue.Enqueue(src, moves...)
}

// Apply turns layers instantly. It returns ErrBusy while a queued turn is
// animating or a drag is in progress.
func (p *Puzzle) Apply(moves ...Move) error {
	return p.apply(types.SourceInstant, moves)
}

// ApplyNotation is Apply for a notation string.
func (p *Puzzle) ApplyNotation(s string) error {
	moves, perr := notation.ParseSequence(s)
	if perr != nil {
		p.log.WithError(perr).Warn("cubetwist: skipping invalid tokens")
	}
	return errors.Join(perr, p.Apply(moves...))
}

func (p *Puzzle) apply(src MoveSource, moves []Move) error {
	defer p.flush()
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPuzzleNotReady
	}
	if !p.controls.Idle() {
		return ErrBusy
	}
	return p.queue.Apply(src, moves...)
}

// GenerateScramble returns n random quarter turns without applying them.
// n <= 0 uses the default length.
func (p *Puzzle) GenerateScramble(n int) []Move {
	return p.scrambler.Generate(n)
}

// Scramble queues n random quarter turns and returns them.
func (p *Puzzle) Scramble(n int) ([]Move, error) {
	moves := p.scrambler.Generate(n)
	return moves, p.enqueue(types.SourceScramble, moves)
}

// ScrambleNow applies n random quarter turns instantly and returns them.
func (p *Puzzle) ScrambleNow(n int) ([]Move, error) {
	moves := p.scrambler.Generate(n)
	return moves, p.apply(types.SourceScramble, moves)
}

// ClearQueue drops every pending turn and stops the one in flight where it
// is. A partly turned layer stays selected until Settle, the next turn, or
// the next drag.
func (p *Puzzle) ClearQueue() {
	defer p.flush()
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.queue.Clear()
}

// Settle snaps a layer left stranded by ClearQueue to the grid.
func (p *Puzzle) Settle() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.queue.Settle()
}

// Reset returns the puzzle to solved at rest, dropping queued turns and the
// move history.
func (p *Puzzle) Reset() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPuzzleNotReady
	}
	return p.rebuild(p.model.Variant())
}

// Resize replaces the puzzle with a solved one of size n.
func (p *Puzzle) Resize(n int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPuzzleNotReady
	}
	v, err := model.ForSize(n)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedSize, err)
	}
	p.cfg.size = n
	p.cfg.variant = ""
	return p.rebuild(v)
}

func (p *Puzzle) rebuild(v model.Variant) error {
	p.queue.Clear()
	p.controls.Cancel()
	p.events = nil
	return p.build(v)
}

// SetGeometry rebuilds the pieces with new dimensions. The puzzle returns
// to solved.
func (p *Puzzle) SetGeometry(g Geometry) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPuzzleNotReady
	}
	if g.PieceSize <= 0 {
		return fmt.Errorf("cubetwist: geometry: %w", model.ErrInvalidGeometry)
	}
	p.cfg.geometry = &g
	return p.rebuild(p.model.Variant())
}

// SetPieceSize changes the piece size without disturbing the current
// state. It returns ErrBusy while anything is turning.
func (p *Puzzle) SetPieceSize(size float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPuzzleNotReady
	}
	if p.queue.Rotating() || !p.controls.Idle() {
		return ErrBusy
	}
	p.queue.Settle()
	if err := p.model.UpdatePieceSize(size); err != nil {
		return fmt.Errorf("cubetwist: piece size: %w", err)
	}
	g := p.model.Geometry()
	p.cfg.geometry = &g
	return nil
}

// SetTheme recolors the stickers. It reports false for an unknown name.
func (p *Puzzle) SetTheme(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	t, ok := model.ThemeByName(name)
	if !ok {
		return false
	}
	p.cfg.theme = t.Name
	p.model.SetTheme(t)
	return true
}

// ToggleStickers flips sticker visibility and returns the new setting.
func (p *Puzzle) ToggleStickers() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.model.ToggleStickers()
}

// SetFlip selects the drag release preset.
func (p *Puzzle) SetFlip(i int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg.flip = i
	p.controls.SetFlip(i)
}

// Frames

// Tick advances animation to the clock's current time. Call it once per
// frame when not using Run.
func (p *Puzzle) Tick() time.Duration {
	defer p.flush()
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0
	}
	return p.sched.Tick()
}

// Run calls Tick every frame until ctx is done or the puzzle is closed.
func (p *Puzzle) Run(ctx context.Context) error {
	ticker := time.NewTicker(anim.FrameDuration)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if p.isClosed() {
				return ErrPuzzleNotReady
			}
			p.Tick()
		}
	}
}

func (p *Puzzle) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Pause freezes animation.
func (p *Puzzle) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.sched.Pause()
	}
}

// Resume restarts animation. A turn that was in flight completes at once.
func (p *Puzzle) Resume() {
	defer p.flush()
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.sched.Resume()
	}
}

// Pointer input, in normalized device coordinates (x right, y up, -1..1).

// PointerDown starts a drag.
func (p *Puzzle) PointerDown(x, y float64) {
	defer p.flush()
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.controls.PointerDown(mgl64.Vec2{x, y})
	}
}

// PointerMove follows a drag.
func (p *Puzzle) PointerMove(x, y float64) {
	defer p.flush()
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.controls.PointerMove(mgl64.Vec2{x, y})
	}
}

// PointerUp releases a drag.
func (p *Puzzle) PointerUp(x, y float64) {
	defer p.flush()
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.controls.PointerUp(mgl64.Vec2{x, y})
	}
}

// EnableDrag turns pointer handling on or off.
func (p *Puzzle) EnableDrag(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.controls.Enable(on)
}

// SetCamera replaces the camera pointer input is projected through.
func (p *Puzzle) SetCamera(cam Camera) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg.camera = cam
	if cam != nil {
		p.controls.SetCamera(cam)
	}
}

// State access

// State returns the facelet string: faces U R F D L B, N² characters each,
// row by row as the face is viewed from outside.
func (p *Puzzle) State() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return facelet.State(p.model)
}

// IsSolved reports whether every face is a single color.
func (p *Puzzle) IsSolved() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return facelet.IsSolved(facelet.State(p.model), p.model.Dimensions())
}

// Net renders the state as an unfolded text net.
func (p *Puzzle) Net() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return facelet.Net(facelet.State(p.model), p.model.Dimensions())
}

// ColorNet renders the state as a net with theme-colored cells.
func (p *Puzzle) ColorNet() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return facelet.ColorNet(facelet.State(p.model), p.model.Dimensions(), p.model.Theme())
}

// Selection returns the layer currently held for rotation.
func (p *Puzzle) Selection() SelectionInfo {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sel.Info()
}

// FaceOrientation reports where every sticker currently points.
func (p *Puzzle) FaceOrientation() []PieceInfo {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.model.FaceOrientation()
}

// LayerLabels lists the face and depth labels the puzzle accepts.
func (p *Puzzle) LayerLabels() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.res.Labels()
}

// Size returns N.
func (p *Puzzle) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.model.Dimensions()
}

// QueueLength returns the number of turns waiting to start.
func (p *Puzzle) QueueLength() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.Len()
}

// IsRotating reports whether a queued turn is animating or settling.
func (p *Puzzle) IsRotating() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.Rotating()
}

// Moves returns the completed moves since creation or the last reset.
func (p *Puzzle) Moves() []Move {
	p.mu.Lock()
	defer p.mu.Unlock()
	result := make([]Move, len(p.history))
	copy(result, p.history)
	return result
}

// ClearHistory clears the move history.
func (p *Puzzle) ClearHistory() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.history = nil
}

// Status returns a snapshot for display.
func (p *Puzzle) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Status{
		Variant: p.model.Variant().Name(),
		Size:    p.model.Dimensions(),
		Pending: p.queue.Len(),
		Phase:   p.queue.Phase().String(),
		Drag:    p.controls.State().String(),
		Solved:  p.solved,
		Moves:   len(p.history),
		Paused:  p.sched.Paused(),
	}
}

func splitTokens(args []string) []string {
	var out []string
	for _, a := range args {
		out = append(out, strings.Fields(a)...)
	}
	return out
}
