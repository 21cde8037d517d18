package anim

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Frame timing defaults.
const (
	FrameDuration    = 16670 * time.Microsecond // nominal single frame
	MaxFrameDelta    = 100 * time.Millisecond   // larger gaps are clamped to one frame
	SuspendThreshold = time.Second              // larger gaps count as a host suspend
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock only moves when told to. Safe for concurrent use.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock starts a manual clock at a fixed instant.
func NewManualClock() *ManualClock {
	return &ManualClock{now: time.Unix(0, 0)}
}

// Now returns the clock's current time.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Animation is advanced once per frame. Implementations must be pointer
// types so they can be removed by identity.
type Animation interface {
	Update(dt time.Duration)
}

// Scheduler pumps registered animations. It is not safe for concurrent use;
// the owner calls Tick from a single goroutine.
type Scheduler struct {
	clock Clock
	log   logrus.FieldLogger

	anims    []Animation
	last     time.Time
	running  bool
	paused   bool
	disposed bool

	onResume []func()
}

// NewScheduler creates a scheduler over clock. A nil clock uses the system
// clock.
func NewScheduler(clock Clock, log logrus.FieldLogger) *Scheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Scheduler{clock: clock, log: log}
}

// Clock returns the scheduler's time source.
func (s *Scheduler) Clock() Clock { return s.clock }

// Add registers an animation. The time base restarts when the scheduler
// goes from idle to busy so idle time is never fed to an animation.
func (s *Scheduler) Add(a Animation) {
	if s.disposed || a == nil {
		return
	}
	s.anims = append(s.anims, a)
	if !s.running {
		s.last = s.clock.Now()
		s.running = true
	}
}

// Remove unregisters an animation. Unknown animations are ignored.
func (s *Scheduler) Remove(a Animation) {
	for i, x := range s.anims {
		if x == a {
			s.anims = append(s.anims[:i], s.anims[i+1:]...)
			break
		}
	}
	if len(s.anims) == 0 {
		s.running = false
	}
}

// Len returns the number of registered animations.
func (s *Scheduler) Len() int { return len(s.anims) }

// Active reports whether any animation is registered.
func (s *Scheduler) Active() bool { return len(s.anims) > 0 }

// Paused reports whether the scheduler is paused.
func (s *Scheduler) Paused() bool { return s.paused }

// OnResume registers a hook fired after an explicit Resume or a detected
// suspend.
func (s *Scheduler) OnResume(fn func()) {
	s.onResume = append(s.onResume, fn)
}

// Tick reads the clock and advances every animation by the elapsed time.
// Gaps over MaxFrameDelta are clamped to one frame; gaps over
// SuspendThreshold also fire the resume hooks first, unless paused; Resume
// fires them in that case. Returns the delta
// that was applied.
func (s *Scheduler) Tick() time.Duration {
	if s.disposed || !s.running {
		return 0
	}
	now := s.clock.Now()
	dt := now.Sub(s.last)
	s.last = now

	if dt > SuspendThreshold && !s.paused {
		s.log.WithField("gap", dt).Info("anim: clock gap detected, treating as resume")
		s.fireResume()
		if !s.running {
			return 0
		}
	}
	if dt > MaxFrameDelta {
		dt = FrameDuration
	}
	if s.paused {
		return 0
	}
	s.Step(dt)
	return dt
}

// Step advances every animation by dt without consulting the clock.
// Animations may add or remove animations while being updated.
func (s *Scheduler) Step(dt time.Duration) {
	if s.disposed {
		return
	}
	snapshot := append([]Animation(nil), s.anims...)
	for i := len(snapshot) - 1; i >= 0; i-- {
		if s.registered(snapshot[i]) {
			snapshot[i].Update(dt)
		}
	}
}

func (s *Scheduler) registered(a Animation) bool {
	for _, x := range s.anims {
		if x == a {
			return true
		}
	}
	return false
}

// Pause stops animations advancing until Resume.
func (s *Scheduler) Pause() {
	if s.paused || s.disposed {
		return
	}
	s.paused = true
}

// Resume restarts the time base and fires the resume hooks.
func (s *Scheduler) Resume() {
	if !s.paused || s.disposed {
		return
	}
	s.last = s.clock.Now()
	s.paused = false
	s.fireResume()
}

func (s *Scheduler) fireResume() {
	for _, fn := range append([]func(){}, s.onResume...) {
		fn()
	}
}

// Dispose drops every animation and makes the scheduler inert.
func (s *Scheduler) Dispose() {
	s.disposed = true
	s.anims = nil
	s.onResume = nil
	s.running = false
}

// Status is a snapshot for diagnostics.
type Status struct {
	Animations int  `json:"animations"`
	Running    bool `json:"running"`
	Paused     bool `json:"paused"`
	Disposed   bool `json:"disposed"`
}

// Status returns the scheduler state.
func (s *Scheduler) Status() Status {
	return Status{Animations: len(s.anims), Running: s.running, Paused: s.paused, Disposed: s.disposed}
}

// Timer fires a callback once after a delay measured in scheduler time.
type Timer struct {
	s         *Scheduler
	remaining time.Duration
	fn        func()
}

// After schedules fn to run once d of scheduler time has elapsed.
func (s *Scheduler) After(d time.Duration, fn func()) *Timer {
	t := &Timer{s: s, remaining: d, fn: fn}
	s.Add(t)
	return t
}

// Update counts down and fires when the delay has elapsed.
func (t *Timer) Update(dt time.Duration) {
	t.remaining -= dt
	if t.remaining > 0 {
		return
	}
	t.s.Remove(t)
	if t.fn != nil {
		t.fn()
	}
}

// Stop cancels the timer without firing it.
func (t *Timer) Stop() {
	t.s.Remove(t)
}

// Fire runs the timer now and removes it.
func (t *Timer) Fire() {
	t.remaining = 0
	t.Update(0)
}
