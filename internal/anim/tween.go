package anim

import "time"

// Tween advances a value from 0 to 1 over a duration along an easing curve.
// Each update exposes the change since the previous update, and the deltas
// of a completed tween sum to exactly 1.
type Tween struct {
	duration time.Duration
	easing   Func

	progress float64
	value    float64
	delta    float64
	done     bool

	onUpdate   func(*Tween)
	onComplete func(*Tween)
	s          *Scheduler
}

// NewTween creates a tween and registers it with s.
func NewTween(s *Scheduler, d time.Duration, easing Func, onUpdate, onComplete func(*Tween)) *Tween {
	if easing == nil {
		easing = Linear
	}
	t := &Tween{
		duration:   d,
		easing:     easing,
		onUpdate:   onUpdate,
		onComplete: onComplete,
		s:          s,
	}
	s.Add(t)
	return t
}

// Progress returns linear progress in [0, 1].
func (t *Tween) Progress() float64 { return t.progress }

// Value returns the eased value.
func (t *Tween) Value() float64 { return t.value }

// Delta returns the change in value applied by the latest update.
func (t *Tween) Delta() float64 { return t.delta }

// Remaining returns 1 minus the eased value.
func (t *Tween) Remaining() float64 { return 1 - t.value }

// Done reports whether the tween completed or was stopped.
func (t *Tween) Done() bool { return t.done }

// Update advances the tween by dt.
func (t *Tween) Update(dt time.Duration) {
	if t.done {
		return
	}
	if t.duration <= 0 {
		t.progress = 1
	} else {
		t.progress += float64(dt) / float64(t.duration)
	}
	if t.progress >= 1 {
		t.Finish()
		return
	}
	old := t.value
	t.value = t.easing(t.progress)
	t.delta = t.value - old
	if t.onUpdate != nil {
		t.onUpdate(t)
	}
}

// Finish jumps to the end, applying the remaining value as one delta, then
// completes.
func (t *Tween) Finish() {
	if t.done {
		return
	}
	t.delta = 1 - t.value
	t.progress = 1
	t.value = 1
	t.done = true
	t.s.Remove(t)
	if t.onUpdate != nil {
		t.onUpdate(t)
	}
	if t.onComplete != nil {
		t.onComplete(t)
	}
}

// Stop halts the tween where it is without completing it.
func (t *Tween) Stop() {
	if t.done {
		return
	}
	t.done = true
	t.delta = 0
	t.s.Remove(t)
}
