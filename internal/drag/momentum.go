package drag

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Release tuning.
const (
	MomentumWindow = 500 * time.Millisecond
	FlipThreshold  = 0.05
	DragThreshold  = 0.05
)

type sample struct {
	delta mgl64.Vec2
	at    time.Time
}

// Momentum keeps recent drag deltas and weights later ones more heavily.
type Momentum struct {
	samples []sample
}

// Add records a delta and drops samples older than the window.
func (m *Momentum) Add(delta mgl64.Vec2, now time.Time) {
	m.prune(now)
	m.samples = append(m.samples, sample{delta: delta, at: now})
}

// Reset forgets every sample.
func (m *Momentum) Reset() { m.samples = m.samples[:0] }

func (m *Momentum) prune(now time.Time) {
	kept := m.samples[:0]
	for _, s := range m.samples {
		if now.Sub(s.at) < MomentumWindow {
			kept = append(kept, s)
		}
	}
	m.samples = kept
}

// Value prunes stale samples and returns the weighted sum, each sample
// scaled by index/count where count is taken before pruning.
func (m *Momentum) Value(now time.Time) mgl64.Vec2 {
	count := len(m.samples)
	m.prune(now)
	var v mgl64.Vec2
	if count == 0 {
		return v
	}
	for i, s := range m.samples {
		v = v.Add(s.delta.Mul(float64(i) / float64(count)))
	}
	return v
}

// RoundAngle rounds to the nearest quarter turn, keeping the sign.
func RoundAngle(a float64) float64 {
	q := math.Pi / 2
	sign := 0.0
	switch {
	case a > 0:
		sign = 1
	case a < 0:
		sign = -1
	}
	return sign * math.Round(math.Abs(a)/q) * q
}

// SnapTarget picks where a released drag should land. A fast flick short
// of a quarter turn gets an extra 45° before rounding.
func SnapTarget(angle, momentum float64) float64 {
	if math.Abs(momentum) > FlipThreshold && math.Abs(angle) < math.Pi/2 {
		sign := 0.0
		switch {
		case angle > 0:
			sign = 1
		case angle < 0:
			sign = -1
		}
		return RoundAngle(angle + sign*math.Pi/4)
	}
	return RoundAngle(angle)
}
