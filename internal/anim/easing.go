// Package anim drives time-based animation: a frame scheduler with an
// injectable clock, eased tweens, and a small easing library.
package anim

import (
	"fmt"
	"math"
	"strings"
)

// Func maps progress in [0, 1] to an eased value. Tweens force the final
// value to exactly 1, so curves that overshoot or ring still land.
type Func func(t float64) float64

// Linear returns t unchanged.
func Linear(t float64) float64 { return t }

// PowerIn accelerates from zero.
func PowerIn(power int) Func {
	p := float64(max(power, 1))
	return func(t float64) float64 { return math.Pow(t, p) }
}

// PowerOut decelerates to the target.
func PowerOut(power int) Func {
	p := float64(max(power, 1))
	return func(t float64) float64 { return 1 - math.Abs(math.Pow(t-1, p)) }
}

// PowerInOut accelerates through the first half and decelerates after.
func PowerInOut(power int) Func {
	p := float64(max(power, 1))
	return func(t float64) float64 {
		if t < 0.5 {
			return math.Pow(t*2, p) / 2
		}
		return (1-math.Abs(math.Pow(t*2-2, p)))/2 + 0.5
	}
}

// SineIn eases in along a quarter sine wave.
func SineIn() Func {
	return func(t float64) float64 { return 1 + math.Sin(math.Pi/2*t-math.Pi/2) }
}

// SineOut eases out along a quarter sine wave.
func SineOut() Func {
	return func(t float64) float64 { return math.Sin(math.Pi / 2 * t) }
}

// SineInOut eases both ends along a half sine wave.
func SineInOut() Func {
	return func(t float64) float64 { return (1 + math.Sin(math.Pi*t-math.Pi/2)) / 2 }
}

// DefaultBack is the usual overshoot for Back curves.
const DefaultBack = 1.70158

// BackOut overshoots the target by an amount controlled by s, then settles.
func BackOut(s float64) Func {
	if s == 0 {
		s = DefaultBack
	}
	return func(t float64) float64 {
		t--
		return t*t*((s+1)*t+s) + 1
	}
}

// BackIn pulls back before moving forward.
func BackIn(s float64) Func {
	if s == 0 {
		s = DefaultBack
	}
	return func(t float64) float64 { return t * t * ((s+1)*t - s) }
}

// ElasticOut rings around the target before settling.
func ElasticOut(amplitude, period float64) Func {
	if period == 0 {
		period = 0.3
	}
	p1 := math.Max(amplitude, 1)
	p2 := period
	if amplitude < 1 && amplitude > 0 {
		p2 = period / amplitude
	}
	p3 := p2 / (2 * math.Pi) * math.Asin(1/p1)
	w := 2 * math.Pi / p2
	return func(t float64) float64 {
		return p1*math.Pow(2, -10*t)*math.Sin((t-p3)*w) + 1
	}
}

// ByName builds an easing from a config name like "sine.out", "power.out"
// or "back.out". param is the power, overshoot, amplitude or spring
// frequency; zero uses the curve's default.
func ByName(name string, param float64) (Func, error) {
	switch strings.ToLower(name) {
	case "", "linear":
		return Linear, nil
	case "power.in":
		return PowerIn(int(math.Round(param))), nil
	case "power.out":
		return PowerOut(int(math.Round(param))), nil
	case "power.inout":
		return PowerInOut(int(math.Round(param))), nil
	case "sine.in":
		return SineIn(), nil
	case "sine.out":
		return SineOut(), nil
	case "sine.inout":
		return SineInOut(), nil
	case "back.in":
		return BackIn(param), nil
	case "back.out":
		return BackOut(param), nil
	case "elastic.out":
		return ElasticOut(param, 0), nil
	case "spring":
		return Spring(param, 0), nil
	}
	return nil, fmt.Errorf("anim: unknown easing %q", name)
}
