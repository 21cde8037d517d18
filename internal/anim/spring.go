package anim

import "github.com/charmbracelet/harmonica"

const springSteps = 240

// DefaultSpring is the angular frequency used when Spring is given zero.
const DefaultSpring = 14.0

// Spring follows a damped spring released at 0 toward 1 over unit time.
// Lower damping rings more. The motion is sampled once up front; whatever
// the spring has not covered by t=1 is spread linearly over the curve so
// it starts on 0 and ends exactly on 1.
func Spring(frequency, damping float64) Func {
	if frequency <= 0 {
		frequency = DefaultSpring
	}
	if damping <= 0 {
		damping = 0.5
	}
	s := harmonica.NewSpring(harmonica.FPS(springSteps), frequency, damping)
	table := make([]float64, springSteps+1)
	pos, vel := 0.0, 0.0
	for i := 1; i <= springSteps; i++ {
		pos, vel = s.Update(pos, vel, 1)
		table[i] = pos
	}
	residue := 1 - table[springSteps]
	return func(t float64) float64 {
		t = min(max(t, 0), 1)
		x := t * springSteps
		i := int(x)
		if i >= springSteps {
			return 1
		}
		v := table[i] + (table[i+1]-table[i])*(x-float64(i))
		return v + residue*t
	}
}
