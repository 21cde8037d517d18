package cubetwist

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/SeamusWaldron/cubetwist/internal/anim"
	"github.com/SeamusWaldron/cubetwist/internal/drag"
	"github.com/SeamusWaldron/cubetwist/internal/model"
	"github.com/SeamusWaldron/cubetwist/internal/rotation"
	"github.com/SeamusWaldron/cubetwist/internal/scramble"
)

type (
	// Clock is the time source animations run on.
	Clock = anim.Clock
	// ManualClock is a clock that only moves when told to. Useful in tests.
	ManualClock = anim.ManualClock
	// Easing maps linear progress in [0,1] to eased progress.
	Easing = anim.Func
	// Camera turns pointer positions into rays.
	Camera = drag.Camera
	// Geometry holds piece and sticker dimensions.
	Geometry = model.Geometry
	// RandSource is the randomness scrambles draw from.
	RandSource = scramble.Source
)

// NewManualClock returns a manual clock starting at the Unix epoch.
func NewManualClock() *ManualClock { return anim.NewManualClock() }

// Option configures a Puzzle.
type Option func(*config)

type config struct {
	size     int
	variant  string
	duration time.Duration
	settle   time.Duration
	easing   Easing
	flip     int
	theme    string
	clock    Clock
	rng      RandSource
	log      logrus.FieldLogger
	geometry *Geometry
	camera   Camera
	history  bool
}

func defaultConfig() *config {
	return &config{
		size:     3,
		duration: rotation.DefaultDuration,
		settle:   rotation.DefaultSettle,
		flip:     0,
		theme:    model.DefaultTheme,
		clock:    anim.SystemClock{},
		history:  true,
	}
}

// WithSize selects an N×N×N puzzle.
func WithSize(n int) Option {
	return func(c *config) {
		c.size = n
	}
}

// WithVariant selects a registered variant by name, e.g. "cube4".
// It takes precedence over WithSize.
func WithVariant(name string) Option {
	return func(c *config) {
		c.variant = name
	}
}

// WithTurnDuration sets how long one queued turn animates.
func WithTurnDuration(d time.Duration) Option {
	return func(c *config) {
		c.duration = d
	}
}

// WithSettleDelay sets the pause between queued turns.
func WithSettleDelay(d time.Duration) Option {
	return func(c *config) {
		c.settle = d
	}
}

// WithEasing sets the easing of queued turns. The default is sine out.
func WithEasing(e Easing) Option {
	return func(c *config) {
		c.easing = e
	}
}

// WithFlip selects the drag release preset: 0 snappy (default), 1 smooth,
// 2 bouncy, 3 springy.
func WithFlip(i int) Option {
	return func(c *config) {
		c.flip = i
	}
}

// WithTheme selects a named color theme.
func WithTheme(name string) Option {
	return func(c *config) {
		c.theme = name
	}
}

// WithClock replaces the system clock.
func WithClock(clock Clock) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithRand sets the scramble random source. *rand.Rand satisfies it.
func WithRand(r RandSource) Option {
	return func(c *config) {
		c.rng = r
	}
}

// WithLogger sets the logger. The default logs warnings and above to
// stderr.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *config) {
		c.log = l
	}
}

// WithGeometry overrides the variant's default piece geometry.
func WithGeometry(g Geometry) Option {
	return func(c *config) {
		c.geometry = &g
	}
}

// WithCamera sets the camera pointer input is projected through.
func WithCamera(cam Camera) Option {
	return func(c *config) {
		c.camera = cam
	}
}

// WithMoveHistory enables or disables move history tracking.
// When enabled (default), completed moves are kept and returned by Moves.
func WithMoveHistory(enabled bool) Option {
	return func(c *config) {
		c.history = enabled
	}
}

// EasingByName looks up an easing such as "sine.out" or "back.out" with an
// optional parameter (power, overshoot or amplitude).
func EasingByName(name string, param float64) (Easing, error) {
	return anim.ByName(name, param)
}
