package drag

import (
	"io"
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/cubetwist/internal/anim"
	"github.com/SeamusWaldron/cubetwist/internal/facelet"
	"github.com/SeamusWaldron/cubetwist/internal/layer"
	"github.com/SeamusWaldron/cubetwist/internal/model"
	"github.com/SeamusWaldron/cubetwist/internal/rotation"
	"github.com/SeamusWaldron/cubetwist/pkg/types"
)

// orthoCamera looks down -Z; NDC ±1 spans ±scale world units.
type orthoCamera struct{ scale float64 }

func (c orthoCamera) Ray(ndc mgl64.Vec2) Ray {
	return Ray{
		Origin:    mgl64.Vec3{ndc.X() * c.scale, ndc.Y() * c.scale, 10},
		Direction: mgl64.Vec3{0, 0, -1},
	}
}

type fakeQueue struct {
	rotating bool
	kicks    int
	settles  int
}

func (q *fakeQueue) Rotating() bool { return q.rotating }
func (q *fakeQueue) Kick()          { q.kicks++ }
func (q *fakeQueue) Settle()        { q.settles++ }

type rig struct {
	model    *model.Model
	sched    *anim.Scheduler
	clock    *anim.ManualClock
	controls *Controls
	queue    *fakeQueue
	events   []types.Event
}

func newRig(t *testing.T) *rig {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	v, err := model.ForSize(3)
	require.NoError(t, err)
	theme, _ := model.ThemeByName(model.DefaultTheme)
	m := model.New(v, theme)
	clock := anim.NewManualClock()
	sched := anim.NewScheduler(clock, log)
	r := &rig{model: m, sched: sched, clock: clock, queue: &fakeQueue{}}
	r.controls = NewControls(m, layer.NewResolver(m, log), layer.NewSelection(m, log), sched, orthoCamera{scale: 3}, log)
	r.controls.SetQueue(r.queue)
	r.controls.SetEventHandler(func(ev types.Event) { r.events = append(r.events, ev) })
	return r
}

func (r *rig) settle(t *testing.T) {
	t.Helper()
	for i := 0; i < 1000; i++ {
		if r.controls.State() != StateAnimating {
			return
		}
		r.clock.Advance(16 * time.Millisecond)
		r.sched.Tick()
	}
	t.Fatal("release animation did not finish")
}

func TestSnapTarget(t *testing.T) {
	deg := math.Pi / 180
	cases := []struct {
		name     string
		angle    float64
		momentum float64
		want     float64
	}{
		{"flick past threshold", 30 * deg, 0.10, 90 * deg},
		{"flick backwards", -30 * deg, 0.10, -90 * deg},
		{"slow release", 30 * deg, 0.01, 0},
		{"slow release past half", 50 * deg, 0.01, 90 * deg},
		{"already past a quarter", 100 * deg, 0.20, 90 * deg},
		{"half turn", 170 * deg, 0, 180 * deg},
		{"no movement", 0, 0.5, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.InDelta(t, c.want, SnapTarget(c.angle, c.momentum), 1e-12)
		})
	}
}

func TestRoundAngleKeepsSign(t *testing.T) {
	assert.InDelta(t, -math.Pi/2, RoundAngle(-1.2), 1e-12)
	assert.InDelta(t, math.Pi, RoundAngle(2.9), 1e-12)
	assert.Equal(t, 0.0, RoundAngle(0))
}

func TestMomentumWindowAndWeights(t *testing.T) {
	var m Momentum
	t0 := time.Unix(100, 0)
	m.Add(mgl64.Vec2{1, 0}, t0)
	m.Add(mgl64.Vec2{0.2, 0}, t0.Add(600*time.Millisecond))
	m.Add(mgl64.Vec2{0.2, 0.1}, t0.Add(650*time.Millisecond))

	// The first sample aged out when the second arrived.
	v := m.Value(t0.Add(700 * time.Millisecond))
	// Two samples, weights 0/2 and 1/2.
	assert.InDelta(t, 0.1, v.X(), 1e-12)
	assert.InDelta(t, 0.05, v.Y(), 1e-12)

	assert.Equal(t, mgl64.Vec2{}, m.Value(t0.Add(5*time.Second)))
}

func TestToNDC(t *testing.T) {
	assert.Equal(t, mgl64.Vec2{-1, 1}, ToNDC(0, 0, 800, 600))
	assert.Equal(t, mgl64.Vec2{0, 0}, ToNDC(400, 300, 800, 600))
	assert.Equal(t, mgl64.Vec2{1, -1}, ToNDC(800, 600, 800, 600))
}

func TestPerspectiveRayThroughCenter(t *testing.T) {
	cam := DefaultCamera(3)
	ray := cam.Ray(mgl64.Vec2{0, 0})
	want := cam.Target.Sub(cam.Position).Normalize()
	assert.InDeltaSlice(t, want[:], ray.Direction[:], 1e-6)

	p := cam.Project(mgl64.Vec3{})
	assert.InDelta(t, 0, p.X(), 1e-9)
	assert.InDelta(t, 0, p.Y(), 1e-9)
}

func TestTapReturnsToStill(t *testing.T) {
	r := newRig(t)
	r.controls.PointerDown(mgl64.Vec2{0.1, 0.1})
	assert.Equal(t, StatePreparing, r.controls.State())
	assert.Equal(t, KindLayer, r.controls.Kind())
	r.controls.PointerUp(mgl64.Vec2{0.1, 0.1})
	assert.Equal(t, StateStill, r.controls.State())
	assert.Empty(t, r.events)
	assert.Equal(t, 1, r.queue.kicks)
}

func TestSmallMovesStayPreparing(t *testing.T) {
	r := newRig(t)
	r.controls.PointerDown(mgl64.Vec2{0.1, 0.1})
	r.controls.PointerMove(mgl64.Vec2{0.14, 0.1})
	assert.Equal(t, StatePreparing, r.controls.State())
}

func TestLayerDragFlickTurnsMiddleSlice(t *testing.T) {
	r := newRig(t)
	c := r.controls

	c.PointerDown(mgl64.Vec2{0.1, 0.1})
	require.Equal(t, KindLayer, c.Kind())
	c.PointerMove(mgl64.Vec2{0.3, 0.1})
	require.Equal(t, StateRotating, c.State())
	assert.True(t, r.model.Group.Len() == 9, "middle slice selected")

	c.PointerMove(mgl64.Vec2{0.5, 0.1})
	assert.InDelta(t, 0.2, c.Angle(), 1e-9)

	c.PointerUp(mgl64.Vec2{0.5, 0.1})
	assert.Equal(t, StateAnimating, c.State())
	r.settle(t)
	assert.Equal(t, StateStill, c.State())
	assert.Equal(t, 0, r.model.Group.Len())

	require.Len(t, r.events, 1)
	ev := r.events[0]
	assert.Equal(t, types.EventDragMove, ev.Kind)
	assert.Equal(t, types.SourceDrag, ev.Source)
	assert.Equal(t, "2U'", ev.Move.Notation())

	// Same result as applying the reported move directly.
	log := logrus.New()
	log.SetOutput(io.Discard)
	v, _ := model.ForSize(3)
	theme, _ := model.ThemeByName(model.DefaultTheme)
	ref := model.New(v, theme)
	res := layer.NewResolver(ref, log)
	q := rotation.NewQueue(ref, res, layer.NewSelection(ref, log), anim.NewScheduler(anim.NewManualClock(), log), rotation.Config{}, log)
	require.NoError(t, q.Apply(types.SourceInstant, ev.Move))
	assert.Equal(t, facelet.State(ref), facelet.State(r.model))
}

func TestSlowLayerDragSnapsBack(t *testing.T) {
	r := newRig(t)
	c := r.controls
	c.PointerDown(mgl64.Vec2{0.1, 0.1})
	c.PointerMove(mgl64.Vec2{0.3, 0.1})
	c.PointerMove(mgl64.Vec2{0.33, 0.1})
	r.clock.Advance(time.Second)
	c.PointerUp(mgl64.Vec2{0.33, 0.1})
	r.settle(t)
	assert.Empty(t, r.events)
	assert.Equal(t, facelet.Solved(3), facelet.State(r.model))
}

func TestCubeDragRotatesPuzzle(t *testing.T) {
	r := newRig(t)
	c := r.controls
	c.PointerDown(mgl64.Vec2{0.9, 0.9})
	require.Equal(t, KindCube, c.Kind())
	c.PointerMove(mgl64.Vec2{0.5, 0.9})
	require.Equal(t, StateRotating, c.State())
	c.PointerMove(mgl64.Vec2{0.3, 0.9})
	c.PointerUp(mgl64.Vec2{0.3, 0.9})
	r.settle(t)

	require.Len(t, r.events, 1)
	assert.Equal(t, types.EventCubeRotated, r.events[0].Kind)
	x := r.model.Object.Rotation.Rotate(mgl64.Vec3{1, 0, 0})
	assert.InDeltaSlice(t, []float64{0, 0, 1}, x[:], 1e-9, "got %v", x)
	assert.Equal(t, facelet.Solved(3), facelet.State(r.model))
}

func TestDragRefusedWhileQueueRotates(t *testing.T) {
	r := newRig(t)
	r.queue.rotating = true
	r.controls.PointerDown(mgl64.Vec2{0.1, 0.1})
	assert.Equal(t, StateStill, r.controls.State())
}

func TestDragDuringReleaseWaitsForIt(t *testing.T) {
	r := newRig(t)
	c := r.controls
	c.PointerDown(mgl64.Vec2{0.1, 0.1})
	c.PointerMove(mgl64.Vec2{0.3, 0.1})
	c.PointerMove(mgl64.Vec2{0.5, 0.1})
	c.PointerUp(mgl64.Vec2{0.5, 0.1})
	require.Equal(t, StateAnimating, c.State())

	c.PointerDown(mgl64.Vec2{-0.1, -0.1})
	assert.Equal(t, StateAnimating, c.State())
	r.settle(t)
	assert.Equal(t, StatePreparing, c.State())
	assert.Equal(t, 0, r.queue.kicks, "queue stays parked while a drag is pending")
}

func TestDisabledIgnoresPointer(t *testing.T) {
	r := newRig(t)
	r.controls.Enable(false)
	r.controls.PointerDown(mgl64.Vec2{0.1, 0.1})
	assert.Equal(t, StateStill, r.controls.State())
	assert.True(t, r.controls.Idle())
}

func TestResumeCompletesRelease(t *testing.T) {
	r := newRig(t)
	c := r.controls
	c.PointerDown(mgl64.Vec2{0.1, 0.1})
	c.PointerMove(mgl64.Vec2{0.3, 0.1})
	c.PointerMove(mgl64.Vec2{0.5, 0.1})
	c.PointerUp(mgl64.Vec2{0.5, 0.1})
	require.Equal(t, StateAnimating, c.State())

	r.clock.Advance(16 * time.Millisecond)
	r.sched.Tick()
	require.Equal(t, StateAnimating, c.State())

	r.sched.Pause()
	r.clock.Advance(5 * time.Second)
	r.sched.Tick()
	assert.Equal(t, StateAnimating, c.State(), "paused scheduler leaves the release alone")
	r.sched.Resume()

	assert.Equal(t, StateStill, c.State())
	assert.Equal(t, 0, r.model.Group.Len())
	require.Len(t, r.events, 1)
	assert.Equal(t, "2U'", r.events[0].Move.Notation())
}

func TestClockGapCompletesRelease(t *testing.T) {
	r := newRig(t)
	c := r.controls
	c.PointerDown(mgl64.Vec2{0.9, 0.9})
	c.PointerMove(mgl64.Vec2{0.5, 0.9})
	c.PointerMove(mgl64.Vec2{0.3, 0.9})
	c.PointerUp(mgl64.Vec2{0.3, 0.9})
	require.Equal(t, StateAnimating, c.State())

	r.clock.Advance(3 * time.Second)
	r.sched.Tick()
	assert.Equal(t, StateStill, c.State())
	require.Len(t, r.events, 1)
	assert.Equal(t, types.EventCubeRotated, r.events[0].Kind)
}
