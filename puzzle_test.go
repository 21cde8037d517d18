package cubetwist

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/cubetwist/internal/drag"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestPuzzle(t *testing.T, opts ...Option) (*Puzzle, *ManualClock) {
	t.Helper()
	clock := NewManualClock()
	base := []Option{
		WithClock(clock),
		WithLogger(quietLogger()),
		WithTurnDuration(100 * time.Millisecond),
		WithSettleDelay(20 * time.Millisecond),
	}
	p, err := New(append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	return p, clock
}

func drain(t *testing.T, p *Puzzle, clock *ManualClock) {
	t.Helper()
	for i := 0; i < 100000; i++ {
		if !p.IsRotating() && p.QueueLength() == 0 {
			return
		}
		clock.Advance(16 * time.Millisecond)
		p.Tick()
	}
	t.Fatal("queue did not drain")
}

func TestNewPuzzleIsSolved(t *testing.T) {
	for _, n := range []int{2, 3, 4, 5} {
		p, _ := newTestPuzzle(t, WithSize(n))
		assert.Equal(t, n, p.Size())
		assert.True(t, p.IsSolved())
		assert.Len(t, p.State(), 6*n*n)
	}
}

func TestUnsupportedSize(t *testing.T) {
	_, err := New(WithSize(1), WithLogger(quietLogger()))
	assert.True(t, errors.Is(err, ErrUnsupportedSize))
	_, err = New(WithVariant("megaminx"), WithLogger(quietLogger()))
	assert.True(t, errors.Is(err, ErrUnsupportedSize))
}

func TestScenarioAReturnsToSolvedAfterSixRepeats(t *testing.T) {
	p, clock := newTestPuzzle(t)

	require.NoError(t, p.Do("R U R' U'"))
	drain(t, p, clock)
	require.NoError(t, p.Do("U R U' R'"))
	drain(t, p, clock)

	ref, _ := newTestPuzzle(t)
	require.NoError(t, ref.Apply(SexyMove...))
	require.NoError(t, ref.Apply(InverseSexyMove...))
	assert.Equal(t, ref.State(), p.State())
	assert.Equal(t, "R U R' U' U R U' R'", FormatMoves(p.Moves()))
}

func TestSexyMoveSixTimesEmitsSolvedOnce(t *testing.T) {
	p, _ := newTestPuzzle(t)
	solved := 0
	p.OnSolved(func() { solved++ })
	for i := 0; i < 6; i++ {
		require.NoError(t, p.Apply(SexyMove...))
	}
	assert.True(t, p.IsSolved())
	assert.Equal(t, 1, solved)
	assert.Len(t, p.Moves(), 24)
}

func TestDoSkipsInvalidTokens(t *testing.T) {
	p, clock := newTestPuzzle(t)
	err := p.Do("R", "X U", "R2'")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidNotation))
	drain(t, p, clock)
	assert.Equal(t, "R U R2", FormatMoves(p.Moves()))
}

func TestLayerOutsidePuzzleIsRejected(t *testing.T) {
	p, _ := newTestPuzzle(t)
	err := p.Apply(Move{Face: FaceR, Turn: CW, Depth: 5})
	assert.True(t, errors.Is(err, ErrInvalidMove))
	assert.True(t, errors.Is(err, ErrUnknownLayer))
	assert.True(t, p.IsSolved())
}

func TestApplyWhileAnimatingIsBusy(t *testing.T) {
	p, clock := newTestPuzzle(t)
	require.NoError(t, p.Do("R"))
	assert.True(t, errors.Is(p.Apply(U), ErrBusy))
	drain(t, p, clock)
	assert.NoError(t, p.Apply(U))
}

func TestEventsArriveInOrder(t *testing.T) {
	p, clock := newTestPuzzle(t)
	var kinds []EventKind
	unsubscribe := p.Subscribe(func(ev Event) {
		if ev.Kind != EventRotationStep {
			kinds = append(kinds, ev.Kind)
		}
	})
	require.NoError(t, p.Do("R"))
	drain(t, p, clock)
	assert.Equal(t, []EventKind{EventQueued, EventRotationStart, EventRotationDone, EventQueueEmpty}, kinds)

	unsubscribe()
	require.NoError(t, p.Do("R'"))
	drain(t, p, clock)
	assert.Len(t, kinds, 4)
}

func TestSubscriberMayCallBack(t *testing.T) {
	p, clock := newTestPuzzle(t)
	var states []string
	p.OnMove(func(Move) { states = append(states, p.State()) })
	require.NoError(t, p.Do("R U"))
	drain(t, p, clock)
	require.Len(t, states, 2)
	assert.NotEqual(t, states[0], states[1])
}

func TestClearQueueThenSettle(t *testing.T) {
	p, clock := newTestPuzzle(t)
	require.NoError(t, p.Do("R U R' U' F"))
	for i := 0; i < 3; i++ {
		clock.Advance(16 * time.Millisecond)
		p.Tick()
	}
	require.True(t, p.Selection().Active)
	p.ClearQueue()
	assert.Equal(t, 0, p.QueueLength())
	assert.False(t, p.IsRotating())
	assert.True(t, p.Selection().Active, "clearing leaves the layer where it stopped")

	p.Settle()
	assert.False(t, p.Selection().Active)
	assert.Empty(t, p.Moves())
}

func TestResumeCompletesInFlightTurn(t *testing.T) {
	p, clock := newTestPuzzle(t)
	var forced int
	p.Subscribe(func(ev Event) {
		if ev.Kind == EventForcedComplete {
			forced++
		}
	})
	require.NoError(t, p.Do("F"))
	clock.Advance(16 * time.Millisecond)
	p.Tick()
	p.Pause()
	assert.True(t, p.Status().Paused)
	p.Resume()
	assert.Equal(t, 1, forced)
	assert.Equal(t, "F", FormatMoves(p.Moves()))
	drain(t, p, clock)

	ref, _ := newTestPuzzle(t)
	require.NoError(t, ref.Apply(F))
	assert.Equal(t, ref.State(), p.State())
}

func TestScrambleReplay(t *testing.T) {
	p, clock := newTestPuzzle(t, WithRand(rand.New(rand.NewSource(7))))
	moves, err := p.Scramble(12)
	require.NoError(t, err)
	require.Len(t, moves, 12)
	drain(t, p, clock)
	assert.Equal(t, FormatMoves(moves), FormatMoves(p.Moves()))

	ref, _ := newTestPuzzle(t)
	require.NoError(t, ref.Apply(p.Moves()...))
	assert.Equal(t, p.State(), ref.State())

	require.NoError(t, ref.Apply(InverseMoves(p.Moves())...))
	assert.True(t, ref.IsSolved())
}

func TestScrambleNowIsInstant(t *testing.T) {
	p, _ := newTestPuzzle(t, WithRand(rand.New(rand.NewSource(3))))
	moves, err := p.ScrambleNow(0)
	require.NoError(t, err)
	assert.Len(t, moves, 15)
	assert.False(t, p.IsRotating())
	assert.Len(t, p.Moves(), 15)
}

func TestResetAndResize(t *testing.T) {
	p, _ := newTestPuzzle(t)
	require.NoError(t, p.ApplyNotation("R U F"))
	require.NoError(t, p.Reset())
	assert.True(t, p.IsSolved())
	assert.Empty(t, p.Moves())

	require.NoError(t, p.Resize(4))
	assert.Equal(t, 4, p.Size())
	require.NoError(t, p.ApplyNotation("2R 2R'"))
	assert.True(t, p.IsSolved())

	assert.True(t, errors.Is(p.Resize(9), ErrUnsupportedSize))
	assert.Equal(t, 4, p.Size())
}

func TestPieceSizeKeepsState(t *testing.T) {
	p, _ := newTestPuzzle(t)
	require.NoError(t, p.ApplyNotation("R U"))
	before := p.State()
	require.NoError(t, p.SetPieceSize(0.5))
	assert.Equal(t, before, p.State())
	assert.Error(t, p.SetPieceSize(0))
}

func TestClosedPuzzleRefusesCommands(t *testing.T) {
	p, _ := newTestPuzzle(t)
	require.NoError(t, p.Close())
	assert.True(t, errors.Is(p.Do("R"), ErrPuzzleNotReady))
	assert.True(t, errors.Is(p.Apply(R), ErrPuzzleNotReady))
	assert.True(t, errors.Is(p.Reset(), ErrPuzzleNotReady))
	assert.Equal(t, time.Duration(0), p.Tick())
	assert.NoError(t, p.Close())
}

func TestRunDrivesQueue(t *testing.T) {
	p, err := New(WithLogger(quietLogger()), WithTurnDuration(30*time.Millisecond), WithSettleDelay(0))
	require.NoError(t, err)
	defer p.Close()

	done := make(chan Move, 1)
	p.OnMove(func(m Move) { done <- m })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	errc := make(chan error, 1)
	go func() { errc <- p.Run(ctx) }()

	require.NoError(t, p.Do("B"))
	select {
	case m := <-done:
		assert.Equal(t, "B", m.Notation())
	case <-ctx.Done():
		t.Fatal("move did not complete")
	}
	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)
}

// frontCamera looks straight down -Z; NDC ±1 spans ±3 world units.
type frontCamera struct{}

func (frontCamera) Ray(ndc mgl64.Vec2) drag.Ray {
	return drag.Ray{Origin: mgl64.Vec3{ndc.X() * 3, ndc.Y() * 3, 10}, Direction: mgl64.Vec3{0, 0, -1}}
}

func TestDragRecordsMove(t *testing.T) {
	p, clock := newTestPuzzle(t, WithCamera(frontCamera{}))
	var sources []MoveSource
	p.Subscribe(func(ev Event) {
		if ev.Kind == EventDragMove {
			sources = append(sources, ev.Source)
		}
	})

	// Flick the top row of the front face to the right.
	p.PointerDown(0.1, 0.4)
	p.PointerMove(0.3, 0.4)
	p.PointerMove(0.5, 0.4)
	p.PointerUp(0.5, 0.4)
	for i := 0; i < 100 && p.Status().Drag != "still"; i++ {
		clock.Advance(16 * time.Millisecond)
		p.Tick()
	}

	require.Equal(t, []MoveSource{SourceDrag}, sources)
	require.Len(t, p.Moves(), 1)
	assert.Equal(t, "U'", p.Moves()[0].Notation())

	ref, _ := newTestPuzzle(t)
	require.NoError(t, ref.Apply(UPrime))
	assert.Equal(t, ref.State(), p.State())
}

func TestQueueWaitsForDrag(t *testing.T) {
	p, clock := newTestPuzzle(t, WithCamera(frontCamera{}))
	p.PointerDown(0.1, 0.1)
	require.NoError(t, p.Do("R"))
	clock.Advance(16 * time.Millisecond)
	p.Tick()
	assert.False(t, p.IsRotating())
	assert.Equal(t, 1, p.QueueLength())

	p.PointerUp(0.1, 0.1)
	assert.True(t, p.IsRotating())
	drain(t, p, clock)
	assert.Equal(t, "R", FormatMoves(p.Moves()))
}
