// Package drag turns pointer gestures into layer and whole-puzzle rotations.
//
// A gesture starts with a ray cast against a box slightly smaller than the
// puzzle. A hit starts a layer drag on a plane through the hit face; a miss
// starts a whole-puzzle drag on a plane turned 45° about Y. Once the pointer
// has travelled far enough the dominant direction fixes the rotation axis
// and the drag follows the pointer 1:1. Releasing animates to the nearest
// quarter turn, with an extra 45° for a quick flick.
package drag

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"

	"github.com/SeamusWaldron/cubetwist/internal/anim"
	"github.com/SeamusWaldron/cubetwist/internal/layer"
	"github.com/SeamusWaldron/cubetwist/internal/model"
	"github.com/SeamusWaldron/cubetwist/internal/rotation"
	"github.com/SeamusWaldron/cubetwist/internal/scene"
	"github.com/SeamusWaldron/cubetwist/pkg/types"
)

// State is the gesture state.
type State int

const (
	StateStill State = iota
	StatePreparing
	StateRotating
	StateAnimating
)

func (s State) String() string {
	switch s {
	case StateStill:
		return "still"
	case StatePreparing:
		return "preparing"
	case StateRotating:
		return "rotating"
	case StateAnimating:
		return "animating"
	default:
		return "unknown"
	}
}

// Kind says what a drag rotates.
type Kind int

const (
	KindCube Kind = iota
	KindLayer
)

func (k Kind) String() string {
	if k == KindLayer {
		return "layer"
	}
	return "cube"
}

// Flip is a release animation preset.
type Flip struct {
	Layer         anim.Func
	LayerDuration int // milliseconds
	Cube          anim.Func
	CubeDuration  int // milliseconds
}

// Flips are the release presets: snappy, smooth, bouncy and springy.
var Flips = []Flip{
	{Layer: anim.PowerOut(3), LayerDuration: 125, Cube: anim.PowerOut(4), CubeDuration: 100},
	{Layer: anim.SineOut(), LayerDuration: 200, Cube: anim.SineOut(), CubeDuration: 150},
	{Layer: anim.BackOut(2), LayerDuration: 350, Cube: anim.BackOut(2), CubeDuration: 350},
	{Layer: anim.Spring(16, 0.4), LayerDuration: 450, Cube: anim.Spring(12, 0.5), CubeDuration: 400},
}

// Queue is the part of the rotation queue the controls coordinate with.
type Queue interface {
	Rotating() bool
	Kick()
	Settle()
}

// Controls is the drag gesture state machine.
type Controls struct {
	model  *model.Model
	res    *layer.Resolver
	sel    *layer.Selection
	sched  *anim.Scheduler
	camera Camera
	queue  Queue
	log    logrus.FieldLogger

	state       State
	gettingDrag bool
	enabled     bool
	flip        int

	helper *scene.Node // drag plane, z=0 in its own frame

	kind      Kind
	normal    mgl64.Vec3 // Hit face normal, puzzle frame
	hitCubie  int
	current   mgl64.Vec3 // Last plane point, helper frame
	total     mgl64.Vec3
	direction types.Axis // Dominant drag direction in the helper frame
	axis      mgl64.Vec3 // Rotation axis: puzzle frame for layers, world for cube
	angle     float64
	members   []int
	layerAxis types.Axis
	layerVal  float64
	momentum  Momentum

	tween   *anim.Tween
	onEvent func(types.Event)
}

// NewControls wires the controls to a puzzle. Call SetQueue before use if
// a rotation queue shares the puzzle.
func NewControls(m *model.Model, res *layer.Resolver, sel *layer.Selection, sched *anim.Scheduler, cam Camera, log logrus.FieldLogger) *Controls {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if cam == nil {
		cam = DefaultCamera(m.Variant().ScaleMultiplier())
	}
	helper := scene.NewNode("drag-plane")
	helper.Visible = false
	m.Holder.Add(helper)
	c := &Controls{
		model:    m,
		res:      res,
		sel:      sel,
		sched:    sched,
		camera:   cam,
		log:      log,
		enabled:  true,
		helper:   helper,
		hitCubie: -1,
	}
	c.resetHelper()
	sched.OnResume(c.finishRelease)
	return c
}

// SetQueue installs the rotation queue the controls yield to.
func (c *Controls) SetQueue(q Queue) { c.queue = q }

// SetCamera replaces the camera used for ray casts.
func (c *Controls) SetCamera(cam Camera) { c.camera = cam }

// SetEventHandler installs the event sink.
func (c *Controls) SetEventHandler(fn func(types.Event)) { c.onEvent = fn }

// SetFlip selects a release preset. Out of range values are clamped.
func (c *Controls) SetFlip(i int) {
	c.flip = min(max(i, 0), len(Flips)-1)
}

// Enable turns gesture handling on or off. Disabling does not interrupt an
// animation already under way.
func (c *Controls) Enable(on bool) { c.enabled = on }

// State returns the gesture state.
func (c *Controls) State() State { return c.state }

// Kind returns what the current gesture rotates.
func (c *Controls) Kind() Kind { return c.kind }

// Angle returns the angle dragged so far.
func (c *Controls) Angle() float64 { return c.angle }

// Idle reports whether no gesture or release animation is in progress.
// The rotation queue waits on this.
func (c *Controls) Idle() bool { return c.state == StateStill }

func (c *Controls) resetHelper() {
	c.helper.Position = mgl64.Vec3{}
	c.helper.Rotation = mgl64.QuatRotate(math.Pi/4, mgl64.Vec3{0, 1, 0})
}

func (c *Controls) halfExtent() float64 {
	return float64(c.model.Dimensions()) * c.model.PieceSize() / 2
}

// PointerDown starts a gesture at ndc.
func (c *Controls) PointerDown(ndc mgl64.Vec2) {
	if !c.enabled || c.state == StatePreparing || c.state == StateRotating {
		return
	}
	if c.queue != nil && c.queue.Rotating() {
		c.log.Debug("drag: ignoring pointer while the queue is rotating")
		return
	}
	if c.state == StateStill && c.queue != nil {
		c.queue.Settle()
	}
	c.gettingDrag = c.state == StateAnimating

	ray := c.camera.Ray(ndc)
	obj := c.model.Object
	if hit, ok := intersectBox(localRay(obj, ray), mgl64.Vec3{}, c.halfExtent()*ProxyScale); ok {
		c.kind = KindLayer
		c.normal = hit.Normal
		// Plane through the hit face, in the holder frame.
		worldNormal := obj.Rotation.Rotate(hit.Normal)
		worldNormal = mgl64.Vec3{math.Round(worldNormal[0]), math.Round(worldNormal[1]), math.Round(worldNormal[2])}
		c.helper.Position = mgl64.Vec3{}
		c.helper.Rotation = mgl64.QuatIdent()
		c.helper.LookAt(worldNormal)
		c.helper.TranslateZ(c.halfExtent())
		c.hitCubie = c.pickCubie(ray)
	} else {
		c.kind = KindCube
		c.normal = mgl64.Vec3{0, 0, 1}
		c.resetHelper()
		c.hitCubie = -1
	}

	p, ok := intersectPlane(c.helper, ray)
	if !ok {
		return
	}
	c.current = p
	c.total = mgl64.Vec3{}
	c.momentum.Reset()
	if c.state == StateStill {
		c.state = StatePreparing
	}
}

// PointerMove follows the pointer.
func (c *Controls) PointerMove(ndc mgl64.Vec2) {
	if c.state == StateStill || (c.state == StateAnimating && !c.gettingDrag) {
		return
	}
	ray := c.camera.Ray(ndc)
	p, ok := intersectPlane(c.helper, ray)
	if !ok {
		return
	}
	delta := p.Sub(c.current)
	delta[2] = 0
	c.total = c.total.Add(delta)
	c.current = p
	c.momentum.Add(mgl64.Vec2{delta[0], delta[1]}, c.sched.Clock().Now())

	switch {
	case c.state == StatePreparing && c.total.Len() > DragThreshold:
		c.direction = types.MainAxis(c.total)
		if c.kind == KindLayer {
			if !c.lockLayer(ray) {
				return
			}
		} else {
			c.lockCube(ndc)
		}
		c.angle = 0
		c.state = StateRotating

	case c.state == StateRotating:
		r := delta[c.direction]
		if c.kind == KindLayer {
			c.model.Group.RotateOnAxis(c.axis, r)
		} else {
			c.model.Object.RotateOnWorldAxis(c.axis, r)
		}
		c.angle += r
	}
}

// lockLayer fixes the rotation axis from the drag direction and the hit
// face, then selects the layer through the cubie under the pointer.
func (c *Controls) lockLayer(ray Ray) bool {
	var dir mgl64.Vec3
	dir[c.direction] = 1
	world := c.helper.WorldMatrix().Mul4x1(dir.Vec4(0)).Vec3()
	obj := c.model.Object.WorldDirectionToLocal(world)
	obj = mgl64.Vec3{math.Round(obj[0]), math.Round(obj[1]), math.Round(obj[2])}
	c.axis = obj.Cross(c.normal).Mul(-1)
	if c.axis.Len() == 0 {
		return false
	}

	if i := c.pickCubie(ray); i >= 0 {
		c.hitCubie = i
	}
	if c.hitCubie < 0 {
		return false
	}
	c.layerAxis = types.MainAxis(c.axis)
	cubie := c.model.Cubie(c.hitCubie)
	c.layerVal = c.res.Model().GridPosition(cubie)[c.layerAxis]
	c.members = c.res.MembersAt(c.hitCubie, c.layerAxis)
	if len(c.members) == 0 {
		return false
	}
	c.sel.Select(c.layerAxis, c.layerVal, c.members)
	return true
}

// lockCube picks a world axis for a whole-puzzle drag: horizontal drags
// turn about Y, vertical drags about X on the left half of the view and
// about Z on the right.
func (c *Controls) lockCube(ndc mgl64.Vec2) {
	var axis types.Axis
	switch {
	case c.direction == types.AxisX:
		axis = types.AxisY
	case c.direction == types.AxisY && ndc.X() > 0:
		axis = types.AxisZ
	default:
		axis = types.AxisX
	}
	c.axis = mgl64.Vec3{}
	c.axis[axis] = 1
	if axis == types.AxisX {
		c.axis[axis] = -1
	}
}

// pickCubie returns the nearest cubie hit by ray, or -1.
func (c *Controls) pickCubie(ray Ray) int {
	lr := localRay(c.model.Object, ray)
	size := c.model.PieceSize()
	best, bestT := -1, math.Inf(1)
	for _, cb := range c.model.Cubies() {
		g := c.model.GridPosition(cb)
		center := mgl64.Vec3(g).Mul(size)
		if hit, ok := intersectBox(lr, center, size/2); ok && hit.T < bestT {
			best, bestT = cb.Index, hit.T
		}
	}
	return best
}

// PointerUp ends the gesture.
func (c *Controls) PointerUp(mgl64.Vec2) {
	if c.state != StateRotating {
		if c.state == StatePreparing {
			c.state = StateStill
			c.kickQueue()
		}
		c.gettingDrag = false
		return
	}
	c.state = StateAnimating

	m := c.momentum.Value(c.sched.Clock().Now())
	var mv float64
	if c.direction == types.AxisY {
		mv = m.Y()
	} else {
		mv = m.X()
	}
	target := SnapTarget(c.angle, mv)
	delta := target - c.angle
	preset := Flips[c.flip]

	if c.kind == KindLayer {
		axis := c.axis
		c.tween = anim.NewTween(c.sched, ms(preset.LayerDuration), preset.Layer, func(t *anim.Tween) {
			c.model.Group.RotateOnAxis(axis, t.Delta()*delta)
		}, func(*anim.Tween) {
			c.finishLayer(target)
		})
		return
	}
	axis := c.axis
	c.tween = anim.NewTween(c.sched, ms(preset.CubeDuration), preset.Cube, func(t *anim.Tween) {
		c.model.Object.RotateOnWorldAxis(axis, t.Delta()*delta)
	}, func(*anim.Tween) {
		c.finishCube(target)
	})
}

func (c *Controls) finishLayer(target float64) {
	c.tween = nil
	c.sel.SnapGroup()
	c.sel.Deselect()

	quarters := int(math.Round(target / (math.Pi / 2)))
	quarters *= int(c.axis[c.layerAxis])
	if mv, ok := rotation.MoveForLayer(c.model.Dimensions(), c.layerAxis, c.layerVal, quarters); ok {
		c.emit(types.Event{Kind: types.EventDragMove, Move: mv, Source: types.SourceDrag, Progress: 1})
	}
	c.members = nil
	c.done()
}

func (c *Controls) finishCube(float64) {
	c.tween = nil
	e := scene.EulerXYZ(c.model.Object.Rotation)
	for i := range e {
		e[i] = layer.SnapAngle(e[i])
	}
	c.model.Object.Rotation = scene.QuatFromEulerXYZ(e)
	c.emit(types.Event{Kind: types.EventCubeRotated, Progress: 1})
	c.done()
}

func (c *Controls) done() {
	if c.gettingDrag {
		c.state = StatePreparing
	} else {
		c.state = StateStill
	}
	c.gettingDrag = false
	c.kickQueue()
}

func (c *Controls) kickQueue() {
	if c.state == StateStill && c.queue != nil {
		c.queue.Kick()
	}
}

// finishRelease completes a release animation in one step, so a suspend
// never leaves a layer between quarter turns.
func (c *Controls) finishRelease() {
	if c.tween != nil {
		c.tween.Finish()
	}
}

// Cancel stops any release animation where it is and returns to still.
// A layer held by the gesture is snapped and released.
func (c *Controls) Cancel() {
	if c.tween != nil {
		c.tween.Stop()
		c.tween = nil
	}
	if c.kind == KindLayer && c.sel.Active() && c.members != nil {
		c.sel.SnapGroup()
		c.sel.Deselect()
	}
	c.members = nil
	c.state = StateStill
	c.gettingDrag = false
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func (c *Controls) emit(ev types.Event) {
	if c.onEvent != nil {
		c.onEvent(ev)
	}
}
