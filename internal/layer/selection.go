package layer

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"

	"github.com/SeamusWaldron/cubetwist/internal/model"
	"github.com/SeamusWaldron/cubetwist/internal/scene"
	"github.com/SeamusWaldron/cubetwist/pkg/types"
)

// Info describes the layer currently held by the selection group.
type Info struct {
	Active  bool       `json:"active"`
	Axis    types.Axis `json:"axis"`
	Value   float64    `json:"value"`
	Members []int      `json:"members"`
	Angle   float64    `json:"angle"` // Group rotation about Axis, radians
}

// Selection moves one layer at a time between the puzzle object and the
// group node. It never holds two layers.
type Selection struct {
	model   *model.Model
	log     logrus.FieldLogger
	members []int
	axis    types.Axis
	value   float64
}

// NewSelection creates the selection over m's group node.
func NewSelection(m *model.Model, log logrus.FieldLogger) *Selection {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Selection{model: m, log: log}
}

// Group returns the node the selected layer hangs from.
func (s *Selection) Group() *scene.Node { return s.model.Group }

// Active reports whether a layer is attached.
func (s *Selection) Active() bool { return len(s.members) > 0 }

// Members returns the attached cubie indices.
func (s *Selection) Members() []int { return s.members }

// Select attaches members to the group, preserving world transforms. Any
// previously attached layer is deselected first.
func (s *Selection) Select(axis types.Axis, value float64, members []int) {
	if s.Active() {
		s.log.WithField("members", len(s.members)).Warn("layer: select while a layer is held, deselecting first")
		s.Deselect()
	}
	g := s.model.Group
	g.Rotation = mgl64.QuatIdent()
	g.Position = mgl64.Vec3{}
	for _, i := range members {
		if c := s.model.Cubie(i); c != nil {
			g.Attach(c.Node)
		}
	}
	s.members = append([]int(nil), members...)
	s.axis = axis
	s.value = value
}

// Deselect returns the held layer to the puzzle object and snaps every
// cubie to its exact grid position and an axis-aligned orientation. The
// group is reset to identity afterwards.
func (s *Selection) Deselect() {
	if !s.Active() {
		return
	}
	obj := s.model.Object
	size := s.model.PieceSize()
	for _, i := range s.members {
		c := s.model.Cubie(i)
		if c == nil {
			continue
		}
		obj.Attach(c.Node)
		g := s.model.GridPosition(c)
		c.Node.Position = mgl64.Vec3(g).Mul(size)
		c.Node.Rotation = scene.SnapRotation(c.Node.Rotation)
		c.Node.Scale = mgl64.Vec3{1, 1, 1}
	}
	s.members = nil
	s.model.Group.Rotation = mgl64.QuatIdent()
}

// SnapGroup rounds the group's rotation to the nearest multiple of 90° on
// each Euler component.
func (s *Selection) SnapGroup() {
	e := scene.EulerXYZ(s.model.Group.Rotation)
	for i := range e {
		e[i] = SnapAngle(e[i])
	}
	s.model.Group.Rotation = scene.QuatFromEulerXYZ(e)
}

// Info returns a snapshot of the held layer.
func (s *Selection) Info() Info {
	info := Info{Active: s.Active(), Axis: s.axis, Value: s.value}
	if !info.Active {
		return info
	}
	info.Members = append([]int(nil), s.members...)
	var axis mgl64.Vec3
	axis[s.axis] = 1
	q := s.model.Group.Rotation
	// Twist about the axis: 2·atan2(v·axis, w).
	info.Angle = 2 * math.Atan2(q.V.Dot(axis), q.W)
	return info
}

// SnapAngle rounds an angle to the nearest multiple of 90°.
func SnapAngle(a float64) float64 {
	r := math.Round(a/(math.Pi/2)) * (math.Pi / 2)
	if r == 0 {
		return 0
	}
	return r
}
