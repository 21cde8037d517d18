package layer

import (
	"io"
	"math"
	"sort"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/cubetwist/internal/model"
	"github.com/SeamusWaldron/cubetwist/pkg/types"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func setup(t *testing.T, n int) (*model.Model, *Resolver, *Selection) {
	t.Helper()
	v, err := model.ForSize(n)
	require.NoError(t, err)
	theme, _ := model.ThemeByName(model.DefaultTheme)
	m := model.New(v, theme)
	return m, NewResolver(m, quietLogger()), NewSelection(m, quietLogger())
}

func TestLayerPartition(t *testing.T) {
	for n := 2; n <= 5; n++ {
		_, r, _ := setup(t, n)
		for _, axis := range []types.Axis{types.AxisX, types.AxisY, types.AxisZ} {
			seen := map[int]bool{}
			for _, v := range r.Values() {
				members := r.Members(axis, v)
				assert.Len(t, members, n*n, "n=%d axis=%s value=%g", n, axis, v)
				require.NoError(t, r.Validate(members, axis, v))
				for _, i := range members {
					assert.False(t, seen[i], "cubie %d in two layers", i)
					seen[i] = true
				}
			}
			assert.Len(t, seen, n*n*n)
		}
	}
}

func TestEmptyLayer(t *testing.T) {
	_, r, _ := setup(t, 3)
	assert.Empty(t, r.Members(types.AxisX, 0.5))
	assert.ErrorIs(t, r.Validate(nil, types.AxisX, 0.5), ErrBadLayer)
}

func TestFaceToAxisValue(t *testing.T) {
	_, r4, _ := setup(t, 4)
	cases := []struct {
		label string
		axis  types.Axis
		value float64
	}{
		{"U", types.AxisY, 1.5},
		{"D", types.AxisY, -1.5},
		{"R", types.AxisX, 1.5},
		{"L2", types.AxisX, -0.5},
		{"F2", types.AxisZ, 0.5},
		{"B", types.AxisZ, -1.5},
	}
	for _, c := range cases {
		axis, value, err := r4.FaceToAxisValue(c.label)
		require.NoError(t, err, c.label)
		assert.Equal(t, c.axis, axis, c.label)
		assert.Equal(t, c.value, value, c.label)
	}

	_, _, err := r4.FaceToAxisValue("X")
	assert.ErrorIs(t, err, ErrUnknownLayer)
	_, _, err = r4.FaceToAxisValue("U9")
	assert.ErrorIs(t, err, ErrUnknownLayer)
	_, _, err = r4.FaceToAxisValue("")
	assert.ErrorIs(t, err, ErrUnknownLayer)
}

func TestLabelsCoverEveryValue(t *testing.T) {
	for n := 2; n <= 6; n++ {
		_, r, _ := setup(t, n)
		covered := map[types.Axis]map[float64]bool{}
		for _, label := range r.Labels() {
			axis, v, err := r.FaceToAxisValue(label)
			require.NoError(t, err)
			if covered[axis] == nil {
				covered[axis] = map[float64]bool{}
			}
			covered[axis][v] = true
		}
		for _, axis := range []types.Axis{types.AxisX, types.AxisY, types.AxisZ} {
			assert.Len(t, covered[axis], n, "n=%d axis=%s", n, axis)
		}
	}
}

func TestClosestValue(t *testing.T) {
	_, r, _ := setup(t, 4)
	assert.Equal(t, 0.5, r.ClosestValue(0.7))
	assert.Equal(t, -1.5, r.ClosestValue(-9))
}

func TestSelectDeselectRoundTrip(t *testing.T) {
	m, r, s := setup(t, 3)
	m.Object.RotateOnAxis(mgl64.Vec3{1, 0, 0}, math.Pi/2)

	members := r.Members(types.AxisY, 1)
	before := make(map[int]mgl64.Mat4)
	for _, i := range members {
		before[i] = m.Cubie(i).Node.WorldMatrix()
	}

	s.Select(types.AxisY, 1, members)
	assert.True(t, s.Active())
	for _, i := range members {
		assert.Equal(t, m.Group, m.Cubie(i).Node.Parent())
		approxMat(t, before[i], m.Cubie(i).Node.WorldMatrix())
	}

	s.Deselect()
	assert.False(t, s.Active())
	for _, i := range members {
		assert.Equal(t, m.Object, m.Cubie(i).Node.Parent())
		approxMat(t, before[i], m.Cubie(i).Node.WorldMatrix())
	}
}

func TestSelectReplacesHeldLayer(t *testing.T) {
	m, r, s := setup(t, 3)
	s.Select(types.AxisX, 1, r.Members(types.AxisX, 1))
	s.Select(types.AxisX, -1, r.Members(types.AxisX, -1))
	assert.Equal(t, 9, m.Group.Len())
	assert.Equal(t, 9, len(s.Info().Members))
	s.Deselect()
	assert.Equal(t, 0, m.Group.Len())
}

func TestQuarterTurnStaysOnGrid(t *testing.T) {
	m, r, s := setup(t, 4)
	members := r.Members(types.AxisX, 0.5)
	s.Select(types.AxisX, 0.5, members)
	m.Group.RotateOnAxis(mgl64.Vec3{1, 0, 0}, math.Pi/2+0.01)
	s.SnapGroup()
	assert.InDelta(t, math.Pi/2, s.Info().Angle, 1e-9)
	s.Deselect()

	valid := r.Values()
	for _, c := range m.Cubies() {
		g := m.GridPosition(c)
		for _, v := range g {
			i := sort.SearchFloat64s(valid, v)
			require.Less(t, i, len(valid))
			assert.Equal(t, valid[i], v)
		}
	}
	assert.Len(t, r.Members(types.AxisX, 0.5), 16)
	assert.Len(t, r.Members(types.AxisY, 1.5), 16)
}

func TestSnapAngle(t *testing.T) {
	assert.Equal(t, math.Pi/2, SnapAngle(1.5))
	assert.Equal(t, -math.Pi, SnapAngle(-3.0))
	assert.Equal(t, 0.0, SnapAngle(-0.1))
}

func approxMat(t *testing.T, want, got mgl64.Mat4) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], 1e-9, "want %v, got %v", want, got)
}
