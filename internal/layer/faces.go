package layer

import (
	"fmt"
	"strconv"

	"github.com/SeamusWaldron/cubetwist/pkg/types"
)

// FaceToAxisValue maps a layer label to the axis it turns about and the
// grid coordinate of the layer. Labels are a face letter optionally followed
// by a depth: "U" and "U1" are the top layer, "U2" the one beneath it.
func (r *Resolver) FaceToAxisValue(label string) (types.Axis, float64, error) {
	if label == "" {
		return 0, 0, fmt.Errorf("%w: empty label", ErrUnknownLayer)
	}
	face := types.Face(label[:1])
	if !face.Valid() {
		return 0, 0, fmt.Errorf("%w: %q", ErrUnknownLayer, label)
	}
	depth := 1
	if len(label) > 1 {
		d, err := strconv.Atoi(label[1:])
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %q", ErrUnknownLayer, label)
		}
		depth = d
	}
	return r.FaceLayer(face, depth)
}

// FaceLayer returns the axis and coordinate of the layer at depth below face.
func (r *Resolver) FaceLayer(face types.Face, depth int) (types.Axis, float64, error) {
	v, ok := r.model.Variant().LayerValue(face, depth)
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s at depth %d on %d×%d", ErrUnknownLayer, face, depth, r.model.Dimensions(), r.model.Dimensions())
	}
	return face.Axis(), v, nil
}

// Labels returns every layer label the puzzle accepts, outer layers first.
// Each face contributes layers down to and including the middle one, so
// together they cover every coordinate of every axis.
func (r *Resolver) Labels() []string {
	n := r.model.Dimensions()
	var out []string
	for _, f := range types.Faces {
		out = append(out, string(f))
	}
	for d := 2; d <= (n+1)/2; d++ {
		for _, f := range types.Faces {
			out = append(out, fmt.Sprintf("%s%d", f, d))
		}
	}
	return out
}
