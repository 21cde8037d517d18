package model

import (
	"fmt"

	"github.com/SeamusWaldron/cubetwist/pkg/types"
)

// Cube2 is the 2×2×2 variant. All eight pieces are corners.
type Cube2 struct{ base }

// NewCube2 creates the 2×2×2 variant.
func NewCube2() *Cube2 {
	return &Cube2{base{name: "cube2", n: 2, scale: 4, geom: defaultGeometry(2)}}
}

// Cube3 is the standard 3×3×3 variant.
type Cube3 struct{ base }

// NewCube3 creates the 3×3×3 variant.
func NewCube3() *Cube3 {
	return &Cube3{base{name: "cube3", n: 3, scale: 3, geom: defaultGeometry(3)}}
}

// Cube4 is the 4×4×4 variant. Its layer values sit on half steps, so outer
// and second layers are looked up from a table.
type Cube4 struct{ base }

// NewCube4 creates the 4×4×4 variant.
func NewCube4() *Cube4 {
	return &Cube4{base{name: "cube4", n: 4, scale: 4, geom: defaultGeometry(4)}}
}

var cube4Layers = map[types.Face][2]float64{
	types.FaceU: {1.5, 0.5},
	types.FaceD: {-1.5, -0.5},
	types.FaceR: {1.5, 0.5},
	types.FaceL: {-1.5, -0.5},
	types.FaceF: {1.5, 0.5},
	types.FaceB: {-1.5, -0.5},
}

// LayerValue resolves the outer and second layers from the table.
// Depths 3 and 4 are the opposite face's second and outer layers.
func (c *Cube4) LayerValue(face types.Face, depth int) (float64, bool) {
	switch depth {
	case 1, 2:
		v, ok := cube4Layers[face]
		return v[depth-1], ok
	case 3, 4:
		v, ok := cube4Layers[face.Opposite()]
		return v[4-depth], ok
	}
	return 0, false
}

// CubeN is a generic N×N×N variant for sizes without a dedicated type.
type CubeN struct{ base }

// NewCubeN creates a generic variant of size n.
func NewCubeN(n int) *CubeN {
	return &CubeN{base{name: fmt.Sprintf("cube%d", n), n: n, scale: float64(n), geom: defaultGeometry(n)}}
}
