package cubetwist

// Predefined moves for convenience.
//
// Example:
//
//	p.Apply(cubetwist.R, cubetwist.U, cubetwist.RPrime, cubetwist.UPrime)
var (
	R      = Move{Face: FaceR, Turn: CW}
	RPrime = Move{Face: FaceR, Turn: CCW}
	R2     = Move{Face: FaceR, Turn: Double}

	L      = Move{Face: FaceL, Turn: CW}
	LPrime = Move{Face: FaceL, Turn: CCW}
	L2     = Move{Face: FaceL, Turn: Double}

	U      = Move{Face: FaceU, Turn: CW}
	UPrime = Move{Face: FaceU, Turn: CCW}
	U2     = Move{Face: FaceU, Turn: Double}

	D      = Move{Face: FaceD, Turn: CW}
	DPrime = Move{Face: FaceD, Turn: CCW}
	D2     = Move{Face: FaceD, Turn: Double}

	F      = Move{Face: FaceF, Turn: CW}
	FPrime = Move{Face: FaceF, Turn: CCW}
	F2     = Move{Face: FaceF, Turn: Double}

	B      = Move{Face: FaceB, Turn: CW}
	BPrime = Move{Face: FaceB, Turn: CCW}
	B2     = Move{Face: FaceB, Turn: Double}
)

// Inner slices of a 3×3, named from the face they sit behind.
var (
	M = Move{Face: FaceL, Turn: CW, Depth: 2} // Middle, turns like L
	E = Move{Face: FaceD, Turn: CW, Depth: 2} // Equator, turns like D
	S = Move{Face: FaceF, Turn: CW, Depth: 2} // Standing, turns like F
)

// SexyMove is R U R' U'.
var SexyMove = []Move{R, U, RPrime, UPrime}

// InverseSexyMove is U R U' R'.
var InverseSexyMove = []Move{U, R, UPrime, RPrime}

// TPerm swaps two corners and two edges of the last layer.
var TPerm = []Move{R, U, RPrime, UPrime, RPrime, F, R2, UPrime, RPrime, UPrime, R, U, RPrime, FPrime}
