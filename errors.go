package cubetwist

import (
	"errors"

	"github.com/SeamusWaldron/cubetwist/internal/layer"
	"github.com/SeamusWaldron/cubetwist/internal/notation"
	"github.com/SeamusWaldron/cubetwist/internal/rotation"
)

// Sentinel errors for the cubetwist package.
var (
	// Lifecycle errors
	ErrPuzzleNotReady  = errors.New("cubetwist: puzzle not ready")
	ErrUnsupportedSize = errors.New("cubetwist: unsupported puzzle size")

	// Parsing errors
	ErrInvalidNotation = notation.ErrInvalidNotation

	// Move errors
	ErrInvalidMove  = rotation.ErrInvalidMove
	ErrUnknownLayer = layer.ErrUnknownLayer
	ErrEmptyLayer   = layer.ErrEmptyLayer
	ErrBusy         = rotation.ErrBusy
)
