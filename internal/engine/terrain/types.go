// Package terrain builds fault-formation terrain meshes on a regular grid.
//
// A Terrain owns flat, index-addressed buffers. Vertex (i, j) lives at index
// i*(div+1)+j for the lifetime of the terrain; only heights change.
package terrain

import (
	"errors"

	"github.com/Faultbox/faultterrain/pkg/math"
)

// MaxDivisions keeps every vertex index representable as a uint32.
const MaxDivisions = 65534

// HeightLimit bounds vertex heights to [-HeightLimit, HeightLimit].
const HeightLimit float32 = 1.0

// Configuration errors.
var (
	ErrInvalidDivisions  = errors.New("invalid grid divisions")
	ErrInvalidBounds     = errors.New("invalid grid bounds")
	ErrInvalidIterations = errors.New("invalid iteration count")
	ErrInvalidDelta      = errors.New("invalid displacement delta")
)

// Buffer consistency errors.
var (
	ErrBufferLength = errors.New("inconsistent buffer length")
	ErrIndexRange   = errors.New("index out of vertex range")
)

// Face is a triangle referencing three vertex indices.
type Face [3]uint32

// Edge is an undirected index pair.
type Edge [2]uint32

// Bounds is the XY extent of the grid.
type Bounds struct {
	MinX, MaxX float32
	MinY, MaxY float32
}

// Terrain is a regular grid of vertices with static triangulation and
// mutable heights.
type Terrain struct {
	div    int
	bounds Bounds
	deltaX float32
	deltaY float32

	positions []math.Vec3
	normals   []math.Vec3
	faces     []Face
	edges     []Edge

	// Running height extrema, only ever widened.
	minZ float32
	maxZ float32

	normalsStale bool
}

// NormalReport summarizes a normal reconstruction pass.
type NormalReport struct {
	DegenerateFaces int // zero-area faces, contributed nothing
	ZeroNormals     int // vertices left with the zero vector
}

// Buffers is a snapshot of the terrain ready for GPU upload.
// All slices are tightly packed copies.
type Buffers struct {
	Positions []float32 // 3 per vertex
	Normals   []float32 // 3 per vertex
	Triangles []uint32  // 3 per face
	Edges     []uint32  // 2 per edge
	MinZ      float32
	MaxZ      float32
}
