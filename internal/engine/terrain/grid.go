package terrain

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/faultterrain/pkg/math"
)

// New builds a flat grid with div cells per axis spanning
// [minX,maxX] x [minY,maxY]. Heights start at zero and every normal is +Z.
func New(div int, minX, maxX, minY, maxY float32) (*Terrain, error) {
	if div < 1 || div > MaxDivisions {
		return nil, fmt.Errorf("terrain: div %d not in [1, %d]: %w", div, MaxDivisions, ErrInvalidDivisions)
	}
	b := Bounds{MinX: minX, MaxX: maxX, MinY: minY, MaxY: maxY}
	if err := b.validate(); err != nil {
		return nil, err
	}

	t := &Terrain{
		div:    div,
		bounds: b,
		deltaX: (maxX - minX) / float32(div),
		deltaY: (maxY - minY) / float32(div),
	}
	t.generateTriangles()
	t.edges = BuildEdges(t.faces)
	return t, nil
}

func (b Bounds) validate() error {
	for _, v := range [...]float32{b.MinX, b.MaxX, b.MinY, b.MaxY} {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return fmt.Errorf("terrain: non-finite bound %v: %w", v, ErrInvalidBounds)
		}
	}
	if b.MinX >= b.MaxX {
		return fmt.Errorf("terrain: minX %v >= maxX %v: %w", b.MinX, b.MaxX, ErrInvalidBounds)
	}
	if b.MinY >= b.MaxY {
		return fmt.Errorf("terrain: minY %v >= maxY %v: %w", b.MinY, b.MaxY, ErrInvalidBounds)
	}
	return nil
}

// generateTriangles fills the vertex, normal and face arenas.
func (t *Terrain) generateTriangles() {
	n := t.div + 1
	t.positions = make([]math.Vec3, n*n)
	t.normals = make([]math.Vec3, n*n)
	for i := 0; i <= t.div; i++ {
		y := t.bounds.MinY + t.deltaY*float32(i)
		for j := 0; j <= t.div; j++ {
			vid := i*n + j
			t.positions[vid] = math.Vec3{X: t.bounds.MinX + t.deltaX*float32(j), Y: y}
			t.normals[vid] = math.Up
		}
	}

	// Two triangles per cell. The winding fixes the sign of every normal.
	t.faces = make([]Face, 0, 2*t.div*t.div)
	row := uint32(n)
	for i := 0; i < t.div; i++ {
		for j := 0; j < t.div; j++ {
			vid := uint32(i*n + j)
			t.faces = append(t.faces,
				Face{vid, vid + 1, vid + row},
				Face{vid + 1, vid + 1 + row, vid + row},
			)
		}
	}
}

// Div returns the number of cells per axis.
func (t *Terrain) Div() int { return t.div }

// Bounds returns the XY extent of the grid.
func (t *Terrain) Bounds() Bounds { return t.bounds }

// VertexCount returns (div+1)^2.
func (t *Terrain) VertexCount() int { return len(t.positions) }

// FaceCount returns 2*div^2.
func (t *Terrain) FaceCount() int { return len(t.faces) }

// EdgeCount returns 3*FaceCount.
func (t *Terrain) EdgeCount() int { return len(t.edges) }

// MinZ returns the lowest height reached by any vertex so far.
func (t *Terrain) MinZ() float32 { return t.minZ }

// MaxZ returns the highest height reached by any vertex so far.
func (t *Terrain) MaxZ() float32 { return t.maxZ }

// NormalsStale reports whether heights changed since normals were last rebuilt.
func (t *Terrain) NormalsStale() bool { return t.normalsStale }

// Index returns the flat index of grid vertex (i, j).
// It panics if (i, j) lies outside the grid.
func (t *Terrain) Index(i, j int) int {
	if i < 0 || j < 0 || i > t.div || j > t.div {
		panic(fmt.Sprintf("terrain: vertex (%d, %d) outside %dx%d grid", i, j, t.div+1, t.div+1))
	}
	return i*(t.div+1) + j
}

// Vertex returns the position of grid vertex (i, j).
func (t *Terrain) Vertex(i, j int) math.Vec3 {
	return t.positions[t.Index(i, j)]
}

// setHeight sets the height of grid vertex (i, j) and widens the height
// bounds. Heights otherwise change only through fault passes.
func (t *Terrain) setHeight(i, j int, z float32) {
	t.positions[t.Index(i, j)].Z = z
	t.trackHeight(z)
	t.normalsStale = true
}

// Normal returns the normal of grid vertex (i, j).
func (t *Terrain) Normal(i, j int) math.Vec3 {
	return t.normals[t.Index(i, j)]
}

// Faces returns a copy of the face list.
func (t *Terrain) Faces() []Face {
	out := make([]Face, len(t.faces))
	copy(out, t.faces)
	return out
}

func (t *Terrain) trackHeight(z float32) {
	if z > t.maxZ {
		t.maxZ = z
	}
	if z < t.minZ {
		t.minZ = z
	}
}
