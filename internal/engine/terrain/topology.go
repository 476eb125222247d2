package terrain

import (
	"fmt"
)

// BuildEdges returns the three sides of every face as (a,b), (b,c), (c,a).
// Sides shared by neighbouring faces appear once per face.
func BuildEdges(faces []Face) []Edge {
	edges := make([]Edge, 0, 3*len(faces))
	for _, f := range faces {
		edges = append(edges,
			Edge{f[0], f[1]},
			Edge{f[1], f[2]},
			Edge{f[2], f[0]},
		)
	}
	return edges
}

// Export copies the current geometry into flat arrays.
func (t *Terrain) Export() Buffers {
	buf := Buffers{
		Positions: make([]float32, 0, 3*len(t.positions)),
		Normals:   make([]float32, 0, 3*len(t.normals)),
		Triangles: make([]uint32, 0, 3*len(t.faces)),
		Edges:     make([]uint32, 0, 2*len(t.edges)),
		MinZ:      t.minZ,
		MaxZ:      t.maxZ,
	}
	for _, p := range t.positions {
		buf.Positions = append(buf.Positions, p.X, p.Y, p.Z)
	}
	for _, n := range t.normals {
		buf.Normals = append(buf.Normals, n.X, n.Y, n.Z)
	}
	for _, f := range t.faces {
		buf.Triangles = append(buf.Triangles, f[0], f[1], f[2])
	}
	for _, e := range t.edges {
		buf.Edges = append(buf.Edges, e[0], e[1])
	}
	return buf
}

// VertexCount returns the number of vertices in the snapshot.
func (b Buffers) VertexCount() int { return len(b.Positions) / 3 }

// TriangleCount returns the number of triangles in the snapshot.
func (b Buffers) TriangleCount() int { return len(b.Triangles) / 3 }

// EdgeCount returns the number of edges in the snapshot.
func (b Buffers) EdgeCount() int { return len(b.Edges) / 2 }

// Validate checks that array lengths agree and that every index refers to
// an existing vertex.
func (b Buffers) Validate() error {
	if len(b.Positions)%3 != 0 {
		return fmt.Errorf("positions: %d floats: %w", len(b.Positions), ErrBufferLength)
	}
	if len(b.Normals) != len(b.Positions) {
		return fmt.Errorf("normals: %d floats for %d positions: %w", len(b.Normals), len(b.Positions), ErrBufferLength)
	}
	if len(b.Triangles)%3 != 0 {
		return fmt.Errorf("triangles: %d indices: %w", len(b.Triangles), ErrBufferLength)
	}
	if len(b.Edges)%2 != 0 {
		return fmt.Errorf("edges: %d indices: %w", len(b.Edges), ErrBufferLength)
	}

	n := uint32(b.VertexCount())
	for i, idx := range b.Triangles {
		if idx >= n {
			return fmt.Errorf("triangle index %d = %d, %d vertices: %w", i, idx, n, ErrIndexRange)
		}
	}
	for i, idx := range b.Edges {
		if idx >= n {
			return fmt.Errorf("edge index %d = %d, %d vertices: %w", i, idx, n, ErrIndexRange)
		}
	}
	return nil
}
