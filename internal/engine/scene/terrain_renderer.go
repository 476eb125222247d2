// Package scene uploads generated terrain to OpenGL and issues its draw calls.
// Shader programs, camera and lighting uniforms belong to the caller.
package scene

import (
	"errors"
	"fmt"
	"math"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/faultterrain/internal/engine/terrain"
	"github.com/Faultbox/faultterrain/internal/logger"
)

// Vertex attribute locations expected by terrain shaders.
const (
	PositionLocation = 0
	NormalLocation   = 1
)

// TerrainRenderer owns the GPU buffers of one terrain snapshot.
type TerrainRenderer struct {
	vao       uint32
	positions uint32
	normals   uint32
	triangles uint32
	edges     uint32

	triangleIndices int32
	edgeIndices     int32

	// Height range, for shaders that colour by altitude.
	MinZ float32
	MaxZ float32
}

// NewTerrainRenderer creates an empty renderer. A GL context must be current.
func NewTerrainRenderer() *TerrainRenderer {
	return &TerrainRenderer{}
}

// ErrEmptyMesh is returned when there is nothing to draw.
var ErrEmptyMesh = errors.New("terrain buffers: empty mesh")

// drawCounts holds the element counts passed to glDrawElements.
type drawCounts struct {
	triangles int32
	edges     int32
}

// prepare checks buf before any GL state is touched.
func prepare(buf terrain.Buffers) (drawCounts, error) {
	if err := buf.Validate(); err != nil {
		return drawCounts{}, fmt.Errorf("terrain buffers: %w", err)
	}
	if buf.VertexCount() == 0 || buf.TriangleCount() == 0 {
		return drawCounts{}, ErrEmptyMesh
	}
	if len(buf.Triangles) > math.MaxInt32 || len(buf.Edges) > math.MaxInt32 {
		return drawCounts{}, fmt.Errorf("terrain buffers: %d indices exceed GLsizei", len(buf.Triangles))
	}
	return drawCounts{
		triangles: int32(len(buf.Triangles)),
		edges:     int32(len(buf.Edges)),
	}, nil
}

// LoadTerrain replaces the uploaded geometry with buf. Inconsistent buffers
// are refused and the previous geometry is kept.
func (tr *TerrainRenderer) LoadTerrain(buf terrain.Buffers) error {
	counts, err := prepare(buf)
	if err != nil {
		return err
	}

	tr.clearTerrain()

	gl.GenVertexArrays(1, &tr.vao)
	gl.BindVertexArray(tr.vao)

	tr.positions = uploadFloats(buf.Positions)
	gl.VertexAttribPointerWithOffset(PositionLocation, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(PositionLocation)

	tr.normals = uploadFloats(buf.Normals)
	gl.VertexAttribPointerWithOffset(NormalLocation, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(NormalLocation)

	// The VAO records the triangle EBO; the edge EBO is bound per draw.
	tr.edges = uploadIndices(buf.Edges)
	tr.triangles = uploadIndices(buf.Triangles)

	gl.BindVertexArray(0)

	tr.triangleIndices = counts.triangles
	tr.edgeIndices = counts.edges
	tr.MinZ = buf.MinZ
	tr.MaxZ = buf.MaxZ

	logger.Debug("terrain uploaded",
		zap.Int("vertices", buf.VertexCount()),
		zap.Int("triangles", buf.TriangleCount()),
		zap.Int("edges", buf.EdgeCount()),
	)
	return nil
}

func uploadFloats(data []float32) uint32 {
	var id uint32
	gl.GenBuffers(1, &id)
	gl.BindBuffer(gl.ARRAY_BUFFER, id)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, unsafe.Pointer(&data[0]), gl.STATIC_DRAW)
	return id
}

func uploadIndices(data []uint32) uint32 {
	var id uint32
	gl.GenBuffers(1, &id)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, id)
	if len(data) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data)*4, unsafe.Pointer(&data[0]), gl.STATIC_DRAW)
	}
	return id
}

// DrawTriangles draws the filled surface with the currently bound program.
func (tr *TerrainRenderer) DrawTriangles() {
	if tr.vao == 0 {
		return
	}
	gl.BindVertexArray(tr.vao)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, tr.triangles)
	gl.DrawElements(gl.TRIANGLES, tr.triangleIndices, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// DrawEdges draws the wireframe with the currently bound program.
func (tr *TerrainRenderer) DrawEdges() {
	if tr.vao == 0 || tr.edgeIndices == 0 {
		return
	}
	gl.BindVertexArray(tr.vao)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, tr.edges)
	gl.DrawElements(gl.LINES, tr.edgeIndices, gl.UNSIGNED_INT, nil)
	// Restore the VAO's element binding for the next DrawTriangles.
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, tr.triangles)
	gl.BindVertexArray(0)
}

func (tr *TerrainRenderer) clearTerrain() {
	if tr.vao != 0 {
		gl.DeleteVertexArrays(1, &tr.vao)
		tr.vao = 0
	}
	for _, id := range []*uint32{&tr.positions, &tr.normals, &tr.triangles, &tr.edges} {
		if *id != 0 {
			gl.DeleteBuffers(1, id)
			*id = 0
		}
	}
	tr.triangleIndices = 0
	tr.edgeIndices = 0
}

// Destroy releases all resources.
func (tr *TerrainRenderer) Destroy() {
	tr.clearTerrain()
}
