// Package meshio writes exported terrain buffers to mesh interchange files.
package meshio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"

	"github.com/Faultbox/faultterrain/internal/engine/terrain"
)

// ErrEmptyMesh is returned when there is nothing to write.
var ErrEmptyMesh = errors.New("mesh has no triangles")

// OBJOptions controls Wavefront OBJ output.
type OBJOptions struct {
	RunID     uuid.UUID // written to the header when set
	Seed      uint64
	Wireframe bool // also emit one "l" record per edge
}

// WriteOBJ writes positions, normals and faces as Wavefront OBJ.
// Indices are 1-based; each face corner shares its vertex and normal index.
func WriteOBJ(w io.Writer, buf terrain.Buffers, opts OBJOptions) error {
	if err := buf.Validate(); err != nil {
		return err
	}
	if buf.TriangleCount() == 0 {
		return ErrEmptyMesh
	}

	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "# fault formation terrain")
	if opts.RunID != uuid.Nil {
		fmt.Fprintf(bw, "# run %s\n", opts.RunID)
	}
	fmt.Fprintf(bw, "# seed %d\n", opts.Seed)
	fmt.Fprintf(bw, "# vertices %d triangles %d\n", buf.VertexCount(), buf.TriangleCount())
	fmt.Fprintf(bw, "# height %s %s\n", formatFloat(buf.MinZ), formatFloat(buf.MaxZ))
	fmt.Fprintln(bw, "o terrain")

	for i := 0; i < len(buf.Positions); i += 3 {
		fmt.Fprintf(bw, "v %s %s %s\n",
			formatFloat(buf.Positions[i]), formatFloat(buf.Positions[i+1]), formatFloat(buf.Positions[i+2]))
	}
	for i := 0; i < len(buf.Normals); i += 3 {
		fmt.Fprintf(bw, "vn %s %s %s\n",
			formatFloat(buf.Normals[i]), formatFloat(buf.Normals[i+1]), formatFloat(buf.Normals[i+2]))
	}
	for i := 0; i < len(buf.Triangles); i += 3 {
		a, b, c := buf.Triangles[i]+1, buf.Triangles[i+1]+1, buf.Triangles[i+2]+1
		fmt.Fprintf(bw, "f %d//%d %d//%d %d//%d\n", a, a, b, b, c, c)
	}
	if opts.Wireframe {
		for i := 0; i < len(buf.Edges); i += 2 {
			fmt.Fprintf(bw, "l %d %d\n", buf.Edges[i]+1, buf.Edges[i+1]+1)
		}
	}

	return bw.Flush()
}

func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}
