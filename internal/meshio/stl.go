package meshio

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"

	"github.com/soypat/geometry/ms3"

	"github.com/Faultbox/faultterrain/internal/engine/terrain"
)

const stlHeaderSize = 80

// Triangles converts exported buffers into ms3 triangles.
func Triangles(buf terrain.Buffers) []ms3.Triangle {
	vertex := func(idx uint32) ms3.Vec {
		i := 3 * idx
		return ms3.Vec{X: buf.Positions[i], Y: buf.Positions[i+1], Z: buf.Positions[i+2]}
	}

	tris := make([]ms3.Triangle, 0, buf.TriangleCount())
	for i := 0; i < len(buf.Triangles); i += 3 {
		tris = append(tris, ms3.Triangle{
			vertex(buf.Triangles[i]),
			vertex(buf.Triangles[i+1]),
			vertex(buf.Triangles[i+2]),
		})
	}
	return tris
}

// facetNormal returns the unit normal of t, or zero for a degenerate facet.
func facetNormal(t ms3.Triangle) ms3.Vec {
	n := ms3.Cross(ms3.Sub(t[1], t[0]), ms3.Sub(t[2], t[0]))
	if ms3.Norm(n) == 0 {
		return ms3.Vec{}
	}
	return ms3.Unit(n)
}

// WriteSTL writes the triangles as binary STL with per-facet normals.
func WriteSTL(w io.Writer, buf terrain.Buffers) error {
	if err := buf.Validate(); err != nil {
		return err
	}
	tris := Triangles(buf)
	if len(tris) == 0 {
		return ErrEmptyMesh
	}

	bw := bufio.NewWriter(w)

	var header [stlHeaderSize]byte
	copy(header[:], "binary STL: fault formation terrain")
	if _, err := bw.Write(header[:]); err != nil {
		return err
	}

	var record [50]byte
	binary.LittleEndian.PutUint32(record[:4], uint32(len(tris)))
	if _, err := bw.Write(record[:4]); err != nil {
		return err
	}

	for _, t := range tris {
		n := facetNormal(t)
		putVec(record[0:12], n)
		putVec(record[12:24], t[0])
		putVec(record[24:36], t[1])
		putVec(record[36:48], t[2])
		binary.LittleEndian.PutUint16(record[48:50], 0)
		if _, err := bw.Write(record[:]); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func putVec(b []byte, v ms3.Vec) {
	binary.LittleEndian.PutUint32(b[0:4], math.Float32bits(v.X))
	binary.LittleEndian.PutUint32(b[4:8], math.Float32bits(v.Y))
	binary.LittleEndian.PutUint32(b[8:12], math.Float32bits(v.Z))
}
