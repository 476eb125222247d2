package terrain

import (
	"github.com/Faultbox/faultterrain/pkg/math"
)

// RecomputeNormals rebuilds every vertex normal from the current geometry.
func (t *Terrain) RecomputeNormals() NormalReport {
	report := AccumulateNormals(t.positions, t.faces, t.normals)
	t.normalsStale = false
	return report
}

// AccumulateNormals overwrites normals with area-weighted vertex normals.
// Each face adds its unnormalized normal (p2-p1)x(p3-p1) to its three
// vertices, then every sum is normalized. A vertex whose incident faces are
// all degenerate keeps the zero vector.
func AccumulateNormals(positions []math.Vec3, faces []Face, normals []math.Vec3) NormalReport {
	var report NormalReport

	for i := range normals {
		normals[i] = math.Vec3{}
	}

	for _, f := range faces {
		p1 := positions[f[0]]
		p2 := positions[f[1]]
		p3 := positions[f[2]]

		fn := p2.Sub(p1).Cross(p3.Sub(p1))
		if fn.IsZero() {
			report.DegenerateFaces++
			continue
		}

		normals[f[0]] = normals[f[0]].Add(fn)
		normals[f[1]] = normals[f[1]].Add(fn)
		normals[f[2]] = normals[f[2]].Add(fn)
	}

	for i, n := range normals {
		if n.IsZero() {
			report.ZeroNormals++
			continue
		}
		normals[i] = n.Normalize()
	}

	return report
}
