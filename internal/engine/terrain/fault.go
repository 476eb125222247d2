package terrain

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/faultterrain/pkg/math"
)

// Source supplies uniform random numbers in [0, 1).
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	Float32() float32
}

// Fault is a vertical cutting plane through Point with horizontal Normal.
// Vertices on the Normal side are raised, all others lowered.
type Fault struct {
	Point  math.Vec2
	Normal math.Vec2
}

// NewFault returns the plane through (px, py) with normal (cos θ, sin θ).
func NewFault(px, py, theta float32) Fault {
	return Fault{
		Point:  math.Vec2{X: px, Y: py},
		Normal: math.FromAngle(theta),
	}
}

// RandomFault draws a fault whose point is uniform over b and whose
// direction is uniform in [0, 2π). Draw order is px, py, θ.
func RandomFault(rng Source, b Bounds) Fault {
	px := b.MinX + rng.Float32()*(b.MaxX-b.MinX)
	py := b.MinY + rng.Float32()*(b.MaxY-b.MinY)
	theta := 2 * math32.Pi * rng.Float32()
	return NewFault(px, py, theta)
}

// Side returns the signed horizontal distance of v from the plane.
// Height does not matter.
func (f Fault) Side(v math.Vec3) float32 {
	return v.XY().Sub(f.Point).Dot(f.Normal)
}

// RunFaultFormation applies iterations random faults, each moving every
// vertex by delta. Normals become stale until RecomputeNormals runs.
func (t *Terrain) RunFaultFormation(rng Source, iterations int, delta float32) error {
	if iterations < 0 {
		return fmt.Errorf("terrain: %d iterations: %w", iterations, ErrInvalidIterations)
	}
	if err := checkDelta(delta); err != nil {
		return err
	}
	for it := 0; it < iterations; it++ {
		t.applyFault(RandomFault(rng, t.bounds), delta)
	}
	return nil
}

// ApplyFault runs a single pass with a caller-chosen plane.
func (t *Terrain) ApplyFault(f Fault, delta float32) error {
	if err := checkDelta(delta); err != nil {
		return err
	}
	t.applyFault(f, delta)
	return nil
}

func (t *Terrain) applyFault(f Fault, delta float32) {
	for vid := range t.positions {
		v := &t.positions[vid]
		if f.Side(*v) > 0 {
			// A raise past the ceiling is dropped, not clamped.
			if z := v.Z + delta; z <= HeightLimit {
				v.Z = z
			}
			if v.Z > t.maxZ {
				t.maxZ = v.Z
			}
		} else {
			if z := v.Z - delta; z >= -HeightLimit {
				v.Z = z
			}
			if v.Z < t.minZ {
				t.minZ = v.Z
			}
		}
	}
	t.normalsStale = true
}

func checkDelta(delta float32) error {
	if delta < 0 || math32.IsNaN(delta) || math32.IsInf(delta, 0) {
		return fmt.Errorf("terrain: delta %v: %w", delta, ErrInvalidDelta)
	}
	return nil
}
