package terrain

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/faultterrain/pkg/math"
)

func newTestTerrain(t *testing.T, div int) *Terrain {
	t.Helper()
	tr, err := New(div, -1, 1, -1, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return tr
}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// fixedSource replays a fixed sequence of values.
type fixedSource struct {
	values []float32
	next   int
}

func (s *fixedSource) Float32() float32 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

func TestApplyFaultCenterPartition(t *testing.T) {
	tr := newTestTerrain(t, 4)
	const delta = 0.25

	if err := tr.ApplyFault(NewFault(0, 0, 0), delta); err != nil {
		t.Fatalf("ApplyFault: %v", err)
	}

	for i := 0; i <= 4; i++ {
		for j := 0; j <= 4; j++ {
			v := tr.Vertex(i, j)
			want := float32(-delta)
			if v.X > 0 {
				want = delta
			}
			if v.Z != want {
				t.Errorf("vertex (%d, %d) x=%v: expected z=%v, got %v", i, j, v.X, want, v.Z)
			}
		}
	}
	if tr.MaxZ() != delta || tr.MinZ() != -delta {
		t.Errorf("expected bounds [-%v, %v], got [%v, %v]", delta, delta, tr.MinZ(), tr.MaxZ())
	}
	if !tr.NormalsStale() {
		t.Error("expected normals to be stale after a fault")
	}
}

func TestApplyFaultTieGoesDown(t *testing.T) {
	tr := newTestTerrain(t, 2)

	// Every vertex on the line x=0 has d == 0 and must be lowered.
	if err := tr.ApplyFault(Fault{Normal: math.Vec2{X: 1}}, 0.1); err != nil {
		t.Fatalf("ApplyFault: %v", err)
	}
	for i := 0; i <= 2; i++ {
		if z := tr.Vertex(i, 1).Z; z != -0.1 {
			t.Errorf("vertex (%d, 1) on the plane: expected z=-0.1, got %v", i, z)
		}
	}
}

func TestApplyFaultRevertsAtLimit(t *testing.T) {
	tr := newTestTerrain(t, 2)
	f := Fault{Normal: math.Vec2{X: 1}}

	for range 3 {
		if err := tr.ApplyFault(f, 0.75); err != nil {
			t.Fatalf("ApplyFault: %v", err)
		}
	}

	// 0.75 + 0.75 would pass 1, so the raise is dropped rather than clamped.
	if z := tr.Vertex(0, 2).Z; z != 0.75 {
		t.Errorf("raised vertex: expected z=0.75, got %v", z)
	}
	if z := tr.Vertex(0, 0).Z; z != -0.75 {
		t.Errorf("lowered vertex: expected z=-0.75, got %v", z)
	}
	if tr.MaxZ() != 0.75 || tr.MinZ() != -0.75 {
		t.Errorf("expected bounds [-0.75, 0.75], got [%v, %v]", tr.MinZ(), tr.MaxZ())
	}
}

func TestApplyFaultReachesLimitExactly(t *testing.T) {
	tr := newTestTerrain(t, 2)
	f := Fault{Normal: math.Vec2{X: 1}}

	for range 4 {
		if err := tr.ApplyFault(f, 0.5); err != nil {
			t.Fatalf("ApplyFault: %v", err)
		}
	}
	if z := tr.Vertex(1, 2).Z; z != 1 {
		t.Errorf("expected z=1, got %v", z)
	}
	if z := tr.Vertex(1, 0).Z; z != -1 {
		t.Errorf("expected z=-1, got %v", z)
	}
}

func TestRandomFault(t *testing.T) {
	b := Bounds{MinX: -2, MaxX: 2, MinY: 10, MaxY: 20}
	src := &fixedSource{values: []float32{0.5, 0.25, 0}}

	f := RandomFault(src, b)
	if f.Point != (math.Vec2{X: 0, Y: 12.5}) {
		t.Errorf("expected point (0, 12.5), got %v", f.Point)
	}
	if f.Normal != (math.Vec2{X: 1, Y: 0}) {
		t.Errorf("expected normal (1, 0), got %v", f.Normal)
	}
	if src.next != 3 {
		t.Errorf("expected 3 draws per fault, got %d", src.next)
	}
}

func TestRandomFaultStaysInBounds(t *testing.T) {
	b := Bounds{MinX: -0.75, MaxX: 0.75, MinY: -0.5, MaxY: 1.5}
	rng := seeded(3)
	for range 1000 {
		f := RandomFault(rng, b)
		if f.Point.X < b.MinX || f.Point.X > b.MaxX || f.Point.Y < b.MinY || f.Point.Y > b.MaxY {
			t.Fatalf("fault point %v outside bounds %+v", f.Point, b)
		}
		if l := f.Normal.Length(); math32.Abs(l-1) > 1e-5 {
			t.Fatalf("fault normal %v not unit length", f.Normal)
		}
	}
}

func TestRunFaultFormationZeroIterations(t *testing.T) {
	tr := newTestTerrain(t, 6)
	if err := tr.RunFaultFormation(seeded(1), 25, 0.05); err != nil {
		t.Fatalf("RunFaultFormation: %v", err)
	}
	before := tr.Export()

	for _, delta := range []float32{0, 0.01, 0.9, 100} {
		if err := tr.RunFaultFormation(seeded(2), 0, delta); err != nil {
			t.Fatalf("RunFaultFormation(0, %v): %v", delta, err)
		}
	}

	after := tr.Export()
	if !slices.Equal(before.Positions, after.Positions) {
		t.Error("zero iterations changed vertex heights")
	}
	if before.MinZ != after.MinZ || before.MaxZ != after.MaxZ {
		t.Errorf("zero iterations changed bounds: [%v, %v] -> [%v, %v]",
			before.MinZ, before.MaxZ, after.MinZ, after.MaxZ)
	}
}

func TestRunFaultFormationBounded(t *testing.T) {
	for _, delta := range []float32{0.003, 0.1, 0.6, 1, 3} {
		tr := newTestTerrain(t, 8)
		if err := tr.RunFaultFormation(seeded(11), 400, delta); err != nil {
			t.Fatalf("RunFaultFormation: %v", err)
		}

		if tr.MaxZ() > HeightLimit || tr.MinZ() < -HeightLimit {
			t.Errorf("delta %v: bounds [%v, %v] exceed ±1", delta, tr.MinZ(), tr.MaxZ())
		}
		buf := tr.Export()
		for i := 2; i < len(buf.Positions); i += 3 {
			z := buf.Positions[i]
			if z > HeightLimit || z < -HeightLimit {
				t.Fatalf("delta %v: vertex %d height %v exceeds ±1", delta, i/3, z)
			}
			if z > tr.MaxZ() || z < tr.MinZ() {
				t.Fatalf("delta %v: vertex %d height %v outside tracked bounds", delta, i/3, z)
			}
		}
	}
}

func TestRunFaultFormationMonotonicBounds(t *testing.T) {
	tr := newTestTerrain(t, 10)
	rng := seeded(99)

	prevMin, prevMax := tr.MinZ(), tr.MaxZ()
	for step := range 30 {
		if err := tr.RunFaultFormation(rng, 10, 0.05); err != nil {
			t.Fatalf("RunFaultFormation: %v", err)
		}
		if tr.MaxZ() < prevMax {
			t.Errorf("step %d: maxZ decreased from %v to %v", step, prevMax, tr.MaxZ())
		}
		if tr.MinZ() > prevMin {
			t.Errorf("step %d: minZ increased from %v to %v", step, prevMin, tr.MinZ())
		}
		prevMin, prevMax = tr.MinZ(), tr.MaxZ()
	}
}

func TestRunFaultFormationMoreIterationsWiden(t *testing.T) {
	short := newTestTerrain(t, 10)
	long := newTestTerrain(t, 10)

	if err := short.RunFaultFormation(seeded(5), 50, 0.02); err != nil {
		t.Fatalf("RunFaultFormation: %v", err)
	}
	if err := long.RunFaultFormation(seeded(5), 150, 0.02); err != nil {
		t.Fatalf("RunFaultFormation: %v", err)
	}

	if long.MaxZ() < short.MaxZ() {
		t.Errorf("maxZ after 150 iterations (%v) below maxZ after 50 (%v)", long.MaxZ(), short.MaxZ())
	}
	if long.MinZ() > short.MinZ() {
		t.Errorf("minZ after 150 iterations (%v) above minZ after 50 (%v)", long.MinZ(), short.MinZ())
	}
}

func TestRunFaultFormationDeterministic(t *testing.T) {
	build := func() Buffers {
		tr := newTestTerrain(t, 16)
		if err := tr.RunFaultFormation(seeded(42), 300, 0.01); err != nil {
			t.Fatalf("RunFaultFormation: %v", err)
		}
		tr.RecomputeNormals()
		return tr.Export()
	}

	a := build()
	b := build()
	if !slices.Equal(a.Positions, b.Positions) {
		t.Error("same seed produced different positions")
	}
	if !slices.Equal(a.Normals, b.Normals) {
		t.Error("same seed produced different normals")
	}
	if a.MinZ != b.MinZ || a.MaxZ != b.MaxZ {
		t.Error("same seed produced different height bounds")
	}

	c := newTestTerrain(t, 16)
	if err := c.RunFaultFormation(seeded(43), 300, 0.01); err != nil {
		t.Fatalf("RunFaultFormation: %v", err)
	}
	if slices.Equal(a.Positions, c.Export().Positions) {
		t.Error("different seeds produced identical terrain")
	}
}

func TestRunFaultFormationInvalid(t *testing.T) {
	tr := newTestTerrain(t, 2)

	if err := tr.RunFaultFormation(seeded(1), -1, 0.1); !errors.Is(err, ErrInvalidIterations) {
		t.Errorf("expected ErrInvalidIterations, got %v", err)
	}
	for _, delta := range []float32{-0.1, math32.NaN(), math32.Inf(1)} {
		if err := tr.RunFaultFormation(seeded(1), 1, delta); !errors.Is(err, ErrInvalidDelta) {
			t.Errorf("delta %v: expected ErrInvalidDelta, got %v", delta, err)
		}
		if err := tr.ApplyFault(Fault{}, delta); !errors.Is(err, ErrInvalidDelta) {
			t.Errorf("ApplyFault delta %v: expected ErrInvalidDelta, got %v", delta, err)
		}
	}
	if tr.MinZ() != 0 || tr.MaxZ() != 0 {
		t.Error("rejected runs must not touch heights")
	}
}

func TestFaultSide(t *testing.T) {
	f := NewFault(1, 2, 0)

	tests := []struct {
		v    math.Vec3
		want float32
	}{
		{math.Vec3{X: 3, Y: 2}, 2},
		{math.Vec3{X: 3, Y: -7, Z: 0.9}, 2},
		{math.Vec3{X: 1, Y: 5}, 0},
		{math.Vec3{X: -0.5, Y: 2, Z: -1}, -1.5},
	}
	for _, tt := range tests {
		if got := f.Side(tt.v); got != tt.want {
			t.Errorf("Side(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}
