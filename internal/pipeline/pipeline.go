// Package pipeline runs the terrain stages in order: build the grid, apply
// fault formation, rebuild normals and export buffers.
package pipeline

import (
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/faultterrain/internal/config"
	"github.com/Faultbox/faultterrain/internal/engine/terrain"
	"github.com/Faultbox/faultterrain/internal/logger"
)

// Options selects the grid and the perturbation.
type Options struct {
	Divisions  int
	Bounds     terrain.Bounds
	Iterations int
	Delta      float32
	Seed       uint64 // 0 picks a time-based seed
}

// Timings records how long each stage took.
type Timings struct {
	Build   time.Duration
	Perturb time.Duration
	Normals time.Duration
	Export  time.Duration
}

// Total returns the sum of all stages.
func (t Timings) Total() time.Duration {
	return t.Build + t.Perturb + t.Normals + t.Export
}

// Result holds the generated terrain and its upload snapshot.
type Result struct {
	Terrain *terrain.Terrain
	Buffers terrain.Buffers
	Normals terrain.NormalReport
	Timings Timings
	Seed    uint64 // seed actually used, for reproducing the run
}

// FromConfig converts loaded settings into pipeline options.
func FromConfig(cfg *config.Config) Options {
	return Options{
		Divisions: cfg.Terrain.Divisions,
		Bounds: terrain.Bounds{
			MinX: cfg.Terrain.MinX,
			MaxX: cfg.Terrain.MaxX,
			MinY: cfg.Terrain.MinY,
			MaxY: cfg.Terrain.MaxY,
		},
		Iterations: cfg.Fault.Iterations,
		Delta:      cfg.Fault.Delta,
		Seed:       cfg.Fault.Seed,
	}
}

// NewSource returns the deterministic random source for seed.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Run executes every stage and returns the exported terrain.
func Run(opts Options) (*Result, error) {
	log := logger.Named("pipeline")

	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	res := &Result{Seed: seed}

	start := time.Now()
	t, err := terrain.New(opts.Divisions, opts.Bounds.MinX, opts.Bounds.MaxX, opts.Bounds.MinY, opts.Bounds.MaxY)
	if err != nil {
		return nil, fmt.Errorf("building grid: %w", err)
	}
	res.Terrain = t
	res.Timings.Build = time.Since(start)
	log.Debug("grid built",
		zap.Int("div", t.Div()),
		zap.Int("vertices", t.VertexCount()),
		zap.Int("faces", t.FaceCount()),
		zap.Int("edges", t.EdgeCount()),
		zap.Duration("took", res.Timings.Build),
	)

	start = time.Now()
	if err := t.RunFaultFormation(NewSource(seed), opts.Iterations, opts.Delta); err != nil {
		return nil, fmt.Errorf("fault formation: %w", err)
	}
	res.Timings.Perturb = time.Since(start)
	log.Debug("fault formation done",
		zap.Int("iterations", opts.Iterations),
		zap.Float32("delta", opts.Delta),
		zap.Uint64("seed", seed),
		zap.Float32("min_z", t.MinZ()),
		zap.Float32("max_z", t.MaxZ()),
		zap.Duration("took", res.Timings.Perturb),
	)

	start = time.Now()
	res.Normals = t.RecomputeNormals()
	res.Timings.Normals = time.Since(start)
	if res.Normals.DegenerateFaces > 0 || res.Normals.ZeroNormals > 0 {
		log.Warn("degenerate geometry during normal reconstruction",
			zap.Int("degenerate_faces", res.Normals.DegenerateFaces),
			zap.Int("zero_normals", res.Normals.ZeroNormals),
		)
	}

	start = time.Now()
	res.Buffers = t.Export()
	res.Timings.Export = time.Since(start)
	if err := res.Buffers.Validate(); err != nil {
		// Export of a well-formed grid cannot fail validation.
		panic(fmt.Sprintf("pipeline: exported buffers inconsistent: %v", err))
	}

	log.Info("terrain generated",
		zap.Int("vertices", res.Buffers.VertexCount()),
		zap.Int("triangles", res.Buffers.TriangleCount()),
		zap.Float32("min_z", res.Buffers.MinZ),
		zap.Float32("max_z", res.Buffers.MaxZ),
		zap.Duration("took", res.Timings.Total()),
	)
	return res, nil
}
