// Package config handles generator configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"math"
)

// Config holds all generator settings.
type Config struct {
	Terrain TerrainConfig `yaml:"terrain"`
	Fault   FaultConfig   `yaml:"fault"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// TerrainConfig holds grid resolution and extent.
type TerrainConfig struct {
	Divisions int     `yaml:"divisions"`
	MinX      float32 `yaml:"min_x"`
	MaxX      float32 `yaml:"max_x"`
	MinY      float32 `yaml:"min_y"`
	MaxY      float32 `yaml:"max_y"`
}

// FaultConfig holds fault formation settings.
type FaultConfig struct {
	Iterations int     `yaml:"iterations"`
	Delta      float32 `yaml:"delta"`
	Seed       uint64  `yaml:"seed"` // 0 picks a time-based seed
}

// OutputConfig holds the artifacts to write. Empty paths are skipped.
type OutputConfig struct {
	OBJPath     string `yaml:"obj_path"`
	STLPath     string `yaml:"stl_path"`
	PreviewPath string `yaml:"preview_path"`
	PreviewSize int    `yaml:"preview_size"`
	Wireframe   bool   `yaml:"wireframe"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// MaxDivisions caps the grid so a run stays within a few hundred MB.
const MaxDivisions = 2048

// Validation errors.
var (
	ErrInvalidTerrain = errors.New("invalid terrain config")
	ErrInvalidFault   = errors.New("invalid fault config")
	ErrInvalidOutput  = errors.New("invalid output config")
)

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Terrain: TerrainConfig{
			Divisions: 200,
			MinX:      -0.75,
			MaxX:      0.75,
			MinY:      -0.75,
			MaxY:      0.75,
		},
		Fault: FaultConfig{
			Iterations: 1000,
			Delta:      0.003,
			Seed:       0,
		},
		Output: OutputConfig{
			OBJPath:     "terrain.obj",
			PreviewSize: 512,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports the first setting the generator cannot run with.
func (c *Config) Validate() error {
	t := c.Terrain
	if t.Divisions < 1 || t.Divisions > MaxDivisions {
		return fmt.Errorf("divisions %d not in [1, %d]: %w", t.Divisions, MaxDivisions, ErrInvalidTerrain)
	}
	if !finite(t.MinX, t.MaxX, t.MinY, t.MaxY) || t.MinX >= t.MaxX || t.MinY >= t.MaxY {
		return fmt.Errorf("bounds [%v,%v]x[%v,%v]: %w", t.MinX, t.MaxX, t.MinY, t.MaxY, ErrInvalidTerrain)
	}
	if c.Fault.Iterations < 0 {
		return fmt.Errorf("iterations %d: %w", c.Fault.Iterations, ErrInvalidFault)
	}
	if c.Fault.Delta < 0 || !finite(c.Fault.Delta) {
		return fmt.Errorf("delta %v: %w", c.Fault.Delta, ErrInvalidFault)
	}
	if c.Output.PreviewPath != "" && c.Output.PreviewSize < 1 {
		return fmt.Errorf("preview size %d: %w", c.Output.PreviewSize, ErrInvalidOutput)
	}
	return nil
}

func finite(vs ...float32) bool {
	for _, v := range vs {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
