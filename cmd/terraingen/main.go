// terraingen generates fault formation terrain and writes it as OBJ, STL
// and a PNG height preview.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/faultterrain/internal/config"
	"github.com/Faultbox/faultterrain/internal/logger"
	"github.com/Faultbox/faultterrain/internal/meshio"
	"github.com/Faultbox/faultterrain/internal/pipeline"
	"github.com/Faultbox/faultterrain/internal/preview"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	runID := uuid.New()
	logger.Log = logger.Log.With(zap.Stringer("run", runID))
	logger.Sugar = logger.Log.Sugar()
	logger.Sugar.Debugf("Config: %+v", cfg)

	if config.SaveRequested() {
		if err := cfg.Save(); err != nil {
			logger.Warn("saving config failed", zap.Error(err))
		} else {
			logger.Info("config saved", zap.String("dir", config.ConfigDir()))
		}
	}

	if err := run(cfg, runID); err != nil {
		logger.Error("generation failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, runID uuid.UUID) error {
	res, err := pipeline.Run(pipeline.FromConfig(cfg))
	if err != nil {
		return err
	}
	logger.Info("seed", zap.Uint64("seed", res.Seed))

	out := cfg.Output
	if out.OBJPath != "" {
		opts := meshio.OBJOptions{RunID: runID, Seed: res.Seed, Wireframe: out.Wireframe}
		err := writeFile(out.OBJPath, func(w io.Writer) error {
			return meshio.WriteOBJ(w, res.Buffers, opts)
		})
		if err != nil {
			return fmt.Errorf("writing OBJ: %w", err)
		}
	}
	if out.STLPath != "" {
		err := writeFile(out.STLPath, func(w io.Writer) error {
			return meshio.WriteSTL(w, res.Buffers)
		})
		if err != nil {
			return fmt.Errorf("writing STL: %w", err)
		}
	}
	if out.PreviewPath != "" {
		err := writeFile(out.PreviewPath, func(w io.Writer) error {
			return preview.WritePNG(w, res.Buffers, out.PreviewSize)
		})
		if err != nil {
			return fmt.Errorf("writing preview: %w", err)
		}
	}
	return nil
}

// writeFile creates path (and its directory) and hands it to write.
func writeFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Info("wrote", zap.String("path", path))
	return nil
}
