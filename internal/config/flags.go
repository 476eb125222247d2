package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagDivisions  = flag.Int("div", 0, "Grid cells per axis")
	flagIterations = flag.Int("iterations", -1, "Fault formation passes")
	flagDelta      = flag.Float64("delta", -1, "Height change per pass")
	flagSeed       = flag.Uint64("seed", 0, "Random seed (0 keeps the configured seed)")
	flagOBJ        = flag.String("obj", "", "Write Wavefront OBJ to this path")
	flagSTL        = flag.String("stl", "", "Write binary STL to this path")
	flagPreview    = flag.String("preview", "", "Write a PNG height preview to this path")
	flagWireframe  = flag.Bool("wireframe", false, "Include edge lines in the OBJ output")
	flagSaveConfig = flag.Bool("save-config", false, "Write the effective config to the user config dir")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// SaveRequested reports whether --save-config was given.
func SaveRequested() bool {
	return *flagSaveConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagDivisions > 0 {
		cfg.Terrain.Divisions = *flagDivisions
	}
	if *flagIterations >= 0 {
		cfg.Fault.Iterations = *flagIterations
	}
	if *flagDelta >= 0 {
		cfg.Fault.Delta = float32(*flagDelta)
	}
	if *flagSeed != 0 {
		cfg.Fault.Seed = *flagSeed
	}
	if *flagOBJ != "" {
		cfg.Output.OBJPath = *flagOBJ
	}
	if *flagSTL != "" {
		cfg.Output.STLPath = *flagSTL
	}
	if *flagPreview != "" {
		cfg.Output.PreviewPath = *flagPreview
	}
	if *flagWireframe {
		cfg.Output.Wireframe = true
	}
}
