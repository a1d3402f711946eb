package config

import "flag"

// Flags holds command-line overrides. Zero values leave the loaded config
// untouched.
type Flags struct {
	Config     string
	Debug      bool
	Windowed   bool
	Fullscreen bool
	Width      int
	Height     int
	Rate       float64
	Catalog    string
	Shaders    string
	LegacyWrap bool
}

// cli is bound to the process command line.
var cli = NewFlags(flag.CommandLine)

// NewFlags registers the override flags on fs.
func NewFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging and shader hot reload")
	fs.BoolVar(&f.Windowed, "windowed", false, "Run in windowed mode")
	fs.BoolVar(&f.Fullscreen, "fullscreen", false, "Run in fullscreen mode")
	fs.IntVar(&f.Width, "width", 0, "Window width")
	fs.IntVar(&f.Height, "height", 0, "Window height")
	fs.Float64Var(&f.Rate, "rate", 0, "Simulated hours per second")
	fs.StringVar(&f.Catalog, "catalog", "", "Path to a CSV or YAML body catalog")
	fs.StringVar(&f.Shaders, "shaders", "", "Directory overriding the built-in shaders")
	fs.BoolVar(&f.LegacyWrap, "legacy-wrap", false, "Wrap angles by a single subtraction per tick")
	return f
}

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Apply writes the set overrides into cfg.
func (f *Flags) Apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
		cfg.Data.HotReload = true
	}
	switch {
	case f.Fullscreen:
		cfg.Graphics.Fullscreen = true
	case f.Windowed:
		cfg.Graphics.Fullscreen = false
	}
	if f.Width > 0 {
		cfg.Graphics.Width = f.Width
	}
	if f.Height > 0 {
		cfg.Graphics.Height = f.Height
	}
	if f.Rate > 0 {
		cfg.Simulation.HoursPerSecond = float32(f.Rate)
	}
	if f.Catalog != "" {
		cfg.Data.Catalog = f.Catalog
	}
	if f.Shaders != "" {
		cfg.Data.Shaders = f.Shaders
	}
	if f.LegacyWrap {
		cfg.Simulation.LegacyWrap = true
	}
}
