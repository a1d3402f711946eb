// Package config handles configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Config holds all settings.
type Config struct {
	Graphics   GraphicsConfig   `yaml:"graphics"`
	Simulation SimulationConfig `yaml:"simulation"`
	Camera     CameraConfig     `yaml:"camera"`
	Data       DataConfig       `yaml:"data"`
	Scene      SceneConfig      `yaml:"scene"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Fullscreen bool    `yaml:"fullscreen"`
	VSync      bool    `yaml:"vsync"`
	Anisotropy float32 `yaml:"anisotropy"`
	Samples    int     `yaml:"samples"`
}

// SimulationConfig holds the clock settings.
type SimulationConfig struct {
	HoursPerSecond float32 `yaml:"hours_per_second"`
	RateStep       float32 `yaml:"rate_step"`
	MinRate        float32 `yaml:"min_rate"`

	// LegacyWrap wraps angles by a single subtraction of 2π per tick.
	LegacyWrap bool `yaml:"legacy_wrap"`
}

// CameraConfig holds the initial camera and its controls.
type CameraConfig struct {
	Position    [3]float32 `yaml:"position"`
	Yaw         float32    `yaml:"yaw"`
	Pitch       float32    `yaml:"pitch"`
	Fov         float32    `yaml:"fov"`
	Speed       float32    `yaml:"speed"`
	Sensitivity float32    `yaml:"sensitivity"`
	Near        float32    `yaml:"near"`
	Far         float32    `yaml:"far"`
}

// DataConfig holds resource locations. Empty paths use built-in data.
type DataConfig struct {
	Catalog     string `yaml:"catalog"`
	Textures    string `yaml:"textures"`
	Shaders     string `yaml:"shaders"`
	HotReload   bool   `yaml:"hot_reload"`
	Screenshots string `yaml:"screenshots"`
}

// SceneConfig holds the lights and the body layout.
type SceneConfig struct {
	Light         [3]float32       `yaml:"light"`
	EmissiveLight [3]float32       `yaml:"emissive_light"`
	LightColor    [3]float32       `yaml:"light_color"`
	Background    string       `yaml:"background"`
	Bodies        []BodyConfig `yaml:"bodies"`
}

// BodyConfig places one catalog body in the scene. Style names a shading
// style ("lit", "emissive", "directional", "spot", "flat", "phong"); empty
// means lit.
type BodyConfig struct {
	Name        string    `yaml:"name"`
	Parent      string    `yaml:"parent,omitempty"`
	Style       string    `yaml:"style,omitempty"`
	TrackParent bool      `yaml:"track_parent,omitempty"`
	Color       []float32 `yaml:"color,omitempty"`
	Focus       float32   `yaml:"focus,omitempty"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with the built-in solar system.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1400,
			Height:     850,
			Fullscreen: false,
			VSync:      true,
			Anisotropy: 4,
			Samples:    4,
		},
		Simulation: SimulationConfig{
			HoursPerSecond: 1,
			RateStep:       0.1,
			MinRate:        1,
		},
		Camera: CameraConfig{
			Position:    [3]float32{-32.406296, 97.20163, 265.43283},
			Yaw:         -59.195007,
			Pitch:       -19.698872,
			Fov:         45,
			Speed:       60,
			Sensitivity: 0.1,
			Near:        0.1,
			Far:         10000,
		},
		Data: DataConfig{
			Textures:    "textures",
			Screenshots: "screenshots",
		},
		Scene: SceneConfig{
			Light:         [3]float32{36.956654, 3.0306416, 22.81607},
			EmissiveLight: [3]float32{100, 100, 100},
			LightColor:    [3]float32{1, 1, 1},
			Background:    "sky",
			Bodies:        DefaultBodies(),
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// DefaultBodies returns the sun, the eight planets and the moon.
func DefaultBodies() []BodyConfig {
	bodies := []BodyConfig{{Name: "sun", Style: "emissive", Focus: 1.5}}
	for _, name := range []string{"mercury", "venus", "earth"} {
		bodies = append(bodies, BodyConfig{Name: name, Parent: "sun"})
	}
	bodies = append(bodies, BodyConfig{Name: "moon", Parent: "earth", TrackParent: true, Focus: 0.3})
	for _, name := range []string{"mars", "jupiter", "saturn", "uranus", "neptune"} {
		bodies = append(bodies, BodyConfig{Name: name, Parent: "sun"})
	}
	return bodies
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	var errs []error
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = append(errs, fmt.Errorf("graphics: invalid size %dx%d", c.Graphics.Width, c.Graphics.Height))
	}
	if c.Graphics.Samples < 0 || c.Graphics.Samples > 16 {
		errs = append(errs, fmt.Errorf("graphics: samples %d out of range 0..16", c.Graphics.Samples))
	}
	if c.Simulation.HoursPerSecond < 0 || c.Simulation.MinRate < 0 || c.Simulation.RateStep <= 0 {
		errs = append(errs, fmt.Errorf("simulation: rates must be non-negative with a positive step"))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera: invalid clip range %v..%v", c.Camera.Near, c.Camera.Far))
	}
	if len(c.Scene.Bodies) == 0 {
		errs = append(errs, errors.New("scene: no bodies"))
	}
	for i, b := range c.Scene.Bodies {
		if b.Name == "" {
			errs = append(errs, fmt.Errorf("scene: body %d has no name", i))
		}
		if b.Color != nil && len(b.Color) != 3 {
			errs = append(errs, fmt.Errorf("scene: body %q color needs 3 components, got %d", b.Name, len(b.Color)))
		}
	}
	return errors.Join(errs...)
}
