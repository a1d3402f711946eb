// Package app implements the main loop of the orrery viewer.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/orrery/internal/assets"
	"github.com/Faultbox/orrery/internal/catalog"
	"github.com/Faultbox/orrery/internal/config"
	"github.com/Faultbox/orrery/internal/controls"
	"github.com/Faultbox/orrery/internal/engine/camera"
	"github.com/Faultbox/orrery/internal/engine/debug"
	"github.com/Faultbox/orrery/internal/engine/input"
	"github.com/Faultbox/orrery/internal/engine/lighting"
	"github.com/Faultbox/orrery/internal/engine/renderer"
	"github.com/Faultbox/orrery/internal/engine/shader"
	"github.com/Faultbox/orrery/internal/engine/shader/glsl"
	"github.com/Faultbox/orrery/internal/engine/texture"
	"github.com/Faultbox/orrery/internal/engine/window"
	"github.com/Faultbox/orrery/internal/logger"
	"github.com/Faultbox/orrery/internal/solar"
	"github.com/Faultbox/orrery/pkg/math"
)

// App is the running viewer.
type App struct {
	cfg     *config.Config
	running bool
	log     *zap.Logger

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input

	shaders  *assets.Manager
	textures *assets.Manager
	lib      *shader.Library
	texLoad  *texture.Loader
	shading  *lighting.Dispatcher

	camera   *camera.FlyCamera
	system   *solar.System
	controls *controls.Controller
	shots    *debug.ScreenshotCapture

	frame  solar.Frame
	held   []camera.Direction
	repeat []controls.Action
}

// New creates the window, the GL state and the scene.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg: cfg,
		log: logger.Named("app"),
	}
	a.log.Info("initializing",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Int("bodies", len(cfg.Scene.Bodies)),
	)

	if err := a.init(); err != nil {
		a.Close()
		return nil, err
	}

	a.log.Info("initialized successfully")
	return a, nil
}

func (a *App) init() error {
	var err error

	// Create window (this also creates OpenGL context)
	a.window, err = window.New(window.Config{
		Title:      "Orrery",
		Width:      a.cfg.Graphics.Width,
		Height:     a.cfg.Graphics.Height,
		Fullscreen: a.cfg.Graphics.Fullscreen,
		VSync:      a.cfg.Graphics.VSync,
		Samples:    a.cfg.Graphics.Samples,
	})
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	w, h := a.window.DrawableSize()
	a.renderer, err = renderer.New(renderer.Config{
		Width:       w,
		Height:      h,
		Anisotropy:  a.cfg.Graphics.Anisotropy,
		Multisample: a.window.Multisampled(),
	})
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	dev := a.renderer.Device()

	a.input = input.New()

	a.shaders = assets.NewManager()
	a.shaders.AddFS("embedded", glsl.FS)
	if dir := a.cfg.Data.Shaders; dir != "" {
		if err := a.shaders.AddDir(dir); err != nil {
			return fmt.Errorf("shader overrides: %w", err)
		}
	}
	a.lib = shader.NewLibrary(dev, a.shaders)
	a.shading = lighting.NewDispatcher(a.lib)
	if err := a.shading.Preload(); err != nil {
		return fmt.Errorf("compiling shaders: %w", err)
	}
	a.log.Info("shaders compiled", zap.Int("programs", a.lib.Len()))

	a.textures = assets.NewManager()
	if err := a.textures.AddDir(a.cfg.Data.Textures); err != nil {
		a.log.Warn("texture directory unavailable, bodies render untextured", zap.Error(err))
	}
	a.texLoad = texture.NewLoader(dev, a.textures)

	cat, err := loadCatalog(a.cfg.Data.Catalog)
	if err != nil {
		return err
	}

	bodies, err := bodySpecs(a.cfg.Scene.Bodies)
	if err != nil {
		return fmt.Errorf("scene layout: %w", err)
	}
	var background *solar.BodySpec
	if name := a.cfg.Scene.Background; name != "" {
		background = &solar.BodySpec{Name: name, Style: solar.Emissive}
	}
	a.system, err = solar.Build(solar.BuildOptions{
		Device:     dev,
		Catalog:    cat,
		Textures:   a.texLoad,
		Shading:    a.shading,
		Background: background,
		Bodies:     bodies,
		LegacyWrap: a.cfg.Simulation.LegacyWrap,
	})
	if err != nil {
		return fmt.Errorf("building scene: %w", err)
	}

	a.camera = newCamera(a.cfg.Camera, a.renderer.Aspect())
	sim := a.cfg.Simulation
	a.controls = controls.New(a.camera, a.system, solar.NewRate(sim.HoursPerSecond, sim.RateStep, sim.MinRate))
	a.shots = debug.NewScreenshotCapture(a.cfg.Data.Screenshots, "orrery")

	a.frame = solar.Frame{
		Camera:        a.camera,
		Light:         math.Vec3Of(a.cfg.Scene.Light),
		EmissiveLight: math.Vec3Of(a.cfg.Scene.EmissiveLight),
		LightColor:    math.Vec3Of(a.cfg.Scene.LightColor),
	}
	return nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	return cat, nil
}

func newCamera(cfg config.CameraConfig, aspect float32) *camera.FlyCamera {
	c := camera.NewFlyCamera(math.Vec3Of(cfg.Position), aspect)
	c.SetOrientation(cfg.Yaw, cfg.Pitch)
	c.SetFov(cfg.Fov)
	c.Near = cfg.Near
	c.Far = cfg.Far
	c.Speed = cfg.Speed
	c.Sensitivity = cfg.Sensitivity
	return c
}

// Run starts the main loop and returns when the window closes or Esc is pressed.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.cfg.Data.HotReload {
		if err := a.shaders.Watch(ctx); err != nil {
			a.log.Warn("shader hot reload disabled", zap.Error(err))
		}
	}

	a.running = true

	// Timing
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	a.log.Info("starting main loop")

	for a.running {
		if ctx.Err() != nil {
			break
		}

		// Calculate delta time
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		// 1. Process input
		if a.input.Update() {
			break
		}
		a.handleInput(dt)

		// 2. Update the scene before drawing it
		a.reloadShaders()
		a.controls.Update(dt)

		// 3. Render
		a.render()

		// 4. Present (swap buffers)
		a.window.SwapBuffers()

		// FPS counter
		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			rate := a.controls.Rate.HoursPerSecond()
			a.window.SetTitle(fmt.Sprintf("Orrery - %d fps - %.1f h/s", frameCount, rate))
			a.log.Debug("fps",
				zap.Int("count", frameCount),
				zap.Float32("rate", rate),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (a *App) handleInput(dt float32) {
	for _, event := range a.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			a.resize()
		case input.EventKeyDown:
			if event.Repeat {
				continue
			}
			a.trigger(actionKeys[event.Key])
		case input.EventMouseButtonDown:
			if event.Button == sdl.BUTTON_LEFT && !a.controls.MouseLook() {
				a.pick(event.X, event.Y)
			}
		}
	}

	a.held = heldDirections(a.input.IsKeyHeld, a.held[:0])
	a.controls.Move(a.held, dt)
	a.repeat = heldActions(a.input.IsKeyHeld, a.repeat[:0])
	for _, action := range a.repeat {
		a.controls.Trigger(action)
	}
	a.controls.Look(a.input.MouseDelta())
	a.controls.Zoom(a.input.Wheel())
}

func (a *App) trigger(action controls.Action) {
	switch action {
	case controls.ActionNone:
	case controls.ActionQuit:
		a.running = false
	case controls.ActionScreenshot:
		a.screenshot()
	case controls.ActionToggleFullscreen:
		a.window.ToggleFullscreen()
	default:
		a.controls.Trigger(action)
		if action == controls.ActionToggleMouseLook {
			a.window.SetMouseCaptured(a.controls.MouseLook())
		}
	}
}

func (a *App) pick(x, y int) {
	w, h := a.window.GetSize()
	if b := a.controls.Pick(x, y, w, h); b != nil {
		a.log.Info("picked", zap.String("body", b.Name))
	}
}

func (a *App) resize() {
	w, h := a.window.DrawableSize()
	a.renderer.Resize(w, h)
	a.camera.SetAspect(a.renderer.Aspect())
}

func (a *App) reloadShaders() {
	changed := a.shaders.Changes()
	if len(changed) == 0 {
		return
	}
	a.log.Info("shader sources changed, recompiling", zap.Strings("files", changed))
	a.lib.Invalidate()
	if err := a.shading.Preload(); err != nil {
		a.log.Error("shader reload failed", zap.Error(err))
	}
}

func (a *App) render() {
	a.renderer.Begin()
	if err := a.system.RenderAll(a.frame); err != nil {
		a.log.Error("frame aborted", zap.Error(err))
	}
	a.renderer.End()
}

func (a *App) screenshot() {
	w, h := a.renderer.Size()
	path, err := a.shots.Capture(a.renderer.Device(), w, h)
	if err != nil {
		a.log.Error("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
}

// Close releases the scene, the GL resources and the window.
func (a *App) Close() {
	a.log.Info("closing")

	if a.system != nil {
		a.system.Dispose()
	}
	if a.texLoad != nil {
		a.texLoad.Close()
	}
	if a.lib != nil {
		a.lib.Close()
	}
	for _, m := range []*assets.Manager{a.shaders, a.textures} {
		if m != nil {
			m.Close()
		}
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}

// Run creates the viewer, runs it until quit and cleans up.
func Run(ctx context.Context, cfg *config.Config) error {
	a, err := New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return a.Run(ctx)
}
