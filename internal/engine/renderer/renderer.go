// Package renderer owns the OpenGL frame state.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/orrery/internal/engine/gpu/opengl"
	"github.com/Faultbox/orrery/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	Anisotropy float32

	// Multisample enables MSAA resolve; the context must have sample buffers.
	Multisample bool
}

// Renderer clears and sizes the default framebuffer and exposes the GPU
// device meshes and shaders are built on.
type Renderer struct {
	config Config
	device *opengl.Device
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0, 0, 0, 1)
	if cfg.Multisample {
		gl.Enable(gl.MULTISAMPLE)
	}

	r := &Renderer{
		config: cfg,
		device: opengl.New(cfg.Anisotropy),
	}
	r.Resize(cfg.Width, cfg.Height)

	if err := opengl.CheckError("renderer setup"); err != nil {
		return nil, err
	}
	return r, nil
}

// Device returns the GPU device.
func (r *Renderer) Device() *opengl.Device {
	return r.device
}

// Close releases renderer state.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Size returns the viewport size.
func (r *Renderer) Size() (int, int) {
	return r.config.Width, r.config.Height
}

// Aspect returns the viewport aspect ratio.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// End finishes the current frame and logs a pending GL error.
func (r *Renderer) End() {
	if err := opengl.CheckError("frame"); err != nil {
		logger.Warn("OpenGL error", zap.Error(err))
	}
}
