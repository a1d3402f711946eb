// Package texture decodes body textures and uploads them to the GPU.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/Faultbox/orrery/internal/engine/gpu"
	"github.com/Faultbox/orrery/internal/logger"
)

// ErrNotFound is returned when no image exists for a name.
var ErrNotFound = errors.New("texture not found")

// Extensions are tried in order when resolving a texture name.
var Extensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".webp", ".tga"}

// Files is the byte source textures are read from. *assets.Manager satisfies it.
type Files interface {
	Load(name string) ([]byte, error)
	Exists(name string) bool
}

// Decode decodes an image by content, or as TGA when ext is ".tga".
func Decode(data []byte, ext string) (image.Image, error) {
	if strings.EqualFold(ext, ".tga") {
		return DecodeTGA(data)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return img, nil
}

// ImageToRGBA converts img to RGBA with its origin at (0,0). Rows stay
// top-first, which matches texture coordinate t=0 at the north pole.
func ImageToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// Loader resolves body names to GPU textures and caches them.
type Loader struct {
	dev   gpu.Device
	files Files
	cache map[string]uint32
}

// NewLoader creates a loader reading from files.
func NewLoader(dev gpu.Device, files Files) *Loader {
	return &Loader{dev: dev, files: files, cache: make(map[string]uint32)}
}

// Resolve returns the first existing file for name, "<lower(name)><ext>".
func (l *Loader) Resolve(name string) (string, error) {
	base := strings.ToLower(strings.TrimSpace(name))
	for _, ext := range Extensions {
		if p := base + ext; l.files.Exists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrNotFound, name)
}

// Image decodes the texture for name.
func (l *Loader) Image(name string) (*image.RGBA, error) {
	path, err := l.Resolve(name)
	if err != nil {
		return nil, err
	}
	data, err := l.files.Load(path)
	if err != nil {
		return nil, fmt.Errorf("reading texture %s: %w", path, err)
	}
	img, err := Decode(data, path[strings.LastIndexByte(path, '.'):])
	if err != nil {
		return nil, fmt.Errorf("decoding texture %s: %w", path, err)
	}
	return ImageToRGBA(img), nil
}

// Load uploads the texture for name, reusing an earlier upload.
func (l *Loader) Load(name string) (uint32, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if tex, ok := l.cache[key]; ok {
		return tex, nil
	}

	img, err := l.Image(name)
	if err != nil {
		return gpu.NoTexture, err
	}
	tex := l.dev.CreateTexture(img)
	l.cache[key] = tex

	logger.Named("texture").Debug("texture loaded",
		zap.String("name", key),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()),
	)
	return tex, nil
}

// LoadOrNone is Load that logs the failure at warn level and returns
// gpu.NoTexture.
func (l *Loader) LoadOrNone(name string) uint32 {
	tex, err := l.Load(name)
	if err != nil {
		logger.Named("texture").Warn("texture unavailable", zap.String("name", name), zap.Error(err))
		return gpu.NoTexture
	}
	return tex
}

// Close deletes every uploaded texture.
func (l *Loader) Close() {
	for k, tex := range l.cache {
		l.dev.DeleteTexture(tex)
		delete(l.cache, k)
	}
}
