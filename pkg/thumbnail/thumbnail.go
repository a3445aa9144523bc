// Package thumbnail produces PNG previews of STL models with the offscreen
// software renderer.
package thumbnail

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"sync"

	xdraw "golang.org/x/image/draw"

	"github.com/philipparndt/meshvault/pkg/mesh"
	"github.com/philipparndt/meshvault/pkg/stl"
	"github.com/philipparndt/meshvault/pkg/viewer"
)

// ErrRasterize indicates a failed thumbnail render. The underlying cause
// (decode, normalize or encode failure) stays in the chain for errors.Is.
var ErrRasterize = errors.New("thumbnail rasterization failed")

// supersample renders at this multiple of the target size, then downscales
// for edge quality.
const supersample = 2

// Generator renders model thumbnails one at a time. A single Generator may
// be shared by concurrent callers; renders are serialized so at most one
// model occupies the rasterizer at any moment.
type Generator struct {
	mu   sync.Mutex
	size int
	opts viewer.Options
}

// NewGenerator creates a Generator producing size x size PNG thumbnails.
func NewGenerator(size int) *Generator {
	opts := viewer.DefaultOptions()
	opts.Width = size * supersample
	opts.Height = size * supersample

	return &Generator{
		size: size,
		opts: opts,
	}
}

// Render decodes raw STL bytes and returns an encoded PNG thumbnail.
// Identical input bytes produce identical output bytes.
func (g *Generator) Render(data []byte) ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	model, err := stl.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRasterize, err)
	}

	geom, err := mesh.Normalize(model)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRasterize, err)
	}

	large := viewer.Render(geom, g.opts)

	small := image.NewRGBA(image.Rect(0, 0, g.size, g.size))
	xdraw.CatmullRom.Scale(small, small.Bounds(), large, large.Bounds(), xdraw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, small); err != nil {
		return nil, fmt.Errorf("%w: encoding png: %w", ErrRasterize, err)
	}

	return buf.Bytes(), nil
}

// RenderFile reads an STL file and returns its PNG thumbnail.
func (g *Generator) RenderFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRasterize, err)
	}
	return g.Render(data)
}

// GenerateFile renders path and writes the thumbnail to outPath.
func (g *Generator) GenerateFile(path, outPath string) error {
	thumb, err := g.RenderFile(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, thumb, 0o644); err != nil {
		return fmt.Errorf("%w: writing %s: %w", ErrRasterize, outPath, err)
	}
	return nil
}
