// Package viewer renders normalized geometry into plain Go images with a
// software rasterizer. It has no GPU or window system dependency, which
// makes its output deterministic for a given geometry and options.
package viewer

import (
	"image"
	"image/color"
	"math"

	"github.com/philipparndt/meshvault/pkg/geometry"
	"github.com/philipparndt/meshvault/pkg/mesh"
)

// Options controls an offscreen render pass.
type Options struct {
	Width      int
	Height     int
	Background color.RGBA
	Surface    color.RGBA
	Wireframe  bool

	// Orbit angles in radians. The camera frames the geometry's
	// bounding box at twice its largest dimension.
	Pitch float64
	Yaw   float64
}

// DefaultOptions returns the standard three-quarter view used for
// thumbnails.
func DefaultOptions() Options {
	return Options{
		Width:      512,
		Height:     512,
		Background: color.RGBA{30, 30, 36, 255},
		Surface:    color.RGBA{160, 180, 210, 255},
		Pitch:      0.5,
		Yaw:        0.8,
	}
}

// Light intensities for the fixed headlight-plus-ambient model.
const (
	ambientIntensity = 0.25
	diffuseIntensity = 0.75
)

// Render rasterizes the geometry into a new RGBA image. Identical inputs
// produce identical pixels.
func Render(g *mesh.Geometry, opts Options) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = opts.Background.R
		img.Pix[i+1] = opts.Background.G
		img.Pix[i+2] = opts.Background.B
		img.Pix[i+3] = opts.Background.A
	}

	if g == nil || g.TriangleCount() == 0 {
		return img
	}

	camera := NewCamera(g.Bounds)
	camera.Rotate(opts.Pitch, opts.Yaw)

	width := float64(opts.Width)
	height := float64(opts.Height)

	// Light from the camera position so every view is lit
	lightDir := camera.Position.Sub(camera.Target).Normalize()

	zbuffer := make([]float64, opts.Width*opts.Height)
	for i := range zbuffer {
		zbuffer[i] = math.MaxFloat64
	}

	for _, face := range g.Faces {
		var sv [3]shadedVertex
		for i, vi := range face {
			x, y, z := camera.Project(g.Positions[vi], width, height)
			sv[i] = shadedVertex{
				X:         x,
				Y:         y,
				Z:         z,
				Intensity: vertexIntensity(g.Normals[vi], lightDir),
			}
		}

		if opts.Wireframe {
			for i := 0; i < 3; i++ {
				a, b := sv[i], sv[(i+1)%3]
				drawLine(img, int(a.X), int(a.Y), int(b.X), int(b.Y), opts.Surface)
			}
			continue
		}

		fillTriangleShaded(img, zbuffer, sv, opts.Surface)
	}

	return img
}

// vertexIntensity evaluates the lighting model for one shading normal.
// Normals are treated as double-sided so inward-wound files still shade.
func vertexIntensity(normal, lightDir geometry.Vector3) float64 {
	diffuse := math.Abs(normal.Dot(lightDir))
	return ambientIntensity + diffuseIntensity*diffuse
}
