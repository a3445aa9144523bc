package viewer

import (
	"image"
	"image/color"
	"math"
)

// shadedVertex is a projected vertex carrying interpolated shading state.
type shadedVertex struct {
	X, Y, Z   float64
	Intensity float64
}

// fillTriangleShaded fills a triangle with depth testing and per-vertex
// intensity interpolated across the surface (Gouraud shading).
func fillTriangleShaded(img *image.RGBA, zbuffer []float64, v [3]shadedVertex, base color.RGBA) {
	// Sort vertices by Y coordinate (top to bottom)
	if v[0].Y > v[1].Y {
		v[0], v[1] = v[1], v[0]
	}
	if v[1].Y > v[2].Y {
		v[1], v[2] = v[2], v[1]
	}
	if v[0].Y > v[1].Y {
		v[0], v[1] = v[1], v[0]
	}

	bounds := img.Bounds()
	width := bounds.Max.X

	// Scanline algorithm with depth and intensity interpolation
	for y := int(math.Max(0, v[0].Y)); y <= int(math.Min(float64(bounds.Max.Y-1), v[2].Y)); y++ {
		fy := float64(y)

		var start, end shadedVertex
		foundStart := false
		foundEnd := false

		intersect := func(a, b shadedVertex) {
			if a.Y == b.Y || fy < a.Y || fy > b.Y {
				return
			}
			t := (fy - a.Y) / (b.Y - a.Y)
			p := shadedVertex{
				X:         a.X + t*(b.X-a.X),
				Z:         a.Z + t*(b.Z-a.Z),
				Intensity: a.Intensity + t*(b.Intensity-a.Intensity),
			}
			if !foundStart {
				start = p
				foundStart = true
			} else {
				end = p
				foundEnd = true
			}
		}

		intersect(v[0], v[1])
		intersect(v[1], v[2])
		intersect(v[0], v[2])

		if !foundStart || !foundEnd {
			continue
		}

		if start.X > end.X {
			start, end = end, start
		}

		// Clamp to image bounds
		xStart := int(math.Max(0, start.X))
		xEnd := int(math.Min(float64(bounds.Max.X-1), end.X))

		for x := xStart; x <= xEnd; x++ {
			t := 0.0
			if end.X != start.X {
				t = (float64(x) - start.X) / (end.X - start.X)
			}
			z := start.Z + t*(end.Z-start.Z)

			// Depth test - draw if closer (smaller z)
			idx := y*width + x
			if idx < 0 || idx >= len(zbuffer) || z >= zbuffer[idx] {
				continue
			}
			zbuffer[idx] = z

			intensity := start.Intensity + t*(end.Intensity-start.Intensity)
			img.SetRGBA(x, y, shade(base, intensity))
		}
	}
}

// shade scales a base color by an intensity in [0,1].
func shade(base color.RGBA, intensity float64) color.RGBA {
	if intensity < 0 {
		intensity = 0
	}
	if intensity > 1 {
		intensity = 1
	}
	return color.RGBA{
		R: uint8(float64(base.R) * intensity),
		G: uint8(float64(base.G) * intensity),
		B: uint8(float64(base.B) * intensity),
		A: base.A,
	}
}

// drawLine draws a line on an image using Bresenham's algorithm
func drawLine(img *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	bounds := img.Bounds()

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	var sx, sy int
	if x1 < x2 {
		sx = 1
	} else {
		sx = -1
	}
	if y1 < y2 {
		sy = 1
	} else {
		sy = -1
	}

	err := dx - dy

	for {
		// Check bounds
		if x1 >= 0 && x1 < bounds.Max.X && y1 >= 0 && y1 < bounds.Max.Y {
			img.SetRGBA(x1, y1, col)
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
