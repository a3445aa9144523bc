package app

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// calculateGridSpacing picks a power-of-ten spacing that yields roughly
// ten grid cells across the model.
func calculateGridSpacing(size float32) float32 {
	if size <= 0 {
		return 1.0
	}
	return float32(math.Pow(10, math.Floor(math.Log10(float64(size/10)))+1))
}

// drawGrid draws the ground grid on the XZ plane at the bottom of the
// model's bounding box, padded past the model extents.
func (app *App) drawGrid() {
	if !app.View.showGrid || app.Model.geom == nil {
		return
	}

	bbox := app.Model.geom.Bounds
	padding := 1.2
	minX := float32(bbox.Min.X * padding)
	maxX := float32(bbox.Max.X * padding)
	minZ := float32(bbox.Min.Z * padding)
	maxZ := float32(bbox.Max.Z * padding)
	y := float32(bbox.Min.Y)

	gridSpacing := calculateGridSpacing(app.Model.size)

	// Snap grid bounds to grid spacing
	minX = float32(math.Floor(float64(minX/gridSpacing))) * gridSpacing
	maxX = float32(math.Ceil(float64(maxX/gridSpacing))) * gridSpacing
	minZ = float32(math.Floor(float64(minZ/gridSpacing))) * gridSpacing
	maxZ = float32(math.Ceil(float64(maxZ/gridSpacing))) * gridSpacing

	gridColor := rl.NewColor(100, 100, 100, 160)
	majorGridColor := rl.NewColor(140, 140, 140, 200)
	majorSpacing := gridSpacing * 5

	// Lines running along Z
	for x := minX; x <= maxX; x += gridSpacing {
		color := gridColor
		if isMajorLine(x, majorSpacing, gridSpacing) {
			color = majorGridColor
		}
		rl.DrawLine3D(
			rl.Vector3{X: x, Y: y, Z: minZ},
			rl.Vector3{X: x, Y: y, Z: maxZ},
			color,
		)
	}

	// Lines running along X
	for z := minZ; z <= maxZ; z += gridSpacing {
		color := gridColor
		if isMajorLine(z, majorSpacing, gridSpacing) {
			color = majorGridColor
		}
		rl.DrawLine3D(
			rl.Vector3{X: minX, Y: y, Z: z},
			rl.Vector3{X: maxX, Y: y, Z: z},
			color,
		)
	}
}

// isMajorLine reports whether coord lies on a major grid line
func isMajorLine(coord, majorSpacing, tolerance float32) bool {
	if majorSpacing <= 0 {
		return false
	}
	remainder := float32(math.Abs(math.Mod(float64(coord), float64(majorSpacing))))
	return remainder < tolerance*0.01 || remainder > majorSpacing-tolerance*0.01
}
