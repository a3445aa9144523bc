package app

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	defaultAngleX = 0.3
	defaultAngleY = 0.3

	// Auto-rotation angular speed in radians per second
	autoRotateSpeed = 0.35
)

// frameModel points the camera at the current model and backs off to twice
// its largest dimension. Also captures the reset defaults.
func (app *App) frameModel() {
	center := app.Model.geom.Bounds.Center()
	target := rl.Vector3{X: float32(center.X), Y: float32(center.Y), Z: float32(center.Z)}

	distance := app.Model.size * 2.0
	if distance < 0.1 {
		distance = 0.1
	}

	app.Camera.target = target
	app.Camera.distance = distance
	app.Camera.angleX = defaultAngleX
	app.Camera.angleY = defaultAngleY

	app.Camera.defaultDist = distance
	app.Camera.defaultAngleX = defaultAngleX
	app.Camera.defaultAngleY = defaultAngleY
	app.Camera.defaultTarget = target

	app.Camera.camera = rl.Camera3D{
		Position:   rl.Vector3{X: 0, Y: 0, Z: distance},
		Target:     target,
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       45.0,
		Projection: rl.CameraPerspective,
	}
}

// resetCameraView resets the camera to the framed default view
func (app *App) resetCameraView() {
	app.Camera.distance = app.Camera.defaultDist
	app.Camera.angleX = app.Camera.defaultAngleX
	app.Camera.angleY = app.Camera.defaultAngleY
	app.Camera.target = app.Camera.defaultTarget
}

// updateCamera updates camera position based on angles
func (app *App) updateCamera() {
	// Auto-rotation, suspended while the user drags
	if app.View.autoRotate && !app.Interaction.dragging && !app.Interaction.panning {
		app.Camera.angleY += autoRotateSpeed * rl.GetFrameTime()
	}

	x := app.Camera.distance * float32(math.Cos(float64(app.Camera.angleX))) * float32(math.Sin(float64(app.Camera.angleY)))
	y := app.Camera.distance * float32(math.Sin(float64(app.Camera.angleX)))
	z := app.Camera.distance * float32(math.Cos(float64(app.Camera.angleX))) * float32(math.Cos(float64(app.Camera.angleY)))

	app.Camera.camera.Position = rl.Vector3{
		X: app.Camera.target.X + x,
		Y: app.Camera.target.Y + y,
		Z: app.Camera.target.Z + z,
	}
	app.Camera.camera.Target = app.Camera.target
}

// doOrbit rotates the camera based on mouse delta
func (app *App) doOrbit(delta rl.Vector2) {
	app.Camera.angleY -= delta.X * 0.01
	app.Camera.angleX += delta.Y * 0.01

	// Clamp vertical angle to prevent gimbal lock
	maxAngle := float32(math.Pi/2 - 0.1)
	if app.Camera.angleX > maxAngle {
		app.Camera.angleX = maxAngle
	}
	if app.Camera.angleX < -maxAngle {
		app.Camera.angleX = -maxAngle
	}
}

// doZoom changes the camera distance
func (app *App) doZoom(wheel float32) {
	app.Camera.distance *= 1.0 - wheel*0.1
	minDist := app.Model.size * 0.2
	if minDist <= 0 {
		minDist = 0.1
	}
	if app.Camera.distance < minDist {
		app.Camera.distance = minDist
	}
}

// doPan performs camera panning based on mouse delta
func (app *App) doPan(delta rl.Vector2) {
	forward := rl.Vector3Normalize(rl.Vector3Subtract(app.Camera.target, app.Camera.camera.Position))
	right := rl.Vector3Normalize(rl.Vector3CrossProduct(forward, app.Camera.camera.Up))
	up := rl.Vector3Normalize(rl.Vector3CrossProduct(right, forward))

	// Pan speed based on distance from target
	panSpeed := app.Camera.distance * 0.001

	rightMove := rl.Vector3Scale(right, -delta.X*panSpeed)
	upMove := rl.Vector3Scale(up, delta.Y*panSpeed)

	app.Camera.target = rl.Vector3Add(app.Camera.target, rightMove)
	app.Camera.target = rl.Vector3Add(app.Camera.target, upMove)
}
