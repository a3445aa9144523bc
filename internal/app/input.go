package app

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// handleInput processes user input for one frame
func (app *App) handleInput() {
	// View toggles
	if rl.IsKeyPressed(rl.KeyG) {
		app.View.showGrid = !app.View.showGrid
	}
	if rl.IsKeyPressed(rl.KeyW) {
		app.View.showWireframe = !app.View.showWireframe
	}
	if rl.IsKeyPressed(rl.KeyF) {
		app.View.showFilled = !app.View.showFilled
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		app.View.autoRotate = !app.View.autoRotate
	}
	if rl.IsKeyPressed(rl.KeyR) || rl.IsKeyPressed(rl.KeyHome) {
		app.resetCameraView()
	}

	// Fullscreen request; actual state is mirrored from the window system
	// in mirrorDisplayState.
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	altPressed := rl.IsKeyDown(rl.KeyLeftAlt) || rl.IsKeyDown(rl.KeyRightAlt)

	// Drag begins: Alt (or middle button) pans, plain left drag orbits
	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		app.Interaction.panning = altPressed
		app.Interaction.dragging = !altPressed
	}
	if rl.IsMouseButtonReleased(rl.MouseLeftButton) {
		app.Interaction.dragging = false
		app.Interaction.panning = false
	}

	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		delta := rl.GetMouseDelta()
		if delta.X != 0 || delta.Y != 0 {
			if app.Interaction.panning {
				app.doPan(delta)
			} else {
				app.doOrbit(delta)
			}
		}
	} else if rl.IsMouseButtonDown(rl.MouseMiddleButton) {
		delta := rl.GetMouseDelta()
		if delta.X != 0 || delta.Y != 0 {
			app.doPan(delta)
		}
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		app.doZoom(wheel)
	}
}

// mirrorDisplayState copies window-system state into the view settings.
// Fullscreen can change without our involvement (window manager shortcuts),
// so the local flag follows the window rather than the other way around.
func (app *App) mirrorDisplayState() {
	app.View.fullscreen = rl.IsWindowFullscreen()
}
