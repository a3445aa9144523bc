// Package app is the interactive raylib viewer. It drives a session through
// its lifecycle and draws whatever the session's current state allows:
// a placeholder while loading, the model when ready, and an error banner
// (never stale geometry) after a failure.
package app

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"github.com/philipparndt/meshvault/internal/config"
	"github.com/philipparndt/meshvault/internal/logger"
	"github.com/philipparndt/meshvault/internal/session"
	"github.com/philipparndt/meshvault/pkg/geometry"
	"github.com/philipparndt/meshvault/pkg/watcher"
)

const watchDebounce = 300 * time.Millisecond

// Run opens the viewer for a model URL and blocks until the window closes.
func Run(url string, cfg *config.Config) error {
	app := &App{
		cfg: cfg,
		url: url,
		View: ViewSettings{
			showFilled:    true,
			showWireframe: false,
			showGrid:      cfg.Viewer.ShowGrid,
			autoRotate:    cfg.Viewer.AutoRotate,
		},
	}

	app.session = session.New(session.Callbacks{
		OnLoaded: func(size geometry.Vector3) {
			logger.Info("model loaded",
				zap.Float64("width", size.X),
				zap.Float64("height", size.Y),
				zap.Float64("depth", size.Z))
		},
		OnError: func(err error) {
			logger.Error("model failed", zap.Error(err))
		},
	})
	defer app.session.Close()

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagWindowHighdpi | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Viewer.Width), int32(cfg.Viewer.Height), "meshvault - "+url)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Viewer.TargetFPS))

	if cfg.Viewer.Fullscreen {
		rl.ToggleFullscreen()
	}

	app.session.Load(url)

	if err := app.setupFileWatcher(); err != nil {
		logger.Warn("file watching unavailable", zap.Error(err))
	} else if app.watch != nil {
		defer app.watch.Close()
	}

	for !rl.WindowShouldClose() {
		// GPU-side model state must change on the main thread
		app.applyGeometry()

		app.handleInput()
		app.mirrorDisplayState()
		app.updateCamera()

		app.draw()
	}

	app.unloadModel()
	return nil
}

// setupFileWatcher reloads the session when a locally viewed file changes.
// Remote URLs are not watched.
func (app *App) setupFileWatcher() error {
	if _, ok := session.FetcherFor(app.url).(session.FileFetcher); !ok {
		return nil
	}

	fw, err := watcher.NewFileWatcher(watchDebounce)
	if err != nil {
		return err
	}
	if err := fw.Watch([]string{app.url}, func(string) {
		logger.Info("file changed, reloading", zap.String("url", app.url))
		app.session.Load(app.url)
	}); err != nil {
		fw.Close()
		return err
	}

	fw.Start()
	app.watch = fw
	return nil
}

// applyGeometry uploads newly loaded geometry to the GPU and frames the
// camera on it. Runs every frame; does nothing unless the session has
// produced geometry the app has not seen yet.
func (app *App) applyGeometry() {
	g := app.session.Geometry()
	if g == nil {
		if app.Model.uploaded && app.session.State() == session.StateErrored {
			// Errored sessions render nothing
			app.unloadModel()
		}
		return
	}
	if g == app.Model.geom {
		return
	}

	app.unloadModel()

	app.Model.geom = g
	app.Model.size = float32(g.Size().MaxComponent())
	app.Model.mesh = geometryToRaylibMesh(g)
	app.Model.material = rl.LoadMaterialDefault()
	app.Model.edges = meshEdges(g)
	app.Model.uploaded = true

	if app.Model.mesh.VertexCount == 0 {
		app.session.Fail(fmt.Errorf("%w: empty vertex buffer after upload", session.ErrRenderRuntime))
		app.unloadModel()
		return
	}

	app.frameModel()
}

// unloadModel releases GPU-side model state
func (app *App) unloadModel() {
	if !app.Model.uploaded {
		return
	}
	rl.UnloadMesh(&app.Model.mesh)
	app.Model.uploaded = false
	app.Model.geom = nil
	app.Model.edges = nil
}

// draw renders one frame according to the session state
func (app *App) draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	rl.ClearBackground(rl.NewColor(15, 18, 25, 255))

	switch app.session.State() {
	case session.StateLoading:
		app.drawCenteredText("loading "+app.url, rl.Gray)

	case session.StateErrored:
		msg := "failed to load model"
		if err := app.session.Err(); err != nil {
			msg = err.Error()
		}
		app.drawCenteredText(msg, rl.NewColor(220, 80, 80, 255))

	case session.StateReady:
		if !app.Model.uploaded {
			return
		}
		rl.BeginMode3D(app.Camera.camera)
		if app.View.showFilled {
			rl.DrawMesh(app.Model.mesh, app.Model.material, rl.MatrixIdentity())
		}
		if app.View.showWireframe {
			app.drawWireframe()
		}
		app.drawGrid()
		rl.EndMode3D()
		app.drawHUD()
	}
}

// drawCenteredText draws a single status line in the middle of the window
func (app *App) drawCenteredText(text string, color rl.Color) {
	fontSize := int32(20)
	width := rl.MeasureText(text, fontSize)
	x := (int32(rl.GetScreenWidth()) - width) / 2
	y := int32(rl.GetScreenHeight()) / 2
	rl.DrawText(text, x, y, fontSize, color)
}

// drawHUD draws the stats overlay
func (app *App) drawHUD() {
	g := app.Model.geom
	if g == nil {
		return
	}

	size := g.Size()
	lines := []string{
		fmt.Sprintf("%d triangles, %d vertices", g.TriangleCount(), g.VertexCount()),
		fmt.Sprintf("size %.2f x %.2f x %.2f", size.X, size.Y, size.Z),
		"drag orbit | alt+drag pan | wheel zoom | space rotate | w/f/g toggles | r reset | f11 fullscreen",
	}

	y := int32(10)
	for _, line := range lines {
		rl.DrawText(line, 10, y, 14, rl.NewColor(180, 185, 195, 255))
		y += 20
	}
}
