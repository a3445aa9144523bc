package app

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/philipparndt/meshvault/internal/config"
	"github.com/philipparndt/meshvault/internal/session"
	"github.com/philipparndt/meshvault/pkg/mesh"
	"github.com/philipparndt/meshvault/pkg/watcher"
)

// CameraState holds all camera-related state
type CameraState struct {
	camera   rl.Camera3D
	distance float32
	angleX   float32
	angleY   float32
	target   rl.Vector3 // Current camera target (can be panned)

	// Defaults for reset, captured when a model is framed
	defaultDist   float32
	defaultAngleX float32
	defaultAngleY float32
	defaultTarget rl.Vector3
}

// ModelData holds the GPU-side representation of the current geometry
type ModelData struct {
	geom     *mesh.Geometry // geometry the mesh was built from
	mesh     rl.Mesh
	material rl.Material
	uploaded bool
	size     float32  // max bounding dimension
	edges    [][2]int // deduplicated edge list for wireframe
}

// ViewSettings holds display settings
type ViewSettings struct {
	showFilled    bool
	showWireframe bool
	showGrid      bool
	autoRotate    bool
	fullscreen    bool // mirrored from the window system every frame
}

// InteractionState holds mouse state
type InteractionState struct {
	dragging bool
	panning  bool
}

// App is the interactive viewer
type App struct {
	Camera      CameraState
	Model       ModelData
	View        ViewSettings
	Interaction InteractionState

	cfg     *config.Config
	session *session.Session
	watch   *watcher.FileWatcher
	url     string
}
