// Package session owns the lifecycle of one rendered model: fetch, decode,
// normalize, and the state machine that keeps a failed or superseded load
// from ever reaching the screen.
package session

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/philipparndt/meshvault/internal/logger"
	"github.com/philipparndt/meshvault/pkg/geometry"
	"github.com/philipparndt/meshvault/pkg/mesh"
	"github.com/philipparndt/meshvault/pkg/stl"
)

// ErrRenderRuntime tags faults raised while rendering an already loaded
// model, as opposed to faults in the loading pipeline.
var ErrRenderRuntime = errors.New("render runtime failure")

// State is the lifecycle state of a Session.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateErrored
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateErrored:
		return "errored"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Callbacks receive session lifecycle notifications. OnLoaded fires exactly
// once per successful load with the model's bounding dimensions. OnError
// fires exactly once per failure episode; further faults are swallowed
// until a fresh Load re-arms reporting. Callbacks run without the session
// lock held and may call back into the session.
type Callbacks struct {
	OnLoaded func(size geometry.Vector3)
	OnError  func(err error)
}

// Session is the model lifecycle state machine:
//
//	Idle -> Loading -> Ready -> (Errored | Closed)
//
// Loads are asynchronous. Each Load supersedes the previous one: a slow
// fetch that completes after a newer Load started is discarded, so the
// last requested URL always wins.
type Session struct {
	mu        sync.Mutex
	state     State
	url       string
	geom      *mesh.Geometry
	err       error
	reported  bool
	gen       uint64
	cancel    context.CancelFunc
	callbacks Callbacks

	// NewFetcher can be overridden in tests; defaults to FetcherFor.
	NewFetcher func(url string) Fetcher
}

// New creates an idle session.
func New(cb Callbacks) *Session {
	return &Session{
		state:      StateIdle,
		callbacks:  cb,
		NewFetcher: FetcherFor,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// URL returns the most recently requested URL.
func (s *Session) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url
}

// Geometry returns the loaded geometry, or nil unless the session is Ready.
func (s *Session) Geometry() *mesh.Geometry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady {
		return nil
	}
	return s.geom
}

// Err returns the failure that moved the session to Errored, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Load starts loading url asynchronously, superseding any load in flight.
// Calling Load from Errored is the remount: it clears the failure and
// re-arms error reporting.
func (s *Session) Load(url string) {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		logger.Warn("load after close ignored", zap.String("url", url))
		return
	}

	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.gen++
	gen := s.gen
	s.state = StateLoading
	s.url = url
	s.geom = nil
	s.err = nil
	s.reported = false
	fetch := s.NewFetcher(url)
	s.mu.Unlock()

	logger.Info("loading model", zap.String("url", url))

	go func() {
		geom, err := load(ctx, fetch, url)
		s.commit(gen, geom, err)
	}()
}

// load runs the fetch/decode/normalize pipeline.
func load(ctx context.Context, fetch Fetcher, url string) (*mesh.Geometry, error) {
	data, err := fetch.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	model, err := stl.Decode(data)
	if err != nil {
		return nil, err
	}

	return mesh.Normalize(model)
}

// commit applies the result of a load if it is still the newest one.
func (s *Session) commit(gen uint64, geom *mesh.Geometry, err error) {
	s.mu.Lock()
	if s.state == StateClosed || gen != s.gen {
		s.mu.Unlock()
		logger.Debug("discarding superseded load result", zap.Uint64("generation", gen))
		return
	}

	if err != nil {
		s.failLocked(err)
		return
	}

	s.state = StateReady
	s.geom = geom
	onLoaded := s.callbacks.OnLoaded
	size := geom.Size()
	s.mu.Unlock()

	logger.Info("model ready",
		zap.Int("triangles", geom.TriangleCount()),
		zap.Int("vertices", geom.VertexCount()))

	if onLoaded != nil {
		onLoaded(size)
	}
}

// Fail routes an external fault (typically rendering-time) into the state
// machine. The session stops exposing geometry and reports the error once.
func (s *Session) Fail(err error) {
	s.mu.Lock()
	if s.state == StateClosed || s.state == StateErrored {
		s.mu.Unlock()
		logger.Debug("fault after terminal state swallowed", zap.Error(err))
		return
	}
	s.failLocked(err)
}

// failLocked transitions to Errored and reports. Called with s.mu held;
// unlocks before invoking the callback.
func (s *Session) failLocked(err error) {
	s.state = StateErrored
	s.geom = nil
	s.err = err

	report := !s.reported
	s.reported = true
	onError := s.callbacks.OnError
	s.mu.Unlock()

	logger.Error("session failed", zap.Error(err))

	if report && onError != nil {
		onError(err)
	}
}

// Close ends the session. In-flight loads are cancelled and their results
// discarded. A closed session never transitions again.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.state = StateClosed
	s.geom = nil
}
