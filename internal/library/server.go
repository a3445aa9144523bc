package library

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/philipparndt/meshvault/internal/logger"
)

// maxUploadBytes bounds a single model upload (binary STL for ~20M
// triangles).
const maxUploadBytes = 1 << 30

// Server exposes a Library over HTTP.
type Server struct {
	lib *Library

	// tracks fire-and-forget thumbnail goroutines so tests can drain them
	background sync.WaitGroup
}

// NewServer creates an HTTP server around a library.
func NewServer(lib *Library) *Server {
	return &Server{lib: lib}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/folders", s.handleFolders)
	mux.HandleFunc("/api/models", s.handleModels)
	mux.HandleFunc("/files/", s.handleFiles)
	mux.HandleFunc("/thumbs/", s.handleThumbs)
	return mux
}

// ListenAndServe blocks serving the library on addr.
func (s *Server) ListenAndServe(addr string) error {
	logger.Info("library service listening",
		zap.String("addr", addr),
		zap.String("root", s.lib.Root()))
	return http.ListenAndServe(addr, s.Handler())
}

// Wait blocks until in-flight background thumbnail renders finish.
func (s *Server) Wait() {
	s.background.Wait()
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("encoding response failed", zap.Error(err))
	}
}

func (s *Server) handleFolders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	folders, err := s.lib.Folders()
	if err != nil {
		logger.Error("listing folders failed", zap.Error(err))
		http.Error(w, "listing folders failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, folders)
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	folder := r.URL.Query().Get("folder")
	if folder == "" {
		folder = "."
	}

	models, err := s.lib.Models(folder)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrInvalidPath) || errors.Is(err, fs.ErrNotExist) {
			status = http.StatusNotFound
		}
		http.Error(w, "listing models failed", status)
		return
	}
	writeJSON(w, models)
}

func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(r.URL.Path, "/files/")

	switch r.Method {
	case http.MethodGet:
		abs, err := s.lib.ModelPath(rel)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		http.ServeFile(w, r, abs)

	case http.MethodPut:
		data, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
		if err != nil {
			http.Error(w, "reading upload failed", http.StatusBadRequest)
			return
		}

		if err := s.lib.Save(rel, data); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, ErrInvalidPath) {
				status = http.StatusBadRequest
			}
			http.Error(w, err.Error(), status)
			return
		}
		logger.Info("model uploaded", zap.String("model", rel), zap.Int("bytes", len(data)))

		// Fire and forget: a failed thumbnail never fails the upload.
		s.background.Add(1)
		go func() {
			defer s.background.Done()
			if err := s.lib.GenerateThumbnail(rel); err != nil {
				logger.Warn("thumbnail generation failed",
					zap.String("model", rel), zap.Error(err))
			}
		}()

		w.WriteHeader(http.StatusCreated)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleThumbs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rel := strings.TrimPrefix(r.URL.Path, "/thumbs/")
	rel = strings.TrimSuffix(rel, ".png")
	if _, err := s.lib.resolve(rel); err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	http.ServeFile(w, r, s.lib.ThumbPath(rel))
}
