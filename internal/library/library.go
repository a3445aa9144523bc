// Package library manages a directory tree of STL models with sidecar PNG
// thumbnails and serves it over HTTP.
package library

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/philipparndt/meshvault/internal/logger"
	"github.com/philipparndt/meshvault/pkg/thumbnail"
)

// ErrInvalidPath indicates a path outside the library root or with an
// unsupported extension.
var ErrInvalidPath = errors.New("invalid library path")

// thumbsDir is the sidecar directory under the root holding rendered
// thumbnails, mirroring the model tree.
const thumbsDir = ".thumbs"

// Folder describes one directory of models.
type Folder struct {
	Path   string `json:"path"`
	Models int    `json:"models"`
}

// ModelInfo describes one model file.
type ModelInfo struct {
	Name         string    `json:"name"`
	Path         string    `json:"path"`
	SizeBytes    int64     `json:"size_bytes"`
	Modified     time.Time `json:"modified"`
	HasThumbnail bool      `json:"has_thumbnail"`
}

// Library is a model collection rooted at one directory.
type Library struct {
	root string
	gen  *thumbnail.Generator
}

// New opens a library at root. The directory must exist.
func New(root string, gen *thumbnail.Generator) (*Library, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving library root: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("opening library root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("library root %s is not a directory", abs)
	}

	return &Library{root: abs, gen: gen}, nil
}

// Root returns the absolute library root.
func (l *Library) Root() string {
	return l.root
}

// isModelFile reports whether name looks like an STL model.
func isModelFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".stl")
}

// resolve validates a relative model path and returns its absolute form.
// Paths escaping the root or naming non-STL files are rejected.
func (l *Library) resolve(rel string) (string, error) {
	rel = filepath.Clean(strings.TrimPrefix(rel, "/"))
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, rel)
	}
	if !isModelFile(rel) {
		return "", fmt.Errorf("%w: %q is not an STL file", ErrInvalidPath, rel)
	}
	if strings.HasPrefix(rel, thumbsDir+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q is inside the thumbnail store", ErrInvalidPath, rel)
	}
	return filepath.Join(l.root, rel), nil
}

// ModelPath returns the absolute path of a model, verifying it exists.
func (l *Library) ModelPath(rel string) (string, error) {
	abs, err := l.resolve(rel)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(abs); err != nil {
		return "", fmt.Errorf("model %s: %w", rel, err)
	}
	return abs, nil
}

// ThumbPath returns the sidecar thumbnail path for a model path.
func (l *Library) ThumbPath(rel string) string {
	rel = filepath.Clean(strings.TrimPrefix(rel, "/"))
	return filepath.Join(l.root, thumbsDir, rel+".png")
}

// Folders lists every directory under the root that contains models,
// including the root itself, sorted by path.
func (l *Library) Folders() ([]Folder, error) {
	counts := make(map[string]int)

	err := filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == thumbsDir {
				return filepath.SkipDir
			}
			return nil
		}
		if !isModelFile(d.Name()) {
			return nil
		}

		dir, err := filepath.Rel(l.root, filepath.Dir(path))
		if err != nil {
			return err
		}
		counts[filepath.ToSlash(dir)]++
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning library: %w", err)
	}

	folders := make([]Folder, 0, len(counts))
	for dir, n := range counts {
		folders = append(folders, Folder{Path: dir, Models: n})
	}
	sort.Slice(folders, func(i, j int) bool { return folders[i].Path < folders[j].Path })
	return folders, nil
}

// Models lists the models directly inside one folder ("." for the root),
// sorted by name.
func (l *Library) Models(folder string) ([]ModelInfo, error) {
	folder = filepath.Clean(strings.TrimPrefix(folder, "/"))
	if folder == ".." || strings.HasPrefix(folder, ".."+string(filepath.Separator)) || folder == thumbsDir {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, folder)
	}

	dir := filepath.Join(l.root, folder)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", folder, err)
	}

	models := make([]ModelInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !isModelFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, err
		}

		rel := filepath.ToSlash(filepath.Join(folder, entry.Name()))
		_, thumbErr := os.Stat(l.ThumbPath(rel))

		models = append(models, ModelInfo{
			Name:         entry.Name(),
			Path:         rel,
			SizeBytes:    info.Size(),
			Modified:     info.ModTime().UTC(),
			HasThumbnail: thumbErr == nil,
		})
	}

	sort.Slice(models, func(i, j int) bool { return models[i].Name < models[j].Name })
	return models, nil
}

// Save stores uploaded model bytes at rel, creating parent directories.
func (l *Library) Save(rel string, data []byte) error {
	abs, err := l.resolve(rel)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("creating folder for %s: %w", rel, err)
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", rel, err)
	}
	return nil
}

// GenerateThumbnail renders the sidecar thumbnail for one model.
func (l *Library) GenerateThumbnail(rel string) error {
	abs, err := l.ModelPath(rel)
	if err != nil {
		return err
	}

	out := l.ThumbPath(rel)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("creating thumbnail folder: %w", err)
	}
	return l.gen.GenerateFile(abs, out)
}

// RefreshThumbnail regenerates the thumbnail for a changed model file,
// logging instead of failing. Suitable as a watcher callback target.
func (l *Library) RefreshThumbnail(path string) {
	rel, err := filepath.Rel(l.root, path)
	if err != nil || !isModelFile(rel) {
		return
	}
	rel = filepath.ToSlash(rel)

	if err := l.GenerateThumbnail(rel); err != nil {
		logger.Warn("thumbnail refresh failed", zap.String("model", rel), zap.Error(err))
		return
	}
	logger.Info("thumbnail refreshed", zap.String("model", rel))
}
