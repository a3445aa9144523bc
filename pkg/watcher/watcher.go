// Package watcher debounces filesystem change notifications for files and
// directories.
package watcher

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/philipparndt/meshvault/internal/logger"
)

// FileWatcher watches files and directories for changes and triggers
// callbacks. Rapid successive writes to the same path collapse into one
// callback per debounce window.
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	mu        sync.Mutex
	callbacks map[string]func(string)
	dirs      map[string]func(string)
	debounce  time.Duration
	timers    map[string]*time.Timer
}

// NewFileWatcher creates a new file watcher
func NewFileWatcher(debounce time.Duration) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &FileWatcher{
		watcher:   watcher,
		callbacks: make(map[string]func(string)),
		dirs:      make(map[string]func(string)),
		debounce:  debounce,
		timers:    make(map[string]*time.Timer),
	}, nil
}

// Watch starts watching the specified files.
// callback will be called when any of the files change.
func (fw *FileWatcher) Watch(files []string, callback func(string)) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	for _, file := range files {
		absPath, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", file, err)
		}

		if err := fw.watcher.Add(absPath); err != nil {
			return fmt.Errorf("failed to watch %s: %w", absPath, err)
		}

		fw.callbacks[absPath] = callback
	}

	return nil
}

// WatchDir starts watching a directory tree. callback receives the path of
// each changed file inside it. Existing subdirectories are watched too, and
// directories created later are picked up from their create events.
func (fw *FileWatcher) WatchDir(dir string, callback func(string)) error {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve path %s: %w", dir, err)
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()
	return fw.watchDirTree(absPath, callback)
}

// watchDirTree registers root and every directory below it. Caller holds
// fw.mu.
func (fw *FileWatcher) watchDirTree(root string, callback func(string)) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := fw.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		fw.dirs[path] = callback
		return nil
	})
}

// Start begins watching for file changes
func (fw *FileWatcher) Start() {
	go func() {
		for {
			select {
			case event, ok := <-fw.watcher.Events:
				if !ok {
					return
				}

				// Only trigger on write or create events
				if event.Op&fsnotify.Create == fsnotify.Create && fw.watchCreatedDir(event.Name) {
					continue
				}
				if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
					fw.handleFileChange(event.Name)
				}

			case err, ok := <-fw.watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("watcher error", zap.Error(err))
			}
		}
	}()
}

// watchCreatedDir extends a directory watch to a freshly created
// subdirectory. Reports whether path is a directory inside a watched tree.
func (fw *FileWatcher) watchCreatedDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	callback, ok := fw.dirs[filepath.Dir(path)]
	if !ok {
		return false
	}
	if err := fw.watchDirTree(path, callback); err != nil {
		logger.Warn("failed to watch new directory", zap.String("dir", path), zap.Error(err))
	}
	return true
}

// handleFileChange handles a file change event with debouncing
func (fw *FileWatcher) handleFileChange(filePath string) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	callback, exists := fw.callbacks[filePath]
	if !exists {
		callback, exists = fw.dirs[filepath.Dir(filePath)]
	}
	if !exists {
		return
	}

	// Cancel existing timer if any
	if timer, ok := fw.timers[filePath]; ok {
		timer.Stop()
	}

	fw.timers[filePath] = time.AfterFunc(fw.debounce, func() {
		callback(filePath)
	})
}

// Close stops the watcher
func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}

// RemoveAll removes all watched files
func (fw *FileWatcher) RemoveAll() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	for file := range fw.callbacks {
		if err := fw.watcher.Remove(file); err != nil {
			return err
		}
	}
	for dir := range fw.dirs {
		if err := fw.watcher.Remove(dir); err != nil {
			return err
		}
	}

	fw.callbacks = make(map[string]func(string))
	fw.dirs = make(map[string]func(string))
	fw.timers = make(map[string]*time.Timer)
	return nil
}
