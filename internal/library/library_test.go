package library

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/philipparndt/meshvault/pkg/thumbnail"
)

// binarySTL builds a one-triangle binary STL buffer.
func binarySTL() []byte {
	buf := new(bytes.Buffer)
	buf.Write(make([]byte, 80))
	binary.Write(buf, binary.LittleEndian, uint32(1))
	coords := [][3]float32{
		{0, 0, 1},
		{0, 0, 0},
		{10, 0, 0},
		{0, 10, 0},
	}
	for _, c := range coords {
		binary.Write(buf, binary.LittleEndian, c)
	}
	binary.Write(buf, binary.LittleEndian, uint16(0))
	return buf.Bytes()
}

func newTestLibrary(t *testing.T) *Library {
	t.Helper()

	root := t.TempDir()
	files := []string{
		"cube.stl",
		"printers/bracket.stl",
		"printers/mounts/clip.stl",
		"notes.txt",
	}
	for _, f := range files {
		path := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, binarySTL(), 0o644); err != nil {
			t.Fatalf("writing fixture %s: %v", f, err)
		}
	}

	lib, err := New(root, thumbnail.NewGenerator(32))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return lib
}

func TestNewMissingRoot(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "nope"), thumbnail.NewGenerator(32)); err == nil {
		t.Error("expected error for missing root")
	}
}

func TestFolders(t *testing.T) {
	lib := newTestLibrary(t)

	folders, err := lib.Folders()
	if err != nil {
		t.Fatalf("Folders failed: %v", err)
	}

	want := map[string]int{
		".":               1,
		"printers":        1,
		"printers/mounts": 1,
	}
	if len(folders) != len(want) {
		t.Fatalf("expected %d folders, got %+v", len(want), folders)
	}
	for _, f := range folders {
		if want[f.Path] != f.Models {
			t.Errorf("folder %q: expected %d models, got %d", f.Path, want[f.Path], f.Models)
		}
	}
}

func TestModels(t *testing.T) {
	lib := newTestLibrary(t)

	models, err := lib.Models("printers")
	if err != nil {
		t.Fatalf("Models failed: %v", err)
	}
	if len(models) != 1 {
		t.Fatalf("expected 1 model, got %+v", models)
	}

	m := models[0]
	if m.Name != "bracket.stl" || m.Path != "printers/bracket.stl" {
		t.Errorf("unexpected model: %+v", m)
	}
	if m.SizeBytes != int64(len(binarySTL())) {
		t.Errorf("unexpected size: %d", m.SizeBytes)
	}
	if m.HasThumbnail {
		t.Error("no thumbnail generated yet")
	}

	// Non-STL files stay invisible
	rootModels, err := lib.Models(".")
	if err != nil {
		t.Fatalf("Models failed: %v", err)
	}
	if len(rootModels) != 1 || rootModels[0].Name != "cube.stl" {
		t.Errorf("unexpected root listing: %+v", rootModels)
	}
}

func TestModelsEscape(t *testing.T) {
	lib := newTestLibrary(t)

	if _, err := lib.Models("../outside"); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("expected ErrInvalidPath, got %v", err)
	}
}

func TestModelPathValidation(t *testing.T) {
	lib := newTestLibrary(t)

	cases := []string{
		"../etc/passwd.stl",
		"notes.txt",
		".thumbs/cube.stl",
		".",
	}
	for _, rel := range cases {
		if _, err := lib.ModelPath(rel); !errors.Is(err, ErrInvalidPath) {
			t.Errorf("%q: expected ErrInvalidPath, got %v", rel, err)
		}
	}

	if _, err := lib.ModelPath("missing.stl"); err == nil || errors.Is(err, ErrInvalidPath) {
		t.Errorf("expected not-found error for missing model, got %v", err)
	}

	abs, err := lib.ModelPath("printers/bracket.stl")
	if err != nil {
		t.Fatalf("ModelPath failed: %v", err)
	}
	if !filepath.IsAbs(abs) {
		t.Errorf("expected absolute path, got %s", abs)
	}
}

func TestSaveAndThumbnail(t *testing.T) {
	lib := newTestLibrary(t)

	if err := lib.Save("new/part.stl", binarySTL()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := lib.ModelPath("new/part.stl"); err != nil {
		t.Errorf("saved model not found: %v", err)
	}

	if err := lib.GenerateThumbnail("new/part.stl"); err != nil {
		t.Fatalf("GenerateThumbnail failed: %v", err)
	}
	if _, err := os.Stat(lib.ThumbPath("new/part.stl")); err != nil {
		t.Errorf("thumbnail file missing: %v", err)
	}

	models, err := lib.Models("new")
	if err != nil {
		t.Fatalf("Models failed: %v", err)
	}
	if len(models) != 1 || !models[0].HasThumbnail {
		t.Errorf("expected model with thumbnail, got %+v", models)
	}
}

func TestSaveRejectsEscape(t *testing.T) {
	lib := newTestLibrary(t)

	if err := lib.Save("../evil.stl", binarySTL()); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("expected ErrInvalidPath, got %v", err)
	}
	if err := lib.Save("script.sh", []byte("#!/bin/sh")); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("expected ErrInvalidPath for non-STL, got %v", err)
	}
}

func TestRefreshThumbnail(t *testing.T) {
	lib := newTestLibrary(t)

	lib.RefreshThumbnail(filepath.Join(lib.Root(), "cube.stl"))
	if _, err := os.Stat(lib.ThumbPath("cube.stl")); err != nil {
		t.Errorf("thumbnail not generated: %v", err)
	}

	// Non-model paths are ignored without side effects
	lib.RefreshThumbnail(filepath.Join(lib.Root(), "notes.txt"))
	lib.RefreshThumbnail("/outside/other.stl")
}
