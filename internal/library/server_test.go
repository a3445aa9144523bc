package library

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()

	srv := NewServer(newTestLibrary(t))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func TestHandleFolders(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/folders")
	if err != nil {
		t.Fatalf("GET /api/folders failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var folders []Folder
	if err := json.NewDecoder(resp.Body).Decode(&folders); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(folders) != 3 {
		t.Errorf("expected 3 folders, got %+v", folders)
	}
}

func TestHandleModels(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/models?folder=printers")
	if err != nil {
		t.Fatalf("GET /api/models failed: %v", err)
	}
	defer resp.Body.Close()

	var models []ModelInfo
	if err := json.NewDecoder(resp.Body).Decode(&models); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(models) != 1 || models[0].Path != "printers/bracket.stl" {
		t.Errorf("unexpected models: %+v", models)
	}
}

func TestHandleModelsMissingFolder(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/models?folder=does-not-exist")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestHandleFilesGet(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/files/cube.stl")
	if err != nil {
		t.Fatalf("GET /files failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("reading body: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), binarySTL()) {
		t.Error("served bytes differ from stored model")
	}
}

func TestHandleFilesGetTraversal(t *testing.T) {
	_, ts := newTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/files/..%2f..%2fetc%2fpasswd.stl", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for traversal attempt, got %d", resp.StatusCode)
	}
}

func TestHandleFilesUpload(t *testing.T) {
	srv, ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodPut, ts.URL+"/files/uploads/fresh.stl", bytes.NewReader(binarySTL()))
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	// Upload triggers thumbnail generation in the background
	srv.Wait()
	if _, err := os.Stat(srv.lib.ThumbPath("uploads/fresh.stl")); err != nil {
		t.Errorf("thumbnail not generated after upload: %v", err)
	}
}

func TestHandleFilesUploadInvalid(t *testing.T) {
	srv, ts := newTestServer(t)

	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/files/malware.exe", strings.NewReader("nope"))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
	srv.Wait()
}

func TestHandleFilesUploadBadMesh(t *testing.T) {
	// A malformed model uploads fine; only the thumbnail silently fails.
	srv, ts := newTestServer(t)

	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/files/broken.stl", strings.NewReader("truncated"))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Errorf("expected 201 despite bad mesh, got %d", resp.StatusCode)
	}

	srv.Wait()
	if _, err := os.Stat(srv.lib.ThumbPath("broken.stl")); err == nil {
		t.Error("thumbnail should not exist for malformed model")
	}
}

func TestHandleThumbs(t *testing.T) {
	srv, ts := newTestServer(t)

	if err := srv.lib.GenerateThumbnail("cube.stl"); err != nil {
		t.Fatalf("GenerateThumbnail failed: %v", err)
	}

	resp, err := http.Get(ts.URL + "/thumbs/cube.stl.png")
	if err != nil {
		t.Fatalf("GET /thumbs failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if _, err := png.Decode(resp.Body); err != nil {
		t.Errorf("response is not valid PNG: %v", err)
	}
}

func TestHandleThumbsMissing(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/thumbs/printers/bracket.stl.png")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for missing thumbnail, got %d", resp.StatusCode)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/folders", "text/plain", nil)
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", resp.StatusCode)
	}
}
