package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/rahulvramesh/shelf/internal/backend"
	"github.com/rahulvramesh/shelf/internal/scanner"
	"github.com/rahulvramesh/shelf/internal/types"
)

func newTestServer(t *testing.T) (*httptest.Server, *backend.Client, string) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	home := t.TempDir()
	claude := filepath.Join(home, ".claude")
	for rel, content := range map[string]string{
		"memory/MEMORY.md": "remember this",
		"todos/list.json":  "{}",
		"locked.md":        "do not touch",
	} {
		p := filepath.Join(claude, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	sc := &scanner.Scanner{
		HomeDir:    home,
		Root:       claude,
		Log:        log,
		IsWritable: func(p string) bool { return !strings.HasSuffix(p, "locked.md") },
	}
	srv := httptest.NewServer(New(backend.NewLocal(sc, backend.WithLogger(log)), log).Handler())
	t.Cleanup(srv.Close)
	return srv, backend.NewClient(srv.URL), home
}

func idOf(t *testing.T, c *backend.Client, name string) string {
	t.Helper()
	files, err := c.ListFiles(context.Background(), backend.ListOptions{})
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range files {
		if f.Name == name {
			return f.ID
		}
	}
	t.Fatalf("%s not listed", name)
	return ""
}

func TestRoundTripThroughClient(t *testing.T) {
	_, c, _ := newTestServer(t)
	ctx := context.Background()

	mem, err := c.ListFiles(ctx, backend.ListOptions{Category: types.CategoryMemory})
	if err != nil {
		t.Fatal(err)
	}
	if len(mem) != 1 || mem[0].Name != "MEMORY.md" {
		t.Fatalf("memory files = %+v", mem)
	}

	fc, err := c.GetFile(ctx, mem[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if fc.Content != "remember this" {
		t.Errorf("content = %q", fc.Content)
	}

	if err := c.SaveFile(ctx, mem[0].ID, "remember that"); err != nil {
		t.Fatal(err)
	}
	fc, _ = c.GetFile(ctx, mem[0].ID)
	if fc.Content != "remember that" {
		t.Errorf("content after save = %q", fc.Content)
	}

	cats, err := c.Categories(ctx)
	if err != nil || len(cats) != len(types.AllCategories()) {
		t.Errorf("categories = %v, %v", cats, err)
	}
}

func TestReadOnlyAndNotFoundMapping(t *testing.T) {
	_, c, _ := newTestServer(t)
	ctx := context.Background()
	locked := idOf(t, c, "locked.md")

	if err := c.SaveFile(ctx, locked, "x"); !errors.Is(err, backend.ErrReadOnly) {
		t.Errorf("save read-only err = %v", err)
	}
	if err := c.DeleteFile(ctx, locked); !errors.Is(err, backend.ErrReadOnly) {
		t.Errorf("delete read-only err = %v", err)
	}
	if _, err := c.GetFile(ctx, "missing"); !errors.Is(err, backend.ErrNotFound) {
		t.Errorf("get missing err = %v", err)
	}
}

func TestBulkDeleteAndCleanup(t *testing.T) {
	_, c, _ := newTestServer(t)
	ctx := context.Background()

	cleanup, err := c.AnalyzeCleanup(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if cleanup.TotalCount != 1 || cleanup.Items[0].Name != "list.json" {
		t.Fatalf("cleanup = %+v", cleanup)
	}

	res, err := c.BulkDelete(ctx, []string{cleanup.Items[0].ID, "ghost"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Deleted != 1 || !res.Failed("ghost") {
		t.Errorf("bulk result = %+v", res)
	}

	scan, err := c.Rescan(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(scan.Files) != 2 {
		t.Errorf("rescan files = %d, want 2", len(scan.Files))
	}
}

func TestHTTPErrors(t *testing.T) {
	srv, _, _ := newTestServer(t)

	tests := []struct {
		name, method, path, body string
		want                     int
	}{
		{"wrong method on collection", http.MethodPost, "/api/files", "", http.StatusMethodNotAllowed},
		{"wrong method on rescan", http.MethodGet, "/api/rescan", "", http.StatusMethodNotAllowed},
		{"bad bulk body", http.MethodPost, "/api/files/bulk-delete", "{", http.StatusBadRequest},
		{"bad save body", http.MethodPut, "/api/files/abc", "nope", http.StatusBadRequest},
		{"unknown id", http.MethodDelete, "/api/files/abc", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(tt.method, srv.URL+tt.path, strings.NewReader(tt.body))
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}
