// Package backend defines the file catalog contract and its two
// implementations: Local works on the filesystem in-process and Client
// talks to a remote "shelf serve" instance over HTTP
package backend

import (
	"context"
	"errors"

	"github.com/rahulvramesh/shelf/internal/types"
)

var (
	// ErrNotFound is returned when an id is not in the current scan
	ErrNotFound = errors.New("file not found")
	// ErrReadOnly is returned when a mutation targets a read-only file
	ErrReadOnly = errors.New("file is read-only")
)

// ListOptions narrows ListFiles. Empty fields match everything
type ListOptions struct {
	Category types.Category
	Search   string
}

// Backend is the collaborator behind the catalog
type Backend interface {
	ListFiles(ctx context.Context, opts ListOptions) ([]types.FileRecord, error)
	Categories(ctx context.Context) ([]types.CategoryInfo, error)
	GetFile(ctx context.Context, id string) (*types.FileContent, error)
	SaveFile(ctx context.Context, id, content string) error
	DeleteFile(ctx context.Context, id string) error
	BulkDelete(ctx context.Context, ids []string) (*types.BulkDeleteResult, error)
	Rescan(ctx context.Context) (*types.ScanResult, error)
	AnalyzeCleanup(ctx context.Context) (*types.CleanupResult, error)
}
