// Package backendtest provides an in-memory Backend for tests
package backendtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/rahulvramesh/shelf/internal/backend"
	"github.com/rahulvramesh/shelf/internal/catalog"
	"github.com/rahulvramesh/shelf/internal/types"
)

// Fake is an in-memory Backend. Errors can be injected per method name
type Fake struct {
	mu sync.Mutex

	Files      []types.FileRecord
	Contents   map[string]string
	Cats       []types.CategoryInfo
	Cleanup    *types.CleanupResult
	BulkResult *types.BulkDeleteResult // returned verbatim when set

	errs  map[string]error
	calls []string

	Saved   map[string]string
	BulkIDs [][]string
}

// New creates a fake holding files with the default categories
func New(files ...types.FileRecord) *Fake {
	return &Fake{
		Files:    files,
		Contents: map[string]string{},
		Cats:     types.AllCategories(),
		errs:     map[string]error{},
		Saved:    map[string]string{},
	}
}

// Fail makes every later call of method return err. A nil err clears it
func (f *Fake) Fail(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.errs, method)
		return
	}
	f.errs[method] = err
}

// Calls returns the method names invoked so far
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *Fake) enter(method string) error {
	f.calls = append(f.calls, method)
	return f.errs[method]
}

func (f *Fake) index(id string) int {
	for i := range f.Files {
		if f.Files[i].ID == id {
			return i
		}
	}
	return -1
}

func (f *Fake) ListFiles(ctx context.Context, opts backend.ListOptions) ([]types.FileRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("ListFiles"); err != nil {
		return nil, err
	}
	out := []types.FileRecord{}
	for _, file := range f.Files {
		if catalog.MatchesCategory(file, opts.Category) && catalog.MatchesSearch(file, opts.Search) {
			out = append(out, file)
		}
	}
	return out, nil
}

func (f *Fake) Categories(ctx context.Context) ([]types.CategoryInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("Categories"); err != nil {
		return nil, err
	}
	return append([]types.CategoryInfo(nil), f.Cats...), nil
}

func (f *Fake) GetFile(ctx context.Context, id string) (*types.FileContent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("GetFile"); err != nil {
		return nil, err
	}
	i := f.index(id)
	if i < 0 {
		return nil, fmt.Errorf("%s: %w", id, backend.ErrNotFound)
	}
	return &types.FileContent{FileRecord: f.Files[i], Content: f.Contents[id]}, nil
}

func (f *Fake) SaveFile(ctx context.Context, id, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("SaveFile"); err != nil {
		return err
	}
	i := f.index(id)
	if i < 0 {
		return fmt.Errorf("%s: %w", id, backend.ErrNotFound)
	}
	if f.Files[i].ReadOnly {
		return fmt.Errorf("%s: %w", id, backend.ErrReadOnly)
	}
	f.Contents[id] = content
	f.Saved[id] = content
	f.Files[i].Size = int64(len(content))
	return nil
}

func (f *Fake) DeleteFile(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("DeleteFile"); err != nil {
		return err
	}
	i := f.index(id)
	if i < 0 {
		return fmt.Errorf("%s: %w", id, backend.ErrNotFound)
	}
	if f.Files[i].ReadOnly {
		return fmt.Errorf("%s: %w", id, backend.ErrReadOnly)
	}
	f.Files = append(f.Files[:i], f.Files[i+1:]...)
	return nil
}

func (f *Fake) BulkDelete(ctx context.Context, ids []string) (*types.BulkDeleteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.BulkIDs = append(f.BulkIDs, append([]string(nil), ids...))
	if err := f.enter("BulkDelete"); err != nil {
		return nil, err
	}
	if f.BulkResult != nil {
		res := *f.BulkResult
		return &res, nil
	}

	res := &types.BulkDeleteResult{Errors: []types.ItemError{}}
	for _, id := range ids {
		i := f.index(id)
		switch {
		case i < 0:
			res.Errors = append(res.Errors, types.ItemError{ID: id, Message: "not found"})
		case f.Files[i].ReadOnly:
			res.Errors = append(res.Errors, types.ItemError{ID: id, Message: "read-only"})
		default:
			f.Files = append(f.Files[:i], f.Files[i+1:]...)
			res.Deleted++
		}
	}
	return res, nil
}

func (f *Fake) Rescan(ctx context.Context) (*types.ScanResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("Rescan"); err != nil {
		return nil, err
	}
	return &types.ScanResult{
		Files:      append([]types.FileRecord(nil), f.Files...),
		Categories: append([]types.CategoryInfo(nil), f.Cats...),
	}, nil
}

func (f *Fake) AnalyzeCleanup(ctx context.Context) (*types.CleanupResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("AnalyzeCleanup"); err != nil {
		return nil, err
	}
	if f.Cleanup == nil {
		return &types.CleanupResult{Items: []types.CleanupItem{}}, nil
	}
	res := *f.Cleanup
	res.Items = append([]types.CleanupItem(nil), f.Cleanup.Items...)
	return &res, nil
}

var _ backend.Backend = (*Fake)(nil)
