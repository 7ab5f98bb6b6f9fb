package backend

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rahulvramesh/shelf/internal/catalog"
	"github.com/rahulvramesh/shelf/internal/scanner"
	"github.com/rahulvramesh/shelf/internal/types"
)

// Local serves the catalog straight from the filesystem. The first call
// triggers a scan; later calls reuse it until Rescan
type Local struct {
	scanner   *scanner.Scanner
	log       logrus.FieldLogger
	staleDays int
	now       func() time.Time

	mu     sync.Mutex
	result *types.ScanResult
}

// LocalOption configures a Local backend
type LocalOption func(*Local)

// WithLogger sets the logger
func WithLogger(log logrus.FieldLogger) LocalOption {
	return func(l *Local) { l.log = log }
}

// WithStaleDays sets the cleanup staleness threshold
func WithStaleDays(days int) LocalOption {
	return func(l *Local) { l.staleDays = days }
}

// WithClock replaces time.Now for the cleanup analysis
func WithClock(now func() time.Time) LocalOption {
	return func(l *Local) { l.now = now }
}

// NewLocal creates a backend over the given scanner
func NewLocal(sc *scanner.Scanner, opts ...LocalOption) *Local {
	l := &Local{
		scanner:   sc,
		log:       logrus.StandardLogger(),
		staleDays: scanner.DefaultStaleDays,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ensure scans on first use. Caller holds l.mu
func (l *Local) ensure() error {
	if l.result != nil {
		return nil
	}
	result, err := l.scanner.Scan()
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	l.result = result
	return nil
}

func (l *Local) find(id string) (*types.FileRecord, int) {
	for i := range l.result.Files {
		if l.result.Files[i].ID == id {
			return &l.result.Files[i], i
		}
	}
	return nil, -1
}

func (l *Local) remove(i int) {
	l.result.Files = append(l.result.Files[:i], l.result.Files[i+1:]...)
}

// ListFiles returns the scanned files matching opts
func (l *Local) ListFiles(ctx context.Context, opts ListOptions) ([]types.FileRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.ensure(); err != nil {
		return nil, err
	}

	files := []types.FileRecord{}
	for _, f := range l.result.Files {
		if catalog.MatchesCategory(f, opts.Category) && catalog.MatchesSearch(f, opts.Search) {
			files = append(files, f)
		}
	}
	return files, nil
}

// Categories returns the category metadata
func (l *Local) Categories(ctx context.Context) ([]types.CategoryInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return types.AllCategories(), nil
}

// GetFile reads a file's content
func (l *Local) GetFile(ctx context.Context, id string) (*types.FileContent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.ensure(); err != nil {
		return nil, err
	}

	entry, _ := l.find(id)
	if entry == nil {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	data, err := os.ReadFile(entry.Path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file: %w", err)
	}
	return &types.FileContent{FileRecord: *entry, Content: string(data)}, nil
}

// SaveFile overwrites a file's content
func (l *Local) SaveFile(ctx context.Context, id, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.ensure(); err != nil {
		return err
	}

	entry, _ := l.find(id)
	if entry == nil {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if entry.ReadOnly {
		return fmt.Errorf("%s: %w", entry.Name, ErrReadOnly)
	}
	if err := os.WriteFile(entry.Path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("cannot write file: %w", err)
	}
	if info, err := os.Stat(entry.Path); err == nil {
		entry.Size = info.Size()
		entry.ModTime = info.ModTime()
	}
	l.log.WithFields(logrus.Fields{"op": "save", "id": id, "size": entry.Size}).Info("file saved")
	return nil
}

// DeleteFile removes a single file
func (l *Local) DeleteFile(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.ensure(); err != nil {
		return err
	}

	entry, i := l.find(id)
	if entry == nil {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if entry.ReadOnly {
		return fmt.Errorf("%s: %w", entry.Name, ErrReadOnly)
	}
	if err := os.Remove(entry.Path); err != nil {
		return fmt.Errorf("cannot delete file: %w", err)
	}
	l.remove(i)
	l.log.WithFields(logrus.Fields{"op": "delete", "id": id}).Info("file deleted")
	return nil
}

// BulkDelete removes every id it can and reports the rest per id
func (l *Local) BulkDelete(ctx context.Context, ids []string) (*types.BulkDeleteResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.ensure(); err != nil {
		return nil, err
	}

	result := &types.BulkDeleteResult{Errors: []types.ItemError{}}
	for _, id := range ids {
		entry, i := l.find(id)
		switch {
		case entry == nil:
			result.Errors = append(result.Errors, types.ItemError{ID: id, Message: "not found"})
		case entry.ReadOnly:
			result.Errors = append(result.Errors, types.ItemError{ID: id, Message: "read-only"})
		default:
			if err := os.Remove(entry.Path); err != nil {
				result.Errors = append(result.Errors, types.ItemError{ID: id, Message: err.Error()})
				continue
			}
			l.remove(i)
			result.Deleted++
		}
	}

	l.log.WithFields(logrus.Fields{
		"op":      "bulk-delete",
		"count":   len(ids),
		"deleted": result.Deleted,
		"failed":  len(result.Errors),
	}).Info("bulk delete finished")
	return result, nil
}

// Rescan replaces the cached scan with a fresh one
func (l *Local) Rescan(ctx context.Context) (*types.ScanResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	result, err := l.scanner.Scan()
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	l.result = result
	l.log.WithFields(logrus.Fields{"op": "rescan", "count": len(result.Files)}).Info("rescan complete")

	out := *l.result
	out.Files = append([]types.FileRecord(nil), l.result.Files...)
	return &out, nil
}

// AnalyzeCleanup flags deletion candidates in the current scan
func (l *Local) AnalyzeCleanup(ctx context.Context) (*types.CleanupResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.ensure(); err != nil {
		return nil, err
	}

	result := scanner.AnalyzeCleanup(l.result.Files, scanner.CleanupOptions{
		StaleDays: l.staleDays,
		Now:       l.now(),
	})
	l.log.WithFields(logrus.Fields{"op": "cleanup", "count": result.TotalCount}).Debug("cleanup analyzed")
	return &result, nil
}
