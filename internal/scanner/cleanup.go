package scanner

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rahulvramesh/shelf/internal/types"
)

// DefaultStaleDays is the age after which an unmodified file is stale
const DefaultStaleDays = 30

// CleanupOptions tunes the cleanup analysis
type CleanupOptions struct {
	StaleDays int
	Now       time.Time
	ReadFile  func(path string) ([]byte, error)
}

// AnalyzeCleanup flags deletion candidates. Rules are checked in order
// (zero bytes, empty content, stale) and the first match wins, so every
// file appears at most once. Read-only files are never flagged
func AnalyzeCleanup(files []types.FileRecord, opts CleanupOptions) types.CleanupResult {
	if opts.StaleDays <= 0 {
		opts.StaleDays = DefaultStaleDays
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.ReadFile == nil {
		opts.ReadFile = os.ReadFile
	}

	result := types.CleanupResult{Items: []types.CleanupItem{}}
	add := func(item types.CleanupItem) {
		result.Items = append(result.Items, item)
		result.TotalSize += item.Size
	}

	for _, f := range files {
		if f.ReadOnly {
			continue
		}

		if f.Size == 0 {
			add(types.CleanupItem{
				FileRecord:  f,
				Reason:      types.ReasonEmptyFile,
				ReasonLabel: "Empty file (0 bytes)",
			})
			continue
		}

		data, err := opts.ReadFile(f.Path)
		if err != nil {
			continue
		}
		if label, ok := emptyContentLabel(strings.TrimSpace(string(data))); ok {
			add(types.CleanupItem{
				FileRecord:  f,
				Reason:      types.ReasonEmptyContent,
				ReasonLabel: label,
			})
			continue
		}

		days := int(opts.Now.Sub(f.ModTime).Hours() / 24)
		if days >= opts.StaleDays {
			add(types.CleanupItem{
				FileRecord:  f,
				Reason:      types.ReasonStale,
				ReasonLabel: fmt.Sprintf("Not modified in %d days", days),
				DaysSince:   days,
			})
		}
	}

	result.TotalCount = len(result.Items)
	return result
}

func emptyContentLabel(trimmed string) (string, bool) {
	switch trimmed {
	case "":
		return "Blank file (whitespace only)", true
	case "[]":
		return "Empty array ([])", true
	case "{}":
		return "Empty object ({})", true
	case "null":
		return "Null content", true
	}
	return "", false
}
