package scanner

import (
	"crypto/sha256"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"
	"github.com/sirupsen/logrus"

	"github.com/rahulvramesh/shelf/internal/types"
	"github.com/rahulvramesh/shelf/internal/utils"
)

// Scanner discovers assistant configuration and memory files
type Scanner struct {
	HomeDir string
	Root    string // empty scans the well-known locations
	Log     logrus.FieldLogger

	// IsWritable probes write access; nil uses an open-for-write probe
	IsWritable func(path string) bool

	mu       sync.Mutex
	projects map[string]string
}

// NewScanner creates a new scanner instance
func NewScanner(root string) *Scanner {
	return &Scanner{
		HomeDir: utils.HomeDir(),
		Root:    root,
		Log:     logrus.StandardLogger(),
	}
}

// Scan walks every search path and returns the discovered files
func (s *Scanner) Scan() (*types.ScanResult, error) {
	s.mu.Lock()
	s.projects = make(map[string]string)
	s.mu.Unlock()

	var (
		files []types.FileRecord
		seen  = make(map[string]bool)
	)
	for _, p := range s.searchPaths() {
		found, err := s.scanPath(p, seen)
		if err != nil {
			s.logger().WithError(err).WithField("path", p).Debug("skipping inaccessible path")
			continue
		}
		files = append(files, found...)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	s.logger().WithField("count", len(files)).Info("scan complete")

	return &types.ScanResult{
		RootPath:   s.Root,
		Files:      files,
		ScannedAt:  time.Now(),
		Categories: types.AllCategories(),
	}, nil
}

func (s *Scanner) logger() logrus.FieldLogger {
	if s.Log == nil {
		return logrus.StandardLogger()
	}
	return s.Log
}

// searchPaths returns the list of directories to scan
func (s *Scanner) searchPaths() []string {
	if s.Root != "" {
		return []string{s.Root}
	}

	paths := []string{filepath.Join(s.HomeDir, ".claude")}
	for _, d := range []string{"projects", "src", "dev", "code", "workspace", "repos"} {
		dir := filepath.Join(s.HomeDir, d)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			paths = append(paths, dir)
		}
	}
	// The home directory itself, for a top-level CLAUDE.md
	return append(paths, s.HomeDir)
}

var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	".venv":        true,
	"__pycache__":  true,
}

// nestedDirDepth bounds how far below a root the walk looks for nested
// .claude directories
const nestedDirDepth = 3

// scanPath walks one root. Outside a .claude directory only files up to one
// level down are kept, but directories are descended up to nestedDirDepth
// so repos like org/repo/.claude are still found
func (s *Scanner) scanPath(root string, seen map[string]bool) ([]types.FileRecord, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	isClaudeDir := filepath.Base(root) == ".claude"

	var (
		mu    sync.Mutex
		files []types.FileRecord
	)
	conf := &fastwalk.Config{Follow: false}
	err = fastwalk.Walk(conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		depth := strings.Count(rel, string(filepath.Separator))
		inClaude := isClaudeDir || hasComponent(rel, ".claude")

		if d.IsDir() {
			name := d.Name()
			if skipDirs[name] {
				return fastwalk.SkipDir
			}
			// ~/.claude is its own search path when scanning defaults
			if s.Root == "" && root == s.HomeDir && rel == ".claude" {
				return fastwalk.SkipDir
			}
			if inClaude {
				return nil
			}
			if name != ".claude" && (strings.HasPrefix(name, ".") || depth >= nestedDirDepth) {
				return fastwalk.SkipDir
			}
			return nil
		}

		if !inClaude && depth > 1 {
			return nil
		}
		if !d.Type().IsRegular() || !isClaudeFile(path, d.Name()) {
			return nil
		}

		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil
		}
		fi, err := fastwalk.StatDirEntry(path, d)
		if err != nil {
			return nil
		}

		mu.Lock()
		defer mu.Unlock()
		if seen[absPath] {
			return nil
		}
		seen[absPath] = true
		files = append(files, s.record(absPath, fi))
		return nil
	})
	return files, err
}

func (s *Scanner) record(absPath string, fi fs.FileInfo) types.FileRecord {
	name := fi.Name()
	relPath := utils.RelativeDisplay(absPath, s.HomeDir)
	entry := types.FileRecord{
		ID:       FileID(absPath),
		Path:     absPath,
		RelPath:  relPath,
		Name:     name,
		Category: categorize(relPath, name),
		Size:     fi.Size(),
		ModTime:  fi.ModTime(),
		ReadOnly: !s.writable(absPath),
	}
	entry.Scope, entry.ProjectName = s.scopeOf(absPath)
	if entry.ProjectName != "" {
		entry.DisplayName = entry.ProjectName + "/" + name
	}
	return entry
}

func (s *Scanner) writable(path string) bool {
	if s.IsWritable != nil {
		return s.IsWritable(path)
	}
	return isWritable(path)
}

// FileID generates a stable, URL-safe identifier for a file path
func FileID(path string) string {
	h := sha256.Sum256([]byte(path))
	return fmt.Sprintf("%x", h[:8])
}

// isWritable checks if the file can be written to
func isWritable(path string) bool {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return false
	}
	f.Close()
	return true
}

func hasComponent(rel, name string) bool {
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if part == name {
			return true
		}
	}
	return false
}
