package scanner

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rahulvramesh/shelf/internal/types"
)

var claudeExts = map[string]bool{
	".md":   true,
	".json": true,
	".yaml": true,
	".yml":  true,
	".txt":  true,
	".toml": true,
}

// isClaudeFile returns true if this file belongs in the catalog
func isClaudeFile(path, name string) bool {
	nameLower := strings.ToLower(name)
	if nameLower == "claude.md" || nameLower == ".clauderc" {
		return true
	}

	sep := string(filepath.Separator)
	if !strings.Contains(path, sep+".claude"+sep) {
		return false
	}
	// Conversation logs (.jsonl) stay out on purpose
	ext := strings.ToLower(filepath.Ext(name))
	if claudeExts[ext] {
		return true
	}
	return ext == "" && !strings.HasPrefix(name, ".")
}

// categorize assigns a category based on file path and name
func categorize(path, name string) types.Category {
	pathLower := strings.ToLower(filepath.ToSlash(path))
	nameLower := strings.ToLower(name)
	inClaude := strings.Contains(pathLower, "/.claude/")

	switch {
	case strings.Contains(pathLower, "memory") || nameLower == "memory.md":
		return types.CategoryMemory
	case nameLower == "claude.md" && !inClaude:
		return types.CategoryProject
	case nameLower == "settings.json" || nameLower == "settings.local.json" || nameLower == ".clauderc":
		return types.CategorySettings
	case strings.Contains(pathLower, "todo"):
		return types.CategoryTodos
	case strings.Contains(pathLower, "plan"):
		return types.CategoryPlans
	case strings.Contains(pathLower, "skill"):
		return types.CategorySkills
	case nameLower == "claude.md":
		return types.CategoryProject
	}
	return types.CategoryOther
}

// scopeOf tells whether a file is global or belongs to a project, and
// names the project when it does
func (s *Scanner) scopeOf(absPath string) (types.Scope, string) {
	sep := string(filepath.Separator)
	claudeHome := filepath.Join(s.HomeDir, ".claude")

	if rel, err := filepath.Rel(claudeHome, absPath); err == nil && !strings.HasPrefix(rel, "..") {
		parts := strings.Split(rel, sep)
		if len(parts) >= 3 && parts[0] == "projects" {
			return types.ScopeProject, s.projectName(parts[1])
		}
		return types.ScopeGlobal, ""
	}

	dir := filepath.Dir(absPath)
	parts := strings.Split(dir, sep)
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] == ".claude" {
			dir = strings.Join(parts[:i], sep)
			break
		}
	}
	if dir == s.HomeDir || dir == "" {
		return types.ScopeGlobal, ""
	}
	return types.ScopeProject, filepath.Base(dir)
}

// projectName decodes a per-project directory name, where every path
// separator and dot of the project path was replaced by a dash. Existing
// directories are used to tell separators from dashes in names
func (s *Scanner) projectName(encoded string) string {
	s.mu.Lock()
	if name, ok := s.projects[encoded]; ok {
		s.mu.Unlock()
		return name
	}
	s.mu.Unlock()

	name := decodeProjectDir(encoded)

	s.mu.Lock()
	if s.projects == nil {
		s.projects = make(map[string]string)
	}
	s.projects[encoded] = name
	s.mu.Unlock()
	return name
}

func decodeProjectDir(encoded string) string {
	parts := strings.Split(strings.TrimPrefix(encoded, "-"), "-")
	dir := string(filepath.Separator)
	resolved := false
	for i := 0; i < len(parts); {
		matched := false
		for j := len(parts); j > i; j-- {
			candidate := filepath.Join(dir, strings.Join(parts[i:j], "-"))
			if info, err := os.Stat(candidate); err == nil && info.IsDir() {
				dir, i, matched, resolved = candidate, j, true, true
				break
			}
		}
		if !matched {
			return strings.Join(parts[i:], "-")
		}
	}
	if !resolved {
		return encoded
	}
	return filepath.Base(dir)
}
