package types

import "time"

// Category groups related files together
type Category string

const (
	CategoryMemory   Category = "memory"
	CategorySettings Category = "settings"
	CategoryTodos    Category = "todos"
	CategoryPlans    Category = "plans"
	CategorySkills   Category = "skills"
	CategoryProject  Category = "project"
	CategoryOther    Category = "other"
)

// CategoryInfo provides display metadata for a category
type CategoryInfo struct {
	ID          Category `json:"id"`
	Label       string   `json:"label"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
}

// AllCategories returns the ordered category table
func AllCategories() []CategoryInfo {
	return []CategoryInfo{
		{CategoryMemory, "Memories", "MEMORY.md and per-project memory files", "🧠"},
		{CategorySettings, "Settings", "Configuration and settings files", "⚙️"},
		{CategoryTodos, "Todos", "Task and todo tracking files", "✅"},
		{CategoryPlans, "Plans", "Planning and strategy documents", "🗺️"},
		{CategorySkills, "Skills", "Custom skill definitions", "✨"},
		{CategoryProject, "Project Config", "CLAUDE.md and .clauderc project files", "📁"},
		{CategoryOther, "Other", "Other related files", "📄"},
	}
}

// Scope tells whether a file applies globally or to one project
type Scope string

const (
	ScopeGlobal  Scope = "global"
	ScopeProject Scope = "project"
)

// FileRecord represents a single discovered file
type FileRecord struct {
	ID          string    `json:"id"`
	Path        string    `json:"path"`
	RelPath     string    `json:"relPath"`
	Name        string    `json:"name"`
	DisplayName string    `json:"displayName,omitempty"`
	Category    Category  `json:"category"`
	Scope       Scope     `json:"scope,omitempty"`
	ProjectName string    `json:"projectName,omitempty"`
	Size        int64     `json:"size"`
	ModTime     time.Time `json:"modTime"`
	ReadOnly    bool      `json:"readOnly"`
}

// FileContent is a file record together with its contents
type FileContent struct {
	FileRecord
	Content string `json:"content"`
}

// ScanResult holds the complete scan output
type ScanResult struct {
	RootPath   string         `json:"rootPath"`
	Files      []FileRecord   `json:"files"`
	ScannedAt  time.Time      `json:"scannedAt"`
	Categories []CategoryInfo `json:"categories"`
}

// Reason classifies why a file was flagged by the cleanup analysis
type Reason string

const (
	ReasonEmptyFile    Reason = "empty_file"
	ReasonEmptyContent Reason = "empty_content"
	ReasonStale        Reason = "stale"
)

// ReasonTitle is the group heading shown for a reason
func ReasonTitle(r Reason) string {
	switch r {
	case ReasonEmptyFile:
		return "Empty files"
	case ReasonEmptyContent:
		return "Empty content"
	case ReasonStale:
		return "Stale files"
	}
	return string(r)
}

// CleanupItem is a file flagged for deletion
type CleanupItem struct {
	FileRecord
	Reason      Reason `json:"reason"`
	ReasonLabel string `json:"reasonLabel"`
	DaysSince   int    `json:"daysSince,omitempty"`
}

// CleanupResult is the output of a cleanup analysis
type CleanupResult struct {
	Items      []CleanupItem `json:"items"`
	TotalCount int           `json:"totalCount"`
	TotalSize  int64         `json:"totalSize"`
}

// ItemError reports a per-file failure inside a bulk operation
type ItemError struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// BulkDeleteResult reports partial success of a bulk delete
type BulkDeleteResult struct {
	Deleted int         `json:"deleted"`
	Errors  []ItemError `json:"errors"`
}

// Failed reports whether id is listed among the errors
func (r BulkDeleteResult) Failed(id string) bool {
	for _, e := range r.Errors {
		if e.ID == id {
			return true
		}
	}
	return false
}

// BulkDeleteRequest is the payload for deleting multiple files
type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

// SaveRequest is the payload for saving a file
type SaveRequest struct {
	Content string `json:"content"`
}
