package catalog

import (
	"sort"
	"strings"

	"github.com/rahulvramesh/shelf/internal/types"
)

// AllCategory is the pseudo-category selector matching every file
const AllCategory types.Category = ""

// Filter holds the two active predicates
type Filter struct {
	Category types.Category
	Query    string
}

// Count aggregates the files of one category
type Count struct {
	Count     int
	TotalSize int64
}

// Entry is one row of the category navigation
type Entry struct {
	ID        types.Category
	Label     string
	Icon      string
	Count     int
	TotalSize int64
	Active    bool
}

// DisplayName falls back to the file name when no display name is set
func DisplayName(f types.FileRecord) string {
	if f.DisplayName != "" {
		return f.DisplayName
	}
	return f.Name
}

// MatchesSearch reports whether any searchable field contains query,
// ignoring case. An empty query matches everything
func MatchesSearch(f types.FileRecord, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	for _, field := range []string{f.Name, f.RelPath, f.DisplayName, f.ProjectName} {
		if field != "" && strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// MatchesCategory is an exact match; AllCategory matches everything
func MatchesCategory(f types.FileRecord, category types.Category) bool {
	return category == AllCategory || f.Category == category
}

// VisibleFiles applies both predicates and sorts the result by
// modification time, most recent first. Ties keep catalog order
func VisibleFiles(files []types.FileRecord, filter Filter) []types.FileRecord {
	visible := make([]types.FileRecord, 0, len(files))
	for _, f := range files {
		if MatchesCategory(f, filter.Category) && MatchesSearch(f, filter.Query) {
			visible = append(visible, f)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].ModTime.After(visible[j].ModTime)
	})
	return visible
}

// CategoryCounts aggregates search-matching files per category. The
// active category is deliberately ignored so badges stay meaningful
// while one category is selected
func CategoryCounts(files []types.FileRecord, query string) map[types.Category]Count {
	counts := make(map[types.Category]Count)
	for _, f := range files {
		if !MatchesSearch(f, query) {
			continue
		}
		c := counts[f.Category]
		c.Count++
		c.TotalSize += f.Size
		counts[f.Category] = c
	}
	return counts
}

// CategoryList builds the navigation rows: the "all" entry first, then
// every category with at least one search-matching file, in metadata
// order. Counted categories missing from the metadata are appended so
// the shown sizes always add up to the search-matching total
func CategoryList(categories []types.CategoryInfo, counts map[types.Category]Count, active types.Category) []Entry {
	var total Count
	for _, c := range counts {
		total.Count += c.Count
		total.TotalSize += c.TotalSize
	}

	entries := []Entry{{
		ID:        AllCategory,
		Label:     "All Files",
		Icon:      "🗂️",
		Count:     total.Count,
		TotalSize: total.TotalSize,
		Active:    active == AllCategory,
	}}

	listed := make(map[types.Category]bool, len(categories))
	for _, info := range categories {
		listed[info.ID] = true
		c := counts[info.ID]
		if c.Count == 0 {
			continue
		}
		entries = append(entries, Entry{
			ID:        info.ID,
			Label:     info.Label,
			Icon:      info.Icon,
			Count:     c.Count,
			TotalSize: c.TotalSize,
			Active:    active == info.ID,
		})
	}

	var extra []types.Category
	for id, c := range counts {
		if !listed[id] && c.Count > 0 {
			extra = append(extra, id)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	for _, id := range extra {
		c := counts[id]
		entries = append(entries, Entry{
			ID:        id,
			Label:     fallbackLabel(id),
			Icon:      "📄",
			Count:     c.Count,
			TotalSize: c.TotalSize,
			Active:    active == id,
		})
	}
	return entries
}

func fallbackLabel(id types.Category) string {
	for _, info := range types.AllCategories() {
		if info.ID == id {
			return info.Label
		}
	}
	s := string(id)
	if s == "" {
		return "Other"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
