// Package catalog holds the in-memory file catalog, the active filters
// and the pure functions deriving what the user sees from them
package catalog

import (
	"github.com/rahulvramesh/shelf/internal/types"
)

// Store is the full set of known files plus the two filter predicates.
// It is replaced wholesale on every load; there is no incremental patching
type Store struct {
	files      []types.FileRecord
	categories []types.CategoryInfo
	filter     Filter
	loaded     bool
}

// NewStore returns an empty, not yet loaded store
func NewStore() *Store {
	return &Store{}
}

// Replace swaps in a freshly loaded catalog. Files whose category is not
// part of the supplied enumeration are filed under other
func (s *Store) Replace(files []types.FileRecord, categories []types.CategoryInfo) {
	known := make(map[types.Category]bool, len(categories))
	for _, c := range categories {
		known[c.ID] = true
	}

	s.files = make([]types.FileRecord, len(files))
	for i, f := range files {
		if f.Category == "" || (len(known) > 0 && !known[f.Category]) {
			f.Category = types.CategoryOther
		}
		s.files[i] = f
	}
	s.categories = append([]types.CategoryInfo(nil), categories...)
	s.loaded = true
}

// Loaded reports whether a catalog was ever stored
func (s *Store) Loaded() bool { return s.loaded }

// Len is the number of known files
func (s *Store) Len() int { return len(s.files) }

// Files returns a copy of the full catalog in catalog order
func (s *Store) Files() []types.FileRecord {
	return append([]types.FileRecord(nil), s.files...)
}

// Categories returns a copy of the category metadata
func (s *Store) Categories() []types.CategoryInfo {
	return append([]types.CategoryInfo(nil), s.categories...)
}

// Lookup finds a file by id
func (s *Store) Lookup(id string) (types.FileRecord, bool) {
	for _, f := range s.files {
		if f.ID == id {
			return f, true
		}
	}
	return types.FileRecord{}, false
}

// Filter returns the active filter
func (s *Store) Filter() Filter { return s.filter }

// SetCategory changes the category selector and reports whether it changed
func (s *Store) SetCategory(c types.Category) bool {
	if s.filter.Category == c {
		return false
	}
	s.filter.Category = c
	return true
}

// SetQuery changes the search text and reports whether it changed
func (s *Store) SetQuery(q string) bool {
	if s.filter.Query == q {
		return false
	}
	s.filter.Query = q
	return true
}

// Visible derives the currently visible, sorted files
func (s *Store) Visible() []types.FileRecord {
	return VisibleFiles(s.files, s.filter)
}

// Counts derives the search-only per-category aggregates
func (s *Store) Counts() map[types.Category]Count {
	return CategoryCounts(s.files, s.filter.Query)
}

// Navigation derives the rendered category rows
func (s *Store) Navigation() []Entry {
	return CategoryList(s.categories, s.Counts(), s.filter.Category)
}
