package controller

import (
	"context"

	"github.com/rahulvramesh/shelf/internal/types"
)

// Intent is a user action fed to Dispatch
type Intent interface{ intent() }

// Load fetches the catalog and category metadata
type Load struct{}

// Rescan asks the backend to rebuild its catalog
type Rescan struct{}

// SelectCategory sets the category filter; empty selects all
type SelectCategory struct{ Category types.Category }

// SetSearch sets the search query
type SetSearch struct{ Query string }

// OpenFile loads a file into the editor
type OpenFile struct{ ID string }

// EditContent replaces the editor buffer
type EditContent struct{ Content string }

// Save writes the editor buffer
type Save struct{}

// DeleteCurrent asks to delete the open file
type DeleteCurrent struct{}

// DeleteVisible asks to delete every visible writable file
type DeleteVisible struct{}

// Confirm accepts the open confirmation dialog
type Confirm struct{}

// Cancel closes the confirmation dialog, or the cleanup dialog when no
// confirmation is pending
type Cancel struct{}

// ToggleFileList shows or hides the file list of the confirmation dialog
type ToggleFileList struct{}

// AnalyzeCleanup runs the cleanup analysis
type AnalyzeCleanup struct{}

// ToggleItem sets one cleanup item's checkbox
type ToggleItem struct {
	ID      string
	Checked bool
}

// ToggleGroup sets every item of one cleanup reason
type ToggleGroup struct {
	Group   string
	Checked bool
}

// ToggleAll sets every cleanup item
type ToggleAll struct{ Checked bool }

// DeleteSelected deletes the selected cleanup items
type DeleteSelected struct{}

func (Load) intent()           {}
func (Rescan) intent()         {}
func (SelectCategory) intent() {}
func (SetSearch) intent()      {}
func (OpenFile) intent()       {}
func (EditContent) intent()    {}
func (Save) intent()           {}
func (DeleteCurrent) intent()  {}
func (DeleteVisible) intent()  {}
func (Confirm) intent()        {}
func (Cancel) intent()         {}
func (ToggleFileList) intent() {}
func (AnalyzeCleanup) intent() {}
func (ToggleItem) intent()     {}
func (ToggleGroup) intent()    {}
func (ToggleAll) intent()      {}
func (DeleteSelected) intent() {}

// Result is the outcome of a Job, fed back through Apply
type Result interface{ result() }

// Job is one backend round trip. It must not touch controller state
type Job func(ctx context.Context) Result

// Loaded carries a fresh catalog
type Loaded struct {
	Files      []types.FileRecord
	Categories []types.CategoryInfo
	Rescan     bool
	Err        error
}

// Opened carries a file's content
type Opened struct {
	ID   string
	File *types.FileContent
	Err  error
}

// Saved reports a save
type Saved struct {
	ID      string
	Content string
	Err     error
}

// Deleted reports a single delete
type Deleted struct {
	ID   string
	Name string
	Err  error
}

// BulkDeleted reports a bulk delete, from the visible list or the cleanup
// dialog
type BulkDeleted struct {
	IDs     []string
	Result  *types.BulkDeleteResult
	Cleanup bool
	Err     error
}

// Analyzed carries a cleanup analysis
type Analyzed struct {
	Result *types.CleanupResult
	Err    error
}

func (Loaded) result()      {}
func (Opened) result()      {}
func (Saved) result()       {}
func (Deleted) result()     {}
func (BulkDeleted) result() {}
func (Analyzed) result()    {}
