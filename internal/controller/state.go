package controller

import (
	"github.com/rahulvramesh/shelf/internal/selection"
	"github.com/rahulvramesh/shelf/internal/types"
)

// Phase is the top-level lifecycle state
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
)

// Op names a backend round trip that can be in flight
type Op string

const (
	OpLoading          Op = "loading"
	OpRescanning       Op = "rescanning"
	OpOpening          Op = "opening-file"
	OpSaving           Op = "saving"
	OpDeleting         Op = "deleting"
	OpBulkDeleting     Op = "bulk-deleting"
	OpCleanupAnalyzing Op = "cleanup-analyzing"
	OpCleanupDeleting  Op = "cleanup-deleting"
)

// Level is a notice severity
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

// Notice is a transient message for the user
type Notice struct {
	Level Level
	Text  string
}

// EditorStatus tracks the editor pane
type EditorStatus int

const (
	EditorEmpty EditorStatus = iota
	EditorLoading
	EditorReady
	EditorError
)

// Editor is the state of the editor pane. Content is only present once the
// file has loaded
type Editor struct {
	FileID   string
	File     *types.FileRecord
	Baseline string
	Buffer   string
	Status   EditorStatus
	Err      string
}

// Dirty reports whether the buffer differs from the last loaded or saved
// content
func (e Editor) Dirty() bool {
	return e.Status == EditorReady && e.Buffer != e.Baseline
}

// ReadOnly reports whether the open file cannot be written
func (e Editor) ReadOnly() bool {
	return e.File != nil && e.File.ReadOnly
}

// ConfirmKind tells which delete a confirmation dialog guards
type ConfirmKind int

const (
	ConfirmDeleteCurrent ConfirmKind = iota
	ConfirmDeleteVisible
)

// ConfirmDialog lists the files a delete would remove
type ConfirmDialog struct {
	Kind     ConfirmKind
	Title    string
	Message  string
	Files    []types.FileRecord
	ShowList bool
}

type cleanupDialog struct {
	items  map[string]types.CleanupItem
	engine *selection.Engine
	err    string
}

// CleanupView is a read-only picture of the cleanup dialog
type CleanupView struct {
	Selection  selection.Snapshot
	Items      map[string]types.CleanupItem
	TotalCount int
	TotalSize  int64
	Err        string
	Deleting   bool
}
