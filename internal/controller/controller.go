// Package controller sequences catalog load, filtering, editing, deletes and
// the cleanup workflow. It owns all session state; backend round trips are
// handed out as Jobs and their outcomes folded back in through Apply, so the
// controller itself is only ever touched from one goroutine
package controller

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/rahulvramesh/shelf/internal/backend"
	"github.com/rahulvramesh/shelf/internal/catalog"
	"github.com/rahulvramesh/shelf/internal/selection"
	"github.com/rahulvramesh/shelf/internal/types"
	"github.com/rahulvramesh/shelf/internal/utils"
)

// Controller is the workflow state machine
type Controller struct {
	backend backend.Backend
	log     logrus.FieldLogger

	store    *catalog.Store
	phase    Phase
	busy     map[Op]int
	opening  string
	activeID string
	editor   Editor
	confirm  *ConfirmDialog
	cleanup  *cleanupDialog
	notices  []Notice
}

// New creates an idle controller over b
func New(b backend.Backend, log logrus.FieldLogger) *Controller {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Controller{
		backend: b,
		log:     log,
		store:   catalog.NewStore(),
		phase:   PhaseIdle,
		busy:    make(map[Op]int),
	}
}

// Phase returns the lifecycle phase
func (c *Controller) Phase() Phase { return c.phase }

// Busy reports whether op is in flight
func (c *Controller) Busy(op Op) bool {
	if op == OpOpening {
		return c.opening != ""
	}
	return c.busy[op] > 0
}

// Loaded reports whether a catalog has been stored
func (c *Controller) Loaded() bool { return c.store.Loaded() }

// FileCount is the size of the full catalog
func (c *Controller) FileCount() int { return c.store.Len() }

// Filter returns the active filter
func (c *Controller) Filter() catalog.Filter { return c.store.Filter() }

// Visible returns the filtered, sorted file list
func (c *Controller) Visible() []types.FileRecord { return c.store.Visible() }

// Navigation returns the category list with badges
func (c *Controller) Navigation() []catalog.Entry { return c.store.Navigation() }

// Lookup finds a catalog file by id
func (c *Controller) Lookup(id string) (types.FileRecord, bool) { return c.store.Lookup(id) }

// ActiveID is the file marked active in the list, if any
func (c *Controller) ActiveID() string { return c.activeID }

// Editor returns the editor state
func (c *Controller) Editor() Editor { return c.editor }

// CanSave reports whether Save would do anything
func (c *Controller) CanSave() bool {
	return c.editor.Dirty() && !c.editor.ReadOnly() && !c.mutating()
}

// mutating reports whether a save or delete is in flight. Only one may run at
// a time so two writes never race on the same file
func (c *Controller) mutating() bool {
	return c.Busy(OpSaving) || c.Busy(OpDeleting) || c.Busy(OpBulkDeleting) || c.Busy(OpCleanupDeleting)
}

// holdMutation queues a notice and reports true when a mutation is in flight
func (c *Controller) holdMutation() bool {
	if !c.mutating() {
		return false
	}
	c.notify(LevelInfo, "Another change is still in progress")
	return true
}

// ConfirmDialog returns the pending confirmation, or nil
func (c *Controller) ConfirmDialog() *ConfirmDialog {
	if c.confirm == nil {
		return nil
	}
	d := *c.confirm
	d.Files = append([]types.FileRecord(nil), c.confirm.Files...)
	return &d
}

// Cleanup returns the cleanup dialog, or nil when it is closed
func (c *Controller) Cleanup() *CleanupView {
	if c.cleanup == nil {
		return nil
	}
	snap := c.cleanup.engine.Snapshot()
	v := &CleanupView{
		Selection:  snap,
		Items:      make(map[string]types.CleanupItem, len(c.cleanup.items)),
		TotalCount: snap.Total,
		Err:        c.cleanup.err,
		Deleting:   c.Busy(OpCleanupDeleting),
	}
	for _, g := range snap.Groups {
		for _, it := range g.Items {
			v.Items[it.ID] = c.cleanup.items[it.ID]
			v.TotalSize += it.Size
		}
	}
	return v
}

// Notices drains the queued notices
func (c *Controller) Notices() []Notice {
	out := c.notices
	c.notices = nil
	return out
}

func (c *Controller) notify(level Level, format string, args ...any) {
	c.notices = append(c.notices, Notice{Level: level, Text: fmt.Sprintf(format, args...)})
}

func (c *Controller) begin(op Op) { c.busy[op]++ }

func (c *Controller) end(op Op) {
	if c.busy[op] > 0 {
		c.busy[op]--
	}
}

// Dispatch applies an intent. The returned Job, when non-nil, must be run
// and its Result passed to Apply
func (c *Controller) Dispatch(in Intent) Job {
	switch in := in.(type) {
	case Load:
		if c.Busy(OpLoading) {
			return nil
		}
		return c.reload()

	case Rescan:
		if c.Busy(OpRescanning) {
			return nil
		}
		return c.rescan()

	case SelectCategory:
		if !c.store.SetCategory(in.Category) {
			return nil
		}
		return c.autoSelectFirst()

	case SetSearch:
		c.store.SetQuery(in.Query)
		return nil

	case OpenFile:
		return c.openFile(in.ID)

	case EditContent:
		if c.editor.Status == EditorReady && !c.editor.ReadOnly() {
			c.editor.Buffer = in.Content
		}
		return nil

	case Save:
		return c.save()

	case DeleteCurrent:
		c.askDeleteCurrent()
		return nil

	case DeleteVisible:
		c.askDeleteVisible()
		return nil

	case Confirm:
		return c.confirmDelete()

	case Cancel:
		if c.confirm != nil {
			c.confirm = nil
			return nil
		}
		if c.cleanup != nil && !c.Busy(OpCleanupDeleting) {
			c.cleanup = nil
		}
		return nil

	case ToggleFileList:
		if c.confirm != nil {
			c.confirm.ShowList = !c.confirm.ShowList
		}
		return nil

	case AnalyzeCleanup:
		return c.analyze()

	case ToggleItem:
		if c.cleanupEditable() {
			c.cleanup.engine.ToggleItem(in.ID, in.Checked)
		}
		return nil

	case ToggleGroup:
		if c.cleanupEditable() {
			c.cleanup.engine.ToggleGroup(in.Group, in.Checked)
		}
		return nil

	case ToggleAll:
		if c.cleanupEditable() {
			c.cleanup.engine.ToggleAll(in.Checked)
		}
		return nil

	case DeleteSelected:
		return c.deleteSelected()
	}
	return nil
}

// Apply folds a Job's result into the state. It may return a follow-up Job
func (c *Controller) Apply(r Result) Job {
	switch r := r.(type) {
	case Loaded:
		return c.applyLoaded(r)
	case Opened:
		c.applyOpened(r)
	case Saved:
		return c.applySaved(r)
	case Deleted:
		return c.applyDeleted(r)
	case BulkDeleted:
		return c.applyBulkDeleted(r)
	case Analyzed:
		c.applyAnalyzed(r)
	}
	return nil
}

func (c *Controller) reload() Job {
	c.begin(OpLoading)
	if !c.store.Loaded() {
		c.phase = PhaseLoading
	}
	b := c.backend
	return func(ctx context.Context) Result {
		files, err := b.ListFiles(ctx, backend.ListOptions{})
		if err != nil {
			return Loaded{Err: err}
		}
		cats, err := b.Categories(ctx)
		if err != nil {
			return Loaded{Err: err}
		}
		return Loaded{Files: files, Categories: cats}
	}
}

func (c *Controller) rescan() Job {
	c.begin(OpRescanning)
	if !c.store.Loaded() {
		c.phase = PhaseLoading
	}
	b := c.backend
	return func(ctx context.Context) Result {
		res, err := b.Rescan(ctx)
		if err != nil {
			return Loaded{Rescan: true, Err: err}
		}
		return Loaded{Files: res.Files, Categories: res.Categories, Rescan: true}
	}
}

func (c *Controller) applyLoaded(r Loaded) Job {
	if r.Rescan {
		c.end(OpRescanning)
	} else {
		c.end(OpLoading)
	}

	if r.Err != nil {
		if !c.store.Loaded() && !c.Busy(OpLoading) && !c.Busy(OpRescanning) {
			c.phase = PhaseIdle
		}
		if r.Rescan {
			c.notify(LevelError, "Rescan failed: %v", r.Err)
		} else {
			c.notify(LevelError, "Failed to load files: %v", r.Err)
		}
		c.log.WithError(r.Err).WithField("rescan", r.Rescan).Warn("catalog load failed")
		return nil
	}

	c.store.Replace(r.Files, r.Categories)
	c.phase = PhaseReady

	if c.activeID != "" {
		if rec, ok := c.store.Lookup(c.activeID); !ok {
			c.clearEditor()
		} else if c.editor.File != nil {
			c.editor.File = &rec
		}
	}
	if c.cleanup != nil {
		c.cleanup.engine.Retain(func(id string) bool {
			_, ok := c.store.Lookup(id)
			return ok
		})
	}

	if r.Rescan {
		c.notify(LevelSuccess, "Scan complete: %s found", utils.Plural(c.store.Len(), "file"))
	}
	c.log.WithFields(logrus.Fields{"count": c.store.Len(), "rescan": r.Rescan}).Debug("catalog loaded")
	return nil
}

func (c *Controller) autoSelectFirst() Job {
	visible := c.store.Visible()
	if len(visible) == 0 {
		c.clearEditor()
		return nil
	}
	return c.openFile(visible[0].ID)
}

func (c *Controller) clearEditor() {
	c.activeID = ""
	c.editor = Editor{}
}

func (c *Controller) openFile(id string) Job {
	if _, ok := c.store.Lookup(id); !ok {
		return nil
	}
	if id == c.opening {
		return nil
	}
	if id == c.activeID && c.editor.Status == EditorReady {
		return nil
	}

	c.activeID = id
	c.opening = id
	c.editor = Editor{FileID: id, Status: EditorLoading}

	b := c.backend
	return func(ctx context.Context) Result {
		fc, err := b.GetFile(ctx, id)
		return Opened{ID: id, File: fc, Err: err}
	}
}

func (c *Controller) applyOpened(r Opened) {
	if r.ID == c.opening {
		c.opening = ""
	}
	if r.ID != c.activeID {
		c.log.WithField("id", r.ID).Debug("dropping stale file content")
		return
	}

	if r.Err != nil || r.File == nil {
		msg := "no content"
		if r.Err != nil {
			msg = r.Err.Error()
		}
		c.editor = Editor{FileID: r.ID, Status: EditorError, Err: msg}
		c.notify(LevelError, "Failed to load file: %s", msg)
		return
	}

	rec := r.File.FileRecord
	c.editor = Editor{
		FileID:   r.ID,
		File:     &rec,
		Baseline: r.File.Content,
		Buffer:   r.File.Content,
		Status:   EditorReady,
	}
}

func (c *Controller) save() Job {
	if !c.CanSave() {
		return nil
	}
	id, content := c.editor.FileID, c.editor.Buffer
	c.begin(OpSaving)

	b := c.backend
	return func(ctx context.Context) Result {
		return Saved{ID: id, Content: content, Err: b.SaveFile(ctx, id, content)}
	}
}

func (c *Controller) applySaved(r Saved) Job {
	c.end(OpSaving)
	if r.Err != nil {
		c.notify(LevelError, "Save failed: %v", r.Err)
		return nil
	}
	if c.editor.FileID == r.ID && c.editor.Status == EditorReady {
		c.editor.Baseline = r.Content
	}
	c.notify(LevelSuccess, "File saved successfully")
	c.log.WithFields(logrus.Fields{"op": "save", "id": r.ID}).Info("saved")
	return c.reload()
}

func (c *Controller) askDeleteCurrent() {
	if c.editor.Status != EditorReady || c.editor.File == nil || c.holdMutation() {
		return
	}
	if c.editor.ReadOnly() {
		c.notify(LevelInfo, "%s is read-only", catalog.DisplayName(*c.editor.File))
		return
	}
	c.confirm = &ConfirmDialog{
		Kind:    ConfirmDeleteCurrent,
		Title:   "Delete File",
		Message: "Are you sure you want to delete this file?",
		Files:   []types.FileRecord{*c.editor.File},
	}
}

func (c *Controller) askDeleteVisible() {
	if c.holdMutation() {
		return
	}
	var deletable []types.FileRecord
	for _, f := range c.store.Visible() {
		if !f.ReadOnly {
			deletable = append(deletable, f)
		}
	}
	if len(deletable) == 0 {
		c.notify(LevelInfo, "No deletable files in current view")
		return
	}
	c.confirm = &ConfirmDialog{
		Kind:    ConfirmDeleteVisible,
		Title:   "Delete All Visible Files",
		Message: fmt.Sprintf("This will permanently delete %s matching your current filter.", utils.Plural(len(deletable), "file")),
		Files:   deletable,
	}
}

func (c *Controller) confirmDelete() Job {
	d := c.confirm
	if d == nil {
		return nil
	}
	c.confirm = nil
	if c.holdMutation() {
		return nil
	}
	b := c.backend

	switch d.Kind {
	case ConfirmDeleteCurrent:
		if len(d.Files) == 0 {
			return nil
		}
		f := d.Files[0]
		name := catalog.DisplayName(f)
		c.begin(OpDeleting)
		return func(ctx context.Context) Result {
			return Deleted{ID: f.ID, Name: name, Err: b.DeleteFile(ctx, f.ID)}
		}

	case ConfirmDeleteVisible:
		ids := make([]string, len(d.Files))
		for i, f := range d.Files {
			ids[i] = f.ID
		}
		c.begin(OpBulkDeleting)
		return func(ctx context.Context) Result {
			res, err := b.BulkDelete(ctx, ids)
			return BulkDeleted{IDs: ids, Result: res, Err: err}
		}
	}
	return nil
}

func (c *Controller) applyDeleted(r Deleted) Job {
	c.end(OpDeleting)
	if r.Err != nil {
		c.notify(LevelError, "Delete failed: %v", r.Err)
		return nil
	}
	c.notify(LevelSuccess, "Deleted: %s", r.Name)
	if c.activeID == r.ID {
		c.clearEditor()
	}
	c.log.WithFields(logrus.Fields{"op": "delete", "id": r.ID}).Info("deleted")
	return c.reload()
}

func (c *Controller) applyBulkDeleted(r BulkDeleted) Job {
	if r.Cleanup {
		c.end(OpCleanupDeleting)
	} else {
		c.end(OpBulkDeleting)
	}

	if r.Err != nil {
		c.notify(LevelError, "Bulk delete failed: %v", r.Err)
		if r.Cleanup && c.cleanup != nil {
			c.cleanup.err = r.Err.Error()
		}
		return nil
	}

	res := types.BulkDeleteResult{}
	if r.Result != nil {
		res = *r.Result
	}
	c.notify(LevelSuccess, "Deleted %s", utils.Plural(res.Deleted, "file"))
	if n := len(res.Errors); n > 0 {
		c.notify(LevelError, "%s failed to delete", utils.Plural(n, "file"))
		for _, e := range res.Errors {
			c.notify(LevelError, "%s: %s", c.nameOf(e.ID), e.Message)
		}
	}

	if r.Cleanup {
		c.cleanup = nil
	}
	if c.activeID != "" && !res.Failed(c.activeID) {
		for _, id := range r.IDs {
			if id == c.activeID {
				c.clearEditor()
				break
			}
		}
	}
	c.log.WithFields(logrus.Fields{
		"op":      "bulk-delete",
		"count":   len(r.IDs),
		"deleted": res.Deleted,
		"failed":  len(res.Errors),
	}).Info("bulk delete finished")
	return c.reload()
}

func (c *Controller) nameOf(id string) string {
	if f, ok := c.store.Lookup(id); ok {
		return catalog.DisplayName(f)
	}
	if c.cleanup != nil {
		if it, ok := c.cleanup.items[id]; ok {
			return catalog.DisplayName(it.FileRecord)
		}
	}
	return id
}

func (c *Controller) analyze() Job {
	if c.Busy(OpCleanupAnalyzing) || c.Busy(OpCleanupDeleting) {
		return nil
	}
	c.begin(OpCleanupAnalyzing)
	b := c.backend
	return func(ctx context.Context) Result {
		res, err := b.AnalyzeCleanup(ctx)
		return Analyzed{Result: res, Err: err}
	}
}

func (c *Controller) applyAnalyzed(r Analyzed) {
	c.end(OpCleanupAnalyzing)
	if r.Err != nil || r.Result == nil {
		msg := "no result"
		if r.Err != nil {
			msg = r.Err.Error()
		}
		c.notify(LevelError, "Cleanup analysis failed: %s", msg)
		return
	}

	items := make(map[string]types.CleanupItem, len(r.Result.Items))
	for _, it := range r.Result.Items {
		items[it.ID] = it
	}
	c.cleanup = &cleanupDialog{
		items:  items,
		engine: selection.FromCleanup(r.Result.Items),
	}
	c.log.WithField("count", r.Result.TotalCount).Debug("cleanup analyzed")
}

func (c *Controller) cleanupEditable() bool {
	return c.cleanup != nil && !c.Busy(OpCleanupDeleting)
}

func (c *Controller) deleteSelected() Job {
	if !c.cleanupEditable() || !c.cleanup.engine.CanSubmit() || c.holdMutation() {
		return nil
	}
	ids := c.cleanup.engine.SelectedIDs()
	c.cleanup.err = ""
	c.begin(OpCleanupDeleting)

	b := c.backend
	return func(ctx context.Context) Result {
		res, err := b.BulkDelete(ctx, ids)
		return BulkDeleted{IDs: ids, Result: res, Cleanup: true, Err: err}
	}
}
