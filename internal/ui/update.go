package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rahulvramesh/shelf/internal/controller"
	"github.com/rahulvramesh/shelf/internal/selection"
)

const (
	rowAll = iota
	rowGroup
	rowItem
)

type cleanupRow struct {
	kind  int
	group string
	id    string
}

// cleanupRows flattens the cleanup dialog into cursor positions
func cleanupRows(v *controller.CleanupView) []cleanupRow {
	if v == nil || v.TotalCount == 0 {
		return nil
	}
	rows := []cleanupRow{{kind: rowAll}}
	for _, g := range v.Selection.Groups {
		rows = append(rows, cleanupRow{kind: rowGroup, group: g.Name})
		for _, it := range g.Items {
			rows = append(rows, cleanupRow{kind: rowItem, group: g.Name, id: it.ID})
		}
	}
	return rows
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case jobDoneMsg:
		return m, m.after(m.ctrl.Apply(msg.result))

	case searchSettledMsg:
		cmd := m.after(m.ctrl.Dispatch(controller.SetSearch{Query: msg.query}))
		return m, tea.Batch(cmd, waitForSearch(m.searches))

	case toastExpiredMsg:
		m.dropToast(msg.id)
		return m, nil

	case clipboardMsg:
		if msg.err != nil {
			m.log.WithError(msg.err).Warn("clipboard write failed")
			return m, m.pushToast(controller.LevelError, "Clipboard unavailable")
		}
		return m, m.pushToast(controller.LevelSuccess, "Copied "+msg.path)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.close()
			return m, tea.Quit
		}
		switch m.state {
		case "confirm":
			return m.updateConfirm(msg)
		case "cleanup":
			return m.updateCleanup(msg)
		}
		if m.searching {
			return m.updateSearch(msg)
		}
		if m.focus == focusEditor && m.editable() {
			return m.updateEditor(msg)
		}
		return m.updateBrowse(msg)
	}

	return m, nil
}

// after runs a controller job, turns queued notices into toasts and
// re-syncs the widgets with the controller
func (m *Model) after(job controller.Job) tea.Cmd {
	cmds := []tea.Cmd{runJob(m.ctx, job)}
	for _, n := range m.ctrl.Notices() {
		cmds = append(cmds, m.pushToast(n.Level, n.Text))
	}
	shown := m.shownID
	m.sync()
	if m.lossy && m.shownID != shown {
		cmds = append(cmds, m.pushToast(controller.LevelInfo, "File has tabs or control characters; opened read-only"))
	}
	return tea.Batch(cmds...)
}

func (m *Model) dispatch(in controller.Intent) tea.Cmd {
	return m.after(m.ctrl.Dispatch(in))
}

func (m *Model) pushToast(level controller.Level, text string) tea.Cmd {
	m.nextToast++
	m.toasts = append(m.toasts, toast{id: m.nextToast, notice: controller.Notice{Level: level, Text: text}})
	if len(m.toasts) > maxToasts {
		m.toasts = m.toasts[len(m.toasts)-maxToasts:]
	}
	return expireToast(m.nextToast, m.noticeTTL)
}

func (m *Model) dropToast(id int) {
	for i, t := range m.toasts {
		if t.id == id {
			m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
			return
		}
	}
}

func (m Model) editable() bool {
	ed := m.ctrl.Editor()
	return ed.Status == controller.EditorReady && !ed.ReadOnly() && !m.lossy && !m.preview
}

// sync derives the screen state from the controller and clamps cursors
func (m *Model) sync() {
	switch {
	case m.ctrl.ConfirmDialog() != nil:
		m.state = "confirm"
	case m.ctrl.Cleanup() != nil:
		m.state = "cleanup"
	case m.ctrl.Phase() == controller.PhaseReady:
		m.state = "browse"
	default:
		m.state = "loading"
	}

	if n := len(m.ctrl.Navigation()); m.catChoice >= n {
		m.catChoice = max(0, n-1)
	}
	if n := len(m.ctrl.Visible()); m.fileChoice >= n {
		m.fileChoice = max(0, n-1)
	}
	if id := m.ctrl.ActiveID(); id != m.lastActive {
		m.lastActive = id
		for i, f := range m.ctrl.Visible() {
			if f.ID == id {
				m.fileChoice = i
				break
			}
		}
	}
	m.scrollFiles()
	if n := len(cleanupRows(m.ctrl.Cleanup())); m.cleanupChoice >= n {
		m.cleanupChoice = max(0, n-1)
	}

	ed := m.ctrl.Editor()
	if ed.Status == controller.EditorReady {
		if m.shownID != ed.FileID {
			m.editor.SetValue(ed.Buffer)
			m.lossy = m.editor.Value() != ed.Buffer
			m.shownID = ed.FileID
			m.refreshPreview()
		}
	} else if m.shownID != "" {
		m.editor.SetValue("")
		m.shownID = ""
		m.lossy = false
		m.preview = false
	}
	if !m.editable() {
		m.editor.Blur()
	}
}

func (m *Model) scrollFiles() {
	rows := m.fileRows()
	if m.fileChoice < m.fileOffset {
		m.fileOffset = m.fileChoice
	}
	if m.fileChoice >= m.fileOffset+rows {
		m.fileOffset = m.fileChoice - rows + 1
	}
	if m.fileOffset < 0 {
		m.fileOffset = 0
	}
}

func (m *Model) refreshPreview() {
	ed := m.ctrl.Editor()
	if !m.preview || ed.File == nil {
		return
	}
	content := ed.Buffer
	if isMarkdown(ed.File.Name) {
		content = renderMarkdown(content, m.viewport.Width)
	}
	m.viewport.SetContent(content)
	m.viewport.GotoTop()
}

func (m *Model) resize() {
	_, _, editW := m.paneWidths()
	h := m.bodyHeight() - 3
	if h < 3 {
		h = 3
	}
	m.editor.SetWidth(editW)
	m.editor.SetHeight(h)
	m.viewport.Width = editW
	m.viewport.Height = h
	m.search.Width = m.width - 10
	m.help.Width = m.width
	m.scrollFiles()
	m.refreshPreview()
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "tab":
		m.searching = false
		m.search.Blur()
		m.debouncer.Flush()
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if v := m.search.Value(); v != before {
		m.debouncer.Trigger(v)
	}
	return m, cmd
}

func (m Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Save):
		return m, m.dispatch(controller.Save{})
	case key.Matches(msg, m.keys.Back):
		m.focus = focusFiles
		m.editor.Blur()
		return m, nil
	case key.Matches(msg, m.keys.NextFocus):
		return m.cycleFocus()
	}

	before := m.editor.Value()
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	if v := m.editor.Value(); v != before {
		return m, tea.Batch(cmd, m.dispatch(controller.EditContent{Content: v}))
	}
	return m, cmd
}

func (m Model) cycleFocus() (tea.Model, tea.Cmd) {
	for i, f := range focusOrder {
		if f == m.focus {
			m.focus = focusOrder[(i+1)%len(focusOrder)]
			break
		}
	}
	if m.focus == focusEditor && m.editable() {
		return m, m.editor.Focus()
	}
	m.editor.Blur()
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Rescan):
		if m.ctrl.Phase() == controller.PhaseIdle {
			return m, m.dispatch(controller.Load{})
		}
		return m, m.dispatch(controller.Rescan{})
	}

	if m.state != "browse" {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.NextFocus):
		return m.cycleFocus()

	case key.Matches(msg, m.keys.Back):
		if m.focus == focusEditor {
			m.focus = focusFiles
		}

	case key.Matches(msg, m.keys.Up):
		switch m.focus {
		case focusCategories:
			if m.catChoice > 0 {
				m.catChoice--
			}
		case focusFiles:
			if m.fileChoice > 0 {
				m.fileChoice--
				m.scrollFiles()
			}
		case focusEditor:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case key.Matches(msg, m.keys.Down):
		switch m.focus {
		case focusCategories:
			if m.catChoice < len(m.ctrl.Navigation())-1 {
				m.catChoice++
			}
		case focusFiles:
			if m.fileChoice < len(m.ctrl.Visible())-1 {
				m.fileChoice++
				m.scrollFiles()
			}
		case focusEditor:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case key.Matches(msg, m.keys.Open):
		switch m.focus {
		case focusCategories:
			nav := m.ctrl.Navigation()
			if m.catChoice < len(nav) {
				m.focus = focusFiles
				return m, m.dispatch(controller.SelectCategory{Category: nav[m.catChoice].ID})
			}
		case focusFiles:
			visible := m.ctrl.Visible()
			if m.fileChoice < len(visible) {
				return m, m.dispatch(controller.OpenFile{ID: visible[m.fileChoice].ID})
			}
		}

	case key.Matches(msg, m.keys.Save):
		return m, m.dispatch(controller.Save{})

	case key.Matches(msg, m.keys.Delete):
		return m, m.dispatch(controller.DeleteCurrent{})

	case key.Matches(msg, m.keys.DeleteVisible):
		return m, m.dispatch(controller.DeleteVisible{})

	case key.Matches(msg, m.keys.Cleanup):
		m.cleanupChoice = 0
		return m, m.dispatch(controller.AnalyzeCleanup{})

	case key.Matches(msg, m.keys.Preview):
		if m.ctrl.Editor().Status == controller.EditorReady {
			m.preview = !m.preview
			if m.preview {
				m.editor.Blur()
			}
			m.refreshPreview()
		}

	case key.Matches(msg, m.keys.CopyPath):
		ed := m.ctrl.Editor()
		if ed.File == nil {
			return m, m.pushToast(controller.LevelInfo, "No file open")
		}
		path := ed.File.Path
		if path == "" {
			path = ed.File.RelPath
		}
		return m, copyToClipboard(path)
	}

	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		return m, m.dispatch(controller.Confirm{})
	case key.Matches(msg, m.keys.Cancel):
		return m, m.dispatch(controller.Cancel{})
	case key.Matches(msg, m.keys.ToggleList):
		return m, m.dispatch(controller.ToggleFileList{})
	}
	return m, nil
}

func (m Model) updateCleanup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := m.ctrl.Cleanup()
	rows := cleanupRows(v)

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cleanupChoice > 0 {
			m.cleanupChoice--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cleanupChoice < len(rows)-1 {
			m.cleanupChoice++
		}

	case key.Matches(msg, m.keys.Toggle):
		if m.cleanupChoice >= len(rows) {
			return m, nil
		}
		row := rows[m.cleanupChoice]
		switch row.kind {
		case rowAll:
			return m, m.dispatch(controller.ToggleAll{Checked: v.Selection.All != selection.Checked})
		case rowGroup:
			for _, g := range v.Selection.Groups {
				if g.Name == row.group {
					return m, m.dispatch(controller.ToggleGroup{Group: g.Name, Checked: g.State != selection.Checked})
				}
			}
		case rowItem:
			for _, g := range v.Selection.Groups {
				for _, it := range g.Items {
					if it.ID == row.id {
						return m, m.dispatch(controller.ToggleItem{ID: it.ID, Checked: !it.Selected})
					}
				}
			}
		}

	case key.Matches(msg, m.keys.DeleteSelected):
		return m, m.dispatch(controller.DeleteSelected{})

	case key.Matches(msg, m.keys.Back):
		return m, m.dispatch(controller.Cancel{})
	}
	return m, nil
}
