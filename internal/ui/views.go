package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rahulvramesh/shelf/internal/catalog"
	"github.com/rahulvramesh/shelf/internal/controller"
	"github.com/rahulvramesh/shelf/internal/selection"
	"github.com/rahulvramesh/shelf/internal/types"
	"github.com/rahulvramesh/shelf/internal/utils"
)

const categoryWidth = 26

func (m Model) paneWidths() (int, int, int) {
	rest := m.width - categoryWidth - 12
	if rest < 40 {
		rest = 40
	}
	list := rest * 2 / 5
	return categoryWidth, list, rest - list
}

func (m Model) bodyHeight() int {
	return max(5, m.height-9)
}

// fileRows is how many files fit in the list; each takes two lines
func (m Model) fileRows() int {
	return max(1, (m.bodyHeight()-3)/2)
}

var busyLabels = []struct {
	op    controller.Op
	label string
}{
	{controller.OpLoading, "Loading files..."},
	{controller.OpRescanning, "Rescanning..."},
	{controller.OpSaving, "Saving..."},
	{controller.OpDeleting, "Deleting..."},
	{controller.OpBulkDeleting, "Deleting files..."},
	{controller.OpCleanupAnalyzing, "Analyzing cleanup candidates..."},
	{controller.OpCleanupDeleting, "Deleting selected files..."},
}

// View renders the UI
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(m.renderHeader())
	s.WriteString("\n")
	s.WriteString(m.search.View())
	s.WriteString("\n\n")

	var content string
	switch m.state {
	case "loading":
		content = m.renderLoading()
	case "browse":
		content = m.renderBrowse()
	case "confirm":
		content = m.renderConfirm()
	case "cleanup":
		content = m.renderCleanup()
	}
	s.WriteString(content)
	s.WriteString("\n")

	if toasts := m.renderToasts(); toasts != "" {
		s.WriteString(toasts)
		s.WriteString("\n")
	}

	switch m.state {
	case "confirm":
		s.WriteString(m.help.ShortHelpView(m.keys.confirmHelp()))
	case "cleanup":
		s.WriteString(m.help.ShortHelpView(m.keys.cleanupHelp()))
	default:
		s.WriteString(m.help.View(m.keys))
	}
	return s.String()
}

func (m Model) renderHeader() string {
	parts := []string{TitleStyle.Render("🗄️  shelf")}
	if m.source != "" {
		parts = append(parts, DimStyle.Render(m.source))
	}
	if m.ctrl.Loaded() {
		parts = append(parts, DimStyle.Render(utils.Plural(m.ctrl.FileCount(), "file")))
	}
	for _, b := range busyLabels {
		if m.ctrl.Busy(b.op) {
			parts = append(parts, m.spinner.View()+" "+b.label)
			break
		}
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderLoading() string {
	if m.ctrl.Phase() == controller.PhaseLoading {
		return "  " + m.spinner.View() + " Loading files..."
	}
	return "  " + WarningStyle.Render("No files loaded") + "\n\n" +
		DimStyle.Render("  Press r to retry, q to quit")
}

func (m Model) renderBrowse() string {
	catW, listW, editW := m.paneWidths()
	h := m.bodyHeight()

	pane := func(focus string, w int, body string) string {
		style := PaneStyle
		if m.focus == focus && !m.searching {
			style = FocusedPaneStyle
		}
		return style.Width(w).Height(h).Render(body)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		pane(focusCategories, catW, m.renderCategories(catW)),
		pane(focusFiles, listW, m.renderFiles(listW)),
		pane(focusEditor, editW, m.renderEditor(editW)),
	)
}

func (m Model) renderCategories(width int) string {
	var s strings.Builder
	s.WriteString(HeaderStyle.Render("Categories"))
	s.WriteString("\n\n")

	for i, e := range m.ctrl.Navigation() {
		cursor := "  "
		if m.focus == focusCategories && m.catChoice == i {
			cursor = "▸ "
		}
		label := utils.TruncateName(e.Icon+" "+e.Label, width-4)
		style := lipgloss.NewStyle()
		if e.Active {
			style = SelectedStyle
		}
		s.WriteString(cursor + style.Render(label) + "\n")
		badge := fmt.Sprintf("%d · %s", e.Count, utils.FormatFileSize(e.TotalSize))
		s.WriteString("    " + DimStyle.Render(badge) + "\n")
	}
	return s.String()
}

func fileTags(f types.FileRecord) string {
	var tags []string
	if f.Scope == types.ScopeProject && f.ProjectName != "" {
		tags = append(tags, f.ProjectName)
	} else if f.Scope != "" {
		tags = append(tags, string(f.Scope))
	}
	tags = append(tags, string(f.Category))
	if f.ReadOnly {
		tags = append(tags, "🔒")
	}
	return TagStyle.Render("[" + strings.Join(tags, "] [") + "]")
}

func (m Model) renderFiles(width int) string {
	var s strings.Builder
	visible := m.ctrl.Visible()
	s.WriteString(HeaderStyle.Render(fmt.Sprintf("Files (%d)", len(visible))))
	s.WriteString("\n\n")

	if len(visible) == 0 {
		s.WriteString(DimStyle.Render("No files match"))
		return s.String()
	}

	now := time.Now()
	end := min(m.fileOffset+m.fileRows(), len(visible))
	for i := m.fileOffset; i < end; i++ {
		f := visible[i]
		cursor := "  "
		if m.focus == focusFiles && m.fileChoice == i {
			cursor = "▸ "
		}
		name := utils.TruncateName(catalog.DisplayName(f), width/2)
		style := lipgloss.NewStyle()
		if f.ID == m.ctrl.ActiveID() {
			style = SelectedStyle
		}
		s.WriteString(cursor + style.Render(name) + " " + fileTags(f) + "\n")

		meta := fmt.Sprintf("%s · %s · %s",
			utils.TruncatePath(f.RelPath, width-24),
			utils.FormatFileSize(f.Size),
			utils.FormatAge(f.ModTime, now),
		)
		s.WriteString("    " + DimStyle.Render(meta) + "\n")
	}

	if len(visible) > m.fileRows() {
		s.WriteString(DimStyle.Render(fmt.Sprintf("[%d-%d of %d]", m.fileOffset+1, end, len(visible))))
	}
	return s.String()
}

func (m Model) renderEditor(width int) string {
	ed := m.ctrl.Editor()
	var s strings.Builder

	switch ed.Status {
	case controller.EditorEmpty:
		s.WriteString(DimStyle.Render("Select a file to view its contents"))
		return s.String()
	case controller.EditorLoading:
		s.WriteString(m.spinner.View() + " Loading file...")
		return s.String()
	case controller.EditorError:
		s.WriteString(ErrorStyle.Render("Error: " + ed.Err))
		return s.String()
	}

	title := HeaderStyle.Render(utils.TruncateName(catalog.DisplayName(*ed.File), width-20))
	if ed.Dirty() {
		title += " " + WarningStyle.Render("● modified")
	}
	if ed.ReadOnly() || m.lossy {
		title += " " + DimStyle.Render("(read-only)")
	}
	if m.preview {
		title += " " + TagStyle.Render("[preview]")
	}
	s.WriteString(title + "\n")
	s.WriteString(DimStyle.Render(utils.TruncatePath(ed.File.RelPath, width)) + "\n\n")

	if m.preview {
		s.WriteString(m.viewport.View())
	} else {
		s.WriteString(m.editor.View())
	}
	return s.String()
}

func (m Model) renderConfirm() string {
	d := m.ctrl.ConfirmDialog()
	if d == nil {
		return ""
	}
	var s strings.Builder
	s.WriteString(WarningStyle.Bold(true).Render("⚠️  " + d.Title))
	s.WriteString("\n\n")
	s.WriteString(d.Message)
	s.WriteString("\n\n")

	if d.Kind == controller.ConfirmDeleteVisible {
		if d.ShowList {
			s.WriteString(DimStyle.Render("Hide file list (l)"))
			s.WriteString("\n")
			const limit = 15
			for i, f := range d.Files {
				if i == limit {
					s.WriteString(DimStyle.Render(fmt.Sprintf("  ...and %d more", len(d.Files)-limit)) + "\n")
					break
				}
				s.WriteString("  • " + catalog.DisplayName(f) + " " + DimStyle.Render(f.RelPath) + "\n")
			}
		} else {
			s.WriteString(DimStyle.Render(fmt.Sprintf("Show file list (%d) (l)", len(d.Files))))
			s.WriteString("\n")
		}
	} else if len(d.Files) == 1 {
		s.WriteString(HeaderStyle.Render(catalog.DisplayName(d.Files[0])))
		s.WriteString("\n" + DimStyle.Render(d.Files[0].RelPath) + "\n")
	}

	s.WriteString("\n")
	s.WriteString(ErrorStyle.Render("This cannot be undone."))
	return m.placeDialog(s.String())
}

func checkbox(state selection.TriState) string {
	switch state {
	case selection.Checked:
		return "☑️"
	case selection.Indeterminate:
		return "▣"
	}
	return "☐"
}

func (m Model) renderCleanup() string {
	v := m.ctrl.Cleanup()
	if v == nil {
		return ""
	}
	var s strings.Builder
	s.WriteString(HeaderStyle.Render("🧹 Cleanup Candidates"))
	s.WriteString("\n\n")

	if v.TotalCount == 0 {
		s.WriteString(SuccessStyle.Render("Nothing to clean up"))
		return m.placeDialog(s.String())
	}

	s.WriteString(DimStyle.Render(fmt.Sprintf("%s · %s", utils.Plural(v.TotalCount, "file"), utils.FormatFileSize(v.TotalSize))))
	s.WriteString("\n\n")

	rows := cleanupRows(v)
	limit := max(5, m.bodyHeight()-8)
	start := 0
	if m.cleanupChoice >= limit {
		start = m.cleanupChoice - limit + 1
	}

	for i, row := range rows {
		if i < start || i >= start+limit {
			continue
		}
		cursor := "  "
		style := lipgloss.NewStyle()
		if m.cleanupChoice == i {
			cursor = "▸ "
			style = SelectedStyle
		}
		s.WriteString(cursor + style.Render(m.cleanupLine(v, row)) + "\n")
	}

	s.WriteString("\n")
	sel := fmt.Sprintf("Selected %s (%s)", utils.Plural(v.Selection.SelectedCount, "file"), utils.FormatFileSize(v.Selection.SelectedSize))
	if v.Selection.CanSubmit {
		s.WriteString(SuccessStyle.Render(sel))
	} else {
		s.WriteString(DimStyle.Render(sel))
	}
	if v.Deleting {
		s.WriteString("\n" + m.spinner.View() + " Deleting...")
	}
	if v.Err != "" {
		s.WriteString("\n" + ErrorStyle.Render("Error: "+v.Err))
	}
	return m.placeDialog(s.String())
}

func (m Model) cleanupLine(v *controller.CleanupView, row cleanupRow) string {
	switch row.kind {
	case rowAll:
		return checkbox(v.Selection.All) + " Select all"
	case rowGroup:
		for _, g := range v.Selection.Groups {
			if g.Name == row.group {
				return fmt.Sprintf("%s %s (%d)", checkbox(g.State), types.ReasonTitle(types.Reason(g.Name)), len(g.Items))
			}
		}
	case rowItem:
		it := v.Items[row.id]
		box := checkbox(selection.Unchecked)
		for _, g := range v.Selection.Groups {
			for _, iv := range g.Items {
				if iv.ID == row.id && iv.Selected {
					box = checkbox(selection.Checked)
				}
			}
		}
		label := it.ReasonLabel
		if label == "" {
			label = types.ReasonTitle(it.Reason)
		}
		return fmt.Sprintf("    %s %s  %s  %s", box, catalog.DisplayName(it.FileRecord),
			DimStyle.Render(label), utils.FormatFileSize(it.Size))
	}
	return ""
}

func (m Model) placeDialog(body string) string {
	w := min(m.width-4, 90)
	return lipgloss.Place(m.width, m.bodyHeight(), lipgloss.Center, lipgloss.Center,
		DialogStyle.Width(w).Render(body))
}

func (m Model) renderToasts() string {
	var lines []string
	for _, t := range m.toasts {
		switch t.notice.Level {
		case controller.LevelSuccess:
			lines = append(lines, SuccessStyle.Render("✅ "+t.notice.Text))
		case controller.LevelError:
			lines = append(lines, ErrorStyle.Render("❌ "+t.notice.Text))
		default:
			lines = append(lines, WarningStyle.Render("ℹ️  "+t.notice.Text))
		}
	}
	return strings.Join(lines, "\n")
}
