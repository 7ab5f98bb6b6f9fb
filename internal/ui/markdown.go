package ui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

var (
	markdownMu       sync.Mutex
	markdownRenderer *glamour.TermRenderer
	markdownWidth    int
)

func isMarkdown(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".md") || strings.HasSuffix(lower, ".markdown")
}

// renderMarkdown returns glamour output, or content unchanged if rendering fails
func renderMarkdown(content string, width int) string {
	markdownMu.Lock()
	defer markdownMu.Unlock()

	if markdownRenderer == nil || markdownWidth != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return content
		}
		markdownRenderer = r
		markdownWidth = width
	}
	out, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return out
}
