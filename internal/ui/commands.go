package ui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rahulvramesh/shelf/internal/controller"
)

type jobDoneMsg struct {
	result controller.Result
}

type searchSettledMsg struct {
	query string
}

type toastExpiredMsg struct {
	id int
}

type clipboardMsg struct {
	path string
	err  error
}

// runJob turns a controller job into a command; a nil job yields nil
func runJob(ctx context.Context, job controller.Job) tea.Cmd {
	if job == nil {
		return nil
	}
	return func() tea.Msg {
		return jobDoneMsg{result: job(ctx)}
	}
}

// waitForSearch blocks until the debouncer settles on a query
func waitForSearch(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		q, ok := <-ch
		if !ok {
			return nil
		}
		return searchSettledMsg{query: q}
	}
}

func expireToast(id int, ttl time.Duration) tea.Cmd {
	return tea.Tick(ttl, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func copyToClipboard(path string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{path: path, err: clipboard.WriteAll(path)}
	}
}
