package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/rahulvramesh/shelf/internal/backend"
	"github.com/rahulvramesh/shelf/internal/controller"
	"github.com/rahulvramesh/shelf/internal/debounce"
)

// Panes that can hold keyboard focus
const (
	focusCategories = "categories"
	focusFiles      = "files"
	focusEditor     = "editor"
)

var focusOrder = []string{focusCategories, focusFiles, focusEditor}

const maxToasts = 4

// Options configures the terminal UI
type Options struct {
	Backend        backend.Backend
	Log            logrus.FieldLogger
	Source         string // shown in the header
	SearchDebounce time.Duration
	NoticeTTL      time.Duration
}

type toast struct {
	id     int
	notice controller.Notice
}

// Model represents the application state
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc
	ctrl   *controller.Controller
	log    logrus.FieldLogger
	source string

	state     string // "loading", "browse", "confirm", "cleanup"
	focus     string
	searching bool
	preview   bool

	catChoice     int
	fileChoice    int
	fileOffset    int
	cleanupChoice int

	spinner  spinner.Model
	search   textinput.Model
	editor   textarea.Model
	viewport viewport.Model
	help     help.Model
	keys     keyMap

	// shownID is the file whose content the textarea currently holds
	shownID    string
	lastActive string

	// lossy is set when the textarea cannot hold the open file byte for byte
	lossy bool

	debouncer *debounce.Debouncer[string]
	searches  chan string

	noticeTTL time.Duration
	toasts    []toast
	nextToast int

	width  int
	height int
}

// New builds the UI over a backend
func New(opts Options) Model {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	ttl := opts.NoticeTTL
	if ttl <= 0 {
		ttl = 3 * time.Second
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	in := textinput.New()
	in.Prompt = "🔍 "
	in.Placeholder = "Search files..."
	in.CharLimit = 256

	ta := textarea.New()
	ta.Prompt = ""
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.Blur()

	h := help.New()
	h.Styles.ShortKey = HeaderStyle
	h.Styles.ShortDesc = DimStyle
	h.Styles.ShortSeparator = DimStyle

	ctx, cancel := context.WithCancel(context.Background())
	searches := make(chan string, 16)

	return Model{
		ctx:       ctx,
		cancel:    cancel,
		ctrl:      controller.New(opts.Backend, log),
		log:       log,
		source:    opts.Source,
		state:     "loading",
		focus:     focusFiles,
		spinner:   s,
		search:    in,
		editor:    ta,
		viewport:  viewport.New(60, 20),
		help:      h,
		keys:      newKeyMap(),
		searches:  searches,
		debouncer: debounce.New(opts.SearchDebounce, func(q string) { searches <- q }),
		noticeTTL: ttl,
		width:     120,
		height:    40,
	}
}

// Init starts the spinner, the first load and the search listener
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		waitForSearch(m.searches),
		runJob(m.ctx, m.ctrl.Dispatch(controller.Load{})),
	)
}

// Run starts the program on the alternate screen
func Run(opts Options) error {
	m := New(opts)
	defer m.close()
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m Model) close() {
	m.debouncer.Stop()
	m.cancel()
}
