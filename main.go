package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"github.com/rahulvramesh/shelf/internal/backend"
	"github.com/rahulvramesh/shelf/internal/catalog"
	"github.com/rahulvramesh/shelf/internal/config"
	"github.com/rahulvramesh/shelf/internal/logging"
	"github.com/rahulvramesh/shelf/internal/mcpserver"
	"github.com/rahulvramesh/shelf/internal/scanner"
	"github.com/rahulvramesh/shelf/internal/selection"
	"github.com/rahulvramesh/shelf/internal/server"
	"github.com/rahulvramesh/shelf/internal/types"
	"github.com/rahulvramesh/shelf/internal/ui"
	"github.com/rahulvramesh/shelf/internal/utils"
)

var Version = "dev"

// Globals are flags shared by every command. Zero values leave the config
// file setting in place
type Globals struct {
	Config    string `help:"Config file" type:"path" placeholder:"PATH"`
	Root      string `help:"Scan this directory instead of the default locations" type:"path"`
	StaleDays int    `help:"Days without modification before a file counts as stale" name:"stale-days"`
	LogLevel  string `help:"Log level (debug, info, warn, error)" name:"log-level"`
}

type CLI struct {
	Globals

	TUI     TUICmd     `cmd:"" default:"withargs" help:"Browse and edit files in the terminal"`
	Serve   ServeCmd   `cmd:"" help:"Serve the HTTP API over the local files"`
	MCP     MCPCmd     `cmd:"" name:"mcp" help:"Serve read-only catalog tools over MCP stdio"`
	Cleanup CleanupCmd `cmd:"" help:"List cleanup candidates, optionally deleting them"`
	Version VersionCmd `cmd:"" help:"Print the version"`
}

// load reads the config file and applies flag overrides
func (g *Globals) load() (config.Config, error) {
	path := g.Config
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if g.Root != "" {
		cfg.Root = g.Root
	}
	if g.StaleDays > 0 {
		cfg.StaleDays = g.StaleDays
	}
	if g.LogLevel != "" {
		cfg.LogLevel = g.LogLevel
	}
	return cfg, cfg.Validate()
}

func newLocal(cfg config.Config, log logrus.FieldLogger) *backend.Local {
	sc := scanner.NewScanner(cfg.Root)
	sc.Log = log
	return backend.NewLocal(sc,
		backend.WithLogger(log),
		backend.WithStaleDays(cfg.StaleDays),
	)
}

// openBackend picks the remote client when a URL is given
func openBackend(cfg config.Config, remote string, log logrus.FieldLogger) (backend.Backend, string) {
	if remote == "" {
		remote = cfg.Remote
	}
	if remote != "" {
		return backend.NewClient(remote), remote
	}
	source := "~/.claude"
	if cfg.Root != "" {
		source = utils.RelativeDisplay(cfg.Root, utils.HomeDir())
	}
	return newLocal(cfg, log), source
}

type TUICmd struct {
	Remote string `help:"URL of a running 'shelf serve' instance"`
}

func (cmd *TUICmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	if cmd.Remote != "" {
		cfg.Remote = cmd.Remote
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	file := cfg.LogFile
	if file == "" {
		file = logging.DefaultFile()
	}
	log, closer, err := logging.Setup(cfg.LogLevel, file)
	if err != nil {
		return err
	}
	defer closer.Close()

	b, source := openBackend(cfg, cfg.Remote, log)
	log.WithField("source", source).Info("starting terminal UI")
	return ui.Run(ui.Options{
		Backend:        b,
		Log:            log,
		Source:         source,
		SearchDebounce: cfg.SearchDebounce,
		NoticeTTL:      cfg.NoticeTTL,
	})
}

type ServeCmd struct {
	Host string `help:"Interface to bind" default:"127.0.0.1"`
	Port int    `help:"Port to listen on (default from config)"`
}

func (cmd *ServeCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	if cmd.Port != 0 {
		cfg.Port = cmd.Port
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	log, _, err := logging.Setup(cfg.LogLevel, "")
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(newLocal(cfg, log), log)
	return srv.ListenAndServe(ctx, fmt.Sprintf("%s:%d", cmd.Host, cfg.Port))
}

type MCPCmd struct{}

func (cmd *MCPCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	log, _, err := logging.Setup(cfg.LogLevel, "")
	if err != nil {
		return err
	}
	log.Info("serving MCP over stdio")
	return mcpserver.Serve(newLocal(cfg, log), Version)
}

type CleanupCmd struct {
	Delete bool   `help:"Delete every candidate"`
	Remote string `help:"URL of a running 'shelf serve' instance"`
}

func (cmd *CleanupCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	log, _, err := logging.Setup(cfg.LogLevel, "")
	if err != nil {
		return err
	}
	b, _ := openBackend(cfg, cmd.Remote, log)
	return cmd.run(context.Background(), b, os.Stdout)
}

func (cmd *CleanupCmd) run(ctx context.Context, b backend.Backend, out io.Writer) error {
	res, err := b.AnalyzeCleanup(ctx)
	if err != nil {
		return fmt.Errorf("cleanup analysis: %w", err)
	}
	if res.TotalCount == 0 {
		fmt.Fprintln(out, "Nothing to clean up.")
		return nil
	}

	items := make(map[string]types.CleanupItem, len(res.Items))
	for _, it := range res.Items {
		items[it.ID] = it
	}
	fmt.Fprintf(out, "Cleanup candidates: %s (%s)\n", utils.Plural(res.TotalCount, "file"), utils.FormatFileSize(res.TotalSize))

	sel := selection.FromCleanup(res.Items)
	for _, group := range sel.Groups() {
		fmt.Fprintf(out, "\n%s\n", types.ReasonTitle(types.Reason(group)))
		for _, it := range sel.Items(group) {
			item := items[it.ID]
			fmt.Fprintf(out, "  %-40s %8s  %s\n", item.RelPath, utils.FormatFileSize(item.Size), item.ReasonLabel)
		}
	}

	if !cmd.Delete {
		fmt.Fprintln(out, "\nRun with --delete to remove these files.")
		return nil
	}

	result, err := b.BulkDelete(ctx, sel.SelectedIDs())
	if err != nil {
		return fmt.Errorf("bulk delete: %w", err)
	}
	fmt.Fprintf(out, "\nDeleted %s\n", utils.Plural(result.Deleted, "file"))
	if n := len(result.Errors); n > 0 {
		fmt.Fprintf(out, "%s failed to delete\n", utils.Plural(n, "file"))
		for _, e := range result.Errors {
			name := e.ID
			if item, ok := items[e.ID]; ok {
				name = catalog.DisplayName(item.FileRecord)
			}
			fmt.Fprintf(out, "  %s: %s\n", name, e.Message)
		}
	}
	return nil
}

type VersionCmd struct{}

func (cmd *VersionCmd) Run() error {
	fmt.Println("shelf", Version)
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("shelf"),
		kong.Description("Browse, edit and clean up an assistant's configuration and memory files."),
		kong.UsageOnError(),
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
