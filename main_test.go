package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/rahulvramesh/shelf/internal/backend/backendtest"
	"github.com/rahulvramesh/shelf/internal/types"
)

func TestCLI_Structure(t *testing.T) {
	var cli CLI

	_ = cli.TUI
	_ = cli.Serve
	_ = cli.MCP
	_ = cli.Cleanup
	_ = cli.Version
}

func TestKongParsing(t *testing.T) {
	var cli CLI
	parser := kong.Must(&cli)
	if parser == nil {
		t.Error("Kong parser should not be nil")
	}
}

func TestKongParsing_Commands(t *testing.T) {
	testCases := []struct {
		name        string
		args        []string
		command     string
		expectError bool
		check       func(t *testing.T, cli *CLI)
	}{
		{
			name:    "serve with port",
			args:    []string{"serve", "--port", "9000"},
			command: "serve",
			check: func(t *testing.T, cli *CLI) {
				if cli.Serve.Port != 9000 || cli.Serve.Host != "127.0.0.1" {
					t.Errorf("serve flags = %+v", cli.Serve)
				}
			},
		},
		{
			name:    "cleanup with delete",
			args:    []string{"cleanup", "--delete"},
			command: "cleanup",
			check: func(t *testing.T, cli *CLI) {
				if !cli.Cleanup.Delete {
					t.Error("expected --delete to be set")
				}
			},
		},
		{
			name:    "global flags",
			args:    []string{"--stale-days", "45", "--log-level", "debug", "mcp"},
			command: "mcp",
			check: func(t *testing.T, cli *CLI) {
				if cli.StaleDays != 45 || cli.LogLevel != "debug" {
					t.Errorf("globals = %+v", cli.Globals)
				}
			},
		},
		{
			name:    "version",
			args:    []string{"version"},
			command: "version",
		},
		{
			name:        "unknown command",
			args:        []string{"bogus"},
			expectError: true,
		},
		{
			name:        "bad port",
			args:        []string{"serve", "--port", "abc"},
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var cli CLI
			parser := kong.Must(&cli)

			ctx, err := parser.Parse(tc.args)
			if tc.expectError {
				if err == nil {
					t.Errorf("Expected error for args %v, but parsing succeeded", tc.args)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error for args %v: %v", tc.args, err)
			}
			if !strings.HasPrefix(ctx.Command(), tc.command) {
				t.Errorf("Expected %q command, got %q", tc.command, ctx.Command())
			}
			if tc.check != nil {
				tc.check(t, &cli)
			}
		})
	}
}

func TestGlobalsLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("stale_days: 10\nlog_level: warn\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	g := &Globals{Config: path}
	cfg, err := g.load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StaleDays != 10 || cfg.LogLevel != "warn" || cfg.Port != 8010 {
		t.Errorf("config = %+v", cfg)
	}

	g = &Globals{Config: path, StaleDays: 60, LogLevel: "debug", Root: dir}
	cfg, err = g.load()
	if err != nil {
		t.Fatalf("load with overrides: %v", err)
	}
	if cfg.StaleDays != 60 || cfg.LogLevel != "debug" || cfg.Root != dir {
		t.Errorf("overrides not applied: %+v", cfg)
	}

	g = &Globals{Config: path, Root: filepath.Join(dir, "missing")}
	if _, err := g.load(); err == nil {
		t.Error("expected a missing root to fail validation")
	}
}

func cleanupFake() *backendtest.Fake {
	a := types.FileRecord{ID: "a", Name: "empty.md", RelPath: "~/.claude/empty.md"}
	b := types.FileRecord{ID: "b", Name: "old.md", RelPath: "~/.claude/old.md", Size: 2048}
	ghost := types.FileRecord{ID: "ghost", Name: "gone.md", RelPath: "~/.claude/gone.md"}

	f := backendtest.New(a, b)
	f.Cleanup = &types.CleanupResult{Items: []types.CleanupItem{
		{FileRecord: a, Reason: types.ReasonEmptyFile, ReasonLabel: "File is empty (0 bytes)"},
		{FileRecord: b, Reason: types.ReasonStale, ReasonLabel: "Not modified in 90 days"},
		{FileRecord: ghost, Reason: types.ReasonStale, ReasonLabel: "Not modified in 91 days"},
	}, TotalCount: 3, TotalSize: 2048}
	return f
}

func TestCleanupCmdListsCandidates(t *testing.T) {
	f := cleanupFake()
	var out bytes.Buffer

	cmd := &CleanupCmd{}
	if err := cmd.run(context.Background(), f, &out); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	for _, want := range []string{"3 files", "Empty files", "Stale files", "~/.claude/old.md", "--delete"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if len(f.BulkIDs) != 0 {
		t.Error("listing must not delete")
	}
}

func TestCleanupCmdDeleteReportsCounts(t *testing.T) {
	f := cleanupFake()
	var out bytes.Buffer

	cmd := &CleanupCmd{Delete: true}
	if err := cmd.run(context.Background(), f, &out); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if strings.Join(f.BulkIDs[0], ",") != "a,b,ghost" {
		t.Errorf("deleted ids = %v", f.BulkIDs[0])
	}
	for _, want := range []string{"Deleted 2 files", "1 file failed to delete", "gone.md: not found"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestCleanupCmdNothingToDo(t *testing.T) {
	var out bytes.Buffer
	if err := (&CleanupCmd{Delete: true}).run(context.Background(), backendtest.New(), &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Nothing to clean up") {
		t.Errorf("output = %q", out.String())
	}
}

func TestCleanupCmdAnalysisError(t *testing.T) {
	f := backendtest.New()
	f.Fail("AnalyzeCleanup", errors.New("offline"))
	err := (&CleanupCmd{}).run(context.Background(), f, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "offline") {
		t.Errorf("err = %v", err)
	}
}
