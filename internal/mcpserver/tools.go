// Package mcpserver publishes the catalog as read-only MCP tools.
//
// Each tool is a struct holding the backend, with Definition() returning
// the schema and Handle() serving a call
package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rahulvramesh/shelf/internal/backend"
	"github.com/rahulvramesh/shelf/internal/catalog"
	"github.com/rahulvramesh/shelf/internal/selection"
	"github.com/rahulvramesh/shelf/internal/types"
	"github.com/rahulvramesh/shelf/internal/utils"
)

// ListFilesTool handles the list_files MCP tool
type ListFilesTool struct {
	backend backend.Backend
}

// NewListFilesTool creates a ListFilesTool
func NewListFilesTool(b backend.Backend) *ListFilesTool {
	return &ListFilesTool{backend: b}
}

// Definition returns the MCP tool definition for list_files
func (t *ListFilesTool) Definition() mcp.Tool {
	return mcp.NewTool("list_files",
		mcp.WithDescription("List assistant configuration and memory files, newest first."),
		mcp.WithString("category",
			mcp.Description("Only files in this category: memory, settings, todos, plans, skills, project, other"),
		),
		mcp.WithString("search",
			mcp.Description("Case-insensitive substring matched against name, path and project"),
		),
	)
}

// Handle processes the list_files tool call
func (t *ListFilesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := catalog.Filter{
		Category: types.Category(req.GetString("category", "")),
		Query:    req.GetString("search", ""),
	}
	files, err := t.backend.ListFiles(ctx, backend.ListOptions{Category: filter.Category, Search: filter.Query})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list files: %v", err)), nil
	}
	files = catalog.VisibleFiles(files, filter)

	if len(files) == 0 {
		return mcp.NewToolResultText("No files found."), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Files (%s)\n\n", utils.Plural(len(files), "file")))
	for _, f := range files {
		ro := ""
		if f.ReadOnly {
			ro = " (read-only)"
		}
		sb.WriteString(fmt.Sprintf("- `%s` **%s** [%s] %s, %s%s\n",
			f.ID, catalog.DisplayName(f), f.Category, f.RelPath, utils.FormatFileSize(f.Size), ro))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// ReadFileTool handles the read_file MCP tool
type ReadFileTool struct {
	backend backend.Backend
}

// NewReadFileTool creates a ReadFileTool
func NewReadFileTool(b backend.Backend) *ReadFileTool {
	return &ReadFileTool{backend: b}
}

// Definition returns the MCP tool definition for read_file
func (t *ReadFileTool) Definition() mcp.Tool {
	return mcp.NewTool("read_file",
		mcp.WithDescription("Read the content of a catalog file by id (ids come from list_files)."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("File id"),
		),
	)
}

// Handle processes the read_file tool call
func (t *ReadFileTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}
	fc, err := t.backend.GetFile(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read %s: %v", id, err)), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s\n\n", catalog.DisplayName(fc.FileRecord)))
	sb.WriteString(fmt.Sprintf("Path: %s\n\n", fc.Path))
	sb.WriteString(fc.Content)
	return mcp.NewToolResultText(sb.String()), nil
}

// CleanupTool handles the cleanup_candidates MCP tool
type CleanupTool struct {
	backend backend.Backend
}

// NewCleanupTool creates a CleanupTool
func NewCleanupTool(b backend.Backend) *CleanupTool {
	return &CleanupTool{backend: b}
}

// Definition returns the MCP tool definition for cleanup_candidates
func (t *CleanupTool) Definition() mcp.Tool {
	return mcp.NewTool("cleanup_candidates",
		mcp.WithDescription("List empty, near-empty and stale files that are safe to remove. Nothing is deleted."),
	)
}

// Handle processes the cleanup_candidates tool call
func (t *CleanupTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := t.backend.AnalyzeCleanup(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cleanup analysis failed: %v", err)), nil
	}
	if res.TotalCount == 0 {
		return mcp.NewToolResultText("Nothing to clean up."), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Cleanup candidates: %s, %s\n",
		utils.Plural(res.TotalCount, "file"), utils.FormatFileSize(res.TotalSize)))

	byID := make(map[string]types.CleanupItem, len(res.Items))
	for _, it := range res.Items {
		byID[it.ID] = it
	}
	groups := selection.FromCleanup(res.Items)
	for _, g := range groups.Groups() {
		sb.WriteString(fmt.Sprintf("\n### %s\n\n", types.ReasonTitle(types.Reason(g))))
		for _, item := range groups.Items(g) {
			it := byID[item.ID]
			sb.WriteString(fmt.Sprintf("- `%s` %s: %s\n", it.ID, it.RelPath, it.ReasonLabel))
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}
