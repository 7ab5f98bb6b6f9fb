package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/rahulvramesh/shelf/internal/backend"
)

const instructions = `shelf catalogs an assistant's configuration and memory files.
Use list_files to browse (optionally by category or search text), read_file
to fetch content by id, and cleanup_candidates to see what could be removed.
These tools never modify files.`

// New creates an MCP server with the catalog tools registered
func New(b backend.Backend, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"shelf",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	listTool := NewListFilesTool(b)
	s.AddTool(listTool.Definition(), listTool.Handle)

	readTool := NewReadFileTool(b)
	s.AddTool(readTool.Definition(), readTool.Handle)

	cleanupTool := NewCleanupTool(b)
	s.AddTool(cleanupTool.Definition(), cleanupTool.Handle)

	return s
}

// Serve runs the MCP server over stdio until stdin closes
func Serve(b backend.Backend, version string) error {
	return server.ServeStdio(New(b, version))
}
