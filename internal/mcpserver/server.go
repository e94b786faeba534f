// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes vault conversion tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/zttl/internal/convert"
	"github.com/starford/zttl/internal/ledger"
	"github.com/starford/zttl/internal/zettel"
)

const formatURI = "zttl://note-format"

// Server wraps the MCP server with conversion tools.
type Server struct {
	mcp *server.MCPServer
	svc *convert.Service

	// mu serialises pipeline access; tool calls may arrive concurrently.
	mu sync.Mutex
}

// New creates a new MCP server with all tools registered.
func New(svc *convert.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"zttl",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("convert_vault",
		mcp.WithDescription("Rename every unconverted note to <timestamp>-<slug>.md, inject its metadata header, "+
			"and rewrite links in converted notes. Returns a JSON report."),
	), s.convertVault)

	s.mcp.AddTool(mcp.NewTool("normalize_title",
		mcp.WithDescription("Compute the identifier a title would receive."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Note title without extension")),
		mcp.WithString("timestamp", mcp.Description("10-digit Unix seconds; defaults to now")),
	), s.normalizeTitle)

	s.mcp.AddTool(mcp.NewTool("lookup_rename",
		mcp.WithDescription("Find the identifier an old note title was renamed to."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Title before conversion")),
	), s.lookupRename)

	s.mcp.AddTool(mcp.NewTool("list_renames",
		mcp.WithDescription("List every rename recorded in the ledger as `old -> new` lines."),
	), s.listRenames)

	s.mcp.AddResource(
		mcp.NewResource(formatURI, "Note Format Contract",
			mcp.WithResourceDescription("Header, naming, and link format produced by conversion."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readNoteFormatResource,
	)

	return s
}

// Serve runs the stdio transport on in/out until ctx is cancelled or in is
// exhausted.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	err := server.NewStdioServer(s.mcp).Listen(ctx, in, out)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) convertVault(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, err := s.svc.Run()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) normalizeTitle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ts := req.GetString("timestamp", "")
	if ts == "" {
		ts = zettel.Timestamp(time.Now())
	}
	return mcp.NewToolResultText(zettel.Normalize(title, ts)), nil
}

func (s *Server) lookupRename(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok, err := s.svc.Lookup(title)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !ok {
		return mcp.NewToolResultText(fmt.Sprintf("no rename recorded for %q", title)), nil
	}
	return mcp.NewToolResultText(id), nil
}

func (s *Server) listRenames(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	table, err := s.svc.Renames()
	s.mu.Unlock()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(table) == 0 {
		return mcp.NewToolResultText("no renames recorded"), nil
	}

	titles := make([]string, 0, len(table))
	for old := range table {
		titles = append(titles, old)
	}
	sort.Strings(titles)

	lines := make([]string, len(titles))
	for i, old := range titles {
		lines[i] = old + ledger.Separator + table[old]
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) readNoteFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      formatURI,
			MIMEType: "text/markdown",
			Text:     NoteFormatContract,
		},
	}, nil
}
