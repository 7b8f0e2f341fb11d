// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the folio document collection to agents via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/folio-md/folio/internal/api"
)

// Server wraps the MCP server with folio tools.
type Server struct {
	mcp *server.MCPServer
	svc *api.Service
}

// New creates a new MCP server with all folio tools registered. svc must
// already hold a loaded snapshot.
func New(svc *api.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Folio",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_types",
		mcp.WithDescription("List the configured document types with document counts and validity."),
	), s.listTypes)

	s.mcp.AddTool(mcp.NewTool("list_documents",
		mcp.WithDescription("List documents of a type. Supports an optional substring query over titles and bodies."),
		mcp.WithString("type", mcp.Required(), mcp.Description("Document type name (e.g. adr)")),
		mcp.WithString("query", mcp.Description("Optional case-insensitive substring filter")),
	), s.listDocuments)

	s.mcp.AddTool(mcp.NewTool("read_document",
		mcp.WithDescription("Read one document of a type, including its parsed front matter and validation findings."),
		mcp.WithString("type", mcp.Required(), mcp.Description("Document type name")),
		mcp.WithString("file", mcp.Required(), mcp.Description("Document file name (e.g. 0001-first-decision.md)")),
	), s.readDocument)

	s.mcp.AddTool(mcp.NewTool("validate_documents",
		mcp.WithDescription("Validate every document of a type against its schema and report all findings."),
		mcp.WithString("type", mcp.Required(), mcp.Description("Document type name")),
	), s.validateDocuments)

	s.mcp.AddTool(mcp.NewTool("build_prompt",
		mcp.WithDescription("Build a context prompt describing a type's schema contract and current documents. "+
			"Call this before creating documents of the type."),
		mcp.WithString("type", mcp.Required(), mcp.Description("Document type name")),
	), s.buildPrompt)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listTypes(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.Types())
}

func (s *Server) listDocuments(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	typeName, err := req.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	query := req.GetString("query", "")

	docs, err := s.svc.Documents(typeName, nil, query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(docs)
}

func (s *Server) readDocument(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	typeName, err := req.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	file, err := req.RequireString("file")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := s.svc.Document(typeName, file)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(doc)
}

func (s *Server) validateDocuments(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	typeName, err := req.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rep, err := s.svc.Validation(typeName)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(rep)
}

func (s *Server) buildPrompt(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	typeName, err := req.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text, err := s.svc.Prompt(typeName)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}
