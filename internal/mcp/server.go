// Package mcp exposes the search service as a remote MCP server.
package mcp

import (
	"context"
	"net/http"

	"github.com/Laisky/errors/v2"
	logSDK "github.com/Laisky/go-utils/v6/log"
	mcp "github.com/mark3labs/mcp-go/mcp"
	srv "github.com/mark3labs/mcp-go/server"

	"github.com/sheersh03/CaveBeat-Search-Engine/internal/mcp/tools"
	"github.com/sheersh03/CaveBeat-Search-Engine/library/log"
)

const (
	serverName    = "cavebeat-search"
	serverVersion = "1.0.0"
)

// Server wraps the MCP server state for the HTTP transport.
type Server struct {
	handler   http.Handler
	logger    logSDK.Logger
	webSearch tools.Tool
}

// NewServer constructs a remote MCP server exposing the web_search tool under a single handler.
func NewServer(searchService tools.SearchService, logger logSDK.Logger) (*Server, error) {
	if searchService == nil {
		return nil, errors.New("search service is required")
	}
	if logger == nil {
		logger = log.Logger
	}

	webSearch, err := tools.NewWebSearchTool(searchService, logger.Named("mcp_web_search"))
	if err != nil {
		return nil, errors.Wrap(err, "init web_search tool")
	}

	mcpServer := srv.NewMCPServer(
		serverName,
		serverVersion,
		srv.WithToolCapabilities(true),
		srv.WithInstructions("Use the web_search tool to run Google-powered web, image, news, video, academic or code searches."),
		srv.WithRecovery(),
		srv.WithHooks(newMCPHooks(logger.Named("mcp_hooks"))),
	)

	s := &Server{
		handler:   srv.NewStreamableHTTPServer(mcpServer),
		logger:    logger.Named("mcp"),
		webSearch: webSearch,
	}

	mcpServer.AddTool(webSearch.Definition(), s.handleWebSearch)

	return s, nil
}

// Handler returns the HTTP handler that should be mounted to serve MCP traffic.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) handleWebSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.webSearch == nil {
		return mcp.NewToolResultError("web search is not configured"), nil
	}

	return s.webSearch.Handle(ctx, req)
}
