package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sheersh03/CaveBeat-Search-Engine/library/search"
)

// Tool exposes the capabilities required by the MCP server registration lifecycle.
type Tool interface {
	Definition() mcp.Tool
	Handle(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// SearchService runs a cached search.
type SearchService interface {
	Search(ctx context.Context, req *search.Request) (*search.Response, error)
}
