package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
	mcp "github.com/mark3labs/mcp-go/mcp"

	"github.com/sheersh03/CaveBeat-Search-Engine/library/search"
)

// WebSearchTool implements the web_search MCP tool.
type WebSearchTool struct {
	service SearchService
	logger  logSDK.Logger
}

// NewWebSearchTool constructs a WebSearchTool with the provided dependencies.
func NewWebSearchTool(service SearchService, logger logSDK.Logger) (*WebSearchTool, error) {
	if service == nil {
		return nil, errors.New("search service is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	return &WebSearchTool{
		service: service,
		logger:  logger,
	}, nil
}

// Definition returns the MCP metadata describing the tool.
func (t *WebSearchTool) Definition() mcp.Tool {
	return mcp.NewTool(
		"web_search",
		mcp.WithDescription("Search the public web through Google Programmable Search and return normalized results."),
		mcp.WithString(
			"query",
			mcp.Required(),
			mcp.Description("Plain text search query."),
		),
		mcp.WithString(
			"type",
			mcp.Description("Result type. Unknown values fall back to web."),
			mcp.Enum(
				string(search.ResultTypeWeb),
				string(search.ResultTypeImage),
				string(search.ResultTypeNews),
				string(search.ResultTypeVideo),
				string(search.ResultTypeAcademic),
				string(search.ResultTypeCode),
			),
		),
		mcp.WithString(
			"time",
			mcp.Description("Time range filter."),
			mcp.Enum(
				string(search.TimeAny),
				string(search.TimePastDay),
				string(search.TimePastWeek),
				string(search.TimePastMonth),
				string(search.TimePastYear),
			),
		),
		mcp.WithString(
			"region",
			mcp.Description("Region filter."),
			mcp.Enum(
				string(search.RegionGlobal),
				string(search.RegionUS),
				string(search.RegionIndia),
				string(search.RegionEU),
				string(search.RegionSEA),
			),
		),
		mcp.WithBoolean(
			"safe",
			mcp.Description("Enable safe search. Defaults to true."),
		),
		mcp.WithString(
			"site_scope",
			mcp.Description("Extra query text such as `site:go.dev`."),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}

// Handle executes the web_search tool logic using the configured dependencies.
func (t *WebSearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return mcp.NewToolResultError("query cannot be empty"), nil
	}

	searchReq, err := search.NewRequest(
		query,
		search.Filters{
			Time:   search.ParseTimeRange(req.GetString("time", "")),
			Region: search.ParseRegion(req.GetString("region", "")),
			Safe:   req.GetBool("safe", true),
		},
		req.GetString("site_scope", ""),
		search.ParseResultType(req.GetString("type", "")),
	)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	start := time.Now()
	t.logger.Debug("web_search started",
		zap.Int("query_len", len(query)),
		zap.String("type", string(searchReq.Type)))

	resp, err := t.service.Search(ctx, searchReq)
	if err != nil {
		t.logger.Error("web_search failed", zap.Error(err), zap.Int("query_len", len(query)))
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	t.logger.Debug("web_search completed",
		zap.Int("query_len", len(query)),
		zap.Int("results_count", len(resp.Results)),
		zap.Bool("from_cache", resp.FromCache),
		zap.Duration("duration", time.Since(start)),
	)

	toolResult, err := mcp.NewToolResultJSON(resp)
	if err != nil {
		t.logger.Error("encode search result", zap.Error(err))
		return mcp.NewToolResultError("failed to encode search result"), nil
	}

	return toolResult, nil
}
