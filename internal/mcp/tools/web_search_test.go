package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Laisky/errors/v2"
	mcp "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/sheersh03/CaveBeat-Search-Engine/library/log"
	"github.com/sheersh03/CaveBeat-Search-Engine/library/search"
)

type stubSearchService struct {
	resp     *search.Response
	err      error
	received *search.Request
}

func (s *stubSearchService) Search(_ context.Context, req *search.Request) (*search.Response, error) {
	s.received = req
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func mustWebSearchTool(t *testing.T, service SearchService) *WebSearchTool {
	t.Helper()

	tool, err := NewWebSearchTool(service, log.Logger.Named("test_web_search"))
	require.NoError(t, err)
	return tool
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func TestNewWebSearchToolRequiresDependencies(t *testing.T) {
	_, err := NewWebSearchTool(nil, log.Logger)
	require.Error(t, err)

	_, err = NewWebSearchTool(&stubSearchService{}, nil)
	require.Error(t, err)
}

func TestWebSearchDefinition(t *testing.T) {
	tool := mustWebSearchTool(t, &stubSearchService{})

	def := tool.Definition()
	require.Equal(t, "web_search", def.Name)
	require.Contains(t, def.InputSchema.Required, "query")
	for _, name := range []string{"query", "type", "time", "region", "safe", "site_scope"} {
		require.Contains(t, def.InputSchema.Properties, name)
	}
}

func TestWebSearchHandleBlankQuery(t *testing.T) {
	service := &stubSearchService{}
	tool := mustWebSearchTool(t, service)

	result, err := tool.Handle(context.Background(), callRequest(map[string]any{"query": "   "}))
	require.NoError(t, err)
	require.True(t, result.IsError)

	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	require.Equal(t, "query cannot be empty", textContent.Text)
	require.Nil(t, service.received)
}

func TestWebSearchHandleMissingQuery(t *testing.T) {
	tool := mustWebSearchTool(t, &stubSearchService{})

	result, err := tool.Handle(context.Background(), callRequest(map[string]any{}))
	require.NoError(t, err)
	require.True(t, result.IsError)
}

func TestWebSearchHandleSearchError(t *testing.T) {
	tool := mustWebSearchTool(t, &stubSearchService{err: errors.Wrap(search.ErrMissingCredentials, "fetch page at start 11")})

	result, err := tool.Handle(context.Background(), callRequest(map[string]any{"query": "golang"}))
	require.NoError(t, err)
	require.True(t, result.IsError)

	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	require.Contains(t, textContent.Text, "search failed:")
	require.Contains(t, textContent.Text, "missing google credentials")
}

func TestWebSearchHandleSuccess(t *testing.T) {
	image := "https://example.com/a.png"
	service := &stubSearchService{resp: &search.Response{
		FromCache: true,
		Results: []search.PublicResult{{
			Title:   "Example",
			URL:     "https://example.com",
			Site:    "example.com",
			Snippet: "Snippet",
			Image:   &image,
		}},
	}}
	tool := mustWebSearchTool(t, service)

	result, err := tool.Handle(context.Background(), callRequest(map[string]any{
		"query":      " golang ",
		"type":       "video",
		"time":       "Past month",
		"region":     "India",
		"safe":       false,
		"site_scope": "site:youtube.com",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	require.NotNil(t, service.received)
	require.Equal(t, "golang", service.received.Query)
	require.Equal(t, search.ResultTypeVideo, service.received.Type)
	require.Equal(t, search.TimePastMonth, service.received.Filters.Time)
	require.Equal(t, search.RegionIndia, service.received.Filters.Region)
	require.False(t, service.received.Filters.Safe)
	require.Equal(t, "site:youtube.com", service.received.SiteScope)

	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)

	var payload search.Response
	require.NoError(t, json.Unmarshal([]byte(textContent.Text), &payload))
	require.True(t, payload.FromCache)
	require.Len(t, payload.Results, 1)
	require.Equal(t, "https://example.com", payload.Results[0].URL)
	require.Equal(t, image, *payload.Results[0].Image)
	require.Nil(t, payload.Results[0].Published)
}

func TestWebSearchHandleDefaults(t *testing.T) {
	service := &stubSearchService{resp: &search.Response{Results: []search.PublicResult{}}}
	tool := mustWebSearchTool(t, service)

	result, err := tool.Handle(context.Background(), callRequest(map[string]any{
		"query": "golang",
		"type":  "podcasts",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	require.Equal(t, search.ResultTypeWeb, service.received.Type)
	require.Equal(t, search.TimeAny, service.received.Filters.Time)
	require.Equal(t, search.RegionGlobal, service.received.Filters.Region)
	require.True(t, service.received.Filters.Safe)
}
