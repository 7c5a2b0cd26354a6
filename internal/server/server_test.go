package server

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robertredbox/mcp-on-vercel/internal/cache"
	"github.com/robertredbox/mcp-on-vercel/internal/catalog"
	"github.com/robertredbox/mcp-on-vercel/internal/dispatch"
	"github.com/robertredbox/mcp-on-vercel/internal/tools"
	"github.com/robertredbox/mcp-on-vercel/pkg/mcp"
)

type staticFetcher struct {
	payload json.RawMessage
}

func (f staticFetcher) Fetch(ctx context.Context, path string, params map[string]any) (json.RawMessage, error) {
	return f.payload, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cat, err := catalog.New()
	require.NoError(t, err)

	d := dispatch.New(cat, cache.NewMemory(0), staticFetcher{payload: json.RawMessage(`{"ok":true}`)}, time.Hour, nil)
	return New(nil, cat, d, tools.NewHandler(cat), nil)
}

func callTool(t *testing.T, s *Server, name string, args string) *mcp.CallToolResult {
	t.Helper()
	params, err := json.Marshal(mcp.CallToolParams{Name: name, Arguments: json.RawMessage(args)})
	require.NoError(t, err)

	resp := s.handleRequest(context.Background(), &mcp.Request{
		JSONRPC: "2.0", ID: 1, Method: "tools/call", Params: params,
	})
	require.NotNil(t, resp)
	require.Nil(t, resp.Error)

	var result mcp.CallToolResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	return &result
}

func TestListToolsIncludesCatalogAndLocal(t *testing.T) {
	s := newTestServer(t)

	resp := s.handleRequest(context.Background(), &mcp.Request{JSONRPC: "2.0", ID: 1, Method: "tools/list"})
	require.NotNil(t, resp)
	require.Nil(t, resp.Error)

	var result mcp.ListToolsResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))

	names := map[string]bool{}
	for _, tool := range result.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"get_app_details", "get_reviews", "analyze_top_keywords", "analyze_competitors", "get_downloads", "calculate", "search_tools"} {
		assert.True(t, names[want], "missing tool %s", want)
	}
}

func TestCallToolAttachesRoutingInfo(t *testing.T) {
	s := newTestServer(t)

	result := callTool(t, s, "get_reviews", `{"appId":"389801252","platform":"ios","country":"US"}`)
	require.False(t, result.IsError)
	require.NotNil(t, result.Meta)

	routing, ok := result.Meta["routingInfo"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "reviews", routing["tabId"])
	assert.Equal(t, "recent-reviews", routing["sectionId"])
	assert.Equal(t, true, routing["highlight"])
}

func TestCallToolUnknownToolErrorEnvelope(t *testing.T) {
	s := newTestServer(t)

	result := callTool(t, s, "no_such_tool", `{}`)
	assert.True(t, result.IsError)
	assert.Nil(t, result.Meta, "error envelopes carry no routing metadata")

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &body))
	assert.Equal(t, true, body["error"])
	assert.Equal(t, "UnknownTool", body["kind"])
}

func TestCallToolLocalToolHasNoRouting(t *testing.T) {
	s := newTestServer(t)

	result := callTool(t, s, "calculate", `{"expression":"2+2"}`)
	require.False(t, result.IsError)
	assert.Nil(t, result.Meta)
}

func TestUnknownMethod(t *testing.T) {
	s := newTestServer(t)

	resp := s.handleRequest(context.Background(), &mcp.Request{JSONRPC: "2.0", ID: 7, Method: "bogus/method"})
	require.NotNil(t, resp)
	require.NotNil(t, resp.Error)
	assert.Equal(t, mcp.MethodNotFound, resp.Error.Code)
}

func TestPing(t *testing.T) {
	s := newTestServer(t)

	resp := s.handleRequest(context.Background(), &mcp.Request{JSONRPC: "2.0", ID: 2, Method: "ping"})
	require.NotNil(t, resp)
	assert.Nil(t, resp.Error)
}
