package rpc

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mydocs-mcp/mydocs-mcp/internal/tools"
)

func TestHandler_Initialize(t *testing.T) {
	h := NewHandler(nil, "mydocsmcp", "test")
	resp := h.Handle(context.Background(), &Request{JSONRPC: "2.0", ID: 1, Method: "initialize"})
	require.NotNil(t, resp)
	assert.Nil(t, resp.Error)
	result, ok := resp.Result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, protocolVersion, result["protocolVersion"])
}

func TestHandler_NotificationsInitializedHasNoResponse(t *testing.T) {
	h := NewHandler(nil, "mydocsmcp", "test")
	resp := h.Handle(context.Background(), &Request{JSONRPC: "2.0", Method: "notifications/initialized"})
	assert.Nil(t, resp)
}

func TestHandler_UnknownMethod(t *testing.T) {
	h := NewHandler(nil, "mydocsmcp", "test")
	resp := h.Handle(context.Background(), &Request{JSONRPC: "2.0", ID: 1, Method: "bogus/method"})
	require.NotNil(t, resp)
	require.NotNil(t, resp.Error)
	assert.Equal(t, MethodNotFound, resp.Error.Code)
}

func TestHandler_ToolsCallRejectsMissingName(t *testing.T) {
	svc := tools.NewService(nil, nil, nil, 0, 0, nil)
	h := NewHandler(svc, "mydocsmcp", "test")
	resp := h.Handle(context.Background(), &Request{JSONRPC: "2.0", ID: 1, Method: "tools/call", Params: json.RawMessage(`{}`)})
	require.NotNil(t, resp.Error)
	assert.Equal(t, InvalidParams, resp.Error.Code)
}

func TestHandler_ResourcesAndPromptsListAreEmpty(t *testing.T) {
	h := NewHandler(nil, "mydocsmcp", "test")
	resp := h.Handle(context.Background(), &Request{JSONRPC: "2.0", ID: 1, Method: "resources/list"})
	result := resp.Result.(map[string]any)
	assert.Empty(t, result["resources"])

	resp = h.Handle(context.Background(), &Request{JSONRPC: "2.0", ID: 1, Method: "prompts/list"})
	result = resp.Result.(map[string]any)
	assert.Empty(t, result["prompts"])
}
