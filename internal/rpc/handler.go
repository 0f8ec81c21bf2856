package rpc

import (
	"context"
	"encoding/json"

	"github.com/mydocs-mcp/mydocs-mcp/internal/tools"
)

// protocolVersion is the MCP protocol version this server implements.
const protocolVersion = "2024-11-05"

// ServerInfo names the implementation in the initialize handshake.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Handler routes JSON-RPC methods to the tool service (spec.md §5),
// generalizing the teacher's JSONRPCHandler.handleMethod switch from A2A's
// message/tasks/card methods to MCP's initialize/tools/resources/prompts
// methods.
type Handler struct {
	service *tools.Service
	info    ServerInfo
}

// NewHandler builds a Handler serving service's tools under the given
// server name/version.
func NewHandler(service *tools.Service, name, version string) *Handler {
	return &Handler{service: service, info: ServerInfo{Name: name, Version: version}}
}

// Handle dispatches one request and returns the response to write, or nil
// for the notifications/initialized notification, which expects no reply.
func (h *Handler) Handle(ctx context.Context, req *Request) *Response {
	switch req.Method {
	case "initialize":
		return newResponse(req.ID, map[string]any{
			"protocolVersion": protocolVersion,
			"serverInfo":      h.info,
			"capabilities": map[string]any{
				"tools": map[string]any{},
			},
		})
	case "notifications/initialized":
		return nil
	case "tools/list":
		return h.handleToolsList(req)
	case "tools/call":
		return h.handleToolsCall(ctx, req)
	case "resources/list":
		return newResponse(req.ID, map[string]any{"resources": []any{}})
	case "prompts/list":
		return newResponse(req.ID, map[string]any{"prompts": []any{}})
	default:
		return newError(req.ID, MethodNotFound, "method not found: "+req.Method)
	}
}

func (h *Handler) handleToolsList(req *Request) *Response {
	catalog, err := h.service.Catalog()
	if err != nil {
		return newError(req.ID, InternalError, "failed to build tool catalog: "+err.Error())
	}
	return newResponse(req.ID, map[string]any{"tools": catalog})
}

type toolsCallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

func (h *Handler) handleToolsCall(ctx context.Context, req *Request) *Response {
	var params toolsCallParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return newError(req.ID, InvalidParams, "invalid params: "+err.Error())
		}
	}
	if params.Name == "" {
		return newError(req.ID, InvalidParams, "params.name is required")
	}

	envelope := h.service.Call(ctx, params.Name, params.Arguments)

	content := []map[string]any{
		{"type": "text", "text": envelopeText(envelope)},
	}
	result := map[string]any{
		"content": content,
		"isError": !envelope.Success,
	}
	return newResponse(req.ID, result)
}

func envelopeText(e tools.Envelope) string {
	b, err := json.Marshal(e)
	if err != nil {
		return `{"success":false,"error":"failed to encode tool result"}`
	}
	return string(b)
}
