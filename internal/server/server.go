// Package server runs the MCP request loop over stdio and routes tool
// calls to the dispatcher or the local tool handler.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/robertredbox/mcp-on-vercel/internal/catalog"
	"github.com/robertredbox/mcp-on-vercel/internal/dispatch"
	"github.com/robertredbox/mcp-on-vercel/internal/tools"
	"github.com/robertredbox/mcp-on-vercel/pkg/mcp"
)

const (
	serverName      = "app-analytics-mcp"
	serverVersion   = "1.0.0"
	protocolVersion = "2024-11-05"
)

// Server wires the transport to the dispatcher.
type Server struct {
	transport  *mcp.Transport
	catalog    *catalog.Catalog
	dispatcher *dispatch.Dispatcher
	local      *tools.Handler
	log        *slog.Logger
}

// New creates a server. transport is typically over stdin/stdout.
func New(transport *mcp.Transport, cat *catalog.Catalog, d *dispatch.Dispatcher, local *tools.Handler, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{transport: transport, catalog: cat, dispatcher: d, local: local, log: log}
}

// Run processes requests until EOF or context cancellation.
func (s *Server) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		req, err := s.transport.ReadRequest()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			s.log.Error("read request", "error", err)
			continue
		}

		resp := s.handleRequest(ctx, req)
		if resp != nil {
			if err := s.transport.WriteResponse(resp); err != nil {
				s.log.Error("write response", "error", err)
			}
		}
	}
}

func (s *Server) handleRequest(ctx context.Context, req *mcp.Request) *mcp.Response {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		return nil
	case "tools/list":
		return s.handleListTools(req)
	case "tools/call":
		return s.handleCallTool(ctx, req)
	case "ping":
		resp, _ := mcp.NewResponse(req.ID, map[string]any{})
		return resp
	default:
		return mcp.NewErrorResponse(req.ID, mcp.MethodNotFound, "method not found: "+req.Method)
	}
}

func (s *Server) handleInitialize(req *mcp.Request) *mcp.Response {
	result := mcp.InitializeResult{
		ProtocolVersion: protocolVersion,
		Capabilities: mcp.ServerCapabilities{
			Tools: &mcp.ToolsCapability{},
		},
		ServerInfo: mcp.ServerInfo{
			Name:    serverName,
			Version: serverVersion,
		},
		Instructions: s.buildInstructions(),
	}

	resp, err := mcp.NewResponse(req.ID, result)
	if err != nil {
		return mcp.NewErrorResponse(req.ID, mcp.InternalError, err.Error())
	}
	return resp
}

func (s *Server) handleListTools(req *mcp.Request) *mcp.Response {
	list := make([]mcp.Tool, 0, len(s.catalog.Entries())+2)
	for _, e := range s.catalog.Entries() {
		list = append(list, mcp.Tool{
			Name:        e.Name,
			Description: e.Description,
			InputSchema: e.InputSchema,
		})
	}
	list = append(list, s.local.LocalTools()...)

	resp, err := mcp.NewResponse(req.ID, mcp.ListToolsResult{Tools: list})
	if err != nil {
		return mcp.NewErrorResponse(req.ID, mcp.InternalError, err.Error())
	}
	return resp
}

func (s *Server) handleCallTool(ctx context.Context, req *mcp.Request) *mcp.Response {
	var params mcp.CallToolParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return mcp.NewErrorResponse(req.ID, mcp.InvalidParams, "invalid params: "+err.Error())
	}

	var result *mcp.CallToolResult
	if s.local.IsLocalTool(params.Name) {
		result = s.local.Handle(params.Name, params.Arguments)
	} else {
		env := s.dispatcher.Dispatch(ctx, dispatch.Call{Name: params.Name, Arguments: params.Arguments})
		result = toCallResult(env)
	}

	resp, err := mcp.NewResponse(req.ID, result)
	if err != nil {
		return mcp.NewErrorResponse(req.ID, mcp.InternalError, err.Error())
	}
	return resp
}

// toCallResult converts a dispatch envelope into the transport result.
// routingInfo is attached exactly when the routing table has an entry.
func toCallResult(env dispatch.Envelope) *mcp.CallToolResult {
	result := &mcp.CallToolResult{
		Content: []mcp.ContentBlock{{Type: "text", Text: string(env.Payload)}},
		IsError: env.Err != nil,
	}
	if env.Err == nil && env.Routing != nil {
		result.Meta = map[string]any{"routingInfo": env.Routing}
	}
	return result
}

func (s *Server) buildInstructions() string {
	var sb strings.Builder
	sb.WriteString("App-store analytics tools backed by a cached upstream API.\n\n")
	sb.WriteString("Available tools:\n")
	for _, e := range s.catalog.Entries() {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", e.Name, e.Description))
	}
	sb.WriteString("\nLocal helpers: calculate, search_tools.\n")
	return sb.String()
}
