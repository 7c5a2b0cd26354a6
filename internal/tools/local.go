// Package tools implements the local (non-upstream) tools: the arithmetic
// demo tool and catalog search. Local results are never cached and carry
// no routing metadata.
package tools

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/robertredbox/mcp-on-vercel/internal/catalog"
	"github.com/robertredbox/mcp-on-vercel/internal/dispatch"
	"github.com/robertredbox/mcp-on-vercel/internal/mathexpr"
	"github.com/robertredbox/mcp-on-vercel/pkg/mcp"
)

// Handler serves the local tools.
type Handler struct {
	catalog *catalog.Catalog
}

// NewHandler creates a handler over the tool catalog.
func NewHandler(cat *catalog.Catalog) *Handler {
	return &Handler{catalog: cat}
}

// LocalTools returns the local tool descriptors.
func (h *Handler) LocalTools() []mcp.Tool {
	return []mcp.Tool{
		{
			Name:        "calculate",
			Description: "Evaluate a basic arithmetic expression (numbers, + - * /, parentheses). Anything else is rejected.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"expression": {"type": "string", "description": "Arithmetic expression, e.g. '(2 + 3) * 4'"}
				},
				"required": ["expression"]
			}`),
		},
		{
			Name:        "search_tools",
			Description: "Search the tool catalog by keyword. Returns matching tool names and descriptions.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"query": {"type": "string", "description": "Search query (e.g. 'reviews', 'keyword')"},
					"limit": {"type": "integer", "description": "Max results (default: 10)", "default": 10}
				},
				"required": ["query"]
			}`),
		},
	}
}

// IsLocalTool reports whether name is served locally.
func (h *Handler) IsLocalTool(name string) bool {
	for _, t := range h.LocalTools() {
		if t.Name == name {
			return true
		}
	}
	return false
}

// Handle executes a local tool.
func (h *Handler) Handle(name string, args json.RawMessage) *mcp.CallToolResult {
	switch name {
	case "calculate":
		return h.handleCalculate(args)
	case "search_tools":
		return h.handleSearchTools(args)
	default:
		return errorResult(&dispatch.Error{Kind: dispatch.KindUnknownTool, Message: "unknown tool: " + name})
	}
}

type calculateInput struct {
	Expression string `json:"expression"`
}

func (h *Handler) handleCalculate(args json.RawMessage) *mcp.CallToolResult {
	var input calculateInput
	if err := json.Unmarshal(args, &input); err != nil {
		return errorResult(&dispatch.Error{Kind: dispatch.KindValidationFailure, Message: "invalid arguments: " + err.Error()})
	}
	if strings.TrimSpace(input.Expression) == "" {
		return errorResult(&dispatch.Error{Kind: dispatch.KindValidationFailure, Message: "expression is required"})
	}

	value, err := mathexpr.Eval(input.Expression)
	if err != nil {
		return errorResult(&dispatch.Error{Kind: dispatch.KindValidationFailure, Message: err.Error()})
	}
	return jsonResult(map[string]any{
		"expression": input.Expression,
		"result":     strconv.FormatFloat(value, 'g', -1, 64),
	})
}

type searchToolsInput struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

func (h *Handler) handleSearchTools(args json.RawMessage) *mcp.CallToolResult {
	var input searchToolsInput
	if err := json.Unmarshal(args, &input); err != nil {
		return errorResult(&dispatch.Error{Kind: dispatch.KindValidationFailure, Message: "invalid arguments: " + err.Error()})
	}
	if strings.TrimSpace(input.Query) == "" {
		return errorResult(&dispatch.Error{Kind: dispatch.KindValidationFailure, Message: "query is required"})
	}
	if input.Limit <= 0 {
		input.Limit = 10
	}

	summaries := h.searchCatalog(strings.ToLower(input.Query), input.Limit)
	return jsonResult(map[string]any{
		"tools": summaries,
		"count": len(summaries),
	})
}

func (h *Handler) searchCatalog(query string, limit int) []mcp.ToolSummary {
	type scored struct {
		summary mcp.ToolSummary
		score   int
	}
	var results []scored

	consider := func(name, description string) {
		nameLower := strings.ToLower(name)
		descLower := strings.ToLower(description)

		score := 0
		if strings.Contains(nameLower, query) {
			score += 100
		}
		if fuzzy.Match(query, nameLower) {
			score += 50
		}
		if strings.Contains(descLower, query) {
			score += 30
		}
		if score > 0 {
			results = append(results, scored{
				summary: mcp.ToolSummary{Name: name, Description: description},
				score:   score,
			})
		}
	}

	for _, e := range h.catalog.Entries() {
		consider(e.Name, e.Description)
	}
	for _, t := range h.LocalTools() {
		consider(t.Name, t.Description)
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].score > results[j].score })

	out := make([]mcp.ToolSummary, 0, limit)
	for i := 0; i < len(results) && i < limit; i++ {
		out = append(out, results[i].summary)
	}
	return out
}

func jsonResult(v any) *mcp.CallToolResult {
	data, err := json.Marshal(v)
	if err != nil {
		return errorResult(&dispatch.Error{Kind: dispatch.KindValidationFailure, Message: fmt.Sprintf("marshal result: %v", err)})
	}
	return &mcp.CallToolResult{Content: []mcp.ContentBlock{{Type: "text", Text: string(data)}}}
}

func errorResult(e *dispatch.Error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.ContentBlock{{Type: "text", Text: string(e.Payload())}},
		IsError: true,
	}
}
