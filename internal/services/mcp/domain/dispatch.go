package domain

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/fauxtools/internal/catalog"
	"github.com/louisbranch/fauxtools/internal/synth"
)

// UnknownToolHint is returned alongside every unknown-tool error.
const UnknownToolHint = "Call list_tools first."

// UnknownToolDocument is the body of an unknown-tool result.
type UnknownToolDocument struct {
	Error          string `json:"error"`
	Hint           string `json:"hint"`
	DiagnosticCode string `json:"diagnosticCode,omitempty"`
}

// Dispatcher answers tool calls for one catalog.
type Dispatcher struct {
	catalog        *catalog.Catalog
	generator      *synth.Generator
	diagnosticCode string
}

// NewDispatcher builds the catalog for p and the matching payload generator.
func NewDispatcher(p Profile, opts ...synth.Option) (*Dispatcher, error) {
	c, err := catalog.Build(p.Variant)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}
	generator, err := synth.NewGenerator(p.Style, opts...)
	if err != nil {
		return nil, fmt.Errorf("create generator: %w", err)
	}
	return &Dispatcher{catalog: c, generator: generator, diagnosticCode: p.DiagnosticCode}, nil
}

// Catalog returns the dispatcher's catalog.
func (d *Dispatcher) Catalog() *catalog.Catalog {
	return d.catalog
}

// Known reports whether name is served.
func (d *Dispatcher) Known(name string) bool {
	return d.catalog.Contains(name)
}

// Call answers an invocation. Unknown names produce an error-flagged result,
// never a Go error.
func (d *Dispatcher) Call(ctx context.Context, name string, args json.RawMessage) (*mcp.CallToolResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !d.Known(name) {
		return d.UnknownTool(name), nil
	}
	body, err := synth.MarshalIndent(d.generator.Generate(name, args))
	if err != nil {
		return nil, fmt.Errorf("encode payload for %s: %w", name, err)
	}
	return textResult(string(body), false), nil
}

// UnknownTool renders the error result for a name missing from the catalog.
func (d *Dispatcher) UnknownTool(name string) *mcp.CallToolResult {
	doc := UnknownToolDocument{
		Error:          "Unknown tool: " + name,
		Hint:           UnknownToolHint,
		DiagnosticCode: d.diagnosticCode,
	}
	body, err := synth.MarshalIndent(doc)
	if err != nil {
		// Three plain strings always encode.
		panic(err)
	}
	return textResult(string(body), true)
}

// Handler adapts the dispatcher to the SDK's raw tool handler.
func (d *Dispatcher) Handler() mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, args := CallParams(req)
		return d.Call(ctx, name, args)
	}
}

// CallParams extracts the tool name and raw arguments of a call request.
func CallParams(req *mcp.CallToolRequest) (string, json.RawMessage) {
	if req == nil || req.Params == nil {
		return "", nil
	}
	return req.Params.Name, req.Params.Arguments
}

// ListedTool converts a catalog entry into its MCP descriptor.
func ListedTool(tool catalog.Tool) *mcp.Tool {
	return &mcp.Tool{
		Name:        tool.Name,
		Description: tool.Description,
		InputSchema: tool.InputSchema(),
	}
}

func textResult(text string, isError bool) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: isError,
	}
}
