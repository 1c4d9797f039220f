package service

import (
	"context"
	"log"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/fauxtools/internal/services/mcp/domain"
)

const (
	methodListTools = "tools/list"
	methodCallTool  = "tools/call"

	tracerName = "github.com/louisbranch/fauxtools/internal/services/mcp/service"
)

// dispatchMiddleware answers tools/list from the catalog in construction
// order and turns calls to unknown tools into error-flagged results. All
// other methods pass through to the SDK.
func (s *Server) dispatchMiddleware(next mcp.MethodHandler) mcp.MethodHandler {
	return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
		switch method {
		case methodListTools:
			if listReq, ok := req.(*mcp.ListToolsRequest); ok {
				return s.listTools(listReq)
			}
		case methodCallTool:
			if callReq, ok := req.(*mcp.CallToolRequest); ok {
				return s.callTool(ctx, callReq, func(ctx context.Context) (mcp.Result, error) {
					return next(ctx, method, req)
				})
			}
		}
		return next(ctx, method, req)
	}
}

func (s *Server) listTools(req *mcp.ListToolsRequest) (mcp.Result, error) {
	var cursor string
	if req != nil && req.Params != nil {
		cursor = req.Params.Cursor
	}
	offset, err := decodeCursor(cursor)
	if err != nil {
		return nil, err
	}
	page, next := s.dispatcher.Catalog().Page(offset, s.pageSize)
	result := &mcp.ListToolsResult{Tools: make([]*mcp.Tool, 0, len(page))}
	for _, tool := range page {
		result.Tools = append(result.Tools, domain.ListedTool(tool))
	}
	if next >= 0 {
		result.NextCursor = encodeCursor(next)
	}
	return result, nil
}

func (s *Server) callTool(ctx context.Context, req *mcp.CallToolRequest, next func(context.Context) (mcp.Result, error)) (mcp.Result, error) {
	name, _ := domain.CallParams(req)
	known := s.dispatcher.Known(name)

	ctx, span := otel.Tracer(tracerName).Start(ctx, methodCallTool,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("tool.name", name),
			attribute.Bool("tool.known", known),
		),
	)
	defer span.End()

	started := time.Now()
	var (
		result mcp.Result
		err    error
	)
	if known {
		result, err = next(ctx)
	} else {
		result = s.dispatcher.UnknownTool(name)
	}

	outcome := "ok"
	switch {
	case err != nil:
		outcome = "failed"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	case !known:
		outcome = "unknown"
		span.SetStatus(codes.Error, "unknown tool")
	}
	log.Printf("tool call %s %s in %s", name, outcome, time.Since(started).Round(time.Microsecond))
	return result, err
}
