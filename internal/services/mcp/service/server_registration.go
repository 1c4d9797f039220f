package service

import (
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/fauxtools/internal/services/mcp/domain"
)

type mcpRegistrationKind int

const (
	mcpRegistrationKindTools mcpRegistrationKind = iota
	mcpRegistrationKindMiddleware
)

const (
	mcpCatalogToolsModuleName       = "catalog-tools"
	mcpDispatchMiddlewareModuleName = "dispatch-middleware"
)

type mcpRegistrationModule struct {
	name     string
	kind     mcpRegistrationKind
	register func(mcpRegistrationTarget) error
}

type mcpRegistrationTarget interface {
	AddTool(*mcp.Tool, mcp.ToolHandler) error
	AddReceivingMiddleware(...mcp.Middleware)
}

type mcpServerRegistrationAdapter struct {
	server *mcp.Server
}

func (r mcpServerRegistrationAdapter) AddTool(tool *mcp.Tool, handler mcp.ToolHandler) error {
	if tool == nil || handler == nil {
		return fmt.Errorf("tool and handler are required")
	}
	r.server.AddTool(tool, handler)
	return nil
}

func (r mcpServerRegistrationAdapter) AddReceivingMiddleware(middleware ...mcp.Middleware) {
	r.server.AddReceivingMiddleware(middleware...)
}

func newMCPRegistrationModules(server *Server) []mcpRegistrationModule {
	return []mcpRegistrationModule{
		{
			name: mcpCatalogToolsModuleName,
			kind: mcpRegistrationKindTools,
			register: func(registrar mcpRegistrationTarget) error {
				return registerCatalogTools(registrar, server.dispatcher)
			},
		},
		{
			name: mcpDispatchMiddlewareModuleName,
			kind: mcpRegistrationKindMiddleware,
			register: func(registrar mcpRegistrationTarget) error {
				registrar.AddReceivingMiddleware(server.dispatchMiddleware)
				return nil
			},
		},
	}
}

// registerCatalogTools adds every catalog entry in construction order. All
// tools share one handler; the dispatcher resolves the name per call.
func registerCatalogTools(registrar mcpRegistrationTarget, dispatcher *domain.Dispatcher) error {
	handler := dispatcher.Handler()
	for tool := range dispatcher.Catalog().All() {
		if err := registrar.AddTool(domain.ListedTool(tool), handler); err != nil {
			return fmt.Errorf("add tool %s: %w", tool.Name, err)
		}
	}
	return nil
}
