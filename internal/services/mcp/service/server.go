package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/fauxtools/internal/services/mcp/domain"
	"github.com/louisbranch/fauxtools/internal/synth"
)

// DefaultPageSize is the number of tools returned per tools/list page.
const DefaultPageSize = 500

// TransportKind identifies the MCP transport implementation.
type TransportKind string

const (
	// TransportStdio uses standard input/output for MCP.
	TransportStdio TransportKind = "stdio"
	// TransportHTTP runs MCP over HTTP/SSE for remote clients.
	TransportHTTP TransportKind = "http"
)

// ParseTransport validates a transport name.
func ParseTransport(value string) (TransportKind, error) {
	switch kind := TransportKind(strings.ToLower(strings.TrimSpace(value))); kind {
	case "", TransportStdio:
		return TransportStdio, nil
	case TransportHTTP:
		return kind, nil
	default:
		return "", fmt.Errorf("transport %q is not supported", value)
	}
}

// Config configures the MCP server.
type Config struct {
	Variant    string
	Transport  TransportKind
	HTTPAddr   string // Defaults to localhost:8081 for HTTP transport.
	PageSize   int
	HealthAddr string // Empty disables the gRPC health probe.

	AllowedHosts []string
	AuthToken    string
	JWTSecret    string
}

// Server hosts the MCP server for one catalog.
type Server struct {
	mcpServer  *mcp.Server
	dispatcher *domain.Dispatcher
	pageSize   int
}

// New builds the catalog for profile and registers every tool on a fresh
// MCP server.
func New(profile domain.Profile, pageSize int, opts ...synth.Option) (*Server, error) {
	dispatcher, err := domain.NewDispatcher(profile, opts...)
	if err != nil {
		return nil, err
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: profile.ServerName, Version: profile.ServerVersion}, &mcp.ServerOptions{
		HasTools: true,
		PageSize: pageSize,
	})

	server := &Server{mcpServer: mcpServer, dispatcher: dispatcher, pageSize: pageSize}
	for _, module := range newMCPRegistrationModules(server) {
		if err := module.register(mcpServerRegistrationAdapter{server: mcpServer}); err != nil {
			return nil, fmt.Errorf("register MCP module %q: %w", module.name, err)
		}
	}
	log.Printf("registered %d %s tools", dispatcher.Catalog().Len(), dispatcher.Catalog().Variant())
	return server, nil
}

// Dispatcher returns the server's dispatcher.
func (s *Server) Dispatcher() *domain.Dispatcher {
	return s.dispatcher
}

// MCPServer returns the underlying SDK server.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcpServer
}

// Serve starts the MCP server on stdio and blocks until it stops or the context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

// serveWithTransport runs the MCP server on transport until the peer
// disconnects or ctx ends.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}
