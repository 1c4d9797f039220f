package service

import (
	"context"
	"fmt"
	"log"

	platformgrpc "github.com/louisbranch/fauxtools/internal/platform/grpc"
	"github.com/louisbranch/fauxtools/internal/services/mcp/domain"
)

// Run is the service entrypoint for MCP and blocks until context cancellation
// or, for stdio, until the client disconnects.
func Run(ctx context.Context, cfg Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	transport, err := ParseTransport(string(cfg.Transport))
	if err != nil {
		return err
	}
	profile, err := domain.ProfileByName(cfg.Variant)
	if err != nil {
		return err
	}
	server, err := New(profile, cfg.PageSize)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stopHealth, err := startHealth(ctx, cfg.HealthAddr)
	if err != nil {
		return err
	}
	defer stopHealth()

	switch transport {
	case TransportStdio:
		return server.Serve(ctx)
	case TransportHTTP:
		return server.serveHTTP(ctx, cfg)
	default:
		return fmt.Errorf("transport %q is not supported", transport)
	}
}

// serveHTTP serves the already-registered MCP server over the HTTP transport.
func (s *Server) serveHTTP(ctx context.Context, cfg Config) error {
	httpTransport := NewHTTPTransportWithServer(cfg.HTTPAddr, s.mcpServer)
	if err := httpTransport.applyConfig(cfg); err != nil {
		return err
	}
	return httpTransport.Start(ctx)
}

// startHealth starts the gRPC health probe when addr is set. The probe
// reports SERVING until the returned stop function runs.
func startHealth(ctx context.Context, addr string) (func(), error) {
	if addr == "" {
		return func() {}, nil
	}
	health, err := platformgrpc.ListenHealth(addr)
	if err != nil {
		return nil, err
	}
	healthCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := health.Serve(healthCtx); err != nil {
			log.Printf("health probe: %v", err)
		}
	}()
	health.SetServing(true)
	log.Printf("gRPC health probe listening on %s", health.Addr())

	return func() {
		health.SetServing(false)
		cancel()
		<-done
	}, nil
}
