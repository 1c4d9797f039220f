package service

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/fauxtools/internal/platform/timeouts"
)

var listenTCP = net.Listen

const (
	// defaultHTTPAddr keeps the HTTP transport on loopback unless configured.
	defaultHTTPAddr = "localhost:8081"

	// defaultChannelBufferSize is the buffer size for request, response, and notification channels.
	defaultChannelBufferSize = 10

	// defaultRequestTimeout is the maximum time to wait for a JSON-RPC response.
	defaultRequestTimeout = 30 * time.Second

	// sseHeartbeatInterval is how often an open SSE stream refreshes its session.
	sseHeartbeatInterval = 30 * time.Second

	// defaultSessionReadyTimeout bounds how long a request waits for the
	// session's MCP loop to start reading.
	defaultSessionReadyTimeout = 100 * time.Millisecond

	sessionHeader = "Mcp-Session-Id"
	sessionCookie = "mcp_session"
)

// HTTPTransport serves MCP over HTTP. JSON-RPC messages arrive as POST
// requests, notifications leave over SSE, and each client gets its own
// session backed by an in-memory connection.
type HTTPTransport struct {
	addr         string
	allowedHosts map[string]struct{}
	server       *mcp.Server
	sessions     map[string]*httpSession
	sessionsMu   sync.RWMutex
	httpServer   *http.Server
	serverCtx    context.Context
	serverCancel context.CancelFunc
	serverOnceMu sync.Mutex
	serverOnce   map[string]*sync.Once
	authz        requestAuthorizer

	sessionIdle        time.Duration
	serverReadyTimeout time.Duration
	newSessionID       func() string
	now                func() time.Time
}

// httpSession tracks one client's connection and liveness.
type httpSession struct {
	id        string
	conn      *httpConnection
	createdAt time.Time
	lastUsed  time.Time
}

// NewHTTPTransport creates an HTTP transport bound to addr.
func NewHTTPTransport(addr string) *HTTPTransport {
	if addr == "" {
		addr = defaultHTTPAddr
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &HTTPTransport{
		addr:               addr,
		allowedHosts:       map[string]struct{}{},
		sessions:           make(map[string]*httpSession),
		serverCtx:          ctx,
		serverCancel:       cancel,
		serverOnce:         make(map[string]*sync.Once),
		sessionIdle:        timeouts.SessionIdle,
		serverReadyTimeout: defaultSessionReadyTimeout,
		newSessionID:       newSessionID,
		now:                time.Now,
	}
}

// NewHTTPTransportWithServer creates an HTTP transport that starts a session
// of server for every new client.
func NewHTTPTransportWithServer(addr string, server *mcp.Server) *HTTPTransport {
	transport := NewHTTPTransport(addr)
	transport.server = server
	return transport
}

// applyConfig installs host allow-listing and request authorization.
func (t *HTTPTransport) applyConfig(cfg Config) error {
	t.allowedHosts = parseAllowedHosts(cfg.AllowedHosts)
	authz, err := newRequestAuthorizer(cfg.AuthToken, cfg.JWTSecret)
	if err != nil {
		return err
	}
	t.authz = authz
	return nil
}

// Handler returns the HTTP routes of the transport.
func (t *HTTPTransport) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			t.handleSSE(w, r)
		case http.MethodPost:
			t.handleMessages(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/mcp/health", t.handleHealth)
	return mux
}

// Start serves HTTP until ctx ends.
func (t *HTTPTransport) Start(ctx context.Context) error {
	t.serverCtx, t.serverCancel = context.WithCancel(ctx)
	defer t.serverCancel()

	go t.cleanupSessions(ctx)

	t.httpServer = &http.Server{
		Addr:              t.addr,
		Handler:           t.Handler(),
		ReadHeaderTimeout: timeouts.ReadHeader,
	}

	listener, err := listenTCP("tcp", t.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", t.addr, err)
	}
	log.Printf("Starting MCP HTTP server on %s", listener.Addr())

	errChan := make(chan error, 1)
	go func() {
		if err := t.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Printf("Shutting down MCP HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		t.closeSessions()
		if err := t.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown HTTP server: %w", err)
		}
		return nil
	case err := <-errChan:
		return fmt.Errorf("HTTP server error: %w", err)
	}
}
