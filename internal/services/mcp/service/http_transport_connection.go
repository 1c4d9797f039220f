package service

import (
	"context"
	"errors"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
)

var errConnectionClosed = errors.New("connection closed")

// httpConnection implements mcp.Connection for one HTTP session. Incoming
// messages queue on reqChan; responses are routed to the waiting POST by
// request id and everything else goes to the SSE notification stream.
type httpConnection struct {
	sessionID   string
	reqChan     chan jsonrpc.Message
	notifyChan  chan jsonrpc.Message
	closed      chan struct{}
	ready       chan struct{} // closed on the first Read
	readyOnce   sync.Once
	closeOnce   sync.Once
	pendingReqs map[jsonrpc.ID]chan jsonrpc.Message
	pendingMu   sync.Mutex
}

func newHTTPConnection(sessionID string) *httpConnection {
	return &httpConnection{
		sessionID:   sessionID,
		reqChan:     make(chan jsonrpc.Message, defaultChannelBufferSize),
		notifyChan:  make(chan jsonrpc.Message, defaultChannelBufferSize),
		closed:      make(chan struct{}),
		ready:       make(chan struct{}),
		pendingReqs: make(map[jsonrpc.ID]chan jsonrpc.Message),
	}
}

// Read implements mcp.Connection.
func (c *httpConnection) Read(ctx context.Context) (jsonrpc.Message, error) {
	c.readyOnce.Do(func() { close(c.ready) })

	select {
	case <-c.closed:
		return nil, errConnectionClosed
	default:
	}

	select {
	case msg := <-c.reqChan:
		return msg, nil
	case <-c.closed:
		return nil, errConnectionClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// deliver queues an incoming message for the MCP server loop.
func (c *httpConnection) deliver(ctx context.Context, msg jsonrpc.Message) error {
	select {
	case <-c.closed:
		return errConnectionClosed
	default:
	}

	select {
	case c.reqChan <- msg:
		return nil
	case <-c.closed:
		return errConnectionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Write implements mcp.Connection.
func (c *httpConnection) Write(ctx context.Context, msg jsonrpc.Message) error {
	select {
	case <-c.closed:
		return errConnectionClosed
	default:
	}

	target := c.notifyChan
	if resp, ok := msg.(*jsonrpc.Response); ok && resp.ID != (jsonrpc.ID{}) {
		c.pendingMu.Lock()
		if respChan, exists := c.pendingReqs[resp.ID]; exists {
			target = respChan
		}
		c.pendingMu.Unlock()
	}

	select {
	case target <- msg:
		return nil
	case <-c.closed:
		return errConnectionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close implements mcp.Connection. Waiters observe the closed channel; the
// message channels stay open so late senders never panic.
func (c *httpConnection) Close() error {
	c.closeOnce.Do(func() {
		close(c.closed)
		c.pendingMu.Lock()
		c.pendingReqs = nil
		c.pendingMu.Unlock()
	})
	return nil
}

// SessionID implements mcp.Connection.
func (c *httpConnection) SessionID() string {
	return c.sessionID
}
