package service

import (
	"context"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/fauxtools/internal/platform/timeouts"
)

// Connect implements mcp.Transport. Every call opens a new session whose
// connection is fed by HTTP requests.
func (t *HTTPTransport) Connect(ctx context.Context) (mcp.Connection, error) {
	sessionID := t.newSessionID()
	conn := newHTTPConnection(sessionID)

	now := t.now()
	t.sessionsMu.Lock()
	t.sessions[sessionID] = &httpSession{
		id:        sessionID,
		conn:      conn,
		createdAt: now,
		lastUsed:  now,
	}
	t.sessionsMu.Unlock()

	return conn, nil
}

func newSessionID() string {
	return uuid.NewString()
}

// sessionFromRequest resolves the session named by the Mcp-Session-Id header
// or, failing that, the session cookie.
func (t *HTTPTransport) sessionFromRequest(r *http.Request) (string, *httpSession) {
	sessionID := strings.TrimSpace(r.Header.Get(sessionHeader))
	if sessionID == "" {
		if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
			sessionID = cookie.Value
		}
	}
	if sessionID == "" {
		return "", nil
	}
	t.sessionsMu.RLock()
	defer t.sessionsMu.RUnlock()
	return sessionID, t.sessions[sessionID]
}

// touch records activity on a session.
func (t *HTTPTransport) touch(sessionID string) {
	t.sessionsMu.Lock()
	if session, ok := t.sessions[sessionID]; ok && session != nil {
		session.lastUsed = t.now()
	}
	t.sessionsMu.Unlock()
}

func (t *HTTPTransport) cleanupSessions(ctx context.Context) {
	ticker := time.NewTicker(timeouts.SessionSweep)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := t.expireSessions(); removed > 0 {
				log.Printf("closed %d idle MCP sessions", removed)
			}
		}
	}
}

// expireSessions closes sessions idle for longer than sessionIdle.
func (t *HTTPTransport) expireSessions() int {
	cutoff := t.now().Add(-t.sessionIdle)

	t.sessionsMu.Lock()
	var expired []*httpSession
	for id, session := range t.sessions {
		if session.lastUsed.Before(cutoff) {
			expired = append(expired, session)
			delete(t.sessions, id)
		}
	}
	t.sessionsMu.Unlock()

	t.serverOnceMu.Lock()
	for _, session := range expired {
		delete(t.serverOnce, session.id)
	}
	t.serverOnceMu.Unlock()

	for _, session := range expired {
		_ = session.conn.Close()
	}
	return len(expired)
}

// closeSessions closes every open session.
func (t *HTTPTransport) closeSessions() {
	t.sessionsMu.Lock()
	sessions := t.sessions
	t.sessions = make(map[string]*httpSession)
	t.sessionsMu.Unlock()

	for _, session := range sessions {
		_ = session.conn.Close()
	}
}

// sessionCount reports the number of open sessions.
func (t *HTTPTransport) sessionCount() int {
	t.sessionsMu.RLock()
	defer t.sessionsMu.RUnlock()
	return len(t.sessions)
}

// ensureServerRunning starts the MCP server loop for session exactly once
// and waits briefly for it to begin reading.
func (t *HTTPTransport) ensureServerRunning(session *httpSession) {
	if t.server == nil {
		return
	}

	t.serverOnceMu.Lock()
	once, exists := t.serverOnce[session.id]
	if !exists {
		once = &sync.Once{}
		t.serverOnce[session.id] = once
	}
	t.serverOnceMu.Unlock()

	once.Do(func() {
		go func() {
			serverSession, err := t.server.Connect(t.serverCtx, &sessionTransport{conn: session.conn}, nil)
			if err != nil {
				log.Printf("Failed to connect MCP server session %s: %v", session.id, err)
				return
			}
			_ = serverSession.Wait()
		}()
	})

	select {
	case <-session.conn.ready:
	case <-time.After(t.serverReadyTimeout):
		// The loop picks the message up once it starts reading.
	case <-t.serverCtx.Done():
	}
}

// sessionTransport hands a pre-built connection to Server.Connect.
type sessionTransport struct {
	conn mcp.Connection
}

// Connect implements mcp.Transport.
func (st *sessionTransport) Connect(context.Context) (mcp.Connection, error) {
	return st.conn, nil
}

// pendingResponse registers a waiter for the response to id.
func (c *httpConnection) pendingResponse(id jsonrpc.ID) (chan jsonrpc.Message, func()) {
	respChan := make(chan jsonrpc.Message, 1)
	c.pendingMu.Lock()
	if c.pendingReqs != nil {
		c.pendingReqs[id] = respChan
	}
	c.pendingMu.Unlock()
	return respChan, func() {
		c.pendingMu.Lock()
		if c.pendingReqs != nil {
			delete(c.pendingReqs, id)
		}
		c.pendingMu.Unlock()
	}
}
