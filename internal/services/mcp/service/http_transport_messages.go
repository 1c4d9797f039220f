package service

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
)

// maxMessageBytes bounds a single POSTed JSON-RPC message.
const maxMessageBytes = 4 << 20

// handleMessages handles POST /mcp. Requests wait for their matching
// response; notifications are queued and acknowledged with 204.
func (t *HTTPTransport) handleMessages(w http.ResponseWriter, r *http.Request) {
	if err := t.validateLocalRequest(r); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !t.authorizeRequest(w, r) {
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxMessageBytes))
	defer r.Body.Close()
	if err != nil {
		log.Printf("Failed to read request body: %v", err)
		http.Error(w, "Failed to read request", http.StatusBadRequest)
		return
	}

	msg, err := jsonrpc.DecodeMessage(body)
	if err != nil {
		log.Printf("Invalid JSON-RPC message: %v", err)
		http.Error(w, "Invalid JSON-RPC message", http.StatusBadRequest)
		return
	}
	req, ok := msg.(*jsonrpc.Request)
	if !ok {
		http.Error(w, "Invalid message type: response", http.StatusBadRequest)
		return
	}

	sessionID, session := t.sessionFromRequest(r)
	if session == nil {
		if req.Method != "initialize" {
			if sessionID == "" {
				writeSessionError(w, "Missing session ID")
			} else {
				writeSessionError(w, "Invalid session ID")
			}
			return
		}
		conn, err := t.Connect(r.Context())
		if err != nil {
			log.Printf("Failed to create session: %v", err)
			http.Error(w, "Failed to create session", http.StatusInternalServerError)
			return
		}
		sessionID = conn.SessionID()
		t.sessionsMu.RLock()
		session = t.sessions[sessionID]
		t.sessionsMu.RUnlock()
		if session == nil {
			http.Error(w, "Failed to retrieve session after creation", http.StatusInternalServerError)
			return
		}
		w.Header().Set(sessionHeader, sessionID)
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    sessionID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
		})
		log.Printf("opened MCP session %s", sessionID)
	}

	t.touch(sessionID)
	t.ensureServerRunning(session)

	if req.ID == (jsonrpc.ID{}) {
		if err := session.conn.deliver(r.Context(), msg); err != nil {
			http.Error(w, "Request cancelled", http.StatusRequestTimeout)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	respChan, release := session.conn.pendingResponse(req.ID)
	defer release()

	if err := session.conn.deliver(r.Context(), msg); err != nil {
		http.Error(w, "Request cancelled", http.StatusRequestTimeout)
		return
	}

	select {
	case resp := <-respChan:
		data, err := jsonrpc.EncodeMessage(resp)
		if err != nil {
			log.Printf("Failed to encode response: %v", err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write(data); err != nil {
			log.Printf("Failed to write response: %v", err)
		}
	case <-session.conn.closed:
		writeSessionError(w, "Session closed")
	case <-r.Context().Done():
		http.Error(w, "Request cancelled", http.StatusRequestTimeout)
	case <-time.After(defaultRequestTimeout):
		http.Error(w, "Request timeout", http.StatusRequestTimeout)
	}
}

type sessionErrorBody struct {
	JSONRPC string           `json:"jsonrpc"`
	Error   sessionErrorInfo `json:"error"`
	ID      *int             `json:"id"`
}

type sessionErrorInfo struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeSessionError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	data, err := json.Marshal(sessionErrorBody{
		JSONRPC: "2.0",
		Error:   sessionErrorInfo{Code: -32000, Message: message},
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","error":{"code":-32000,"message":"Session error"},"id":null}`))
		return
	}
	_, _ = w.Write(data)
}
