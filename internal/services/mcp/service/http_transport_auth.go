package service

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var (
	errMissingBearer = errors.New("authorization required")
	errInvalidBearer = errors.New("invalid access token")
)

// requestAuthorizer admits or rejects an HTTP request.
type requestAuthorizer interface {
	Authorize(*http.Request) error
}

// newRequestAuthorizer builds bearer authorization from a static token, an
// HS256 JWT secret, or both. With neither it returns nil and requests are
// admitted without credentials.
func newRequestAuthorizer(token, jwtSecret string) (requestAuthorizer, error) {
	token = strings.TrimSpace(token)
	jwtSecret = strings.TrimSpace(jwtSecret)

	var authorizers anyAuthorizer
	if token != "" {
		authorizers = append(authorizers, staticTokenAuthorizer{token: token})
	}
	if jwtSecret != "" {
		if len(jwtSecret) < 32 {
			return nil, fmt.Errorf("jwt secret must be at least 32 bytes")
		}
		authorizers = append(authorizers, jwtAuthorizer{secret: []byte(jwtSecret)})
	}
	switch len(authorizers) {
	case 0:
		return nil, nil
	case 1:
		return authorizers[0], nil
	default:
		return authorizers, nil
	}
}

// bearerToken extracts the credential of an Authorization: Bearer header.
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return "", errMissingBearer
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errMissingBearer
	}
	return token, nil
}

type staticTokenAuthorizer struct {
	token string
}

func (a staticTokenAuthorizer) Authorize(r *http.Request) error {
	token, err := bearerToken(r)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) != 1 {
		return errInvalidBearer
	}
	return nil
}

type jwtAuthorizer struct {
	secret []byte
}

func (a jwtAuthorizer) Authorize(r *http.Request) error {
	token, err := bearerToken(r)
	if err != nil {
		return err
	}
	parsed, err := jwt.Parse(token, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return errInvalidBearer
	}
	return nil
}

// anyAuthorizer admits a request accepted by any member.
type anyAuthorizer []requestAuthorizer

func (a anyAuthorizer) Authorize(r *http.Request) error {
	err := errMissingBearer
	for _, authz := range a {
		if err = authz.Authorize(r); err == nil {
			return nil
		}
	}
	return err
}

// authorizeRequest applies the configured authorizer, writing a 401 on
// rejection.
func (t *HTTPTransport) authorizeRequest(w http.ResponseWriter, r *http.Request) bool {
	if t.authz == nil {
		return true
	}
	if err := t.authz.Authorize(r); err != nil {
		w.Header().Set("WWW-Authenticate", `Bearer realm="mcp"`)
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return false
	}
	return true
}

// validateLocalRequest checks Host and Origin against the allowed hosts so
// remote pages cannot reach a local server through DNS rebinding.
func (t *HTTPTransport) validateLocalRequest(r *http.Request) error {
	if r == nil {
		return fmt.Errorf("invalid request")
	}
	if !t.isAllowedHostHeader(r.Host) {
		return fmt.Errorf("invalid host")
	}

	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		return nil
	}
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return fmt.Errorf("invalid origin")
	}
	if !t.isAllowedHostHeader(parsed.Host) {
		return fmt.Errorf("invalid origin")
	}
	return nil
}

// isAllowedHostHeader reports whether a Host/Origin value names loopback or
// an allow-listed host.
func (t *HTTPTransport) isAllowedHostHeader(host string) bool {
	resolvedHost, ok := normalizeHost(host)
	if !ok {
		return false
	}
	if isLoopbackHost(resolvedHost) {
		return true
	}
	_, ok = t.allowedHosts[strings.ToLower(resolvedHost)]
	return ok
}

func isLoopbackHost(host string) bool {
	switch strings.ToLower(strings.TrimSpace(host)) {
	case "localhost", "127.0.0.1", "::1":
		return true
	default:
		return false
	}
}

// parseAllowedHosts lower-cases and de-blanks configured host names.
func parseAllowedHosts(hosts []string) map[string]struct{} {
	result := make(map[string]struct{}, len(hosts))
	for _, entry := range hosts {
		trimmed := strings.TrimSpace(entry)
		if trimmed == "" {
			continue
		}
		result[strings.ToLower(trimmed)] = struct{}{}
	}
	return result
}

// normalizeHost extracts the hostname portion from Host/Origin headers.
func normalizeHost(host string) (string, bool) {
	host = strings.TrimSpace(host)
	if host == "" {
		return "", false
	}

	if strings.HasPrefix(host, "[") {
		if splitHost, _, err := net.SplitHostPort(host); err == nil {
			return splitHost, true
		}
		if strings.HasSuffix(host, "]") {
			return strings.TrimSuffix(strings.TrimPrefix(host, "["), "]"), true
		}
		return "", false
	}
	if strings.Count(host, ":") > 1 {
		return host, true
	}
	if strings.Contains(host, ":") {
		splitHost, _, err := net.SplitHostPort(host)
		if err != nil {
			return "", false
		}
		return splitHost, true
	}
	return host, true
}

type healthBody struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

// handleHealth handles GET /mcp/health.
func (t *HTTPTransport) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := t.validateLocalRequest(r); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(healthBody{Status: "ok", Sessions: t.sessionCount()}); err != nil {
		log.Printf("Failed to write health response: %v", err)
	}
}
