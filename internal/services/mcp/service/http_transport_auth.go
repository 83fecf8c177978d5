package service

import (
	"crypto/subtle"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/louisbranch/my-api/internal/platform/httpx"
)

// validateLocalRequest checks Host and Origin against the allowlist to block
// DNS rebinding from remote pages.
func (h *HTTPHandler) validateLocalRequest(r *http.Request) error {
	if r == nil {
		return errors.New("invalid request")
	}
	if !h.isAllowedHostHeader(r.Host) {
		return errors.New("invalid host")
	}

	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		return nil
	}
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return errors.New("invalid origin")
	}
	if !h.isAllowedHostHeader(parsed.Host) {
		return errors.New("invalid origin")
	}
	return nil
}

// authorizeRequest requires "Authorization: Bearer <api key>".
func (h *HTTPHandler) authorizeRequest(w http.ResponseWriter, r *http.Request) bool {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		writeUnauthorized(w, "authorization required")
		return false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		writeUnauthorized(w, "authorization required")
		return false
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(h.apiKey)) != 1 {
		writeUnauthorized(w, "invalid api key")
		return false
	}
	return true
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	_ = httpx.WriteJSONError(w, http.StatusUnauthorized, message)
}

var loopbackHosts = map[string]struct{}{
	"localhost": {},
	"127.0.0.1": {},
	"::1":       {},
}

func (h *HTTPHandler) isAllowedHostHeader(authority string) bool {
	host, ok := normalizeHost(authority)
	if !ok {
		return false
	}
	host = strings.ToLower(host)
	if _, ok := loopbackHosts[host]; ok {
		return true
	}
	_, ok = h.allowedHosts[host]
	return ok
}

func parseAllowedHosts(hosts []string) map[string]struct{} {
	result := make(map[string]struct{}, len(hosts))
	for _, entry := range hosts {
		if entry = strings.ToLower(strings.TrimSpace(entry)); entry != "" {
			result[entry] = struct{}{}
		}
	}
	return result
}

// normalizeHost extracts the hostname from a Host or Origin authority,
// accepting bracketed and bare IPv6 literals.
func normalizeHost(authority string) (string, bool) {
	authority = strings.TrimSpace(authority)
	if authority == "" {
		return "", false
	}
	if host, _, err := net.SplitHostPort(authority); err == nil {
		return host, host != ""
	}
	if strings.HasPrefix(authority, "[") {
		if !strings.HasSuffix(authority, "]") {
			return "", false
		}
		return authority[1 : len(authority)-1], true
	}
	if strings.Count(authority, ":") == 1 {
		return "", false
	}
	return authority, true
}
