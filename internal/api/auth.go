package api

import (
	"crypto/subtle"
	"log"
	"net/http"

	"github.com/pgmkit/xdslconv/internal/config"
)

// authConfig holds API credentials loaded from environment variables.
type authConfig struct {
	user    string
	pass    string
	enabled bool
}

var auth *authConfig

// InitAuth loads auth credentials from environment variables or files.
// Supports the *_FILE convention: if XDSLCONV_API_USER_FILE is set, the
// value is read from that file. If no credentials are set, authentication
// is disabled (dev-friendly).
func InitAuth() {
	user, err := config.ResolveSecret("XDSLCONV_API_USER")
	if err != nil {
		log.Fatalf("failed to resolve XDSLCONV_API_USER: %v", err)
	}
	pass, err := config.ResolveSecret("XDSLCONV_API_PASS")
	if err != nil {
		log.Fatalf("failed to resolve XDSLCONV_API_PASS: %v", err)
	}

	auth = &authConfig{
		user:    user,
		pass:    pass,
		enabled: user != "" && pass != "",
	}
}

// IsAuthEnabled returns true if authentication is configured.
func IsAuthEnabled() bool {
	return auth != nil && auth.enabled
}

// authenticate checks basic auth credentials.
func authenticate(r *http.Request) bool {
	if auth == nil || !auth.enabled {
		return true // No auth configured = open access
	}

	user, pass, ok := r.BasicAuth()
	if !ok {
		return false
	}

	return secureCompare(user, auth.user) && secureCompare(pass, auth.pass)
}

// secureCompare performs constant-time string comparison to prevent timing attacks.
func secureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// RequireAuth wraps a handler with basic auth when credentials are configured.
func RequireAuth(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !authenticate(r) {
			w.Header().Set("WWW-Authenticate", `Basic realm="xdslconv"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		handler(w, r)
	}
}
