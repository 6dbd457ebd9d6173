package httpserver

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"

	"go.uber.org/zap"

	"github.com/and161185/todo-api/internal/errs"
)

// csrfHeaders is the ordered list of header aliases checked for the
// double-submit value.
var csrfHeaders = []string{"X-CSRF-Token", "X-XSRF-Token"}

// safeMethods need no CSRF check.
var safeMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodOptions: true,
}

// CSRF returns a double-submit-cookie verification middleware. The token
// lives in a script-readable cookie and must be echoed back in a header;
// equality, not secrecy, is the check, so the guarantee is "this request
// came from a context that can read this origin's cookies".
//
// State-changing methods only; skipPaths (health, docs) pass through.
func CSRF(skipPaths []string, log *zap.Logger) func(http.Handler) http.Handler {
	skip := make(map[string]bool, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if safeMethods[r.Method] || skip[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			cookieVal := ""
			if c, err := r.Cookie(csrfCookie); err == nil {
				cookieVal = c.Value
			}
			headerVal := ""
			for _, h := range csrfHeaders {
				if v := r.Header.Get(h); v != "" {
					headerVal = v
					break
				}
			}

			if cookieVal == "" || headerVal == "" {
				log.Info("csrf denied", zap.String("reason", "missing token"), zap.String("path", r.URL.Path))
				writeError(w, log, errs.Unauthorized("CSRF token required"))
				return
			}
			if !constantTimeEqual(cookieVal, headerVal) {
				log.Info("csrf denied", zap.String("reason", "token mismatch"), zap.String("path", r.URL.Path))
				writeError(w, log, errs.Unauthorized("Invalid CSRF token"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// constantTimeEqual compares two values without leaking how many leading
// bytes match. Length mismatch returns immediately: length is not secret.
func constantTimeEqual(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// newCSRFToken returns a fresh opaque random token. A new one is issued
// alongside every auth-cookie-setting response so tokens from a previous
// session cannot be replayed past a rotation boundary.
func newCSRFToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
