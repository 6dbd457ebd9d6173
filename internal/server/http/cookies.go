package httpserver

import (
	"net/http"
	"time"

	"github.com/and161185/todo-api/internal/model"
)

const (
	accessCookie  = "access_token"
	refreshCookie = "refresh_token"
	csrfCookie    = "csrf_token"

	refreshPath = "/api/auth"
)

// setAuthCookies binds a freshly minted token pair plus a new CSRF token to
// the response. Access and refresh cookies are httpOnly; the CSRF cookie is
// script-readable because double-submit requires JS to echo it in a header.
func (s *Server) setAuthCookies(w http.ResponseWriter, tokens model.TokenPair, csrf string) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessCookie,
		Value:    tokens.AccessToken,
		Path:     "/",
		Domain:   s.cookieDomain,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.accessTTL.Seconds()),
		Expires:  time.Now().Add(s.accessTTL).UTC(),
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookie,
		Value:    tokens.RefreshToken,
		Path:     refreshPath,
		Domain:   s.cookieDomain,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.refreshTTL.Seconds()),
		Expires:  time.Now().Add(s.refreshTTL).UTC(),
	})
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookie,
		Value:    csrf,
		Path:     "/",
		Domain:   s.cookieDomain,
		HttpOnly: false,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.refreshTTL.Seconds()),
		Expires:  time.Now().Add(s.refreshTTL).UTC(),
	})
}

// clearAuthCookies expires all three cookies.
func (s *Server) clearAuthCookies(w http.ResponseWriter) {
	expired := func(name, path string, httpOnly bool) *http.Cookie {
		return &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     path,
			Domain:   s.cookieDomain,
			HttpOnly: httpOnly,
			Secure:   s.cookieSecure,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
			Expires:  time.Unix(0, 0).UTC(),
		}
	}
	http.SetCookie(w, expired(accessCookie, "/", true))
	http.SetCookie(w, expired(refreshCookie, refreshPath, true))
	http.SetCookie(w, expired(csrfCookie, "/", false))
}
