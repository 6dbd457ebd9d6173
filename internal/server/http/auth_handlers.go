package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/and161185/todo-api/internal/errs"
	"github.com/and161185/todo-api/internal/model"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type authResponse struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	User         model.User `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.log, errs.Validation("invalid request body"))
		return
	}
	res, err := s.auth.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	s.issue(w, http.StatusCreated, res)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.log, errs.Validation("invalid request body"))
		return
	}
	res, err := s.auth.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	s.issue(w, http.StatusOK, res)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	raw := ""
	if c, err := r.Cookie(refreshCookie); err == nil {
		raw = c.Value
	}
	res, err := s.auth.RefreshTokens(r.Context(), raw)
	if err != nil {
		s.clearAuthCookies(w)
		writeError(w, s.log, err)
		return
	}
	s.issue(w, http.StatusOK, res)
}

func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	s.clearAuthCookies(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// issue sets the cookie triple (access, refresh, fresh CSRF) and writes the
// token pair in the body for non-browser clients.
func (s *Server) issue(w http.ResponseWriter, status int, res *model.AuthResult) {
	csrf, err := newCSRFToken()
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	s.setAuthCookies(w, res.Tokens, csrf)
	writeJSON(w, status, authResponse{
		AccessToken:  res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
		User:         res.User,
	})
}
