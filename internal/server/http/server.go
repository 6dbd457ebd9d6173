// Package httpserver exposes the REST API handlers and middleware.
package httpserver

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/and161185/todo-api/internal/service"
	"github.com/and161185/todo-api/internal/token"
)

// Server wires services into HTTP handlers.
type Server struct {
	auth   service.AuthService
	todos  service.TodoService
	tokens *token.Manager
	log    *zap.Logger

	cookieDomain string
	cookieSecure bool
	csrfSkip     []string
	accessTTL    time.Duration
	refreshTTL   time.Duration
}

// Opts carries cookie attributes and the CSRF skip list for the server.
// An empty CSRFSkipPaths falls back to defaultCSRFSkipPaths.
type Opts struct {
	CookieDomain  string
	CookieSecure  bool
	CSRFSkipPaths []string
}

// New constructs a Server with injected services.
func New(auth service.AuthService, todos service.TodoService, tokens *token.Manager, log *zap.Logger, o Opts) *Server {
	skip := o.CSRFSkipPaths
	if len(skip) == 0 {
		skip = defaultCSRFSkipPaths
	}
	return &Server{
		auth:         auth,
		todos:        todos,
		tokens:       tokens,
		log:          log,
		cookieDomain: o.CookieDomain,
		cookieSecure: o.CookieSecure,
		csrfSkip:     skip,
		accessTTL:    tokens.AccessTTL(),
		refreshTTL:   tokens.RefreshTTL(),
	}
}

// defaultCSRFSkipPaths lists endpoints exempt from the CSRF check: health
// probes and the entry points a client hits before it has any cookies.
var defaultCSRFSkipPaths = []string{
	"/health",
	"/api/auth/register",
	"/api/auth/login",
}

// Router assembles the middleware chain and routes.
// Chain: Recover -> Logging -> CSRF -> (protected subrouter) Auth.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(Recover(s.log))
	r.Use(Logging(s.log))
	r.Use(CSRF(s.csrfSkip, s.log))

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	r.HandleFunc("/api/auth/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/refresh", s.handleRefresh).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/logout", s.handleLogout).Methods(http.MethodPost)

	todos := r.PathPrefix("/api/todos").Subrouter()
	todos.Use(Auth(s.tokens, s.log))
	todos.HandleFunc("", s.handleCreateTodo).Methods(http.MethodPost)
	todos.HandleFunc("", s.handleListTodos).Methods(http.MethodGet)
	todos.HandleFunc("/{id}", s.handleGetTodo).Methods(http.MethodGet)
	todos.HandleFunc("/{id}", s.handleUpdateTodo).Methods(http.MethodPut)
	todos.HandleFunc("/{id}", s.handleDeleteTodo).Methods(http.MethodDelete)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
