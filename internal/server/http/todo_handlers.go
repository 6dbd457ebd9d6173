package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gofrs/uuid/v5"
	"github.com/gorilla/mux"

	"github.com/and161185/todo-api/internal/errs"
)

type todoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

func (s *Server) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, s.log, errs.Unauthorized("Authentication required"))
		return
	}
	var req todoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.log, errs.Validation("invalid request body"))
		return
	}
	t, err := s.todos.Create(r.Context(), userID, req.Title, req.Description)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleListTodos(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, s.log, errs.Unauthorized("Authentication required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	todos, err := s.todos.List(r.Context(), userID, limit, offset)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, todos)
}

func (s *Server) handleGetTodo(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, s.log, errs.Unauthorized("Authentication required"))
		return
	}
	id, err := uuid.FromString(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, s.log, errs.Validation("invalid todo id"))
		return
	}
	t, err := s.todos.Get(r.Context(), userID, id)
	if err != nil {
		writeError(w, s.log, mapNotFound(err))
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, s.log, errs.Unauthorized("Authentication required"))
		return
	}
	id, err := uuid.FromString(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, s.log, errs.Validation("invalid todo id"))
		return
	}
	var req todoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.log, errs.Validation("invalid request body"))
		return
	}
	t, err := s.todos.Update(r.Context(), userID, id, req.Title, req.Description, req.Completed)
	if err != nil {
		writeError(w, s.log, mapNotFound(err))
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, s.log, errs.Unauthorized("Authentication required"))
		return
	}
	id, err := uuid.FromString(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, s.log, errs.Validation("invalid todo id"))
		return
	}
	if err := s.todos.Delete(r.Context(), userID, id); err != nil {
		writeError(w, s.log, mapNotFound(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// mapNotFound turns the bare repository sentinel into a client message.
func mapNotFound(err error) error {
	var typed *errs.Error
	if errors.Is(err, errs.ErrNotFound) && !errors.As(err, &typed) {
		return errs.NotFound("Todo not found")
	}
	return err
}
