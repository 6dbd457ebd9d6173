package service

import (
	"context"

	"github.com/and161185/todo-api/internal/errs"
	"github.com/and161185/todo-api/internal/model"
	"github.com/and161185/todo-api/internal/repository"
	"github.com/gofrs/uuid/v5"
)

// TodoService defines CRUD operations over a user's todos.
type TodoService interface {
	// Create stores a new todo for the user.
	Create(ctx context.Context, userID uuid.UUID, title, description string) (*model.Todo, error)
	// Get returns a single owned todo.
	Get(ctx context.Context, userID, id uuid.UUID) (*model.Todo, error)
	// List returns a page of the user's todos.
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Todo, error)
	// Update overwrites title/description/completed of an owned todo.
	Update(ctx context.Context, userID, id uuid.UUID, title, description string, completed bool) (*model.Todo, error)
	// Delete removes an owned todo.
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type TodoServiceImpl struct {
	repo repository.TodoRepository
}

// NewTodoService constructs TodoService.
func NewTodoService(repo repository.TodoRepository) *TodoServiceImpl {
	return &TodoServiceImpl{repo: repo}
}

// Create validates input and stores a new todo.
func (s *TodoServiceImpl) Create(ctx context.Context, userID uuid.UUID, title, description string) (*model.Todo, error) {
	if userID == uuid.Nil {
		return nil, errs.Validation("missing user")
	}
	if title == "" {
		return nil, errs.Validation("title is required")
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	t := &model.Todo{
		ID:          id,
		UserID:      userID,
		Title:       title,
		Description: description,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Get fetches a single todo scoped to its owner.
func (s *TodoServiceImpl) Get(ctx context.Context, userID, id uuid.UUID) (*model.Todo, error) {
	if userID == uuid.Nil || id == uuid.Nil {
		return nil, errs.Validation("missing user/id")
	}
	return s.repo.GetByID(ctx, userID, id)
}

// List returns a page of todos with clamped pagination.
func (s *TodoServiceImpl) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Todo, error) {
	if userID == uuid.Nil {
		return nil, errs.Validation("missing user")
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// Update overwrites the mutable fields of an owned todo.
func (s *TodoServiceImpl) Update(ctx context.Context, userID, id uuid.UUID, title, description string, completed bool) (*model.Todo, error) {
	if userID == uuid.Nil || id == uuid.Nil {
		return nil, errs.Validation("missing user/id")
	}
	if title == "" {
		return nil, errs.Validation("title is required")
	}
	t := &model.Todo{
		ID:          id,
		UserID:      userID,
		Title:       title,
		Description: description,
		Completed:   completed,
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, userID, id)
}

// Delete removes an owned todo.
func (s *TodoServiceImpl) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if userID == uuid.Nil || id == uuid.Nil {
		return errs.Validation("missing user/id")
	}
	return s.repo.Delete(ctx, userID, id)
}
