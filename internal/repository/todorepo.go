package repository

import (
	"context"

	"github.com/and161185/todo-api/internal/model"
	"github.com/gofrs/uuid/v5"
)

// TodoRepository provides CRUD access to user-owned todos. Every operation
// is scoped by owner: an ID that exists under a different owner behaves
// identically to one that does not exist at all.
type TodoRepository interface {
	// Create inserts a new todo.
	Create(ctx context.Context, t *model.Todo) error
	// GetByID returns a single todo owned by userID.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*model.Todo, error)
	// ListByUser returns a page of the user's todos, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Todo, error)
	// Update persists title/description/completed for a todo owned by userID.
	Update(ctx context.Context, t *model.Todo) error
	// Delete removes a todo owned by userID.
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
