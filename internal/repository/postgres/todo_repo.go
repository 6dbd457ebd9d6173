package postgres

import (
	"context"
	"errors"

	"github.com/and161185/todo-api/internal/errs"
	"github.com/and161185/todo-api/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// TodoRepo implements TodoRepository using PostgreSQL. Every query carries
// user_id in its WHERE clause: a todo owned by someone else scans as
// ErrNotFound, identically to a todo that does not exist.
type TodoRepo struct{ db *DB }

// NewTodoRepo constructs a todo repository.
func NewTodoRepo(db *DB) *TodoRepo { return &TodoRepo{db: db} }

const todoColumns = `id, user_id, title, description, completed, created_at, updated_at`

// Create inserts a new todo row.
func (r *TodoRepo) Create(ctx context.Context, t *model.Todo) error {
	const q = `
INSERT INTO todos (id, user_id, title, description, completed)
VALUES ($1, $2, $3, $4, $5)
RETURNING created_at, updated_at`
	ctx, cancel := r.db.Bound(ctx)
	defer cancel()
	row := r.db.Pool.QueryRow(ctx, q, t.ID, t.UserID, t.Title, t.Description, t.Completed)
	return row.Scan(&t.CreatedAt, &t.UpdatedAt)
}

// GetByID selects a single todo scoped to its owner.
func (r *TodoRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*model.Todo, error) {
	const q = `SELECT ` + todoColumns + ` FROM todos WHERE id=$1 AND user_id=$2`
	ctx, cancel := r.db.Bound(ctx)
	defer cancel()
	row := r.db.Pool.QueryRow(ctx, q, id, userID)
	var t model.Todo
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// ListByUser returns a page of the user's todos, newest first.
func (r *TodoRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Todo, error) {
	const q = `
SELECT ` + todoColumns + `
FROM todos WHERE user_id=$1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	ctx, cancel := r.db.Bound(ctx)
	defer cancel()
	rows, err := r.db.Pool.Query(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	todos := make([]model.Todo, 0, limit)
	for rows.Next() {
		var t model.Todo
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

// Update persists title/description/completed for an owned todo.
func (r *TodoRepo) Update(ctx context.Context, t *model.Todo) error {
	const q = `
UPDATE todos
SET title=$3, description=$4, completed=$5, updated_at=now()
WHERE id=$1 AND user_id=$2`
	ctx, cancel := r.db.Bound(ctx)
	defer cancel()
	tag, err := r.db.Pool.Exec(ctx, q, t.ID, t.UserID, t.Title, t.Description, t.Completed)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes an owned todo.
func (r *TodoRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	const q = `DELETE FROM todos WHERE id=$1 AND user_id=$2`
	ctx, cancel := r.db.Bound(ctx)
	defer cancel()
	tag, err := r.db.Pool.Exec(ctx, q, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
