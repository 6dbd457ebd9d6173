// Package cached decorates repositories with a cache-aside layer.
//
// Reads go through the cache facade's get-or-compute helper; writes mutate
// the database first and, only on success, invalidate the affected keys.
// Invalidation (never in-place update) keeps concurrent writes benign: the
// cache may be stale between an invalidation and the next read, but never
// wrong after it.
package cached

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/and161185/todo-api/internal/cache"
	"github.com/and161185/todo-api/internal/model"
	"github.com/and161185/todo-api/internal/repository"
	"github.com/gofrs/uuid/v5"
)

// TodoRepo wraps a TodoRepository with cache-aside reads and
// invalidate-on-write. Cache keys embed the owning user's id
// (todo:{userID}:...), so no lookup can serve one user's data to another.
//
// Negative lookups are not cached: a miss for an absent todo always reaches
// the database again.
type TodoRepo struct {
	next  repository.TodoRepository
	cache cache.Cache
	ttl   time.Duration
}

// NewTodoRepo decorates next with the cache facade.
func NewTodoRepo(next repository.TodoRepository, c cache.Cache, ttl time.Duration) *TodoRepo {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &TodoRepo{next: next, cache: c, ttl: ttl}
}

func itemKey(userID, id uuid.UUID) string {
	return fmt.Sprintf("todo:%s:%s", userID, id)
}

func listKey(userID uuid.UUID, limit, offset int) string {
	return fmt.Sprintf("todo:%s:list:%d:%d", userID, limit, offset)
}

func userPattern(userID uuid.UUID) string {
	return fmt.Sprintf("todo:%s:*", userID)
}

// Create inserts the todo and invalidates the owner's cached lists.
func (r *TodoRepo) Create(ctx context.Context, t *model.Todo) error {
	if err := r.next.Create(ctx, t); err != nil {
		return err
	}
	r.cache.DelPattern(ctx, userPattern(t.UserID))
	return nil
}

// GetByID reads through the cache.
func (r *TodoRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*model.Todo, error) {
	raw, err := r.cache.GetOrSet(ctx, itemKey(userID, id), r.ttl, func(ctx context.Context) (string, error) {
		t, err := r.next.GetByID(ctx, userID, id)
		if err != nil {
			return "", err
		}
		b, err := json.Marshal(t)
		if err != nil {
			return "", err
		}
		return string(b), nil
	})
	if err != nil {
		return nil, err
	}
	var t model.Todo
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		// Corrupt cache entry: drop it and fall through to the database.
		r.cache.Del(ctx, itemKey(userID, id))
		return r.next.GetByID(ctx, userID, id)
	}
	return &t, nil
}

// ListByUser reads a page through the cache.
func (r *TodoRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Todo, error) {
	key := listKey(userID, limit, offset)
	raw, err := r.cache.GetOrSet(ctx, key, r.ttl, func(ctx context.Context) (string, error) {
		todos, err := r.next.ListByUser(ctx, userID, limit, offset)
		if err != nil {
			return "", err
		}
		b, err := json.Marshal(todos)
		if err != nil {
			return "", err
		}
		return string(b), nil
	})
	if err != nil {
		return nil, err
	}
	var todos []model.Todo
	if err := json.Unmarshal([]byte(raw), &todos); err != nil {
		r.cache.Del(ctx, key)
		return r.next.ListByUser(ctx, userID, limit, offset)
	}
	return todos, nil
}

// Update persists the change and invalidates the item and the owner's lists.
func (r *TodoRepo) Update(ctx context.Context, t *model.Todo) error {
	if err := r.next.Update(ctx, t); err != nil {
		return err
	}
	r.cache.Del(ctx, itemKey(t.UserID, t.ID))
	r.cache.DelPattern(ctx, userPattern(t.UserID))
	return nil
}

// Delete removes the row and invalidates the item and the owner's lists.
func (r *TodoRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := r.next.Delete(ctx, userID, id); err != nil {
		return err
	}
	r.cache.Del(ctx, itemKey(userID, id))
	r.cache.DelPattern(ctx, userPattern(userID))
	return nil
}
