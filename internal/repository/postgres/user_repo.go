package postgres

import (
	"context"
	"errors"

	"github.com/and161185/todo-api/internal/errs"
	"github.com/and161185/todo-api/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// UserRepo implements UserRepository using PostgreSQL.
type UserRepo struct{ db *DB }

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = `id, username, email, password_hash, created_at, updated_at`

// Create inserts a new user row. Unique violations surface as validation
// errors naming the conflicting field, so a race with a concurrent
// registration reports the same way as the service-level pre-check.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	const q = `
INSERT INTO users (id, username, email, password_hash)
VALUES ($1, $2, $3, $4)
RETURNING created_at, updated_at`
	ctx, cancel := r.db.Bound(ctx)
	defer cancel()
	row := r.db.Pool.QueryRow(ctx, q, u.ID, u.Username, u.Email, u.PasswordHash)
	if err := row.Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		if c, ok := uniqueViolation(err); ok {
			switch constraintColumn(c) {
			case "email":
				return errs.Validation("Email already exists")
			case "username":
				return errs.Validation("Username already exists")
			}
			return errs.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetByID selects a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	ctx, cancel := r.db.Bound(ctx)
	defer cancel()
	return r.scanOne(r.db.Pool.QueryRow(ctx, q, id))
}

// GetByEmail selects a user by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	ctx, cancel := r.db.Bound(ctx)
	defer cancel()
	return r.scanOne(r.db.Pool.QueryRow(ctx, q, email))
}

// GetByUsername selects a user by username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE username=$1`
	ctx, cancel := r.db.Bound(ctx)
	defer cancel()
	return r.scanOne(r.db.Pool.QueryRow(ctx, q, username))
}

// Update persists mutable profile fields.
func (r *UserRepo) Update(ctx context.Context, u *model.User) error {
	const q = `
UPDATE users
SET username=$2, email=$3, password_hash=$4, updated_at=now()
WHERE id=$1`
	ctx, cancel := r.db.Bound(ctx)
	defer cancel()
	tag, err := r.db.Pool.Exec(ctx, q, u.ID, u.Username, u.Email, u.PasswordHash)
	if err != nil {
		if c, ok := uniqueViolation(err); ok {
			switch constraintColumn(c) {
			case "email":
				return errs.Validation("Email already exists")
			case "username":
				return errs.Validation("Username already exists")
			}
			return errs.ErrAlreadyExists
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *UserRepo) scanOne(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
