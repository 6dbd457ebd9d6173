package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/and161185/todo-api/internal/errs"
	"github.com/and161185/todo-api/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) (*DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return &DB{Pool: mock}, mock
}

func userRow(u *model.User) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "username", "email", "password_hash", "created_at", "updated_at"}).
		AddRow(u.ID, u.Username, u.Email, u.PasswordHash, u.CreatedAt, u.UpdatedAt)
}

func TestUserRepo_Create_OK(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewUserRepo(db)
	ctx := context.Background()
	u := &model.User{
		ID:           uuid.Must(uuid.NewV7()),
		Username:     "alice",
		Email:        "a@x.com",
		PasswordHash: "$2a$10$hash",
	}

	mock.ExpectQuery(`INSERT INTO users \(id, username, email, password_hash\) VALUES \(\$1, \$2, \$3, \$4\) RETURNING created_at, updated_at`).
		WithArgs(u.ID, u.Username, u.Email, u.PasswordHash).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(time.Now(), time.Now()))
	require.NoError(t, r.Create(ctx, u))
	require.False(t, u.CreatedAt.IsZero())
}

func TestUserRepo_Create_UniqueViolations(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewUserRepo(db)
	ctx := context.Background()
	u := &model.User{ID: uuid.Must(uuid.NewV7()), Username: "alice", Email: "a@x.com", PasswordHash: "h"}

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(u.ID, u.Username, u.Email, u.PasswordHash).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
	err := r.Create(ctx, u)
	require.ErrorIs(t, err, errs.ErrValidation)
	require.EqualError(t, err, "Email already exists")

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(u.ID, u.Username, u.Email, u.PasswordHash).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})
	err = r.Create(ctx, u)
	require.ErrorIs(t, err, errs.ErrValidation)
	require.EqualError(t, err, "Username already exists")
}

func TestUserRepo_GetByID(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewUserRepo(db)
	ctx := context.Background()
	u := &model.User{ID: uuid.Must(uuid.NewV7()), Username: "alice", Email: "a@x.com", PasswordHash: "h"}

	mock.ExpectQuery(`SELECT id, username, email, password_hash, created_at, updated_at FROM users WHERE id=\$1`).
		WithArgs(u.ID).
		WillReturnRows(userRow(u))
	got, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	mock.ExpectQuery(`SELECT id, username, email, password_hash, created_at, updated_at FROM users WHERE id=\$1`).
		WithArgs(u.ID).
		WillReturnError(pgx.ErrNoRows)
	_, err = r.GetByID(ctx, u.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestUserRepo_GetByEmailAndUsername(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewUserRepo(db)
	ctx := context.Background()
	u := &model.User{ID: uuid.Must(uuid.NewV7()), Username: "alice", Email: "a@x.com", PasswordHash: "h"}

	mock.ExpectQuery(`SELECT id, username, email, password_hash, created_at, updated_at FROM users WHERE email=\$1`).
		WithArgs(u.Email).
		WillReturnRows(userRow(u))
	got, err := r.GetByEmail(ctx, u.Email)
	require.NoError(t, err)
	require.Equal(t, u.Email, got.Email)

	mock.ExpectQuery(`SELECT id, username, email, password_hash, created_at, updated_at FROM users WHERE username=\$1`).
		WithArgs(u.Username).
		WillReturnRows(userRow(u))
	got, err = r.GetByUsername(ctx, u.Username)
	require.NoError(t, err)
	require.Equal(t, u.Username, got.Username)
}

func TestUserRepo_Update(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewUserRepo(db)
	ctx := context.Background()
	u := &model.User{ID: uuid.Must(uuid.NewV7()), Username: "alice2", Email: "a2@x.com", PasswordHash: "h2"}

	mock.ExpectExec(`UPDATE users SET username=\$2, email=\$3, password_hash=\$4, updated_at=now\(\) WHERE id=\$1`).
		WithArgs(u.ID, u.Username, u.Email, u.PasswordHash).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, r.Update(ctx, u))

	mock.ExpectExec(`UPDATE users SET username=\$2, email=\$3, password_hash=\$4, updated_at=now\(\) WHERE id=\$1`).
		WithArgs(u.ID, u.Username, u.Email, u.PasswordHash).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	require.ErrorIs(t, r.Update(ctx, u), errs.ErrNotFound)
}
