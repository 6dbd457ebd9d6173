// Package service contains application services for authentication and todos.
package service

import (
	"context"
	"errors"
	"strings"

	pkgcrypto "github.com/and161185/todo-api/internal/crypto"
	"github.com/and161185/todo-api/internal/errs"
	"github.com/and161185/todo-api/internal/model"
	"github.com/and161185/todo-api/internal/repository"
	"github.com/and161185/todo-api/internal/token"
	"github.com/gofrs/uuid/v5"
)

// AuthService defines registration, login, and token lifecycle operations.
type AuthService interface {
	// Register creates a new user and mints its first token pair.
	Register(ctx context.Context, username, email, password string) (*model.AuthResult, error)
	// Login authenticates by email or username and mints a token pair.
	Login(ctx context.Context, identifier, password string) (*model.AuthResult, error)
	// IssueTokens mints a token pair for an existing user without a
	// password check. Callers must be authorized by an outer layer.
	IssueTokens(ctx context.Context, userID uuid.UUID) (*model.AuthResult, error)
	// RefreshTokens verifies a refresh token and mints a new pair.
	RefreshTokens(ctx context.Context, refreshToken string) (*model.AuthResult, error)
}

type AuthServiceImpl struct {
	users  repository.UserRepository
	tokens *token.Manager
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, tokens *token.Manager) *AuthServiceImpl {
	return &AuthServiceImpl{users: users, tokens: tokens}
}

// Register creates a new user record.
//
// Uniqueness is checked before hashing so a doomed request pays no bcrypt
// cost, and email is checked before username: the first conflicting field
// is the one reported.
func (s *AuthServiceImpl) Register(ctx context.Context, username, email, password string) (*model.AuthResult, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)
	if username == "" || email == "" || password == "" {
		return nil, errs.Validation("username, email and password are required")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, errs.Validation("Email already exists")
	} else if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, errs.Validation("Username already exists")
	} else if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	hash, err := pkgcrypto.HashPassword(password)
	if err != nil {
		return nil, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	u := &model.User{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return s.mint(u)
}

// Login resolves identifier as email first, then as username, and verifies
// the password. Unknown identifier and wrong password fail identically so
// the endpoint cannot be used to enumerate accounts.
func (s *AuthServiceImpl) Login(ctx context.Context, identifier, password string) (*model.AuthResult, error) {
	identifier = strings.TrimSpace(identifier)

	u, err := s.users.GetByEmail(ctx, normalizeEmail(identifier))
	if errors.Is(err, errs.ErrNotFound) {
		u, err = s.users.GetByUsername(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.Unauthorized("Invalid credentials")
		}
		return nil, err
	}

	if !pkgcrypto.VerifyPassword(password, u.PasswordHash) {
		return nil, errs.Unauthorized("Invalid credentials")
	}
	return s.mint(u)
}

// IssueTokens mints a pair for a known user id.
func (s *AuthServiceImpl) IssueTokens(ctx context.Context, userID uuid.UUID) (*model.AuthResult, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.NotFound("User not found")
		}
		return nil, err
	}
	return s.mint(u)
}

// RefreshTokens rotates a token pair. The old refresh token stays usable
// until its natural expiry: nothing tracks issued tokens server-side, so
// there is no revocation, only rotation.
func (s *AuthServiceImpl) RefreshTokens(ctx context.Context, refreshToken string) (*model.AuthResult, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, errs.Unauthorized("Invalid refresh token")
	}

	// A disappeared account is reported as NotFound, distinct from a bad
	// token: operators need to tell a stale token from a deleted user.
	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.NotFound("User not found")
		}
		return nil, err
	}
	return s.mint(u)
}

func (s *AuthServiceImpl) mint(u *model.User) (*model.AuthResult, error) {
	access, exp, err := s.tokens.SignAccess(u.ID, u.Email)
	if err != nil {
		return nil, err
	}
	refresh, _, err := s.tokens.SignRefresh(u.ID, u.Email)
	if err != nil {
		return nil, err
	}
	return &model.AuthResult{
		Tokens: model.TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresAt: exp},
		User:   *u,
	}, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
