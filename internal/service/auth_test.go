package service

import (
	"context"
	"strings"
	"testing"
	"time"

	pkgcrypto "github.com/and161185/todo-api/internal/crypto"
	"github.com/and161185/todo-api/internal/errs"
	"github.com/and161185/todo-api/internal/model"
	"github.com/and161185/todo-api/internal/repository"
	"github.com/and161185/todo-api/internal/token"
	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	byID map[uuid.UUID]*model.User

	createErr error
	getErr    error
}

var _ repository.UserRepository = (*fakeUsers)(nil)

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if f.byID == nil {
		f.byID = map[uuid.UUID]*model.User{}
	}
	for _, ex := range f.byID {
		if ex.Email == u.Email {
			return errs.Validation("Email already exists")
		}
		if ex.Username == u.Username {
			return errs.Validation("Username already exists")
		}
	}
	cpy := *u
	f.byID[u.ID] = &cpy
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byID[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, errs.ErrNotFound
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeUsers) Update(_ context.Context, u *model.User) error {
	if _, ok := f.byID[u.ID]; !ok {
		return errs.ErrNotFound
	}
	cpy := *u
	f.byID[u.ID] = &cpy
	return nil
}

func newAuthService(t *testing.T) (*AuthServiceImpl, *fakeUsers) {
	t.Helper()
	tokens, err := token.NewManager([]byte("access-secret"), []byte("refresh-secret"), 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)
	users := &fakeUsers{}
	return NewAuthService(users, tokens), users
}

func TestRegister_StoresHashedPasswordAndMintsPair(t *testing.T) {
	s, users := newAuthService(t)
	ctx := context.Background()

	res, err := s.Register(ctx, "alice", "a@x.com", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, res.Tokens.AccessToken)
	require.NotEmpty(t, res.Tokens.RefreshToken)
	require.Equal(t, "alice", res.User.Username)
	require.Equal(t, "a@x.com", res.User.Email)

	stored := users.byID[res.User.ID]
	require.NotNil(t, stored)
	require.NotEqual(t, "password123", stored.PasswordHash)
	require.True(t, pkgcrypto.VerifyPassword("password123", stored.PasswordHash))
}

func TestRegister_EmptyFields(t *testing.T) {
	s, _ := newAuthService(t)
	ctx := context.Background()

	for _, tc := range [][3]string{
		{"", "a@x.com", "pw"},
		{"alice", "", "pw"},
		{"alice", "a@x.com", ""},
	} {
		_, err := s.Register(ctx, tc[0], tc[1], tc[2])
		require.ErrorIs(t, err, errs.ErrValidation)
	}
}

func TestRegister_DuplicateEmailReportedBeforeUsername(t *testing.T) {
	s, _ := newAuthService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, "alice", "a@x.com", "password123")
	require.NoError(t, err)

	// Same email, different username: email conflict reported, twice.
	for i := 0; i < 2; i++ {
		_, err = s.Register(ctx, "bob", "a@x.com", "password123")
		require.ErrorIs(t, err, errs.ErrValidation)
		require.EqualError(t, err, "Email already exists")
	}

	// Same username, different email: username conflict reported.
	_, err = s.Register(ctx, "alice", "b@x.com", "password123")
	require.ErrorIs(t, err, errs.ErrValidation)
	require.EqualError(t, err, "Username already exists")

	// Both conflict: email wins the tie-break.
	_, err = s.Register(ctx, "alice", "a@x.com", "password123")
	require.EqualError(t, err, "Email already exists")
}

func TestLogin_ByEmailAndByUsername(t *testing.T) {
	s, _ := newAuthService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, "alice", "a@x.com", "password123")
	require.NoError(t, err)

	res, err := s.Login(ctx, "a@x.com", "password123")
	require.NoError(t, err)
	require.Equal(t, "alice", res.User.Username)

	res, err = s.Login(ctx, "alice", "password123")
	require.NoError(t, err)
	require.Equal(t, "a@x.com", res.User.Email)
}

func TestLogin_UniformFailure(t *testing.T) {
	s, _ := newAuthService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, "realuser", "realuser@x.com", "rightpass")
	require.NoError(t, err)

	// Unknown account and wrong password fail with the same kind and the
	// exact same message.
	_, unknownErr := s.Login(ctx, "nonexistent@x.com", "anypass")
	_, wrongPassErr := s.Login(ctx, "realuser@x.com", "wrongpass")

	require.ErrorIs(t, unknownErr, errs.ErrUnauthorized)
	require.ErrorIs(t, wrongPassErr, errs.ErrUnauthorized)
	require.EqualError(t, unknownErr, "Invalid credentials")
	require.EqualError(t, wrongPassErr, "Invalid credentials")
}

func TestIssueTokens(t *testing.T) {
	s, _ := newAuthService(t)
	ctx := context.Background()

	reg, err := s.Register(ctx, "alice", "a@x.com", "password123")
	require.NoError(t, err)

	res, err := s.IssueTokens(ctx, reg.User.ID)
	require.NoError(t, err)
	require.NotEmpty(t, res.Tokens.AccessToken)

	_, err = s.IssueTokens(ctx, uuid.Must(uuid.NewV7()))
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestRefreshTokens_RotatesWithoutRevocation(t *testing.T) {
	s, _ := newAuthService(t)
	ctx := context.Background()

	reg, err := s.Register(ctx, "alice", "a@x.com", "password123")
	require.NoError(t, err)

	first, err := s.RefreshTokens(ctx, reg.Tokens.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, first.Tokens.RefreshToken)

	// Nothing tracks issued tokens, so the original refresh token still
	// works after rotation until it naturally expires.
	second, err := s.RefreshTokens(ctx, reg.Tokens.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, second.Tokens.AccessToken)
}

func TestRefreshTokens_InvalidToken(t *testing.T) {
	s, _ := newAuthService(t)
	ctx := context.Background()

	_, err := s.RefreshTokens(ctx, "garbage")
	require.ErrorIs(t, err, errs.ErrUnauthorized)
	require.EqualError(t, err, "Invalid refresh token")
}

func TestRefreshTokens_AccessTokenRejected(t *testing.T) {
	s, _ := newAuthService(t)
	ctx := context.Background()

	reg, err := s.Register(ctx, "alice", "a@x.com", "password123")
	require.NoError(t, err)

	// An access token presented on the refresh path must fail: the two
	// classes are signed with different secrets.
	_, err = s.RefreshTokens(ctx, reg.Tokens.AccessToken)
	require.ErrorIs(t, err, errs.ErrUnauthorized)
	require.EqualError(t, err, "Invalid refresh token")
}

func TestRefreshTokens_DeletedUserIsNotFound(t *testing.T) {
	s, users := newAuthService(t)
	ctx := context.Background()

	reg, err := s.Register(ctx, "alice", "a@x.com", "password123")
	require.NoError(t, err)

	delete(users.byID, reg.User.ID)

	// A valid token for a vanished account is NotFound, not Unauthorized:
	// operators need to tell the two apart.
	_, err = s.RefreshTokens(ctx, reg.Tokens.RefreshToken)
	require.ErrorIs(t, err, errs.ErrNotFound)
	require.NotErrorIs(t, err, errs.ErrUnauthorized)
}

func TestRegister_EmailNormalized(t *testing.T) {
	s, _ := newAuthService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, "alice", "  A@X.com ", "password123")
	require.NoError(t, err)

	_, err = s.Login(ctx, "a@x.com", "password123")
	require.NoError(t, err)

	_, err = s.Register(ctx, "bob", "A@x.COM", "password123")
	require.True(t, strings.Contains(err.Error(), "Email"))
}
