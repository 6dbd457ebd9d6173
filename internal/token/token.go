// Package token issues and verifies the paired access/refresh JWTs.
//
// Access and refresh tokens are signed with distinct secrets so a leaked
// access token can never be presented as a refresh token (or vice versa):
// each verifier only knows its own secret, so cross-presented tokens fail
// signature verification.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure: bad signature, wrong
// signing method, expiry, malformed input. Callers must not distinguish
// further in client-visible responses.
var ErrInvalidToken = errors.New("invalid token")

// Claims carried by both token classes.
type Claims struct {
	UserID uuid.UUID
	Email  string
	Expiry time.Time
}

type jwtClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Manager signs and verifies both token classes.
type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewManager constructs a Manager. Secrets must be non-empty and distinct;
// sharing one secret would collapse the two-tier trust model, so it is
// rejected outright.
func NewManager(accessSecret, refreshSecret []byte, accessTTL, refreshTTL time.Duration) (*Manager, error) {
	if len(accessSecret) == 0 || len(refreshSecret) == 0 {
		return nil, errors.New("token: empty signing secret")
	}
	if string(accessSecret) == string(refreshSecret) {
		return nil, errors.New("token: access and refresh secrets must differ")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("token: non-positive TTL")
	}
	return &Manager{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}, nil
}

// AccessTTL reports the configured access token lifetime.
func (m *Manager) AccessTTL() time.Duration { return m.accessTTL }

// RefreshTTL reports the configured refresh token lifetime.
func (m *Manager) RefreshTTL() time.Duration { return m.refreshTTL }

// SignAccess mints a short-lived access token for the subject.
func (m *Manager) SignAccess(userID uuid.UUID, email string) (string, time.Time, error) {
	return sign(m.accessSecret, m.accessTTL, userID, email)
}

// SignRefresh mints a long-lived refresh token for the subject.
func (m *Manager) SignRefresh(userID uuid.UUID, email string) (string, time.Time, error) {
	return sign(m.refreshSecret, m.refreshTTL, userID, email)
}

// VerifyAccess validates an access token and returns its claims.
func (m *Manager) VerifyAccess(raw string) (Claims, error) {
	return verify(m.accessSecret, raw)
}

// VerifyRefresh validates a refresh token and returns its claims.
func (m *Manager) VerifyRefresh(raw string) (Claims, error) {
	return verify(m.refreshSecret, raw)
}

func sign(secret []byte, ttl time.Duration, userID uuid.UUID, email string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(ttl)
	claims := jwtClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func verify(secret []byte, raw string) (Claims, error) {
	tok, err := jwt.ParseWithClaims(raw, &jwtClaims{},
		func(t *jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	claims, ok := tok.Claims.(*jwtClaims)
	if !ok || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	uid, err := uuid.FromString(claims.Subject)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return Claims{UserID: uid, Email: claims.Email, Expiry: claims.ExpiresAt.Time}, nil
}
