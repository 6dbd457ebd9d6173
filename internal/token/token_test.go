package token

import (
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T, accessTTL, refreshTTL time.Duration) *Manager {
	t.Helper()
	m, err := NewManager([]byte("access-secret"), []byte("refresh-secret"), accessTTL, refreshTTL)
	require.NoError(t, err)
	return m
}

func TestNewManager_RejectsBadSecrets(t *testing.T) {
	_, err := NewManager(nil, []byte("b"), time.Minute, time.Hour)
	require.Error(t, err)

	_, err = NewManager([]byte("a"), nil, time.Minute, time.Hour)
	require.Error(t, err)

	_, err = NewManager([]byte("same"), []byte("same"), time.Minute, time.Hour)
	require.Error(t, err)

	_, err = NewManager([]byte("a"), []byte("b"), 0, time.Hour)
	require.Error(t, err)
}

func TestRoundTrip_Access(t *testing.T) {
	m := newManager(t, 15*time.Minute, 7*24*time.Hour)
	uid := uuid.Must(uuid.NewV7())

	raw, exp, err := m.SignAccess(uid, "a@x.com")
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(15*time.Minute), exp, 5*time.Second)

	claims, err := m.VerifyAccess(raw)
	require.NoError(t, err)
	require.Equal(t, uid, claims.UserID)
	require.Equal(t, "a@x.com", claims.Email)
}

func TestRoundTrip_Refresh(t *testing.T) {
	m := newManager(t, 15*time.Minute, 7*24*time.Hour)
	uid := uuid.Must(uuid.NewV7())

	raw, _, err := m.SignRefresh(uid, "")
	require.NoError(t, err)

	claims, err := m.VerifyRefresh(raw)
	require.NoError(t, err)
	require.Equal(t, uid, claims.UserID)
}

func TestVerifiers_NeverCrossAccept(t *testing.T) {
	m := newManager(t, 15*time.Minute, 7*24*time.Hour)
	uid := uuid.Must(uuid.NewV7())

	access, _, err := m.SignAccess(uid, "a@x.com")
	require.NoError(t, err)
	refresh, _, err := m.SignRefresh(uid, "a@x.com")
	require.NoError(t, err)

	_, err = m.VerifyRefresh(access)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.VerifyAccess(refresh)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_ExpiredToken(t *testing.T) {
	m := newManager(t, time.Millisecond, time.Hour)
	uid := uuid.Must(uuid.NewV7())

	raw, _, err := m.SignAccess(uid, "")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	_, err = m.VerifyAccess(raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Garbage(t *testing.T) {
	m := newManager(t, time.Minute, time.Hour)

	_, err := m.VerifyAccess("")
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.VerifyAccess("not.a.jwt")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_TamperedSignature(t *testing.T) {
	m := newManager(t, time.Minute, time.Hour)

	forged, err := NewManager([]byte("attacker-a"), []byte("attacker-b"), time.Minute, time.Hour)
	require.NoError(t, err)

	raw, _, err := forged.SignAccess(uuid.Must(uuid.NewV7()), "")
	require.NoError(t, err)

	_, err = m.VerifyAccess(raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}
