package client

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabelkeeper/internal/app/client/config"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()

	dir := t.TempDir()
	cfg := &config.Config{
		ConfigDir:   dir,
		PINPath:     filepath.Join(dir, "admin.pin"),
		SessionPath: filepath.Join(dir, "admin.session"),
	}
	return NewSession(cfg, testLogger())
}

func TestSession_LoginLogout(t *testing.T) {
	s := newTestSession(t)

	assert.False(t, s.PINConfigured())
	assert.ErrorIs(t, s.Login("1234"), ErrPINNotSet)

	require.NoError(t, s.SetPIN("1234"))
	assert.True(t, s.PINConfigured())

	assert.ErrorIs(t, s.Login("0000"), ErrBadPIN)
	assert.False(t, s.IsAdmin())

	require.NoError(t, s.Login("1234"))
	assert.True(t, s.IsAdmin())

	require.NoError(t, s.Logout())
	assert.False(t, s.IsAdmin())
}

func TestSession_Expires(t *testing.T) {
	s := newTestSession(t)

	require.NoError(t, s.SetPIN("1234"))
	require.NoError(t, s.Login("1234"))
	assert.True(t, s.IsAdmin())

	// Сдвигаем часы за пределы TTL
	s.now = func() time.Time { return time.Now().Add(sessionTTL + time.Minute) }
	assert.False(t, s.IsAdmin())
}

func TestSession_ShortPINRejected(t *testing.T) {
	s := newTestSession(t)

	assert.Error(t, s.SetPIN("12"))
	assert.False(t, s.PINConfigured())
}
