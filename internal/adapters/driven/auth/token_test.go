package auth

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/drivescope/drivescope-cli/internal/core/domain"
)

func TestTokenSaveAndLoad(t *testing.T) {
	store, err := NewTokenStore(t.TempDir())
	require.NoError(t, err)

	token := &oauth2.Token{
		AccessToken:  "access-abc",
		RefreshToken: "refresh-xyz",
		TokenType:    "Bearer",
		Expiry:       time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Save(token))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, token.AccessToken, loaded.AccessToken)
	assert.Equal(t, token.RefreshToken, loaded.RefreshToken)
	assert.True(t, token.Expiry.Equal(loaded.Expiry))
}

func TestLoadMissingTokenReturnsNoCredentials(t *testing.T) {
	store, err := NewTokenStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load()
	assert.ErrorIs(t, err, domain.ErrNoCredentials)
}

func TestTokenFileHasRestrictivePermissions(t *testing.T) {
	store, err := NewTokenStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Save(&oauth2.Token{AccessToken: "secret"}))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestDeleteIsIdempotent(t *testing.T) {
	store, err := NewTokenStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save(&oauth2.Token{AccessToken: "secret"}))
	require.NoError(t, store.Delete())
	require.NoError(t, store.Delete())

	_, err = store.Load()
	assert.ErrorIs(t, err, domain.ErrNoCredentials)
}
