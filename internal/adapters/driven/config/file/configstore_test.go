package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "config")

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.DirExists(t, dir)
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}

func TestSetPersistsImmediately(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set(KeyRootID, "folder-123"))
	require.NoError(t, store.Set(KeyMaxDepth, int64(3)))

	// A fresh store sees the persisted values.
	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "folder-123", reloaded.GetString(KeyRootID))
	assert.Equal(t, 3, reloaded.GetInt(KeyMaxDepth))
}

func TestTypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("str", "value"))
	require.NoError(t, store.Set("num", int64(42)))
	require.NoError(t, store.Set("rate", 2.5))
	require.NoError(t, store.Set("flag", true))

	assert.Equal(t, "value", store.GetString("str"))
	assert.Equal(t, 42, store.GetInt("num"))
	assert.Equal(t, 2.5, store.GetFloat("rate"))
	assert.True(t, store.GetBool("flag"))

	// Integer settings widen to float.
	assert.Equal(t, 42.0, store.GetFloat("num"))

	// Missing keys return zero values.
	assert.Empty(t, store.GetString("missing"))
	assert.Zero(t, store.GetInt("missing"))
	assert.Zero(t, store.GetFloat("missing"))
	assert.False(t, store.GetBool("missing"))

	// Wrong types return zero values.
	assert.Empty(t, store.GetString("num"))
	assert.Zero(t, store.GetInt("str"))
	assert.Zero(t, store.GetFloat("str"))
}

func TestFloatSurvivesReload(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set(KeyRateLimitRPS, 2.5))

	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, 2.5, reloaded.GetFloat(KeyRateLimitRPS))
}

func TestConfigFileHasRestrictivePermissions(t *testing.T) {
	if os.Geteuid() == 0 {
		// Still verifies the mode bits, chmod semantics are unaffected.
		t.Log("running as root")
	}
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set(KeyClientSecret, "hush"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadMissingFileReturnsNotExist(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	err = store.Load()
	assert.True(t, os.IsNotExist(err))
}
