package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivescope/drivescope-cli/internal/adapters/driven/config/file"
)

// execute runs the root command with args against an isolated config
// directory and returns its combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	originalDir := configDir
	configDir = t.TempDir()
	t.Cleanup(func() { configDir = originalDir })

	// Flag variables outlive one Execute call; reset what these tests touch.
	originalRoot := auditRoot
	auditRoot = ""
	t.Cleanup(func() { auditRoot = originalRoot })

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestConfigSetAndGet(t *testing.T) {
	originalDir := configDir
	configDir = t.TempDir()
	defer func() { configDir = originalDir }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	defer rootCmd.SetArgs(nil)

	rootCmd.SetArgs([]string{"config", "set", "root_id", "folder-42"})
	require.NoError(t, rootCmd.Execute())

	buf.Reset()
	rootCmd.SetArgs([]string{"config", "get", "root_id"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "folder-42")
}

func TestConfigGetUnknownKeyFails(t *testing.T) {
	_, err := execute(t, "config", "get", "no_such_key")
	assert.ErrorContains(t, err, "not set")
}

func TestConfigPathPrintsTOMLFile(t *testing.T) {
	out, err := execute(t, "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, "config.toml")
}

func TestAuditRequiresLogin(t *testing.T) {
	_, err := execute(t, "audit", "--root", "folder-42")
	assert.ErrorContains(t, err, "login")
}

func TestAuditRequiresRootFolder(t *testing.T) {
	_, err := execute(t, "audit")
	assert.ErrorContains(t, err, "root")
}

func TestHistoryEmpty(t *testing.T) {
	out, err := execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No audit runs recorded.")
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, int64(3), parseValue("3"))
	assert.Equal(t, 2.5, parseValue("2.5"))
	assert.Equal(t, true, parseValue("true"))
	assert.Equal(t, "hello", parseValue("hello"))
}

func TestConfigSetFractionalRate(t *testing.T) {
	originalDir := configDir
	configDir = t.TempDir()
	defer func() { configDir = originalDir }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	defer rootCmd.SetArgs(nil)

	rootCmd.SetArgs([]string{"config", "set", "rate_limit_rps", "2.5"})
	require.NoError(t, rootCmd.Execute())

	cfg, err := file.NewConfigStore(configDir)
	require.NoError(t, err)
	assert.Equal(t, 2.5, cfg.GetFloat(file.KeyRateLimitRPS))
}
