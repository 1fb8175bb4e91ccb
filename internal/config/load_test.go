package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghsecaudit/internal/config"
)

func newFlagSet(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	defaults := config.New()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("org", "", "")
	fs.Int("concurrency", defaults.Runtime.Concurrency, "")
	fs.Duration("timeout", defaults.Runtime.Timeout, "")
	fs.StringSlice("exclude", nil, "")
	fs.Bool("verbose", false, "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func writeConfigFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_DefaultsWithoutSources(t *testing.T) {
	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, config.New(), cfg)
}

func TestLoad_FileThenEnvThenFlags(t *testing.T) {
	path := writeConfigFile(t, "ghsecaudit.yaml", `
target:
  org: from-file
  exclude: [legacy-*]
runtime:
  concurrency: 3
  timeout: 10m
auth:
  api_url: https://ghe.example.com/api/v3
`)
	t.Setenv("GHSECAUDIT_RUNTIME_CONCURRENCY", "7")
	t.Setenv("GHSECAUDIT_AUTH_TOKEN", "env-token")

	cfg, err := config.Load(path, newFlagSet(t, "--org", "from-flag"))
	require.NoError(t, err)

	assert.Equal(t, "from-flag", cfg.Target.Org)
	assert.Equal(t, 7, cfg.Runtime.Concurrency)
	assert.Equal(t, 10*time.Minute, cfg.Runtime.Timeout)
	assert.Equal(t, []string{"legacy-*"}, cfg.Target.Exclude)
	assert.Equal(t, "https://ghe.example.com/api/v3", cfg.Auth.APIURL)
	assert.Equal(t, "env-token", cfg.Auth.Token)
}

func TestLoad_UnchangedFlagsDoNotOverride(t *testing.T) {
	path := writeConfigFile(t, "ghsecaudit.json", `{"runtime":{"concurrency":2},"target":{"org":"acme"}}`)

	cfg, err := config.Load(path, newFlagSet(t))
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Runtime.Concurrency)
	assert.Equal(t, "acme", cfg.Target.Org)
}

func TestLoad_SliceFlagAndEnv(t *testing.T) {
	t.Setenv("GHSECAUDIT_TARGET_TOPIC", "security,compliance")

	cfg, err := config.Load("", newFlagSet(t, "--exclude", "a,b", "--exclude", "c", "--verbose"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, cfg.Target.Exclude)
	assert.Equal(t, []string{"security", "compliance"}, cfg.Target.Topic)
	assert.True(t, cfg.Runtime.Verbose)
}

func TestLoad_MissingOrBrokenFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.Error(t, err)

	path := writeConfigFile(t, "broken.yaml", "target: [unterminated")
	_, err = config.Load(path, nil)
	require.Error(t, err)
}
