package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, "stdio", cfg.Transport)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{".md", ".txt"}, cfg.SupportedExtensions)
	assert.True(t, cfg.EnableSearchCaching)
}

func TestLoad_OverlaysEnvVars(t *testing.T) {
	t.Setenv("MYDOCS_MCP_LOG_LEVEL", "debug")
	t.Setenv("MYDOCS_MCP_MAX_CONNECTIONS", "25")
	t.Setenv("MYDOCS_MCP_ENABLE_SEARCH_CACHING", "false")
	t.Setenv("MYDOCS_MCP_SUPPORTED_EXTENSIONS", "md, txt, json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 25, cfg.MaxConnections)
	assert.False(t, cfg.EnableSearchCaching)
	assert.Equal(t, []string{"md", "txt", "json"}, cfg.SupportedExtensions)
}

func TestLoad_IgnoresUnparseableOverrides(t *testing.T) {
	t.Setenv("MYDOCS_MCP_MAX_CONNECTIONS", "not-a-number")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Defaults().MaxConnections, cfg.MaxConnections)
}

func TestExpandEnvVars_AllThreeForms(t *testing.T) {
	os.Unsetenv("MYDOCS_TEST_VAR")
	assert.Equal(t, "fallback", expandEnvVars("${MYDOCS_TEST_VAR:-fallback}"))

	t.Setenv("MYDOCS_TEST_VAR", "set-value")
	assert.Equal(t, "set-value", expandEnvVars("${MYDOCS_TEST_VAR:-fallback}"))
	assert.Equal(t, "set-value", expandEnvVars("${MYDOCS_TEST_VAR}"))
	assert.Equal(t, "set-value", expandEnvVars("$MYDOCS_TEST_VAR"))
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())

	cfg.DocumentRoot = ""
	assert.Error(t, cfg.Validate())

	cfg = Defaults()
	cfg.DatabaseURL = ""
	assert.Error(t, cfg.Validate())

	cfg = Defaults()
	cfg.MaxConnections = 0
	assert.Error(t, cfg.Validate())

	cfg = Defaults()
	cfg.SupportedExtensions = nil
	assert.Error(t, cfg.Validate())
}
