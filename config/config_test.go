package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "http://localhost:8085", cfg.Backend.BaseURL)
	assert.Equal(t, 300*time.Millisecond, cfg.Search.Debounce)
	assert.Equal(t, "memory", cfg.Session.Store)
	assert.False(t, cfg.Community.InferRoles)
}

func TestLoadConfig_MissingFileFallsBack(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, "cario_session", cfg.Session.CookieName)
}

func TestLoadConfig_FileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[backend]
base_url = "http://api.example.test"
timeout = "3s"

[session]
store = "redis"

[community]
infer_roles = true

[search]
debounce = "150ms"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://api.example.test", cfg.Backend.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "redis", cfg.Session.Store)
	assert.True(t, cfg.Community.InferRoles)
	assert.Equal(t, 150*time.Millisecond, cfg.Search.Debounce)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("CARIO_BACKEND_BASE_URL", "http://env.example.test")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "http://env.example.test", cfg.Backend.BaseURL)
}

func TestValidate(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	cfg.Session.Store = "sqlite"
	assert.Error(t, cfg.Validate())

	cfg.Session.Store = "file"
	cfg.Backend.BaseURL = "  "
	assert.Error(t, cfg.Validate())
}
