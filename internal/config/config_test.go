package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", cfg.Addr())
	assert.Equal(t, "json", cfg.Users.Backend)
	assert.Equal(t, "users.json", cfg.Users.Path)
	assert.Equal(t, "memory", cfg.Sessions.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Sessions.TTL)
	assert.Equal(t, "groq", cfg.LLM.Provider)
	assert.InDelta(t, 0.7, cfg.LLM.Temperature, 0.0001)
	assert.Equal(t, "http://api.weatherapi.com/v1", cfg.Weather.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Weather.Timeout)
	assert.Equal(t, "system_interaction.log", cfg.Log.InteractionLog)
	assert.Equal(t, 4096, cfg.MaxInputSize)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
users:
  backend: sqlite
  path: users.db
llm:
  api_key: from-file
weather:
  api_key: weather-from-file
`), 0644))

	t.Setenv("GROQ_API_KEY", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Users.Backend)
	assert.Equal(t, "from-env", cfg.LLM.APIKey, "environment overrides the file")
	assert.Equal(t, "weather-from-file", cfg.Weather.APIKey)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidBackend(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv("TRIPPLANNER_SESSIONS_BACKEND", "postgres")
	_, err := Load("")
	assert.ErrorContains(t, err, "unknown sessions backend")
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("WEATHER_API_KEY=dotenv-key\n"), 0644))

	t.Setenv("WEATHER_API_KEY", "")
	os.Unsetenv("WEATHER_API_KEY")

	require.NoError(t, LoadDotEnv(envFile, filepath.Join(dir, "missing.env")))
	t.Cleanup(func() { os.Unsetenv("WEATHER_API_KEY") })

	t.Setenv(EnvConfigPath, "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "dotenv-key", cfg.Weather.APIKey)
}
