package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "no-such-config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, config.Port)
	assert.Equal(t, "ollama", config.AI.DefaultProvider)
	assert.Equal(t, "http://localhost:11434", config.AI.Ollama.BaseURL)
	assert.Equal(t, 300, config.PDF.DPI)
}

func TestLoadConfig_ParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 9000
ai:
  default_provider: openai
  openai:
    base_url: http://localhost:1234/v1
    model: custom-vision
pdf:
  dpi: 150
users:
  - email: ops@example.com
    password_hash: $2a$10$abcdefghijklmnopqrstuv
`), 0644))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, config.Port)
	assert.Equal(t, "openai", config.AI.DefaultProvider)
	assert.Equal(t, "http://localhost:1234/v1", config.AI.OpenAI.BaseURL)
	assert.Equal(t, "custom-vision", config.AI.OpenAI.Model)
	assert.Equal(t, 150, config.PDF.DPI)
	require.Len(t, config.Users, 1)
	assert.Equal(t, "ops@example.com", config.Users[0].Email)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7000")
	t.Setenv("AI_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("OLLAMA_BASE_URL", "http://gpu-box:11434")

	config, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 7000, config.Port)
	assert.Equal(t, "gemini", config.AI.DefaultProvider)
	assert.Equal(t, "env-key", config.AI.Gemini.APIKey)
	assert.Equal(t, "http://gpu-box:11434", config.AI.Ollama.BaseURL)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: [not a number"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_ZeroDPIFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pdf:\n  dpi: 0\n"), 0644))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 300, config.PDF.DPI)
}
