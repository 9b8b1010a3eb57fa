package config

import (
	"bytes"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validConfig() Config {
	return Config{
		Save:    SaveConfig{Path: ".saves/pirates.yaml"},
		Logging: LoggingConfig{Level: "info", Format: "json", File: ".saves/pirates.log"},
		Gemini:  GeminiConfig{Model: "gemini-2.5-flash"},
	}
}

func TestValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Save.Path = ""
	cfg.Logging.Level = "trace"
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save.path")
	assert.Contains(t, err.Error(), "logging.level")
	assert.Contains(t, err.Error(), "logging.format")
}

func TestValidate_GeminiModelRequiredWithKey(t *testing.T) {
	cfg := validConfig()
	cfg.Gemini = GeminiConfig{APIKey: "k"}
	assert.Error(t, cfg.Validate())
}

func TestValidate_LoggingLevels(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		cfg := validConfig()
		cfg.Logging.Level = rapid.SampledFrom([]string{"debug", "info", "warn", "error"}).Draw(rt, "level")
		cfg.Logging.Format = rapid.SampledFrom([]string{"json", "console"}).Draw(rt, "format")
		assert.NoError(rt, cfg.Validate())
	})
}

func TestLoadFromViper_Defaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	cfg, err := LoadFromViper(viper.New())
	require.NoError(t, err)
	assert.Equal(t, ".saves/pirates.yaml", cfg.Save.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Empty(t, cfg.Gemini.APIKey)
}

func TestLoadFromViper_File(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(bytes.NewBufferString(`
save:
  path: /tmp/elsewhere.yaml
logging:
  level: debug
  format: console
`)))

	cfg, err := LoadFromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/elsewhere.yaml", cfg.Save.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, ".saves/pirates.log", cfg.Logging.File)
}

func TestLoadFromViper_EnvOverride(t *testing.T) {
	t.Setenv("PIRATES_SAVE_PATH", "/tmp/env.yaml")
	t.Setenv("PIRATES_LOGGING_LEVEL", "warn")

	cfg, err := LoadFromViper(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "/tmp/env.yaml", cfg.Save.Path)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadFromViper_GeminiKeyFallback(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "from-google-env")

	cfg, err := LoadFromViper(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "from-google-env", cfg.Gemini.APIKey)
}

func TestLoadFromViper_Invalid(t *testing.T) {
	t.Setenv("PIRATES_LOGGING_FORMAT", "xml")
	_, err := LoadFromViper(viper.New())
	assert.Error(t, err)
}
