// Package config loads the game's configuration with viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// File receives the log. The terminal belongs to the game, so logs never go to stdout.
	File string `mapstructure:"file"`
}

// SaveConfig holds the save file location.
type SaveConfig struct {
	Path string `mapstructure:"path"`
}

// GeminiConfig holds settings for model-written hints. An empty APIKey
// disables them.
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// Config holds the application configuration.
type Config struct {
	Save    SaveConfig    `mapstructure:"save"`
	Logging LoggingConfig `mapstructure:"logging"`
	Gemini  GeminiConfig  `mapstructure:"gemini"`
}

// Validate checks every setting and reports all violations at once.
func (c Config) Validate() error {
	var errs []string

	if c.Save.Path == "" {
		errs = append(errs, "save.path must not be empty")
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		errs = append(errs, fmt.Sprintf("logging.level must be one of [debug, info, warn, error], got %q", c.Logging.Level))
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[c.Logging.Format] {
		errs = append(errs, fmt.Sprintf("logging.format must be one of [json, console], got %q", c.Logging.Format))
	}
	if c.Logging.File == "" {
		errs = append(errs, "logging.file must not be empty")
	}
	if c.Gemini.APIKey != "" && c.Gemini.Model == "" {
		errs = append(errs, "gemini.model must be set when gemini.api_key is")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// LoadConfig loads .env, then an optional pirates.yaml from the working
// directory, then PIRATES_* environment overrides.
func LoadConfig() (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("pirates")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	return LoadFromViper(v)
}

// LoadFromViper applies defaults and environment overrides to v and builds
// a validated Config from it.
func LoadFromViper(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix("PIRATES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// GEMINI_API_KEY is the name Google's own tooling uses.
	if cfg.Gemini.APIKey == "" {
		cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("save.path", ".saves/pirates.yaml")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file", ".saves/pirates.log")

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
}
