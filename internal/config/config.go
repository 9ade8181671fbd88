// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for llmchat.
//
// Supports both TOML and JSON configuration formats, with sensible defaults
// and environment variable overrides.
//
// Configuration file locations (in order of precedence):
//   - ~/.llmchat/config.toml
//   - ~/.llmchat/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jar285/llmchat/internal/util"
)

// =============================================================================
// CONFIG STRUCTURE
// =============================================================================

// Config represents the complete llmchat configuration.
type Config struct {
	// Model is the completion model identifier.
	Model string `toml:"model" json:"model"`
	// Temperature is the sampling temperature passed to the API (0-2).
	Temperature float64 `toml:"temperature" json:"temperature"`
	// MaxTokens is the maximum output length per completion.
	MaxTokens int `toml:"max_tokens" json:"max_tokens"`
	// AssistantType selects the system-prompt preset (see internal/prompts).
	AssistantType string `toml:"assistant_type" json:"assistant_type"`

	// APIBaseURL is the OpenAI-compatible endpoint base URL.
	APIBaseURL string `toml:"api_base_url" json:"api_base_url"`
	// APIKey authenticates completion requests. Usually supplied via the
	// OPENAI_API_KEY environment variable rather than the config file.
	APIKey string `toml:"api_key" json:"api_key"`

	// HistoryDir overrides the conversation storage directory.
	// Empty means the store's default (~/.llmchat/history).
	HistoryDir string `toml:"history_dir" json:"history_dir"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Model:         "gpt-3.5-turbo",
		Temperature:   0.7,
		MaxTokens:     1024,
		AssistantType: "general",
		APIBaseURL:    "https://api.openai.com/v1",
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the llmchat configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".llmchat"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()

	tomlPath, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				return nil, err
			}
			return finishLoad(cfg)
		}
	}

	jsonPath, err := ConfigPathJSON()
	if err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				return nil, err
			}
			return finishLoad(cfg)
		}
	}

	return finishLoad(cfg)
}

// LoadFromPath loads configuration from a specific file path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, err
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, err
		}
	}
	return finishLoad(cfg)
}

// finishLoad applies env overrides, fills defaults, and validates.
func finishLoad(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML config %s: %w", path, err)
	}
	return nil
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON config %s: %w", path, err)
	}
	return nil
}

// fillDefaults fills in any missing values with defaults.
func (c *Config) fillDefaults() {
	defaults := Default()

	if c.Model == "" {
		c.Model = defaults.Model
	}
	if c.Temperature == 0 {
		c.Temperature = defaults.Temperature
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = defaults.MaxTokens
	}
	if c.AssistantType == "" {
		c.AssistantType = defaults.AssistantType
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = defaults.APIBaseURL
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
// SECURITY: Creates config files with 0600 permissions (owner read/write only)
// because the file may contain an API key.
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	fmt.Fprintln(file, "# llmchat configuration file")
	fmt.Fprintln(file, "")

	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file.
// RELIABILITY: Atomic write with fsync prevents data loss on crash.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - OPENAI_API_KEY: overrides api_key
//   - LLMCHAT_MODEL: overrides model
//   - LLMCHAT_API_BASE_URL: overrides api_base_url
//   - LLMCHAT_HISTORY_DIR: overrides history_dir
//   - LLMCHAT_ASSISTANT: overrides assistant_type
func (c *Config) ApplyEnvOverrides() {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.APIKey = key
	}
	if model := os.Getenv("LLMCHAT_MODEL"); model != "" {
		c.Model = model
	}
	if base := os.Getenv("LLMCHAT_API_BASE_URL"); base != "" {
		c.APIBaseURL = base
	}
	if dir := os.Getenv("LLMCHAT_HISTORY_DIR"); dir != "" {
		c.HistoryDir = dir
	}
	if assistant := os.Getenv("LLMCHAT_ASSISTANT"); assistant != "" {
		c.AssistantType = assistant
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.Temperature < 0 || c.Temperature > 2 {
		errs = append(errs, ValidationError{
			Field:   "temperature",
			Message: fmt.Sprintf("must be between 0 and 2, got %g", c.Temperature),
		})
	}
	if c.MaxTokens <= 0 {
		errs = append(errs, ValidationError{
			Field:   "max_tokens",
			Message: fmt.Sprintf("must be positive, got %d", c.MaxTokens),
		})
	}
	if c.Model == "" {
		errs = append(errs, ValidationError{
			Field:   "model",
			Message: "must not be empty",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// String returns a string representation of the config for debugging.
// SECURITY: Redacts the API key to prevent accidental exposure in logs.
func (c *Config) String() string {
	safe := *c
	if safe.APIKey != "" {
		safe.APIKey = "[REDACTED]"
	}
	data, _ := json.MarshalIndent(safe, "", "  ")
	return string(data)
}
