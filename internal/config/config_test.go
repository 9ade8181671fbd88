// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for llmchat.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnvOverrides(t *testing.T) {
	t.Helper()
	for _, key := range []string{"OPENAI_API_KEY", "LLMCHAT_MODEL", "LLMCHAT_API_BASE_URL", "LLMCHAT_HISTORY_DIR", "LLMCHAT_ASSISTANT"} {
		t.Setenv(key, "")
	}
}

// =============================================================================
// DEFAULTS
// =============================================================================

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "gpt-3.5-turbo", cfg.Model)
	assert.Equal(t, 0.7, cfg.Temperature)
	assert.Equal(t, 1024, cfg.MaxTokens)
	assert.Equal(t, "general", cfg.AssistantType)
	assert.Equal(t, "https://api.openai.com/v1", cfg.APIBaseURL)
	assert.Empty(t, cfg.APIKey)
	assert.NoError(t, cfg.Validate())
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

func TestSaveAndLoadTOML(t *testing.T) {
	clearEnvOverrides(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.Model = "gpt-4"
	cfg.Temperature = 1.2
	cfg.HistoryDir = "/tmp/histories"
	require.NoError(t, SaveTOML(cfg, path))

	// Key-bearing config files must not be world-readable.
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4", loaded.Model)
	assert.Equal(t, 1.2, loaded.Temperature)
	assert.Equal(t, "/tmp/histories", loaded.HistoryDir)
}

func TestSaveAndLoadJSON(t *testing.T) {
	clearEnvOverrides(t)
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := Default()
	cfg.Model = "gpt-4o-mini"
	cfg.MaxTokens = 2048
	require.NoError(t, SaveJSON(cfg, path))

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", loaded.Model)
	assert.Equal(t, 2048, loaded.MaxTokens)
}

func TestLoadFromPath_PartialFileFillsDefaults(t *testing.T) {
	clearEnvOverrides(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("model = \"gpt-4\"\n"), 0600))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4", cfg.Model)
	assert.Equal(t, 0.7, cfg.Temperature)
	assert.Equal(t, 1024, cfg.MaxTokens)
	assert.Equal(t, "general", cfg.AssistantType)
}

func TestLoadFromPath_MalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("model = [unclosed"), 0600))

	_, err := LoadFromPath(path)
	assert.Error(t, err)
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

func TestApplyEnvOverrides(t *testing.T) {
	clearEnvOverrides(t)
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("LLMCHAT_MODEL", "gpt-4-turbo")
	t.Setenv("LLMCHAT_ASSISTANT", "coding")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	assert.Equal(t, "sk-env", cfg.APIKey)
	assert.Equal(t, "gpt-4-turbo", cfg.Model)
	assert.Equal(t, "coding", cfg.AssistantType)
	// Untouched fields keep their values.
	assert.Equal(t, "https://api.openai.com/v1", cfg.APIBaseURL)
}

func TestLoadFromPath_EnvWinsOverFile(t *testing.T) {
	clearEnvOverrides(t)
	t.Setenv("LLMCHAT_MODEL", "env-model")

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("model = \"file-model\"\n"), 0600))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "env-model", cfg.Model)
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"temperature too high", func(c *Config) { c.Temperature = 2.5 }, "temperature"},
		{"temperature negative", func(c *Config) { c.Temperature = -0.1 }, "temperature"},
		{"zero max tokens", func(c *Config) { c.MaxTokens = 0 }, "max_tokens"},
		{"empty model", func(c *Config) { c.Model = "" }, "model"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := &Config{Temperature: 5, MaxTokens: -1, Model: ""}
	err := cfg.Validate()
	require.Error(t, err)

	var errs ValidateErrors
	require.ErrorAs(t, err, &errs)
	assert.Len(t, errs, 3)
}

// =============================================================================
// STRING REPRESENTATION
// =============================================================================

func TestString_RedactsAPIKey(t *testing.T) {
	cfg := Default()
	cfg.APIKey = "sk-very-secret"

	s := cfg.String()
	assert.NotContains(t, s, "sk-very-secret")
	assert.Contains(t, s, "[REDACTED]")
	// Redaction must not mutate the config itself.
	assert.Equal(t, "sk-very-secret", cfg.APIKey)
	assert.False(t, strings.Contains(Default().String(), "[REDACTED]"))
}
