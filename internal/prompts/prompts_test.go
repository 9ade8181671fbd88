// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package prompts defines the built-in assistant types and their system prompts.
package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	all := r.All()
	require.Len(t, all, 3)
	// Registration order is presentation order.
	assert.Equal(t, "general", all[0].ID)
	assert.Equal(t, "coding", all[1].ID)
	assert.Equal(t, "finance", all[2].ID)

	for _, at := range all {
		assert.NotEmpty(t, at.Name, "type %s", at.ID)
		assert.NotEmpty(t, at.SystemPrompt, "type %s", at.ID)
		assert.NotEmpty(t, at.Description, "type %s", at.ID)
	}
}

func TestRegistry_Get(t *testing.T) {
	r := DefaultRegistry()

	at, ok := r.Get("coding")
	require.True(t, ok)
	assert.Equal(t, "Coding Expert", at.Name)

	_, ok = r.Get("nonexistent")
	assert.False(t, ok)
}

func TestRegistry_Default(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, DefaultTypeID, r.Default().ID)
}

func TestRegistry_SystemPromptFallback(t *testing.T) {
	r := DefaultRegistry()

	assert.Equal(t, r.Default().SystemPrompt, r.SystemPrompt("nonexistent"))
	assert.NotEqual(t, r.Default().SystemPrompt, r.SystemPrompt("finance"))
}

func TestRegistry_AddReplaces(t *testing.T) {
	r := NewRegistry()
	r.Add(AssistantType{ID: "x", Name: "First"})
	r.Add(AssistantType{ID: "y", Name: "Second"})
	r.Add(AssistantType{ID: "x", Name: "Replaced"})

	all := r.All()
	require.Len(t, all, 2)
	// Replacement keeps the original position.
	assert.Equal(t, "Replaced", all[0].Name)
	assert.Equal(t, "Second", all[1].Name)
}
