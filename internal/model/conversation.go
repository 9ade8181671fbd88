// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"encoding/json"
	"time"

	"github.com/jar285/llmchat/internal/llm"
)

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds an ordered chat history with metadata.
//
// The ID is assigned by the caller or by the history store at first save; a
// freshly constructed conversation has none. Messages are append-only from
// the application's perspective.
type Conversation struct {
	ID           string
	Title        string
	SystemPrompt string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Messages     []Message
}

// NewConversation creates an empty conversation with both timestamps set to now.
func NewConversation() *Conversation {
	now := time.Now()
	return &Conversation{
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  make([]Message, 0),
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// Append adds a message to the end of the conversation and refreshes UpdatedAt.
func (c *Conversation) Append(msg Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
}

// AppendUserMessage creates and appends a user message.
func (c *Conversation) AppendUserMessage(content string) Message {
	msg := NewUserMessage(content)
	c.Append(msg)
	return msg
}

// AppendAssistantMessage creates and appends an assistant message.
func (c *Conversation) AppendAssistantMessage(content string) Message {
	msg := NewAssistantMessage(content)
	c.Append(msg)
	return msg
}

// LastUserMessage returns the most recent user message, or nil if none exists.
func (c *Conversation) LastUserMessage() *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleUser {
			return &c.Messages[i]
		}
	}
	return nil
}

// MessageCount returns the number of messages.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true if there are no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// SetSystemPrompt sets the system instruction prepended to API calls.
func (c *Conversation) SetSystemPrompt(systemPrompt string) {
	c.SystemPrompt = systemPrompt
}

// SetTitle sets the conversation title and refreshes UpdatedAt.
func (c *Conversation) SetTitle(title string) {
	c.Title = title
	c.UpdatedAt = time.Now()
}

// =============================================================================
// API CONVERSION
// =============================================================================

// APIMessages converts the conversation to the ordered role/content pairs the
// completion API expects. The system prompt, when set, becomes a synthetic
// leading system entry; timestamps and metadata are stripped.
func (c *Conversation) APIMessages() []llm.ChatMessage {
	msgs := make([]llm.ChatMessage, 0, len(c.Messages)+1)

	if c.SystemPrompt != "" {
		msgs = append(msgs, llm.ChatMessage{Role: string(RoleSystem), Content: c.SystemPrompt})
	}

	for _, m := range c.Messages {
		msgs = append(msgs, llm.ChatMessage{Role: string(m.Role), Content: m.Content})
	}

	return msgs
}

// =============================================================================
// SERIALIZATION
// =============================================================================

// conversationJSON is the stored shape of a conversation. Timestamps travel
// as RFC 3339 strings so records stay human-readable and diff-friendly.
type conversationJSON struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	SystemPrompt string    `json:"system_prompt,omitempty"`
	Created      string    `json:"created"`
	Updated      string    `json:"updated"`
	Messages     []Message `json:"messages"`
}

// MarshalJSON serializes the conversation in its stored record form.
func (c *Conversation) MarshalJSON() ([]byte, error) {
	msgs := c.Messages
	if msgs == nil {
		msgs = []Message{}
	}
	return json.Marshal(conversationJSON{
		ID:           c.ID,
		Title:        c.Title,
		SystemPrompt: c.SystemPrompt,
		Created:      c.CreatedAt.Format(time.RFC3339Nano),
		Updated:      c.UpdatedAt.Format(time.RFC3339Nano),
		Messages:     msgs,
	})
}

// UnmarshalJSON rebuilds a conversation from its stored record form.
// Missing or unparseable timestamps fall back to now, never fail.
func (c *Conversation) UnmarshalJSON(data []byte) error {
	var raw conversationJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	now := time.Now()
	c.ID = raw.ID
	c.Title = raw.Title
	c.SystemPrompt = raw.SystemPrompt
	c.CreatedAt = parseTimeOr(raw.Created, now)
	c.UpdatedAt = parseTimeOr(raw.Updated, now)
	c.Messages = raw.Messages
	if c.Messages == nil {
		c.Messages = make([]Message, 0)
	}
	return nil
}

// parseTimeOr parses an RFC 3339 timestamp, returning fallback on any problem.
func parseTimeOr(s string, fallback time.Time) time.Time {
	if s == "" {
		return fallback
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fallback
	}
	return t
}
