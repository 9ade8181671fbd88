// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"encoding/json"
	"time"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// TimestampFormat is the display form used for message timestamps.
// Message timestamps are short display strings, not sortable instants;
// conversation-level Created/Updated carry the absolute times.
const TimestampFormat = "15:04:05"

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a conversation.
//
// Role and Content are stored verbatim; the Role constants above are the set
// the rest of the application expects, but the type itself accepts any string.
// Metadata holds additional string fields preserved round-trip but never
// interpreted. Messages are immutable once constructed.
type Message struct {
	Role      Role
	Content   string
	Timestamp string
	Metadata  map[string]string
}

// NewMessage creates a message with the timestamp defaulted to now.
func NewMessage(role Role, content string) Message {
	return Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().Format(TimestampFormat),
	}
}

// NewMessageAt creates a message with an explicit timestamp and metadata.
// An empty timestamp defaults to now; a nil metadata map stays nil.
func NewMessageAt(role Role, content, timestamp string, metadata map[string]string) Message {
	if timestamp == "" {
		timestamp = time.Now().Format(TimestampFormat)
	}
	return Message{
		Role:      role,
		Content:   content,
		Timestamp: timestamp,
		Metadata:  metadata,
	}
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates an assistant message.
func NewAssistantMessage(content string) Message {
	return NewMessage(RoleAssistant, content)
}

// NewSystemMessage creates a system message.
func NewSystemMessage(content string) Message {
	return NewMessage(RoleSystem, content)
}

// =============================================================================
// SERIALIZATION
// =============================================================================

// Reserved keys peeled off into typed fields on deserialization.
// Everything else in a message record is metadata.
const (
	keyRole      = "role"
	keyContent   = "content"
	keyTimestamp = "timestamp"
)

// MarshalJSON flattens the message into a single JSON object: the reserved
// keys plus every Metadata entry as a sibling field.
func (m Message) MarshalJSON() ([]byte, error) {
	out := make(map[string]string, len(m.Metadata)+3)
	for k, v := range m.Metadata {
		out[k] = v
	}
	out[keyRole] = string(m.Role)
	out[keyContent] = m.Content
	out[keyTimestamp] = m.Timestamp
	return json.Marshal(out)
}

// UnmarshalJSON rebuilds a message from its flattened record form. Missing
// reserved keys default (empty role/content, timestamp = now); unknown keys
// are collected into Metadata. Non-string metadata values are kept as their
// raw JSON text so nothing is dropped.
func (m *Message) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*m = Message{}
	for k, v := range raw {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			s = string(v)
		}
		switch k {
		case keyRole:
			m.Role = Role(s)
		case keyContent:
			m.Content = s
		case keyTimestamp:
			m.Timestamp = s
		default:
			if m.Metadata == nil {
				m.Metadata = make(map[string]string)
			}
			m.Metadata[k] = s
		}
	}

	if m.Timestamp == "" {
		m.Timestamp = time.Now().Format(TimestampFormat)
	}
	return nil
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// Preview returns a truncated preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m Message) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if len(runes) <= maxLen {
		return m.Content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// IsEmpty returns true if the message has no content.
func (m Message) IsEmpty() bool {
	return len(m.Content) == 0
}
