// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// This package defines the core domain types used throughout the application
// for representing chat conversations and their messages. It is pure data plus
// serialization; persistence lives in internal/history.
//
// # Key Types
//
//   - Conversation: Container for a chat session with messages and metadata
//   - Message: Single message with role, content, timestamp, and open metadata
//   - Role: Message role (user, assistant, system)
//
// # Usage
//
// Create a conversation and append messages:
//
//	conv := model.NewConversation()
//	conv.Append(model.NewUserMessage("Hello!"))
//
// Convert to the wire form expected by the completion API:
//
//	msgs := conv.APIMessages()
//
// # Serialization
//
// Messages serialize to flat JSON objects: role, content, and timestamp are
// reserved keys, and every entry of Metadata is spread alongside them. On
// deserialization any key that is not reserved is collected back into Metadata,
// so records round-trip losslessly. Missing fields are repaired with defaults,
// never rejected.
package model
