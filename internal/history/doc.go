// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history provides durable conversation persistence.
//
// Conversations are stored one JSON file per identifier under a configurable
// directory (default ~/.llmchat/history). The store keeps an in-memory
// metadata cache for listing, invalidated on every mutation.
//
// # Key Types
//
//   - Store: the persistence component owning the directory and listing cache
//   - Record: serialized conversation form (one file per id)
//   - Meta: lightweight summary (id, title, timestamps, message count)
//
// # Usage
//
// Save and reload a conversation:
//
//	store, err := history.NewWithDir(dir)
//	id, err := store.Save(messages, "", "", "")
//	rec, err := store.Load(id)
//
// List conversations newest-first:
//
//	metas, err := store.List(false)
//
// # Error Semantics
//
// Load returns ErrNotFound for a missing id. Delete and Rename report a
// missing id as a false boolean, not an error, so they are safe to call
// speculatively. A record that fails to parse during a listing scan is
// skipped with a logged warning rather than failing the whole listing.
package history
