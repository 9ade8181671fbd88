// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the llmchat application.
//
// # Key Functions
//
//   - AtomicWriteFile: crash-safe file writing with fsync
//   - TruncateRunes: UTF-8 safe string truncation with ellipsis
//
// # Usage
//
//	// Write files atomically to prevent data loss
//	err := util.AtomicWriteFile(path, data, 0644)
//
//	// Truncate long strings safely for display
//	display := util.TruncateRunes(longText, 50)
package util
