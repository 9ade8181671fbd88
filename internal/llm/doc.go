// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package llm provides the HTTP client for OpenAI-compatible chat completions.
//
// The client is deliberately thin: it takes ordered role/content pairs plus
// generation parameters and returns either the generated text or an
// error-describing string. Callers wrap whatever comes back in an assistant
// message without interpreting it.
//
// # Usage
//
//	client := llm.New(baseURL, apiKey)
//	reply := client.Completion(ctx, msgs, "gpt-3.5-turbo", 0.7, 1024)
package llm
