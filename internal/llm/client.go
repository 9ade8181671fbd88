// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package llm provides the HTTP client for OpenAI-compatible chat completions.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the OpenAI API endpoint used when none is configured.
const DefaultBaseURL = "https://api.openai.com/v1"

// =============================================================================
// WIRE TYPES
// =============================================================================

// ChatMessage is a single role/content pair in API form.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the request body for /chat/completions.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// chatResponse is the subset of the completion response the client reads.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *apiError `json:"error,omitempty"`
}

// apiError is the error object returned by OpenAI-compatible endpoints.
type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to an OpenAI-compatible chat-completions endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a client. An empty baseURL falls back to DefaultBaseURL.
// A missing API key is logged as a warning; the client stays constructible
// so the application can start without one and surface the problem per call.
func New(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if apiKey == "" {
		log.Warn().Msg("no API key configured, completions will fail")
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Available reports whether the client has an API key to send.
func (c *Client) Available() bool {
	return c.apiKey != ""
}

// Completion requests a chat completion and returns the generated text.
// Any failure (missing key, transport error, API error, empty response)
// is returned as an "Error: ..." string rather than an error value: the
// caller treats the return as opaque assistant content either way.
func (c *Client) Completion(ctx context.Context, messages []ChatMessage, model string, temperature float64, maxTokens int) string {
	if c.apiKey == "" {
		log.Error().Msg("cannot get completion: API key not configured")
		return "Error: API client not initialized. Please check your API key."
	}

	body, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to encode completion request")
		return "Error: " + err.Error()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		log.Error().Err(err).Msg("failed to create completion request")
		return "Error: " + err.Error()
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("completion request failed")
		return "Error: " + err.Error()
	}
	defer resp.Body.Close()

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Error().Err(err).Int("status", resp.StatusCode).Msg("failed to decode completion response")
		return "Error: invalid response from API (" + resp.Status + ")"
	}

	if result.Error != nil && result.Error.Message != "" {
		log.Error().Str("type", result.Error.Type).Msg("API returned error: " + result.Error.Message)
		return "Error: " + result.Error.Message
	}
	if resp.StatusCode != http.StatusOK {
		log.Error().Int("status", resp.StatusCode).Msg("completion request rejected")
		return "Error: completion request failed: " + resp.Status
	}
	if len(result.Choices) == 0 {
		log.Error().Msg("completion response contained no choices")
		return "Error: API returned an empty response"
	}

	return result.Choices[0].Message.Content
}
