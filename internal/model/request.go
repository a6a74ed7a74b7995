// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "time"

// =============================================================================
// WIRE REQUEST
// =============================================================================

// TurnMessage is the minimal {role, content} form a message takes inside a
// request context window.
type TurnMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Options carries the generation parameters sent with every request.
type Options struct {
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	Stream      bool    `json:"stream"`
}

// DefaultOptions returns the fixed generation parameters used when the
// configuration does not override them.
func DefaultOptions() Options {
	return Options{
		Temperature: 0.7,
		MaxTokens:   500,
		Stream:      false,
	}
}

// ChatRequest is the provider-agnostic request envelope. The same shape is
// sent to every provider endpoint; the server side translates it to the
// upstream vendor format.
type ChatRequest struct {
	SessionID string        `json:"session_id"`
	Provider  string        `json:"api"`
	Model     string        `json:"model"`
	Messages  []TurnMessage `json:"messages"`
	Options   Options       `json:"options"`
	Timestamp time.Time     `json:"timestamp"`
}

// LastUserContent returns the content of the most recent user turn, or ""
// when the request carries none.
func (r *ChatRequest) LastUserContent() string {
	for i := len(r.Messages) - 1; i >= 0; i-- {
		if r.Messages[i].Role == RoleUser {
			return r.Messages[i].Content
		}
	}
	return ""
}

// =============================================================================
// WIRE RESPONSE
// =============================================================================

// Usage reports token accounting for a completed request.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatResponse is the normalized result of a chat request, whatever produced
// it (real provider or the local simulation engine).
type ChatResponse struct {
	Content   string `json:"content"`
	Model     string `json:"model"`
	Usage     *Usage `json:"usage,omitempty"`
	Simulated bool   `json:"simulated,omitempty"`
}
