// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"context"

	"github.com/campusroyal/aichat/internal/model"
)

// anthropicVersion is the API version header Anthropic requires.
const anthropicVersion = "2023-06-01"

// =============================================================================
// ANTHROPIC ADAPTER
// =============================================================================

// anthropicAdapter targets the messages API. Anthropic takes the system
// prompt as a dedicated top-level field, so system turns are split out and
// the remaining turns are remapped to user/assistant.
type anthropicAdapter struct {
	base
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicPayload struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Model   string `json:"model"`
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// translateAnthropic splits out the system prompt and remaps roles.
func translateAnthropic(messages []model.TurnMessage) (system string, out []anthropicMessage) {
	for _, m := range messages {
		switch m.Role {
		case model.RoleSystem:
			// Last system turn wins; the builder only emits one.
			system = m.Content
		case model.RoleAssistant:
			out = append(out, anthropicMessage{Role: "assistant", Content: m.Content})
		default:
			out = append(out, anthropicMessage{Role: "user", Content: m.Content})
		}
	}
	return system, out
}

func (a *anthropicAdapter) Complete(ctx context.Context, req *model.ChatRequest) (*model.ChatResponse, error) {
	key, err := a.checkAccess()
	if err != nil {
		return nil, err
	}

	opts := options(req)
	system, messages := translateAnthropic(req.Messages)
	payload := anthropicPayload{
		Model:       a.cfg.Model,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
		System:      system,
		Messages:    messages,
	}

	data, err := a.postJSON(ctx, a.cfg.UpstreamURL, map[string]string{
		"x-api-key":         key,
		"anthropic-version": anthropicVersion,
	}, payload)
	if err != nil {
		return nil, err
	}

	var out anthropicResponse
	if err := decodeUpstream(a.id, data, &out); err != nil {
		return nil, err
	}
	if len(out.Content) == 0 {
		return nil, &ProviderError{Provider: a.id, Message: "empty content in response"}
	}

	modelName := out.Model
	if modelName == "" {
		modelName = a.cfg.Model
	}
	return &model.ChatResponse{
		Content: out.Content[0].Text,
		Model:   modelName,
		Usage: &model.Usage{
			PromptTokens:     out.Usage.InputTokens,
			CompletionTokens: out.Usage.OutputTokens,
			TotalTokens:      out.Usage.InputTokens + out.Usage.OutputTokens,
		},
	}, nil
}
