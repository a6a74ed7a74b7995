// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"context"

	"github.com/campusroyal/aichat/internal/model"
)

// =============================================================================
// OPENAI ADAPTER
// =============================================================================

// openaiAdapter targets the chat completions API. The request messages pass
// through unchanged: the agnostic format is already OpenAI-shaped.
type openaiAdapter struct {
	base
}

type openaiPayload struct {
	Model       string              `json:"model"`
	Messages    []model.TurnMessage `json:"messages"`
	Temperature float64             `json:"temperature"`
	MaxTokens   int                 `json:"max_tokens"`
}

type openaiResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *model.Usage `json:"usage"`
}

func (a *openaiAdapter) Complete(ctx context.Context, req *model.ChatRequest) (*model.ChatResponse, error) {
	key, err := a.checkAccess()
	if err != nil {
		return nil, err
	}

	opts := options(req)
	payload := openaiPayload{
		Model:       a.cfg.Model,
		Messages:    req.Messages,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}

	data, err := a.postJSON(ctx, a.cfg.UpstreamURL, map[string]string{
		"Authorization": "Bearer " + key,
	}, payload)
	if err != nil {
		return nil, err
	}

	var out openaiResponse
	if err := decodeUpstream(a.id, data, &out); err != nil {
		return nil, err
	}
	if len(out.Choices) == 0 {
		return nil, &ProviderError{Provider: a.id, Message: "empty choices in response"}
	}

	modelName := out.Model
	if modelName == "" {
		modelName = a.cfg.Model
	}
	return &model.ChatResponse{
		Content: out.Choices[0].Message.Content,
		Model:   modelName,
		Usage:   out.Usage,
	}, nil
}
