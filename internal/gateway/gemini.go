// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"context"

	"github.com/campusroyal/aichat/internal/model"
)

// =============================================================================
// GEMINI ADAPTER
// =============================================================================

// geminiAdapter targets the generateContent API. Gemini has no system role,
// so system turns are dropped; assistant turns become role "model" and
// content is wrapped in parts.
type geminiAdapter struct {
	base
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPayload struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		Temperature     float64 `json:"temperature"`
		MaxOutputTokens int     `json:"maxOutputTokens"`
		TopK            int     `json:"topK"`
		TopP            float64 `json:"topP"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

// translateGemini maps the agnostic turns to Gemini contents.
func translateGemini(messages []model.TurnMessage) []geminiContent {
	var out []geminiContent
	for _, m := range messages {
		switch m.Role {
		case model.RoleSystem:
			continue
		case model.RoleAssistant:
			out = append(out, geminiContent{Role: "model", Parts: []geminiPart{{Text: m.Content}}})
		default:
			out = append(out, geminiContent{Role: "user", Parts: []geminiPart{{Text: m.Content}}})
		}
	}
	return out
}

func (a *geminiAdapter) Complete(ctx context.Context, req *model.ChatRequest) (*model.ChatResponse, error) {
	key, err := a.checkAccess()
	if err != nil {
		return nil, err
	}

	opts := options(req)
	payload := geminiPayload{Contents: translateGemini(req.Messages)}
	payload.GenerationConfig.Temperature = opts.Temperature
	payload.GenerationConfig.MaxOutputTokens = opts.MaxTokens
	payload.GenerationConfig.TopK = 40
	payload.GenerationConfig.TopP = 0.95

	// Gemini authenticates via query parameter rather than a header.
	data, err := a.postJSON(ctx, a.cfg.UpstreamURL+"?key="+key, nil, payload)
	if err != nil {
		return nil, err
	}

	var out geminiResponse
	if err := decodeUpstream(a.id, data, &out); err != nil {
		return nil, err
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return nil, &ProviderError{Provider: a.id, Message: "empty candidates in response"}
	}

	return &model.ChatResponse{
		Content: out.Candidates[0].Content.Parts[0].Text,
		Model:   a.cfg.Model,
		Usage: &model.Usage{
			PromptTokens:     out.UsageMetadata.PromptTokenCount,
			CompletionTokens: out.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      out.UsageMetadata.TotalTokenCount,
		},
	}, nil
}
