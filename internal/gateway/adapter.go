// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/campusroyal/aichat/internal/config"
	"github.com/campusroyal/aichat/internal/model"
)

// MaxResponseSize caps upstream response bodies (10MB).
const MaxResponseSize = 10 * 1024 * 1024

// =============================================================================
// ADAPTER INTERFACE
// =============================================================================

// Adapter translates the provider-agnostic ChatRequest to one vendor's wire
// format, calls upstream, and normalizes the result.
type Adapter interface {
	// ID returns the provider identifier the adapter serves.
	ID() string

	// Complete performs the upstream call. Errors are typed: *ConfigError,
	// *DisabledError, or *ProviderError.
	Complete(ctx context.Context, req *model.ChatRequest) (*model.ChatResponse, error)
}

// NewAdapters builds the adapter set for every remote provider in cfg.
func NewAdapters(cfg *config.Config, client *http.Client) map[string]Adapter {
	if client == nil {
		client = &http.Client{
			Timeout: time.Duration(cfg.Server.UpstreamTimeoutSecs) * time.Second,
		}
	}

	adapters := make(map[string]Adapter)
	if pc, ok := cfg.Providers["openai"]; ok {
		adapters["openai"] = &openaiAdapter{base: newBase("openai", pc, config.EnvOpenAIKey, client)}
	}
	if pc, ok := cfg.Providers["claude"]; ok {
		adapters["claude"] = &anthropicAdapter{base: newBase("claude", pc, config.EnvClaudeKey, client)}
	}
	if pc, ok := cfg.Providers["gemini"]; ok {
		adapters["gemini"] = &geminiAdapter{base: newBase("gemini", pc, config.EnvGeminiKey, client)}
	}
	return adapters
}

// =============================================================================
// SHARED ADAPTER BASE
// =============================================================================

// base carries the settings every adapter shares.
type base struct {
	id     string
	cfg    config.ProviderConfig
	envVar string
	client *http.Client
}

func newBase(id string, cfg config.ProviderConfig, envVar string, client *http.Client) base {
	return base{id: id, cfg: cfg, envVar: envVar, client: client}
}

func (b *base) ID() string {
	return b.id
}

// credential resolves the API key, environment first. A placeholder or
// missing key is a ConfigError.
func (b *base) credential() (string, error) {
	key := os.Getenv(b.envVar)
	if key == "" {
		key = b.cfg.APIKey
	}
	if config.IsPlaceholderKey(key) {
		return "", &ConfigError{
			Provider: b.id,
			Message:  fmt.Sprintf("API key not configured. Set the %s environment variable.", b.envVar),
		}
	}
	return key, nil
}

// checkAccess verifies the provider may serve requests and returns its key.
func (b *base) checkAccess() (string, error) {
	if !b.cfg.Enabled {
		return "", &DisabledError{Provider: b.id}
	}
	return b.credential()
}

// options applies the stock generation defaults to zero-valued options.
func options(req *model.ChatRequest) model.Options {
	opts := req.Options
	if opts.Temperature == 0 {
		opts.Temperature = 0.7
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = 500
	}
	return opts
}

// postJSON sends payload to url and returns the response body. Non-2xx
// statuses become ProviderErrors carrying the upstream message.
func (b *base) postJSON(ctx context.Context, url string, headers map[string]string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &ProviderError{Provider: b.id, Message: fmt.Sprintf("encode request: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &ProviderError{Provider: b.id, Message: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, &ProviderError{Provider: b.id, Message: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, &ProviderError{Provider: b.id, Status: resp.StatusCode, Message: fmt.Sprintf("read response: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ProviderError{
			Provider: b.id,
			Status:   resp.StatusCode,
			Message:  upstreamMessage(data),
		}
	}
	return data, nil
}

// decodeUpstream unmarshals a vendor response body into out.
func decodeUpstream(id string, data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return &ProviderError{Provider: id, Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}

// upstreamMessage extracts a human-readable error from a vendor error body.
func upstreamMessage(data []byte) string {
	var generic struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &generic); err == nil {
		if generic.Error.Message != "" {
			return generic.Error.Message
		}
		if generic.Message != "" {
			return generic.Message
		}
	}
	msg := string(data)
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
