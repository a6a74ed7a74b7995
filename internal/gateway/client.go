// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/campusroyal/aichat/internal/model"
	"github.com/campusroyal/aichat/internal/provider"
	"github.com/campusroyal/aichat/internal/sim"
)

// =============================================================================
// CLIENT
// =============================================================================

// Client is the client half of the gateway. It routes a ChatRequest to the
// selected provider's endpoint and falls back to the local simulation engine
// on any provider failure, so a send always yields a response.
type Client struct {
	registry provider.Registry
	engine   *sim.Engine
	http     *http.Client
	baseURL  string

	// OnConfigNotice is invoked when a provider answers with a
	// configuration error (401-class) before falling back. The REPL uses
	// it to warn the user instead of hiding the problem.
	OnConfigNotice func(providerID, message string)
}

// NewClient creates a gateway client. baseURL is the server root, e.g.
// "http://localhost:3000"; endpoints from the registry are resolved against
// it.
func NewClient(registry provider.Registry, engine *sim.Engine, baseURL string) *Client {
	return &Client{
		registry: registry,
		engine:   engine,
		http:     &http.Client{Timeout: 60 * time.Second},
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

// WithHTTPClient overrides the HTTP client. Tests use it to shorten
// timeouts.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

// wireResponse is the server answer. Alternate content field spellings are
// accepted for compatibility with older server builds.
type wireResponse struct {
	Response string       `json:"response"`
	Content  string       `json:"content"`
	Message  string       `json:"message"`
	Model    string       `json:"model"`
	Usage    *model.Usage `json:"usage"`
	Error    string       `json:"error"`
	Fallback bool         `json:"fallback"`
}

// text returns the first populated content field.
func (w *wireResponse) text() string {
	if w.Response != "" {
		return w.Response
	}
	if w.Content != "" {
		return w.Content
	}
	return w.Message
}

// Send routes req to its provider. Provider failures never surface as
// errors: the request falls back to the simulation engine and the caller
// always receives a response. The returned error is reserved for context
// cancellation.
func (c *Client) Send(ctx context.Context, req *model.ChatRequest) (*model.ChatResponse, error) {
	p, ok := c.registry.Resolve(req.Provider)
	if !ok || p.IsLocal() || !p.Enabled {
		return c.engine.Respond(ctx, req)
	}

	resp, err := c.post(ctx, p, req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Printf("GATEWAY_FALLBACK | provider=%s error=%v", p.ID, err)
		return c.engine.Respond(ctx, req)
	}
	return resp, nil
}

// post performs the HTTP call to the provider endpoint.
func (c *Client) post(ctx context.Context, p provider.Provider, req *model.ChatRequest) (*model.ChatResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+p.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", p.Endpoint, err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var wire wireResponse
	// A non-JSON body on an error status is fine; the status drives the
	// outcome either way.
	_ = json.Unmarshal(data, &wire)

	if httpResp.StatusCode == http.StatusUnauthorized {
		// Configuration problems are reported before falling back, never
		// silently absorbed.
		msg := wire.Message
		if msg == "" {
			msg = wire.Error
		}
		log.Printf("GATEWAY_CONFIG_ERROR | provider=%s message=%s", p.ID, msg)
		if c.OnConfigNotice != nil {
			c.OnConfigNotice(p.ID, msg)
		}
		return nil, &ConfigError{Provider: p.ID, Message: msg}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, &ProviderError{Provider: p.ID, Status: httpResp.StatusCode, Message: wire.Error}
	}

	text := wire.text()
	if text == "" {
		return nil, &ProviderError{Provider: p.ID, Message: "empty response body"}
	}

	modelName := wire.Model
	if modelName == "" {
		modelName = p.Model
	}
	return &model.ChatResponse{
		Content: text,
		Model:   modelName,
		Usage:   wire.Usage,
	}, nil
}
