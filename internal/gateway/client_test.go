// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusroyal/aichat/internal/model"
	"github.com/campusroyal/aichat/internal/provider"
	"github.com/campusroyal/aichat/internal/sim"
)

func testEngine() *sim.Engine {
	return sim.NewEngine().WithSeed(7).WithLatency(0, 0)
}

func testRegistry() provider.Registry {
	return provider.NewRegistry([]provider.Provider{
		{ID: "openai", Name: "OpenAI GPT", Endpoint: "/api/openai/chat", Model: "gpt-3.5-turbo", Enabled: true},
		{ID: "gemini", Name: "Google Gemini", Endpoint: "/api/gemini/chat", Model: "gemini-pro", Enabled: false},
	})
}

func clientRequest(providerID string) *model.ChatRequest {
	return &model.ChatRequest{
		SessionID: "session_test",
		Provider:  providerID,
		Messages:  []model.TurnMessage{{Role: model.RoleUser, Content: "¿qué cursos hay?"}},
		Timestamp: time.Now(),
	}
}

func TestSendHappyPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/openai/chat", r.URL.Path)
		var req model.ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "session_test", req.SessionID)

		json.NewEncoder(w).Encode(map[string]any{
			"response": "aquí tienes",
			"model":    "gpt-3.5-turbo",
			"usage":    map[string]int{"total_tokens": 20},
		})
	}))
	defer server.Close()

	c := NewClient(testRegistry(), testEngine(), server.URL)
	resp, err := c.Send(context.Background(), clientRequest("openai"))
	require.NoError(t, err)

	assert.Equal(t, "aquí tienes", resp.Content)
	assert.Equal(t, "gpt-3.5-turbo", resp.Model)
	assert.False(t, resp.Simulated)
	assert.Equal(t, 20, resp.Usage.TotalTokens)
}

func TestSendAcceptsAlternateContentFields(t *testing.T) {
	for _, field := range []string{"response", "content", "message"} {
		t.Run(field, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]string{field: "texto"})
			}))
			defer server.Close()

			c := NewClient(testRegistry(), testEngine(), server.URL)
			resp, err := c.Send(context.Background(), clientRequest("openai"))
			require.NoError(t, err)
			assert.Equal(t, "texto", resp.Content)
		})
	}
}

func TestSendLocalProviderUsesEngine(t *testing.T) {
	c := NewClient(testRegistry(), testEngine(), "http://localhost:0")
	resp, err := c.Send(context.Background(), clientRequest("local"))
	require.NoError(t, err)
	assert.True(t, resp.Simulated)
	assert.Equal(t, sim.ModelName, resp.Model)
}

func TestSendUnknownProviderFallsBack(t *testing.T) {
	c := NewClient(testRegistry(), testEngine(), "http://localhost:0")
	resp, err := c.Send(context.Background(), clientRequest("nonexistent"))
	require.NoError(t, err)
	assert.True(t, resp.Simulated)
}

func TestSendDisabledProviderFallsBack(t *testing.T) {
	c := NewClient(testRegistry(), testEngine(), "http://localhost:0")
	resp, err := c.Send(context.Background(), clientRequest("gemini"))
	require.NoError(t, err)
	assert.True(t, resp.Simulated)
}

func TestSendServerErrorFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{"error": "Error al procesar la solicitud", "fallback": true})
	}))
	defer server.Close()

	c := NewClient(testRegistry(), testEngine(), server.URL)
	resp, err := c.Send(context.Background(), clientRequest("openai"))
	require.NoError(t, err)
	assert.True(t, resp.Simulated, "server error must fall back to simulation")
}

func TestSendTransportFailureFallsBack(t *testing.T) {
	// Nothing is listening on this address.
	c := NewClient(testRegistry(), testEngine(), "http://127.0.0.1:1")
	resp, err := c.Send(context.Background(), clientRequest("openai"))
	require.NoError(t, err)
	assert.True(t, resp.Simulated, "transport failure must fall back to simulation")
}

func TestSendConfigErrorNotifiesBeforeFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{
			"error":   "API key not configured",
			"message": "Set the OPENAI_API_KEY environment variable.",
		})
	}))
	defer server.Close()

	c := NewClient(testRegistry(), testEngine(), server.URL)

	var noticeProvider, noticeMessage string
	c.OnConfigNotice = func(providerID, message string) {
		noticeProvider = providerID
		noticeMessage = message
	}

	resp, err := c.Send(context.Background(), clientRequest("openai"))
	require.NoError(t, err)

	assert.True(t, resp.Simulated, "config error still yields a usable response")
	assert.Equal(t, "openai", noticeProvider)
	assert.Contains(t, noticeMessage, "OPENAI_API_KEY")
}

func TestSendContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(testRegistry(), testEngine(), "http://127.0.0.1:1")
	_, err := c.Send(ctx, clientRequest("openai"))
	require.Error(t, err)
}
