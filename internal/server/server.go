// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server exposes the provider gateway over HTTP.
//
// Routes:
//
//	POST /api/{provider}/chat  translate and forward a chat request
//	GET  /api/config           public provider listing (no credentials)
//	GET  /api/health           enablement and liveness
//	GET  /api/stats            usage summary from the telemetry store
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/campusroyal/aichat/internal/config"
	"github.com/campusroyal/aichat/internal/gateway"
	"github.com/campusroyal/aichat/internal/model"
	"github.com/campusroyal/aichat/internal/telemetry"
)

// MaxBodySize caps incoming request bodies (1MB).
const MaxBodySize = 1 << 20

// Request validation bounds.
const (
	MaxMessages      = 100
	MaxContentLength = 8000
	MaxTokensCeiling = 4096
)

// =============================================================================
// SERVER
// =============================================================================

// Server is the gateway HTTP server. Its adapter set can be swapped at
// runtime when the config file changes.
type Server struct {
	mu       sync.RWMutex
	cfg      *config.Config
	adapters map[string]gateway.Adapter

	stats  *telemetry.Store
	logger *log.Logger

	httpServer *http.Server
}

// Option configures the server.
type Option func(*Server)

// WithTelemetry attaches a telemetry store powering /api/stats.
func WithTelemetry(stats *telemetry.Store) Option {
	return func(s *Server) { s.stats = stats }
}

// WithLogger overrides the request logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// New creates a gateway server from cfg.
func New(cfg *config.Config, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		adapters: gateway.NewAdapters(cfg, nil),
		logger:   log.New(os.Stderr, "", 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reload swaps in a freshly loaded config. In-flight requests finish against
// the adapter set they started with.
func (s *Server) Reload(cfg *config.Config) {
	adapters := gateway.NewAdapters(cfg, nil)
	s.mu.Lock()
	s.cfg = cfg
	s.adapters = adapters
	s.mu.Unlock()
	log.Printf("SERVER_RELOADED | providers=%d", len(adapters))
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/{provider}/chat", s.handleChat)
	mux.HandleFunc("GET /api/config", s.handleConfig)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/stats", s.handleStats)

	var limiter *IPRateLimiter
	if s.cfg.Server.RequestsPerMinute > 0 {
		limiter = NewIPRateLimiter(s.cfg.Server.RequestsPerMinute)
	}

	chain := Chain(
		RecoveryMiddleware(),
		SecurityHeadersMiddleware(),
		CORSMiddleware(),
		RateLimitMiddleware(limiter),
		LoggingMiddleware(s.logger),
	)
	return chain(mux)
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("SERVER_STARTED | port=%d", s.cfg.Server.Port)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	providerID := r.PathValue("provider")

	s.mu.RLock()
	adapter, ok := s.adapters[providerID]
	s.mu.RUnlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error": fmt.Sprintf("Unknown API provider: %s", providerID),
		})
		return
	}

	req, errMsg := decodeChatRequest(w, r)
	if errMsg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": errMsg})
		return
	}

	start := time.Now()
	resp, err := adapter.Complete(r.Context(), req)
	latency := time.Since(start)

	if err != nil {
		s.record(telemetry.Record{Provider: providerID, Failed: true, Latency: latency})
		s.writeChatError(w, providerID, err)
		return
	}

	rec := telemetry.Record{Provider: providerID, Model: resp.Model, Latency: latency}
	if resp.Usage != nil {
		rec.PromptTokens = resp.Usage.PromptTokens
		rec.CompletionTokens = resp.Usage.CompletionTokens
	}
	s.record(rec)

	writeJSON(w, http.StatusOK, map[string]any{
		"response":  resp.Content,
		"model":     resp.Model,
		"usage":     resp.Usage,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// decodeChatRequest reads and validates the request body. A non-empty
// return string is the client-facing validation error.
func decodeChatRequest(w http.ResponseWriter, r *http.Request) (*model.ChatRequest, string) {
	var req model.ChatRequest
	body := http.MaxBytesReader(w, r.Body, MaxBodySize)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return nil, "Invalid JSON body"
	}

	if len(req.Messages) == 0 {
		return nil, "messages must not be empty"
	}
	if len(req.Messages) > MaxMessages {
		return nil, fmt.Sprintf("too many messages (max %d)", MaxMessages)
	}
	for _, m := range req.Messages {
		if !m.Role.Valid() {
			return nil, fmt.Sprintf("invalid role: %s", m.Role)
		}
		if len(m.Content) > MaxContentLength {
			return nil, fmt.Sprintf("message content too long (max %d)", MaxContentLength)
		}
	}
	if req.Options.Temperature < 0 || req.Options.Temperature > 2 {
		return nil, "temperature must be between 0 and 2"
	}
	if req.Options.MaxTokens < 0 || req.Options.MaxTokens > MaxTokensCeiling {
		return nil, fmt.Sprintf("max_tokens must be between 0 and %d", MaxTokensCeiling)
	}
	return &req, ""
}

// writeChatError maps adapter errors to the wire format.
func (s *Server) writeChatError(w http.ResponseWriter, providerID string, err error) {
	var cfgErr *gateway.ConfigError
	if errors.As(err, &cfgErr) {
		log.Printf("REQUEST_CONFIG_ERROR | provider=%s message=%s", providerID, cfgErr.Message)
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"error":   "API key not configured",
			"message": cfgErr.Message,
		})
		return
	}

	var disabled *gateway.DisabledError
	if errors.As(err, &disabled) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"error":    disabled.Error(),
			"fallback": true,
		})
		return
	}

	log.Printf("REQUEST_FAILED | provider=%s error=%v", providerID, err)
	writeJSON(w, http.StatusInternalServerError, map[string]any{
		"error":     "Error al procesar la solicitud",
		"fallback":  true,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// record writes telemetry if a store is attached.
func (s *Server) record(rec telemetry.Record) {
	if s.stats != nil {
		s.stats.Add(rec)
	}
}

// =============================================================================
// INFO HANDLERS
// =============================================================================

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	cfg := s.cfg
	s.mu.RUnlock()

	// Public projection only. Credentials never leave the server.
	providers := make(map[string]any, len(cfg.Providers))
	for id, pc := range cfg.Providers {
		key := os.Getenv(envVarFor(id))
		if key == "" {
			key = pc.APIKey
		}
		providers[id] = map[string]any{
			"name":       pc.Name,
			"model":      pc.Model,
			"enabled":    pc.Enabled,
			"endpoint":   pc.Endpoint,
			"configured": !config.IsPlaceholderKey(key),
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"active":    cfg.ActiveProvider,
		"providers": providers,
	})
}

// envVarFor maps a provider ID to its credential environment variable.
func envVarFor(id string) string {
	switch id {
	case "openai":
		return config.EnvOpenAIKey
	case "claude":
		return config.EnvClaudeKey
	case "gemini":
		return config.EnvGeminiKey
	default:
		return ""
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	cfg := s.cfg
	s.mu.RUnlock()

	enabled := make(map[string]bool, len(cfg.Providers))
	for id, pc := range cfg.Providers {
		enabled[id] = pc.Enabled
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"providers": enabled,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": "telemetry not enabled"})
		return
	}

	summary, err := s.stats.Summary()
	if err != nil {
		log.Printf("STATS_QUERY_FAILED | error=%v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "stats unavailable"})
		return
	}
	total, err := s.stats.TotalRequests()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "stats unavailable"})
		return
	}

	if summary == nil {
		summary = []telemetry.ProviderStats{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total_requests": total,
		"providers":      summary,
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("RESPONSE_ENCODE_FAILED | error=%v", err)
	}
}
