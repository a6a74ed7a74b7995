// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server provides the HTTP gateway server.
//
// This package exposes the provider adapters over a small REST API used by
// the chat client, with validation and middleware in front.
//
// # Endpoints
//
//   - POST /api/{provider}/chat - Forward a chat request to the provider
//   - GET  /api/config         - Enabled flags and public model names
//   - GET  /api/health         - Enablement booleans plus timestamp
//   - GET  /api/stats          - Usage summary from the telemetry store
//
// # Middleware
//
//   - Panic recovery
//   - Security headers (X-Content-Type-Options, X-Frame-Options, etc.)
//   - CORS headers for browser clients
//   - Per-client rate limiting
//   - Request logging
//
// # Usage
//
//	srv := server.New(cfg, server.WithTelemetry(stats))
//	err := srv.ListenAndServe(ctx)
//
// Reload swaps the configuration in place so a config watcher can apply
// provider enable/disable changes without a restart.
package server
