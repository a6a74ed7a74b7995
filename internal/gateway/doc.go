// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gateway provides both halves of the provider gateway.
//
// The client half forwards chat requests to the gateway server and falls
// back to the local simulation engine whenever the remote path fails. The
// server half adapts the provider-agnostic request to each upstream API.
//
// # Key Types
//
//   - Client: Sends requests to the gateway server with simulation fallback
//   - Adapter: Per-provider translation to the upstream API (openai,
//     anthropic, gemini)
//   - ConfigError: Missing or placeholder credential, surfaced to the user
//   - ProviderError: Upstream failure carrying status, triggers fallback
//   - DisabledError: Provider disabled in configuration
//
// # Usage
//
// Client side:
//
//	c := gateway.NewClient(registry, engine, "http://localhost:3000")
//	resp, err := c.Send(ctx, req)
//
// Send never returns an error for provider failures; the caller always
// gets a usable response, simulated if necessary. Configuration errors are
// reported through the OnConfigNotice hook before falling back.
//
// Server side:
//
//	adapters := gateway.NewAdapters(cfg, httpClient)
//	resp, err := adapters["openai"].Chat(ctx, req)
package gateway
