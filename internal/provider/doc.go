// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package provider defines the immutable provider registry.
//
// # Key Types
//
//   - Provider: Identity, endpoint, model name, and enabled flag
//   - Registry: Immutable lookup built once from configuration
//
// # Usage
//
//	registry := provider.FromConfig(cfg)
//	p, ok := registry.Resolve("openai")
//	fallback := registry.Fallback()
//
// The registry always contains a "local" entry with an empty endpoint; it
// is the terminal fallback and is never disabled.
package provider
