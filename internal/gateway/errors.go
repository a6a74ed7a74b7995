// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gateway implements both halves of the provider gateway: the
// client-side selector with its fallback chain, and the server-side
// per-vendor payload translation.
package gateway

import "fmt"

// =============================================================================
// ERROR TYPES
// =============================================================================

// ConfigError means the provider is misconfigured (missing or placeholder
// credential). It is surfaced to callers as a 401-class response and is
// never silently swallowed by the fallback chain.
type ConfigError struct {
	Provider string
	Message  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: configuration error: %s", e.Provider, e.Message)
}

// DisabledError means the provider exists but is switched off.
type DisabledError struct {
	Provider string
}

func (e *DisabledError) Error() string {
	return fmt.Sprintf("%s API is not enabled", e.Provider)
}

// ProviderError means the upstream vendor call failed (transport error or
// non-2xx). Callers fall back to the simulation engine.
type ProviderError struct {
	Provider string
	Status   int
	Message  string
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: upstream error %d: %s", e.Provider, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: upstream error: %s", e.Provider, e.Message)
}
