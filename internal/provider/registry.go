// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package provider defines the provider registry shared by the chat client
// and the gateway server.
package provider

import (
	"sort"

	"github.com/campusroyal/aichat/internal/config"
)

// LocalID is the always-present simulation provider.
const LocalID = "local"

// Provider describes one selectable backend.
type Provider struct {
	ID       string
	Name     string
	Endpoint string
	Model    string
	Enabled  bool
}

// IsLocal reports whether requests to this provider are served by the local
// simulation engine instead of an HTTP endpoint.
func (p Provider) IsLocal() bool {
	return p.ID == LocalID || p.Endpoint == ""
}

// =============================================================================
// REGISTRY
// =============================================================================

// Registry is an immutable set of providers. Build a new one (e.g. from a
// reloaded config) rather than mutating; lookups need no locking.
type Registry struct {
	providers map[string]Provider
	order     []string
}

// NewRegistry builds a registry from a provider list, preserving order. The
// local fallback entry is added if missing.
func NewRegistry(providers []Provider) Registry {
	r := Registry{providers: make(map[string]Provider, len(providers)+1)}
	for _, p := range providers {
		if _, dup := r.providers[p.ID]; dup {
			continue
		}
		r.providers[p.ID] = p
		r.order = append(r.order, p.ID)
	}
	if _, ok := r.providers[LocalID]; !ok {
		r.providers[LocalID] = Provider{ID: LocalID, Name: "Asistente Local", Model: "local-mock", Enabled: true}
		r.order = append(r.order, LocalID)
	}
	return r
}

// FromConfig builds a registry from configuration. Providers are ordered by
// ID for stable listings.
func FromConfig(cfg *config.Config) Registry {
	ids := make([]string, 0, len(cfg.Providers))
	for id := range cfg.Providers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	providers := make([]Provider, 0, len(ids))
	for _, id := range ids {
		pc := cfg.Providers[id]
		providers = append(providers, Provider{
			ID:       id,
			Name:     pc.Name,
			Endpoint: pc.Endpoint,
			Model:    pc.Model,
			Enabled:  pc.Enabled,
		})
	}
	return NewRegistry(providers)
}

// Resolve looks up a provider by ID.
func (r Registry) Resolve(id string) (Provider, bool) {
	p, ok := r.providers[id]
	return p, ok
}

// Enabled reports whether the provider exists and is enabled.
func (r Registry) Enabled(id string) bool {
	p, ok := r.providers[id]
	return ok && p.Enabled
}

// Fallback returns the local simulation provider.
func (r Registry) Fallback() Provider {
	return r.providers[LocalID]
}

// List returns all providers in registry order.
func (r Registry) List() []Provider {
	out := make([]Provider, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.providers[id])
	}
	return out
}

// Len returns the number of registered providers.
func (r Registry) Len() int {
	return len(r.providers)
}
