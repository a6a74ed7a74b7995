// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for aichat.
//
// Loads TOML configuration with sensible defaults, environment variable
// overrides, and validation that clamps out-of-range values.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - ChatConfig: Client-side settings (history length, typing speed, window)
//   - ServerConfig: Gateway server settings (port, rate limit, timeout)
//   - ProviderConfig: Per-provider settings (model, API key, enabled)
//   - Watcher: File watcher that reloads configuration on change
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (AICHAT_*, provider API key variables)
//   - ~/.aichat/config.toml
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Watch for changes:
//
//	w, err := config.NewWatcher(path, func(cfg *config.Config) {
//	    srv.Reload(cfg)
//	})
//	defer w.Close()
package config
