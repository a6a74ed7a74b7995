// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for the
// Campus Royal assistant.
//
// Configuration is TOML with sensible defaults and environment variable
// overrides. File location: ~/.aichat/config.toml (or an explicit path).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Environment variables recognized for credential and server overrides.
const (
	EnvOpenAIKey = "OPENAI_API_KEY"
	EnvClaudeKey = "CLAUDE_API_KEY"
	EnvGeminiKey = "GEMINI_API_KEY"
	EnvPort      = "AICHAT_PORT"
	EnvStateDir  = "AICHAT_STATE_DIR"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete assistant configuration.
type Config struct {
	// Version of the config schema.
	Version string `toml:"version"`

	// ActiveProvider is the provider selected when a session starts fresh.
	ActiveProvider string `toml:"active_provider"`

	Chat   ChatConfig `toml:"chat"`
	Server ServerConfig `toml:"server"`

	// Providers maps provider IDs (openai, claude, gemini, local) to their
	// settings.
	Providers map[string]ProviderConfig `toml:"providers"`
}

// ChatConfig contains client-side chat behavior settings.
type ChatConfig struct {
	// MaxHistoryLength bounds the persisted transcript.
	MaxHistoryLength int `toml:"max_history_length"`
	// ContextWindow is how many recent messages accompany each request.
	ContextWindow int `toml:"context_window"`
	// TypingSpeedMs is the per-character reveal delay of the typewriter.
	TypingSpeedMs int `toml:"typing_speed_ms"`
	// Temperature and MaxTokens are the generation parameters sent upstream.
	Temperature float64 `toml:"temperature"`
	MaxTokens   int     `toml:"max_tokens"`
	// StateDir is where history and telemetry files live.
	StateDir string `toml:"state_dir"`
	// ServerURL is the base URL of the gateway server the client talks to.
	ServerURL string `toml:"server_url"`
}

// ServerConfig contains gateway server settings.
type ServerConfig struct {
	Port int `toml:"port"`
	// RequestsPerMinute is the per-client rate limit. 0 disables limiting.
	RequestsPerMinute int `toml:"requests_per_minute"`
	// UpstreamTimeoutSecs bounds each call to a vendor API.
	UpstreamTimeoutSecs int `toml:"upstream_timeout_secs"`
}

// ProviderConfig contains the settings for a single provider.
type ProviderConfig struct {
	// Name is the human-readable label shown in switch notices.
	Name string `toml:"name"`
	// Endpoint is the gateway path the client posts to. Empty means the
	// provider is handled locally by the simulation engine.
	Endpoint string `toml:"endpoint"`
	// Model is the upstream model identifier.
	Model string `toml:"model"`
	// Enabled gates whether the provider may serve requests.
	Enabled bool `toml:"enabled"`
	// APIKey is the vendor credential. Environment variables take
	// precedence; the placeholder values ship as documentation.
	APIKey string `toml:"api_key"`
	// UpstreamURL is the vendor API endpoint the server translates to.
	UpstreamURL string `toml:"upstream_url"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with the stock provider registry and chat
// parameters.
func Default() *Config {
	return &Config{
		Version:        "1.0",
		ActiveProvider: "local",

		Chat: ChatConfig{
			MaxHistoryLength: 50,
			ContextWindow:    5,
			TypingSpeedMs:    30,
			Temperature:      0.7,
			MaxTokens:        500,
			StateDir:         "",
			ServerURL:        "http://localhost:3000",
		},

		Server: ServerConfig{
			Port:                3000,
			RequestsPerMinute:   100,
			UpstreamTimeoutSecs: 30,
		},

		Providers: map[string]ProviderConfig{
			"openai": {
				Name:        "OpenAI GPT",
				Endpoint:    "/api/openai/chat",
				Model:       "gpt-3.5-turbo",
				Enabled:     true,
				APIKey:      "YOUR_OPENAI_API_KEY",
				UpstreamURL: "https://api.openai.com/v1/chat/completions",
			},
			"claude": {
				Name:        "Claude AI",
				Endpoint:    "/api/claude/chat",
				Model:       "claude-3-sonnet-20240229",
				Enabled:     true,
				APIKey:      "YOUR_CLAUDE_API_KEY",
				UpstreamURL: "https://api.anthropic.com/v1/messages",
			},
			"gemini": {
				Name:        "Google Gemini",
				Endpoint:    "/api/gemini/chat",
				Model:       "gemini-pro",
				Enabled:     false,
				APIKey:      "",
				UpstreamURL: "https://generativelanguage.googleapis.com/v1beta/models/gemini-pro:generateContent",
			},
			"local": {
				Name:    "Asistente Local",
				Model:   "local-mock",
				Enabled: true,
			},
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the assistant configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".aichat"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from path. An empty path means the default
// location. A missing file yields the defaults; a malformed file is an
// error. Environment overrides and validation are applied last.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		var err error
		path, err = ConfigPath()
		if err != nil {
			cfg.ApplyEnvOverrides()
			cfg.Validate()
			return cfg, nil
		}
	}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.Validate()
	return cfg, nil
}

// ApplyEnvOverrides applies environment variable overrides to the config.
// Credentials from the environment always win over file values.
func (c *Config) ApplyEnvOverrides() {
	setKey := func(id, envVar string) {
		if v := os.Getenv(envVar); v != "" {
			p := c.Providers[id]
			p.APIKey = v
			c.Providers[id] = p
		}
	}
	setKey("openai", EnvOpenAIKey)
	setKey("claude", EnvClaudeKey)
	setKey("gemini", EnvGeminiKey)

	if v := os.Getenv(EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 && port < 65536 {
			c.Server.Port = port
		}
	}
	if v := os.Getenv(EnvStateDir); v != "" {
		c.Chat.StateDir = v
	}
}

// Validate clamps out-of-range values to safe defaults. It never fails:
// a bad knob falls back to its stock value.
func (c *Config) Validate() {
	if c.Chat.MaxHistoryLength <= 0 {
		c.Chat.MaxHistoryLength = 50
	}
	if c.Chat.ContextWindow <= 0 {
		c.Chat.ContextWindow = 5
	}
	if c.Chat.TypingSpeedMs < 0 {
		c.Chat.TypingSpeedMs = 30
	}
	if c.Chat.Temperature < 0 || c.Chat.Temperature > 2 {
		c.Chat.Temperature = 0.7
	}
	if c.Chat.MaxTokens <= 0 {
		c.Chat.MaxTokens = 500
	}
	if c.Chat.ServerURL == "" {
		c.Chat.ServerURL = "http://localhost:3000"
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		c.Server.Port = 3000
	}
	if c.Server.RequestsPerMinute < 0 {
		c.Server.RequestsPerMinute = 100
	}
	if c.Server.UpstreamTimeoutSecs <= 0 {
		c.Server.UpstreamTimeoutSecs = 30
	}
	if c.Providers == nil {
		c.Providers = Default().Providers
	}
	if _, ok := c.Providers["local"]; !ok {
		c.Providers["local"] = Default().Providers["local"]
	}
	if _, ok := c.Providers[c.ActiveProvider]; !ok {
		c.ActiveProvider = "local"
	}
}

// StateDir resolves the state directory, defaulting to the config dir.
func (c *Config) StateDir() (string, error) {
	if c.Chat.StateDir != "" {
		return c.Chat.StateDir, nil
	}
	return ConfigDir()
}

// =============================================================================
// CREDENTIALS
// =============================================================================

// placeholders are the shipped documentation values that must never be sent
// upstream as real credentials.
var placeholders = map[string]bool{
	"":                    true,
	"YOUR_OPENAI_API_KEY": true,
	"YOUR_CLAUDE_API_KEY": true,
	"YOUR_GEMINI_API_KEY": true,
}

// IsPlaceholderKey reports whether key is empty or one of the shipped
// placeholder values.
func IsPlaceholderKey(key string) bool {
	return placeholders[key]
}
