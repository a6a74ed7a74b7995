// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if cfg.ActiveProvider != "local" {
		t.Errorf("active provider = %q, want local", cfg.ActiveProvider)
	}
	if cfg.Chat.MaxHistoryLength != 50 {
		t.Errorf("max history = %d, want 50", cfg.Chat.MaxHistoryLength)
	}
	if cfg.Chat.ContextWindow != 5 {
		t.Errorf("context window = %d, want 5", cfg.Chat.ContextWindow)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("port = %d, want 3000", cfg.Server.Port)
	}

	for _, id := range []string{"openai", "claude", "gemini", "local"} {
		if _, ok := cfg.Providers[id]; !ok {
			t.Errorf("missing default provider %q", id)
		}
	}

	if cfg.Providers["gemini"].Enabled {
		t.Error("gemini should ship disabled")
	}
	if cfg.Providers["local"].Endpoint != "" {
		t.Error("local provider must have no endpoint")
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Chat.MaxHistoryLength != 50 {
		t.Errorf("expected defaults, got max history %d", cfg.Chat.MaxHistoryLength)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
active_provider = "openai"

[chat]
max_history_length = 10
typing_speed_ms = 5

[server]
port = 8080

[providers.openai]
name = "OpenAI GPT"
endpoint = "/api/openai/chat"
model = "gpt-4"
enabled = true
api_key = "sk-test"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.ActiveProvider != "openai" {
		t.Errorf("active = %q, want openai", cfg.ActiveProvider)
	}
	if cfg.Chat.MaxHistoryLength != 10 {
		t.Errorf("max history = %d, want 10", cfg.Chat.MaxHistoryLength)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Providers["openai"].Model != "gpt-4" {
		t.Errorf("model = %q, want gpt-4", cfg.Providers["openai"].Model)
	}
	// Unmentioned settings keep their defaults.
	if cfg.Chat.ContextWindow != 5 {
		t.Errorf("context window = %d, want default 5", cfg.Chat.ContextWindow)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("not [valid toml"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed config")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvOpenAIKey, "sk-from-env")
	t.Setenv(EnvPort, "4000")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Providers["openai"].APIKey != "sk-from-env" {
		t.Errorf("openai key = %q, want env value", cfg.Providers["openai"].APIKey)
	}
	if cfg.Server.Port != 4000 {
		t.Errorf("port = %d, want 4000", cfg.Server.Port)
	}
}

func TestValidateClampsBadValues(t *testing.T) {
	cfg := &Config{
		ActiveProvider: "nonexistent",
		Chat: ChatConfig{
			MaxHistoryLength: -1,
			ContextWindow:    0,
			Temperature:      9.5,
		},
		Server: ServerConfig{Port: 99999},
	}
	cfg.Validate()

	if cfg.Chat.MaxHistoryLength != 50 {
		t.Errorf("max history = %d, want clamped 50", cfg.Chat.MaxHistoryLength)
	}
	if cfg.Chat.ContextWindow != 5 {
		t.Errorf("context window = %d, want clamped 5", cfg.Chat.ContextWindow)
	}
	if cfg.Chat.Temperature != 0.7 {
		t.Errorf("temperature = %v, want clamped 0.7", cfg.Chat.Temperature)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("port = %d, want clamped 3000", cfg.Server.Port)
	}
	if cfg.ActiveProvider != "local" {
		t.Errorf("active = %q, want fallback local", cfg.ActiveProvider)
	}
	if _, ok := cfg.Providers["local"]; !ok {
		t.Error("local provider should be restored")
	}
}

func TestIsPlaceholderKey(t *testing.T) {
	for _, key := range []string{"", "YOUR_OPENAI_API_KEY", "YOUR_CLAUDE_API_KEY"} {
		if !IsPlaceholderKey(key) {
			t.Errorf("IsPlaceholderKey(%q) = false, want true", key)
		}
	}
	if IsPlaceholderKey("sk-real-key") {
		t.Error("real key flagged as placeholder")
	}
}

func TestWatcherReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(`active_provider = "local"`), 0o600); err != nil {
		t.Fatal(err)
	}

	reloaded := make(chan *Config, 1)
	w, err := NewWatcher(path, func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte(`active_provider = "openai"`), 0o600); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.ActiveProvider != "openai" {
			t.Errorf("reloaded active = %q, want openai", cfg.ActiveProvider)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}
