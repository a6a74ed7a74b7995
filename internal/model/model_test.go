// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"testing"
)

func TestNewMessageGeneratesUniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		msg := NewUserMessage("hola")
		if !strings.HasPrefix(msg.ID, "msg_") {
			t.Fatalf("expected msg_ prefix, got %q", msg.ID)
		}
		if seen[msg.ID] {
			t.Fatalf("duplicate message ID: %s", msg.ID)
		}
		seen[msg.ID] = true
	}
}

func TestNewAssistantMessageCarriesModel(t *testing.T) {
	msg := NewAssistantMessage("respuesta", "gpt-3.5-turbo")
	if msg.Role != RoleAssistant {
		t.Errorf("role = %q, want assistant", msg.Role)
	}
	if msg.Model != "gpt-3.5-turbo" {
		t.Errorf("model = %q, want gpt-3.5-turbo", msg.Model)
	}
	if msg.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
}

func TestIsGreeting(t *testing.T) {
	tests := []struct {
		name string
		msg  *Message
		want bool
	}{
		{
			name: "welcome banner",
			msg:  NewAssistantMessage("¡Hola! Soy tu asistente virtual de Campus Royal. ¿En qué puedo ayudarte hoy?", ""),
			want: true,
		},
		{
			name: "regular assistant reply",
			msg:  NewAssistantMessage("Tenemos una amplia variedad de cursos disponibles.", "local-mock"),
			want: false,
		},
		{
			name: "user typing the marker is not a greeting",
			msg:  NewUserMessage("¡Hola! Soy tu asistente"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.msg.IsGreeting(); got != tt.want {
				t.Errorf("IsGreeting() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPreviewHandlesUnicode(t *testing.T) {
	msg := NewUserMessage("¿Cuánto cuesta la certificación?")
	got := msg.Preview(10)
	if len([]rune(got)) != 10 {
		t.Errorf("preview rune length = %d, want 10", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("preview %q missing ellipsis", got)
	}

	short := NewUserMessage("hola")
	if short.Preview(10) != "hola" {
		t.Errorf("short content should be returned unchanged")
	}
}

func TestLastUserContent(t *testing.T) {
	req := ChatRequest{
		Messages: []TurnMessage{
			{Role: RoleSystem, Content: "persona"},
			{Role: RoleUser, Content: "primera"},
			{Role: RoleAssistant, Content: "respuesta"},
			{Role: RoleUser, Content: "segunda"},
		},
	}
	if got := req.LastUserContent(); got != "segunda" {
		t.Errorf("LastUserContent() = %q, want segunda", got)
	}

	empty := ChatRequest{Messages: []TurnMessage{{Role: RoleSystem, Content: "persona"}}}
	if got := empty.LastUserContent(); got != "" {
		t.Errorf("LastUserContent() on system-only request = %q, want empty", got)
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.Temperature != 0.7 {
		t.Errorf("temperature = %v, want 0.7", opts.Temperature)
	}
	if opts.MaxTokens != 500 {
		t.Errorf("max_tokens = %d, want 500", opts.MaxTokens)
	}
	if opts.Stream {
		t.Error("stream should default to false")
	}
}
