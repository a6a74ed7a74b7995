// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"testing"

	"github.com/campusroyal/aichat/internal/model"
)

func TestBuildRequestShape(t *testing.T) {
	recent := []model.TurnMessage{
		{Role: model.RoleUser, Content: "hola"},
		{Role: model.RoleAssistant, Content: "buenas"},
	}

	req := BuildRequest("session_1", "openai", "gpt-3.5-turbo", recent, "¿qué cursos hay?", model.DefaultOptions())

	if req.SessionID != "session_1" || req.Provider != "openai" || req.Model != "gpt-3.5-turbo" {
		t.Errorf("envelope fields wrong: %+v", req)
	}
	if req.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}

	if len(req.Messages) != 4 {
		t.Fatalf("message count = %d, want 4", len(req.Messages))
	}
	if req.Messages[0].Role != model.RoleSystem || req.Messages[0].Content != Persona {
		t.Error("first message must be the persona system turn")
	}
	if req.Messages[1].Content != "hola" || req.Messages[2].Content != "buenas" {
		t.Error("recent history out of order")
	}
	last := req.Messages[len(req.Messages)-1]
	if last.Role != model.RoleUser || last.Content != "¿qué cursos hay?" {
		t.Error("last message must be the new user turn")
	}

	if req.Options.Temperature != 0.7 || req.Options.MaxTokens != 500 || req.Options.Stream {
		t.Errorf("options = %+v", req.Options)
	}
}

func TestBuildRequestDoesNotMutateRecent(t *testing.T) {
	recent := []model.TurnMessage{{Role: model.RoleUser, Content: "hola"}}
	_ = BuildRequest("s", "local", "local-mock", recent, "otra", model.DefaultOptions())

	if len(recent) != 1 || recent[0].Content != "hola" {
		t.Error("recent slice was mutated")
	}
}

func TestBuildRequestEmptyHistory(t *testing.T) {
	req := BuildRequest("s", "local", "local-mock", nil, "hola", model.DefaultOptions())
	if len(req.Messages) != 2 {
		t.Fatalf("message count = %d, want persona + user", len(req.Messages))
	}
}
