// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session orchestrates the chat flow: building requests, enforcing
// the single in-flight invariant, and revealing responses through a
// renderer.
package session

import (
	"time"

	"github.com/campusroyal/aichat/internal/model"
)

// Persona is the fixed system prompt that opens every request.
const Persona = "Eres un asistente educativo de Campus Royal, una plataforma de aprendizaje en línea. Tu función es ayudar a los estudiantes con información sobre cursos, certificaciones, métodos de pago, y resolver dudas generales sobre la plataforma. Sé amable, profesional y conciso en tus respuestas."

// DefaultContextWindow is how many recent messages accompany each request.
const DefaultContextWindow = 5

// =============================================================================
// REQUEST BUILDER
// =============================================================================

// BuildRequest assembles a provider-agnostic request: persona system turn
// first, then the recent context window, then the new user turn. It is a
// pure function; appending the user message to the history is the
// controller's job and happens separately.
func BuildRequest(sessionID, providerID, modelName string, recent []model.TurnMessage, userText string, opts model.Options) *model.ChatRequest {
	messages := make([]model.TurnMessage, 0, len(recent)+2)
	messages = append(messages, model.TurnMessage{Role: model.RoleSystem, Content: Persona})
	messages = append(messages, recent...)
	messages = append(messages, model.TurnMessage{Role: model.RoleUser, Content: userText})

	return &model.ChatRequest{
		SessionID: sessionID,
		Provider:  providerID,
		Model:     modelName,
		Messages:  messages,
		Options:   opts,
		Timestamp: time.Now(),
	}
}
