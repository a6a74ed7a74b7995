// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared by the chat client,
// the history store, and the provider gateway.
package model

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// Valid reports whether the role is one of the three known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant || r == RoleSystem
}

// =============================================================================
// GREETING MARKER
// =============================================================================

// GreetingMarker identifies the synthetic welcome banner the assistant shows
// at the start of a session. Messages containing it are display-only and are
// skipped when a restored session is replayed.
const GreetingMarker = "¡Hola! Soy tu asistente"

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in the chat transcript.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`

	// Model that produced an assistant message, e.g. "gpt-3.5-turbo".
	Model string `json:"model,omitempty"`

	// Error marks the fixed apology shown when a send failed outright.
	Error bool `json:"error,omitempty"`

	// Simulated marks responses produced by the local engine rather than a
	// real provider.
	Simulated bool `json:"simulated,omitempty"`
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, content string) *Message {
	return &Message{
		ID:        generateID(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) *Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates a new assistant message attributed to a model.
func NewAssistantMessage(content, modelName string) *Message {
	msg := NewMessage(RoleAssistant, content)
	msg.Model = modelName
	return msg
}

// NewSystemMessage creates a new system message.
func NewSystemMessage(content string) *Message {
	return NewMessage(RoleSystem, content)
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// IsGreeting reports whether the message is the synthetic welcome banner.
func (m *Message) IsGreeting() bool {
	return m.Role == RoleAssistant && strings.Contains(m.Content, GreetingMarker)
}

// IsEmpty returns true if the message has no content.
func (m *Message) IsEmpty() bool {
	return len(m.Content) == 0
}

// Preview returns a truncated preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m *Message) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if len(runes) <= maxLen {
		return m.Content
	}
	return string(runes[:maxLen-3]) + "..."
}

// Turn projects the message to its context-window form.
func (m *Message) Turn() TurnMessage {
	return TurnMessage{Role: m.Role, Content: m.Content}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateID creates a unique message ID.
func generateID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "msg_" + hex.EncodeToString(bytes)
}
