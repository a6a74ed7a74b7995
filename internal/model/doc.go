// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat messages and requests.
//
// This package defines the core domain types used throughout the application
// for representing conversation turns, provider-agnostic chat requests, and
// normalized responses.
//
// # Key Types
//
//   - Message: Single stored message with role, content, timestamp, and flags
//   - TurnMessage: Minimal {role, content} projection sent over the wire
//   - ChatRequest: Provider-agnostic request with session, history, and options
//   - ChatResponse: Normalized result with content, model, and usage
//   - Role: Message role enumeration (system, user, assistant)
//
// # Usage
//
// Create messages:
//
//	msg := model.NewUserMessage("¿Qué cursos ofrecen?")
//	reply := model.NewAssistantMessage("Ofrecemos cursos de...", "gpt-3.5-turbo")
//
// Project a message into wire form:
//
//	turn := msg.Turn()
//
// Assistant messages carrying the fixed greeting fragment are synthetic
// welcome banners; IsGreeting identifies them so replay and export can skip
// or keep them as needed.
package model
