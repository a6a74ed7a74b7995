// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session drives a chat conversation end to end.
//
// This package owns the request builder, the session state machine, and
// the incremental renderer that reveals assistant responses.
//
// # Key Types
//
//   - Controller: State machine enforcing at most one request in flight
//   - Renderer: Interface for revealing assistant text (typewriter or no-op)
//   - TypewriterRenderer: Rune-by-rune reveal at a fixed interval
//   - State: StateIdle or StateAwaiting
//
// # Usage
//
//	ctrl := session.NewController(store, client, registry, renderer, opts, 5)
//	ctrl.Greet()
//	ok := ctrl.Send(ctx, "¿Cuánto cuesta el curso?")
//
// Send is synchronous: it appends the user message, calls the gateway,
// reveals the reply through the renderer, and only then returns to
// StateIdle. Empty input, a request already in flight, or a busy renderer
// make Send a no-op returning false.
//
// On unexpected gateway failure the controller appends a fixed Spanish
// apology message flagged as an error, without the typewriter.
package session
