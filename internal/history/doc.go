// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history provides bounded conversation persistence for aichat.
//
// This package keeps an in-memory ordered message log backed by a single
// JSON file, truncated to the most recent maxHistoryLength messages on
// every append.
//
// # Key Types
//
//   - Store: Message log with load, append, and projection operations
//
// # Usage
//
// Create a store and restore the previous session:
//
//	store := history.NewStore(stateDir, history.DefaultMaxHistory)
//	restored := store.Load()
//
// Append and project:
//
//	store.Append(model.NewUserMessage("hola"))
//	recent := store.Recent(5)
//
// # Durability
//
// Writes are atomic (write to temp file, rename). If a write fails the
// store logs the failure once and degrades to memory-only for the rest of
// the session; a missing, corrupt, or version-mismatched file on load
// yields a fresh session, never an error.
//
// # Storage Location
//
// History is stored as chat-history.json in the aichat state directory.
package history
