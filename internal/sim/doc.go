// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sim provides the local simulation engine for offline responses.
//
// The engine classifies the latest user message against an ordered keyword
// table (first match wins) and answers with a canned Spanish response from
// the matched category, after a short synthetic latency.
//
// # Key Types
//
//   - Engine: Classifier plus response picker with injectable rand and latency
//
// # Usage
//
//	engine := sim.NewEngine()
//	resp, err := engine.Respond(ctx, req)
//
// Deterministic variants for tests:
//
//	engine := sim.NewEngine().WithSeed(7).WithLatency(0, 0)
//
// Responses are tagged Simulated=true with model local-mock-v1. The engine
// honors context cancellation during the latency wait.
package sim
