// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package telemetry provides a SQLite-backed request log for the gateway.
//
// This package records one row per handled chat request (provider, model,
// token counts, simulated flag, latency) and aggregates them for the
// /api/stats endpoint.
//
// # Key Types
//
//   - Store: SQLite-backed log with Add and Summary
//   - Record: Single request event
//   - ProviderStats: Per-provider aggregate
//
// # Usage
//
//	stats, err := telemetry.Open(filepath.Join(stateDir, telemetry.DatabaseFile))
//	defer stats.Close()
//	stats.Add(telemetry.Record{Provider: "openai", TotalTokens: 20})
//
// Recording is best effort. A failed insert is logged and dropped; request
// handling never blocks on telemetry.
//
// # Privacy
//
// Message content is never stored, only counts, latencies, and flags.
package telemetry
