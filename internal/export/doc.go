// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export builds JSON transcript documents from the history store.
//
// # Usage
//
//	doc := export.Build(store)
//	err := doc.WriteFile(export.DefaultFilename())
//
// The document carries the export date, session ID, message count, and the
// full transcript in original send order, pretty-printed.
package export
