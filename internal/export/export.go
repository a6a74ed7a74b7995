// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export turns a session transcript into a portable JSON document.
package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/campusroyal/aichat/internal/history"
	"github.com/campusroyal/aichat/internal/model"
	"github.com/campusroyal/aichat/internal/util"
)

// =============================================================================
// DOCUMENT
// =============================================================================

// Document is the export format. Messages appear in original send order.
type Document struct {
	ExportDate    time.Time       `json:"exportDate"`
	SessionID     string          `json:"sessionId"`
	TotalMessages int             `json:"totalMessages"`
	Messages      []model.Message `json:"messages"`
}

// Build creates a Document from the store's current transcript.
func Build(store *history.Store) Document {
	messages := store.Snapshot()
	return Document{
		ExportDate:    time.Now(),
		SessionID:     store.SessionID(),
		TotalMessages: len(messages),
		Messages:      messages,
	}
}

// Marshal renders the document as indented JSON.
func (d Document) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export document: %w", err)
	}
	return data, nil
}

// WriteFile writes the document to path atomically.
func (d Document) WriteFile(path string) error {
	data, err := d.Marshal()
	if err != nil {
		return err
	}
	if err := util.AtomicWriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	return nil
}

// DefaultFilename returns the conventional export file name.
func DefaultFilename() string {
	return fmt.Sprintf("campus-royal-chat-%d.json", time.Now().UnixMilli())
}
