// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/campusroyal/aichat/internal/model"
)

func TestAppendAndSnapshot(t *testing.T) {
	store := NewStore(t.TempDir(), 50)

	store.Append(model.NewUserMessage("hola"))
	store.Append(model.NewAssistantMessage("¿en qué puedo ayudarte?", "local-mock"))

	snap := store.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("snapshot length = %d, want 2", len(snap))
	}
	if snap[0].Role != model.RoleUser || snap[1].Role != model.RoleAssistant {
		t.Error("messages out of order")
	}
}

func TestTruncationKeepsMostRecent(t *testing.T) {
	store := NewStore(t.TempDir(), 5)

	for i := 0; i < 20; i++ {
		store.Append(model.NewUserMessage(fmt.Sprintf("mensaje %d", i)))
		if store.Len() > 5 {
			t.Fatalf("length %d exceeds bound after append %d", store.Len(), i)
		}
	}

	snap := store.Snapshot()
	if len(snap) != 5 {
		t.Fatalf("length = %d, want 5", len(snap))
	}
	// Oldest messages were dropped, most recent survive in order.
	if snap[0].Content != "mensaje 15" || snap[4].Content != "mensaje 19" {
		t.Errorf("unexpected window: first=%q last=%q", snap[0].Content, snap[4].Content)
	}
}

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()

	store := NewStore(dir, 50)
	store.Append(model.NewUserMessage("hola"))
	store.Append(model.NewAssistantMessage("buenas", "gpt-3.5-turbo"))
	store.SetActiveProvider("openai")
	sessionID := store.SessionID()

	restored := NewStore(dir, 50)
	if !restored.Load() {
		t.Fatal("Load() = false, want restored session")
	}
	if restored.SessionID() != sessionID {
		t.Errorf("session ID = %q, want %q", restored.SessionID(), sessionID)
	}
	if restored.ActiveProvider() != "openai" {
		t.Errorf("active provider = %q, want openai", restored.ActiveProvider())
	}
	snap := restored.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("restored %d messages, want 2", len(snap))
	}
	if snap[1].Model != "gpt-3.5-turbo" {
		t.Errorf("model = %q, want gpt-3.5-turbo", snap[1].Model)
	}
}

func TestLoadVersionMismatch(t *testing.T) {
	dir := t.TempDir()

	blob := map[string]any{
		"version":   "2.0",
		"sessionId": "session_old",
		"activeAPI": "openai",
		"messages":  []map[string]string{{"role": "user", "content": "hola"}},
	}
	data, _ := json.Marshal(blob)
	if err := os.WriteFile(filepath.Join(dir, StorageFile), data, 0o600); err != nil {
		t.Fatal(err)
	}

	store := NewStore(dir, 50)
	if store.Load() {
		t.Fatal("Load() = true for version mismatch, want fresh session")
	}
	if store.Len() != 0 {
		t.Errorf("length = %d, want 0", store.Len())
	}
	if store.SessionID() == "session_old" {
		t.Error("stale session ID adopted")
	}
}

func TestLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, StorageFile), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	store := NewStore(dir, 50)
	if store.Load() {
		t.Fatal("Load() = true for corrupt file")
	}

	// The store still works after the failed load.
	store.Append(model.NewUserMessage("hola"))
	if store.Len() != 1 {
		t.Errorf("length = %d, want 1", store.Len())
	}
}

func TestLoadMissingFile(t *testing.T) {
	store := NewStore(t.TempDir(), 50)
	if store.Load() {
		t.Fatal("Load() = true with no file present")
	}
	if !strings.HasPrefix(store.SessionID(), "session_") {
		t.Errorf("session ID %q missing prefix", store.SessionID())
	}
}

func TestRecentProjection(t *testing.T) {
	store := NewStore(t.TempDir(), 50)
	for i := 0; i < 8; i++ {
		store.Append(model.NewUserMessage(fmt.Sprintf("m%d", i)))
	}

	recent := store.Recent(5)
	if len(recent) != 5 {
		t.Fatalf("recent length = %d, want 5", len(recent))
	}
	if recent[0].Content != "m3" || recent[4].Content != "m7" {
		t.Errorf("unexpected window: first=%q last=%q", recent[0].Content, recent[4].Content)
	}

	// Asking for more than exists returns everything.
	all := store.Recent(100)
	if len(all) != 8 {
		t.Errorf("recent(100) length = %d, want 8", len(all))
	}
}

func TestClearRemovesFile(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, 50)
	store.Append(model.NewUserMessage("hola"))

	path := filepath.Join(dir, StorageFile)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected persisted file: %v", err)
	}

	store.Clear()
	if store.Len() != 0 {
		t.Errorf("length after clear = %d, want 0", store.Len())
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("persisted file should be removed")
	}
}

func TestPersistFailureDegradesToMemory(t *testing.T) {
	// Point the store at a path whose parent is a regular file so every
	// write fails.
	dir := t.TempDir()
	bogus := filepath.Join(dir, "file")
	if err := os.WriteFile(bogus, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	store := NewStore(filepath.Join(bogus, "sub"), 50)
	store.Append(model.NewUserMessage("hola"))

	if !store.MemoryOnly() {
		t.Error("store should degrade to memory-only after write failure")
	}

	// Appends keep working in memory.
	store.Append(model.NewUserMessage("sigo aquí"))
	if store.Len() != 2 {
		t.Errorf("length = %d, want 2", store.Len())
	}
}
