// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history persists the chat transcript for a single local session.
//
// The transcript is an ordered in-memory log mirrored to a versioned JSON
// file. Persistence is best-effort: a store that cannot write its file keeps
// working in memory for the rest of the session.
package history

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/campusroyal/aichat/internal/model"
	"github.com/campusroyal/aichat/internal/util"
)

// SchemaVersion is the persisted blob format version. A blob with any other
// version is discarded and the session starts fresh.
const SchemaVersion = "1.0"

// StorageFile is the transcript file name inside the state directory.
const StorageFile = "chat-history.json"

// DefaultMaxHistory bounds the transcript when no limit is configured.
const DefaultMaxHistory = 50

// =============================================================================
// PERSISTED ENVELOPE
// =============================================================================

// envelope is the on-disk shape of a session.
type envelope struct {
	Version     string          `json:"version"`
	SessionID   string          `json:"sessionId"`
	LastUpdated time.Time       `json:"lastUpdated"`
	ActiveAPI   string          `json:"activeAPI"`
	Messages    []model.Message `json:"messages"`
}

// =============================================================================
// STORE
// =============================================================================

// Store holds the bounded transcript for one session.
type Store struct {
	mu sync.Mutex

	dir    string
	maxLen int

	sessionID      string
	activeProvider string
	messages       []model.Message

	// memoryOnly is set after the first persistence failure; further writes
	// are skipped instead of failing every append.
	memoryOnly bool
}

// NewStore creates a store rooted at dir with a fresh session ID. maxLen <= 0
// selects DefaultMaxHistory.
func NewStore(dir string, maxLen int) *Store {
	if maxLen <= 0 {
		maxLen = DefaultMaxHistory
	}
	return &Store{
		dir:            dir,
		maxLen:         maxLen,
		sessionID:      newSessionID(),
		activeProvider: "local",
	}
}

// newSessionID creates a unique session identifier.
func newSessionID() string {
	return "session_" + uuid.NewString()
}

// path returns the transcript file location.
func (s *Store) path() string {
	return filepath.Join(s.dir, StorageFile)
}

// =============================================================================
// LOAD / PERSIST
// =============================================================================

// Load restores a previously persisted session. It returns true when a
// session was restored. A missing file, unreadable JSON, or a schema version
// mismatch leaves the store fresh and returns false; restoring never fails.
func (s *Store) Load() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path())
	if err != nil {
		return false
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Printf("HISTORY_LOAD_SKIPPED | reason=bad_json error=%v", err)
		return false
	}

	if env.Version != SchemaVersion {
		log.Printf("HISTORY_LOAD_SKIPPED | reason=version_mismatch got=%s want=%s", env.Version, SchemaVersion)
		return false
	}

	if env.SessionID != "" {
		s.sessionID = env.SessionID
	}
	if env.ActiveAPI != "" {
		s.activeProvider = env.ActiveAPI
	}
	s.messages = env.Messages
	s.truncateLocked()
	return true
}

// persistLocked writes the envelope to disk. Callers must hold s.mu.
// Failures are logged and flip the store to memory-only mode.
func (s *Store) persistLocked() {
	if s.memoryOnly || s.dir == "" {
		return
	}

	env := envelope{
		Version:     SchemaVersion,
		SessionID:   s.sessionID,
		LastUpdated: time.Now(),
		ActiveAPI:   s.activeProvider,
		Messages:    s.messages,
	}

	data, err := json.Marshal(env)
	if err != nil {
		log.Printf("HISTORY_PERSIST_FAILED | reason=marshal error=%v", err)
		s.memoryOnly = true
		return
	}

	if err := util.AtomicWriteFile(s.path(), data, 0o600); err != nil {
		log.Printf("HISTORY_PERSIST_FAILED | path=%s error=%v", s.path(), err)
		s.memoryOnly = true
	}
}

// truncateLocked drops the oldest messages beyond the bound.
func (s *Store) truncateLocked() {
	if len(s.messages) > s.maxLen {
		s.messages = append([]model.Message(nil), s.messages[len(s.messages)-s.maxLen:]...)
	}
}

// =============================================================================
// TRANSCRIPT OPERATIONS
// =============================================================================

// Append adds a message to the transcript, truncates to the bound, and
// persists. Persistence failures never propagate to the caller.
func (s *Store) Append(msg *model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append(s.messages, *msg)
	s.truncateLocked()
	s.persistLocked()
}

// Recent returns the last n messages projected to their context-window form.
func (s *Store) Recent(n int) []model.TurnMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := len(s.messages) - n
	if start < 0 {
		start = 0
	}

	out := make([]model.TurnMessage, 0, len(s.messages)-start)
	for _, m := range s.messages[start:] {
		out = append(out, m.Turn())
	}
	return out
}

// Snapshot returns a copy of the full transcript in send order.
func (s *Store) Snapshot() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Message(nil), s.messages...)
}

// Len returns the number of messages in the transcript.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// Clear empties the transcript and removes the persisted file. The session
// ID is kept; clearing is not a new session.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = nil
	if s.dir != "" {
		if err := os.Remove(s.path()); err != nil && !os.IsNotExist(err) {
			log.Printf("HISTORY_CLEAR_FAILED | path=%s error=%v", s.path(), err)
		}
	}
}

// =============================================================================
// SESSION METADATA
// =============================================================================

// SessionID returns the current session identifier.
func (s *Store) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

// ActiveProvider returns the provider the session last selected.
func (s *Store) ActiveProvider() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeProvider
}

// SetActiveProvider records the selected provider and persists it with the
// transcript.
func (s *Store) SetActiveProvider(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeProvider = id
	s.persistLocked()
}

// MemoryOnly reports whether persistence has been disabled after a failure.
func (s *Store) MemoryOnly() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.memoryOnly
}

// Describe returns a short human-readable summary of the session.
func (s *Store) Describe() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("%s (%d messages, provider %s)", s.sessionID, len(s.messages), s.activeProvider)
}
