// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// =============================================================================
// RENDERER INTERFACE
// =============================================================================

// Renderer displays assistant output. The controller drives it: SetBusy
// around the waiting period, RevealIncrementally for the response text.
type Renderer interface {
	// RevealIncrementally displays text progressively and returns when the
	// full text is visible (or the context is cancelled).
	RevealIncrementally(ctx context.Context, text string) error

	// SetBusy toggles the waiting indicator.
	SetBusy(busy bool)
}

// NopRenderer discards all rendering. Used headless and in tests.
type NopRenderer struct{}

func (NopRenderer) RevealIncrementally(ctx context.Context, text string) error { return ctx.Err() }
func (NopRenderer) SetBusy(bool)                                               {}

// =============================================================================
// TYPEWRITER RENDERER
// =============================================================================

// DefaultTypingInterval is the per-character reveal delay.
const DefaultTypingInterval = 30 * time.Millisecond

// TypewriterRenderer reveals text one rune at a time to a writer.
type TypewriterRenderer struct {
	w        io.Writer
	interval time.Duration

	mu        sync.Mutex
	rendering bool
}

// NewTypewriterRenderer creates a renderer writing to w. interval <= 0
// selects the default typing speed.
func NewTypewriterRenderer(w io.Writer, interval time.Duration) *TypewriterRenderer {
	if interval <= 0 {
		interval = DefaultTypingInterval
	}
	return &TypewriterRenderer{w: w, interval: interval}
}

// Rendering reports whether a reveal is in progress.
func (t *TypewriterRenderer) Rendering() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rendering
}

func (t *TypewriterRenderer) setRendering(v bool) {
	t.mu.Lock()
	t.rendering = v
	t.mu.Unlock()
}

// RevealIncrementally writes text rune by rune with the typing delay.
// Cancellation flushes the remaining text so the transcript is never left
// half-printed.
func (t *TypewriterRenderer) RevealIncrementally(ctx context.Context, text string) error {
	t.setRendering(true)
	defer t.setRendering(false)

	runes := []rune(text)
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for i, r := range runes {
		fmt.Fprintf(t.w, "%c", r)
		if i == len(runes)-1 {
			break
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			fmt.Fprint(t.w, string(runes[i+1:]))
			fmt.Fprintln(t.w)
			return ctx.Err()
		}
	}
	fmt.Fprintln(t.w)
	return nil
}

// SetBusy shows or clears the typing indicator line.
func (t *TypewriterRenderer) SetBusy(busy bool) {
	if busy {
		fmt.Fprint(t.w, "...\r")
	} else {
		fmt.Fprint(t.w, "\x1b[2K\r")
	}
}
