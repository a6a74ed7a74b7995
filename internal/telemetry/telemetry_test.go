// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), DatabaseFile))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAddAndSummary(t *testing.T) {
	store := openTestStore(t)

	store.Add(Record{Provider: "openai", Model: "gpt-3.5-turbo", PromptTokens: 10, CompletionTokens: 5, Latency: 120 * time.Millisecond})
	store.Add(Record{Provider: "openai", Model: "gpt-3.5-turbo", PromptTokens: 20, CompletionTokens: 10, Latency: 80 * time.Millisecond})
	store.Add(Record{Provider: "local", Model: "local-mock-v1", Simulated: true, Latency: 700 * time.Millisecond})
	store.Add(Record{Provider: "claude", Failed: true})

	summary, err := store.Summary()
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if len(summary) != 3 {
		t.Fatalf("summary providers = %d, want 3", len(summary))
	}

	// Ordered by request count; openai first with 2.
	if summary[0].Provider != "openai" || summary[0].Requests != 2 {
		t.Errorf("first entry = %+v", summary[0])
	}
	if summary[0].TotalTokens != 45 {
		t.Errorf("openai tokens = %d, want 45", summary[0].TotalTokens)
	}
	if summary[0].AvgLatencyMs != 100 {
		t.Errorf("openai avg latency = %d, want 100", summary[0].AvgLatencyMs)
	}

	for _, st := range summary {
		switch st.Provider {
		case "local":
			if st.Simulated != 1 {
				t.Errorf("local simulated = %d, want 1", st.Simulated)
			}
		case "claude":
			if st.Failed != 1 {
				t.Errorf("claude failed = %d, want 1", st.Failed)
			}
		}
	}

	total, err := store.TotalRequests()
	if err != nil {
		t.Fatalf("TotalRequests: %v", err)
	}
	if total != 4 {
		t.Errorf("total = %d, want 4", total)
	}
}

func TestSummaryEmpty(t *testing.T) {
	store := openTestStore(t)

	summary, err := store.Summary()
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if len(summary) != 0 {
		t.Errorf("summary = %v, want empty", summary)
	}
}

func TestReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DatabaseFile)

	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	store.Add(Record{Provider: "openai"})
	store.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	total, err := reopened.TotalRequests()
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 {
		t.Errorf("total after reopen = %d, want 1", total)
	}
}
