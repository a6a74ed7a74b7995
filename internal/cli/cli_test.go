// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import "testing"

func TestParseCommands(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		want Command
	}{
		{"no args defaults to chat", nil, CmdChat},
		{"chat", []string{"chat"}, CmdChat},
		{"serve", []string{"serve"}, CmdServe},
		{"server alias", []string{"server"}, CmdServe},
		{"export", []string{"export"}, CmdExport},
		{"clear", []string{"clear"}, CmdClear},
		{"version", []string{"version"}, CmdVersion},
		{"help", []string{"help"}, CmdHelp},
		{"unknown falls back to help", []string{"frobnicate"}, CmdHelp},
		{"version flag", []string{"--version"}, CmdVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, _ := Parse(tt.raw)
			if cmd != tt.want {
				t.Errorf("Parse(%v) = %v, want %v", tt.raw, cmd, tt.want)
			}
		})
	}
}

func TestParseFlags(t *testing.T) {
	cmd, args := Parse([]string{"serve", "--config", "/tmp/c.toml", "--port", "8080", "-q"})
	if cmd != CmdServe {
		t.Fatalf("command = %v", cmd)
	}
	if args.ConfigPath != "/tmp/c.toml" {
		t.Errorf("ConfigPath = %q", args.ConfigPath)
	}
	if args.Port != 8080 {
		t.Errorf("Port = %d", args.Port)
	}
	if !args.Quiet {
		t.Error("Quiet not set")
	}
}

func TestParseEqualsForm(t *testing.T) {
	_, args := Parse([]string{"export", "--output=chat.json"})
	if args.Output != "chat.json" {
		t.Errorf("Output = %q", args.Output)
	}
}

func TestParseConfirm(t *testing.T) {
	_, args := Parse([]string{"clear", "--confirm"})
	if !args.Confirm {
		t.Error("Confirm not set")
	}
}

func TestParseBadPortIgnored(t *testing.T) {
	_, args := Parse([]string{"serve", "--port", "nope"})
	if args.Port != 0 {
		t.Errorf("Port = %d, want 0", args.Port)
	}
}
