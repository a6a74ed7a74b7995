// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the aichat command line interface.
//
// This package parses arguments and dispatches the subcommands: the
// interactive chat REPL, the gateway server, transcript export, and
// history clearing.
//
// # Commands
//
//   - chat    - Interactive terminal chat session (default)
//   - serve   - Run the HTTP gateway server
//   - export  - Export the persisted session to JSON
//   - clear   - Delete persisted history (requires --confirm)
//   - version - Print version information
//
// # Usage
//
//	cmd, args := cli.Parse(os.Args[1:])
//	switch cmd {
//	case cli.CmdChat:
//	    err = cli.HandleChat(args)
//	}
//
// The chat REPL reads input with liner, styles output with lipgloss, and
// supports slash commands (/provider, /history, /stats, /export, /clear,
// /quit).
package cli
