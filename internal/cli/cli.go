// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for the Campus Royal assistant.
package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdChat Command = iota
	CmdServe
	CmdExport
	CmdClear
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// ConfigPath is an explicit config file path (--config). Empty selects
	// the default location.
	ConfigPath string

	// Port overrides the server port (--port, serve only). 0 keeps the
	// configured value.
	Port int

	// Output is the export destination file (--output, export only).
	Output string

	// Confirm acknowledges a destructive command (--confirm, clear only).
	Confirm bool

	// Quiet suppresses banners and decoration.
	Quiet bool

	// Raw holds the remaining arguments after the command name.
	Raw []string
}

const usageText = `aichat - Campus Royal educational chat assistant

A chat client for the Campus Royal learning platform with a multi-provider
gateway server. Works without any API credentials: unconfigured or failing
providers fall back to a local simulated assistant.

Usage:
  aichat                     Interactive chat (default)
  aichat chat                Interactive chat
  aichat serve               Run the provider gateway server
  aichat export              Export the session transcript to JSON
  aichat clear --confirm     Delete the persisted session history
  aichat version             Show version information
  aichat help                Show this help

Flags:
  --config PATH              Use an explicit config file
  --port N                   Override the server port (serve)
  --output FILE              Export destination file (export)
  --confirm                  Required for clear
  -q, --quiet                Minimal output

Interactive commands (during chat):
  /provider [id]             Show or switch the active provider
  /history                   Show the conversation so far
  /stats                     Show session status
  /export [file]             Export the transcript
  /clear                     Clear the conversation
  /help                      Show available commands
  /quit                      Exit chat

Environment:
  OPENAI_API_KEY, CLAUDE_API_KEY, GEMINI_API_KEY
                             Provider credentials (override the config file)
  AICHAT_PORT                Server port override
  AICHAT_STATE_DIR           History and telemetry directory
`

// Parse turns raw command-line arguments (without the program name) into a
// command and its parsed arguments.
func Parse(raw []string) (Command, Args) {
	args := Args{}
	cmd := CmdChat

	rest := raw
	if len(rest) > 0 && !strings.HasPrefix(rest[0], "-") {
		switch strings.ToLower(rest[0]) {
		case "chat":
			cmd = CmdChat
		case "serve", "server":
			cmd = CmdServe
		case "export":
			cmd = CmdExport
		case "clear":
			cmd = CmdClear
		case "version", "-v", "--version":
			cmd = CmdVersion
		case "help", "-h", "--help":
			cmd = CmdHelp
		default:
			cmd = CmdHelp
		}
		rest = rest[1:]
	}

	i := 0
	for i < len(rest) {
		arg := rest[i]
		value := ""
		hasValue := false
		if strings.Contains(arg, "=") {
			parts := strings.SplitN(arg, "=", 2)
			arg, value = parts[0], parts[1]
			hasValue = true
		}
		next := func() string {
			if hasValue {
				return value
			}
			if i+1 < len(rest) {
				i++
				return rest[i]
			}
			return ""
		}

		switch arg {
		case "--config", "-c":
			args.ConfigPath = next()
		case "--port", "-p":
			if n, err := strconv.Atoi(next()); err == nil {
				args.Port = n
			}
		case "--output", "-o":
			args.Output = next()
		case "--confirm":
			args.Confirm = true
		case "--quiet", "-q":
			args.Quiet = true
		case "--version":
			cmd = CmdVersion
		case "--help", "-h":
			cmd = CmdHelp
		default:
			args.Raw = append(args.Raw, rest[i])
		}
		i++
	}

	return cmd, args
}

// HandleVersion prints version information.
func HandleVersion(args Args) {
	fmt.Printf("aichat %s\n", Version)
	if !args.Quiet {
		fmt.Printf("  commit: %s\n", GitCommit)
		fmt.Printf("  built:  %s\n", BuildDate)
	}
}

// HandleHelp prints the usage text.
func HandleHelp() {
	fmt.Print(usageText)
}
