// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat command handler.
//
// Handles the "aichat chat" command: a line-oriented REPL over the session
// controller. Responses are revealed with the typewriter renderer; provider
// failures fall back to the local simulated assistant, so the conversation
// always continues.
//
// Interactive commands (during chat):
//   /provider [id]      Show or switch the active provider
//   /history            Show the conversation so far
//   /stats              Show session status
//   /export [file]      Export the transcript
//   /clear              Clear the conversation
//   /help               Show available commands
//   /quit               Exit chat
//   Ctrl+C              Cancel the current response
//   Ctrl+D              Exit chat
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/peterh/liner"

	"github.com/campusroyal/aichat/internal/config"
	"github.com/campusroyal/aichat/internal/export"
	"github.com/campusroyal/aichat/internal/gateway"
	"github.com/campusroyal/aichat/internal/history"
	"github.com/campusroyal/aichat/internal/model"
	"github.com/campusroyal/aichat/internal/provider"
	"github.com/campusroyal/aichat/internal/session"
	"github.com/campusroyal/aichat/internal/sim"
	"github.com/campusroyal/aichat/internal/util"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// inputHistoryFile is the liner history file name under the config dir.
const inputHistoryFile = "input_history"

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI with input history support.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	c := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, inputHistoryFile),
	}
	c.loadHistory()
	return c
}

func (c *ChatCLI) loadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt. Non-empty lines are
// added to the navigation history.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves input history and releases the terminal.
func (c *ChatCLI) Close() {
	if err := config.EnsureConfigDir(); err == nil {
		if f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600); err == nil {
			c.line.WriteHistory(f)
			f.Close()
		}
	}
	c.line.Close()
}

// =============================================================================
// SESSION WIRING
// =============================================================================

// chatSession bundles everything the REPL loop needs.
type chatSession struct {
	cfg        *config.Config
	store      *history.Store
	registry   provider.Registry
	controller *session.Controller
	input      *ChatCLI
	startTime  time.Time

	// cancel aborts the in-flight send when Ctrl+C arrives mid-response.
	mu     sync.Mutex
	cancel context.CancelFunc
}

func (s *chatSession) setCancel(cancel context.CancelFunc) {
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()
}

func (s *chatSession) cancelInFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel == nil {
		return false
	}
	s.cancel()
	s.cancel = nil
	return true
}

// newChatSession loads config and wires the full client stack.
func newChatSession(args Args) (*chatSession, bool, error) {
	cfg, err := config.Load(args.ConfigPath)
	if err != nil {
		return nil, false, err
	}

	stateDir, err := cfg.StateDir()
	if err != nil {
		return nil, false, err
	}

	store := history.NewStore(stateDir, cfg.Chat.MaxHistoryLength)
	restored := store.Load()
	// A restored session keeps the provider it was using; a fresh one
	// starts on the configured default.
	if !restored {
		store.SetActiveProvider(cfg.ActiveProvider)
	}

	registry := provider.FromConfig(cfg)
	engine := sim.NewEngine()
	client := gateway.NewClient(registry, engine, cfg.Chat.ServerURL)
	client.OnConfigNotice = func(providerID, message string) {
		fmt.Fprintf(os.Stderr, "\n%s %s: %s\n",
			warningStyle.Render("[Configuración]"), providerID, message)
	}

	renderer := session.NewTypewriterRenderer(os.Stdout,
		time.Duration(cfg.Chat.TypingSpeedMs)*time.Millisecond)
	opts := model.Options{
		Temperature: cfg.Chat.Temperature,
		MaxTokens:   cfg.Chat.MaxTokens,
	}
	controller := session.NewController(store, client, registry, renderer, opts, cfg.Chat.ContextWindow)

	return &chatSession{
		cfg:        cfg,
		store:      store,
		registry:   registry,
		controller: controller,
		input:      NewChatCLI(),
		startTime:  time.Now(),
	}, restored, nil
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChat handles the "chat" command.
func HandleChat(args Args) error {
	sess, restored, err := newChatSession(args)
	if err != nil {
		return err
	}
	defer sess.input.Close()

	if !args.Quiet {
		printWelcome(sess)
	}
	if sess.store.MemoryOnly() {
		fmt.Fprintln(os.Stderr, warningStyle.Render("[Aviso] La conversación no se guardará en disco."))
	}

	if restored && sess.store.Len() > 0 {
		replayTranscript(sess.store.Snapshot())
	} else if greeting := sess.controller.Greet(); greeting != nil {
		fmt.Printf("%s %s\n\n", assistantStyle.Render("Asistente:"), greeting.Content)
	}

	// First Ctrl+C during a response cancels it; at the prompt liner
	// reports it as ErrPromptAborted instead.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		for range sigChan {
			if sess.cancelInFlight() {
				fmt.Fprintln(os.Stderr, "\n"+warningStyle.Render("[Cancelado]"))
			}
		}
	}()

	for {
		input, err := sess.input.ReadInput(promptStyle.Render("tú> "))
		if err != nil {
			// Ctrl+C at the prompt, Ctrl+D, or a closed terminal all end
			// the session.
			fmt.Println()
			printGoodbye(sess)
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			keepGoing, err := handleSlashCommand(input, sess)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
			}
			if !keepGoing {
				printGoodbye(sess)
				return nil
			}
			continue
		}
		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			printGoodbye(sess)
			return nil
		}

		processMessage(sess, input)
	}
}

// processMessage runs one exchange through the controller.
func processMessage(sess *chatSession, input string) {
	ctx, cancel := context.WithCancel(context.Background())
	sess.setCancel(cancel)
	defer func() {
		sess.setCancel(nil)
		cancel()
	}()

	// The label goes on its own line: the busy indicator clears the line
	// it occupies before the reveal starts.
	fmt.Println(assistantStyle.Render("Asistente:"))
	if !sess.controller.Send(ctx, input) {
		fmt.Println()
		return
	}

	// The apology path appends without revealing; show it here so the
	// transcript on screen matches the stored one.
	if msgs := sess.store.Snapshot(); len(msgs) > 0 {
		if last := msgs[len(msgs)-1]; last.Error {
			fmt.Println(last.Content)
		}
	}
	fmt.Println()
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleSlashCommand processes a slash command. A false return means exit.
func handleSlashCommand(cmd string, sess *chatSession) (bool, error) {
	parts := strings.Fields(cmd)
	command := strings.ToLower(parts[0])
	rest := parts[1:]

	switch command {
	case "/help", "/h", "/?", "/":
		printChatHelp()
		return true, nil

	case "/provider", "/p", "/api":
		return true, handleProviderCommand(sess, rest)

	case "/history":
		printTranscript(sess.store.Snapshot())
		return true, nil

	case "/stats", "/status", "/s":
		printSessionStats(sess)
		return true, nil

	case "/export", "/e":
		path := ""
		if len(rest) > 0 {
			path = rest[0]
		}
		return true, exportTranscript(sess.store, path)

	case "/clear", "/c":
		sess.store.Clear()
		fmt.Println(commandStyle.Render("[Conversación borrada]"))
		if greeting := sess.controller.Greet(); greeting != nil {
			fmt.Printf("%s %s\n", assistantStyle.Render("Asistente:"), greeting.Content)
		}
		return true, nil

	case "/quit", "/q", "/exit":
		return false, nil

	default:
		return true, fmt.Errorf("comando desconocido: %s (usa /help)", command)
	}
}

// handleProviderCommand shows or switches the active provider.
func handleProviderCommand(sess *chatSession, rest []string) error {
	if len(rest) == 0 {
		active := sess.controller.ActiveProvider()
		fmt.Println(headerStyle.Render("Proveedores"))
		for _, p := range sess.registry.List() {
			marker := "  "
			if p.ID == active {
				marker = commandStyle.Render("> ")
			}
			state := commandStyle.Render("activo")
			if !p.Enabled {
				state = warningStyle.Render("deshabilitado")
			}
			fmt.Printf("%s%-8s %s (%s) %s\n", marker, p.ID, infoStyle.Render(p.Name), p.Model, state)
		}
		return nil
	}

	id := strings.ToLower(rest[0])
	notice := sess.controller.SwitchProvider(id)
	if notice == nil {
		return fmt.Errorf("proveedor no disponible: %s", id)
	}
	fmt.Printf("%s %s\n", assistantStyle.Render("Asistente:"), notice.Content)
	return nil
}

// exportTranscript writes the transcript to path (or the default file name).
func exportTranscript(store *history.Store, path string) error {
	if path == "" {
		path = export.DefaultFilename()
	}
	if err := export.Build(store).WriteFile(path); err != nil {
		return err
	}
	fmt.Printf("%s %s\n", commandStyle.Render("[Exportado]"), path)
	return nil
}

// =============================================================================
// DISPLAY
// =============================================================================

func printWelcome(sess *chatSession) {
	active := sess.controller.ActiveProvider()
	name := active
	if p, ok := sess.registry.Resolve(active); ok {
		name = p.Name
	}

	fmt.Println()
	fmt.Println(welcomeStyle.Render("Campus Royal · Asistente Educativo"))
	fmt.Println(separator(34))
	fmt.Printf("%s %s\n", infoStyle.Render("Proveedor:"), commandStyle.Render(name))
	fmt.Printf("%s %s\n", infoStyle.Render("Sesión:"), sess.store.SessionID())
	fmt.Println()
	fmt.Println(infoStyle.Render("Escribe tu mensaje y pulsa Enter. Comandos: /help, /quit"))
	fmt.Println()
}

func printChatHelp() {
	commands := []struct {
		cmd  string
		desc string
	}{
		{"/provider [id]", "Muestra o cambia el proveedor activo"},
		{"/history", "Muestra la conversación"},
		{"/stats", "Muestra el estado de la sesión"},
		{"/export [file]", "Exporta la conversación a JSON"},
		{"/clear", "Borra la conversación"},
		{"/help", "Muestra esta ayuda"},
		{"/quit", "Salir"},
	}

	fmt.Println()
	fmt.Println(headerStyle.Render("Comandos disponibles"))
	fmt.Println(separator(20))
	for _, c := range commands {
		fmt.Printf("  %s  %s\n",
			commandStyle.Render(fmt.Sprintf("%-15s", c.cmd)),
			infoStyle.Render(c.desc))
	}
	fmt.Println()
}

// replayTranscript prints a restored conversation, skipping the synthetic
// greeting so it only ever appears on a fresh session.
func replayTranscript(messages []model.Message) {
	for _, msg := range messages {
		if msg.IsGreeting() {
			continue
		}
		printTranscriptLine(msg, 0)
	}
	fmt.Println()
}

func printTranscript(messages []model.Message) {
	if len(messages) == 0 {
		fmt.Println(infoStyle.Render("[Sin mensajes]"))
		return
	}
	fmt.Println()
	fmt.Println(headerStyle.Render("Conversación"))
	fmt.Println(separator(25))
	for i, msg := range messages {
		printTranscriptLine(msg, i+1)
	}
	fmt.Println()
}

func printTranscriptLine(msg model.Message, index int) {
	var label string
	switch msg.Role {
	case model.RoleUser:
		label = userStyle.Render("Tú")
	case model.RoleAssistant:
		label = assistantStyle.Render("Asistente")
	default:
		label = infoStyle.Render(msg.Role.DisplayName())
	}

	content := strings.ReplaceAll(util.TruncateString(msg.Content, 100), "\n", " ")
	if index > 0 {
		fmt.Printf("  %d. %s: %s\n", index, label, content)
	} else {
		fmt.Printf("%s: %s\n", label, content)
	}
}

func printSessionStats(sess *chatSession) {
	active := sess.controller.ActiveProvider()
	name := active
	if p, ok := sess.registry.Resolve(active); ok {
		name = p.Name
	}
	persistence := commandStyle.Render("en disco")
	if sess.store.MemoryOnly() {
		persistence = warningStyle.Render("solo en memoria")
	}

	fmt.Println()
	fmt.Println(headerStyle.Render("Estado de la sesión"))
	fmt.Println(separator(20))
	fmt.Printf("  %s %s\n", infoStyle.Render("Sesión:"), sess.store.SessionID())
	fmt.Printf("  %s %s\n", infoStyle.Render("Proveedor:"), commandStyle.Render(name))
	fmt.Printf("  %s %d mensajes\n", infoStyle.Render("Historial:"), sess.store.Len())
	fmt.Printf("  %s %s\n", infoStyle.Render("Persistencia:"), persistence)
	fmt.Printf("  %s %s\n", infoStyle.Render("Duración:"), time.Since(sess.startTime).Round(time.Second))
	fmt.Println()
}

func printGoodbye(sess *chatSession) {
	if sess.store.Len() > 0 && !sess.store.MemoryOnly() {
		fmt.Println(infoStyle.Render("Conversación guardada. ¡Hasta pronto!"))
		return
	}
	fmt.Println(infoStyle.Render("¡Hasta pronto!"))
}
