// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/campusroyal/aichat/internal/history"
	"github.com/campusroyal/aichat/internal/model"
	"github.com/campusroyal/aichat/internal/provider"
)

// Apology is appended when a send fails in a way the fallback chain could
// not absorb.
const Apology = "Lo siento, hubo un error al procesar tu mensaje. Por favor, intenta nuevamente."

// Greeting is the synthetic welcome banner for a fresh session. It contains
// model.GreetingMarker so replays can filter it.
const Greeting = "¡Hola! Soy tu asistente virtual de Campus Royal. ¿En qué puedo ayudarte hoy?"

// =============================================================================
// STATE MACHINE
// =============================================================================

// State is the controller's send state.
type State int

const (
	// StateIdle accepts new sends.
	StateIdle State = iota
	// StateAwaiting rejects sends: a request is in flight or its response
	// is still being revealed.
	StateAwaiting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaiting:
		return "awaiting_response"
	default:
		return "unknown"
	}
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Gateway abstracts the request path so the controller is testable without
// HTTP.
type Gateway interface {
	Send(ctx context.Context, req *model.ChatRequest) (*model.ChatResponse, error)
}

// Controller owns the send flow and the at-most-one-in-flight invariant.
// Send blocks through the reveal, so the awaiting state also covers the
// typewriter: concurrent sends are rejected, not queued.
type Controller struct {
	mu    sync.Mutex
	state State

	store    *history.Store
	gw       Gateway
	registry provider.Registry
	renderer Renderer

	opts          model.Options
	contextWindow int
}

// NewController wires a controller. window <= 0 selects the default context
// window.
func NewController(store *history.Store, gw Gateway, registry provider.Registry, renderer Renderer, opts model.Options, window int) *Controller {
	if window <= 0 {
		window = DefaultContextWindow
	}
	if renderer == nil {
		renderer = NopRenderer{}
	}
	return &Controller{
		store:         store,
		gw:            gw,
		registry:      registry,
		renderer:      renderer,
		opts:          opts,
		contextWindow: window,
	}
}

// State returns the current send state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ActiveProvider returns the session's selected provider ID.
func (c *Controller) ActiveProvider() string {
	return c.store.ActiveProvider()
}

// Greet appends the welcome banner to a fresh session and returns it.
// Restored sessions are not greeted again; nil is returned.
func (c *Controller) Greet() *model.Message {
	if c.store.Len() > 0 {
		return nil
	}
	msg := model.NewAssistantMessage(Greeting, "")
	c.store.Append(msg)
	return msg
}

// =============================================================================
// SEND
// =============================================================================

// Send runs one full exchange: validate, append the user message, call the
// gateway, append and reveal the response. It returns false when the input
// is rejected (empty text, or a send already in flight); rejection appends
// nothing and issues no request.
func (c *Controller) Send(ctx context.Context, text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}

	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		log.Printf("SEND_REJECTED | state=%s", c.state)
		return false
	}
	c.state = StateAwaiting
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.state = StateIdle
		c.mu.Unlock()
	}()

	// The context window is captured before the user message is appended
	// so the new turn appears exactly once in the request.
	recent := c.store.Recent(c.contextWindow)
	c.store.Append(model.NewUserMessage(text))

	providerID := c.store.ActiveProvider()
	modelName := ""
	if p, ok := c.registry.Resolve(providerID); ok {
		modelName = p.Model
	}

	req := BuildRequest(c.store.SessionID(), providerID, modelName, recent, text, c.opts)

	c.renderer.SetBusy(true)
	resp, err := c.gw.Send(ctx, req)
	c.renderer.SetBusy(false)

	if err != nil {
		log.Printf("SEND_FAILED | provider=%s error=%v", providerID, err)
		apology := model.NewAssistantMessage(Apology, "")
		apology.Error = true
		c.store.Append(apology)
		// The apology is shown immediately, never typed out.
		return true
	}

	reply := model.NewAssistantMessage(resp.Content, resp.Model)
	reply.Simulated = resp.Simulated
	c.store.Append(reply)

	if err := c.renderer.RevealIncrementally(ctx, resp.Content); err != nil {
		log.Printf("REVEAL_INTERRUPTED | error=%v", err)
	}
	return true
}

// =============================================================================
// PROVIDER SWITCHING
// =============================================================================

// SwitchProvider selects a different provider for subsequent sends. The
// target must exist and be enabled; on success the notice message appended
// to history is returned. Failure logs, changes nothing, and returns nil.
func (c *Controller) SwitchProvider(id string) *model.Message {
	p, ok := c.registry.Resolve(id)
	if !ok || !p.Enabled {
		log.Printf("SWITCH_REJECTED | provider=%s exists=%v", id, ok)
		return nil
	}

	c.store.SetActiveProvider(id)
	notice := model.NewAssistantMessage(fmt.Sprintf("Ahora estoy usando %s. ¿En qué puedo ayudarte?", p.Name), "")
	c.store.Append(notice)
	log.Printf("PROVIDER_SWITCHED | provider=%s", id)
	return notice
}
