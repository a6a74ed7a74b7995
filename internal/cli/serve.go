// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// serve.go - Gateway server command handler.
//
// Handles the "aichat serve" command: runs the provider gateway HTTP server
// with telemetry and live config reload until SIGINT or SIGTERM.
package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/campusroyal/aichat/internal/config"
	"github.com/campusroyal/aichat/internal/server"
	"github.com/campusroyal/aichat/internal/telemetry"
)

// HandleServe handles the "serve" command.
func HandleServe(args Args) error {
	cfg, err := config.Load(args.ConfigPath)
	if err != nil {
		return err
	}
	if args.Port > 0 {
		cfg.Server.Port = args.Port
	}

	// Telemetry is best-effort: the server runs without /api/stats when the
	// store cannot be opened.
	var opts []server.Option
	stateDir, err := cfg.StateDir()
	if err == nil {
		stats, err := telemetry.Open(filepath.Join(stateDir, telemetry.DatabaseFile))
		if err != nil {
			log.Printf("TELEMETRY_OPEN_FAILED | error=%v", err)
		} else {
			defer stats.Close()
			opts = append(opts, server.WithTelemetry(stats))
		}
	}

	srv := server.New(cfg, opts...)

	configPath := args.ConfigPath
	if configPath == "" {
		if p, err := config.ConfigPath(); err == nil {
			configPath = p
		}
	}
	if configPath != "" {
		watcher, err := config.NewWatcher(configPath, srv.Reload)
		if err != nil {
			log.Printf("CONFIG_WATCH_UNAVAILABLE | path=%s error=%v", configPath, err)
		} else {
			defer watcher.Close()
		}
	}

	if !args.Quiet {
		fmt.Printf("Gateway escuchando en http://localhost:%d\n", cfg.Server.Port)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.ListenAndServe(ctx); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}
