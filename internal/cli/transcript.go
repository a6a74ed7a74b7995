// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// transcript.go - Non-interactive transcript commands (export, clear).
package cli

import (
	"fmt"

	"github.com/campusroyal/aichat/internal/config"
	"github.com/campusroyal/aichat/internal/history"
)

// openStore loads config and the persisted session history.
func openStore(args Args) (*history.Store, error) {
	cfg, err := config.Load(args.ConfigPath)
	if err != nil {
		return nil, err
	}
	stateDir, err := cfg.StateDir()
	if err != nil {
		return nil, err
	}
	store := history.NewStore(stateDir, cfg.Chat.MaxHistoryLength)
	store.Load()
	return store, nil
}

// HandleExport handles the "export" command.
func HandleExport(args Args) error {
	store, err := openStore(args)
	if err != nil {
		return err
	}
	if store.Len() == 0 {
		fmt.Println(infoStyle.Render("[Sin mensajes que exportar]"))
		return nil
	}
	return exportTranscript(store, args.Output)
}

// HandleClear handles the "clear" command. It is destructive and requires
// --confirm.
func HandleClear(args Args) error {
	if !args.Confirm {
		return fmt.Errorf("clear elimina el historial guardado; repite con --confirm")
	}

	store, err := openStore(args)
	if err != nil {
		return err
	}
	n := store.Len()
	store.Clear()
	fmt.Printf("%s %d mensajes eliminados\n", commandStyle.Render("[Historial borrado]"), n)
	return nil
}
