// leavedesk TUI - A terminal client for the leave management backend.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/leavedesk-tui/internal/api"
	"github.com/jeranaias/leavedesk-tui/internal/cli"
	"github.com/jeranaias/leavedesk-tui/internal/config"
	"github.com/jeranaias/leavedesk-tui/internal/ui/app"
)

// Version information (set at build time)
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Global program reference so the calendar watcher can wake the UI.
var (
	programRef *tea.Program
	programMu  sync.Mutex
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, parser := cli.Parse()

	var err error
	switch cmd {
	case cli.CmdTUI:
		err = runTUI(parser)
	case cli.CmdLogin:
		err = cli.HandleLogin(parser)
	case cli.CmdLogout:
		err = cli.HandleLogout(parser)
	case cli.CmdRegister:
		err = cli.HandleRegister(parser)
	case cli.CmdWhoami:
		err = cli.HandleWhoami(parser)
	case cli.CmdApply:
		err = cli.HandleApply(parser)
	case cli.CmdHistory:
		err = cli.HandleHistory(parser)
	case cli.CmdPending:
		err = cli.HandlePending(parser)
	case cli.CmdApprove:
		err = cli.HandleReview(parser, true)
	case cli.CmdReject:
		err = cli.HandleReview(parser, false)
	case cli.CmdEmployees:
		err = cli.HandleEmployees(parser)
	case cli.CmdCreateEmployee:
		err = cli.HandleCreateEmployee(parser)
	case cli.CmdStatus:
		err = cli.HandleStatus(parser)
	case cli.CmdConfig:
		err = cli.HandleConfig(parser)
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		for _, detail := range api.ErrorDetails(err) {
			fmt.Fprintf(os.Stderr, "  %s\n", detail)
		}
		os.Exit(1)
	}
}

// runTUI wires the application and hands control to Bubble Tea.
func runTUI(parser *cli.ArgParser) error {
	// The TUI owns the terminal; route log output to a file instead.
	cleanupLog := redirectLogs()
	defer cleanupLog()

	env, err := cli.Setup(parser, notifyCalendarReload)
	if err != nil {
		return err
	}
	defer env.Close()

	root := app.New(env.Sessions, env.Holidays)
	program := tea.NewProgram(root, tea.WithAltScreen())

	programMu.Lock()
	programRef = program
	programMu.Unlock()

	_, err = program.Run()

	programMu.Lock()
	programRef = nil
	programMu.Unlock()
	return err
}

// notifyCalendarReload nudges the UI so duration previews pick up the
// freshly reloaded holiday calendar.
func notifyCalendarReload() {
	programMu.Lock()
	defer programMu.Unlock()
	if programRef != nil {
		programRef.Send(app.CalendarReloadedMsg{})
	}
}

// redirectLogs sends the standard logger to ~/.leavedesk/leavedesk.log
// while the TUI runs. Returns a cleanup func that restores stderr logging.
func redirectLogs() func() {
	dir, err := config.ConfigDir()
	if err != nil {
		log.SetOutput(io.Discard)
		return func() { log.SetOutput(os.Stderr) }
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		log.SetOutput(io.Discard)
		return func() { log.SetOutput(os.Stderr) }
	}
	f, err := os.OpenFile(filepath.Join(dir, "leavedesk.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		log.SetOutput(io.Discard)
		return func() { log.SetOutput(os.Stderr) }
	}
	log.SetOutput(f)
	return func() {
		log.SetOutput(os.Stderr)
		f.Close()
	}
}
