// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command routing for leavedesk.
package cli

import (
	"fmt"
	"os"
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
	CmdTUI Command = iota
	CmdLogin
	CmdLogout
	CmdRegister
	CmdWhoami
	CmdApply
	CmdHistory
	CmdPending
	CmdApprove
	CmdReject
	CmdEmployees
	CmdCreateEmployee
	CmdStatus
	CmdConfig
	CmdVersion
	CmdHelp
)

const usageText = `leavedesk - terminal client for the leave management backend

Usage:
  leavedesk                          Start TUI (default)
  leavedesk login                    Sign in and store the session
    --email <addr>                   Account email (prompted if omitted)
    --role employee|manager          Role to sign in as (default: employee)
  leavedesk logout                   Revoke and clear the stored session
  leavedesk register                 Create a manager account
    --email <addr>                   Account email (prompted if omitted)
  leavedesk whoami                   Show the stored identity
  leavedesk apply                    Submit a leave application
    --type annual|sick               Leave type (default: annual)
    --start YYYY-MM-DD               First day of leave
    --end YYYY-MM-DD                 Last day of leave
    --reason <text>                  Reason (at least 10 characters)
  leavedesk history                  List your leave requests
  leavedesk pending                  List requests awaiting review (manager)
  leavedesk approve <id>             Approve a pending request (manager)
  leavedesk reject <id>              Reject a pending request (manager)
  leavedesk employees                List the employee directory (manager)
    --search <text>                  Filter by name substring
    --role employee|manager          Filter by role
  leavedesk create-employee          Create an account (manager)
    --email <addr>                   Account email (prompted if omitted)
    --name <text>                    Display name (prompted if omitted)
    --role employee|manager          Account role (default: employee)
  leavedesk status                   Show configuration and session state
  leavedesk config                   Print the effective configuration
  leavedesk config init              Write ~/.leavedesk/config.toml
  leavedesk version                  Show version information

Global flags:
  --server <url>                     Override the backend URL
  --config <path>                    Load configuration from a specific file
  --json                             Machine-readable output where supported

Environment:
  LEAVEDESK_SERVER_URL               Backend URL override
  LEAVEDESK_HOLIDAYS                 Holiday calendar file override
  LEAVEDESK_PASSPHRASE               Derive the credential key from a passphrase
  LEAVEDESK_THEME                    UI theme override (dark or light)
`

// Parse reads os.Args and returns the command plus its parser.
func Parse() (Command, *ArgParser) {
	raw := os.Args[1:]
	if len(raw) == 0 {
		return CmdTUI, NewArgParser(nil)
	}

	cmd := raw[0]
	parser := NewArgParser(raw[1:])

	switch cmd {
	case "version", "-v", "--version":
		return CmdVersion, parser
	case "help", "-h", "--help":
		return CmdHelp, parser
	}

	// Flags without a subcommand start the TUI, e.g. `leavedesk --server ...`.
	if strings.HasPrefix(cmd, "-") {
		return CmdTUI, NewArgParser(raw)
	}

	switch cmd {
	case "login":
		return CmdLogin, parser
	case "logout":
		return CmdLogout, parser
	case "register":
		return CmdRegister, parser
	case "whoami":
		return CmdWhoami, parser
	case "apply":
		return CmdApply, parser
	case "history":
		return CmdHistory, parser
	case "pending":
		return CmdPending, parser
	case "approve":
		return CmdApprove, parser
	case "reject":
		return CmdReject, parser
	case "employees":
		return CmdEmployees, parser
	case "create-employee":
		return CmdCreateEmployee, parser
	case "status", "s":
		return CmdStatus, parser
	case "config":
		return CmdConfig, parser
	default:
		// Unknown commands show usage rather than silently starting the TUI.
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		return CmdHelp, parser
	}
}

// PrintUsage writes the usage text to stdout.
func PrintUsage() {
	fmt.Print(usageText)
}

// PrintVersion writes version information to stdout.
func PrintVersion() {
	fmt.Printf("leavedesk %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
}
