// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - configuration and session status command.
package cli

import (
	"context"
	"fmt"
)

// HandleStatus prints the effective configuration and session state.
func HandleStatus(parser *ArgParser) error {
	env, err := Setup(parser, nil)
	if err != nil {
		return err
	}
	defer env.Close()

	fmt.Printf("leavedesk %s\n\n", Version)
	fmt.Printf("Server:            %s\n", env.Cfg.Server.URL)
	fmt.Printf("Request timeout:   %ds\n", env.Cfg.Server.TimeoutSecs)
	fmt.Printf("Max retries:       %d\n", env.Cfg.Server.MaxRetries)
	fmt.Printf("Holiday calendar:  %d holiday(s) loaded\n", env.Holidays.Len())

	// Stored identity first: available even before the backend round trip.
	if p, ok := env.Sessions.StoredPrincipal(); ok {
		fmt.Printf("Stored identity:   %s (%s)\n", p.Email, p.Role)
	} else {
		fmt.Println("Stored identity:   none")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cmdTimeout)
	defer cancel()

	sess := env.Sessions.Restore(ctx)
	if sess.User != nil {
		fmt.Printf("Session:           valid, signed in as %s (%s)\n", sess.User.Email, sess.User.Role)
	} else {
		fmt.Println("Session:           not signed in")
	}
	return nil
}
