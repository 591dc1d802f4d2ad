// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth_cmd.go - login, logout, register and whoami commands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jeranaias/leavedesk-tui/internal/session"
	"github.com/jeranaias/leavedesk-tui/internal/ui/styles"
)

const cmdTimeout = 30 * time.Second

// HandleLogin signs in and persists the encrypted session.
func HandleLogin(parser *ArgParser) error {
	env, err := Setup(parser, nil)
	if err != nil {
		return err
	}
	defer env.Close()

	email := parser.Flag("email")
	if email == "" {
		if email, err = PromptLine("Email"); err != nil {
			return err
		}
	}
	if err := session.ValidateEmail(email); err != nil {
		return err
	}

	role := session.RoleEmployee
	if v := parser.Flag("role"); v != "" {
		if role, err = session.ParseRole(v); err != nil {
			return err
		}
	}

	password, err := PromptPassword("Password")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cmdTimeout)
	defer cancel()

	env.Sessions.Restore(ctx)
	principal, err := env.Sessions.Login(ctx, email, password, role)
	if err != nil {
		return err
	}

	fmt.Println(styles.RenderSuccess(fmt.Sprintf("Signed in as %s (%s)", principal.Email, principal.Role)))
	return nil
}

// HandleLogout revokes the refresh token and clears local credentials.
func HandleLogout(parser *ArgParser) error {
	env, err := Setup(parser, nil)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cmdTimeout)
	defer cancel()

	env.Sessions.Restore(ctx)
	if err := env.Sessions.Logout(ctx); err != nil {
		// Local state is already cleared; the remote failure is advisory.
		fmt.Println(styles.RenderWarning(fmt.Sprintf("remote logout failed: %v", err)))
	}
	fmt.Println(styles.RenderSuccess("Signed out"))
	return nil
}

// HandleRegister creates a manager account. It never signs the caller in.
func HandleRegister(parser *ArgParser) error {
	env, err := Setup(parser, nil)
	if err != nil {
		return err
	}
	defer env.Close()

	email := parser.Flag("email")
	if email == "" {
		if email, err = PromptLine("Email"); err != nil {
			return err
		}
	}

	password, err := PromptPassword("Password")
	if err != nil {
		return err
	}
	confirm, err := PromptPassword("Confirm password")
	if err != nil {
		return err
	}
	if err := session.ValidateSignup(email, password, confirm); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cmdTimeout)
	defer cancel()

	if err := env.Sessions.Register(ctx, email, password); err != nil {
		return err
	}
	fmt.Println(styles.RenderSuccess("Manager account created. Run 'leavedesk login --role manager' to sign in."))
	return nil
}

// HandleWhoami shows the stored identity, validating it against the
// backend when reachable.
func HandleWhoami(parser *ArgParser) error {
	env, err := Setup(parser, nil)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cmdTimeout)
	defer cancel()

	sess := env.Sessions.Restore(ctx)
	if sess.User == nil {
		fmt.Println("Not signed in.")
		os.Exit(1)
	}

	if parser.BoolFlag("json") {
		return json.NewEncoder(os.Stdout).Encode(sess.User)
	}
	fmt.Printf("%s (%s)\n", sess.User.Email, sess.User.Role)
	return nil
}
