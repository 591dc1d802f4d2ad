// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// employee_cmd.go - employees and create-employee commands (manager).
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jeranaias/leavedesk-tui/internal/api"
	"github.com/jeranaias/leavedesk-tui/internal/session"
	"github.com/jeranaias/leavedesk-tui/internal/ui/styles"
	"github.com/jeranaias/leavedesk-tui/internal/util"
)

// HandleEmployees lists the employee directory with optional name and role
// filters. The backend returns the full directory; filtering is local.
func HandleEmployees(parser *ArgParser) error {
	var roleFilter session.Role
	if v := parser.Flag("role"); v != "" {
		role, err := session.ParseRole(v)
		if err != nil {
			return err
		}
		roleFilter = role
	}

	env, err := Setup(parser, nil)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cmdTimeout)
	defer cancel()

	env.Sessions.Restore(ctx)
	employees, err := env.Sessions.Employees(ctx)
	if err != nil {
		return err
	}
	employees = filterEmployees(employees, parser.Flag("search"), string(roleFilter))

	if parser.BoolFlag("json") {
		return json.NewEncoder(os.Stdout).Encode(employees)
	}
	if len(employees) == 0 {
		fmt.Println("No matching employees.")
		return nil
	}
	printEmployees(employees)
	return nil
}

// filterEmployees narrows the directory by case-insensitive name substring
// and exact role. Empty filters match everything.
func filterEmployees(employees []api.Employee, search, role string) []api.Employee {
	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]api.Employee, 0, len(employees))
	for _, e := range employees {
		if search != "" && !strings.Contains(strings.ToLower(e.Name), search) {
			continue
		}
		if role != "" && e.UserType != role {
			continue
		}
		out = append(out, e)
	}
	return out
}

// HandleCreateEmployee provisions an account, prompting for anything not
// supplied as a flag. Passwords are always prompted, never flags.
func HandleCreateEmployee(parser *ArgParser) error {
	env, err := Setup(parser, nil)
	if err != nil {
		return err
	}
	defer env.Close()

	name := strings.TrimSpace(parser.Flag("name"))
	if name == "" {
		if name, err = PromptLine("Name"); err != nil {
			return err
		}
		name = strings.TrimSpace(name)
	}
	if name == "" {
		return fmt.Errorf("a name is required")
	}

	email := parser.Flag("email")
	if email == "" {
		if email, err = PromptLine("Email"); err != nil {
			return err
		}
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
	confirm, err := PromptPassword("Confirm password")
	if err != nil {
		return err
	}
	if err := session.ValidateSignup(email, password, confirm); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cmdTimeout)
	defer cancel()

	env.Sessions.Restore(ctx)
	err = env.Sessions.CreateEmployee(ctx, api.CreateEmployeeRequest{
		Email:    email,
		Name:     name,
		UserType: string(role),
		Password: password,
	})
	if err != nil {
		return err
	}

	fmt.Println(styles.RenderSuccess(fmt.Sprintf("Created %s account for %s <%s>", role, name, email)))
	return nil
}

// printEmployees renders the directory as a fixed-width table.
func printEmployees(employees []api.Employee) {
	fmt.Printf("%-5s %-22s %-30s %s\n", "ID", "NAME", "EMAIL", "ROLE")
	for _, e := range employees {
		role := e.UserType
		if ColorEnabled() {
			role = styles.Focused.Render(role)
		}
		fmt.Printf("%-5d %s %s %s\n",
			e.ID,
			util.PadWidth(util.TruncateWidth(e.Name, 22), 22),
			util.PadWidth(util.TruncateWidth(e.Email, 30), 30),
			role)
	}
}
