// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - configuration inspection and initialization command.
package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/leavedesk-tui/internal/config"
	"github.com/jeranaias/leavedesk-tui/internal/ui/styles"
)

// HandleConfig prints the effective configuration as TOML. With the "init"
// subcommand it writes that configuration to ~/.leavedesk/config.toml so
// there is a file to edit.
func HandleConfig(parser *ArgParser) error {
	var cfg *config.Config
	var err error
	if path := parser.Flag("config"); path != "" {
		cfg, err = config.LoadFromPath(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if server := parser.Flag("server"); server != "" {
		cfg.Server.URL = server
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	if parser.Positional(0) == "init" {
		if err := config.Save(cfg); err != nil {
			return err
		}
		path, err := config.ConfigPathTOML()
		if err != nil {
			return err
		}
		fmt.Println(styles.RenderSuccess("Wrote " + path))
		return nil
	}

	// SECURITY: never echo the passphrase.
	shown := *cfg
	if shown.Security.Passphrase != "" {
		shown.Security.Passphrase = "(set)"
	}
	return toml.NewEncoder(os.Stdout).Encode(&shown)
}
