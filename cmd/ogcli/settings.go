// SPDX-FileCopyrightText: 2021 The Go-SSB Authors
//
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"sort"

	cli "github.com/urfave/cli/v2"

	"github.com/Sicuradata-Inc/session-ios/settings"
)

func (e *env) settingsCmd() *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "read and change the local settings",
		Subcommands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "print the value of a setting",
				ArgsUsage: "<name>",
				Action: func(ctx *cli.Context) error {
					name := ctx.Args().First()
					text, has, err := e.store.Text(name)
					if err != nil {
						return err
					}
					if !has {
						return fmt.Errorf("settings: %s is not set", name)
					}
					fmt.Fprintln(ctx.App.Writer, text)
					return nil
				},
			},
			{
				Name:      "set",
				Usage:     "change a setting",
				ArgsUsage: "<name> <value>",
				Action: func(ctx *cli.Context) error {
					if ctx.Args().Len() != 2 {
						return fmt.Errorf("settings: expected a name and a value")
					}
					return e.store.SetText(ctx.Args().Get(0), ctx.Args().Get(1))
				},
			},
			{
				Name:      "rm",
				Usage:     "remove a setting",
				ArgsUsage: "<name>",
				Action: func(ctx *cli.Context) error {
					return e.store.Remove(ctx.Args().First())
				},
			},
			{
				Name:  "list",
				Usage: "print all settings that are set",
				Action: func(ctx *cli.Context) error {
					names := make([]string, 0, len(settings.Known))
					for name := range settings.Known {
						names = append(names, name)
					}
					sort.Strings(names)

					for _, name := range names {
						text, has, err := e.store.Text(name)
						if err != nil {
							return err
						}
						if has {
							fmt.Fprintf(ctx.App.Writer, "%s\t%s\t%s\n", name, settings.Known[name], text)
						}
					}
					return nil
				},
			},
		},
	}
}
