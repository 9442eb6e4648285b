// SPDX-FileCopyrightText: 2021 The Go-SSB Authors
//
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-kit/kit/log/level"
	cli "github.com/urfave/cli/v2"

	"github.com/Sicuradata-Inc/session-ios/keys"
)

func (e *env) keygenCmd() *cli.Command {
	return &cli.Command{
		Name:  "keygen",
		Usage: "create a new secret key file",
		Description: `Creates a new key pair and stores it in the file given by --key.
An existing key file is never overwritten.

Example:

    ogcli --key ./secret keygen`,

		Action: func(ctx *cli.Context) error {
			if err := os.MkdirAll(filepath.Dir(e.keyFile), 0700); err != nil {
				return fmt.Errorf("keygen: failed to create key directory: %w", err)
			}

			kp, err := keys.NewKeyPair(nil)
			if err != nil {
				return err
			}
			if err := keys.SaveKeyPair(kp, e.keyFile); err != nil {
				return err
			}

			level.Info(e.log).Log("event", "keygen", "path", e.keyFile)
			fmt.Fprintln(ctx.App.Writer, kp.SessionID())
			return nil
		},
	}
}

func (e *env) whoamiCmd() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "print the session id of the key file",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "curve", Usage: "also print the X25519 public key"},
		},
		Action: func(ctx *cli.Context) error {
			kp, err := keys.LoadKeyPair(e.keyFile)
			if err != nil {
				return err
			}
			fmt.Fprintln(ctx.App.Writer, kp.SessionID())

			if ctx.Bool("curve") {
				curve, err := kp.CurvePublic()
				if err != nil {
					return err
				}
				fmt.Fprintln(ctx.App.Writer, hex.EncodeToString(curve))
			}
			return nil
		},
	}
}
