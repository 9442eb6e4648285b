// SPDX-FileCopyrightText: 2021 The Go-SSB Authors
//
// SPDX-License-Identifier: MIT

// ogcli signs, verifies and inspects open group messages and edits the local settings.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/go-kit/kit/log/term"
	cli "github.com/urfave/cli/v2"

	"github.com/Sicuradata-Inc/session-ios/internal/config-reader"
	"github.com/Sicuradata-Inc/session-ios/keys"
	"github.com/Sicuradata-Inc/session-ios/message/opengroup"
	"github.com/Sicuradata-Inc/session-ios/settings"
)

// Version and Build are set by ldflags
var (
	Version = "snapshot"
	Build   = ""
)

var log kitlog.Logger

func init() {
	log = term.NewColorLogger(os.Stderr, kitlog.NewLogfmtLogger, colorFn)
}

// Color by error type
func colorFn(keyvals ...interface{}) term.FgBgColor {
	for i := 1; i < len(keyvals); i += 2 {
		if _, ok := keyvals[i].(error); ok {
			return term.FgBgColor{Fg: term.Red}
		}
	}
	return term.FgBgColor{}
}

// env is the state shared by the commands of one run
type env struct {
	log kitlog.Logger

	keyFile string
	msgType string
	name    string
	server  string
	workers int

	store  *settings.Store
	signer *opengroup.Signer

	closer multiCloser
}

func newApp() *cli.App {
	var e env

	defaultDir := ".opengroup"
	if home, err := os.UserHomeDir(); err == nil {
		defaultDir = filepath.Join(home, ".opengroup")
	}

	return &cli.App{
		Name:    "ogcli",
		Usage:   "sign, verify and inspect open group messages",
		Version: "alpha1",

		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: filepath.Join(defaultDir, "config.toml"), Usage: "path to the TOML config file"},
			&cli.StringFlag{Name: "key", Aliases: []string{"k"}, Value: filepath.Join(defaultDir, "secret"), Usage: "the secret key file"},
			&cli.StringFlag{Name: "settings", Value: filepath.Join(defaultDir, "settings"), Usage: "where the settings are stored"},
			&cli.StringFlag{Name: "settings-backend", Value: "badger", Usage: "badger or memory"},
			&cli.StringFlag{Name: "type", Value: opengroup.PublicChatType, Usage: "annotation type of new messages"},
			&cli.StringFlag{Name: "name", Usage: "display name, defaults to the displayName setting"},
			&cli.StringFlag{Name: "server", Usage: "group server that stores uploaded attachments"},
			&cli.IntFlag{Name: "workers", Value: 4, Usage: "how many messages are verified at once"},
			&cli.StringFlag{Name: "debuglis", Usage: "serve prometheus metrics on this address"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"vv"}, Usage: "print debug logs"},
		},

		Before: e.init,
		After:  e.close,

		Commands: []*cli.Command{
			e.keygenCmd(),
			e.whoamiCmd(),
			e.signCmd(),
			e.verifyCmd(),
			e.inspectCmd(),
			e.settingsCmd(),
		},
	}
}

func (e *env) init(ctx *cli.Context) error {
	conf, _, err := config.ReadConfig(ctx.String("config"), level.NewFilter(log, level.AllowWarn()))
	if err != nil {
		return err
	}

	// explicit flags win over the config file, which wins over the defaults
	pick := func(flag, confKey, confVal string) string {
		if !ctx.IsSet(flag) && conf.Has(confKey) {
			return confVal
		}
		return ctx.String(flag)
	}

	verbose := ctx.Bool("verbose")
	if !ctx.IsSet("verbose") && conf.Has("verbose") {
		verbose = bool(conf.Verbose)
	}
	e.log = kitlog.With(log, "t", kitlog.DefaultTimestampUTC)
	if verbose {
		e.log = level.NewFilter(e.log, level.AllowDebug())
	} else {
		e.log = level.NewFilter(e.log, level.AllowInfo())
	}

	e.keyFile = pick("key", "key", conf.Key)
	e.msgType = pick("type", "type", conf.Type)
	e.name = pick("name", "name", conf.Name)
	e.server = pick("server", "server", conf.Server)

	e.workers = ctx.Int("workers")
	if !ctx.IsSet("workers") && conf.Has("workers") {
		e.workers = int(conf.Workers)
	}

	e.store, err = settings.Open(pick("settings-backend", "settings-backend", conf.SettingsBackend), pick("settings", "settings", conf.Settings))
	if err != nil {
		return err
	}
	e.closer.addCloser(e.store)

	signs, verifies, err := startDebug(pick("debuglis", "debuglis", conf.MetricsAddress), e.log, &e.closer)
	if err != nil {
		return err
	}

	e.signer, err = opengroup.NewSigner(keys.FileSource{Path: e.keyFile},
		opengroup.WithLogger(kitlog.With(e.log, "module", "signer")),
		opengroup.WithCounters(signs, verifies),
	)
	return err
}

func (e *env) close(ctx *cli.Context) error {
	return e.closer.Close()
}

func main() {
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Printf("%s (rev: %s, built: %s)\n", c.App.Version, Version, Build)
	}

	if err := newApp().Run(os.Args); err != nil {
		level.Error(log).Log("run-failure", err)
		os.Exit(1)
	}
}
