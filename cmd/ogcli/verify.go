// SPDX-FileCopyrightText: 2021 The Go-SSB Authors
//
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/go-kit/kit/log/level"
	jsoniter "github.com/json-iterator/go"
	cli "github.com/urfave/cli/v2"

	"github.com/Sicuradata-Inc/session-ios/message/opengroup"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func (e *env) verifyCmd() *cli.Command {
	return &cli.Command{
		Name:      "verify",
		Usage:     "check the signatures of a stream of messages",
		ArgsUsage: "[file...]",
		Description: `Reads JSON messages in the wire format from the files or stdin and prints one line per message.
Messages without a user envelope need --sender.
Fails if any of the messages has no valid signature.`,

		Flags: []cli.Flag{
			&cli.StringFlag{Name: "sender", Usage: "session id for messages that don't name their sender"},
		},

		Action: func(ctx *cli.Context) error {
			var msgs []opengroup.Message

			sender := ctx.String("sender")
			if ctx.Args().Len() == 0 {
				read, err := readMessages(ctx.App.Reader, sender)
				if err != nil {
					return err
				}
				msgs = read
			}
			for _, fname := range ctx.Args().Slice() {
				f, err := os.Open(fname)
				if err != nil {
					return fmt.Errorf("verify: %w", err)
				}
				read, err := readMessages(f, sender)
				f.Close()
				if err != nil {
					return fmt.Errorf("verify: %s: %w", fname, err)
				}
				msgs = append(msgs, read...)
			}

			results, err := e.signer.VerifyAll(ctx.Context, msgs, e.workers)
			if err != nil {
				return err
			}

			var failed int
			for i, ok := range results {
				outcome := "ok"
				if !ok {
					outcome = "invalid"
					failed++
				}
				fmt.Fprintf(ctx.App.Writer, "%d\t%s\t%s\n", i, outcome, msgs[i].SenderPublicKey())
			}
			level.Debug(e.log).Log("event", "verified", "count", len(results), "failed", failed)

			if failed > 0 {
				return fmt.Errorf("verify: %d of %d messages failed verification", failed, len(results))
			}
			return nil
		},
	}
}

// readMessages decodes concatenated JSON messages until r is exhausted
func readMessages(r io.Reader, sender string) ([]opengroup.Message, error) {
	var msgs []opengroup.Message
	dec := json.NewDecoder(r)
	for i := 0; dec.More(); i++ {
		var raw jsoniter.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("message #%d: %w", i, err)
		}
		msg, err := opengroup.DecodeWireFrom(raw, sender)
		if err != nil {
			return nil, fmt.Errorf("message #%d: %w", i, err)
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}
