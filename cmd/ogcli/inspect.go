// SPDX-FileCopyrightText: 2021 The Go-SSB Authors
//
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	cli "github.com/urfave/cli/v2"

	"github.com/Sicuradata-Inc/session-ios/message/opengroup"
)

func (e *env) inspectCmd() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "print a message in human readable form",
		ArgsUsage: "[file]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "sender", Usage: "session id if the message doesn't name its sender"},
		},
		Action: func(ctx *cli.Context) error {
			var r io.Reader = ctx.App.Reader
			if fname := ctx.Args().First(); fname != "" {
				f, err := os.Open(fname)
				if err != nil {
					return fmt.Errorf("inspect: %w", err)
				}
				defer f.Close()
				r = f
			}

			data, err := io.ReadAll(r)
			if err != nil {
				return fmt.Errorf("inspect: %w", err)
			}
			msg, err := opengroup.DecodeWireFrom(data, ctx.String("sender"))
			if err != nil {
				return err
			}

			printMessage(ctx.App.Writer, msg, e.signer.Verify(msg))
			return nil
		},
	}
}

func humanTime(ms uint64) string {
	if ms > math.MaxInt64 {
		return fmt.Sprintf("%d ms (out of range)", ms)
	}
	t := time.UnixMilli(int64(ms))
	return fmt.Sprintf("%s (%s)", humanize.Time(t), t.UTC().Format(time.RFC3339))
}

func printMessage(w io.Writer, msg opengroup.Message, valid bool) {
	fmt.Fprintf(w, "sender:    %s\n", msg.SenderPublicKey())
	if name := msg.DisplayName(); name != "" {
		fmt.Fprintf(w, "name:      %s\n", name)
	}
	fmt.Fprintf(w, "type:      %s\n", msg.Type())
	fmt.Fprintf(w, "sent:      %s\n", humanTime(msg.Timestamp()))
	if id, has := msg.ServerID(); has {
		fmt.Fprintf(w, "server id: %d\n", id)
	}
	if ts := msg.ServerTimestamp(); ts != 0 {
		fmt.Fprintf(w, "received:  %s\n", humanTime(ts))
	}
	fmt.Fprintf(w, "text:      %q\n", msg.Body())

	if q, has := msg.Quote(); has {
		fmt.Fprintf(w, "quote:     %s at %s: %q", q.QuoteePublicKey, humanTime(q.QuotedMessageTimestamp), q.QuotedMessageBody)
		if q.QuotedMessageServerID != nil {
			fmt.Fprintf(w, " (server id %d)", *q.QuotedMessageServerID)
		}
		fmt.Fprintln(w)
	}

	if p, has := msg.ProfilePicture(); has {
		fmt.Fprintf(w, "avatar:    %s\n", p.URL)
	}

	atts := msg.Attachments()
	if len(atts) > 0 {
		fmt.Fprintf(w, "attachments: %d\n", len(atts))
	}
	for i, a := range atts {
		fmt.Fprintf(w, "  #%d %s %s id:%d %s %s", i, a.Kind, a.NETType(), a.ServerID, a.FileName, humanize.Bytes(a.Size))
		if a.Width != 0 || a.Height != 0 {
			fmt.Fprintf(w, " %dx%d", a.Width, a.Height)
		}
		fmt.Fprintf(w, " %s\n", a.URL)
		if a.Caption != nil {
			fmt.Fprintf(w, "     caption: %q\n", *a.Caption)
		}
		if a.LinkPreviewURL != nil && a.LinkPreviewTitle != nil {
			fmt.Fprintf(w, "     preview: %q %s\n", *a.LinkPreviewTitle, *a.LinkPreviewURL)
		}
	}

	sig, has := msg.Signature()
	switch {
	case !has:
		fmt.Fprintln(w, "signature: none")
	case valid:
		fmt.Fprintf(w, "signature: valid (version %d)\n", sig.Version)
	default:
		fmt.Fprintf(w, "signature: INVALID (version %d)\n", sig.Version)
	}

	if data, err := opengroup.ValidationData(msg, opengroup.SignatureVersion); err == nil {
		fmt.Fprintf(w, "signed payload: %s\n", humanize.Bytes(uint64(len(data))))
	}
}
