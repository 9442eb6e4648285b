// SPDX-FileCopyrightText: 2021 The Go-SSB Authors
//
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-kit/kit/log/level"
	cli "github.com/urfave/cli/v2"

	"github.com/Sicuradata-Inc/session-ios/keys"
	"github.com/Sicuradata-Inc/session-ios/message/opengroup"
	"github.com/Sicuradata-Inc/session-ios/settings"
)

func (e *env) signCmd() *cli.Command {
	return &cli.Command{
		Name:      "sign",
		Usage:     "sign a message and print it in the wire format",
		ArgsUsage: "<text>",
		Description: `Builds a message from the text and the flags, signs it with the key file
and prints the JSON the group server expects.

With --stdin an unsigned message in the wire format is read instead.

Example:

    ogcli sign --quote-ts 1612345000000 --quote-author 05ab... --quote-text "what?" "that's the one"
    ogcli --server https://chat.example sign --file-id 12 --file-type image/png --file-size 2048 "look"
    echo '{"text":"hi","annotations":[...]}' | ogcli sign --stdin`,

		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "stdin", Usage: "read an unsigned wire message from stdin"},
			&cli.Uint64Flag{Name: "ts", Usage: "timestamp in milliseconds, defaults to now"},
			&cli.Uint64Flag{Name: "quote-ts", Usage: "timestamp of the quoted message"},
			&cli.StringFlag{Name: "quote-author", Usage: "session id of the quoted author"},
			&cli.StringFlag{Name: "quote-text", Usage: "body of the quoted message"},
			&cli.Uint64Flag{Name: "quote-id", Usage: "server id of the quoted message"},
			&cli.StringFlag{Name: "avatar", Usage: "url of the profile picture"},
			&cli.StringFlag{Name: "profile-key", Usage: "hex encoded profile key, used with --avatar"},
			&cli.Uint64Flag{Name: "file-id", Usage: "server id of a file uploaded to --server"},
			&cli.StringFlag{Name: "file-type", Value: "application/octet-stream", Usage: "content type of the file"},
			&cli.Uint64Flag{Name: "file-size", Usage: "size of the file in bytes"},
			&cli.StringFlag{Name: "file-name", Usage: "name of the file"},
		},

		Action: func(ctx *cli.Context) error {
			kp, err := keys.LoadKeyPair(e.keyFile)
			if err != nil {
				return err
			}

			var msg opengroup.Message
			if ctx.Bool("stdin") {
				data, err := io.ReadAll(ctx.App.Reader)
				if err != nil {
					return fmt.Errorf("sign: failed to read stdin: %w", err)
				}
				msg, err = opengroup.DecodeWireFrom(data, kp.SessionID())
				if err != nil {
					return err
				}
				if msg.SenderPublicKey() != kp.SessionID() {
					return fmt.Errorf("sign: message is from %s, not from this key", msg.SenderPublicKey())
				}
			} else {
				msg, err = e.buildMessage(ctx, kp.SessionID())
				if err != nil {
					return err
				}
			}

			signed, err := e.signer.Sign(msg)
			if err != nil {
				return err
			}

			out, err := opengroup.EncodeWire(signed)
			if err != nil {
				return err
			}
			level.Info(e.log).Log("event", "signed", "name", signed.DisplayName(), "ts", signed.Timestamp())
			fmt.Fprintln(ctx.App.Writer, string(out))
			return nil
		},
	}
}

func (e *env) buildMessage(ctx *cli.Context, sender string) (opengroup.Message, error) {
	if ctx.Args().Len() != 1 {
		return opengroup.Message{}, fmt.Errorf("sign: expected one argument, the text of the message")
	}

	ts := ctx.Uint64("ts")
	if ts == 0 {
		ts = uint64(time.Now().UnixMilli())
	}

	name := e.name
	if name == "" {
		stored, _, err := e.store.String(settings.DisplayName)
		if err != nil {
			return opengroup.Message{}, err
		}
		name = stored
	}

	b := opengroup.NewBuilder(sender, ctx.Args().First(), ts).
		Type(e.msgType).
		DisplayName(name)

	if qts := ctx.Uint64("quote-ts"); qts != 0 {
		q := opengroup.Quote{
			QuotedMessageTimestamp: qts,
			QuoteePublicKey:        ctx.String("quote-author"),
			QuotedMessageBody:      ctx.String("quote-text"),
		}
		if id := ctx.Uint64("quote-id"); id != 0 {
			q.QuotedMessageServerID = &id
		}
		b.Quote(q)
	}

	if url := ctx.String("avatar"); url != "" {
		key, err := hex.DecodeString(ctx.String("profile-key"))
		if err != nil {
			return opengroup.Message{}, fmt.Errorf("sign: profile key is not hex: %w", err)
		}
		b.ProfilePicture(opengroup.ProfilePicture{ProfileKey: key, URL: url})
	}

	if id := ctx.Uint64("file-id"); id != 0 {
		if e.server == "" {
			return opengroup.Message{}, fmt.Errorf("sign: --file-id needs the group server (--server or server in the config)")
		}
		server := strings.TrimSuffix(e.server, "/")
		b.AddAttachment(opengroup.Attachment{
			Kind:        opengroup.KindAttachment,
			Server:      server,
			ServerID:    id,
			ContentType: ctx.String("file-type"),
			Size:        ctx.Uint64("file-size"),
			FileName:    ctx.String("file-name"),
			URL:         fmt.Sprintf("%s/files/%d", server, id),
		})
	}

	return b.Build()
}
