// SPDX-FileCopyrightText: 2021 The Go-SSB Authors
//
// SPDX-License-Identifier: MIT

package opengroup

import (
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// the server tells absent keys and null values apart, so every optional field is a pointer with omitempty.

type wireMessage struct {
	Text        string           `json:"text"`
	Annotations []wireAnnotation `json:"annotations"`
	ReplyTo     *uint64          `json:"reply_to,omitempty"`
}

type wireAnnotation struct {
	Type  string      `json:"type"`
	Value interface{} `json:"value"`
}

type wireMessageValue struct {
	Timestamp uint64      `json:"timestamp"`
	Quote     *wireQuote  `json:"quote,omitempty"`
	Sig       *string     `json:"sig,omitempty"`
	SigVer    *uint64     `json:"sigver,omitempty"`
	Avatar    *wireAvatar `json:"avatar,omitempty"`
}

type wireQuote struct {
	ID     uint64 `json:"id"`
	Author string `json:"author"`
	Text   string `json:"text"`
}

type wireAvatar struct {
	ProfileKey string `json:"profileKey"`
	URL        string `json:"url"`
}

type wireAttachmentValue struct {
	// required by the .NET API
	Version uint64 `json:"version"`
	Type    string `json:"type"`

	LokiType         string  `json:"lokiType"`
	Server           string  `json:"server"`
	ID               uint64  `json:"id"`
	ContentType      string  `json:"contentType"`
	Size             uint64  `json:"size"`
	FileName         string  `json:"fileName"`
	Width            uint64  `json:"width"`
	Height           uint64  `json:"height"`
	URL              string  `json:"url"`
	Caption          *string `json:"caption,omitempty"`
	LinkPreviewURL   *string `json:"linkPreviewUrl,omitempty"`
	LinkPreviewTitle *string `json:"linkPreviewTitle,omitempty"`
}

// EncodeWire returns the JSON object the group server API expects for msg.
func EncodeWire(msg Message) ([]byte, error) {
	value := wireMessageValue{Timestamp: msg.timestamp}
	if q := msg.quote; q != nil {
		value.Quote = &wireQuote{
			ID:     q.QuotedMessageTimestamp,
			Author: q.QuoteePublicKey,
			Text:   q.QuotedMessageBody,
		}
	}
	if sig := msg.signature; sig != nil {
		enc := hex.EncodeToString(sig.Data)
		ver := sig.Version
		value.Sig, value.SigVer = &enc, &ver
	}
	if p := msg.profilePicture; p != nil {
		value.Avatar = &wireAvatar{
			ProfileKey: hex.EncodeToString(p.ProfileKey),
			URL:        p.URL,
		}
	}

	wm := wireMessage{
		Text:        msg.body,
		Annotations: make([]wireAnnotation, 0, 1+len(msg.attachments)),
	}
	wm.Annotations = append(wm.Annotations, wireAnnotation{Type: msg.typ, Value: value})

	for _, a := range msg.attachments {
		wm.Annotations = append(wm.Annotations, wireAnnotation{
			Type: AttachmentAnnotationType,
			Value: wireAttachmentValue{
				Version:          1,
				Type:             a.NETType(),
				LokiType:         a.Kind.String(),
				Server:           a.Server,
				ID:               a.ServerID,
				ContentType:      a.ContentType,
				Size:             a.Size,
				FileName:         a.FileName,
				Width:            a.Width,
				Height:           a.Height,
				URL:              a.URL,
				Caption:          a.Caption,
				LinkPreviewURL:   a.LinkPreviewURL,
				LinkPreviewTitle: a.LinkPreviewTitle,
			},
		})
	}

	if q := msg.quote; q != nil && q.QuotedMessageServerID != nil {
		wm.ReplyTo = q.QuotedMessageServerID
	}

	b, err := json.Marshal(wm)
	if err != nil {
		return nil, fmt.Errorf("opengroup: failed to encode message: %w", err)
	}
	return b, nil
}

// MarshalJSON encodes the message in the wire format, see EncodeWire.
func (msg Message) MarshalJSON() ([]byte, error) {
	return EncodeWire(msg)
}

// what the server sends back, on top of what we send it
type wireIncoming struct {
	ID          *uint64                  `json:"id"`
	Text        string                   `json:"text"`
	Annotations []wireIncomingAnnotation `json:"annotations"`
	ReplyTo     *uint64                  `json:"reply_to"`
	CreatedAt   string                   `json:"created_at"`
	User        *struct {
		Username string `json:"username"`
		Name     string `json:"name"`
	} `json:"user"`
}

type wireIncomingAnnotation struct {
	Type  string              `json:"type"`
	Value jsoniter.RawMessage `json:"value"`
}

// ErrNoMessageAnnotation is returned by DecodeWire if only attachment annotations were found.
var ErrNoMessageAnnotation = errors.New("opengroup: no message annotation")

// DecodeWire parses a message in the wire format.
// Next to the fields EncodeWire writes it understands the server envelope:
// id, user.username, user.name and created_at.
// A quote with a zero id and a signature with version zero or no data are treated as absent.
func DecodeWire(data []byte) (Message, error) {
	var in wireIncoming
	if err := json.Unmarshal(data, &in); err != nil {
		return Message{}, fmt.Errorf("opengroup: failed to decode message: %w", err)
	}

	var (
		value    *wireMessageValue
		typ      string
		attached []wireAttachmentValue
	)
	for i, an := range in.Annotations {
		if an.Type == AttachmentAnnotationType {
			var av wireAttachmentValue
			if err := json.Unmarshal(an.Value, &av); err != nil {
				return Message{}, fmt.Errorf("opengroup: annotation #%d: %w", i, err)
			}
			attached = append(attached, av)
			continue
		}
		if value != nil {
			continue
		}
		var mv wireMessageValue
		if err := json.Unmarshal(an.Value, &mv); err != nil {
			return Message{}, fmt.Errorf("opengroup: annotation #%d: %w", i, err)
		}
		value, typ = &mv, an.Type
	}
	if value == nil {
		return Message{}, ErrNoMessageAnnotation
	}

	var sender, name string
	if in.User != nil {
		sender, name = in.User.Username, in.User.Name
	}

	b := NewBuilder(sender, in.Text, value.Timestamp).
		Type(typ).
		DisplayName(name)

	if in.ID != nil {
		b.ServerID(*in.ID)
	}

	if in.CreatedAt != "" {
		created, err := time.Parse(time.RFC3339Nano, in.CreatedAt)
		if err != nil {
			return Message{}, fmt.Errorf("opengroup: invalid created_at: %w", err)
		}
		ms := created.UnixMilli()
		if ms < 0 {
			return Message{}, fmt.Errorf("opengroup: created_at %s is before 1970", in.CreatedAt)
		}
		b.ServerTimestamp(uint64(ms))
	}

	if q := value.Quote; q != nil && q.ID != 0 {
		quote := Quote{
			QuotedMessageTimestamp: q.ID,
			QuoteePublicKey:        q.Author,
			QuotedMessageBody:      q.Text,
		}
		if in.ReplyTo != nil && *in.ReplyTo != 0 {
			quote.QuotedMessageServerID = cloneUint64(in.ReplyTo)
		}
		b.Quote(quote)
	}

	if value.Sig != nil && *value.Sig != "" && value.SigVer != nil && *value.SigVer != 0 {
		sig, err := hex.DecodeString(*value.Sig)
		if err != nil {
			return Message{}, fmt.Errorf("opengroup: signature is not hex: %w", err)
		}
		b.Signature(Signature{Data: sig, Version: *value.SigVer})
	}

	if av := value.Avatar; av != nil {
		key, err := hex.DecodeString(av.ProfileKey)
		if err != nil {
			return Message{}, fmt.Errorf("opengroup: profile key is not hex: %w", err)
		}
		b.ProfilePicture(ProfilePicture{ProfileKey: key, URL: av.URL})
	}

	for _, av := range attached {
		b.AddAttachmentTag(av.LokiType, Attachment{
			Server:           av.Server,
			ServerID:         av.ID,
			ContentType:      av.ContentType,
			Size:             av.Size,
			FileName:         av.FileName,
			Width:            av.Width,
			Height:           av.Height,
			Caption:          av.Caption,
			URL:              av.URL,
			LinkPreviewURL:   av.LinkPreviewURL,
			LinkPreviewTitle: av.LinkPreviewTitle,
		})
	}

	return b.Build()
}

// DecodeWireFrom is DecodeWire for messages without a user envelope, like the ones EncodeWire produces.
// sender is used as the sender key if data doesn't name one.
func DecodeWireFrom(data []byte, sender string) (Message, error) {
	msg, err := DecodeWire(data)
	if err != nil {
		return Message{}, err
	}
	if msg.senderPublicKey == "" {
		msg.senderPublicKey = sender
	}
	return msg, nil
}

// UnmarshalJSON decodes the wire format, see DecodeWire.
func (msg *Message) UnmarshalJSON(data []byte) error {
	decoded, err := DecodeWire(data)
	if err != nil {
		return err
	}
	*msg = decoded
	return nil
}
