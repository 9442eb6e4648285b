// SPDX-FileCopyrightText: 2021 The Go-SSB Authors
//
// SPDX-License-Identifier: MIT

package opengroup

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Builder assembles a Message.
// Setters can be chained, problems are collected and reported by Build.
type Builder struct {
	msg  Message
	errs error
}

// NewBuilder starts a message with the fields every message has.
// The type defaults to PublicChatType.
func NewBuilder(senderPublicKey, body string, timestamp uint64) *Builder {
	return &Builder{
		msg: Message{
			senderPublicKey: senderPublicKey,
			body:            body,
			timestamp:       timestamp,
			typ:             PublicChatType,
		},
	}
}

func (b *Builder) DisplayName(name string) *Builder {
	b.msg.displayName = name
	return b
}

func (b *Builder) Type(typ string) *Builder {
	b.msg.typ = typ
	return b
}

func (b *Builder) ServerID(id uint64) *Builder {
	b.msg.serverID = &id
	return b
}

func (b *Builder) ServerTimestamp(ts uint64) *Builder {
	b.msg.serverTimestamp = ts
	return b
}

func (b *Builder) Quote(q Quote) *Builder {
	c := q.clone()
	b.msg.quote = &c
	return b
}

func (b *Builder) ProfilePicture(p ProfilePicture) *Builder {
	c := p.clone()
	b.msg.profilePicture = &c
	return b
}

func (b *Builder) Signature(sig Signature) *Builder {
	c := sig.clone()
	b.msg.signature = &c
	return b
}

// AddAttachment appends a to the attachment list. Validation happens in Build.
func (b *Builder) AddAttachment(a Attachment) *Builder {
	b.msg.attachments = append(b.msg.attachments, a.clone())
	return b
}

// AddAttachmentTag is AddAttachment for callers that only have the wire tag of the kind.
// An unknown tag is reported by Build and the attachment is dropped.
func (b *Builder) AddAttachmentTag(tag string, a Attachment) *Builder {
	kind, err := ParseAttachmentKind(tag)
	if err != nil {
		b.errs = multierror.Append(b.errs, err)
		return b
	}
	a.Kind = kind
	return b.AddAttachment(a)
}

// Build validates the collected fields and returns the finished message.
// Zero markers become absent values: a quote with timestamp 0, a quoted server id of 0
// and a signature without data or version are dropped.
// The builder can be used further without affecting the returned value.
func (b *Builder) Build() (Message, error) {
	var errs *multierror.Error
	if b.errs != nil {
		errs = multierror.Append(errs, b.errs)
	}
	for i, a := range b.msg.attachments {
		if err := a.Validate(); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("attachment #%d: %w", i, err))
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		return Message{}, err
	}
	msg := b.msg.clone()
	msg.dropZeroMarkers()
	return msg, nil
}
