// SPDX-FileCopyrightText: 2021 The Go-SSB Authors
//
// SPDX-License-Identifier: MIT

// Package opengroup implements the messages exchanged with an open group server:
// the immutable message value, the validation data that gets signed, the
// signer and verifier around it and the legacy annotation based wire format.
//
// The validation data is a plain concatenation of decimal numbers and trimmed strings.
// Signer and verifier have to agree on it byte by byte. Absent optional parts contribute nothing.
package opengroup

import (
	"fmt"
)

// SignatureVersion is the version of the validation data construction used for new signatures.
const SignatureVersion uint64 = 1

// AttachmentAnnotationType is the annotation type used for attachments and link previews.
const AttachmentAnnotationType = "net.app.core.oembed"

// PublicChatType is the annotation type of regular open group chat messages.
const PublicChatType = "network.loki.messenger.publicChat"

// Quote references an earlier message of the same group.
type Quote struct {
	QuotedMessageTimestamp uint64
	QuoteePublicKey        string
	QuotedMessageBody      string
	QuotedMessageServerID  *uint64
}

func (q Quote) clone() Quote {
	q.QuotedMessageServerID = cloneUint64(q.QuotedMessageServerID)
	return q
}

// Signature holds the ed25519 signature over the validation data of the given version.
type Signature struct {
	Data    []byte
	Version uint64
}

func (s Signature) clone() Signature {
	s.Data = cloneBytes(s.Data)
	return s
}

// ProfilePicture is the avatar of the sender.
type ProfilePicture struct {
	ProfileKey []byte
	URL        string
}

func (p ProfilePicture) clone() ProfilePicture {
	p.ProfileKey = cloneBytes(p.ProfileKey)
	return p
}

// Message is a single open group message.
// It is never changed after it was built, use WithSignature to get a signed copy.
type Message struct {
	serverID        *uint64
	senderPublicKey string
	displayName     string
	profilePicture  *ProfilePicture
	body            string
	timestamp       uint64 // ms since epoch, set by the author
	typ             string
	quote           *Quote
	attachments     []Attachment
	signature       *Signature
	serverTimestamp uint64 // ms since epoch, used for sorting
}

// ServerID returns the id the server assigned to the message.
func (msg Message) ServerID() (uint64, bool) {
	if msg.serverID == nil {
		return 0, false
	}
	return *msg.serverID, true
}

// ServerIDOrZero is ServerID with zero standing in for an unsent message.
func (msg Message) ServerIDOrZero() uint64 {
	id, _ := msg.ServerID()
	return id
}

func (msg Message) SenderPublicKey() string { return msg.senderPublicKey }
func (msg Message) DisplayName() string     { return msg.displayName }
func (msg Message) Body() string            { return msg.body }
func (msg Message) Type() string            { return msg.typ }

// Timestamp is the time the author created the message, in milliseconds since the epoch.
func (msg Message) Timestamp() uint64 { return msg.timestamp }

// ServerTimestamp is the time the server received the message, in milliseconds since the epoch.
// It is only meant for ordering and not covered by the signature.
func (msg Message) ServerTimestamp() uint64 { return msg.serverTimestamp }

func (msg Message) Quote() (Quote, bool) {
	if msg.quote == nil {
		return Quote{}, false
	}
	return msg.quote.clone(), true
}

func (msg Message) Signature() (Signature, bool) {
	if msg.signature == nil {
		return Signature{}, false
	}
	return msg.signature.clone(), true
}

func (msg Message) ProfilePicture() (ProfilePicture, bool) {
	if msg.profilePicture == nil {
		return ProfilePicture{}, false
	}
	return msg.profilePicture.clone(), true
}

// Attachments returns a copy of the attachments in the order they were added.
func (msg Message) Attachments() []Attachment {
	return cloneAttachments(msg.attachments)
}

// WithSignature returns a copy of msg that carries sig.
// A signature without data or version leaves the copy unsigned.
func (msg Message) WithSignature(sig Signature) Message {
	signed := msg.clone()
	s := sig.clone()
	signed.signature = &s
	signed.dropZeroMarkers()
	return signed
}

// dropZeroMarkers turns the zero values that stand for "absent" on the wire into nil.
// The signed payload must not change over a round trip through DecodeWire.
func (msg *Message) dropZeroMarkers() {
	if q := msg.quote; q != nil {
		if q.QuotedMessageTimestamp == 0 {
			msg.quote = nil
		} else if q.QuotedMessageServerID != nil && *q.QuotedMessageServerID == 0 {
			q.QuotedMessageServerID = nil
		}
	}
	if s := msg.signature; s != nil && (len(s.Data) == 0 || s.Version == 0) {
		msg.signature = nil
	}
}

func (msg Message) clone() Message {
	c := msg
	c.serverID = cloneUint64(msg.serverID)
	if msg.profilePicture != nil {
		p := msg.profilePicture.clone()
		c.profilePicture = &p
	}
	if msg.quote != nil {
		q := msg.quote.clone()
		c.quote = &q
	}
	if msg.signature != nil {
		s := msg.signature.clone()
		c.signature = &s
	}
	c.attachments = cloneAttachments(msg.attachments)
	return c
}

func (msg Message) String() string {
	id := "unsent"
	if sid, ok := msg.ServerID(); ok {
		id = fmt.Sprint(sid)
	}
	_, signed := msg.Signature()
	return fmt.Sprintf("opengroup(%s:%s) ts:%d attachments:%d signed:%v",
		id, msg.senderPublicKey, msg.timestamp, len(msg.attachments), signed)
}

func cloneUint64(v *uint64) *uint64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}
