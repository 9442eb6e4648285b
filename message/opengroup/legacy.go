// SPDX-FileCopyrightText: 2021 The Go-SSB Authors
//
// SPDX-License-Identifier: MIT

package opengroup

// LegacyFields is the flat shape older callers use, where zero stands in for absent values.
type LegacyFields struct {
	SenderPublicKey string
	DisplayName     string
	Body            string
	Type            string
	Timestamp       uint64

	QuotedMessageTimestamp uint64
	QuoteePublicKey        *string
	QuotedMessageBody      string
	QuotedMessageServerID  uint64

	SignatureData    []byte
	SignatureVersion uint64

	ServerTimestamp uint64

	// Attachments are added by their wire kind tag
	Attachments []LegacyAttachment
}

// LegacyAttachment is an attachment whose kind is still the wire tag.
type LegacyAttachment struct {
	Kind string
	Attachment
}

// FromLegacy converts the zero sentinels of f into real optionals.
// A quote needs a non-zero timestamp and a quotee, a signature needs data and a non-zero version.
func FromLegacy(f LegacyFields) (Message, error) {
	b := NewBuilder(f.SenderPublicKey, f.Body, f.Timestamp).
		DisplayName(f.DisplayName).
		ServerTimestamp(f.ServerTimestamp)

	if f.Type != "" {
		b.Type(f.Type)
	}

	if f.QuotedMessageTimestamp != 0 && f.QuoteePublicKey != nil {
		q := Quote{
			QuotedMessageTimestamp: f.QuotedMessageTimestamp,
			QuoteePublicKey:        *f.QuoteePublicKey,
			QuotedMessageBody:      f.QuotedMessageBody,
		}
		if id := f.QuotedMessageServerID; id != 0 {
			q.QuotedMessageServerID = &id
		}
		b.Quote(q)
	}

	if f.SignatureData != nil && f.SignatureVersion != 0 {
		b.Signature(Signature{Data: f.SignatureData, Version: f.SignatureVersion})
	}

	for _, la := range f.Attachments {
		b.AddAttachmentTag(la.Kind, la.Attachment)
	}

	return b.Build()
}
