// SPDX-FileCopyrightText: 2021 The Go-SSB Authors
//
// SPDX-License-Identifier: MIT

package opengroup

import (
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func u64Ptr(v uint64) *uint64 { return &v }

func testAttachment(id uint64) Attachment {
	return Attachment{
		Kind:        KindAttachment,
		Server:      "https://file.example",
		ServerID:    id,
		ContentType: "image/png",
		Size:        1024,
		FileName:    "cat.png",
		Width:       640,
		Height:      480,
		URL:         "https://file.example/cat.png",
	}
}

func TestBuilderDefaults(t *testing.T) {
	a, r := assert.New(t), require.New(t)

	msg, err := NewBuilder("05abc", "hello", 42).Build()
	r.NoError(err)

	a.Equal("05abc", msg.SenderPublicKey())
	a.Equal("hello", msg.Body())
	a.EqualValues(42, msg.Timestamp())
	a.Equal(PublicChatType, msg.Type())

	_, has := msg.ServerID()
	a.False(has)
	a.EqualValues(0, msg.ServerIDOrZero())
	_, has = msg.Quote()
	a.False(has)
	_, has = msg.Signature()
	a.False(has)
	_, has = msg.ProfilePicture()
	a.False(has)
	a.Empty(msg.Attachments())
}

func TestBuilderCopiesInput(t *testing.T) {
	a, r := assert.New(t), require.New(t)

	att := testAttachment(7)
	att.Caption = strPtr("original")
	sigData := []byte{1, 2, 3}
	qid := uint64(99)

	b := NewBuilder("05abc", "hello", 42).
		ServerID(12).
		Quote(Quote{QuotedMessageTimestamp: 1, QuoteePublicKey: "05def", QuotedMessageServerID: &qid}).
		Signature(Signature{Data: sigData, Version: 1}).
		AddAttachment(att)

	msg, err := b.Build()
	r.NoError(err)

	// mutate everything the caller still holds
	*att.Caption = "changed"
	sigData[0] = 0xff
	qid = 100
	b.AddAttachment(testAttachment(8)).ServerID(13)

	atts := msg.Attachments()
	r.Len(atts, 1)
	a.Equal("original", *atts[0].Caption)

	sig, ok := msg.Signature()
	r.True(ok)
	a.Equal([]byte{1, 2, 3}, sig.Data)

	q, ok := msg.Quote()
	r.True(ok)
	a.EqualValues(99, *q.QuotedMessageServerID)

	id, ok := msg.ServerID()
	r.True(ok)
	a.EqualValues(12, id)

	// accessors hand out copies, too
	*atts[0].Caption = "changed again"
	sig.Data[1] = 0xff
	a.Equal("original", *msg.Attachments()[0].Caption)
	again, _ := msg.Signature()
	a.Equal([]byte{1, 2, 3}, again.Data)
}

func TestWithSignatureReturnsCopy(t *testing.T) {
	a, r := assert.New(t), require.New(t)

	msg, err := NewBuilder("05abc", "hello", 42).Build()
	r.NoError(err)

	signed := msg.WithSignature(Signature{Data: []byte("sig"), Version: 1})

	_, has := msg.Signature()
	a.False(has, "original must stay unsigned")

	sig, has := signed.Signature()
	r.True(has)
	a.Equal([]byte("sig"), sig.Data)
	a.EqualValues(1, sig.Version)
	a.Equal(msg.Body(), signed.Body())
}

func TestBuilderDropsZeroMarkers(t *testing.T) {
	a, r := assert.New(t), require.New(t)

	msg, err := NewBuilder("05abc", "hello", 42).
		Quote(Quote{QuotedMessageTimestamp: 1500, QuoteePublicKey: "05def", QuotedMessageServerID: u64Ptr(0)}).
		Signature(Signature{Data: []byte{1}, Version: 0}).
		Build()
	r.NoError(err)

	q, has := msg.Quote()
	r.True(has)
	a.Nil(q.QuotedMessageServerID, "quoted server id 0 means absent")
	_, has = msg.Signature()
	a.False(has, "signature version 0 means unsigned")

	msg, err = NewBuilder("05abc", "hello", 42).
		Quote(Quote{QuotedMessageTimestamp: 0, QuoteePublicKey: "05def", QuotedMessageBody: "gone"}).
		Signature(Signature{Version: 1}).
		Build()
	r.NoError(err)

	_, has = msg.Quote()
	a.False(has, "quote timestamp 0 means no quote")
	_, has = msg.Signature()
	a.False(has, "signature without data")

	unsigned := msg.WithSignature(Signature{Data: []byte("sig")})
	_, has = unsigned.Signature()
	a.False(has)
}

func TestBuilderRejectsBrokenAttachments(t *testing.T) {
	type tcase struct {
		name  string
		tag   string
		att   Attachment
		check func(error) bool
	}

	preview := testAttachment(3)
	preview.LinkPreviewURL = strPtr("https://example.com")
	preview.LinkPreviewTitle = strPtr("Example")

	previewNoTitle := preview
	previewNoTitle.LinkPreviewTitle = nil

	attachmentWithURL := testAttachment(4)
	attachmentWithURL.LinkPreviewURL = strPtr("https://example.com")

	tcs := []tcase{
		{"unknown tag", "gif", testAttachment(1), IsMalformedAttachmentKind},
		{"empty tag", "", testAttachment(1), IsMalformedAttachmentKind},
		{"preview without title", "preview", previewNoTitle, IsInvalidAttachment},
		{"attachment with preview url", "attachment", attachmentWithURL, IsInvalidAttachment},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewBuilder("05abc", "hello", 42).AddAttachmentTag(tc.tag, tc.att).Build()
			require.Error(t, err)
			assert.True(t, tc.check(err), "unexpected error: %s", err)
		})
	}

	t.Run("valid preview", func(t *testing.T) {
		msg, err := NewBuilder("05abc", "hello", 42).AddAttachmentTag("preview", preview).Build()
		require.NoError(t, err)
		require.Len(t, msg.Attachments(), 1)
		assert.Equal(t, KindLinkPreview, msg.Attachments()[0].Kind)
	})

	t.Run("zero kind", func(t *testing.T) {
		att := testAttachment(5)
		att.Kind = 0
		_, err := NewBuilder("05abc", "hello", 42).AddAttachment(att).Build()
		require.Error(t, err)
		assert.True(t, IsMalformedAttachmentKind(err))
	})

	t.Run("all problems are reported", func(t *testing.T) {
		_, err := NewBuilder("05abc", "hello", 42).
			AddAttachmentTag("gif", testAttachment(1)).
			AddAttachmentTag("preview", previewNoTitle).
			Build()
		require.Error(t, err)

		merr, ok := err.(*multierror.Error)
		require.True(t, ok, "expected a multierror, got %T", err)
		assert.Len(t, merr.Errors, 2)
	})
}

func TestParseAttachmentKind(t *testing.T) {
	a := assert.New(t)

	k, err := ParseAttachmentKind("attachment")
	a.NoError(err)
	a.Equal(KindAttachment, k)
	a.Equal("attachment", k.String())

	k, err = ParseAttachmentKind("preview")
	a.NoError(err)
	a.Equal(KindLinkPreview, k)
	a.Equal("preview", k.String())

	_, err = ParseAttachmentKind("linkPreview")
	a.True(IsMalformedAttachmentKind(err))
}

func TestAttachmentNETType(t *testing.T) {
	tcs := map[string]string{
		"image/png":                "photo",
		"image/jpeg":               "photo",
		"video/mp4":                "video",
		"audio/mp3":                "audio",
		"text/plain":               "other",
		"application/octet-stream": "other",
		"":                         "other",
	}
	for contentType, want := range tcs {
		att := testAttachment(1)
		att.ContentType = contentType
		assert.Equal(t, want, att.NETType(), "content type %q", contentType)
	}
}

func TestFromLegacy(t *testing.T) {
	quotee := "05def"

	t.Run("zero quote timestamp means no quote", func(t *testing.T) {
		msg, err := FromLegacy(LegacyFields{
			SenderPublicKey:   "05abc",
			Body:              "hi",
			Timestamp:         1000,
			QuoteePublicKey:   &quotee,
			QuotedMessageBody: "ignored",
		})
		require.NoError(t, err)
		_, has := msg.Quote()
		assert.False(t, has)
	})

	t.Run("missing quotee means no quote", func(t *testing.T) {
		msg, err := FromLegacy(LegacyFields{
			SenderPublicKey:        "05abc",
			Body:                   "hi",
			Timestamp:              1000,
			QuotedMessageTimestamp: 900,
		})
		require.NoError(t, err)
		_, has := msg.Quote()
		assert.False(t, has)
	})

	t.Run("zero quote server id is absent", func(t *testing.T) {
		msg, err := FromLegacy(LegacyFields{
			SenderPublicKey:        "05abc",
			Body:                   "hi",
			Timestamp:              1000,
			QuotedMessageTimestamp: 900,
			QuoteePublicKey:        &quotee,
			QuotedMessageBody:      "earlier",
		})
		require.NoError(t, err)
		q, has := msg.Quote()
		require.True(t, has)
		assert.EqualValues(t, 900, q.QuotedMessageTimestamp)
		assert.Equal(t, quotee, q.QuoteePublicKey)
		assert.Nil(t, q.QuotedMessageServerID)
	})

	t.Run("quote server id", func(t *testing.T) {
		msg, err := FromLegacy(LegacyFields{
			SenderPublicKey:        "05abc",
			Timestamp:              1000,
			QuotedMessageTimestamp: 900,
			QuoteePublicKey:        &quotee,
			QuotedMessageServerID:  17,
		})
		require.NoError(t, err)
		q, has := msg.Quote()
		require.True(t, has)
		require.NotNil(t, q.QuotedMessageServerID)
		assert.EqualValues(t, 17, *q.QuotedMessageServerID)
	})

	t.Run("signature needs data and version", func(t *testing.T) {
		msg, err := FromLegacy(LegacyFields{SenderPublicKey: "05abc", SignatureData: []byte{1}, SignatureVersion: 0})
		require.NoError(t, err)
		_, has := msg.Signature()
		assert.False(t, has)

		msg, err = FromLegacy(LegacyFields{SenderPublicKey: "05abc", SignatureVersion: 1})
		require.NoError(t, err)
		_, has = msg.Signature()
		assert.False(t, has)

		msg, err = FromLegacy(LegacyFields{SenderPublicKey: "05abc", SignatureData: []byte{1}, SignatureVersion: 1})
		require.NoError(t, err)
		sig, has := msg.Signature()
		require.True(t, has)
		assert.Equal(t, Signature{Data: []byte{1}, Version: 1}, sig)
	})

	t.Run("type and attachments", func(t *testing.T) {
		msg, err := FromLegacy(LegacyFields{
			SenderPublicKey: "05abc",
			Type:            "custom",
			ServerTimestamp: 5000,
			Attachments: []LegacyAttachment{
				{Kind: "attachment", Attachment: testAttachment(2)},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "custom", msg.Type())
		assert.EqualValues(t, 5000, msg.ServerTimestamp())
		require.Len(t, msg.Attachments(), 1)
		assert.Equal(t, KindAttachment, msg.Attachments()[0].Kind)
	})

	t.Run("unknown attachment tag", func(t *testing.T) {
		_, err := FromLegacy(LegacyFields{
			SenderPublicKey: "05abc",
			Attachments:     []LegacyAttachment{{Kind: "sticker", Attachment: testAttachment(2)}},
		})
		assert.True(t, IsMalformedAttachmentKind(err))
	})
}
