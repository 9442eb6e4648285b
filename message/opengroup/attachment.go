// SPDX-FileCopyrightText: 2021 The Go-SSB Authors
//
// SPDX-License-Identifier: MIT

package opengroup

import (
	"fmt"
	"strings"
)

// AttachmentKind tells regular attachments and link previews apart
type AttachmentKind uint8

// The known attachment kinds
const (
	KindAttachment AttachmentKind = iota + 1
	KindLinkPreview
)

// ParseAttachmentKind turns the wire tag (lokiType) into an AttachmentKind.
func ParseAttachmentKind(tag string) (AttachmentKind, error) {
	switch tag {
	case "attachment":
		return KindAttachment, nil
	case "preview":
		return KindLinkPreview, nil
	default:
		return 0, Error{
			Code:  ErrorCodeMalformedAttachmentKind,
			Field: "lokiType",
			Cause: fmt.Errorf("unknown tag %q", tag),
		}
	}
}

// Valid returns true for the known kinds.
func (k AttachmentKind) Valid() bool {
	return k == KindAttachment || k == KindLinkPreview
}

// String returns the wire tag of the kind.
func (k AttachmentKind) String() string {
	switch k {
	case KindAttachment:
		return "attachment"
	case KindLinkPreview:
		return "preview"
	default:
		return fmt.Sprintf("AttachmentKind(%d)", uint8(k))
	}
}

// Attachment is a file or link preview that was uploaded to the group server before the message was sent.
type Attachment struct {
	Kind        AttachmentKind
	Server      string
	ServerID    uint64
	ContentType string
	Size        uint64
	FileName    string
	Flags       uint64
	Width       uint64
	Height      uint64
	Caption     *string
	URL         string

	// LinkPreviewURL and LinkPreviewTitle are set iff Kind is KindLinkPreview
	LinkPreviewURL   *string
	LinkPreviewTitle *string
}

// NETType classifies the attachment by the prefix of its content type.
// The group server API expects one of photo, video, audio or other.
func (a Attachment) NETType() string {
	switch {
	case strings.HasPrefix(a.ContentType, "image"):
		return "photo"
	case strings.HasPrefix(a.ContentType, "video"):
		return "video"
	case strings.HasPrefix(a.ContentType, "audio"):
		return "audio"
	default:
		return "other"
	}
}

// Validate checks the kind and the link preview fields.
func (a Attachment) Validate() error {
	if !a.Kind.Valid() {
		return Error{
			Code:  ErrorCodeMalformedAttachmentKind,
			Field: "kind",
			Cause: fmt.Errorf("attachment %d has kind %s", a.ServerID, a.Kind),
		}
	}

	isPreview := a.Kind == KindLinkPreview
	if (a.LinkPreviewURL != nil) != isPreview {
		return Error{
			Code:  ErrorCodeInvalidAttachment,
			Field: "linkPreviewUrl",
			Cause: fmt.Errorf("attachment %d of kind %s", a.ServerID, a.Kind),
		}
	}
	if (a.LinkPreviewTitle != nil) != isPreview {
		return Error{
			Code:  ErrorCodeInvalidAttachment,
			Field: "linkPreviewTitle",
			Cause: fmt.Errorf("attachment %d of kind %s", a.ServerID, a.Kind),
		}
	}
	return nil
}

func (a Attachment) clone() Attachment {
	a.Caption = cloneString(a.Caption)
	a.LinkPreviewURL = cloneString(a.LinkPreviewURL)
	a.LinkPreviewTitle = cloneString(a.LinkPreviewTitle)
	return a
}

func cloneAttachments(as []Attachment) []Attachment {
	if len(as) == 0 {
		return nil
	}
	out := make([]Attachment, len(as))
	for i, a := range as {
		out[i] = a.clone()
	}
	return out
}
