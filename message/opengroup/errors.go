// SPDX-FileCopyrightText: 2021 The Go-SSB Authors
//
// SPDX-License-Identifier: MIT

package opengroup

import (
	"errors"
	"fmt"
)

// ErrorCode is part of this packages Error type to signal a few specific errors
type ErrorCode uint8

// The known error codes
const (
	ErrorCodeInternal ErrorCode = iota
	ErrorCodePayloadEncoding
	ErrorCodeSigning
	ErrorCodeMalformedAttachmentKind
	ErrorCodeInvalidAttachment
)

func (code ErrorCode) String() string {
	switch code {
	case ErrorCodeInternal:
		return "opengroup: internal error"
	case ErrorCodePayloadEncoding:
		return "opengroup: validation data encoding failed"
	case ErrorCodeSigning:
		return "opengroup: signing failed"
	case ErrorCodeMalformedAttachmentKind:
		return "opengroup: malformed attachment kind"
	case ErrorCodeInvalidAttachment:
		return "opengroup: invalid attachment"
	default:
		panic("unhandled error code")
	}
}

// Error is returned by the codec and the signer
type Error struct {
	Code ErrorCode

	// Field names the part of the message that caused the error, if any.
	Field string

	Cause error
}

func (err Error) Unwrap() error {
	return err.Cause
}

func (err Error) Error() string {
	if err.Code == ErrorCodeInternal && err.Cause != nil {
		return err.Cause.Error()
	}

	msg := err.Code.String()
	if err.Field != "" {
		msg = fmt.Sprintf("%s (%s)", msg, err.Field)
	}
	if err.Cause != nil {
		msg = fmt.Sprintf("%s: %s", msg, err.Cause)
	}
	return msg
}

func hasCode(err error, code ErrorCode) bool {
	var ogErr Error
	if !errors.As(err, &ogErr) {
		return false
	}
	return ogErr.Code == code
}

// IsPayloadEncoding returns true if building the validation data failed.
func IsPayloadEncoding(err error) bool { return hasCode(err, ErrorCodePayloadEncoding) }

// IsSigning returns true if the key source or the signature primitive failed.
func IsSigning(err error) bool { return hasCode(err, ErrorCodeSigning) }

// IsMalformedAttachmentKind returns true if an unknown attachment kind tag was used.
func IsMalformedAttachmentKind(err error) bool {
	return hasCode(err, ErrorCodeMalformedAttachmentKind)
}

// IsInvalidAttachment returns true if the link preview fields of an attachment did not match its kind.
func IsInvalidAttachment(err error) bool { return hasCode(err, ErrorCodeInvalidAttachment) }
