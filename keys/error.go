// SPDX-FileCopyrightText: 2021 The Go-SSB Authors
//
// SPDX-License-Identifier: MIT

package keys

import (
	"errors"
	"fmt"
)

type ErrorCode uint8

const (
	ErrorCodeInternal ErrorCode = iota
	ErrorCodeUnsupportedCurve
	ErrorCodeInvalidKey
)

func (code ErrorCode) String() string {
	switch code {
	case ErrorCodeInternal:
		return "internal keys error"
	case ErrorCodeUnsupportedCurve:
		return "unsupported curve"
	case ErrorCodeInvalidKey:
		return "invalid key"
	default:
		return ""
	}
}

type Error struct {
	Code  ErrorCode
	Field string

	Cause error
}

func (err Error) Unwrap() error { return err.Cause }

func (err Error) Error() string {
	if err.Code == ErrorCodeInternal && err.Cause != nil {
		return err.Cause.Error()
	}

	if err.Cause == nil {
		return fmt.Sprintf("keys: %s (%s)", err.Code, err.Field)
	}
	return fmt.Sprintf("keys: %s (%s): %s", err.Code, err.Field, err.Cause)
}

func IsInvalidKey(err error) bool {
	var kErr Error
	return errors.As(err, &kErr) && kErr.Code == ErrorCodeInvalidKey
}

func IsUnsupportedCurve(err error) bool {
	var kErr Error
	return errors.As(err, &kErr) && kErr.Code == ErrorCodeUnsupportedCurve
}
