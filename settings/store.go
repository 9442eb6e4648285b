// SPDX-FileCopyrightText: 2021 The Go-SSB Authors
//
// SPDX-License-Identifier: MIT

// Package settings is a small typed key/value store for the preferences of the local user.
//
// Values are msgpack encoded and kept in a Backend, either in memory or in a badger database.
// Dates are stored as nanoseconds since the unix epoch.
package settings

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ugorji/go/codec"
)

// Backend holds the encoded values by their raw key name.
type Backend interface {
	Get(name string) ([]byte, bool, error)
	Set(name string, value []byte) error
	Delete(name string) error

	io.Closer
}

// ErrClosed is returned by backends that were used after Close.
var ErrClosed = errors.New("settings: backend closed")

type Store struct {
	backend Backend
	handle  *codec.MsgpackHandle
}

func New(b Backend) *Store {
	var mh codec.MsgpackHandle
	mh.WriteExt = true
	return &Store{
		backend: b,
		handle:  &mh,
	}
}

// Get returns the value stored under k and whether there was one.
func Get[T any](s *Store, k Key[T]) (T, bool, error) {
	var zero T

	raw, has, err := s.backend.Get(k.name)
	if err != nil {
		return zero, false, fmt.Errorf("settings: failed to get %s: %w", k, err)
	}
	if !has {
		return zero, false, nil
	}

	if _, isDate := any(zero).(time.Time); isDate {
		var nanos int64
		if err := s.decode(raw, &nanos); err != nil {
			return zero, false, fmt.Errorf("settings: failed to decode %s: %w", k, err)
		}
		return any(time.Unix(0, nanos)).(T), true, nil
	}

	var v T
	if err := s.decode(raw, &v); err != nil {
		return zero, false, fmt.Errorf("settings: failed to decode %s: %w", k, err)
	}
	return v, true, nil
}

// Set stores v under k, replacing what was there.
func Set[T any](s *Store, k Key[T], v T) error {
	var value interface{} = v
	if t, isDate := value.(time.Time); isDate {
		value = t.UnixNano()
	}

	raw, err := s.encode(value)
	if err != nil {
		return fmt.Errorf("settings: failed to encode %s: %w", k, err)
	}
	if err := s.backend.Set(k.name, raw); err != nil {
		return fmt.Errorf("settings: failed to set %s: %w", k, err)
	}
	return nil
}

// Remove deletes the value stored under name. Removing a missing value is not an error.
func (s *Store) Remove(name string) error {
	if err := s.backend.Delete(name); err != nil {
		return fmt.Errorf("settings: failed to remove %s: %w", name, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) encode(v interface{}) ([]byte, error) {
	var buf []byte
	enc := codec.NewEncoderBytes(&buf, s.handle)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf, nil
}

func (s *Store) decode(raw []byte, v interface{}) error {
	dec := codec.NewDecoderBytes(raw, s.handle)
	return dec.Decode(v)
}

// Bool returns false if k was never set.
func (s *Store) Bool(k BoolKey) (bool, error) {
	v, _, err := Get(s, k)
	return v, err
}

// Double returns 0 if k was never set.
func (s *Store) Double(k DoubleKey) (float64, error) {
	v, _, err := Get(s, k)
	return v, err
}

// Int returns 0 if k was never set.
func (s *Store) Int(k IntKey) (int, error) {
	v, _, err := Get(s, k)
	return v, err
}

func (s *Store) Date(k DateKey) (time.Time, bool, error) {
	return Get(s, k)
}

func (s *Store) String(k StringKey) (string, bool, error) {
	return Get(s, k)
}
