// SPDX-FileCopyrightText: 2021 The Go-SSB Authors
//
// SPDX-License-Identifier: MIT

package opengroup

import (
	"fmt"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"golang.org/x/crypto/ed25519"
)

// Signer signs and verifies messages.
// It holds no mutable state and can be shared between goroutines.
type Signer struct {
	keys KeySource
	prim Primitive

	log log.Logger

	signs    metrics.Counter
	verifies metrics.Counter
}

// Option configures a Signer
type Option func(*Signer) error

// WithPrimitive replaces the ed25519 default.
func WithPrimitive(p Primitive) Option {
	return func(s *Signer) error {
		if p == nil {
			return fmt.Errorf("opengroup: nil primitive")
		}
		s.prim = p
		return nil
	}
}

func WithLogger(l log.Logger) Option {
	return func(s *Signer) error {
		s.log = l
		return nil
	}
}

// WithCounters counts sign and verify calls, labeled by "outcome".
func WithCounters(signs, verifies metrics.Counter) Option {
	return func(s *Signer) error {
		if signs != nil {
			s.signs = signs
		}
		if verifies != nil {
			s.verifies = verifies
		}
		return nil
	}
}

// NewSigner returns a Signer that takes private keys from keys.
// keys may be nil for a Signer that only verifies.
func NewSigner(keys KeySource, opts ...Option) (*Signer, error) {
	s := &Signer{
		keys:     keys,
		prim:     Ed25519{},
		log:      log.NewNopLogger(),
		signs:    discard.NewCounter(),
		verifies: discard.NewCounter(),
	}
	for i, o := range opts {
		if err := o(s); err != nil {
			return nil, fmt.Errorf("opengroup: signer option %d failed: %w", i, err)
		}
	}
	return s, nil
}

var defaultSigner = &Signer{
	prim:     Ed25519{},
	log:      log.NewNopLogger(),
	signs:    discard.NewCounter(),
	verifies: discard.NewCounter(),
}

// Sign signs msg with priv using the ed25519 default.
func Sign(msg Message, priv ed25519.PrivateKey) (Message, error) {
	return defaultSigner.SignWithKey(msg, priv)
}

// Sign fetches the users private key from the key source and signs msg with it.
func (s *Signer) Sign(msg Message) (Message, error) {
	if s.keys == nil {
		s.signs.With("outcome", "error").Add(1)
		return Message{}, Error{Code: ErrorCodeSigning, Cause: fmt.Errorf("no key source")}
	}

	key, err := s.keys.UserPrivateKey()
	if err != nil {
		level.Warn(s.log).Log("event", "sign", "msg", "failed to get user key", "err", err)
		s.signs.With("outcome", "error").Add(1)
		return Message{}, Error{Code: ErrorCodeSigning, Field: "key", Cause: err}
	}

	return s.SignWithKey(msg, key)
}

// SignWithKey returns a copy of msg with a signature over its validation data.
// msg itself is left alone, also when signing fails.
func (s *Signer) SignWithKey(msg Message, key ed25519.PrivateKey) (Message, error) {
	data, err := ValidationData(msg, SignatureVersion)
	if err != nil {
		level.Warn(s.log).Log("event", "sign", "msg", "failed to build validation data", "err", err)
		s.signs.With("outcome", "error").Add(1)
		return Message{}, err
	}

	sig, err := s.prim.Sign(data, key)
	if err != nil {
		level.Warn(s.log).Log("event", "sign", "msg", "failed to sign open group message", "err", err)
		s.signs.With("outcome", "error").Add(1)
		return Message{}, Error{Code: ErrorCodeSigning, Cause: err}
	}

	s.signs.With("outcome", "ok").Add(1)
	return msg.WithSignature(Signature{Data: sig, Version: SignatureVersion}), nil
}
