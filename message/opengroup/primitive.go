// SPDX-FileCopyrightText: 2021 The Go-SSB Authors
//
// SPDX-License-Identifier: MIT

package opengroup

import (
	"encoding/hex"
	"fmt"

	"filippo.io/edwards25519"
	"golang.org/x/crypto/ed25519"
)

// Primitive is the signature scheme used by the Signer.
type Primitive interface {
	Sign(payload, key []byte) ([]byte, error)
	Verify(sig, publicKey, payload []byte) bool
}

// KeySource hands out the private key of the local user.
type KeySource interface {
	UserPrivateKey() (ed25519.PrivateKey, error)
}

// Ed25519 is the default Primitive.
type Ed25519 struct{}

var _ Primitive = Ed25519{}

// Sign signs payload with an ed25519 private key.
func (Ed25519) Sign(payload, key []byte) ([]byte, error) {
	if n := len(key); n != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("invalid ed25519 private key length: got %d want %d", n, ed25519.PrivateKeySize)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("payload is required")
	}
	return ed25519.Sign(ed25519.PrivateKey(key), payload), nil
}

// Verify checks sig against publicKey and payload.
// Keys that don't decode to a point on the curve are rejected up front.
func (Ed25519) Verify(sig, publicKey, payload []byte) bool {
	if len(publicKey) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	if _, err := edwards25519.NewIdentityPoint().SetBytes(publicKey); err != nil {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(publicKey), payload, sig)
}

// PublicKeyFromHex decodes a hex encoded public key.
// Session ids carry a single version byte in front of the key, it is stripped if present.
func PublicKeyFromHex(s string) ([]byte, error) {
	if len(s) == 2*(ed25519.PublicKeySize+1) {
		s = s[2:]
	}
	pub, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("opengroup: public key is not hex: %w", err)
	}
	if n := len(pub); n != ed25519.PublicKeySize {
		return nil, fmt.Errorf("opengroup: public key has %d bytes", n)
	}
	return pub, nil
}
