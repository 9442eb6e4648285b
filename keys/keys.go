// SPDX-FileCopyrightText: 2021 The Go-SSB Authors
//
// SPDX-License-Identifier: MIT

// Package keys manages the ed25519 key pair of the local user and its secret file.
package keys

import (
	"bufio"
	"bytes"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"filippo.io/edwards25519"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/crypto/ed25519"

	"github.com/Sicuradata-Inc/session-ios/message/opengroup"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SessionIDPrefix is the version byte in front of a hex encoded public key.
const SessionIDPrefix = "05"

type KeyPair struct {
	Public ed25519.PublicKey
	Secret ed25519.PrivateKey
}

var _ opengroup.KeySource = (*KeyPair)(nil)

// the format of the secret file
type secretFile struct {
	Curve   string `json:"curve"`
	ID      string `json:"id"`
	Private string `json:"private"`
	Public  string `json:"public"`
}

// NewKeyPair generates a fresh key pair. r defaults to crypto/rand if nil.
func NewKeyPair(r io.Reader) (*KeyPair, error) {
	pub, sec, err := ed25519.GenerateKey(r)
	if err != nil {
		return nil, fmt.Errorf("keys: error building key pair: %w", err)
	}
	return &KeyPair{Public: pub, Secret: sec}, nil
}

// FromSeed derives the key pair of a 32 byte seed.
func FromSeed(seed []byte) (*KeyPair, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, Error{Code: ErrorCodeInvalidKey, Field: "seed", Cause: fmt.Errorf("got %d bytes", len(seed))}
	}
	sec := ed25519.NewKeyFromSeed(seed)
	return &KeyPair{Public: sec.Public().(ed25519.PublicKey), Secret: sec}, nil
}

// SessionID is the hex encoded public key with the version prefix, as used for the sender of a message.
func (kp KeyPair) SessionID() string {
	return SessionIDPrefix + hex.EncodeToString(kp.Public)
}

// CurvePublic returns the X25519 form of the public key.
func (kp KeyPair) CurvePublic() ([]byte, error) {
	p, err := edwards25519.NewIdentityPoint().SetBytes(kp.Public)
	if err != nil {
		return nil, Error{Code: ErrorCodeInvalidKey, Field: "public", Cause: err}
	}
	return p.BytesMontgomery(), nil
}

// UserPrivateKey makes a KeyPair usable as the key source of a signer.
func (kp *KeyPair) UserPrivateKey() (ed25519.PrivateKey, error) {
	if kp == nil || len(kp.Secret) != ed25519.PrivateKeySize {
		return nil, Error{Code: ErrorCodeInvalidKey, Field: "private"}
	}
	return kp.Secret, nil
}

// SaveKeyPair writes kp to a new file at path, readable only by the owner.
// An existing file is never overwritten.
func SaveKeyPair(kp *KeyPair, path string) error {
	if len(kp.Secret) != ed25519.PrivateKeySize || len(kp.Public) != ed25519.PublicKeySize {
		return Error{Code: ErrorCodeInvalidKey, Field: "keypair"}
	}

	var sec = secretFile{
		Curve:   "ed25519",
		ID:      kp.SessionID(),
		Private: hex.EncodeToString(kp.Secret),
		Public:  hex.EncodeToString(kp.Public),
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, SecretPerms)
	if err != nil {
		return fmt.Errorf("keys.SaveKeyPair: failed to create file: %w", err)
	}

	fmt.Fprintln(f, "# this is your secret key. never share it with anyone.")
	if err := json.NewEncoder(f).Encode(sec); err != nil {
		f.Close()
		return fmt.Errorf("keys.SaveKeyPair: json encoding failed: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("keys.SaveKeyPair: failed to close file: %w", err)
	}
	return nil
}

// LoadKeyPair opens fname, ignores any line starting with # and passes it ParseKeyPair.
// Files that are readable by others get their permissions tightened.
func LoadKeyPair(fname string) (*KeyPair, error) {
	info, err := os.Stat(fname)
	if err != nil {
		return nil, fmt.Errorf("keys.LoadKeyPair: could not stat key file %s: %w", fname, err)
	}
	if info.Mode().Perm() != SecretPerms {
		if err := os.Chmod(fname, SecretPerms); err != nil {
			return nil, fmt.Errorf("keys.LoadKeyPair: could not correct permissions of %s: %w", fname, err)
		}
	}

	f, err := os.Open(fname)
	if err != nil {
		return nil, fmt.Errorf("keys.LoadKeyPair: could not open key file %s: %w", fname, err)
	}
	defer f.Close()

	uncommented, err := stripComments(f)
	if err != nil {
		return nil, fmt.Errorf("keys.LoadKeyPair: could not read key file %s: %w", fname, err)
	}
	return ParseKeyPair(uncommented)
}

func stripComments(r io.Reader) (io.Reader, error) {
	var buf bytes.Buffer
	s := bufio.NewScanner(r)
	for s.Scan() {
		if strings.HasPrefix(strings.TrimSpace(s.Text()), "#") {
			continue
		}
		buf.Write(s.Bytes())
		buf.WriteByte('\n')
	}
	return &buf, s.Err()
}

// ParseKeyPair json decodes an object from the reader.
// It expects hex encoded keys under the `private` and `public` fields.
func ParseKeyPair(r io.Reader) (*KeyPair, error) {
	var s secretFile
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("keys.Parse: JSON decoding failed: %w", err)
	}

	if s.Curve != "ed25519" {
		return nil, Error{Code: ErrorCodeUnsupportedCurve, Field: s.Curve}
	}

	public, err := hex.DecodeString(s.Public)
	if err != nil {
		return nil, Error{Code: ErrorCodeInvalidKey, Field: "public", Cause: err}
	}
	if len(public) != ed25519.PublicKeySize {
		return nil, Error{Code: ErrorCodeInvalidKey, Field: "public", Cause: fmt.Errorf("got %d bytes", len(public))}
	}

	private, err := hex.DecodeString(s.Private)
	if err != nil {
		return nil, Error{Code: ErrorCodeInvalidKey, Field: "private", Cause: err}
	}
	if len(private) != ed25519.PrivateKeySize {
		return nil, Error{Code: ErrorCodeInvalidKey, Field: "private", Cause: fmt.Errorf("got %d bytes", len(private))}
	}

	kp := KeyPair{
		Public: ed25519.PublicKey(public),
		Secret: ed25519.PrivateKey(private),
	}

	derived := kp.Secret.Public().(ed25519.PublicKey)
	if subtle.ConstantTimeCompare(derived, kp.Public) != 1 {
		return nil, Error{Code: ErrorCodeInvalidKey, Field: "public", Cause: fmt.Errorf("does not match private key")}
	}
	if s.ID != "" && s.ID != kp.SessionID() {
		return nil, Error{Code: ErrorCodeInvalidKey, Field: "id", Cause: fmt.Errorf("does not match public key")}
	}

	return &kp, nil
}

// FileSource loads the key pair from Path every time a key is requested.
type FileSource struct {
	Path string
}

var _ opengroup.KeySource = FileSource{}

func (fs FileSource) UserPrivateKey() (ed25519.PrivateKey, error) {
	kp, err := LoadKeyPair(fs.Path)
	if err != nil {
		return nil, err
	}
	return kp.Secret, nil
}
