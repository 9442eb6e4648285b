// SPDX-FileCopyrightText: 2021 The Go-SSB Authors
//
// SPDX-License-Identifier: MIT

package opengroup

import (
	"context"

	"github.com/go-kit/kit/log/level"
	"golang.org/x/sync/errgroup"
)

// Verify checks the signature of msg with the ed25519 default.
func Verify(msg Message) bool {
	return defaultSigner.Verify(msg)
}

// Verify returns true if msg carries a valid signature of its sender.
// The validation data is rebuilt with the version stored in the signature.
// Any problem, like a missing signature or an undecodable sender key, yields false.
func (s *Signer) Verify(msg Message) bool {
	ok := s.verify(msg)
	outcome := "invalid"
	if ok {
		outcome = "valid"
	}
	s.verifies.With("outcome", outcome).Add(1)
	return ok
}

func (s *Signer) verify(msg Message) bool {
	sig, has := msg.Signature()
	if !has {
		return false
	}

	data, err := ValidationData(msg, sig.Version)
	if err != nil {
		level.Debug(s.log).Log("event", "verify", "msg", msg.String(), "err", err)
		return false
	}

	pub, err := PublicKeyFromHex(msg.SenderPublicKey())
	if err != nil {
		level.Debug(s.log).Log("event", "verify", "msg", msg.String(), "err", err)
		return false
	}

	return s.prim.Verify(sig.Data, pub, data)
}

// VerifyAll verifies msgs with at most workers goroutines.
// The result has one entry per message, in the same order.
// An error is only returned if ctx is canceled before all messages are checked.
func (s *Signer) VerifyAll(ctx context.Context, msgs []Message, workers int) ([]bool, error) {
	if workers < 1 {
		workers = 1
	}

	results := make([]bool, len(msgs))

	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(workers)
	for i := range msgs {
		i := i
		if err := gctx.Err(); err != nil {
			grp.Wait()
			return nil, err
		}
		grp.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.Verify(msgs[i])
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
