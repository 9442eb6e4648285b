// SPDX-FileCopyrightText: 2021 The Go-SSB Authors
//
// SPDX-License-Identifier: MIT

package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type op interface {
	Do(t *testing.T, s *Store)
}

type opSet[T any] struct {
	Key   Key[T]
	Value T

	ExpErr string
}

func (op opSet[T]) Do(t *testing.T, s *Store) {
	err := Set(s, op.Key, op.Value)
	if op.ExpErr == "" {
		require.NoError(t, err, "unexpected error on set %s", op.Key)
	} else {
		require.EqualErrorf(t, err, op.ExpErr, "expected error %q on set, got %v", op.ExpErr, err)
	}
}

type opGet[T any] struct {
	Key Key[T]

	ExpValue T
	ExpHas   bool
}

func (op opGet[T]) Do(t *testing.T, s *Store) {
	v, has, err := Get(s, op.Key)
	require.NoError(t, err, "unexpected error on get %s", op.Key)
	assert.Equal(t, op.ExpHas, has, "presence of %s", op.Key)
	assert.Equal(t, op.ExpValue, v, "value of %s", op.Key)
}

type opRemove struct {
	Name string
}

func (op opRemove) Do(t *testing.T, s *Store) {
	require.NoError(t, s.Remove(op.Name))
}

type opSetText struct {
	Name, Text string

	ExpErr bool
}

func (op opSetText) Do(t *testing.T, s *Store) {
	err := s.SetText(op.Name, op.Text)
	if op.ExpErr {
		require.Error(t, err, "set %s to %q", op.Name, op.Text)
	} else {
		require.NoError(t, err, "set %s to %q", op.Name, op.Text)
	}
}

type opText struct {
	Name string

	ExpText string
	ExpHas  bool
}

func (op opText) Do(t *testing.T, s *Store) {
	text, has, err := s.Text(op.Name)
	require.NoError(t, err)
	assert.Equal(t, op.ExpHas, has, "presence of %s", op.Name)
	assert.Equal(t, op.ExpText, text, "text of %s", op.Name)
}

type opFunc func(t *testing.T, s *Store)

func (op opFunc) Do(t *testing.T, s *Store) { op(t, s) }

func runOps(t *testing.T, s *Store, ops []op) {
	for _, op := range ops {
		op.Do(t, s)
	}
}
