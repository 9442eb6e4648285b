// SPDX-FileCopyrightText: 2021 The Go-SSB Authors
//
// SPDX-License-Identifier: MIT

package settings

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"
)

// settings are tiny, so fewer tables and compactors are enough
func badgerOpts(dbPath string) badger.Options {
	return badger.DefaultOptions(dbPath).
		WithMemTableSize(1 << 25).
		WithValueLogFileSize(1 << 25).
		WithNumMemtables(2).
		WithNumLevelZeroTables(2).
		WithNumLevelZeroTablesStall(4).
		WithNumCompactors(2).
		WithLogger(nil)
}

type badgerBackend struct {
	db *badger.DB
}

// OpenBadger opens or creates the badger database in dir.
func OpenBadger(dir string) (Backend, error) {
	db, err := badger.Open(badgerOpts(dir))
	if err != nil {
		return nil, fmt.Errorf("settings: failed to open badger db at %s: %w", dir, err)
	}
	return NewBadger(db), nil
}

// NewBadger uses an open database. Closing the Backend closes db.
func NewBadger(db *badger.DB) Backend {
	return badgerBackend{db: db}
}

func (bb badgerBackend) Get(name string) ([]byte, bool, error) {
	var value []byte
	err := bb.db.View(func(txn *badger.Txn) error {
		it, err := txn.Get([]byte(name))
		if err != nil {
			return err
		}
		value, err = it.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if errors.Is(err, badger.ErrDBClosed) {
		return nil, false, ErrClosed
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (bb badgerBackend) Set(name string, value []byte) error {
	err := bb.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(name), value)
	})
	if errors.Is(err, badger.ErrDBClosed) {
		return ErrClosed
	}
	return err
}

func (bb badgerBackend) Delete(name string) error {
	err := bb.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(name))
	})
	if errors.Is(err, badger.ErrDBClosed) {
		return ErrClosed
	}
	return err
}

func (bb badgerBackend) Close() error {
	return bb.db.Close()
}
