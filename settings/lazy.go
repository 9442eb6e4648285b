// SPDX-FileCopyrightText: 2021 The Go-SSB Authors
//
// SPDX-License-Identifier: MIT

package settings

import "sync"

type lazyBackend struct {
	mu     sync.Mutex
	open   func() (Backend, error)
	b      Backend
	closed bool
}

// Lazy returns a Backend that calls open on first use.
// A failed open is retried on the next use.
func Lazy(open func() (Backend, error)) Backend {
	return &lazyBackend{open: open}
}

func (l *lazyBackend) backend() (Backend, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil, ErrClosed
	}
	if l.b == nil {
		b, err := l.open()
		if err != nil {
			return nil, err
		}
		l.b = b
	}
	return l.b, nil
}

func (l *lazyBackend) Get(name string) ([]byte, bool, error) {
	b, err := l.backend()
	if err != nil {
		return nil, false, err
	}
	return b.Get(name)
}

func (l *lazyBackend) Set(name string, value []byte) error {
	b, err := l.backend()
	if err != nil {
		return err
	}
	return b.Set(name, value)
}

func (l *lazyBackend) Delete(name string) error {
	b, err := l.backend()
	if err != nil {
		return err
	}
	return b.Delete(name)
}

// Close closes the underlying backend if it was ever opened.
func (l *lazyBackend) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	if l.b == nil {
		return nil
	}
	return l.b.Close()
}
