// SPDX-FileCopyrightText: 2021 The Go-SSB Authors
//
// SPDX-License-Identifier: MIT

package main

import (
	"io"
	"sync"

	"github.com/hashicorp/go-multierror"
)

type multiCloser struct {
	cs []io.Closer
	l  sync.Mutex
}

func (mc *multiCloser) addCloser(c io.Closer) {
	mc.l.Lock()
	defer mc.l.Unlock()

	mc.cs = append(mc.cs, c)
}

// Close closes in reverse order of adding and reports every failure.
func (mc *multiCloser) Close() error {
	var err error

	mc.l.Lock()
	defer mc.l.Unlock()

	for i := len(mc.cs) - 1; i >= 0; i-- {
		if cerr := mc.cs[i].Close(); cerr != nil {
			err = multierror.Append(err, cerr)
		}
	}
	mc.cs = nil

	return err
}
