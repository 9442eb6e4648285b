// SPDX-FileCopyrightText: 2021 The Go-SSB Authors
//
// SPDX-License-Identifier: MIT

package testutils

import (
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/go-kit/kit/log"
)

// NewRelativeTimeLogger returns a logfmt logger that adds the time since its creation to every line.
func NewRelativeTimeLogger(w io.Writer) log.Logger {
	if w == nil {
		w = os.Stderr
	}

	var rtl relTimeLogger
	rtl.start = time.Now()

	mainLog := log.NewLogfmtLogger(log.NewSyncWriter(w))
	return log.With(mainLog, "t", log.Valuer(rtl.diffTime))
}

type relTimeLogger struct {
	sync.Mutex

	start time.Time
}

func (rtl *relTimeLogger) diffTime() interface{} {
	rtl.Lock()
	defer rtl.Unlock()
	newStart := time.Now()
	since := newStart.Sub(rtl.start)
	return since
}

// NewTestLogger sends the log lines to t.Log so they only show up for failing tests or with -v
func NewTestLogger(t testing.TB) log.Logger {
	return NewRelativeTimeLogger(testWriter{t})
}

type testWriter struct{ t testing.TB }

func (tw testWriter) Write(p []byte) (int, error) {
	tw.t.Helper()
	tw.t.Log(string(p))
	return len(p), nil
}
