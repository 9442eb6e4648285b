// SPDX-FileCopyrightText: 2021 The Go-SSB Authors
//
// SPDX-License-Identifier: MIT

package settings

import (
	"fmt"
	"os"
)

// Open returns a Store on a lazily opened backend.
// kind is "badger" or "memory". The badger directory is created when the first value is accessed.
func Open(kind, dir string) (*Store, error) {
	switch kind {
	case "memory":
		return New(NewMemory()), nil
	case "badger", "":
		if dir == "" {
			return nil, fmt.Errorf("settings: badger backend needs a directory")
		}
		return New(Lazy(func() (Backend, error) {
			if err := os.MkdirAll(dir, 0700); err != nil {
				return nil, fmt.Errorf("settings: failed to create %s: %w", dir, err)
			}
			return OpenBadger(dir)
		})), nil
	default:
		return nil, fmt.Errorf("settings: unknown backend %q", kind)
	}
}
