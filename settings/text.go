// SPDX-FileCopyrightText: 2021 The Go-SSB Authors
//
// SPDX-License-Identifier: MIT

package settings

import (
	"fmt"
	"strconv"
	"time"
)

// DateLayout is used to read and print dates in text form.
const DateLayout = time.RFC3339

// SetText parses text according to the kind of the predeclared key name and stores it.
func (s *Store) SetText(name, text string) error {
	kind, ok := Known[name]
	if !ok {
		return fmt.Errorf("settings: unknown key %q", name)
	}

	switch kind {
	case KindBool:
		v, err := strconv.ParseBool(text)
		if err != nil {
			return fmt.Errorf("settings: %s wants a bool: %w", name, err)
		}
		return Set(s, BoolKey{name}, v)
	case KindDate:
		v, err := time.Parse(DateLayout, text)
		if err != nil {
			return fmt.Errorf("settings: %s wants a date: %w", name, err)
		}
		return Set(s, DateKey{name}, v)
	case KindDouble:
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return fmt.Errorf("settings: %s wants a number: %w", name, err)
		}
		return Set(s, DoubleKey{name}, v)
	case KindInt:
		v, err := strconv.Atoi(text)
		if err != nil {
			return fmt.Errorf("settings: %s wants an integer: %w", name, err)
		}
		return Set(s, IntKey{name}, v)
	default:
		return Set(s, StringKey{name}, text)
	}
}

// Text returns the value of the predeclared key name in the form SetText accepts.
func (s *Store) Text(name string) (string, bool, error) {
	kind, ok := Known[name]
	if !ok {
		return "", false, fmt.Errorf("settings: unknown key %q", name)
	}

	switch kind {
	case KindBool:
		v, has, err := Get(s, BoolKey{name})
		return strconv.FormatBool(v), has, err
	case KindDate:
		v, has, err := Get(s, DateKey{name})
		if !has || err != nil {
			return "", has, err
		}
		return v.UTC().Format(DateLayout), true, nil
	case KindDouble:
		v, has, err := Get(s, DoubleKey{name})
		return strconv.FormatFloat(v, 'g', -1, 64), has, err
	case KindInt:
		v, has, err := Get(s, IntKey{name})
		return strconv.Itoa(v), has, err
	default:
		return Get(s, StringKey{name})
	}
}
