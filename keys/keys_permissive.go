// SPDX-FileCopyrightText: 2021 The Go-SSB Authors
//
// SPDX-License-Identifier: MIT

//go:build darwin || windows
// +build darwin windows

package keys

import "os"

// SecretPerms are the file permissions for holding the secret key.
// Some tools on these platforms need write access to move or back up the file.
var SecretPerms = os.FileMode(0600)
