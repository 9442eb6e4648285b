// SPDX-FileCopyrightText: 2021 The Go-SSB Authors
//
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sicuradata-Inc/session-ios/message/opengroup"
)

// returns a func that runs the app with the arguments and stdin and returns what it printed.
func mkCommandRunner(t *testing.T, globalArgs ...string) func(stdin string, args ...string) (string, error) {
	return func(stdin string, args ...string) (string, error) {
		var out bytes.Buffer

		app := newApp()
		app.Writer = &out
		app.ErrWriter = &out
		app.Reader = strings.NewReader(stdin)

		argv := append([]string{"ogcli"}, globalArgs...)
		err := app.Run(append(argv, args...))
		t.Log(out.String())
		return out.String(), err
	}
}

func TestCLI(t *testing.T) {
	a, r := assert.New(t), require.New(t)

	dir := t.TempDir()
	keyFile := filepath.Join(dir, "keys", "secret")
	run := mkCommandRunner(t,
		"--config", filepath.Join(dir, "missing.toml"),
		"--key", keyFile,
		"--settings", filepath.Join(dir, "settings"),
	)

	out, err := run("", "keygen")
	r.NoError(err)
	id := strings.TrimSpace(out)
	a.Len(id, 66)
	a.True(strings.HasPrefix(id, "05"))

	_, err = run("", "keygen")
	a.Error(err, "existing key must not be overwritten")

	out, err = run("", "whoami", "--curve")
	r.NoError(err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	r.Len(lines, 2)
	a.Equal(id, lines[0])
	a.Len(lines[1], 64)

	// settings survive between runs
	_, err = run("", "settings", "set", "displayName", "alice")
	r.NoError(err)
	_, err = run("", "settings", "set", "appMode", "one")
	a.Error(err)
	out, err = run("", "settings", "get", "displayName")
	r.NoError(err)
	a.Equal("alice\n", out)
	out, err = run("", "settings", "list")
	r.NoError(err)
	a.Equal("displayName\tstring\talice\n", out)

	out, err = run("", "sign", "--ts", "1000", "--quote-ts", "900", "--quote-author", id, "--quote-text", "earlier", "--quote-id", "7", "hello")
	r.NoError(err)
	signed := strings.TrimSpace(out)
	a.True(strings.HasPrefix(signed, `{"text":"hello","annotations":[{"type":"network.loki.messenger.publicChat","value":{"timestamp":1000,"quote":{"id":900,`), signed)
	a.Contains(signed, `"sigver":1`)
	a.True(strings.HasSuffix(signed, `"reply_to":7}`), signed)

	msg, err := opengroup.DecodeWireFrom([]byte(signed), id)
	r.NoError(err)
	a.True(opengroup.Verify(msg))

	tampered := strings.Replace(signed, `"text":"hello"`, `"text":"hullo"`, 1)
	out, err = run(signed+"\n"+tampered+"\n", "verify", "--sender", id)
	a.Error(err)
	a.Equal("0\tok\t"+id+"\n1\tinvalid\t"+id+"\n", out)

	msgFile := filepath.Join(dir, "msg.json")
	r.NoError(os.WriteFile(msgFile, []byte(signed), 0600))
	out, err = run("", "verify", "--sender", id, msgFile, msgFile)
	r.NoError(err)
	a.Equal(2, strings.Count(out, "\tok\t"))

	out, err = run(signed, "inspect", "--sender", id)
	r.NoError(err)
	a.Contains(out, "signature: valid (version 1)")
	a.Contains(out, "text:      \"hello\"")
	a.Contains(out, "(server id 7)")

	out, err = run(tampered, "inspect", "--sender", id)
	r.NoError(err)
	a.Contains(out, "signature: INVALID")

	unsigned := `{"text":"look","annotations":[{"type":"network.loki.messenger.publicChat","value":{"timestamp":2000}},` +
		`{"type":"net.app.core.oembed","value":{"version":1,"type":"photo","lokiType":"attachment","server":"https://file.example","id":3,` +
		`"contentType":"image/png","size":2048,"fileName":"a.png","width":10,"height":20,"url":"https://file.example/a.png"}}]}`
	out, err = run(unsigned, "sign", "--stdin")
	r.NoError(err)
	msg, err = opengroup.DecodeWireFrom([]byte(strings.TrimSpace(out)), id)
	r.NoError(err)
	a.True(opengroup.Verify(msg))
	r.Len(msg.Attachments(), 1)

	out, err = run(out, "inspect", "--sender", id)
	r.NoError(err)
	a.Contains(out, "attachments: 1")
	a.Contains(out, "2.0 kB")

	_, err = run(`{"text":"x","annotations":[{"type":"network.loki.messenger.publicChat","value":{"timestamp":1}}],"user":{"username":"05other"}}`, "sign", "--stdin")
	a.Error(err, "foreign sender")

	_, err = run("", "sign", "one", "two")
	a.Error(err)

	_, err = run("", "sign", "--file-id", "3", "no server")
	a.Error(err, "attachments need a server")
}

func TestCLIConfig(t *testing.T) {
	a, r := assert.New(t), require.New(t)

	dir := t.TempDir()
	keyFile := filepath.Join(dir, "secret")
	confFile := filepath.Join(dir, "config.toml")
	r.NoError(os.WriteFile(confFile, []byte(`
[opengroup]
key = "`+keyFile+`"
settings-backend = "memory"
type = "custom.type"
workers = 2
debuglis = "localhost:0"
verbose = "yes"
server = "https://chat.example/"
`), 0600))

	run := mkCommandRunner(t, "--config", confFile)

	out, err := run("", "keygen")
	r.NoError(err)
	id := strings.TrimSpace(out)

	_, err = os.Stat(keyFile)
	r.NoError(err, "key file from the config is used")

	out, err = run("", "sign", "--ts", "5", "hi")
	r.NoError(err)
	a.Contains(out, `"type":"custom.type"`)

	out, err = run("", "sign", "--ts", "5", "--file-id", "12", "--file-type", "image/png", "--file-size", "2048", "look")
	r.NoError(err)
	a.Contains(out, `"server":"https://chat.example","id":12,"contentType":"image/png","size":2048`)
	a.Contains(out, `"url":"https://chat.example/files/12"`)
	msg, err := opengroup.DecodeWireFrom([]byte(strings.TrimSpace(out)), id)
	r.NoError(err)
	a.True(opengroup.Verify(msg))

	// flags win over the config
	run = mkCommandRunner(t, "--config", confFile, "--type", "flag.type")
	out, err = run("", "sign", "--ts", "5", "hi")
	r.NoError(err)
	a.Contains(out, `"type":"flag.type"`)

	out, err = run(strings.TrimSpace(out), "verify", "--sender", id)
	r.NoError(err)
	a.Equal("0\tok\t"+id+"\n", out)
}

func TestHumanTime(t *testing.T) {
	a := assert.New(t)

	a.Contains(humanTime(1612345678901), "(2021-02-03T09:47:58Z)")
	a.Equal("18446744073709551615 ms (out of range)", humanTime(math.MaxUint64))
	a.NotContains(humanTime(math.MaxInt64), "out of range")
}

func TestMultiCloser(t *testing.T) {
	var (
		mc    multiCloser
		order []int
	)
	for i := 0; i < 3; i++ {
		i := i
		mc.addCloser(closerFunc(func() error {
			order = append(order, i)
			if i == 1 {
				return assert.AnError
			}
			return nil
		}))
	}

	err := mc.Close()
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, []int{2, 1, 0}, order)
	assert.NoError(t, mc.Close(), "closers are only called once")
}

type closerFunc func() error

func (cf closerFunc) Close() error { return cf() }
