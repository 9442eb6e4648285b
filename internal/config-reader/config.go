// SPDX-FileCopyrightText: 2023 The Go-SSB Authors
//
// SPDX-License-Identifier: MIT

// Package config reads the [opengroup] section of the TOML config file used by ogcli.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
)

// Section is the table of the config file that is read.
const Section = "opengroup"

type ConfigBool bool

type OpenGroupConfig struct {
	Key             string `toml:"key"`
	Settings        string `toml:"settings"`
	SettingsBackend string `toml:"settings-backend"`

	Type   string `toml:"type"`
	Server string `toml:"server"`
	Name   string `toml:"name"`

	MetricsAddress string     `toml:"debuglis"`
	Verbose        ConfigBool `toml:"verbose"`
	Workers        uint       `toml:"workers"`

	meta *toml.MetaData
}

type mergedConfig struct {
	OpenGroup OpenGroupConfig `toml:"opengroup"`
}

// Has returns true if flagname was set in the config file, also if it was set to a zero value.
func (config OpenGroupConfig) Has(flagname string) bool {
	if config.meta == nil {
		return false
	}
	return config.meta.IsDefined(Section, flagname)
}

// ReadConfig reads the config file at configPath.
// A missing file is not an error, the returned bool reports if one was read.
func ReadConfig(configPath string, log log.Logger) (OpenGroupConfig, bool, error) {
	var conf mergedConfig

	if log == nil {
		log = kitlogNop
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			level.Info(log).Log("event", "read config", "msg", "no config detected", "path", configPath)
			return conf.OpenGroup, false, nil
		}
		return conf.OpenGroup, false, fmt.Errorf("config: failed to read %s: %w", configPath, err)
	}

	level.Info(log).Log("event", "read config", "msg", "config detected", "path", configPath)

	// the metadata keeps track of the keys that are present, so explicit false bools can be told apart
	md, err := toml.Decode(string(data), &conf)
	if err != nil {
		return conf.OpenGroup, false, fmt.Errorf("config: failed to decode %s: %w", configPath, err)
	}
	if !md.IsDefined(Section) {
		level.Warn(log).Log("event", "read config", "msg", "no ["+Section+"] detected in config file - I am not reading anything from the config file", "path", configPath)
	}
	for _, k := range md.Undecoded() {
		level.Warn(log).Log("event", "read config", "msg", "unknown key", "key", k.String())
	}
	conf.OpenGroup.meta = &md

	// help paths default to align with common user expectations
	if conf.OpenGroup.Key, err = expandPath(conf.OpenGroup.Key); err != nil {
		return conf.OpenGroup, false, err
	}
	if conf.OpenGroup.Settings, err = expandPath(conf.OpenGroup.Settings); err != nil {
		return conf.OpenGroup, false, err
	}

	return conf.OpenGroup, true, nil
}

// ensure the following type of path expansions take place:
// * ~/.opengroup        => /home/<user>/.opengroup
// * .opengroup          => /home/<user>/.opengroup
// * /stuff/.opengroup   => /stuff/.opengroup
// An empty path stays empty.
func expandPath(p string) (string, error) {
	if p == "" {
		return "", nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: could not get user home directory: %w", err)
	}

	if strings.HasPrefix(p, "~") {
		p = strings.Replace(p, "~", home, 1)
	}

	// not relative path, not absolute path =>
	// place relative to home dir "~/<here>"
	if !filepath.IsAbs(p) {
		p = filepath.Join(home, p)
	}

	return p, nil
}

// UnmarshalTOML accepts proper booleans and boolish strings (e.g. "true" or "1").
func (booly *ConfigBool) UnmarshalTOML(v interface{}) error {
	var temp bool
	switch val := v.(type) {
	case bool:
		temp = val
	case string:
		temp = booleanIsTrue(val)
		if !temp {
			// catch strings that cause a false value, but which aren't boolish
			if val != "false" && val != "0" && val != "no" && val != "off" {
				return errors.New("non-boolean string found when unmarshaling boolish values")
			}
		}
	case int64:
		temp = val != 0
	default:
		return fmt.Errorf("config: can't use %T as a boolean", v)
	}
	*booly = (ConfigBool)(temp)

	return nil
}

func booleanIsTrue(s string) bool {
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

var kitlogNop = log.NewNopLogger()
