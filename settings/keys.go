// SPDX-FileCopyrightText: 2021 The Go-SSB Authors
//
// SPDX-License-Identifier: MIT

package settings

import "time"

// Key names a setting and fixes the type of its value.
type Key[T any] struct {
	name string
}

// NewKey is for settings that are not predeclared below.
func NewKey[T any](name string) Key[T] { return Key[T]{name: name} }

// Name is the raw name the value is stored under.
func (k Key[T]) Name() string { return k.name }

func (k Key[T]) String() string { return k.name }

type (
	BoolKey   = Key[bool]
	DateKey   = Key[time.Time]
	DoubleKey = Key[float64]
	IntKey    = Key[int]
	StringKey = Key[string]
)

var (
	HasLaunchedOnce           = BoolKey{"hasLaunchedOnce"}
	HasSeenGIFMetadataWarning = BoolKey{"hasSeenGIFMetadataWarning"}
	HasSyncedConfiguration    = BoolKey{"hasSyncedConfiguration"}
	HasViewedSeed             = BoolKey{"hasViewedSeed"}
	IsUsingFullAPNs           = BoolKey{"isUsingFullAPNs"}
	IsMigratingToV2KeyPair    = BoolKey{"isMigratingToV2KeyPair"}
	IsUsingMultiDevice        = BoolKey{"isUsingMultiDevice"}
)

var (
	LastProfilePictureUpload  = DateKey{"lastProfilePictureUpload"}
	LastKeyPairMigrationNudge = DateKey{"lastKeyPairMigrationNudge"}
	LastConfigurationSync     = DateKey{"lastConfigurationSync"}
)

var LastDeviceTokenUploadTime = DoubleKey{"lastDeviceTokenUploadTime"}

var AppMode = IntKey{"appMode"}

var (
	DeviceToken = StringKey{"deviceToken"}
	DisplayName = StringKey{"displayName"}
)

// Known maps the raw names of the predeclared keys to their kind.
// The command line tool uses it to parse values typed by the user.
var Known = map[string]Kind{}

// Kind is the value type of a predeclared key.
type Kind uint8

const (
	KindBool Kind = iota + 1
	KindDate
	KindDouble
	KindInt
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindDate:
		return "date"
	case KindDouble:
		return "double"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

func init() {
	for _, k := range []BoolKey{HasLaunchedOnce, HasSeenGIFMetadataWarning, HasSyncedConfiguration, HasViewedSeed, IsUsingFullAPNs, IsMigratingToV2KeyPair, IsUsingMultiDevice} {
		Known[k.name] = KindBool
	}
	for _, k := range []DateKey{LastProfilePictureUpload, LastKeyPairMigrationNudge, LastConfigurationSync} {
		Known[k.name] = KindDate
	}
	Known[LastDeviceTokenUploadTime.name] = KindDouble
	Known[AppMode.name] = KindInt
	Known[DeviceToken.name] = KindString
	Known[DisplayName.name] = KindString
}
