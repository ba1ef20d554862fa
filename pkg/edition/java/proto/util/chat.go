package util

import (
	"bytes"
	"strings"
	"unicode/utf16"

	"go.minekube.com/common/minecraft/component"
	"go.minekube.com/common/minecraft/component/codec"
	"go.minekube.com/common/minecraft/component/codec/legacy"

	"go.minekube.com/tabgate/pkg/edition/java/proto/version"
	"go.minekube.com/tabgate/pkg/gate/proto"
)

// LegacyChar is the formatting code prefix used in legacy strings.
const LegacyChar = legacy.SectionChar

// JsonCodec returns the appropriate codec for the given protocol version.
// This is used to constrain messages sent to older clients.
func JsonCodec(protocol proto.Protocol) codec.Codec {
	if protocol.GreaterEqual(version.Minecraft_1_16) {
		return jsonCodec_1_16
	}
	return jsonCodec_pre_1_16
}

var (
	// Json component codec for pre-1.16 clients
	jsonCodec_pre_1_16 = &codec.Json{}
	// Json component codec for 1.16+ clients
	jsonCodec_1_16 = &codec.Json{
		NoDownsampleColor: true,
		NoLegacyHover:     true,
	}
	legacyCodec = &legacy.Legacy{Char: LegacyChar}
)

// ParseLegacy parses a §-formatted string into a component.
func ParseLegacy(s string) (component.Component, error) {
	return legacyCodec.Unmarshal([]byte(s))
}

// LegacyToJson converts a §-formatted string into the json
// chat representation the protocol version expects.
func LegacyToJson(protocol proto.Protocol, s string) (string, error) {
	c, err := ParseLegacy(s)
	if err != nil {
		return "", err
	}
	buf := new(bytes.Buffer)
	if err = JsonCodec(protocol).Marshal(buf, c); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// TruncateLegacy cuts s to at most max UTF-16 code units, the unit clients
// count string limits in, without leaving a dangling formatting prefix at
// the end. Characters are never split.
// It reports whether s was truncated.
func TruncateLegacy(s string, max int) (string, bool) {
	var units int
	for i, r := range s {
		units += utf16.RuneLen(r)
		if units > max {
			return strings.TrimSuffix(s[:i], string(LegacyChar)), true
		}
	}
	return s, false
}
