// Package console renders §-formatted text for terminals.
package console

import (
	"strings"

	"github.com/gookit/color"

	"go.minekube.com/tabgate/pkg/edition/java/proto/util"
)

var codes = map[rune]color.Color{
	'0': color.Black,
	'1': color.Blue,
	'2': color.Green,
	'3': color.Cyan,
	'4': color.Red,
	'5': color.Magenta,
	'6': color.Yellow,
	'7': color.White,
	'8': color.Gray,
	'9': color.LightCyan,
	'a': color.LightGreen,
	'b': color.LightBlue,
	'c': color.LightRed,
	'd': color.LightMagenta,
	'e': color.LightYellow,
	'f': color.LightWhite,
	'k': color.OpConcealed,
	'l': color.OpBold,
	'm': color.OpStrikethrough,
	'n': color.OpUnderscore,
	'o': color.OpItalic,
}

// AnsiFromLegacy converts the formatting codes of s to ANSI escape sequences.
// A color code replaces the active style, a decoration code adds to it
// and §r resets it. Unknown codes are dropped.
func AnsiFromLegacy(s string) string {
	b := new(strings.Builder)
	var (
		style  []color.Color
		prefix bool
	)
	for _, r := range s {
		if r == util.LegacyChar && !prefix {
			prefix = true
			continue
		}
		if !prefix {
			if len(style) == 0 {
				b.WriteRune(r)
			} else {
				b.WriteString(color.New(style...).Sprint(string(r)))
			}
			continue
		}
		prefix = false
		c, ok := codes[toLower(r)]
		switch {
		case toLower(r) == 'r':
			style = nil
		case !ok:
		case c >= color.FgBlack && c <= color.FgLightWhite:
			style = []color.Color{c}
		default:
			style = append(style, c)
		}
	}
	return b.String()
}

// Strip removes all formatting codes from s.
func Strip(s string) string {
	b := new(strings.Builder)
	var prefix bool
	for _, r := range s {
		switch {
		case r == util.LegacyChar && !prefix:
			prefix = true
		case prefix:
			prefix = false
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func toLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + 'a' - 'A'
	}
	return r
}
