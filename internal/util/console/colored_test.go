package console

import (
	"testing"

	"github.com/gookit/color"
	"github.com/stretchr/testify/assert"
)

func TestStrip(t *testing.T) {
	assert.Equal(t, "Kills 3", Strip("§a§lKills §r3"))
	assert.Equal(t, "trailing", Strip("trailing§"))
	assert.Equal(t, "", Strip(""))
}

func TestAnsiFromLegacyWithoutColor(t *testing.T) {
	enabled := color.Enable
	color.Enable = false
	defer func() { color.Enable = enabled }()

	assert.Equal(t, "Kills 3", AnsiFromLegacy("§a§lKills §r3"))
	assert.Equal(t, "plain", AnsiFromLegacy("plain"))
	assert.Equal(t, "x", AnsiFromLegacy("§zx"), "unknown codes are dropped")
}
