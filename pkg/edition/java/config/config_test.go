package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig
	warns, errs := cfg.Validate()
	assert.Empty(t, warns)
	assert.Empty(t, errs)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(c *Config)
		warns, errs int
		errContains string
	}{
		{name: "zero window", modify: func(c *Config) { c.PetFix.WindowMillis = 0 }, warns: 1},
		{name: "huge window", modify: func(c *Config) { c.PetFix.WindowMillis = 5000 }, warns: 1},
		{name: "disabled petfix skips checks", modify: func(c *Config) {
			c.PetFix.Enabled = false
			c.PetFix.FieldPolicy = "bogus"
		}},
		{name: "unknown policy", modify: func(c *Config) { c.PetFix.FieldPolicy = "randomise" }, errs: 1, errContains: "did you mean randomize?"},
		{name: "unknown action", modify: func(c *Config) { c.PetFix.DedupActions = []string{"click"} }, errs: 1},
		{name: "queue without size", modify: func(c *Config) {
			c.Scoreboard.AwaitJoinGame = true
			c.Scoreboard.MaxQueued = 0
		}, errs: 1},
		{name: "unlimited reports", modify: func(c *Config) { c.Reports.PerSecond = 0 }, warns: 1},
		{name: "bad burst", modify: func(c *Config) { c.Reports.Burst = 0 }, errs: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig
			tt.modify(&cfg)
			warns, errs := cfg.Validate()
			assert.Len(t, warns, tt.warns)
			require.Len(t, errs, tt.errs)
			if tt.errContains != "" {
				assert.Contains(t, errs[0].Error(), tt.errContains)
			}
		})
	}
}

func TestYAMLKeys(t *testing.T) {
	var cfg Config
	require.NoError(t, yaml.Unmarshal([]byte(`
petFix:
  enabled: true
  windowMillis: 3
  fieldPolicy: suppress
scoreboard:
  maxQueued: 7
`), &cfg))
	assert.Equal(t, 3, cfg.PetFix.WindowMillis)
	assert.Equal(t, SuppressFieldPolicy, cfg.PetFix.FieldPolicy)
	assert.Equal(t, 7, cfg.Scoreboard.MaxQueued)
}
