package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	jconfig "go.minekube.com/tabgate/pkg/edition/java/config"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(viper.New())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig, *cfg)

	warns, errs := cfg.Validate()
	assert.Empty(t, warns)
	assert.Empty(t, errs)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
config:
  petFix:
    fieldPolicy: randomize
    dedupActions: [interact, interact_at]
  scoreboard:
    awaitJoinGame: true
`), 0644))

	v := viper.New()
	v.SetConfigFile(path)
	cfg, err := LoadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, jconfig.RandomizeFieldPolicy, cfg.Config.PetFix.FieldPolicy)
	assert.Equal(t, []string{"interact", "interact_at"}, cfg.Config.PetFix.DedupActions)
	assert.True(t, cfg.Config.Scoreboard.AwaitJoinGame)
	assert.Equal(t, jconfig.DefaultConfig.PetFix.WindowMillis, cfg.Config.PetFix.WindowMillis)

	// Removed list entries must not survive a reload.
	require.NoError(t, os.WriteFile(path, []byte(`
config:
  petFix:
    dedupActions: [attack]
`), 0644))
	v = viper.New()
	v.SetConfigFile(path)
	cfg, err = LoadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, []string{"attack"}, cfg.Config.PetFix.DedupActions)
	assert.Equal(t, []string{"interact"}, DefaultConfig.Config.PetFix.DedupActions)
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("TABGATE_CONFIG_PETFIX_WINDOWMILLIS", "12")
	cfg, err := LoadConfig(viper.New())
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Config.PetFix.WindowMillis)
}

func TestLoadConfigMissingFile(t *testing.T) {
	v := viper.New()
	v.SetConfigFile(filepath.Join(t.TempDir(), "missing.yml"))
	_, err := LoadConfig(v)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig
	cfg.Config.PetFix.FieldPolicy = "supress"
	cfg.Config.PetFix.DedupActions = []string{"atack"}
	cfg.Config.PetFix.WindowMillis = -1
	_, errs := cfg.Validate()
	require.Len(t, errs, 3)
	assert.Contains(t, errs[0].Error(), "config: ")
	assert.Contains(t, errs[1].Error(), "did you mean suppress?")
	assert.Contains(t, errs[2].Error(), "did you mean attack?")
}

func TestYAMLRoundTrip(t *testing.T) {
	b, err := yaml.Marshal(DefaultConfig)
	require.NoError(t, err)
	var cfg Config
	require.NoError(t, yaml.Unmarshal(b, &cfg))
	assert.Equal(t, DefaultConfig, cfg)
}
