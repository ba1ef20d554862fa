// Package config contains the root configuration of tabgate and its loader.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	jconfig "go.minekube.com/tabgate/pkg/edition/java/config"
	"go.minekube.com/tabgate/pkg/util/configutil"
)

// EnvPrefix is the prefix of environment variables overriding config keys,
// e.g. TABGATE_CONFIG_PETFIX_WINDOWMILLIS.
const EnvPrefix = "TABGATE"

// DefaultConfig is a default Config.
var DefaultConfig = Config{
	Config: jconfig.DefaultConfig,
}

// Config is the root configuration of tabgate.
type Config struct {
	// Config is the Java edition packet layer configuration.
	Config jconfig.Config `json:"config" yaml:"config"`
}

// LoadConfig loads the config from v, applying defaults and environment overrides.
// A config file is only read if one was set on v.
// The returned config is not validated.
func LoadConfig(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	jconfig.SetDefaults(configutil.Prefixed("config", v))

	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %q: %w", v.ConfigFileUsed(), err)
		}
	}

	// Fresh slices per load so reloads never share state with DefaultConfig.
	cfg := DefaultConfig
	cfg.Config.PetFix.DedupActions = nil
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	return &cfg, nil
}

// Validate validates a Config.
func (c *Config) Validate() (warns []error, errs []error) {
	if c == nil {
		return nil, []error{fmt.Errorf("config must not be nil")}
	}
	prefix := func(p string, errs []error) (pErrs []error) {
		for _, err := range errs {
			pErrs = append(pErrs, fmt.Errorf("%s: %w", p, err))
		}
		return
	}
	warns2, errs2 := c.Config.Validate()
	return prefix("config", warns2), prefix("config", errs2)
}
