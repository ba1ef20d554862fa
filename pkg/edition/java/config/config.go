package config

import (
	"fmt"
	"strings"

	"go.minekube.com/tabgate/pkg/util/configutil"
	"go.minekube.com/tabgate/pkg/util/suggest"
)

// DefaultConfig is a default Config.
var DefaultConfig = Config{
	Debug: false,
	PetFix: PetFix{
		Enabled:      true,
		WindowMillis: 5,
		FieldPolicy:  SuppressFieldPolicy,
		DedupActions: []string{"interact"},
	},
	Scoreboard: Scoreboard{
		ReportOverflow: true,
		AwaitJoinGame:  false,
		MaxQueued:      1024,
	},
	Reports: Reports{
		PerSecond:  1,
		Burst:      5,
		MaxEntries: 1000,
	},
}

// Config is the configuration of the packet layer.
type Config struct {
	Debug      bool       `json:"debug" yaml:"debug"`
	PetFix     PetFix     `json:"petFix" yaml:"petFix"`
	Scoreboard Scoreboard `json:"scoreboard" yaml:"scoreboard"`
	Reports    Reports    `json:"reports" yaml:"reports"`
}

type (
	// PetFix configures the tamed animal metadata rewrite and
	// the de-duplication of entity interactions.
	PetFix struct {
		Enabled bool `json:"enabled" yaml:"enabled"`
		// A second interaction of the same action within this window is dropped.
		WindowMillis int         `json:"windowMillis" yaml:"windowMillis"`
		FieldPolicy  FieldPolicy `json:"fieldPolicy" yaml:"fieldPolicy"`
		// Interaction actions opening the de-dup window: interact, attack, interact_at.
		// Any interaction inside the window is dropped.
		DedupActions []string `json:"dedupActions" yaml:"dedupActions"`
	}
	Scoreboard struct {
		// Whether clamped values are reported.
		ReportOverflow bool `json:"reportOverflow" yaml:"reportOverflow"`
		// Holds canonical packets of a new connection until its JoinGame packet passed.
		AwaitJoinGame bool `json:"awaitJoinGame" yaml:"awaitJoinGame"`
		MaxQueued     int  `json:"maxQueued" yaml:"maxQueued"`
	}
	// Reports rate limits logged errors per resource.
	Reports struct {
		PerSecond  float32 `json:"perSecond" yaml:"perSecond"`   // Allowed reports per second, per resource.
		Burst      int     `json:"burst" yaml:"burst"`           // The size of the token bucket.
		MaxEntries int     `json:"maxEntries" yaml:"maxEntries"` // Maximum number of resources to keep track of.
	}
)

// FieldPolicy is what happens to the pet owner field.
type FieldPolicy string

const (
	// SuppressFieldPolicy removes the owner entry.
	SuppressFieldPolicy FieldPolicy = "suppress"
	// RandomizeFieldPolicy replaces a present owner with a random id.
	RandomizeFieldPolicy FieldPolicy = "randomize"
)

// FieldPolicies are all known field policies.
var FieldPolicies = []string{string(SuppressFieldPolicy), string(RandomizeFieldPolicy)}

// InteractActions are the names of UseEntity actions.
var InteractActions = []string{"interact", "attack", "interact_at"}

// SetDefaults sets Config defaults used with Viper.
func SetDefaults(i configutil.SetDefault) {
	i.SetDefault("debug", DefaultConfig.Debug)

	i.SetDefault("petFix.enabled", DefaultConfig.PetFix.Enabled)
	i.SetDefault("petFix.windowMillis", DefaultConfig.PetFix.WindowMillis)
	i.SetDefault("petFix.fieldPolicy", DefaultConfig.PetFix.FieldPolicy)
	i.SetDefault("petFix.dedupActions", DefaultConfig.PetFix.DedupActions)

	i.SetDefault("scoreboard.reportOverflow", DefaultConfig.Scoreboard.ReportOverflow)
	i.SetDefault("scoreboard.awaitJoinGame", DefaultConfig.Scoreboard.AwaitJoinGame)
	i.SetDefault("scoreboard.maxQueued", DefaultConfig.Scoreboard.MaxQueued)

	i.SetDefault("reports.perSecond", DefaultConfig.Reports.PerSecond)
	i.SetDefault("reports.burst", DefaultConfig.Reports.Burst)
	i.SetDefault("reports.maxEntries", DefaultConfig.Reports.MaxEntries)
}

// Validate validates Config.
func (c *Config) Validate() (warns []error, errs []error) {
	e := func(m string, args ...any) { errs = append(errs, fmt.Errorf(m, args...)) }
	w := func(m string, args ...any) { warns = append(warns, fmt.Errorf(m, args...)) }

	if c == nil {
		e("config must not be nil")
		return
	}

	if c.PetFix.Enabled {
		switch {
		case c.PetFix.WindowMillis < 0:
			e("Invalid petFix.windowMillis %d: must not be negative", c.PetFix.WindowMillis)
		case c.PetFix.WindowMillis == 0:
			w("petFix.windowMillis is 0, duplicate interactions will not be dropped")
		case c.PetFix.WindowMillis > 1000:
			w("petFix.windowMillis %d is very large, separate clicks may be dropped", c.PetFix.WindowMillis)
		}
		switch c.PetFix.FieldPolicy {
		case SuppressFieldPolicy, RandomizeFieldPolicy:
		default:
			e("Unknown petFix.fieldPolicy %q, must be one of %s%s", c.PetFix.FieldPolicy,
				strings.Join(FieldPolicies, ","), suggest.DidYouMean(string(c.PetFix.FieldPolicy), FieldPolicies))
		}
		for _, a := range c.PetFix.DedupActions {
			if !contains(InteractActions, a) {
				e("Unknown petFix.dedupActions entry %q, must be one of %s%s", a,
					strings.Join(InteractActions, ","), suggest.DidYouMean(a, InteractActions))
			}
		}
	}

	if c.Scoreboard.AwaitJoinGame && c.Scoreboard.MaxQueued <= 0 {
		e("scoreboard.maxQueued must be positive when awaitJoinGame is enabled")
	}

	if c.Reports.PerSecond <= 0 {
		w("reports.perSecond is %v, errors are not rate limited", c.Reports.PerSecond)
	} else if c.Reports.Burst <= 0 || c.Reports.MaxEntries <= 0 {
		e("reports.burst and reports.maxEntries must be positive")
	}
	return
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
