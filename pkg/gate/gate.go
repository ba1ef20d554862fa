// Package gate wires the configuration, the pet fix and the canonical
// packet builder together and creates per-client connections.
package gate

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-logr/logr"
	"github.com/robinbraemer/event"
	"golang.org/x/sync/errgroup"

	"go.minekube.com/tabgate/pkg/edition/java/builder"
	"go.minekube.com/tabgate/pkg/edition/java/netmc"
	"go.minekube.com/tabgate/pkg/edition/java/petfix"
	"go.minekube.com/tabgate/pkg/edition/java/player"
	"go.minekube.com/tabgate/pkg/edition/java/proto/schema"
	"go.minekube.com/tabgate/pkg/edition/java/proto/version"
	"go.minekube.com/tabgate/pkg/gate/config"
	"go.minekube.com/tabgate/pkg/gate/proto"
	"go.minekube.com/tabgate/pkg/internal/reload"
	"go.minekube.com/tabgate/pkg/util/errs"
)

// Options are Gate options.
type Options struct {
	// Config requires a valid configuration.
	Config *config.Config
	// Logger is the logger used for Gate and its connections.
	// If not set, the logger of the context passed to New is used.
	Logger logr.Logger
	// Event receives config update events. Defaults to a new manager.
	Event event.Manager
	// Table defaults to schema.Default.
	Table *schema.Table
}

// Gate holds the state shared by all connections.
type Gate struct {
	log     logr.Logger
	event   event.Manager
	table   *schema.Table
	builder *builder.Builder
	fix     *petfix.Fix

	mu       sync.RWMutex // Protects following fields
	cfg      *config.Config
	reporter errs.Reporter
}

// New returns a new Gate. The schema table is validated
// against every supported version.
func New(ctx context.Context, options Options) (*Gate, error) {
	if options.Config == nil {
		return nil, errs.ErrMissingConfig
	}
	log := options.Logger
	if log.GetSink() == nil {
		log = logr.FromContextOrDiscard(ctx)
	}
	g := &Gate{
		log:   log.WithName("gate"),
		event: options.Event,
		table: options.Table,
	}
	if g.event == nil {
		g.event = event.New()
	}
	if g.table == nil {
		g.table = schema.Default
	}
	if err := g.table.Validate(version.SupportedVersions); err != nil {
		return nil, fmt.Errorf("invalid schema table: %w", err)
	}
	g.builder = builder.New(g.table)
	g.fix = petfix.New(g.table, nil)
	if err := g.Apply(options.Config); err != nil {
		return nil, err
	}
	return g, nil
}

// Event returns the event manager config updates are fired on.
func (g *Gate) Event() event.Manager { return g.event }

// PetFix returns the pet fix shared by all connections.
func (g *Gate) PetFix() *petfix.Fix { return g.fix }

// Config returns the active config.
func (g *Gate) Config() *config.Config {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.cfg
}

// Apply activates cfg. The pet fix policy changes for existing
// connections, scoreboard settings only apply to new connections.
func (g *Gate) Apply(cfg *config.Config) error {
	policy, err := petfix.PolicyFromConfig(cfg.Config.PetFix)
	if err != nil {
		return fmt.Errorf("error applying pet fix config: %w", err)
	}
	reporter := errs.NewLogReporter(g.log.WithName("reports"))
	if r := cfg.Config.Reports; r.PerSecond > 0 {
		reporter = errs.RateLimited(reporter, r.PerSecond, r.Burst, r.MaxEntries)
	}

	g.mu.Lock()
	g.cfg = cfg
	g.reporter = reporter
	g.mu.Unlock()

	g.fix.SetPolicy(policy)
	g.log.V(1).Info("applied config",
		"petFix", policy.Enabled,
		"fieldPolicy", policy.FieldPolicy,
		"window", policy.Window.String())
	return nil
}

// NewConnection creates the packet pipeline of a client speaking protocol.
// Packets that pass the interceptors are written to w.
func (g *Gate) NewConnection(ctx context.Context, protocol proto.Protocol, w proto.PacketWriter) (*player.Connection, error) {
	g.mu.RLock()
	cfg, reporter := g.cfg.Config, g.reporter
	g.mu.RUnlock()

	interceptors := []netmc.Interceptor{g.fix.Interceptor()}
	if cfg.Debug {
		interceptors = append(interceptors, netmc.NewTelemetryInterceptor(g.log.WithName("packets")))
	}
	return player.New(logr.NewContext(ctx, g.log), player.Options{
		Protocol:       protocol,
		Writer:         w,
		Builder:        g.builder,
		Interceptors:   interceptors,
		Reporter:       reporter,
		ReportOverflow: cfg.Scoreboard.ReportOverflow,
		AwaitJoinGame:  cfg.Scoreboard.AwaitJoinGame,
		MaxQueued:      cfg.Scoreboard.MaxQueued,
	})
}

// Watch reloads the config from the file at path whenever it changes
// until ctx is canceled. Invalid configs are logged and skipped.
func (g *Gate) Watch(ctx context.Context, path string, load func() (*config.Config, error)) error {
	r := &reload.Reloader[config.Config]{
		Path:     path,
		Load:     load,
		Validate: g.validate,
		Events:   g.event,
	}
	unsubscribe := reload.Subscribe(g.event, func(e *reload.ConfigUpdateEvent[config.Config]) {
		if err := g.Apply(e.Config); err != nil {
			g.log.Error(err, "error applying reloaded config")
		}
	})
	defer unsubscribe()

	eg, ctx := errgroup.WithContext(logr.NewContext(ctx, g.log.WithName("reload")))
	eg.Go(func() error {
		if err := r.Watch(ctx); err != nil {
			return fmt.Errorf("error watching config %q: %w", path, err)
		}
		return g.Apply(r.Current())
	})
	eg.Go(func() error {
		<-ctx.Done()
		return nil
	})
	return eg.Wait()
}

func (g *Gate) validate(cfg *config.Config) error {
	warns, errs := cfg.Validate()
	for _, w := range warns {
		g.log.Info("config validation warning", "warn", w.Error())
	}
	if len(errs) != 0 {
		return fmt.Errorf("config validation error: %w", errs[0])
	}
	return nil
}
