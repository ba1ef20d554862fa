package reload

import (
	"context"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/knadh/koanf/providers/file"
	"github.com/robinbraemer/event"
)

const debounceDuration = 100 * time.Millisecond

// Watch calls cb after the file at path changed.
// Bursts of changes within a short duration result in a single call.
// Watching stops having effect once ctx is canceled.
func Watch(ctx context.Context, path string, cb func() error) error {
	if ctx.Err() != nil {
		return nil
	}
	log := logr.FromContextOrDiscard(ctx).WithValues("path", path)
	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	return file.Provider(path).Watch(func(_ any, err error) {
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			log.Info("failed watching config", "error", err)
			return
		}

		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounceDuration, func() {
			mu.Lock()
			defer mu.Unlock()
			if ctx.Err() != nil {
				return
			}

			log.Info("auto-reloading config")
			start := time.Now()
			if err := cb(); err != nil {
				log.Info("failed to reload config", "error", err)
				return
			}
			log.Info("reloaded config successfully", "duration", time.Since(start).Round(time.Millisecond).String())
		})
	})
}

// Reloader loads a config on every change of its file and
// fires a ConfigUpdateEvent with the new config.
type Reloader[T any] struct {
	Path string
	Load func() (*T, error)
	// Validate rejects a loaded config. Optional.
	Validate func(*T) error
	Events   event.Manager

	mu      sync.Mutex
	current *T
}

// Current returns the last successfully loaded config.
func (r *Reloader[T]) Current() *T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Reload loads and validates the config and fires the update event.
// The current config is kept if loading fails.
func (r *Reloader[T]) Reload() error {
	cfg, err := r.Load()
	if err != nil {
		return err
	}
	if r.Validate != nil {
		if err = r.Validate(cfg); err != nil {
			return err
		}
	}
	r.mu.Lock()
	prev := r.current
	r.current = cfg
	r.mu.Unlock()
	if prev != nil {
		FireConfigUpdate(r.Events, cfg, prev)
	}
	return nil
}

// Watch loads the initial config and reloads it whenever its file changes.
func (r *Reloader[T]) Watch(ctx context.Context) error {
	if err := r.Reload(); err != nil {
		return err
	}
	return Watch(ctx, r.Path, r.Reload)
}
