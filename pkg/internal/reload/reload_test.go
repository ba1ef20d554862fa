package reload

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/robinbraemer/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cfg struct{ Value string }

func TestReloaderFiresOnUpdate(t *testing.T) {
	mgr := event.New()
	var got []*ConfigUpdateEvent[cfg]
	Subscribe(mgr, func(e *ConfigUpdateEvent[cfg]) { got = append(got, e) })

	values := []string{"a", "b"}
	r := &Reloader[cfg]{
		Events: mgr,
		Load: func() (*cfg, error) {
			v := values[0]
			values = values[1:]
			return &cfg{Value: v}, nil
		},
	}
	require.NoError(t, r.Reload())
	assert.Empty(t, got, "initial load fires no update")
	require.NoError(t, r.Reload())
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].PrevConfig.Value)
	assert.Equal(t, "b", got[0].Config.Value)
	assert.Equal(t, "b", r.Current().Value)
}

func TestReloaderKeepsCurrentOnInvalid(t *testing.T) {
	bad := errors.New("bad")
	value := "good"
	r := &Reloader[cfg]{
		Events: event.New(),
		Load:   func() (*cfg, error) { return &cfg{Value: value}, nil },
		Validate: func(c *cfg) error {
			if c.Value != "good" {
				return bad
			}
			return nil
		},
	}
	require.NoError(t, r.Reload())
	value = "broken"
	require.ErrorIs(t, r.Reload(), bad)
	assert.Equal(t, "good", r.Current().Value)
}

func TestWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var calls int
	require.NoError(t, Watch(ctx, path, func() error {
		mu.Lock()
		defer mu.Unlock()
		calls++
		return nil
	}))

	require.NoError(t, os.WriteFile(path, []byte("b"), 0644))
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls >= 1
	}, 5*time.Second, 20*time.Millisecond)
}

func TestWatchCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, Watch(ctx, "does-not-matter.yml", func() error { return nil }))
}
