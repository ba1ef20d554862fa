package gate

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.minekube.com/tabgate/pkg/edition/java/canonical"
	jconfig "go.minekube.com/tabgate/pkg/edition/java/config"
	"go.minekube.com/tabgate/pkg/edition/java/proto/version"
	"go.minekube.com/tabgate/pkg/gate/config"
	"go.minekube.com/tabgate/pkg/gate/proto"
	"go.minekube.com/tabgate/pkg/util/errs"
)

type countingWriter struct{ n int }

func (w *countingWriter) WritePacket(*proto.PacketContext) error {
	w.n++
	return nil
}

func defaultConfig() *config.Config {
	cfg := config.DefaultConfig
	return &cfg
}

func TestNew(t *testing.T) {
	_, err := New(context.Background(), Options{})
	require.ErrorIs(t, err, errs.ErrMissingConfig)

	g, err := New(context.Background(), Options{Config: defaultConfig(), Logger: logr.Discard()})
	require.NoError(t, err)
	assert.True(t, g.PetFix().Policy().Enabled)
	assert.Equal(t, defaultConfig(), g.Config())
}

func TestNewConnection(t *testing.T) {
	cfg := defaultConfig()
	cfg.Config.Debug = true
	g, err := New(context.Background(), Options{Config: cfg})
	require.NoError(t, err)

	w := &countingWriter{}
	c, err := g.NewConnection(context.Background(), version.Minecraft_1_17_1.Protocol, w)
	require.NoError(t, err)
	require.True(t, c.Send(context.Background(), &canonical.ObjectiveRegister{Name: "health", Title: "HP"}))
	require.False(t, c.Send(context.Background(), &canonical.ObjectiveRegister{Name: "health", Title: "HP"}))
	assert.Equal(t, 1, w.n)

	_, err = g.NewConnection(context.Background(), 1, w)
	require.Error(t, err)
}

func TestApply(t *testing.T) {
	g, err := New(context.Background(), Options{Config: defaultConfig()})
	require.NoError(t, err)

	cfg := defaultConfig()
	cfg.Config.PetFix.Enabled = false
	require.NoError(t, g.Apply(cfg))
	assert.False(t, g.PetFix().Policy().Enabled)

	bad := defaultConfig()
	bad.Config.PetFix.DedupActions = []string{"click"}
	require.Error(t, g.Apply(bad))
	assert.Same(t, cfg, g.Config(), "failed apply keeps the active config")
}

func TestWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	write := func(policy jconfig.FieldPolicy) {
		require.NoError(t, os.WriteFile(path, []byte("config:\n  petFix:\n    fieldPolicy: "+string(policy)+"\n"), 0644))
	}
	write(jconfig.RandomizeFieldPolicy)

	load := func() (*config.Config, error) {
		v := viper.New()
		v.SetConfigFile(path)
		return config.LoadConfig(v)
	}
	g, err := New(context.Background(), Options{Config: defaultConfig()})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- g.Watch(ctx, path, load) }()

	require.Eventually(t, func() bool {
		return g.PetFix().Policy().FieldPolicy == jconfig.RandomizeFieldPolicy
	}, 2*time.Second, 10*time.Millisecond, "initial load is applied")

	write(jconfig.SuppressFieldPolicy)
	require.Eventually(t, func() bool {
		return g.PetFix().Policy().FieldPolicy == jconfig.SuppressFieldPolicy
	}, 5*time.Second, 20*time.Millisecond, "changes are applied")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not return after cancel")
	}
}
