package tabgate

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/urfave/cli/v2"

	"go.minekube.com/tabgate/pkg/gate"
	"go.minekube.com/tabgate/pkg/gate/config"
	"go.minekube.com/tabgate/pkg/internal/reload"
)

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Watch the config file and log every applied change",
		Description: `Loads the file given by the global --config flag and keeps
reloading it on change until interrupted. Invalid changes are
logged and the previous config stays active.

	tabgate -c config.yml watch`,
		Action: func(c *cli.Context) error {
			path := c.String("config")
			if path == "" {
				return cli.Exit("watch requires a config file, set --config", 1)
			}
			log := logr.FromContextOrDiscard(c.Context)
			cfg, err := loadConfig(c)
			if err != nil {
				return cli.Exit(err, 1)
			}
			g, err := gate.New(c.Context, gate.Options{Config: cfg, Logger: log})
			if err != nil {
				return cli.Exit(err, 1)
			}
			reload.Subscribe(g.Event(), func(e *reload.ConfigUpdateEvent[config.Config]) {
				log.Info("config changed",
					"petFix", e.Config.Config.PetFix.Enabled,
					"previousPetFix", e.PrevConfig.Config.PetFix.Enabled,
					"fieldPolicy", e.Config.Config.PetFix.FieldPolicy,
					"dedupActions", e.Config.Config.PetFix.DedupActions)
			})

			log.Info("watching config", "path", path)
			err = g.Watch(c.Context, path, func() (*config.Config, error) { return loadConfig(c) })
			if err != nil {
				return cli.Exit(fmt.Errorf("error watching config: %w", err), 1)
			}
			log.Info("stopped watching config")
			return nil
		},
	}
}
