package tabgate

import (
	"fmt"
	"os"

	"github.com/gookit/color"
	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"go.minekube.com/tabgate/pkg/gate/config"
)

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Output the default configuration or validate the active one",
		Description: `Output the default configuration file to stdout or a file.
You can redirect to a file or use the --write flag:

	tabgate config > config.yml
	tabgate config --write              # Writes to config.yml

With --validate the file given by the global --config flag is loaded,
environment overrides applied, and validation problems printed.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "write",
				Aliases: []string{"w"},
				Usage:   "Write config to config.yml instead of stdout",
			},
			&cli.BoolFlag{
				Name:  "validate",
				Usage: "Validate the active config instead of printing the default",
			},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("validate") {
				return validateConfig(c)
			}
			configBytes, err := yaml.Marshal(config.DefaultConfig)
			if err != nil {
				return cli.Exit(fmt.Errorf("error encoding default config: %w", err), 1)
			}

			if c.Bool("write") {
				outputFile := "config.yml"
				if err = os.WriteFile(outputFile, configBytes, 0644); err != nil {
					return cli.Exit(fmt.Errorf("error writing config to %q: %w", outputFile, err), 1)
				}
				_, _ = fmt.Fprintf(c.App.Writer, "Configuration written to %s\n", outputFile)
				return nil
			}

			if _, err = c.App.Writer.Write(configBytes); err != nil {
				return cli.Exit(fmt.Errorf("error writing config: %w", err), 1)
			}
			return nil
		},
	}
}

func validateConfig(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err, 1)
	}
	warns, errs := cfg.Validate()
	for _, w := range warns {
		_, _ = fmt.Fprintln(c.App.Writer, color.Yellow.Sprint("warn: "), w)
	}
	for _, e := range errs {
		_, _ = fmt.Fprintln(c.App.Writer, color.Red.Sprint("error:"), e)
	}
	if len(errs) != 0 {
		return cli.Exit(fmt.Sprintf("config has %d error(s)", len(errs)), 1)
	}
	_, _ = fmt.Fprintln(c.App.Writer, color.Green.Sprint("config is valid"))
	return nil
}

// loadConfig loads the config of the global --config flag.
func loadConfig(c *cli.Context) (*config.Config, error) {
	v := viper.New()
	if path := c.String("config"); path != "" {
		v.SetConfigFile(path)
	}
	return config.LoadConfig(v)
}
