// Package tabgate is the command line interface of tabgate.
package tabgate

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"go.minekube.com/tabgate/pkg/version"
)

// Execute runs App and exits the process on error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()
	if err := App().RunContext(ctx, os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// App returns the tabgate cli app.
func App() *cli.App {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
	app := cli.NewApp()
	app.Name = "tabgate"
	app.Usage = "Scoreboard, team and boss bar packets for every Minecraft version."
	app.Description = `Translates version independent scoreboard, team and boss bar
operations into the packets each Minecraft Java client version expects
and rewrites pet owner metadata on the way to the client.`
	app.Version = version.String()
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "config file (default: none, env and defaults only)",
			EnvVars: []string{"TABGATE_CONFIG"},
		},
		&cli.BoolFlag{
			Name:    "debug",
			Aliases: []string{"d"},
			Usage:   "Enable debug mode and highest log verbosity",
			EnvVars: []string{"TABGATE_DEBUG"},
		},
		&cli.BoolFlag{
			Name:    "telemetry",
			Usage:   "Export metrics and traces configured by the OTEL_* environment variables",
			EnvVars: []string{"TABGATE_TELEMETRY"},
		},
		&cli.IntFlag{
			Name:    "verbosity",
			Aliases: []string{"v"},
			Usage:   "The higher the verbosity the more logs are shown",
			EnvVars: []string{"TABGATE_VERBOSITY"},
		},
	}
	var shutdownTelemetry func()
	app.Before = func(c *cli.Context) error {
		verbosity := c.Int("verbosity")
		if c.Bool("debug") {
			verbosity = 127
		}
		log, err := newLogger(c.Bool("debug"), verbosity)
		if err != nil {
			return cli.Exit(fmt.Errorf("error creating zap logger: %w", err), 1)
		}
		c.Context = logr.NewContext(c.Context, log)
		if c.Bool("telemetry") {
			if shutdownTelemetry, err = initTelemetry(); err != nil {
				return cli.Exit(err, 1)
			}
		}
		return nil
	}
	app.After = func(*cli.Context) error {
		if shutdownTelemetry != nil {
			shutdownTelemetry()
		}
		return nil
	}
	app.Commands = []*cli.Command{
		configCommand(),
		schemaCommand(),
		buildCommand(),
		watchCommand(),
	}
	return app
}

// newLogger returns a zap backed logger.
// The logr verbosity maps to negative zap levels.
func newLogger(debug bool, verbosity int) (logr.Logger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	verbosity = max(0, min(verbosity, 127))
	cfg.Level = zap.NewAtomicLevelAt(zapcore.Level(-verbosity))
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build()
	if err != nil {
		return logr.Discard(), err
	}
	return zapr.NewLogger(l), nil
}
