package tabgate

import (
	"fmt"

	"github.com/honeycombio/otel-config-go/otelconfig"

	"go.minekube.com/tabgate/pkg/version"
)

// initTelemetry configures the global OpenTelemetry meter and tracer
// providers from the standard OTEL_* environment variables.
// The returned func flushes and shuts them down.
func initTelemetry() (shutdown func(), err error) {
	shutdown, err = otelconfig.ConfigureOpenTelemetry(
		otelconfig.WithServiceName("tabgate"),
		otelconfig.WithServiceVersion(version.String()),
	)
	if err != nil {
		return nil, fmt.Errorf("error configuring OpenTelemetry: %w", err)
	}
	return shutdown, nil
}
