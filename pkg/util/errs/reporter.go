package errs

import (
	"context"
	"errors"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"go.minekube.com/tabgate/pkg/internal/quota"
)

// Reporter receives rejected operations and decode failures.
// Reporting is fire-and-forget and must not block.
type Reporter interface {
	Report(resource string, err error)
}

// ReporterFunc is a function implementing Reporter.
type ReporterFunc func(resource string, err error)

// Report implements Reporter.
func (f ReporterFunc) Report(resource string, err error) { f(resource, err) }

// Nop discards all reports.
var Nop Reporter = ReporterFunc(func(string, error) {})

var meter = otel.Meter("tabgate/errs")

// NewLogReporter returns a Reporter logging to log and counting
// reports per error kind. Overflow warnings and silent errors are
// logged at debug verbosity.
func NewLogReporter(log logr.Logger) Reporter {
	counter, err := meter.Int64Counter("tabgate.rejected_operations",
		metric.WithDescription("Operations and packets rejected by tabgate"),
		metric.WithUnit("1"))
	if err != nil {
		log.Error(err, "failed to create rejected operations counter")
	}
	return &logReporter{log: log, counter: counter}
}

type logReporter struct {
	log     logr.Logger
	counter metric.Int64Counter
}

func (r *logReporter) Report(resource string, err error) {
	if err == nil {
		return
	}
	kind := Kind(err)
	if r.counter != nil {
		r.counter.Add(context.Background(), 1, metric.WithAttributes(attribute.String("kind", kind)))
	}
	if kind == "encoding_overflow" || IsSilent(err) {
		r.log.V(1).Info("clamped or skipped", "resource", resource, "reason", err.Error())
		return
	}
	r.log.Info("rejected", "resource", resource, "kind", kind, "reason", err.Error())
}

// Kind returns a short name for the error kind of err.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrDuplicateRegistration):
		return "duplicate_registration"
	case errors.Is(err, ErrUnknownResource):
		return "unknown_resource"
	case errors.Is(err, ErrUnsupportedField):
		return "unsupported_field"
	case errors.Is(err, ErrDecodeFailure):
		return "decode_failure"
	case errors.Is(err, ErrEncodingOverflow):
		return "encoding_overflow"
	}
	return "other"
}

// RateLimited returns a Reporter forwarding to r at most eventsPerSecond
// reports per resource with bursts of up to burst reports.
// Up to maxEntries resources are tracked.
func RateLimited(r Reporter, eventsPerSecond float32, burst, maxEntries int) Reporter {
	q := quota.NewQuota(eventsPerSecond, burst, maxEntries)
	return ReporterFunc(func(resource string, err error) {
		if q.Blocked(resource) {
			return
		}
		r.Report(resource, err)
	})
}
