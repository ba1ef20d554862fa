package netmc

import (
	"context"
	"errors"
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"go.minekube.com/tabgate/pkg/gate/proto"
)

// Interceptor sees every packet of one connection before it reaches the transport.
//
// InterceptOutbound returns the packet to forward, which may be a rewritten copy of pc
// or nil to drop it. On error the returned packet is still forwarded, so an
// interceptor failing to handle a packet returns pc untouched together with the error.
//
// InterceptInbound reports whether the packet shall be kept.
type Interceptor interface {
	InterceptOutbound(ctx context.Context, pc *proto.PacketContext) (*proto.PacketContext, error)
	InterceptInbound(ctx context.Context, pc *proto.PacketContext) (keep bool, err error)
}

// Chain runs interceptors in order.
// Errors do not stop the chain, they are joined and returned together
// with the result of the last interceptor.
type Chain []Interceptor

var _ Interceptor = (Chain)(nil)

func (c Chain) InterceptOutbound(ctx context.Context, pc *proto.PacketContext) (*proto.PacketContext, error) {
	var errs []error
	for _, i := range c {
		next, err := i.InterceptOutbound(ctx, pc)
		if err != nil {
			errs = append(errs, err)
		}
		if next == nil {
			return nil, errors.Join(errs...)
		}
		pc = next
	}
	return pc, errors.Join(errs...)
}

func (c Chain) InterceptInbound(ctx context.Context, pc *proto.PacketContext) (bool, error) {
	var errs []error
	for _, i := range c {
		keep, err := i.InterceptInbound(ctx, pc)
		if err != nil {
			errs = append(errs, err)
		}
		if !keep {
			return false, errors.Join(errs...)
		}
	}
	return true, errors.Join(errs...)
}

// telemetryInterceptor records a span per packet.
type telemetryInterceptor struct {
	log    logr.Logger
	tracer trace.Tracer
}

// NewTelemetryInterceptor creates an Interceptor that records an OpenTelemetry
// span per packet and a dump of known packets at debug verbosity.
// It never modifies or drops packets.
func NewTelemetryInterceptor(log logr.Logger) Interceptor {
	return &telemetryInterceptor{
		log:    log,
		tracer: otel.Tracer("tabgate/netmc"),
	}
}

func (t *telemetryInterceptor) InterceptOutbound(ctx context.Context, pc *proto.PacketContext) (*proto.PacketContext, error) {
	t.record(ctx, "InterceptOutbound", pc)
	return pc, nil
}

func (t *telemetryInterceptor) InterceptInbound(ctx context.Context, pc *proto.PacketContext) (bool, error) {
	t.record(ctx, "InterceptInbound", pc)
	return true, nil
}

func (t *telemetryInterceptor) record(ctx context.Context, name string, pc *proto.PacketContext) {
	if pc == nil {
		return
	}
	_, span := t.tracer.Start(ctx, name,
		trace.WithAttributes(
			attribute.String("packet.id", pc.PacketID.String()),
			attribute.Int("packet.size", len(pc.Payload)),
			attribute.String("packet.direction", pc.Direction.String()),
			attribute.Int("packet.protocol", int(pc.Protocol)),
		))
	defer span.End()

	if !pc.KnownPacket() {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("packet.type", fmt.Sprintf("%T", pc.Packet)),
	}
	if t.log.V(1).Enabled() {
		dump := spew.Sdump(pc.Packet)
		attrs = append(attrs, attribute.String("packet.dump", dump))
		t.log.V(1).Info(name, "packet", pc.String(), "dump", dump)
	}
	span.SetAttributes(attrs...)
}
