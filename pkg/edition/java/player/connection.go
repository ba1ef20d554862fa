// Package player ties the per-connection scoreboard state, packet builder
// and interceptors of one client together.
package player

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-logr/logr"
	"github.com/rs/xid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"go.minekube.com/tabgate/pkg/edition/java/builder"
	"go.minekube.com/tabgate/pkg/edition/java/canonical"
	"go.minekube.com/tabgate/pkg/edition/java/netmc"
	"go.minekube.com/tabgate/pkg/edition/java/proto/packet"
	"go.minekube.com/tabgate/pkg/edition/java/proto/schema"
	"go.minekube.com/tabgate/pkg/edition/java/proto/version"
	"go.minekube.com/tabgate/pkg/edition/java/session"
	"go.minekube.com/tabgate/pkg/gate/proto"
	"go.minekube.com/tabgate/pkg/util/errs"
)

// ErrQueueFull is reported when a canonical packet could not be queued
// because the client has not joined yet and the queue is full.
var ErrQueueFull = errors.New("pending packet queue is full")

// Options are the options of a Connection.
type Options struct {
	// The negotiated protocol of the client. Must be an advertised version.
	Protocol proto.Protocol
	// Writer receives every packet that passed the interceptors. Required.
	Writer proto.PacketWriter
	// Builder defaults to a builder of schema.Default.
	Builder *builder.Builder
	// Interceptors see every packet in both directions in order.
	Interceptors []netmc.Interceptor
	// Reporter defaults to a log reporter.
	Reporter errs.Reporter
	// Whether clamped values are reported.
	ReportOverflow bool
	// Queue canonical packets until the JoinGame packet passed.
	AwaitJoinGame bool
	MaxQueued     int
}

var meter = otel.Meter("tabgate/player")

// Connection is one client's scoreboard packet pipeline.
// All methods are safe for concurrent use, packets are processed one at a time.
type Connection struct {
	id             xid.ID
	protocol       proto.Protocol
	log            logr.Logger
	builder        *builder.Builder
	chain          netmc.Chain
	writer         proto.PacketWriter
	reporter       errs.Reporter
	reportOverflow bool
	sent           metric.Int64Counter

	mu     sync.Mutex // Protects following fields
	state  *session.State
	joined bool
	queue  *pendingQueue // nil if not awaiting JoinGame
}

// New creates a Connection. The logger is taken from ctx.
func New(ctx context.Context, opts Options) (*Connection, error) {
	if !version.Protocol(opts.Protocol).Supported() {
		return nil, fmt.Errorf("unsupported protocol %s, supported versions are %s",
			version.Protocol(opts.Protocol), version.SupportedVersionsString)
	}
	if opts.Writer == nil {
		return nil, errors.New("missing packet writer")
	}
	id := xid.New()
	c := &Connection{
		id:             id,
		protocol:       opts.Protocol,
		log:            logr.FromContextOrDiscard(ctx).WithName("connection").WithValues("id", id.String(), "protocol", version.Protocol(opts.Protocol).String()),
		builder:        opts.Builder,
		chain:          netmc.Chain(opts.Interceptors),
		writer:         opts.Writer,
		reporter:       opts.Reporter,
		reportOverflow: opts.ReportOverflow,
		joined:         !opts.AwaitJoinGame,
	}
	if c.builder == nil {
		c.builder = builder.New(schema.Default)
	}
	// Resources are tracked by the names the client sees.
	c.state = session.NewKeyed(func(res canonical.Resource) canonical.Resource {
		return c.builder.WireResource(res, c.protocol)
	})
	if c.reporter == nil {
		c.reporter = errs.NewLogReporter(c.log)
	}
	if opts.AwaitJoinGame {
		if opts.MaxQueued <= 0 {
			return nil, errors.New("MaxQueued must be positive when awaiting JoinGame")
		}
		c.queue = newPendingQueue(opts.MaxQueued)
	}
	var err error
	c.sent, err = meter.Int64Counter("tabgate.canonical_packets",
		metric.WithDescription("Canonical packets handled per result"),
		metric.WithUnit("1"))
	if err != nil {
		c.log.Error(err, "failed to create canonical packets counter")
	}
	return c, nil
}

// ID returns the unique id of the connection.
func (c *Connection) ID() xid.ID { return c.id }

// Protocol returns the protocol of the client.
func (c *Connection) Protocol() proto.Protocol { return c.protocol }

// Registered reports whether the resource is registered on the client.
func (c *Connection) Registered(res canonical.Resource) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Registered(res)
}

// Names returns the sorted names of the registered resources of kind.
func (c *Connection) Names(kind canonical.Kind) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Names(kind)
}

// Send validates p against the registration state, builds it for the client's
// protocol and writes it through the interceptors.
// It returns false if the packet was rejected, dropped or failed to be written,
// the reason is reported.
//
// Before the client joined, packets are queued and Send returns true.
// Queued packets are checked against the registration state when they are
// released, a queued packet rejected then is only reported.
func (c *Connection) Send(ctx context.Context, p canonical.Packet) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.joined {
		if !c.queue.Queue(p) {
			c.report(ctx, p.Resource().String(), "rejected", ErrQueueFull)
			return false
		}
		return true
	}
	return c.send(ctx, p)
}

func (c *Connection) send(ctx context.Context, p canonical.Packet) bool {
	res := p.Resource().String()
	if err := c.state.Check(p); err != nil {
		c.report(ctx, res, "rejected", err)
		return false
	}
	pc, warns, err := c.builder.Build(p, c.protocol)
	if c.reportOverflow {
		for _, w := range warns {
			c.reporter.Report(res, w)
		}
	}
	if err != nil {
		c.report(ctx, res, "rejected", err)
		return false
	}
	written, err := c.write(ctx, res, pc)
	if err != nil {
		c.report(ctx, res, "failed", err)
		return false
	}
	if !written {
		c.count(ctx, "dropped")
		return false
	}
	c.state.Commit(p)
	c.count(ctx, "sent")
	return true
}

// write passes pc through the interceptors and writes the result.
// Interceptor errors are reported, write errors are returned.
func (c *Connection) write(ctx context.Context, resource string, pc *proto.PacketContext) (bool, error) {
	out, err := c.chain.InterceptOutbound(ctx, pc)
	if err != nil {
		c.reporter.Report(resource, err)
	}
	if out == nil {
		return false, nil
	}
	return true, c.writer.WritePacket(out)
}

// Outbound passes a client-bound packet not built by this connection
// through the interceptors and writes it.
// A JoinGame packet resets the registration state since the client
// drops its scoreboard on (re)join, and releases queued packets.
func (c *Connection) Outbound(ctx context.Context, pc *proto.PacketContext) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	join := netmc.Is(pc, &packet.JoinGame{})
	if join {
		c.state.Reset()
	}
	_, err := c.write(ctx, fmt.Sprintf("packet %s", pc.PacketID), pc)
	if err != nil {
		return err
	}
	if join && !c.joined {
		c.joined = true
		c.log.V(1).Info("client joined, releasing queued packets", "queued", c.queue.Len())
		c.queue.Release(func(p canonical.Packet) { c.send(ctx, p) })
	}
	return nil
}

// Inbound passes a server-bound packet through the interceptors
// and reports whether it shall be forwarded.
func (c *Connection) Inbound(ctx context.Context, pc *proto.PacketContext) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	keep, err := c.chain.InterceptInbound(ctx, pc)
	if err != nil {
		c.reporter.Report(fmt.Sprintf("packet %s", pc.PacketID), err)
	}
	return keep
}

// Reset forgets all registered resources without sending packets,
// e.g. when the client was moved to another server that cleared its scoreboard.
func (c *Connection) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Reset()
}

func (c *Connection) report(ctx context.Context, resource, result string, err error) {
	c.reporter.Report(resource, err)
	c.count(ctx, result)
}

func (c *Connection) count(ctx context.Context, result string) {
	if c.sent != nil {
		c.sent.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
	}
}
