// Package petfix rewrites the owner of tamed animals in entity metadata and
// drops duplicate entity interactions some clients send for a single click.
package petfix

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/atomic"

	"go.minekube.com/tabgate/pkg/edition/java/config"
	"go.minekube.com/tabgate/pkg/edition/java/netmc"
	"go.minekube.com/tabgate/pkg/edition/java/proto/metadata"
	"go.minekube.com/tabgate/pkg/edition/java/proto/packet"
	"go.minekube.com/tabgate/pkg/edition/java/proto/schema"
	"go.minekube.com/tabgate/pkg/gate/proto"
	"go.minekube.com/tabgate/pkg/util/uuid"
)

// Policy is the active pet fix behavior.
type Policy struct {
	Enabled      bool
	Window       time.Duration
	FieldPolicy  config.FieldPolicy
	DedupActions []packet.InteractAction
}

func (p *Policy) dedup(a packet.InteractAction) bool {
	for _, d := range p.DedupActions {
		if d == a {
			return true
		}
	}
	return false
}

// PolicyFromConfig converts the pet fix config into a Policy.
func PolicyFromConfig(c config.PetFix) (*Policy, error) {
	p := &Policy{
		Enabled:     c.Enabled,
		Window:      time.Duration(c.WindowMillis) * time.Millisecond,
		FieldPolicy: c.FieldPolicy,
	}
	if p.FieldPolicy == "" {
		p.FieldPolicy = config.SuppressFieldPolicy
	}
	for _, name := range c.DedupActions {
		a, ok := parseAction(name)
		if !ok {
			return nil, fmt.Errorf("unknown interaction action %q", name)
		}
		p.DedupActions = append(p.DedupActions, a)
	}
	return p, nil
}

func parseAction(name string) (packet.InteractAction, bool) {
	for _, a := range []packet.InteractAction{
		packet.InteractActionInteract,
		packet.InteractActionAttack,
		packet.InteractActionInteractAt,
	} {
		if a.String() == name {
			return a, true
		}
	}
	return 0, false
}

// Fix holds the policy shared by all connections.
// The policy can be swapped at any time without blocking the packet path.
type Fix struct {
	table  *schema.Table
	policy atomic.Pointer[Policy]
}

// New returns a Fix resolving the pet owner field through table.
func New(table *schema.Table, policy *Policy) *Fix {
	f := &Fix{table: table}
	f.SetPolicy(policy)
	return f
}

// SetPolicy replaces the active policy. A nil policy disables the fix.
func (f *Fix) SetPolicy(p *Policy) {
	if p == nil {
		p = &Policy{}
	}
	f.policy.Store(p)
}

// Policy returns the active policy.
func (f *Fix) Policy() *Policy { return f.policy.Load() }

// Option configures an interceptor.
type Option func(*interceptor)

// WithClock sets the clock used for de-duplication.
func WithClock(now func() time.Time) Option {
	return func(i *interceptor) { i.now = now }
}

// WithUUIDSource sets the source of owner ids for the randomize policy.
func WithUUIDSource(fn func() uuid.UUID) Option {
	return func(i *interceptor) { i.newUUID = fn }
}

// Interceptor returns a new interceptor for one connection.
func (f *Fix) Interceptor(opts ...Option) netmc.Interceptor {
	i := &interceptor{
		fix:      f,
		now:      time.Now,
		newUUID:  uuid.New,
		lastSeen: map[packet.InteractAction]time.Time{},
	}
	for _, o := range opts {
		o(i)
	}
	return i
}

// interceptor is owned by a single connection.
type interceptor struct {
	fix      *Fix
	now      func() time.Time
	newUUID  func() uuid.UUID
	lastSeen map[packet.InteractAction]time.Time
}

var _ netmc.Interceptor = (*interceptor)(nil)

// InterceptOutbound rewrites the pet owner entry of entity metadata and spawn packets.
// Packets that fail to decode are forwarded untouched together with the error.
func (i *interceptor) InterceptOutbound(_ context.Context, pc *proto.PacketContext) (*proto.PacketContext, error) {
	p := i.fix.Policy()
	if !p.Enabled {
		return pc, nil
	}
	if !netmc.Is(pc, &packet.EntityMetadata{}) && !netmc.Is(pc, &packet.SpawnMob{}) {
		return pc, nil
	}
	field, ok := i.fix.table.Lookup(schema.PetOwner, pc.Protocol)
	if !ok {
		return pc, nil
	}

	cp, entries, err := decodeCopy(pc)
	if err != nil {
		return pc, fmt.Errorf("pet fix: %w", err)
	}
	index := uint8(field.Index)
	e, ok := entries.Get(index)
	if !ok || e.Type != metadata.TypeOptUUID {
		return pc, nil
	}
	switch p.FieldPolicy {
	case config.RandomizeFieldPolicy:
		owner, _ := e.Value.(metadata.OptUUID)
		if !owner.Present {
			return pc, nil
		}
		entries.Patch(index, metadata.SomeUUID(i.newUUID()))
	default:
		entries.Remove(index)
	}

	out, err := netmc.Encode(cp)
	if err != nil {
		return pc, fmt.Errorf("pet fix: %w", err)
	}
	return out, nil
}

// decodeCopy returns a copy of pc holding a copy of its decoded packet
// and the metadata entries of that copy.
func decodeCopy(pc *proto.PacketContext) (*proto.PacketContext, *metadata.Entries, error) {
	cp := *pc
	if !cp.KnownPacket() {
		if err := netmc.Decode(&cp); err != nil {
			return nil, nil, err
		}
	}
	switch p := cp.Packet.(type) {
	case *packet.EntityMetadata:
		c := *p
		c.Metadata = p.Metadata.Clone()
		cp.Packet = &c
		return &cp, &c.Metadata, nil
	case *packet.SpawnMob:
		c := *p
		c.Metadata = p.Metadata.Clone()
		cp.Packet = &c
		return &cp, &c.Metadata, nil
	}
	return nil, nil, fmt.Errorf("unexpected packet %T", cp.Packet)
}

// InterceptInbound drops any interaction arriving less than the policy window
// after an interaction with one of the de-dup actions. Dropped interactions
// do not extend the window.
func (i *interceptor) InterceptInbound(_ context.Context, pc *proto.PacketContext) (bool, error) {
	p := i.fix.Policy()
	if !p.Enabled || p.Window <= 0 || !netmc.Is(pc, &packet.UseEntity{}) {
		return true, nil
	}
	if err := netmc.Decode(pc); err != nil {
		return true, fmt.Errorf("pet fix: %w", err)
	}
	use, ok := pc.Packet.(*packet.UseEntity)
	if !ok {
		return true, nil
	}
	now := i.now()
	for a, last := range i.lastSeen {
		if p.dedup(a) && now.Sub(last) < p.Window {
			return false, nil
		}
	}
	if p.dedup(use.Action) {
		i.lastSeen[use.Action] = now
	}
	return true, nil
}
