package packet

import (
	"fmt"
	"sync"

	"go.minekube.com/tabgate/pkg/edition/java/proto/schema"
	"go.minekube.com/tabgate/pkg/gate/proto"
)

// Layout is the wire shape of the scoreboard and team packets of one protocol.
//
// Packets built by a builder carry the layout resolved from the builder's
// schema table. Packets without a layout use the one of schema.Default.
type Layout struct {
	RenderType schema.WireType // String or VarInt
	TeamColor  schema.WireType // Byte or VarInt
	// Team texts are chat components and the team info uses the field order
	// introduced with them.
	TeamComponents bool
	CollisionRule  bool
}

// ResolveLayout resolves the layout of protocol from table.
func ResolveLayout(table *schema.Table, protocol proto.Protocol) (*Layout, error) {
	rt, err := table.Require(schema.ObjectiveRenderType, protocol)
	if err != nil {
		return nil, err
	}
	if rt.Type != schema.String && rt.Type != schema.VarInt {
		return nil, fmt.Errorf("field %s has unexpected wire type %s", rt.Field, rt.Type)
	}
	color, err := table.Require(schema.TeamColor, protocol)
	if err != nil {
		return nil, err
	}
	if color.Type != schema.Byte && color.Type != schema.VarInt {
		return nil, fmt.Errorf("field %s has unexpected wire type %s", color.Field, color.Type)
	}
	prefix, err := table.Require(schema.TeamPrefix, protocol)
	if err != nil {
		return nil, err
	}
	_, collision := table.Lookup(schema.TeamCollisionRule, protocol)
	return &Layout{
		RenderType:     rt.Type,
		TeamColor:      color.Type,
		TeamComponents: prefix.Type == schema.Chat,
		CollisionRule:  collision,
	}, nil
}

var defaultLayouts sync.Map // proto.Protocol -> *Layout

func defaultLayout(protocol proto.Protocol) (*Layout, error) {
	if l, ok := defaultLayouts.Load(protocol); ok {
		return l.(*Layout), nil
	}
	l, err := ResolveLayout(schema.Default, protocol)
	if err != nil {
		return nil, err
	}
	defaultLayouts.Store(protocol, l)
	return l, nil
}

// layoutOf returns l or the default layout of the protocol of c.
func layoutOf(c *proto.PacketContext, l *Layout) (*Layout, error) {
	if l != nil {
		return l, nil
	}
	return defaultLayout(c.Protocol)
}
