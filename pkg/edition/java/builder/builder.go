// Package builder translates canonical packets into version specific wire packets.
package builder

import (
	"fmt"
	"math"

	"go.minekube.com/tabgate/pkg/edition/java/canonical"
	"go.minekube.com/tabgate/pkg/edition/java/netmc"
	"go.minekube.com/tabgate/pkg/edition/java/proto/packet"
	"go.minekube.com/tabgate/pkg/edition/java/proto/packet/bossbar"
	"go.minekube.com/tabgate/pkg/edition/java/proto/schema"
	"go.minekube.com/tabgate/pkg/edition/java/proto/util"
	"go.minekube.com/tabgate/pkg/gate/proto"
	"go.minekube.com/tabgate/pkg/util/errs"
)

// Builder builds client-bound packets from canonical packets.
// It keeps no state and is safe for concurrent use.
type Builder struct {
	table *schema.Table
}

// New returns a Builder resolving version dependent fields through table.
func New(table *schema.Table) *Builder {
	return &Builder{table: table}
}

// Build returns the encoded wire packet of p for protocol.
//
// Values that do not fit the wire format of protocol are clamped and
// reported in warns, each wrapping errs.ErrEncodingOverflow.
// A canonical packet that cannot be represented in protocol at all
// fails with an error wrapping errs.ErrUnsupportedField.
func (b *Builder) Build(p canonical.Packet, protocol proto.Protocol) (pc *proto.PacketContext, warns []error, err error) {
	s := &shaper{table: b.table, protocol: protocol}
	wire, err := s.shape(p)
	if err == nil {
		pc, err = netmc.NewPacketContext(proto.ClientBound, protocol, wire)
	}
	if err != nil {
		res := p.Resource()
		return nil, s.warns, &errs.ResourceError{Kind: string(res.Kind), Name: res.Name, Err: err}
	}
	return pc, s.warns, nil
}

// identifiers are the fields naming the resource of each kind on the wire.
var identifiers = map[canonical.Kind]schema.FieldID{
	canonical.ObjectiveKind: schema.ObjectiveName,
	canonical.TeamKind:      schema.TeamName,
}

// WireResource returns res named the way Build writes it for protocol.
// Names longer than the client accepts are truncated, so distinct
// canonical names may share one wire resource.
func (b *Builder) WireResource(res canonical.Resource, protocol proto.Protocol) canonical.Resource {
	field, ok := identifiers[res.Kind]
	if !ok {
		return res
	}
	e, ok := b.table.Lookup(field, protocol)
	if !ok || e.Type != schema.String || e.Max <= 0 {
		return res
	}
	res.Name, _ = util.TruncateLegacy(res.Name, e.Max)
	return res
}

// shaper collects the warnings of one Build call.
type shaper struct {
	table    *schema.Table
	protocol proto.Protocol
	warns    []error
}

func (s *shaper) warn(field schema.FieldID, format string, args ...any) {
	s.warns = append(s.warns, fmt.Errorf("%w: %s: %s", errs.ErrEncodingOverflow, field, fmt.Sprintf(format, args...)))
}

func (s *shaper) shape(p canonical.Packet) (proto.Packet, error) {
	switch p := p.(type) {
	case *canonical.ObjectiveRegister:
		return s.objective(packet.RegisterObjective, p.Name, p.Title, p.RenderType)
	case *canonical.ObjectiveUpdate:
		return s.objective(packet.UpdateObjective, p.Name, p.Title, p.RenderType)
	case *canonical.ObjectiveUnregister:
		name, err := s.text(schema.ObjectiveName, p.Name)
		if err != nil {
			return nil, err
		}
		return &packet.ScoreboardObjective{Name: name, Action: packet.UnregisterObjective}, nil
	case *canonical.ObjectiveDisplay:
		name, err := s.text(schema.ObjectiveName, p.Name)
		if err != nil {
			return nil, err
		}
		if p.Slot > packet.BelowNameSlot {
			return nil, fmt.Errorf("unknown display slot %d", p.Slot)
		}
		return &packet.DisplayObjective{Slot: p.Slot, Name: name}, nil

	case *canonical.ScoreSet:
		return s.score(packet.SetScore, p.Objective, p.Holder, p.Value)
	case *canonical.ScoreRemove:
		return s.score(packet.RemoveScore, p.Objective, p.Holder, 0)

	case *canonical.TeamRegister:
		return s.team(packet.CreateTeam, p.Name, &p.Info, p.Players)
	case *canonical.TeamUpdate:
		return s.team(packet.UpdateTeam, p.Name, &p.Info, nil)
	case *canonical.TeamUnregister:
		return s.team(packet.RemoveTeam, p.Name, nil, nil)
	case *canonical.TeamAddPlayers:
		return s.team(packet.AddTeamPlayers, p.Name, nil, p.Players)
	case *canonical.TeamRemovePlayers:
		return s.team(packet.RemoveTeamPlayers, p.Name, nil, p.Players)

	case *canonical.BossBarCreate:
		bb := &bossbar.BossBar{ID: p.ID, Action: bossbar.AddAction}
		err := s.bossBarTitle(bb, p.Title)
		if err != nil {
			return nil, err
		}
		if err = s.bossBarStyle(bb, p.Color, p.Overlay); err != nil {
			return nil, err
		}
		bb.Percent = s.progress(p.Progress)
		bb.Flags = bossbar.ConvertFlags(p.Flags...)
		return bb, nil
	case *canonical.BossBarUpdate:
		return s.bossBarUpdate(p)
	case *canonical.BossBarRemove:
		// The title field tells whether boss bars exist in this version at all.
		if _, err := s.table.Require(schema.BossBarTitle, s.protocol); err != nil {
			return nil, err
		}
		return &bossbar.BossBar{ID: p.ID, Action: bossbar.RemoveAction}, nil
	}
	return nil, fmt.Errorf("unknown canonical packet %T", p)
}

// text shapes a legacy string for the wire type of field.
func (s *shaper) text(field schema.FieldID, value string) (string, error) {
	e, err := s.table.Require(field, s.protocol)
	if err != nil {
		return "", err
	}
	return s.textAs(e, value)
}

func (s *shaper) textAs(e schema.Entry, value string) (string, error) {
	switch e.Type {
	case schema.String:
		if e.Max <= 0 {
			return value, nil
		}
		truncated, ok := util.TruncateLegacy(value, e.Max)
		if ok {
			s.warn(e.Field, "truncated %q to %d characters", value, e.Max)
		}
		return truncated, nil
	case schema.Chat:
		return util.LegacyToJson(s.protocol, value)
	}
	return "", fmt.Errorf("field %s has non-text wire type %s", e.Field, e.Type)
}

func (s *shaper) objective(action packet.ObjectiveAction, name, title string, rt packet.RenderType) (proto.Packet, error) {
	var err error
	o := &packet.ScoreboardObjective{Action: action}
	if o.Name, err = s.text(schema.ObjectiveName, name); err != nil {
		return nil, err
	}
	if o.Title, err = s.text(schema.ObjectiveTitle, title); err != nil {
		return nil, err
	}
	if o.Layout, err = packet.ResolveLayout(s.table, s.protocol); err != nil {
		return nil, err
	}
	if rt != packet.IntegerRenderType && rt != packet.HeartsRenderType {
		s.warn(schema.ObjectiveRenderType, "unknown render type %d, using %s", int(rt), packet.IntegerRenderType)
		rt = packet.IntegerRenderType
	}
	o.RenderType = rt
	return o, nil
}

func (s *shaper) score(action packet.ScoreAction, objective, holder string, value int) (proto.Packet, error) {
	var err error
	u := &packet.UpdateScore{Action: action, Value: value}
	if u.Objective, err = s.text(schema.ObjectiveName, objective); err != nil {
		return nil, err
	}
	if u.Holder, err = s.text(schema.ScoreHolder, holder); err != nil {
		return nil, err
	}
	return u, nil
}

var (
	nameTagVisibilities = []string{"always", "never", "hideForOtherTeams", "hideForOwnTeam"}
	collisionRules      = []string{"always", "never", "pushOtherTeams", "pushOwnTeam"}
)

// chatColorReset is the ordinal of the reset formatting code in 1.13+.
const chatColorReset = 21

func (s *shaper) team(mode packet.TeamMode, name string, info *canonical.TeamInfo, players []string) (proto.Packet, error) {
	var err error
	t := &packet.Teams{Mode: mode, Players: players}
	if t.Name, err = s.text(schema.TeamName, name); err != nil {
		return nil, err
	}
	if mode == packet.CreateTeam && t.Players == nil {
		t.Players = []string{}
	}
	if info == nil {
		return t, nil
	}
	if t.Layout, err = packet.ResolveLayout(s.table, s.protocol); err != nil {
		return nil, err
	}
	if t.DisplayName, err = s.text(schema.TeamDisplayName, info.DisplayName); err != nil {
		return nil, err
	}
	if t.Prefix, err = s.text(schema.TeamPrefix, info.Prefix); err != nil {
		return nil, err
	}
	if t.Suffix, err = s.text(schema.TeamSuffix, info.Suffix); err != nil {
		return nil, err
	}
	if info.FriendlyFire {
		t.FriendlyFlags |= packet.AllowFriendlyFire
	}
	if info.SeeInvisibles {
		t.FriendlyFlags |= packet.SeeFriendlyInvisibles
	}
	if t.NameTagVisibility, err = s.enum(schema.TeamNameTagVisibility, info.NameTagVisibility, nameTagVisibilities); err != nil {
		return nil, err
	}
	if t.Layout.CollisionRule {
		if t.CollisionRule, err = s.enum(schema.TeamCollisionRule, info.CollisionRule, collisionRules); err != nil {
			return nil, err
		}
	}
	t.Color = s.teamColor(t.Layout, info.Color)
	return t, nil
}

// enum validates value against the allowed constants, defaulting to the first.
func (s *shaper) enum(field schema.FieldID, value string, allowed []string) (string, error) {
	if _, err := s.table.Require(field, s.protocol); err != nil {
		return "", err
	}
	if value == "" {
		return allowed[0], nil
	}
	for _, a := range allowed {
		if a == value {
			return value, nil
		}
	}
	s.warn(field, "unknown value %q, using %q", value, allowed[0])
	return allowed[0], nil
}

func (s *shaper) teamColor(l *packet.Layout, color int) int {
	if color < canonical.ResetColor || color > 15 {
		s.warn(schema.TeamColor, "color %d out of range, resetting", color)
		color = canonical.ResetColor
	}
	if l.TeamColor == schema.VarInt && color == canonical.ResetColor {
		return chatColorReset
	}
	return color
}

func (s *shaper) bossBarTitle(bb *bossbar.BossBar, title string) (err error) {
	bb.Name, err = s.text(schema.BossBarTitle, title)
	return err
}

func (s *shaper) bossBarStyle(bb *bossbar.BossBar, color bossbar.Color, overlay bossbar.Overlay) error {
	e, err := s.table.Require(schema.BossBarStyle, s.protocol)
	if err != nil {
		return err
	}
	if color < bossbar.PinkColor || color > bossbar.WhiteColor {
		s.warn(e.Field, "color %d out of range", color)
		color = bossbar.WhiteColor
	}
	if overlay < bossbar.ProgressOverlay || overlay > bossbar.Notched20Overlay {
		s.warn(e.Field, "overlay %d out of range", overlay)
		overlay = bossbar.ProgressOverlay
	}
	bb.Color, bb.Overlay = color, overlay
	return nil
}

func (s *shaper) progress(p float32) float32 {
	switch {
	case math.IsNaN(float64(p)):
		s.warn(schema.BossBarTitle, "progress %v reset to 0", p)
		return 0
	case p < 0:
		s.warn(schema.BossBarTitle, "progress %v clamped to 0", p)
		return 0
	case p > 1:
		s.warn(schema.BossBarTitle, "progress %v clamped to 1", p)
		return 1
	}
	return p
}

func (s *shaper) bossBarUpdate(p *canonical.BossBarUpdate) (proto.Packet, error) {
	if _, err := s.table.Require(schema.BossBarTitle, s.protocol); err != nil {
		return nil, err
	}
	bb := &bossbar.BossBar{ID: p.ID}
	switch p.Change {
	case canonical.BossBarProgress:
		bb.Action = bossbar.UpdatePercentAction
		bb.Percent = s.progress(p.Progress)
	case canonical.BossBarTitle:
		bb.Action = bossbar.UpdateNameAction
		if err := s.bossBarTitle(bb, p.Title); err != nil {
			return nil, err
		}
	case canonical.BossBarStyle:
		bb.Action = bossbar.UpdateStyleAction
		if err := s.bossBarStyle(bb, p.Color, p.Overlay); err != nil {
			return nil, err
		}
	case canonical.BossBarFlags:
		bb.Action = bossbar.UpdatePropertiesAction
		bb.Flags = bossbar.ConvertFlags(p.Flags...)
	default:
		return nil, fmt.Errorf("unknown boss bar change %d", p.Change)
	}
	return bb, nil
}
