package packet

import (
	"errors"
	"fmt"
	"io"

	"go.minekube.com/tabgate/pkg/edition/java/proto/schema"
	"go.minekube.com/tabgate/pkg/edition/java/proto/util"
	"go.minekube.com/tabgate/pkg/gate/proto"
)

// ObjectiveAction is the mode of a ScoreboardObjective packet.
type ObjectiveAction byte

const (
	RegisterObjective ObjectiveAction = iota
	UnregisterObjective
	UpdateObjective
)

// RenderType is how the client renders the scores of an objective.
type RenderType int

const (
	IntegerRenderType RenderType = iota
	HeartsRenderType
)

var renderTypeNames = [...]string{"integer", "hearts"}

// String returns the name written when the render type is a string field.
func (t RenderType) String() string {
	if t >= 0 && int(t) < len(renderTypeNames) {
		return renderTypeNames[t]
	}
	return fmt.Sprintf("RenderType(%d)", int(t))
}

func parseRenderType(s string) (RenderType, error) {
	for i, n := range renderTypeNames {
		if n == s {
			return RenderType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown render type %q", s)
}

// ScoreboardObjective registers, unregisters or updates an objective.
// Title holds a legacy string or a json chat component, see schema.ObjectiveTitle.
type ScoreboardObjective struct {
	Name       string
	Action     ObjectiveAction
	Title      string
	RenderType RenderType
	Layout     *Layout // nil uses the default layout
}

func (o *ScoreboardObjective) Encode(c *proto.PacketContext, wr io.Writer) error {
	err := util.WriteString(wr, o.Name)
	if err != nil {
		return err
	}
	err = util.WriteByte(wr, byte(o.Action))
	if err != nil {
		return err
	}
	if o.Action == UnregisterObjective {
		return nil
	}
	l, err := layoutOf(c, o.Layout)
	if err != nil {
		return err
	}
	err = util.WriteString(wr, o.Title)
	if err != nil {
		return err
	}
	if l.RenderType == schema.VarInt {
		return util.WriteVarInt(wr, int(o.RenderType))
	}
	return util.WriteString(wr, o.RenderType.String())
}

func (o *ScoreboardObjective) Decode(c *proto.PacketContext, rd io.Reader) (err error) {
	if o.Layout, err = layoutOf(c, o.Layout); err != nil {
		return err
	}
	o.Name, err = util.ReadString(rd)
	if err != nil {
		return err
	}
	action, err := util.ReadByte(rd)
	if err != nil {
		return err
	}
	o.Action = ObjectiveAction(action)
	if o.Action == UnregisterObjective {
		return nil
	}
	o.Title, err = util.ReadString(rd)
	if err != nil {
		return err
	}
	if o.Layout.RenderType == schema.VarInt {
		t, err := util.ReadVarInt(rd)
		o.RenderType = RenderType(t)
		return err
	}
	s, err := util.ReadString(rd)
	if err != nil {
		return err
	}
	o.RenderType, err = parseRenderType(s)
	return err
}

// DisplaySlot is where an objective is shown.
type DisplaySlot byte

const (
	ListSlot DisplaySlot = iota
	SidebarSlot
	BelowNameSlot
)

// DisplayObjective assigns an objective to a display slot.
type DisplayObjective struct {
	Slot DisplaySlot
	Name string
}

func (d *DisplayObjective) Encode(_ *proto.PacketContext, wr io.Writer) error {
	err := util.WriteByte(wr, byte(d.Slot))
	if err != nil {
		return err
	}
	return util.WriteString(wr, d.Name)
}

func (d *DisplayObjective) Decode(_ *proto.PacketContext, rd io.Reader) (err error) {
	slot, err := util.ReadByte(rd)
	if err != nil {
		return err
	}
	d.Slot = DisplaySlot(slot)
	d.Name, err = util.ReadString(rd)
	return err
}

// ScoreAction is the mode of an UpdateScore packet.
type ScoreAction byte

const (
	SetScore ScoreAction = iota
	RemoveScore
)

// UpdateScore sets or removes the score of a holder.
type UpdateScore struct {
	Holder    string
	Action    ScoreAction
	Objective string
	Value     int
}

func (u *UpdateScore) Encode(_ *proto.PacketContext, wr io.Writer) error {
	err := util.WriteString(wr, u.Holder)
	if err != nil {
		return err
	}
	err = util.WriteByte(wr, byte(u.Action))
	if err != nil {
		return err
	}
	err = util.WriteString(wr, u.Objective)
	if err != nil {
		return err
	}
	if u.Action == SetScore {
		return util.WriteVarInt(wr, u.Value)
	}
	return nil
}

func (u *UpdateScore) Decode(_ *proto.PacketContext, rd io.Reader) (err error) {
	u.Holder, err = util.ReadString(rd)
	if err != nil {
		return err
	}
	action, err := util.ReadByte(rd)
	if err != nil {
		return err
	}
	u.Action = ScoreAction(action)
	u.Objective, err = util.ReadString(rd)
	if err != nil {
		return err
	}
	if u.Action == SetScore {
		u.Value, err = util.ReadVarInt(rd)
	}
	return err
}

// TeamMode is the mode of a Teams packet.
type TeamMode byte

const (
	CreateTeam TeamMode = iota
	RemoveTeam
	UpdateTeam
	AddTeamPlayers
	RemoveTeamPlayers
)

func (m TeamMode) hasInfo() bool { return m == CreateTeam || m == UpdateTeam }
func (m TeamMode) hasPlayers() bool {
	return m == CreateTeam || m == AddTeamPlayers || m == RemoveTeamPlayers
}

// Friendly flags of a team.
const (
	AllowFriendlyFire     byte = 0x01
	SeeFriendlyInvisibles byte = 0x02
)

var errUnknownTeamMode = errors.New("unknown team mode")

// Teams creates, removes or updates a team or changes its players.
// DisplayName, Prefix and Suffix hold legacy strings or json chat
// components, see Layout.TeamComponents.
type Teams struct {
	Name              string
	Mode              TeamMode
	DisplayName       string
	Prefix            string
	Suffix            string
	FriendlyFlags     byte
	NameTagVisibility string
	CollisionRule     string // only written if Layout.CollisionRule
	Color             int
	Players           []string
	Layout            *Layout // nil uses the default layout
}

func (t *Teams) Encode(c *proto.PacketContext, wr io.Writer) error {
	if t.Mode > RemoveTeamPlayers {
		return errUnknownTeamMode
	}
	err := util.WriteString(wr, t.Name)
	if err != nil {
		return err
	}
	err = util.WriteByte(wr, byte(t.Mode))
	if err != nil {
		return err
	}
	if t.Mode.hasInfo() {
		l, err := layoutOf(c, t.Layout)
		if err != nil {
			return err
		}
		if l.TeamComponents {
			err = t.encodeInfo(l, wr)
		} else {
			err = t.encodeLegacyInfo(l, wr)
		}
		if err != nil {
			return err
		}
	}
	if t.Mode.hasPlayers() {
		return util.WriteStrings(wr, t.Players)
	}
	return nil
}

func (t *Teams) encodeInfo(l *Layout, wr io.Writer) error {
	err := util.WriteString(wr, t.DisplayName)
	if err != nil {
		return err
	}
	err = util.WriteByte(wr, t.FriendlyFlags)
	if err != nil {
		return err
	}
	err = util.WriteString(wr, t.NameTagVisibility)
	if err != nil {
		return err
	}
	if l.CollisionRule {
		err = util.WriteString(wr, t.CollisionRule)
		if err != nil {
			return err
		}
	}
	err = t.writeColor(l, wr)
	if err != nil {
		return err
	}
	err = util.WriteString(wr, t.Prefix)
	if err != nil {
		return err
	}
	return util.WriteString(wr, t.Suffix)
}

func (t *Teams) encodeLegacyInfo(l *Layout, wr io.Writer) error {
	for _, s := range []string{t.DisplayName, t.Prefix, t.Suffix} {
		if err := util.WriteString(wr, s); err != nil {
			return err
		}
	}
	err := util.WriteByte(wr, t.FriendlyFlags)
	if err != nil {
		return err
	}
	err = util.WriteString(wr, t.NameTagVisibility)
	if err != nil {
		return err
	}
	if l.CollisionRule {
		err = util.WriteString(wr, t.CollisionRule)
		if err != nil {
			return err
		}
	}
	return t.writeColor(l, wr)
}

func (t *Teams) writeColor(l *Layout, wr io.Writer) error {
	if l.TeamColor == schema.VarInt {
		return util.WriteVarInt(wr, t.Color)
	}
	return util.WriteByte(wr, byte(t.Color))
}

func (t *Teams) readColor(l *Layout, rd io.Reader) error {
	if l.TeamColor == schema.VarInt {
		color, err := util.ReadVarInt(rd)
		t.Color = color
		return err
	}
	color, err := util.ReadByte(rd)
	t.Color = int(int8(color))
	return err
}

func (t *Teams) Decode(c *proto.PacketContext, rd io.Reader) (err error) {
	t.Name, err = util.ReadString(rd)
	if err != nil {
		return err
	}
	mode, err := util.ReadByte(rd)
	if err != nil {
		return err
	}
	t.Mode = TeamMode(mode)
	if t.Mode > RemoveTeamPlayers {
		return errUnknownTeamMode
	}
	if t.Mode.hasInfo() {
		if t.Layout, err = layoutOf(c, t.Layout); err != nil {
			return err
		}
		if t.Layout.TeamComponents {
			err = t.decodeInfo(t.Layout, rd)
		} else {
			err = t.decodeLegacyInfo(t.Layout, rd)
		}
		if err != nil {
			return err
		}
	}
	if t.Mode.hasPlayers() {
		t.Players, err = util.ReadStringArray(rd)
	}
	return err
}

func (t *Teams) decodeInfo(l *Layout, rd io.Reader) (err error) {
	if t.DisplayName, err = util.ReadString(rd); err != nil {
		return err
	}
	if t.FriendlyFlags, err = util.ReadByte(rd); err != nil {
		return err
	}
	if t.NameTagVisibility, err = util.ReadString(rd); err != nil {
		return err
	}
	if l.CollisionRule {
		if t.CollisionRule, err = util.ReadString(rd); err != nil {
			return err
		}
	}
	if err = t.readColor(l, rd); err != nil {
		return err
	}
	if t.Prefix, err = util.ReadString(rd); err != nil {
		return err
	}
	t.Suffix, err = util.ReadString(rd)
	return err
}

func (t *Teams) decodeLegacyInfo(l *Layout, rd io.Reader) (err error) {
	for _, s := range []*string{&t.DisplayName, &t.Prefix, &t.Suffix} {
		if *s, err = util.ReadString(rd); err != nil {
			return err
		}
	}
	if t.FriendlyFlags, err = util.ReadByte(rd); err != nil {
		return err
	}
	if t.NameTagVisibility, err = util.ReadString(rd); err != nil {
		return err
	}
	if l.CollisionRule {
		if t.CollisionRule, err = util.ReadString(rd); err != nil {
			return err
		}
	}
	return t.readColor(l, rd)
}

var (
	_ proto.Packet = (*ScoreboardObjective)(nil)
	_ proto.Packet = (*DisplayObjective)(nil)
	_ proto.Packet = (*UpdateScore)(nil)
	_ proto.Packet = (*Teams)(nil)
)
