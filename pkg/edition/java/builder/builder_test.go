package builder

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.minekube.com/tabgate/pkg/edition/java/canonical"
	"go.minekube.com/tabgate/pkg/edition/java/netmc"
	"go.minekube.com/tabgate/pkg/edition/java/proto/packet"
	"go.minekube.com/tabgate/pkg/edition/java/proto/packet/bossbar"
	"go.minekube.com/tabgate/pkg/edition/java/proto/schema"
	"go.minekube.com/tabgate/pkg/edition/java/proto/version"
	"go.minekube.com/tabgate/pkg/gate/proto"
	"go.minekube.com/tabgate/pkg/util/errs"
	"go.minekube.com/tabgate/pkg/util/uuid"
)

var b = New(schema.Default)

// decode decodes the payload of pc again to check what the client would see.
func decode(t *testing.T, pc *proto.PacketContext) proto.Packet {
	t.Helper()
	cp := &proto.PacketContext{
		Direction: pc.Direction,
		Protocol:  pc.Protocol,
		PacketID:  pc.PacketID,
		Payload:   pc.Payload,
	}
	require.NoError(t, netmc.Decode(cp))
	require.True(t, cp.KnownPacket())
	return cp.Packet
}

func build(t *testing.T, p canonical.Packet, v *proto.Version) (proto.Packet, []error) {
	t.Helper()
	pc, warns, err := b.Build(p, v.Protocol)
	require.NoError(t, err)
	require.Equal(t, proto.ClientBound, pc.Direction)
	return decode(t, pc), warns
}

func TestBuildEverySupportedVersion(t *testing.T) {
	id := uuid.New()
	packets := []canonical.Packet{
		&canonical.ObjectiveRegister{Name: "health", Title: "§cHP", RenderType: packet.HeartsRenderType},
		&canonical.ObjectiveUpdate{Name: "health", Title: "HP"},
		&canonical.ObjectiveDisplay{Name: "health", Slot: packet.BelowNameSlot},
		&canonical.ScoreSet{Objective: "health", Holder: "Steve", Value: 20},
		&canonical.ScoreRemove{Objective: "health", Holder: "Steve"},
		&canonical.ObjectiveUnregister{Name: "health"},
		&canonical.TeamRegister{Name: "admins", Info: canonical.TeamInfo{Prefix: "§4[A] ", Color: 4}, Players: []string{"Steve"}},
		&canonical.TeamUpdate{Name: "admins", Info: canonical.TeamInfo{Suffix: " §7*", Color: canonical.ResetColor}},
		&canonical.TeamAddPlayers{Name: "admins", Players: []string{"Alex"}},
		&canonical.TeamRemovePlayers{Name: "admins", Players: []string{"Alex"}},
		&canonical.TeamUnregister{Name: "admins"},
		&canonical.BossBarCreate{ID: id, Title: "Boss", Progress: 0.5},
		&canonical.BossBarUpdate{ID: id, Change: canonical.BossBarTitle, Title: "Boss 2"},
		&canonical.BossBarRemove{ID: id},
	}
	for _, v := range version.SupportedVersions {
		for _, p := range packets {
			pc, warns, err := b.Build(p, v.Protocol)
			if p.Resource().Kind == canonical.BossBarKind && v.Protocol.Lower(version.Minecraft_1_9) {
				require.ErrorIs(t, err, errs.ErrUnsupportedField, "%T on %s", p, v)
				continue
			}
			require.NoError(t, err, "%T on %s", p, v)
			require.Empty(t, warns, "%T on %s", p, v)
			decode(t, pc)
		}
	}
}

func TestObjectiveTitleShape(t *testing.T) {
	p := &canonical.ObjectiveRegister{Name: "health", Title: "§cHP", RenderType: packet.HeartsRenderType}

	legacy, _ := build(t, p, version.Minecraft_1_12_2)
	o := legacy.(*packet.ScoreboardObjective)
	assert.Equal(t, "§cHP", o.Title)
	assert.Equal(t, packet.HeartsRenderType, o.RenderType)

	modern, _ := build(t, p, version.Minecraft_1_13)
	o = modern.(*packet.ScoreboardObjective)
	assert.True(t, json.Valid([]byte(o.Title)), o.Title)
	assert.Contains(t, o.Title, "HP")
	assert.Equal(t, packet.HeartsRenderType, o.RenderType)
}

func TestTruncationKeepsColorCodes(t *testing.T) {
	title := strings.Repeat("a", 31) + "§cred"
	p, warns := build(t, &canonical.ObjectiveRegister{Name: "o", Title: title}, version.Minecraft_1_8)
	assert.Equal(t, strings.Repeat("a", 31), p.(*packet.ScoreboardObjective).Title)
	require.Len(t, warns, 1)
	assert.ErrorIs(t, warns[0], errs.ErrEncodingOverflow)

	_, warns = build(t, &canonical.ObjectiveRegister{Name: "o", Title: title}, version.Minecraft_1_13)
	assert.Empty(t, warns)
}

func TestNameLimitLiftedIn1_18(t *testing.T) {
	name := "a_rather_long_objective_name"
	p, warns := build(t, &canonical.ObjectiveUnregister{Name: name}, version.Minecraft_1_17_1)
	assert.Equal(t, name[:16], p.(*packet.ScoreboardObjective).Name)
	assert.Len(t, warns, 1)

	p, warns = build(t, &canonical.ObjectiveUnregister{Name: name}, version.Minecraft_1_18)
	assert.Equal(t, name, p.(*packet.ScoreboardObjective).Name)
	assert.Empty(t, warns)
}

func TestTeamShape(t *testing.T) {
	info := canonical.TeamInfo{
		DisplayName:   "Admins",
		Prefix:        "§4[A] ",
		FriendlyFire:  true,
		CollisionRule: "never",
		Color:         canonical.ResetColor,
	}
	reg := &canonical.TeamRegister{Name: "admins", Info: info, Players: []string{"Steve"}}

	p, _ := build(t, reg, version.Minecraft_1_8)
	team := p.(*packet.Teams)
	assert.Equal(t, "§4[A] ", team.Prefix)
	assert.Equal(t, "always", team.NameTagVisibility)
	assert.Empty(t, team.CollisionRule, "no collision rule before 1.9")
	assert.Equal(t, canonical.ResetColor, team.Color)
	assert.Equal(t, packet.AllowFriendlyFire, team.FriendlyFlags)
	assert.Equal(t, []string{"Steve"}, team.Players)

	p, _ = build(t, reg, version.Minecraft_1_12_2)
	assert.Equal(t, "never", p.(*packet.Teams).CollisionRule)

	p, _ = build(t, reg, version.Minecraft_1_13)
	team = p.(*packet.Teams)
	assert.True(t, json.Valid([]byte(team.Prefix)), team.Prefix)
	assert.Equal(t, chatColorReset, team.Color)
	assert.Equal(t, "never", team.CollisionRule)
}

func TestTeamWarnings(t *testing.T) {
	p, warns := build(t, &canonical.TeamUpdate{Name: "t", Info: canonical.TeamInfo{
		NameTagVisibility: "sometimes",
		Color:             42,
	}}, version.Minecraft_1_16_4)
	team := p.(*packet.Teams)
	assert.Equal(t, "always", team.NameTagVisibility)
	assert.Equal(t, chatColorReset, team.Color)
	require.Len(t, warns, 2)
	for _, w := range warns {
		assert.ErrorIs(t, w, errs.ErrEncodingOverflow)
	}
}

func TestBossBarUnsupportedOn1_8(t *testing.T) {
	_, _, err := b.Build(&canonical.BossBarCreate{ID: uuid.New(), Title: "Boss"}, version.Minecraft_1_8.Protocol)
	require.ErrorIs(t, err, errs.ErrUnsupportedField)
	var re *errs.ResourceError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, string(canonical.BossBarKind), re.Kind)
}

// Boss bars built for clients before and after the chat color change
// differ in the title only.
func TestBossBarShapeAcrossVersions(t *testing.T) {
	create := &canonical.BossBarCreate{
		ID:       uuid.New(),
		Title:    "§6Dragon",
		Progress: 0.25,
		Color:    bossbar.YellowColor,
		Overlay:  bossbar.Notched10Overlay,
		Flags:    []bossbar.Flag{bossbar.DarkenScreenFlag, bossbar.PlayBossMusicFlag},
	}
	v1, _ := build(t, create, version.Minecraft_1_15_2)
	v2, _ := build(t, create, version.Minecraft_1_16)
	a, c := *v1.(*bossbar.BossBar), *v2.(*bossbar.BossBar)
	assert.True(t, json.Valid([]byte(a.Name)))
	assert.True(t, json.Valid([]byte(c.Name)))
	a.Name, c.Name = "", ""
	assert.Equal(t, a, c)
	assert.Equal(t, byte(0x03), a.Flags)
}

func TestBossBarClampsProgress(t *testing.T) {
	p, warns := build(t, &canonical.BossBarUpdate{
		ID:       uuid.New(),
		Change:   canonical.BossBarProgress,
		Progress: 1.5,
	}, version.Minecraft_1_19)
	bb := p.(*bossbar.BossBar)
	assert.Equal(t, bossbar.UpdatePercentAction, bb.Action)
	assert.Equal(t, float32(1), bb.Percent)
	require.Len(t, warns, 1)
	assert.ErrorIs(t, warns[0], errs.ErrEncodingOverflow)
}

func TestBossBarProgressNaN(t *testing.T) {
	p, warns := build(t, &canonical.BossBarUpdate{
		ID:       uuid.New(),
		Change:   canonical.BossBarProgress,
		Progress: float32(math.NaN()),
	}, version.Minecraft_1_12_2)
	assert.Equal(t, float32(0), p.(*bossbar.BossBar).Percent)
	require.Len(t, warns, 1)
	assert.ErrorIs(t, warns[0], errs.ErrEncodingOverflow)
}

// withEntries returns the default entries of field replaced by entries.
func withEntries(field schema.FieldID, entries ...schema.Entry) []schema.Entry {
	var out []schema.Entry
	for _, e := range schema.DefaultEntries {
		if e.Field != field {
			out = append(out, e)
		}
	}
	return append(out, entries...)
}

func TestShapeFollowsTable(t *testing.T) {
	table := schema.MustNew(withEntries(schema.ObjectiveRenderType,
		schema.Entry{Field: schema.ObjectiveRenderType, Range: schema.Between(version.Minecraft_1_8, version.Minecraft_1_12), Type: schema.String, Max: 16},
		schema.Entry{Field: schema.ObjectiveRenderType, Range: schema.Since(version.Minecraft_1_12), Type: schema.VarInt},
	))
	v := version.Minecraft_1_12_2
	pc, _, err := New(table).Build(&canonical.ObjectiveRegister{Name: "h", Title: "t", RenderType: packet.HeartsRenderType}, v.Protocol)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 'h', 0, 1, 't', 1}, pc.Payload)

	o := &packet.ScoreboardObjective{Layout: pc.Packet.(*packet.ScoreboardObjective).Layout}
	require.NoError(t, o.Decode(pc, bytes.NewReader(pc.Payload)))
	assert.Equal(t, packet.HeartsRenderType, o.RenderType)

	table = schema.MustNew(withEntries(schema.TeamCollisionRule))
	reg := &canonical.TeamRegister{Name: "a", Info: canonical.TeamInfo{CollisionRule: "never"}}
	pc, _, err = New(table).Build(reg, version.Minecraft_1_19.Protocol)
	require.NoError(t, err)
	team := pc.Packet.(*packet.Teams)
	assert.False(t, team.Layout.CollisionRule)
	assert.Empty(t, team.CollisionRule)
	assert.NotContains(t, string(pc.Payload), "never")
}

func TestWireResource(t *testing.T) {
	res := canonical.Resource{Kind: canonical.TeamKind, Name: "a_rather_long_team_name"}
	assert.Equal(t, "a_rather_long_te", b.WireResource(res, version.Minecraft_1_17_1.Protocol).Name)
	assert.Equal(t, res, b.WireResource(res, version.Minecraft_1_18.Protocol))

	bar := canonical.Resource{Kind: canonical.BossBarKind, Name: uuid.New().String()}
	assert.Equal(t, bar, b.WireResource(bar, version.Minecraft_1_12_2.Protocol))

	// The wire name is the name Build writes.
	p, _ := build(t, &canonical.TeamUnregister{Name: res.Name}, version.Minecraft_1_12_2)
	assert.Equal(t, b.WireResource(res, version.Minecraft_1_12_2.Protocol).Name, p.(*packet.Teams).Name)
}
