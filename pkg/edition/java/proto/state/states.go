package state

import (
	p "go.minekube.com/tabgate/pkg/edition/java/proto/packet"
	"go.minekube.com/tabgate/pkg/edition/java/proto/packet/bossbar"
	"go.minekube.com/tabgate/pkg/edition/java/proto/version"
)

// State is a Java edition client state.
type State int

// PlayState is the only state whose packets are translated.
const PlayState State = 3

// String implements fmt.Stringer.
func (s State) String() string {
	if s == PlayState {
		return "Play"
	}
	return "UnknownState"
}

// Play stores the play state packets.
var Play = NewRegistry(PlayState)

func init() {
	Play.ServerBound.Register(&p.UseEntity{},
		m(0x02, version.Minecraft_1_8),
		m(0x0A, version.Minecraft_1_9),
		m(0x0B, version.Minecraft_1_12),
		m(0x0A, version.Minecraft_1_12_1),
		m(0x0D, version.Minecraft_1_13),
		m(0x0E, version.Minecraft_1_14),
		m(0x0D, version.Minecraft_1_17),
		m(0x0F, version.Minecraft_1_19),
	)

	Play.ClientBound.Register(&p.JoinGame{},
		m(0x01, version.Minecraft_1_8),
		m(0x23, version.Minecraft_1_9),
		m(0x25, version.Minecraft_1_13),
		m(0x26, version.Minecraft_1_15),
		m(0x25, version.Minecraft_1_16),
		m(0x24, version.Minecraft_1_16_2),
		m(0x26, version.Minecraft_1_17),
		m(0x23, version.Minecraft_1_19),
	)
	Play.ClientBound.Register(&bossbar.BossBar{},
		m(0x0C, version.Minecraft_1_9),
		m(0x0D, version.Minecraft_1_15),
		m(0x0C, version.Minecraft_1_16),
		m(0x0D, version.Minecraft_1_17),
		m(0x0A, version.Minecraft_1_19),
	)
	Play.ClientBound.Register(&p.DisplayObjective{},
		m(0x3D, version.Minecraft_1_8),
		m(0x38, version.Minecraft_1_9),
		m(0x3A, version.Minecraft_1_12),
		m(0x3B, version.Minecraft_1_12_1),
		m(0x3E, version.Minecraft_1_13),
		m(0x42, version.Minecraft_1_14),
		m(0x43, version.Minecraft_1_15),
		m(0x4C, version.Minecraft_1_17),
	)
	Play.ClientBound.Register(&p.ScoreboardObjective{},
		m(0x3B, version.Minecraft_1_8),
		m(0x3F, version.Minecraft_1_9),
		m(0x41, version.Minecraft_1_12),
		m(0x42, version.Minecraft_1_12_1),
		m(0x45, version.Minecraft_1_13),
		m(0x49, version.Minecraft_1_14),
		m(0x4A, version.Minecraft_1_15),
		m(0x53, version.Minecraft_1_17),
	)
	Play.ClientBound.Register(&p.Teams{},
		m(0x3E, version.Minecraft_1_8),
		m(0x41, version.Minecraft_1_9),
		m(0x43, version.Minecraft_1_12),
		m(0x44, version.Minecraft_1_12_1),
		m(0x47, version.Minecraft_1_13),
		m(0x4B, version.Minecraft_1_14),
		m(0x4C, version.Minecraft_1_15),
		m(0x55, version.Minecraft_1_17),
	)
	Play.ClientBound.Register(&p.UpdateScore{},
		m(0x3C, version.Minecraft_1_8),
		m(0x42, version.Minecraft_1_9),
		m(0x44, version.Minecraft_1_12),
		m(0x45, version.Minecraft_1_12_1),
		m(0x48, version.Minecraft_1_13),
		m(0x4C, version.Minecraft_1_14),
		m(0x4D, version.Minecraft_1_15),
		m(0x56, version.Minecraft_1_17),
	)
	Play.ClientBound.Register(&p.EntityMetadata{},
		m(0x1C, version.Minecraft_1_8),
		m(0x39, version.Minecraft_1_9),
		m(0x3B, version.Minecraft_1_12),
		m(0x3C, version.Minecraft_1_12_1),
		m(0x3F, version.Minecraft_1_13),
		m(0x43, version.Minecraft_1_14),
		m(0x44, version.Minecraft_1_15),
		m(0x4D, version.Minecraft_1_17),
	)
	// Spawn packets stop carrying metadata in 1.15.
	Play.ClientBound.Register(&p.SpawnMob{},
		m(0x0F, version.Minecraft_1_8),
		ml(0x03, version.Minecraft_1_9, version.Minecraft_1_14_4),
	)
}
