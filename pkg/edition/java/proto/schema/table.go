package schema

import (
	"go.minekube.com/tabgate/pkg/edition/java/proto/version"
)

// Logical fields known to tabgate.
const (
	// PetOwner is the entity metadata slot holding the owner of a tameable animal.
	PetOwner FieldID = "pet_owner"

	ObjectiveName       FieldID = "objective.name"
	ObjectiveTitle      FieldID = "objective.title"
	ObjectiveRenderType FieldID = "objective.render_type"

	ScoreHolder FieldID = "score.holder"

	TeamName              FieldID = "team.name"
	TeamDisplayName       FieldID = "team.display_name"
	TeamPrefix            FieldID = "team.prefix"
	TeamSuffix            FieldID = "team.suffix"
	TeamNameTagVisibility FieldID = "team.name_tag_visibility"
	TeamCollisionRule     FieldID = "team.collision_rule"
	TeamColor             FieldID = "team.color"

	BossBarTitle FieldID = "bossbar.title"
	BossBarStyle FieldID = "bossbar.style"
)

// unlimited is the string cap once the client stopped enforcing a field-specific limit.
const unlimited = 32767

// Default is the schema of all advertised versions.
var Default = MustNew(DefaultEntries,
	ObjectiveName, ObjectiveTitle, ObjectiveRenderType,
	ScoreHolder,
	TeamName, TeamDisplayName, TeamPrefix, TeamSuffix, TeamNameTagVisibility, TeamColor,
)

// DefaultEntries are the entries of Default.
var DefaultEntries = []Entry{
	// Since 1.9 tamed animals copy the owner's name tag; 1.8 has no optional owner slot.
	{Field: PetOwner, Range: Between(version.Minecraft_1_9, version.Minecraft_1_10), Index: 13, Type: OptUUID},
	{Field: PetOwner, Range: Between(version.Minecraft_1_10, version.Minecraft_1_14), Index: 14, Type: OptUUID},
	{Field: PetOwner, Range: Between(version.Minecraft_1_14, version.Minecraft_1_15), Index: 16, Type: OptUUID},
	{Field: PetOwner, Range: Between(version.Minecraft_1_15, version.Minecraft_1_17), Index: 17, Type: OptUUID},
	{Field: PetOwner, Range: Since(version.Minecraft_1_17), Index: 18, Type: OptUUID},

	{Field: ObjectiveName, Range: Between(version.Minecraft_1_8, version.Minecraft_1_18), Type: String, Max: 16},
	{Field: ObjectiveName, Range: Since(version.Minecraft_1_18), Type: String, Max: unlimited},
	{Field: ObjectiveTitle, Range: Between(version.Minecraft_1_8, version.Minecraft_1_13), Type: String, Max: 32},
	{Field: ObjectiveTitle, Range: Since(version.Minecraft_1_13), Type: Chat},
	{Field: ObjectiveRenderType, Range: Between(version.Minecraft_1_8, version.Minecraft_1_13), Type: String, Max: 16},
	{Field: ObjectiveRenderType, Range: Since(version.Minecraft_1_13), Type: VarInt},

	{Field: ScoreHolder, Range: Between(version.Minecraft_1_8, version.Minecraft_1_18), Type: String, Max: 40},
	{Field: ScoreHolder, Range: Since(version.Minecraft_1_18), Type: String, Max: unlimited},

	{Field: TeamName, Range: Between(version.Minecraft_1_8, version.Minecraft_1_18), Type: String, Max: 16},
	{Field: TeamName, Range: Since(version.Minecraft_1_18), Type: String, Max: unlimited},
	{Field: TeamDisplayName, Range: Between(version.Minecraft_1_8, version.Minecraft_1_13), Type: String, Max: 32},
	{Field: TeamDisplayName, Range: Since(version.Minecraft_1_13), Type: Chat},
	{Field: TeamPrefix, Range: Between(version.Minecraft_1_8, version.Minecraft_1_13), Type: String, Max: 16},
	{Field: TeamPrefix, Range: Since(version.Minecraft_1_13), Type: Chat},
	{Field: TeamSuffix, Range: Between(version.Minecraft_1_8, version.Minecraft_1_13), Type: String, Max: 16},
	{Field: TeamSuffix, Range: Since(version.Minecraft_1_13), Type: Chat},
	{Field: TeamNameTagVisibility, Range: Since(version.Minecraft_1_8), Type: String, Max: 32},
	{Field: TeamCollisionRule, Range: Since(version.Minecraft_1_9), Type: String, Max: 32},
	{Field: TeamColor, Range: Between(version.Minecraft_1_8, version.Minecraft_1_13), Type: Byte},
	{Field: TeamColor, Range: Since(version.Minecraft_1_13), Type: VarInt},

	// Boss bars exist since 1.9. Packets needing them fail for older clients.
	{Field: BossBarTitle, Range: Since(version.Minecraft_1_9), Type: Chat},
	{Field: BossBarStyle, Range: Since(version.Minecraft_1_9), Type: VarInt},
}
