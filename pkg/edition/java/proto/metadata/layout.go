package metadata

import (
	"go.minekube.com/tabgate/pkg/edition/java/proto/schema"
	"go.minekube.com/tabgate/pkg/edition/java/proto/version"
)

type headerFormat int

const (
	// type and index packed into one byte, list ends with 0x7F
	packedHeader headerFormat = iota
	// index byte followed by a VarInt type, list ends with 0xFF
	indexedHeader
)

type slotFormat int

const (
	slotWithDamage  slotFormat = iota // short id, count, short damage, nbt
	slotShortID                       // short id, count, nbt
	slotPresentFlag                   // bool present, varint id, count, nbt
)

type positionFormat int

const (
	positionXYZ positionFormat = iota // x<<38 | y<<26 | z
	positionXZY                       // x<<38 | z<<12 | y
)

type particleData int

const (
	particleBlockState particleData = iota + 1
	particleDust
	particleItem
)

var (
	types_1_8 = []Type{
		TypeByte, TypeShort, TypeInt, TypeFloat, TypeString, TypeSlot, TypeBlockCoords, TypeRotation,
	}
	types_1_9 = []Type{
		TypeByte, TypeVarInt, TypeFloat, TypeString, TypeChat, TypeSlot, TypeBool, TypeRotation,
		TypePosition, TypeOptPosition, TypeDirection, TypeOptUUID, TypeBlockState,
	}
	types_1_12 = append(clone(types_1_9), TypeNBT)
	types_1_13 = []Type{
		TypeByte, TypeVarInt, TypeFloat, TypeString, TypeChat, TypeOptChat, TypeSlot, TypeBool,
		TypeRotation, TypePosition, TypeOptPosition, TypeDirection, TypeOptUUID, TypeBlockState,
		TypeNBT, TypeParticle,
	}
	types_1_14 = append(clone(types_1_13), TypeVillagerData, TypeOptVarInt, TypePose)
	types_1_19 = append(clone(types_1_14), TypeCatVariant, TypeFrogVariant, TypeOptGlobalPos, TypePaintingVariant)

	particles_1_13 = map[int32]particleData{3: particleBlockState, 11: particleDust, 20: particleBlockState, 27: particleItem}
	particles_1_14 = map[int32]particleData{3: particleBlockState, 14: particleDust, 23: particleBlockState, 32: particleItem}
)

// Range-keyed layout tables. Ranges of one table never overlap.
var (
	typeTables = []struct {
		schema.Range
		header headerFormat
		types  []Type
	}{
		{schema.Between(version.Minecraft_1_8, version.Minecraft_1_9), packedHeader, types_1_8},
		{schema.Between(version.Minecraft_1_9, version.Minecraft_1_12), indexedHeader, types_1_9},
		{schema.Between(version.Minecraft_1_12, version.Minecraft_1_13), indexedHeader, types_1_12},
		{schema.Between(version.Minecraft_1_13, version.Minecraft_1_14), indexedHeader, types_1_13},
		{schema.Between(version.Minecraft_1_14, version.Minecraft_1_19), indexedHeader, types_1_14},
		{schema.Since(version.Minecraft_1_19), indexedHeader, types_1_19},
	}
	slotTables = []struct {
		schema.Range
		format slotFormat
	}{
		{schema.Between(version.Minecraft_1_8, version.Minecraft_1_13), slotWithDamage},
		{schema.Between(version.Minecraft_1_13, version.Minecraft_1_13_2), slotShortID},
		{schema.Since(version.Minecraft_1_13_2), slotPresentFlag},
	}
	positionTables = []struct {
		schema.Range
		format positionFormat
	}{
		{schema.Between(version.Minecraft_1_8, version.Minecraft_1_14), positionXYZ},
		{schema.Since(version.Minecraft_1_14), positionXZY},
	}
	// Particle ids carrying extra data. Versions without a table
	// cannot decode particle entries.
	particleTables = []struct {
		schema.Range
		data map[int32]particleData
	}{
		{schema.Between(version.Minecraft_1_13, version.Minecraft_1_14), particles_1_13},
		{schema.Between(version.Minecraft_1_14, version.Minecraft_1_16), particles_1_14},
	}
)

func clone(t []Type) []Type { return append([]Type(nil), t...) }
