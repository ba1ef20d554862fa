// Package metadata implements the entity metadata list of the Java edition
// for all advertised protocol versions.
//
// A metadata list is an ordered sequence of (index, type, value) entries.
// Decoding and re-encoding an unmodified list reproduces the input bytes.
package metadata

import (
	"fmt"

	"go.minekube.com/tabgate/pkg/util/uuid"
)

// Type is the declared type of a metadata entry.
// The wire id of a Type depends on the protocol version.
type Type int

// Metadata value types and the Go type of their Entry.Value.
const (
	TypeByte            Type = iota // int8
	TypeShort                       // int16, 1.8 only
	TypeInt                         // int32, 1.8 only
	TypeVarInt                      // int32
	TypeFloat                       // float32
	TypeString                      // string
	TypeChat                        // string holding json
	TypeOptChat                     // *string holding json
	TypeSlot                        // Slot
	TypeBool                        // bool
	TypeRotation                    // Rotation
	TypePosition                    // Position packed into a long
	TypeBlockCoords                 // Position as three ints, 1.8 only
	TypeOptPosition                 // *Position
	TypeDirection                   // int32
	TypeOptUUID                     // OptUUID
	TypeBlockState                  // int32, zero is absent
	TypeNBT                         // NBT
	TypeParticle                    // Particle
	TypeVillagerData                // VillagerData
	TypeOptVarInt                   // *int32
	TypePose                        // int32
	TypeCatVariant                  // int32
	TypeFrogVariant                 // int32
	TypeOptGlobalPos                // *GlobalPos
	TypePaintingVariant             // int32
)

var typeNames = [...]string{
	"byte", "short", "int", "varint", "float", "string", "chat", "opt_chat", "slot", "bool",
	"rotation", "position", "block_coords", "opt_position", "direction", "opt_uuid", "block_state",
	"nbt", "particle", "villager_data", "opt_varint", "pose", "cat_variant", "frog_variant",
	"opt_global_pos", "painting_variant",
}

func (t Type) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Entry is one slot of an entity's metadata list.
type Entry struct {
	Index uint8
	Type  Type
	Value any
}

func (e Entry) String() string {
	return fmt.Sprintf("%d:%s=%v", e.Index, e.Type, e.Value)
}

// OptUUID is an optional reference to another entity or player,
// e.g. the owner of a tamed animal.
type OptUUID struct {
	Present bool
	ID      uuid.UUID
}

// SomeUUID returns a present OptUUID.
func SomeUUID(id uuid.UUID) OptUUID { return OptUUID{Present: true, ID: id} }

// Rotation is a rotation in degrees per axis.
type Rotation struct{ X, Y, Z float32 }

// Position is a block position.
type Position struct{ X, Y, Z int32 }

// GlobalPos is a block position in a dimension.
type GlobalPos struct {
	Dimension string
	Pos       Position
}

// VillagerData describes a villager's looks and level.
type VillagerData struct{ Type, Profession, Level int32 }

// NBT is an encoded named binary tag kept verbatim.
// A nil NBT is the empty tag.
type NBT []byte

// Slot is an item stack.
type Slot struct {
	Present bool
	ID      int32
	Count   int8
	Damage  int16 // before 1.13 only
	NBT     NBT
}

// Particle is a particle id and its version-specific extra data.
type Particle struct {
	ID   int32
	Data []byte
}

// Entries is an ordered metadata list.
type Entries []Entry

// Get returns the entry at the logical index.
func (es Entries) Get(index uint8) (Entry, bool) {
	for _, e := range es {
		if e.Index == index {
			return e, true
		}
	}
	return Entry{}, false
}

// Patch replaces the value of the entry at the logical index
// and reports whether such an entry was found.
func (es Entries) Patch(index uint8, value any) bool {
	for i := range es {
		if es[i].Index == index {
			es[i].Value = value
			return true
		}
	}
	return false
}

// Remove deletes the entry at the logical index in place
// preserving the order of the remaining entries.
func (es *Entries) Remove(index uint8) bool {
	s := *es
	for i := range s {
		if s[i].Index == index {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = Entry{}
			*es = s[:len(s)-1]
			return true
		}
	}
	return false
}

// Clone returns a shallow copy of the list.
func (es Entries) Clone() Entries {
	if es == nil {
		return nil
	}
	return append(Entries(nil), es...)
}
