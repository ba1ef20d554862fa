package metadata

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.minekube.com/tabgate/pkg/edition/java/proto/version"
	"go.minekube.com/tabgate/pkg/gate/proto"
	"go.minekube.com/tabgate/pkg/util/errs"
	"go.minekube.com/tabgate/pkg/util/uuid"
)

// compound {a: int 7}
var sampleNBT = NBT{0x0A, 0x00, 0x00, 0x03, 0x00, 0x01, 'a', 0x00, 0x00, 0x00, 0x07, 0x00}

func strPtr(s string) *string { return &s }
func i32Ptr(i int32) *int32   { return &i }

// sample returns a list using every type the codec supports.
func sample(c *Codec) Entries {
	values := map[Type]any{
		TypeByte:            int8(-3),
		TypeShort:           int16(300),
		TypeInt:             int32(-70000),
		TypeVarInt:          int32(150),
		TypeFloat:           float32(1.5),
		TypeString:          "hello",
		TypeChat:            `{"text":"hi"}`,
		TypeOptChat:         strPtr(`{"text":"opt"}`),
		TypeSlot:            Slot{Present: true, ID: 276, Count: 1, NBT: sampleNBT},
		TypeBool:            true,
		TypeRotation:        Rotation{X: 1, Y: -2, Z: 3},
		TypePosition:        Position{X: -12, Y: 64, Z: 3000},
		TypeBlockCoords:     Position{X: 1, Y: 2, Z: 3},
		TypeOptPosition:     &Position{X: 5, Y: -5, Z: -100},
		TypeDirection:       int32(3),
		TypeOptUUID:         SomeUUID(uuid.New()),
		TypeBlockState:      int32(0),
		TypeNBT:             sampleNBT,
		TypeParticle:        Particle{ID: 0},
		TypeVillagerData:    VillagerData{Type: 1, Profession: 2, Level: 3},
		TypeOptVarInt:       i32Ptr(9),
		TypePose:            int32(1),
		TypeCatVariant:      int32(2),
		TypeFrogVariant:     int32(1),
		TypeOptGlobalPos:    &GlobalPos{Dimension: "minecraft:overworld", Pos: Position{X: 1, Y: -60, Z: 1}},
		TypePaintingVariant: int32(4),
	}
	var es Entries
	for i, t := range c.types {
		if t == TypeParticle && c.particles == nil {
			continue
		}
		v := values[t]
		if t == TypeSlot && c.slot == slotWithDamage {
			s := v.(Slot)
			s.Damage = 7
			v = s
		}
		es = append(es, Entry{Index: uint8(i), Type: t, Value: v})
	}
	return es
}

func TestRoundTripAllVersions(t *testing.T) {
	for _, v := range version.SupportedVersions {
		t.Run(v.String(), func(t *testing.T) {
			c, err := For(v.Protocol)
			require.NoError(t, err)
			es := sample(c)

			buf := new(bytes.Buffer)
			require.NoError(t, c.Encode(buf, es))
			encoded := append([]byte(nil), buf.Bytes()...)

			decoded, err := c.Decode(buf)
			require.NoError(t, err)
			require.Equal(t, es, decoded)

			buf.Reset()
			require.NoError(t, c.Encode(buf, decoded))
			require.Equal(t, encoded, buf.Bytes())
		})
	}
}

func TestPackedHeader(t *testing.T) {
	c, err := For(version.Minecraft_1_8.Protocol)
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	require.NoError(t, c.Encode(buf, Entries{
		{Index: 0, Type: TypeByte, Value: int8(1)},
		{Index: 1, Type: TypeString, Value: "hi"},
	}))
	require.Equal(t, []byte{0x00, 0x01, 0x81, 0x02, 'h', 'i', 0x7F}, buf.Bytes())

	require.Error(t, c.Encode(new(bytes.Buffer), Entries{{Index: 32, Type: TypeByte, Value: int8(0)}}))
	// rotation (type 7) at index 31 would read as the terminator
	require.Error(t, c.Encode(new(bytes.Buffer), Entries{{Index: 31, Type: TypeRotation, Value: Rotation{}}}))
}

func TestIndexedHeader(t *testing.T) {
	c, err := For(version.Minecraft_1_12_2.Protocol)
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	require.NoError(t, c.Encode(buf, Entries{
		{Index: 13, Type: TypeOptUUID, Value: OptUUID{}},
		{Index: 0, Type: TypeByte, Value: int8(2)},
	}))
	require.Equal(t, []byte{13, 11, 0x00, 0, 0, 2, 0xFF}, buf.Bytes())
}

func TestDecodeUnknownType(t *testing.T) {
	c, err := For(version.Minecraft_1_12_2.Protocol)
	require.NoError(t, err)
	_, err = c.Decode(bytes.NewReader([]byte{0, 40, 1, 0xFF}))
	require.ErrorIs(t, err, errs.ErrDecodeFailure)

	_, err = c.Decode(bytes.NewReader([]byte{0, 0}))
	require.ErrorIs(t, err, errs.ErrDecodeFailure, "missing terminator")
}

func TestDecodeParticleWithoutTable(t *testing.T) {
	c, err := For(version.Minecraft_1_17.Protocol)
	require.NoError(t, err)
	_, err = c.Decode(bytes.NewReader([]byte{5, 15, 3, 1, 0xFF}))
	require.ErrorIs(t, err, errs.ErrDecodeFailure)
}

func TestParticleData(t *testing.T) {
	c, err := For(version.Minecraft_1_14_4.Protocol)
	require.NoError(t, err)
	// dust particle with r,g,b,scale floats
	in := []byte{7, 15, 14, 0x3F, 0x80, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0x3F, 0x80, 0, 0, 0xFF}
	es, err := c.Decode(bytes.NewReader(in))
	require.NoError(t, err)
	require.Len(t, es, 1)
	p := es[0].Value.(Particle)
	assert.Equal(t, int32(14), p.ID)
	assert.Len(t, p.Data, 16)

	buf := new(bytes.Buffer)
	require.NoError(t, c.Encode(buf, es))
	assert.Equal(t, in, buf.Bytes())
}

func TestDecodeStopsAtTerminator(t *testing.T) {
	c, err := For(version.Minecraft_1_16_4.Protocol)
	require.NoError(t, err)
	r := bytes.NewReader([]byte{0, 0, 5, 0xFF, 0xAB})
	es, err := c.Decode(r)
	require.NoError(t, err)
	require.Len(t, es, 1)
	require.Equal(t, 1, r.Len())
}

func TestPositionPacking(t *testing.T) {
	for _, v := range []*proto.Version{version.Minecraft_1_13_2, version.Minecraft_1_14} {
		c, err := For(v.Protocol)
		require.NoError(t, err)
		for _, p := range []Position{
			{X: -33554432, Y: -2048, Z: 33554431},
			{X: 33554431, Y: 2047, Z: -33554432},
			{X: -1, Y: -1, Z: -1},
		} {
			assert.Equal(t, p, c.unpack(c.pack(p)), "%s %v", v, p)
		}
	}
	c14, _ := For(version.Minecraft_1_14.Protocol)
	assert.Equal(t, int64(1)<<38|int64(2)<<12|3, c14.pack(Position{X: 1, Y: 3, Z: 2}))
}

func TestNBTKeptVerbatim(t *testing.T) {
	c, err := For(version.Minecraft_1_12_2.Protocol)
	require.NoError(t, err)
	in := append([]byte{3, 13}, sampleNBT...)
	in = append(in, 4, 13, 0x00, 0xFF)
	es, err := c.Decode(bytes.NewReader(in))
	require.NoError(t, err)
	require.Len(t, es, 2)
	assert.Equal(t, sampleNBT, es[0].Value)
	assert.Nil(t, es[1].Value)

	_, err = c.Decode(bytes.NewReader([]byte{3, 13, 0x0A, 0x00, 0xFF}))
	require.ErrorIs(t, err, errs.ErrDecodeFailure)
}

func TestEncodeRejects(t *testing.T) {
	c, err := For(version.Minecraft_1_19.Protocol)
	require.NoError(t, err)

	err = c.Encode(new(bytes.Buffer), Entries{
		{Index: 1, Type: TypeByte, Value: int8(0)},
		{Index: 1, Type: TypeByte, Value: int8(1)},
	})
	require.ErrorContains(t, err, "duplicate")

	err = c.Encode(new(bytes.Buffer), Entries{{Index: 1, Type: TypeVarInt, Value: 5}})
	var mismatch *mismatchError
	require.ErrorAs(t, err, &mismatch)

	err = c.Encode(new(bytes.Buffer), Entries{{Index: 1, Type: TypeShort, Value: int16(5)}})
	require.ErrorContains(t, err, "unsupported")
}

func TestEntriesOps(t *testing.T) {
	owner := SomeUUID(uuid.New())
	es := Entries{
		{Index: 0, Type: TypeByte, Value: int8(0)},
		{Index: 17, Type: TypeOptUUID, Value: owner},
		{Index: 18, Type: TypeVarInt, Value: int32(3)},
	}

	e, ok := es.Get(17)
	require.True(t, ok)
	require.Equal(t, owner, e.Value)
	_, ok = es.Get(5)
	require.False(t, ok)

	clone := es.Clone()
	require.True(t, es.Patch(17, OptUUID{}))
	require.False(t, es.Patch(5, int8(1)))
	require.Equal(t, owner, clone[1].Value)
	require.Equal(t, OptUUID{}, es[1].Value)

	require.True(t, es.Remove(17))
	require.False(t, es.Remove(17))
	require.Equal(t, []uint8{0, 18}, []uint8{es[0].Index, es[1].Index})

	// Removing a patched entry leaves the same entries as removing it unpatched.
	removed := clone.Clone()
	require.True(t, removed.Remove(17))
	assert.Equal(t, removed, es)
	assert.Equal(t, Entries{clone[0], clone[2]}, removed)
}

func TestForUnknownProtocol(t *testing.T) {
	_, err := For(4)
	require.ErrorIs(t, err, errs.ErrDecodeFailure)
}
