package metadata

import (
	"errors"
	"fmt"
	"io"

	"go.minekube.com/tabgate/pkg/edition/java/proto/util"
)

const maxChatSize = 262144

var errNoParticleTable = errors.New("particle data layout unknown for this protocol")

func (c *Codec) readValue(r *reader, t Type) (v any, err error) {
	switch t {
	case TypeByte:
		return util.ReadInt8(r)
	case TypeShort:
		return util.ReadInt16(r)
	case TypeInt:
		return util.ReadInt32(r)
	case TypeFloat:
		return util.ReadFloat32(r)
	case TypeVarInt, TypeDirection, TypeBlockState, TypePose,
		TypeCatVariant, TypeFrogVariant, TypePaintingVariant:
		n, err := util.ReadVarInt(r)
		return int32(n), err
	case TypeString:
		return util.ReadStringMax(r, util.DefaultMaxStringSize)
	case TypeChat:
		return util.ReadStringMax(r, maxChatSize)
	case TypeOptChat:
		ok, err := util.ReadBool(r)
		if err != nil || !ok {
			return (*string)(nil), err
		}
		s, err := util.ReadStringMax(r, maxChatSize)
		return &s, err
	case TypeSlot:
		return c.readSlot(r)
	case TypeBool:
		return util.ReadBool(r)
	case TypeRotation:
		var rot Rotation
		for _, f := range []*float32{&rot.X, &rot.Y, &rot.Z} {
			if *f, err = util.ReadFloat32(r); err != nil {
				return nil, err
			}
		}
		return rot, nil
	case TypePosition:
		return c.readPosition(r)
	case TypeBlockCoords:
		var p Position
		for _, n := range []*int32{&p.X, &p.Y, &p.Z} {
			if *n, err = util.ReadInt32(r); err != nil {
				return nil, err
			}
		}
		return p, nil
	case TypeOptPosition:
		ok, err := util.ReadBool(r)
		if err != nil || !ok {
			return (*Position)(nil), err
		}
		p, err := c.readPosition(r)
		return &p, err
	case TypeOptUUID:
		ok, err := util.ReadBool(r)
		if err != nil || !ok {
			return OptUUID{}, err
		}
		id, err := util.ReadUUID(r)
		return SomeUUID(id), err
	case TypeNBT:
		return r.readNBT()
	case TypeParticle:
		return c.readParticle(r)
	case TypeVillagerData:
		var d VillagerData
		for _, n := range []*int32{&d.Type, &d.Profession, &d.Level} {
			i, err := util.ReadVarInt(r)
			if err != nil {
				return nil, err
			}
			*n = int32(i)
		}
		return d, nil
	case TypeOptVarInt:
		n, err := util.ReadVarInt(r)
		if err != nil || n == 0 {
			return (*int32)(nil), err
		}
		i := int32(n - 1)
		return &i, nil
	case TypeOptGlobalPos:
		ok, err := util.ReadBool(r)
		if err != nil || !ok {
			return (*GlobalPos)(nil), err
		}
		g := new(GlobalPos)
		if g.Dimension, err = util.ReadString(r); err != nil {
			return nil, err
		}
		g.Pos, err = c.readPosition(r)
		return g, err
	}
	return nil, fmt.Errorf("no reader for type %s", t)
}

func (c *Codec) readSlot(r *reader) (s Slot, err error) {
	switch c.slot {
	case slotPresentFlag:
		if s.Present, err = util.ReadBool(r); err != nil || !s.Present {
			return s, err
		}
		id, err := util.ReadVarInt(r)
		if err != nil {
			return s, err
		}
		s.ID = int32(id)
	default:
		id, err := util.ReadInt16(r)
		if err != nil || id == -1 {
			return Slot{ID: -1}, err
		}
		s.Present, s.ID = true, int32(id)
	}
	if s.Count, err = util.ReadInt8(r); err != nil {
		return s, err
	}
	if c.slot == slotWithDamage {
		if s.Damage, err = util.ReadInt16(r); err != nil {
			return s, err
		}
	}
	s.NBT, err = r.readNBT()
	return s, err
}

func (c *Codec) readPosition(r io.Reader) (Position, error) {
	v, err := util.ReadInt64(r)
	if err != nil {
		return Position{}, err
	}
	return c.unpack(v), nil
}

func (c *Codec) unpack(v int64) Position {
	if c.position == positionXZY {
		return Position{X: int32(v >> 38), Y: int32(v << 52 >> 52), Z: int32(v << 26 >> 38)}
	}
	return Position{X: int32(v >> 38), Y: int32(v << 26 >> 52), Z: int32(v << 38 >> 38)}
}

func (c *Codec) pack(p Position) int64 {
	x, y, z := int64(p.X)&0x3FFFFFF, int64(p.Y)&0xFFF, int64(p.Z)&0x3FFFFFF
	if c.position == positionXZY {
		return x<<38 | z<<12 | y
	}
	return x<<38 | y<<26 | z
}

// readParticle keeps the particle's extra data as raw bytes.
func (c *Codec) readParticle(r *reader) (Particle, error) {
	if c.particles == nil {
		return Particle{}, errNoParticleTable
	}
	id, err := util.ReadVarInt(r)
	if err != nil {
		return Particle{}, err
	}
	p := Particle{ID: int32(id)}
	start := r.offset()
	switch c.particles[p.ID] {
	case particleBlockState:
		_, err = util.ReadVarInt(r)
	case particleDust:
		for i := 0; i < 4 && err == nil; i++ {
			_, err = util.ReadFloat32(r)
		}
	case particleItem:
		_, err = c.readSlot(r)
	}
	if err != nil {
		return p, err
	}
	if end := r.offset(); end > start {
		p.Data = append([]byte(nil), r.data[start:end]...)
	}
	return p, nil
}

type mismatchError struct {
	t   Type
	val any
}

func (e *mismatchError) Error() string {
	return fmt.Sprintf("value %T does not match declared type %s", e.val, e.t)
}

func (c *Codec) writeValue(wr io.Writer, t Type, val any) error {
	bad := &mismatchError{t: t, val: val}
	switch t {
	case TypeByte:
		v, ok := val.(int8)
		if !ok {
			return bad
		}
		return util.WriteInt8(wr, v)
	case TypeShort:
		v, ok := val.(int16)
		if !ok {
			return bad
		}
		return util.WriteInt16(wr, v)
	case TypeInt:
		v, ok := val.(int32)
		if !ok {
			return bad
		}
		return util.WriteInt32(wr, v)
	case TypeFloat:
		v, ok := val.(float32)
		if !ok {
			return bad
		}
		return util.WriteFloat32(wr, v)
	case TypeVarInt, TypeDirection, TypeBlockState, TypePose,
		TypeCatVariant, TypeFrogVariant, TypePaintingVariant:
		v, ok := val.(int32)
		if !ok {
			return bad
		}
		return util.WriteVarInt(wr, int(v))
	case TypeString, TypeChat:
		v, ok := val.(string)
		if !ok {
			return bad
		}
		return util.WriteString(wr, v)
	case TypeOptChat:
		v, ok := val.(*string)
		if !ok {
			return bad
		}
		if err := util.WriteBool(wr, v != nil); err != nil || v == nil {
			return err
		}
		return util.WriteString(wr, *v)
	case TypeSlot:
		v, ok := val.(Slot)
		if !ok {
			return bad
		}
		return c.writeSlot(wr, v)
	case TypeBool:
		v, ok := val.(bool)
		if !ok {
			return bad
		}
		return util.WriteBool(wr, v)
	case TypeRotation:
		v, ok := val.(Rotation)
		if !ok {
			return bad
		}
		for _, f := range []float32{v.X, v.Y, v.Z} {
			if err := util.WriteFloat32(wr, f); err != nil {
				return err
			}
		}
		return nil
	case TypePosition:
		v, ok := val.(Position)
		if !ok {
			return bad
		}
		return util.WriteInt64(wr, c.pack(v))
	case TypeBlockCoords:
		v, ok := val.(Position)
		if !ok {
			return bad
		}
		for _, n := range []int32{v.X, v.Y, v.Z} {
			if err := util.WriteInt32(wr, n); err != nil {
				return err
			}
		}
		return nil
	case TypeOptPosition:
		v, ok := val.(*Position)
		if !ok {
			return bad
		}
		if err := util.WriteBool(wr, v != nil); err != nil || v == nil {
			return err
		}
		return util.WriteInt64(wr, c.pack(*v))
	case TypeOptUUID:
		v, ok := val.(OptUUID)
		if !ok {
			return bad
		}
		if err := util.WriteBool(wr, v.Present); err != nil || !v.Present {
			return err
		}
		return util.WriteUUID(wr, v.ID)
	case TypeNBT:
		v, ok := val.(NBT)
		if !ok {
			return bad
		}
		return writeNBT(wr, v)
	case TypeParticle:
		v, ok := val.(Particle)
		if !ok {
			return bad
		}
		if err := util.WriteVarInt(wr, int(v.ID)); err != nil {
			return err
		}
		return util.WriteRawBytes(wr, v.Data)
	case TypeVillagerData:
		v, ok := val.(VillagerData)
		if !ok {
			return bad
		}
		for _, n := range []int32{v.Type, v.Profession, v.Level} {
			if err := util.WriteVarInt(wr, int(n)); err != nil {
				return err
			}
		}
		return nil
	case TypeOptVarInt:
		v, ok := val.(*int32)
		if !ok {
			return bad
		}
		if v == nil {
			return util.WriteVarInt(wr, 0)
		}
		return util.WriteVarInt(wr, int(*v)+1)
	case TypeOptGlobalPos:
		v, ok := val.(*GlobalPos)
		if !ok {
			return bad
		}
		if err := util.WriteBool(wr, v != nil); err != nil || v == nil {
			return err
		}
		if err := util.WriteString(wr, v.Dimension); err != nil {
			return err
		}
		return util.WriteInt64(wr, c.pack(v.Pos))
	}
	return fmt.Errorf("no writer for type %s", t)
}

func (c *Codec) writeSlot(wr io.Writer, s Slot) error {
	switch c.slot {
	case slotPresentFlag:
		if err := util.WriteBool(wr, s.Present); err != nil || !s.Present {
			return err
		}
		if err := util.WriteVarInt(wr, int(s.ID)); err != nil {
			return err
		}
	default:
		if !s.Present {
			return util.WriteInt16(wr, -1)
		}
		if err := util.WriteInt16(wr, int16(s.ID)); err != nil {
			return err
		}
	}
	if err := util.WriteInt8(wr, s.Count); err != nil {
		return err
	}
	if c.slot == slotWithDamage {
		if err := util.WriteInt16(wr, s.Damage); err != nil {
			return err
		}
	}
	return writeNBT(wr, s.NBT)
}

func writeNBT(wr io.Writer, n NBT) error {
	if len(n) == 0 {
		return util.WriteByte(wr, 0)
	}
	return util.WriteRawBytes(wr, n)
}
