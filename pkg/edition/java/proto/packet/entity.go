package packet

import (
	"errors"
	"io"

	"go.minekube.com/tabgate/pkg/edition/java/proto/metadata"
	"go.minekube.com/tabgate/pkg/edition/java/proto/util"
	"go.minekube.com/tabgate/pkg/edition/java/proto/version"
	"go.minekube.com/tabgate/pkg/gate/proto"
	"go.minekube.com/tabgate/pkg/util/uuid"
)

// EntityMetadata updates the metadata entries of an entity.
type EntityMetadata struct {
	EntityID int
	Metadata metadata.Entries
}

func (e *EntityMetadata) Encode(c *proto.PacketContext, wr io.Writer) error {
	codec, err := metadata.For(c.Protocol)
	if err != nil {
		return err
	}
	err = util.WriteVarInt(wr, e.EntityID)
	if err != nil {
		return err
	}
	return codec.Encode(wr, e.Metadata)
}

func (e *EntityMetadata) Decode(c *proto.PacketContext, rd io.Reader) (err error) {
	codec, err := metadata.For(c.Protocol)
	if err != nil {
		return err
	}
	e.EntityID, err = util.ReadVarInt(rd)
	if err != nil {
		return err
	}
	e.Metadata, err = codec.Decode(rd)
	return err
}

// SpawnMob spawns a living entity together with its initial metadata.
// Only registered for versions whose spawn packet carries metadata.
type SpawnMob struct {
	EntityID   int
	EntityUUID uuid.UUID // 1.9+
	Type       int
	X, Y, Z    float64 // fixed-point with 5 fraction bits before 1.9
	Yaw        byte
	Pitch      byte
	HeadPitch  byte
	VelocityX  int16
	VelocityY  int16
	VelocityZ  int16
	Metadata   metadata.Entries
}

var errSpawnMobUnsupported = errors.New("spawn mob packet carries no metadata since 1.15")

func (s *SpawnMob) Encode(c *proto.PacketContext, wr io.Writer) error {
	if c.Protocol.GreaterEqual(version.Minecraft_1_15) {
		return errSpawnMobUnsupported
	}
	codec, err := metadata.For(c.Protocol)
	if err != nil {
		return err
	}
	err = util.WriteVarInt(wr, s.EntityID)
	if err != nil {
		return err
	}
	if c.Protocol.GreaterEqual(version.Minecraft_1_9) {
		err = util.WriteUUID(wr, s.EntityUUID)
		if err != nil {
			return err
		}
	}
	if c.Protocol.GreaterEqual(version.Minecraft_1_11) {
		err = util.WriteVarInt(wr, s.Type)
	} else {
		err = util.WriteUint8(wr, uint8(s.Type))
	}
	if err != nil {
		return err
	}
	for _, f := range []float64{s.X, s.Y, s.Z} {
		if c.Protocol.GreaterEqual(version.Minecraft_1_9) {
			err = util.WriteFloat64(wr, f)
		} else {
			err = util.WriteInt32(wr, int32(f*32))
		}
		if err != nil {
			return err
		}
	}
	for _, b := range []byte{s.Yaw, s.Pitch, s.HeadPitch} {
		if err = util.WriteByte(wr, b); err != nil {
			return err
		}
	}
	for _, v := range []int16{s.VelocityX, s.VelocityY, s.VelocityZ} {
		if err = util.WriteInt16(wr, v); err != nil {
			return err
		}
	}
	return codec.Encode(wr, s.Metadata)
}

func (s *SpawnMob) Decode(c *proto.PacketContext, rd io.Reader) (err error) {
	if c.Protocol.GreaterEqual(version.Minecraft_1_15) {
		return errSpawnMobUnsupported
	}
	codec, err := metadata.For(c.Protocol)
	if err != nil {
		return err
	}
	s.EntityID, err = util.ReadVarInt(rd)
	if err != nil {
		return err
	}
	if c.Protocol.GreaterEqual(version.Minecraft_1_9) {
		s.EntityUUID, err = util.ReadUUID(rd)
		if err != nil {
			return err
		}
	}
	if c.Protocol.GreaterEqual(version.Minecraft_1_11) {
		s.Type, err = util.ReadVarInt(rd)
	} else {
		var t uint8
		t, err = util.ReadUint8(rd)
		s.Type = int(t)
	}
	if err != nil {
		return err
	}
	for _, f := range []*float64{&s.X, &s.Y, &s.Z} {
		if c.Protocol.GreaterEqual(version.Minecraft_1_9) {
			*f, err = util.ReadFloat64(rd)
		} else {
			var fixed int32
			fixed, err = util.ReadInt32(rd)
			*f = float64(fixed) / 32
		}
		if err != nil {
			return err
		}
	}
	for _, b := range []*byte{&s.Yaw, &s.Pitch, &s.HeadPitch} {
		if *b, err = util.ReadByte(rd); err != nil {
			return err
		}
	}
	for _, v := range []*int16{&s.VelocityX, &s.VelocityY, &s.VelocityZ} {
		if *v, err = util.ReadInt16(rd); err != nil {
			return err
		}
	}
	s.Metadata, err = codec.Decode(rd)
	return err
}

// InteractAction is the action of a UseEntity packet.
type InteractAction int

const (
	InteractActionInteract InteractAction = iota
	InteractActionAttack
	InteractActionInteractAt
)

// String implements fmt.Stringer.
func (a InteractAction) String() string {
	switch a {
	case InteractActionInteract:
		return "interact"
	case InteractActionAttack:
		return "attack"
	case InteractActionInteractAt:
		return "interact_at"
	}
	return "unknown"
}

// UseEntity is sent by the client when it attacks or right-clicks an entity.
type UseEntity struct {
	EntityID int
	Action   InteractAction
	TargetX  float32 // interact_at only
	TargetY  float32
	TargetZ  float32
	Hand     int  // 1.9+, interact and interact_at
	Sneaking bool // 1.16+
}

func (u *UseEntity) hasHand(protocol proto.Protocol) bool {
	return protocol.GreaterEqual(version.Minecraft_1_9) && u.Action != InteractActionAttack
}

func (u *UseEntity) Encode(c *proto.PacketContext, wr io.Writer) error {
	err := util.WriteVarInt(wr, u.EntityID)
	if err != nil {
		return err
	}
	err = util.WriteVarInt(wr, int(u.Action))
	if err != nil {
		return err
	}
	if u.Action == InteractActionInteractAt {
		for _, f := range []float32{u.TargetX, u.TargetY, u.TargetZ} {
			if err = util.WriteFloat32(wr, f); err != nil {
				return err
			}
		}
	}
	if u.hasHand(c.Protocol) {
		err = util.WriteVarInt(wr, u.Hand)
		if err != nil {
			return err
		}
	}
	if c.Protocol.GreaterEqual(version.Minecraft_1_16) {
		return util.WriteBool(wr, u.Sneaking)
	}
	return nil
}

func (u *UseEntity) Decode(c *proto.PacketContext, rd io.Reader) (err error) {
	u.EntityID, err = util.ReadVarInt(rd)
	if err != nil {
		return err
	}
	action, err := util.ReadVarInt(rd)
	if err != nil {
		return err
	}
	u.Action = InteractAction(action)
	if u.Action == InteractActionInteractAt {
		for _, f := range []*float32{&u.TargetX, &u.TargetY, &u.TargetZ} {
			if *f, err = util.ReadFloat32(rd); err != nil {
				return err
			}
		}
	}
	if u.hasHand(c.Protocol) {
		u.Hand, err = util.ReadVarInt(rd)
		if err != nil {
			return err
		}
	}
	if c.Protocol.GreaterEqual(version.Minecraft_1_16) {
		u.Sneaking, err = util.ReadBool(rd)
	}
	return err
}

var (
	_ proto.Packet = (*EntityMetadata)(nil)
	_ proto.Packet = (*SpawnMob)(nil)
	_ proto.Packet = (*UseEntity)(nil)
)
