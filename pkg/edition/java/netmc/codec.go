package netmc

import (
	"bytes"
	"errors"
	"fmt"

	"go.minekube.com/tabgate/pkg/edition/java/proto/state"
	"go.minekube.com/tabgate/pkg/gate/proto"
	"go.minekube.com/tabgate/pkg/util/errs"
)

func registry(direction proto.Direction, protocol proto.Protocol) (*state.ProtocolRegistry, error) {
	r := state.Play.Direction(direction).ProtocolRegistry(protocol)
	if r == nil {
		return nil, fmt.Errorf("no %s packet registry for protocol %s", direction, protocol)
	}
	return r, nil
}

// TypeOf returns the registered type of the packet in pc without decoding it.
func TypeOf(pc *proto.PacketContext) (proto.PacketType, bool) {
	if pc.KnownPacket() {
		return proto.TypeOf(pc.Packet), true
	}
	r, err := registry(pc.Direction, pc.Protocol)
	if err != nil {
		return nil, false
	}
	t, ok := r.PacketIDs[pc.PacketID]
	return t, ok
}

// Is reports whether pc holds a packet of the same type as sample.
func Is(pc *proto.PacketContext, sample proto.Packet) bool {
	t, ok := TypeOf(pc)
	return ok && t == proto.TypeOf(sample)
}

// Decode decodes pc.Payload into pc.Packet if the packet id is registered.
// Unregistered packets are left untouched. Decoding errors wrap
// errs.ErrDecodeFailure and a decoder leaving bytes unread fails with
// proto.ErrDecoderLeftBytes.
func Decode(pc *proto.PacketContext) error {
	if pc.KnownPacket() {
		return nil
	}
	r, err := registry(pc.Direction, pc.Protocol)
	if err != nil {
		return err
	}
	p := r.CreatePacket(pc.PacketID)
	if p == nil {
		return nil
	}
	rd := bytes.NewReader(pc.Payload)
	if err = p.Decode(pc, rd); err != nil {
		if errors.Is(err, errs.ErrDecodeFailure) {
			return fmt.Errorf("decode %T: %w", p, err)
		}
		return fmt.Errorf("decode %T: %w: %w", p, errs.ErrDecodeFailure, err)
	}
	if rd.Len() != 0 {
		return fmt.Errorf("decode %T: %w (%d left)", p, proto.ErrDecoderLeftBytes, rd.Len())
	}
	pc.Packet = p
	return nil
}

// Encode returns a copy of pc with Payload re-encoded from Packet.
func Encode(pc *proto.PacketContext) (*proto.PacketContext, error) {
	buf := new(bytes.Buffer)
	if err := pc.Packet.Encode(pc, buf); err != nil {
		return nil, fmt.Errorf("encode %T: %w", pc.Packet, err)
	}
	out := *pc
	out.Payload = buf.Bytes()
	return &out, nil
}

// NewPacketContext resolves the id of p for protocol and encodes it.
func NewPacketContext(direction proto.Direction, protocol proto.Protocol, p proto.Packet) (*proto.PacketContext, error) {
	r, err := registry(direction, protocol)
	if err != nil {
		return nil, err
	}
	id, ok := r.PacketID(p)
	if !ok {
		return nil, fmt.Errorf("packet %T is not registered for protocol %s", p, protocol)
	}
	return Encode(&proto.PacketContext{
		Direction: direction,
		Protocol:  protocol,
		PacketID:  id,
		Packet:    p,
	})
}
