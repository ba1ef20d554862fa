package netmc

import (
	"bufio"
	"bytes"
	"errors"
	"io"

	"go.minekube.com/tabgate/pkg/edition/java/proto/util"
	"go.minekube.com/tabgate/pkg/gate/proto"
	"go.minekube.com/tabgate/pkg/util/errs"
)

// maxFrameSize is the largest uncompressed frame a vanilla client accepts.
const maxFrameSize = 2097151

// Reader reads frames written by Writer.
type Reader struct {
	readBuf   *bufio.Reader
	direction proto.Direction
	protocol  proto.Protocol
}

// NewReader returns a new packet reader for frames of the given direction and protocol.
func NewReader(r io.Reader, direction proto.Direction, protocol proto.Protocol) *Reader {
	return &Reader{
		readBuf:   bufio.NewReader(r),
		direction: direction,
		protocol:  protocol,
	}
}

// ReadPacket reads the next frame. Registered packets are decoded,
// all others keep only their raw Payload.
// A frame that fails to decode is returned together with the error.
func (r *Reader) ReadPacket() (*proto.PacketContext, error) {
	length, err := util.ReadVarInt(r.readBuf)
	if err != nil {
		return nil, err
	}
	if length <= 0 || length > maxFrameSize {
		return nil, errs.NewSilentErr("invalid frame length %d", length)
	}
	frame := make([]byte, length)
	if _, err = io.ReadFull(r.readBuf, frame); err != nil {
		return nil, err
	}
	rd := bytes.NewReader(frame)
	id, err := util.ReadVarInt(rd)
	if err != nil {
		return nil, errs.WrapSilent(err)
	}
	pc := &proto.PacketContext{
		Direction: r.direction,
		Protocol:  r.protocol,
		PacketID:  proto.PacketID(id),
		Payload:   frame[len(frame)-rd.Len():],
	}
	if err = Decode(pc); err != nil && !errors.Is(err, proto.ErrDecoderLeftBytes) {
		return pc, err
	}
	return pc, nil
}
