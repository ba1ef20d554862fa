package packet

import (
	"io"

	"go.minekube.com/tabgate/pkg/edition/java/proto/util"
	"go.minekube.com/tabgate/pkg/gate/proto"
)

// JoinGame is sent when a client enters a server and implicitly
// clears the client's scoreboard. Only its id matters here so the
// body is kept verbatim.
type JoinGame struct {
	Raw []byte
}

func (j *JoinGame) Encode(_ *proto.PacketContext, wr io.Writer) error {
	return util.WriteRawBytes(wr, j.Raw)
}

func (j *JoinGame) Decode(_ *proto.PacketContext, rd io.Reader) (err error) {
	j.Raw, err = io.ReadAll(rd)
	return err
}

var _ proto.Packet = (*JoinGame)(nil)
