package netmc

import (
	"bufio"
	"bytes"
	"io"
	"sync"

	"go.minekube.com/tabgate/pkg/edition/java/proto/util"
	"go.minekube.com/tabgate/pkg/gate/proto"
)

// Writer frames packets as uncompressed length-prefixed frames.
// Compression and encryption belong to the host transport.
type Writer struct {
	mu       sync.Mutex // protects writeBuf
	writeBuf *bufio.Writer
	frame    bytes.Buffer
}

var _ proto.PacketWriter = (*Writer)(nil)

// NewWriter returns a new packet writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{writeBuf: bufio.NewWriter(w)}
}

// WritePacket writes the packet id and payload of pc to the write buffer.
func (w *Writer) WritePacket(pc *proto.PacketContext) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.frame.Reset()
	if err := util.WriteVarInt(&w.frame, int(pc.PacketID)); err != nil {
		return err
	}
	w.frame.Write(pc.Payload)
	if err := util.WriteVarInt(w.writeBuf, w.frame.Len()); err != nil {
		return err
	}
	_, err := w.writeBuf.Write(w.frame.Bytes())
	return err
}

// Flush flushes the write buffer.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writeBuf.Flush()
}
