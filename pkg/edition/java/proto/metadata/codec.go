package metadata

import (
	"bytes"
	"fmt"
	"io"

	"github.com/Tnze/go-mc/nbt"

	"go.minekube.com/tabgate/pkg/edition/java/proto/util"
	"go.minekube.com/tabgate/pkg/edition/java/proto/version"
	"go.minekube.com/tabgate/pkg/gate/proto"
	"go.minekube.com/tabgate/pkg/util/errs"
)

const (
	packedEnd  = 0x7F
	indexedEnd = 0xFF
	maxEntries = 256
)

// Codec reads and writes metadata lists of one protocol version.
// It is immutable and safe for concurrent use.
type Codec struct {
	protocol  proto.Protocol
	header    headerFormat
	types     []Type
	ids       map[Type]int
	slot      slotFormat
	position  positionFormat
	particles map[int32]particleData
}

var codecs = func() map[proto.Protocol]*Codec {
	m := make(map[proto.Protocol]*Codec, len(version.SupportedVersions))
	for _, v := range version.SupportedVersions {
		if c := newCodec(v.Protocol); c != nil {
			m[v.Protocol] = c
		}
	}
	return m
}()

// For returns the Codec of protocol.
func For(protocol proto.Protocol) (*Codec, error) {
	c, ok := codecs[protocol]
	if !ok {
		return nil, fmt.Errorf("%w: no metadata layout for protocol %s",
			errs.ErrDecodeFailure, version.Protocol(protocol))
	}
	return c, nil
}

func newCodec(protocol proto.Protocol) *Codec {
	c := &Codec{protocol: protocol}
	found := false
	for _, t := range typeTables {
		if t.Contains(protocol) {
			c.header, c.types, found = t.header, t.types, true
		}
	}
	if !found {
		return nil
	}
	c.ids = make(map[Type]int, len(c.types))
	for id, t := range c.types {
		c.ids[t] = id
	}
	for _, t := range slotTables {
		if t.Contains(protocol) {
			c.slot = t.format
		}
	}
	for _, t := range positionTables {
		if t.Contains(protocol) {
			c.position = t.format
		}
	}
	for _, t := range particleTables {
		if t.Contains(protocol) {
			c.particles = t.data
		}
	}
	return c
}

// Protocol returns the protocol version of the codec.
func (c *Codec) Protocol() proto.Protocol { return c.protocol }

// Supports reports whether the protocol knows the type.
func (c *Codec) Supports(t Type) bool {
	_, ok := c.ids[t]
	return ok
}

func decodeErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errs.ErrDecodeFailure, fmt.Sprintf(format, args...))
}

// Decode reads a metadata list up to and including its terminator.
// The list is expected to end the packet: a reader that is not a
// *bytes.Reader is drained.
func (c *Codec) Decode(rd io.Reader) (Entries, error) {
	r, err := newReader(rd)
	if err != nil {
		return nil, err
	}
	var es Entries
	for {
		if len(es) > maxEntries {
			return nil, decodeErr("more than %d entries", maxEntries)
		}
		head, err := r.ReadByte()
		if err != nil {
			return nil, decodeErr("reading entry header: %v", err)
		}
		var index uint8
		var id int
		switch c.header {
		case packedHeader:
			if head == packedEnd {
				return es, r.sync()
			}
			index, id = head&0x1F, int(head>>5)
		default:
			if head == indexedEnd {
				return es, r.sync()
			}
			index = head
			if id, err = util.ReadVarInt(r); err != nil {
				return nil, decodeErr("reading type of entry %d: %v", index, err)
			}
		}
		if id < 0 || id >= len(c.types) {
			return nil, decodeErr("entry %d has unknown type id %d for protocol %s",
				index, id, version.Protocol(c.protocol))
		}
		t := c.types[id]
		v, err := c.readValue(r, t)
		if err != nil {
			return nil, decodeErr("entry %d of type %s: %v", index, t, err)
		}
		es = append(es, Entry{Index: index, Type: t, Value: v})
	}
}

// Encode writes the metadata list followed by its terminator.
func (c *Codec) Encode(wr io.Writer, es Entries) error {
	seen := make(map[uint8]struct{}, len(es))
	for _, e := range es {
		if _, dup := seen[e.Index]; dup {
			return fmt.Errorf("duplicate metadata index %d", e.Index)
		}
		seen[e.Index] = struct{}{}
		id, ok := c.ids[e.Type]
		if !ok {
			return fmt.Errorf("metadata type %s unsupported by protocol %s",
				e.Type, version.Protocol(c.protocol))
		}
		switch c.header {
		case packedHeader:
			if e.Index > 0x1F {
				return fmt.Errorf("metadata index %d exceeds %d", e.Index, 0x1F)
			}
			head := byte(id)<<5 | e.Index
			if head == packedEnd {
				return fmt.Errorf("metadata entry %d of type %s collides with terminator", e.Index, e.Type)
			}
			if err := util.WriteByte(wr, head); err != nil {
				return err
			}
		default:
			if e.Index == indexedEnd {
				return fmt.Errorf("metadata index %d is reserved", e.Index)
			}
			if err := util.WriteByte(wr, e.Index); err != nil {
				return err
			}
			if err := util.WriteVarInt(wr, id); err != nil {
				return err
			}
		}
		if err := c.writeValue(wr, e.Type, e.Value); err != nil {
			return fmt.Errorf("metadata entry %d: %w", e.Index, err)
		}
	}
	if c.header == packedHeader {
		return util.WriteByte(wr, packedEnd)
	}
	return util.WriteByte(wr, indexedEnd)
}

// reader keeps the source bytes to slice out verbatim NBT.
type reader struct {
	*bytes.Reader
	data []byte
	src  *bytes.Reader // advanced by sync
}

func newReader(rd io.Reader) (*reader, error) {
	if br, ok := rd.(*bytes.Reader); ok {
		data := make([]byte, br.Len())
		if _, err := br.ReadAt(data, br.Size()-int64(br.Len())); err != nil && err != io.EOF {
			return nil, err
		}
		return &reader{Reader: bytes.NewReader(data), data: data, src: br}, nil
	}
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, err
	}
	return &reader{Reader: bytes.NewReader(data), data: data}, nil
}

func (r *reader) offset() int { return len(r.data) - r.Len() }

// sync moves the source reader past the consumed bytes.
func (r *reader) sync() error {
	if r.src == nil {
		return nil
	}
	_, err := r.src.Seek(int64(r.offset()), io.SeekCurrent)
	return err
}

func (r *reader) readNBT() (NBT, error) {
	start := r.offset()
	tag, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if tag == 0 {
		return nil, nil
	}
	if err = r.UnreadByte(); err != nil {
		return nil, err
	}
	var raw nbt.RawMessage
	if _, err = nbt.NewDecoder(r.Reader).Decode(&raw); err != nil {
		return nil, fmt.Errorf("nbt: %w", err)
	}
	return append(NBT(nil), r.data[start:r.offset()]...), nil
}
