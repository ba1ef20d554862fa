package util

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"go.minekube.com/tabgate/pkg/util/uuid"
)

func WriteString(wr io.Writer, val string) error {
	return WriteBytes(wr, []byte(val))
}

// WriteStringMax writes val and fails if it exceeds max characters.
// Callers that must never fail clamp the string beforehand.
func WriteStringMax(wr io.Writer, val string, max int) error {
	if n := len([]rune(val)); n > max {
		return fmt.Errorf("string too long (got %d, max. %d)", n, max)
	}
	return WriteString(wr, val)
}

func WriteStrings(wr io.Writer, a []string) error {
	err := WriteVarInt(wr, len(a))
	if err != nil {
		return err
	}
	for _, s := range a {
		if err = WriteString(wr, s); err != nil {
			return err
		}
	}
	return nil
}

func WriteVarInt(wr io.Writer, val int) (err error) {
	uval := uint32(val)
	for uval >= 0x80 {
		if err = WriteUint8(wr, byte(uval)|0x80); err != nil {
			return
		}
		uval >>= 7
	}
	return WriteUint8(wr, byte(uval))
}

func WriteBool(wr io.Writer, val bool) error {
	if val {
		return WriteUint8(wr, 1)
	}
	return WriteUint8(wr, 0)
}

// equal to WriteUint8
func WriteInt8(wr io.Writer, val int8) error {
	return WriteUint8(wr, uint8(val))
}

func WriteUint8(wr io.Writer, val uint8) error {
	if bw, ok := wr.(io.ByteWriter); ok {
		return bw.WriteByte(val)
	}
	_, err := wr.Write([]byte{val})
	return err
}

// equal to WriteUint8
func WriteByte(wr io.Writer, val byte) error {
	return WriteUint8(wr, val)
}

func WriteInt16(wr io.Writer, val int16) error {
	return WriteUint16(wr, uint16(val))
}

func WriteUint16(wr io.Writer, val uint16) error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], val)
	_, err := wr.Write(b[:])
	return err
}

func WriteInt32(wr io.Writer, val int32) error {
	return WriteUint32(wr, uint32(val))
}

func WriteInt(wr io.Writer, val int) error {
	return WriteInt32(wr, int32(val))
}

func WriteUint32(wr io.Writer, val uint32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], val)
	_, err := wr.Write(b[:])
	return err
}

func WriteInt64(wr io.Writer, val int64) error {
	return WriteUint64(wr, uint64(val))
}

func WriteUint64(wr io.Writer, val uint64) error {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], val)
	_, err := wr.Write(b[:])
	return err
}

func WriteFloat32(wr io.Writer, val float32) error {
	return WriteUint32(wr, math.Float32bits(val))
}

func WriteFloat64(wr io.Writer, val float64) error {
	return WriteUint64(wr, math.Float64bits(val))
}

func WriteBytes(wr io.Writer, b []byte) error {
	err := WriteVarInt(wr, len(b))
	if err != nil {
		return err
	}
	_, err = wr.Write(b)
	return err
}

// WriteRawBytes writes b with no length prefix.
func WriteRawBytes(wr io.Writer, b []byte) error {
	_, err := wr.Write(b)
	return err
}

// WriteUUID writes the id as an unsigned 128-bit integer
// (the most significant 64 bits and then the least significant 64 bits).
func WriteUUID(wr io.Writer, id uuid.UUID) error {
	err := WriteUint64(wr, binary.BigEndian.Uint64(id[:8]))
	if err != nil {
		return err
	}
	return WriteUint64(wr, binary.BigEndian.Uint64(id[8:]))
}
