package util

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"go.minekube.com/tabgate/pkg/util/uuid"
)

// DefaultMaxStringSize is the upper bound of characters
// a string read without explicit maximum may have.
const DefaultMaxStringSize = bufio.MaxScanTokenSize

var errVarIntTooBig = errors.New("decode: VarInt is too big")

func ReadString(rd io.Reader) (string, error) {
	return ReadStringMax(rd, DefaultMaxStringSize)
}

// ReadStringMax reads a length-prefixed UTF-8 string of at most max characters.
func ReadStringMax(rd io.Reader, max int) (string, error) {
	length, err := ReadVarInt(rd)
	if err != nil {
		return "", err
	}
	if length < 0 {
		return "", fmt.Errorf("got negative string length (%d)", length)
	}
	if length > max*4 { // *4 since UTF8 character has up to 4 bytes
		return "", fmt.Errorf("bad string length (got %d, max. %d)", length, max)
	}
	str := make([]byte, length)
	if _, err = io.ReadFull(rd, str); err != nil {
		return "", err
	}
	return string(str), nil
}

func ReadStringArray(rd io.Reader) ([]string, error) {
	length, err := ReadVarInt(rd)
	if err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, fmt.Errorf("got negative-length string array (%d)", length)
	}
	a := make([]string, 0, length)
	for i := 0; i < length; i++ {
		s, err := ReadString(rd)
		if err != nil {
			return nil, err
		}
		a = append(a, s)
	}
	return a, nil
}

func ReadVarInt(r io.Reader) (int, error) {
	var n uint32
	for i := 0; ; i++ {
		sec, err := ReadUint8(r)
		if err != nil {
			return 0, err
		}
		if i >= 5 {
			return 0, errVarIntTooBig
		}
		n |= uint32(sec&0x7F) << uint32(7*i)
		if sec&0x80 == 0 {
			break
		}
	}
	return int(int32(n)), nil
}

func ReadBool(rd io.Reader) (bool, error) {
	b, err := ReadUint8(rd)
	return b != 0, err
}

func ReadInt8(rd io.Reader) (int8, error) {
	b, err := ReadUint8(rd)
	return int8(b), err
}

func ReadUint8(rd io.Reader) (uint8, error) {
	if br, ok := rd.(io.ByteReader); ok {
		return br.ReadByte()
	}
	var b [1]byte
	_, err := io.ReadFull(rd, b[:])
	return b[0], err
}

func ReadByte(rd io.Reader) (byte, error) {
	return ReadUint8(rd)
}

func ReadInt16(rd io.Reader) (int16, error) {
	u, err := ReadUint16(rd)
	return int16(u), err
}

func ReadUint16(rd io.Reader) (uint16, error) {
	var b [2]byte
	_, err := io.ReadFull(rd, b[:])
	return binary.BigEndian.Uint16(b[:]), err
}

func ReadInt32(rd io.Reader) (int32, error) {
	u, err := ReadUint32(rd)
	return int32(u), err
}

func ReadInt(rd io.Reader) (int, error) {
	i, err := ReadInt32(rd)
	return int(i), err
}

func ReadUint32(rd io.Reader) (uint32, error) {
	var b [4]byte
	_, err := io.ReadFull(rd, b[:])
	return binary.BigEndian.Uint32(b[:]), err
}

func ReadInt64(rd io.Reader) (int64, error) {
	u, err := ReadUint64(rd)
	return int64(u), err
}

func ReadUint64(rd io.Reader) (uint64, error) {
	var b [8]byte
	_, err := io.ReadFull(rd, b[:])
	return binary.BigEndian.Uint64(b[:]), err
}

func ReadFloat32(rd io.Reader) (float32, error) {
	u, err := ReadUint32(rd)
	return math.Float32frombits(u), err
}

func ReadFloat64(rd io.Reader) (float64, error) {
	u, err := ReadUint64(rd)
	return math.Float64frombits(u), err
}

func ReadUUID(rd io.Reader) (id uuid.UUID, err error) {
	b := make([]byte, 16)
	if _, err = io.ReadFull(rd, b); err != nil {
		return
	}
	return uuid.FromBytes(b)
}
