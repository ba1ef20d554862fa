package util

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.minekube.com/tabgate/pkg/edition/java/proto/version"
	"go.minekube.com/tabgate/pkg/gate/proto"
	"go.minekube.com/tabgate/pkg/util/uuid"
)

func TestVarInt(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name    string
		data    []byte
		wantVal int
		wantErr error
	}{
		{name: "single byte", data: []byte{0x01}, wantVal: 1},
		{name: "two bytes", data: []byte{0xAC, 0x02}, wantVal: 300},
		{name: "zero", data: []byte{0x00}, wantVal: 0},
		{name: "max varint", data: []byte{0xff, 0xff, 0xff, 0xff, 0x07}, wantVal: math.MaxInt32},
		{name: "minus one", data: []byte{0xff, 0xff, 0xff, 0xff, 0x0f}, wantVal: -1},
		{name: "varint too big", data: []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0x01}, wantErr: errVarIntTooBig},
		{name: "empty buffer", data: []byte{}, wantErr: io.EOF},
		{name: "incomplete varint", data: []byte{0xff}, wantErr: io.EOF},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gotVal, gotErr := ReadVarInt(bytes.NewBuffer(tc.data))
			if tc.wantErr != nil {
				require.ErrorIs(t, gotErr, tc.wantErr)
				return
			}
			require.NoError(t, gotErr)
			require.Equal(t, tc.wantVal, gotVal)
		})
	}
}

func TestVarIntRoundTrip(t *testing.T) {
	for _, v := range []int{-256, -1, 0, 127, 128, math.MaxInt32, math.MinInt32} {
		t.Run(fmt.Sprintf("VarInt_%d", v), func(t *testing.T) {
			buf := new(bytes.Buffer)
			require.NoError(t, WriteVarInt(buf, v))
			got, err := ReadVarInt(buf)
			require.NoError(t, err)
			require.Equal(t, v, got)
			require.Zero(t, buf.Len())
		})
	}
}

func TestUUID(t *testing.T) {
	t.Parallel()
	id := uuid.New()
	buf := new(bytes.Buffer)
	require.NoError(t, WriteUUID(buf, id))
	require.Equal(t, 16, buf.Len())
	got, err := ReadUUID(buf)
	require.NoError(t, err)
	require.Equal(t, id, got)
}

func TestReadStringMax(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, WriteString(buf, "health"))
	s, err := ReadStringMax(bytes.NewReader(buf.Bytes()), 16)
	require.NoError(t, err)
	require.Equal(t, "health", s)

	_, err = ReadStringMax(bytes.NewReader(buf.Bytes()), 1)
	require.Error(t, err)

	require.Error(t, WriteStringMax(new(bytes.Buffer), "health", 3))
}

func TestShortReads(t *testing.T) {
	_, err := ReadInt32(bytes.NewReader([]byte{0x01, 0x02}))
	require.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	_, err = ReadUUID(bytes.NewReader(make([]byte, 8)))
	require.Error(t, err)
}

func TestTruncateLegacy(t *testing.T) {
	tests := []struct {
		in, want string
		max      int
		cut      bool
	}{
		{in: "HP", max: 16, want: "HP"},
		{in: "abcdef", max: 4, want: "abcd", cut: true},
		{in: "abc§c", max: 4, want: "abc", cut: true},
		{in: "§a§bÄÖÜ", max: 5, want: "§a§bÄ", cut: true},
		// Characters outside the BMP take two units.
		{in: "ab😀😀", max: 4, want: "ab😀", cut: true},
		{in: "ab😀", max: 3, want: "ab", cut: true},
		{in: "a§😀", max: 3, want: "a", cut: true},
		{in: "😀😀", max: 4, want: "😀😀"},
	}
	for _, tt := range tests {
		got, cut := TruncateLegacy(tt.in, tt.max)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.cut, cut, tt.in)
	}
}

func TestLegacyToJson(t *testing.T) {
	for _, v := range []*proto.Version{version.Minecraft_1_13, version.Minecraft_1_16} {
		t.Run(v.String(), func(t *testing.T) {
			s, err := LegacyToJson(v.Protocol, "§cHP")
			require.NoError(t, err)
			assert.Contains(t, s, `"HP"`)
			assert.Contains(t, s, "red")
		})
	}
}

func FuzzReadVarInt(f *testing.F) {
	for _, tc := range [][]byte{
		{0x01},
		{0xAC, 0x02},
		{0xff, 0xff, 0xff, 0xff, 0x07},
		{0xff, 0xff, 0xff, 0xff, 0xff, 0x01},
		{},
		{0xff},
	} {
		f.Add(tc)
	}
	f.Fuzz(func(t *testing.T, data []byte) {
		buf := bytes.NewBuffer(data)
		val, err := ReadVarInt(buf)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, errVarIntTooBig) {
				t.Fatalf("unexpected error: %v for input %x", err, data)
			}
			return
		}
		out := new(bytes.Buffer)
		require.NoError(t, WriteVarInt(out, val))
		again, err := ReadVarInt(out)
		require.NoError(t, err)
		require.Equal(t, val, again)
	})
}
