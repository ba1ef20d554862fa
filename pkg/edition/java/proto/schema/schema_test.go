package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.minekube.com/tabgate/pkg/edition/java/proto/version"
	"go.minekube.com/tabgate/pkg/gate/proto"
	"go.minekube.com/tabgate/pkg/util/errs"
)

func TestDefault_CoversAdvertisedVersions(t *testing.T) {
	require.NoError(t, Default.Validate(version.SupportedVersions))
}

func TestDefault_LookupIsTotal(t *testing.T) {
	for _, f := range Default.Fields() {
		for _, v := range version.SupportedVersions {
			var n int
			for _, e := range Default.Entries(f) {
				if e.Range.Contains(v.Protocol) {
					n++
				}
			}
			assert.LessOrEqual(t, n, 1, "%s for %s", f, v)
			_, ok := Default.Lookup(f, v.Protocol)
			if Default.Required(f) {
				assert.True(t, ok, "%s for %s", f, v)
			}
			assert.Equal(t, n == 1, ok, "%s for %s", f, v)
		}
	}
}

func TestPetOwnerIndex(t *testing.T) {
	tests := []struct {
		v     *proto.Version
		index int
		ok    bool
	}{
		{v: version.Minecraft_1_8},
		{v: version.Minecraft_1_9, index: 13, ok: true},
		{v: version.Minecraft_1_9_4, index: 13, ok: true},
		{v: version.Minecraft_1_10, index: 14, ok: true},
		{v: version.Minecraft_1_13_2, index: 14, ok: true},
		{v: version.Minecraft_1_14_4, index: 16, ok: true},
		{v: version.Minecraft_1_15, index: 17, ok: true},
		{v: version.Minecraft_1_16_4, index: 17, ok: true},
		{v: version.Minecraft_1_17, index: 18, ok: true},
		{v: version.Minecraft_1_19, index: 18, ok: true},
	}
	for _, tt := range tests {
		t.Run(tt.v.String(), func(t *testing.T) {
			e, ok := Default.Lookup(PetOwner, tt.v.Protocol)
			require.Equal(t, tt.ok, ok)
			if ok {
				require.Equal(t, tt.index, e.Index)
				require.Equal(t, OptUUID, e.Type)
			}
		})
	}
}

func TestRequire_Unsupported(t *testing.T) {
	_, err := Default.Require(BossBarTitle, version.Minecraft_1_8.Protocol)
	require.ErrorIs(t, err, errs.ErrUnsupportedField)

	e, err := Default.Require(BossBarTitle, version.Minecraft_1_9.Protocol)
	require.NoError(t, err)
	require.Equal(t, Chat, e.Type)
}

func TestNew_RejectsOverlap(t *testing.T) {
	_, err := New([]Entry{
		{Field: "f", Range: Between(version.Minecraft_1_9, version.Minecraft_1_13)},
		{Field: "f", Range: Since(version.Minecraft_1_12)},
	})
	require.Error(t, err)

	_, err = New([]Entry{
		{Field: "f", Range: Between(version.Minecraft_1_9, version.Minecraft_1_13)},
		{Field: "f", Range: Since(version.Minecraft_1_13)},
		{Field: "g", Range: Since(version.Minecraft_1_9)},
	})
	require.NoError(t, err)

	_, err = New([]Entry{{Field: "f", Range: Between(version.Minecraft_1_13, version.Minecraft_1_9)}})
	require.Error(t, err)
}

func TestValidate_ReportsGaps(t *testing.T) {
	tbl := MustNew([]Entry{
		{Field: "f", Range: Between(version.Minecraft_1_8, version.Minecraft_1_12)},
		{Field: "f", Range: Since(version.Minecraft_1_13)},
		{Field: "opt", Range: Since(version.Minecraft_1_13)},
	}, "f", "missing")
	err := tbl.Validate(version.SupportedVersions)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "f has no entry for 1.12")
	assert.Contains(t, err.Error(), "required field missing has no entries")
	assert.NotContains(t, err.Error(), "opt")
}

func TestRange(t *testing.T) {
	r := Between(version.Minecraft_1_10, version.Minecraft_1_14)
	assert.False(t, r.Contains(version.Minecraft_1_9_4.Protocol))
	assert.True(t, r.Contains(version.Minecraft_1_10.Protocol))
	assert.True(t, r.Contains(version.Minecraft_1_13_2.Protocol))
	assert.False(t, r.Contains(version.Minecraft_1_14.Protocol))
	assert.True(t, Since(version.Minecraft_1_17).Contains(100000))
	assert.True(t, r.Overlaps(Since(version.Minecraft_1_13)))
	assert.False(t, r.Overlaps(Since(version.Minecraft_1_14)))
}
