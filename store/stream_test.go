package store

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nektarfx/hive"
	"github.com/nektarfx/hive/attr"
	"github.com/nektarfx/hive/xform"
)

func TestHeaderWriteToReadHeaderRoundTrip(t *testing.T) {
	h := Header{Type: ContainerVolumeSet, Version: Version{Major: 2, Minor: 1, Patch: 0}}
	var buf bytes.Buffer
	_, err := h.WriteTo(&buf)
	require.NoError(t, err)

	got, err := ReadHeader(&buf)
	require.NoError(t, err)
	assert.Equal(t, h, got)
}

func TestReadHeaderRejectsBadMagicTag(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("not-a-nektar-file")
	_, err := ReadHeader(&buf)
	assert.Error(t, err)
}

func TestContainerTypeString(t *testing.T) {
	assert.Equal(t, "Volume", ContainerVolume.String())
	assert.Equal(t, "VolumeSet", ContainerVolumeSet.String())
}

func TestWriteVolumeStreamReadVolumeStreamRoundTrip(t *testing.T) {
	v := hive.NewVolume[float64](1, 1, 1, -1, xform.New(1, 2, 0.5))
	require.NoError(t, v.Set(0, 0, 0, 5))
	require.NoError(t, v.Set(-1, -1, -1, 9))

	var attrs attr.Collection
	require.NoError(t, attrs.Insert("name", attr.NewStringAttribute("test-volume")))
	require.NoError(t, attrs.Insert("version", attr.NewInt32Attribute(3)))
	require.NoError(t, attrs.Insert("empty", attr.NewStringAttribute("")))

	var buf bytes.Buffer
	_, err := WriteVolumeStream(&buf, v, &attrs)
	require.NoError(t, err)

	v2, attrs2, err := ReadVolumeStream[float64](&buf)
	require.NoError(t, err)

	got, err := v2.Get(0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 5.0, got)
	got2, err := v2.Get(-1, -1, -1)
	require.NoError(t, err)
	assert.Equal(t, 9.0, got2)

	assert.True(t, attrs.Equal(attrs2), "attribute bag must round-trip through the length-prefixed framing")
	assert.Equal(t, 3, attrs2.Count())
}

func TestReadVolumeStreamRejectsWrongContainerType(t *testing.T) {
	h := Header{Type: ContainerVolumeSet, Version: CurrentVersion}
	var buf bytes.Buffer
	_, err := h.WriteTo(&buf)
	require.NoError(t, err)

	_, _, err = ReadVolumeStream[float64](&buf)
	assert.Error(t, err)
}

func TestWriteVolumeStreamMultipleAttributesDoNotBleedIntoEachOther(t *testing.T) {
	v := hive.NewVolume[int32](1, 1, 1, 0, xform.Identity())

	var attrs attr.Collection
	require.NoError(t, attrs.Insert("a", attr.NewStringAttribute("first")))
	require.NoError(t, attrs.Insert("b", attr.NewStringAttribute("second")))

	var buf bytes.Buffer
	_, err := WriteVolumeStream(&buf, v, &attrs)
	require.NoError(t, err)

	_, attrs2, err := ReadVolumeStream[int32](&buf)
	require.NoError(t, err)

	a, ok := attr.TypedValue[*attr.StringAttribute](attrs2, "a")
	require.True(t, ok)
	assert.Equal(t, "first", a.Value())
	b, ok := attr.TypedValue[*attr.StringAttribute](attrs2, "b")
	require.True(t, ok)
	assert.Equal(t, "second", b.Value())
}
