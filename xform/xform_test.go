package xform

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPanicsOnNonPositiveResolution(t *testing.T) {
	assert.Panics(t, func() { New(0, 1, 1) })
	assert.Panics(t, func() { New(1, -1, 1) })
}

func TestLocalToVoxelAndBack(t *testing.T) {
	x := New(2, 0.5, 4)
	vx, vy, vz := x.LocalToVoxel(3, 8, 1)
	assert.Equal(t, 6.0, vx)
	assert.Equal(t, 4.0, vy)
	assert.Equal(t, 4.0, vz)
	lx, ly, lz := x.VoxelToLocal(vx, vy, vz)
	assert.Equal(t, 3.0, lx)
	assert.Equal(t, 8.0, ly)
	assert.Equal(t, 1.0, lz)
}

func TestVoxelToIndexFloors(t *testing.T) {
	i, j, k := VoxelToIndex(1.9, -0.1, -2.5)
	assert.Equal(t, int32(1), i)
	assert.Equal(t, int32(-1), j)
	assert.Equal(t, int32(-3), k)
}

func TestIndexToVoxelIsExactCast(t *testing.T) {
	vx, vy, vz := IndexToVoxel(-3, 0, 7)
	assert.Equal(t, -3.0, vx)
	assert.Equal(t, 0.0, vy)
	assert.Equal(t, 7.0, vz)
}

func TestIdentityHasUnitResolution(t *testing.T) {
	rx, ry, rz := Identity().Res()
	assert.Equal(t, 1.0, rx)
	assert.Equal(t, 1.0, ry)
	assert.Equal(t, 1.0, rz)
}

func TestEqual(t *testing.T) {
	a := New(1, 2, 3)
	b := New(1, 2, 3)
	c := New(1, 2, 4)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestWriteToReadFromRoundTrip(t *testing.T) {
	x := New(1.25, 2.5, 0.125)
	var buf bytes.Buffer
	n, err := x.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(24), n)

	var got LocalXform
	_, err = got.ReadFrom(&buf)
	require.NoError(t, err)
	assert.True(t, x.Equal(got))
}
