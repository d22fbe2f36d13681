package hive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellFillStateReadsFillValue(t *testing.T) {
	c := NewCell[float64](2, 7.0)
	v, err := c.Get(1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 7.0, v)
	assert.True(t, c.IsFill())
}

func TestCellSetExpandsAndReadsBack(t *testing.T) {
	c := NewCell[float64](2, 0.0)
	require.NoError(t, c.Set(1, 1, 1, 5.0))
	assert.False(t, c.IsFill())
	v, err := c.Get(1, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)
	// untouched voxel still reads the fill value
	v2, err := c.Get(0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v2)
}

func TestCellSetBackgroundValueOnFillIsNoOp(t *testing.T) {
	c := NewCell[float64](2, 3.0)
	require.NoError(t, c.Set(0, 0, 0, 3.0))
	assert.True(t, c.IsFill(), "writing the background value over fill state must stay a no-op")
}

func TestCellOutOfRangeCoordinate(t *testing.T) {
	c := NewCell[int32](2, 0)
	_, err := c.Get(100, 0, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidIndex)
}

func TestCellUnsetFallsBackToFillValue(t *testing.T) {
	c := NewCell[int32](2, -1)
	require.NoError(t, c.Set(1, 1, 1, 9))
	require.NoError(t, c.Unset(1, 1, 1))
	v, err := c.Get(1, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(-1), v)
}

func TestCellTryCollapseOnUniformWrite(t *testing.T) {
	c := NewCell[int32](1, 0) // 2x2x2 = 8 voxels
	n := int32(1) << c.Lg()
	for i := int32(0); i < n; i++ {
		for j := int32(0); j < n; j++ {
			for k := int32(0); k < n; k++ {
				require.NoError(t, c.Set(uint32(i), uint32(j), uint32(k), 42))
			}
		}
	}
	assert.True(t, c.TryCollapse())
	assert.True(t, c.IsFill())
	assert.Equal(t, int32(42), c.FillValue())
}

func TestCellTryCollapseFailsOnNonUniform(t *testing.T) {
	c := NewCell[int32](1, 0)
	require.NoError(t, c.Set(0, 0, 0, 1))
	require.NoError(t, c.Set(1, 0, 0, 2))
	assert.False(t, c.TryCollapse())
}

func TestCellFillAndClear(t *testing.T) {
	c := NewCell[int32](1, 0)
	require.NoError(t, c.Set(0, 0, 0, 1))
	c.Fill(9)
	assert.True(t, c.IsFill())
	assert.Equal(t, int32(9), c.FillValue())
	it := c.SetIterator()
	count := 0
	for it.Valid() {
		assert.Equal(t, int32(9), it.Value())
		count++
		it.Advance()
	}
	assert.Equal(t, 8, count, "a filled cell must iterate as fully dense")

	c.Clear()
	assert.True(t, c.IsFill())
	it2 := c.SetIterator()
	assert.False(t, it2.Valid(), "a cleared cell must iterate as empty")
}

func TestCellUpdateCombinesWithCurrent(t *testing.T) {
	c := NewCell[int32](2, 0)
	require.NoError(t, c.Update(1, 1, 1, 5, PolicyAdd[int32]))
	require.NoError(t, c.Update(1, 1, 1, 3, PolicyAdd[int32]))
	v, err := c.Get(1, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(8), v)
}

func TestCellSetIteratorYieldsOnlySetBits(t *testing.T) {
	c := NewCell[int32](2, 0)
	require.NoError(t, c.Set(0, 0, 0, 1))
	require.NoError(t, c.Set(3, 3, 3, 2))
	it := c.SetIterator()
	var seen [][3]uint32
	for it.Valid() {
		i, j, k := it.Coordinates()
		seen = append(seen, [3]uint32{i, j, k})
		it.Advance()
	}
	require.Len(t, seen, 2)
	assert.Equal(t, [3]uint32{0, 0, 0}, seen[0])
	assert.Equal(t, [3]uint32{3, 3, 3}, seen[1])
}
