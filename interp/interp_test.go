package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nektarfx/hive"
	"github.com/nektarfx/hive/xform"
)

func newTestVolume() *hive.Volume[float64] {
	return hive.NewVolume[float64](2, 2, 2, 0, xform.Identity())
}

func TestNearestNeighborSplatWritesContainingVoxel(t *testing.T) {
	v := newTestVolume()
	s := NewNearestNeighborSplat[float64](v, hive.PolicySet[float64])
	require.NoError(t, s.Splat(2.3, 4.9, -0.1, 10))
	got, err := v.Get(2, 4, -1)
	require.NoError(t, err)
	assert.Equal(t, 10.0, got)
}

func TestLinearSplatAtVoxelCenterPutsAllWeightOnOneVoxel(t *testing.T) {
	v := newTestVolume()
	s := NewLinearSplat[float64](v, hive.PolicySet[float64])
	// voxel (1,1,1)'s center sits at (1.5,1.5,1.5)
	require.NoError(t, s.Splat(1.5, 1.5, 1.5, 8))
	got, err := v.Get(1, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 8.0, got)

	neighbor, err := v.Get(2, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, neighbor)
}

func TestLinearSplatAtSharedCornerDistributesEighths(t *testing.T) {
	v := newTestVolume()
	s := NewLinearSplat[float64](v, hive.PolicyAdd[float64])
	// (1,1,1) is the corner shared by the 8 voxels [0,1)x[0,1)x[0,1) through
	// [1,2)x[1,2)x[1,2); each receives weight 0.5 per axis = 0.125 total.
	require.NoError(t, s.Splat(1, 1, 1, 1))
	for i := int32(0); i < 2; i++ {
		for j := int32(0); j < 2; j++ {
			for k := int32(0); k < 2; k++ {
				got, err := v.Get(i, j, k)
				require.NoError(t, err)
				assert.InDelta(t, 0.125, got, 1e-12, "voxel (%d,%d,%d)", i, j, k)
			}
		}
	}
}

func TestLinearInterpolationWeightSumIsOne(t *testing.T) {
	v := newTestVolume()
	require.NoError(t, v.Set(0, 0, 0, 1))
	require.NoError(t, v.Set(1, 0, 0, 1))
	require.NoError(t, v.Set(0, 1, 0, 1))
	require.NoError(t, v.Set(1, 1, 0, 1))
	require.NoError(t, v.Set(0, 0, 1, 1))
	require.NoError(t, v.Set(1, 0, 1, 1))
	require.NoError(t, v.Set(0, 1, 1, 1))
	require.NoError(t, v.Set(1, 1, 1, 1))

	interp := NewLinearInterpolation[float64](v)
	got, err := interp.Interpolate(1.0, 1.0, 1.0)
	require.NoError(t, err)
	// every surrounding voxel holds 1, so any convex weighting over them
	// must also read back exactly 1 (weights sum to 1 by construction).
	assert.InDelta(t, 1.0, got, 1e-12)
}

func TestLinearInterpolationAtVoxelCenterReturnsStoredValue(t *testing.T) {
	v := newTestVolume()
	require.NoError(t, v.Set(0, 0, 0, 4))
	interp := NewLinearInterpolation[float64](v)
	got, err := interp.Interpolate(0.5, 0.5, 0.5)
	require.NoError(t, err)
	// (0.5,0.5,0.5) is voxel (0,0,0)'s exact center: full weight, no blend.
	assert.InDelta(t, 4.0, got, 1e-12)
}

func TestCubicInterpolationAtVoxelCenterReturnsStoredValue(t *testing.T) {
	v := newTestVolume()
	require.NoError(t, v.Set(5, 5, 5, 3.0))
	require.NoError(t, v.Set(4, 5, 5, 9.0))
	require.NoError(t, v.Set(6, 5, 5, 9.0))

	c := NewCubicInterpolation[float64](v)
	// voxel (5,5,5)'s center sits at the half-integer coordinate 5.5 on
	// every axis; sampling exactly there must return its stored value
	// regardless of its neighbours, since t lands on 0 on each axis
	// (Catmull-Rom's H(0) returns p1 exactly).
	got, err := c.Interpolate(5.5, 5.5, 5.5)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, got, 1e-9)
}

func TestCubicInterpolationWithBasisSwapsKernel(t *testing.T) {
	v := newTestVolume()
	require.NoError(t, v.Set(0, 0, 0, 1))
	calls := 0
	identityBasis := func(t, p0, p1, p2, p3 float64) float64 {
		calls++
		return p1
	}
	c := NewCubicInterpolation[float64](v).WithBasis(identityBasis)
	_, err := c.Interpolate(0, 0, 0)
	require.NoError(t, err)
	assert.Greater(t, calls, 0, "WithBasis must actually replace the kernel used during interpolation")
}
