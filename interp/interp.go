// Package interp implements the sampling kernels that read and write a
// Volume at continuous voxel coordinates: nearest-neighbour and trilinear
// splatting with a pluggable combine policy, and trilinear and tricubic
// interpolation for reads; there is no nearest-neighbour read kernel.
// Every kernel operates in
// voxel coordinates; callers pre-compose with a Volume's LocalXform to
// convert from local coordinates first.
package interp

import (
	"math"

	"github.com/nektarfx/hive"
	"github.com/nektarfx/hive/xform"
)

func toCalc[T hive.Numeric](v T) float64 { return float64(v) }
func fromCalc[T hive.Numeric](v float64) T { return T(v) }

// NearestNeighborSplat writes a value to the single voxel containing
// (x,y,z), merging with the existing value via policy.
type NearestNeighborSplat[T hive.Numeric] struct {
	vol    *hive.Volume[T]
	policy hive.Policy[T]
}

// NewNearestNeighborSplat builds a nearest-neighbour splat kernel bound to
// vol and policy.
func NewNearestNeighborSplat[T hive.Numeric](vol *hive.Volume[T], policy hive.Policy[T]) *NearestNeighborSplat[T] {
	return &NearestNeighborSplat[T]{vol: vol, policy: policy}
}

// Splat updates the voxel containing (x,y,z) with combine(current, v).
func (s *NearestNeighborSplat[T]) Splat(x, y, z float64, v T) error {
	i, j, k := xform.VoxelToIndex(x, y, z)
	return s.vol.Update(i, j, k, v, s.policy)
}

// LinearSplat distributes a value across the eight voxels surrounding
// (x,y,z) by trilinear weight, merging each contribution with the existing
// value via policy.
type LinearSplat[T hive.Numeric] struct {
	vol    *hive.Volume[T]
	policy hive.Policy[T]
}

// NewLinearSplat builds a trilinear splat kernel bound to vol and policy.
func NewLinearSplat[T hive.Numeric](vol *hive.Volume[T], policy hive.Policy[T]) *LinearSplat[T] {
	return &LinearSplat[T]{vol: vol, policy: policy}
}

// Splat distributes v across the eight surrounding voxels. Voxel centers
// sit at half-integer offsets, so the surrounding pair on each axis starts
// at floor(coordinate - 0.5); the weight toward the upper voxel of the pair
// is the coordinate's offset from the lower voxel's center.
func (s *LinearSplat[T]) Splat(x, y, z float64, v T) error {
	minI := int32(math.Floor(x - 0.5))
	minJ := int32(math.Floor(y - 0.5))
	minK := int32(math.Floor(z - 0.5))
	wx := x - (float64(minI) + 0.5)
	wy := y - (float64(minJ) + 0.5)
	wz := z - (float64(minK) + 0.5)
	val := toCalc(v)

	for di := int32(0); di < 2; di++ {
		wi := weightOf(di, wx)
		for dj := int32(0); dj < 2; dj++ {
			wj := weightOf(dj, wy)
			for dk := int32(0); dk < 2; dk++ {
				wk := weightOf(dk, wz)
				weight := wi * wj * wk
				if weight == 0 {
					continue
				}
				contribution := fromCalc[T](weight * val)
				if err := s.vol.Update(minI+di, minJ+dj, minK+dk, contribution, s.policy); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func weightOf(d int32, w float64) float64 {
	if d == 0 {
		return 1 - w
	}
	return w
}

// LinearInterpolation reads a trilinearly-blended value at a continuous
// voxel coordinate from the eight voxels surrounding it, using the same
// corner layout and weights as LinearSplat.
type LinearInterpolation[T hive.Numeric] struct {
	vol *hive.Volume[T]
}

// NewLinearInterpolation builds a trilinear read kernel bound to vol.
func NewLinearInterpolation[T hive.Numeric](vol *hive.Volume[T]) *LinearInterpolation[T] {
	return &LinearInterpolation[T]{vol: vol}
}

// Interpolate returns the trilinearly-blended value at (x,y,z).
func (s *LinearInterpolation[T]) Interpolate(x, y, z float64) (T, error) {
	var zero T
	minI := int32(math.Floor(x - 0.5))
	minJ := int32(math.Floor(y - 0.5))
	minK := int32(math.Floor(z - 0.5))
	wx := x - (float64(minI) + 0.5)
	wy := y - (float64(minJ) + 0.5)
	wz := z - (float64(minK) + 0.5)

	var acc float64
	for di := int32(0); di < 2; di++ {
		wi := weightOf(di, wx)
		if wi == 0 {
			continue
		}
		for dj := int32(0); dj < 2; dj++ {
			wj := weightOf(dj, wy)
			if wj == 0 {
				continue
			}
			for dk := int32(0); dk < 2; dk++ {
				wk := weightOf(dk, wz)
				weight := wi * wj * wk
				if weight == 0 {
					continue
				}
				v, err := s.vol.Get(minI+di, minJ+dj, minK+dk)
				if err != nil {
					return zero, err
				}
				acc += weight * toCalc(v)
			}
		}
	}
	return fromCalc[T](acc), nil
}

