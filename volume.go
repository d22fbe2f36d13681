package hive

import (
	"github.com/nektarfx/hive/internal/bits3d"
	"github.com/nektarfx/hive/xform"
)

// Volume is the outward-facing octree root: eight quadrant trees, one per
// sign octant of the signed index space, plus the background value shared
// by every root at construction, an element depth/fanout shape, and the
// local-to-voxel transform. Quadrant q encodes the sign of (i,j,k) as three
// bits; quadrant_offsets converts a signed coordinate into the unsigned
// coordinate space the quadrant's root Node understands.
type Volume[T Numeric] struct {
	roots     [8]*Node[T]
	fillValue T
	lgNode    uint
	lgCell    uint
	depth     int
	xf        xform.LocalXform
}

// NewVolume constructs a volume with all eight quadrants in fill state at
// the given background value. lgNode is the log2 fanout per Node level,
// lgCell the log2 side of a leaf Cell, and depth the number of Node levels
// above the Cell layer in each quadrant tree (depth == 1 means a root's
// direct children are Cells).
func NewVolume[T Numeric](lgNode, lgCell uint, depth int, fill T, xf xform.LocalXform) *Volume[T] {
	v := &Volume[T]{fillValue: fill, lgNode: lgNode, lgCell: lgCell, depth: depth, xf: xf}
	for q := range v.roots {
		v.roots[q] = NewNode[T](lgNode, lgCell, depth, fill)
	}
	return v
}

// FillValue returns the volume's background value.
func (v *Volume[T]) FillValue() T { return v.fillValue }

// LgNode returns the log2 fanout per Node level.
func (v *Volume[T]) LgNode() uint { return v.lgNode }

// LgCell returns the log2 side length of a leaf Cell.
func (v *Volume[T]) LgCell() uint { return v.lgCell }

// Depth returns the number of Node levels per quadrant tree.
func (v *Volume[T]) Depth() int { return v.depth }

// Xform returns the volume's local-to-voxel transform.
func (v *Volume[T]) Xform() xform.LocalXform { return v.xf }

// route splits a signed coordinate into the quadrant it belongs to and the
// unsigned coordinates its root Node understands. The origin (0,0,0) always
// routes to quadrant 0, since no axis is negative there (invariant I5).
func route(i, j, k int32) (q uint8, ui, uj, uk uint32) {
	q = bits3d.Quadrant(i, j, k)
	ui, uj, uk = bits3d.QuadrantOffsets(i, j, k, q)
	return
}

// Get returns the value at signed coordinate (i,j,k).
func (v *Volume[T]) Get(i, j, k int32) (T, error) {
	q, ui, uj, uk := route(i, j, k)
	return v.roots[q].Get(ui, uj, uk)
}

// Set stores val at signed coordinate (i,j,k).
func (v *Volume[T]) Set(i, j, k int32, val T) error {
	q, ui, uj, uk := route(i, j, k)
	return v.roots[q].Set(ui, uj, uk, val)
}

// Update stores combine(current, val) at signed coordinate (i,j,k).
func (v *Volume[T]) Update(i, j, k int32, val T, combine Policy[T]) error {
	q, ui, uj, uk := route(i, j, k)
	return v.roots[q].Update(ui, uj, uk, val, combine)
}

// LocalToVoxel delegates to the volume's LocalXform.
func (v *Volume[T]) LocalToVoxel(lx, ly, lz float64) (vx, vy, vz float64) {
	return v.xf.LocalToVoxel(lx, ly, lz)
}

// VoxelToLocal delegates to the volume's LocalXform.
func (v *Volume[T]) VoxelToLocal(vx, vy, vz float64) (lx, ly, lz float64) {
	return v.xf.VoxelToLocal(vx, vy, vz)
}

// VoxelToIndex floors continuous voxel coordinates to a signed integer
// index; it does not depend on the transform's resolutions.
func (v *Volume[T]) VoxelToIndex(vx, vy, vz float64) (i, j, k int32) {
	return xform.VoxelToIndex(vx, vy, vz)
}

// IndexToVoxel is the inverse of VoxelToIndex.
func (v *Volume[T]) IndexToVoxel(i, j, k int32) (vx, vy, vz float64) {
	return xform.IndexToVoxel(i, j, k)
}
