package hive

import (
	"math/bits"

	"github.com/nektarfx/hive/internal/bits3d"
)

// valueIterator is satisfied by any iterator that yields (coordinates,
// value) tuples: CellSetIterator and FilledBoundsIterator. It is the type
// that always sits on top of a SetIterator's stack.
type valueIterator[T Numeric] interface {
	Valid() bool
	Advance()
	Coordinates() (i, j, k uint32)
	Value() T
}

// FilledBoundsIterator enumerates every integer coordinate inside a cubic
// bounds in ascending linear order, yielding a single constant value. It
// stands in for an expanded Cell's bitfield iterator when descent reaches a
// fill-state Node subtree, which has no per-voxel bitfield of its own.
type FilledBoundsIterator[T Numeric] struct {
	origin [3]uint32
	lg     uint
	idx    uint64
	total  uint64
	value  T
}

// NewFilledBoundsIterator builds an iterator over b, where b.Side is always
// a power of two (every Node/Cell dimension in the tree is).
func NewFilledBoundsIterator[T Numeric](b bits3d.Bounds3D, value T) *FilledBoundsIterator[T] {
	lg := uint(bits.TrailingZeros64(b.Side))
	return &FilledBoundsIterator[T]{origin: b.Origin, lg: lg, total: bits3d.NumBits3D(lg), value: value}
}

// Valid reports whether the iterator still has positions left to yield.
func (it *FilledBoundsIterator[T]) Valid() bool { return it.idx < it.total }

// Advance moves to the next position in ascending linear order.
func (it *FilledBoundsIterator[T]) Advance() { it.idx++ }

// Coordinates returns the current position, translated by the bounds origin.
func (it *FilledBoundsIterator[T]) Coordinates() (i, j, k uint32) {
	li, lj, lk := bits3d.CoordsFromLinear(it.idx, it.lg)
	return it.origin[0] + li, it.origin[1] + lj, it.origin[2] + lk
}

// Value returns the constant fill value every position in the bounds shares.
func (it *FilledBoundsIterator[T]) Value() T { return it.value }

// branchFrame is one level of the SetIterator's descent stack: a
// NodeSetIterator paired with the unsigned world origin of the node it
// walks, so coordinates can be reconstructed by summation on the way down.
type branchFrame[T Numeric] struct {
	it     *NodeSetIterator[T]
	origin [3]uint32
}

// SetIterator is the user-visible stacked iterator over a Volume's non-
// default voxels. It is single-pass and forward-only; mutating the volume
// while an iterator is live invalidates it, per spec: the core never
// detects the violation.
type SetIterator[T Numeric] struct {
	roots     [8]*Node[T]
	q         uint8
	frames    []branchFrame[T]
	top       valueIterator[T]
	topOrigin [3]uint32
}

// SetIterator returns a stacked iterator over every explicitly non-default
// voxel in the volume, visited in ascending quadrant order and, within a
// quadrant, in ascending bitfield linear-index order at every level.
func (v *Volume[T]) SetIterator() *SetIterator[T] {
	it := &SetIterator[T]{roots: v.roots}
	it.repair()
	return it
}

// Valid reports whether the iterator is positioned on a tuple.
func (it *SetIterator[T]) Valid() bool { return it.top != nil }

// Coordinates returns the current tuple's signed world coordinates,
// recovered by summing slot origins down the stack with the value
// iterator's local coordinates and inverting the quadrant offset.
func (it *SetIterator[T]) Coordinates() (i, j, k int32) {
	li, lj, lk := it.top.Coordinates()
	ui := it.topOrigin[0] + li
	uj := it.topOrigin[1] + lj
	uk := it.topOrigin[2] + lk
	return bits3d.QuadrantCoords(ui, uj, uk, it.q)
}

// Value returns the current tuple's value.
func (it *SetIterator[T]) Value() T { return it.top.Value() }

// Advance moves to the next tuple, repairing the descent stack down to a
// fresh value iterator as needed.
func (it *SetIterator[T]) Advance() {
	if it.top == nil {
		return
	}
	it.top.Advance()
	if it.top.Valid() {
		return
	}
	it.top = nil
	if len(it.frames) > 0 {
		it.frames[len(it.frames)-1].it.Advance()
	}
	it.repair()
}

// advanceToNextRoot finds the next non-fill root at or after it.q and
// pushes its branch frame; leaves it.frames empty if none remain.
func (it *SetIterator[T]) advanceToNextRoot() {
	for int(it.q) < len(it.roots) {
		root := it.roots[it.q]
		if root != nil && !root.IsFill() {
			it.frames = append(it.frames, branchFrame[T]{it: root.BranchIterator(), origin: [3]uint32{}})
			return
		}
		it.q++
	}
}

// repair descends from the current stack state down to a fresh value
// iterator, popping exhausted frames and skipping empty children along the
// way, or clears the iterator entirely once every root is exhausted.
func (it *SetIterator[T]) repair() {
	for {
		if len(it.frames) == 0 {
			it.advanceToNextRoot()
			if len(it.frames) == 0 {
				it.top = nil
				return
			}
		}
		top := &it.frames[len(it.frames)-1]
		if !top.it.Valid() {
			it.frames = it.frames[:len(it.frames)-1]
			if len(it.frames) > 0 {
				it.frames[len(it.frames)-1].it.Advance()
			} else {
				it.q++
			}
			continue
		}

		si, sj, sk := top.it.SlotCoords()
		dim := uint32(top.it.ChildDim())
		childOrigin := [3]uint32{
			top.origin[0] + si*dim,
			top.origin[1] + sj*dim,
			top.origin[2] + sk*dim,
		}
		child := top.it.Child()

		if top.it.Depth() == 1 {
			cell := child.(*Cell[T])
			cit := cell.SetIterator()
			if !cit.Valid() {
				top.it.Advance()
				continue
			}
			it.top = cit
			it.topOrigin = childOrigin
			return
		}

		node := child.(*Node[T])
		if node.IsFill() {
			fb := NewFilledBoundsIterator(node.ComputeSetBounds(), node.FillValue())
			it.top = fb
			it.topOrigin = childOrigin
			return
		}
		it.frames = append(it.frames, branchFrame[T]{it: node.BranchIterator(), origin: childOrigin})
	}
}
