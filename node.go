package hive

import (
	"github.com/nektarfx/hive/internal/bits3d"
	"github.com/nektarfx/hive/internal/sparse"
)

// treeNode is the tagged-variant interface a Node's children satisfy: a
// *Node[T] when depth > 1, a *Cell[T] when depth == 1. The tag itself is
// the node's depth field, not a type switch on every call — newChild() below
// is the only place depth decides which concrete type to allocate.
type treeNode[T Numeric] interface {
	Get(i, j, k uint32) (T, error)
	Set(i, j, k uint32, v T) error
	Update(i, j, k uint32, v T, combine Policy[T]) error
	IsFill() bool
	FillValue() T
	Fill(v T)
	TryCollapse() bool
}

// Node is an interior tree level with 2^lgNode children per side. Each
// present child is either another Node (depth > 1) or a Cell (depth == 1);
// a BitField3D tracks which child slots are present, and a sparse array
// keeps the owning child references in one-to-one correspondence with the
// set bits, in ascending bit order (invariant I1).
type Node[T Numeric] struct {
	lgNode    uint
	lgCell    uint
	depth     int
	fillValue T
	bits      bits3d.BitField3D
	children  sparse.Array[treeNode[T]]
}

// NewNode constructs a node in fill state: no child storage allocated.
func NewNode[T Numeric](lgNode, lgCell uint, depth int, fill T) *Node[T] {
	return &Node[T]{
		lgNode:    lgNode,
		lgCell:    lgCell,
		depth:     depth,
		fillValue: fill,
		bits:      bits3d.NewBitField3D(lgNode),
	}
}

// IsFill reports whether the node has zero child storage. An expanded node
// with every slot still absent is observationally identical to fill state
// (every read falls through to fillValue either way), so there is no
// separate "expanded but empty" flag to track.
func (n *Node[T]) IsFill() bool { return n.children.Len() == 0 }

// FillValue returns the node's current fill value.
func (n *Node[T]) FillValue() T { return n.fillValue }

// Fill forces fill state with a new value, releasing all child storage.
func (n *Node[T]) Fill(v T) {
	n.fillValue = v
	n.children.Clear()
	n.bits.ClearAll()
}

// ComputeChildDim returns the voxel side length of one child subtree:
// 2^lgCell when this node's children are Cells (depth == 1), or the full
// voxel side of a depth-1 child subtree otherwise — defined recursively as
// 2^lgNode times the grandchild dimension, which collapses to the closed
// form below since lgCell and lgNode are uniform across the tree.
func (n *Node[T]) ComputeChildDim() uint64 {
	if n.depth == 1 {
		return uint64(1) << n.lgCell
	}
	return uint64(1) << (n.lgCell + uint(n.depth-1)*n.lgNode)
}

// voxelDim returns this node's own total voxel side length.
func (n *Node[T]) voxelDim() uint64 {
	return n.ComputeChildDim() << n.lgNode
}

// ComputeSetBounds returns the unsigned index bounds [0, voxelDim) spanned
// by this node, used to enumerate a collapsed fill subtree with a
// FilledBoundsIterator as though it were dense.
func (n *Node[T]) ComputeSetBounds() bits3d.Bounds3D {
	return bits3d.Bounds3D{Side: n.voxelDim()}
}

func (n *Node[T]) childSlot(i, j, k uint32) (si, sj, sk uint32) {
	d := uint32(n.ComputeChildDim())
	return i / d, j / d, k / d
}

func (n *Node[T]) childLocal(i, j, k uint32) (li, lj, lk uint32) {
	d := uint32(n.ComputeChildDim())
	return i % d, j % d, k % d
}

func (n *Node[T]) checkCoord(i, j, k uint32) error {
	side := uint32(n.voxelDim())
	if i >= side || j >= side || k >= side {
		return newErr(KindInvalidIndex, "node coordinate (%d,%d,%d) out of range for side %d", i, j, k, side)
	}
	return nil
}

// newChild allocates a fresh child in fill state, inheriting this node's
// current fill value so reads through the untouched subtree still return
// the right background.
func (n *Node[T]) newChild() treeNode[T] {
	if n.depth == 1 {
		return NewCell[T](n.lgCell, n.fillValue)
	}
	return NewNode[T](n.lgNode, n.lgCell, n.depth-1, n.fillValue)
}

// Get returns the value at (i,j,k) relative to this node's origin.
func (n *Node[T]) Get(i, j, k uint32) (T, error) {
	if err := n.checkCoord(i, j, k); err != nil {
		return n.fillValue, err
	}
	if n.IsFill() {
		return n.fillValue, nil
	}
	si, sj, sk := n.childSlot(i, j, k)
	idx := bits3d.LinearIndex(si, sj, sk, n.lgNode)
	if !n.bits.Test(idx) {
		return n.fillValue, nil
	}
	child := n.children.At(n.bits.Rank0(idx))
	li, lj, lk := n.childLocal(i, j, k)
	return child.Get(li, lj, lk)
}

// Set stores v at (i,j,k), materialising children on demand and
// re-collapsing on exit when the write made this subtree uniform again.
func (n *Node[T]) Set(i, j, k uint32, v T) error {
	if err := n.checkCoord(i, j, k); err != nil {
		return err
	}
	if n.IsFill() && v == n.fillValue {
		return nil
	}

	si, sj, sk := n.childSlot(i, j, k)
	idx := bits3d.LinearIndex(si, sj, sk, n.lgNode)
	li, lj, lk := n.childLocal(i, j, k)

	if !n.bits.Test(idx) {
		if v == n.fillValue {
			// The targeted slot is absent (reads as n.fillValue already)
			// and the write doesn't change that: materialising an empty
			// child here would only add a wasted, still-fill present
			// child for TryCollapse to undo later.
			return nil
		}
		rank := n.bits.PopcountUpTo(idx)
		n.bits.Set(idx)
		n.children.InsertAt(rank, n.newChild())
	}
	rank := n.bits.Rank0(idx)
	child := n.children.At(rank)
	if err := child.Set(li, lj, lk, v); err != nil {
		return err
	}
	child.TryCollapse()
	if child.IsFill() && child.FillValue() == n.fillValue {
		// The child collapsed back to exactly this node's own background
		// value: it now reads identically to an absent slot, so keeping it
		// present would be the same wasted, still-fill child the early
		// return above avoids creating in the first place.
		n.children.DeleteAt(rank)
		n.bits.Clear(idx)
	}
	n.TryCollapse()
	return nil
}

// Update sets (i,j,k) to combine(current, v).
func (n *Node[T]) Update(i, j, k uint32, v T, combine Policy[T]) error {
	cur, err := n.Get(i, j, k)
	if err != nil {
		return err
	}
	return n.Set(i, j, k, combine(cur, v))
}

// TryCollapse transitions back to fill state if every child slot is
// present, every child is itself in fill state, and all of them share the
// same fill value. Returns true if a collapse happened.
func (n *Node[T]) TryCollapse() bool {
	if n.IsFill() {
		return false
	}
	total := bits3d.NumBits3D(n.lgNode)
	if uint64(n.children.Len()) != total {
		return false
	}
	first := n.children.At(0)
	if !first.IsFill() {
		return false
	}
	v := first.FillValue()
	for i := 1; i < n.children.Len(); i++ {
		c := n.children.At(i)
		if !c.IsFill() || c.FillValue() != v {
			return false
		}
	}
	n.Fill(v)
	return true
}

// NodeSetIterator visits a node's present child slots in ascending bit
// order. It is not itself a value iterator: it exposes the current slot's
// local coordinates and a reference to the child Node or Cell, for the
// stacked SetIterator to descend into.
type NodeSetIterator[T Numeric] struct {
	node *Node[T]
	it   *bits3d.SetIter
	rank int
}

// BranchIterator returns a NodeSetIterator over this node's present children.
func (n *Node[T]) BranchIterator() *NodeSetIterator[T] {
	return &NodeSetIterator[T]{node: n, it: n.bits.SetIterator(0)}
}

// Valid reports whether the iterator is positioned on a present child.
func (it *NodeSetIterator[T]) Valid() bool { return it.it.Valid() }

// Advance moves to the next present child slot.
func (it *NodeSetIterator[T]) Advance() {
	it.it.Advance()
	it.rank++
}

// SlotCoords returns the current child slot's coordinates, in units of
// ComputeChildDim() relative to this node's origin.
func (it *NodeSetIterator[T]) SlotCoords() (i, j, k uint32) {
	return it.it.Coordinates()
}

// ChildDim returns the voxel side length of one child, for translating
// SlotCoords into a voxel-space origin.
func (it *NodeSetIterator[T]) ChildDim() uint64 {
	return it.node.ComputeChildDim()
}

// Child returns the current slot's child reference.
func (it *NodeSetIterator[T]) Child() treeNode[T] {
	return it.node.children.At(it.rank)
}

// Depth returns the depth of the node being iterated (children are Cells
// when Depth() == 1).
func (it *NodeSetIterator[T]) Depth() int { return it.node.depth }
