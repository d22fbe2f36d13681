package hive

import "github.com/nektarfx/hive/internal/bits3d"

// Cell is a dense leaf covering 2^lg voxels per side. It starts, and can
// collapse back to, a fill state in which no array is allocated and every
// voxel reads as fillValue; the expanded state allocates a full dense array
// sized exactly 2^(3*lg) plus a bitfield marking which positions have been
// explicitly set since the last collapse.
//
// Per spec.md's adopted fill-bit convention: all-bits-set means the cell is
// observably a uniformly-occupied fill cube (iterates as dense), all-bits-
// clear means the cell is empty (iterates as nothing). Both read every
// voxel as fillValue; only iteration behavior differs.
type Cell[T Numeric] struct {
	lg        uint
	fillValue T
	bits      bits3d.BitField3D
	arr       []T // nil in fill state
}

// NewCell constructs a cell in fill state (bitfield all-zero, i.e. empty).
func NewCell[T Numeric](lg uint, fill T) *Cell[T] {
	return &Cell[T]{lg: lg, fillValue: fill, bits: bits3d.NewBitField3D(lg)}
}

// Lg returns this cell's log2 side length.
func (c *Cell[T]) Lg() uint { return c.lg }

// IsFill reports whether the cell has no allocated dense array.
func (c *Cell[T]) IsFill() bool { return c.arr == nil }

// FillValue returns the cell's current fill value.
func (c *Cell[T]) FillValue() T { return c.fillValue }

func (c *Cell[T]) checkCoord(i, j, k uint32) error {
	n := uint32(1) << c.lg
	if i >= n || j >= n || k >= n {
		return newErr(KindInvalidIndex, "cell coordinate (%d,%d,%d) out of range for side %d", i, j, k, n)
	}
	return nil
}

// Get returns the value at (i,j,k): the array slot when expanded and set,
// otherwise the fill value.
func (c *Cell[T]) Get(i, j, k uint32) (T, error) {
	if err := c.checkCoord(i, j, k); err != nil {
		return c.fillValue, err
	}
	return c.getUnchecked(i, j, k), nil
}

func (c *Cell[T]) getUnchecked(i, j, k uint32) T {
	idx := bits3d.LinearIndex(i, j, k, c.lg)
	if c.arr != nil && c.bits.Test(idx) {
		return c.arr[idx]
	}
	return c.fillValue
}

// expand allocates the dense array, initialising every slot to the current
// fill value, and leaves the bitfield as it was (all-zero or all-one), so
// the cell still reads and iterates identically to its former fill state
// until a write changes a slot.
func (c *Cell[T]) expand() {
	n := bits3d.NumBits3D(c.lg)
	c.arr = make([]T, n)
	for i := range c.arr {
		c.arr[i] = c.fillValue
	}
}

// Set stores v at (i,j,k), expanding out of fill state if necessary.
func (c *Cell[T]) Set(i, j, k uint32, v T) error {
	if err := c.checkCoord(i, j, k); err != nil {
		return err
	}
	idx := bits3d.LinearIndex(i, j, k, c.lg)
	if c.IsFill() {
		if v == c.fillValue {
			// Writing the background value over an untouched or
			// already-collapsed cell changes nothing observable: the
			// bitfield must stay all-zero or all-one in fill state (I3),
			// so this is a no-op rather than a partial bit flip.
			return nil
		}
		c.expand()
	}
	c.arr[idx] = v
	c.bits.Set(idx)
	return nil
}

// Update sets (i,j,k) to combine(current, v), where current is the
// currently stored value (or the fill value if unset).
func (c *Cell[T]) Update(i, j, k uint32, v T, combine Policy[T]) error {
	if err := c.checkCoord(i, j, k); err != nil {
		return err
	}
	current := c.getUnchecked(i, j, k)
	return c.Set(i, j, k, combine(current, v))
}

// Unset clears the bit at (i,j,k); the slot reads as fillValue again, the
// array slot itself is left untouched.
func (c *Cell[T]) Unset(i, j, k uint32) error {
	if err := c.checkCoord(i, j, k); err != nil {
		return err
	}
	c.bits.Clear(bits3d.LinearIndex(i, j, k, c.lg))
	return nil
}

// Fill forces fill state with a new fill value: deallocates the array and
// sets every bit, so the whole cell iterates as a dense cube of v.
func (c *Cell[T]) Fill(v T) {
	c.fillValue = v
	c.arr = nil
	c.bits.FillAll()
}

// Clear resets to fill state with the current fill value and clears every
// bit, so the cell iterates as empty.
func (c *Cell[T]) Clear() {
	c.arr = nil
	c.bits.ClearAll()
}

// TryCollapse transitions an expanded cell back to fill state if every
// array slot equals a single value v and every bit agrees (all-zero or
// all-one), or if every set position holds the current fill value (the
// cell then collapses to an empty fill cell). Returns true if a collapse
// happened.
func (c *Cell[T]) TryCollapse() bool {
	if c.IsFill() {
		return false
	}
	switch {
	case c.bits.IsNoneSet():
		// Every position already falls through to c.fillValue via Get's
		// bit test; no array comparison needed.
		c.arr = nil
		c.bits.ClearAll()
		return true
	case c.bits.IsAllSet():
		v := c.arr[0]
		for _, x := range c.arr[1:] {
			if x != v {
				return false
			}
		}
		c.fillValue = v
		c.arr = nil
		c.bits.FillAll()
		return true
	default:
		// Partially set: collapsible only when every set position holds
		// the fill value, since every voxel then reads as c.fillValue.
		for it := c.bits.SetIterator(0); it.Valid(); it.Advance() {
			if c.arr[it.Index()] != c.fillValue {
				return false
			}
		}
		c.arr = nil
		c.bits.ClearAll()
		return true
	}
}

// CellSetIterator wraps the cell's bitfield set-iterator, yielding
// (local i,j,k, value) tuples where value is read from the array in
// expanded state or is the fill value in fill state.
type CellSetIterator[T Numeric] struct {
	cell *Cell[T]
	it   *bits3d.SetIter
}

// SetIterator returns a value iterator over this cell's set voxels.
func (c *Cell[T]) SetIterator() *CellSetIterator[T] {
	return &CellSetIterator[T]{cell: c, it: c.bits.SetIterator(0)}
}

// Valid reports whether the iterator is positioned on a set voxel.
func (it *CellSetIterator[T]) Valid() bool { return it.it.Valid() }

// Advance moves to the next set voxel in ascending linear order.
func (it *CellSetIterator[T]) Advance() { it.it.Advance() }

// Coordinates returns the current voxel's cell-local coordinates.
func (it *CellSetIterator[T]) Coordinates() (i, j, k uint32) {
	return it.it.Coordinates()
}

// Value returns the current voxel's value.
func (it *CellSetIterator[T]) Value() T {
	if it.cell.IsFill() {
		return it.cell.fillValue
	}
	return it.cell.arr[it.it.Index()]
}
