package bits3d

import "math/bits"

const wordSize = 64

// BitField3D is a fixed-size 3D bit array of logical shape 2^L x 2^L x 2^L,
// backed by a packed []uint64 word buffer. Bits are addressed by the linear
// index L(i,j,k) = i + (j<<L) + (k<<2L).
type BitField3D struct {
	lg    uint
	words []uint64
}

// NewBitField3D allocates a cleared bitfield for a cube of side 2^lg.
func NewBitField3D(lg uint) BitField3D {
	n := NumBits3D(lg)
	nwords := (n + wordSize - 1) / wordSize
	return BitField3D{lg: lg, words: make([]uint64, nwords)}
}

// Lg returns the log2 cube-side this bitfield was built for.
func (b *BitField3D) Lg() uint { return b.lg }

// Words exposes the packed word buffer directly, for bulk encode/decode by
// the persistence layer. Mutating the returned slice's contents (not its
// length) is safe; replacing the slice header is not.
func (b *BitField3D) Words() []uint64 { return b.words }

// Len returns the number of addressable bits (2^(3*lg)).
func (b *BitField3D) Len() uint64 { return NumBits3D(b.lg) }

func wordBit(idx uint64) (word int, bit uint) {
	return int(idx / wordSize), uint(idx % wordSize)
}

// Test reports whether the bit at linear index idx is set.
func (b *BitField3D) Test(idx uint64) bool {
	w, bit := wordBit(idx)
	return b.words[w]&(uint64(1)<<bit) != 0
}

// TestCoord reports whether voxel (i,j,k) is set.
func (b *BitField3D) TestCoord(i, j, k uint32) bool {
	return b.Test(LinearIndex(i, j, k, b.lg))
}

// Set marks the bit at linear index idx.
func (b *BitField3D) Set(idx uint64) {
	w, bit := wordBit(idx)
	b.words[w] |= uint64(1) << bit
}

// SetCoord marks voxel (i,j,k).
func (b *BitField3D) SetCoord(i, j, k uint32) {
	b.Set(LinearIndex(i, j, k, b.lg))
}

// Clear unmarks the bit at linear index idx.
func (b *BitField3D) Clear(idx uint64) {
	w, bit := wordBit(idx)
	b.words[w] &^= uint64(1) << bit
}

// ClearCoord unmarks voxel (i,j,k).
func (b *BitField3D) ClearCoord(i, j, k uint32) {
	b.Clear(LinearIndex(i, j, k, b.lg))
}

// FillAll sets every bit.
func (b *BitField3D) FillAll() {
	for i := range b.words {
		b.words[i] = ^uint64(0)
	}
	b.maskTail()
}

// ClearAll clears every bit.
func (b *BitField3D) ClearAll() {
	for i := range b.words {
		b.words[i] = 0
	}
}

// maskTail zeroes any bits beyond Len() in the final word, so IsAllSet and
// Popcount are correct when Len() is not a multiple of the word size.
func (b *BitField3D) maskTail() {
	n := b.Len()
	total := uint64(len(b.words)) * wordSize
	if n == total {
		return
	}
	rem := n % wordSize
	if rem == 0 {
		return
	}
	b.words[len(b.words)-1] &= uint64(1)<<rem - 1
}

// IsAnySet reports whether at least one bit is set.
func (b *BitField3D) IsAnySet() bool {
	for _, w := range b.words {
		if w != 0 {
			return true
		}
	}
	return false
}

// IsNoneSet reports whether no bit is set.
func (b *BitField3D) IsNoneSet() bool {
	return !b.IsAnySet()
}

// IsAllSet reports whether every addressable bit is set.
func (b *BitField3D) IsAllSet() bool {
	n := b.Len()
	full := n / wordSize
	for i := uint64(0); i < full; i++ {
		if b.words[i] != ^uint64(0) {
			return false
		}
	}
	rem := n % wordSize
	if rem == 0 {
		return true
	}
	want := uint64(1)<<rem - 1
	return b.words[full]&want == want
}

// Popcount returns the total number of set bits.
func (b *BitField3D) Popcount() int {
	n := 0
	for _, w := range b.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// PopcountUpTo returns the number of set bits at linear index < idx.
func (b *BitField3D) PopcountUpTo(idx uint64) int {
	w, bit := wordBit(idx)
	n := 0
	for i := 0; i < w; i++ {
		n += bits.OnesCount64(b.words[i])
	}
	if bit > 0 {
		n += bits.OnesCount64(b.words[w] & (uint64(1)<<bit - 1))
	}
	return n
}

// Rank0 returns the dense-array position of a set bit: the number of set
// bits strictly before idx. Callers must only use this when Test(idx) is
// true (mirrors the sparse-array Rank0 convention used by Node's child
// list).
func (b *BitField3D) Rank0(idx uint64) int {
	return b.PopcountUpTo(idx)
}

// SetIter is a forward iterator over the ascending linear indices of set
// bits, skipping whole zero words so advancing past a multi-word gap stays
// proportional to the words skipped rather than the bits skipped.
type SetIter struct {
	b    *BitField3D
	word int
	bits uint64 // not-yet-reported set bits of the current word, at their original positions
	idx  uint64 // linear index of the current set bit
	ok   bool
}

// SetIterator returns a set-iterator positioned at the first set bit with
// linear index >= start.
func (b *BitField3D) SetIterator(start uint64) *SetIter {
	it := &SetIter{b: b}
	it.seek(start)
	return it
}

func (it *SetIter) seek(start uint64) {
	w, bit := wordBit(start)
	if w >= len(it.b.words) {
		it.ok = false
		return
	}
	word := it.b.words[w] &^ (uint64(1)<<bit - 1)
	if word != 0 {
		it.word = w
		it.bits = word
		it.idx = uint64(w)*wordSize + uint64(bits.TrailingZeros64(word))
		it.ok = true
		return
	}
	for w++; w < len(it.b.words); w++ {
		if it.b.words[w] != 0 {
			it.word = w
			it.bits = it.b.words[w]
			it.idx = uint64(w)*wordSize + uint64(bits.TrailingZeros64(it.b.words[w]))
			it.ok = true
			return
		}
	}
	it.ok = false
}

// Valid reports whether the iterator is positioned on a set bit.
func (it *SetIter) Valid() bool { return it.ok }

// Index returns the linear index of the current set bit. Valid() must be true.
func (it *SetIter) Index() uint64 { return it.idx }

// Coordinates decomposes the current linear index back into (i,j,k).
func (it *SetIter) Coordinates() (i, j, k uint32) {
	return CoordsFromLinear(it.idx, it.b.lg)
}

// Advance moves to the next set bit in ascending order.
func (it *SetIter) Advance() {
	if !it.ok {
		return
	}
	// clear the bit we just reported and look for the next one in this word
	it.bits &= it.bits - 1
	if it.bits != 0 {
		it.idx = uint64(it.word)*wordSize + uint64(bits.TrailingZeros64(it.bits))
		return
	}
	for w := it.word + 1; w < len(it.b.words); w++ {
		if it.b.words[w] != 0 {
			it.word = w
			it.bits = it.b.words[w]
			it.idx = uint64(w)*wordSize + uint64(bits.TrailingZeros64(it.bits))
			return
		}
	}
	it.ok = false
}
