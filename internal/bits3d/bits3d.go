// Package bits3d provides the bit-index primitives shared by Cell and Node:
// linear<->3D index conversion over 2^L cubes, population count, quadrant
// routing for the signed octree, and the packed BitField3D occupancy array.
package bits3d

import "math/bits"

// NumBits3D returns the number of voxels in a cube of side 2^lg, i.e. 2^(3*lg).
func NumBits3D(lg uint) uint64 {
	return uint64(1) << (3 * lg)
}

// LinearIndex maps a 3D coordinate inside a 2^lg cube to its linear bit
// position: i + (j << lg) + (k << 2*lg).
func LinearIndex(i, j, k uint32, lg uint) uint64 {
	return uint64(i) | uint64(j)<<lg | uint64(k)<<(2*lg)
}

// CoordsFromLinear is the inverse of LinearIndex.
func CoordsFromLinear(idx uint64, lg uint) (i, j, k uint32) {
	mask := uint64(1)<<lg - 1
	i = uint32(idx & mask)
	j = uint32((idx >> lg) & mask)
	k = uint32(idx >> (2 * lg))
	return
}

// Popcount returns the number of set bits in w (SWAR Hamming weight via the
// standard library's hardware popcount).
func Popcount(w uint64) int {
	return bits.OnesCount64(w)
}

// FirstSetBitIndex returns the 1-based index of the least significant set
// bit, or 0 if w is zero.
func FirstSetBitIndex(w uint64) int {
	if w == 0 {
		return 0
	}
	return bits.TrailingZeros64(w) + 1
}

// LastSetBitIndex returns the 1-based index of the most significant set bit,
// or 0 if w is zero.
func LastSetBitIndex(w uint64) int {
	if w == 0 {
		return 0
	}
	return 64 - bits.LeadingZeros64(w)
}

// ModuloLg computes v & ((1<<lg)-1), i.e. v mod 2^lg.
func ModuloLg(v uint32, lg uint) uint32 {
	return v & (uint32(1)<<lg - 1)
}

// IsPow2 reports whether v is a power of two (v must be > 0).
func IsPow2(v uint64) bool {
	return v != 0 && v&(v-1) == 0
}

// RoundPow2 rounds v up to the smallest power of two that is >= v and
// >= 1<<p, so the result is never below 1<<p (mirrors the source's
// templated round-to-power-of-two helper used when sizing bitfields).
func RoundPow2(v uint64, p uint) uint64 {
	if v <= 1 {
		return 1 << p
	}
	n := uint64(1) << (64 - bits.LeadingZeros64(v-1))
	if n < uint64(1)<<p {
		return uint64(1) << p
	}
	return n
}

// AbsI32 returns the absolute value of a signed 32-bit integer, branchless.
func AbsI32(v int32) uint32 {
	mask := uint32(v >> 31)
	return (uint32(v) ^ mask) - mask
}

// Quadrant encodes the sign octant of a signed (i,j,k) triple: bit 2 is
// sign(i), bit 1 is sign(j), bit 0 is sign(k); a set bit means negative.
// The origin (0,0,0) is never negative on any axis and therefore always
// maps to quadrant 0.
func Quadrant(i, j, k int32) uint8 {
	var q uint8
	if i < 0 {
		q |= 4
	}
	if j < 0 {
		q |= 2
	}
	if k < 0 {
		q |= 1
	}
	return q
}

// QuadrantOffsets converts signed coordinates into the unsigned per-octant
// coordinate space for the given quadrant. Negative axes are offset by one
// before taking the absolute value, so that -1 maps to unsigned 0, -2 to 1,
// and so on; the origin (quadrant 0) passes through unchanged.
func QuadrantOffsets(i, j, k int32, q uint8) (ui, uj, uk uint32) {
	if q&4 != 0 {
		ui = AbsI32(i + 1)
	} else {
		ui = uint32(i)
	}
	if q&2 != 0 {
		uj = AbsI32(j + 1)
	} else {
		uj = uint32(j)
	}
	if q&1 != 0 {
		uk = AbsI32(k + 1)
	} else {
		uk = uint32(k)
	}
	return
}

// Bounds3D describes an axis-aligned cubic span of unsigned voxel
// coordinates: [Origin, Origin+Side) on every axis. It exists only to state
// FilledBoundsIterator's span and Node.ComputeSetBounds's result — a
// deliberately minimal stand-in for a general bounding-box type, which
// spec.md places out of core scope.
type Bounds3D struct {
	Origin [3]uint32
	Side   uint64
}

// QuadrantCoords is the inverse of QuadrantOffsets: given unsigned
// per-octant coordinates and the quadrant they belong to, recover the
// signed world coordinates.
func QuadrantCoords(ui, uj, uk uint32, q uint8) (i, j, k int32) {
	i = int32(ui)
	j = int32(uj)
	k = int32(uk)
	if q&4 != 0 {
		i = -i - 1
	}
	if q&2 != 0 {
		j = -j - 1
	}
	if q&1 != 0 {
		k = -k - 1
	}
	return
}
