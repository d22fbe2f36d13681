// Package xform implements the per-axis local-to-voxel transform: a vector
// of positive voxel resolutions mapping continuous local coordinates onto
// continuous voxel coordinates, and voxel coordinates onto integer indices.
package xform

import (
	"encoding/binary"
	"io"
	"math"
)

// LocalXform holds the three positive per-axis voxel resolutions. local to
// voxel is a componentwise multiply; voxel to index is a componentwise
// floor; the inverses are componentwise divide and an integer-to-real cast.
type LocalXform struct {
	rx, ry, rz float64
}

// New constructs a LocalXform from its three per-axis resolutions. Panics
// if any resolution is not strictly positive, matching the source's
// constructor precondition.
func New(rx, ry, rz float64) LocalXform {
	if rx <= 0 || ry <= 0 || rz <= 0 {
		panic("xform: resolutions must be strictly positive")
	}
	return LocalXform{rx: rx, ry: ry, rz: rz}
}

// Identity returns a LocalXform with unit resolution on every axis.
func Identity() LocalXform { return LocalXform{rx: 1, ry: 1, rz: 1} }

// Res returns the three per-axis resolutions.
func (x LocalXform) Res() (rx, ry, rz float64) { return x.rx, x.ry, x.rz }

// ResX returns the x-axis resolution.
func (x LocalXform) ResX() float64 { return x.rx }

// ResY returns the y-axis resolution.
func (x LocalXform) ResY() float64 { return x.ry }

// ResZ returns the z-axis resolution.
func (x LocalXform) ResZ() float64 { return x.rz }

// LocalToVoxel maps continuous local coordinates to continuous voxel
// coordinates: a componentwise multiply by the resolution vector.
func (x LocalXform) LocalToVoxel(lx, ly, lz float64) (vx, vy, vz float64) {
	return lx * x.rx, ly * x.ry, lz * x.rz
}

// VoxelToLocal is the inverse of LocalToVoxel: a componentwise divide.
func (x LocalXform) VoxelToLocal(vx, vy, vz float64) (lx, ly, lz float64) {
	return vx / x.rx, vy / x.ry, vz / x.rz
}

// VoxelToIndex floors continuous voxel coordinates down to the signed
// integer index of the voxel containing them.
func VoxelToIndex(vx, vy, vz float64) (i, j, k int32) {
	return int32(math.Floor(vx)), int32(math.Floor(vy)), int32(math.Floor(vz))
}

// IndexToVoxel is the inverse cast of VoxelToIndex: an integer index maps
// to the voxel coordinate of its minimum corner.
func IndexToVoxel(i, j, k int32) (vx, vy, vz float64) {
	return float64(i), float64(j), float64(k)
}

// Equal reports whether two transforms carry identical resolutions.
func (x LocalXform) Equal(o LocalXform) bool {
	return x.rx == o.rx && x.ry == o.ry && x.rz == o.rz
}

// WriteTo streams the transform as three big-endian float64 values, in
// declaration order (rx, ry, rz), with no framing — the flat concatenation
// the streaming interface describes for every value type.
func (x LocalXform) WriteTo(w io.Writer) (int64, error) {
	var buf [24]byte
	binary.BigEndian.PutUint64(buf[0:8], math.Float64bits(x.rx))
	binary.BigEndian.PutUint64(buf[8:16], math.Float64bits(x.ry))
	binary.BigEndian.PutUint64(buf[16:24], math.Float64bits(x.rz))
	n, err := w.Write(buf[:])
	return int64(n), err
}

// ReadFrom is the inverse of WriteTo.
func (x *LocalXform) ReadFrom(r io.Reader) (int64, error) {
	var buf [24]byte
	n, err := io.ReadFull(r, buf[:])
	if err != nil {
		return int64(n), err
	}
	x.rx = math.Float64frombits(binary.BigEndian.Uint64(buf[0:8]))
	x.ry = math.Float64frombits(binary.BigEndian.Uint64(buf[8:16]))
	x.rz = math.Float64frombits(binary.BigEndian.Uint64(buf[16:24]))
	return int64(n), nil
}
