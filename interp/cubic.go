package interp

import (
	"math"

	"github.com/nektarfx/hive"
)

// cubicStencilWidth is the number of samples the 1-D basis consumes per
// axis (p0..p3). It sizes the sample loops and the stencil's maxI; the
// window offsets in cubicAxisParams (the -1/-2 from the floor, the +1.5 to
// p1's center and the -2 in the t divisor) are written for this width and
// are not derived from it.
const cubicStencilWidth = 4

// Basis1D is a 1-D cubic interpolation kernel: given four consecutive
// samples p0..p3 and a fractional position t in [0,1) measuring where the
// query point falls within the [p1,p2] interval, it returns the blended
// value.
type Basis1D func(t, p0, p1, p2, p3 float64) float64

// CatmullRom1D is the default cubic Hermite basis: a Catmull-Rom spline
// through p1 and p2 with tangents estimated from p0 and p3.
func CatmullRom1D(t, p0, p1, p2, p3 float64) float64 {
	return p1 + 0.5*t*(p2-p0+t*(2*p0-5*p1+4*p2-p3+t*(3*(p1-p2)+p3-p0)))
}

// CubicInterpolation reads a tricubic-blended value at a continuous voxel
// coordinate from the 4x4x4 neighbourhood surrounding it: Basis1D applied
// along x (16 row blends), then y (4 plane blends over the row results),
// then z (1 final blend over the plane results).
type CubicInterpolation[T hive.Numeric] struct {
	vol   *hive.Volume[T]
	basis Basis1D
}

// NewCubicInterpolation builds a tricubic read kernel bound to vol, using
// the Catmull-Rom spline as its default 1-D basis.
func NewCubicInterpolation[T hive.Numeric](vol *hive.Volume[T]) *CubicInterpolation[T] {
	return &CubicInterpolation[T]{vol: vol, basis: CatmullRom1D}
}

// WithBasis swaps in an alternative 1-D cubic basis, e.g. one derived from
// explicit tangents instead of Catmull-Rom's finite-difference estimate.
func (s *CubicInterpolation[T]) WithBasis(b Basis1D) *CubicInterpolation[T] {
	s.basis = b
	return s
}

// cubicAxisParams picks, for one axis value x, the stencil's minimum index
// and the normalized blend parameter t such that x always falls inside the
// stencil's middle interval [min_i+1, min_i+2]. Voxel centers sit at
// half-integer offsets, so whether x rounds up or down from its floor
// decides which side of the nearest center it falls on, and therefore
// which 4-wide window keeps it centered between p1 and p2.
func cubicAxisParams(x float64) (minI int32, t float64) {
	fx := math.Floor(x)
	if math.Round(x) > fx {
		minI = int32(fx) - 1
	} else {
		minI = int32(fx) - 2
	}
	maxI := minI + cubicStencilWidth - 1
	t = (x - (float64(minI) + 1.5)) / float64(maxI-minI-2)
	return minI, t
}

// Interpolate returns the tricubically-blended value at (x,y,z).
func (s *CubicInterpolation[T]) Interpolate(x, y, z float64) (T, error) {
	var zero T
	i0, tx := cubicAxisParams(x)
	j0, ty := cubicAxisParams(y)
	k0, tz := cubicAxisParams(z)

	var plane [cubicStencilWidth]float64
	for dk := int32(0); dk < cubicStencilWidth; dk++ {
		var row [cubicStencilWidth]float64
		for dj := int32(0); dj < cubicStencilWidth; dj++ {
			var p [cubicStencilWidth]float64
			for di := int32(0); di < cubicStencilWidth; di++ {
				v, err := s.vol.Get(i0+di, j0+dj, k0+dk)
				if err != nil {
					return zero, err
				}
				p[di] = toCalc(v)
			}
			row[dj] = s.basis(tx, p[0], p[1], p[2], p[3])
		}
		plane[dk] = s.basis(ty, row[0], row[1], row[2], row[3])
	}
	return fromCalc[T](s.basis(tz, plane[0], plane[1], plane[2], plane[3])), nil
}
