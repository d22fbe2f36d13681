package hive

import "golang.org/x/exp/constraints"

// Numeric bounds the element type T stored in a voxel volume: any integer
// or floating-point scalar supports the default-construct, equality,
// assignment, and arithmetic-combine operations the kernels need.
//
// Go has no half-precision floating point type, so the "calc type"
// indirection spec.md describes for half-precision T collapses to a single
// choice here: every kernel widens to float64 for intermediate arithmetic
// and narrows back to T on store (see toCalc/fromCalc below). This is a
// strictly wider calc type than the spec's "float for half, T otherwise"
// rule, never a narrower one, so no precision spec.md relies on is lost.
type Numeric interface {
	constraints.Integer | constraints.Float
}

// toCalc widens a stored value to the calc type used for weighted
// accumulation in the interpolation and splat kernels.
func toCalc[T Numeric](v T) float64 {
	return float64(v)
}

// fromCalc narrows a calc-type accumulator back to the stored element type.
func fromCalc[T Numeric](v float64) T {
	return T(v)
}
