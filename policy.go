package hive

import "math"

// Policy is a pure binary combine T x T -> T controlling how a write merges
// with the current voxel value. Policies are passed as lightweight function
// values rather than dispatched through an interface, so there is no
// per-voxel indirect call in the splat/update hot path.
type Policy[T Numeric] func(current, incoming T) T

// PolicySet replaces the current value outright.
func PolicySet[T Numeric](_, incoming T) T {
	return incoming
}

// PolicyAdd accumulates incoming onto current.
func PolicyAdd[T Numeric](current, incoming T) T {
	return current + incoming
}

// PolicyMax keeps the larger of the two values.
func PolicyMax[T Numeric](current, incoming T) T {
	if incoming > current {
		return incoming
	}
	return current
}

// PolicyMin keeps the smaller of the two values.
func PolicyMin[T Numeric](current, incoming T) T {
	if incoming < current {
		return incoming
	}
	return current
}

// PolicyReplaceIfGreaterMagnitude keeps whichever value has the larger
// absolute value, incoming winning ties.
func PolicyReplaceIfGreaterMagnitude[T Numeric](current, incoming T) T {
	if math.Abs(toCalc(incoming)) >= math.Abs(toCalc(current)) {
		return incoming
	}
	return current
}
