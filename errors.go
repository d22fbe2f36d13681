package hive

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies an error raised across the library's public boundary,
// mirroring the taxonomy in spec.md §7. Errors inside recursive descent are
// always surfaced at the public boundary without partial mutation; a Kind
// never corrupts tree state by itself.
type Kind uint8

const (
	// KindInvalidIndex marks an out-of-range (i,j,k) presented to a cell or
	// node bitfield. Fatal for the call; the tree is unchanged.
	KindInvalidIndex Kind = iota
	// KindTypeMismatch marks a volume element-type tag mismatch, or a typed
	// attribute lookup against the wrong static type.
	KindTypeMismatch
	// KindInvalidType marks a double registration, or a lookup before
	// registration, in the attribute type registry.
	KindInvalidType
	// KindIoFailure marks an underlying store read/write/exists/delete
	// failure.
	KindIoFailure
	// KindInputMalformed marks a tag mismatch, unknown container type, or
	// truncated payload while decoding.
	KindInputMalformed
	// KindLogicViolation marks an invariant broken by the caller, such as
	// requesting a value from a non-value iterator. Treated as a
	// programming error but still surfaced as a recoverable error rather
	// than corrupting state.
	KindLogicViolation
)

func (k Kind) String() string {
	switch k {
	case KindInvalidIndex:
		return "InvalidIndex"
	case KindTypeMismatch:
		return "TypeMismatch"
	case KindInvalidType:
		return "InvalidType"
	case KindIoFailure:
		return "IoFailure"
	case KindInputMalformed:
		return "InputMalformed"
	case KindLogicViolation:
		return "LogicViolation"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type returned across the library's public
// boundary. It carries a Kind so callers can branch with errors.Is against
// the Kind sentinels below, and wraps an optional cause via pkg/errors so a
// stack trace survives from the point of failure.
type Error struct {
	Kind  Kind
	Msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.cause }

// Is reports Kind equality against a sentinel *Error, so callers can write
// errors.Is(err, hive.ErrInvalidIndex).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func newErr(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func wrapErr(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), cause: errors.WithStack(cause)}
}

// Sentinel values for errors.Is comparisons; only Kind is compared.
var (
	ErrInvalidIndex    = &Error{Kind: KindInvalidIndex}
	ErrTypeMismatch    = &Error{Kind: KindTypeMismatch}
	ErrInvalidType     = &Error{Kind: KindInvalidType}
	ErrIoFailure       = &Error{Kind: KindIoFailure}
	ErrInputMalformed  = &Error{Kind: KindInputMalformed}
	ErrLogicViolation  = &Error{Kind: KindLogicViolation}
)
