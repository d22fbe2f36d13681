package attr

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
)

// Constructor builds a zero-valued Attribute of some concrete type, used by
// a reader to reconstruct the right Go type from a persisted type-name tag
// before delegating payload decoding to it.
type Constructor func() Attribute

// registry is process-wide state: every Volume reader shares one type-name
// -> Constructor table, guarded by a single mutex per spec's "process-wide
// state with a single mutual-exclusion discipline" (§5).
var registry = struct {
	mu    sync.Mutex
	types map[string]Constructor
}{types: make(map[string]Constructor)}

// Register adds a constructor under type name n. Registering the same name
// twice is an error — the registry has no notion of "last writer wins".
func Register(n string, c Constructor) error {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if _, exists := registry.types[n]; exists {
		return fmt.Errorf("attr: type %q already registered", n)
	}
	registry.types[n] = c
	return nil
}

// Unregister removes the constructor registered under n, if any.
func Unregister(n string) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	delete(registry.types, n)
}

// Lookup returns the constructor registered under n.
func Lookup(n string) (Constructor, bool) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	c, ok := registry.types[n]
	return c, ok
}

// ClearRegistry removes every registered constructor. Intended for test
// isolation between independently-configured registries, not production use.
func ClearRegistry() {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.types = make(map[string]Constructor)
}

// New constructs a fresh, zero-valued attribute of the named type via the
// registry, ready to have ReadFrom called on it.
func New(typeName string) (Attribute, error) {
	c, ok := Lookup(typeName)
	if !ok {
		return nil, fmt.Errorf("attr: no constructor registered for type %q", typeName)
	}
	return c(), nil
}

func init() {
	mustRegisterScalars()
	Register(stringAttributeTypeName, func() Attribute { return NewStringAttribute("") })
}

func mustRegisterScalars() {
	Register("int32", func() Attribute { return NewInt32Attribute(0) })
	Register("int64", func() Attribute { return NewInt64Attribute(0) })
	Register("float32", func() Attribute { return NewFloat32Attribute(0) })
	Register("float64", func() Attribute { return NewFloat64Attribute(0) })
}

// NewInt32Attribute constructs an int32 scalar attribute.
func NewInt32Attribute(v int32) *Scalar[int32] {
	return &Scalar[int32]{
		typeName: "int32",
		value:    v,
		encode:   func(x int32) []byte { b := make([]byte, 4); binary.BigEndian.PutUint32(b, uint32(x)); return b },
		decode:   func(b []byte) int32 { return int32(binary.BigEndian.Uint32(b)) },
	}
}

// NewInt64Attribute constructs an int64 scalar attribute.
func NewInt64Attribute(v int64) *Scalar[int64] {
	return &Scalar[int64]{
		typeName: "int64",
		value:    v,
		encode:   func(x int64) []byte { b := make([]byte, 8); binary.BigEndian.PutUint64(b, uint64(x)); return b },
		decode:   func(b []byte) int64 { return int64(binary.BigEndian.Uint64(b)) },
	}
}

// NewFloat32Attribute constructs a float32 scalar attribute.
func NewFloat32Attribute(v float32) *Scalar[float32] {
	return &Scalar[float32]{
		typeName: "float32",
		value:    v,
		encode:   func(x float32) []byte { b := make([]byte, 4); binary.BigEndian.PutUint32(b, math.Float32bits(x)); return b },
		decode:   func(b []byte) float32 { return math.Float32frombits(binary.BigEndian.Uint32(b)) },
	}
}

// NewFloat64Attribute constructs a float64 scalar attribute.
func NewFloat64Attribute(v float64) *Scalar[float64] {
	return &Scalar[float64]{
		typeName: "float64",
		value:    v,
		encode:   func(x float64) []byte { b := make([]byte, 8); binary.BigEndian.PutUint64(b, math.Float64bits(x)); return b },
		decode:   func(b []byte) float64 { return math.Float64frombits(binary.BigEndian.Uint64(b)) },
	}
}
