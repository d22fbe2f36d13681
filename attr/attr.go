// Package attr implements the typed attribute bag attached to a Volume: a
// name -> Attribute map supporting typed access, equality, and byte-stream
// I/O, backed by a process-wide type registry so a reader can reconstruct
// the right concrete Attribute from its persisted type-name tag alone.
package attr

import (
	"bytes"
	"fmt"
	"io"
	"sort"
)

// Attribute is a named, typed value that can compare itself for equality
// and round-trip through a byte stream. TypeName identifies the concrete
// type for the registry and for persistence tagging.
type Attribute interface {
	TypeName() string
	Equal(other Attribute) bool
	WriteTo(w io.Writer) (int64, error)
	ReadFrom(r io.Reader) (int64, error)
}

// Scalar is a primitive numeric attribute: a fixed-size value tagged with
// its type name, stored as an opaque big-endian blob of its encoding.
type Scalar[T Numeric] struct {
	typeName string
	value    T
	encode   func(T) []byte
	decode   func([]byte) T
}

// Numeric bounds the element types a Scalar attribute may hold.
type Numeric interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~float32 | ~float64
}

// Value returns the scalar's current value.
func (s *Scalar[T]) Value() T { return s.value }

// SetValue replaces the scalar's current value.
func (s *Scalar[T]) SetValue(v T) { s.value = v }

// TypeName returns the attribute's registered type name.
func (s *Scalar[T]) TypeName() string { return s.typeName }

// Equal reports whether other is a Scalar[T] with the same type name and
// value.
func (s *Scalar[T]) Equal(other Attribute) bool {
	o, ok := other.(*Scalar[T])
	return ok && o.typeName == s.typeName && o.value == s.value
}

// WriteTo writes the scalar's value as an opaque fixed-size blob.
func (s *Scalar[T]) WriteTo(w io.Writer) (int64, error) {
	b := s.encode(s.value)
	n, err := w.Write(b)
	return int64(n), err
}

// ReadFrom reads the scalar's value from its opaque fixed-size blob.
func (s *Scalar[T]) ReadFrom(r io.Reader) (int64, error) {
	var probe T
	size := len(s.encode(probe))
	buf := make([]byte, size)
	n, err := io.ReadFull(r, buf)
	if err != nil {
		return int64(n), err
	}
	s.value = s.decode(buf)
	return int64(n), nil
}

// StringAttribute holds a string value, persisted as its raw bytes or a
// single NUL byte when empty (the original's convention for distinguishing
// an empty string from a zero-length, absent payload).
type StringAttribute struct {
	value string
}

// NewStringAttribute constructs a StringAttribute with the given value.
func NewStringAttribute(v string) *StringAttribute { return &StringAttribute{value: v} }

// Value returns the current string value.
func (s *StringAttribute) Value() string { return s.value }

// SetValue replaces the current string value.
func (s *StringAttribute) SetValue(v string) { s.value = v }

// TypeName returns the attribute's registered type name.
func (s *StringAttribute) TypeName() string { return stringAttributeTypeName }

// Equal reports whether other is a StringAttribute with the same value.
func (s *StringAttribute) Equal(other Attribute) bool {
	o, ok := other.(*StringAttribute)
	return ok && o.value == s.value
}

// WriteTo writes the string's bytes, or a single NUL byte if empty.
func (s *StringAttribute) WriteTo(w io.Writer) (int64, error) {
	if s.value == "" {
		n, err := w.Write([]byte{0})
		return int64(n), err
	}
	n, err := io.WriteString(w, s.value)
	return int64(n), err
}

// ReadFrom reads every remaining byte from r as the string's value,
// treating a single NUL byte as the empty string.
func (s *StringAttribute) ReadFrom(r io.Reader) (int64, error) {
	var buf bytes.Buffer
	n, err := buf.ReadFrom(r)
	if err != nil {
		return n, err
	}
	if buf.Len() == 1 && buf.Bytes()[0] == 0 {
		s.value = ""
		return n, nil
	}
	s.value = buf.String()
	return n, nil
}

const stringAttributeTypeName = "string"

// Collection is a name -> Attribute bag, the per-Volume attribute store.
// Its zero value is an empty, ready-to-use collection.
type Collection struct {
	m map[string]Attribute
}

// Insert adds or replaces the attribute named n. If one already exists
// under that name with a different concrete type, Insert returns an error
// rather than silently overwriting it with an incompatible type.
func (c *Collection) Insert(n string, a Attribute) error {
	if c.m == nil {
		c.m = make(map[string]Attribute)
	}
	if existing, ok := c.m[n]; ok && existing.TypeName() != a.TypeName() {
		return fmt.Errorf("attr: %q already exists with type %q, cannot insert type %q", n, existing.TypeName(), a.TypeName())
	}
	c.m[n] = a
	return nil
}

// Remove deletes the attribute named n, if present; a no-op otherwise.
func (c *Collection) Remove(n string) { delete(c.m, n) }

// Get returns the attribute named n.
func (c *Collection) Get(n string) (Attribute, bool) {
	a, ok := c.m[n]
	return a, ok
}

// TypedValue returns the attribute named n asserted to type A (for example
// *StringAttribute).
func TypedValue[A Attribute](c *Collection, n string) (A, bool) {
	var zero A
	a, ok := c.Get(n)
	if !ok {
		return zero, false
	}
	typed, ok := a.(A)
	return typed, ok
}

// Count returns the number of attributes in the collection.
func (c *Collection) Count() int { return len(c.m) }

// Empty reports whether the collection holds no attributes.
func (c *Collection) Empty() bool { return len(c.m) == 0 }

// Clear removes every attribute.
func (c *Collection) Clear() { c.m = nil }

// Names returns every attribute name, sorted for deterministic iteration.
func (c *Collection) Names() []string {
	names := make([]string, 0, len(c.m))
	for n := range c.m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Equal reports whether two collections hold the same names mapped to
// equal attributes.
func (c *Collection) Equal(other *Collection) bool {
	if c.Count() != other.Count() {
		return false
	}
	for n, a := range c.m {
		oa, ok := other.m[n]
		if !ok || !a.Equal(oa) {
			return false
		}
	}
	return true
}

