package hive

import (
	"encoding/binary"
	"io"

	"github.com/nektarfx/hive/internal/bits3d"
	"github.com/nektarfx/hive/xform"
)

// Every value type in the library supports byte-stream read/write: a flat
// concatenation in declaration order, with no framing beyond what each
// field's own width requires. The hierarchical (HDF5) codec in the store
// package reuses these same encode/decode routines, just parenthesized
// inside named groups instead of concatenated flat.
//
// encoding/binary's reflect-based Write/Read only accept Go's fixed-width
// numeric kinds; Numeric also admits the platform-width int, uint and
// uintptr, so every value write goes through writeValue/readValue below
// instead of calling binary.Write/Read directly on a T. Those widen the
// platform-width kinds to a fixed 64-bit encoding and narrow them back on
// read, so the on-disk format never depends on GOARCH's native int size.

const (
	nodeKindLeaf byte = iota // fill state: no children, value implied by fillValue alone
	nodeKindCell             // expanded: bitfield + recursively-encoded present children
)

// WriteTo writes the volume as a flat byte stream: shape parameters, the
// fill value, the local transform, then each of the eight quadrant trees in
// ascending quadrant order.
func (v *Volume[T]) WriteTo(w io.Writer) (int64, error) {
	var total int64
	if err := writeByte(w, byte(v.lgNode)); err != nil {
		return total, err
	}
	total++
	if err := writeByte(w, byte(v.lgCell)); err != nil {
		return total, err
	}
	total++
	if err := binary.Write(w, binary.BigEndian, int32(v.depth)); err != nil {
		return total, err
	}
	total += 4
	if err := writeValue(w, v.fillValue); err != nil {
		return total, err
	}
	total += int64(valueSize(v.fillValue))
	n, err := v.xf.WriteTo(w)
	total += n
	if err != nil {
		return total, err
	}
	for _, root := range v.roots {
		n, err := writeNode(w, root)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// ReadVolume reconstructs a Volume previously written by WriteTo.
func ReadVolume[T Numeric](r io.Reader) (*Volume[T], error) {
	lgNode, err := readByte(r)
	if err != nil {
		return nil, err
	}
	lgCell, err := readByte(r)
	if err != nil {
		return nil, err
	}
	var depth32 int32
	if err := binary.Read(r, binary.BigEndian, &depth32); err != nil {
		return nil, err
	}
	var fill T
	if err := readValue(r, &fill); err != nil {
		return nil, err
	}
	var xf xform.LocalXform
	if _, err := xf.ReadFrom(r); err != nil {
		return nil, err
	}
	v := NewVolume[T](uint(lgNode), uint(lgCell), int(depth32), fill, xf)
	for q := range v.roots {
		root, err := readNode[T](r, uint(lgNode), uint(lgCell), int(depth32), fill)
		if err != nil {
			return nil, wrapErr(KindInputMalformed, err, "decoding quadrant %d", q)
		}
		v.roots[q] = root
	}
	return v, nil
}

func writeNode[T Numeric](w io.Writer, n *Node[T]) (int64, error) {
	var total int64
	if err := writeValue(w, n.fillValue); err != nil {
		return total, err
	}
	total += int64(valueSize(n.fillValue))
	if n.IsFill() {
		if err := writeByte(w, nodeKindLeaf); err != nil {
			return total, err
		}
		return total + 1, nil
	}
	if err := writeByte(w, nodeKindCell); err != nil {
		return total, err
	}
	total++
	bn, err := writeBitfield(w, n.bits)
	total += bn
	if err != nil {
		return total, err
	}
	for i := 0; i < n.children.Len(); i++ {
		child := n.children.At(i)
		var cn int64
		var cerr error
		if n.depth == 1 {
			cn, cerr = writeCell(w, child.(*Cell[T]))
		} else {
			cn, cerr = writeNode(w, child.(*Node[T]))
		}
		total += cn
		if cerr != nil {
			return total, cerr
		}
	}
	return total, nil
}

func readNode[T Numeric](r io.Reader, lgNode, lgCell uint, depth int, _ T) (*Node[T], error) {
	var fill T
	if err := readValue(r, &fill); err != nil {
		return nil, err
	}
	kind, err := readByte(r)
	if err != nil {
		return nil, err
	}
	n := NewNode[T](lgNode, lgCell, depth, fill)
	if kind == nodeKindLeaf {
		return n, nil
	}
	if kind != nodeKindCell {
		return nil, newErr(KindInputMalformed, "unknown node kind tag %d", kind)
	}
	bits, err := readBitfield(r, lgNode)
	if err != nil {
		return nil, err
	}
	n.bits = bits
	count := bits.Popcount()
	for i := 0; i < count; i++ {
		var child treeNode[T]
		var err error
		if depth == 1 {
			child, err = readCell[T](r, lgCell)
		} else {
			child, err = readNode[T](r, lgNode, lgCell, depth-1, fill)
		}
		if err != nil {
			return nil, err
		}
		n.children.InsertAt(i, child)
	}
	return n, nil
}

func writeCell[T Numeric](w io.Writer, c *Cell[T]) (int64, error) {
	var total int64
	if err := writeValue(w, c.fillValue); err != nil {
		return total, err
	}
	total += int64(valueSize(c.fillValue))
	bn, err := writeBitfield(w, c.bits)
	total += bn
	if err != nil {
		return total, err
	}
	if c.IsFill() {
		if err := writeByte(w, nodeKindLeaf); err != nil {
			return total, err
		}
		return total + 1, nil
	}
	if err := writeByte(w, nodeKindCell); err != nil {
		return total, err
	}
	total++
	for _, x := range c.arr {
		if err := writeValue(w, x); err != nil {
			return total, err
		}
		total += int64(valueSize(x))
	}
	return total, nil
}

func readCell[T Numeric](r io.Reader, lg uint) (*Cell[T], error) {
	var fill T
	if err := readValue(r, &fill); err != nil {
		return nil, err
	}
	bits, err := readBitfield(r, lg)
	if err != nil {
		return nil, err
	}
	c := NewCell[T](lg, fill)
	c.bits = bits
	kind, err := readByte(r)
	if err != nil {
		return nil, err
	}
	if kind == nodeKindLeaf {
		return c, nil
	}
	if kind != nodeKindCell {
		return nil, newErr(KindInputMalformed, "unknown cell kind tag %d", kind)
	}
	n := bits3d.NumBits3D(lg)
	arr := make([]T, n)
	for i := range arr {
		if err := readValue(r, &arr[i]); err != nil {
			return nil, err
		}
	}
	c.arr = arr
	return c, nil
}

func writeBitfield(w io.Writer, b bits3d.BitField3D) (int64, error) {
	words := b.Words()
	if err := binary.Write(w, binary.BigEndian, words); err != nil {
		return 0, err
	}
	return int64(len(words) * 8), nil
}

func readBitfield(r io.Reader, lg uint) (bits3d.BitField3D, error) {
	b := bits3d.NewBitField3D(lg)
	words := b.Words()
	if err := binary.Read(r, binary.BigEndian, words); err != nil {
		return b, err
	}
	return b, nil
}

func writeByte(w io.Writer, b byte) error {
	_, err := w.Write([]byte{b})
	return err
}

func readByte(r io.Reader) (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// writeValue writes a single T in the stream's flat encoding. The
// platform-width kinds Numeric admits beyond encoding/binary's fixed-width
// set (int, uint, uintptr) are widened to a 64-bit value first since
// binary.Write rejects them outright; every other Numeric kind already has
// a fixed width and goes straight through.
func writeValue[T Numeric](w io.Writer, v T) error {
	switch x := any(v).(type) {
	case int:
		return binary.Write(w, binary.BigEndian, int64(x))
	case uint:
		return binary.Write(w, binary.BigEndian, uint64(x))
	case uintptr:
		return binary.Write(w, binary.BigEndian, uint64(x))
	default:
		return binary.Write(w, binary.BigEndian, v)
	}
}

// readValue is writeValue's inverse: it narrows the fixed 64-bit encoding
// back to int, uint or uintptr for those three kinds, and reads every other
// Numeric kind directly into v.
func readValue[T Numeric](r io.Reader, v *T) error {
	switch p := any(v).(type) {
	case *int:
		var x int64
		if err := binary.Read(r, binary.BigEndian, &x); err != nil {
			return err
		}
		*p = int(x)
		return nil
	case *uint:
		var x uint64
		if err := binary.Read(r, binary.BigEndian, &x); err != nil {
			return err
		}
		*p = uint(x)
		return nil
	case *uintptr:
		var x uint64
		if err := binary.Read(r, binary.BigEndian, &x); err != nil {
			return err
		}
		*p = uintptr(x)
		return nil
	default:
		return binary.Read(r, binary.BigEndian, v)
	}
}

func valueSize(v any) int {
	switch v.(type) {
	case int8, uint8:
		return 1
	case int16, uint16:
		return 2
	case int32, uint32, float32:
		return 4
	case int64, uint64, float64, int, uint, uintptr:
		return 8
	default:
		return 8
	}
}
