package store

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/nektarfx/hive"
	"github.com/nektarfx/hive/attr"
)

// WriteVolumeStream writes a header, a Volume, and its attribute bag as one
// flat byte stream: the same logical payload the hierarchical codec stores
// under named groups, concatenated in declaration order instead.
func WriteVolumeStream[T hive.Numeric](w io.Writer, v *hive.Volume[T], attrs *attr.Collection) (int64, error) {
	h := Header{Type: ContainerVolume, Version: CurrentVersion}
	total, err := h.WriteTo(w)
	if err != nil {
		return total, err
	}
	n, err := v.WriteTo(w)
	total += n
	if err != nil {
		return total, err
	}
	n, err = writeAttributes(w, attrs)
	total += n
	return total, err
}

// ReadVolumeStream reads a Volume and its attribute bag previously written
// by WriteVolumeStream. A header that cannot be read, carries a bad magic
// tag, or names a container type other than ContainerVolume is reported as
// an error matching hive.ErrInputMalformed.
func ReadVolumeStream[T hive.Numeric](r io.Reader) (*hive.Volume[T], *attr.Collection, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return nil, nil, &hive.Error{Kind: hive.KindInputMalformed, Msg: err.Error()}
	}
	if h.Type != ContainerVolume {
		return nil, nil, &hive.Error{Kind: hive.KindInputMalformed, Msg: fmt.Sprintf("store: expected %s container, got %s", ContainerVolume, h.Type)}
	}
	v, err := hive.ReadVolume[T](r)
	if err != nil {
		return nil, nil, err
	}
	attrs, err := readAttributes(r)
	if err != nil {
		return nil, nil, err
	}
	return v, attrs, nil
}

func writeAttributes(w io.Writer, attrs *attr.Collection) (int64, error) {
	var total int64
	names := attrs.Names()
	if err := binary.Write(w, binary.BigEndian, uint32(len(names))); err != nil {
		return total, err
	}
	total += 4
	for _, name := range names {
		a, _ := attrs.Get(name)
		n, err := writeTaggedString(w, name)
		total += n
		if err != nil {
			return total, err
		}
		n, err = writeTaggedString(w, a.TypeName())
		total += n
		if err != nil {
			return total, err
		}
		// The attribute's own payload has no self-describing length (a
		// StringAttribute's is open-ended), so it's buffered and
		// length-prefixed here rather than concatenated raw, the same
		// way every other variable-length field in this codec is framed.
		var payload bytes.Buffer
		if _, err := a.WriteTo(&payload); err != nil {
			return total, err
		}
		if err := binary.Write(w, binary.BigEndian, uint32(payload.Len())); err != nil {
			return total, err
		}
		total += 4
		n2, err := w.Write(payload.Bytes())
		total += int64(n2)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func readAttributes(r io.Reader) (*attr.Collection, error) {
	var count uint32
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return nil, err
	}
	c := &attr.Collection{}
	for i := uint32(0); i < count; i++ {
		name, err := readTaggedString(r)
		if err != nil {
			return nil, err
		}
		typeName, err := readTaggedString(r)
		if err != nil {
			return nil, err
		}
		a, err := attr.New(typeName)
		if err != nil {
			return nil, fmt.Errorf("store: attribute %q: %w", name, err)
		}
		var payloadLen uint32
		if err := binary.Read(r, binary.BigEndian, &payloadLen); err != nil {
			return nil, err
		}
		payload := io.LimitReader(r, int64(payloadLen))
		if _, err := a.ReadFrom(payload); err != nil {
			return nil, err
		}
		if err := c.Insert(name, a); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func writeTaggedString(w io.Writer, s string) (int64, error) {
	if err := binary.Write(w, binary.BigEndian, uint32(len(s))); err != nil {
		return 0, err
	}
	n, err := io.WriteString(w, s)
	return int64(4 + n), err
}

func readTaggedString(r io.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
