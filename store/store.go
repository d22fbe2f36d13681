// Package store implements the persistence layer described in spec.md §6:
// a container header identifying the payload, a hierarchical backend that
// maps a Volume onto an HDF5 file via github.com/scigolib/hdf5, and a flat
// streaming codec writing the same logical payload without the
// hierarchical group naming.
package store

import (
	"encoding/binary"
	"fmt"
	"io"
)

// magicTag identifies a nektar container. Header.WriteTo writes it at the
// start of every streaming container; the HDF5 backend writes neither it
// nor any other Header field.
const magicTag = "nektar_"

// ContainerType tags what kind of payload follows the header.
type ContainerType uint8

const (
	// ContainerVolume tags a single Volume payload (shape, transform,
	// attribute bag, tree).
	ContainerVolume ContainerType = iota
	// ContainerVolumeSet tags a named collection of Volume payloads. No
	// writer in this package produces it, and ReadVolumeStream rejects it.
	ContainerVolumeSet
)

func (c ContainerType) String() string {
	switch c {
	case ContainerVolume:
		return "Volume"
	case ContainerVolumeSet:
		return "VolumeSet"
	default:
		return "Unknown"
	}
}

// Version is the container format's version triple.
type Version struct {
	Major, Minor, Patch uint16
}

// CurrentVersion is written into every container produced by this package.
var CurrentVersion = Version{Major: 1, Minor: 0, Patch: 0}

// Header is the fixed-size preamble at the start of every nektar
// container: the magic tag, the container type, and the format version.
type Header struct {
	Type    ContainerType
	Version Version
}

// WriteTo writes the header: the 7-byte magic tag, one byte of
// ContainerType, then three big-endian uint16 version components.
func (h Header) WriteTo(w io.Writer) (int64, error) {
	if _, err := io.WriteString(w, magicTag); err != nil {
		return 0, err
	}
	total := int64(len(magicTag))
	if _, err := w.Write([]byte{byte(h.Type)}); err != nil {
		return total, err
	}
	total++
	buf := make([]byte, 6)
	binary.BigEndian.PutUint16(buf[0:2], h.Version.Major)
	binary.BigEndian.PutUint16(buf[2:4], h.Version.Minor)
	binary.BigEndian.PutUint16(buf[4:6], h.Version.Patch)
	n, err := w.Write(buf)
	return total + int64(n), err
}

// ReadHeader reads and validates a Header from r, rejecting anything whose
// magic tag doesn't match.
func ReadHeader(r io.Reader) (Header, error) {
	var h Header
	tag := make([]byte, len(magicTag))
	if _, err := io.ReadFull(r, tag); err != nil {
		return h, fmt.Errorf("store: reading magic tag: %w", err)
	}
	if string(tag) != magicTag {
		return h, fmt.Errorf("store: bad magic tag %q, expected %q", tag, magicTag)
	}
	var typeByte [1]byte
	if _, err := io.ReadFull(r, typeByte[:]); err != nil {
		return h, err
	}
	h.Type = ContainerType(typeByte[0])
	buf := make([]byte, 6)
	if _, err := io.ReadFull(r, buf); err != nil {
		return h, err
	}
	h.Version = Version{
		Major: binary.BigEndian.Uint16(buf[0:2]),
		Minor: binary.BigEndian.Uint16(buf[2:4]),
		Patch: binary.BigEndian.Uint16(buf[4:6]),
	}
	return h, nil
}

// OpenMode selects how Open treats an existing or missing file.
type OpenMode int

const (
	// ReadOnly opens an existing container for reading; it is an error
	// if the file does not exist.
	ReadOnly OpenMode = iota
	// ReadWrite opens an existing container for read/write, creating it
	// if absent.
	ReadWrite
	// WriteTrunc creates a new container, truncating any existing file
	// at that path.
	WriteTrunc
)
