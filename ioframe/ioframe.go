// Package ioframe implements the little-endian, length-prefixed framing
// shared by every persisted container and key in the core (spec §6). No
// version byte is carried: format changes are ABI breaks, not something
// this package papers over.
package ioframe

import (
	"encoding/binary"
	"io"

	"github.com/latticeforge/corefhe/xerrors"
)

// WriteUint64 writes a single u64 header field in little-endian.
func WriteUint64(w io.Writer, v uint64) (int64, error) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	n, err := w.Write(buf[:])
	return int64(n), err
}

// ReadUint64 reads a single u64 header field in little-endian.
func ReadUint64(r io.Reader) (uint64, int64, error) {
	var buf [8]byte
	n, err := io.ReadFull(r, buf[:])
	if err != nil {
		return 0, int64(n), err
	}
	return binary.LittleEndian.Uint64(buf[:]), int64(n), nil
}

// WritePayload writes a u64 length prefix followed by the payload bytes.
func WritePayload(w io.Writer, payload []byte) (int64, error) {
	n, err := WriteUint64(w, uint64(len(payload)))
	if err != nil {
		return n, err
	}
	m, err := w.Write(payload)
	return n + int64(m), err
}

// ReadPayload reads a u64 length prefix and fails with a Deserialize error
// if it does not match the caller's pre-allocated capacity, then reads
// exactly that many bytes into dst.
func ReadPayload(r io.Reader, op string, dst []byte) (int64, error) {
	length, n, err := ReadUint64(r)
	if err != nil {
		return n, err
	}
	if int(length) != len(dst) {
		return n, xerrors.Deserialize{Op: op, Want: len(dst), Got: int(length)}
	}
	m, err := io.ReadFull(r, dst)
	return n + int64(m), err
}

// WriteInt64Slice writes a slice of i64 values as a length-prefixed
// little-endian payload (used for the raw limb arrays inside VecZnx-family
// containers).
func WriteInt64Slice(w io.Writer, v []int64) (int64, error) {
	buf := make([]byte, 8*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint64(buf[i*8:], uint64(x))
	}
	return WritePayload(w, buf)
}

// ReadInt64Slice reads a length-prefixed little-endian payload into a
// pre-allocated slice of i64 values.
func ReadInt64Slice(r io.Reader, op string, dst []int64) (int64, error) {
	buf := make([]byte, 8*len(dst))
	n, err := ReadPayload(r, op, buf)
	if err != nil {
		return n, err
	}
	for i := range dst {
		dst[i] = int64(binary.LittleEndian.Uint64(buf[i*8:]))
	}
	return n, nil
}
