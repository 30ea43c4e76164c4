package ring

import (
	"io"

	"github.com/latticeforge/corefhe/ioframe"
	"github.com/latticeforge/corefhe/xerrors"
)

// ScalarZnx holds Cols polynomials of degree < N in i64, one limb each.
// It is used for secrets and one-limb plaintexts (spec §3).
type ScalarZnx struct {
	n, cols int
	data    []byte
}

// NewScalarZnx allocates a zero-initialized, 64-byte-aligned ScalarZnx.
func NewScalarZnx(n, cols int) *ScalarZnx {
	return &ScalarZnx{n: n, cols: cols, data: newAligned(n * cols * 8)}
}

// ScalarZnxFromBytes wraps a caller-owned, already correctly sized byte
// slice as a ScalarZnx view without copying (spec §4.1 "from-bytes").
func ScalarZnxFromBytes(n, cols int, b []byte) *ScalarZnx {
	return &ScalarZnx{n: n, cols: cols, data: b}
}

func (s *ScalarZnx) N() int    { return s.n }
func (s *ScalarZnx) Cols() int { return s.cols }

// At returns the mutable i64 coefficient view of column c.
func (s *ScalarZnx) At(c int) []int64 {
	return int64View(sliceBytes(s.data, c*s.n*8, s.n*8))
}

// Raw returns the full backing byte slice for bulk i/o.
func (s *ScalarZnx) Raw() []byte { return s.data }

// Zero sets every coefficient to 0.
func (s *ScalarZnx) Zero() {
	for i := range s.data {
		s.data[i] = 0
	}
}

// CopyFrom byte-copies another ScalarZnx of identical shape onto the
// receiver.
func (s *ScalarZnx) CopyFrom(o *ScalarZnx) {
	checkShape("ScalarZnx.CopyFrom", Layout{N: s.n}, Layout{N: o.n})
	copy(s.data, o.data)
}

// WriteTo serializes the ScalarZnx per spec §6: header (n, cols) then the
// i64 payload.
func (s *ScalarZnx) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, v := range []uint64{uint64(s.n), uint64(s.cols)} {
		n, err := ioframe.WriteUint64(w, v)
		total += n
		if err != nil {
			return total, err
		}
	}
	n, err := ioframe.WriteInt64Slice(w, int64View(s.data))
	return total + n, err
}

// ReadFrom deserializes into a pre-allocated ScalarZnx of matching shape.
func (s *ScalarZnx) ReadFrom(r io.Reader) (int64, error) {
	var total int64
	for _, want := range []int{s.n, s.cols} {
		v, n, err := ioframe.ReadUint64(r)
		total += n
		if err != nil {
			return total, err
		}
		if int(v) != want {
			return total, xerrors.Deserialize{Op: "ScalarZnx.ReadFrom", Want: want, Got: int(v)}
		}
	}
	n, err := ioframe.ReadInt64Slice(r, "ScalarZnx", int64View(s.data))
	return total + n, err
}
