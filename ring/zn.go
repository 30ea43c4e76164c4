package ring

import (
	"io"

	"github.com/latticeforge/corefhe/ioframe"
	"github.com/latticeforge/corefhe/xerrors"
)

// Zn(n, cols, size) is the LWE counterpart of VecZnx: ring degree 1, n+1
// coefficients per column (spec §3). It reuses VecZnx's limb-decomposed
// layout verbatim with N pinned to n+1.
type Zn struct {
	vecBase
}

// NewZn allocates a zero-initialized Zn with n+1 coefficients per column.
func NewZn(n, cols, size int) *Zn {
	return &Zn{newVecBase(n+1, cols, size, 0)}
}

// ZnFromBytes wraps a caller-owned byte slice as a Zn view.
func ZnFromBytes(n, cols, size, maxSize int, b []byte) *Zn {
	return &Zn{vecBaseFromBytes(n+1, cols, size, maxSize, b)}
}

// Dimension returns n (the LWE secret dimension), i.e. N()-1.
func (z *Zn) Dimension() int { return z.n - 1 }

// WriteTo serializes the Zn per spec §6: header (n, cols, size, max_size)
// then the i64 payload; n here is the LWE dimension (N()-1), matching the
// wire contract shared with VecZnx.
func (z *Zn) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, x := range []uint64{uint64(z.n - 1), uint64(z.cols), uint64(z.size), uint64(z.maxSize)} {
		n, err := ioframe.WriteUint64(w, x)
		total += n
		if err != nil {
			return total, err
		}
	}
	n, err := ioframe.WriteInt64Slice(w, int64View(z.data))
	return total + n, err
}

// ReadFrom deserializes into a pre-allocated Zn of matching shape.
func (z *Zn) ReadFrom(r io.Reader) (int64, error) {
	var total int64
	for _, want := range []int{z.n - 1, z.cols, z.size, z.maxSize} {
		x, n, err := ioframe.ReadUint64(r)
		total += n
		if err != nil {
			return total, err
		}
		if int(x) != want {
			return total, xerrors.Deserialize{Op: "Zn.ReadFrom", Want: want, Got: int(x)}
		}
	}
	n, err := ioframe.ReadInt64Slice(r, "Zn", int64View(z.data))
	return total + n, err
}
