package ring

import (
	"io"

	"github.com/latticeforge/corefhe/ioframe"
	"github.com/latticeforge/corefhe/xerrors"
)

// VecZnx is a Cols-way vector of base-2^k limb-decomposed polynomials.
// Each column represents a torus element to precision K = Size*base2k by
// c = sum_j c_j * 2^{-(j+1)*base2k}, c_j in (-2^{base2k-1}, 2^{base2k-1}]
// (spec §3). It is the normalized, persistable counterpart of VecZnxBig.
type VecZnx struct {
	vecBase
}

// NewVecZnx allocates a zero-initialized VecZnx.
func NewVecZnx(n, cols, size int) *VecZnx {
	return &VecZnx{newVecBase(n, cols, size, 0)}
}

// NewVecZnxWithMaxSize allocates a VecZnx view that can later Resize up to
// maxSize without reallocating.
func NewVecZnxWithMaxSize(n, cols, size, maxSize int) *VecZnx {
	return &VecZnx{newVecBase(n, cols, size, maxSize)}
}

// VecZnxFromBytes wraps a caller-owned byte slice as a VecZnx view.
func VecZnxFromBytes(n, cols, size, maxSize int, b []byte) *VecZnx {
	return &VecZnx{vecBaseFromBytes(n, cols, size, maxSize, b)}
}

// CopyFrom byte-copies another VecZnx of identical shape onto the receiver.
func (v *VecZnx) CopyFrom(o *VecZnx) {
	xerrors.Require("VecZnx.CopyFrom", v.n == o.n && v.cols == o.cols && v.size == o.size, "shape mismatch")
	for c := 0; c < v.cols; c++ {
		for j := 0; j < v.size; j++ {
			copy(v.At(c, j), o.At(c, j))
		}
	}
}

// Add accumulates o onto the receiver, column and limb wise, without
// carrying (the result may leave the centred range; normalize afterwards
// if the sum of inputs is large).
func (v *VecZnx) Add(o *VecZnx) {
	xerrors.Require("VecZnx.Add", v.n == o.n && v.cols == o.cols && v.size == o.size, "shape mismatch")
	for c := 0; c < v.cols; c++ {
		for j := 0; j < v.size; j++ {
			a, b := v.At(c, j), o.At(c, j)
			for i := range a {
				a[i] += b[i]
			}
		}
	}
}

// Sub subtracts o from the receiver, column and limb wise.
func (v *VecZnx) Sub(o *VecZnx) {
	xerrors.Require("VecZnx.Sub", v.n == o.n && v.cols == o.cols && v.size == o.size, "shape mismatch")
	for c := 0; c < v.cols; c++ {
		for j := 0; j < v.size; j++ {
			a, b := v.At(c, j), o.At(c, j)
			for i := range a {
				a[i] -= b[i]
			}
		}
	}
}

// Zero overwrites every coefficient of every column with 0.
func (v *VecZnx) Zero() {
	for c := 0; c < v.cols; c++ {
		for j := 0; j < v.size; j++ {
			a := v.At(c, j)
			for i := range a {
				a[i] = 0
			}
		}
	}
}

// Negate flips the sign of every coefficient.
func (v *VecZnx) Negate() {
	for c := 0; c < v.cols; c++ {
		for j := 0; j < v.size; j++ {
			a := v.At(c, j)
			for i := range a {
				a[i] = -a[i]
			}
		}
	}
}

// WriteTo serializes the VecZnx per spec §6: header (n, cols, size,
// max_size) then the i64 payload. Both size and max_size are preserved in
// the header (spec §9 design note on the older shrink-then-reuse path).
func (v *VecZnx) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, x := range []uint64{uint64(v.n), uint64(v.cols), uint64(v.size), uint64(v.maxSize)} {
		n, err := ioframe.WriteUint64(w, x)
		total += n
		if err != nil {
			return total, err
		}
	}
	n, err := ioframe.WriteInt64Slice(w, int64View(v.data))
	return total + n, err
}

// ReadFrom deserializes into a pre-allocated VecZnx of matching shape.
func (v *VecZnx) ReadFrom(r io.Reader) (int64, error) {
	var total int64
	for _, want := range []int{v.n, v.cols, v.size, v.maxSize} {
		x, n, err := ioframe.ReadUint64(r)
		total += n
		if err != nil {
			return total, err
		}
		if int(x) != want {
			return total, xerrors.Deserialize{Op: "VecZnx.ReadFrom", Want: want, Got: int(x)}
		}
	}
	n, err := ioframe.ReadInt64Slice(r, "VecZnx", int64View(v.data))
	return total + n, err
}
