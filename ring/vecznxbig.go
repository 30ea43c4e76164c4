package ring

import "github.com/latticeforge/corefhe/xerrors"

// VecZnxBig has the identical shape as VecZnx but its limb values may
// exceed the normalized centred range: it is the "big limb" accumulator
// that every multiplication pipeline produces before Normalize folds it
// back into a VecZnx (spec §3, §4.3). It is never persisted directly.
type VecZnxBig struct {
	vecBase
}

// NewVecZnxBig allocates a zero-initialized VecZnxBig.
func NewVecZnxBig(n, cols, size int) *VecZnxBig {
	return &VecZnxBig{newVecBase(n, cols, size, 0)}
}

// VecZnxBigFromBytes wraps a caller-owned byte slice as a VecZnxBig view.
func VecZnxBigFromBytes(n, cols, size, maxSize int, b []byte) *VecZnxBig {
	return &VecZnxBig{vecBaseFromBytes(n, cols, size, maxSize, b)}
}

// Add accumulates o onto the receiver; big limbs add without any carry
// discipline, which is exactly why they are not yet a VecZnx.
func (v *VecZnxBig) Add(o *VecZnxBig) {
	xerrors.Require("VecZnxBig.Add", v.n == o.n && v.cols == o.cols && v.size == o.size, "shape mismatch")
	for c := 0; c < v.cols; c++ {
		for j := 0; j < v.size; j++ {
			a, b := v.At(c, j), o.At(c, j)
			for i := range a {
				a[i] += b[i]
			}
		}
	}
}

// CopyFrom byte-copies another VecZnxBig of identical shape.
func (v *VecZnxBig) CopyFrom(o *VecZnxBig) {
	xerrors.Require("VecZnxBig.CopyFrom", v.n == o.n && v.cols == o.cols && v.size == o.size, "shape mismatch")
	for c := 0; c < v.cols; c++ {
		for j := 0; j < v.size; j++ {
			copy(v.At(c, j), o.At(c, j))
		}
	}
}
