package ring

import "github.com/latticeforge/corefhe/xerrors"

// vecBase is the shared shape and storage for VecZnx and VecZnxBig: a
// Cols-way vector of Size-limb polynomials, with a MaxSize >= Size letting
// a view shrink transparently (spec §3). The two distinguish only at the
// type level — VecZnxBig carries un-normalized ("big") limbs, VecZnx
// carries centred, normalized ones — so mixing them up is a compile error
// rather than a silent correctness bug.
type vecBase struct {
	n, cols, size, maxSize int
	data                   []byte
}

func newVecBase(n, cols, size, maxSize int) vecBase {
	if maxSize == 0 {
		maxSize = size
	}
	return vecBase{n: n, cols: cols, size: size, maxSize: maxSize, data: newAligned(n * cols * maxSize * 8)}
}

func vecBaseFromBytes(n, cols, size, maxSize int, b []byte) vecBase {
	if maxSize == 0 {
		maxSize = size
	}
	return vecBase{n: n, cols: cols, size: size, maxSize: maxSize, data: b}
}

func (v *vecBase) N() int       { return v.n }
func (v *vecBase) Cols() int    { return v.cols }
func (v *vecBase) Size() int    { return v.size }
func (v *vecBase) MaxSize() int { return v.maxSize }
func (v *vecBase) Raw() []byte  { return v.data }

// Resize shrinks or grows the logical Size within MaxSize; it never
// reallocates (spec §3, "an extra max_size lets views shrink transparently").
func (v *vecBase) Resize(size int) {
	xerrors.Require("vecBase.Resize", size <= v.maxSize, "size exceeds max_size")
	v.size = size
}

// At returns the mutable i64 coefficients of column c, limb j.
func (v *vecBase) At(c, j int) []int64 {
	off := (c*v.maxSize + j) * v.n * 8
	return int64View(sliceBytes(v.data, off, v.n*8))
}

// Zero sets every coefficient (across the full MaxSize, not just Size) to 0.
func (v *vecBase) Zero() {
	for i := range v.data {
		v.data[i] = 0
	}
}

func (v *vecBase) layout() Layout {
	return Layout{N: v.n, Cols: v.cols, Size: v.size, MaxSize: v.maxSize}
}
