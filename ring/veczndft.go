package ring

import "github.com/latticeforge/corefhe/xerrors"

// VecZnxDft is the frequency-domain image of a VecZnx: one transform per
// (col, limb) cell (spec §3). Its in-memory scalar is back-end specific
// (f64 pairs for FFT64, packed CRT limbs for NTT120), so the container
// itself only tracks shape and a raw byte arena; ScalarBytes records how
// many bytes a back-end's DFT() call writes per ring coefficient slot and
// is supplied by the back-end at construction (spec §3 "associated types
// fix the in-memory scalar").
type VecZnxDft struct {
	n, cols, size int
	scalarBytes   int
	tag           Tag
	data          []byte
}

// NewVecZnxDft allocates a zero-initialized VecZnxDft for the given
// back-end tag and per-coefficient scalar width.
func NewVecZnxDft(n, cols, size, scalarBytes int, tag Tag) *VecZnxDft {
	return &VecZnxDft{
		n: n, cols: cols, size: size, scalarBytes: scalarBytes, tag: tag,
		data: newAligned(n * cols * size * scalarBytes),
	}
}

// VecZnxDftFromBytes wraps a caller-owned byte slice as a VecZnxDft view,
// used by scratch.Scratch to hand out arena-backed borrows.
func VecZnxDftFromBytes(n, cols, size, scalarBytes int, tag Tag, b []byte) *VecZnxDft {
	return &VecZnxDft{n: n, cols: cols, size: size, scalarBytes: scalarBytes, tag: tag, data: b}
}

func (v *VecZnxDft) N() int           { return v.n }
func (v *VecZnxDft) Cols() int        { return v.cols }
func (v *VecZnxDft) Size() int        { return v.size }
func (v *VecZnxDft) Tag() Tag         { return v.tag }
func (v *VecZnxDft) ScalarBytes() int { return v.scalarBytes }
func (v *VecZnxDft) Raw() []byte      { return v.data }

// Slot returns the raw byte slot for (col, limb); back-end packages
// reinterpret it through their own typed view helper (e.g. fft64.AsComplex).
func (v *VecZnxDft) Slot(col, limb int) []byte {
	n := v.n * v.scalarBytes
	off := (col*v.size + limb) * n
	return sliceBytes(v.data, off, n)
}

// Zero sets every byte of the arena to 0.
func (v *VecZnxDft) Zero() {
	for i := range v.data {
		v.data[i] = 0
	}
}

// RequireTag panics with a Precondition if the container was not prepared
// for the given back-end tag.
func (v *VecZnxDft) RequireTag(op string, want Tag) {
	xerrors.Require(op, v.tag == want, "back-end tag mismatch: container is "+v.tag.String()+", operation expects "+want.String())
}
