// Package ring implements the typed ring-element containers of the core:
// byte-arena-backed views over ScalarZnx, VecZnx, VecZnxBig, VecZnxDft,
// Zn, MatZnx and VmpPMat, the limb-base carry-propagation normalization
// that ties them together, and the Galois-automorphism permutation and
// sampling helpers shared by every higher layer.
package ring

import "github.com/latticeforge/corefhe/xerrors"

// alignment is the byte alignment every owning container's backing buffer
// is padded to (spec invariant 5: AVX-512 friendly).
const alignment = 64

// Layout is the shared shape descriptor of a ring-element container: N
// polynomials of degree < N, Cols columns, Size limbs per column, with an
// optional MaxSize >= Size letting a view shrink transparently without
// reallocating (spec §3).
type Layout struct {
	N       int
	Cols    int
	Size    int
	MaxSize int
}

// normalize fills in MaxSize when the caller left it at zero.
func (l Layout) normalize() Layout {
	if l.MaxSize == 0 {
		l.MaxSize = l.Size
	}
	return l
}

// Bytes returns the exact byte length of a container with this layout and
// the given bytes-per-scalar (8 for i64/f64, or a backend-specific value
// for a prepared/DFT container). No padding is added beyond what alignUp
// contributes when allocating a fresh owning buffer.
func (l Layout) Bytes(scalarBytes int) int {
	l = l.normalize()
	return l.N * l.Cols * l.MaxSize * scalarBytes
}

func alignUp(n int) int {
	if r := n % alignment; r != 0 {
		n += alignment - r
	}
	return n
}

// checkShape panics with a Precondition if two layouts disagree on the
// ring degree N; it compares no other field.
func checkShape(op string, a, b Layout) {
	xerrors.Require(op, a.N == b.N, "ring degree N mismatch")
}
