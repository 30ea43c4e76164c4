// Package vmp implements the gadget-decomposed vector-matrix product: the
// numerical heart of every key-switch, external product, and automorphism
// in this engine. Grounded on the teacher's gadgetciphertext.go decompose
// loop and core/rgsw external-product accumulation, generalized from the
// teacher's fixed RNS-basis digit decomposition to single-modulus base-2^k
// limb decomposition (spec §4.5).
package vmp

import (
	"github.com/latticeforge/corefhe/backend"
	"github.com/latticeforge/corefhe/ring"
	"github.com/latticeforge/corefhe/scratch"
	"github.com/latticeforge/corefhe/xerrors"
)

// TmpBytes reports a scratch budget for Apply: one row-digit DFT buffer
// of dsize limbs, colsOut DFT accumulators of sizeM limbs, the carry
// column NormalizeColumn borrows, and one sizeM-limb i64 column. Apply
// also takes a second i64 column (its out.Size()-limb normalized copy),
// which this figure does not count.
func TmpBytes(n, dsize, colsOut, sizeM, scalarBytes int) int {
	rowDigit := n * dsize * scalarBytes
	accumulators := n * colsOut * sizeM * scalarBytes
	carry := n * 8
	tmpCol := n * sizeM * 8
	return rowDigit + accumulators + carry + tmpCol
}

// Apply computes, for row in [0, M.Rows()):
//
//	out[j] += Decomp_row(in)(X) . M[row][colIn][j](X)
//
// over the DFT domain, then inverse-transforms, normalizes, and ADDS every
// output column onto out's existing content at digit width base2k (spec
// §4.5). Callers that want a fresh result rather than an accumulation must
// zero out first. in must have at least M.Rows()*dsize limbs from
// row*dsize onward; colIn selects which input column of M to read the
// gadget rows from (for multi-column M, e.g. a GGLWE key-switch with
// rank_in > 1, callers invoke Apply once per input column; the add
// semantics let those calls accumulate into the same out without clobbering
// each other).
func Apply(mod *backend.Module, out *ring.VecZnx, base2k int, in *ring.VecZnx, inCol int, m *ring.VmpPMat, colIn, dsize int, sc *scratch.Scratch) {
	n := mod.N()
	xerrors.Require("vmp.Apply", m.N() == n && in.N() == n && out.N() == n, "ring degree mismatch")
	xerrors.Require("vmp.Apply", out.Cols() == m.ColsOut(), "output column count mismatch")

	be := mod.Backend()
	colsOut := m.ColsOut()
	sizeM := m.Size()

	accs := make([]*ring.VecZnxDft, colsOut)
	for j := 0; j < colsOut; j++ {
		accs[j] = sc.TakeVecZnxDft(n, 1, sizeM, be.ScalarBytes(), be.Tag())
	}

	rowDigit := sc.TakeVecZnxDft(n, 1, dsize, be.ScalarBytes(), be.Tag())

	for row := 0; row < m.Rows(); row++ {
		decompRow(be, rowDigit, in, inCol, row, dsize)

		for j := 0; j < colsOut; j++ {
			for d := 0; d < dsize; d++ {
				for limb := 0; limb+d < sizeM; limb++ {
					be.MulAccDft(rowDigit.Slot(0, d), m.Column(row, colIn, limb, j), accs[j].Slot(0, limb+d))
				}
			}
		}
	}

	carry := sc.TakeInt64(n)
	big := sc.TakeVecZnxBig(n, 1, sizeM)
	tmp := sc.TakeVecZnx(n, 1, out.Size())
	for j := 0; j < colsOut; j++ {
		for lim := 0; lim < sizeM; lim++ {
			be.IDFTTmpA(accs[j].Slot(0, lim), big.At(0, lim))
		}
		ring.NormalizeColumn(tmp, 0, big, base2k, carry)
		for lim := 0; lim < out.Size(); lim++ {
			dst, src := out.At(j, lim), tmp.At(0, lim)
			for i := range dst {
				dst[i] += src[i]
			}
		}
	}
}

// Prepare forward-transforms every cell of m into a fresh VmpPMat ready for
// Apply (spec §4.11, "prepare"). m's rows/cols_in/cols_out/size become the
// VmpPMat's shape; the backend's DFT is applied limb by limb, column by
// column, cell by cell.
func Prepare(mod *backend.Module, m *ring.MatZnx) *ring.VmpPMat {
	n := mod.N()
	be := mod.Backend()
	out := ring.NewVmpPMat(n, m.Rows(), m.ColsIn(), m.ColsOut(), m.Size(), be.ScalarBytes(), be.Tag())

	for row := 0; row < m.Rows(); row++ {
		for colIn := 0; colIn < m.ColsIn(); colIn++ {
			cell := m.Cell(row, colIn)
			for colOut := 0; colOut < m.ColsOut(); colOut++ {
				for limb := 0; limb < m.Size(); limb++ {
					be.DFT(cell.At(colOut, limb), out.Column(row, colIn, limb, colOut))
				}
			}
		}
	}
	return out
}

// decompRow extracts the dsize-limb digit of in starting at row*dsize and
// forward-transforms each of its limbs into dst (spec §4.5,
// "Decomp_row"). Limbs past in's allocated size are treated as zero,
// matching a gadget row reading past a shorter ciphertext's precision.
func decompRow(be backend.Backend, dst *ring.VecZnxDft, in *ring.VecZnx, inCol, row, dsize int) {
	base := row * dsize
	zero := make([]int64, in.N())
	for d := 0; d < dsize; d++ {
		limb := base + d
		src := zero
		if limb < in.Size() {
			src = in.At(inCol, limb)
		}
		be.DFT(src, dst.Slot(0, d))
	}
}
