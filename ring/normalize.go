package ring

import "github.com/latticeforge/corefhe/xerrors"

// NormalizeTmpBytes returns the scratch size (in bytes) Normalize needs: a
// single column of i64 carry values (spec §4.3).
func NormalizeTmpBytes(n int) int {
	return n * 8
}

// centerMod reduces v modulo the power-of-two mod into the centred range
// (-mod/2, mod/2], returning both the residue and the carry quotient such
// that v == q*mod + r exactly.
func centerMod(v, mod, half int64) (r, q int64) {
	r = v & (mod - 1) // mod is a power of two; two's-complement AND gives the non-negative residue for any signed v.
	if r > half {
		r -= mod
	}
	q = (v - r) >> uint(bitLen(mod)-1)
	return
}

func bitLen(mod int64) int {
	n := 0
	for mod > 1 {
		mod >>= 1
		n++
	}
	return n + 1
}

// Normalize carry-propagates a VecZnxBig column from the least significant
// limb to the most, writing the centred result into out (spec §4.3). It is
// the only operation that converts a "big" polynomial back to a "small"
// one, and therefore the correctness hinge of every multiplication
// pipeline. carry must be at least NormalizeTmpBytes(in.N()) bytes,
// reinterpreted here as a length-N i64 scratch column.
func Normalize(out *VecZnx, in *VecZnxBig, base2k int, carry []int64) {
	xerrors.Require("Normalize", out.N() == in.N() && out.Cols() == in.Cols(), "shape mismatch")
	xerrors.Require("Normalize", len(carry) >= in.N(), "insufficient scratch")

	mod := int64(1) << uint(base2k)
	half := mod >> 1

	for c := 0; c < in.Cols(); c++ {
		for i := 0; i < in.N(); i++ {
			carry[i] = 0
		}
		for j := in.Size() - 1; j >= 0; j-- {
			src := in.At(c, j)
			var dst []int64
			if j < out.Size() {
				dst = out.At(c, j)
			}
			for i := 0; i < in.N(); i++ {
				v := src[i] + carry[i]
				r, q := centerMod(v, mod, half)
				if dst != nil {
					dst[i] = r
				}
				carry[i] = q
			}
		}
	}
}

// NormalizeColumn behaves like Normalize but reads a single-column
// VecZnxBig (in.Cols() must be 1) and writes into column outCol of a
// multi-column out. Used by vmp.Apply, which accumulates one DFT buffer
// per output column and normalizes each independently.
func NormalizeColumn(out *VecZnx, outCol int, in *VecZnxBig, base2k int, carry []int64) {
	xerrors.Require("NormalizeColumn", in.Cols() == 1, "in must have exactly one column")
	xerrors.Require("NormalizeColumn", out.N() == in.N(), "shape mismatch")
	xerrors.Require("NormalizeColumn", len(carry) >= in.N(), "insufficient scratch")

	mod := int64(1) << uint(base2k)
	half := mod >> 1

	for i := 0; i < in.N(); i++ {
		carry[i] = 0
	}
	for j := in.Size() - 1; j >= 0; j-- {
		src := in.At(0, j)
		var dst []int64
		if j < out.Size() {
			dst = out.At(outCol, j)
		}
		for i := 0; i < in.N(); i++ {
			v := src[i] + carry[i]
			r, q := centerMod(v, mod, half)
			if dst != nil {
				dst[i] = r
			}
			carry[i] = q
		}
	}
}

// NormalizeDigit is the digit-extraction variant of Normalize: it behaves
// identically but shifts the result left by lsh limbs before accumulating
// into dst, i.e. limb j of the normalized value lands in limb j-lsh of
// dst. Limbs that would land below 0 are dropped; dst is not zeroed first,
// so repeated calls accumulate (spec §4.3, "optional digit-extraction
// variants").
func NormalizeDigit(out *VecZnx, in *VecZnxBig, base2k, lsh int, carry []int64) {
	xerrors.Require("NormalizeDigit", out.N() == in.N() && out.Cols() == in.Cols(), "shape mismatch")
	xerrors.Require("NormalizeDigit", len(carry) >= in.N(), "insufficient scratch")

	mod := int64(1) << uint(base2k)
	half := mod >> 1

	for c := 0; c < in.Cols(); c++ {
		for i := 0; i < in.N(); i++ {
			carry[i] = 0
		}
		for j := in.Size() - 1; j >= 0; j-- {
			src := in.At(c, j)
			dstJ := j - lsh
			var dst []int64
			if dstJ >= 0 && dstJ < out.Size() {
				dst = out.At(c, dstJ)
			}
			for i := 0; i < in.N(); i++ {
				v := src[i] + carry[i]
				r, q := centerMod(v, mod, half)
				if dst != nil {
					dst[i] += r
				}
				carry[i] = q
			}
		}
	}
}
