package ring

import "github.com/latticeforge/corefhe/xerrors"

// MulMonomial multiplies every column of in by X^deg in R_N = Z[X]/(X^N+1)
// and writes the result into out (out may alias in). deg is reduced mod 2N;
// the top half of that range negates the wrapped coefficients, matching the
// negacyclic convention X^N = -1 (grounded on the teacher's
// Ring.MultByMonomial). Used to move a constant-term bit to coefficient i
// when packing several single-bit ciphertexts into one (spec §4.8).
func MulMonomial(out, in *VecZnx, deg int) {
	xerrors.Require("MulMonomial", out.N() == in.N() && out.Cols() == in.Cols() && out.Size() == in.Size(), "shape mismatch")

	n := in.N()
	shift := ((deg % (2 * n)) + 2*n) % (2 * n)

	for c := 0; c < in.Cols(); c++ {
		for j := 0; j < in.Size(); j++ {
			src := in.At(c, j)
			tmp := make([]int64, n)
			copy(tmp, src)

			dst := out.At(c, j)
			if shift == 0 {
				copy(dst, tmp)
				continue
			}

			neg := shift >= n
			s := shift % n
			for i := 0; i < n; i++ {
				var v int64
				var sign int64 = 1
				if i < s {
					v = tmp[n-s+i]
					sign = -1
				} else {
					v = tmp[i-s]
				}
				if neg {
					sign = -sign
				}
				dst[i] = sign * v
			}
		}
	}
}
