package ring

import "github.com/latticeforge/corefhe/xerrors"

// GaloisElementInv returns the multiplicative inverse of p modulo 2N: the
// exponent that undoes Aut_p (spec glossary, "galois_element_inv").
func GaloisElementInv(p, n int) int {
	m := 2 * n
	p = ((p % m) + m) % m
	inv := 1
	for i := 0; i < bitLenInt(m)+2; i++ {
		if (p*inv)%m == 1 {
			break
		}
		inv = (inv * (2 - (p*inv)%m)) % m
		if inv < 0 {
			inv += m
		}
	}
	return ((inv % m) + m) % m
}

func bitLenInt(n int) int {
	b := 0
	for n > 0 {
		n >>= 1
		b++
	}
	return b
}

// AutomorphismIndex precomputes the coefficient permutation and sign flips
// for Aut_p : X -> X^p on R_N = Z[X]/(X^N+1). Coefficient i of the source
// maps to position (i*p mod N), sign-flipped whenever i*p mod 2N wraps
// past N (spec §4.8), grounded on the teacher's coefficient-domain
// Permute: index = i*gen mod N, sign flipped when bit logN of i*gen is set.
type AutomorphismIndex struct {
	P    int
	n    int
	perm []int32
	sign []int8
}

// NewAutomorphismIndex builds the permutation table for Aut_p over R_N. p
// must be odd (coprime with 2N).
func NewAutomorphismIndex(n, p int) *AutomorphismIndex {
	xerrors.Require("NewAutomorphismIndex", p%2 != 0, "galois exponent must be odd")
	mask := uint32(n - 1)
	logN := bitLenInt(n) - 1
	perm := make([]int32, n)
	sign := make([]int8, n)
	for i := 0; i < n; i++ {
		raw := uint32(uint64(uint32(i)) * uint64(uint32(p)))
		idx := raw & mask
		wrap := (raw >> uint(logN)) & 1
		perm[i] = int32(idx)
		if wrap == 1 {
			sign[i] = -1
		} else {
			sign[i] = 1
		}
	}
	return &AutomorphismIndex{P: p, n: n, perm: perm, sign: sign}
}

// Apply writes Aut_p(src) into dst; dst and src must not alias.
func (a *AutomorphismIndex) Apply(dst, src []int64) {
	xerrors.Require("AutomorphismIndex.Apply", len(src) == a.n && len(dst) == a.n, "length mismatch")
	for i := 0; i < a.n; i++ {
		v := src[i]
		if a.sign[i] < 0 {
			v = -v
		}
		dst[a.perm[i]] = v
	}
}

// ApplyVecZnx applies Aut_p to every column and limb of src, writing into
// dst (which must be a distinct container of identical shape).
func ApplyVecZnx(dst, src *VecZnx, idx *AutomorphismIndex) {
	xerrors.Require("ApplyVecZnx", dst.N() == src.N() && dst.Cols() == src.Cols() && dst.Size() == src.Size(), "shape mismatch")
	for c := 0; c < src.Cols(); c++ {
		for j := 0; j < src.Size(); j++ {
			idx.Apply(dst.At(c, j), src.At(c, j))
		}
	}
}

// ApplyScalarZnx applies Aut_p to every column of src, writing into dst.
func ApplyScalarZnx(dst, src *ScalarZnx, idx *AutomorphismIndex) {
	xerrors.Require("ApplyScalarZnx", dst.N() == src.N() && dst.Cols() == src.Cols(), "shape mismatch")
	for c := 0; c < src.Cols(); c++ {
		idx.Apply(dst.At(c), src.At(c))
	}
}
