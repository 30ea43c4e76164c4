package glwe

import (
	"github.com/latticeforge/corefhe/backend"
	"github.com/latticeforge/corefhe/ring"
	"github.com/latticeforge/corefhe/scratch"
	"github.com/latticeforge/corefhe/xerrors"
)

// TraceExponents returns the sequence of Galois exponents a Trace over a
// ring of degree n applies, in order: N+1, N/2+1, N/4+1, ..., 2+1 (spec
// §4.8). Each key generator supplies one AutomorphismKey per exponent.
func TraceExponents(n int) []int {
	exps := make([]int, 0)
	for step := n; step > 1; step >>= 1 {
		exps = append(exps, step+1)
	}
	return exps
}

// Trace folds in to its constant term by repeated automorphism-and-add,
// alternating the accumulated sign at each of log2(N) steps (spec §4.8).
// keys must hold one AutomorphismKey per TraceExponents(N()) entry.
func Trace(mod *backend.Module, out *Ciphertext, in *Ciphertext, keys map[int]*AutomorphismKey, sc *scratch.Scratch) {
	n := mod.N()
	out.Value.CopyFrom(in.Value)

	sign := 1
	for _, p := range TraceExponents(n) {
		key, ok := keys[p]
		xerrors.Require("glwe.Trace", ok, "missing automorphism key for trace exponent")

		idx := ring.NewAutomorphismIndex(n, p)
		rotated := NewCiphertext(n, out.Rank(), out.Value.Size(), out.Base2K)
		ApplyAutomorphism(mod, rotated, out, key, idx, sc)

		if sign > 0 {
			out.Value.Add(rotated.Value)
		} else {
			out.Value.Sub(rotated.Value)
		}
		sign = -sign
	}
}

// BitPack is the inverse of Trace restricted to the constant term: given up
// to N GLWE ciphertexts, each holding one bit in its constant coefficient,
// it assembles a single GLWE whose coefficient i carries bits[i]'s constant
// term. Multiplying a GLWE encryption of m(X) by the public monomial X^i
// homomorphically shifts m's constant term to coefficient i (spec §4.8,
// "bit-packing is the inverse routine"), so no key material is required.
func BitPack(mod *backend.Module, out *Ciphertext, bits []*Ciphertext) {
	n := mod.N()
	xerrors.Require("glwe.BitPack", len(bits) <= n, "too many bit ciphertexts for ring degree")

	out.Value.Zero()
	shifted := NewCiphertext(n, out.Rank(), out.Value.Size(), out.Base2K)
	for i, bit := range bits {
		xerrors.Require("glwe.BitPack", bit.Rank() == out.Rank(), "rank mismatch")
		ring.MulMonomial(shifted.Value, bit.Value, i)
		out.Value.Add(shifted.Value)
	}
}
