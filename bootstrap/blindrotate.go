// Package bootstrap implements blind rotation and circuit bootstrapping
// (spec §4.10): turning an LWE sample into a GLWE (blind rotation), then
// into a full GGSW (circuit bootstrapping), entirely out of the
// already-built glwe/ggsw/lwe primitives. Grounded on the teacher's LUT
// evaluation in lwe/lut.go (ExtractAndEvaluateLUT's CMUX-per-coordinate
// structure) generalized from the teacher's per-coefficient RGSW
// multiplication to this module's ggsw.ExternalProduct, and on rgsw's
// blind-rotation test-vector convention for the lookup table itself.
package bootstrap

import (
	"github.com/latticeforge/corefhe/backend"
	"github.com/latticeforge/corefhe/ggsw"
	"github.com/latticeforge/corefhe/glwe"
	"github.com/latticeforge/corefhe/lwe"
	"github.com/latticeforge/corefhe/rand"
	"github.com/latticeforge/corefhe/ring"
	"github.com/latticeforge/corefhe/scratch"
	"github.com/latticeforge/corefhe/xerrors"
)

// BlindRotationKey holds one GGSW encryption of each LWE secret
// coordinate under the GLWE secret (spec §4.10): CMUXing through them in
// sequence is what lets the rotation amount stay hidden from the
// evaluator.
type BlindRotationKey struct {
	Keys []*ggsw.Ciphertext
}

// GenBlindRotationKey builds one GGSW per LWE secret coordinate.
func GenBlindRotationKey(mod *backend.Module, lweSk *lwe.SecretKey, glweSk *glwe.SecretKey, dsize, base2k, size int, sigma float64, bound int64, src *rand.Source, sc *scratch.Scratch) *BlindRotationKey {
	n := mod.N()
	keys := make([]*ggsw.Ciphertext, len(lweSk.Value))
	for i, s := range lweSk.Value {
		msg := ring.NewScalarZnx(n, 1)
		msg.At(0)[0] = s
		keys[i] = ggsw.Encrypt(mod, msg, glweSk, dsize, base2k, size, sigma, bound, src, sc)
	}
	return &BlindRotationKey{Keys: keys}
}

// CMUX computes out = sel ⊠ (ifOne - ifZero) + ifZero (spec glossary
// "CMUX"), the controlled-selector gate blind rotation chains through.
func CMUX(mod *backend.Module, out, ifZero, ifOne *glwe.Ciphertext, sel *ggsw.Ciphertext, sc *scratch.Scratch) {
	n := mod.N()
	size := ifZero.Value.Size()

	diff := glwe.NewCiphertext(n, ifZero.Rank(), size, ifZero.Base2K)
	diff.Value.CopyFrom(ifOne.Value)
	diff.Value.Sub(ifZero.Value)

	prod := glwe.NewCiphertext(n, ifZero.Rank(), size, ifZero.Base2K)
	ggsw.ExternalProduct(mod, prod, diff, sel, sc)

	out.Value.CopyFrom(ifZero.Value)
	out.Value.Add(prod.Value)
}

// trivialEncrypt builds a GLWE encryption of msg with every mask column
// zero (no secret, no noise) — the starting accumulator of blind
// rotation.
func trivialEncrypt(mod *backend.Module, rank int, msg *ring.VecZnx, base2k int) *glwe.Ciphertext {
	ct := glwe.NewCiphertext(mod.N(), rank, msg.Size(), base2k)
	ct.Value.Zero()
	for j := 0; j < msg.Size(); j++ {
		dst := ct.Value.At(0, j)
		copy(dst, msg.At(0, j))
	}
	return ct
}

// BlindRotate folds testVec's constant-slot convention (spec §4.10 step
// 1): the accumulator starts as a trivial encryption of testVec rotated
// by ct's body coefficient, then each LWE mask coefficient a_i rotates
// the accumulator by X^{a_i} conditioned on secret bit i via CMUX. The
// rotation amount is read directly off ct's raw limb-0 integer (mod 2N)
// since this container has no separate ciphertext modulus to round from.
func BlindRotate(mod *backend.Module, out *glwe.Ciphertext, testVec *ring.VecZnx, ct *lwe.Ciphertext, key *BlindRotationKey, sc *scratch.Scratch) {
	n := mod.N()
	xerrors.Require("bootstrap.BlindRotate", ct.Dimension() == len(key.Keys), "blind-rotation key size mismatch")

	acc := trivialEncrypt(mod, out.Rank(), testVec, out.Base2K)

	b := int(ct.Value.At(0, 0)[0])
	rotated := glwe.NewCiphertext(n, out.Rank(), out.Value.Size(), out.Base2K)
	ring.MulMonomial(rotated.Value, acc.Value, -b)
	acc = rotated

	for i, gg := range key.Keys {
		a := int(ct.Value.At(0, 0)[1+i])
		shifted := glwe.NewCiphertext(n, out.Rank(), out.Value.Size(), out.Base2K)
		ring.MulMonomial(shifted.Value, acc.Value, a)

		next := glwe.NewCiphertext(n, out.Rank(), out.Value.Size(), out.Base2K)
		CMUX(mod, next, acc, shifted, gg, sc)
		acc = next
	}

	out.Value.CopyFrom(acc.Value)
}
