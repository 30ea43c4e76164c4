package lwe

import (
	"github.com/latticeforge/corefhe/backend"
	"github.com/latticeforge/corefhe/glwe"
	"github.com/latticeforge/corefhe/rand"
	"github.com/latticeforge/corefhe/ring"
	"github.com/latticeforge/corefhe/scratch"
	"github.com/latticeforge/corefhe/xerrors"
)

// SampleExtract reads the idx-th coefficient of in out as an LWE sample
// of dimension rank(in)*N (spec §4.9): the mask columns are copied
// verbatim into out's a-components, and the GLWE secret coefficients
// that decrypt this sample are ExtractedSecret(sk, idx), not sk itself —
// extraction rotates the role of secret and mask so that the ciphertext
// data needs no rewriting.
func SampleExtract(out *Ciphertext, in *glwe.Ciphertext, idx int) {
	n := in.Value.N()
	r := in.Rank()
	xerrors.Require("lwe.SampleExtract", idx >= 0 && idx < n, "coefficient index out of range")
	xerrors.Require("lwe.SampleExtract", out.Dimension() == r*n, "output dimension mismatch")
	xerrors.Require("lwe.SampleExtract", out.Value.Size() == in.Value.Size(), "limb count mismatch")

	for limb := 0; limb < in.Value.Size(); limb++ {
		dst := out.Value.At(0, limb)
		dst[0] = in.Value.At(0, limb)[idx]
		for k := 1; k <= r; k++ {
			src := in.Value.At(k, limb)
			copy(dst[1+(k-1)*n:1+k*n], src)
		}
	}
}

// ExtractedSecret returns the LWE secret of dimension rank(sk)*N under
// which SampleExtract's output decrypts (spec §4.9): column k, slot m of
// the result is sign(idx-m)*sk[k][(idx-m) mod N], the permutation-and-sign
// of sk's coefficients that the negacyclic convolution's symmetry pushes
// onto the secret side once the mask side is left untouched.
func ExtractedSecret(sk *glwe.SecretKey, idx int) *SecretKey {
	n := sk.Value.N()
	r := sk.Rank()
	xerrors.Require("lwe.ExtractedSecret", idx >= 0 && idx < n, "coefficient index out of range")

	out := NewSecretKey(r * n)
	for k := 0; k < r; k++ {
		s := sk.Value.At(k)
		for m := 0; m < n; m++ {
			var v int64
			if idx >= m {
				v = s[idx-m]
			} else {
				v = -s[idx-m+n]
			}
			out.Value[k*n+m] = v
		}
	}
	return out
}

// virtualGLWESecret embeds an LWE secret of dimension m as a rank-m GLWE
// secret whose columns are degree-0 polynomials holding one LWE secret
// coefficient each, so GenSwitchingKey's gadget machinery can be reused
// unchanged to switch between LWE-shaped and GLWE-shaped keys (the same
// trick glwe.GenTensorKey uses to relinearize via a virtual secret).
func virtualGLWESecret(n int, lweSk *SecretKey) *glwe.SecretKey {
	out := glwe.NewSecretKey(n, len(lweSk.Value))
	for k, v := range lweSk.Value {
		out.Value.At(k)[0] = v
	}
	return out
}

// virtualGLWECiphertext embeds an LWE sample as a rank-dimension(in) GLWE
// ciphertext whose columns each carry one LWE coefficient at degree 0,
// mirroring virtualGLWESecret.
func virtualGLWECiphertext(n int, in *Ciphertext) *glwe.Ciphertext {
	size := in.Value.Size()
	ct := glwe.NewCiphertext(n, in.Dimension(), size, in.Base2K)
	for limb := 0; limb < size; limb++ {
		src := in.Value.At(0, limb)
		ct.Value.At(0, limb)[0] = src[0]
		for k := 0; k < in.Dimension(); k++ {
			ct.Value.At(k+1, limb)[0] = src[1+k]
		}
	}
	return ct
}

// lweFromVirtual is the inverse of virtualGLWECiphertext: it reads the
// degree-0 coefficient of every column of a rank-dimension(out) GLWE
// ciphertext back into an LWE sample.
func lweFromVirtual(out *Ciphertext, ct *glwe.Ciphertext) {
	for limb := 0; limb < ct.Value.Size(); limb++ {
		dst := out.Value.At(0, limb)
		dst[0] = ct.Value.At(0, limb)[0]
		for k := 0; k < out.Dimension(); k++ {
			dst[1+k] = ct.Value.At(k+1, limb)[0]
		}
	}
}

// GenLWEToGLWEKey builds the switching key from an LWE secret to a GLWE
// secret (spec §4.9): an ordinary GLWESwitchingKey with dsize fixed to 1
// and rank_in set to the LWE dimension.
func GenLWEToGLWEKey(mod *backend.Module, lweSk *SecretKey, glweSk *glwe.SecretKey, base2k, size int, sigma float64, bound int64, src *rand.Source, sc *scratch.Scratch) *glwe.SwitchingKey {
	virtualSk := virtualGLWESecret(mod.N(), lweSk)
	return glwe.GenSwitchingKey(mod, virtualSk, glweSk, 1, base2k, size, sigma, bound, src, sc)
}

// LWEToGLWE packs in into a GLWE whose slot 0 carries in's message, via
// the degree-0 embedding and an ordinary GLWE key-switch (spec §4.9).
func LWEToGLWE(mod *backend.Module, out *glwe.Ciphertext, in *Ciphertext, key *glwe.SwitchingKey, sc *scratch.Scratch) {
	virtual := virtualGLWECiphertext(mod.N(), in)
	glwe.KeySwitch(mod, out, virtual, key, sc)
}

// GenGLWEToLWEKey builds the switching key that repairs a SampleExtract
// output, taking it from the extraction secret (ExtractedSecret(glweSk,
// idx), dimension rank(glweSk)*N) to a canonical LWE secret of the
// caller's choosing (spec §4.9).
func GenGLWEToLWEKey(mod *backend.Module, glweSk *glwe.SecretKey, idx int, lweSk *SecretKey, base2k, size int, sigma float64, bound int64, src *rand.Source, sc *scratch.Scratch) *glwe.SwitchingKey {
	extracted := ExtractedSecret(glweSk, idx)
	virtualIn := virtualGLWESecret(mod.N(), extracted)
	virtualOut := virtualGLWESecret(mod.N(), lweSk)
	return glwe.GenSwitchingKey(mod, virtualIn, virtualOut, 1, base2k, size, sigma, bound, src, sc)
}

// GLWEToLWE repairs a SampleExtract output in (under ExtractedSecret) into
// out, an LWE sample under the canonical secret key was generated for
// (spec §4.9).
func GLWEToLWE(mod *backend.Module, out *Ciphertext, in *Ciphertext, key *glwe.SwitchingKey, sc *scratch.Scratch) {
	n := mod.N()
	virtualIn := virtualGLWECiphertext(n, in)
	virtualOut := glwe.NewCiphertext(n, out.Dimension(), in.Value.Size(), out.Base2K)
	glwe.KeySwitch(mod, virtualOut, virtualIn, key, sc)
	lweFromVirtual(out, virtualOut)
}

// Decrypt computes m_approx = b + sum a_i*s_i and normalizes (LWE
// counterpart of glwe.Decrypt). The accumulation is done in a degenerate
// one-coefficient VecZnxBig/NormalizeColumn pair so the same carry
// discipline as every ring-valued container applies here too.
func Decrypt(ct *Ciphertext, sk *SecretKey, base2k int) *Plaintext {
	n := ct.Dimension()
	size := ct.Value.Size()
	xerrors.Require("lwe.Decrypt", n == len(sk.Value), "secret dimension mismatch")

	big := ring.NewVecZnxBig(1, 1, size)
	for limb := 0; limb < size; limb++ {
		row := ct.Value.At(0, limb)
		acc := row[0]
		for i, s := range sk.Value {
			acc += row[1+i] * s
		}
		big.At(0, limb)[0] = acc
	}

	out := ring.NewVecZnx(1, 1, size)
	carry := make([]int64, 1)
	ring.NormalizeColumn(out, 0, big, base2k, carry)

	pt := NewPlaintext(size)
	for limb := 0; limb < size; limb++ {
		pt.Value[limb] = out.At(0, limb)[0]
	}
	return pt
}

// Encrypt samples a fresh LWE encryption of pt under sk (LWE counterpart
// of glwe.Encrypt): a is uniform at every limb, b = m - sum a_i*s_i + e,
// carry-propagated the same way glwe.Encrypt folds its DFT accumulator.
func Encrypt(ct *Ciphertext, pt *Plaintext, sk *SecretKey, sigma float64, bound int64, src *rand.Source) {
	n := ct.Dimension()
	size := ct.Value.Size()
	xerrors.Require("lwe.Encrypt", n == len(sk.Value), "secret dimension mismatch")

	for limb := 0; limb < size; limb++ {
		row := ct.Value.At(0, limb)
		for i := 1; i <= n; i++ {
			row[i] = int64(src.ReadUint64())
		}
	}

	e := ring.NewScalarZnx(1, 1)
	ring.FillDiscreteGaussian(e, sigma, bound, src)

	big := ring.NewVecZnxBig(1, 1, size)
	for limb := 0; limb < size; limb++ {
		row := ct.Value.At(0, limb)
		acc := int64(0)
		for i := 1; i <= n; i++ {
			acc -= row[i] * sk.Value[i-1]
		}
		big.At(0, limb)[0] = acc
	}
	big.At(0, 0)[0] += pt.Value[0] + e.At(0)[0]

	body := ring.NewVecZnx(1, 1, size)
	carry := make([]int64, 1)
	ring.NormalizeColumn(body, 0, big, ct.Base2K, carry)
	for limb := 0; limb < size; limb++ {
		ct.Value.At(0, limb)[0] = body.At(0, limb)[0]
	}
}
