// Package glwe implements GLWE ciphertexts and plaintexts, their
// encryption/decryption under a prepared secret, and the key-switching
// machinery (switching keys, automorphism keys, trace, tensor keys) that
// every higher-level operation is built from (spec §3, §4.6, §4.8). It is
// grounded on the teacher's rlwe package (Ciphertext/Plaintext/Encryptor/
// evaluator_automorphism.go), generalized from the teacher's RNS-basis
// ring to the single-modulus, limb-decomposed VecZnx of this module.
package glwe

import (
	"github.com/latticeforge/corefhe/backend"
	"github.com/latticeforge/corefhe/rand"
	"github.com/latticeforge/corefhe/ring"
	"github.com/latticeforge/corefhe/scratch"
	"github.com/latticeforge/corefhe/vmp"
	"github.com/latticeforge/corefhe/xerrors"
)

// Plaintext is a single-column VecZnx holding a GLWE message (spec §3).
type Plaintext struct {
	Value   *ring.VecZnx
	Base2K  int
}

// NewPlaintext allocates a zeroed plaintext of the given ring degree and
// limb count.
func NewPlaintext(n, size, base2k int) *Plaintext {
	return &Plaintext{Value: ring.NewVecZnx(n, 1, size), Base2K: base2k}
}

// SecretKey holds the r secret polynomials s_1..s_r of a GLWE secret of
// a given rank, stored ternary or binary depending on key-generation
// policy (fill_* chosen by the caller).
type SecretKey struct {
	Value *ring.ScalarZnx // cols = rank
}

// NewSecretKey allocates a zeroed secret of the given rank.
func NewSecretKey(n, rank int) *SecretKey {
	return &SecretKey{Value: ring.NewScalarZnx(n, rank)}
}

func (sk *SecretKey) Rank() int { return sk.Value.Cols() }

// Ciphertext is a VecZnx(N, r+1, size) whose columns are (b, a_1, ..., a_r)
// with b = m - sum a_i*s_i + e (see Encrypt).
type Ciphertext struct {
	Value  *ring.VecZnx
	Base2K int
}

// NewCiphertext allocates a zeroed ciphertext of the given rank.
func NewCiphertext(n, rank, size, base2k int) *Ciphertext {
	return &Ciphertext{Value: ring.NewVecZnx(n, rank+1, size), Base2K: base2k}
}

func (c *Ciphertext) Rank() int { return c.Value.Cols() - 1 }

// EncryptTmpBytes reports the scratch Encrypt needs: one VecZnxBig
// accumulator for the body, plus normalization carry.
func EncryptTmpBytes(n, size int) int {
	return n*size*8 + ring.NormalizeTmpBytes(n)
}

// Encrypt fills ct in place with an encryption of pt under sk: samples
// a_i uniformly, computes b = m - sum a_i*s_i + e (spec §4.6). sigma/bound
// parameterize the discrete-Gaussian error.
func Encrypt(mod *backend.Module, ct *Ciphertext, pt *Plaintext, sk *SecretKey, sigma float64, bound int64, src *rand.Source, sc *scratch.Scratch) {
	n := mod.N()
	r := ct.Rank()
	xerrors.Require("glwe.Encrypt", sk.Rank() == r, "secret rank mismatch")
	xerrors.Require("glwe.Encrypt", ct.Value.N() == n && pt.Value.N() == n, "ring degree mismatch")

	size := ct.Value.Size()
	for i := 1; i <= r; i++ {
		ring.FillUniformVecZnx(colView(ct.Value, i), ct.Base2K, src)
	}

	be := mod.Backend()
	acc := sc.TakeVecZnxDft(n, 1, size, be.ScalarBytes(), be.Tag())
	skDft := sc.TakeVecZnxDft(n, 1, 1, be.ScalarBytes(), be.Tag())
	aDft := sc.TakeVecZnxDft(n, 1, size, be.ScalarBytes(), be.Tag())

	for i := 1; i <= r; i++ {
		be.DFT(sk.Value.At(i-1), skDft.Slot(0, 0))
		for j := 0; j < size; j++ {
			be.DFT(ct.Value.At(i, j), aDft.Slot(0, j))
			be.MulAccDft(aDft.Slot(0, j), skDft.Slot(0, 0), acc.Slot(0, j))
		}
	}

	body := sc.TakeVecZnx(n, 1, size)
	carry := sc.TakeInt64(n)
	accBig := sc.TakeVecZnxBig(n, 1, size)
	for j := 0; j < size; j++ {
		be.IDFTTmpA(acc.Slot(0, j), accBig.At(0, j))
	}
	ring.NormalizeColumn(body, 0, accBig, ct.Base2K, carry)

	e := ring.NewScalarZnx(n, 1)
	ring.FillDiscreteGaussian(e, sigma, bound, src)

	b := colView(ct.Value, 0)
	for j := 0; j < size; j++ {
		dst := b.At(0, j)
		bodyLimb := body.At(0, j)
		for i := range dst {
			dst[i] = -bodyLimb[i]
		}
	}
	if size > 0 {
		top := b.At(0, 0)
		em := e.At(0)
		for i := range top {
			top[i] += pt.Value.At(0, 0)[i] + em[i]
		}
	}
}

// colView returns a single-column VecZnx view sharing v's storage at
// column c.
func colView(v *ring.VecZnx, c int) *ring.VecZnx {
	return ring.VecZnxFromBytes(v.N(), 1, v.Size(), v.MaxSize(), singleColumnBytes(v, c))
}

func singleColumnBytes(v *ring.VecZnx, c int) []byte {
	full := v.Raw()
	cellsPerCol := len(full) / v.Cols()
	return full[c*cellsPerCol : (c+1)*cellsPerCol]
}

// DecryptTmpBytes reports the scratch Decrypt needs.
func DecryptTmpBytes(n, size int) int {
	return n*size*8 + ring.NormalizeTmpBytes(n)
}

// Decrypt computes m_approx = b + sum a_i*s_i, normalizes, and returns a
// Plaintext (spec §4.6).
func Decrypt(mod *backend.Module, ct *Ciphertext, sk *SecretKey, sc *scratch.Scratch) *Plaintext {
	n := mod.N()
	size := ct.Value.Size()
	r := ct.Rank()
	xerrors.Require("glwe.Decrypt", sk.Rank() == r, "secret rank mismatch")

	be := mod.Backend()
	acc := sc.TakeVecZnxDft(n, 1, size, be.ScalarBytes(), be.Tag())
	skDft := sc.TakeVecZnxDft(n, 1, 1, be.ScalarBytes(), be.Tag())
	aDft := sc.TakeVecZnxDft(n, 1, size, be.ScalarBytes(), be.Tag())

	for i := 1; i <= r; i++ {
		be.DFT(sk.Value.At(i-1), skDft.Slot(0, 0))
		for j := 0; j < size; j++ {
			be.DFT(ct.Value.At(i, j), aDft.Slot(0, j))
			be.MulAccDft(aDft.Slot(0, j), skDft.Slot(0, 0), acc.Slot(0, j))
		}
	}

	big := sc.TakeVecZnxBig(n, 1, size)
	for j := 0; j < size; j++ {
		be.IDFTTmpA(acc.Slot(0, j), big.At(0, j))
	}
	for j := 0; j < size; j++ {
		dst := big.At(0, j)
		b := ct.Value.At(0, j)
		for i := range dst {
			dst[i] += b[i]
		}
	}

	pt := NewPlaintext(n, size, ct.Base2K)
	carry := sc.TakeInt64(n)
	ring.NormalizeColumn(pt.Value, 0, big, ct.Base2K, carry)
	return pt
}

// SwitchingKey is a GGLWE (spec §3) from sk_in to sk_out: a prepared
// VmpPMat of shape (dnum, rank_in, rank_out+1, size).
type SwitchingKey struct {
	Prepared *ring.VmpPMat
	DSize    int
	Base2K   int
}

// KeySwitchTmpBytes reports the scratch KeySwitch needs.
func KeySwitchTmpBytes(n, dsize, colsOut, size, scalarBytes int) int {
	return vmp.TmpBytes(n, dsize, colsOut, size, scalarBytes)
}

// KeySwitch decomposes every mask column a_1..a_r of in against key and
// accumulates the gadget product into out, then adds in's body through
// unchanged (spec §4.5/§4.9: the body never depends on the secret, so only
// the masks need re-encrypting — the shared VMP machinery underlies every
// switching key consumer).
func KeySwitch(mod *backend.Module, out *Ciphertext, in *Ciphertext, key *SwitchingKey, sc *scratch.Scratch) {
	xerrors.Require("glwe.KeySwitch", in.Rank() == key.Prepared.ColsIn(), "rank_in mismatch")
	xerrors.Require("glwe.KeySwitch", out.Value.Cols() == key.Prepared.ColsOut(), "rank_out mismatch")

	out.Value.Zero()
	for c := 1; c <= in.Rank(); c++ {
		vmp.Apply(mod, out.Value, out.Base2K, in.Value, c, key.Prepared, c-1, key.DSize, sc)
	}
	colView(out.Value, 0).Add(colView(in.Value, 0))
}

// AutomorphismKey is a SwitchingKey from Aut_p(sk) back to sk, together
// with the Galois exponent it was built for (spec §4.8).
type AutomorphismKey struct {
	SwitchingKey
	P int
}

// ApplyAutomorphism computes Aut_p on every column of in and key-switches
// the result back to the original secret (spec §4.8).
func ApplyAutomorphism(mod *backend.Module, out *Ciphertext, in *Ciphertext, key *AutomorphismKey, idx *ring.AutomorphismIndex, sc *scratch.Scratch) {
	xerrors.Require("glwe.ApplyAutomorphism", idx.P == key.P, "automorphism index/key exponent mismatch")
	rotated := NewCiphertext(mod.N(), in.Rank(), in.Value.Size(), in.Base2K)
	ring.ApplyVecZnx(rotated.Value, in.Value, idx)
	KeySwitch(mod, out, rotated, &key.SwitchingKey, sc)
}

// TensorKey holds the (r+1)*r/2 switching keys encrypting every pairwise
// secret product s_i*s_j, used to relinearize after a tensoring
// multiplication (spec §3).
type TensorKey struct {
	Rank int
	Keys map[[2]int]*SwitchingKey
}

// NewTensorKey allocates an empty TensorKey for the given rank; callers
// populate Keys[[i,j]] during key generation.
func NewTensorKey(rank int) *TensorKey {
	return &TensorKey{Rank: rank, Keys: make(map[[2]int]*SwitchingKey)}
}
