package glwe

import (
	"github.com/latticeforge/corefhe/backend"
	"github.com/latticeforge/corefhe/rand"
	"github.com/latticeforge/corefhe/ring"
	"github.com/latticeforge/corefhe/scratch"
	"github.com/latticeforge/corefhe/vmp"
	"github.com/latticeforge/corefhe/xerrors"
)

// GenSwitchingKey builds a GGLWE switching key re-encrypting skIn under
// skOut (spec §4.6), grounded on the teacher's KeyGenerator.genEvaluationKey:
// each gadget row is an encryption of zero under skOut with skIn's raw
// coefficients then added into the body limb that row owns. Because a
// VecZnx limb j already carries an implicit scale of 2^-(j+1)*base2k,
// injecting skIn unscaled at limb `row` is exactly the gadget-vector
// placement the teacher achieves via AddPolyTimesGadgetVectorToGadgetCiphertext.
func GenSwitchingKey(mod *backend.Module, skIn, skOut *SecretKey, dsize, base2k, size int, sigma float64, bound int64, src *rand.Source, sc *scratch.Scratch) *SwitchingKey {
	n := mod.N()
	colsIn := skIn.Rank()
	colsOut := skOut.Rank() + 1
	rows := (size + dsize - 1) / dsize

	m := ring.NewMatZnx(n, rows, colsIn, colsOut, size)
	for row := 0; row < rows; row++ {
		for c := 0; c < colsIn; c++ {
			ct := NewCiphertext(n, skOut.Rank(), size, base2k)
			pt := NewPlaintext(n, size, base2k)
			Encrypt(mod, ct, pt, skOut, sigma, bound, src, sc)

			if row < size {
				body := ct.Value.At(0, row)
				s := skIn.Value.At(c)
				for i := range body {
					body[i] += s[i]
				}
			}

			cell := m.Cell(row, c)
			cell.CopyFrom(ct.Value)
		}
	}

	return &SwitchingKey{Prepared: vmp.Prepare(mod, m), DSize: dsize, Base2K: base2k}
}

// GenAutomorphismKey builds the AutomorphismKey for Galois exponent p: a
// switching key from Aut_p(sk) back to sk (spec §4.8).
func GenAutomorphismKey(mod *backend.Module, sk *SecretKey, p, dsize, base2k, size int, sigma float64, bound int64, src *rand.Source, sc *scratch.Scratch) *AutomorphismKey {
	n := mod.N()
	idx := ring.NewAutomorphismIndex(n, p)
	rotatedSk := NewSecretKey(n, sk.Rank())
	ring.ApplyScalarZnx(rotatedSk.Value, sk.Value, idx)

	swk := GenSwitchingKey(mod, rotatedSk, sk, dsize, base2k, size, sigma, bound, src, sc)
	return &AutomorphismKey{SwitchingKey: *swk, P: p}
}

// GenTraceKeys builds one AutomorphismKey per exponent Trace needs for a
// ring of degree N() (spec §4.8).
func GenTraceKeys(mod *backend.Module, sk *SecretKey, dsize, base2k, size int, sigma float64, bound int64, src *rand.Source, sc *scratch.Scratch) map[int]*AutomorphismKey {
	keys := make(map[int]*AutomorphismKey)
	for _, p := range TraceExponents(mod.N()) {
		keys[p] = GenAutomorphismKey(mod, sk, p, dsize, base2k, size, sigma, bound, src, sc)
	}
	return keys
}

// mulSecret computes a*b over R_N for two raw (non-gadget) coefficient
// polynomials via the shared backend DFT, used only at key-generation time
// to build the s_i*s_j entries a TensorKey relinearizes against.
func mulSecret(mod *backend.Module, a, b []int64) []int64 {
	n := mod.N()
	be := mod.Backend()
	dftA := ring.NewVecZnxDft(n, 1, 1, be.ScalarBytes(), be.Tag())
	dftB := ring.NewVecZnxDft(n, 1, 1, be.ScalarBytes(), be.Tag())
	dftC := ring.NewVecZnxDft(n, 1, 1, be.ScalarBytes(), be.Tag())
	be.DFT(a, dftA.Slot(0, 0))
	be.DFT(b, dftB.Slot(0, 0))
	be.MulAccDft(dftA.Slot(0, 0), dftB.Slot(0, 0), dftC.Slot(0, 0))

	big := ring.NewVecZnxBig(n, 1, 1)
	be.IDFTTmpA(dftC.Slot(0, 0), big.At(0, 0))
	out := ring.NewScalarZnx(n, 1)
	carry := make([]int64, n)
	outVec := ring.VecZnxFromBytes(n, 1, 1, 1, out.Raw())
	ring.NormalizeColumn(outVec, 0, big, 62, carry)
	return out.At(0)
}

// GenTensorKey builds the relinearization key for a rank-1 secret: the
// single switching key from the virtual secret s_1*s_1 back to s_1 (spec
// §3's "tensor key", the general (r+1 choose 2) case left for a rank-1
// system where only one pairwise product exists).
func GenTensorKey(mod *backend.Module, sk *SecretKey, dsize, base2k, size int, sigma float64, bound int64, src *rand.Source, sc *scratch.Scratch) *TensorKey {
	xerrors.Require("glwe.GenTensorKey", sk.Rank() == 1, "GenTensorKey supports rank-1 secrets only")

	sq := mulSecret(mod, sk.Value.At(0), sk.Value.At(0))
	virtualSk := NewSecretKey(mod.N(), 1)
	copy(virtualSk.Value.At(0), sq)

	tk := NewTensorKey(1)
	tk.Keys[[2]int{1, 1}] = GenSwitchingKey(mod, virtualSk, sk, dsize, base2k, size, sigma, bound, src, sc)
	return tk
}
