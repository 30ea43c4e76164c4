package glwe

import (
	"github.com/latticeforge/corefhe/backend"
	"github.com/latticeforge/corefhe/ring"
	"github.com/latticeforge/corefhe/scratch"
	"github.com/latticeforge/corefhe/xerrors"
)

// MulTmpBytes reports the scratch Mul needs: three DFT accumulators plus
// the normalize carry, on top of whatever the relinearizing KeySwitch asks
// for.
func MulTmpBytes(n, size, scalarBytes, dsize, colsOut int) int {
	tensor := 3 * n * size * scalarBytes
	carry := n * 8
	relin := dsize * n * colsOut * size * scalarBytes
	return tensor + carry + relin
}

// Mul tensors two rank-1 ciphertexts and immediately relinearizes the
// result with rlk (spec §3's tensoring product followed by relin, grounded
// on the teacher's Evaluator.MulRelinNew / Relinearize pair — GadgetProduct
// on the quadratic term, then a plain add of the linear terms). Both
// operands and out must have rank 1; Non-goals exclude full degree>2
// tensoring chains (spec §4 Non-goals, "bootstrapping of ciphertexts with
// rank greater than..." carries over to multiplication as well).
func Mul(mod *backend.Module, out *Ciphertext, a, b *Ciphertext, rlk *TensorKey, sc *scratch.Scratch) {
	xerrors.Require("glwe.Mul", a.Rank() == 1 && b.Rank() == 1 && out.Rank() == 1, "Mul supports rank-1 operands only")
	xerrors.Require("glwe.Mul", a.Value.Size() == b.Value.Size() && a.Value.Size() == out.Value.Size(), "limb count mismatch")

	n := mod.N()
	size := a.Value.Size()
	be := mod.Backend()

	aB, aA := colView(a.Value, 0), colView(a.Value, 1)
	bB, bA := colView(b.Value, 0), colView(b.Value, 1)

	dftB0 := sc.TakeVecZnxDft(n, 1, size, be.ScalarBytes(), be.Tag())
	dftA0 := sc.TakeVecZnxDft(n, 1, size, be.ScalarBytes(), be.Tag())
	dftB1 := sc.TakeVecZnxDft(n, 1, size, be.ScalarBytes(), be.Tag())
	dftA1 := sc.TakeVecZnxDft(n, 1, size, be.ScalarBytes(), be.Tag())
	for j := 0; j < size; j++ {
		be.DFT(aB.At(0, j), dftB0.Slot(0, j))
		be.DFT(aA.At(0, j), dftA0.Slot(0, j))
		be.DFT(bB.At(0, j), dftB1.Slot(0, j))
		be.DFT(bA.At(0, j), dftA1.Slot(0, j))
	}

	c0Dft := sc.TakeVecZnxDft(n, 1, size, be.ScalarBytes(), be.Tag())
	c1Dft := sc.TakeVecZnxDft(n, 1, size, be.ScalarBytes(), be.Tag())
	c2Dft := sc.TakeVecZnxDft(n, 1, size, be.ScalarBytes(), be.Tag())
	for j := 0; j < size; j++ {
		be.MulAccDft(dftB0.Slot(0, j), dftB1.Slot(0, j), c0Dft.Slot(0, j))
		be.MulAccDft(dftB0.Slot(0, j), dftA1.Slot(0, j), c1Dft.Slot(0, j))
		be.MulAccDft(dftA0.Slot(0, j), dftB1.Slot(0, j), c1Dft.Slot(0, j))
		be.MulAccDft(dftA0.Slot(0, j), dftA1.Slot(0, j), c2Dft.Slot(0, j))
	}

	c0 := ring.NewVecZnx(n, 1, size)
	c1 := ring.NewVecZnx(n, 1, size)
	c2 := ring.NewVecZnx(n, 1, size)
	carry := sc.TakeInt64(n)
	big := sc.TakeVecZnxBig(n, 1, size)
	for j := 0; j < size; j++ {
		be.IDFTTmpA(c0Dft.Slot(0, j), big.At(0, j))
	}
	ring.NormalizeColumn(c0, 0, big, out.Base2K, carry)
	big2 := sc.TakeVecZnxBig(n, 1, size)
	for j := 0; j < size; j++ {
		be.IDFTTmpA(c1Dft.Slot(0, j), big2.At(0, j))
	}
	ring.NormalizeColumn(c1, 0, big2, out.Base2K, carry)
	big3 := sc.TakeVecZnxBig(n, 1, size)
	for j := 0; j < size; j++ {
		be.IDFTTmpA(c2Dft.Slot(0, j), big3.At(0, j))
	}
	ring.NormalizeColumn(c2, 0, big3, out.Base2K, carry)

	key, ok := rlk.Keys[[2]int{1, 1}]
	xerrors.Require("glwe.Mul", ok, "tensor key missing the s_1*s_1 relinearization entry")

	relinIn := NewCiphertext(n, 1, size, out.Base2K)
	colView(relinIn.Value, 1).CopyFrom(c2)

	relinOut := NewCiphertext(n, out.Rank(), size, out.Base2K)
	KeySwitch(mod, relinOut, relinIn, key, sc)

	out.Value.Zero()
	colView(out.Value, 0).CopyFrom(c0)
	colView(out.Value, 1).CopyFrom(c1)
	out.Value.Add(relinOut.Value)
}
