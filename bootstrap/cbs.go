package bootstrap

import (
	"github.com/latticeforge/corefhe/backend"
	"github.com/latticeforge/corefhe/ggsw"
	"github.com/latticeforge/corefhe/glwe"
	"github.com/latticeforge/corefhe/lwe"
	"github.com/latticeforge/corefhe/rand"
	"github.com/latticeforge/corefhe/ring"
	"github.com/latticeforge/corefhe/scratch"
	"github.com/latticeforge/corefhe/vmp"
)

// GGLWEToGGSWKey holds, for each of the r real secret components, a GGSW
// encryption of that component itself (spec glossary "GGLWEToGGSWKey":
// "the i-th encrypting row (s_i*s_0, ..., s_i*s_r)" — exactly the row a
// GGSW of message s_i already carries by construction). Circuit
// bootstrapping's row-assembly step external-products a plain GLWE of μ
// against Keys[j-1] to re-key it from "μ under s_0≡1" to "μ*s_j".
type GGLWEToGGSWKey struct {
	Keys []*ggsw.Ciphertext
}

// GenGGLWEToGGSWKey builds one GGSW encryption per secret component of sk.
func GenGGLWEToGGSWKey(mod *backend.Module, sk *glwe.SecretKey, dsize, base2k, size int, sigma float64, bound int64, src *rand.Source, sc *scratch.Scratch) *GGLWEToGGSWKey {
	keys := make([]*ggsw.Ciphertext, sk.Rank())
	for i := 0; i < sk.Rank(); i++ {
		msg := ring.NewScalarZnx(mod.N(), 1)
		copy(msg.At(0), sk.Value.At(i))
		keys[i] = ggsw.Encrypt(mod, msg, sk, dsize, base2k, size, sigma, bound, src, sc)
	}
	return &GGLWEToGGSWKey{Keys: keys}
}

// CircuitBootstrapTmpBytes reports the scratch CircuitBootstrap needs.
func CircuitBootstrapTmpBytes(n, rank, dsize, size, scalarBytes int) int {
	return ggsw.ExternalProductTmpBytes(n, rank, dsize, size, scalarBytes)
}

// shiftLimb returns a copy of in with every column's content moved from
// limb 0 to limb `limb` (all other limbs zeroed) — the container-level
// equivalent of scaling an encrypted value by 2^{-limb*base2k}, used to
// place a bit-extracted message at the gadget row its gadget weight
// expects (spec §4.10 step 2/3).
func shiftLimb(ct *glwe.Ciphertext, limb int) *glwe.Ciphertext {
	n := ct.Value.N()
	size := ct.Value.Size()
	out := glwe.NewCiphertext(n, ct.Rank(), size, ct.Base2K)
	if limb >= size {
		return out
	}
	for c := 0; c < ct.Value.Cols(); c++ {
		copy(out.Value.At(c, limb), ct.Value.At(c, 0))
	}
	return out
}

// CircuitBootstrap turns an LWE-encrypted scalar into a GGSW encryption of
// the same scalar under glweSk (spec §4.10): blind rotation produces a
// GLWE holding μ at slot 0, dnum copies of which — one per gadget row, via
// the trace-based bit-extract folding every other coefficient away and
// shiftLimb placing the surviving value at that row's limb — become the
// j=0 column of the new GGSW directly; the remaining r columns are
// obtained by external-producting each bit-extract result against
// ggswKey's per-component keys.
func CircuitBootstrap(mod *backend.Module, testVec *ring.VecZnx, ct *lwe.Ciphertext, rotKey *BlindRotationKey, traceKeys map[int]*glwe.AutomorphismKey, ggswKey *GGLWEToGGSWKey, rank, dsize, base2k, size int, sc *scratch.Scratch) *ggsw.Ciphertext {
	n := mod.N()
	rows := (size + dsize - 1) / dsize

	rotated := glwe.NewCiphertext(n, rank, size, base2k)
	BlindRotate(mod, rotated, testVec, ct, rotKey, sc)

	m := ring.NewMatZnx(n, rows, rank+1, rank+1, size)
	for row := 0; row < rows; row++ {
		traced := glwe.NewCiphertext(n, rank, size, base2k)
		glwe.Trace(mod, traced, rotated, traceKeys, sc)

		bitCt := shiftLimb(traced, row*dsize)

		cell0 := m.Cell(row, 0)
		cell0.CopyFrom(bitCt.Value)

		for j := 0; j < rank; j++ {
			colCt := glwe.NewCiphertext(n, rank, size, base2k)
			ggsw.ExternalProduct(mod, colCt, bitCt, ggswKey.Keys[j], sc)
			cell := m.Cell(row, j+1)
			cell.CopyFrom(colCt.Value)
		}
	}

	return &ggsw.Ciphertext{Prepared: vmp.Prepare(mod, m), DSize: dsize, Base2K: base2k}
}
