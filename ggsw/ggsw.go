// Package ggsw implements GGSW ciphertexts and the external product (spec
// §4.6, §4.7). A GGSW ciphertext is a gadget-encrypted matrix of GLWE
// encryptions of mu*s_j*B^i for every digit i and secret component j
// (including the virtual j=0 "s_0 = 1" column), reusing the VmpPMat layout
// vmp.Apply already knows how to consume. Grounded on the teacher's
// core/rgsw package: rgsw.Ciphertext is the same "gadget row per digit,
// block per secret component" shape, and ExternalProduct is <RLWE, RGSW[0]>,
// <RLWE, RGSW[1]> generalized here to rank+1 components and an arbitrary
// VMP back end instead of the teacher's fixed RNS externalProduct kernels.
package ggsw

import (
	"github.com/latticeforge/corefhe/backend"
	"github.com/latticeforge/corefhe/glwe"
	"github.com/latticeforge/corefhe/rand"
	"github.com/latticeforge/corefhe/ring"
	"github.com/latticeforge/corefhe/scratch"
	"github.com/latticeforge/corefhe/vmp"
	"github.com/latticeforge/corefhe/xerrors"
)

// Ciphertext is a GGSW encryption: a VmpPMat of shape
// (n, dnum, rank+1, rank+1, size), prepared for the module's backend.
type Ciphertext struct {
	Prepared *ring.VmpPMat
	DSize    int
	Base2K   int
}

func (c *Ciphertext) Rank() int { return c.Prepared.ColsIn() - 1 }

// EncryptTmpBytes reports the scratch Encrypt needs for one gadget row's
// worth of fresh GLWE encryptions.
func EncryptTmpBytes(n, rank, size int) int {
	return glwe.EncryptTmpBytes(n, size) + n*(rank+1)*size*8
}

// Encrypt builds a GGSW encryption of msg under sk (spec §4.6): for each
// digit row i and secret component j (j=0 standing for the virtual
// s_0 = 1), it encrypts zero under sk and adds msg*B^i into column j at
// limb i — the same raw-coefficient gadget placement GenSwitchingKey uses
// for key material, here applied to a plaintext message instead of a
// secret-key column.
func Encrypt(mod *backend.Module, msg *ring.ScalarZnx, sk *glwe.SecretKey, dsize, base2k, size int, sigma float64, bound int64, src *rand.Source, sc *scratch.Scratch) *Ciphertext {
	n := mod.N()
	rank := sk.Rank()
	rows := (size + dsize - 1) / dsize

	m := ring.NewMatZnx(n, rows, rank+1, rank+1, size)
	for row := 0; row < rows; row++ {
		for j := 0; j <= rank; j++ {
			ct := glwe.NewCiphertext(n, rank, size, base2k)
			pt := glwe.NewPlaintext(n, size, base2k)
			glwe.Encrypt(mod, ct, pt, sk, sigma, bound, src, sc)

			if row < size {
				dst := ct.Value.At(j, row)
				src := msg.At(0)
				for i := range dst {
					dst[i] += src[i]
				}
			}

			cell := m.Cell(row, j)
			cell.CopyFrom(ct.Value)
		}
	}

	return &Ciphertext{Prepared: vmp.Prepare(mod, m), DSize: dsize, Base2K: base2k}
}

// ExternalProductTmpBytes reports the scratch ExternalProduct needs.
func ExternalProductTmpBytes(n, rank, dsize, size, scalarBytes int) int {
	return vmp.TmpBytes(n, dsize, rank+1, size, scalarBytes)
}

// ExternalProduct computes the GLWE x GGSW product (spec §4.7): every
// column of in, including the body, is gadget-decomposed and multiplied
// against its matching GGSW block, with results accumulated across columns
// (vmp.Apply's add semantics do the accumulation; out is zeroed first so
// callers get a fresh product rather than one compounded onto old content).
func ExternalProduct(mod *backend.Module, out *glwe.Ciphertext, in *glwe.Ciphertext, ct *Ciphertext, sc *scratch.Scratch) {
	xerrors.Require("ggsw.ExternalProduct", in.Rank() == ct.Rank(), "rank mismatch")
	xerrors.Require("ggsw.ExternalProduct", out.Rank() == ct.Rank(), "rank mismatch")

	out.Value.Zero()
	for c := 0; c <= in.Rank(); c++ {
		vmp.Apply(mod, out.Value, out.Base2K, in.Value, c, ct.Prepared, c, ct.DSize, sc)
	}
}

// ExternalProductInplace is ExternalProduct writing back into io.
func ExternalProductInplace(mod *backend.Module, io *glwe.Ciphertext, ct *Ciphertext, sc *scratch.Scratch) {
	tmp := glwe.NewCiphertext(mod.N(), io.Rank(), io.Value.Size(), io.Base2K)
	ExternalProduct(mod, tmp, io, ct, sc)
	io.Value.CopyFrom(tmp.Value)
}
