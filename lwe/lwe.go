// Package lwe implements LWE ciphertexts (spec §3) and the two directions
// of conversion with GLWE (§4.9): sample extraction (reading one GLWE
// coefficient out as an LWE sample) and the reverse packing direction,
// both built as ordinary GLWE switching keys over a degree-0 "virtual"
// GLWE representation of an LWE sample. Grounded on the teacher's lwe
// package (lwe.go, lwe_to_rlwe.go, rlwe_to_lwe.go), adapted from the
// teacher's fixed RNS ring.Poly to this module's Zn/VecZnx containers.
package lwe

import (
	"github.com/latticeforge/corefhe/ring"
)

// Ciphertext is an LWE sample: Zn(n, 1, size) holding (b, a_1, ..., a_n)
// packed as the n+1 coefficients of its single column (spec §3).
type Ciphertext struct {
	Value  *ring.Zn
	Base2K int
}

func NewCiphertext(n, size, base2k int) *Ciphertext {
	return &Ciphertext{Value: ring.NewZn(n, 1, size), Base2K: base2k}
}

// Dimension returns n, the LWE secret dimension.
func (c *Ciphertext) Dimension() int { return c.Value.Dimension() }

// SecretKey is a raw LWE secret of dimension n, one coefficient per slot,
// stored without limb decomposition (it is never itself gadget-encrypted,
// only ever the "input" side of a switching key).
type SecretKey struct {
	Value []int64
}

func NewSecretKey(n int) *SecretKey {
	return &SecretKey{Value: make([]int64, n)}
}

// Plaintext is the decoded scalar message carried by one LWE sample, one
// value per limb.
type Plaintext struct {
	Value []int64
}

func NewPlaintext(size int) *Plaintext {
	return &Plaintext{Value: make([]int64, size)}
}
