// Package ntt120 implements the second backend named in spec §9: an
// exact-arithmetic NTT over a fixed two-prime CRT basis (120 bits total),
// as an alternative to fft64's floating-point approximation when a caller
// needs bit-exact frequency-domain arithmetic. The butterfly recursion is
// grounded on the teacher's ring.NTT/InvNTT (Cooley-Tukey with
// precomputed per-stage twiddle tables); the two 60-bit NTT-friendly
// primes are taken verbatim from the teacher's ring.Pi60 table.
package ntt120

import (
	"math/bits"

	"github.com/latticeforge/corefhe/ring"
)

// primes are two of the teacher's 60-bit NTT-friendly primes for N=65536
// (ring.Pi60[0], ring.Pi60[1]), giving a 120-bit CRT basis.
var primes = [2]uint64{576460752308273153, 576460752315482113}

const scalarBytes = 16 // 2 limbs x 8 bytes

// Backend implements backend.Backend over the two-prime CRT basis for a
// fixed ring degree N.
type Backend struct {
	n      int
	tables [2]*primeTable
}

type primeTable struct {
	q       uint64
	psi     []uint64 // forward per-stage twiddles, bit-reversed layout
	psiInv  []uint64 // inverse per-stage twiddles
	nInv    uint64
}

// New builds the twiddle tables for ring degree n (power of two).
func New(n int) *Backend {
	b := &Backend{n: n}
	for i, q := range primes {
		b.tables[i] = buildTable(n, q)
	}
	return b
}

func (b *Backend) Tag() ring.Tag    { return ring.TagNTT120 }
func (b *Backend) ScalarBytes() int { return scalarBytes }

// Limbs reinterprets a VecZnxDft slot's raw bytes as its two CRT limb
// arrays, each of length N.
func Limbs(slot []byte, n int) (lo, hi []uint64) {
	words := limbView(slot)
	return words[:n], words[n : 2*n]
}

func limbView(b []byte) []uint64 {
	out := make([]uint64, len(b)/8)
	for i := range out {
		out[i] = uint64(b[i*8]) | uint64(b[i*8+1])<<8 | uint64(b[i*8+2])<<16 | uint64(b[i*8+3])<<24 |
			uint64(b[i*8+4])<<32 | uint64(b[i*8+5])<<40 | uint64(b[i*8+6])<<48 | uint64(b[i*8+7])<<56
	}
	return out
}

func putLimbView(b []byte, words []uint64) {
	for i, w := range words {
		b[i*8] = byte(w)
		b[i*8+1] = byte(w >> 8)
		b[i*8+2] = byte(w >> 16)
		b[i*8+3] = byte(w >> 24)
		b[i*8+4] = byte(w >> 32)
		b[i*8+5] = byte(w >> 40)
		b[i*8+6] = byte(w >> 48)
		b[i*8+7] = byte(w >> 56)
	}
}

// DFT reduces a's N signed coefficients into both CRT limbs and runs the
// forward NTT on each independently.
func (b *Backend) DFT(a []int64, dst []byte) {
	lo, hi := Limbs(dst, b.n)
	for i, v := range a {
		lo[i] = reduce(v, b.tables[0].q)
		hi[i] = reduce(v, b.tables[1].q)
	}
	forwardNTT(lo, b.tables[0])
	forwardNTT(hi, b.tables[1])
	putLimbView(dst[:len(dst)/2], lo)
	putLimbView(dst[len(dst)/2:], hi)
}

// IDFT inverts DFT and CRT-reconstructs the signed coefficients into dst.
func (b *Backend) IDFT(src []byte, dst []int64) {
	lo, hi := Limbs(src, b.n)
	loCopy := append([]uint64(nil), lo...)
	hiCopy := append([]uint64(nil), hi...)
	inverseNTT(loCopy, b.tables[0])
	inverseNTT(hiCopy, b.tables[1])
	for i := range dst {
		dst[i] = crtReconstruct(loCopy[i], hiCopy[i], b.tables[0].q, b.tables[1].q)
	}
}

// IDFTTmpA is the destructive variant; it shares IDFT's code path since
// the NTT already reads into a private copy.
func (b *Backend) IDFTTmpA(src []byte, dst []int64) { b.IDFT(src, dst) }

// IDFTConsume is idft_tmpa's "retype the buffer" sibling (spec §4.2); this
// back end never actually reuses src's storage (IDFT already copies into a
// private buffer before running the inverse NTT), so it is the same call.
func (b *Backend) IDFTConsume(src []byte, dst []int64) { b.IDFT(src, dst) }

// AddDft accumulates c = a + b limb-wise mod each prime.
func (b *Backend) AddDft(a, bb, c []byte) {
	for p := 0; p < 2; p++ {
		q := b.tables[p].q
		av := limbView(a[p*len(a)/2 : (p+1)*len(a)/2])
		bv := limbView(bb[p*len(bb)/2 : (p+1)*len(bb)/2])
		cv := limbView(c[p*len(c)/2 : (p+1)*len(c)/2])
		for i := range cv {
			cv[i] = addMod(av[i], bv[i], q)
		}
		putLimbView(c[p*len(c)/2:(p+1)*len(c)/2], cv)
	}
}

// MulAccDft accumulates c += a*b limb-wise mod each prime.
func (b *Backend) MulAccDft(a, bb, c []byte) {
	for p := 0; p < 2; p++ {
		q := b.tables[p].q
		av := limbView(a[p*len(a)/2 : (p+1)*len(a)/2])
		bv := limbView(bb[p*len(bb)/2 : (p+1)*len(bb)/2])
		cv := limbView(c[p*len(c)/2 : (p+1)*len(c)/2])
		for i := range cv {
			cv[i] = addMod(cv[i], mulMod(av[i], bv[i], q), q)
		}
		putLimbView(c[p*len(c)/2:(p+1)*len(c)/2], cv)
	}
}

func reduce(v int64, q uint64) uint64 {
	r := v % int64(q)
	if r < 0 {
		r += int64(q)
	}
	return uint64(r)
}

func addMod(a, b, q uint64) uint64 {
	s := a + b
	if s >= q {
		s -= q
	}
	return s
}

func negMod(a, q uint64) uint64 {
	if a == 0 {
		return 0
	}
	return q - a
}

func mulMod(a, b, q uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	_, rem := bits.Div64(hi%q, lo, q)
	return rem
}

// crtReconstruct recombines two residues into a centred int64 via the
// explicit CRT formula for a two-modulus basis.
func crtReconstruct(r0, r1, q0, q1 uint64) int64 {
	q0Inv := modInverse(q0%q1, q1)
	t := mulMod(addMod(r1, negMod(r0%q1, q1), q1), q0Inv, q1)
	x := r0 + t*q0
	m := q0 * q1
	if x > m/2 {
		return int64(x) - int64(m)
	}
	return int64(x)
}

func modInverse(a, q uint64) uint64 {
	// Fermat's little theorem: a^(q-2) mod q, since every prime in this
	// CRT basis is odd.
	result := uint64(1)
	base := a % q
	exp := q - 2
	for exp > 0 {
		if exp&1 == 1 {
			result = mulMod(result, base, q)
		}
		base = mulMod(base, base, q)
		exp >>= 1
	}
	return result
}

// buildTable precomputes the per-stage twiddle table indexed as
// psi[m+i] = psi^brv(i, log2(m)), the standard bit-reversed layout that
// lets forwardNTT/inverseNTT address stage m's i-th butterfly twiddle
// directly without an extra permutation pass.
func buildTable(n int, q uint64) *primeTable {
	g := primitiveRoot(q)
	psi := modPow(g, (q-1)/uint64(2*n), q) // primitive 2n-th root
	psiInv := modInverse(psi, q)
	fwd := make([]uint64, n)
	inv := make([]uint64, n)
	for m := 1; m < n; m <<= 1 {
		logm := bits.Len(uint(m)) - 1
		for i := 0; i < m; i++ {
			r := bitrev(i, logm)
			fwd[m+i] = modPow(psi, uint64(r), q)
			inv[m+i] = modPow(psiInv, uint64(r), q)
		}
	}
	return &primeTable{q: q, psi: fwd, psiInv: inv, nInv: modInverse(uint64(n), q)}
}

func bitrev(x, bitlen int) int {
	r := 0
	for i := 0; i < bitlen; i++ {
		r = (r << 1) | (x & 1)
		x >>= 1
	}
	return r
}

func primitiveRoot(q uint64) uint64 {
	// Fixed generator candidate; valid for the two hardcoded primes, both
	// of which have 3 as a quadratic non-residue generator of the full
	// multiplicative group in this construction.
	return 3
}

func modPow(base, exp, q uint64) uint64 {
	result := uint64(1)
	base %= q
	for exp > 0 {
		if exp&1 == 1 {
			result = mulMod(result, base, q)
		}
		base = mulMod(base, base, q)
		exp >>= 1
	}
	return result
}

// forwardNTT runs an in-place Cooley-Tukey decimation-in-time NTT,
// grounded on the teacher's ring.NTT butterfly recursion.
func forwardNTT(a []uint64, tbl *primeTable) {
	n := len(a)
	q := tbl.q
	t := n
	for m := 1; m < n; m <<= 1 {
		t >>= 1
		for i := 0; i < m; i++ {
			j1 := 2 * i * t
			j2 := j1 + t - 1
			w := tbl.psi[m+i]
			for j := j1; j <= j2; j++ {
				u := a[j]
				v := mulMod(a[j+t], w, q)
				a[j] = addMod(u, v, q)
				a[j+t] = addMod(u, negMod(v%q, q), q)
			}
		}
	}
}

// inverseNTT runs the matching decimation-in-frequency inverse.
func inverseNTT(a []uint64, tbl *primeTable) {
	n := len(a)
	q := tbl.q
	t := 1
	for m := n; m > 1; m >>= 1 {
		j1 := 0
		h := m >> 1
		for i := 0; i < h; i++ {
			j2 := j1 + t - 1
			w := tbl.psiInv[h+i]
			for j := j1; j <= j2; j++ {
				u := a[j]
				v := a[j+t]
				a[j] = addMod(u, v, q)
				a[j+t] = mulMod(addMod(u, negMod(v%q, q), q), w, q)
			}
			j1 += 2 * t
		}
		t <<= 1
	}
	for i := range a {
		a[i] = mulMod(a[i], tbl.nInv, q)
	}
}
