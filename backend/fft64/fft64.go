// Package fft64 is the reference backend: a float64 split-radix DFT over
// M=2N complex roots of unity, packing each ring element's N real
// coefficients into N/2 complex128 slots (spec §4.2, §9). It is grounded
// on the CKKS encoder's fft/invfft butterfly pair (the same ring
// R_N = Z[X]/(X^N+1) is diagonalized by the same M=2N odd-root
// evaluation), adapted here to serve as a pure multiplication backend
// rather than a SIMD-slot encoder: no Galois-orbit slot reordering is
// applied, since nothing downstream needs rotation-friendly slot order.
package fft64

import (
	"math"
	"unsafe"

	"github.com/latticeforge/corefhe/ring"
)

const scalarBytes = 8 // average bytes/coefficient: N/2 complex128 (16B) per N coefficients

// Backend implements backend.Backend for a fixed ring degree N.
type Backend struct {
	n     int
	m     int
	roots []complex128 // length m+1, roots[i] = exp(2*pi*i*I/m)
}

// New builds the twiddle table for ring degree n (must be a power of two).
func New(n int) *Backend {
	m := 2 * n
	roots := make([]complex128, m+1)
	for i := 0; i <= m; i++ {
		angle := 2 * math.Pi * float64(i) / float64(m)
		roots[i] = complex(math.Cos(angle), math.Sin(angle))
	}
	return &Backend{n: n, m: m, roots: roots}
}

func (b *Backend) Tag() ring.Tag   { return ring.TagFFT64 }
func (b *Backend) ScalarBytes() int { return scalarBytes }

// AsComplex reinterprets a VecZnxDft slot's raw bytes as the N/2 complex128
// frequency-domain values it holds.
func AsComplex(slot []byte) []complex128 {
	return unsafe.Slice((*complex128)(unsafe.Pointer(&slot[0])), len(slot)/16)
}

// pack maps a's N real coefficients into N/2 complex128 values, low half
// as real parts and high half as imaginary parts (the same packing the
// teacher's CKKS encoder uses before invfft).
func pack(a []int64, out []complex128) {
	half := len(a) / 2
	for i := 0; i < half; i++ {
		out[i] = complex(float64(a[i]), float64(a[i+half]))
	}
}

func unpack(in []complex128, a []int64) {
	half := len(a) / 2
	for i := 0; i < half; i++ {
		a[i] = int64(math.Round(real(in[i])))
		a[i+half] = int64(math.Round(imag(in[i])))
	}
}

// DFT evaluates a at the N/2 odd M-th roots of unity, writing the result
// into the byte slot b (spec §4.2).
func (b *Backend) DFT(a []int64, dst []byte) {
	values := AsComplex(dst)
	pack(a, values)
	invfft(values, len(values), b.m, b.roots)
}

// IDFT inverts DFT, writing the N real coefficients into dst.
func (b *Backend) IDFT(src []byte, dst []int64) {
	values := make([]complex128, len(src)/16)
	copy(values, AsComplex(src))
	fft(values, len(values), b.m, b.roots)
	unpack(values, dst)
}

// IDFTTmpA is the destructive variant of IDFT: src is used as scratch.
func (b *Backend) IDFTTmpA(src []byte, dst []int64) {
	values := AsComplex(src)
	fft(values, len(values), b.m, b.roots)
	unpack(values, dst)
}

// IDFTConsume is idft_tmpa's "retype the buffer" sibling (spec §4.2): the
// complex128 slot is destroyed in exactly the same way as IDFTTmpA, so the
// two share an implementation here.
func (b *Backend) IDFTConsume(src []byte, dst []int64) { b.IDFTTmpA(src, dst) }

// AddDft accumulates c = a + b slot-wise in the frequency domain.
func (backend *Backend) AddDft(a, b, c []byte) {
	av, bv, cv := AsComplex(a), AsComplex(b), AsComplex(c)
	for i := range cv {
		cv[i] = av[i] + bv[i]
	}
}

// MulAccDft accumulates c += a*b slot-wise, the inner step of a VMP row
// (gadget decomposition digits are diagonal in the frequency domain).
func (backend *Backend) MulAccDft(a, b, c []byte) {
	av, bv, cv := AsComplex(a), AsComplex(b), AsComplex(c)
	for i := range cv {
		cv[i] += av[i] * bv[i]
	}
}

// invfft is the teacher's CKKS invfft butterfly, operating over M=2N
// instead of the slot-encoding rotation group: gap indexes directly into
// the root table by bit position rather than through a Galois orbit.
func invfft(values []complex128, slots, m int, roots []complex128) {
	var lenh, lenq, gap, idx int
	var u, v complex128

	for length := slots; length >= 1; length >>= 1 {
		for i := 0; i < slots; i += length {
			lenh = length >> 1
			lenq = length << 2
			gap = m / lenq
			for j := 0; j < lenh; j++ {
				idx = (lenq - (j % lenq)) * gap
				u = values[i+j] + values[i+j+lenh]
				v = values[i+j] - values[i+j+lenh]
				v *= roots[idx%m]
				values[i+j] = u
				values[i+j+lenh] = v
			}
		}
	}
	for i := range values {
		values[i] /= complex(float64(slots), 0)
	}
	bitReverseInPlace(values)
}

func fft(values []complex128, slots, m int, roots []complex128) {
	var lenh, lenq, gap, idx int
	var u, v complex128

	bitReverseInPlace(values)

	for length := 2; length <= slots; length <<= 1 {
		for i := 0; i < slots; i += length {
			lenh = length >> 1
			lenq = length << 2
			gap = m / lenq
			for j := 0; j < lenh; j++ {
				idx = (j % lenq) * gap
				u = values[i+j]
				v = values[i+j+lenh]
				v *= roots[idx%m]
				values[i+j] = u + v
				values[i+j+lenh] = u - v
			}
		}
	}
}

func bitReverseInPlace(slice []complex128) {
	n := uint64(len(slice))
	var j uint64
	for i := uint64(1); i < n; i++ {
		bit := n >> 1
		for j >= bit && bit > 0 {
			j -= bit
			bit >>= 1
		}
		j += bit
		if i < j {
			slice[i], slice[j] = slice[j], slice[i]
		}
	}
}
