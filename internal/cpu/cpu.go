// Package cpu implements the best-effort AVX-512 capability probe spec §2
// names (ambient stack) for picking a default Backend: callers that do not
// care which concrete back end they get can ask this package for one
// appropriate to the host instead of wiring fft64 or ntt120 in by hand.
// Grounded on the teacher's cpu-feature-gated code path in
// core/rlwe/gadgetciphertext.go and ring/ring_ntt.go, which probe
// github.com/klauspost/cpuid/v2 to pick between a generic and an
// AVX2/AVX512-tuned kernel at construction time.
package cpu

import (
	"github.com/klauspost/cpuid/v2"

	"github.com/latticeforge/corefhe/backend"
	"github.com/latticeforge/corefhe/backend/fft64"
	"github.com/latticeforge/corefhe/backend/ntt120"
)

// HasAVX512 reports whether the host CPU advertises the AVX-512 foundation
// and doubleword/quadword (AVX512DQ) extensions NTT120's limb arithmetic is
// shaped for.
func HasAVX512() bool {
	return cpuid.CPU.Has(cpuid.AVX512F) && cpuid.CPU.Has(cpuid.AVX512DQ)
}

// Default picks NTT120's exact-integer CRT backend when the host advertises
// AVX-512 and falls back to the portable float64 FFT64 backend otherwise.
// This is a heuristic, not a correctness requirement: both back ends
// satisfy the same Backend contract (spec §4.2) for any N, so a caller that
// disagrees with the heuristic is always free to call fft64.New or
// ntt120.New directly instead.
func Default(n int) backend.Backend {
	if HasAVX512() {
		return ntt120.New(n)
	}
	return fft64.New(n)
}

// NewModule builds a Module for ring degree n using Default's pick.
func NewModule(n int) *backend.Module {
	return backend.NewModule(n, Default(n))
}
