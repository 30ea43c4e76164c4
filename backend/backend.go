// Package backend implements the DFT-domain kernel entry points that the
// ring containers are agnostic to: the forward/inverse transform between
// the integer and frequency domains, and the handful of frequency-domain
// arithmetic ops (add, automorphism, vector-matrix product accumulation)
// that operate directly on VecZnxDft/VmpPMat without ever normalizing back
// to VecZnx. Concrete implementations live in backend/fft64 and
// backend/ntt120; callers select one through a ring.Tag rather than a Go
// generic parameter (spec §9's trait-soup flattening).
package backend

import "github.com/latticeforge/corefhe/ring"

// Backend is the vtable a Module dispatches through. Each entry point takes
// already-shaped ring containers; shape and tag checks are the caller's
// responsibility (containers carry their own Tag and panic via
// xerrors.Require on mismatch).
type Backend interface {
	Tag() ring.Tag
	ScalarBytes() int

	// DFT transforms the integer-domain limb a (length N) into the
	// frequency-domain slot b.
	DFT(a []int64, b []byte)
	// IDFT transforms the frequency-domain slot a back into the
	// integer-domain limb b (length N).
	IDFT(a []byte, b []int64)
	// IDFTTmpA is the destructive variant: a may be clobbered as scratch.
	IDFTTmpA(a []byte, b []int64)
	// IDFTConsume is idft_tmpa's "same buffer, retyped" sibling (spec §4.2):
	// callers that no longer need the frequency-domain slot once its
	// integer image is computed use this instead of IDFTTmpA to make that
	// buffer-reuse intent explicit at the call site.
	IDFTConsume(a []byte, b []int64)

	// AddDft accumulates c = a + b in the frequency domain.
	AddDft(a, b, c []byte)
	// MulAccDft accumulates c += a*b in the frequency domain (the inner
	// step of a VMP product row).
	MulAccDft(a, b, c []byte)
}

// Module binds a Backend to a fixed ring degree N and caches whatever
// per-N precomputation the backend needs (twiddle tables, CRT constants).
type Module struct {
	n int
	b Backend
}

// NewModule builds a Module for ring degree n using the given backend.
func NewModule(n int, b Backend) *Module {
	return &Module{n: n, b: b}
}

func (m *Module) N() int          { return m.n }
func (m *Module) Tag() ring.Tag   { return m.b.Tag() }
func (m *Module) Backend() Backend { return m.b }

// DFT transforms every column/limb of src into dst (spec §4.2).
func (m *Module) DFT(dst *ring.VecZnxDft, src *ring.VecZnx) {
	for c := 0; c < src.Cols(); c++ {
		for j := 0; j < src.Size(); j++ {
			m.b.DFT(src.At(c, j), dst.Slot(c, j))
		}
	}
}

// IDFT transforms every column/limb of src into dst.
func (m *Module) IDFT(dst *ring.VecZnxBig, src *ring.VecZnxDft) {
	for c := 0; c < src.Cols(); c++ {
		for j := 0; j < src.Size(); j++ {
			m.b.IDFT(src.Slot(c, j), dst.At(c, j))
		}
	}
}

// IDFTConsume transforms every column/limb of src into dst, retyping src's
// storage rather than preserving it (spec §4.2's idft_consume): identical
// observable effect to IDFT followed by discarding src, exposed separately
// so callers that intend to discard src can say so.
func (m *Module) IDFTConsume(dst *ring.VecZnxBig, src *ring.VecZnxDft) {
	for c := 0; c < src.Cols(); c++ {
		for j := 0; j < src.Size(); j++ {
			m.b.IDFTConsume(src.Slot(c, j), dst.At(c, j))
		}
	}
}
