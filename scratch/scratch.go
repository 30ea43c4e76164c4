// Package scratch implements the linear bump allocator every evaluator
// operation borrows working buffers from (spec §5). Unlike the teacher's
// evaluatorBuffers (a fixed, named pool of pre-allocated polynomials, see
// rlwe.evaluatorBuffers), a Scratch has no fixed shape: callers cut
// typed views of arbitrary size off the front of one arena and hand the
// remainder down the call stack, exactly mirroring how deeply nested
// kernels borrow scratch space without knowing the caller's layout.
// A Scratch is single-threaded and not safe for concurrent borrows.
package scratch

import (
	"github.com/latticeforge/corefhe/ring"
	"github.com/latticeforge/corefhe/xerrors"
)

// Scratch is a bump allocator over a single byte arena. Take* methods
// advance the cursor and return a container view backed by the arena;
// the view is valid until the Scratch is reset or the arena is
// otherwise reused.
type Scratch struct {
	buf    []byte
	cursor int
}

// New allocates a Scratch with the given byte capacity.
func New(size int) *Scratch {
	return &Scratch{buf: make([]byte, size)}
}

// Available returns the number of unused bytes remaining.
func (s *Scratch) Available() int { return len(s.buf) - s.cursor }

// Reset rewinds the cursor to the start of the arena, invalidating every
// view previously handed out.
func (s *Scratch) Reset() { s.cursor = 0 }

// take reserves n bytes and advances the cursor, panicking via
// xerrors.Require if the arena is exhausted (spec §5: "panics, not
// errors, on underflow" - a scratch shortage is a configuration bug,
// never a runtime condition a caller recovers from).
func (s *Scratch) take(op string, n int) []byte {
	xerrors.Require(op, s.cursor+n <= len(s.buf), "scratch arena exhausted")
	b := s.buf[s.cursor : s.cursor+n]
	s.cursor += n
	for i := range b {
		b[i] = 0
	}
	return b
}

// TakeScalarZnx borrows a ScalarZnx of the given shape.
func (s *Scratch) TakeScalarZnx(n, cols int) *ring.ScalarZnx {
	b := s.take("Scratch.TakeScalarZnx", n*cols*8)
	return ring.ScalarZnxFromBytes(n, cols, b)
}

// TakeVecZnx borrows a VecZnx of the given shape.
func (s *Scratch) TakeVecZnx(n, cols, size int) *ring.VecZnx {
	b := s.take("Scratch.TakeVecZnx", n*cols*size*8)
	return ring.VecZnxFromBytes(n, cols, size, size, b)
}

// TakeVecZnxBig borrows a VecZnxBig of the given shape.
func (s *Scratch) TakeVecZnxBig(n, cols, size int) *ring.VecZnxBig {
	b := s.take("Scratch.TakeVecZnxBig", n*cols*size*8)
	return ring.VecZnxBigFromBytes(n, cols, size, size, b)
}

// TakeVecZnxDft borrows a VecZnxDft of the given shape and back-end tag.
func (s *Scratch) TakeVecZnxDft(n, cols, size, scalarBytes int, tag ring.Tag) *ring.VecZnxDft {
	b := s.take("Scratch.TakeVecZnxDft", n*cols*size*scalarBytes)
	return ring.VecZnxDftFromBytes(n, cols, size, scalarBytes, tag, b)
}

// TakeInt64 borrows a plain carry/accumulator buffer of n int64 slots.
func (s *Scratch) TakeInt64(n int) []int64 {
	b := s.take("Scratch.TakeInt64", n*8)
	return ring.Int64View(b)
}

// Fork carves a sub-Scratch out of the remaining arena, advancing this
// Scratch's cursor past it. Used when a kernel needs to hand an
// independently-rewindable region to a helper without exposing the rest
// of its own remaining budget.
func (s *Scratch) Fork(size int) *Scratch {
	b := s.take("Scratch.Fork", size)
	return &Scratch{buf: b}
}
