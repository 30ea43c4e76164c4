package ring

import "unsafe"

// newAligned allocates a zeroed byte buffer of exactly n bytes whose first
// byte sits at a 64-byte boundary relative to the start of the backing
// array; Go's allocator does not expose alignment directly, so we over
// allocate and slice into the aligned region (spec invariant 5).
func newAligned(n int) []byte {
	buf := make([]byte, n+alignment)
	base := uintptr(unsafe.Pointer(&buf[0]))
	off := int(alignUp(int(base)) - int(base))
	return buf[off : off+n : off+n]
}

// int64View reinterprets a byte slice as a slice of int64 without copying.
// Callers must guarantee b's length is a multiple of 8 and that b is
// aligned for int64 access. newAligned buffers start on a 64-byte
// boundary; Scratch takes are cut from a plain make([]byte) arena with no
// alignment padding.
func int64View(b []byte) []int64 {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Slice((*int64)(unsafe.Pointer(&b[0])), len(b)/8)
}

// sliceBytes returns the byte sub-slice [off, off+n) of b.
func sliceBytes(b []byte, off, n int) []byte {
	return b[off : off+n : off+n]
}

// Int64View exposes int64View to other packages (notably scratch) that
// need to hand out a raw arena slice as typed int64 scratch space.
func Int64View(b []byte) []int64 { return int64View(b) }
