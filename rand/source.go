// Package rand implements the deterministic pseudo-random byte stream used
// throughout the core for key material, masks and error terms.
package rand

import (
	"encoding/binary"
	"io"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/chacha20"
)

// Source is a deterministic, seekable byte stream backed by ChaCha20.
// Every cryptographic operation that needs randomness is handed a Source
// rather than reaching for a process-global RNG: two runs seeded with the
// same 32-byte key produce byte-identical streams, which is what makes
// scenario A/B/C in the testable-properties section reproducible.
//
// A Source is not safe for concurrent use. Parallel callers must fork a
// child Source with NewSeed and hand each goroutine its own instance.
type Source struct {
	seed    [32]byte
	cipher  *chacha20.Cipher
	clock   uint64
	counter uint64
}

// NewSource creates a Source seeded with the given 32-byte key; the
// ChaCha20 nonce is always zero.
func NewSource(seed [32]byte) *Source {
	s := &Source{seed: seed}
	s.reset()
	return s
}

func (s *Source) reset() {
	c, err := chacha20.NewUnauthenticatedCipher(s.seed[:], make([]byte, chacha20.NonceSize))
	if err != nil {
		// Only possible if seed/nonce lengths are wrong, which they never are here.
		panic(err)
	}
	s.cipher = c
	s.counter = 0
}

// Read fills p with pseudo-random bytes and never returns an error; it
// implements io.Reader so a Source can be passed to any stdlib helper that
// wants one.
func (s *Source) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	s.cipher.XORKeyStream(p, p)
	s.counter += uint64(len(p))
	return len(p), nil
}

// GetClock returns the number of 64-bit words the Source has produced,
// mirroring the teacher's CRPGenerator clock so a replay can fast-forward
// to a known position instead of re-deriving every prior word.
func (s *Source) GetClock() uint64 {
	return s.clock
}

// ReadUint64 draws the next 64-bit word and advances the clock.
func (s *Source) ReadUint64() uint64 {
	var buf [8]byte
	_, _ = s.Read(buf[:])
	s.clock++
	return binary.LittleEndian.Uint64(buf[:])
}

// NewSeed forks a fresh, independent seed from the current stream state:
// it draws 32 bytes from the stream, hashes them with a counter-based
// domain tag through BLAKE3, and returns the digest as a brand-new 32-byte
// seed. Parallel circuit-bootstrapping workers each get their own forked
// Source so that per-bit GGSW assembly (see package bootstrap) can run
// concurrently without two goroutines mutating the same cipher state.
func (s *Source) NewSeed() [32]byte {
	var raw [40]byte
	_, _ = s.Read(raw[:32])
	binary.LittleEndian.PutUint64(raw[32:], s.counter)
	return blake3.Sum256(raw[:])
}

// Seed returns the 32-byte key the Source was constructed with.
func (s *Source) Seed() [32]byte {
	return s.seed
}

var _ io.Reader = (*Source)(nil)
