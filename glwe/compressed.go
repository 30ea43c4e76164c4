package glwe

import (
	"io"

	"github.com/latticeforge/corefhe/backend"
	"github.com/latticeforge/corefhe/ioframe"
	"github.com/latticeforge/corefhe/rand"
	"github.com/latticeforge/corefhe/ring"
	"github.com/latticeforge/corefhe/scratch"
	"github.com/latticeforge/corefhe/xerrors"
)

// CompressedCiphertext is the seed-replay encoding of a GLWE ciphertext
// described in spec §4.6: rather than carrying the uniformly random mask
// columns a_1..a_r on the wire, it stores the 32-byte seed that produced
// them and only the body column b. A verifier with the same seed replays
// FillUniformVecZnx in the same draw order Encrypt used to regenerate the
// mask, so CompressEncrypt/Decompress round-trip to the same ciphertext
// Encrypt/Decrypt would have produced, at a fraction of the size.
type CompressedCiphertext struct {
	Body   *ring.VecZnx // single column: the b column only
	Base2K int
	Rank   int
	Seed   [32]byte
}

// NewCompressedCiphertext allocates a zeroed compressed ciphertext shaped
// for the given rank and limb count (the rank is recorded even though the
// mask columns themselves are never stored, since Decompress needs it to
// size the replayed ciphertext).
func NewCompressedCiphertext(n, rank, size, base2k int) *CompressedCiphertext {
	return &CompressedCiphertext{
		Body:   ring.NewVecZnx(n, 1, size),
		Base2K: base2k,
		Rank:   rank,
	}
}

// CompressEncryptTmpBytes reports the scratch CompressEncrypt needs: the
// same working set as a full Encrypt call, since it builds one to throw
// away everything but the body column.
func CompressEncryptTmpBytes(n, size int) int {
	return EncryptTmpBytes(n, size)
}

// CompressEncrypt draws the mask columns a_1..a_r from a Source seeded
// with seed and returns only the body column alongside that seed (spec
// §4.6's compressed GGSW/GLWE variant). sigma/bound parameterize the
// error exactly as in Encrypt.
func CompressEncrypt(mod *backend.Module, pt *Plaintext, sk *SecretKey, sigma float64, bound int64, seed [32]byte, sc *scratch.Scratch) *CompressedCiphertext {
	n := mod.N()
	size := pt.Value.Size()
	r := sk.Rank()

	src := rand.NewSource(seed)
	full := NewCiphertext(n, r, size, pt.Base2K)
	Encrypt(mod, full, pt, sk, sigma, bound, src, sc)

	body := ring.NewVecZnx(n, 1, size)
	body.CopyFrom(colView(full.Value, 0))

	return &CompressedCiphertext{Body: body, Base2K: full.Base2K, Rank: r, Seed: seed}
}

// Decompress replays the seed to regenerate the mask columns, in the same
// order CompressEncrypt/Encrypt drew them, and reattaches the stored body
// column to reconstruct the full ciphertext.
func Decompress(mod *backend.Module, cc *CompressedCiphertext, sc *scratch.Scratch) *Ciphertext {
	n := mod.N()
	size := cc.Body.Size()

	src := rand.NewSource(cc.Seed)
	ct := NewCiphertext(n, cc.Rank, size, cc.Base2K)
	for i := 1; i <= cc.Rank; i++ {
		ring.FillUniformVecZnx(colView(ct.Value, i), ct.Base2K, src)
	}
	colView(ct.Value, 0).CopyFrom(cc.Body)
	return ct
}

// WriteTo serializes the CompressedCiphertext per spec §4.6: rank, base2k,
// the raw 32-byte seed, then the body VecZnx frame.
func (cc *CompressedCiphertext) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, x := range []uint64{uint64(cc.Rank), uint64(cc.Base2K)} {
		n, err := ioframe.WriteUint64(w, x)
		total += n
		if err != nil {
			return total, err
		}
	}
	n, err := w.Write(cc.Seed[:])
	total += int64(n)
	if err != nil {
		return total, err
	}
	n64, err := cc.Body.WriteTo(w)
	return total + n64, err
}

// ReadFrom deserializes into a pre-allocated CompressedCiphertext of
// matching rank and base2k.
func (cc *CompressedCiphertext) ReadFrom(r io.Reader) (int64, error) {
	var total int64
	for _, want := range []int{cc.Rank, cc.Base2K} {
		x, n, err := ioframe.ReadUint64(r)
		total += n
		if err != nil {
			return total, err
		}
		if int(x) != want {
			return total, xerrors.Deserialize{Op: "glwe.CompressedCiphertext.ReadFrom", Want: want, Got: int(x)}
		}
	}
	n, err := io.ReadFull(r, cc.Seed[:])
	total += int64(n)
	if err != nil {
		return total, err
	}
	n64, err := cc.Body.ReadFrom(r)
	return total + n64, err
}
