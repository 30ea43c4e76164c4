package ggsw

import (
	"io"

	"github.com/latticeforge/corefhe/backend"
	"github.com/latticeforge/corefhe/glwe"
	"github.com/latticeforge/corefhe/ioframe"
	"github.com/latticeforge/corefhe/rand"
	"github.com/latticeforge/corefhe/ring"
	"github.com/latticeforge/corefhe/scratch"
	"github.com/latticeforge/corefhe/vmp"
	"github.com/latticeforge/corefhe/xerrors"
)

// CompressedCiphertext is the seed-replay encoding of a GGSW ciphertext
// (spec §4.6): every gadget cell's mask columns are pseudorandom draws
// from a Source seeded with Seed, so only each cell's body column needs
// to be carried on the wire. Bodies is therefore a MatZnx of the same
// (rows, rank+1) shape as the unprepared gadget matrix Encrypt builds,
// but with cols_out collapsed from rank+1 to 1.
type CompressedCiphertext struct {
	Bodies *ring.MatZnx
	DSize  int
	Base2K int
	Rank   int
	Seed   [32]byte
}

// NewCompressedCiphertext allocates a zeroed compressed GGSW ciphertext
// shaped for the given rank, digit count and limb count.
func NewCompressedCiphertext(n, rank, dsize, base2k, size int) *CompressedCiphertext {
	rows := (size + dsize - 1) / dsize
	return &CompressedCiphertext{
		Bodies: ring.NewMatZnx(n, rows, rank+1, 1, size),
		DSize:  dsize,
		Base2K: base2k,
		Rank:   rank,
	}
}

// columnView returns a single-column VecZnx view sharing v's storage at
// column c, the same slicing glwe's internal colView uses.
func columnView(v *ring.VecZnx, c int) *ring.VecZnx {
	cellsPerCol := len(v.Raw()) / v.Cols()
	return ring.VecZnxFromBytes(v.N(), 1, v.Size(), v.MaxSize(), v.Raw()[c*cellsPerCol:(c+1)*cellsPerCol])
}

func bodyColumn(v *ring.VecZnx) *ring.VecZnx { return columnView(v, 0) }

// CompressEncrypt builds the same gadget encryption of msg under sk that
// Encrypt does, but threads a single Source seeded with seed through every
// cell's mask and error draws and keeps only each cell's body column, per
// spec §4.6's compressed GGSW variant.
func CompressEncrypt(mod *backend.Module, msg *ring.ScalarZnx, sk *glwe.SecretKey, dsize, base2k, size int, sigma float64, bound int64, seed [32]byte, sc *scratch.Scratch) *CompressedCiphertext {
	n := mod.N()
	rank := sk.Rank()
	rows := (size + dsize - 1) / dsize

	src := rand.NewSource(seed)
	bodies := ring.NewMatZnx(n, rows, rank+1, 1, size)
	for row := 0; row < rows; row++ {
		for j := 0; j <= rank; j++ {
			ct := glwe.NewCiphertext(n, rank, size, base2k)
			pt := glwe.NewPlaintext(n, size, base2k)
			glwe.Encrypt(mod, ct, pt, sk, sigma, bound, src, sc)

			if row < size {
				dst := ct.Value.At(j, row)
				m := msg.At(0)
				for i := range dst {
					dst[i] += m[i]
				}
			}

			bodies.Cell(row, j).CopyFrom(bodyColumn(ct.Value))
		}
	}

	return &CompressedCiphertext{Bodies: bodies, DSize: dsize, Base2K: base2k, Rank: rank, Seed: seed}
}

// DecompressTmpBytes reports the scratch Decompress needs, one gadget
// row's worth of fresh GLWE encryptions (the mask replay needs the same
// working set Encrypt itself does).
func DecompressTmpBytes(n, rank, size int) int {
	return EncryptTmpBytes(n, rank, size)
}

// Decompress replays the seed to regenerate every cell's mask columns, in
// the same (row, j) order CompressEncrypt drew them, reattaches each
// stored body column, and VMP-prepares the result into an ordinary GGSW
// Ciphertext ready for ExternalProduct.
func Decompress(mod *backend.Module, cc *CompressedCiphertext, sc *scratch.Scratch) *Ciphertext {
	n := mod.N()
	rows := cc.Bodies.Rows()
	size := cc.Bodies.Size()
	rank := cc.Rank

	src := rand.NewSource(cc.Seed)
	m := ring.NewMatZnx(n, rows, rank+1, rank+1, size)
	for row := 0; row < rows; row++ {
		for j := 0; j <= rank; j++ {
			cell := ring.NewVecZnx(n, rank+1, size)
			for i := 1; i <= rank; i++ {
				ring.FillUniformVecZnx(columnView(cell, i), cc.Base2K, src)
			}
			bodyColumn(cell).CopyFrom(cc.Bodies.Cell(row, j))
			m.Cell(row, j).CopyFrom(cell)
		}
	}

	return &Ciphertext{Prepared: vmp.Prepare(mod, m), DSize: cc.DSize, Base2K: cc.Base2K}
}

// WriteTo serializes the CompressedCiphertext per spec §4.6: rank, dsize,
// base2k, the raw 32-byte seed, then the Bodies MatZnx frame.
func (cc *CompressedCiphertext) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, x := range []uint64{uint64(cc.Rank), uint64(cc.DSize), uint64(cc.Base2K)} {
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
	n64, err := cc.Bodies.WriteTo(w)
	return total + n64, err
}

// ReadFrom deserializes into a pre-allocated CompressedCiphertext of
// matching rank, dsize and base2k.
func (cc *CompressedCiphertext) ReadFrom(r io.Reader) (int64, error) {
	var total int64
	for _, want := range []int{cc.Rank, cc.DSize, cc.Base2K} {
		x, n, err := ioframe.ReadUint64(r)
		total += n
		if err != nil {
			return total, err
		}
		if int(x) != want {
			return total, xerrors.Deserialize{Op: "ggsw.CompressedCiphertext.ReadFrom", Want: want, Got: int(x)}
		}
	}
	n, err := io.ReadFull(r, cc.Seed[:])
	total += int64(n)
	if err != nil {
		return total, err
	}
	n64, err := cc.Bodies.ReadFrom(r)
	return total + n64, err
}
