package ggsw

import (
	"io"

	"github.com/latticeforge/corefhe/ioframe"
	"github.com/latticeforge/corefhe/xerrors"
)

// WriteTo serializes the Ciphertext per spec §6's "GGSW" row: dsize and
// base2k ("see parent"), then the prepared VmpPMat frame.
func (c *Ciphertext) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, x := range []uint64{uint64(c.DSize), uint64(c.Base2K)} {
		n, err := ioframe.WriteUint64(w, x)
		total += n
		if err != nil {
			return total, err
		}
	}
	n, err := c.Prepared.WriteTo(w)
	return total + n, err
}

// ReadFrom deserializes into a pre-allocated Ciphertext of matching shape.
func (c *Ciphertext) ReadFrom(r io.Reader) (int64, error) {
	var total int64
	for _, want := range []int{c.DSize, c.Base2K} {
		x, n, err := ioframe.ReadUint64(r)
		total += n
		if err != nil {
			return total, err
		}
		if int(x) != want {
			return total, xerrors.Deserialize{Op: "ggsw.Ciphertext.ReadFrom", Want: want, Got: int(x)}
		}
	}
	n, err := c.Prepared.ReadFrom(r)
	return total + n, err
}
