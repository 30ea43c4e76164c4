package lwe

import (
	"io"

	"github.com/latticeforge/corefhe/ioframe"
	"github.com/latticeforge/corefhe/xerrors"
)

// WriteTo serializes the Ciphertext per spec §6's "LWE" row: base2k, then
// the Zn frame (which already carries the dimension header).
func (c *Ciphertext) WriteTo(w io.Writer) (int64, error) {
	total, err := ioframe.WriteUint64(w, uint64(c.Base2K))
	if err != nil {
		return total, err
	}
	n, err := c.Value.WriteTo(w)
	return total + n, err
}

// ReadFrom deserializes into a pre-allocated Ciphertext of matching base2k.
func (c *Ciphertext) ReadFrom(r io.Reader) (int64, error) {
	x, total, err := ioframe.ReadUint64(r)
	if err != nil {
		return total, err
	}
	if int(x) != c.Base2K {
		return total, xerrors.Deserialize{Op: "lwe.Ciphertext.ReadFrom", Want: c.Base2K, Got: int(x)}
	}
	n, err := c.Value.ReadFrom(r)
	return total + n, err
}
