package glwe

import (
	"io"

	"golang.org/x/exp/slices"

	"github.com/latticeforge/corefhe/ioframe"
	"github.com/latticeforge/corefhe/xerrors"
)

// WriteTo serializes the Ciphertext per spec §6's "GLWE" row: header
// (k, base2k, each u32-width but carried as u64 on the wire like every
// other header field in this package) followed by the body VecZnx frame.
func (c *Ciphertext) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, x := range []uint64{uint64(c.Value.Size() * c.Base2K), uint64(c.Base2K)} {
		n, err := ioframe.WriteUint64(w, x)
		total += n
		if err != nil {
			return total, err
		}
	}
	n, err := c.Value.WriteTo(w)
	return total + n, err
}

// ReadFrom deserializes into a pre-allocated Ciphertext of matching k
// (Size()*base2k) and base2k.
func (c *Ciphertext) ReadFrom(r io.Reader) (int64, error) {
	var total int64
	for _, want := range []int{c.Value.Size() * c.Base2K, c.Base2K} {
		x, n, err := ioframe.ReadUint64(r)
		total += n
		if err != nil {
			return total, err
		}
		if int(x) != want {
			return total, xerrors.Deserialize{Op: "glwe.Ciphertext.ReadFrom", Want: want, Got: int(x)}
		}
	}
	n, err := c.Value.ReadFrom(r)
	return total + n, err
}

// WriteTo serializes the SwitchingKey per spec §6's "GGLWE / keys" row:
// dsize and base2k ("see parent") followed by the prepared VmpPMat frame.
func (k *SwitchingKey) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, x := range []uint64{uint64(k.DSize), uint64(k.Base2K)} {
		n, err := ioframe.WriteUint64(w, x)
		total += n
		if err != nil {
			return total, err
		}
	}
	n, err := k.Prepared.WriteTo(w)
	return total + n, err
}

// ReadFrom deserializes into a pre-allocated SwitchingKey of matching shape.
func (k *SwitchingKey) ReadFrom(r io.Reader) (int64, error) {
	var total int64
	for _, want := range []int{k.DSize, k.Base2K} {
		x, n, err := ioframe.ReadUint64(r)
		total += n
		if err != nil {
			return total, err
		}
		if int(x) != want {
			return total, xerrors.Deserialize{Op: "glwe.SwitchingKey.ReadFrom", Want: want, Got: int(x)}
		}
	}
	n, err := k.Prepared.ReadFrom(r)
	return total + n, err
}

// WriteTo serializes the AutomorphismKey: its Galois exponent P, then the
// embedded SwitchingKey frame.
func (k *AutomorphismKey) WriteTo(w io.Writer) (int64, error) {
	total, err := ioframe.WriteUint64(w, uint64(k.P))
	if err != nil {
		return total, err
	}
	n, err := k.SwitchingKey.WriteTo(w)
	return total + n, err
}

// ReadFrom deserializes into a pre-allocated AutomorphismKey of matching
// exponent and shape.
func (k *AutomorphismKey) ReadFrom(r io.Reader) (int64, error) {
	x, total, err := ioframe.ReadUint64(r)
	if err != nil {
		return total, err
	}
	if int(x) != k.P {
		return total, xerrors.Deserialize{Op: "glwe.AutomorphismKey.ReadFrom", Want: k.P, Got: int(x)}
	}
	n, err := k.SwitchingKey.ReadFrom(r)
	return total + n, err
}

// WriteTo serializes the TensorKey as a key collection (spec §6): rank,
// then `len: u64` followed by len (i, j, SwitchingKey) children, written in
// a deterministic (i, j) order so the byte stream does not depend on Go's
// randomized map iteration.
func (tk *TensorKey) WriteTo(w io.Writer) (int64, error) {
	total, err := ioframe.WriteUint64(w, uint64(tk.Rank))
	if err != nil {
		return total, err
	}
	n, err := ioframe.WriteUint64(w, uint64(len(tk.Keys)))
	total += n
	if err != nil {
		return total, err
	}

	pairs := make([][2]int, 0, len(tk.Keys))
	for p := range tk.Keys {
		pairs = append(pairs, p)
	}
	slices.SortFunc(pairs, func(a, b [2]int) bool {
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		return a[1] < b[1]
	})

	for _, p := range pairs {
		for _, x := range []uint64{uint64(p[0]), uint64(p[1])} {
			n, err := ioframe.WriteUint64(w, x)
			total += n
			if err != nil {
				return total, err
			}
		}
		n, err := tk.Keys[p].WriteTo(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// ReadFrom deserializes into a TensorKey whose Keys map already holds one
// pre-allocated SwitchingKey skeleton per (i, j) pair expected on the wire,
// matching the rest of the package's "validate a pre-sized shape" contract.
func (tk *TensorKey) ReadFrom(r io.Reader) (int64, error) {
	x, total, err := ioframe.ReadUint64(r)
	if err != nil {
		return total, err
	}
	if int(x) != tk.Rank {
		return total, xerrors.Deserialize{Op: "glwe.TensorKey.ReadFrom", Want: tk.Rank, Got: int(x)}
	}

	length, n, err := ioframe.ReadUint64(r)
	total += n
	if err != nil {
		return total, err
	}
	if int(length) != len(tk.Keys) {
		return total, xerrors.Deserialize{Op: "glwe.TensorKey.ReadFrom", Want: len(tk.Keys), Got: int(length)}
	}

	for i := 0; i < int(length); i++ {
		iVal, n, err := ioframe.ReadUint64(r)
		total += n
		if err != nil {
			return total, err
		}
		jVal, n, err := ioframe.ReadUint64(r)
		total += n
		if err != nil {
			return total, err
		}
		key, ok := tk.Keys[[2]int{int(iVal), int(jVal)}]
		if !ok {
			return total, xerrors.Deserialize{Op: "glwe.TensorKey.ReadFrom", Want: -1, Got: int(iVal)*1000 + int(jVal)}
		}
		n, err = key.ReadFrom(r)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteAutomorphismKeySet serializes a trace-style automorphism-key map as
// the key collection spec §6 names: `len: u64` then len children, each
// self-describing its own Galois exponent, written in ascending exponent
// order for a deterministic byte stream.
func WriteAutomorphismKeySet(w io.Writer, keys map[int]*AutomorphismKey) (int64, error) {
	exps := make([]int, 0, len(keys))
	for p := range keys {
		exps = append(exps, p)
	}
	slices.Sort(exps)

	total, err := ioframe.WriteUint64(w, uint64(len(exps)))
	if err != nil {
		return total, err
	}
	for _, p := range exps {
		n, err := keys[p].WriteTo(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// ReadAutomorphismKeySet deserializes into a map already holding one
// pre-allocated AutomorphismKey skeleton per exponent expected on the wire.
func ReadAutomorphismKeySet(r io.Reader, keys map[int]*AutomorphismKey) (int64, error) {
	length, total, err := ioframe.ReadUint64(r)
	if err != nil {
		return total, err
	}
	if int(length) != len(keys) {
		return total, xerrors.Deserialize{Op: "glwe.ReadAutomorphismKeySet", Want: len(keys), Got: int(length)}
	}

	exps := make([]int, 0, len(keys))
	for p := range keys {
		exps = append(exps, p)
	}
	slices.Sort(exps)

	for _, p := range exps {
		n, err := keys[p].ReadFrom(r)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
