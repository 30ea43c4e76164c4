package bootstrap

import (
	"io"

	"github.com/latticeforge/corefhe/ioframe"
	"github.com/latticeforge/corefhe/xerrors"
)

// WriteTo serializes the GGLWEToGGSWKey as the key collection spec §6
// names: `len: u64` then len GGSW frames, in slice order (already
// deterministic, one entry per secret component).
func (k *GGLWEToGGSWKey) WriteTo(w io.Writer) (int64, error) {
	total, err := ioframe.WriteUint64(w, uint64(len(k.Keys)))
	if err != nil {
		return total, err
	}
	for _, ct := range k.Keys {
		n, err := ct.WriteTo(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// ReadFrom deserializes into a GGLWEToGGSWKey whose Keys slice already
// holds one pre-allocated GGSW skeleton per entry expected on the wire.
func (k *GGLWEToGGSWKey) ReadFrom(r io.Reader) (int64, error) {
	length, total, err := ioframe.ReadUint64(r)
	if err != nil {
		return total, err
	}
	if int(length) != len(k.Keys) {
		return total, xerrors.Deserialize{Op: "bootstrap.GGLWEToGGSWKey.ReadFrom", Want: len(k.Keys), Got: int(length)}
	}
	for _, ct := range k.Keys {
		n, err := ct.ReadFrom(r)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteTo serializes the BlindRotationKey with the same key-collection
// shape as GGLWEToGGSWKey, one GGSW frame per LWE secret coordinate.
func (k *BlindRotationKey) WriteTo(w io.Writer) (int64, error) {
	total, err := ioframe.WriteUint64(w, uint64(len(k.Keys)))
	if err != nil {
		return total, err
	}
	for _, ct := range k.Keys {
		n, err := ct.WriteTo(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// ReadFrom deserializes into a BlindRotationKey whose Keys slice already
// holds one pre-allocated GGSW skeleton per entry expected on the wire.
func (k *BlindRotationKey) ReadFrom(r io.Reader) (int64, error) {
	length, total, err := ioframe.ReadUint64(r)
	if err != nil {
		return total, err
	}
	if int(length) != len(k.Keys) {
		return total, xerrors.Deserialize{Op: "bootstrap.BlindRotationKey.ReadFrom", Want: len(k.Keys), Got: int(length)}
	}
	for _, ct := range k.Keys {
		n, err := ct.ReadFrom(r)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
