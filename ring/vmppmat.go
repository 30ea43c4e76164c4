package ring

import (
	"io"

	"github.com/latticeforge/corefhe/ioframe"
	"github.com/latticeforge/corefhe/xerrors"
)

// VmpPMat(N, rows, cols_in, cols_out, size) is the DFT-prepared,
// block-interleaved layout of a MatZnx, optimized for the vector-matrix
// product of spec §4.5. Two consecutive output columns are paired per
// cache line so a VMP visits each row once and updates both columns
// together; the final column is stored unpaired when cols_out is odd.
type VmpPMat struct {
	n, rows, colsIn, colsOut, size int
	scalarBytes                    int
	tag                            Tag
	data                           []byte
}

// pairedLayout computes, for a given colsOut, the number of column-pairs
// and whether a trailing unpaired column exists.
func pairedLayout(colsOut int) (pairs int, odd bool) {
	return colsOut / 2, colsOut%2 == 1
}

// NewVmpPMat allocates a zero-initialized VmpPMat. Storage is laid out as
// rows * cols_in blocks, each block holding ceil(cols_out/2) paired slots
// (each slot two columns wide) so that preparation (§4.11) can write two
// DFT columns per row visit.
func NewVmpPMat(n, rows, colsIn, colsOut, size, scalarBytes int, tag Tag) *VmpPMat {
	pairs, odd := pairedLayout(colsOut)
	slots := pairs
	if odd {
		slots++
	}
	// Every slot reserves room for two columns' worth of DFT data even
	// when the slot is the trailing unpaired one, simplifying addressing;
	// the odd slot's second half is left zeroed and unread.
	cellN := n * size * scalarBytes
	total := rows * colsIn * slots * 2 * cellN
	return &VmpPMat{
		n: n, rows: rows, colsIn: colsIn, colsOut: colsOut, size: size,
		scalarBytes: scalarBytes, tag: tag, data: newAligned(total),
	}
}

func (m *VmpPMat) N() int           { return m.n }
func (m *VmpPMat) Rows() int        { return m.rows }
func (m *VmpPMat) ColsIn() int      { return m.colsIn }
func (m *VmpPMat) ColsOut() int     { return m.colsOut }
func (m *VmpPMat) Size() int        { return m.size }
func (m *VmpPMat) Tag() Tag         { return m.tag }
func (m *VmpPMat) ScalarBytes() int { return m.scalarBytes }
func (m *VmpPMat) Raw() []byte      { return m.data }

// Slots returns the number of paired output-column slots (ceil(cols_out/2)).
func (m *VmpPMat) Slots() int {
	pairs, odd := pairedLayout(m.colsOut)
	if odd {
		return pairs + 1
	}
	return pairs
}

// Column returns the raw byte slot holding the DFT image of (row, colIn,
// limb) for the given output column; colOut in [0, cols_out).
func (m *VmpPMat) Column(row, colIn, limb, colOut int) []byte {
	xerrors.Require("VmpPMat.Column", row < m.rows && colIn < m.colsIn && colOut < m.colsOut, "index out of range")
	slot := colOut / 2
	within := colOut % 2
	cellN := m.n * m.scalarBytes
	slots := m.Slots()
	blockBytes := slots * 2 * m.size * cellN
	blockOff := (row*m.colsIn + colIn) * blockBytes
	slotOff := slot * 2 * m.size * cellN
	limbOff := (within*m.size + limb) * cellN
	return sliceBytes(m.data, blockOff+slotOff+limbOff, cellN)
}

// RequireTag panics with a Precondition if the container was not prepared
// for the given back-end tag.
func (m *VmpPMat) RequireTag(op string, want Tag) {
	xerrors.Require(op, m.tag == want, "back-end tag mismatch: container is "+m.tag.String()+", operation expects "+want.String())
}

// WriteTo serializes the VmpPMat per spec §6's "MatZnx frame" entry,
// extended with the scalarBytes/tag fields a prepared matrix needs to be
// read back unambiguously (spec §4.11: "a prepared key is bound to a
// back-end tag"). Header: n, size, rows, cols_in, cols_out, scalar_bytes,
// tag, then the raw DFT-domain payload.
func (m *VmpPMat) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, x := range []uint64{uint64(m.n), uint64(m.size), uint64(m.rows), uint64(m.colsIn), uint64(m.colsOut), uint64(m.scalarBytes), uint64(m.tag)} {
		n, err := ioframe.WriteUint64(w, x)
		total += n
		if err != nil {
			return total, err
		}
	}
	n, err := ioframe.WritePayload(w, m.data)
	return total + n, err
}

// ReadFrom deserializes into a pre-allocated VmpPMat of matching shape and
// back-end tag.
func (m *VmpPMat) ReadFrom(r io.Reader) (int64, error) {
	var total int64
	for _, want := range []int{m.n, m.size, m.rows, m.colsIn, m.colsOut, m.scalarBytes, int(m.tag)} {
		x, n, err := ioframe.ReadUint64(r)
		total += n
		if err != nil {
			return total, err
		}
		if int(x) != want {
			return total, xerrors.Deserialize{Op: "VmpPMat.ReadFrom", Want: want, Got: int(x)}
		}
	}
	n, err := ioframe.ReadPayload(r, "VmpPMat", m.data)
	return total + n, err
}
