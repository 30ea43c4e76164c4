package ring

import (
	"io"

	"github.com/latticeforge/corefhe/ioframe"
	"github.com/latticeforge/corefhe/xerrors"
)

// MatZnx(N, rows, cols_in, cols_out, size) is row-major integer-domain key
// material over rows then cols_in, each cell a VecZnx(N, cols_out, size)
// (spec §3). It is the unprepared form of VmpPMat.
type MatZnx struct {
	n, rows, colsIn, colsOut, size int
	data                           []byte
}

func cellBytes(n, colsOut, size int) int { return n * colsOut * size * 8 }

// NewMatZnx allocates a zero-initialized MatZnx.
func NewMatZnx(n, rows, colsIn, colsOut, size int) *MatZnx {
	total := rows * colsIn * cellBytes(n, colsOut, size)
	return &MatZnx{n: n, rows: rows, colsIn: colsIn, colsOut: colsOut, size: size, data: newAligned(total)}
}

func (m *MatZnx) N() int       { return m.n }
func (m *MatZnx) Rows() int    { return m.rows }
func (m *MatZnx) ColsIn() int  { return m.colsIn }
func (m *MatZnx) ColsOut() int { return m.colsOut }
func (m *MatZnx) Size() int    { return m.size }
func (m *MatZnx) Raw() []byte  { return m.data }

// Cell returns a mutable VecZnx view over the (row, colIn) cell; it shares
// storage with the MatZnx, it is not a copy.
func (m *MatZnx) Cell(row, colIn int) *VecZnx {
	xerrors.Require("MatZnx.Cell", row < m.rows && colIn < m.colsIn, "index out of range")
	cb := cellBytes(m.n, m.colsOut, m.size)
	off := (row*m.colsIn + colIn) * cb
	return VecZnxFromBytes(m.n, m.colsOut, m.size, m.size, sliceBytes(m.data, off, cb))
}

// Zero sets every coefficient of every cell to 0.
func (m *MatZnx) Zero() {
	for i := range m.data {
		m.data[i] = 0
	}
}

// WriteTo serializes the MatZnx per spec §6: header (n, size, rows,
// cols_in, cols_out) then rows*cols_in*n*cols_out*size i64 values.
func (m *MatZnx) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, x := range []uint64{uint64(m.n), uint64(m.size), uint64(m.rows), uint64(m.colsIn), uint64(m.colsOut)} {
		n, err := ioframe.WriteUint64(w, x)
		total += n
		if err != nil {
			return total, err
		}
	}
	n, err := ioframe.WriteInt64Slice(w, int64View(m.data))
	return total + n, err
}

// ReadFrom deserializes into a pre-allocated MatZnx of matching shape.
func (m *MatZnx) ReadFrom(r io.Reader) (int64, error) {
	var total int64
	for _, want := range []int{m.n, m.size, m.rows, m.colsIn, m.colsOut} {
		x, n, err := ioframe.ReadUint64(r)
		total += n
		if err != nil {
			return total, err
		}
		if int(x) != want {
			return total, xerrors.Deserialize{Op: "MatZnx.ReadFrom", Want: want, Got: int(x)}
		}
	}
	n, err := ioframe.ReadInt64Slice(r, "MatZnx", int64View(m.data))
	return total + n, err
}
