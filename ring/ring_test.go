package ring

import (
	"bytes"
	"testing"

	"github.com/latticeforge/corefhe/rand"
	"github.com/stretchr/testify/require"
)

func TestScalarZnxRoundTrip(t *testing.T) {
	n, cols := 16, 2
	s := NewScalarZnx(n, cols)
	src := rand.NewSource([32]byte{1})
	FillUniform(s, 20, src)

	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)

	s2 := NewScalarZnx(n, cols)
	_, err = s2.ReadFrom(&buf)
	require.NoError(t, err)

	for c := 0; c < cols; c++ {
		require.Equal(t, s.At(c), s2.At(c))
	}
}

func TestVecZnxRoundTrip(t *testing.T) {
	n, cols, size := 16, 2, 4
	v := NewVecZnx(n, cols, size)
	src := rand.NewSource([32]byte{2})
	FillUniformVecZnx(v, 12, src)

	var buf bytes.Buffer
	_, err := v.WriteTo(&buf)
	require.NoError(t, err)

	v2 := NewVecZnx(n, cols, size)
	_, err = v2.ReadFrom(&buf)
	require.NoError(t, err)
	require.Equal(t, v.Raw(), v2.Raw())
}

// TestNormalizeRoundTrip checks testable property #1: writing a normalized
// VecZnx into a VecZnxBig unchanged and normalizing it back reproduces the
// exact same centred values (spec §8.1).
func TestNormalizeRoundTrip(t *testing.T) {
	n, cols, size, base2k := 16, 1, 3, 12
	v := NewVecZnx(n, cols, size)
	src := rand.NewSource([32]byte{3})
	FillUniformVecZnx(v, base2k, src)

	big := NewVecZnxBig(n, cols, size)
	for c := 0; c < cols; c++ {
		for j := 0; j < size; j++ {
			copy(big.At(c, j), v.At(c, j))
		}
	}

	out := NewVecZnx(n, cols, size)
	carry := make([]int64, n)
	Normalize(out, big, base2k, carry)

	require.Equal(t, v.Raw(), out.Raw())
}

func TestNormalizeCarryPropagation(t *testing.T) {
	n, cols, size, base2k := 8, 1, 2, 4
	big := NewVecZnxBig(n, cols, size)
	half := int64(1) << uint(base2k-1)
	// Put the least-significant limb exactly at the boundary half of the
	// centred range (-half, half]: half stays in that limb and nothing
	// carries into the most-significant one.
	top := big.At(0, 0)
	bot := big.At(0, 1)
	for i := range top {
		top[i] = 1
		bot[i] = half // exactly at the boundary: kept, no carry into top
	}

	out := NewVecZnx(n, cols, size)
	carry := make([]int64, n)
	Normalize(out, big, base2k, carry)

	topOut := out.At(0, 0)
	for i := range topOut {
		require.Equal(t, int64(1), topOut[i])
	}
}

func TestAutomorphismInvolution(t *testing.T) {
	n := 32
	idx := NewAutomorphismIndex(n, 2*n-1) // p = -1 mod 2N is its own inverse
	src := make([]int64, n)
	for i := range src {
		src[i] = int64(i + 1)
	}
	dst := make([]int64, n)
	idx.Apply(dst, src)
	back := make([]int64, n)
	idx.Apply(back, dst)
	require.Equal(t, src, back)
}

func TestGaloisElementInv(t *testing.T) {
	n := 1024
	p := 5
	inv := GaloisElementInv(p, n)
	require.Equal(t, 1, (p*inv)%(2*n))
}

func TestFillBinaryBlockWeightBound(t *testing.T) {
	n, block := 64, 4
	v := NewScalarZnx(n, 1)
	src := rand.NewSource([32]byte{9})
	FillBinaryBlock(v, block, src)
	a := v.At(0)
	weight := 0
	for _, x := range a {
		require.True(t, x == 0 || x == 1)
		if x == 1 {
			weight++
		}
	}
	require.LessOrEqual(t, weight, n/block)
}
