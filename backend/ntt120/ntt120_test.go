package ntt120

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDFTRoundTrip(t *testing.T) {
	const n = 16
	b := New(n)

	a := make([]int64, n)
	for i := range a {
		a[i] = int64(i) - int64(n/2)
	}

	dst := make([]byte, n*scalarBytes)
	b.DFT(a, dst)

	got := make([]int64, n)
	b.IDFT(dst, got)

	require.Equal(t, a, got)
}

func TestMulAccDftAgainstSchoolbook(t *testing.T) {
	const n = 8
	b := New(n)

	one := []int64{1, 0, 0, 0, 0, 0, 0, 0}
	x := []int64{0, 1, 0, 0, 0, 0, 0, 0}

	dstOne := make([]byte, n*scalarBytes)
	dstX := make([]byte, n*scalarBytes)
	acc := make([]byte, n*scalarBytes)
	b.DFT(one, dstOne)
	b.DFT(x, dstX)
	b.MulAccDft(dstOne, dstX, acc)

	got := make([]int64, n)
	b.IDFT(acc, got)

	want := []int64{0, 1, 0, 0, 0, 0, 0, 0}
	require.Equal(t, want, got)
}

func TestModInverse(t *testing.T) {
	q := primes[0]
	a := uint64(12345)
	inv := modInverse(a, q)
	require.Equal(t, uint64(1), mulMod(a, inv, q))
}
