package fft64

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

	a := []int64{1, 0, 0, 0, 0, 0, 0, 0} // a(X) = 1
	c := []int64{0, 1, 0, 0, 0, 0, 0, 0} // c(X) = X

	dstA := make([]byte, n*scalarBytes)
	dstC := make([]byte, n*scalarBytes)
	acc := make([]byte, n*scalarBytes)
	b.DFT(a, dstA)
	b.DFT(c, dstC)
	b.MulAccDft(dstA, dstC, acc)

	got := make([]int64, n)
	b.IDFT(acc, got)

	want := []int64{0, 1, 0, 0, 0, 0, 0, 0} // 1 * X = X
	require.Equal(t, want, got)
}
