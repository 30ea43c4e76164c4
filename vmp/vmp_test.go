package vmp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTmpBytes(t *testing.T) {
	got := TmpBytes(16, 2, 3, 4, 16)
	// rowDigit(16*2*16) + accumulators(16*3*4*16) + carry(16*8) + tmpCol(16*4*8)
	want := 16*2*16 + 16*3*4*16 + 16*8 + 16*4*8
	require.Equal(t, want, got)
}
