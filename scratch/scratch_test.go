package scratch

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTakeAdvancesCursorAndZeroes(t *testing.T) {
	sc := New(1024)
	require.Equal(t, 1024, sc.Available())

	v := sc.TakeScalarZnx(8, 2)
	require.Equal(t, 1024-8*2*8, sc.Available())
	for c := 0; c < 2; c++ {
		for _, x := range v.At(c) {
			require.Equal(t, int64(0), x)
		}
	}
}

func TestTakeExhaustionPanics(t *testing.T) {
	sc := New(16)
	require.Panics(t, func() {
		sc.TakeInt64(4) // needs 32 bytes, only 16 available
	})
}

func TestResetRewindsCursor(t *testing.T) {
	sc := New(64)
	sc.TakeInt64(4)
	require.NotEqual(t, 64, sc.Available())
	sc.Reset()
	require.Equal(t, 64, sc.Available())
}

func TestForkCarvesIndependentSubArena(t *testing.T) {
	sc := New(128)
	sub := sc.Fork(32)
	require.Equal(t, 128-32, sc.Available())
	require.Equal(t, 32, sub.Available())

	_ = sub.TakeVecZnx(2, 1, 2)
	require.Equal(t, 32-2*1*2*8, sub.Available())
	require.Equal(t, 128-32, sc.Available()) // parent cursor untouched by sub-allocations
}
