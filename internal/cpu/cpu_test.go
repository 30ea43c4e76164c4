package cpu

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/latticeforge/corefhe/ring"
)

func TestDefaultPicksAKnownBackendTag(t *testing.T) {
	const n = 64
	be := Default(n)
	require.Contains(t, []ring.Tag{ring.TagFFT64, ring.TagNTT120}, be.Tag())
}

func TestDefaultMatchesAVX512Probe(t *testing.T) {
	const n = 64
	be := Default(n)
	if HasAVX512() {
		require.Equal(t, ring.TagNTT120, be.Tag())
	} else {
		require.Equal(t, ring.TagFFT64, be.Tag())
	}
}

func TestNewModuleBindsRequestedDegree(t *testing.T) {
	const n = 128
	mod := NewModule(n)
	require.Equal(t, n, mod.N())
}
