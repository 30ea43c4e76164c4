package ggsw

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/latticeforge/corefhe/backend"
	"github.com/latticeforge/corefhe/backend/fft64"
	"github.com/latticeforge/corefhe/glwe"
	"github.com/latticeforge/corefhe/rand"
	"github.com/latticeforge/corefhe/ring"
	"github.com/latticeforge/corefhe/scratch"
)

func testModule(n int) *backend.Module {
	return backend.NewModule(n, fft64.New(n))
}

func testSource() *rand.Source {
	var seed [32]byte
	seed[0] = 0x17
	return rand.NewSource(seed)
}

func TestExternalProductByOnePreservesPlaintext(t *testing.T) {
	const n = 64
	const base2k = 12
	const size = 4
	const dsize = 1

	mod := testModule(n)
	src := testSource()
	sc := scratch.New(1 << 22)

	sk := glwe.NewSecretKey(n, 1)
	ring.FillTernaryHW(sk.Value, n/2, src)

	one := ring.NewScalarZnx(n, 1)
	one.At(0)[0] = 1
	ct := Encrypt(mod, one, sk, dsize, base2k, size, 0, 0, src, sc)

	pt := glwe.NewPlaintext(n, size, base2k)
	msg := pt.Value.At(0, 0)
	for i := range msg {
		msg[i] = int64(i%3) - 1
	}

	in := glwe.NewCiphertext(n, 1, size, base2k)
	glwe.Encrypt(mod, in, pt, sk, 0, 0, src, sc)

	out := glwe.NewCiphertext(n, 1, size, base2k)
	ExternalProduct(mod, out, in, ct, sc)

	got := glwe.Decrypt(mod, out, sk, sc)
	require.Equal(t, msg, got.Value.At(0, 0))
}

func TestExternalProductByZeroZeroesPlaintext(t *testing.T) {
	const n = 64
	const base2k = 12
	const size = 4
	const dsize = 1

	mod := testModule(n)
	src := testSource()
	sc := scratch.New(1 << 22)

	sk := glwe.NewSecretKey(n, 1)
	ring.FillTernaryHW(sk.Value, n/2, src)

	zero := ring.NewScalarZnx(n, 1)
	ct := Encrypt(mod, zero, sk, dsize, base2k, size, 0, 0, src, sc)

	pt := glwe.NewPlaintext(n, size, base2k)
	msg := pt.Value.At(0, 0)
	for i := range msg {
		msg[i] = int64(i%2)*2 - 1
	}

	in := glwe.NewCiphertext(n, 1, size, base2k)
	glwe.Encrypt(mod, in, pt, sk, 0, 0, src, sc)

	out := glwe.NewCiphertext(n, 1, size, base2k)
	ExternalProduct(mod, out, in, ct, sc)

	got := glwe.Decrypt(mod, out, sk, sc)
	want := make([]int64, n)
	require.Equal(t, want, got.Value.At(0, 0))
}

// TestExternalProductByScalarMultipliesPlaintext checks spec §4.7/§8
// property 5 for a general scalar mu (not merely the identity/annihilation
// cases of mu=1/mu=0): the external product against a degree-0 constant
// mu computes mu*m coefficientwise.
func TestExternalProductByScalarMultipliesPlaintext(t *testing.T) {
	const n = 64
	const base2k = 12
	const size = 4
	const dsize = 1
	const scalar = 5

	mod := testModule(n)
	src := testSource()
	sc := scratch.New(1 << 22)

	sk := glwe.NewSecretKey(n, 1)
	ring.FillTernaryHW(sk.Value, n/2, src)

	mu := ring.NewScalarZnx(n, 1)
	mu.At(0)[0] = scalar
	ct := Encrypt(mod, mu, sk, dsize, base2k, size, 0, 0, src, sc)

	pt := glwe.NewPlaintext(n, size, base2k)
	msg := pt.Value.At(0, 0)
	for i := range msg {
		msg[i] = int64(i%3) - 1
	}

	in := glwe.NewCiphertext(n, 1, size, base2k)
	glwe.Encrypt(mod, in, pt, sk, 0, 0, src, sc)

	out := glwe.NewCiphertext(n, 1, size, base2k)
	ExternalProduct(mod, out, in, ct, sc)

	got := glwe.Decrypt(mod, out, sk, sc)
	want := make([]int64, n)
	for i := range want {
		want[i] = scalar * msg[i]
	}
	require.Equal(t, want, got.Value.At(0, 0))
}

// TestCiphertextSerializationRoundTrip checks testable property #8 for the
// GGSW container.
func TestCiphertextSerializationRoundTrip(t *testing.T) {
	const n = 64
	const base2k = 12
	const size = 4
	const dsize = 1

	mod := testModule(n)
	src := testSource()
	sc := scratch.New(1 << 22)

	sk := glwe.NewSecretKey(n, 1)
	ring.FillTernaryHW(sk.Value, n/2, src)

	one := ring.NewScalarZnx(n, 1)
	one.At(0)[0] = 1
	ct := Encrypt(mod, one, sk, dsize, base2k, size, 0, 0, src, sc)

	var buf bytes.Buffer
	_, err := ct.WriteTo(&buf)
	require.NoError(t, err)

	ct2 := &Ciphertext{
		Prepared: ring.NewVmpPMat(n, ct.Prepared.Rows(), ct.Prepared.ColsIn(), ct.Prepared.ColsOut(), ct.Prepared.Size(), ct.Prepared.ScalarBytes(), ct.Prepared.Tag()),
		DSize:    dsize,
		Base2K:   base2k,
	}
	_, err = ct2.ReadFrom(&buf)
	require.NoError(t, err)

	if diff := cmp.Diff(ct.Prepared.Raw(), ct2.Prepared.Raw()); diff != "" {
		t.Fatalf("ggsw ciphertext round trip mismatch (-want +got):\n%s", diff)
	}
}

// TestCompressEncryptDecompressActsAsOrdinaryEncrypt checks spec §4.6's
// compressed GGSW variant: a CompressEncrypt/Decompress round trip under a
// given seed must behave identically, under ExternalProduct, to the
// ordinary Encrypt path for the same message, secret and seed-derived
// randomness.
func TestCompressEncryptDecompressActsAsOrdinaryEncrypt(t *testing.T) {
	const n = 64
	const base2k = 12
	const size = 4
	const dsize = 1

	var seed [32]byte
	seed[0] = 0x2b

	mod := testModule(n)
	sc := scratch.New(1 << 22)

	sk := glwe.NewSecretKey(n, 1)
	ring.FillTernaryHW(sk.Value, n/2, rand.NewSource(seed))

	one := ring.NewScalarZnx(n, 1)
	one.At(0)[0] = 1

	cc := CompressEncrypt(mod, one, sk, dsize, base2k, size, 0, 0, seed, sc)
	require.Equal(t, 1, cc.Rank)
	ct := Decompress(mod, cc, sc)
	require.Equal(t, dsize, ct.DSize)
	require.Equal(t, base2k, ct.Base2K)

	pt := glwe.NewPlaintext(n, size, base2k)
	msg := pt.Value.At(0, 0)
	for i := range msg {
		msg[i] = int64(i%3) - 1
	}

	in := glwe.NewCiphertext(n, 1, size, base2k)
	glwe.Encrypt(mod, in, pt, sk, 0, 0, rand.NewSource(seed), sc)

	out := glwe.NewCiphertext(n, 1, size, base2k)
	ExternalProduct(mod, out, in, ct, sc)

	got := glwe.Decrypt(mod, out, sk, sc)
	require.Equal(t, msg, got.Value.At(0, 0))
}

// TestCompressedCiphertextSerializationRoundTrip checks testable property
// #8 for the compressed GGSW container.
func TestCompressedCiphertextSerializationRoundTrip(t *testing.T) {
	const n = 64
	const base2k = 12
	const size = 4
	const dsize = 1

	var seed [32]byte
	seed[0] = 0x2c

	mod := testModule(n)
	sc := scratch.New(1 << 22)

	sk := glwe.NewSecretKey(n, 1)
	ring.FillTernaryHW(sk.Value, n/2, rand.NewSource(seed))

	one := ring.NewScalarZnx(n, 1)
	one.At(0)[0] = 1
	cc := CompressEncrypt(mod, one, sk, dsize, base2k, size, 0, 0, seed, sc)

	var buf bytes.Buffer
	_, err := cc.WriteTo(&buf)
	require.NoError(t, err)

	cc2 := NewCompressedCiphertext(n, cc.Rank, dsize, base2k, size)
	_, err = cc2.ReadFrom(&buf)
	require.NoError(t, err)

	if diff := cmp.Diff(cc.Seed, cc2.Seed); diff != "" {
		t.Fatalf("compressed ggsw seed round trip mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(cc.Bodies.Raw(), cc2.Bodies.Raw()); diff != "" {
		t.Fatalf("compressed ggsw bodies round trip mismatch (-want +got):\n%s", diff)
	}
}
