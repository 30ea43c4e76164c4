package lwe

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
	seed[0] = 0x7a
	return rand.NewSource(seed)
}

func TestLWEEncryptDecryptRoundTrip(t *testing.T) {
	const dim = 16
	const base2k = 12
	const size = 3

	src := testSource()
	sk := NewSecretKey(dim)
	for i := range sk.Value {
		sk.Value[i] = int64(i%3) - 1
	}

	pt := NewPlaintext(size)
	pt.Value[0] = 5

	ct := NewCiphertext(dim, size, base2k)
	Encrypt(ct, pt, sk, 0, 0, src)

	got := Decrypt(ct, sk, base2k)
	require.Equal(t, pt.Value[0], got.Value[0])
}

func TestSampleExtractMatchesGLWECoefficient(t *testing.T) {
	const n = 32
	const base2k = 12
	const size = 4

	mod := testModule(n)
	src := testSource()
	sc := scratch.New(1 << 20)

	glweSk := glwe.NewSecretKey(n, 1)
	ring.FillTernaryHW(glweSk.Value, n/2, src)

	pt := glwe.NewPlaintext(n, size, base2k)
	msg := pt.Value.At(0, 0)
	for i := range msg {
		msg[i] = int64(i%3) - 1
	}

	ct := glwe.NewCiphertext(n, 1, size, base2k)
	glwe.Encrypt(mod, ct, pt, glweSk, 0, 0, src, sc)

	const idx = 5
	extractedSk := ExtractedSecret(glweSk, idx)
	lweCt := NewCiphertext(n, size, base2k)
	SampleExtract(lweCt, ct, idx)

	got := Decrypt(lweCt, extractedSk, base2k)
	require.Equal(t, msg[idx], got.Value[0])
}

func TestGenGLWEToLWEKeyRepairsSecret(t *testing.T) {
	const n = 32
	const base2k = 12
	const size = 4
	const dsize = 1

	mod := testModule(n)
	src := testSource()
	sc := scratch.New(1 << 22)

	glweSk := glwe.NewSecretKey(n, 1)
	ring.FillTernaryHW(glweSk.Value, n/2, src)

	pt := glwe.NewPlaintext(n, size, base2k)
	msg := pt.Value.At(0, 0)
	for i := range msg {
		msg[i] = int64(i%2)*2 - 1
	}

	ct := glwe.NewCiphertext(n, 1, size, base2k)
	glwe.Encrypt(mod, ct, pt, glweSk, 0, 0, src, sc)

	const idx = 3
	extracted := NewCiphertext(n, size, base2k)
	SampleExtract(extracted, ct, idx)

	canonicalSk := NewSecretKey(n / 2)
	for i := range canonicalSk.Value {
		canonicalSk.Value[i] = int64(i%3) - 1
	}

	key := GenGLWEToLWEKey(mod, glweSk, idx, canonicalSk, base2k, size, 0, 0, src, sc)

	out := NewCiphertext(n/2, size, base2k)
	GLWEToLWE(mod, out, extracted, key, sc)

	got := Decrypt(out, canonicalSk, base2k)
	require.Equal(t, msg[idx], got.Value[0])
}

// TestCiphertextSerializationRoundTrip checks testable property #8 for the
// LWE ciphertext container.
func TestCiphertextSerializationRoundTrip(t *testing.T) {
	const dim = 16
	const base2k = 12
	const size = 3

	src := testSource()
	sk := NewSecretKey(dim)
	for i := range sk.Value {
		sk.Value[i] = int64(i%3) - 1
	}

	pt := NewPlaintext(size)
	pt.Value[0] = 5

	ct := NewCiphertext(dim, size, base2k)
	Encrypt(ct, pt, sk, 0, 0, src)

	var buf bytes.Buffer
	_, err := ct.WriteTo(&buf)
	require.NoError(t, err)

	ct2 := NewCiphertext(dim, size, base2k)
	_, err = ct2.ReadFrom(&buf)
	require.NoError(t, err)

	if diff := cmp.Diff(ct.Value.Raw(), ct2.Value.Raw()); diff != "" {
		t.Fatalf("lwe ciphertext round trip mismatch (-want +got):\n%s", diff)
	}
}
