package ring

import (
	"math"
	"math/big"

	"github.com/ALTree/bigfloat"
	"github.com/latticeforge/corefhe/rand"
	"github.com/latticeforge/corefhe/xerrors"
)

// Source is the subset of rand.Source the fill_* samplers need. Declaring
// it locally (rather than importing rand.Source by value) keeps ring
// usable against any deterministic byte stream, not just the ChaCha20 one.
type Source interface {
	Read(p []byte) (int, error)
	ReadUint64() uint64
}

var _ Source = (*rand.Source)(nil)

// FillUniform draws coefficients uniform in the signed interval
// [-2^(logBound-1), 2^(logBound-1)) into every column of v (spec §4.1).
func FillUniform(v *ScalarZnx, logBound int, src Source) {
	xerrors.Require("FillUniform", logBound > 0 && logBound <= 63, "logBound out of range")
	mask := uint64(1)<<uint(logBound) - 1
	half := int64(1) << uint(logBound-1)
	for c := 0; c < v.Cols(); c++ {
		a := v.At(c)
		for i := range a {
			a[i] = int64(src.ReadUint64()&mask) - half
		}
	}
}

// FillUniformVecZnx draws every limb of every column uniform in
// [-2^(base2k-1), 2^(base2k-1)), i.e. a uniformly random torus element to
// the container's full precision.
func FillUniformVecZnx(v *VecZnx, base2k int, src Source) {
	mask := uint64(1)<<uint(base2k) - 1
	half := int64(1) << uint(base2k-1)
	for c := 0; c < v.Cols(); c++ {
		for j := 0; j < v.Size(); j++ {
			a := v.At(c, j)
			for i := range a {
				a[i] = int64(src.ReadUint64()&mask) - half
			}
		}
	}
}

// FillTernaryProb draws each coefficient from {-1, 0, +1} with
// P(+-1) = p/2 each and P(0) = 1-p (spec "fill_ternary_prob(p)").
func FillTernaryProb(v *ScalarZnx, p float64, src Source) {
	xerrors.Require("FillTernaryProb", p >= 0 && p <= 1, "probability out of range")
	for c := 0; c < v.Cols(); c++ {
		a := v.At(c)
		for i := range a {
			a[i] = ternaryDraw(p, src)
		}
	}
}

func ternaryDraw(p float64, src Source) int64 {
	u := randFloat64(src)
	switch {
	case u < p/2:
		return -1
	case u < p:
		return 1
	default:
		return 0
	}
}

// FillTernaryHW draws a ternary polynomial of exact Hamming weight h: h
// coefficients are set to +-1 (uniform sign, uniform position without
// replacement), the rest to 0 (spec "fill_ternary_hw(h)").
func FillTernaryHW(v *ScalarZnx, h int, src Source) {
	for c := 0; c < v.Cols(); c++ {
		a := v.At(c)
		xerrors.Require("FillTernaryHW", h <= len(a), "Hamming weight exceeds N")
		for i := range a {
			a[i] = 0
		}
		placed := 0
		for placed < h {
			idx := int(src.ReadUint64() % uint64(len(a)))
			if a[idx] != 0 {
				continue
			}
			if src.ReadUint64()&1 == 0 {
				a[idx] = 1
			} else {
				a[idx] = -1
			}
			placed++
		}
	}
}

// FillBinaryProb draws each coefficient from {0, 1} with P(1) = p.
func FillBinaryProb(v *ScalarZnx, p float64, src Source) {
	for c := 0; c < v.Cols(); c++ {
		a := v.At(c)
		for i := range a {
			if randFloat64(src) < p {
				a[i] = 1
			} else {
				a[i] = 0
			}
		}
	}
}

// FillBinaryHW draws a binary polynomial with exactly h coefficients set
// to 1, uniformly placed without replacement.
func FillBinaryHW(v *ScalarZnx, h int, src Source) {
	for c := 0; c < v.Cols(); c++ {
		a := v.At(c)
		xerrors.Require("FillBinaryHW", h <= len(a), "Hamming weight exceeds N")
		for i := range a {
			a[i] = 0
		}
		placed := 0
		for placed < h {
			idx := int(src.ReadUint64() % uint64(len(a)))
			if a[idx] != 0 {
				continue
			}
			a[idx] = 1
			placed++
		}
	}
}

// FillBinaryBlock draws one uniformly-chosen 1 in each of N/block
// contiguous blocks, with block+1 possible outcomes per block (including
// "no 1" with probability 1/(block+1)), so the resulting Hamming weight is
// a random variable with mean N/(block+1) (spec §4.1).
func FillBinaryBlock(v *ScalarZnx, block int, src Source) {
	for c := 0; c < v.Cols(); c++ {
		a := v.At(c)
		xerrors.Require("FillBinaryBlock", len(a)%block == 0, "N must be a multiple of block")
		for i := range a {
			a[i] = 0
		}
		blocks := len(a) / block
		for b := 0; b < blocks; b++ {
			outcome := int(src.ReadUint64() % uint64(block+1))
			if outcome < block {
				a[b*block+outcome] = 1
			}
		}
	}
}

// ExpectedHammingWeight is the mean number of 1s a FillBinaryBlock draw
// produces: N/(block+1) (spec §4.1).
func ExpectedHammingWeight(n, block int) float64 {
	return float64(n) / float64(block+1)
}

// randFloat64 draws a uniform value in [0, 1).
func randFloat64(src Source) float64 {
	return float64(src.ReadUint64()>>11) / (1 << 53)
}

// GaussianTailBound computes, via a high-precision complementary error
// function evaluation, the smallest integer bound B such that a centred
// Gaussian of standard deviation sigma has tail mass below 2^-precisionBits
// outside [-B, B]. Used by encryption to size the rejection sampler's
// truncation bound (spec §4.6, "rejection sampling with caller-supplied
// sigma and bound").
func GaussianTailBound(sigma float64, precisionBits int) int64 {
	target := new(big.Float).SetPrec(128).SetFloat64(math.Exp2(-float64(precisionBits)))
	b := int64(math.Ceil(sigma))
	for {
		z := new(big.Float).SetPrec(128).Quo(big.NewFloat(float64(b)), big.NewFloat(sigma*math.Sqrt2))
		tail := bigfloat.Erfc(z)
		if tail.Cmp(target) <= 0 {
			return b
		}
		b++
		if b > int64(200*sigma)+64 {
			return b
		}
	}
}

// FillDiscreteGaussian draws centred discrete-Gaussian error terms with
// standard deviation sigma, rejecting any draw whose magnitude exceeds
// bound, into every column of v.
func FillDiscreteGaussian(v *ScalarZnx, sigma float64, bound int64, src Source) {
	for c := 0; c < v.Cols(); c++ {
		a := v.At(c)
		for i := range a {
			a[i] = discreteGaussianDraw(sigma, bound, src)
		}
	}
}

func discreteGaussianDraw(sigma float64, bound int64, src Source) int64 {
	for {
		u1 := randFloat64(src)
		if u1 == 0 {
			u1 = 1e-300
		}
		u2 := randFloat64(src)
		r := math.Sqrt(-2 * math.Log(u1))
		x := r * math.Cos(2*math.Pi*u2) * sigma
		v := int64(math.Round(x))
		if v >= -bound && v <= bound {
			return v
		}
	}
}
