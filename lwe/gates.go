package lwe

import "github.com/latticeforge/corefhe/ring"

// InitTestPolynomial builds the lookup-table polynomial for g over
// [a, b], discretized at N points (spec §4.9/§4.10): this is the same
// test-vector construction blind rotation folds its target function into
// before the CMUX chain, grounded on the teacher's lwe/lut.go InitLUT but
// left in the coefficient domain since this module's DFT step is a
// property of the backend, not of the polynomial container.
func InitTestPolynomial(g func(x float64) float64, scale float64, n int, a, b float64) *ring.ScalarZnx {
	f := ring.NewScalarZnx(n, 1)
	coeffs := f.At(0)

	interval := 2.0 / float64(n)
	for i := 0; i <= n/2; i++ {
		coeffs[i] = scaleUp(g(normalizeInv(-interval*float64(i), a, b)), scale)
	}
	for i := n/2 + 1; i < n; i++ {
		coeffs[i] = scaleUp(-g(normalizeInv(interval*float64(n-i), a, b)), scale)
	}
	return f
}

func normalizeInv(x, a, b float64) float64 {
	return x*(b-a)/2.0 + (a+b)/2.0
}

func scaleUp(y, scale float64) int64 {
	return int64(y*scale + 0.5)
}

// Boolean gates (spec §4.9, supplemented): each named gate is the test
// polynomial for a two-input NAND-style boundary function, grounded on
// the teacher's lwe/bin_fhe.go gate set. Inputs are assumed pre-summed
// into the interval [-1, 1]; scale sets the output's encoding amplitude.

func nandGate(x float64) float64 {
	if x > -1.0/8.0 && x < 3.0/8.0 {
		return 2.0 / 8.0
	}
	return 0
}

func andGate(x float64) float64 {
	if x > -1.0/8.0 && x < 3.0/8.0 {
		return 0
	}
	return 1.0 / 4.0
}

func xorGate(x float64) float64 {
	if x > 1.0/8.0 && x < 3.0/8.0 {
		return 2.0 / 8.0
	}
	return 0
}

func xnorGate(x float64) float64 {
	if x > 1.0/8.0 && x < 3.0/8.0 {
		return 0
	}
	return 2.0 / 8.0
}

func orGate(x float64) float64 {
	if x > 1.0/8.0 && x < 5.0/8.0 {
		return 2.0 / 8.0
	}
	return 0
}

func norGate(x float64) float64 {
	if x > 1.0/8.0 && x < 5.0/8.0 {
		return 0
	}
	return 2.0 / 8.0
}

func notGate(x float64) float64 {
	if x > 1.0/8.0 && x < 3.0/8.0 {
		return 0
	}
	return 2.0 / 8.0
}

func ANDTestPolynomial(n int, scale float64) *ring.ScalarZnx  { return InitTestPolynomial(andGate, scale, n, -1, 1) }
func ORTestPolynomial(n int, scale float64) *ring.ScalarZnx   { return InitTestPolynomial(orGate, scale, n, -1, 1) }
func XORTestPolynomial(n int, scale float64) *ring.ScalarZnx  { return InitTestPolynomial(xorGate, scale, n, -1, 1) }
func NANDTestPolynomial(n int, scale float64) *ring.ScalarZnx { return InitTestPolynomial(nandGate, scale, n, -1, 1) }
func NORTestPolynomial(n int, scale float64) *ring.ScalarZnx  { return InitTestPolynomial(norGate, scale, n, -1, 1) }
func XNORTestPolynomial(n int, scale float64) *ring.ScalarZnx { return InitTestPolynomial(xnorGate, scale, n, -1, 1) }
func NOTTestPolynomial(n int, scale float64) *ring.ScalarZnx  { return InitTestPolynomial(notGate, scale, n, -1, 1) }
