package sumcheck

import "github.com/varshith257/sxt-proof-of-sql/scalar"

// interpolateCoefficients recovers a polynomial's ascending-power
// coefficients from its evaluations at 0, 1, ..., len(ys)-1, via Lagrange
// basis expansion. Used once per round to turn the round polynomial's
// sampled evaluations into the dense coefficient form §4.5 specifies.
func interpolateCoefficients(ys []scalar.Scalar) []scalar.Scalar {
	d := len(ys) - 1
	coeffs := make([]scalar.Scalar, d+1)
	for i := range coeffs {
		coeffs[i] = scalar.Zero()
	}
	for k, yk := range ys {
		numerator := []scalar.Scalar{scalar.One()}
		denominator := scalar.One()
		for j := 0; j <= d; j++ {
			if j == k {
				continue
			}
			numerator = polyMulLinear(numerator, scalar.FromInt64(int64(j)))
			denominator = scalar.Mul(denominator, scalar.Sub(scalar.FromInt64(int64(k)), scalar.FromInt64(int64(j))))
		}
		weight := scalar.Mul(yk, scalar.Invert(denominator))
		for i, c := range numerator {
			coeffs[i] = scalar.Add(coeffs[i], scalar.Mul(weight, c))
		}
	}
	return coeffs
}

// polyMulLinear multiplies poly (ascending-power coefficients) by (X - j).
func polyMulLinear(poly []scalar.Scalar, j scalar.Scalar) []scalar.Scalar {
	out := make([]scalar.Scalar, len(poly)+1)
	for i := range out {
		a, b := scalar.Zero(), scalar.Zero()
		if i-1 >= 0 && i-1 < len(poly) {
			a = poly[i-1]
		}
		if i < len(poly) {
			b = poly[i]
		}
		out[i] = scalar.Sub(a, scalar.Mul(j, b))
	}
	return out
}

// evalCoefficients evaluates an ascending-power coefficient polynomial at
// x via Horner's method.
func evalCoefficients(coeffs []scalar.Scalar, x scalar.Scalar) scalar.Scalar {
	acc := scalar.Zero()
	for i := len(coeffs) - 1; i >= 0; i-- {
		acc = scalar.Add(scalar.Mul(acc, x), coeffs[i])
	}
	return acc
}
