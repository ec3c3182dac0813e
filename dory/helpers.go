package dory

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/varshith257/sxt-proof-of-sql/scalar"
)

// msmG1Scalars computes the multi-scalar multiplication of points weighted
// by scalars, the primitive every row commitment and every reduce-round
// cross term in this package reduces to.
func msmG1Scalars(points []bn254.G1Affine, weights []scalar.Scalar) (bn254.G1Affine, error) {
	frWeights := make([]fr.Element, len(weights))
	for i, w := range weights {
		frWeights[i] = scalarToFr(w)
	}
	var result bn254.G1Affine
	if _, err := result.MultiExp(points, frWeights, ecc.MultiExpConfig{}); err != nil {
		return bn254.G1Affine{}, err
	}
	return result, nil
}

// addScaled returns point + coeff*gen.
func addScaled(point, gen bn254.G1Affine, coeff scalar.Scalar) bn254.G1Affine {
	var scaled, result bn254.G1Affine
	scaled.ScalarMultiplication(&gen, scalarToFr(coeff).BigInt(new(big.Int)))
	result.Add(&point, &scaled)
	return result
}

// foldG1 returns left[i] + coeff*right[i] for each i, the reduce round's
// fold of a secret or public G1 vector.
func foldG1(left, right []bn254.G1Affine, coeff scalar.Scalar) []bn254.G1Affine {
	out := make([]bn254.G1Affine, len(left))
	c := scalarToFr(coeff).BigInt(new(big.Int))
	for i := range left {
		var scaled bn254.G1Affine
		scaled.ScalarMultiplication(&right[i], c)
		out[i].Add(&left[i], &scaled)
	}
	return out
}

// foldG2 returns left[i] + coeff*right[i] for each i.
func foldG2(left, right []bn254.G2Affine, coeff scalar.Scalar) []bn254.G2Affine {
	out := make([]bn254.G2Affine, len(left))
	c := scalarToFr(coeff).BigInt(new(big.Int))
	for i := range left {
		var scaled bn254.G2Affine
		scaled.ScalarMultiplication(&right[i], c)
		out[i].Add(&left[i], &scaled)
	}
	return out
}

// foldScalars returns left[i] + coeff*right[i] for each i.
func foldScalars(left, right []scalar.Scalar, coeff scalar.Scalar) []scalar.Scalar {
	out := make([]scalar.Scalar, len(left))
	for i := range left {
		out[i] = scalar.Add(left[i], scalar.Mul(coeff, right[i]))
	}
	return out
}

// innerProduct returns sum_i a[i]*b[i]. a and b must have equal length.
func innerProduct(a, b []scalar.Scalar) scalar.Scalar {
	acc := scalar.Zero()
	for i := range a {
		acc = scalar.Add(acc, scalar.Mul(a[i], b[i]))
	}
	return acc
}
