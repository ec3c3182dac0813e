package query

import (
	"github.com/varshith257/sxt-proof-of-sql/dory"
	"github.com/varshith257/sxt-proof-of-sql/scalar"
)

// mleEvalAt computes the multilinear extension of values at a sum-check
// challenge point directly from the tensored Lagrange basis. Sum-check's
// fold order treats the first-drawn challenge as folding the
// least-significant bit of the index, while dory.ComputeLagrangeBasis
// treats its argument's first coordinate as the most-significant one
// (see proofexprs/literal.go's identical reversal for the derivation) —
// reverseChallengePoint reconciles the two before either is used.
func mleEvalAt(values []scalar.Scalar, challengePoint []scalar.Scalar) scalar.Scalar {
	size := 1 << uint(len(challengePoint))
	padded := make([]scalar.Scalar, size)
	copy(padded, values)
	for i := len(values); i < size; i++ {
		padded[i] = scalar.Zero()
	}
	basis := dory.ComputeLagrangeBasis(reverseChallengePoint(challengePoint))
	acc := scalar.Zero()
	for i, b := range basis {
		acc = scalar.Add(acc, scalar.Mul(padded[i], b))
	}
	return acc
}

func reverseChallengePoint(challengePoint []scalar.Scalar) []scalar.Scalar {
	l := len(challengePoint)
	out := make([]scalar.Scalar, l)
	for i, v := range challengePoint {
		out[l-1-i] = v
	}
	return out
}

// dorySplitPoint converts a sum-check challenge point (length ℓ,
// least-significant-bit-first per sum-check's fold order) into the
// row/column tensor halves Dory's evaluation proof expects: each of
// length ν = dory.NuForLength(tableLength), most-significant-bit-first,
// per dory.ComputeLagrangeBasis's convention (§4.4: a committed vector is
// tiled into a 2^ν × 2^ν matrix, row index carrying the high-order bits
// of the flat index, column index the low-order bits).
//
// Because ν is sized to the table length rather than derived from ℓ
// directly, the matrix's 2ν-bit index space can exceed ℓ bits when ℓ is
// odd (2ν = ℓ+1); the extra high-order bit is always zero for any index
// below 2^ℓ, so it is zero-padded onto the most-significant end of the
// row half.
func dorySplitPoint(challengePoint []scalar.Scalar, nu int) (row, col []scalar.Scalar) {
	msbFirst := reverseChallengePoint(challengePoint)
	full := make([]scalar.Scalar, 2*nu)
	pad := 2*nu - len(msbFirst)
	for i := 0; i < pad; i++ {
		full[i] = scalar.Zero()
	}
	copy(full[pad:], msbFirst)
	return full[:nu], full[nu:]
}

// dorySplitX concatenates dorySplitPoint's halves into the single tensor
// point dory.Prove/dory.Verify take.
func dorySplitX(challengePoint []scalar.Scalar, nu int) []scalar.Scalar {
	row, col := dorySplitPoint(challengePoint, nu)
	return append(row, col...)
}
