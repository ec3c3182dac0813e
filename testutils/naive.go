// Package testutils provides the in-memory fixtures end-to-end tests need
// across this repo: a naive, non-cryptographic commitment scheme (§9
// "Polymorphism over commitment schemes... a naive in-memory implementation
// is another [scheme], used for tests"), in-memory schema/data/commitment
// accessors satisfying the query package's external interfaces, and the two
// literal fixture tables §8's end-to-end scenarios name.
package testutils

import (
	"github.com/varshith257/sxt-proof-of-sql/dory"
	"github.com/varshith257/sxt-proof-of-sql/scalar"
)

// NaiveCommitment is the plaintext-everything member of §9's commitment
// trait: committing just copies the vector, and "opening" is a direct MLE
// evaluation with no group arithmetic at all. It exists for tests that
// want to exercise proofexprs/proofplans without paying for a Dory
// parameter setup; it carries none of Dory's binding guarantee, so it
// never appears in query.ProveQuery/VerifyQuery, which are hard-wired to
// *dory.Commitment.
type NaiveCommitment struct {
	Values []scalar.Scalar
}

// NaiveCommit copies values into a NaiveCommitment.
func NaiveCommit(values []scalar.Scalar) NaiveCommitment {
	return NaiveCommitment{Values: append([]scalar.Scalar(nil), values...)}
}

// Evaluate computes the multilinear extension of c's committed vector at
// point, the same tensored-Lagrange-basis construction query.ProveQuery
// uses to check a Dory opening against a sum-check challenge point (see
// query/eval.go's mleEvalAt) but without any pairing.
func (c NaiveCommitment) Evaluate(point []scalar.Scalar) scalar.Scalar {
	size := 1 << uint(len(point))
	padded := make([]scalar.Scalar, size)
	copy(padded, c.Values)
	for i := len(c.Values); i < size; i++ {
		padded[i] = scalar.Zero()
	}
	reversed := make([]scalar.Scalar, len(point))
	for i, v := range point {
		reversed[len(point)-1-i] = v
	}
	basis := dory.ComputeLagrangeBasis(reversed)
	acc := scalar.Zero()
	for i, b := range basis {
		acc = scalar.Add(acc, scalar.Mul(padded[i], b))
	}
	return acc
}

// VerifyOpening reports whether claimed is c's evaluation at point — the
// naive scheme's whole "opening proof" is just recomputing it.
func (c NaiveCommitment) VerifyOpening(point []scalar.Scalar, claimed scalar.Scalar) bool {
	return scalar.Equal(c.Evaluate(point), claimed)
}
