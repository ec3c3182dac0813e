// Package proofbuilder implements the four builders every proof-plan
// operator is written against (§4.6): CountBuilder, FirstRoundBuilder,
// FinalRoundBuilder, and VerificationBuilder. They enforce the single-pass
// contract — an operator declares its MLE/subpolynomial budget once, then
// produces or consumes exactly that many, in the same order on both sides.
package proofbuilder

import (
	"fmt"

	"github.com/varshith257/sxt-proof-of-sql/sumcheck"
)

// CountBuilder lets operators declare, before prove or verify runs, how
// many intermediate MLEs and subpolynomials they will produce and the
// maximum degree among them (§4.6). Used once per proof, shared between
// the prove and verify passes so both sides agree on the budget.
type CountBuilder struct {
	TableLength          int
	numIntermediateMLEs  int
	numSubpolynomials    int
	maxDegree            int
	numPostResultChallenges int
}

// NewCountBuilder starts a budget declaration for a plan over a table of
// the given length.
func NewCountBuilder(tableLength int) *CountBuilder {
	return &CountBuilder{TableLength: tableLength}
}

// CountIntermediateMLEs declares that the calling operator will produce n
// more intermediate MLEs.
func (b *CountBuilder) CountIntermediateMLEs(n int) { b.numIntermediateMLEs += n }

// CountSubpolynomials declares that the calling operator will register n
// more subpolynomials.
func (b *CountBuilder) CountSubpolynomials(n int) { b.numSubpolynomials += n }

// CountDegree folds d into the plan's overall degree budget.
func (b *CountBuilder) CountDegree(d int) {
	if d > b.maxDegree {
		b.maxDegree = d
	}
}

// CountPostResultChallenges declares that the calling operator will draw n
// more FirstRoundBuilder challenges.
func (b *CountBuilder) CountPostResultChallenges(n int) { b.numPostResultChallenges += n }

// NumIntermediateMLEs returns the declared MLE budget.
func (b *CountBuilder) NumIntermediateMLEs() int { return b.numIntermediateMLEs }

// NumSubpolynomials returns the declared subpolynomial budget.
func (b *CountBuilder) NumSubpolynomials() int { return b.numSubpolynomials }

// MaxDegree returns the declared degree budget.
func (b *CountBuilder) MaxDegree() int { return b.maxDegree }

// NumPostResultChallenges returns the declared FirstRoundBuilder budget.
func (b *CountBuilder) NumPostResultChallenges() int { return b.numPostResultChallenges }

// CheckFinalRound reports a protocol error if a FinalRoundBuilder produced
// a different number of MLEs or subpolynomials than this CountBuilder
// declared, or a degree this CountBuilder didn't budget for (§4.6's
// "mismatch between declared and actual counts is a protocol error").
func (b *CountBuilder) CheckFinalRound(f *FinalRoundBuilder) error {
	if len(f.mles) != b.numIntermediateMLEs {
		return fmt.Errorf("proofbuilder: produced %d intermediate MLEs, counted %d", len(f.mles), b.numIntermediateMLEs)
	}
	if len(f.subpolys) != b.numSubpolynomials {
		return fmt.Errorf("proofbuilder: produced %d subpolynomials, counted %d", len(f.subpolys), b.numSubpolynomials)
	}
	if sumcheck.MaxDegree(f.subpolys) > b.maxDegree {
		return fmt.Errorf("proofbuilder: produced degree %d exceeds counted budget %d", sumcheck.MaxDegree(f.subpolys), b.maxDegree)
	}
	return nil
}

// CheckVerification reports a protocol error if a VerificationBuilder
// didn't consume exactly the declared number of intermediate MLEs or
// register exactly the declared number of subpolynomial evaluations.
func (b *CountBuilder) CheckVerification(v *VerificationBuilder) error {
	if v.cursor != b.numIntermediateMLEs {
		return fmt.Errorf("proofbuilder: consumed %d of %d counted intermediate MLEs", v.cursor, b.numIntermediateMLEs)
	}
	if len(v.subpolyEvaluations) != b.numSubpolynomials {
		return fmt.Errorf("proofbuilder: registered %d subpolynomial evaluations, counted %d", len(v.subpolyEvaluations), b.numSubpolynomials)
	}
	return nil
}
