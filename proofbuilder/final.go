package proofbuilder

import "github.com/varshith257/sxt-proof-of-sql/sumcheck"

// FinalRoundBuilder is the prover-side accumulator an operator's
// prover_evaluate method writes into (§4.6): every intermediate MLE it
// materializes and every subpolynomial identity it registers feeds the
// single batched sum-check run at the end of a proof's final round.
type FinalRoundBuilder struct {
	TableLength int

	mles     []sumcheck.MLE
	subpolys []sumcheck.Subpolynomial
}

// NewFinalRoundBuilder starts an empty accumulator for a table of the
// given length.
func NewFinalRoundBuilder(tableLength int) *FinalRoundBuilder {
	return &FinalRoundBuilder{TableLength: tableLength}
}

// ProduceIntermediateMLE registers values as an intermediate MLE the
// verifier will later be given an opening for, and returns its index for
// later reference within this operator's own subpolynomials.
func (b *FinalRoundBuilder) ProduceIntermediateMLE(values sumcheck.MLE) int {
	b.mles = append(b.mles, values)
	return len(b.mles) - 1
}

// ProduceSumcheckSubpolynomial registers one more subpolynomial the
// batched sum-check run must fold in.
func (b *FinalRoundBuilder) ProduceSumcheckSubpolynomial(kind sumcheck.Kind, terms []sumcheck.Term) {
	b.subpolys = append(b.subpolys, sumcheck.Subpolynomial{Kind: kind, Terms: terms})
}

// MLEs returns every registered intermediate MLE, in production order —
// the slice sum-check's Prove folds and evaluates.
func (b *FinalRoundBuilder) MLEs() []sumcheck.MLE { return b.mles }

// Subpolynomials returns every registered subpolynomial, in production
// order — the slice sum-check's Prove batches via random combination.
func (b *FinalRoundBuilder) Subpolynomials() []sumcheck.Subpolynomial { return b.subpolys }
