package proofbuilder

import (
	"fmt"

	"github.com/varshith257/sxt-proof-of-sql/scalar"
	"github.com/varshith257/sxt-proof-of-sql/sumcheck"
)

// VerificationBuilder is the verifier-side counterpart of FinalRoundBuilder
// (§4.6): an operator's verifier_evaluate consumes intermediate MLE
// evaluations in the same order the prover produced them, then reports
// each subpolynomial's evaluation at the sum-check challenge point for the
// batched identity check against sum-check's FinalEvaluation.
type VerificationBuilder struct {
	// TableLength and ChallengePoint are fixed by sum-check's verification
	// pass before any operator is traversed; operators that need the
	// truncated Lagrange basis directly (literals, constant folds) read
	// them from here rather than threading them through every call.
	TableLength    int
	ChallengePoint []scalar.Scalar

	// EqPoint is sum-check's tau, the point every Identity subpolynomial
	// was folded against (§4.5). ProduceSumcheckSubpolynomialEvaluation
	// uses it to turn an operator's raw identity value into the value
	// sum-check's batched claim actually carries: value * eq(EqPoint,
	// ChallengePoint).
	EqPoint []scalar.Scalar

	mleEvaluations []scalar.Scalar
	cursor         int

	subpolyEvaluations []scalar.Scalar
}

// NewVerificationBuilder starts a VerificationBuilder over the evaluations
// the proof claims for its intermediate MLEs, in production order, at the
// given table length, joint sum-check challenge point, and eq(tau, X)
// point.
func NewVerificationBuilder(tableLength int, challengePoint, eqPoint, mleEvaluations []scalar.Scalar) *VerificationBuilder {
	return &VerificationBuilder{
		TableLength:    tableLength,
		ChallengePoint: challengePoint,
		EqPoint:        eqPoint,
		mleEvaluations: mleEvaluations,
	}
}

// ConsumeIntermediateMLE returns the next claimed MLE evaluation in
// production order. Calling it more times than the prover produced MLEs
// is a protocol error, reported by CheckVerification rather than here —
// consuming past the end instead returns zero so an operator's
// verifier_evaluate never panics mid-traversal.
func (b *VerificationBuilder) ConsumeIntermediateMLE() scalar.Scalar {
	if b.cursor >= len(b.mleEvaluations) {
		b.cursor++
		return scalar.Zero()
	}
	v := b.mleEvaluations[b.cursor]
	b.cursor++
	return v
}

// ProduceSumcheckSubpolynomialEvaluation registers the evaluation an
// operator computed for one of its subpolynomials at the challenge point,
// in the same order the prover registered the matching subpolynomial.
// kind must match the Kind the prover registered the same subpolynomial
// with: for Identity, value is scaled by eq(EqPoint, ChallengePoint) before
// being stored, mirroring the eq(tau, X) factor Prove folds into every
// Identity subpolynomial's round polynomials; ZeroSum is stored unscaled.
func (b *VerificationBuilder) ProduceSumcheckSubpolynomialEvaluation(kind sumcheck.Kind, value scalar.Scalar) {
	if kind == sumcheck.Identity {
		value = scalar.Mul(value, sumcheck.EvalEqPoint(b.EqPoint, b.ChallengePoint))
	}
	b.subpolyEvaluations = append(b.subpolyEvaluations, value)
}

// SubpolynomialEvaluations returns every registered subpolynomial
// evaluation, in registration order — the per-operator values the caller
// recombines with sum-check's ComboCoeffs to check against FinalEvaluation.
func (b *VerificationBuilder) SubpolynomialEvaluations() []scalar.Scalar { return b.subpolyEvaluations }

// Recombine weights each registered subpolynomial evaluation by its
// matching sum-check combination coefficient and sums them — the value
// that must equal sum-check's Verify FinalEvaluation for an honest proof.
func (b *VerificationBuilder) Recombine(comboCoeffs []scalar.Scalar) (scalar.Scalar, error) {
	if len(comboCoeffs) != len(b.subpolyEvaluations) {
		return scalar.Scalar{}, fmt.Errorf("proofbuilder: %d combo coefficients, %d subpolynomial evaluations", len(comboCoeffs), len(b.subpolyEvaluations))
	}
	acc := scalar.Zero()
	for i, v := range b.subpolyEvaluations {
		acc = scalar.Add(acc, scalar.Mul(comboCoeffs[i], v))
	}
	return acc, nil
}
