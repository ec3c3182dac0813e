package proofbuilder

import (
	"testing"

	"github.com/varshith257/sxt-proof-of-sql/scalar"
	"github.com/varshith257/sxt-proof-of-sql/sumcheck"
	"github.com/varshith257/sxt-proof-of-sql/transcript"
)

func ints(vs ...int64) []scalar.Scalar {
	out := make([]scalar.Scalar, len(vs))
	for i, v := range vs {
		out[i] = scalar.FromInt64(v)
	}
	return out
}

func TestCountBuilderChecksFinalRoundCounts(t *testing.T) {
	count := NewCountBuilder(4)
	count.CountIntermediateMLEs(1)
	count.CountSubpolynomials(1)
	count.CountDegree(2)

	final := NewFinalRoundBuilder(4)
	final.ProduceIntermediateMLE(ints(1, 2, 3, 4))
	one := scalar.One()
	final.ProduceSumcheckSubpolynomial(sumcheck.Identity, []sumcheck.Term{
		{Coefficient: one, Factors: []sumcheck.MLE{sumcheck.MLE(ints(1, 2, 3, 4))}},
	})

	if err := count.CheckFinalRound(final); err != nil {
		t.Errorf("CheckFinalRound rejected a matching final round: %v", err)
	}
}

func TestCountBuilderRejectsMismatchedMLECount(t *testing.T) {
	count := NewCountBuilder(4)
	count.CountIntermediateMLEs(2)
	count.CountSubpolynomials(0)

	final := NewFinalRoundBuilder(4)
	final.ProduceIntermediateMLE(ints(1, 2, 3, 4))

	if err := count.CheckFinalRound(final); err == nil {
		t.Errorf("CheckFinalRound accepted a final round that produced fewer MLEs than counted")
	}
}

func TestCountBuilderRejectsMismatchedSubpolynomialCount(t *testing.T) {
	count := NewCountBuilder(4)
	count.CountSubpolynomials(2)

	final := NewFinalRoundBuilder(4)
	one := scalar.One()
	final.ProduceSumcheckSubpolynomial(sumcheck.Identity, []sumcheck.Term{
		{Coefficient: one, Factors: []sumcheck.MLE{sumcheck.MLE(ints(1, 2, 3, 4))}},
	})

	if err := count.CheckFinalRound(final); err == nil {
		t.Errorf("CheckFinalRound accepted a final round that produced fewer subpolynomials than counted")
	}
}

func TestCountBuilderChecksVerificationCounts(t *testing.T) {
	count := NewCountBuilder(4)
	count.CountIntermediateMLEs(1)
	count.CountSubpolynomials(1)

	verify := NewVerificationBuilder(0, nil, nil, ints(7))
	verify.ConsumeIntermediateMLE()
	verify.ProduceSumcheckSubpolynomialEvaluation(sumcheck.Identity, scalar.FromInt64(7))

	if err := count.CheckVerification(verify); err != nil {
		t.Errorf("CheckVerification rejected a matching verification pass: %v", err)
	}
}

func TestCountBuilderRejectsUnconsumedMLEs(t *testing.T) {
	count := NewCountBuilder(4)
	count.CountIntermediateMLEs(2)

	verify := NewVerificationBuilder(0, nil, nil, ints(7, 9))
	verify.ConsumeIntermediateMLE()

	if err := count.CheckVerification(verify); err == nil {
		t.Errorf("CheckVerification accepted a pass that consumed fewer MLEs than counted")
	}
}

func TestFirstRoundBuilderChallengesAreDeterministic(t *testing.T) {
	proverTr := transcript.New("proofbuilder-first-round-test")
	proverBuilder := NewFirstRoundBuilder()
	p0 := proverBuilder.RequestPostResultChallenge(proverTr)
	p1 := proverBuilder.RequestPostResultChallenge(proverTr)

	verifierTr := transcript.New("proofbuilder-first-round-test")
	verifierBuilder := NewFirstRoundBuilder()
	v0 := verifierBuilder.RequestPostResultChallenge(verifierTr)
	v1 := verifierBuilder.RequestPostResultChallenge(verifierTr)

	if !scalar.Equal(p0, v0) || !scalar.Equal(p1, v1) {
		t.Errorf("post-result challenges diverged between identically-seeded transcripts")
	}
	if scalar.Equal(p0, p1) {
		t.Errorf("two consecutive post-result challenges from the same transcript were equal")
	}
	if len(proverBuilder.Challenges()) != 2 {
		t.Errorf("expected 2 recorded challenges, got %d", len(proverBuilder.Challenges()))
	}
}

func TestVerificationBuilderRecombineMatchesWeightedSum(t *testing.T) {
	verify := NewVerificationBuilder(0, nil, nil, nil)
	verify.ProduceSumcheckSubpolynomialEvaluation(sumcheck.Identity, scalar.FromInt64(3))
	verify.ProduceSumcheckSubpolynomialEvaluation(sumcheck.Identity, scalar.FromInt64(5))

	combo := ints(2, 7)
	got, err := verify.Recombine(combo)
	if err != nil {
		t.Fatalf("Recombine: %v", err)
	}
	want := scalar.FromInt64(2*3 + 7*5)
	if !scalar.Equal(got, want) {
		t.Errorf("Recombine = %s, want %s", got.String(), want.String())
	}
}

func TestVerificationBuilderRecombineRejectsLengthMismatch(t *testing.T) {
	verify := NewVerificationBuilder(0, nil, nil, nil)
	verify.ProduceSumcheckSubpolynomialEvaluation(sumcheck.Identity, scalar.FromInt64(3))

	if _, err := verify.Recombine(ints(1, 2)); err == nil {
		t.Errorf("Recombine accepted a combo-coefficient slice of the wrong length")
	}
}
