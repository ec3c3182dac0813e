package sumcheck

import (
	"testing"

	"github.com/varshith257/sxt-proof-of-sql/scalar"
	"github.com/varshith257/sxt-proof-of-sql/transcript"
)

func ints(vs ...int64) []scalar.Scalar {
	out := make([]scalar.Scalar, len(vs))
	for i, v := range vs {
		out[i] = scalar.FromInt64(v)
	}
	return out
}

// recombine evaluates the same per-subpolynomial scalar expression the
// prover's array-based Terms compute, but directly from the MLE
// evaluations at the challenge point (as a verifier would, having no
// access to the underlying arrays) — used to check Verify's
// FinalEvaluation against an independent computation.
func recombine(combo []scalar.Scalar, perSubpolyEval []scalar.Scalar) scalar.Scalar {
	acc := scalar.Zero()
	for i, v := range perSubpolyEval {
		acc = scalar.Add(acc, scalar.Mul(combo[i], v))
	}
	return acc
}

func TestProveVerifyRoundTrip(t *testing.T) {
	a := ints(1, 2, 3, 4)
	b := ints(5, 6, 7, 8)
	product := ints(5, 12, 21, 32) // a[i]*b[i], elementwise

	// Subpolynomial 0 (Identity): product - a*b == 0 everywhere.
	one := scalar.One()
	neg := scalar.Neg(one)
	sp0 := Subpolynomial{
		Kind: Identity,
		Terms: []Term{
			{Coefficient: one, Factors: []MLE{MLE(product)}},
			{Coefficient: neg, Factors: []MLE{MLE(a), MLE(b)}},
		},
	}

	tableLength := 4
	tr := transcript.New("sumcheck-test")
	result, err := Prove(tr, tableLength, []MLE{MLE(a), MLE(b), MLE(product)}, []Subpolynomial{sp0})
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	if len(result.MLEEvaluations) != 3 {
		t.Fatalf("expected 3 MLE evaluations, got %d", len(result.MLEEvaluations))
	}

	vtr := transcript.New("sumcheck-test")
	ok, vresult, err := Verify(vtr, tableLength, 1, MaxDegree([]Subpolynomial{sp0}), result.RoundPolynomials)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatalf("Verify rejected an honest proof")
	}

	aEval, bEval, productEval := result.MLEEvaluations[0], result.MLEEvaluations[1], result.MLEEvaluations[2]
	subpolyEval := scalar.Mul(scalar.Sub(productEval, scalar.Mul(aEval, bEval)), EvalEqPoint(vresult.EqPoint, vresult.ChallengePoint))
	got := recombine(vresult.ComboCoeffs, []scalar.Scalar{subpolyEval})
	if !scalar.Equal(got, vresult.FinalEvaluation) {
		t.Errorf("recombined evaluation %s != verifier's final evaluation %s", got.String(), vresult.FinalEvaluation.String())
	}
}

func TestVerifyRejectsTamperedRoundPolynomial(t *testing.T) {
	a := ints(1, 2, 3, 4)
	b := ints(5, 6, 7, 8)
	product := ints(5, 12, 21, 32)

	one := scalar.One()
	neg := scalar.Neg(one)
	sp0 := Subpolynomial{
		Kind: Identity,
		Terms: []Term{
			{Coefficient: one, Factors: []MLE{MLE(product)}},
			{Coefficient: neg, Factors: []MLE{MLE(a), MLE(b)}},
		},
	}

	tr := transcript.New("sumcheck-tamper-test")
	result, err := Prove(tr, 4, []MLE{MLE(a), MLE(b), MLE(product)}, []Subpolynomial{sp0})
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	result.RoundPolynomials[0][0] = scalar.Add(result.RoundPolynomials[0][0], scalar.One())

	vtr := transcript.New("sumcheck-tamper-test")
	ok, _, err := Verify(vtr, 4, 1, MaxDegree([]Subpolynomial{sp0}), result.RoundPolynomials)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Errorf("Verify accepted a tampered round polynomial")
	}
}

func TestVerifyRejectsWrongRoundCount(t *testing.T) {
	tr := transcript.New("sumcheck-wrong-rounds")
	ok, _, err := Verify(tr, 8, 1, 2, [][]scalar.Scalar{{scalar.Zero(), scalar.Zero(), scalar.Zero()}})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Errorf("Verify accepted a proof with too few round polynomials for its table length")
	}
}

func TestZeroSumSubpolynomial(t *testing.T) {
	// a sums to 10 across its four entries; (a - const(2.5))-shaped claims
	// aren't representable over the integers, so instead assert a genuine
	// ZeroSum example: d[i] = a[i] - b[i] where a and b are permutations
	// of each other, so sum(d) = 0 even though d is not zero pointwise.
	a := ints(1, 2, 3, 4)
	b := ints(4, 3, 2, 1)
	d := ints(-3, -1, 1, 3)

	one := scalar.One()
	neg := scalar.Neg(one)
	spD := Subpolynomial{
		Kind: Identity,
		Terms: []Term{
			{Coefficient: one, Factors: []MLE{MLE(d)}},
			{Coefficient: neg, Factors: []MLE{MLE(a)}},
			{Coefficient: one, Factors: []MLE{MLE(b)}},
		},
	}
	spZero := Subpolynomial{
		Kind: ZeroSum,
		Terms: []Term{
			{Coefficient: one, Factors: []MLE{MLE(d)}},
		},
	}

	tr := transcript.New("sumcheck-zerosum")
	result, err := Prove(tr, 4, []MLE{MLE(d)}, []Subpolynomial{spD, spZero})
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}

	vtr := transcript.New("sumcheck-zerosum")
	ok, _, err := Verify(vtr, 4, 2, MaxDegree([]Subpolynomial{spD, spZero}), result.RoundPolynomials)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatalf("Verify rejected an honest proof combining an Identity and a ZeroSum subpolynomial")
	}
}
