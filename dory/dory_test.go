package dory

import (
	"testing"

	"github.com/varshith257/sxt-proof-of-sql/scalar"
	"github.com/varshith257/sxt-proof-of-sql/transcript"
)

func testSetups(t *testing.T, maxNu int) (*ProverSetup, *VerifierSetup) {
	t.Helper()
	pp, err := Setup(maxNu, TestOnly)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	ps := NewProverSetup(pp)
	vs, err := NewVerifierSetup(pp)
	if err != nil {
		t.Fatalf("NewVerifierSetup: %v", err)
	}
	return ps, vs
}

func valuesFromInts(ints ...int64) []scalar.Scalar {
	out := make([]scalar.Scalar, len(ints))
	for i, v := range ints {
		out[i] = scalar.FromInt64(v)
	}
	return out
}

func TestCommitRoundTrip(t *testing.T) {
	ps, _ := testSetups(t, 2)
	values := valuesFromInts(1, 2, 3, 4, 5)

	c1, err := Commit(ps, values, nil)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	c2, err := Commit(ps, values, nil)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if !c1.Equal(c2) {
		t.Errorf("committing the same values twice produced different commitments")
	}

	other, err := Commit(ps, valuesFromInts(1, 2, 3, 4, 6), nil)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if c1.Equal(other) {
		t.Errorf("committing different values produced equal commitments")
	}
}

func TestCommitHomomorphism(t *testing.T) {
	ps, _ := testSetups(t, 2)
	a := valuesFromInts(1, 2, 3, 4)
	b := valuesFromInts(10, 20, 30, 40)
	sum := valuesFromInts(11, 22, 33, 44)

	ca, err := Commit(ps, a, nil)
	if err != nil {
		t.Fatalf("Commit a: %v", err)
	}
	cb, err := Commit(ps, b, nil)
	if err != nil {
		t.Fatalf("Commit b: %v", err)
	}
	csum, err := Commit(ps, sum, nil)
	if err != nil {
		t.Fatalf("Commit sum: %v", err)
	}

	got, err := Add(ca, cb)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !got.Equal(csum) {
		t.Errorf("Commit(a)+Commit(b) != Commit(a+b)")
	}

	back, err := Sub(got, cb)
	if err != nil {
		t.Fatalf("Sub: %v", err)
	}
	if !back.Equal(ca) {
		t.Errorf("(Commit(a)+Commit(b))-Commit(b) != Commit(a)")
	}
}

func TestEvaluationProofRoundTrip(t *testing.T) {
	ps, vs := testSetups(t, 1)
	values := valuesFromInts(3, 5, 7, 11)

	commitment, err := Commit(ps, values, nil)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	x := []scalar.Scalar{scalar.FromInt64(2), scalar.FromInt64(9)}
	rowTensor := ComputeLagrangeBasis(x[:1])
	colTensor := ComputeLagrangeBasis(x[1:])
	m := 2
	y := scalar.Zero()
	for i := 0; i < m; i++ {
		for j := 0; j < m; j++ {
			term := scalar.Mul(rowTensor[i], colTensor[j])
			term = scalar.Mul(term, values[i*m+j])
			y = scalar.Add(y, term)
		}
	}

	proveTr := transcript.New("evaluation-proof-test")
	proof, err := Prove(ps, proveTr, values, x, y)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}

	verifyTr := transcript.New("evaluation-proof-test")
	ok, err := Verify(vs, verifyTr, commitment, x, y, proof)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Errorf("Verify rejected a valid proof")
	}
}

func TestEvaluationProofRejectsWrongEvaluation(t *testing.T) {
	ps, vs := testSetups(t, 1)
	values := valuesFromInts(3, 5, 7, 11)

	commitment, err := Commit(ps, values, nil)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	x := []scalar.Scalar{scalar.FromInt64(2), scalar.FromInt64(9)}
	wrongY := scalar.FromInt64(1234)

	proveTr := transcript.New("evaluation-proof-wrong-y")
	proof, err := Prove(ps, proveTr, values, x, wrongY)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}

	verifyTr := transcript.New("evaluation-proof-wrong-y")
	ok, err := Verify(vs, verifyTr, commitment, x, wrongY, proof)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Errorf("Verify accepted a proof for a fabricated evaluation")
	}
}

func TestEvaluationProofRejectsTamperedFinalScalar(t *testing.T) {
	ps, vs := testSetups(t, 1)
	values := valuesFromInts(3, 5, 7, 11)

	commitment, err := Commit(ps, values, nil)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	x := []scalar.Scalar{scalar.FromInt64(2), scalar.FromInt64(9)}
	rowTensor := ComputeLagrangeBasis(x[:1])
	colTensor := ComputeLagrangeBasis(x[1:])
	m := 2
	y := scalar.Zero()
	for i := 0; i < m; i++ {
		for j := 0; j < m; j++ {
			term := scalar.Mul(rowTensor[i], colTensor[j])
			term = scalar.Mul(term, values[i*m+j])
			y = scalar.Add(y, term)
		}
	}

	proveTr := transcript.New("evaluation-proof-tamper")
	proof, err := Prove(ps, proveTr, values, x, y)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	proof.AFinal = scalar.Add(proof.AFinal, scalar.One())

	verifyTr := transcript.New("evaluation-proof-tamper")
	ok, err := Verify(vs, verifyTr, commitment, x, y, proof)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Errorf("Verify accepted a proof with a tampered final scalar")
	}
}

func TestEvaluationProofRejectsNuAboveMax(t *testing.T) {
	ps, _ := testSetups(t, 1)
	values := valuesFromInts(3, 5, 7, 11)
	x := make([]scalar.Scalar, 6)
	for i := range x {
		x[i] = scalar.FromInt64(int64(i + 1))
	}

	tr := transcript.New("evaluation-proof-too-big")
	if _, err := Prove(ps, tr, values, x, scalar.Zero()); err == nil {
		t.Errorf("Prove accepted a tensor point with nu exceeding max_nu")
	}
}
