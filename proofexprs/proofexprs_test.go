package proofexprs

import (
	"testing"

	"github.com/varshith257/sxt-proof-of-sql/arena"
	"github.com/varshith257/sxt-proof-of-sql/dory"
	"github.com/varshith257/sxt-proof-of-sql/proofbuilder"
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

func bigintColumn(values []int64) arena.Column {
	bigints := make([]int64, len(values))
	copy(bigints, values)
	return arena.Column{Type: arena.ColumnType{Kind: arena.KindBigInt}, BigInts: bigints}
}

type fakeAccessor struct {
	columns map[arena.ColumnRef]arena.Column
}

func (f fakeAccessor) GetColumn(ref arena.ColumnRef) arena.Column { return f.columns[ref] }

type fakeVerifierAccessor struct {
	evaluations map[arena.ColumnRef]scalar.Scalar
}

func (f fakeVerifierAccessor) GetColumnEvaluation(ref arena.ColumnRef) (scalar.Scalar, error) {
	return f.evaluations[ref], nil
}

// mleEvalAt computes the multilinear extension of values at challengePoint
// directly from the tensored Lagrange basis, reconciled with sum-check's
// fold order via reverseScalars — the independent reference computation
// every test below checks expression evaluations against.
func mleEvalAt(values []scalar.Scalar, challengePoint []scalar.Scalar) scalar.Scalar {
	size := 1 << uint(len(challengePoint))
	padded := make([]scalar.Scalar, size)
	copy(padded, values)
	for i := len(values); i < size; i++ {
		padded[i] = scalar.Zero()
	}
	basis := dory.ComputeLagrangeBasis(reverseScalars(challengePoint))
	acc := scalar.Zero()
	for i, b := range basis {
		acc = scalar.Add(acc, scalar.Mul(padded[i], b))
	}
	return acc
}

// runRoundTrip drives expr through the full count/prover/verifier cycle
// (mirroring query assembly's H orchestration, without a real Dory
// opening — column evaluations are supplied directly via mleEvalAt,
// exactly what an honest Dory opening would produce) and reports whether
// the batched sum-check identity holds.
func runRoundTrip(t *testing.T, tableLength int, expr DynProofExpr, acc fakeAccessor) (ok bool, resultEval scalar.Scalar) {
	t.Helper()

	count := proofbuilder.NewCountBuilder(tableLength)
	expr.Count(count)

	a := arena.New()
	final := proofbuilder.NewFinalRoundBuilder(tableLength)
	resultCol := expr.ProverEvaluate(final, a, acc)
	if err := count.CheckFinalRound(final); err != nil {
		t.Fatalf("CheckFinalRound: %v", err)
	}

	tr := transcript.New("proofexprs-roundtrip-test")
	result, err := sumcheck.Prove(tr, tableLength, final.MLEs(), final.Subpolynomials())
	if err != nil {
		t.Fatalf("sumcheck.Prove: %v", err)
	}

	verifierEvaluations := make(map[arena.ColumnRef]scalar.Scalar, len(acc.columns))
	for ref, col := range acc.columns {
		verifierEvaluations[ref] = mleEvalAt(col.ToScalars(a), result.ChallengePoint)
	}
	vacc := fakeVerifierAccessor{evaluations: verifierEvaluations}

	verify := proofbuilder.NewVerificationBuilder(tableLength, result.ChallengePoint, result.EqPoint, result.MLEEvaluations)
	claimedEval, err := expr.VerifierEvaluate(verify, vacc)
	if err != nil {
		t.Fatalf("VerifierEvaluate: %v", err)
	}
	if err := count.CheckVerification(verify); err != nil {
		t.Fatalf("CheckVerification: %v", err)
	}

	vtr := transcript.New("proofexprs-roundtrip-test")
	sumOK, vresult, err := sumcheck.Verify(vtr, tableLength, count.NumSubpolynomials(), count.MaxDegree(), result.RoundPolynomials)
	if err != nil {
		t.Fatalf("sumcheck.Verify: %v", err)
	}
	if !sumOK {
		return false, claimedEval
	}

	recombined, err := verify.Recombine(vresult.ComboCoeffs)
	if err != nil {
		t.Fatalf("Recombine: %v", err)
	}
	if !scalar.Equal(recombined, vresult.FinalEvaluation) {
		return false, claimedEval
	}

	resultScalars := resultCol.ToScalars(a)
	expectedEval := mleEvalAt(resultScalars, result.ChallengePoint)
	if !scalar.Equal(claimedEval, expectedEval) {
		t.Errorf("claimed evaluation %s != expected result MLE evaluation %s", claimedEval.String(), expectedEval.String())
	}
	return true, claimedEval
}

var testTable = arena.NewTableRef("", "t")

func colRef(name string) arena.ColumnRef { return arena.NewColumnRef(testTable, name) }

func TestMulExprRoundTrip(t *testing.T) {
	acc := fakeAccessor{columns: map[arena.ColumnRef]arena.Column{
		colRef("a"): bigintColumn([]int64{1, 2, 3, 4}),
		colRef("b"): bigintColumn([]int64{5, 6, 7, 8}),
	}}
	expr := MulExpr{
		Left:  ColumnExpr{Ref: colRef("a"), Type: arena.ColumnType{Kind: arena.KindBigInt}},
		Right: ColumnExpr{Ref: colRef("b"), Type: arena.ColumnType{Kind: arena.KindBigInt}},
	}
	ok, _ := runRoundTrip(t, 4, expr, acc)
	if !ok {
		t.Errorf("MulExpr round trip was rejected")
	}
}

func TestAndOrNotExprRoundTrip(t *testing.T) {
	acc := fakeAccessor{columns: map[arena.ColumnRef]arena.Column{
		colRef("p"): {Type: booleanType, Booleans: []bool{true, false, true, false}},
		colRef("q"): {Type: booleanType, Booleans: []bool{true, true, false, false}},
	}}
	p := ColumnExpr{Ref: colRef("p"), Type: booleanType}
	q := ColumnExpr{Ref: colRef("q"), Type: booleanType}

	for _, tc := range []struct {
		name string
		expr DynProofExpr
	}{
		{"and", AndExpr{Left: p, Right: q}},
		{"or", OrExpr{Left: p, Right: q}},
		{"not", NotExpr{Child: p}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ok, _ := runRoundTrip(t, 4, tc.expr, acc)
			if !ok {
				t.Errorf("%s round trip was rejected", tc.name)
			}
		})
	}
}

func TestDivExprRoundTrip(t *testing.T) {
	acc := fakeAccessor{columns: map[arena.ColumnRef]arena.Column{
		colRef("a"): bigintColumn([]int64{10, 20, 30, 40}),
		colRef("b"): bigintColumn([]int64{2, 4, 5, 8}),
	}}
	expr := DivExpr{
		Left:  ColumnExpr{Ref: colRef("a"), Type: arena.ColumnType{Kind: arena.KindBigInt}},
		Right: ColumnExpr{Ref: colRef("b"), Type: arena.ColumnType{Kind: arena.KindBigInt}},
	}
	ok, _ := runRoundTrip(t, 4, expr, acc)
	if !ok {
		t.Errorf("DivExpr round trip was rejected")
	}
}

func TestEqualsZeroExprRoundTrip(t *testing.T) {
	acc := fakeAccessor{columns: map[arena.ColumnRef]arena.Column{
		colRef("d"): {Type: arena.ColumnType{Kind: arena.KindScalar}, Scalars: ints(0, 5, 0, -3)},
	}}
	expr := EqualsZeroExpr{Child: ColumnExpr{Ref: colRef("d"), Type: arena.ColumnType{Kind: arena.KindScalar}}}
	ok, _ := runRoundTrip(t, 4, expr, acc)
	if !ok {
		t.Errorf("EqualsZeroExpr round trip was rejected")
	}
}

func TestEqualsExprRoundTrip(t *testing.T) {
	acc := fakeAccessor{columns: map[arena.ColumnRef]arena.Column{
		colRef("a"): bigintColumn([]int64{3, 3, 3, 3}),
		colRef("b"): bigintColumn([]int64{3, 4, 2, 3}),
	}}
	expr := EqualsExpr(
		ColumnExpr{Ref: colRef("a"), Type: arena.ColumnType{Kind: arena.KindBigInt}},
		ColumnExpr{Ref: colRef("b"), Type: arena.ColumnType{Kind: arena.KindBigInt}},
	)
	ok, _ := runRoundTrip(t, 4, expr, acc)
	if !ok {
		t.Errorf("EqualsExpr round trip was rejected")
	}
}

func TestInequalityExprRoundTrip(t *testing.T) {
	acc := fakeAccessor{columns: map[arena.ColumnRef]arena.Column{
		colRef("a"): bigintColumn([]int64{1, 5, 3, 10}),
		colRef("b"): bigintColumn([]int64{2, 5, 3, 1}),
	}}
	left := ColumnExpr{Ref: colRef("a"), Type: arena.ColumnType{Kind: arena.KindBigInt}}
	right := ColumnExpr{Ref: colRef("b"), Type: arena.ColumnType{Kind: arena.KindBigInt}}

	for _, tc := range []struct {
		name string
		op   CompareOp
	}{
		{"less", Less},
		{"less-eq", LessEq},
		{"greater", Greater},
		{"greater-eq", GreaterEq},
	} {
		t.Run(tc.name, func(t *testing.T) {
			expr := InequalityExpr(tc.op, left, right)
			ok, _ := runRoundTrip(t, 4, expr, acc)
			if !ok {
				t.Errorf("%s round trip was rejected", tc.name)
			}
		})
	}
}

func TestLiteralExprEvaluatesToScaledBasisSum(t *testing.T) {
	acc := fakeAccessor{columns: map[arena.ColumnRef]arena.Column{
		colRef("a"): bigintColumn([]int64{1, 2, 3, 4}),
	}}
	lit := LiteralExpr{Value: arena.LiteralValue{Type: arena.ColumnType{Kind: arena.KindBigInt}, Int64: 7}}
	col := ColumnExpr{Ref: colRef("a"), Type: arena.ColumnType{Kind: arena.KindBigInt}}
	// Exercise the literal inside a real identity (product with a column)
	// so its verifier-side formula is checked against an honestly folded
	// MLE, not just in isolation.
	expr := MulExpr{Left: lit, Right: col}
	ok, _ := runRoundTrip(t, 4, expr, acc)
	if !ok {
		t.Errorf("literal-times-column round trip was rejected")
	}
}

func TestMulExprRejectsTamperedSubpolynomial(t *testing.T) {
	acc := fakeAccessor{columns: map[arena.ColumnRef]arena.Column{
		colRef("a"): bigintColumn([]int64{1, 2, 3, 4}),
		colRef("b"): bigintColumn([]int64{5, 6, 7, 8}),
	}}
	expr := MulExpr{
		Left:  ColumnExpr{Ref: colRef("a"), Type: arena.ColumnType{Kind: arena.KindBigInt}},
		Right: ColumnExpr{Ref: colRef("b"), Type: arena.ColumnType{Kind: arena.KindBigInt}},
	}

	count := proofbuilder.NewCountBuilder(4)
	expr.Count(count)
	a := arena.New()
	final := proofbuilder.NewFinalRoundBuilder(4)
	expr.ProverEvaluate(final, a, acc)

	tr := transcript.New("proofexprs-tamper-test")
	result, err := sumcheck.Prove(tr, 4, final.MLEs(), final.Subpolynomials())
	if err != nil {
		t.Fatalf("sumcheck.Prove: %v", err)
	}
	// Tamper with the claimed product MLE evaluation directly.
	result.MLEEvaluations[0] = scalar.Add(result.MLEEvaluations[0], scalar.One())

	verifierEvaluations := map[arena.ColumnRef]scalar.Scalar{
		colRef("a"): mleEvalAt(ints(1, 2, 3, 4), result.ChallengePoint),
		colRef("b"): mleEvalAt(ints(5, 6, 7, 8), result.ChallengePoint),
	}
	vacc := fakeVerifierAccessor{evaluations: verifierEvaluations}
	verify := proofbuilder.NewVerificationBuilder(4, result.ChallengePoint, result.EqPoint, result.MLEEvaluations)
	if _, err := expr.VerifierEvaluate(verify, vacc); err != nil {
		t.Fatalf("VerifierEvaluate: %v", err)
	}

	vtr := transcript.New("proofexprs-tamper-test")
	sumOK, vresult, err := sumcheck.Verify(vtr, 4, count.NumSubpolynomials(), count.MaxDegree(), result.RoundPolynomials)
	if err != nil {
		t.Fatalf("sumcheck.Verify: %v", err)
	}
	if !sumOK {
		// sum-check itself already rejects; that satisfies this test.
		return
	}
	recombined, err := verify.Recombine(vresult.ComboCoeffs)
	if err != nil {
		t.Fatalf("Recombine: %v", err)
	}
	if scalar.Equal(recombined, vresult.FinalEvaluation) {
		t.Errorf("tampered MLE evaluation was not caught by the batched identity check")
	}
}

// TestMulExprRejectsCompensatingPairTamper builds the product MLE a
// dishonest prover would submit if it tampered two rows by equal and
// opposite amounts — product[0] too high by delta, product[2] too low by
// the same delta, so the hypercube sum of (product - a*b) is still zero
// even though the identity is false at both rows individually. Before the
// eq(tau, X) folding this engine now applies to Identity subpolynomials,
// a hypercube-sum-only check would accept this; with it, the probability
// the falsehood survives is bounded by Schwartz-Zippel over tau.
func TestMulExprRejectsCompensatingPairTamper(t *testing.T) {
	a := ints(1, 2, 3, 4)
	b := ints(5, 6, 7, 8)
	honestProduct := ints(5, 12, 21, 32) // a[i]*b[i]

	delta := scalar.FromInt64(17)
	tamperedProduct := make([]scalar.Scalar, len(honestProduct))
	copy(tamperedProduct, honestProduct)
	tamperedProduct[0] = scalar.Add(tamperedProduct[0], delta)
	tamperedProduct[2] = scalar.Sub(tamperedProduct[2], delta)

	one := scalar.One()
	neg := scalar.Neg(one)
	sp := sumcheck.Subpolynomial{
		Kind: sumcheck.Identity,
		Terms: []sumcheck.Term{
			{Coefficient: one, Factors: []sumcheck.MLE{sumcheck.MLE(tamperedProduct)}},
			{Coefficient: neg, Factors: []sumcheck.MLE{sumcheck.MLE(a), sumcheck.MLE(b)}},
		},
	}

	tr := transcript.New("proofexprs-compensating-pair-test")
	result, err := sumcheck.Prove(tr, 4, []sumcheck.MLE{sumcheck.MLE(a), sumcheck.MLE(b), sumcheck.MLE(tamperedProduct)}, []sumcheck.Subpolynomial{sp})
	if err != nil {
		t.Fatalf("sumcheck.Prove: %v", err)
	}

	vtr := transcript.New("proofexprs-compensating-pair-test")
	sumOK, vresult, err := sumcheck.Verify(vtr, 4, 1, sumcheck.MaxDegree([]sumcheck.Subpolynomial{sp}), result.RoundPolynomials)
	if err != nil {
		t.Fatalf("sumcheck.Verify: %v", err)
	}
	if !sumOK {
		// sum-check itself already rejects at the round-polynomial level;
		// that alone demonstrates the compensating pair no longer survives.
		return
	}

	aEval, bEval, productEval := result.MLEEvaluations[0], result.MLEEvaluations[1], result.MLEEvaluations[2]
	rawIdentity := scalar.Sub(productEval, scalar.Mul(aEval, bEval))
	scaledIdentity := scalar.Mul(rawIdentity, sumcheck.EvalEqPoint(vresult.EqPoint, vresult.ChallengePoint))
	recombined := scalar.Mul(vresult.ComboCoeffs[0], scaledIdentity)
	if scalar.Equal(recombined, vresult.FinalEvaluation) {
		t.Errorf("a compensating-pair tamper (sum zero, false at two points) was accepted")
	}
}
