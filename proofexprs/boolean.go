package proofexprs

import (
	"github.com/varshith257/sxt-proof-of-sql/arena"
	"github.com/varshith257/sxt-proof-of-sql/proofbuilder"
	"github.com/varshith257/sxt-proof-of-sql/scalar"
	"github.com/varshith257/sxt-proof-of-sql/sumcheck"
)

var booleanType = arena.ColumnType{Kind: arena.KindBoolean}

func boolColumn(a *arena.Arena, n int, f func(int) bool) arena.Column {
	return arena.Column{Type: booleanType, Booleans: arena.AllocSliceFillWith(a, n, f)}
}

// NotExpr is Boolean negation, `1 - a` (§4.7 "Boolean algebra"). No
// intermediate MLE or subpolynomial: the verifier recomputes `1 -
// childEval` directly.
type NotExpr struct {
	Child DynProofExpr
}

func (e NotExpr) ColumnType() arena.ColumnType { return booleanType }

func (e NotExpr) ReferencedColumns() []arena.ColumnRef { return e.Child.ReferencedColumns() }

func (e NotExpr) Count(builder *proofbuilder.CountBuilder) { e.Child.Count(builder) }

func (e NotExpr) ResultEvaluate(length int, a *arena.Arena, acc Accessor) arena.Column {
	child := e.Child.ResultEvaluate(length, a, acc)
	return boolColumn(a, length, func(i int) bool { return !child.Booleans[i] })
}

func (e NotExpr) ProverEvaluate(builder *proofbuilder.FinalRoundBuilder, a *arena.Arena, acc Accessor) arena.Column {
	child := e.Child.ProverEvaluate(builder, a, acc)
	return boolColumn(a, builder.TableLength, func(i int) bool { return !child.Booleans[i] })
}

func (e NotExpr) VerifierEvaluate(builder *proofbuilder.VerificationBuilder, acc VerifierAccessor) (scalar.Scalar, error) {
	childEval, err := e.Child.VerifierEvaluate(builder, acc)
	if err != nil {
		return scalar.Scalar{}, err
	}
	return scalar.Sub(scalar.One(), childEval), nil
}

// AndExpr is Boolean conjunction, `a * b`, registered as one intermediate
// MLE (the product) plus one Identity subpolynomial `product - a*b ≡ 0`
// (§4.7 "Boolean algebra").
type AndExpr struct {
	Left, Right DynProofExpr
}

func (e AndExpr) ColumnType() arena.ColumnType { return booleanType }

func (e AndExpr) ReferencedColumns() []arena.ColumnRef {
	return append(e.Left.ReferencedColumns(), e.Right.ReferencedColumns()...)
}

func (e AndExpr) Count(builder *proofbuilder.CountBuilder) {
	e.Left.Count(builder)
	e.Right.Count(builder)
	builder.CountIntermediateMLEs(1)
	builder.CountSubpolynomials(1)
	builder.CountDegree(3) // degree 2 plus the Identity's eq(tau, X) factor
}

func (e AndExpr) ResultEvaluate(length int, a *arena.Arena, acc Accessor) arena.Column {
	left := e.Left.ResultEvaluate(length, a, acc)
	right := e.Right.ResultEvaluate(length, a, acc)
	return boolColumn(a, length, func(i int) bool { return left.Booleans[i] && right.Booleans[i] })
}

func (e AndExpr) ProverEvaluate(builder *proofbuilder.FinalRoundBuilder, a *arena.Arena, acc Accessor) arena.Column {
	left := e.Left.ProverEvaluate(builder, a, acc)
	right := e.Right.ProverEvaluate(builder, a, acc)
	product := boolColumn(a, builder.TableLength, func(i int) bool { return left.Booleans[i] && right.Booleans[i] })

	productScalars := product.ToScalars(a)
	leftScalars := left.ToScalars(a)
	rightScalars := right.ToScalars(a)
	builder.ProduceIntermediateMLE(productScalars)

	one := scalar.One()
	neg := scalar.Neg(one)
	builder.ProduceSumcheckSubpolynomial(sumcheck.Identity, []sumcheck.Term{
		{Coefficient: one, Factors: []sumcheck.MLE{sumcheck.MLE(productScalars)}},
		{Coefficient: neg, Factors: []sumcheck.MLE{sumcheck.MLE(leftScalars), sumcheck.MLE(rightScalars)}},
	})
	return product
}

func (e AndExpr) VerifierEvaluate(builder *proofbuilder.VerificationBuilder, acc VerifierAccessor) (scalar.Scalar, error) {
	leftEval, err := e.Left.VerifierEvaluate(builder, acc)
	if err != nil {
		return scalar.Scalar{}, err
	}
	rightEval, err := e.Right.VerifierEvaluate(builder, acc)
	if err != nil {
		return scalar.Scalar{}, err
	}
	productEval := builder.ConsumeIntermediateMLE()
	identity := scalar.Sub(productEval, scalar.Mul(leftEval, rightEval))
	builder.ProduceSumcheckSubpolynomialEvaluation(sumcheck.Identity, identity)
	return productEval, nil
}

// OrExpr is Boolean disjunction, `a + b - a*b` (§4.7 "Boolean algebra"),
// built directly from AndExpr's product bookkeeping.
type OrExpr struct {
	Left, Right DynProofExpr
}

func (e OrExpr) ColumnType() arena.ColumnType { return booleanType }

func (e OrExpr) ReferencedColumns() []arena.ColumnRef {
	return append(e.Left.ReferencedColumns(), e.Right.ReferencedColumns()...)
}

func (e OrExpr) and() AndExpr { return AndExpr{Left: e.Left, Right: e.Right} }

func (e OrExpr) Count(builder *proofbuilder.CountBuilder) { e.and().Count(builder) }

func (e OrExpr) ResultEvaluate(length int, a *arena.Arena, acc Accessor) arena.Column {
	left := e.Left.ResultEvaluate(length, a, acc)
	right := e.Right.ResultEvaluate(length, a, acc)
	return boolColumn(a, length, func(i int) bool { return left.Booleans[i] || right.Booleans[i] })
}

func (e OrExpr) ProverEvaluate(builder *proofbuilder.FinalRoundBuilder, a *arena.Arena, acc Accessor) arena.Column {
	// The product a*b is exactly the subpolynomial the verifier needs to
	// recompute a+b-a*b; reuse AndExpr's bookkeeping, then reshape the
	// boolean OR result column.
	left := e.Left.ProverEvaluate(builder, a, acc)
	right := e.Right.ProverEvaluate(builder, a, acc)
	product := boolColumn(a, builder.TableLength, func(i int) bool { return left.Booleans[i] && right.Booleans[i] })

	productScalars := product.ToScalars(a)
	leftScalars := left.ToScalars(a)
	rightScalars := right.ToScalars(a)
	builder.ProduceIntermediateMLE(productScalars)

	one := scalar.One()
	neg := scalar.Neg(one)
	builder.ProduceSumcheckSubpolynomial(sumcheck.Identity, []sumcheck.Term{
		{Coefficient: one, Factors: []sumcheck.MLE{sumcheck.MLE(productScalars)}},
		{Coefficient: neg, Factors: []sumcheck.MLE{sumcheck.MLE(leftScalars), sumcheck.MLE(rightScalars)}},
	})

	return boolColumn(a, builder.TableLength, func(i int) bool { return left.Booleans[i] || right.Booleans[i] })
}

func (e OrExpr) VerifierEvaluate(builder *proofbuilder.VerificationBuilder, acc VerifierAccessor) (scalar.Scalar, error) {
	leftEval, err := e.Left.VerifierEvaluate(builder, acc)
	if err != nil {
		return scalar.Scalar{}, err
	}
	rightEval, err := e.Right.VerifierEvaluate(builder, acc)
	if err != nil {
		return scalar.Scalar{}, err
	}
	productEval := builder.ConsumeIntermediateMLE()
	identity := scalar.Sub(productEval, scalar.Mul(leftEval, rightEval))
	builder.ProduceSumcheckSubpolynomialEvaluation(sumcheck.Identity, identity)
	return scalar.Sub(scalar.Add(leftEval, rightEval), productEval), nil
}
