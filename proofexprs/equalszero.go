package proofexprs

import (
	"github.com/varshith257/sxt-proof-of-sql/arena"
	"github.com/varshith257/sxt-proof-of-sql/proofbuilder"
	"github.com/varshith257/sxt-proof-of-sql/scalar"
	"github.com/varshith257/sxt-proof-of-sql/sumcheck"
)

// EqualsZeroExpr is the equals-zero gadget at the heart of every
// comparison (§4.7 "Equals-zero"): given a Scalar-valued child, it proves
// `selection[i] == (child[i] == 0)` with soundness error 1/|F| per row.
type EqualsZeroExpr struct {
	Child DynProofExpr
}

func (e EqualsZeroExpr) ColumnType() arena.ColumnType { return booleanType }

func (e EqualsZeroExpr) ReferencedColumns() []arena.ColumnRef { return e.Child.ReferencedColumns() }

func (e EqualsZeroExpr) Count(builder *proofbuilder.CountBuilder) {
	e.Child.Count(builder)
	builder.CountIntermediateMLEs(2) // pseudoInverse, selectionNot
	builder.CountSubpolynomials(2)
	builder.CountDegree(3) // degree 2 plus the Identity's eq(tau, X) factor
}

func (e EqualsZeroExpr) ResultEvaluate(length int, a *arena.Arena, acc Accessor) arena.Column {
	lhs := e.Child.ResultEvaluate(length, a, acc).ToScalars(a)
	selection, _, _ := computeEqualsZero(a, length, lhs)
	return boolColumn(a, length, func(i int) bool { return selection[i] })
}

func (e EqualsZeroExpr) ProverEvaluate(builder *proofbuilder.FinalRoundBuilder, a *arena.Arena, acc Accessor) arena.Column {
	lhs := e.Child.ProverEvaluate(builder, a, acc).ToScalars(a)
	selection, selectionNot, pseudoInverse := computeEqualsZero(a, builder.TableLength, lhs)

	builder.ProduceIntermediateMLE(pseudoInverse)
	builder.ProduceIntermediateMLE(selectionNot)

	one := scalar.One()
	neg := scalar.Neg(one)
	selectionScalars := arena.AllocSliceFillWith(a, builder.TableLength, func(i int) scalar.Scalar { return scalar.FromBool(selection[i]) })

	// selection * lhs ≡ 0: zero rows where we claim equality.
	builder.ProduceSumcheckSubpolynomial(sumcheck.Identity, []sumcheck.Term{
		{Coefficient: one, Factors: []sumcheck.MLE{sumcheck.MLE(selectionScalars), sumcheck.MLE(lhs)}},
	})
	// selection_not - lhs*pseudo_inv ≡ 0: rows we claim unequal have an inverse.
	builder.ProduceSumcheckSubpolynomial(sumcheck.Identity, []sumcheck.Term{
		{Coefficient: one, Factors: []sumcheck.MLE{sumcheck.MLE(selectionNot)}},
		{Coefficient: neg, Factors: []sumcheck.MLE{sumcheck.MLE(lhs), sumcheck.MLE(pseudoInverse)}},
	})

	return boolColumn(a, builder.TableLength, func(i int) bool { return selection[i] })
}

func (e EqualsZeroExpr) VerifierEvaluate(builder *proofbuilder.VerificationBuilder, acc VerifierAccessor) (scalar.Scalar, error) {
	lhsEval, err := e.Child.VerifierEvaluate(builder, acc)
	if err != nil {
		return scalar.Scalar{}, err
	}
	pseudoInverseEval := builder.ConsumeIntermediateMLE()
	selectionNotEval := builder.ConsumeIntermediateMLE()
	selectionEval := scalar.Sub(scalar.One(), selectionNotEval)

	identity1 := scalar.Mul(selectionEval, lhsEval)
	builder.ProduceSumcheckSubpolynomialEvaluation(sumcheck.Identity, identity1)

	identity2 := scalar.Sub(selectionNotEval, scalar.Mul(lhsEval, pseudoInverseEval))
	builder.ProduceSumcheckSubpolynomialEvaluation(sumcheck.Identity, identity2)

	return selectionEval, nil
}

// computeEqualsZero builds the gadget's three witness arrays from a Scalar
// child column: pseudoInverse (batch_inverse of lhs, zero maps to zero),
// selectionNot (lhs[i] != 0), and selection (its complement).
func computeEqualsZero(a *arena.Arena, n int, lhs []scalar.Scalar) (selection []bool, selectionNot, pseudoInverse []scalar.Scalar) {
	pseudoInverse = arena.AllocSliceFillWith(a, n, func(i int) scalar.Scalar { return lhs[i] })
	scalar.BatchInvert(pseudoInverse)
	selection = arena.AllocSliceFillWith(a, n, func(i int) bool { return lhs[i].IsZero() })
	selectionNot = arena.AllocSliceFillWith(a, n, func(i int) scalar.Scalar { return scalar.FromBool(!selection[i]) })
	return selection, selectionNot, pseudoInverse
}
