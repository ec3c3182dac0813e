package proofexprs

import (
	"fmt"

	"github.com/varshith257/sxt-proof-of-sql/arena"
	"github.com/varshith257/sxt-proof-of-sql/proofbuilder"
	"github.com/varshith257/sxt-proof-of-sql/scalar"
	"github.com/varshith257/sxt-proof-of-sql/sumcheck"
)

// scalarColumn wraps values as a field-embedded column of the given type
// (Decimal or Scalar kind), the representation every arithmetic result
// carries (§4.7): arithmetic operates in the field directly rather than
// round-tripping back into narrower fixed-width storage.
func scalarColumn(t arena.ColumnType, values []scalar.Scalar) arena.Column {
	if t.Kind == arena.KindDecimal {
		return arena.Column{Type: t, Decimals: values}
	}
	return arena.Column{Type: arena.ColumnType{Kind: arena.KindScalar}, Scalars: values}
}

// AddExpr is `lhs + rhs` (§4.7 "Arithmetic"): it registers no intermediate
// MLE and no subpolynomial — the verifier recomputes `leftEval + rightEval`
// directly from its children's evaluations.
type AddExpr struct {
	Left, Right DynProofExpr
}

func (e AddExpr) ColumnType() arena.ColumnType {
	return addSubType(e.Left.ColumnType(), e.Right.ColumnType())
}

func (e AddExpr) ReferencedColumns() []arena.ColumnRef {
	return append(e.Left.ReferencedColumns(), e.Right.ReferencedColumns()...)
}

func (e AddExpr) Count(builder *proofbuilder.CountBuilder) {
	e.Left.Count(builder)
	e.Right.Count(builder)
}

func (e AddExpr) ResultEvaluate(length int, a *arena.Arena, acc Accessor) arena.Column {
	left := e.Left.ResultEvaluate(length, a, acc).ToScalars(a)
	right := e.Right.ResultEvaluate(length, a, acc).ToScalars(a)
	sum := arena.AllocSliceFillWith(a, length, func(i int) scalar.Scalar { return scalar.Add(left[i], right[i]) })
	return scalarColumn(e.ColumnType(), sum)
}

func (e AddExpr) ProverEvaluate(builder *proofbuilder.FinalRoundBuilder, a *arena.Arena, acc Accessor) arena.Column {
	left := e.Left.ProverEvaluate(builder, a, acc).ToScalars(a)
	right := e.Right.ProverEvaluate(builder, a, acc).ToScalars(a)
	sum := arena.AllocSliceFillWith(a, builder.TableLength, func(i int) scalar.Scalar { return scalar.Add(left[i], right[i]) })
	return scalarColumn(e.ColumnType(), sum)
}

func (e AddExpr) VerifierEvaluate(builder *proofbuilder.VerificationBuilder, acc VerifierAccessor) (scalar.Scalar, error) {
	leftEval, err := e.Left.VerifierEvaluate(builder, acc)
	if err != nil {
		return scalar.Scalar{}, err
	}
	rightEval, err := e.Right.VerifierEvaluate(builder, acc)
	if err != nil {
		return scalar.Scalar{}, err
	}
	return scalar.Add(leftEval, rightEval), nil
}

// SubExpr is `lhs - rhs` (§4.7), the mirror of AddExpr.
type SubExpr struct {
	Left, Right DynProofExpr
}

func (e SubExpr) ColumnType() arena.ColumnType {
	return addSubType(e.Left.ColumnType(), e.Right.ColumnType())
}

func (e SubExpr) ReferencedColumns() []arena.ColumnRef {
	return append(e.Left.ReferencedColumns(), e.Right.ReferencedColumns()...)
}

func (e SubExpr) Count(builder *proofbuilder.CountBuilder) {
	e.Left.Count(builder)
	e.Right.Count(builder)
}

func (e SubExpr) ResultEvaluate(length int, a *arena.Arena, acc Accessor) arena.Column {
	left := e.Left.ResultEvaluate(length, a, acc).ToScalars(a)
	right := e.Right.ResultEvaluate(length, a, acc).ToScalars(a)
	diff := arena.AllocSliceFillWith(a, length, func(i int) scalar.Scalar { return scalar.Sub(left[i], right[i]) })
	return scalarColumn(e.ColumnType(), diff)
}

func (e SubExpr) ProverEvaluate(builder *proofbuilder.FinalRoundBuilder, a *arena.Arena, acc Accessor) arena.Column {
	left := e.Left.ProverEvaluate(builder, a, acc).ToScalars(a)
	right := e.Right.ProverEvaluate(builder, a, acc).ToScalars(a)
	diff := arena.AllocSliceFillWith(a, builder.TableLength, func(i int) scalar.Scalar { return scalar.Sub(left[i], right[i]) })
	return scalarColumn(e.ColumnType(), diff)
}

func (e SubExpr) VerifierEvaluate(builder *proofbuilder.VerificationBuilder, acc VerifierAccessor) (scalar.Scalar, error) {
	leftEval, err := e.Left.VerifierEvaluate(builder, acc)
	if err != nil {
		return scalar.Scalar{}, err
	}
	rightEval, err := e.Right.VerifierEvaluate(builder, acc)
	if err != nil {
		return scalar.Scalar{}, err
	}
	return scalar.Sub(leftEval, rightEval), nil
}

// MulExpr is `lhs * rhs` (§4.7): one MLE for the product, one Identity
// subpolynomial `product - lhs*rhs ≡ 0`.
type MulExpr struct {
	Left, Right DynProofExpr
}

func (e MulExpr) ColumnType() arena.ColumnType {
	return mulType(e.Left.ColumnType(), e.Right.ColumnType())
}

func (e MulExpr) ReferencedColumns() []arena.ColumnRef {
	return append(e.Left.ReferencedColumns(), e.Right.ReferencedColumns()...)
}

func (e MulExpr) Count(builder *proofbuilder.CountBuilder) {
	e.Left.Count(builder)
	e.Right.Count(builder)
	builder.CountIntermediateMLEs(1)
	builder.CountSubpolynomials(1)
	builder.CountDegree(3) // degree 2 plus the Identity's eq(tau, X) factor
}

func (e MulExpr) ResultEvaluate(length int, a *arena.Arena, acc Accessor) arena.Column {
	left := e.Left.ResultEvaluate(length, a, acc).ToScalars(a)
	right := e.Right.ResultEvaluate(length, a, acc).ToScalars(a)
	product := arena.AllocSliceFillWith(a, length, func(i int) scalar.Scalar { return scalar.Mul(left[i], right[i]) })
	return scalarColumn(e.ColumnType(), product)
}

func (e MulExpr) ProverEvaluate(builder *proofbuilder.FinalRoundBuilder, a *arena.Arena, acc Accessor) arena.Column {
	left := e.Left.ProverEvaluate(builder, a, acc).ToScalars(a)
	right := e.Right.ProverEvaluate(builder, a, acc).ToScalars(a)
	product := arena.AllocSliceFillWith(a, builder.TableLength, func(i int) scalar.Scalar { return scalar.Mul(left[i], right[i]) })
	builder.ProduceIntermediateMLE(product)

	one := scalar.One()
	neg := scalar.Neg(one)
	builder.ProduceSumcheckSubpolynomial(sumcheck.Identity, []sumcheck.Term{
		{Coefficient: one, Factors: []sumcheck.MLE{sumcheck.MLE(product)}},
		{Coefficient: neg, Factors: []sumcheck.MLE{sumcheck.MLE(left), sumcheck.MLE(right)}},
	})
	return scalarColumn(e.ColumnType(), product)
}

func (e MulExpr) VerifierEvaluate(builder *proofbuilder.VerificationBuilder, acc VerifierAccessor) (scalar.Scalar, error) {
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

// DivExpr is `lhs / rhs` (§4.7): a quotient MLE, a pseudo-inverse MLE of
// the divisor, and two Identity subpolynomials — `divisor * pseudoInverse
// ≡ 1` and `quotient - lhs*pseudoInverse ≡ 0` — asserting the divisor is
// invertible on every selected row and the quotient is its exact product
// with lhs. A zero divisor anywhere makes the first identity unsatisfiable
// except by an honest pseudo-inverse, per BatchInvert's zero-maps-to-zero
// convention, so a genuine zero divisor causes verification to fail.
type DivExpr struct {
	Left, Right DynProofExpr
}

func (e DivExpr) ColumnType() arena.ColumnType {
	return divType(e.Left.ColumnType(), e.Right.ColumnType())
}

func (e DivExpr) ReferencedColumns() []arena.ColumnRef {
	return append(e.Left.ReferencedColumns(), e.Right.ReferencedColumns()...)
}

func (e DivExpr) Count(builder *proofbuilder.CountBuilder) {
	e.Left.Count(builder)
	e.Right.Count(builder)
	builder.CountIntermediateMLEs(2) // pseudoInverse, quotient
	builder.CountSubpolynomials(2)
	builder.CountDegree(3) // degree 2 plus the Identity's eq(tau, X) factor
}

func (e DivExpr) ResultEvaluate(length int, a *arena.Arena, acc Accessor) arena.Column {
	left := e.Left.ResultEvaluate(length, a, acc).ToScalars(a)
	right := e.Right.ResultEvaluate(length, a, acc).ToScalars(a)
	quotient, _ := e.divide(a, length, left, right)
	return scalarColumn(e.ColumnType(), quotient)
}

func (e DivExpr) ProverEvaluate(builder *proofbuilder.FinalRoundBuilder, a *arena.Arena, acc Accessor) arena.Column {
	left := e.Left.ProverEvaluate(builder, a, acc).ToScalars(a)
	right := e.Right.ProverEvaluate(builder, a, acc).ToScalars(a)
	quotient, pseudoInverse := e.divide(a, builder.TableLength, left, right)

	builder.ProduceIntermediateMLE(pseudoInverse)
	builder.ProduceIntermediateMLE(quotient)

	one := scalar.One()
	neg := scalar.Neg(one)
	builder.ProduceSumcheckSubpolynomial(sumcheck.Identity, []sumcheck.Term{
		{Coefficient: one, Factors: []sumcheck.MLE{sumcheck.MLE(right), sumcheck.MLE(pseudoInverse)}},
		{Coefficient: neg, Factors: []sumcheck.MLE{sumcheck.MLE(constantMLE(one, len(right)))}},
	})
	builder.ProduceSumcheckSubpolynomial(sumcheck.Identity, []sumcheck.Term{
		{Coefficient: one, Factors: []sumcheck.MLE{sumcheck.MLE(quotient)}},
		{Coefficient: neg, Factors: []sumcheck.MLE{sumcheck.MLE(left), sumcheck.MLE(pseudoInverse)}},
	})
	return scalarColumn(e.ColumnType(), quotient)
}

func (e DivExpr) VerifierEvaluate(builder *proofbuilder.VerificationBuilder, acc VerifierAccessor) (scalar.Scalar, error) {
	leftEval, err := e.Left.VerifierEvaluate(builder, acc)
	if err != nil {
		return scalar.Scalar{}, err
	}
	rightEval, err := e.Right.VerifierEvaluate(builder, acc)
	if err != nil {
		return scalar.Scalar{}, err
	}
	pseudoInverseEval := builder.ConsumeIntermediateMLE()
	quotientEval := builder.ConsumeIntermediateMLE()

	invertIdentity := scalar.Sub(scalar.Mul(rightEval, pseudoInverseEval), scalar.One())
	builder.ProduceSumcheckSubpolynomialEvaluation(sumcheck.Identity, invertIdentity)

	quotientIdentity := scalar.Sub(quotientEval, scalar.Mul(leftEval, pseudoInverseEval))
	builder.ProduceSumcheckSubpolynomialEvaluation(sumcheck.Identity, quotientIdentity)

	return quotientEval, nil
}

// divide computes the pseudo-inverse of rhs (BatchInvert's zero-maps-to-
// zero convention) and the quotient lhs*pseudoInverse.
func (e DivExpr) divide(a *arena.Arena, n int, lhs, rhs []scalar.Scalar) (quotient, pseudoInverse []scalar.Scalar) {
	if len(lhs) != n || len(rhs) != n {
		panic(fmt.Sprintf("proofexprs: division operand length mismatch, want %d", n))
	}
	pseudoInverse = arena.AllocSliceFillWith(a, n, func(i int) scalar.Scalar { return rhs[i] })
	scalar.BatchInvert(pseudoInverse)
	quotient = arena.AllocSliceFillWith(a, n, func(i int) scalar.Scalar { return scalar.Mul(lhs[i], pseudoInverse[i]) })
	return quotient, pseudoInverse
}

// constantMLE repeats v into a length-n slice, for identities that need a
// public constant as one of their product's factors.
func constantMLE(v scalar.Scalar, n int) []scalar.Scalar {
	out := make([]scalar.Scalar, n)
	for i := range out {
		out[i] = v
	}
	return out
}
