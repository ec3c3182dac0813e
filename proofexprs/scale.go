package proofexprs

import (
	"github.com/varshith257/sxt-proof-of-sql/arena"
	"github.com/varshith257/sxt-proof-of-sql/proofbuilder"
	"github.com/varshith257/sxt-proof-of-sql/scalar"
)

// scaleOf reports a ColumnType's decimal scale, 0 for every non-Decimal
// kind, the convention §4.7's "scale both operands to a common scale"
// step relies on.
func scaleOf(t arena.ColumnType) int8 {
	if t.Kind == arena.KindDecimal {
		return t.Scale
	}
	return 0
}

// ScaleExpr multiplies a child expression by a fixed power of ten — a
// public constant, so no subpolynomial is needed: the MLE of a constant
// multiple of a vector is that same constant multiple of the vector's
// MLE, and the verifier can apply it directly to the child's evaluation.
// Used to bring two differently-scaled operands to a common scale before
// subtraction (§4.7 "Equality / comparison between typed expressions").
type ScaleExpr struct {
	Child  DynProofExpr
	Factor scalar.Scalar
}

func (e ScaleExpr) ColumnType() arena.ColumnType { return e.Child.ColumnType() }

func (e ScaleExpr) ReferencedColumns() []arena.ColumnRef { return e.Child.ReferencedColumns() }

func (e ScaleExpr) Count(builder *proofbuilder.CountBuilder) { e.Child.Count(builder) }

func (e ScaleExpr) ResultEvaluate(length int, a *arena.Arena, acc Accessor) arena.Column {
	child := e.Child.ResultEvaluate(length, a, acc).ToScalars(a)
	scaled := arena.AllocSliceFillWith(a, length, func(i int) scalar.Scalar { return scalar.Mul(e.Factor, child[i]) })
	return arena.Column{Type: arena.ColumnType{Kind: arena.KindScalar}, Scalars: scaled}
}

func (e ScaleExpr) ProverEvaluate(builder *proofbuilder.FinalRoundBuilder, a *arena.Arena, acc Accessor) arena.Column {
	child := e.Child.ProverEvaluate(builder, a, acc).ToScalars(a)
	scaled := arena.AllocSliceFillWith(a, builder.TableLength, func(i int) scalar.Scalar { return scalar.Mul(e.Factor, child[i]) })
	return arena.Column{Type: arena.ColumnType{Kind: arena.KindScalar}, Scalars: scaled}
}

func (e ScaleExpr) VerifierEvaluate(builder *proofbuilder.VerificationBuilder, acc VerifierAccessor) (scalar.Scalar, error) {
	childEval, err := e.Child.VerifierEvaluate(builder, acc)
	if err != nil {
		return scalar.Scalar{}, err
	}
	return scalar.Mul(e.Factor, childEval), nil
}

// scaleToCommon wraps lhs and rhs in ScaleExpr so both reach the wider of
// their two decimal scales, per §4.7's comparison rule.
func scaleToCommon(lhs, rhs DynProofExpr) (DynProofExpr, DynProofExpr) {
	lScale, rScale := scaleOf(lhs.ColumnType()), scaleOf(rhs.ColumnType())
	switch {
	case lScale == rScale:
		return lhs, rhs
	case lScale < rScale:
		return ScaleExpr{Child: lhs, Factor: scalar.Pow10(uint8(rScale - lScale))}, rhs
	default:
		return lhs, ScaleExpr{Child: rhs, Factor: scalar.Pow10(uint8(lScale - rScale))}
	}
}
