package proofexprs

import (
	"github.com/varshith257/sxt-proof-of-sql/arena"
	"github.com/varshith257/sxt-proof-of-sql/proofbuilder"
	"github.com/varshith257/sxt-proof-of-sql/scalar"
)

// ColumnExpr is a reference to a committed column (§4.7 "Column
// reference"). It contributes no intermediate MLE or subpolynomial of its
// own: its evaluation is the MLE evaluation supplied by the Dory opening
// of the referenced commitment.
type ColumnExpr struct {
	Ref  arena.ColumnRef
	Type arena.ColumnType
}

func (e ColumnExpr) ColumnType() arena.ColumnType { return e.Type }

func (e ColumnExpr) ReferencedColumns() []arena.ColumnRef {
	return []arena.ColumnRef{e.Ref}
}

func (e ColumnExpr) Count(*proofbuilder.CountBuilder) {}

func (e ColumnExpr) ResultEvaluate(length int, a *arena.Arena, acc Accessor) arena.Column {
	return acc.GetColumn(e.Ref)
}

func (e ColumnExpr) ProverEvaluate(builder *proofbuilder.FinalRoundBuilder, a *arena.Arena, acc Accessor) arena.Column {
	return acc.GetColumn(e.Ref)
}

func (e ColumnExpr) VerifierEvaluate(builder *proofbuilder.VerificationBuilder, acc VerifierAccessor) (scalar.Scalar, error) {
	return acc.GetColumnEvaluation(e.Ref)
}
