// Package proofexprs implements the proof-plan expression tree (§3, §4.7):
// typed sub-expressions that each expose a result ColumnType, their set of
// referenced columns, and the four evaluation methods every operator in
// this module is written against.
package proofexprs

import (
	"github.com/varshith257/sxt-proof-of-sql/arena"
	"github.com/varshith257/sxt-proof-of-sql/proofbuilder"
	"github.com/varshith257/sxt-proof-of-sql/scalar"
)

// Accessor is the prover-side data accessor (§6, external interface):
// get_column(ColumnRef) -> Column. The core assumes the returned column's
// length equals the table's length for every referenced ref.
type Accessor interface {
	GetColumn(ref arena.ColumnRef) arena.Column
}

// VerifierAccessor is the verifier-side counterpart: rather than raw
// column data, it supplies the already-Dory-opened MLE evaluation of a
// committed column at the sum-check challenge point. Query assembly (H)
// is expected to verify each column's Dory opening before any expression
// tree is walked with this accessor, so a ColumnExpr's verifier_evaluate
// can trust the value it returns without redoing that check itself.
type VerifierAccessor interface {
	GetColumnEvaluation(ref arena.ColumnRef) (scalar.Scalar, error)
}

// DynProofExpr is the four-method contract of §4.7, implemented by every
// node in a proof plan's expression tree: column reference, literal,
// unary not, binary arithmetic/comparison/logical, equals-zero, and the
// comparison gadgets built from it.
type DynProofExpr interface {
	// ColumnType reports the statically known result type of the
	// expression, used for plan validation and arithmetic promotion.
	ColumnType() arena.ColumnType

	// ReferencedColumns returns every column this expression (including
	// its children) reads from the accessor, used to validate a plan
	// against schema metadata before proving.
	ReferencedColumns() []arena.ColumnRef

	// Count declares this expression's MLE/subpolynomial/degree budget
	// into builder. Child expressions are counted before parents (§5's
	// ordering guarantee 2).
	Count(builder *proofbuilder.CountBuilder)

	// ResultEvaluate computes the claimed result column, purely and
	// deterministically, with no builder side effects.
	ResultEvaluate(length int, a *arena.Arena, acc Accessor) arena.Column

	// ProverEvaluate computes the same result as ResultEvaluate, but also
	// registers any intermediate MLEs and subpolynomials this expression
	// needs into builder, in the order Count declared them.
	ProverEvaluate(builder *proofbuilder.FinalRoundBuilder, a *arena.Arena, acc Accessor) arena.Column

	// VerifierEvaluate returns this expression's claimed evaluation at
	// the sum-check challenge point, consuming MLE evaluations from and
	// registering subpolynomial evaluations into builder as ProverEvaluate
	// declared them.
	VerifierEvaluate(builder *proofbuilder.VerificationBuilder, acc VerifierAccessor) (scalar.Scalar, error)
}
