// Package proofplans implements the whole-query plan nodes (§3, §4.7):
// TableExpr names a proof's source table, and FilterExec/ProjectionExec/
// GroupByExec compose proofexprs.DynProofExpr trees into the three shapes
// a SELECT statement reduces to.
package proofplans

import (
	"github.com/varshith257/sxt-proof-of-sql/arena"
	"github.com/varshith257/sxt-proof-of-sql/proofbuilder"
	"github.com/varshith257/sxt-proof-of-sql/proofexprs"
	"github.com/varshith257/sxt-proof-of-sql/scalar"
)

// TableExpr is a proof plan's leaf: a reference to the table a query's
// columns are drawn from (§3 "Leaves refer to TableExpr{table_ref}").
// It carries no evaluation methods of its own — FilterExec/ProjectionExec/
// GroupByExec read column data through proofexprs.ColumnExpr nodes built
// against this ref; TableExpr exists so query assembly (H) has a single
// place recording which table a plan is rooted at.
type TableExpr struct {
	Ref arena.TableRef
}

// AliasedExpr pairs a typed sub-expression with the output column name a
// SELECT clause gives it (§6 "All projected expressions must be
// explicitly aliased").
type AliasedExpr struct {
	Alias string
	Expr  proofexprs.DynProofExpr
}

// ProofPlan is the whole-query analogue of proofexprs.DynProofExpr: its
// evaluation methods produce a named table of columns rather than a
// single column, and its verifier side reports one evaluation per output
// column rather than one scalar (§4.7 "Filter / projection", "Group-by").
type ProofPlan interface {
	// OutputNames reports the plan's output column names in projection
	// order, fixed independent of the data (used to build the final
	// OwnedTable and to validate it against query assembly's expectations).
	OutputNames() []string

	Count(builder *proofbuilder.CountBuilder)

	// ResultEvaluate computes the claimed output table, purely and
	// deterministically, with no builder side effects.
	ResultEvaluate(length int, a *arena.Arena, acc proofexprs.Accessor) (*arena.OwnedTable, error)

	// ProverEvaluate computes the same output as ResultEvaluate, but also
	// registers every intermediate MLE and subpolynomial this plan needs.
	ProverEvaluate(builder *proofbuilder.FinalRoundBuilder, a *arena.Arena, acc proofexprs.Accessor) (*arena.OwnedTable, error)

	// VerifierEvaluate returns this plan's claimed per-output-column
	// evaluation at the sum-check challenge point, in OutputNames order.
	// Query assembly (H) independently recomputes each output column's
	// own MLE evaluation directly from the revealed plaintext result
	// (§6's wire format) and checks it against the matching entry here —
	// ProofPlan itself never sees the revealed table.
	VerifierEvaluate(builder *proofbuilder.VerificationBuilder, acc proofexprs.VerifierAccessor) ([]scalar.Scalar, error)
}

// scalarColumn wraps field-embedded values as a Scalar-kind column, the
// same representation proofexprs.arithmetic.go uses for arithmetic
// results — every plan output computed via a field identity (masked
// projections, aggregate sums) carries its values this way rather than
// round-tripping into narrower fixed-width storage.
func scalarColumn(values []scalar.Scalar) arena.Column {
	return arena.Column{Type: arena.ColumnType{Kind: arena.KindScalar}, Scalars: values}
}
