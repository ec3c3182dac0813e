package proofexprs

import (
	"github.com/varshith257/sxt-proof-of-sql/arena"
	"github.com/varshith257/sxt-proof-of-sql/dory"
	"github.com/varshith257/sxt-proof-of-sql/proofbuilder"
	"github.com/varshith257/sxt-proof-of-sql/scalar"
)

// LiteralExpr is a constant repeated to the result's length (§4.2, §4.7
// "Literal"). Its verifier-side evaluation is the literal's scalar value
// times the truncated Lagrange basis sum over the table length and
// challenge point — no prover registration needed, since the verifier can
// compute this identically from public data.
type LiteralExpr struct {
	Value arena.LiteralValue
}

func (e LiteralExpr) ColumnType() arena.ColumnType { return e.Value.Type }

func (e LiteralExpr) ReferencedColumns() []arena.ColumnRef { return nil }

func (e LiteralExpr) Count(*proofbuilder.CountBuilder) {}

func (e LiteralExpr) ResultEvaluate(length int, a *arena.Arena, acc Accessor) arena.Column {
	return e.Value.Repeat(a, length)
}

func (e LiteralExpr) ProverEvaluate(builder *proofbuilder.FinalRoundBuilder, a *arena.Arena, acc Accessor) arena.Column {
	return e.Value.Repeat(a, builder.TableLength)
}

func (e LiteralExpr) VerifierEvaluate(builder *proofbuilder.VerificationBuilder, acc VerifierAccessor) (scalar.Scalar, error) {
	lit := literalScalar(e.Value)
	basisSum := dory.ComputeTruncatedLagrangeBasisSum(builder.TableLength, reverseScalars(builder.ChallengePoint))
	return scalar.Mul(lit, basisSum), nil
}

// reverseScalars reverses x, reconciling dory.ComputeLagrangeBasis's
// "x[0] is the most significant coordinate" convention with sum-check's
// fold order here, where the first challenge drawn folds the least
// significant remaining hypercube axis (the array's innermost adjacent
// pairs). Passing the challenge point through unreversed would compute
// the wrong constant for any literal participating in an identity
// alongside a genuinely folded MLE.
func reverseScalars(x []scalar.Scalar) []scalar.Scalar {
	out := make([]scalar.Scalar, len(x))
	for i, v := range x {
		out[len(x)-1-i] = v
	}
	return out
}

// literalScalar embeds a LiteralValue into the field the same way
// Column.ToScalars embeds each column kind, so a literal's verifier-side
// evaluation agrees with what result_evaluate would have produced.
func literalScalar(lv arena.LiteralValue) scalar.Scalar {
	switch lv.Type.Kind {
	case arena.KindBoolean:
		return scalar.FromBool(lv.Boolean)
	case arena.KindTinyInt, arena.KindSmallInt, arena.KindInt, arena.KindBigInt:
		return scalar.FromInt64(lv.Int64)
	case arena.KindInt128:
		return lv.Int128.Scalar()
	case arena.KindDecimal:
		return lv.Decimal
	case arena.KindScalar:
		return lv.Scalar
	case arena.KindVarChar:
		return lv.VarChar.Hash
	case arena.KindTimestamp:
		return scalar.FromInt64(lv.Timestamp)
	default:
		return scalar.Zero()
	}
}
