package proofplans

import (
	"fmt"

	"github.com/varshith257/sxt-proof-of-sql/arena"
	"github.com/varshith257/sxt-proof-of-sql/proofbuilder"
	"github.com/varshith257/sxt-proof-of-sql/proofexprs"
	"github.com/varshith257/sxt-proof-of-sql/scalar"
	"github.com/varshith257/sxt-proof-of-sql/sumcheck"
)

// FilterExec applies a WHERE predicate to a projection (§4.7 "Filter /
// projection"): each output column keeps the input's length, masked to
// zero on rows the predicate rejects — `projected[i] = selection[i] *
// expression[i]` — rather than compacting matching rows into a shorter
// result. One intermediate MLE and one Identity subpolynomial is
// registered per projected expression.
type FilterExec struct {
	Table  TableExpr
	Where  proofexprs.DynProofExpr // must be Boolean
	Select []AliasedExpr
}

func (p FilterExec) OutputNames() []string {
	names := make([]string, len(p.Select))
	for i, s := range p.Select {
		names[i] = s.Alias
	}
	return names
}

func (p FilterExec) Count(builder *proofbuilder.CountBuilder) {
	p.Where.Count(builder)
	for _, s := range p.Select {
		s.Expr.Count(builder)
	}
	builder.CountIntermediateMLEs(len(p.Select))
	builder.CountSubpolynomials(len(p.Select))
	builder.CountDegree(3) // degree 2 plus the Identity's eq(tau, X) factor
}

func (p FilterExec) ResultEvaluate(length int, a *arena.Arena, acc proofexprs.Accessor) (*arena.OwnedTable, error) {
	selScalars := p.Where.ResultEvaluate(length, a, acc).ToScalars(a)
	owned := make([]arena.OwnedColumn, len(p.Select))
	for i, s := range p.Select {
		exprScalars := s.Expr.ResultEvaluate(length, a, acc).ToScalars(a)
		masked := maskRows(a, length, selScalars, exprScalars)
		owned[i] = scalarColumn(masked).ToOwned()
	}
	return arena.NewOwnedTable(p.OutputNames(), owned)
}

func (p FilterExec) ProverEvaluate(builder *proofbuilder.FinalRoundBuilder, a *arena.Arena, acc proofexprs.Accessor) (*arena.OwnedTable, error) {
	n := builder.TableLength
	selScalars := p.Where.ProverEvaluate(builder, a, acc).ToScalars(a)

	owned := make([]arena.OwnedColumn, len(p.Select))
	for i, s := range p.Select {
		exprScalars := s.Expr.ProverEvaluate(builder, a, acc).ToScalars(a)
		masked := maskRows(a, n, selScalars, exprScalars)
		builder.ProduceIntermediateMLE(masked)

		one := scalar.One()
		neg := scalar.Neg(one)
		builder.ProduceSumcheckSubpolynomial(sumcheck.Identity, []sumcheck.Term{
			{Coefficient: one, Factors: []sumcheck.MLE{sumcheck.MLE(masked)}},
			{Coefficient: neg, Factors: []sumcheck.MLE{sumcheck.MLE(selScalars), sumcheck.MLE(exprScalars)}},
		})
		owned[i] = scalarColumn(masked).ToOwned()
	}
	return arena.NewOwnedTable(p.OutputNames(), owned)
}

func (p FilterExec) VerifierEvaluate(builder *proofbuilder.VerificationBuilder, acc proofexprs.VerifierAccessor) ([]scalar.Scalar, error) {
	selEval, err := p.Where.VerifierEvaluate(builder, acc)
	if err != nil {
		return nil, fmt.Errorf("proofplans: filter predicate: %w", err)
	}

	evals := make([]scalar.Scalar, len(p.Select))
	for i, s := range p.Select {
		exprEval, err := s.Expr.VerifierEvaluate(builder, acc)
		if err != nil {
			return nil, fmt.Errorf("proofplans: filter projection %q: %w", s.Alias, err)
		}
		maskedEval := builder.ConsumeIntermediateMLE()
		identity := scalar.Sub(maskedEval, scalar.Mul(selEval, exprEval))
		builder.ProduceSumcheckSubpolynomialEvaluation(sumcheck.Identity, identity)
		evals[i] = maskedEval
	}
	return evals, nil
}

// maskRows computes masked[i] = selection[i] * values[i] over an arena-
// allocated slice, the shared identity FilterExec's prover and result
// evaluation both compute.
func maskRows(a *arena.Arena, n int, selection, values []scalar.Scalar) []scalar.Scalar {
	return arena.AllocSliceFillWith(a, n, func(i int) scalar.Scalar { return scalar.Mul(selection[i], values[i]) })
}
