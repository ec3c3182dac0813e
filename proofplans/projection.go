package proofplans

import (
	"fmt"

	"github.com/varshith257/sxt-proof-of-sql/arena"
	"github.com/varshith257/sxt-proof-of-sql/proofbuilder"
	"github.com/varshith257/sxt-proof-of-sql/proofexprs"
	"github.com/varshith257/sxt-proof-of-sql/scalar"
)

// ProjectionExec is a `SELECT <exprs> FROM <table>` with no WHERE clause
// (§4.7 "Filter / projection" with selection identically true): it
// registers no MLEs or subpolynomials of its own, since each output
// column's evaluation is exactly its expression's own — the degenerate
// case of FilterExec's masking identity where the mask is always one.
type ProjectionExec struct {
	Table  TableExpr
	Select []AliasedExpr
}

func (p ProjectionExec) OutputNames() []string {
	names := make([]string, len(p.Select))
	for i, s := range p.Select {
		names[i] = s.Alias
	}
	return names
}

func (p ProjectionExec) Count(builder *proofbuilder.CountBuilder) {
	for _, s := range p.Select {
		s.Expr.Count(builder)
	}
}

func (p ProjectionExec) ResultEvaluate(length int, a *arena.Arena, acc proofexprs.Accessor) (*arena.OwnedTable, error) {
	owned := make([]arena.OwnedColumn, len(p.Select))
	for i, s := range p.Select {
		owned[i] = s.Expr.ResultEvaluate(length, a, acc).ToOwned()
	}
	return arena.NewOwnedTable(p.OutputNames(), owned)
}

func (p ProjectionExec) ProverEvaluate(builder *proofbuilder.FinalRoundBuilder, a *arena.Arena, acc proofexprs.Accessor) (*arena.OwnedTable, error) {
	owned := make([]arena.OwnedColumn, len(p.Select))
	for i, s := range p.Select {
		owned[i] = s.Expr.ProverEvaluate(builder, a, acc).ToOwned()
	}
	return arena.NewOwnedTable(p.OutputNames(), owned)
}

func (p ProjectionExec) VerifierEvaluate(builder *proofbuilder.VerificationBuilder, acc proofexprs.VerifierAccessor) ([]scalar.Scalar, error) {
	evals := make([]scalar.Scalar, len(p.Select))
	for i, s := range p.Select {
		eval, err := s.Expr.VerifierEvaluate(builder, acc)
		if err != nil {
			return nil, fmt.Errorf("proofplans: projection %q: %w", s.Alias, err)
		}
		evals[i] = eval
	}
	return evals, nil
}
