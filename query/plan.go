package query

import (
	"fmt"
	"sort"

	"github.com/varshith257/sxt-proof-of-sql/arena"
	"github.com/varshith257/sxt-proof-of-sql/proofexprs"
	"github.com/varshith257/sxt-proof-of-sql/proofplans"
)

// planExprs collects every top-level DynProofExpr a plan directly holds
// (its WHERE/SELECT/GROUP BY/aggregate children), the starting point for
// walking referenced columns and for validating the plan against schema.
func planExprs(plan proofplans.ProofPlan) []proofexprs.DynProofExpr {
	switch p := plan.(type) {
	case proofplans.FilterExec:
		exprs := []proofexprs.DynProofExpr{p.Where}
		for _, s := range p.Select {
			exprs = append(exprs, s.Expr)
		}
		return exprs
	case proofplans.ProjectionExec:
		exprs := make([]proofexprs.DynProofExpr, len(p.Select))
		for i, s := range p.Select {
			exprs[i] = s.Expr
		}
		return exprs
	case proofplans.GroupByExec:
		exprs := []proofexprs.DynProofExpr{p.Selection}
		for _, g := range p.GroupBy {
			exprs = append(exprs, g.Expr)
		}
		for _, s := range p.Sums {
			exprs = append(exprs, s.Expr)
		}
		for _, m := range p.Mins {
			exprs = append(exprs, m.Expr)
		}
		for _, m := range p.Maxes {
			exprs = append(exprs, m.Expr)
		}
		return exprs
	default:
		panic(fmt.Sprintf("query: unsupported plan type %T", plan))
	}
}

// tableRefOf returns the table a plan is rooted at (§3 "Leaves refer to
// TableExpr{table_ref}").
func tableRefOf(plan proofplans.ProofPlan) arena.TableRef {
	switch p := plan.(type) {
	case proofplans.FilterExec:
		return p.Table.Ref
	case proofplans.ProjectionExec:
		return p.Table.Ref
	case proofplans.GroupByExec:
		return p.Table.Ref
	default:
		panic(fmt.Sprintf("query: unsupported plan type %T", plan))
	}
}

// referencedColumns returns every column a plan reads from, deduplicated
// and sorted by string form for a deterministic transcript-binding and
// opening order.
func referencedColumns(plan proofplans.ProofPlan) []arena.ColumnRef {
	seen := make(map[arena.ColumnRef]bool)
	var out []arena.ColumnRef
	for _, e := range planExprs(plan) {
		for _, ref := range e.ReferencedColumns() {
			if !seen[ref] {
				seen[ref] = true
				out = append(out, ref)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// validatePlan checks every column a plan references exists in schema,
// under the plan's own table, with no type-mismatch left implicit — a
// "Parse/plan construction error" (§7), recoverable at this layer rather
// than surfacing as a cryptographic rejection.
func validatePlan(plan proofplans.ProofPlan, schema SchemaAccessor) error {
	table := tableRefOf(plan)
	for _, ref := range referencedColumns(plan) {
		if ref.Table != table {
			return fmt.Errorf("query: column %s does not belong to table %s", ref, table)
		}
		if _, ok := schema.LookupColumn(ref.Table, ref.Ident); !ok {
			return fmt.Errorf("query: unknown column %s", ref)
		}
	}
	return nil
}
