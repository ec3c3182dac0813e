package proofplans

import (
	"fmt"
	"math/big"

	"github.com/varshith257/sxt-proof-of-sql/arena"
	"github.com/varshith257/sxt-proof-of-sql/proofbuilder"
	"github.com/varshith257/sxt-proof-of-sql/proofexprs"
	"github.com/varshith257/sxt-proof-of-sql/scalar"
	"github.com/varshith257/sxt-proof-of-sql/sumcheck"
)

// GroupByExec is `GROUP BY` with optional `sum`/`min`/`max` aggregates
// over a selected subset of rows (§4.7 "Group-by"). The prover
// stable-sorts selected rows by the group-by columns lexicographically
// and collapses runs into one output row per group; count is implemented
// as sum(1), matching §5's emission-order guarantee ("count, then sums in
// input order, then mins, then maxes") by construction rather than by a
// separate code path.
//
// Sortedness and distinctness of the revealed output's group-by columns,
// and the revealed min/max values, are checked by query assembly directly
// against the plaintext result (§6's wire format already reveals it) —
// no subpolynomial is needed for either, since both are properties of
// public data the verifier can recompute itself in time proportional to
// the (small) output, not the input. Only count and sum go through the
// cryptographic ZeroSum identity below, since only they reduce to a
// row-wise product-and-subtract shape; see DESIGN.md for the scope
// decision.
type GroupByExec struct {
	Table      TableExpr
	GroupBy    []AliasedExpr
	Sums       []AliasedExpr
	Mins       []AliasedExpr
	Maxes      []AliasedExpr
	Selection  proofexprs.DynProofExpr // must be Boolean
	CountAlias string
}

func (p GroupByExec) OutputNames() []string {
	names := make([]string, 0, len(p.GroupBy)+1+len(p.Sums)+len(p.Mins)+len(p.Maxes))
	for _, g := range p.GroupBy {
		names = append(names, g.Alias)
	}
	names = append(names, p.CountAlias)
	for _, s := range p.Sums {
		names = append(names, s.Alias)
	}
	for _, m := range p.Mins {
		names = append(names, m.Alias)
	}
	for _, m := range p.Maxes {
		names = append(names, m.Alias)
	}
	return names
}

// numAggregateIdentities is count plus every sum expression — the
// aggregates whose correctness goes through the cryptographic ZeroSum
// identity; min/max are checked against the revealed plaintext instead.
func (p GroupByExec) numAggregateIdentities() int { return 1 + len(p.Sums) }

func (p GroupByExec) Count(builder *proofbuilder.CountBuilder) {
	for _, g := range p.GroupBy {
		g.Expr.Count(builder)
	}
	for _, s := range p.Sums {
		s.Expr.Count(builder)
	}
	for _, m := range p.Mins {
		m.Expr.Count(builder)
	}
	for _, m := range p.Maxes {
		m.Expr.Count(builder)
	}
	p.Selection.Count(builder)
	builder.CountIntermediateMLEs(p.numAggregateIdentities())
	builder.CountSubpolynomials(p.numAggregateIdentities())
	builder.CountDegree(2)
}

func (p GroupByExec) ResultEvaluate(length int, a *arena.Arena, acc proofexprs.Accessor) (*arena.OwnedTable, error) {
	eval := func(e proofexprs.DynProofExpr) arena.Column { return e.ResultEvaluate(length, a, acc) }
	return p.evaluate(length, a, eval)
}

func (p GroupByExec) ProverEvaluate(builder *proofbuilder.FinalRoundBuilder, a *arena.Arena, acc proofexprs.Accessor) (*arena.OwnedTable, error) {
	n := builder.TableLength
	eval := func(e proofexprs.DynProofExpr) arena.Column { return e.ProverEvaluate(builder, a, acc) }
	table, groups, inputs, groupSums, err := p.evaluateWithGroups(n, a, eval)
	if err != nil {
		return nil, err
	}

	one := scalar.One()
	neg := scalar.Neg(one)
	selBoolField := boolsToFieldSlice(a, n, groups.selection)
	for idx, input := range inputs {
		expanded := groups.expandAverages(a, n, groupSums[idx])
		builder.ProduceIntermediateMLE(expanded)
		builder.ProduceSumcheckSubpolynomial(sumcheck.ZeroSum, []sumcheck.Term{
			{Coefficient: one, Factors: []sumcheck.MLE{sumcheck.MLE(selBoolField), sumcheck.MLE(input)}},
			{Coefficient: neg, Factors: []sumcheck.MLE{sumcheck.MLE(expanded)}},
		})
	}
	return table, nil
}

func (p GroupByExec) VerifierEvaluate(builder *proofbuilder.VerificationBuilder, acc proofexprs.VerifierAccessor) ([]scalar.Scalar, error) {
	groupByEvals, err := verifierEvaluateAll(p.GroupBy, builder, acc, "group-by column")
	if err != nil {
		return nil, err
	}
	sumEvals, err := verifierEvaluateAll(p.Sums, builder, acc, "sum aggregate")
	if err != nil {
		return nil, err
	}
	minEvals, err := verifierEvaluateAll(p.Mins, builder, acc, "min aggregate")
	if err != nil {
		return nil, err
	}
	maxEvals, err := verifierEvaluateAll(p.Maxes, builder, acc, "max aggregate")
	if err != nil {
		return nil, err
	}
	selEval, err := p.Selection.VerifierEvaluate(builder, acc)
	if err != nil {
		return nil, fmt.Errorf("proofplans: group-by selection: %w", err)
	}

	// count's input is the public constant 1; every sum's input is its
	// own evaluation — same order ProverEvaluate registered them in.
	inputs := append([]scalar.Scalar{scalar.One()}, sumEvals...)
	for _, inputEval := range inputs {
		expandedEval := builder.ConsumeIntermediateMLE()
		identity := scalar.Sub(scalar.Mul(selEval, inputEval), expandedEval)
		builder.ProduceSumcheckSubpolynomialEvaluation(sumcheck.ZeroSum, identity)
	}

	out := make([]scalar.Scalar, 0, len(groupByEvals)+1+len(sumEvals)+len(minEvals)+len(maxEvals))
	out = append(out, groupByEvals...)
	out = append(out, selEval) // count's evaluation is certified only in aggregate (see ZeroSum identity above); query assembly checks the revealed count column directly.
	out = append(out, sumEvals...)
	out = append(out, minEvals...)
	out = append(out, maxEvals...)
	return out, nil
}

func verifierEvaluateAll(exprs []AliasedExpr, builder *proofbuilder.VerificationBuilder, acc proofexprs.VerifierAccessor, what string) ([]scalar.Scalar, error) {
	out := make([]scalar.Scalar, len(exprs))
	for i, e := range exprs {
		eval, err := e.Expr.VerifierEvaluate(builder, acc)
		if err != nil {
			return nil, fmt.Errorf("proofplans: %s %q: %w", what, e.Alias, err)
		}
		out[i] = eval
	}
	return out, nil
}

// --- grouping core -------------------------------------------------------

// groupSet holds every selected row partitioned into stable-sorted,
// lexicographically-collapsed groups (§4.7).
type groupSet struct {
	groups      [][]int // original row indices per group, in stable sort order
	selection   []bool
	groupByCols []arena.Column
	groupByVals [][]scalar.Scalar
}

// evaluate runs evaluateWithGroups and discards its proving-only outputs,
// for ResultEvaluate's purely-functional path.
func (p GroupByExec) evaluate(n int, a *arena.Arena, eval func(proofexprs.DynProofExpr) arena.Column) (*arena.OwnedTable, error) {
	table, _, _, _, err := p.evaluateWithGroups(n, a, eval)
	return table, err
}

// evaluateWithGroups is the shared core behind ResultEvaluate and
// ProverEvaluate: evaluate every child expression via eval, group the
// selected rows, and assemble the output table. It also returns the
// grouping plus the per-aggregate input/groupSum arrays ProverEvaluate
// needs to register the ZeroSum identities, in emission order (count,
// then sums).
func (p GroupByExec) evaluateWithGroups(n int, a *arena.Arena, eval func(proofexprs.DynProofExpr) arena.Column) (*arena.OwnedTable, *groupSet, [][]scalar.Scalar, [][]scalar.Scalar, error) {
	groupByCols := make([]arena.Column, len(p.GroupBy))
	groupByVals := make([][]scalar.Scalar, len(p.GroupBy))
	for i, g := range p.GroupBy {
		col := eval(g.Expr)
		groupByCols[i] = col
		groupByVals[i] = col.ToScalars(a)
	}
	sumVals := make([][]scalar.Scalar, len(p.Sums))
	for i, s := range p.Sums {
		sumVals[i] = eval(s.Expr).ToScalars(a)
	}
	minCols := make([]arena.Column, len(p.Mins))
	for i, m := range p.Mins {
		minCols[i] = eval(m.Expr)
	}
	maxCols := make([]arena.Column, len(p.Maxes))
	for i, m := range p.Maxes {
		maxCols[i] = eval(m.Expr)
	}
	selection := eval(p.Selection).Booleans

	groups := buildGroups(n, selection, groupByCols, groupByVals)

	ones := constantScalars(n, scalar.One())
	inputs := append([][]scalar.Scalar{ones}, sumVals...)
	groupSums := make([][]scalar.Scalar, len(inputs))
	groupSums[0] = groups.countSums()
	sumTotals, err := groups.sumsChecked(sumVals)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	copy(groupSums[1:], sumTotals)

	numGroups := len(groups.groups)
	owned := make([]arena.OwnedColumn, 0, len(p.OutputNames()))
	for i, col := range groupByCols {
		owned = append(owned, groups.representative(a, col, i).ToOwned())
	}
	countOut := arena.AllocSliceFillWith(a, numGroups, func(i int) int64 { return int64(len(groups.groups[i])) })
	owned = append(owned, (arena.Column{Type: arena.ColumnType{Kind: arena.KindBigInt}, BigInts: countOut}).ToOwned())
	for _, sums := range sumTotals {
		owned = append(owned, scalarColumn(sums).ToOwned())
	}
	for _, col := range minCols {
		owned = append(owned, groups.extremum(a, col, true).ToOwned())
	}
	for _, col := range maxCols {
		owned = append(owned, groups.extremum(a, col, false).ToOwned())
	}

	table, err := arena.NewOwnedTable(p.OutputNames(), owned)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return table, groups, inputs, groupSums, nil
}

func constantScalars(n int, v scalar.Scalar) []scalar.Scalar {
	out := make([]scalar.Scalar, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func boolsToFieldSlice(a *arena.Arena, n int, bs []bool) []scalar.Scalar {
	return arena.AllocSliceFillWith(a, n, func(i int) scalar.Scalar { return scalar.FromBool(bs[i]) })
}

// buildGroups stable-sorts the selected rows lexicographically by
// groupByVals, then collapses adjacent equal tuples into groups (§4.7's
// "stable-sorting selected rows by group_by lexicographically and
// collapsing runs").
func buildGroups(n int, selection []bool, groupByCols []arena.Column, groupByVals [][]scalar.Scalar) *groupSet {
	selected := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if selection[i] {
			selected = append(selected, i)
		}
	}

	less := func(i, j int) bool { return compareRows(groupByCols, groupByVals, i, j) < 0 }
	stableSortInts(selected, less)

	var groups [][]int
	for _, row := range selected {
		if len(groups) > 0 {
			last := groups[len(groups)-1]
			if compareRows(groupByCols, groupByVals, last[0], row) == 0 {
				groups[len(groups)-1] = append(last, row)
				continue
			}
		}
		groups = append(groups, []int{row})
	}

	return &groupSet{groups: groups, selection: selection, groupByCols: groupByCols, groupByVals: groupByVals}
}

// compareRows gives the lexicographic ordering §4.7 specifies: column-wise
// comparison with tie-breaking by subsequent columns; VarChar compares raw
// string bytes, not the scalar hash.
func compareRows(cols []arena.Column, vals [][]scalar.Scalar, i, j int) int {
	for k, col := range cols {
		if col.Type.Kind == arena.KindVarChar {
			si, sj := col.VarChars[i].Value, col.VarChars[j].Value
			switch {
			case si < sj:
				return -1
			case si > sj:
				return 1
			default:
				continue
			}
		}
		switch scalar.SignedCmp(vals[k][i], vals[k][j]) {
		case scalar.Less:
			return -1
		case scalar.Greater:
			return 1
		}
	}
	return 0
}

// stableSortInts is a small insertion sort, stable by construction; kept
// local and explicit rather than reaching for sort.SliceStable's
// interface-based API for this single, already-small (selected row count)
// use.
func stableSortInts(rows []int, less func(i, j int) bool) {
	for i := 1; i < len(rows); i++ {
		for j := i; j > 0 && less(rows[j], rows[j-1]); j-- {
			rows[j], rows[j-1] = rows[j-1], rows[j]
		}
	}
}

// representative returns, per group, the group-by column's value at the
// group's first row — every row in a group shares the same value by
// construction.
func (g *groupSet) representative(a *arena.Arena, col arena.Column, idx int) arena.Column {
	n := len(g.groups)
	if col.Type.Kind == arena.KindVarChar {
		return arena.Column{Type: col.Type, VarChars: arena.AllocSliceFillWith(a, n, func(i int) arena.VarCharValue { return col.VarChars[g.groups[i][0]] })}
	}
	scalars := arena.AllocSliceFillWith(a, n, func(i int) scalar.Scalar { return g.groupByVals[idx][g.groups[i][0]] })
	return scalarColumn(scalars)
}

// extremum picks, per group, the row holding col's minimum (wantMin) or
// maximum value, using the same signed-field/raw-string comparison as
// group-by sorting.
func (g *groupSet) extremum(a *arena.Arena, col arena.Column, wantMin bool) arena.Column {
	n := len(g.groups)
	best := make([]int, n)
	if col.Type.Kind == arena.KindVarChar {
		for i, rows := range g.groups {
			b := rows[0]
			for _, r := range rows[1:] {
				less := col.VarChars[r].Value < col.VarChars[b].Value
				if less == wantMin {
					b = r
				}
			}
			best[i] = b
		}
		return arena.Column{Type: col.Type, VarChars: arena.AllocSliceFillWith(a, n, func(i int) arena.VarCharValue { return col.VarChars[best[i]] })}
	}

	scalars := col.ToScalars(a)
	for i, rows := range g.groups {
		b := rows[0]
		for _, r := range rows[1:] {
			less := scalar.SignedCmp(scalars[r], scalars[b]) == scalar.Less
			if less == wantMin {
				b = r
			}
		}
		best[i] = b
	}
	out := arena.AllocSliceFillWith(a, n, func(i int) scalar.Scalar { return scalars[best[i]] })
	return scalarColumn(out)
}

// countSums returns the field-embedded group sizes, the "count" aggregate.
func (g *groupSet) countSums() []scalar.Scalar {
	out := make([]scalar.Scalar, len(g.groups))
	for i, rows := range g.groups {
		out[i] = scalar.FromInt64(int64(len(rows)))
	}
	return out
}

// sumsChecked computes each sum-aggregate input column's per-group sum
// with the big-integer overflow check §7 requires ("signed difference
// exceeds MAX_SIGNED" surfaces as Overflow; the same bound applies to
// aggregate sums per §4.7).
func (g *groupSet) sumsChecked(inputs [][]scalar.Scalar) ([][]scalar.Scalar, error) {
	out := make([][]scalar.Scalar, len(inputs))
	for k, input := range inputs {
		sums := make([]scalar.Scalar, len(g.groups))
		for i, rows := range g.groups {
			acc := big.NewInt(0)
			for _, r := range rows {
				acc.Add(acc, signedBigInt(input[r]))
			}
			if acc.CmpAbs(scalar.MaxSigned().BigInt()) > 0 {
				return nil, fmt.Errorf("proofplans: sum aggregate overflow: group sum exceeds MAX_SIGNED")
			}
			sums[i] = scalar.FromBigInt(acc)
		}
		out[k] = sums
	}
	return out, nil
}

// expandAverages broadcasts, per original row, the average contribution
// `groupSum[g]/count[g]` of the group the row belongs to if selected, zero
// otherwise — the value whose row-wise sum over a group equals that
// group's total sum exactly once, regardless of group size (§4.7's
// "expanded aggregate").
func (g *groupSet) expandAverages(a *arena.Arena, n int, groupSums []scalar.Scalar) []scalar.Scalar {
	owner := make([]int, n)
	for i := range owner {
		owner[i] = -1
	}
	averages := make([]scalar.Scalar, len(g.groups))
	for gi, rows := range g.groups {
		invSlice := []scalar.Scalar{scalar.FromInt64(int64(len(rows)))}
		scalar.BatchInvert(invSlice)
		averages[gi] = scalar.Mul(groupSums[gi], invSlice[0])
		for _, r := range rows {
			owner[r] = gi
		}
	}
	return arena.AllocSliceFillWith(a, n, func(i int) scalar.Scalar {
		if owner[i] == -1 {
			return scalar.Zero()
		}
		return averages[owner[i]]
	})
}

// signedBigInt reinterprets a field element as a signed integer (§3's
// convention: residues in the upper half are negative); duplicated from
// proofexprs' identical helper since it is unexported there.
func signedBigInt(s scalar.Scalar) *big.Int {
	if !s.IsNegative() {
		return s.BigInt()
	}
	modulus := new(big.Int).Add(new(big.Int).Lsh(scalar.MaxSigned().BigInt(), 1), big.NewInt(1))
	return new(big.Int).Sub(s.BigInt(), modulus)
}
