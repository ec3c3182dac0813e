package planio

import (
	"fmt"

	"github.com/varshith257/sxt-proof-of-sql/arena"
	"github.com/varshith257/sxt-proof-of-sql/scalar"
)

// Apply reorders and truncates a verified result table per stmt's ORDER
// BY/LIMIT/OFFSET clauses (§5's ordering guarantee: applied to the
// revealed plaintext only, after verification has already accepted the
// cryptographic claim — never part of the proof itself).
func Apply(stmt *SelectStatement, table *arena.OwnedTable) (*arena.OwnedTable, error) {
	names := table.Names()
	n := table.NumRows()
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}

	if len(stmt.OrderBy) > 0 {
		cols := make([]arena.OwnedColumn, len(stmt.OrderBy))
		for i, term := range stmt.OrderBy {
			col, ok := table.Column(term.Ident)
			if !ok {
				return nil, fmt.Errorf("planio: ORDER BY column %q is not in the result", term.Ident)
			}
			cols[i] = col
		}
		a := arena.New()
		vals := make([][]scalar.Scalar, len(cols))
		for i, c := range cols {
			vals[i] = c.ToScalars(a)
		}
		less := func(i, j int) bool {
			for k, term := range stmt.OrderBy {
				cmp := compareAt(cols[k], vals[k], order[i], order[j])
				if cmp == 0 {
					continue
				}
				if term.Desc {
					return cmp > 0
				}
				return cmp < 0
			}
			return false
		}
		stableSort(order, less)
	}

	lo, hi := 0, n
	if stmt.Limit != nil {
		lo = int(stmt.Limit.Offset)
		if lo > n {
			lo = n
		}
		hi = lo + int(stmt.Limit.N)
		if hi > n {
			hi = n
		}
	}
	order = order[lo:hi]

	columns := make([]arena.OwnedColumn, len(names))
	for i, name := range names {
		col, _ := table.Column(name)
		columns[i] = selectRows(col, order)
	}
	return arena.NewOwnedTable(names, columns)
}

func compareAt(col arena.OwnedColumn, vals []scalar.Scalar, i, j int) int {
	if col.Type.Kind == arena.KindVarChar {
		si, sj := col.VarChars[i].Value, col.VarChars[j].Value
		switch {
		case si < sj:
			return -1
		case si > sj:
			return 1
		default:
			return 0
		}
	}
	switch scalar.SignedCmp(vals[i], vals[j]) {
	case scalar.Less:
		return -1
	case scalar.Greater:
		return 1
	default:
		return 0
	}
}

// stableSort is a small insertion sort, stable by construction, matching
// the same local-helper-over-sort.SliceStable choice proofplans' group-by
// implementation makes for its own (similarly small) row orderings.
func stableSort(order []int, less func(i, j int) bool) {
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && less(j, j-1); j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}
}

// selectRows builds a new OwnedColumn holding only the rows named by
// order, in order — the plaintext-side analogue of proofplans'
// groupSet.representative, generalized to every column kind.
func selectRows(c arena.OwnedColumn, order []int) arena.OwnedColumn {
	out := arena.Column{Type: c.Type}
	switch c.Type.Kind {
	case arena.KindBoolean:
		out.Booleans = make([]bool, len(order))
		for i, r := range order {
			out.Booleans[i] = c.Booleans[r]
		}
	case arena.KindTinyInt:
		out.TinyInts = make([]int8, len(order))
		for i, r := range order {
			out.TinyInts[i] = c.TinyInts[r]
		}
	case arena.KindSmallInt:
		out.SmallInts = make([]int16, len(order))
		for i, r := range order {
			out.SmallInts[i] = c.SmallInts[r]
		}
	case arena.KindInt:
		out.Ints = make([]int32, len(order))
		for i, r := range order {
			out.Ints[i] = c.Ints[r]
		}
	case arena.KindBigInt:
		out.BigInts = make([]int64, len(order))
		for i, r := range order {
			out.BigInts[i] = c.BigInts[r]
		}
	case arena.KindInt128:
		out.Int128s = make([]arena.Int128, len(order))
		for i, r := range order {
			out.Int128s[i] = c.Int128s[r]
		}
	case arena.KindDecimal:
		out.Decimals = make([]scalar.Scalar, len(order))
		for i, r := range order {
			out.Decimals[i] = c.Decimals[r]
		}
	case arena.KindScalar:
		out.Scalars = make([]scalar.Scalar, len(order))
		for i, r := range order {
			out.Scalars[i] = c.Scalars[r]
		}
	case arena.KindVarChar:
		out.VarChars = make([]arena.VarCharValue, len(order))
		for i, r := range order {
			out.VarChars[i] = c.VarChars[r]
		}
	case arena.KindTimestamp:
		out.Timestamps = make([]int64, len(order))
		for i, r := range order {
			out.Timestamps[i] = c.Timestamps[r]
		}
	}
	return arena.OwnedColumn{Column: out}
}
