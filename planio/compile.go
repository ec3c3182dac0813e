package planio

import (
	"fmt"
	"math/big"

	"github.com/varshith257/sxt-proof-of-sql/arena"
	"github.com/varshith257/sxt-proof-of-sql/proofexprs"
	"github.com/varshith257/sxt-proof-of-sql/proofplans"
	"github.com/varshith257/sxt-proof-of-sql/query"
	"github.com/varshith257/sxt-proof-of-sql/scalar"
)

var booleanType = arena.ColumnType{Kind: arena.KindBoolean}
var defaultIntType = arena.ColumnType{Kind: arena.KindBigInt}

// Compile resolves stmt's bare identifiers against schema and builds the
// proofplans.ProofPlan it denotes — a GroupByExec when the statement has
// a GROUP BY clause or any aggregate projection, else a FilterExec when
// it has a WHERE clause, else a plain ProjectionExec (§4.7's three plan
// shapes).
func Compile(stmt *SelectStatement, schema query.SchemaAccessor) (proofplans.ProofPlan, error) {
	table := arena.NewTableRef(stmt.TableSchema, stmt.TableName)
	cols := make(map[string]arena.ColumnType)
	for _, c := range schema.LookupSchema(table) {
		cols[c.Ident] = c.Type
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("planio: unknown table %s", table)
	}
	c := &compiler{table: table, cols: cols}

	hasAggregate := false
	for _, p := range stmt.Projections {
		if _, ok := p.Expr.(AggregateExpr); ok {
			hasAggregate = true
		}
	}
	if len(stmt.GroupBy) > 0 || hasAggregate {
		return c.compileGroupBy(stmt)
	}
	if stmt.Where != nil {
		return c.compileFilter(stmt)
	}
	return c.compileProjection(stmt)
}

type compiler struct {
	table arena.TableRef
	cols  map[string]arena.ColumnType
}

func (c *compiler) resolveColumn(ident string) (proofexprs.ColumnExpr, error) {
	typ, ok := c.cols[ident]
	if !ok {
		return proofexprs.ColumnExpr{}, fmt.Errorf("planio: unknown column %q in table %s", ident, c.table)
	}
	return proofexprs.ColumnExpr{Ref: arena.NewColumnRef(c.table, ident), Type: typ}, nil
}

// literal converts a textual constant into a DynProofExpr under hint, the
// result type a sibling expression in the same operator fixed (§4.2's
// "literal conversion rule").
func (c *compiler) literal(lit Literal, hint arena.ColumnType) (proofexprs.DynProofExpr, error) {
	switch lit.Kind {
	case LiteralInt:
		switch hint.Kind {
		case arena.KindDecimal:
			scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(hint.Scale)), nil)
			mantissa := new(big.Int).Mul(big.NewInt(lit.Int), scale)
			return proofexprs.LiteralExpr{Value: arena.LiteralValue{Type: hint, Decimal: scalar.FromBigInt(mantissa)}}, nil
		case arena.KindInt128:
			return proofexprs.LiteralExpr{Value: arena.LiteralValue{Type: hint, Int128: arena.Int128FromInt64(lit.Int)}}, nil
		case arena.KindScalar:
			return proofexprs.LiteralExpr{Value: arena.LiteralValue{Type: hint, Scalar: scalar.FromInt64(lit.Int)}}, nil
		case arena.KindTinyInt, arena.KindSmallInt, arena.KindInt, arena.KindBigInt, arena.KindTimestamp:
			return proofexprs.LiteralExpr{Value: arena.LiteralValue{Type: hint, Int64: lit.Int, Timestamp: lit.Int}}, nil
		default:
			return proofexprs.LiteralExpr{Value: arena.LiteralValue{Type: defaultIntType, Int64: lit.Int}}, nil
		}
	case LiteralString:
		return proofexprs.LiteralExpr{Value: arena.LiteralValue{Type: arena.ColumnType{Kind: arena.KindVarChar}, VarChar: arena.NewVarChar(lit.Str)}}, nil
	case LiteralBool:
		return proofexprs.LiteralExpr{Value: arena.LiteralValue{Type: booleanType, Boolean: lit.Bool}}, nil
	default:
		return nil, fmt.Errorf("planio: unknown literal kind")
	}
}

func (c *compiler) compileExpr(e Expr, hint *arena.ColumnType) (proofexprs.DynProofExpr, error) {
	switch v := e.(type) {
	case ColumnRef:
		if v.Table != "" && v.Table != c.table.Table {
			return nil, fmt.Errorf("planio: column %s.%s does not belong to queried table %s", v.Table, v.Ident, c.table)
		}
		return c.resolveColumn(v.Ident)
	case Literal:
		h := defaultIntType
		if hint != nil {
			h = *hint
		}
		return c.literal(v, h)
	case BinaryExpr:
		return c.compileBinary(v)
	case NotExpr:
		child, err := c.compileExpr(v.Child, nil)
		if err != nil {
			return nil, err
		}
		return proofexprs.NotExpr{Child: child}, nil
	default:
		return nil, fmt.Errorf("planio: unsupported expression of type %T", e)
	}
}

// compilePair compiles a pair of operands that must agree on a type hint
// for literal resolution: whichever side isn't a bare literal fixes the
// type the literal side is interpreted under.
func (c *compiler) compilePair(le, re Expr) (proofexprs.DynProofExpr, proofexprs.DynProofExpr, error) {
	lLit, lIsLit := le.(Literal)
	rLit, rIsLit := re.(Literal)
	switch {
	case lIsLit && !rIsLit:
		right, err := c.compileExpr(re, nil)
		if err != nil {
			return nil, nil, err
		}
		rt := right.ColumnType()
		left, err := c.literal(lLit, rt)
		if err != nil {
			return nil, nil, err
		}
		return left, right, nil
	case !lIsLit && rIsLit:
		left, err := c.compileExpr(le, nil)
		if err != nil {
			return nil, nil, err
		}
		lt := left.ColumnType()
		right, err := c.literal(rLit, lt)
		if err != nil {
			return nil, nil, err
		}
		return left, right, nil
	default:
		left, err := c.compileExpr(le, nil)
		if err != nil {
			return nil, nil, err
		}
		right, err := c.compileExpr(re, nil)
		if err != nil {
			return nil, nil, err
		}
		return left, right, nil
	}
}

var compareOpOf = map[BinaryOp]proofexprs.CompareOp{
	OpLt:   proofexprs.Less,
	OpLtEq: proofexprs.LessEq,
	OpGt:   proofexprs.Greater,
	OpGtEq: proofexprs.GreaterEq,
}

func (c *compiler) compileBinary(e BinaryExpr) (proofexprs.DynProofExpr, error) {
	switch e.Op {
	case OpAnd, OpOr:
		left, err := c.compileExpr(e.Left, nil)
		if err != nil {
			return nil, err
		}
		right, err := c.compileExpr(e.Right, nil)
		if err != nil {
			return nil, err
		}
		if e.Op == OpAnd {
			return proofexprs.AndExpr{Left: left, Right: right}, nil
		}
		return proofexprs.OrExpr{Left: left, Right: right}, nil

	case OpEq, OpNotEq:
		left, right, err := c.compilePair(e.Left, e.Right)
		if err != nil {
			return nil, err
		}
		eq := proofexprs.EqualsExpr(left, right)
		if e.Op == OpNotEq {
			return proofexprs.NotExpr{Child: eq}, nil
		}
		return eq, nil

	case OpLt, OpLtEq, OpGt, OpGtEq:
		left, right, err := c.compilePair(e.Left, e.Right)
		if err != nil {
			return nil, err
		}
		return proofexprs.InequalityExpr(compareOpOf[e.Op], left, right), nil

	case OpAdd, OpSub, OpMul, OpDiv:
		left, right, err := c.compilePair(e.Left, e.Right)
		if err != nil {
			return nil, err
		}
		switch e.Op {
		case OpAdd:
			left, right = scaleToCommon(left, right)
			return proofexprs.AddExpr{Left: left, Right: right}, nil
		case OpSub:
			left, right = scaleToCommon(left, right)
			return proofexprs.SubExpr{Left: left, Right: right}, nil
		case OpMul:
			return proofexprs.MulExpr{Left: left, Right: right}, nil
		default:
			return proofexprs.DivExpr{Left: left, Right: right}, nil
		}

	default:
		return nil, fmt.Errorf("planio: unsupported binary operator")
	}
}

// scaleToCommon brings two operands to the wider of their two decimal
// scales before a direct add/sub, mirroring proofexprs' own (unexported)
// helper of the same name used ahead of EqualsExpr/InequalityExpr — + and
// - need the identical treatment since their result type takes
// max(scale) (§4.7's promotion table) but won't itself realign the
// mismatched mantissas.
func scaleToCommon(lhs, rhs proofexprs.DynProofExpr) (proofexprs.DynProofExpr, proofexprs.DynProofExpr) {
	l, r := decimalScale(lhs), decimalScale(rhs)
	switch {
	case l == r:
		return lhs, rhs
	case l < r:
		return proofexprs.ScaleExpr{Child: lhs, Factor: scalar.Pow10(uint8(r - l))}, rhs
	default:
		return lhs, proofexprs.ScaleExpr{Child: rhs, Factor: scalar.Pow10(uint8(l - r))}
	}
}

func decimalScale(e proofexprs.DynProofExpr) int8 {
	t := e.ColumnType()
	if t.Kind == arena.KindDecimal {
		return t.Scale
	}
	return 0
}

func (c *compiler) compileProjection(stmt *SelectStatement) (proofplans.ProofPlan, error) {
	sel := make([]proofplans.AliasedExpr, len(stmt.Projections))
	for i, p := range stmt.Projections {
		expr, err := c.compileExpr(p.Expr, nil)
		if err != nil {
			return nil, err
		}
		sel[i] = proofplans.AliasedExpr{Alias: p.Alias, Expr: expr}
	}
	return proofplans.ProjectionExec{Table: proofplans.TableExpr{Ref: c.table}, Select: sel}, nil
}

func (c *compiler) compileFilter(stmt *SelectStatement) (proofplans.ProofPlan, error) {
	where, err := c.compileExpr(stmt.Where, nil)
	if err != nil {
		return nil, err
	}
	if where.ColumnType().Kind != arena.KindBoolean {
		return nil, fmt.Errorf("planio: WHERE clause must be a boolean expression")
	}
	sel := make([]proofplans.AliasedExpr, len(stmt.Projections))
	for i, p := range stmt.Projections {
		expr, err := c.compileExpr(p.Expr, nil)
		if err != nil {
			return nil, err
		}
		sel[i] = proofplans.AliasedExpr{Alias: p.Alias, Expr: expr}
	}
	return proofplans.FilterExec{Table: proofplans.TableExpr{Ref: c.table}, Where: where, Select: sel}, nil
}

func (c *compiler) compileGroupBy(stmt *SelectStatement) (proofplans.ProofPlan, error) {
	groupBy := make([]proofplans.AliasedExpr, len(stmt.GroupBy))
	groupIndex := make(map[string]int, len(stmt.GroupBy))
	for i, ident := range stmt.GroupBy {
		col, err := c.resolveColumn(ident)
		if err != nil {
			return nil, err
		}
		groupBy[i] = proofplans.AliasedExpr{Alias: ident, Expr: col}
		groupIndex[ident] = i
	}

	var sums, mins, maxes []proofplans.AliasedExpr
	countAlias := ""
	for _, p := range stmt.Projections {
		switch expr := p.Expr.(type) {
		case AggregateExpr:
			switch expr.Kind {
			case AggCount:
				countAlias = p.Alias
			case AggSum:
				child, err := c.compileExpr(expr.Child, nil)
				if err != nil {
					return nil, err
				}
				sums = append(sums, proofplans.AliasedExpr{Alias: p.Alias, Expr: child})
			case AggMin:
				child, err := c.compileExpr(expr.Child, nil)
				if err != nil {
					return nil, err
				}
				mins = append(mins, proofplans.AliasedExpr{Alias: p.Alias, Expr: child})
			case AggMax:
				child, err := c.compileExpr(expr.Child, nil)
				if err != nil {
					return nil, err
				}
				maxes = append(maxes, proofplans.AliasedExpr{Alias: p.Alias, Expr: child})
			default:
				return nil, fmt.Errorf("planio: unknown aggregate kind")
			}
		case ColumnRef:
			idx, ok := groupIndex[expr.Ident]
			if !ok {
				return nil, fmt.Errorf("planio: column %q must appear in GROUP BY or inside an aggregate", expr.Ident)
			}
			groupBy[idx].Alias = p.Alias
		default:
			return nil, fmt.Errorf("planio: GROUP BY queries may only project group-by columns or aggregates")
		}
	}
	if countAlias == "" {
		countAlias = "count"
	}

	selection := proofexprs.DynProofExpr(proofexprs.LiteralExpr{Value: arena.LiteralValue{Type: booleanType, Boolean: true}})
	if stmt.Where != nil {
		where, err := c.compileExpr(stmt.Where, nil)
		if err != nil {
			return nil, err
		}
		if where.ColumnType().Kind != arena.KindBoolean {
			return nil, fmt.Errorf("planio: WHERE clause must be a boolean expression")
		}
		selection = where
	}

	return proofplans.GroupByExec{
		Table:      proofplans.TableExpr{Ref: c.table},
		GroupBy:    groupBy,
		Sums:       sums,
		Mins:       mins,
		Maxes:      maxes,
		Selection:  selection,
		CountAlias: countAlias,
	}, nil
}
