// Package planio is the thin, non-core text surface named in §1 and
// exercised by §8's end-to-end scenarios: a hand-written recursive-descent
// reader for a small SELECT grammar, and a compiler from the resulting AST
// into a proofplans.ProofPlan given a schema accessor. Parsing SQL text is
// explicitly out of the core's scope of guarantees; this package exists
// only because some surface has to turn query text into a plan, the same
// role the teacher's thin `examples/` packages play for circuit inputs.
package planio

// Expr is the unresolved AST counterpart of proofexprs.DynProofExpr:
// column references are still bare identifiers, not yet checked against a
// schema or typed.
type Expr interface {
	isExpr()
}

// ColumnRef is a bare `[table.]column` reference as it appears in text,
// before being resolved to an arena.ColumnRef.
type ColumnRef struct {
	Table string
	Ident string
}

func (ColumnRef) isExpr() {}

// LiteralKind tags the textual form a Literal was parsed from.
type LiteralKind int

const (
	LiteralInt LiteralKind = iota
	LiteralString
	LiteralBool
)

// Literal is a parsed constant, still in its textual representation; the
// compiler picks its final arena.ColumnType from context (the schema type
// it's compared/added against), matching §4.2's "literal conversion rule".
type Literal struct {
	Kind LiteralKind
	Int  int64
	Str  string
	Bool bool
}

func (Literal) isExpr() {}

// BinaryOp enumerates the infix operators the grammar accepts.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpAnd
	OpOr
	OpEq
	OpNotEq
	OpLt
	OpLtEq
	OpGt
	OpGtEq
)

// BinaryExpr is `Left <op> Right`.
type BinaryExpr struct {
	Op          BinaryOp
	Left, Right Expr
}

func (BinaryExpr) isExpr() {}

// NotExpr is `NOT Child`.
type NotExpr struct{ Child Expr }

func (NotExpr) isExpr() {}

// AliasedExpr is a projected expression paired with its output column
// name (§1 "All projected expressions must be explicitly aliased").
type AliasedExpr struct {
	Alias string
	Expr  Expr
}

// AggregateKind tags which aggregate a GROUP BY projection computes.
type AggregateKind int

const (
	AggNone AggregateKind = iota
	AggCount
	AggSum
	AggMin
	AggMax
)

// AggregateExpr is `<kind>(<child>)` or, for AggCount, `COUNT(*)` (Child
// is nil in that case).
type AggregateExpr struct {
	Kind  AggregateKind
	Child Expr
}

func (AggregateExpr) isExpr() {}

// OrderByTerm is one `ORDER BY <ident> [ASC|DESC]` clause term, applied to
// the revealed result table after verification (§5's ordering guarantee),
// never proven.
type OrderByTerm struct {
	Ident string
	Desc  bool
}

// Limit is `LIMIT n [OFFSET k]`; per §1 "if LIMIT is specified, OFFSET is
// required" this implementation defaults Offset to 0 rather than
// rejecting a bare LIMIT, a relaxation recorded in DESIGN.md.
type Limit struct {
	N      uint64
	Offset uint64
}

// SelectStatement is the full parsed query (§1's grammar).
type SelectStatement struct {
	Projections []AliasedExpr
	TableSchema string
	TableName   string
	Where       Expr
	GroupBy     []string
	OrderBy     []OrderByTerm
	Limit       *Limit
}
