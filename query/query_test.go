package query

import (
	"testing"

	"github.com/varshith257/sxt-proof-of-sql/arena"
	"github.com/varshith257/sxt-proof-of-sql/dory"
	"github.com/varshith257/sxt-proof-of-sql/proofexprs"
	"github.com/varshith257/sxt-proof-of-sql/proofplans"
	"github.com/varshith257/sxt-proof-of-sql/scalar"
)

func ints(vs ...int64) []scalar.Scalar {
	out := make([]scalar.Scalar, len(vs))
	for i, v := range vs {
		out[i] = scalar.FromInt64(v)
	}
	return out
}

func bigintColumn(values []int64) arena.Column {
	bigints := make([]int64, len(values))
	copy(bigints, values)
	return arena.Column{Type: arena.ColumnType{Kind: arena.KindBigInt}, BigInts: bigints}
}

var booleanType = arena.ColumnType{Kind: arena.KindBoolean}
var bigintType = arena.ColumnType{Kind: arena.KindBigInt}

var testTable = arena.NewTableRef("", "t")

func colRef(name string) arena.ColumnRef { return arena.NewColumnRef(testTable, name) }

func bigintCol(name string) proofexprs.ColumnExpr {
	return proofexprs.ColumnExpr{Ref: colRef(name), Type: bigintType}
}

func boolCol(name string) proofexprs.ColumnExpr {
	return proofexprs.ColumnExpr{Ref: colRef(name), Type: booleanType}
}

// fakeAccessor is the prover-side proofexprs.Accessor over an in-memory
// column map, exactly as proofplans' own tests use it.
type fakeAccessor struct {
	columns map[arena.ColumnRef]arena.Column
}

func (f fakeAccessor) GetColumn(ref arena.ColumnRef) arena.Column { return f.columns[ref] }

// fakeSchema is a minimal SchemaAccessor backed by the same column map,
// plus a fixed table length.
type fakeSchema struct {
	length  int
	columns map[arena.ColumnRef]arena.Column
}

func (f fakeSchema) LookupColumn(table arena.TableRef, ident string) (arena.ColumnType, bool) {
	col, ok := f.columns[arena.NewColumnRef(table, ident)]
	if !ok {
		return arena.ColumnType{}, false
	}
	return col.Type, true
}

func (f fakeSchema) LookupSchema(table arena.TableRef) []ColumnSchema {
	var out []ColumnSchema
	for ref, col := range f.columns {
		if ref.Table == table {
			out = append(out, ColumnSchema{Ident: ref.Ident, Type: col.Type})
		}
	}
	return out
}

func (f fakeSchema) GetLength(arena.TableRef) int { return f.length }
func (f fakeSchema) GetOffset(arena.TableRef) int { return 0 }

// fakeCommitments commits every column up front with the same prover
// setup ProveQuery will use, standing in for a persisted commitment
// store (§6's CommitmentAccessor).
type fakeCommitments struct {
	commitments map[arena.ColumnRef]*dory.Commitment
}

func (f fakeCommitments) GetCommitment(ref arena.ColumnRef) (*dory.Commitment, error) {
	c, ok := f.commitments[ref]
	if !ok {
		return nil, ErrVerificationFailed
	}
	return c, nil
}

func newFixture(t *testing.T, maxNu, tableLength int, columns map[arena.ColumnRef]arena.Column) (*dory.ProverSetup, *dory.VerifierSetup, fakeSchema, fakeAccessor, fakeCommitments) {
	t.Helper()
	pp, err := dory.Setup(maxNu, dory.TestOnly)
	if err != nil {
		t.Fatalf("dory.Setup: %v", err)
	}
	ps := dory.NewProverSetup(pp)
	vs, err := dory.NewVerifierSetup(pp)
	if err != nil {
		t.Fatalf("dory.NewVerifierSetup: %v", err)
	}

	a := arena.New()
	commitments := make(map[arena.ColumnRef]*dory.Commitment, len(columns))
	for ref, col := range columns {
		c, err := dory.Commit(ps, col.ToScalars(a), nil)
		if err != nil {
			t.Fatalf("dory.Commit(%s): %v", ref, err)
		}
		commitments[ref] = c
	}

	return ps, vs, fakeSchema{length: tableLength, columns: columns}, fakeAccessor{columns: columns}, fakeCommitments{commitments: commitments}
}

func TestProveVerifyFilterRoundTrip(t *testing.T) {
	columns := map[arena.ColumnRef]arena.Column{
		colRef("a"):   bigintColumn([]int64{1, 2, 3, 4}),
		colRef("b"):   bigintColumn([]int64{10, 20, 30, 40}),
		colRef("sel"): {Type: booleanType, Booleans: []bool{true, false, true, false}},
	}
	ps, vs, schema, data, commitments := newFixture(t, 2, 4, columns)

	plan := proofplans.FilterExec{
		Table:  proofplans.TableExpr{Ref: testTable},
		Where:  boolCol("sel"),
		Select: []proofplans.AliasedExpr{{Alias: "b", Expr: bigintCol("b")}},
	}
	cfg := Config{MaxNu: 2}

	resultTable, proof, err := ProveQuery(plan, schema, data, ps, cfg)
	if err != nil {
		t.Fatalf("ProveQuery: %v", err)
	}

	masked, ok := resultTable.Column("b")
	if !ok {
		t.Fatalf("result table missing column b")
	}
	got := masked.ToScalars(arena.New())
	want := ints(10, 0, 30, 0)
	if !equalScalars(got, want) {
		t.Errorf("masked b = %v, want %v", got, want)
	}

	if err := VerifyQuery(plan, schema, commitments, vs, resultTable, proof, cfg); err != nil {
		t.Fatalf("VerifyQuery rejected a valid proof: %v", err)
	}
}

func TestProveVerifyProjectionRoundTrip(t *testing.T) {
	columns := map[arena.ColumnRef]arena.Column{
		colRef("a"): bigintColumn([]int64{1, 2, 3, 4}),
		colRef("b"): bigintColumn([]int64{5, 6, 7, 8}),
	}
	ps, vs, schema, data, commitments := newFixture(t, 2, 4, columns)

	plan := proofplans.ProjectionExec{
		Table: proofplans.TableExpr{Ref: testTable},
		Select: []proofplans.AliasedExpr{
			{Alias: "a", Expr: bigintCol("a")},
			{Alias: "sum_ab", Expr: proofexprs.AddExpr{Left: bigintCol("a"), Right: bigintCol("b")}},
		},
	}
	cfg := Config{MaxNu: 2}

	resultTable, proof, err := ProveQuery(plan, schema, data, ps, cfg)
	if err != nil {
		t.Fatalf("ProveQuery: %v", err)
	}
	if err := VerifyQuery(plan, schema, commitments, vs, resultTable, proof, cfg); err != nil {
		t.Fatalf("VerifyQuery rejected a valid proof: %v", err)
	}

	sumCol, _ := resultTable.Column("sum_ab")
	if got, want := sumCol.ToScalars(arena.New()), ints(6, 8, 10, 12); !equalScalars(got, want) {
		t.Errorf("sum_ab = %v, want %v", got, want)
	}
}

func TestProveVerifyGroupByRoundTrip(t *testing.T) {
	columns := map[arena.ColumnRef]arena.Column{
		colRef("cat"):    bigintColumn([]int64{1, 2, 1, 1}),
		colRef("amount"): bigintColumn([]int64{10, 20, 30, 99}),
		colRef("sel"):    {Type: booleanType, Booleans: []bool{true, true, true, false}},
	}
	ps, vs, schema, data, commitments := newFixture(t, 2, 4, columns)

	plan := proofplans.GroupByExec{
		Table:      proofplans.TableExpr{Ref: testTable},
		GroupBy:    []proofplans.AliasedExpr{{Alias: "cat", Expr: bigintCol("cat")}},
		Sums:       []proofplans.AliasedExpr{{Alias: "total", Expr: bigintCol("amount")}},
		Selection:  boolCol("sel"),
		CountAlias: "n",
	}
	cfg := Config{MaxNu: 2}

	resultTable, proof, err := ProveQuery(plan, schema, data, ps, cfg)
	if err != nil {
		t.Fatalf("ProveQuery: %v", err)
	}
	if err := VerifyQuery(plan, schema, commitments, vs, resultTable, proof, cfg); err != nil {
		t.Fatalf("VerifyQuery rejected a valid proof: %v", err)
	}

	countCol, _ := resultTable.Column("n")
	if len(countCol.BigInts) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(countCol.BigInts))
	}
}

// TestVerifyRejectsTamperedResult checks that a result table altered
// after proving — without regenerating the proof — is caught, covering
// §7's soundness-rejection path end to end through VerifyQuery.
func TestVerifyRejectsTamperedResult(t *testing.T) {
	columns := map[arena.ColumnRef]arena.Column{
		colRef("a"):   bigintColumn([]int64{1, 2, 3, 4}),
		colRef("sel"): {Type: booleanType, Booleans: []bool{true, false, true, false}},
	}
	ps, vs, schema, data, commitments := newFixture(t, 2, 4, columns)

	plan := proofplans.FilterExec{
		Table:  proofplans.TableExpr{Ref: testTable},
		Where:  boolCol("sel"),
		Select: []proofplans.AliasedExpr{{Alias: "a", Expr: bigintCol("a")}},
	}
	cfg := Config{MaxNu: 2}

	resultTable, proof, err := ProveQuery(plan, schema, data, ps, cfg)
	if err != nil {
		t.Fatalf("ProveQuery: %v", err)
	}

	tampered, ok := resultTable.Column("a")
	if !ok {
		t.Fatalf("result table missing column a")
	}
	tampered.Scalars[0] = scalar.Add(tampered.Scalars[0], scalar.One())

	err = VerifyQuery(plan, schema, commitments, vs, resultTable, proof, cfg)
	if err == nil {
		t.Fatalf("VerifyQuery accepted a tampered result table")
	}
}

// TestVerifyRejectsWrongCommitment checks that opening a column against
// the wrong stored commitment is rejected, covering the Dory pairing
// check rather than the sum-check identity.
func TestVerifyRejectsWrongCommitment(t *testing.T) {
	columns := map[arena.ColumnRef]arena.Column{
		colRef("a"):   bigintColumn([]int64{1, 2, 3, 4}),
		colRef("sel"): {Type: booleanType, Booleans: []bool{true, false, true, false}},
	}
	ps, vs, schema, data, commitments := newFixture(t, 2, 4, columns)

	plan := proofplans.FilterExec{
		Table:  proofplans.TableExpr{Ref: testTable},
		Where:  boolCol("sel"),
		Select: []proofplans.AliasedExpr{{Alias: "a", Expr: bigintCol("a")}},
	}
	cfg := Config{MaxNu: 2}

	resultTable, proof, err := ProveQuery(plan, schema, data, ps, cfg)
	if err != nil {
		t.Fatalf("ProveQuery: %v", err)
	}

	other, err := dory.Commit(ps, ints(9, 9, 9, 9), nil)
	if err != nil {
		t.Fatalf("dory.Commit: %v", err)
	}
	for ref := range commitments.commitments {
		commitments.commitments[ref] = other
	}

	if err := VerifyQuery(plan, schema, commitments, vs, resultTable, proof, cfg); err == nil {
		t.Fatalf("VerifyQuery accepted openings against substituted commitments")
	}
}

func equalScalars(got, want []scalar.Scalar) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if !scalar.Equal(got[i], want[i]) {
			return false
		}
	}
	return true
}
