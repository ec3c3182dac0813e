package planio

import (
	"testing"

	"github.com/varshith257/sxt-proof-of-sql/arena"
	"github.com/varshith257/sxt-proof-of-sql/dory"
	"github.com/varshith257/sxt-proof-of-sql/query"
	"github.com/varshith257/sxt-proof-of-sql/scalar"
)

var testTable = arena.NewTableRef("", "t")

func colRef(name string) arena.ColumnRef { return arena.NewColumnRef(testTable, name) }

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

func (f fakeSchema) LookupSchema(table arena.TableRef) []query.ColumnSchema {
	var out []query.ColumnSchema
	for ref, col := range f.columns {
		if ref.Table == table {
			out = append(out, query.ColumnSchema{Ident: ref.Ident, Type: col.Type})
		}
	}
	return out
}

func (f fakeSchema) GetLength(arena.TableRef) int { return f.length }
func (f fakeSchema) GetOffset(arena.TableRef) int { return 0 }

type fakeAccessor struct{ columns map[arena.ColumnRef]arena.Column }

func (f fakeAccessor) GetColumn(ref arena.ColumnRef) arena.Column { return f.columns[ref] }

type fakeCommitments struct{ commitments map[arena.ColumnRef]*dory.Commitment }

func (f fakeCommitments) GetCommitment(ref arena.ColumnRef) (*dory.Commitment, error) {
	return f.commitments[ref], nil
}

func newFixture(t *testing.T, tableLength int, columns map[arena.ColumnRef]arena.Column) (*dory.ProverSetup, *dory.VerifierSetup, fakeSchema, fakeAccessor, fakeCommitments) {
	t.Helper()
	pp, err := dory.Setup(2, dory.TestOnly)
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

func bigintColumn(values []int64) arena.Column {
	return arena.Column{Type: arena.ColumnType{Kind: arena.KindBigInt}, BigInts: append([]int64(nil), values...)}
}

func TestCompileProjectionRoundTrip(t *testing.T) {
	columns := map[arena.ColumnRef]arena.Column{
		colRef("a"): bigintColumn([]int64{1, 2, 3, 4}),
		colRef("b"): bigintColumn([]int64{5, 6, 7, 8}),
	}
	ps, vs, schema, data, commitments := newFixture(t, 4, columns)

	stmt, err := Parse("select a as a, a + b as total from t")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	plan, err := Compile(stmt, schema)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	cfg := query.Config{MaxNu: 2}
	resultTable, proof, err := query.ProveQuery(plan, schema, data, ps, cfg)
	if err != nil {
		t.Fatalf("ProveQuery: %v", err)
	}
	if err := query.VerifyQuery(plan, schema, commitments, vs, resultTable, proof, cfg); err != nil {
		t.Fatalf("VerifyQuery: %v", err)
	}
	total, ok := resultTable.Column("total")
	if !ok {
		t.Fatalf("result missing column total")
	}
	got := total.ToScalars(arena.New())
	want := []scalar.Scalar{scalar.FromInt64(6), scalar.FromInt64(8), scalar.FromInt64(10), scalar.FromInt64(12)}
	for i := range want {
		if !scalar.Equal(got[i], want[i]) {
			t.Errorf("total[%d] = %s, want %s", i, got[i].String(), want[i].String())
		}
	}
}

func TestCompileFilterRoundTrip(t *testing.T) {
	columns := map[arena.ColumnRef]arena.Column{
		colRef("a"): bigintColumn([]int64{1, 2, 3, 4}),
	}
	ps, vs, schema, data, commitments := newFixture(t, 4, columns)

	stmt, err := Parse("select a as a from t where a > 2")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	plan, err := Compile(stmt, schema)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	cfg := query.Config{MaxNu: 2}
	resultTable, proof, err := query.ProveQuery(plan, schema, data, ps, cfg)
	if err != nil {
		t.Fatalf("ProveQuery: %v", err)
	}
	if err := query.VerifyQuery(plan, schema, commitments, vs, resultTable, proof, cfg); err != nil {
		t.Fatalf("VerifyQuery: %v", err)
	}
	a, _ := resultTable.Column("a")
	got := a.ToScalars(arena.New())
	want := []scalar.Scalar{scalar.FromInt64(0), scalar.FromInt64(0), scalar.FromInt64(3), scalar.FromInt64(4)}
	for i := range want {
		if !scalar.Equal(got[i], want[i]) {
			t.Errorf("a[%d] = %s, want %s", i, got[i].String(), want[i].String())
		}
	}
}

func TestCompileGroupByRoundTrip(t *testing.T) {
	columns := map[arena.ColumnRef]arena.Column{
		colRef("cat"):    bigintColumn([]int64{1, 2, 1, 1}),
		colRef("amount"): bigintColumn([]int64{10, 20, 30, 99}),
	}
	ps, vs, schema, data, commitments := newFixture(t, 4, columns)

	stmt, err := Parse("select cat as category, sum(amount) as total, count(*) as n from t group by cat")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	plan, err := Compile(stmt, schema)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	cfg := query.Config{MaxNu: 2}
	resultTable, proof, err := query.ProveQuery(plan, schema, data, ps, cfg)
	if err != nil {
		t.Fatalf("ProveQuery: %v", err)
	}
	if err := query.VerifyQuery(plan, schema, commitments, vs, resultTable, proof, cfg); err != nil {
		t.Fatalf("VerifyQuery: %v", err)
	}
	if names := resultTable.Names(); len(names) != 3 {
		t.Fatalf("expected 3 output columns, got %v", names)
	}
	n, ok := resultTable.Column("n")
	if !ok || len(n.BigInts) != 2 {
		t.Fatalf("expected 2 groups in column n, got %+v", n)
	}
}

func TestParseRejectsUnaliasedProjection(t *testing.T) {
	if _, err := Parse("select a from t"); err == nil {
		t.Fatalf("expected an error for a projection missing AS")
	}
}

func TestApplyOrderByLimit(t *testing.T) {
	names := []string{"name", "amount"}
	columns := []arena.OwnedColumn{
		{Column: arena.Column{Type: arena.ColumnType{Kind: arena.KindVarChar}, VarChars: []arena.VarCharValue{
			arena.NewVarChar("bob"), arena.NewVarChar("ann"), arena.NewVarChar("cy"),
		}}},
		{Column: bigintColumn([]int64{20, 30, 10})},
	}
	table, err := arena.NewOwnedTable(names, columns)
	if err != nil {
		t.Fatalf("NewOwnedTable: %v", err)
	}

	stmt, err := Parse("select name as name, amount as amount from t order by amount desc limit 2 offset 0")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	out, err := Apply(stmt, table)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	amount, _ := out.Column("amount")
	if out.NumRows() != 2 || amount.BigInts[0] != 30 || amount.BigInts[1] != 20 {
		t.Errorf("unexpected ordered/limited amounts: %v", amount.BigInts)
	}
}
