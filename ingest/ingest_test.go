package ingest

import (
	"math/big"
	"strings"
	"testing"

	"github.com/varshith257/sxt-proof-of-sql/arena"
	"github.com/varshith257/sxt-proof-of-sql/dory"
	"github.com/varshith257/sxt-proof-of-sql/scalar"
)

func TestParseSchema(t *testing.T) {
	spec, err := ParseSchema("id:BIGINT, name:VARCHAR, price:DECIMAL(9,2)")
	if err != nil {
		t.Fatalf("ParseSchema: %v", err)
	}
	if len(spec) != 3 {
		t.Fatalf("expected 3 columns, got %d", len(spec))
	}
	if spec[0].Type.Kind != arena.KindBigInt {
		t.Errorf("id: expected BIGINT, got %v", spec[0].Type.Kind)
	}
	if spec[2].Type.Kind != arena.KindDecimal || spec[2].Type.Scale != 2 {
		t.Errorf("price: expected DECIMAL scale 2, got %+v", spec[2].Type)
	}
}

func TestReadCSV(t *testing.T) {
	spec, err := ParseSchema("id:BIGINT,name:VARCHAR,price:DECIMAL(9,2)")
	if err != nil {
		t.Fatalf("ParseSchema: %v", err)
	}
	csv := "id,name,price\n1,widget,19.99\n2,gadget,-3.50\n"
	table, err := ReadCSV(strings.NewReader(csv), spec)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if table.NumRows() != 2 {
		t.Fatalf("expected 2 rows, got %d", table.NumRows())
	}
	id, _ := table.Column("id")
	if id.BigInts[0] != 1 || id.BigInts[1] != 2 {
		t.Errorf("unexpected id column: %v", id.BigInts)
	}
	price, _ := table.Column("price")
	want0 := scalar.FromBigInt(big.NewInt(1999))
	if !scalar.Equal(price.Decimals[0], want0) {
		t.Errorf("price[0] = %s, want %s", price.Decimals[0].String(), want0.String())
	}
	want1 := scalar.FromBigInt(big.NewInt(-350))
	if !scalar.Equal(price.Decimals[1], want1) {
		t.Errorf("price[1] = %s, want %s", price.Decimals[1].String(), want1.String())
	}
}

func TestReadCSVRejectsHeaderMismatch(t *testing.T) {
	spec, _ := ParseSchema("id:BIGINT,name:VARCHAR")
	_, err := ReadCSV(strings.NewReader("id,wrong\n1,x\n"), spec)
	if err == nil {
		t.Fatalf("expected an error for a mismatched header")
	}
}

func TestCommitTable(t *testing.T) {
	spec, _ := ParseSchema("id:BIGINT,amount:BIGINT")
	table, err := ReadCSV(strings.NewReader("id,amount\n1,10\n2,20\n3,30\n"), spec)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	pp, err := dory.Setup(2, dory.TestOnly)
	if err != nil {
		t.Fatalf("dory.Setup: %v", err)
	}
	ps := dory.NewProverSetup(pp)
	ref := arena.NewTableRef("", "t")
	commitments, err := CommitTable(ps, ref, table)
	if err != nil {
		t.Fatalf("CommitTable: %v", err)
	}
	if len(commitments) != 2 {
		t.Fatalf("expected 2 commitments, got %d", len(commitments))
	}
	if _, ok := commitments[arena.NewColumnRef(ref, "amount")]; !ok {
		t.Errorf("missing commitment for amount")
	}
}
