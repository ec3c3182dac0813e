package arena

import (
	"math/big"
	"testing"

	"github.com/varshith257/sxt-proof-of-sql/scalar"
)

func TestZigzagRoundTrip64(t *testing.T) {
	values := []int64{0, 1, -1, 2, -2, 127, -128, 1 << 40, -(1 << 40)}
	for _, v := range values {
		got := zigzagDecode64(zigzagEncode64(v))
		if got != v {
			t.Errorf("zigzag round trip of %d produced %d", v, got)
		}
	}
}

func TestZigzagRoundTripBig(t *testing.T) {
	values := []*big.Int{big.NewInt(0), big.NewInt(5), big.NewInt(-5), new(big.Int).Lsh(big.NewInt(1), 120)}
	for _, v := range values {
		got := zigzagDecodeBig(zigzagEncodeBig(v))
		if got.Cmp(v) != 0 {
			t.Errorf("zigzag round trip of %s produced %s", v, got)
		}
	}
}

func TestOwnedTableWireRoundTrip(t *testing.T) {
	names := []string{"a", "flag", "name", "amount"}
	columns := []OwnedColumn{
		{Column{Type: ColumnType{Kind: KindBigInt}, BigInts: []int64{1, -2, 3}}},
		{Column{Type: ColumnType{Kind: KindBoolean}, Booleans: []bool{true, false, true}}},
		{Column{Type: ColumnType{Kind: KindVarChar}, VarChars: []VarCharValue{NewVarChar("x"), NewVarChar("yy"), NewVarChar("")}}},
		{Column{Type: ColumnType{Kind: KindInt128}, Int128s: []Int128{Int128FromInt64(42), Int128FromInt64(-42), Int128FromBigInt(new(big.Int).Lsh(big.NewInt(1), 100))}}},
	}
	table, err := NewOwnedTable(names, columns)
	if err != nil {
		t.Fatalf("NewOwnedTable: %v", err)
	}

	data, err := table.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}

	var decoded OwnedTable
	if err := decoded.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}

	if got, want := decoded.Names(), table.Names(); !equalStrings(got, want) {
		t.Fatalf("Names = %v, want %v", got, want)
	}
	a := New()
	for _, name := range names {
		orig, _ := table.Column(name)
		got, _ := decoded.Column(name)
		if orig.Type != got.Type {
			t.Errorf("column %q: type changed across the wire", name)
		}
		origScalars := orig.ToScalars(a)
		gotScalars := got.ToScalars(a)
		if len(origScalars) != len(gotScalars) {
			t.Fatalf("column %q: length changed across the wire", name)
		}
		for i := range origScalars {
			if !scalar.Equal(origScalars[i], gotScalars[i]) {
				t.Errorf("column %q row %d: %s != %s", name, i, origScalars[i].String(), gotScalars[i].String())
			}
		}
	}

	name := "name"
	origCol, _ := table.Column(name)
	gotCol, _ := decoded.Column(name)
	for i := range origCol.VarChars {
		if origCol.VarChars[i].Value != gotCol.VarChars[i].Value {
			t.Errorf("varchar row %d: %q != %q", i, gotCol.VarChars[i].Value, origCol.VarChars[i].Value)
		}
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
