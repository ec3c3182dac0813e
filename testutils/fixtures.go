package testutils

import (
	"github.com/varshith257/sxt-proof-of-sql/arena"
)

// PricesTableLength is the row count §8 scenario 1 fixes: "over an
// 18,249-row table: result is [total=18249]".
const PricesTableLength = 18249

// PricesTable builds the `prices` fixture §8's scenarios 1, 4, and 5 run
// against: a deterministic, synthetic table of that exact row count with
// a Year column (cycling over a 10-year span) and a Price column (a
// repeating ramp that crosses 100 so "WHERE Price > 100" filters a
// nontrivial subset), registered in db under the unqualified name
// "prices".
func PricesTable(db *Database, schema string) arena.TableRef {
	n := PricesTableLength
	years := make([]int64, n)
	prices := make([]int64, n)
	for i := 0; i < n; i++ {
		years[i] = 2015 + int64(i%10)
		prices[i] = int64(i%200) + 1
	}
	ref := arena.NewTableRef(schema, "prices")
	db.AddTable(ref, []string{"year", "price"}, map[string]arena.Column{
		"year":  {Type: arena.ColumnType{Kind: arena.KindBigInt}, BigInts: years},
		"price": {Type: arena.ColumnType{Kind: arena.KindBigInt}, BigInts: prices},
	})
	return ref
}

// GroupingTable builds §8 scenario 6's literal fixture: columns a, b, c,
// and a selection mask, grouped by (a, b) with sums of c. The expected
// groups after applying selection are (1,Cat)→105, (1,Dog)→106,
// (2,Cat)→210, (2,Dog)→212, (3,Cat)→321, (3,Dog)→212, with counts
// [1,1,2,2,3,2].
func GroupingTable(db *Database, schema string) arena.TableRef {
	a := []int64{3, 3, 3, 2, 2, 1, 1, 2, 2, 3, 3, 3}
	b := []string{"Cat", "Cat", "Dog", "Cat", "Dog", "Cat", "Dog", "Cat", "Dog", "Cat", "Dog", "Cat"}
	c := make([]int64, 12)
	for i := range c {
		c[i] = int64(100 + i)
	}
	selection := []bool{false, true, true, true, true, true, true, true, true, true, true, true}

	bCol := make([]arena.VarCharValue, len(b))
	for i, s := range b {
		bCol[i] = arena.NewVarChar(s)
	}

	ref := arena.NewTableRef(schema, "grouping")
	db.AddTable(ref, []string{"a", "b", "c", "selection"}, map[string]arena.Column{
		"a":         {Type: arena.ColumnType{Kind: arena.KindBigInt}, BigInts: a},
		"b":         {Type: arena.ColumnType{Kind: arena.KindVarChar}, VarChars: bCol},
		"c":         {Type: arena.ColumnType{Kind: arena.KindBigInt}, BigInts: c},
		"selection": {Type: arena.ColumnType{Kind: arena.KindBoolean}, Booleans: selection},
	})
	return ref
}
