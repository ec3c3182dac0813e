package arena

import (
	"fmt"
	"strings"

	"github.com/varshith257/sxt-proof-of-sql/scalar"
)

// TableRef is a schema-qualified table name. Identifiers are case-folded
// to lowercase at parse time; comparisons are byte-wise on the folded
// form (§3).
type TableRef struct {
	Schema string
	Table  string
}

// NewTableRef folds schema and table to lowercase and builds a TableRef.
func NewTableRef(schema, table string) TableRef {
	return TableRef{Schema: strings.ToLower(schema), Table: strings.ToLower(table)}
}

func (r TableRef) String() string {
	if r.Schema == "" {
		return r.Table
	}
	return r.Schema + "." + r.Table
}

// ColumnRef is a schema-qualified table name paired with a column
// identifier (§3).
type ColumnRef struct {
	Table TableRef
	Ident string
}

// NewColumnRef folds ident to lowercase and builds a ColumnRef.
func NewColumnRef(table TableRef, ident string) ColumnRef {
	return ColumnRef{Table: table, Ident: strings.ToLower(ident)}
}

func (r ColumnRef) String() string {
	return fmt.Sprintf("%s.%s", r.Table, r.Ident)
}

// OwnedColumn is the non-arena-backed twin of Column: it owns its storage
// independent of any proof's arena lifetime, the representation emitted at
// the end of verification (§3).
type OwnedColumn struct {
	Column
}

// ToOwned copies a borrowed Column into an OwnedColumn, detaching it from
// the arena that produced it.
func (c Column) ToOwned() OwnedColumn {
	cp := c
	cp.Booleans = append([]bool(nil), c.Booleans...)
	cp.TinyInts = append([]int8(nil), c.TinyInts...)
	cp.SmallInts = append([]int16(nil), c.SmallInts...)
	cp.Ints = append([]int32(nil), c.Ints...)
	cp.BigInts = append([]int64(nil), c.BigInts...)
	cp.Int128s = append([]Int128(nil), c.Int128s...)
	cp.Decimals = append([]scalar.Scalar(nil), c.Decimals...)
	cp.Scalars = append([]scalar.Scalar(nil), c.Scalars...)
	cp.VarChars = append([]VarCharValue(nil), c.VarChars...)
	cp.Timestamps = append([]int64(nil), c.Timestamps...)
	return OwnedColumn{cp}
}

// OwnedTable is an order-preserving mapping from column identifier to an
// owned column (§3): all columns have equal length, identifiers are
// unique.
type OwnedTable struct {
	names   []string
	columns map[string]OwnedColumn
}

// NewOwnedTable builds an OwnedTable from parallel name/column slices,
// validating the invariants of §3 (equal length, unique identifiers).
func NewOwnedTable(names []string, columns []OwnedColumn) (*OwnedTable, error) {
	if len(names) != len(columns) {
		return nil, fmt.Errorf("arena: %d names but %d columns", len(names), len(columns))
	}
	t := &OwnedTable{columns: make(map[string]OwnedColumn, len(names))}
	var length = -1
	for i, name := range names {
		if _, exists := t.columns[name]; exists {
			return nil, fmt.Errorf("arena: duplicate column identifier %q", name)
		}
		if length == -1 {
			length = columns[i].Len()
		} else if columns[i].Len() != length {
			return nil, fmt.Errorf("arena: column %q has length %d, expected %d", name, columns[i].Len(), length)
		}
		t.names = append(t.names, name)
		t.columns[name] = columns[i]
	}
	return t, nil
}

// Names returns the column identifiers in projection order.
func (t *OwnedTable) Names() []string {
	return append([]string(nil), t.names...)
}

// Column returns the owned column for name and whether it was present.
func (t *OwnedTable) Column(name string) (OwnedColumn, bool) {
	c, ok := t.columns[name]
	return c, ok
}

// NumRows returns the table's row count, or 0 for a table with no columns.
func (t *OwnedTable) NumRows() int {
	if len(t.names) == 0 {
		return 0
	}
	return t.columns[t.names[0]].Len()
}
