package testutils

import (
	"github.com/varshith257/sxt-proof-of-sql/arena"
	"github.com/varshith257/sxt-proof-of-sql/dory"
	"github.com/varshith257/sxt-proof-of-sql/query"
)

// Table is one in-memory table: its qualified reference and its columns
// by identifier, in declaration order.
type Table struct {
	Ref     arena.TableRef
	Order   []string
	Columns map[string]arena.Column
}

// Database is a small collection of in-memory Tables, implementing
// query.SchemaAccessor and proofexprs.Accessor; the matching
// query.CommitmentAccessor is the CommitmentStore that Commit builds from
// it.
type Database struct {
	tables map[arena.TableRef]*Table
}

// NewDatabase builds an empty in-memory Database.
func NewDatabase() *Database {
	return &Database{tables: make(map[arena.TableRef]*Table)}
}

// AddTable registers a table under ref, with columns supplied in order.
func (d *Database) AddTable(ref arena.TableRef, order []string, columns map[string]arena.Column) {
	d.tables[ref] = &Table{Ref: ref, Order: order, Columns: columns}
}

func (d *Database) table(ref arena.TableRef) *Table { return d.tables[ref] }

// LookupColumn implements query.SchemaAccessor.
func (d *Database) LookupColumn(table arena.TableRef, ident string) (arena.ColumnType, bool) {
	t := d.table(table)
	if t == nil {
		return arena.ColumnType{}, false
	}
	c, ok := t.Columns[ident]
	if !ok {
		return arena.ColumnType{}, false
	}
	return c.Type, true
}

// LookupSchema implements query.SchemaAccessor.
func (d *Database) LookupSchema(table arena.TableRef) []query.ColumnSchema {
	t := d.table(table)
	if t == nil {
		return nil
	}
	out := make([]query.ColumnSchema, 0, len(t.Order))
	for _, ident := range t.Order {
		out = append(out, query.ColumnSchema{Ident: ident, Type: t.Columns[ident].Type})
	}
	return out
}

// GetLength implements query.SchemaAccessor.
func (d *Database) GetLength(table arena.TableRef) int {
	t := d.table(table)
	if t == nil || len(t.Order) == 0 {
		return 0
	}
	return t.Columns[t.Order[0]].Len()
}

// GetOffset implements query.SchemaAccessor; this database never tiles a
// table behind an offset, so it is always zero.
func (d *Database) GetOffset(arena.TableRef) int { return 0 }

// GetColumn implements proofexprs.Accessor.
func (d *Database) GetColumn(ref arena.ColumnRef) arena.Column {
	t := d.table(ref.Table)
	if t == nil {
		return arena.Column{}
	}
	return t.Columns[ref.Ident]
}

// CommitmentStore is the verifier-side counterpart to Database: the real
// Dory commitments for every column of every table it was built from
// (query.ProveQuery/VerifyQuery are hard-wired to *dory.Commitment, so
// this is a thin cache rather than a swap-in alternate scheme — see
// NaiveCommitment for the actual §9 "naive scheme" member).
type CommitmentStore struct {
	commitments map[arena.ColumnRef]*dory.Commitment
}

// Commit computes and stores a Dory commitment for every column of every
// table in db using ps.
func Commit(ps *dory.ProverSetup, db *Database) (*CommitmentStore, error) {
	a := arena.New()
	store := &CommitmentStore{commitments: make(map[arena.ColumnRef]*dory.Commitment)}
	for ref, t := range db.tables {
		for _, ident := range t.Order {
			values := t.Columns[ident].ToScalars(a)
			c, err := dory.Commit(ps, values, nil)
			if err != nil {
				return nil, err
			}
			store.commitments[arena.NewColumnRef(ref, ident)] = c
		}
	}
	return store, nil
}

// GetCommitment implements query.CommitmentAccessor.
func (s *CommitmentStore) GetCommitment(ref arena.ColumnRef) (*dory.Commitment, error) {
	return s.commitments[ref], nil
}
