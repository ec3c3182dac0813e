package main

import (
	"github.com/varshith257/sxt-proof-of-sql/arena"
	"github.com/varshith257/sxt-proof-of-sql/dory"
	"github.com/varshith257/sxt-proof-of-sql/ingest"
	"github.com/varshith257/sxt-proof-of-sql/query"
)

// owningSchema answers query.SchemaAccessor for the single table this
// binary commits, from the ingest.ColumnSpec list ReadCSV was given.
type owningSchema struct {
	ref    arena.TableRef
	spec   []ingest.ColumnSpec
	length int
}

func (s *owningSchema) LookupColumn(table arena.TableRef, ident string) (arena.ColumnType, bool) {
	if table != s.ref {
		return arena.ColumnType{}, false
	}
	for _, c := range s.spec {
		if c.Ident == ident {
			return c.Type, true
		}
	}
	return arena.ColumnType{}, false
}

func (s *owningSchema) LookupSchema(table arena.TableRef) []query.ColumnSchema {
	if table != s.ref {
		return nil
	}
	out := make([]query.ColumnSchema, len(s.spec))
	for i, c := range s.spec {
		out[i] = query.ColumnSchema{Ident: c.Ident, Type: c.Type}
	}
	return out
}

func (s *owningSchema) GetLength(table arena.TableRef) int {
	if table != s.ref {
		return 0
	}
	return s.length
}

func (s *owningSchema) GetOffset(arena.TableRef) int { return 0 }

// owningAccessor answers proofexprs.Accessor from the committed OwnedTable.
type owningAccessor struct {
	ref   arena.TableRef
	table *arena.OwnedTable
}

func (a *owningAccessor) GetColumn(ref arena.ColumnRef) arena.Column {
	col, _ := a.table.Column(ref.Ident)
	return col.Column
}

// owningCommitments answers query.CommitmentAccessor from the map
// ingest.CommitTable produced.
type owningCommitments struct {
	commitments map[arena.ColumnRef]*dory.Commitment
}

func (c *owningCommitments) GetCommitment(ref arena.ColumnRef) (*dory.Commitment, error) {
	return c.commitments[ref], nil
}
