package ingest

import (
	"fmt"

	"github.com/varshith257/sxt-proof-of-sql/arena"
	"github.com/varshith257/sxt-proof-of-sql/dory"
)

// CommitTable produces one Dory commitment per column of table, keyed by
// its fully qualified ColumnRef under table — the ingestion-time half of
// §2's "commit columns of tabular data", mirrored after query.ProveQuery's
// own per-column dory.Commit loop.
func CommitTable(ps *dory.ProverSetup, ref arena.TableRef, table *arena.OwnedTable) (map[arena.ColumnRef]*dory.Commitment, error) {
	a := arena.New()
	names := table.Names()
	out := make(map[arena.ColumnRef]*dory.Commitment, len(names))
	for _, name := range names {
		col, _ := table.Column(name)
		values := col.ToScalars(a)
		c, err := dory.Commit(ps, values, nil)
		if err != nil {
			return nil, fmt.Errorf("ingest: committing column %q: %w", name, err)
		}
		out[arena.NewColumnRef(ref, name)] = c
	}
	return out, nil
}
