// Package query implements query assembly (§2 component H): validating a
// proof plan against schema metadata, orchestrating proving and
// verification across the sum-check engine (E) and the Dory commitment
// scheme (D), and tagging the result with a verification hash (§6).
package query

import (
	"errors"

	"github.com/varshith257/sxt-proof-of-sql/arena"
	"github.com/varshith257/sxt-proof-of-sql/dory"
	"github.com/varshith257/sxt-proof-of-sql/scalar"
)

// ErrVerificationFailed is returned for every cryptographic rejection —
// sum-check identity mismatch, Dory opening failure, proof structural
// mismatch — without further detail (§7: "all cryptographic checks
// collapse to a single reject outcome; the verifier never reveals which
// check failed"). This is the one place this package deliberately drops
// the teacher's habit (`algoplonk.go`, `helper.go`) of wrapping every
// fallible call with `fmt.Errorf("...: %v", err)` — the spec forbids
// leaking which check failed.
var ErrVerificationFailed = errors.New("query: verification failed")

// ColumnSchema is one entry of a table's schema (§6 "lookup_schema").
type ColumnSchema struct {
	Ident string
	Type  arena.ColumnType
}

// SchemaAccessor is the external schema metadata surface §6 names.
type SchemaAccessor interface {
	LookupColumn(table arena.TableRef, ident string) (arena.ColumnType, bool)
	LookupSchema(table arena.TableRef) []ColumnSchema
	GetLength(table arena.TableRef) int
	GetOffset(table arena.TableRef) int
}

// CommitmentAccessor is the external, verifier-side surface §6 names:
// the stored Dory commitment for a referenced column.
type CommitmentAccessor interface {
	GetCommitment(ref arena.ColumnRef) (*dory.Commitment, error)
}

// Config is this module's explicit, non-global settings (§9 "Global
// state: none"), the query-assembly analogue of the teacher's
// `setup.Conf` enum — passed explicitly rather than read from a package
// global.
type Config struct {
	// MaxNu bounds the Dory parameters' table-size capacity (§3's
	// `max_nu` invariant); queries over tables exceeding it are rejected
	// before any cryptography runs.
	MaxNu int
}

// ColumnOpening is one referenced column's claimed evaluation at the
// sum-check challenge point together with the Dory proof that the
// evaluation matches the column's stored commitment (§2's "D opens the
// column commitments at the sum-check challenge point").
type ColumnOpening struct {
	Ref   arena.ColumnRef
	Eval  scalar.Scalar
	Proof *dory.EvaluationProof
}

// Proof is everything ProveQuery produces beyond the claimed result
// table: the sum-check transcript, one opening per referenced column, and
// the verification hash tag §6's wire format requires.
type Proof struct {
	TableLength      int
	RoundPolynomials [][]scalar.Scalar
	NumSubpolynomials int
	MaxDegree        int
	ColumnOpenings   []ColumnOpening
	VerificationHash [32]byte
}
