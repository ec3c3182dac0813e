// Package ingest is a thin, non-core CSV loading layer (§1's "parsing SQL
// text" non-goal doesn't cover data loading, but nothing in spec.md pins a
// file format either — this package exists purely so the end-to-end
// scenarios of §8 have a table to commit against, the same role
// original_source/.../csv_accessor.rs plays for the Rust reference and
// the teacher's own `utils` package plays as thin file glue).
package ingest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/varshith257/sxt-proof-of-sql/arena"
)

// ColumnSpec names one column of a table's on-disk schema: its identifier
// and its ColumnType, in declaration order.
type ColumnSpec struct {
	Ident string
	Type  arena.ColumnType
}

// ParseSchema reads a compact column specification of the form
// "ident:KIND[,ident:KIND...]", where KIND is one of BOOLEAN, TINYINT,
// SMALLINT, INT, BIGINT, INT128, SCALAR, VARCHAR, TIMESTAMP, or
// DECIMAL(precision,scale). Column order in the spec fixes the expected
// CSV column order.
func ParseSchema(spec string) ([]ColumnSpec, error) {
	parts := strings.Split(spec, ",")
	out := make([]ColumnSpec, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		i := strings.IndexByte(part, ':')
		if i < 0 {
			return nil, fmt.Errorf("ingest: malformed column spec %q, want ident:KIND", part)
		}
		ident := strings.ToLower(strings.TrimSpace(part[:i]))
		typ, err := parseKind(strings.TrimSpace(part[i+1:]))
		if err != nil {
			return nil, fmt.Errorf("ingest: column %q: %w", ident, err)
		}
		out = append(out, ColumnSpec{Ident: ident, Type: typ})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("ingest: empty schema spec")
	}
	return out, nil
}

func parseKind(s string) (arena.ColumnType, error) {
	upper := strings.ToUpper(s)
	if strings.HasPrefix(upper, "DECIMAL") {
		rest := strings.TrimPrefix(upper, "DECIMAL")
		rest = strings.TrimPrefix(rest, "(")
		rest = strings.TrimSuffix(rest, ")")
		fields := strings.Split(rest, ",")
		if len(fields) != 2 {
			return arena.ColumnType{}, fmt.Errorf("DECIMAL needs (precision,scale), got %q", s)
		}
		precision, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			return arena.ColumnType{}, fmt.Errorf("bad DECIMAL precision: %w", err)
		}
		scale, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			return arena.ColumnType{}, fmt.Errorf("bad DECIMAL scale: %w", err)
		}
		return arena.ColumnType{Kind: arena.KindDecimal, Precision: uint8(precision), Scale: int8(scale)}, nil
	}
	switch upper {
	case "BOOLEAN", "BOOL":
		return arena.ColumnType{Kind: arena.KindBoolean}, nil
	case "TINYINT":
		return arena.ColumnType{Kind: arena.KindTinyInt}, nil
	case "SMALLINT":
		return arena.ColumnType{Kind: arena.KindSmallInt}, nil
	case "INT":
		return arena.ColumnType{Kind: arena.KindInt}, nil
	case "BIGINT":
		return arena.ColumnType{Kind: arena.KindBigInt}, nil
	case "INT128":
		return arena.ColumnType{Kind: arena.KindInt128}, nil
	case "SCALAR":
		return arena.ColumnType{Kind: arena.KindScalar}, nil
	case "VARCHAR":
		return arena.ColumnType{Kind: arena.KindVarChar}, nil
	case "TIMESTAMP":
		return arena.ColumnType{Kind: arena.KindTimestamp, TimeUnit: arena.Second}, nil
	default:
		return arena.ColumnType{}, fmt.Errorf("unknown column kind %q", s)
	}
}
