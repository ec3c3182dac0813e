package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/varshith257/sxt-proof-of-sql/arena"
	"github.com/varshith257/sxt-proof-of-sql/scalar"
)

// ReadCSV reads a header row plus data rows from r and builds the
// OwnedTable spec describes. The header names (case-insensitively) must
// match spec's identifiers in the same order; this mirrors
// original_source's read_record_batch_from_csv, which likewise takes the
// expected Arrow schema as an explicit argument rather than inferring it.
func ReadCSV(r io.Reader, spec []ColumnSpec) (*arena.OwnedTable, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("ingest: reading header: %w", err)
	}
	if len(header) != len(spec) {
		return nil, fmt.Errorf("ingest: header has %d columns, schema has %d", len(header), len(spec))
	}
	for i, h := range header {
		if strings.ToLower(strings.TrimSpace(h)) != spec[i].Ident {
			return nil, fmt.Errorf("ingest: header column %d is %q, expected %q", i, h, spec[i].Ident)
		}
	}

	builders := make([]columnBuilder, len(spec))
	for i, c := range spec {
		builders[i] = newColumnBuilder(c.Type)
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ingest: reading row: %w", err)
		}
		if len(row) != len(spec) {
			return nil, fmt.Errorf("ingest: row has %d fields, schema has %d", len(row), len(spec))
		}
		for i, cell := range row {
			if err := builders[i].append(cell); err != nil {
				return nil, fmt.Errorf("ingest: column %q: %w", spec[i].Ident, err)
			}
		}
	}

	names := make([]string, len(spec))
	columns := make([]arena.OwnedColumn, len(spec))
	for i, c := range spec {
		names[i] = c.Ident
		columns[i] = builders[i].build()
	}
	return arena.NewOwnedTable(names, columns)
}

// columnBuilder accumulates one CSV column's cells into an arena.Column
// of the declared type, row by row.
type columnBuilder struct {
	typ arena.ColumnType
	col arena.Column
}

func newColumnBuilder(typ arena.ColumnType) columnBuilder {
	return columnBuilder{typ: typ, col: arena.Column{Type: typ}}
}

func (b *columnBuilder) append(cell string) error {
	cell = strings.TrimSpace(cell)
	switch b.typ.Kind {
	case arena.KindBoolean:
		v, err := strconv.ParseBool(cell)
		if err != nil {
			return fmt.Errorf("invalid BOOLEAN %q: %w", cell, err)
		}
		b.col.Booleans = append(b.col.Booleans, v)
	case arena.KindTinyInt:
		v, err := strconv.ParseInt(cell, 10, 8)
		if err != nil {
			return fmt.Errorf("invalid TINYINT %q: %w", cell, err)
		}
		b.col.TinyInts = append(b.col.TinyInts, int8(v))
	case arena.KindSmallInt:
		v, err := strconv.ParseInt(cell, 10, 16)
		if err != nil {
			return fmt.Errorf("invalid SMALLINT %q: %w", cell, err)
		}
		b.col.SmallInts = append(b.col.SmallInts, int16(v))
	case arena.KindInt:
		v, err := strconv.ParseInt(cell, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid INT %q: %w", cell, err)
		}
		b.col.Ints = append(b.col.Ints, int32(v))
	case arena.KindBigInt:
		v, err := strconv.ParseInt(cell, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid BIGINT %q: %w", cell, err)
		}
		b.col.BigInts = append(b.col.BigInts, v)
	case arena.KindInt128:
		v, ok := new(big.Int).SetString(cell, 10)
		if !ok {
			return fmt.Errorf("invalid INT128 %q", cell)
		}
		b.col.Int128s = append(b.col.Int128s, arena.Int128FromBigInt(v))
	case arena.KindDecimal:
		mantissa, err := parseDecimalMantissa(cell, b.typ.Scale)
		if err != nil {
			return err
		}
		b.col.Decimals = append(b.col.Decimals, scalar.FromBigInt(mantissa))
	case arena.KindScalar:
		v, ok := new(big.Int).SetString(cell, 10)
		if !ok {
			return fmt.Errorf("invalid SCALAR %q", cell)
		}
		b.col.Scalars = append(b.col.Scalars, scalar.FromBigInt(v))
	case arena.KindVarChar:
		b.col.VarChars = append(b.col.VarChars, arena.NewVarChar(cell))
	case arena.KindTimestamp:
		v, err := strconv.ParseInt(cell, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TIMESTAMP %q: %w", cell, err)
		}
		b.col.Timestamps = append(b.col.Timestamps, v)
	default:
		return fmt.Errorf("unsupported column kind %v", b.typ.Kind)
	}
	return nil
}

func (b *columnBuilder) build() arena.OwnedColumn {
	return arena.OwnedColumn{Column: b.col}
}

// parseDecimalMantissa converts a textual decimal like "-12.340" into its
// scaled integer mantissa at the given number of fractional digits (§4.2's
// decimal representation: mantissa embedded in the field, Scale gives the
// implied power of ten).
func parseDecimalMantissa(s string, scale int8) (*big.Int, error) {
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg, s = true, s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	intPart, fracPart := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}
	if len(fracPart) > int(scale) {
		return nil, fmt.Errorf("decimal %q has more fractional digits than scale %d", s, scale)
	}
	fracPart += strings.Repeat("0", int(scale)-len(fracPart))
	digits := intPart + fracPart
	if digits == "" {
		digits = "0"
	}
	mantissa, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("invalid decimal %q", s)
	}
	if neg {
		mantissa.Neg(mantissa)
	}
	return mantissa, nil
}
