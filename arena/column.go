package arena

import (
	"fmt"

	"github.com/varshith257/sxt-proof-of-sql/scalar"
)

// Kind tags the variant of a Column/ColumnType/LiteralValue, the "tagged
// lazy sequence of homogeneous typed values" of §3.
type Kind int

const (
	KindBoolean Kind = iota
	KindTinyInt
	KindSmallInt
	KindInt
	KindBigInt
	KindInt128
	KindDecimal
	KindScalar
	KindVarChar
	KindTimestamp
)

func (k Kind) String() string {
	switch k {
	case KindBoolean:
		return "BOOLEAN"
	case KindTinyInt:
		return "TINYINT"
	case KindSmallInt:
		return "SMALLINT"
	case KindInt:
		return "INT"
	case KindBigInt:
		return "BIGINT"
	case KindInt128:
		return "INT128"
	case KindDecimal:
		return "DECIMAL"
	case KindScalar:
		return "SCALAR"
	case KindVarChar:
		return "VARCHAR"
	case KindTimestamp:
		return "TIMESTAMP"
	default:
		return "UNKNOWN"
	}
}

// TimeUnit is the resolution of a Timestamp column's epoch integer.
type TimeUnit int

const (
	Second TimeUnit = iota
	Millisecond
	Microsecond
	Nanosecond
)

// ColumnType is the statically known shape of a Column: its Kind plus the
// per-kind metadata (decimal precision/scale, timestamp unit/timezone).
type ColumnType struct {
	Kind      Kind
	Precision uint8
	Scale     int8
	TimeUnit  TimeUnit
	TimeZone  string
}

// IsNumeric reports whether the type participates in arithmetic promotion
// (§4.7's promotion table covers every kind except Boolean and VarChar).
func (t ColumnType) IsNumeric() bool {
	switch t.Kind {
	case KindTinyInt, KindSmallInt, KindInt, KindBigInt, KindInt128, KindDecimal, KindScalar:
		return true
	default:
		return false
	}
}

// VarCharValue pairs a string view with its pre-computed scalar hash
// (§3, §4.2): the hash must be bit-identical on prover and verifier.
type VarCharValue struct {
	Value string
	Hash  scalar.Scalar
}

// NewVarChar builds a VarCharValue, computing its hash via the fixed,
// domain-separated field map of scalar.FromBytes.
func NewVarChar(s string) VarCharValue {
	return VarCharValue{Value: s, Hash: scalar.FromBytes([]byte(s))}
}

// Column is a borrowed, arena-owned view into typed data: created during
// result evaluation, never mutated, dropped when the arena resets (§3).
// Exactly one of the per-kind slices is populated, selected by Type.Kind.
type Column struct {
	Type ColumnType

	Booleans  []bool
	TinyInts  []int8
	SmallInts []int16
	Ints      []int32
	BigInts   []int64
	Int128s   []Int128
	// Decimals holds each row's mantissa, already embedded in the field;
	// Type.Scale gives the power of ten the mantissa is divided by.
	Decimals  []scalar.Scalar
	Scalars   []scalar.Scalar
	VarChars  []VarCharValue
	Timestamps []int64
}

// Len returns the column's statically known length.
func (c Column) Len() int {
	switch c.Type.Kind {
	case KindBoolean:
		return len(c.Booleans)
	case KindTinyInt:
		return len(c.TinyInts)
	case KindSmallInt:
		return len(c.SmallInts)
	case KindInt:
		return len(c.Ints)
	case KindBigInt:
		return len(c.BigInts)
	case KindInt128:
		return len(c.Int128s)
	case KindDecimal:
		return len(c.Decimals)
	case KindScalar:
		return len(c.Scalars)
	case KindVarChar:
		return len(c.VarChars)
	case KindTimestamp:
		return len(c.Timestamps)
	default:
		panic(fmt.Sprintf("arena: unknown column kind %v", c.Type.Kind))
	}
}

// ToScalars embeds every row of c into the field, the representation every
// sum-check MLE and Dory commitment is built from. Every operator that
// needs to mix column data into a polynomial identity goes through this
// method first (§3's invariant: bounded integers always land in the
// non-negative range).
func (c Column) ToScalars(a *Arena) []scalar.Scalar {
	n := c.Len()
	switch c.Type.Kind {
	case KindBoolean:
		return AllocSliceFillWith(a, n, func(i int) scalar.Scalar { return scalar.FromBool(c.Booleans[i]) })
	case KindTinyInt:
		return AllocSliceFillWith(a, n, func(i int) scalar.Scalar { return scalar.FromInt8(c.TinyInts[i]) })
	case KindSmallInt:
		return AllocSliceFillWith(a, n, func(i int) scalar.Scalar { return scalar.FromInt16(c.SmallInts[i]) })
	case KindInt:
		return AllocSliceFillWith(a, n, func(i int) scalar.Scalar { return scalar.FromInt32(c.Ints[i]) })
	case KindBigInt:
		return AllocSliceFillWith(a, n, func(i int) scalar.Scalar { return scalar.FromInt64(c.BigInts[i]) })
	case KindInt128:
		return AllocSliceFillWith(a, n, func(i int) scalar.Scalar { return c.Int128s[i].Scalar() })
	case KindDecimal:
		return AllocSliceFillWith(a, n, func(i int) scalar.Scalar { return c.Decimals[i] })
	case KindScalar:
		return AllocSliceFillWith(a, n, func(i int) scalar.Scalar { return c.Scalars[i] })
	case KindVarChar:
		return AllocSliceFillWith(a, n, func(i int) scalar.Scalar { return c.VarChars[i].Hash })
	case KindTimestamp:
		return AllocSliceFillWith(a, n, func(i int) scalar.Scalar { return scalar.FromInt64(c.Timestamps[i]) })
	default:
		panic(fmt.Sprintf("arena: unknown column kind %v", c.Type.Kind))
	}
}

// LiteralValue is a single typed value, as it appears in a WHERE clause
// or a projected constant, before being repeated into a Column (§4.2).
type LiteralValue struct {
	Type      ColumnType
	Boolean   bool
	Int64     int64
	Int128    Int128
	Decimal   scalar.Scalar
	Scalar    scalar.Scalar
	VarChar   VarCharValue
	Timestamp int64
}

// Repeat converts a LiteralValue into a length-n Column by repeating it,
// the conversion rule of §4.2.
func (lv LiteralValue) Repeat(a *Arena, n int) Column {
	col := Column{Type: lv.Type}
	switch lv.Type.Kind {
	case KindBoolean:
		col.Booleans = AllocSliceFillWith(a, n, func(int) bool { return lv.Boolean })
	case KindTinyInt:
		col.TinyInts = AllocSliceFillWith(a, n, func(int) int8 { return int8(lv.Int64) })
	case KindSmallInt:
		col.SmallInts = AllocSliceFillWith(a, n, func(int) int16 { return int16(lv.Int64) })
	case KindInt:
		col.Ints = AllocSliceFillWith(a, n, func(int) int32 { return int32(lv.Int64) })
	case KindBigInt:
		col.BigInts = AllocSliceFillWith(a, n, func(int) int64 { return lv.Int64 })
	case KindInt128:
		col.Int128s = AllocSliceFillWith(a, n, func(int) Int128 { return lv.Int128 })
	case KindDecimal:
		col.Decimals = AllocSliceFillWith(a, n, func(int) scalar.Scalar { return lv.Decimal })
	case KindScalar:
		col.Scalars = AllocSliceFillWith(a, n, func(int) scalar.Scalar { return lv.Scalar })
	case KindVarChar:
		col.VarChars = AllocSliceFillWith(a, n, func(int) VarCharValue { return lv.VarChar })
	case KindTimestamp:
		col.Timestamps = AllocSliceFillWith(a, n, func(int) int64 { return lv.Timestamp })
	default:
		panic(fmt.Sprintf("arena: unknown literal kind %v", lv.Type.Kind))
	}
	return col
}
