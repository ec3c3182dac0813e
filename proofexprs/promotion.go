package proofexprs

import "github.com/varshith257/sxt-proof-of-sql/arena"

// widthRank orders the fixed-width integer kinds for the widen-to-widest
// rule (§4.7's promotion table: "widths to Int128").
func widthRank(k arena.Kind) int {
	switch k {
	case arena.KindTinyInt:
		return 1
	case arena.KindSmallInt:
		return 2
	case arena.KindInt:
		return 3
	case arena.KindBigInt:
		return 4
	case arena.KindInt128:
		return 5
	default:
		return 0
	}
}

func isIntegerKind(k arena.Kind) bool { return widthRank(k) > 0 }

func maxInt8(a, b int8) int8 {
	if a > b {
		return a
	}
	return b
}

// addSubType computes the promoted result type for `+`/`-`: integer
// widths widen to Int128, decimals take max(scale), Scalar absorbs
// everything (§4.7).
func addSubType(lhs, rhs arena.ColumnType) arena.ColumnType {
	if lhs.Kind == arena.KindScalar || rhs.Kind == arena.KindScalar {
		return arena.ColumnType{Kind: arena.KindScalar}
	}
	if lhs.Kind == arena.KindDecimal || rhs.Kind == arena.KindDecimal {
		return arena.ColumnType{Kind: arena.KindDecimal, Scale: maxInt8(lhs.Scale, rhs.Scale)}
	}
	if isIntegerKind(lhs.Kind) && isIntegerKind(rhs.Kind) {
		return arena.ColumnType{Kind: arena.KindInt128}
	}
	return arena.ColumnType{Kind: arena.KindScalar}
}

// mulType computes the promoted result type for `*`: decimals take
// sum(scale) (§4.7).
func mulType(lhs, rhs arena.ColumnType) arena.ColumnType {
	if lhs.Kind == arena.KindScalar || rhs.Kind == arena.KindScalar {
		return arena.ColumnType{Kind: arena.KindScalar}
	}
	if lhs.Kind == arena.KindDecimal || rhs.Kind == arena.KindDecimal {
		return arena.ColumnType{Kind: arena.KindDecimal, Scale: lhs.Scale + rhs.Scale}
	}
	if isIntegerKind(lhs.Kind) && isIntegerKind(rhs.Kind) {
		return arena.ColumnType{Kind: arena.KindInt128}
	}
	return arena.ColumnType{Kind: arena.KindScalar}
}

// divType computes the promoted result type for `/`: a decimal with scale
// `dividend.scale + divisor_precision` (§4.7).
func divType(lhs, rhs arena.ColumnType) arena.ColumnType {
	return arena.ColumnType{Kind: arena.KindDecimal, Scale: lhs.Scale + int8(rhs.Precision)}
}
