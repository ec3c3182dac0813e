package arena

import (
	"math/big"

	"github.com/varshith257/sxt-proof-of-sql/scalar"
)

// Int128 is a signed 128-bit integer, stored as high/low 64-bit halves in
// two's-complement, the widest fixed-width integer column type of §3.
type Int128 struct {
	Hi int64
	Lo uint64
}

// Int128FromInt64 widens an int64 into an Int128.
func Int128FromInt64(v int64) Int128 {
	hi := int64(0)
	if v < 0 {
		hi = -1
	}
	return Int128{Hi: hi, Lo: uint64(v)}
}

// BigInt converts an Int128 to an arbitrary-precision signed integer.
func (v Int128) BigInt() *big.Int {
	b := new(big.Int).SetUint64(v.Lo)
	hi := new(big.Int).Lsh(big.NewInt(v.Hi), 64)
	return b.Add(b, hi)
}

// Int128FromBigInt narrows an arbitrary-precision integer into an Int128;
// the caller is responsible for range-checking, matching the scalar
// package's "callers bound e" convention for Pow10.
func Int128FromBigInt(v *big.Int) Int128 {
	mask := new(big.Int).SetUint64(^uint64(0))
	lo := new(big.Int).And(v, mask)
	hi := new(big.Int).Rsh(v, 64)
	return Int128{Hi: hi.Int64(), Lo: lo.Uint64()}
}

// Scalar embeds the Int128 into the field via its signed big-integer
// value; every bounded integer column satisfies the invariant of §3 that
// its embedding lands in the field's non-negative range.
func (v Int128) Scalar() scalar.Scalar {
	return scalar.FromBigInt(v.BigInt())
}
