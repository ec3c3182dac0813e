// Package scalar implements the prime field every polynomial evaluation in
// the proof engine is computed over, together with the signed-residue
// interpretation the query operators rely on for comparisons and overflow
// detection.
package scalar

import (
	"crypto/sha256"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Scalar is an element of the bn254 scalar field, used as the base field
// for every MLE evaluation, commitment, and sum-check identity in this
// module.
type Scalar struct {
	inner fr.Element
}

// NumBytes is the canonical big-endian encoding length of a Scalar.
const NumBytes = fr.Bytes

// Zero returns the additive identity.
func Zero() Scalar { return Scalar{} }

// One returns the multiplicative identity.
func One() Scalar {
	var s Scalar
	s.inner.SetOne()
	return s
}

// modulus is the field's prime, cached for signed-compare and pow10.
var modulus = fr.Modulus()

// maxSigned is the constant boundary between "non-negative" and "negative"
// residues: floor((q-1)/2).
var maxSigned = new(big.Int).Rsh(new(big.Int).Sub(modulus, big.NewInt(1)), 1)

// MaxSigned returns the field's signed-comparison boundary as a Scalar.
func MaxSigned() Scalar {
	var s Scalar
	s.inner.SetBigInt(maxSigned)
	return s
}

// FromUint64 embeds an unsigned 64-bit integer.
func FromUint64(v uint64) Scalar {
	var s Scalar
	s.inner.SetUint64(v)
	return s
}

// FromInt64 embeds a signed 64-bit integer; negative values wrap to the
// upper half of the field, matching the "negative" residues of §3.
func FromInt64(v int64) Scalar {
	var s Scalar
	s.inner.SetInt64(v)
	return s
}

// FromInt32, FromInt16, FromInt8 embed the narrower integer column widths.
func FromInt32(v int32) Scalar { return FromInt64(int64(v)) }
func FromInt16(v int16) Scalar { return FromInt64(int64(v)) }
func FromInt8(v int8) Scalar   { return FromInt64(int64(v)) }

// FromBool embeds a boolean as 0 or 1.
func FromBool(b bool) Scalar {
	if b {
		return One()
	}
	return Zero()
}

// FromBigInt embeds an arbitrary-precision integer, reducing modulo the
// field's prime. Used for Int128 columns and decimal mantissas.
func FromBigInt(v *big.Int) Scalar {
	var s Scalar
	s.inner.SetBigInt(v)
	return s
}

// varCharDomainTag domain-separates the VarChar hash from every other use
// of FromBytes, so a string column's scalar hash can never collide with an
// unrelated byte-derived scalar.
var varCharDomainTag = []byte("proof-of-sql/varchar-hash/v1")

// FromBytes computes the fixed, domain-separated scalar hash of a byte
// slice used for VarChar columns (§4.2). It must be bit-identical on the
// prover and the verifier: both sides hash the same bytes through the same
// construction, a SHA-256 commitment of the tag and the bytes reduced into
// the field via SetBytes.
func FromBytes(data []byte) Scalar {
	return hashToScalar(varCharDomainTag, data)
}

// FromBytesDomain is FromBytes but lets the caller pick the domain tag,
// used for transcript challenge derivation (see the transcript package)
// so that challenge scalars and VarChar hashes can never collide even
// though both reduce a hash digest into the same field.
func FromBytesDomain(domain string, data []byte) Scalar {
	return hashToScalar([]byte(domain), data)
}

// Bytes returns the canonical big-endian encoding of s.
func (s Scalar) Bytes() [NumBytes]byte {
	return s.inner.Bytes()
}

// BigInt returns s as an arbitrary-precision integer in [0, q).
func (s Scalar) BigInt() *big.Int {
	var b big.Int
	s.inner.BigInt(&b)
	return &b
}

func (s Scalar) String() string {
	return s.inner.String()
}

// Add returns a + b.
func Add(a, b Scalar) Scalar {
	var r Scalar
	r.inner.Add(&a.inner, &b.inner)
	return r
}

// Sub returns a - b.
func Sub(a, b Scalar) Scalar {
	var r Scalar
	r.inner.Sub(&a.inner, &b.inner)
	return r
}

// Mul returns a * b.
func Mul(a, b Scalar) Scalar {
	var r Scalar
	r.inner.Mul(&a.inner, &b.inner)
	return r
}

// Neg returns -a.
func Neg(a Scalar) Scalar {
	var r Scalar
	r.inner.Neg(&a.inner)
	return r
}

// Invert returns a^-1; panics if a is zero, mirroring fr.Element's own
// contract (callers that need the zero-maps-to-zero convention must use
// BatchInvert).
func Invert(a Scalar) Scalar {
	if a.IsZero() {
		panic("scalar: invert of zero")
	}
	var r Scalar
	r.inner.Inverse(&a.inner)
	return r
}

// IsZero reports whether s is the additive identity.
func (s Scalar) IsZero() bool {
	return s.inner.IsZero()
}

// Equal reports whether a and b are the same field element.
func Equal(a, b Scalar) bool {
	return a.inner.Equal(&b.inner)
}

// Cmp gives the total order over the unsigned residues 0..q-1, required
// by §4.1 ("equality, total order as unsigned residues").
func Cmp(a, b Scalar) int {
	return a.inner.Cmp(&b.inner)
}

// Ordering mirrors the three-way result of SignedCmp.
type Ordering int

const (
	Less Ordering = iota - 1
	EqualOrd
	Greater
)

// SignedCmp implements §4.1's signed compare: treats residues above
// MAX_SIGNED as negative. signed_cmp(a, b) = Less iff a-b, interpreted as
// a signed residue, is negative, i.e. iff a-b > MAX_SIGNED as an unsigned
// residue (§8's testable property).
func SignedCmp(a, b Scalar) Ordering {
	if Equal(a, b) {
		return EqualOrd
	}
	diff := Sub(a, b)
	if Cmp(diff, MaxSigned()) > 0 {
		return Less
	}
	return Greater
}

// IsNegative reports whether s lies in the upper half of the field, i.e.
// is a "negative" residue per §3.
func (s Scalar) IsNegative() bool {
	return Cmp(s, MaxSigned()) > 0
}

// Pow10 computes TEN^e using repeated field multiplication rather than
// integer exponentiation, so that decimal scale factors above 19 don't
// overflow a machine integer (§9 "Scaling of decimals"). Callers bound e;
// no overflow check is performed (§4.1).
func Pow10(e uint8) Scalar {
	ten := FromUint64(10)
	result := One()
	for i := uint8(0); i < e; i++ {
		result = Mul(result, ten)
	}
	return result
}

// BatchInvert replaces every element of s in place by its multiplicative
// inverse, mapping zero to zero (§4.1). The inverted slice is the pseudo-
// inverse vector operators like the equals-zero gadget register directly
// as an intermediate MLE.
func BatchInvert(s []Scalar) {
	if len(s) == 0 {
		return
	}
	elems := make([]fr.Element, len(s))
	for i := range s {
		elems[i] = s[i].inner
	}
	inv := fr.BatchInvert(elems)
	for i := range s {
		s[i].inner = inv[i]
	}
}

// hashToScalar is the one place a byte string is mapped into the field; it
// backs both FromBytes (VarChar hashing) and the transcript's challenge
// derivation, always through a domain tag so the two uses can never
// collide.
func hashToScalar(domain, data []byte) Scalar {
	h := sha256.New()
	h.Write(domain)
	h.Write(data)
	digest := h.Sum(nil)
	var s Scalar
	s.inner.SetBytes(digest)
	return s
}
