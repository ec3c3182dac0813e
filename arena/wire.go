package arena

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math/big"

	"github.com/varshith257/sxt-proof-of-sql/scalar"
)

// zigzagEncode64 maps a signed two's-complement int64 to an unsigned one
// with small magnitudes on both sides of zero landing in small unsigned
// values, the same remapping original_source's zigzag.rs applies to a
// field scalar (there: fold to whichever of x, -x is smaller, tag the
// sign in the low bit) adapted to a fixed-width integer, where the
// standard `(v<<1)^(v>>63)` formula is the closed form of the same idea.
func zigzagEncode64(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63))
}

func zigzagDecode64(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1)
}

// zigzagEncodeBig applies the same fold to an arbitrary-precision signed
// integer (used for Int128): choose the smaller in magnitude of v and
// -v, double it, and set the low bit if the negative branch was taken —
// the literal algorithm of original_source's `ZigZag<U256> for Scalar`,
// generalized from a fixed 256-bit field element to a big.Int.
func zigzagEncodeBig(v *big.Int) *big.Int {
	if v.Sign() >= 0 {
		return new(big.Int).Lsh(v, 1)
	}
	neg := new(big.Int).Neg(v)
	enc := new(big.Int).Lsh(neg, 1)
	return enc.Or(enc, big.NewInt(1))
}

func zigzagDecodeBig(u *big.Int) *big.Int {
	half := new(big.Int).Rsh(u, 1)
	if u.Bit(0) == 1 {
		return half.Neg(half)
	}
	return half
}

// wireWriter is a small append-only byte buffer with varint/zigzag
// helpers; kept private since OwnedTable's wire format is a closed
// representation, not a public streaming API.
type wireWriter struct {
	buf bytes.Buffer
}

func (w *wireWriter) putUvarint(v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	w.buf.Write(tmp[:n])
}

func (w *wireWriter) putZigzag64(v int64) { w.putUvarint(zigzagEncode64(v)) }

func (w *wireWriter) putBytes(b []byte) {
	w.putUvarint(uint64(len(b)))
	w.buf.Write(b)
}

func (w *wireWriter) putString(s string) { w.putBytes([]byte(s)) }

func (w *wireWriter) putByte(b byte) { w.buf.WriteByte(b) }

type wireReader struct {
	r *bytes.Reader
}

func (r *wireReader) getUvarint() (uint64, error) {
	return binary.ReadUvarint(r.r)
}

func (r *wireReader) getZigzag64() (int64, error) {
	u, err := r.getUvarint()
	if err != nil {
		return 0, err
	}
	return zigzagDecode64(u), nil
}

func (r *wireReader) getBytes() ([]byte, error) {
	n, err := r.getUvarint()
	if err != nil {
		return nil, err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r.r, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *wireReader) getString() (string, error) {
	b, err := r.getBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *wireReader) getByte() (byte, error) { return r.r.ReadByte() }

const wireMagic = "posql-wire-v1"

// MarshalBinary encodes t into the canonical query-result wire format §6
// requires: a name/type/length header per column, bounded integer kinds
// zigzag-varint packed (the `SUPPLEMENTED FEATURES` zigzag encoding,
// grounded on original_source's zigzag.rs), and a plain 32-byte big-endian
// field element per row for Decimal/Scalar columns.
func (t *OwnedTable) MarshalBinary() ([]byte, error) {
	w := &wireWriter{}
	w.putString(wireMagic)
	w.putUvarint(uint64(len(t.names)))
	for _, name := range t.names {
		col := t.columns[name]
		w.putString(name)
		if err := writeColumnType(w, col.Type); err != nil {
			return nil, err
		}
		if err := writeColumn(w, col.Column); err != nil {
			return nil, fmt.Errorf("arena: encoding column %q: %w", name, err)
		}
	}
	return w.buf.Bytes(), nil
}

// UnmarshalBinary decodes the format MarshalBinary produces, rebuilding
// VarChar hashes rather than storing them, so a decoded table's hashes
// are always bit-identical to NewVarChar's (the invariant §4.2 depends
// on), never merely whatever bytes happened to be on the wire.
func (t *OwnedTable) UnmarshalBinary(data []byte) error {
	r := &wireReader{r: bytes.NewReader(data)}
	magic, err := r.getString()
	if err != nil {
		return fmt.Errorf("arena: reading wire magic: %w", err)
	}
	if magic != wireMagic {
		return fmt.Errorf("arena: unrecognized wire format %q", magic)
	}
	numCols, err := r.getUvarint()
	if err != nil {
		return fmt.Errorf("arena: reading column count: %w", err)
	}
	names := make([]string, numCols)
	columns := make([]OwnedColumn, numCols)
	for i := range names {
		name, err := r.getString()
		if err != nil {
			return fmt.Errorf("arena: reading column name: %w", err)
		}
		typ, err := readColumnType(r)
		if err != nil {
			return fmt.Errorf("arena: reading column %q type: %w", name, err)
		}
		col, err := readColumn(r, typ)
		if err != nil {
			return fmt.Errorf("arena: decoding column %q: %w", name, err)
		}
		names[i] = name
		columns[i] = OwnedColumn{col}
	}
	built, err := NewOwnedTable(names, columns)
	if err != nil {
		return err
	}
	*t = *built
	return nil
}

func writeColumnType(w *wireWriter, typ ColumnType) error {
	w.putByte(byte(typ.Kind))
	w.putByte(typ.Precision)
	w.putByte(byte(typ.Scale))
	w.putByte(byte(typ.TimeUnit))
	w.putString(typ.TimeZone)
	return nil
}

func readColumnType(r *wireReader) (ColumnType, error) {
	kind, err := r.getByte()
	if err != nil {
		return ColumnType{}, err
	}
	precision, err := r.getByte()
	if err != nil {
		return ColumnType{}, err
	}
	scale, err := r.getByte()
	if err != nil {
		return ColumnType{}, err
	}
	unit, err := r.getByte()
	if err != nil {
		return ColumnType{}, err
	}
	zone, err := r.getString()
	if err != nil {
		return ColumnType{}, err
	}
	return ColumnType{
		Kind:      Kind(kind),
		Precision: precision,
		Scale:     int8(scale),
		TimeUnit:  TimeUnit(unit),
		TimeZone:  zone,
	}, nil
}

func writeColumn(w *wireWriter, c Column) error {
	n := c.Len()
	w.putUvarint(uint64(n))
	switch c.Type.Kind {
	case KindBoolean:
		for _, v := range c.Booleans {
			b := byte(0)
			if v {
				b = 1
			}
			w.putByte(b)
		}
	case KindTinyInt:
		for _, v := range c.TinyInts {
			w.putZigzag64(int64(v))
		}
	case KindSmallInt:
		for _, v := range c.SmallInts {
			w.putZigzag64(int64(v))
		}
	case KindInt:
		for _, v := range c.Ints {
			w.putZigzag64(int64(v))
		}
	case KindBigInt:
		for _, v := range c.BigInts {
			w.putZigzag64(v)
		}
	case KindInt128:
		for _, v := range c.Int128s {
			w.putBytes(zigzagEncodeBig(v.BigInt()).Bytes())
		}
	case KindDecimal:
		for _, v := range c.Decimals {
			b := v.Bytes()
			w.buf.Write(b[:])
		}
	case KindScalar:
		for _, v := range c.Scalars {
			b := v.Bytes()
			w.buf.Write(b[:])
		}
	case KindVarChar:
		for _, v := range c.VarChars {
			w.putString(v.Value)
		}
	case KindTimestamp:
		for _, v := range c.Timestamps {
			w.putZigzag64(v)
		}
	default:
		return fmt.Errorf("arena: unknown column kind %v", c.Type.Kind)
	}
	return nil
}

func readColumn(r *wireReader, typ ColumnType) (Column, error) {
	n, err := r.getUvarint()
	if err != nil {
		return Column{}, err
	}
	col := Column{Type: typ}
	switch typ.Kind {
	case KindBoolean:
		col.Booleans = make([]bool, n)
		for i := range col.Booleans {
			b, err := r.getByte()
			if err != nil {
				return Column{}, err
			}
			col.Booleans[i] = b != 0
		}
	case KindTinyInt:
		col.TinyInts = make([]int8, n)
		for i := range col.TinyInts {
			v, err := r.getZigzag64()
			if err != nil {
				return Column{}, err
			}
			col.TinyInts[i] = int8(v)
		}
	case KindSmallInt:
		col.SmallInts = make([]int16, n)
		for i := range col.SmallInts {
			v, err := r.getZigzag64()
			if err != nil {
				return Column{}, err
			}
			col.SmallInts[i] = int16(v)
		}
	case KindInt:
		col.Ints = make([]int32, n)
		for i := range col.Ints {
			v, err := r.getZigzag64()
			if err != nil {
				return Column{}, err
			}
			col.Ints[i] = int32(v)
		}
	case KindBigInt:
		col.BigInts = make([]int64, n)
		for i := range col.BigInts {
			v, err := r.getZigzag64()
			if err != nil {
				return Column{}, err
			}
			col.BigInts[i] = v
		}
	case KindInt128:
		col.Int128s = make([]Int128, n)
		for i := range col.Int128s {
			b, err := r.getBytes()
			if err != nil {
				return Column{}, err
			}
			enc := new(big.Int).SetBytes(b)
			col.Int128s[i] = Int128FromBigInt(zigzagDecodeBig(enc))
		}
	case KindDecimal:
		col.Decimals = make([]scalar.Scalar, n)
		for i := range col.Decimals {
			var b [scalar.NumBytes]byte
			if _, err := io.ReadFull(r.r, b[:]); err != nil {
				return Column{}, err
			}
			col.Decimals[i] = scalar.FromBigInt(new(big.Int).SetBytes(b[:]))
		}
	case KindScalar:
		col.Scalars = make([]scalar.Scalar, n)
		for i := range col.Scalars {
			var b [scalar.NumBytes]byte
			if _, err := io.ReadFull(r.r, b[:]); err != nil {
				return Column{}, err
			}
			col.Scalars[i] = scalar.FromBigInt(new(big.Int).SetBytes(b[:]))
		}
	case KindVarChar:
		col.VarChars = make([]VarCharValue, n)
		for i := range col.VarChars {
			s, err := r.getString()
			if err != nil {
				return Column{}, err
			}
			col.VarChars[i] = NewVarChar(s)
		}
	case KindTimestamp:
		col.Timestamps = make([]int64, n)
		for i := range col.Timestamps {
			v, err := r.getZigzag64()
			if err != nil {
				return Column{}, err
			}
			col.Timestamps[i] = v
		}
	default:
		return Column{}, fmt.Errorf("arena: unknown column kind %v", typ.Kind)
	}
	return col, nil
}
