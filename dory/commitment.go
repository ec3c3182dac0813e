package dory

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/varshith257/sxt-proof-of-sql/scalar"
)

// Commitment is a Dory commitment to a column: a G_T group element tagged
// with the column's length and an optional bound on the unsigned
// magnitude of its committed values (§3).
type Commitment struct {
	Value   bn254.GT
	Length  uint64
	LogMax  *uint8
}

// scalarToFr round-trips a Scalar through its canonical encoding into the
// bn254 scalar-field element gnark-crypto's MSM and pairing routines
// operate on.
func scalarToFr(s scalar.Scalar) fr.Element {
	b := s.Bytes()
	var e fr.Element
	e.SetBytes(b[:])
	return e
}

// NuForLength returns the smallest ν such that a length-n vector fits in
// a 2^ν × 2^ν matrix (§4.4: "tiling it into a 2^ν × 2^ν matrix, the
// smallest ν that fits"). Exported so callers outside this package (query
// assembly) can size a tensor evaluation point to match a column's
// commitment before calling Prove/Verify.
func NuForLength(n int) int {
	nu := 0
	for (1 << uint(2*nu)) < n {
		nu++
	}
	return nu
}

// Commit produces a Dory commitment to values (§4.4). The vector is
// tiled row-major into an m×m matrix (m=2^ν), each row is committed via
// an MSM against Γ1, and the commitment is the multi-pairing of the row
// commitments against Γ2.
func Commit(ps *ProverSetup, values []scalar.Scalar, logMax *uint8) (*Commitment, error) {
	nu := NuForLength(len(values))
	if nu > ps.MaxNu() {
		return nil, fmt.Errorf("dory: committing a length-%d column needs nu=%d > max_nu=%d", len(values), nu, ps.MaxNu())
	}
	m := 1 << uint(nu)

	rowCommits := make([]bn254.G1Affine, m)
	for i := 0; i < m; i++ {
		row := make([]fr.Element, m)
		for j := 0; j < m; j++ {
			idx := i*m + j
			if idx < len(values) {
				row[j] = scalarToFr(values[idx])
			}
		}
		if _, err := rowCommits[i].MultiExp(ps.params.Gamma1[:m], row, ecc.MultiExpConfig{}); err != nil {
			return nil, fmt.Errorf("dory: committing row %d: %v", i, err)
		}
	}

	value, err := bn254.Pair(rowCommits, ps.params.Gamma2[:m])
	if err != nil {
		return nil, fmt.Errorf("dory: multi-pairing rows: %v", err)
	}

	return &Commitment{Value: value, Length: uint64(len(values)), LogMax: logMax}, nil
}

// Add returns the commitment to the element-wise sum of the two
// committed columns, the homomorphism of §3: commit(a)+commit(b) =
// commit(a+b). The result's LogMax grows by at most one bit, per §3's
// invariant.
func Add(a, b *Commitment) (*Commitment, error) {
	if a.Length != b.Length {
		return nil, fmt.Errorf("dory: adding commitments of different lengths %d and %d", a.Length, b.Length)
	}
	var value bn254.GT
	value.Mul(&a.Value, &b.Value)
	return &Commitment{Value: value, Length: a.Length, LogMax: combinedLogMax(a.LogMax, b.LogMax)}, nil
}

// Sub returns the commitment to the element-wise difference of the two
// committed columns: commit(a)-commit(b) = commit(a-b).
func Sub(a, b *Commitment) (*Commitment, error) {
	if a.Length != b.Length {
		return nil, fmt.Errorf("dory: subtracting commitments of different lengths %d and %d", a.Length, b.Length)
	}
	var inv, value bn254.GT
	inv.Inverse(&b.Value)
	value.Mul(&a.Value, &inv)
	return &Commitment{Value: value, Length: a.Length, LogMax: combinedLogMax(a.LogMax, b.LogMax)}, nil
}

// combinedLogMax implements §3's bound: log_max of a sum is at most
// max(log_max_a, log_max_b) + 1.
func combinedLogMax(a, b *uint8) *uint8 {
	if a == nil || b == nil {
		return nil
	}
	m := *a
	if *b > m {
		m = *b
	}
	m++
	return &m
}

// Equal reports whether two commitments are identical in value, length,
// and declared bound — used by tests exercising the homomorphism
// property and by soundness tests that tamper with a stored commitment.
func (c *Commitment) Equal(other *Commitment) bool {
	if c.Length != other.Length {
		return false
	}
	if (c.LogMax == nil) != (other.LogMax == nil) {
		return false
	}
	if c.LogMax != nil && *c.LogMax != *other.LogMax {
		return false
	}
	return c.Value.Equal(&other.Value)
}
