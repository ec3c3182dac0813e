// Package dory implements the pairing-based column commitment scheme of
// §4.4: public parameters, derived prover/verifier setups, a homomorphic
// commitment, and the extended inner-product argument used to open a
// commitment at a sum-check challenge point.
package dory

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
)

// Conf selects how PublicParameters are derived (mirrors the teacher's
// setup.Conf{Trusted,TestOnly} split, see SPEC_FULL.md's AMBIENT STACK).
// Dory needs no multi-party ceremony (§1 non-goals), so both variants
// derive parameters deterministically from public randomness; they differ
// only in how that randomness is sourced.
type Conf int

const (
	// Transparent derives Γ1, Γ2, H1, H2, Γ2_fin from a fixed,
	// published seed by repeated hashing ("nothing up my sleeve"):
	// anyone can regenerate and check the parameters bit-for-bit.
	Transparent Conf = iota
	// TestOnly draws the same structure from the process's CSPRNG: not
	// reproducible, but fast, for tests that don't care about
	// regenerability.
	TestOnly
)

// PublicParameters are the Dory scheme's global parameters (§3): two
// vectors of G1/G2 points of size 2^MaxNu, blinding generators H1/H2, and
// a terminal generator Γ2Fin.
type PublicParameters struct {
	MaxNu     int
	Gamma1    []bn254.G1Affine
	Gamma2    []bn254.G2Affine
	H1        bn254.G1Affine
	H2        bn254.G2Affine
	Gamma2Fin bn254.G2Affine
}

// transparentSeed is the published domain tag every Transparent setup
// hashes from; changing it would silently produce different, incompatible
// parameters, so it is never derived from anything request-specific.
const transparentSeed = "proof-of-sql/dory/public-parameters/v1"

// Setup derives PublicParameters with 2^maxNu generators in each of Γ1 and
// Γ2, enough to commit columns of up to 4^maxNu (2^(2*maxNu)) values.
func Setup(maxNu int, conf Conf) (*PublicParameters, error) {
	if maxNu < 0 {
		return nil, fmt.Errorf("dory: maxNu must be non-negative, got %d", maxNu)
	}
	size := 1 << uint(maxNu)

	var nextScalar func(label string) *big.Int
	switch conf {
	case Transparent:
		nextScalar = deterministicScalarSource(transparentSeed)
	case TestOnly:
		nextScalar = randomScalarSource()
	default:
		return nil, fmt.Errorf("dory: unknown configuration %d", conf)
	}

	_, _, g1Gen, g2Gen := bn254.Generators()

	gamma1 := make([]bn254.G1Affine, size)
	gamma2 := make([]bn254.G2Affine, size)
	for i := 0; i < size; i++ {
		gamma1[i].ScalarMultiplication(&g1Gen, nextScalar(fmt.Sprintf("gamma1/%d", i)))
		gamma2[i].ScalarMultiplication(&g2Gen, nextScalar(fmt.Sprintf("gamma2/%d", i)))
	}
	var h1 bn254.G1Affine
	h1.ScalarMultiplication(&g1Gen, nextScalar("h1"))
	var h2 bn254.G2Affine
	h2.ScalarMultiplication(&g2Gen, nextScalar("h2"))
	var gamma2Fin bn254.G2Affine
	gamma2Fin.ScalarMultiplication(&g2Gen, nextScalar("gamma2fin"))

	return &PublicParameters{
		MaxNu:     maxNu,
		Gamma1:    gamma1,
		Gamma2:    gamma2,
		H1:        h1,
		H2:        h2,
		Gamma2Fin: gamma2Fin,
	}, nil
}

// deterministicScalarSource returns a function deriving a big.Int scalar
// from a label by hashing seed||label, used by the Transparent path.
func deterministicScalarSource(seed string) func(label string) *big.Int {
	return func(label string) *big.Int {
		h := sha256.Sum256([]byte(seed + "/" + label))
		return new(big.Int).SetBytes(h[:])
	}
}

// randomScalarSource returns a function drawing a fresh CSPRNG scalar per
// call, ignoring its label; used by the TestOnly path.
func randomScalarSource() func(label string) *big.Int {
	return func(string) *big.Int {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			panic(fmt.Sprintf("dory: reading randomness: %v", err))
		}
		return new(big.Int).SetBytes(b)
	}
}

// ProverSetup is the subset of PublicParameters the prover needs: the
// full Γ1/Γ2 vectors (it must compute MSMs over them) plus the blinding
// and terminal generators.
type ProverSetup struct {
	params *PublicParameters
}

// NewProverSetup derives a ProverSetup from public parameters.
func NewProverSetup(pp *PublicParameters) *ProverSetup {
	return &ProverSetup{params: pp}
}

// MaxNu returns the bound on ν this setup supports.
func (s *ProverSetup) MaxNu() int { return s.params.MaxNu }

// VerifierSetup holds the public parameters together with two precomputed
// pairing tables, Delta1[i] = e(Γ1[i], Γ2Fin) and Delta2[i] = e(H1, Γ2[i])
// for every i. Verify does not read these tables: it folds Γ1/Γ2 directly,
// so its cost grows linearly with 2^ν.
type VerifierSetup struct {
	params *PublicParameters
	delta1 []bn254.GT
	delta2 []bn254.GT
}

// NewVerifierSetup derives a VerifierSetup, precomputing the Delta1/Delta2
// pairing tables.
func NewVerifierSetup(pp *PublicParameters) (*VerifierSetup, error) {
	size := len(pp.Gamma1)
	delta1 := make([]bn254.GT, size)
	delta2 := make([]bn254.GT, size)
	for i := 0; i < size; i++ {
		v, err := bn254.Pair([]bn254.G1Affine{pp.Gamma1[i]}, []bn254.G2Affine{pp.Gamma2Fin})
		if err != nil {
			return nil, fmt.Errorf("dory: precomputing Delta1[%d]: %v", i, err)
		}
		delta1[i] = v
		w, err := bn254.Pair([]bn254.G1Affine{pp.H1}, []bn254.G2Affine{pp.Gamma2[i]})
		if err != nil {
			return nil, fmt.Errorf("dory: precomputing Delta2[%d]: %v", i, err)
		}
		delta2[i] = w
	}
	return &VerifierSetup{params: pp, delta1: delta1, delta2: delta2}, nil
}

// MaxNu returns the bound on ν this setup supports.
func (s *VerifierSetup) MaxNu() int { return s.params.MaxNu }

// sameSetup reports whether two PublicParameters agree on MaxNu, H1, H2
// and Gamma2Fin; the Γ1/Γ2 vectors are not compared. Nothing in this
// package calls it.
func sameSetup(a, b *PublicParameters) bool {
	if a.MaxNu != b.MaxNu {
		return false
	}
	if !a.H1.Equal(&b.H1) || !a.H2.Equal(&b.H2) || !a.Gamma2Fin.Equal(&b.Gamma2Fin) {
		return false
	}
	return true
}
