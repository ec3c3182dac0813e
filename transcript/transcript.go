// Package transcript implements the Fiat-Shamir challenge derivation every
// protocol round in this module draws from (§3, §4.3): an append-only byte
// log keyed by domain-separated labels, deterministic across prover and
// verifier.
package transcript

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/varshith257/sxt-proof-of-sql/scalar"
)

// Label is drawn from the closed, tagged enumeration of protocol-message
// kinds (§3). Mixing labels between calls that ought to use the same one
// is a protocol bug the Dory and sum-check packages are written never to
// commit.
type Label int

const (
	LabelDoryReduce Label = iota
	LabelDoryFoldScalars
	LabelDoryScalarProduct
	LabelSumcheckRound
	LabelSumcheckEqPoint
	LabelPostResultChallenge
	LabelSubtraction
	LabelAddition
	LabelMultiplication
	LabelDivision
	LabelEquality
	LabelEqualsZero
	LabelInequality
	LabelAnd
	LabelOr
	LabelNot
	LabelFilter
	LabelProjection
	LabelGroupBy
	LabelVerificationHash
	LabelQueryBinding
)

func (l Label) String() string {
	switch l {
	case LabelDoryReduce:
		return "dory-reduce"
	case LabelDoryFoldScalars:
		return "dory-fold-scalars"
	case LabelDoryScalarProduct:
		return "dory-scalar-product"
	case LabelSumcheckRound:
		return "sumcheck-round"
	case LabelSumcheckEqPoint:
		return "sumcheck-eq-point"
	case LabelPostResultChallenge:
		return "post-result-challenge"
	case LabelSubtraction:
		return "subtraction"
	case LabelAddition:
		return "addition"
	case LabelMultiplication:
		return "multiplication"
	case LabelDivision:
		return "division"
	case LabelEquality:
		return "equality"
	case LabelEqualsZero:
		return "equals-zero"
	case LabelInequality:
		return "inequality"
	case LabelAnd:
		return "and"
	case LabelOr:
		return "or"
	case LabelNot:
		return "not"
	case LabelFilter:
		return "filter"
	case LabelProjection:
		return "projection"
	case LabelGroupBy:
		return "group-by"
	case LabelVerificationHash:
		return "verification-hash"
	case LabelQueryBinding:
		return "query-binding"
	default:
		return fmt.Sprintf("label(%d)", int(l))
	}
}

// domainTag separates a Transcript's hash-to-field from every other use of
// scalar.FromBytesDomain in this module.
const domainTag = "proof-of-sql/transcript/v1"

// Transcript is a running, hash-chained absorption state: no hidden state
// beyond the bytes absorbed so far (§4.3). Identical label/byte sequences
// on prover and verifier yield identical challenges; this is what makes
// Dory's and sum-check's challenges reproducible on the verifier side
// without ever talking to the prover.
type Transcript struct {
	state []byte
	round uint64
}

// New starts a fresh transcript, seeded with a caller-chosen protocol
// name so that transcripts for unrelated proofs never collide even if
// their message sequences happen to coincide byte-for-byte.
func New(protocol string) *Transcript {
	h := sha256.Sum256([]byte(domainTag + "/" + protocol))
	return &Transcript{state: h[:]}
}

// Append absorbs data under label into the transcript state.
func (t *Transcript) Append(label Label, data []byte) {
	t.state = t.absorb(label, data)
	t.round++
}

// AppendScalar absorbs a field element's canonical encoding under label.
func (t *Transcript) AppendScalar(label Label, s scalar.Scalar) {
	b := s.Bytes()
	t.Append(label, b[:])
}

// AppendUint64 absorbs a little-endian uint64 under label, used to bind
// public lengths (table length, column count) into the transcript before
// any challenge that depends on them is drawn.
func (t *Transcript) AppendUint64(label Label, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	t.Append(label, b[:])
}

// ChallengeScalar draws a field element deterministically from the
// current transcript state under label, then absorbs the challenge bytes
// back into the state so that no two challenges derived in sequence are
// ever identical even under the same label (§4.3's determinism property).
func (t *Transcript) ChallengeScalar(label Label) scalar.Scalar {
	digest := t.absorb(label, []byte("challenge"))
	c := scalar.FromBytesDomain(domainTag+"/challenge", digest)
	t.state = digest
	t.round++
	return c
}

// FinalState returns the transcript's current hash chain state, the basis
// for the 32-byte verification_hash of §6.
func (t *Transcript) FinalState() [32]byte {
	var out [32]byte
	copy(out[:], t.state)
	return out
}

func (t *Transcript) absorb(label Label, data []byte) []byte {
	h := sha256.New()
	h.Write(t.state)
	var roundBytes [8]byte
	binary.LittleEndian.PutUint64(roundBytes[:], t.round)
	h.Write(roundBytes[:])
	h.Write([]byte(label.String()))
	h.Write(data)
	return h.Sum(nil)
}
