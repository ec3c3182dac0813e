package proofbuilder

import (
	"github.com/varshith257/sxt-proof-of-sql/scalar"
	"github.com/varshith257/sxt-proof-of-sql/transcript"
)

// FirstRoundBuilder lets an operator draw a challenge that depends on the
// query's result (but not on anything the sum-check round polynomials
// reveal), before sum-check begins. Used by operators whose verification
// identity needs a value neither side could commit to ahead of the result
// — e.g. a random row-selection challenge for a HAVING-style filter over
// the result set itself.
type FirstRoundBuilder struct {
	challenges []scalar.Scalar
}

// NewFirstRoundBuilder starts an empty post-result-challenge sequence.
func NewFirstRoundBuilder() *FirstRoundBuilder {
	return &FirstRoundBuilder{}
}

// RequestPostResultChallenge draws and records the next post-result
// challenge from tr. Prover and verifier call this in the same operator
// traversal order, so both draw the identical sequence.
func (b *FirstRoundBuilder) RequestPostResultChallenge(tr *transcript.Transcript) scalar.Scalar {
	c := tr.ChallengeScalar(transcript.LabelPostResultChallenge)
	b.challenges = append(b.challenges, c)
	return c
}

// Challenges returns every post-result challenge drawn so far, in request
// order.
func (b *FirstRoundBuilder) Challenges() []scalar.Scalar { return b.challenges }
