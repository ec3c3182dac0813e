// Package sumcheck implements the multi-round sum-check subprotocol every
// proof-plan operator's subpolynomials are folded through (§4.5): a
// multilinear-extension evaluator plus the round-by-round reduction from a
// claim about a hypercube sum to a single evaluation at a random point.
package sumcheck

import "github.com/varshith257/sxt-proof-of-sql/scalar"

// MLE is a multilinear extension's dense evaluation table over the Boolean
// hypercube: index i is the value at the point whose bits are i's binary
// digits. Every MLE passed into this package must be padded to a power of
// two; Pad does that zero-extension.
type MLE []scalar.Scalar

// Pad zero-extends values to exactly length entries; callers pass the
// power-of-two hypercube size.
func Pad(values []scalar.Scalar, length int) MLE {
	out := make(MLE, length)
	copy(out, values)
	for i := len(values); i < length; i++ {
		out[i] = scalar.Zero()
	}
	return out
}

// Kind tags what a Subpolynomial asserts about its evaluation on the
// hypercube (§4.5): Identity claims the polynomial is zero at every point,
// ZeroSum only claims its hypercube sum is zero. A hypercube sum of zero is
// implied by pointwise-zero but not the other way around, so the two need
// different soundness mechanisms: Prove folds every Identity subpolynomial
// against a fresh eq(tau, X) factor (tau drawn post hoc from the
// transcript) before batching it into the sum-check claim, turning "sum is
// zero" into "evaluation at tau is zero" with soundness error bounded by
// Schwartz-Zippel; ZeroSum subpolynomials are batched as-is.
type Kind int

const (
	Identity Kind = iota
	ZeroSum
)

// Term is one coefficient-weighted product of MLE factors contributing to
// a Subpolynomial, e.g. `product - lhs*rhs` is two Terms (coefficient 1 on
// `product`, coefficient -1 on the product `lhs*rhs`).
type Term struct {
	Coefficient scalar.Scalar
	Factors     []MLE
}

// Degree returns the term's polynomial degree: the number of factors
// multiplied together.
func (t Term) Degree() int { return len(t.Factors) }

// Subpolynomial is a sum of Terms an operator registers with a
// FinalRoundBuilder, tagged with the semantic Kind it asserts.
type Subpolynomial struct {
	Kind  Kind
	Terms []Term
}

// Degree returns the maximum degree across the subpolynomial's terms.
func (s Subpolynomial) Degree() int {
	d := 0
	for _, t := range s.Terms {
		if t.Degree() > d {
			d = t.Degree()
		}
	}
	return d
}

// EffectiveDegree returns the degree the round polynomials actually carry
// once Prove's eq(tau, X) folding is accounted for: one more than Degree
// for Identity subpolynomials (the extra eq factor), unchanged for ZeroSum.
func (s Subpolynomial) EffectiveDegree() int {
	if s.Kind == Identity {
		return s.Degree() + 1
	}
	return s.Degree()
}

// MaxDegree returns the maximum effective degree across a set of
// subpolynomials, the quantity CountBuilder's degree budget must match.
func MaxDegree(subpolys []Subpolynomial) int {
	d := 0
	for _, s := range subpolys {
		if s.EffectiveDegree() > d {
			d = s.EffectiveDegree()
		}
	}
	return d
}
