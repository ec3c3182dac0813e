package sumcheck

import (
	"fmt"

	"github.com/varshith257/sxt-proof-of-sql/scalar"
	"github.com/varshith257/sxt-proof-of-sql/transcript"
)

// ceilLog2 returns the smallest ℓ such that 2^ℓ >= n, for n >= 0.
func ceilLog2(n int) int {
	l := 0
	for (1 << uint(l)) < n {
		l++
	}
	return l
}

// Result is everything Prove produces beyond the per-round polynomials: the
// joint challenge point and the final evaluation of every registered MLE at
// that point, in registration order — the "MLE evaluations" §4.5 promises.
type Result struct {
	RoundPolynomials [][]scalar.Scalar // one coefficient slice per round
	ChallengePoint   []scalar.Scalar
	MLEEvaluations   []scalar.Scalar
	ComboCoeffs      []scalar.Scalar // one per subpolynomial, for the caller's batched identity check
	EqPoint          []scalar.Scalar // tau, the random point every Identity subpolynomial was folded against
}

// drawComboCoeffs draws one random combination coefficient per
// subpolynomial, binding the count into the transcript first so prover and
// verifier never disagree about how many challenges to draw.
func drawComboCoeffs(tr *transcript.Transcript, n int) []scalar.Scalar {
	tr.AppendUint64(transcript.LabelSumcheckRound, uint64(n))
	out := make([]scalar.Scalar, n)
	for i := range out {
		out[i] = tr.ChallengeScalar(transcript.LabelSumcheckRound)
	}
	return out
}

// drawEqPoint draws the random point tau (§4.5's eq(tau, X) soundness
// factor) every Identity subpolynomial is folded against: one coordinate
// per sum-check round, drawn after the combination coefficients so prover
// and verifier stay in lockstep on transcript position.
func drawEqPoint(tr *transcript.Transcript, l int) []scalar.Scalar {
	out := make([]scalar.Scalar, l)
	for i := range out {
		out[i] = tr.ChallengeScalar(transcript.LabelSumcheckEqPoint)
	}
	return out
}

// buildEqTable returns the dense hypercube table of eq(tau, ·): entry i is
// the product, over each bit b of i (b=0 the least significant, matching
// foldMLE's fold order), of tau[b] when bit b is 1 and 1-tau[b] when it is
// 0. Folding this table through the same challenge sequence Prove folds
// every other factor through yields eq(tau, challengePoint) as its single
// remaining entry, since each round's fold contributes exactly the
// standard one-variable eq kernel (1-challenge)(1-tau_b) + challenge*tau_b.
func buildEqTable(tau []scalar.Scalar) MLE {
	table := []scalar.Scalar{scalar.One()}
	for _, t := range tau {
		next := make([]scalar.Scalar, len(table)*2)
		oneMinusT := scalar.Sub(scalar.One(), t)
		for j, v := range table {
			next[j] = scalar.Mul(v, oneMinusT)
			next[j+len(table)] = scalar.Mul(v, t)
		}
		table = next
	}
	return MLE(table)
}

// EvalEqPoint evaluates eq(tau, point) directly, for the verifier side:
// product over coordinates of tau_b*point_b + (1-tau_b)(1-point_b). tau and
// point must have equal length; with mismatched lengths only the common
// prefix is multiplied, and zero length returns One (the empty product),
// matching a zero-round sum-check instance.
func EvalEqPoint(tau, point []scalar.Scalar) scalar.Scalar {
	acc := scalar.One()
	for i := range tau {
		if i >= len(point) {
			break
		}
		same := scalar.Add(scalar.Mul(tau[i], point[i]), scalar.Mul(scalar.Sub(scalar.One(), tau[i]), scalar.Sub(scalar.One(), point[i])))
		acc = scalar.Mul(acc, same)
	}
	return acc
}

// Prove runs the ℓ = ceil(log2(tableLength)) round sum-check protocol over
// a random linear combination of subpolys (§4.5), folding mles through the
// same challenge sequence so their evaluations at the joint challenge point
// can be read off afterward.
func Prove(tr *transcript.Transcript, tableLength int, mles []MLE, subpolys []Subpolynomial) (*Result, error) {
	l := ceilLog2(tableLength)
	size := 1 << uint(l)
	maxDegree := MaxDegree(subpolys)

	combo := drawComboCoeffs(tr, len(subpolys))
	eqPoint := drawEqPoint(tr, l)
	eqTable := buildEqTable(eqPoint)

	// working copies: pad every factor and every registered MLE to size,
	// then fold them round by round. Identity subpolynomials additionally
	// carry the shared eq(tau, X) table as an extra factor on every term,
	// turning their hypercube-sum claim into a pointwise-zero claim at tau.
	workingSubpolys := make([]Subpolynomial, len(subpolys))
	for i, sp := range subpolys {
		terms := make([]Term, len(sp.Terms))
		for j, t := range sp.Terms {
			extra := 0
			if sp.Kind == Identity {
				extra = 1
			}
			factors := make([]MLE, len(t.Factors)+extra)
			for k, f := range t.Factors {
				factors[k] = Pad(f, size)
			}
			if extra == 1 {
				factors[len(t.Factors)] = eqTable
			}
			terms[j] = Term{Coefficient: t.Coefficient, Factors: factors}
		}
		workingSubpolys[i] = Subpolynomial{Kind: sp.Kind, Terms: terms}
	}
	workingMLEs := make([]MLE, len(mles))
	for i, m := range mles {
		workingMLEs[i] = Pad(m, size)
	}

	roundPolynomials := make([][]scalar.Scalar, 0, l)
	challengePoint := make([]scalar.Scalar, 0, l)
	currentLen := size

	for round := 0; round < l; round++ {
		evals := roundPolynomialEvaluations(workingSubpolys, combo, currentLen, maxDegree)
		coeffs := interpolateCoefficients(evals)
		roundPolynomials = append(roundPolynomials, coeffs)

		for _, c := range coeffs {
			tr.AppendScalar(transcript.LabelSumcheckRound, c)
		}
		challenge := tr.ChallengeScalar(transcript.LabelSumcheckRound)
		challengePoint = append(challengePoint, challenge)

		for i := range workingSubpolys {
			for j := range workingSubpolys[i].Terms {
				factors := workingSubpolys[i].Terms[j].Factors
				for k := range factors {
					factors[k] = foldMLE(factors[k], challenge)
				}
			}
		}
		for i := range workingMLEs {
			workingMLEs[i] = foldMLE(workingMLEs[i], challenge)
		}
		currentLen /= 2
	}

	mleEvals := make([]scalar.Scalar, len(workingMLEs))
	for i, m := range workingMLEs {
		if len(m) == 0 {
			mleEvals[i] = scalar.Zero()
			continue
		}
		mleEvals[i] = m[0]
	}

	return &Result{
		RoundPolynomials: roundPolynomials,
		ChallengePoint:   challengePoint,
		MLEEvaluations:   mleEvals,
		ComboCoeffs:      combo,
		EqPoint:          eqPoint,
	}, nil
}

// VerifyResult is what Verify returns: the replayed challenge point, the
// per-subpolynomial combination coefficients (so the caller can recombine
// its own operator-reported evaluations the same way the prover did), and
// the final round's claimed evaluation at the challenge point — the value
// the caller's recombined evaluation must match.
type VerifyResult struct {
	ChallengePoint  []scalar.Scalar
	ComboCoeffs     []scalar.Scalar
	EqPoint         []scalar.Scalar
	FinalEvaluation scalar.Scalar
}

// Verify replays the transcript challenges and checks the round-to-round
// sum-check identity g_i(0)+g_i(1) == (previous round's claimed value,
// starting at 0). It does not know what the subpolynomials' factors are —
// that identity is the caller's job, comparing FinalEvaluation against a
// recombination of its own per-operator evaluations weighted by
// ComboCoeffs. Any identity mismatch is reported via ok=false, never a
// panic or a specific error describing which round failed (§7).
func Verify(tr *transcript.Transcript, tableLength, numSubpolys, maxDegree int, roundPolynomials [][]scalar.Scalar) (ok bool, result *VerifyResult, err error) {
	l := ceilLog2(tableLength)
	if len(roundPolynomials) != l {
		return false, nil, nil
	}
	combo := drawComboCoeffs(tr, numSubpolys)
	eqPoint := drawEqPoint(tr, l)

	claimed := scalar.Zero()
	challengePoint := make([]scalar.Scalar, 0, l)

	for round := 0; round < l; round++ {
		coeffs := roundPolynomials[round]
		if len(coeffs) != maxDegree+1 {
			return false, nil, fmt.Errorf("sumcheck: round %d polynomial has %d coefficients, want %d", round, len(coeffs), maxDegree+1)
		}
		atZero := evalCoefficients(coeffs, scalar.Zero())
		atOne := evalCoefficients(coeffs, scalar.One())
		if !scalar.Equal(scalar.Add(atZero, atOne), claimed) {
			return false, nil, nil
		}

		for _, c := range coeffs {
			tr.AppendScalar(transcript.LabelSumcheckRound, c)
		}
		challenge := tr.ChallengeScalar(transcript.LabelSumcheckRound)
		challengePoint = append(challengePoint, challenge)

		claimed = evalCoefficients(coeffs, challenge)
	}

	return true, &VerifyResult{
		ChallengePoint:  challengePoint,
		ComboCoeffs:     combo,
		EqPoint:         eqPoint,
		FinalEvaluation: claimed,
	}, nil
}

// roundPolynomialEvaluations samples the combined round polynomial at
// X = 0, 1, ..., maxDegree by folding every subpolynomial's factors at X
// over each remaining hypercube corner.
func roundPolynomialEvaluations(subpolys []Subpolynomial, combo []scalar.Scalar, currentLen, maxDegree int) []scalar.Scalar {
	points := make([]scalar.Scalar, maxDegree+1)
	half := currentLen / 2
	for xi := 0; xi <= maxDegree; xi++ {
		x := scalar.FromInt64(int64(xi))
		acc := scalar.Zero()
		for si, sp := range subpolys {
			subAcc := scalar.Zero()
			for _, term := range sp.Terms {
				for corner := 0; corner < half; corner++ {
					val := evalProductAt(term.Factors, corner, x)
					subAcc = scalar.Add(subAcc, scalar.Mul(term.Coefficient, val))
				}
			}
			acc = scalar.Add(acc, scalar.Mul(combo[si], subAcc))
		}
		points[xi] = acc
	}
	return points
}

// evalProductAt evaluates the product of factors' linear interpolation
// between hypercube corners (2*corner, 2*corner+1) at X=x.
func evalProductAt(factors []MLE, corner int, x scalar.Scalar) scalar.Scalar {
	acc := scalar.One()
	for _, f := range factors {
		lo, hi := f[2*corner], f[2*corner+1]
		val := scalar.Add(lo, scalar.Mul(x, scalar.Sub(hi, lo)))
		acc = scalar.Mul(acc, val)
	}
	return acc
}

// foldMLE substitutes challenge for one Boolean variable by linearly
// interpolating each adjacent pair of entries, halving the table's length.
func foldMLE(m MLE, challenge scalar.Scalar) MLE {
	half := len(m) / 2
	out := make(MLE, half)
	for i := 0; i < half; i++ {
		lo, hi := m[2*i], m[2*i+1]
		out[i] = scalar.Add(lo, scalar.Mul(challenge, scalar.Sub(hi, lo)))
	}
	return out
}
