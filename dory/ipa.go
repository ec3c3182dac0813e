package dory

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254"

	"github.com/varshith257/sxt-proof-of-sql/scalar"
	"github.com/varshith257/sxt-proof-of-sql/transcript"
)

// EvaluationProof is the extended inner-product argument of §4.4: ν
// "reduce" rounds (each appending two G_T and two G1 messages and drawing
// one challenge), followed by a "fold-scalars" stage collapsing to a base
// state, checked by the verifier via one pairing identity and two group
// identities (together, "the scalar-product check").
type EvaluationProof struct {
	Nu int

	// CwInit is the prover's commitment to the row-tensor-folded row
	// vector (§4.4's matrix-folding trick), the anchor both stages open.
	CwInit bn254.G1Affine

	// Reduce-round messages, one slice entry per round.
	D1L, D1R []bn254.GT
	EL, ER   []bn254.G1Affine

	// V1Final is the revealed length-1 folded row-commitment vector; no
	// privacy goal (§1) lets the prover reveal it directly rather than
	// blind it.
	V1Final bn254.G1Affine

	// Fold-scalars stage messages, one slice entry per round.
	L2, R2 []bn254.G1Affine

	// AFinal is the revealed length-1 folded row value.
	AFinal scalar.Scalar
}

const (
	reducePhase      = transcript.LabelDoryReduce
	foldScalarsPhase = transcript.LabelDoryFoldScalars
	scalarProductTag = transcript.LabelDoryScalarProduct
)

// buildMatrix tiles values row-major into an m×m matrix, zero-padding any
// entries past len(values).
func buildMatrix(values []scalar.Scalar, m int) [][]scalar.Scalar {
	matrix := make([][]scalar.Scalar, m)
	for i := 0; i < m; i++ {
		row := make([]scalar.Scalar, m)
		for j := 0; j < m; j++ {
			idx := i*m + j
			if idx < len(values) {
				row[j] = values[idx]
			} else {
				row[j] = scalar.Zero()
			}
		}
		matrix[i] = row
	}
	return matrix
}

// Prove builds an EvaluationProof that values, tiled into an m×m matrix
// (m=2^ν), evaluates to claimedY at the tensor point x=(xRow||xCol) of
// length 2ν (§4.4).
func Prove(ps *ProverSetup, tr *transcript.Transcript, values []scalar.Scalar, x []scalar.Scalar, claimedY scalar.Scalar) (*EvaluationProof, error) {
	if len(x)%2 != 0 {
		return nil, fmt.Errorf("dory: tensor point must have even length, got %d", len(x))
	}
	nu := len(x) / 2
	if nu > ps.MaxNu() {
		return nil, fmt.Errorf("dory: nu=%d exceeds max_nu=%d", nu, ps.MaxNu())
	}
	m := 1 << uint(nu)

	rowTensor := ComputeLagrangeBasis(x[:nu])
	colTensor := ComputeLagrangeBasis(x[nu:])

	matrix := buildMatrix(values, m)

	rowCommits := make([]bn254.G1Affine, m)
	for i := 0; i < m; i++ {
		c, err := msmG1Scalars(ps.params.Gamma1[:m], matrix[i])
		if err != nil {
			return nil, fmt.Errorf("dory: committing row %d: %v", i, err)
		}
		rowCommits[i] = c
	}

	// batchedRow[j] = sum_i rowTensor[i] * matrix[i][j].
	batchedRow := make([]scalar.Scalar, m)
	for j := 0; j < m; j++ {
		acc := scalar.Zero()
		for i := 0; i < m; i++ {
			acc = scalar.Add(acc, scalar.Mul(rowTensor[i], matrix[i][j]))
		}
		batchedRow[j] = acc
	}

	cwInit, err := msmG1Scalars(ps.params.Gamma1[:m], batchedRow)
	if err != nil {
		return nil, fmt.Errorf("dory: committing batched row: %v", err)
	}

	cwInitBytes := cwInit.RawBytes()
	tr.Append(scalarProductTag, cwInitBytes[:])
	tr.AppendScalar(scalarProductTag, claimedY)

	proof := &EvaluationProof{Nu: nu, CwInit: cwInit}

	// Phase 1: reduce rounds over (rowCommits, Gamma2, rowTensor).
	v1 := append([]bn254.G1Affine(nil), rowCommits...)
	g2 := append([]bn254.G2Affine(nil), ps.params.Gamma2[:m]...)
	rt := append([]scalar.Scalar(nil), rowTensor...)

	for round := 0; round < nu; round++ {
		half := len(v1) / 2
		v1L, v1R := v1[:half], v1[half:]
		g2L, g2R := g2[:half], g2[half:]
		rtL, rtR := rt[:half], rt[half:]

		d1l, err := bn254.Pair(v1L, g2R)
		if err != nil {
			return nil, fmt.Errorf("dory: round %d pairing D1L: %v", round, err)
		}
		d1r, err := bn254.Pair(v1R, g2L)
		if err != nil {
			return nil, fmt.Errorf("dory: round %d pairing D1R: %v", round, err)
		}
		el, err := msmG1Scalars(v1L, rtR)
		if err != nil {
			return nil, fmt.Errorf("dory: round %d MSM EL: %v", round, err)
		}
		er, err := msmG1Scalars(v1R, rtL)
		if err != nil {
			return nil, fmt.Errorf("dory: round %d MSM ER: %v", round, err)
		}

		proof.D1L = append(proof.D1L, d1l)
		proof.D1R = append(proof.D1R, d1r)
		proof.EL = append(proof.EL, el)
		proof.ER = append(proof.ER, er)

		d1lBytes, d1rBytes := d1l.Bytes(), d1r.Bytes()
		elBytes, erBytes := el.RawBytes(), er.RawBytes()
		tr.Append(reducePhase, d1lBytes[:])
		tr.Append(reducePhase, d1rBytes[:])
		tr.Append(reducePhase, elBytes[:])
		tr.Append(reducePhase, erBytes[:])
		beta := tr.ChallengeScalar(reducePhase)
		betaInv := scalar.Invert(beta)

		v1 = foldG1(v1L, v1R, beta)
		g2 = foldG2(g2L, g2R, betaInv)
		rt = foldScalars(rtL, rtR, betaInv)
	}
	proof.V1Final = v1[0]

	// Phase 2: fold-scalars stage, opening CwInit + y*H1 against
	// (batchedRow, colTensor, Gamma1).
	u := ps.params.H1
	a := append([]scalar.Scalar(nil), batchedRow...)
	b := append([]scalar.Scalar(nil), colTensor...)
	g := append([]bn254.G1Affine(nil), ps.params.Gamma1[:m]...)

	for round := 0; round < nu; round++ {
		half := len(a) / 2
		aL, aR := a[:half], a[half:]
		bL, bR := b[:half], b[half:]
		gL, gR := g[:half], g[half:]

		crossL := innerProduct(aL, bR)
		crossR := innerProduct(aR, bL)

		lPoint, err := msmG1Scalars(gR, aL)
		if err != nil {
			return nil, fmt.Errorf("dory: fold-scalars round %d MSM L: %v", round, err)
		}
		lMsg := addScaled(lPoint, u, crossL)
		rPoint, err := msmG1Scalars(gL, aR)
		if err != nil {
			return nil, fmt.Errorf("dory: fold-scalars round %d MSM R: %v", round, err)
		}
		rMsg := addScaled(rPoint, u, crossR)

		proof.L2 = append(proof.L2, lMsg)
		proof.R2 = append(proof.R2, rMsg)
		lMsgBytes, rMsgBytes := lMsg.RawBytes(), rMsg.RawBytes()
		tr.Append(foldScalarsPhase, lMsgBytes[:])
		tr.Append(foldScalarsPhase, rMsgBytes[:])
		beta := tr.ChallengeScalar(foldScalarsPhase)
		betaInv := scalar.Invert(beta)

		a = foldScalars(aL, aR, beta)
		b = foldScalars(bL, bR, betaInv)
		g = foldG1(gL, gR, betaInv)
	}
	proof.AFinal = a[0]

	return proof, nil
}

// Verify checks proof against commitment, the tensor point x, and the
// claimed evaluation y: replaying the same public-vector folds the prover
// performed, checking the reduce rounds' running pairing value against
// proof's messages, then the fold-scalars stage's running group value,
// and finally the base-case scalar-product identity. Any mismatch —
// tampered commitment, tampered proof, or wrong y — makes this return
// false; it never panics on adversarial input.
func Verify(vs *VerifierSetup, tr *transcript.Transcript, commitment *Commitment, x []scalar.Scalar, claimedY scalar.Scalar, proof *EvaluationProof) (bool, error) {
	if len(x)%2 != 0 {
		return false, fmt.Errorf("dory: tensor point must have even length, got %d", len(x))
	}
	nu := len(x) / 2
	if nu > vs.MaxNu() {
		return false, fmt.Errorf("dory: nu=%d exceeds max_nu=%d", nu, vs.MaxNu())
	}
	if proof.Nu != nu || len(proof.D1L) != nu || len(proof.D1R) != nu ||
		len(proof.EL) != nu || len(proof.ER) != nu || len(proof.L2) != nu || len(proof.R2) != nu {
		return false, nil
	}
	m := 1 << uint(nu)

	rowTensor := ComputeLagrangeBasis(x[:nu])
	colTensor := ComputeLagrangeBasis(x[nu:])

	cwInitBytes := proof.CwInit.RawBytes()
	tr.Append(scalarProductTag, cwInitBytes[:])
	tr.AppendScalar(scalarProductTag, claimedY)

	// Phase 1: replay the pairing-value fold.
	cRunning := commitment.Value
	cwRunning := proof.CwInit
	g2 := append([]bn254.G2Affine(nil), vs.params.Gamma2[:m]...)
	rt := append([]scalar.Scalar(nil), rowTensor...)

	for round := 0; round < nu; round++ {
		half := len(g2) / 2
		g2L, g2R := g2[:half], g2[half:]
		rtL, rtR := rt[:half], rt[half:]

		d1l, d1r := proof.D1L[round], proof.D1R[round]
		el, er := proof.EL[round], proof.ER[round]

		d1lBytes, d1rBytes := d1l.Bytes(), d1r.Bytes()
		elBytes, erBytes := el.RawBytes(), er.RawBytes()
		tr.Append(reducePhase, d1lBytes[:])
		tr.Append(reducePhase, d1rBytes[:])
		tr.Append(reducePhase, elBytes[:])
		tr.Append(reducePhase, erBytes[:])
		beta := tr.ChallengeScalar(reducePhase)
		betaInv := scalar.Invert(beta)

		var term1, term2, next bn254.GT
		term1.Exp(d1l, betaInv.BigInt())
		term2.Exp(d1r, beta.BigInt())
		next.Mul(&cRunning, &term1)
		next.Mul(&next, &term2)
		cRunning = next

		cwRunning = addScaled(addScaled(cwRunning, el, betaInv), er, beta)

		g2 = foldG2(g2L, g2R, betaInv)
		rt = foldScalars(rtL, rtR, betaInv)
	}

	pairingCheck, err := bn254.Pair([]bn254.G1Affine{proof.V1Final}, []bn254.G2Affine{g2[0]})
	if err != nil {
		return false, fmt.Errorf("dory: base-case pairing: %v", err)
	}
	if !pairingCheck.Equal(&cRunning) {
		return false, nil
	}

	rtFinalCheck := addScaled(bn254.G1Affine{}, proof.V1Final, rt[0])
	if !cwRunning.Equal(&rtFinalCheck) {
		return false, nil
	}

	// Phase 2: replay the fold-scalars group-value fold.
	u := vs.params.H1
	var yu bn254.G1Affine
	yu = addScaled(bn254.G1Affine{}, u, claimedY)
	var pRunning bn254.G1Affine
	pRunning.Add(&proof.CwInit, &yu)

	b := append([]scalar.Scalar(nil), colTensor...)
	g := append([]bn254.G1Affine(nil), vs.params.Gamma1[:m]...)

	for round := 0; round < nu; round++ {
		half := len(b) / 2
		bL, bR := b[:half], b[half:]
		gL, gR := g[:half], g[half:]

		lMsg, rMsg := proof.L2[round], proof.R2[round]
		lMsgBytes, rMsgBytes := lMsg.RawBytes(), rMsg.RawBytes()
		tr.Append(foldScalarsPhase, lMsgBytes[:])
		tr.Append(foldScalarsPhase, rMsgBytes[:])
		beta := tr.ChallengeScalar(foldScalarsPhase)
		betaInv := scalar.Invert(beta)

		pRunning = addScaled(addScaled(pRunning, lMsg, betaInv), rMsg, beta)

		b = foldScalars(bL, bR, betaInv)
		g = foldG1(gL, gR, betaInv)
	}

	gFinal := addScaled(bn254.G1Affine{}, g[0], proof.AFinal)
	abu := addScaled(bn254.G1Affine{}, u, scalar.Mul(proof.AFinal, b[0]))
	var expected bn254.G1Affine
	expected.Add(&gFinal, &abu)

	return pRunning.Equal(&expected), nil
}
