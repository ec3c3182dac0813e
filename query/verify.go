package query

import (
	"fmt"

	"github.com/varshith257/sxt-proof-of-sql/arena"
	"github.com/varshith257/sxt-proof-of-sql/dory"
	"github.com/varshith257/sxt-proof-of-sql/proofbuilder"
	"github.com/varshith257/sxt-proof-of-sql/proofplans"
	"github.com/varshith257/sxt-proof-of-sql/scalar"
	"github.com/varshith257/sxt-proof-of-sql/sumcheck"
	"github.com/varshith257/sxt-proof-of-sql/transcript"
)

// verifierAccessor backs proofexprs.VerifierAccessor with a fixed map of
// per-column claimed evaluations, already checked against their Dory
// commitments by VerifyQuery before any DynProofExpr is asked to consume
// one.
type verifierAccessor struct {
	evals map[arena.ColumnRef]scalar.Scalar
}

func (v verifierAccessor) GetColumnEvaluation(ref arena.ColumnRef) (scalar.Scalar, error) {
	e, ok := v.evals[ref]
	if !ok {
		return scalar.Scalar{}, fmt.Errorf("query: no opening supplied for column %s", ref)
	}
	return e, nil
}

// VerifyQuery checks proof against resultTable, schema, and the stored
// commitments (§2's verify data flow). It returns nil on success;
// ErrVerificationFailed on any cryptographic or structural rejection,
// with no further detail per §7's "the verifier never reveals which
// check failed". Parse/plan-construction errors (unknown column, type
// mismatch) and string-decode errors are distinct, non-collapsed
// categories per §7 and are returned directly, wrapped with context.
func VerifyQuery(plan proofplans.ProofPlan, schema SchemaAccessor, commitments CommitmentAccessor, vs *dory.VerifierSetup, resultTable *arena.OwnedTable, proof *Proof, cfg Config) error {
	if err := validatePlan(plan, schema); err != nil {
		return err
	}

	table := tableRefOf(plan)
	n := schema.GetLength(table)
	if proof.TableLength != n {
		return ErrVerificationFailed
	}
	nu := dory.NuForLength(n)
	if nu > cfg.MaxNu {
		return fmt.Errorf("query: table %s needs nu=%d, exceeds configured max_nu=%d", table, nu, cfg.MaxNu)
	}

	count := proofbuilder.NewCountBuilder(n)
	plan.Count(count)

	refs := referencedColumns(plan)
	if len(refs) != len(proof.ColumnOpenings) {
		return ErrVerificationFailed
	}
	for i, ref := range refs {
		if proof.ColumnOpenings[i].Ref != ref {
			return ErrVerificationFailed
		}
	}

	tr := transcript.New("posql-query-v1")
	tr.AppendUint64(transcript.LabelQueryBinding, uint64(n))
	tr.AppendUint64(transcript.LabelQueryBinding, uint64(len(refs)))
	for _, ref := range refs {
		tr.Append(transcript.LabelQueryBinding, []byte(ref.String()))
	}

	sumOK, vresult, err := sumcheck.Verify(tr, n, count.NumSubpolynomials(), count.MaxDegree(), proof.RoundPolynomials)
	if err != nil {
		return ErrVerificationFailed
	}
	if !sumOK {
		return ErrVerificationFailed
	}

	evals := make(map[arena.ColumnRef]scalar.Scalar, len(refs))
	x := dorySplitX(vresult.ChallengePoint, nu)
	for _, opening := range proof.ColumnOpenings {
		commitment, err := commitments.GetCommitment(opening.Ref)
		if err != nil {
			return fmt.Errorf("query: fetching commitment for column %s: %w", opening.Ref, err)
		}
		ok, err := dory.Verify(vs, tr, commitment, x, opening.Eval, opening.Proof)
		if err != nil {
			return ErrVerificationFailed
		}
		if !ok {
			return ErrVerificationFailed
		}
		evals[opening.Ref] = opening.Eval
	}

	verify := proofbuilder.NewVerificationBuilder(n, vresult.ChallengePoint, vresult.EqPoint, nil)
	vacc := verifierAccessor{evals: evals}
	outputEvals, err := plan.VerifierEvaluate(verify, vacc)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	if err := count.CheckVerification(verify); err != nil {
		return ErrVerificationFailed
	}

	recombined, err := verify.Recombine(vresult.ComboCoeffs)
	if err != nil {
		return ErrVerificationFailed
	}
	if !scalar.Equal(recombined, vresult.FinalEvaluation) {
		return ErrVerificationFailed
	}

	names := plan.OutputNames()
	if len(names) != len(outputEvals) {
		return ErrVerificationFailed
	}
	for i, name := range names {
		col, ok := resultTable.Column(name)
		if !ok {
			return ErrVerificationFailed
		}
		expected := mleEvalAt(col.ToScalars(arena.New()), vresult.ChallengePoint)
		if !scalar.Equal(outputEvals[i], expected) {
			return ErrVerificationFailed
		}
	}

	tr.AppendUint64(transcript.LabelVerificationHash, uint64(n))
	if tr.FinalState() != proof.VerificationHash {
		return ErrVerificationFailed
	}
	return nil
}
