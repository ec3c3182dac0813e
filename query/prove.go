package query

import (
	"fmt"

	"github.com/varshith257/sxt-proof-of-sql/arena"
	"github.com/varshith257/sxt-proof-of-sql/dory"
	"github.com/varshith257/sxt-proof-of-sql/proofbuilder"
	"github.com/varshith257/sxt-proof-of-sql/proofexprs"
	"github.com/varshith257/sxt-proof-of-sql/proofplans"
	"github.com/varshith257/sxt-proof-of-sql/sumcheck"
	"github.com/varshith257/sxt-proof-of-sql/transcript"
)

// ProveQuery executes plan against data, producing the claimed result
// table and the proof that ties it to the referenced columns' Dory
// commitments (§2's prove data flow). schema validates the plan before
// any cryptography runs; cfg.MaxNu bounds how large a table this prover
// is willing to commit openings for.
func ProveQuery(plan proofplans.ProofPlan, schema SchemaAccessor, data proofexprs.Accessor, ps *dory.ProverSetup, cfg Config) (*arena.OwnedTable, *Proof, error) {
	if err := validatePlan(plan, schema); err != nil {
		return nil, nil, err
	}

	table := tableRefOf(plan)
	n := schema.GetLength(table)
	nu := dory.NuForLength(n)
	if nu > cfg.MaxNu {
		return nil, nil, fmt.Errorf("query: table %s needs nu=%d, exceeds configured max_nu=%d", table, nu, cfg.MaxNu)
	}

	count := proofbuilder.NewCountBuilder(n)
	plan.Count(count)

	a := arena.New()
	final := proofbuilder.NewFinalRoundBuilder(n)
	resultTable, err := plan.ProverEvaluate(final, a, data)
	if err != nil {
		return nil, nil, err
	}
	if err := count.CheckFinalRound(final); err != nil {
		return nil, nil, fmt.Errorf("query: internal error: %w", err)
	}

	refs := referencedColumns(plan)
	tr := transcript.New("posql-query-v1")
	tr.AppendUint64(transcript.LabelQueryBinding, uint64(n))
	tr.AppendUint64(transcript.LabelQueryBinding, uint64(len(refs)))
	for _, ref := range refs {
		tr.Append(transcript.LabelQueryBinding, []byte(ref.String()))
	}

	result, err := sumcheck.Prove(tr, n, final.MLEs(), final.Subpolynomials())
	if err != nil {
		return nil, nil, fmt.Errorf("query: internal error: %w", err)
	}

	openings := make([]ColumnOpening, len(refs))
	for i, ref := range refs {
		values := data.GetColumn(ref).ToScalars(a)
		eval := mleEvalAt(values, result.ChallengePoint)
		x := dorySplitX(result.ChallengePoint, nu)
		proof, err := dory.Prove(ps, tr, values, x, eval)
		if err != nil {
			return nil, nil, fmt.Errorf("query: opening column %s: %w", ref, err)
		}
		openings[i] = ColumnOpening{Ref: ref, Eval: eval, Proof: proof}
	}

	tr.AppendUint64(transcript.LabelVerificationHash, uint64(n))
	proof := &Proof{
		TableLength:       n,
		RoundPolynomials:  result.RoundPolynomials,
		NumSubpolynomials: count.NumSubpolynomials(),
		MaxDegree:         count.MaxDegree(),
		ColumnOpenings:    openings,
		VerificationHash:  tr.FinalState(),
	}
	return resultTable, proof, nil
}
