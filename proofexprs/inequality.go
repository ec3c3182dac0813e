package proofexprs

import (
	"math/big"

	"github.com/varshith257/sxt-proof-of-sql/arena"
	"github.com/varshith257/sxt-proof-of-sql/proofbuilder"
	"github.com/varshith257/sxt-proof-of-sql/scalar"
	"github.com/varshith257/sxt-proof-of-sql/sumcheck"
)

// signBitWidth bounds the sign-decomposition gadget to differences d with
// -2^127 <= d < 2^127: the gadget decomposes d + 2^127 into 128 bits
// (§4.7's comparison gadget). Differences of operands up to 64 bits wide
// fit; a difference outside that range (possible between two extreme
// Int128 values, or after large decimal scaling) is out of scope for the
// gadget as implemented here. Recorded as a scope decision in DESIGN.md.
const signBitWidth = 128

func pow2(e int) scalar.Scalar {
	return scalar.FromBigInt(new(big.Int).Lsh(big.NewInt(1), uint(e)))
}

var signOffset = pow2(signBitWidth - 1)

var signOffsetBigInt = new(big.Int).Lsh(big.NewInt(1), signBitWidth-1)

// modulusBigInt recovers the field's prime from the public MaxSigned
// constant: q is odd (prime) so q = 2*MaxSigned + 1.
func modulusBigInt() *big.Int {
	return new(big.Int).Add(new(big.Int).Lsh(scalar.MaxSigned().BigInt(), 1), big.NewInt(1))
}

// toSignedBigInt reinterprets a field element as a signed integer via
// §3's convention: residues in the upper half are negative.
func toSignedBigInt(s scalar.Scalar) *big.Int {
	if !s.IsNegative() {
		return s.BigInt()
	}
	return new(big.Int).Sub(s.BigInt(), modulusBigInt())
}

// SignGadgetExpr decomposes its child's value into signBitWidth bit MLEs,
// asserts each is Boolean, reconstructs the signed value, and returns the
// top bit's complement as the "is negative" result (§4.7 "the gadget
// decomposes the difference into bit MLEs ... the top bit is the
// comparison result").
type SignGadgetExpr struct {
	Child DynProofExpr
}

func (e SignGadgetExpr) ColumnType() arena.ColumnType { return booleanType }

func (e SignGadgetExpr) ReferencedColumns() []arena.ColumnRef { return e.Child.ReferencedColumns() }

func (e SignGadgetExpr) Count(builder *proofbuilder.CountBuilder) {
	e.Child.Count(builder)
	builder.CountIntermediateMLEs(signBitWidth)
	builder.CountSubpolynomials(signBitWidth + 1)
	builder.CountDegree(3) // degree 2 plus the Identity's eq(tau, X) factor
}

func (e SignGadgetExpr) ResultEvaluate(length int, a *arena.Arena, acc Accessor) arena.Column {
	diff := e.Child.ResultEvaluate(length, a, acc).ToScalars(a)
	return boolColumn(a, length, func(i int) bool { return diff[i].IsNegative() })
}

func (e SignGadgetExpr) ProverEvaluate(builder *proofbuilder.FinalRoundBuilder, a *arena.Arena, acc Accessor) arena.Column {
	diff := e.Child.ProverEvaluate(builder, a, acc).ToScalars(a)
	n := builder.TableLength

	bits := make([][]scalar.Scalar, signBitWidth)
	for bi := range bits {
		bits[bi] = arena.AllocSlice[scalar.Scalar](a, n)
	}
	isNegative := arena.AllocSlice[bool](a, n)
	for row := 0; row < n; row++ {
		isNegative[row] = diff[row].IsNegative()
		shifted := new(big.Int).Add(toSignedBigInt(diff[row]), signOffsetBigInt)
		for bi := 0; bi < signBitWidth; bi++ {
			bits[bi][row] = scalar.FromBool(shifted.Bit(bi) == 1)
		}
	}

	for bi := range bits {
		builder.ProduceIntermediateMLE(bits[bi])
	}

	one := scalar.One()
	neg := scalar.Neg(one)
	for bi := range bits {
		minusOne := addConst(bits[bi], neg)
		builder.ProduceSumcheckSubpolynomial(sumcheck.Identity, []sumcheck.Term{
			{Coefficient: one, Factors: []sumcheck.MLE{sumcheck.MLE(bits[bi]), sumcheck.MLE(minusOne)}},
		})
	}

	reconstructTerms := make([]sumcheck.Term, 0, signBitWidth+2)
	for bi := range bits {
		reconstructTerms = append(reconstructTerms, sumcheck.Term{Coefficient: pow2(bi), Factors: []sumcheck.MLE{sumcheck.MLE(bits[bi])}})
	}
	reconstructTerms = append(reconstructTerms, sumcheck.Term{Coefficient: neg, Factors: []sumcheck.MLE{sumcheck.MLE(diff)}})
	reconstructTerms = append(reconstructTerms, sumcheck.Term{Coefficient: neg, Factors: []sumcheck.MLE{sumcheck.MLE(constantMLE(signOffset, n))}})
	builder.ProduceSumcheckSubpolynomial(sumcheck.Identity, reconstructTerms)

	return boolColumn(a, n, func(i int) bool { return isNegative[i] })
}

func (e SignGadgetExpr) VerifierEvaluate(builder *proofbuilder.VerificationBuilder, acc VerifierAccessor) (scalar.Scalar, error) {
	diffEval, err := e.Child.VerifierEvaluate(builder, acc)
	if err != nil {
		return scalar.Scalar{}, err
	}

	bitEvals := make([]scalar.Scalar, signBitWidth)
	for bi := range bitEvals {
		bitEvals[bi] = builder.ConsumeIntermediateMLE()
	}

	one := scalar.One()
	for bi := range bitEvals {
		identity := scalar.Mul(bitEvals[bi], scalar.Sub(bitEvals[bi], one))
		builder.ProduceSumcheckSubpolynomialEvaluation(sumcheck.Identity, identity)
	}

	reconstructed := scalar.Zero()
	for bi := range bitEvals {
		reconstructed = scalar.Add(reconstructed, scalar.Mul(pow2(bi), bitEvals[bi]))
	}
	reconstructIdentity := scalar.Sub(reconstructed, scalar.Add(diffEval, signOffset))
	builder.ProduceSumcheckSubpolynomialEvaluation(sumcheck.Identity, reconstructIdentity)

	topBitEval := bitEvals[signBitWidth-1]
	return scalar.Sub(one, topBitEval), nil
}

// addConst adds c to every element of values, a fresh slice (values is a
// registered MLE and must not be mutated in place).
func addConst(values []scalar.Scalar, c scalar.Scalar) []scalar.Scalar {
	out := make([]scalar.Scalar, len(values))
	for i, v := range values {
		out[i] = scalar.Add(v, c)
	}
	return out
}

// CompareOp selects which of the four inequality comparisons
// InequalityExpr builds (§4.7 "`<`,`<=`,`>`,`>=`").
type CompareOp int

const (
	Less CompareOp = iota
	LessEq
	Greater
	GreaterEq
)

// InequalityExpr builds `lhs <op> rhs` by scaling both operands to a
// common scale, then routing the (possibly swapped, possibly negated)
// difference through SignGadgetExpr (§4.7).
func InequalityExpr(op CompareOp, lhs, rhs DynProofExpr) DynProofExpr {
	left, right := scaleToCommon(lhs, rhs)
	switch op {
	case Less:
		return SignGadgetExpr{Child: SubExpr{Left: left, Right: right}}
	case GreaterEq:
		return NotExpr{Child: SignGadgetExpr{Child: SubExpr{Left: left, Right: right}}}
	case Greater:
		return SignGadgetExpr{Child: SubExpr{Left: right, Right: left}}
	case LessEq:
		return NotExpr{Child: SignGadgetExpr{Child: SubExpr{Left: right, Right: left}}}
	default:
		panic("proofexprs: unknown comparison operator")
	}
}
