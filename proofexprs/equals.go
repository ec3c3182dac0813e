package proofexprs

// EqualsExpr is `lhs = rhs` between two typed expressions (§4.7
// "Equality / comparison between typed expressions"): scale both operands
// to a common scale, subtract, and feed the difference to the equals-zero
// gadget.
func EqualsExpr(lhs, rhs DynProofExpr) DynProofExpr {
	left, right := scaleToCommon(lhs, rhs)
	return EqualsZeroExpr{Child: SubExpr{Left: left, Right: right}}
}
