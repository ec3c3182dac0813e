package dory

import "github.com/varshith257/sxt-proof-of-sql/scalar"

// ComputeLagrangeBasis builds the full tensored Lagrange basis χ(x) for a
// point x of length ℓ, a vector of length 2^ℓ, using the recurrence of
// §4.4: "the recurrence that builds length 2^k from length 2^{k-1} in
// place". x[0] is the most significant coordinate.
func ComputeLagrangeBasis(x []scalar.Scalar) []scalar.Scalar {
	basis := []scalar.Scalar{scalar.One()}
	for _, xt := range x {
		next := make([]scalar.Scalar, len(basis)*2)
		one := scalar.One()
		for i, b := range basis {
			next[2*i] = scalar.Mul(b, scalar.Sub(one, xt))
			next[2*i+1] = scalar.Mul(b, xt)
		}
		basis = next
	}
	return basis
}

// ComputeTruncatedLagrangeBasisSum returns Σ_{i<m} χ_i(x) in O(len(x))
// field operations, without materializing the full 2^len(x) basis vector
// — the sublinearity §4.4 requires. It agrees with the naive expansion
// (ComputeLagrangeBasis then summing the first m entries) for all
// m ≤ 2^len(x) (§8).
func ComputeTruncatedLagrangeBasisSum(m int, x []scalar.Scalar) scalar.Scalar {
	if m <= 0 {
		return scalar.Zero()
	}
	full := 1 << len(x)
	if m >= full {
		return scalar.One()
	}
	if len(x) == 0 {
		// m is 0 or >=1 here; the two cases above already handled both,
		// this branch is unreachable but kept for clarity of the
		// recursion's base case.
		return scalar.Zero()
	}
	one := scalar.One()
	half := full / 2
	if m <= half {
		return scalar.Mul(scalar.Sub(one, x[0]), ComputeTruncatedLagrangeBasisSum(m, x[1:]))
	}
	rest := ComputeTruncatedLagrangeBasisSum(m-half, x[1:])
	return scalar.Add(scalar.Sub(one, x[0]), scalar.Mul(x[0], rest))
}

// ComputeTruncatedLagrangeBasisInnerProduct returns
// Σ_{i<m} χ_i(a)·χ_i(b), likewise in O(len(a)) field operations (§4.4,
// §8). a and b must have equal length.
func ComputeTruncatedLagrangeBasisInnerProduct(m int, a, b []scalar.Scalar) scalar.Scalar {
	if len(a) != len(b) {
		panic("dory: ComputeTruncatedLagrangeBasisInnerProduct: mismatched tensor lengths")
	}
	if m <= 0 {
		return scalar.Zero()
	}
	full := 1 << len(a)
	if m >= full {
		return fullLagrangeInnerProduct(a, b)
	}
	if len(a) == 0 {
		return scalar.Zero()
	}
	half := full / 2
	one := scalar.One()
	low := scalar.Mul(scalar.Sub(one, a[0]), scalar.Sub(one, b[0]))
	if m <= half {
		return scalar.Mul(low, ComputeTruncatedLagrangeBasisInnerProduct(m, a[1:], b[1:]))
	}
	high := scalar.Mul(a[0], b[0])
	lowFull := scalar.Mul(low, fullLagrangeInnerProduct(a[1:], b[1:]))
	highPart := scalar.Mul(high, ComputeTruncatedLagrangeBasisInnerProduct(m-half, a[1:], b[1:]))
	return scalar.Add(lowFull, highPart)
}

// fullLagrangeInnerProduct computes Σ_{all i} χ_i(a)·χ_i(b) via the
// closed-form product Π_t (a_t·b_t + (1-a_t)·(1-b_t)), each factor being
// the "both 0" plus "both 1" overlap at coordinate t.
func fullLagrangeInnerProduct(a, b []scalar.Scalar) scalar.Scalar {
	result := scalar.One()
	for t := range a {
		result = scalar.Mul(result, bitOverlap(a[t], b[t]))
	}
	return result
}

// bitOverlap returns a*b + (1-a)*(1-b), the probability (in the field's
// arithmetic sense) that two boolean-valued coordinates agree.
func bitOverlap(a, b scalar.Scalar) scalar.Scalar {
	one := scalar.One()
	return scalar.Add(scalar.Mul(a, b), scalar.Mul(scalar.Sub(one, a), scalar.Sub(one, b)))
}
