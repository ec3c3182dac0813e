// Package arena implements the bump-allocated region every proof-plan
// operator draws its intermediate columns from (§4.2), plus the typed,
// borrowed Column views and owned table/column/ref types of §3.
package arena

import "fmt"

// Arena is a bump-allocated region: every allocation made through it lives
// until Reset is called, and nothing is freed individually (§4.2, §9
// "Arena everywhere"). A single Arena backs exactly one proof; it is not
// safe for concurrent use.
type Arena struct {
	slices []any
	strs   []string
}

// New returns an empty arena.
func New() *Arena {
	return &Arena{}
}

// Reset drops every allocation made through a, making it ready for reuse
// by the next proof. Cancellation (§5) is exactly "the caller drops the
// arena and transcript"; Reset is the mechanical form of that.
func (a *Arena) Reset() {
	a.slices = a.slices[:0]
	a.strs = a.strs[:0]
}

// AllocSliceFillWith allocates a slice of n elements of type T, filling
// element i by calling f(i), and keeps it alive for the lifetime of the
// arena. This is the one allocation primitive every operator's
// result_evaluate/prover_evaluate uses to build an intermediate column
// (§4.2).
func AllocSliceFillWith[T any](a *Arena, n int, f func(int) T) []T {
	s := make([]T, n)
	for i := range s {
		s[i] = f(i)
	}
	a.slices = append(a.slices, s)
	return s
}

// AllocSlice allocates a zero-valued slice of n elements of type T kept
// alive for the lifetime of the arena, for operators that fill it by
// index afterwards rather than through a generator function.
func AllocSlice[T any](a *Arena, n int) []T {
	s := make([]T, n)
	a.slices = append(a.slices, s)
	return s
}

// AllocStr copies s into arena-owned storage and returns the copy. Every
// VarChar value a result_evaluate call produces is allocated this way so
// that it shares the arena's lifetime like any other column payload.
func (a *Arena) AllocStr(s string) string {
	b := make([]byte, len(s))
	copy(b, s)
	owned := string(b)
	a.strs = append(a.strs, owned)
	return owned
}

// mustLen panics if two borrowed columns participating in the same
// operation don't share a length; this is the single-length invariant of
// §3 ("two columns participating in the same operation must share
// length"). A length mismatch is an arena-misuse bug (§4.7 "prover panics
// on arena misuse are bugs"), never a recoverable error.
func mustLen(name string, got, want int) {
	if got != want {
		panic(fmt.Sprintf("arena: length mismatch for %s: got %d, want %d", name, got, want))
	}
}
