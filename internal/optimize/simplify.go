package optimize

import "splc/internal/tac"

// Simplify applies spec.md §4.10's algebraic identities to a single quad in
// isolation — it never consults CP state itself; the folding driver
// substitutes known-constant operands before calling it (spec.md §9:
// "this ordering avoids simplifier needing access to the CP state").
//
// It returns the possibly-rewritten quad, whether the quad should be
// dropped outright (a statically-false relational), and whether anything
// changed at all.
func Simplify(q tac.Quad) (rewritten tac.Quad, remove bool, changed bool) {
	switch {
	case q.Op.IsArithmetic() && q.Result.IsVar():
		return simplifyArithmetic(q)
	case q.Op.IsRelational():
		return simplifyRelational(q)
	default:
		return q, false, false
	}
}

func isConstVal(a tac.Arg, val int32) bool { return a.IsConst() && a.Const == val }

func simplifyArithmetic(q tac.Quad) (tac.Quad, bool, bool) {
	dst := q.Result.Var
	a1, a2 := q.Arg1, q.Arg2

	switch q.Op {
	case tac.Add:
		if isConstVal(a2, 0) {
			return tac.NewAssign(dst, a1), false, true
		}
		if isConstVal(a1, 0) {
			return tac.NewAssign(dst, a2), false, true
		}

	case tac.Sub:
		if isConstVal(a2, 0) {
			return tac.NewAssign(dst, a1), false, true
		}
		if isConstVal(a1, 0) {
			return tac.NewNeg(dst, a2), false, true
		}

	case tac.Mul:
		if isConstVal(a2, 1) {
			return tac.NewAssign(dst, a1), false, true
		}
		if isConstVal(a1, 1) {
			return tac.NewAssign(dst, a2), false, true
		}
		if isConstVal(a2, 0) || isConstVal(a1, 0) {
			return tac.NewAssign(dst, tac.ConstArg(0)), false, true
		}

	case tac.Div:
		// Division by zero is a precondition violation (spec.md §4.10):
		// refuse to fold and leave the quad intact, even when the
		// dividend is statically zero.
		if isConstVal(a2, 0) {
			return q, false, false
		}
		if isConstVal(a2, 1) {
			return tac.NewAssign(dst, a1), false, true
		}
		if isConstVal(a1, 0) {
			return tac.NewAssign(dst, tac.ConstArg(0)), false, true
		}
	}

	if a1.IsConst() && a2.IsConst() {
		if folded, ok := foldArithmetic(q.Op, a1.Const, a2.Const); ok {
			return tac.NewAssign(dst, tac.ConstArg(folded)), false, true
		}
	}

	return q, false, false
}

func foldArithmetic(op tac.Op, a, b int32) (int32, bool) {
	switch op {
	case tac.Add:
		return a + b, true
	case tac.Sub:
		return a - b, true
	case tac.Mul:
		return a * b, true
	case tac.Div:
		if b == 0 {
			return 0, false
		}
		return a / b, true
	default:
		return 0, false
	}
}

func simplifyRelational(q tac.Quad) (tac.Quad, bool, bool) {
	if !q.Arg1.IsConst() || !q.Arg2.IsConst() {
		return q, false, false
	}
	if evalRelational(q.Op, q.Arg1.Const, q.Arg2.Const) {
		return tac.NewGoto(q.Result.Label), false, true
	}
	return q, true, true
}

func evalRelational(op tac.Op, a, b int32) bool {
	switch op {
	case tac.Eq:
		return a == b
	case tac.Neq:
		return a != b
	case tac.Lt:
		return a < b
	case tac.Le:
		return a <= b
	case tac.Gt:
		return a > b
	case tac.Ge:
		return a >= b
	default:
		return false
	}
}
