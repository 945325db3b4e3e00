package optimize

import (
	"splc/internal/cfg"
	"splc/internal/tac"
)

// CommonSubexpressionElimination implements spec.md §4.7: an intra-block
// Available Expressions Buffer (AEB) keyed by (op, arg1, arg2). A hit
// rewrites the current quad to `assign dst, holder` instead of
// recomputing; the original computation that first populated the entry is
// left in place. The AEB is reset at every block boundary.
//
// Grounded on original_source/src/optimizations/common_subexpression_elimination.rs
// and its Quadrupel-keyed AEBEntry, whose PartialEq always returns false
// (the reference implementation never actually hits); this is the real,
// hit-capable version spec.md §4.7 describes.
type CommonSubexpressionElimination struct{}

func (CommonSubexpressionElimination) Name() string { return "Common Subexpression Elimination" }

func (CommonSubexpressionElimination) Description() string {
	return "replaces intra-block recomputation of an already-available expression with an assign from its holder"
}

func (cse CommonSubexpressionElimination) Apply(proc *tac.Procedure, g *cfg.Graph) bool {
	changed := false
	for _, b := range g.Blocks {
		if b.Kind != cfg.KindCode {
			continue
		}
		if cse.optimizeBlock(proc, b) {
			changed = true
		}
	}
	if changed {
		log.Debugf("cse: rewrote one or more quads in %s", proc.Name)
	}
	return changed
}

// aebKey identifies a computed expression by its opcode and operands. Arg
// is already a comparable tagged-union struct, so two keys are equal only
// when both the operator and every operand (including variable identity)
// match exactly.
type aebKey struct {
	op   tac.Op
	arg1 tac.Arg
	arg2 tac.Arg
}

// aebEntry records the holder (the variable still carrying the first
// computation's result) for a key. Relational quads have no Var result —
// their "value" is a branch decision, not a reusable operand — so they
// populate an AEB entry with no holder: tracked for invalidation, but
// never rewritten on a hit.
type aebEntry struct {
	holder    tac.Var
	hasHolder bool
}

func (cse CommonSubexpressionElimination) optimizeBlock(proc *tac.Procedure, b *cfg.Block) bool {
	changed := false
	aeb := make(map[aebKey]aebEntry)

	for i := range b.Quads {
		q := &b.Quads[i]

		var key aebKey
		insert := false
		if isComputation(q.Op) {
			key = aebKey{op: q.Op, arg1: q.Arg1, arg2: q.Arg2}
			if entry, ok := aeb[key]; ok {
				if entry.hasHolder && q.Result.IsVar() {
					*q = tac.NewAssign(q.Result.Var, tac.VarArg(entry.holder))
					changed = true
				}
			} else {
				insert = true
			}
		}

		invalidate(aeb, proc, b.Quads, i)

		// Record the new entry only after this quad's own redefinition has
		// been invalidated, and not at all when the quad overwrites one of
		// its own inputs (x := x + 1 no longer holds the keyed value).
		if insert && !(q.Result.IsVar() && (argMentions(key.arg1, q.Result.Var) || argMentions(key.arg2, q.Result.Var))) {
			var entry aebEntry
			if q.Result.IsVar() {
				entry = aebEntry{holder: q.Result.Var, hasHolder: true}
			}
			aeb[key] = entry
		}
	}

	return changed
}

func isComputation(op tac.Op) bool {
	return op.IsArithmetic() || op == tac.Neg || op.IsRelational()
}

// invalidate drops every AEB entry that mentions, as an input or as its
// own holder, a variable that quads[i] redefines (spec.md §4.7). A call
// that writes through a reference parameter redefines that parameter's
// variable too.
func invalidate(aeb map[aebKey]aebEntry, proc *tac.Procedure, quads []tac.Quad, i int) {
	q := quads[i]

	var redefined []tac.Var
	if q.Result.IsVar() {
		redefined = append(redefined, q.Result.Var)
	}
	if q.Op == tac.Call {
		redefined = append(redefined, referenceArgVars(quads, i, proc.Locals)...)
	}

	for _, v := range redefined {
		for key, entry := range aeb {
			if argMentions(key.arg1, v) || argMentions(key.arg2, v) || (entry.hasHolder && entry.holder == v) {
				delete(aeb, key)
			}
		}
	}
}

func argMentions(a tac.Arg, v tac.Var) bool {
	return a.IsVar() && a.Var == v
}
