package optimize

import (
	"splc/internal/cfg"
	"splc/internal/dataflow"
	"splc/internal/tac"
)

// DeadCodeElimination implements spec.md §4.8: using live variables, walk
// each block's code in reverse and drop a side-effect-free definition that
// is neither live-out of the block nor used later in the block.
type DeadCodeElimination struct{}

func (DeadCodeElimination) Name() string { return "Dead Code Elimination" }

func (DeadCodeElimination) Description() string {
	return "removes side-effect-free quads whose result is dead at every use site"
}

func (dce DeadCodeElimination) Apply(proc *tac.Procedure, g *cfg.Graph) bool {
	lv := dataflow.LiveVariables(proc, g)
	changed := false

	for i, b := range g.Blocks {
		if b.Kind != cfg.KindCode {
			continue
		}
		if dce.optimizeBlock(b, lv.LiveOut(i)) {
			changed = true
		}
	}

	if changed {
		log.Debugf("dce: removed one or more dead quads in %s", proc.Name)
	}
	return changed
}

// sideEffectFree reports whether op's quad can be dropped outright when its
// result is unused: arithmetic, unary negation, assign, and array_load.
// array_store, call, param, branches, labels, and gotos are never removed
// (spec.md §4.8).
func sideEffectFree(op tac.Op) bool {
	return op.IsArithmetic() || op == tac.Neg || op == tac.Assign || op == tac.ArrayLoad
}

func (dce DeadCodeElimination) optimizeBlock(b *cfg.Block, liveOut map[string]bool) bool {
	live := make(map[string]bool, len(liveOut))
	for v := range liveOut {
		live[v] = true
	}

	kept := make([]bool, len(b.Quads))
	changed := false

	for i := len(b.Quads) - 1; i >= 0; i-- {
		q := b.Quads[i]
		kept[i] = true

		if q.Result.IsVar() && sideEffectFree(q.Op) {
			key := dataflow.VarKey(q.Result.Var)
			if !live[key] {
				kept[i] = false
				changed = true
				continue // a removed def's own operands were never "used" by it
			}
			// This definition is live; the variable is no longer live
			// above it (its value here is what satisfies that liveness).
			delete(live, key)
		}

		for _, used := range readVars(q) {
			live[used] = true
		}
	}

	if !changed {
		return false
	}

	newQuads := b.Quads[:0:0]
	for i, q := range b.Quads {
		if kept[i] {
			newQuads = append(newQuads, q)
		}
	}
	b.Quads = newQuads
	return true
}

// readVars mirrors dataflow's own array_store/base-read treatment so DCE's
// running local-use set agrees with the live-variables analysis it relies
// on for the block's live-out boundary.
func readVars(q tac.Quad) []string {
	var out []string
	if q.Arg1.IsVar() {
		out = append(out, dataflow.VarKey(q.Arg1.Var))
	}
	if q.Arg2.IsVar() {
		out = append(out, dataflow.VarKey(q.Arg2.Var))
	}
	if q.Op == tac.ArrayStore && q.Result.IsVar() {
		out = append(out, dataflow.VarKey(q.Result.Var))
	}
	return out
}
