package optimize

import (
	"splc/internal/cfg"
	"splc/internal/dataflow"
	"splc/internal/tac"
)

// ConstantFoldingDriver implements spec.md §4.9: alternates constant
// propagation and per-quad rewriting (substitute known constants, then
// call the algebraic simplifier) until a full pass over every block makes
// no further rewrite. Termination follows §9's argument: every successful
// rewrite either strictly lowers a block's CP state or is a no-op, and the
// lattice is finite, so the loop below is bounded purely as a defensive
// backstop, never expected to bind in practice.
//
// This pass only rewrites quad content; it never touches a block's Succ
// edges. A relational quad folded to an unconditional goto keeps its
// original fallthrough-plus-branch edge pair (spec.md §8's self-loop
// boundary case describes exactly this: the quad becomes a goto, the CFG
// is not re-built). Callers that need edges consistent with the rewritten
// quads should rebuild the graph with cfg.Build.
type ConstantFoldingDriver struct{}

func (ConstantFoldingDriver) Name() string { return "Constant Folding" }

func (ConstantFoldingDriver) Description() string {
	return "propagates known constants into quads and simplifies to a fixpoint"
}

const maxFoldIterations = 64

func (d ConstantFoldingDriver) Apply(proc *tac.Procedure, g *cfg.Graph) bool {
	changedOverall := false

	for iter := 0; iter < maxFoldIterations; iter++ {
		cp := dataflow.ConstantPropagation(proc, g)
		index := make(map[string]int, len(cp.Vars))
		for i, name := range cp.Vars {
			index[name] = i
		}

		changedThisPass := false
		for i, b := range g.Blocks {
			if b.Kind != cfg.KindCode {
				continue
			}
			if d.rewriteBlock(proc, b, index, cp.In[i]) {
				changedThisPass = true
			}
		}

		if !changedThisPass {
			break
		}
		changedOverall = true
	}

	if changedOverall {
		log.Debugf("fold: rewrote quads in %s to a constant-propagation fixpoint", proc.Name)
	}
	return changedOverall
}

// rewriteBlock re-simulates b's quads forward from in, substituting known
// constants and simplifying each quad in turn, and folds the result of
// each rewrite back into the local running state so later quads in the
// same block see it (spec.md §4.9 step 3).
func (d ConstantFoldingDriver) rewriteBlock(proc *tac.Procedure, b *cfg.Block, index map[string]int, in dataflow.ConstVector) bool {
	local := append(dataflow.ConstVector(nil), in...)
	changed := false

	kept := make([]bool, len(b.Quads))
	for i := range kept {
		kept[i] = true
	}

	for qi := range b.Quads {
		q := b.Quads[qi]

		if q.Op == tac.Call {
			for _, ref := range referenceArgVars(b.Quads, qi, proc.Locals) {
				setLocal(local, index, ref, dataflow.VariableConst())
			}
			continue
		}
		if q.Op == tac.Param {
			if entry, ok := tac.FindParamDeclaration(b.Quads, qi, proc.Locals); ok && entry.IsReference {
				continue // never substitute into a reference argument
			}
		}

		q.Arg1 = substitute(q.Arg1, local, index)
		q.Arg2 = substitute(q.Arg2, local, index)

		rewritten, remove, didChange := Simplify(q)
		if remove {
			kept[qi] = false
			changed = true
			continue
		}
		if didChange {
			q = rewritten
			b.Quads[qi] = q
			changed = true
		} else if q != b.Quads[qi] {
			b.Quads[qi] = q
			changed = true
		}

		if q.Result.IsVar() {
			setLocal(local, index, q.Result.Var, resultConstness(q, local, index))
		}
	}

	if changed {
		newQuads := b.Quads[:0:0]
		for i, kq := range b.Quads {
			if kept[i] {
				newQuads = append(newQuads, kq)
			}
		}
		b.Quads = newQuads
	}

	return changed
}

func substitute(a tac.Arg, local dataflow.ConstVector, index map[string]int) tac.Arg {
	if !a.IsVar() {
		return a
	}
	if i, ok := index[dataflow.VarKey(a.Var)]; ok {
		if c := local[i]; c.Tag == dataflow.Constant {
			return tac.ConstArg(c.Value)
		}
	}
	return a
}

func setLocal(local dataflow.ConstVector, index map[string]int, v tac.Var, c dataflow.Constness) {
	if i, ok := index[dataflow.VarKey(v)]; ok {
		local[i] = c
	}
}

// resultConstness classifies the value a (possibly just-rewritten) quad
// leaves in its result variable, following dataflow.ConstantPropagation's
// per-quad transfer with one difference: an arithmetic quad whose operands
// are not both constant is Variable here, while CP keeps it Undefined as
// long as an operand is Undefined. Only Constant values are substituted,
// so the difference never changes a rewrite.
func resultConstness(q tac.Quad, local dataflow.ConstVector, index map[string]int) dataflow.Constness {
	switch {
	case q.Op == tac.Assign:
		return operandConstness(q.Arg1, local, index)
	case q.Op == tac.Neg:
		v := operandConstness(q.Arg1, local, index)
		if v.Tag == dataflow.Constant {
			return dataflow.ConstantConst(-v.Value)
		}
		return v
	case q.Op.IsArithmetic():
		a := operandConstness(q.Arg1, local, index)
		b := operandConstness(q.Arg2, local, index)
		if a.Tag == dataflow.Constant && b.Tag == dataflow.Constant {
			if folded, ok := foldArithmetic(q.Op, a.Value, b.Value); ok {
				return dataflow.ConstantConst(folded)
			}
		}
		return dataflow.VariableConst()
	default:
		return dataflow.VariableConst()
	}
}

func operandConstness(a tac.Arg, local dataflow.ConstVector, index map[string]int) dataflow.Constness {
	switch {
	case a.IsConst():
		return dataflow.ConstantConst(a.Const)
	case a.IsVar():
		if i, ok := index[dataflow.VarKey(a.Var)]; ok {
			return local[i]
		}
		return dataflow.VariableConst()
	default:
		return dataflow.VariableConst()
	}
}
