package dataflow

import (
	"splc/internal/cfg"
	"splc/internal/tac"
)

// LVResult is the outcome of live-variables analysis: the variable universe
// (by stable index) plus per-block In/Out bitsets (spec.md §4.5).
type LVResult struct {
	Vars []string
	Result[BitSet]
}

func (r LVResult) LiveOut(blockIdx int) map[string]bool {
	return r.decode(r.Out[blockIdx])
}

func (r LVResult) LiveIn(blockIdx int) map[string]bool {
	return r.decode(r.In[blockIdx])
}

func (r LVResult) decode(set BitSet) map[string]bool {
	out := make(map[string]bool)
	for _, bit := range set.Bits() {
		out[r.Vars[bit]] = true
	}
	return out
}

// LiveVariables runs spec.md §4.5 over proc's CFG g. The universe is the
// set of distinct variables ever defined anywhere in the procedure.
func LiveVariables(proc *tac.Procedure, g *cfg.Graph) LVResult {
	vars, index := buildVarUniverse(g)
	n := len(vars)

	lattice := BitSetLattice{}
	transfer := make([]func(BitSet) BitSet, len(g.Blocks))
	for i, b := range g.Blocks {
		t := lvBlockTransfer(b, index, n)
		transfer[i] = func(c BitSet) BitSet { return t.Apply(lattice, c) }
	}

	res := Run(g, Backward, lattice, n, transfer)
	return LVResult{Vars: vars, Result: res}
}

func buildVarUniverse(g *cfg.Graph) ([]string, map[string]int) {
	var vars []string
	index := make(map[string]int)
	for _, b := range g.Blocks {
		for _, q := range b.Quads {
			if q.Result.IsVar() {
				key := VarKey(q.Result.Var)
				if _, ok := index[key]; !ok {
					index[key] = len(vars)
					vars = append(vars, key)
				}
			}
		}
	}
	return vars, index
}

// lvBlockTransfer computes def[n] (variables written anywhere in n) and
// use[n] (upward-exposed uses: read before any write of the same variable
// within n), per spec.md §4.5.
func lvBlockTransfer(b *cfg.Block, index map[string]int, n int) BlockTransfer[BitSet] {
	def := NewBitSet(n)
	use := NewBitSet(n)
	definedSoFar := make(map[string]bool)

	for _, q := range b.Quads {
		for _, used := range readVars(q) {
			if !definedSoFar[used] {
				if i, ok := index[used]; ok {
					use = use.Set(i)
				}
			}
		}
		if q.Result.IsVar() {
			key := VarKey(q.Result.Var)
			definedSoFar[key] = true
			def = def.Set(index[key])
		}
	}

	notDef := NewBitSet(n)
	for i := 0; i < n; i++ {
		notDef = notDef.Set(i)
	}
	notDef = AndNot(notDef, def)

	return BlockTransfer[BitSet]{A: use, B: notDef}
}

// readVars returns the variable names q reads, in no particular order.
// array_store reads its base (as an address, not a value) in addition to
// its value operand; that base read still counts toward liveness since a
// store needs the base variable's address to be live.
func readVars(q tac.Quad) []string {
	var out []string
	if q.Arg1.IsVar() {
		out = append(out, VarKey(q.Arg1.Var))
	}
	if q.Arg2.IsVar() {
		out = append(out, VarKey(q.Arg2.Var))
	}
	if q.Op == tac.ArrayStore && q.Result.IsVar() {
		out = append(out, VarKey(q.Result.Var))
	}
	return out
}
