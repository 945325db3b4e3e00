package dataflow

import (
	"splc/internal/cfg"
	"splc/internal/symbols"
	"splc/internal/tac"
)

// DefSite is one element of reaching definitions' universe: a definition of
// Var at a specific point, or a virtual parameter definition in Start when
// Block is the Start block and Quad is -1 (spec.md §4.4).
type DefSite struct {
	Block int
	Quad  int
	Var   string
}

// RDResult is the outcome of running reaching definitions over one
// procedure's CFG: the universe of definition sites plus the generic
// worklist's per-block In/Out bitsets indexed the same as universe bits.
type RDResult struct {
	Universe []DefSite
	Result[BitSet]
}

// DefsReaching decodes blockIdx's In set back into DefSite values — the
// definitions that may reach the start of that block along some path.
func (r RDResult) DefsReaching(blockIdx int) []DefSite {
	var out []DefSite
	for _, bit := range r.In[blockIdx].Bits() {
		out = append(out, r.Universe[bit])
	}
	return out
}

// VarKey is the stable string identity used to index a variable into a
// dataflow universe. Temporaries are prefixed to keep them from colliding
// with a source variable that happens to share a temp's printed name.
func VarKey(v tac.Var) string {
	if v.Kind == tac.TempVar {
		return "%t" + v.String()
	}
	return v.Name
}

// ReachingDefinitions runs spec.md §4.4 over proc's CFG g.
func ReachingDefinitions(proc *tac.Procedure, g *cfg.Graph) RDResult {
	universe, varToIndices := buildDefUniverse(proc, g)
	n := len(universe)

	lattice := BitSetLattice{}
	transfer := make([]func(BitSet) BitSet, len(g.Blocks))
	for i, b := range g.Blocks {
		t := rdBlockTransfer(i, b, universe, varToIndices, n)
		transfer[i] = func(c BitSet) BitSet { return t.Apply(lattice, c) }
	}

	res := Run(g, Forward, lattice, n, transfer)
	return RDResult{Universe: universe, Result: res}
}

// buildDefUniverse enumerates every definition site: each quad whose result
// is Var(v), each reference-param quad (the passed variable is a potential
// write by the callee), and one virtual definition per enclosing-procedure
// parameter inside Start (spec.md §4.4's universe).
func buildDefUniverse(proc *tac.Procedure, g *cfg.Graph) ([]DefSite, map[string][]int) {
	var universe []DefSite
	varToIndices := make(map[string][]int)

	add := func(d DefSite) {
		idx := len(universe)
		universe = append(universe, d)
		varToIndices[d.Var] = append(varToIndices[d.Var], idx)
	}

	for i, b := range g.Blocks {
		if b.Kind == cfg.KindStart {
			for _, entry := range proc.Locals.Entries() {
				if entry.Kind == symbols.EntryParameter {
					add(DefSite{Block: i, Quad: -1, Var: entry.Name})
				}
			}
			continue
		}
		if b.Kind != cfg.KindCode {
			continue
		}
		for qi, q := range b.Quads {
			if q.Result.IsVar() {
				add(DefSite{Block: i, Quad: qi, Var: VarKey(q.Result.Var)})
			}
			if q.Op == tac.Param {
				if entry, ok := tac.FindParamDeclaration(b.Quads, qi, proc.Locals); ok && entry.IsReference && q.Arg1.IsVar() {
					add(DefSite{Block: i, Quad: qi, Var: VarKey(q.Arg1.Var)})
				}
			}
		}
	}

	return universe, varToIndices
}

// rdBlockTransfer computes gen[n] (definitions in n surviving to its end)
// and prsv[n] (universe-wide definitions whose variable is untouched by n).
func rdBlockTransfer(blockIdx int, b *cfg.Block, universe []DefSite, varToIndices map[string][]int, n int) BlockTransfer[BitSet] {
	gen := NewBitSet(n)
	killedVars := make(map[string]bool)

	if b.Kind == cfg.KindStart {
		for i, d := range universe {
			if d.Block == blockIdx {
				gen = gen.Set(i)
			}
		}
	} else {
		for qi := range b.Quads {
			for i, d := range universe {
				if d.Block == blockIdx && d.Quad == qi {
					killedVars[d.Var] = true
					gen = clearVar(gen, universe, varToIndices, d.Var)
					gen = gen.Set(i)
				}
			}
		}
	}

	prsv := NewBitSet(n)
	for i := 0; i < n; i++ {
		prsv = prsv.Set(i)
	}
	for v := range killedVars {
		for _, idx := range varToIndices[v] {
			prsv = clearBit(prsv, idx)
		}
	}

	return BlockTransfer[BitSet]{A: gen, B: prsv}
}

func clearVar(set BitSet, universe []DefSite, varToIndices map[string][]int, v string) BitSet {
	for _, idx := range varToIndices[v] {
		set = clearBit(set, idx)
	}
	return set
}

func clearBit(b BitSet, i int) BitSet {
	out := b.Clone()
	out.bits[i/64] &^= 1 << uint(i%64)
	return out
}
