package dataflow

import (
	"splc/internal/cfg"
	"splc/internal/tac"
)

// ConstTag discriminates a variable's compile-time knowledge at some program
// point (spec.md §4.6): Undefined (no information has reached this point
// yet), Constant (a single known i32 value), or Variable (more than one
// value may reach here, or the value is otherwise unknowable).
type ConstTag int

const (
	Undefined ConstTag = iota
	Constant
	Variable
)

// Constness is one lattice element: Undefined | Constant(value) | Variable.
type Constness struct {
	Tag   ConstTag
	Value int32
}

func UndefinedConst() Constness       { return Constness{Tag: Undefined} }
func ConstantConst(v int32) Constness { return Constness{Tag: Constant, Value: v} }
func VariableConst() Constness        { return Constness{Tag: Variable} }

// joinConstness is the standard lattice LUB, used to combine values at CFG
// merge points: Undefined loses to anything, matching constants agree,
// anything else collapses to Variable (spec.md §4.6).
func joinConstness(a, b Constness) Constness {
	if a.Tag == Undefined {
		return b
	}
	if b.Tag == Undefined {
		return a
	}
	if a.Tag == Constant && b.Tag == Constant {
		if a.Value == b.Value {
			return a
		}
		return VariableConst()
	}
	return VariableConst()
}

// meetConstness combines a block's incoming value with its prsv mask.
// Unlike joinConstness this is not a standard lattice meet: Undefined is an
// annihilator (the variable is about to be overwritten by this block's own
// gen value, so its incoming value is discarded) and Variable is the
// identity (the block leaves the variable untouched, so the incoming value
// passes through unchanged). Two differing constants never actually reach
// this operator in practice — prsv only ever holds Undefined or Variable —
// but the case is defined for completeness per spec.md §4.6's literal
// wording: the same mismatch rule as join.
func meetConstness(a, b Constness) Constness {
	switch b.Tag {
	case Undefined:
		return UndefinedConst()
	case Variable:
		return a
	default:
		if a.Tag == Constant && a.Value == b.Value {
			return a
		}
		return VariableConst()
	}
}

// ConstVector holds one Constness per universe variable.
type ConstVector []Constness

func (v ConstVector) clone() ConstVector {
	out := make(ConstVector, len(v))
	copy(out, v)
	return out
}

// ConstVectorLattice implements Lattice[ConstVector] elementwise.
type ConstVectorLattice struct{}

func (ConstVectorLattice) Init(universe int) ConstVector {
	v := make(ConstVector, universe)
	for i := range v {
		v[i] = UndefinedConst()
	}
	return v
}

func (ConstVectorLattice) Meet(a, b ConstVector) ConstVector {
	out := make(ConstVector, len(a))
	for i := range out {
		out[i] = meetConstness(a[i], b[i])
	}
	return out
}

func (ConstVectorLattice) Join(a, b ConstVector) ConstVector {
	out := make(ConstVector, len(a))
	for i := range out {
		out[i] = joinConstness(a[i], b[i])
	}
	return out
}

func (ConstVectorLattice) Equal(a, b ConstVector) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// CPResult is the outcome of constant-propagation analysis.
type CPResult struct {
	Vars []string
	Result[ConstVector]
}

func (r CPResult) ValueAt(blockIdx int, varName string) Constness {
	for i, v := range r.Vars {
		if v == varName {
			return r.In[blockIdx][i]
		}
	}
	return VariableConst()
}

// ConstantPropagation runs spec.md §4.6 over proc's CFG g: a forward
// analysis whose universe is every variable ever defined, and whose
// per-block transfer simulates the block's quads in order against the
// vector of values flowing in.
func ConstantPropagation(proc *tac.Procedure, g *cfg.Graph) CPResult {
	vars, index := buildVarUniverse(g)
	n := len(vars)
	lattice := ConstVectorLattice{}

	transfer := make([]func(ConstVector) ConstVector, len(g.Blocks))
	for i, b := range g.Blocks {
		b := b
		i := i
		transfer[i] = func(in ConstVector) ConstVector {
			return simulateBlock(proc, b, in, index)
		}
	}

	res := Run(g, Forward, lattice, n, transfer)
	return CPResult{Vars: vars, Result: res}
}

// simulateBlock runs the block's quads in order starting from in, folding
// arithmetic over whatever operand values are currently known, and returns
// the resulting vector. Reads of variables outside the universe (call
// targets, raw literals) never happen through this path since evalConst
// only consults the vector for ArgVar operands already present in index.
func simulateBlock(proc *tac.Procedure, b *cfg.Block, in ConstVector, index map[string]int) ConstVector {
	vec := in.clone()

	for qi, q := range b.Quads {
		switch {
		case q.Op == tac.Assign && q.Result.IsVar():
			set(vec, index, q.Result.Var, evalConst(vec, index, q.Arg1))

		case q.Op == tac.Neg && q.Result.IsVar():
			v := evalConst(vec, index, q.Arg1)
			if v.Tag == Constant {
				set(vec, index, q.Result.Var, ConstantConst(-v.Value))
			} else {
				set(vec, index, q.Result.Var, v)
			}

		case q.Op.IsArithmetic() && q.Result.IsVar():
			set(vec, index, q.Result.Var, evalArithmetic(q.Op, evalConst(vec, index, q.Arg1), evalConst(vec, index, q.Arg2)))

		case q.Op == tac.ArrayLoad && q.Result.IsVar():
			// An array element's value is never known at compile time.
			set(vec, index, q.Result.Var, VariableConst())

		case q.Op == tac.Call:
			invalidateReferenceArgs(proc, b.Quads, qi, vec, index)
		}
	}

	return vec
}

func set(vec ConstVector, index map[string]int, v tac.Var, c Constness) {
	if i, ok := index[VarKey(v)]; ok {
		vec[i] = c
	}
}

func evalConst(vec ConstVector, index map[string]int, a tac.Arg) Constness {
	switch {
	case a.IsConst():
		return ConstantConst(a.Const)
	case a.IsVar():
		if i, ok := index[VarKey(a.Var)]; ok {
			return vec[i]
		}
		return VariableConst()
	default:
		return VariableConst()
	}
}

// evalArithmetic folds a binary arithmetic op when both operands are known
// constants. Division by a known-zero divisor is never folded: the result
// stays Variable rather than modeling the runtime trap as a value
// (spec.md §4.9's folding driver makes the same refusal at the quad level).
func evalArithmetic(op tac.Op, a, b Constness) Constness {
	if a.Tag != Constant || b.Tag != Constant {
		if a.Tag == Undefined || b.Tag == Undefined {
			return UndefinedConst()
		}
		return VariableConst()
	}
	switch op {
	case tac.Add:
		return ConstantConst(a.Value + b.Value)
	case tac.Sub:
		return ConstantConst(a.Value - b.Value)
	case tac.Mul:
		return ConstantConst(a.Value * b.Value)
	case tac.Div:
		if b.Value == 0 {
			return VariableConst()
		}
		return ConstantConst(a.Value / b.Value)
	default:
		return VariableConst()
	}
}

// invalidateReferenceArgs marks every variable passed by reference to this
// call as Variable: the callee may assign it any value.
func invalidateReferenceArgs(proc *tac.Procedure, quads []tac.Quad, callIdx int, vec ConstVector, index map[string]int) {
	for j := callIdx - 1; j >= 0 && quads[j].Op == tac.Param; j-- {
		entry, ok := tac.FindParamDeclaration(quads, j, proc.Locals)
		if ok && entry.IsReference && quads[j].Arg1.IsVar() {
			set(vec, index, quads[j].Arg1.Var, VariableConst())
		}
	}
}
