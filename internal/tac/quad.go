// Package tac implements the three-address-code data model of spec.md §3:
// quadruples with tagged-union operands/results, source variables and
// temporaries, and the per-procedure TAC container. Grounded on the
// teacher's internal/ir (tagged Instruction/Value shapes) and on
// original_source/src/code_gen/quadrupel.rs, whose QuadrupelOp/Arg/Result
// enums this package's Op/Arg/Result mirror one-for-one.
package tac

import "fmt"

// Op is the quadruple opcode, spec.md §3.
type Op int

const (
	Add Op = iota
	Sub
	Mul
	Div
	Neg
	Eq
	Neq
	Lt
	Le
	Gt
	Ge
	Assign
	ArrayLoad
	ArrayStore
	Goto
	Param
	Call
	Label
)

func (op Op) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Neg:
		return "neg"
	case Eq:
		return "="
	case Neq:
		return "#"
	case Lt:
		return "<"
	case Le:
		return "<="
	case Gt:
		return ">"
	case Ge:
		return ">="
	case Assign:
		return "assign"
	case ArrayLoad:
		return "array_load"
	case ArrayStore:
		return "array_store"
	case Goto:
		return "goto"
	case Param:
		return "param"
	case Call:
		return "call"
	case Label:
		return "label"
	default:
		return "?"
	}
}

// IsRelational reports whether op is one of the conditional-branch
// comparison operators (spec.md §3: "Relational quads are conditional
// branches").
func (op Op) IsRelational() bool {
	switch op {
	case Eq, Neq, Lt, Le, Gt, Ge:
		return true
	default:
		return false
	}
}

// IsArithmetic reports whether op is a pure binary arithmetic operator.
func (op Op) IsArithmetic() bool {
	switch op {
	case Add, Sub, Mul, Div:
		return true
	default:
		return false
	}
}

// IsJump reports whether op can end a basic block by transferring control
// (spec.md §4.2: leaders follow any "goto or relational").
func (op Op) IsJump() bool {
	return op == Goto || op.IsRelational()
}

// VarKind distinguishes source variables from compiler-generated temporaries.
type VarKind int

const (
	SourceVar VarKind = iota
	TempVar
)

// Var is a variable operand: either a named source variable or a dense,
// per-procedure temporary index (spec.md §3).
type Var struct {
	Kind VarKind
	Name string // meaningful when Kind == SourceVar
	Temp int    // meaningful when Kind == TempVar
}

func NewSourceVar(name string) Var { return Var{Kind: SourceVar, Name: name} }
func NewTemp(id int) Var           { return Var{Kind: TempVar, Temp: id} }

func (v Var) String() string {
	if v.Kind == TempVar {
		return fmt.Sprintf("t%d", v.Temp)
	}
	return v.Name
}

// ArgTag discriminates the Arg tagged union (spec.md §3: Var(v) | Const(i32) | Empty).
type ArgTag int

const (
	ArgVar ArgTag = iota
	ArgConst
	ArgEmpty
)

type Arg struct {
	Tag   ArgTag
	Var   Var
	Const int32
}

func VarArg(v Var) Arg       { return Arg{Tag: ArgVar, Var: v} }
func ConstArg(c int32) Arg   { return Arg{Tag: ArgConst, Const: c} }
func EmptyArg() Arg          { return Arg{Tag: ArgEmpty} }
func (a Arg) IsEmpty() bool  { return a.Tag == ArgEmpty }
func (a Arg) IsConst() bool  { return a.Tag == ArgConst }
func (a Arg) IsVar() bool    { return a.Tag == ArgVar }

func (a Arg) String() string {
	switch a.Tag {
	case ArgVar:
		return a.Var.String()
	case ArgConst:
		return fmt.Sprintf("%d", a.Const)
	default:
		return "_"
	}
}

// ResultTag discriminates the Result tagged union (spec.md §3: Var(v) | Label(name) | Empty).
type ResultTag int

const (
	ResVar ResultTag = iota
	ResLabel
	ResEmpty
)

type Result struct {
	Tag   ResultTag
	Var   Var
	Label string
}

func VarResult(v Var) Result      { return Result{Tag: ResVar, Var: v} }
func LabelResult(name string) Result { return Result{Tag: ResLabel, Label: name} }
func EmptyResult() Result         { return Result{Tag: ResEmpty} }
func (r Result) IsEmpty() bool    { return r.Tag == ResEmpty }
func (r Result) IsVar() bool      { return r.Tag == ResVar }
func (r Result) IsLabel() bool    { return r.Tag == ResLabel }

func (r Result) String() string {
	switch r.Tag {
	case ResVar:
		return r.Var.String()
	case ResLabel:
		return r.Label
	default:
		return ""
	}
}

// Quad is one quadruple (op, arg1, arg2, result), spec.md §3.
type Quad struct {
	Op     Op
	Arg1   Arg
	Arg2   Arg
	Result Result
}

func (q Quad) String() string {
	if q.Op == Label {
		return q.Result.String() + ":"
	}
	return fmt.Sprintf("%-12s%-8s%-8s%s", q.Op, q.Arg1, q.Arg2, q.Result)
}

// NewLabel builds a label pseudo-quad (spec.md §3: "a label quad occupies
// one slot; labels are unique within a procedure").
func NewLabel(name string) Quad {
	return Quad{Op: Label, Arg1: EmptyArg(), Arg2: EmptyArg(), Result: LabelResult(name)}
}

// NewGoto builds an unconditional jump.
func NewGoto(label string) Quad {
	return Quad{Op: Goto, Arg1: EmptyArg(), Arg2: EmptyArg(), Result: LabelResult(label)}
}

// NewBinary builds an arithmetic or relational quad. For relational ops the
// result is the branch target label (spec.md §3); for arithmetic ops it is
// the destination variable.
func NewBinary(op Op, arg1, arg2 Arg, result Result) Quad {
	return Quad{Op: op, Arg1: arg1, Arg2: arg2, Result: result}
}

func NewAssign(dst Var, value Arg) Quad {
	return Quad{Op: Assign, Arg1: value, Arg2: EmptyArg(), Result: VarResult(dst)}
}

func NewNeg(dst Var, value Arg) Quad {
	return Quad{Op: Neg, Arg1: value, Arg2: EmptyArg(), Result: VarResult(dst)}
}

func NewArrayLoad(dst, base, offset Var) Quad {
	return Quad{Op: ArrayLoad, Arg1: VarArg(base), Arg2: VarArg(offset), Result: VarResult(dst)}
}

func NewArrayStore(base Var, value Arg, offset Var) Quad {
	return Quad{Op: ArrayStore, Arg1: value, Arg2: VarArg(offset), Result: VarResult(base)}
}

func NewParam(value Arg) Quad {
	return Quad{Op: Param, Arg1: value, Arg2: EmptyArg(), Result: EmptyResult()}
}

func NewCall(procName string, argCount int) Quad {
	return Quad{Op: Call, Arg1: VarArg(NewSourceVar(procName)), Arg2: ConstArg(int32(argCount)), Result: EmptyResult()}
}
