// Package lower translates a type-checked internal/ast.Program into linear
// internal/tac per procedure (spec.md §4.1). Grounded on the teacher's
// internal/ir.Builder: a stateful builder with monotonic counters
// (valueCounter/blockCounter there; tempCounter/labelCounter here) that
// walks the AST and appends instructions to a current procedure.
package lower

import (
	"fmt"

	"splc/internal/ast"
	"splc/internal/errors"
	"splc/internal/semantic"
	"splc/internal/symbols"
	"splc/internal/tac"
)

// Builder lowers one compilation unit at a time. It is not reentrant across
// goroutines; spec.md §5 says every pass is single-threaded and synchronous.
type Builder struct {
	ctx *semantic.Context

	proc        *tac.Procedure
	locals      *symbols.Table
	tempCounter int
	labelCounter int
}

// NewBuilder creates a lowerer against the symbol table a prior semantic
// analysis pass produced.
func NewBuilder(ctx *semantic.Context) *Builder {
	return &Builder{ctx: ctx}
}

// Lower converts prog into a TAC program, one Procedure per ast.Procedure.
func Lower(ctx *semantic.Context, prog *ast.Program) *tac.Program {
	b := NewBuilder(ctx)
	out := &tac.Program{}
	for _, p := range prog.Procedures {
		out.Procedures = append(out.Procedures, b.lowerProcedure(p))
	}
	return out
}

func (b *Builder) newTemp() tac.Var {
	t := tac.NewTemp(b.tempCounter)
	b.tempCounter++
	return t
}

func (b *Builder) newLabel(prefix string) string {
	b.labelCounter++
	return fmt.Sprintf("%s_%d", prefix, b.labelCounter)
}

func (b *Builder) emit(q tac.Quad) {
	b.proc.Quads = append(b.proc.Quads, q)
}

// lowerProcedure emits `label(proc_name)` followed by the lowered body, per
// spec.md §4.1's Procedure rule. Stop insertion is the CFG builder's job.
func (b *Builder) lowerProcedure(p *ast.Procedure) *tac.Procedure {
	b.proc = &tac.Procedure{Name: p.Name, Locals: b.ctx.LocalsFor(p.Name)}
	b.locals = b.proc.Locals
	b.tempCounter = 0

	b.emit(tac.NewLabel(p.Name))
	b.lowerStmts(p.Body)

	b.proc.NumTemps = b.tempCounter
	return b.proc
}

func (b *Builder) lowerStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		b.lowerStmt(s)
	}
}

func (b *Builder) lowerStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.AssignStmt:
		b.lowerAssign(n)
	case *ast.CallStmt:
		b.lowerCall(n.Call)
	case *ast.IfStmt:
		b.lowerIf(n)
	case *ast.WhileStmt:
		b.lowerWhile(n)
	case *ast.CompoundStmt:
		b.lowerStmts(n.Stmts)
	default:
		errors.Abort("lower", "unhandled statement type %T", s)
	}
}

// lowerAssign implements spec.md §4.1 Assignment: a named target emits
// `assign`; an array target computes (base, offset) and emits `array_store`.
func (b *Builder) lowerAssign(s *ast.AssignStmt) {
	value := b.lowerExpr(s.Value)

	switch target := s.Target.(type) {
	case *ast.IdentExpr:
		v := b.resolveVar(target.Name)
		b.emit(tac.NewAssign(v, value))
	case *ast.IndexExpr:
		base, offset := b.lowerAddress(target)
		b.emit(tac.NewArrayStore(base, value, offset))
	default:
		errors.Abort("lower", "assignment target is neither a variable nor an array access: %T", s.Target)
	}
}

// lowerAddress computes the (base, byte_offset) pair for an array access,
// summing offsets across nested indices per spec.md §4.1: "for nested
// accesses the offsets are summed."
func (b *Builder) lowerAddress(e *ast.IndexExpr) (base tac.Var, offset tac.Var) {
	var chain []*ast.IndexExpr
	cur := ast.Expr(e)
	for {
		idx, ok := cur.(*ast.IndexExpr)
		if !ok {
			break
		}
		chain = append(chain, idx)
		cur = idx.Base
	}
	ident, ok := cur.(*ast.IdentExpr)
	if !ok {
		errors.Abort("lower", "array access base is not a variable: %T", cur)
	}

	base = b.resolveVar(ident.Name)
	baseType := b.lookupType(ident.Name)

	offset = b.newTemp()
	first := true
	elemType := baseType
	// chain is innermost-first (outermost index last); walk it in source
	// order (outermost first) to match decreasing element size per level.
	for i := len(chain) - 1; i >= 0; i-- {
		idx := chain[i]
		arr, ok := elemType.(symbols.ArrayType)
		if !ok {
			errors.Abort("lower", "indexing applied to non-array type %s", elemType)
		}
		indexOperand := b.lowerExpr(idx.Index)
		scaled := b.newTemp()
		b.emit(tac.NewBinary(tac.Mul, indexOperand, tac.ConstArg(int32(arr.Element.ByteSize())), tac.VarResult(scaled)))

		if first {
			b.emit(tac.NewAssign(offset, tac.VarArg(scaled)))
			first = false
		} else {
			b.emit(tac.NewBinary(tac.Add, tac.VarArg(offset), tac.VarArg(scaled), tac.VarResult(offset)))
		}
		elemType = arr.Element
	}
	return base, offset
}

func (b *Builder) lookupType(name string) symbols.Type {
	entry, ok := b.locals.Lookup(name)
	if !ok || entry.Variable == nil {
		errors.Abort("lower", "undeclared variable %q reached lowering", name)
	}
	return entry.Variable.Type
}

func (b *Builder) resolveVar(name string) tac.Var {
	return tac.NewSourceVar(name)
}

// lowerExpr returns the operand holding e's value, recursively lowering
// sub-expressions post-order per spec.md §4.1 Expression.
func (b *Builder) lowerExpr(e ast.Expr) tac.Arg {
	switch n := e.(type) {
	case *ast.IntLiteral:
		return tac.ConstArg(n.Value)
	case *ast.IdentExpr:
		return tac.VarArg(b.resolveVar(n.Name))
	case *ast.UnaryExpr:
		operand := b.lowerExpr(n.Operand)
		dst := b.newTemp()
		b.emit(tac.NewNeg(dst, operand))
		return tac.VarArg(dst)
	case *ast.BinaryExpr:
		return b.lowerBinary(n)
	case *ast.IndexExpr:
		base, offset := b.lowerAddress(n)
		dst := b.newTemp()
		b.emit(tac.NewArrayLoad(dst, base, offset))
		return tac.VarArg(dst)
	case *ast.CallExpr:
		// This language's procedures return no value (spec.md §4.1 Call
		// only describes param/call quads, never a result operand); a call
		// reaching expression position is a precondition violation the
		// parser/grammar should never produce.
		errors.Abort("lower", "call to %q used as a value; procedures return nothing", n.Name)
		return tac.EmptyArg()
	default:
		errors.Abort("lower", "unhandled expression type %T", e)
		return tac.EmptyArg()
	}
}

func binOpOf(op ast.BinOp) tac.Op {
	switch op {
	case ast.OpAdd:
		return tac.Add
	case ast.OpSub:
		return tac.Sub
	case ast.OpMul:
		return tac.Mul
	case ast.OpDiv:
		return tac.Div
	case ast.OpEq:
		return tac.Eq
	case ast.OpNeq:
		return tac.Neq
	case ast.OpLt:
		return tac.Lt
	case ast.OpLe:
		return tac.Le
	case ast.OpGt:
		return tac.Gt
	case ast.OpGe:
		return tac.Ge
	default:
		errors.Abort("lower", "unknown binary operator %q", op)
		return tac.Add
	}
}

// lowerBinary handles binary expressions used as plain values. A relational
// expression used in a non-conditional position (e.g. assigned to a
// variable) still needs a value; this language only allows relational
// expressions in if/while conditions (enforced by internal/semantic), so
// this path is reached only for arithmetic operators in practice.
func (b *Builder) lowerBinary(n *ast.BinaryExpr) tac.Arg {
	left := b.lowerExpr(n.Left)
	right := b.lowerExpr(n.Right)
	dst := b.newTemp()
	b.emit(tac.NewBinary(binOpOf(n.Op), left, right, tac.VarResult(dst)))
	return tac.VarArg(dst)
}

// lowerCondition lowers cond's operator inverted, targeting label — the
// convention spec.md §4.1 If/While describe: "lower the condition's
// relational expression with the inverted operator and target L_end."
func (b *Builder) lowerCondition(cond ast.Expr, label string) {
	bin, ok := cond.(*ast.BinaryExpr)
	if !ok || !bin.Op.IsRelational() {
		errors.Abort("lower", "condition is not a relational expression: %T", cond)
	}
	left := b.lowerExpr(bin.Left)
	right := b.lowerExpr(bin.Right)
	b.emit(tac.NewBinary(binOpOf(bin.Op.Invert()), left, right, tac.LabelResult(label)))
}

func (b *Builder) lowerIf(s *ast.IfStmt) {
	lEnd := b.newLabel("L_end")
	b.lowerCondition(s.Cond, lEnd)
	b.lowerStmts(s.Then)
	b.emit(tac.NewLabel(lEnd))
	if s.Else != nil {
		b.lowerStmts(s.Else)
	}
}

func (b *Builder) lowerWhile(s *ast.WhileStmt) {
	lTop := b.newLabel("L_top")
	lEnd := b.newLabel("L_end")
	b.emit(tac.NewLabel(lTop))
	b.lowerCondition(s.Cond, lEnd)
	b.lowerStmts(s.Body)
	b.emit(tac.NewGoto(lTop))
	b.emit(tac.NewLabel(lEnd))
}

// lowerCall implements spec.md §4.1 Call: lower each argument (reference
// parameters must yield a Var operand), emit one `param` per argument in
// source order, then `call proc_name, n`.
func (b *Builder) lowerCall(call *ast.CallExpr) {
	entry, ok := b.locals.Lookup(call.Name)
	if !ok || entry.Procedure == nil {
		errors.Abort("lower", "undeclared procedure %q reached lowering", call.Name)
	}
	callee := entry.Procedure

	for i, arg := range call.Args {
		operand := b.lowerExpr(arg)
		if i < len(callee.Parameters) && callee.Parameters[i].IsReference && !operand.IsVar() {
			errors.Abort("lower", "reference argument %d to %q is not a variable", i+1, call.Name)
		}
		b.emit(tac.NewParam(operand))
	}
	b.emit(tac.NewCall(call.Name, len(call.Args)))
}
