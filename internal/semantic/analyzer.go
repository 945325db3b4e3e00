package semantic

import (
	"fmt"

	"splc/internal/ast"
	"splc/internal/errors"
	"splc/internal/symbols"
)

// analyzer carries the mutable state of one analysis pass: the context being
// built and the diagnostics accumulated so far. Grounded on the teacher's
// Analyzer struct (internal/semantic/analyzer.go), reduced to this
// language's smaller declaration surface.
type analyzer struct {
	ctx   *Context
	diags []*errors.CompilerError
}

func (a *analyzer) errorf(code string, pos ast.Position, format string, args ...any) {
	a.diags = append(a.diags, errors.New(code, fmt.Sprintf(format, args...), pos))
}

// Analyze type-checks prog and builds the symbol table internal/lower
// consumes. It always returns a non-nil Context so that callers can choose
// to keep lowering best-effort diagnostics, but a non-empty diagnostic slice
// means the program must not be handed to internal/lower (spec.md §7: a
// CompilerError aborts the pipeline before codegen).
func Analyze(prog *ast.Program) (*Context, []*errors.CompilerError) {
	a := &analyzer{ctx: newContext()}

	for _, proc := range prog.Procedures {
		a.declareProcedureSignature(proc)
	}
	for _, proc := range prog.Procedures {
		a.checkProcedure(proc)
	}

	return a.ctx, a.diags
}

// declareProcedureSignature registers proc's name and parameter list in the
// global scope, before any procedure body is checked, so that calls to
// procedures declared later in the file resolve (spec.md §6: the symbol
// table is built in a pass separate from the one that uses it).
func (a *analyzer) declareProcedureSignature(proc *ast.Procedure) {
	if _, exists := a.ctx.Global.LookupLocal(proc.Name); exists {
		a.errorf(errors.ErrDuplicateDecl, proc.Pos, "procedure %q already declared", proc.Name)
		return
	}

	params := make([]symbols.ParameterEntry, 0, len(proc.Params))
	for _, p := range proc.Params {
		params = append(params, symbols.ParameterEntry{
			Name:        p.Name,
			Type:        a.resolveType(p.Type),
			IsReference: p.IsReference,
		})
	}

	locals := symbols.NewTable(a.ctx.Global)
	a.ctx.Locals[proc.Name] = locals
	a.ctx.Order = append(a.ctx.Order, proc.Name)

	a.ctx.Global.Define(&symbols.Entry{
		Name:      proc.Name,
		Kind:      symbols.EntryProcedure,
		Procedure: &symbols.ProcedureEntry{Name: proc.Name, Parameters: params, Locals: locals},
	})
}

// checkProcedure populates proc's local scope (parameters, then locals) and
// type-checks its body. Parameters and locals share one flat frame: this
// language has no block scoping (ast.CompoundStmt opens no new frame).
func (a *analyzer) checkProcedure(proc *ast.Procedure) {
	locals := a.ctx.Locals[proc.Name]

	for _, p := range proc.Params {
		if _, exists := locals.LookupLocal(p.Name); exists {
			a.errorf(errors.ErrDuplicateDecl, p.Pos, "parameter %q already declared", p.Name)
			continue
		}
		locals.Define(&symbols.Entry{
			Name:     p.Name,
			Kind:     symbols.EntryParameter,
			Variable: &symbols.VariableEntry{Type: a.resolveType(p.Type), IsReference: p.IsReference},
		})
	}

	for _, v := range proc.Locals {
		if _, exists := locals.LookupLocal(v.Name); exists {
			a.errorf(errors.ErrDuplicateDecl, v.Pos, "local variable %q already declared", v.Name)
			continue
		}
		locals.Define(&symbols.Entry{
			Name:     v.Name,
			Kind:     symbols.EntryVariable,
			Variable: &symbols.VariableEntry{Type: a.resolveType(v.Type)},
		})
	}

	a.checkStmts(proc.Body, locals)
}

func (a *analyzer) checkStmts(stmts []ast.Stmt, scope *symbols.Table) {
	for _, s := range stmts {
		a.checkStmt(s, scope)
	}
}

func (a *analyzer) checkStmt(s ast.Stmt, scope *symbols.Table) {
	switch n := s.(type) {
	case *ast.AssignStmt:
		a.typeOf(n.Target, scope)
		a.typeOf(n.Value, scope)
	case *ast.CallStmt:
		a.checkCall(n.Call, scope)
	case *ast.IfStmt:
		a.checkCondition(n.Cond, scope)
		a.checkStmts(n.Then, scope)
		a.checkStmts(n.Else, scope)
	case *ast.WhileStmt:
		a.checkCondition(n.Cond, scope)
		a.checkStmts(n.Body, scope)
	case *ast.CompoundStmt:
		a.checkStmts(n.Stmts, scope)
	}
}

// checkCondition requires cond to be a relational BinaryExpr (spec.md §4.1:
// if/while conditions are always relational, never a general boolean value —
// this language has no boolean variables to branch on directly).
func (a *analyzer) checkCondition(cond ast.Expr, scope *symbols.Table) {
	a.typeOf(cond, scope)
	bin, ok := cond.(*ast.BinaryExpr)
	if !ok || !bin.Op.IsRelational() {
		a.errorf(errors.ErrNotRelational, cond.NodePos(), "condition must be a relational expression")
	}
}

// checkCall validates argument count and, for reference parameters, that the
// corresponding argument is an addressable variable (spec.md §4.1 Call,
// §9 Open Question on reference-argument validation timing: resolved here,
// at semantic analysis, rather than deferred to lowering).
func (a *analyzer) checkCall(call *ast.CallExpr, scope *symbols.Table) {
	entry, ok := scope.Lookup(call.Name)
	if !ok || entry.Procedure == nil {
		a.errorf(errors.ErrUndefinedProc, call.Pos, "undefined procedure %q", call.Name)
		for _, arg := range call.Args {
			a.typeOf(arg, scope)
		}
		return
	}

	proc := entry.Procedure
	if len(call.Args) != len(proc.Parameters) {
		a.errorf(errors.ErrArgCountMismatch, call.Pos,
			"procedure %q expects %d argument(s), got %d", call.Name, len(proc.Parameters), len(call.Args))
	}

	for i, arg := range call.Args {
		a.typeOf(arg, scope)
		if i >= len(proc.Parameters) {
			continue
		}
		if proc.Parameters[i].IsReference {
			if _, isIdent := arg.(*ast.IdentExpr); !isIdent {
				a.errorf(errors.ErrReferenceArgNotVar, arg.NodePos(),
					"argument %d to %q binds a reference parameter and must be a variable", i+1, call.Name)
			}
		}
	}
}
