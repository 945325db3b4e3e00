package syntax

import (
	"github.com/alecthomas/participle/v2/lexer"

	"splc/internal/ast"
	"splc/internal/errors"
)

func pos(p lexer.Position) ast.Position {
	return ast.Position{Line: p.Line, Column: p.Column}
}

// toAST turns the parsed concrete syntax tree into the internal/ast shapes
// internal/lower consumes. It is the only place concrete grammar structs are
// referenced outside this package.
func toAST(p *program) *ast.Program {
	out := &ast.Program{Pos: pos(p.Pos)}
	for _, proc := range p.Procedures {
		out.Procedures = append(out.Procedures, convertProcedure(proc))
	}
	return out
}

func convertProcedure(p *procedure) *ast.Procedure {
	out := &ast.Procedure{Pos: pos(p.Pos), Name: p.Name}
	for _, param := range p.Params {
		out.Params = append(out.Params, &ast.Parameter{
			Pos:         pos(param.Pos),
			Name:        param.Name,
			Type:        convertType(param.Type),
			IsReference: param.Ref,
		})
	}
	for _, v := range p.Locals {
		out.Locals = append(out.Locals, &ast.VarDecl{
			Pos:  pos(v.Pos),
			Name: v.Name,
			Type: convertType(v.Type),
		})
	}
	for _, s := range p.Body {
		out.Body = append(out.Body, convertStmt(s))
	}
	return out
}

func convertType(t *typeExpr) *ast.TypeExpr {
	if t.Array != nil {
		return &ast.TypeExpr{
			Pos:     pos(t.Array.Pos),
			Array:   true,
			Size:    t.Array.Size,
			Element: convertType(t.Array.Element),
		}
	}
	return &ast.TypeExpr{Pos: pos(t.Pos), Name: t.Name}
}

func convertStmt(s *statement) ast.Stmt {
	switch {
	case s.If != nil:
		return convertIf(s.If)
	case s.While != nil:
		return convertWhile(s.While)
	case s.Compound != nil:
		return convertCompound(s.Compound)
	case s.Assign != nil:
		return convertAssignOrCall(s.Assign)
	default:
		errors.Abort("syntax", "statement at %d:%d has no recognized alternative", s.Pos.Line, s.Pos.Column)
		return nil
	}
}

func convertIf(s *ifStmt) *ast.IfStmt {
	out := &ast.IfStmt{Pos: pos(s.Pos), Cond: convertExpr(s.Cond), Then: []ast.Stmt{convertStmt(s.Then)}}
	if s.Else != nil {
		out.Else = []ast.Stmt{convertStmt(s.Else)}
	}
	return out
}

func convertWhile(s *whileStmt) *ast.WhileStmt {
	return &ast.WhileStmt{Pos: pos(s.Pos), Cond: convertExpr(s.Cond), Body: []ast.Stmt{convertStmt(s.Body)}}
}

func convertCompound(c *compound) *ast.CompoundStmt {
	out := &ast.CompoundStmt{Pos: pos(c.Pos)}
	for _, s := range c.Stmts {
		out.Stmts = append(out.Stmts, convertStmt(s))
	}
	return out
}

func convertLvalue(l *lvalue) ast.Expr {
	var e ast.Expr = &ast.IdentExpr{Pos: pos(l.Pos), Name: l.Name}
	for _, idx := range l.Indices {
		e = &ast.IndexExpr{Pos: pos(l.Pos), Base: e, Index: convertExpr(idx)}
	}
	return e
}

func convertAssignOrCall(s *assignOrCallStmt) ast.Stmt {
	if s.Call != nil {
		args := make([]ast.Expr, 0, len(s.Call.Args))
		for _, a := range s.Call.Args {
			args = append(args, convertExpr(a))
		}
		return &ast.CallStmt{Pos: pos(s.Pos), Call: &ast.CallExpr{Pos: pos(s.Pos), Name: s.Target.Name, Args: args}}
	}
	return &ast.AssignStmt{Pos: pos(s.Pos), Target: convertLvalue(s.Target), Value: convertExpr(s.Value)}
}

func convertExpr(e *expr) ast.Expr {
	left := convertTerm(e.Left)
	for _, op := range e.Ops {
		left = &ast.BinaryExpr{
			Pos:   pos(op.Pos),
			Op:    ast.BinOp(op.Operator),
			Left:  left,
			Right: convertTerm(op.Right),
		}
	}
	return left
}

func convertTerm(t *term) ast.Expr {
	p := convertPrimary(t.Primary)
	if t.Neg {
		return &ast.UnaryExpr{Pos: pos(t.Pos), Operand: p}
	}
	return p
}

func convertPrimary(p *primary) ast.Expr {
	switch {
	case p.Index != nil:
		var e ast.Expr = &ast.IdentExpr{Pos: pos(p.Index.Pos), Name: p.Index.Name}
		for _, idx := range p.Index.Indices {
			e = &ast.IndexExpr{Pos: pos(p.Index.Pos), Base: e, Index: convertExpr(idx)}
		}
		return e
	case p.Number != nil:
		return &ast.IntLiteral{Pos: pos(p.Pos), Value: int32(*p.Number)}
	case p.Ident != nil:
		return &ast.IdentExpr{Pos: pos(p.Pos), Name: *p.Ident}
	case p.Paren != nil:
		return convertExpr(p.Paren)
	default:
		errors.Abort("syntax", "primary expression at %d:%d has no recognized alternative", p.Pos.Line, p.Pos.Column)
		return nil
	}
}
