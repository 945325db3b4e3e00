package semantic

import (
	"splc/internal/ast"
	"splc/internal/errors"
	"splc/internal/symbols"
)

// resolveType converts a surface TypeExpr into a symbols.Type.
func (a *analyzer) resolveType(t *ast.TypeExpr) symbols.Type {
	if t == nil {
		return symbols.Int
	}
	if !t.Array {
		switch t.Name {
		case "bool":
			return symbols.Bool
		default:
			return symbols.Int
		}
	}
	return symbols.ArrayType{Size: t.Size, Element: a.resolveType(t.Element)}
}

// typeOf infers the type of an expression, recording a diagnostic and
// returning symbols.Int (a harmless default that keeps analysis going) on
// error — matching spec.md §7's "no retry, no partial-failure semantics"
// only at the pass level; within one pass we keep collecting diagnostics.
func (a *analyzer) typeOf(e ast.Expr, scope *symbols.Table) symbols.Type {
	switch n := e.(type) {
	case *ast.IntLiteral:
		return symbols.Int
	case *ast.IdentExpr:
		entry, ok := scope.Lookup(n.Name)
		if !ok {
			a.errorf(errors.ErrUndefinedVariable, n.Pos, "undefined variable %q", n.Name)
			return symbols.Int
		}
		if entry.Variable != nil {
			return entry.Variable.Type
		}
		return symbols.Int
	case *ast.UnaryExpr:
		return a.typeOf(n.Operand, scope)
	case *ast.BinaryExpr:
		a.typeOf(n.Left, scope)
		a.typeOf(n.Right, scope)
		if n.Op.IsRelational() {
			return symbols.Bool
		}
		return symbols.Int
	case *ast.IndexExpr:
		baseType := a.typeOf(n.Base, scope)
		a.typeOf(n.Index, scope)
		arr, ok := baseType.(symbols.ArrayType)
		if !ok {
			a.errorf(errors.ErrNotArray, n.Pos, "indexing applied to non-array type %s", baseType)
			return symbols.Int
		}
		return arr.Element
	case *ast.CallExpr:
		a.checkCall(n, scope)
		return symbols.Int
	default:
		return symbols.Int
	}
}
