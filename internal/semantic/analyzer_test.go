package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"splc/internal/ast"
)

func intType() *ast.TypeExpr { return &ast.TypeExpr{Name: "int"} }

func ident(name string) *ast.IdentExpr { return &ast.IdentExpr{Name: name} }

func relational(op ast.BinOp, l, r ast.Expr) *ast.BinaryExpr {
	return &ast.BinaryExpr{Op: op, Left: l, Right: r}
}

func TestAnalyzeSimpleProcedure(t *testing.T) {
	prog := &ast.Program{
		Procedures: []*ast.Procedure{
			{
				Name: "main",
				Locals: []*ast.VarDecl{
					{Name: "x", Type: intType()},
				},
				Body: []ast.Stmt{
					&ast.AssignStmt{Target: ident("x"), Value: &ast.IntLiteral{Value: 1}},
				},
			},
		},
	}

	ctx, diags := Analyze(prog)
	require.Empty(t, diags)
	require.NotNil(t, ctx.LocalsFor("main"))

	entry, ok := ctx.LocalsFor("main").Lookup("x")
	require.True(t, ok)
	assert.Equal(t, "int", entry.Variable.Type.String())
}

func TestAnalyzeUndefinedVariable(t *testing.T) {
	prog := &ast.Program{
		Procedures: []*ast.Procedure{
			{
				Name: "main",
				Body: []ast.Stmt{
					&ast.AssignStmt{Target: ident("x"), Value: &ast.IntLiteral{Value: 1}},
				},
			},
		},
	}

	_, diags := Analyze(prog)
	require.Len(t, diags, 1)
	assert.Equal(t, "E0201", diags[0].Code)
}

func TestAnalyzeConditionMustBeRelational(t *testing.T) {
	prog := &ast.Program{
		Procedures: []*ast.Procedure{
			{
				Name:   "main",
				Locals: []*ast.VarDecl{{Name: "x", Type: intType()}},
				Body: []ast.Stmt{
					&ast.WhileStmt{Cond: ident("x"), Body: nil},
				},
			},
		},
	}

	_, diags := Analyze(prog)
	require.Len(t, diags, 1)
	assert.Equal(t, "E0302", diags[0].Code)
}

func TestAnalyzeCallArgCountMismatch(t *testing.T) {
	prog := &ast.Program{
		Procedures: []*ast.Procedure{
			{
				Name:   "helper",
				Params: []*ast.Parameter{{Name: "a", Type: intType()}},
			},
			{
				Name: "main",
				Body: []ast.Stmt{
					&ast.CallStmt{Call: &ast.CallExpr{Name: "helper", Args: nil}},
				},
			},
		},
	}

	_, diags := Analyze(prog)
	require.Len(t, diags, 1)
	assert.Equal(t, "E0304", diags[0].Code)
}

func TestAnalyzeReferenceArgumentMustBeVariable(t *testing.T) {
	prog := &ast.Program{
		Procedures: []*ast.Procedure{
			{
				Name:   "helper",
				Params: []*ast.Parameter{{Name: "a", Type: intType(), IsReference: true}},
			},
			{
				Name: "main",
				Body: []ast.Stmt{
					&ast.CallStmt{Call: &ast.CallExpr{
						Name: "helper",
						Args: []ast.Expr{&ast.IntLiteral{Value: 5}},
					}},
				},
			},
		},
	}

	_, diags := Analyze(prog)
	require.Len(t, diags, 1)
	assert.Equal(t, "E0305", diags[0].Code)
}

func TestAnalyzeCallResolvedForwardReference(t *testing.T) {
	prog := &ast.Program{
		Procedures: []*ast.Procedure{
			{
				Name: "main",
				Body: []ast.Stmt{
					&ast.CallStmt{Call: &ast.CallExpr{Name: "helper", Args: nil}},
				},
			},
			{
				Name: "helper",
			},
		},
	}

	_, diags := Analyze(prog)
	assert.Empty(t, diags)
}

func TestAnalyzeArrayIndexingRequiresArrayType(t *testing.T) {
	prog := &ast.Program{
		Procedures: []*ast.Procedure{
			{
				Name:   "main",
				Locals: []*ast.VarDecl{{Name: "x", Type: intType()}},
				Body: []ast.Stmt{
					&ast.AssignStmt{
						Target: &ast.IndexExpr{Base: ident("x"), Index: &ast.IntLiteral{Value: 0}},
						Value:  &ast.IntLiteral{Value: 1},
					},
				},
			},
		},
	}

	_, diags := Analyze(prog)
	require.Len(t, diags, 1)
	assert.Equal(t, "E0303", diags[0].Code)
}

func TestAnalyzeRelationalConditionAccepted(t *testing.T) {
	prog := &ast.Program{
		Procedures: []*ast.Procedure{
			{
				Name:   "main",
				Locals: []*ast.VarDecl{{Name: "i", Type: intType()}, {Name: "n", Type: intType()}},
				Body: []ast.Stmt{
					&ast.IfStmt{Cond: relational(ast.OpLt, ident("i"), ident("n")), Then: nil},
				},
			},
		},
	}

	_, diags := Analyze(prog)
	assert.Empty(t, diags)
}
