package syntax

import (
	"github.com/alecthomas/participle/v2"

	"splc/internal/ast"
	"splc/internal/errors"
)

var parser = participle.MustBuild[program](
	participle.Lexer(Lexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(3),
)

// ParseString parses source (named filename for diagnostics) into an
// internal/ast.Program. Grounded on the teacher's grammar.ParseFile, split
// so the CLI owns file reading (cmd/splc/main.go).
func ParseString(filename, source string) (*ast.Program, *errors.CompilerError) {
	tree, err := parser.ParseString(filename, source)
	if err != nil {
		return nil, toCompilerError(err)
	}
	return toAST(tree), nil
}

// toCompilerError adapts a participle.Error into the CompilerError shape the
// rest of the pipeline reports uniformly (internal/errors.Reporter).
func toCompilerError(err error) *errors.CompilerError {
	pe, ok := err.(participle.Error)
	if !ok {
		return errors.New(errors.ErrUnexpectedToken, err.Error(), ast.Position{})
	}

	p := pe.Position()
	return errors.New(errors.ErrUnexpectedToken, pe.Message(), ast.Position{Line: p.Line, Column: p.Column})
}
