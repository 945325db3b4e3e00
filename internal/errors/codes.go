// Package errors implements the two error categories of spec.md §7:
// compiler-bug assertions (Abort*) and user-visible compilation failures
// (CompilerError, reported by Reporter). Grounded on the teacher's
// internal/errors package (E####-coded diagnostics, caret-style source
// rendering via github.com/fatih/color).
package errors

// Error code ranges, following the teacher's convention of reserving a
// hundred-wide band per subsystem.
const (
	// E01xx: lexical/syntax errors surfaced by internal/syntax
	ErrUnexpectedToken = "E0101"
	ErrUnterminated    = "E0102"

	// E02xx: name resolution
	ErrUndefinedVariable = "E0201"
	ErrUndefinedProc      = "E0202"
	ErrDuplicateDecl      = "E0203"

	// E03xx: type errors
	ErrTypeMismatch       = "E0301"
	ErrNotRelational      = "E0302"
	ErrNotArray           = "E0303"
	ErrArgCountMismatch   = "E0304"
	ErrReferenceArgNotVar = "E0305"
)

var descriptions = map[string]string{
	ErrUnexpectedToken:    "unexpected token",
	ErrUnterminated:       "unterminated construct",
	ErrUndefinedVariable:  "variable is used but not declared in scope",
	ErrUndefinedProc:      "procedure is called but never declared",
	ErrDuplicateDecl:      "name already declared in this scope",
	ErrTypeMismatch:       "expression type does not match the expected type",
	ErrNotRelational:      "condition must be a relational expression",
	ErrNotArray:           "indexing applied to a non-array type",
	ErrArgCountMismatch:   "call argument count does not match the procedure's parameter list",
	ErrReferenceArgNotVar: "argument for a reference parameter must be a variable",
}

func Describe(code string) string {
	if d, ok := descriptions[code]; ok {
		return d
	}
	return "unknown error"
}
