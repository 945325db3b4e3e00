// Package semantic is the minimal stand-in for spec.md §6's "semantic
// analyzer" external collaborator: it type-checks the AST and populates the
// symbol table internal/lower consumes. It is deliberately thin (see
// SPEC_FULL.md §1) — its job is only to make the middle-end exercisable
// end-to-end, not to be a complete checker. Grounded on the teacher's
// internal/semantic package, split by concern the same way
// (analyzer_declaration / analyzer_expression / analyzer_type here reduced
// to context.go / analyzer.go / analyzer_type.go).
package semantic

import (
	"splc/internal/ast"
	"splc/internal/symbols"
)

// Context is the result of semantic analysis: a global scope of procedure
// entries, plus each procedure's own local scope.
type Context struct {
	Global  *symbols.Table
	Locals  map[string]*symbols.Table
	Order   []string // procedure names in declaration order
}

func newContext() *Context {
	return &Context{
		Global: symbols.NewTable(nil),
		Locals: make(map[string]*symbols.Table),
	}
}

func (c *Context) LocalsFor(procName string) *symbols.Table {
	return c.Locals[procName]
}
