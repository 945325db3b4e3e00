package tac

import "splc/internal/symbols"

// Procedure is the linear TAC for one procedure: its quads plus the symbol
// table describing its parameters, locals, and enclosing scope (spec.md §3
// "Procedure TAC").
type Procedure struct {
	Name     string
	Quads    []Quad
	Locals   *symbols.Table
	NumTemps int
}

// Program is a mapping procedure_name -> ordered sequence of quads, for
// every procedure in the compilation unit.
type Program struct {
	Procedures []*Procedure
}

func (p *Program) Lookup(name string) (*Procedure, bool) {
	for _, proc := range p.Procedures {
		if proc.Name == name {
			return proc, true
		}
	}
	return nil, false
}

// procedureEntry resolves the global-scope ProcedureEntry for name by
// walking up from any procedure's own Locals frame to the root scope.
func procedureEntry(locals *symbols.Table, name string) (*symbols.ProcedureEntry, bool) {
	root := locals
	for root.Parent() != nil {
		root = root.Parent()
	}
	entry, ok := root.Lookup(name)
	if !ok || entry.Procedure == nil {
		return nil, false
	}
	return entry.Procedure, true
}

// FindParamDeclaration resolves the callee parameter that a `param` quad at
// index i actually passes, per spec.md §4.4: "scan forward from the param
// to the matching call, counting intervening params; index the callee's
// parameter list from the end by that count." Grounded on
// original_source/src/optimizations (Quadrupel::find_param_declaration).
func FindParamDeclaration(quads []Quad, i int, locals *symbols.Table) (symbols.ParameterEntry, bool) {
	paramsAfter := 0
	for j := i + 1; j < len(quads); j++ {
		switch quads[j].Op {
		case Param:
			paramsAfter++
		case Call:
			calleeName := quads[j].Arg1.Var.Name
			callee, ok := procedureEntry(locals, calleeName)
			if !ok {
				return symbols.ParameterEntry{}, false
			}
			idx := len(callee.Parameters) - 1 - paramsAfter
			if idx < 0 || idx >= len(callee.Parameters) {
				return symbols.ParameterEntry{}, false
			}
			return callee.Parameters[idx], true
		default:
			// A run of params immediately precedes its call (spec.md §3);
			// anything else interrupting the run means there is no match.
			return symbols.ParameterEntry{}, false
		}
	}
	return symbols.ParameterEntry{}, false
}
