package errors

import "fmt"

// CompilerBug is spec.md §7 category 1: an assertion-style internal
// invariant violation (missing label, malformed quad shape, unresolved
// symbol-table entry during lowering). It indicates a bug in an earlier
// stage, not a user mistake, so it is never recovered from — the pass
// aborts immediately. Mirrors the original compiler's `panic!` at phase_3
// label resolution.
type CompilerBug struct {
	Subsystem string
	Detail    string
}

func (b *CompilerBug) Error() string {
	return fmt.Sprintf("compiler bug in %s: %s", b.Subsystem, b.Detail)
}

// Abort panics with a CompilerBug. Callers in internal/cfg, internal/lower,
// and internal/syntax use this for conditions spec.md §7 documents as
// "missing label referenced by a branch", "relational quad with non-Label
// result", and similar precondition violations.
func Abort(subsystem, format string, args ...any) {
	panic(&CompilerBug{Subsystem: subsystem, Detail: fmt.Sprintf(format, args...)})
}
