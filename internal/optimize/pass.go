// Package optimize implements the procedure-scoped optimization passes of
// spec.md §4.7-§4.10: common-subexpression elimination, dead-code
// elimination, the constant-folding driver, and the algebraic simplifier
// it calls. Grounded on the teacher's internal/ir OptimizationPass /
// OptimizationPipeline shape, generalized from the teacher's
// whole-program Apply(*Program) to a per-procedure Apply(*tac.Procedure,
// *cfg.Graph) since this repo's passes operate over one procedure's CFG
// rather than a whole-module IR.
package optimize

import (
	"github.com/tliron/commonlog"

	"splc/internal/cfg"
	"splc/internal/symbols"
	"splc/internal/tac"
)

var log = commonlog.GetLogger("splc.optimize")

// Pass is one optimization transformation over a single procedure's CFG.
type Pass interface {
	Name() string
	Description() string
	Apply(proc *tac.Procedure, g *cfg.Graph) bool
}

// Pipeline runs a sequence of passes to a fixpoint or a fixed pass count,
// mirroring the teacher's OptimizationPipeline.
type Pipeline struct {
	passes []Pass
}

func NewPipeline() *Pipeline { return &Pipeline{} }

func (p *Pipeline) AddPass(pass Pass) { p.passes = append(p.passes, pass) }

// Passes reports the passes currently registered, in run order.
func (p *Pipeline) Passes() []Pass { return p.passes }

// Run applies every pass once, in order, to proc's CFG g and reports
// whether any pass changed it.
func (p *Pipeline) Run(proc *tac.Procedure, g *cfg.Graph) bool {
	changed := false
	log.Infof("running %d optimization passes over %s", len(p.passes), proc.Name)
	for _, pass := range p.passes {
		if pass.Apply(proc, g) {
			log.Debugf("%s: applied changes to %s", pass.Name(), proc.Name)
			changed = true
		} else {
			log.Debugf("%s: no changes to %s", pass.Name(), proc.Name)
		}
	}
	return changed
}

// RunToFixpoint repeats Run until a full pass over every optimization
// leaves the CFG unchanged, or maxIterations is reached.
func (p *Pipeline) RunToFixpoint(proc *tac.Procedure, g *cfg.Graph, maxIterations int) {
	for i := 0; i < maxIterations; i++ {
		if !p.Run(proc, g) {
			return
		}
	}
	log.Warningf("%s: optimization pipeline did not reach a fixpoint within %d iterations", proc.Name, maxIterations)
}

// referenceArgVars returns the variables passed by reference to the call at
// quads[callIdx], by walking back over the consecutive param quads that
// precede it (spec.md §3: "a run of params immediately precedes its
// call"). Shared by CSE's invalidation and the folding driver's per-quad
// CP simulation, both of which must treat a call as redefining any
// variable the callee can write through a ref parameter.
func referenceArgVars(quads []tac.Quad, callIdx int, locals *symbols.Table) []tac.Var {
	var out []tac.Var
	for j := callIdx - 1; j >= 0 && quads[j].Op == tac.Param; j-- {
		entry, ok := tac.FindParamDeclaration(quads, j, locals)
		if ok && entry.IsReference && quads[j].Arg1.IsVar() {
			out = append(out, quads[j].Arg1.Var)
		}
	}
	return out
}
