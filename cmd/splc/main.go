// Package main is the command-line driver around THE CORE: parse, check,
// lower, build each procedure's CFG, optionally optimize, optionally dump
// intermediate artifacts. Grounded on the teacher's cmd/kanso-cli/main.go
// (argument handling, participle-error reporting, fatih/color banners) and
// cmd/kanso-lsp/main.go (the commonlog acquisition/binding pattern), with
// the flag surface original_source/src/cli/mod.rs exposes for its compiler
// binary (choose which passes run, dump TAC/CFG, emit a dot file).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/tliron/commonlog"

	"splc/internal/cfg"
	"splc/internal/errors"
	"splc/internal/graph"
	"splc/internal/lower"
	"splc/internal/optimize"
	"splc/internal/semantic"
	"splc/internal/syntax"
	"splc/internal/tac"
)

var log = commonlog.GetLogger("splc")

func main() {
	var (
		runCSE      = flag.Bool("cse", false, "run common-subexpression elimination")
		runDCE      = flag.Bool("dce", false, "run dead-code elimination")
		runConstant = flag.Bool("constprop", false, "run constant propagation and folding")
		runAll      = flag.Bool("O", false, "run all optimization passes, to fixpoint")
		dotPath     = flag.String("dot", "", "write the optimized CFG as a Graphviz dot file")
		dumpTAC     = flag.Bool("dump-tac", false, "print lowered TAC for every procedure")
		dumpCFG     = flag.Bool("dump-cfg", false, "print the block graph for every procedure")
		logLevel    = flag.Int("log-level", 1, "commonlog verbosity (0=quiet .. 4=debug)")
	)
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: splc [flags] <file.spl>")
		flag.PrintDefaults()
	}
	flag.Parse()

	commonlog.SetLogger(commonlog.NewSimpleLogger(os.Stderr))
	commonlog.Configure(*logLevel, nil)

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	source, err := os.ReadFile(path)
	if err != nil {
		color.Red("failed to read %s: %s", path, err)
		os.Exit(1)
	}

	prog, compileErr := syntax.ParseString(path, string(source))
	if compileErr != nil {
		reportAndExit(path, string(source), compileErr)
	}

	ctx, errs := semantic.Analyze(prog)
	if len(errs) > 0 {
		for _, e := range errs {
			reportError(path, string(source), e)
		}
		os.Exit(1)
	}

	tacProgram := lower.Lower(ctx, prog)
	log.Infof("lowered %d procedure(s)", len(tacProgram.Procedures))

	pipeline := buildPipeline(*runCSE, *runDCE, *runConstant, *runAll)

	var lastGraph *cfg.Graph
	for _, proc := range tacProgram.Procedures {
		g := cfg.Build(proc)

		if *dumpTAC {
			fmt.Print(tac.PrintProcedure(proc))
		}

		if len(pipeline.Passes()) > 0 {
			pipeline.RunToFixpoint(proc, g, 64)
		}

		if *dumpCFG {
			dumpBlockGraph(g)
		}

		lastGraph = g
	}

	if *dotPath != "" && lastGraph != nil {
		if err := os.WriteFile(*dotPath, []byte(graph.Dot(lastGraph, graph.Loops(lastGraph))), 0o644); err != nil {
			color.Red("failed to write %s: %s", *dotPath, err)
			os.Exit(1)
		}
	}

	color.Green("compiled %s", path)
}

func buildPipeline(cse, dce, constprop, all bool) *optimize.Pipeline {
	p := optimize.NewPipeline()
	if all || cse {
		p.AddPass(optimize.CommonSubexpressionElimination{})
	}
	if all || constprop {
		p.AddPass(optimize.ConstantFoldingDriver{})
	}
	if all || dce {
		p.AddPass(optimize.DeadCodeElimination{})
	}
	return p
}

func dumpBlockGraph(g *cfg.Graph) {
	fmt.Printf("-- %s CFG --\n", g.ProcName)
	for i, b := range g.Blocks {
		fmt.Printf("B%d (%v) -> %v\n", i, b.Label, b.Succ)
		for _, q := range b.Quads {
			fmt.Printf("    %s\n", q.String())
		}
	}
}

func reportError(path, source string, e *errors.CompilerError) {
	reporter := errors.NewReporter(path, source)
	fmt.Fprint(os.Stderr, reporter.Format(e))
}

func reportAndExit(path, source string, e *errors.CompilerError) {
	reportError(path, source, e)
	os.Exit(1)
}
