package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"splc/internal/cfg"
	"splc/internal/tac"
)

func v(name string) tac.Var { return tac.NewSourceVar(name) }

func buildGraph(quads []tac.Quad) *cfg.Graph {
	return cfg.Build(&tac.Procedure{Name: "main", Quads: quads})
}

func TestSCCsStraightLineAreAllSingletons(t *testing.T) {
	g := buildGraph([]tac.Quad{
		tac.NewLabel("main"),
		tac.NewAssign(v("x"), tac.ConstArg(1)),
	})

	for _, comp := range SCCs(g) {
		assert.Len(t, comp, 1)
	}
	assert.Empty(t, Loops(g))
}

func TestSCCsFindsWhileLoopBody(t *testing.T) {
	g := buildGraph([]tac.Quad{
		tac.NewLabel("main"),
		tac.NewLabel("L_top"),
		tac.NewBinary(tac.Ge, tac.VarArg(v("i")), tac.VarArg(v("n")), tac.LabelResult("L_end")),
		tac.NewBinary(tac.Add, tac.VarArg(v("i")), tac.ConstArg(1), tac.VarResult(v("i"))),
		tac.NewGoto("L_top"),
		tac.NewLabel("L_end"),
	})

	headerIdx, ok := g.BlockByLabel("L_top")
	require.True(t, ok)
	bodyIdx := g.Blocks[headerIdx].Succ[0]

	loops := Loops(g)
	require.Len(t, loops, 1)
	assert.ElementsMatch(t, []int{headerIdx, bodyIdx}, loops[0])
}

func TestSCCsSelfLoopIsReportedAsALoop(t *testing.T) {
	g := buildGraph([]tac.Quad{
		tac.NewLabel("main"),
		tac.NewLabel("L_top"),
		tac.NewBinary(tac.Lt, tac.ConstArg(1), tac.ConstArg(2), tac.LabelResult("L_top")),
	})

	headerIdx, ok := g.BlockByLabel("L_top")
	require.True(t, ok)

	loops := Loops(g)
	require.Len(t, loops, 1)
	assert.Equal(t, []int{headerIdx}, loops[0])
}

func TestDotIncludesNodesEdgesAndLoopClusters(t *testing.T) {
	g := buildGraph([]tac.Quad{
		tac.NewLabel("main"),
		tac.NewLabel("L_top"),
		tac.NewBinary(tac.Ge, tac.VarArg(v("i")), tac.VarArg(v("n")), tac.LabelResult("L_end")),
		tac.NewBinary(tac.Add, tac.VarArg(v("i")), tac.ConstArg(1), tac.VarResult(v("i"))),
		tac.NewGoto("L_top"),
		tac.NewLabel("L_end"),
	})

	out := Dot(g, Loops(g))
	assert.Contains(t, out, "digraph {")
	assert.Contains(t, out, "xlabel=\"B0\"")
	assert.Contains(t, out, "->")
	assert.Contains(t, out, "Loop 0")
}
