package optimize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"splc/internal/tac"
)

func TestDCERemovesDeadAssignment(t *testing.T) {
	proc, g := buildGraph([]tac.Quad{
		tac.NewLabel("main"),
		tac.NewAssign(v("x"), tac.ConstArg(1)),
		tac.NewAssign(v("y"), tac.ConstArg(2)), // never read
		tac.NewAssign(v("z"), tac.VarArg(v("x"))),
	})

	changed := (DeadCodeElimination{}).Apply(proc, g)
	require.True(t, changed)

	block := g.Blocks[1]
	for _, q := range block.Quads {
		if q.Result.IsVar() {
			assert.NotEqual(t, "y", q.Result.Var.Name)
		}
	}
}

func TestDCEKeepsSideEffectingQuads(t *testing.T) {
	proc, g := buildGraph([]tac.Quad{
		tac.NewLabel("main"),
		tac.NewArrayStore(v("arr"), tac.ConstArg(7), v("i")), // result=arr, but array_store is never removed
		tac.NewParam(tac.ConstArg(1)),
		tac.NewCall("helper", 1),
	})

	before := len(g.Blocks[1].Quads)
	(DeadCodeElimination{}).Apply(proc, g)
	assert.Equal(t, before, len(g.Blocks[1].Quads))
}

func TestDCEKeepsLiveOutDefinition(t *testing.T) {
	proc, g := buildGraph([]tac.Quad{
		tac.NewLabel("main"),
		tac.NewLabel("L_top"),
		tac.NewBinary(tac.Ge, tac.VarArg(v("i")), tac.VarArg(v("n")), tac.LabelResult("L_end")),
		tac.NewBinary(tac.Add, tac.VarArg(v("i")), tac.ConstArg(1), tac.VarResult(v("i"))),
		tac.NewGoto("L_top"),
		tac.NewLabel("L_end"),
	})

	(DeadCodeElimination{}).Apply(proc, g)

	headerIdx, ok := g.BlockByLabel("L_top")
	require.True(t, ok)
	bodyIdx := g.Blocks[headerIdx].Succ[0]
	body := g.Blocks[bodyIdx]
	require.Len(t, body.Quads, 2) // i := i + 1; goto L_top
	assert.Equal(t, tac.Add, body.Quads[0].Op)
}
