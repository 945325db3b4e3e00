package optimize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"splc/internal/tac"
)

// TestConstantFoldingDriverS1 mirrors spec.md §8's S1.
func TestConstantFoldingDriverS1(t *testing.T) {
	proc, g := buildGraph([]tac.Quad{
		tac.NewLabel("main"),
		tac.NewBinary(tac.Add, tac.ConstArg(2), tac.ConstArg(3), tac.VarResult(tac.NewTemp(0))),
		tac.NewAssign(v("x"), tac.VarArg(tac.NewTemp(0))),
	})

	changed := (ConstantFoldingDriver{}).Apply(proc, g)
	require.True(t, changed)

	block := g.Blocks[1]
	require.Len(t, block.Quads, 3)
	assert.Equal(t, tac.NewAssign(tac.NewTemp(0), tac.ConstArg(5)), block.Quads[1])
	assert.Equal(t, tac.NewAssign(v("x"), tac.ConstArg(5)), block.Quads[2])
}

// TestConstantFoldingDriverS4 mirrors spec.md §8's S4.
func TestConstantFoldingDriverS4(t *testing.T) {
	proc, g := buildGraph([]tac.Quad{
		tac.NewLabel("main"),
		tac.NewAssign(v("x"), tac.ConstArg(1)),
		tac.NewBinary(tac.Add, tac.VarArg(v("x")), tac.ConstArg(2), tac.VarResult(v("y"))),
		tac.NewBinary(tac.Mul, tac.VarArg(v("y")), tac.ConstArg(0), tac.VarResult(v("z"))),
	})

	(ConstantFoldingDriver{}).Apply(proc, g)

	block := g.Blocks[1]
	require.Len(t, block.Quads, 4)
	assert.Equal(t, tac.NewAssign(v("x"), tac.ConstArg(1)), block.Quads[1])
	assert.Equal(t, tac.NewAssign(v("y"), tac.ConstArg(3)), block.Quads[2])
	assert.Equal(t, tac.NewAssign(v("z"), tac.ConstArg(0)), block.Quads[3])
}

func TestConstantFoldingDriverRewritesAlwaysTrueBranchToGoto(t *testing.T) {
	proc, g := buildGraph([]tac.Quad{
		tac.NewLabel("main"),
		tac.NewLabel("L_top"),
		tac.NewBinary(tac.Lt, tac.ConstArg(1), tac.ConstArg(2), tac.LabelResult("L_top")), // always true: unconditional continuation
		tac.NewLabel("L_end"),
	})

	(ConstantFoldingDriver{}).Apply(proc, g)

	headerIdx, ok := g.BlockByLabel("L_top")
	require.True(t, ok)
	last, ok := g.Blocks[headerIdx].LastQuad()
	require.True(t, ok)
	assert.Equal(t, tac.NewGoto("L_top"), last)
}

func TestConstantFoldingDriverRemovesAlwaysFalseBranch(t *testing.T) {
	proc, g := buildGraph([]tac.Quad{
		tac.NewLabel("main"),
		tac.NewLabel("L_top"),
		tac.NewBinary(tac.Ge, tac.ConstArg(1), tac.ConstArg(2), tac.LabelResult("L_end")), // 1 >= 2 is always false
		tac.NewAssign(v("i"), tac.ConstArg(0)),
		tac.NewLabel("L_end"),
	})

	(ConstantFoldingDriver{}).Apply(proc, g)

	headerIdx, ok := g.BlockByLabel("L_top")
	require.True(t, ok)
	header := g.Blocks[headerIdx]
	require.Len(t, header.Quads, 1, "the always-false relational is removed outright, leaving only the label")
	assert.Equal(t, tac.Label, header.Quads[0].Op)
}

func TestConstantFoldingDriverIsIdempotent(t *testing.T) {
	proc, g := buildGraph([]tac.Quad{
		tac.NewLabel("main"),
		tac.NewAssign(v("x"), tac.ConstArg(1)),
		tac.NewBinary(tac.Add, tac.VarArg(v("x")), tac.ConstArg(2), tac.VarResult(v("y"))),
	})

	driver := ConstantFoldingDriver{}
	require.True(t, driver.Apply(proc, g))
	before := append([]tac.Quad(nil), g.Blocks[1].Quads...)

	assert.False(t, driver.Apply(proc, g))
	assert.Equal(t, before, g.Blocks[1].Quads)
}
