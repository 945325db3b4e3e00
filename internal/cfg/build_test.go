package cfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"splc/internal/tac"
)

func v(name string) tac.Var { return tac.NewSourceVar(name) }

// TestBuildStraightLineBlock mirrors spec.md §8's S1: a procedure with no
// control flow becomes one code block plus Start/Stop.
func TestBuildStraightLineBlock(t *testing.T) {
	proc := &tac.Procedure{
		Name: "main",
		Quads: []tac.Quad{
			tac.NewLabel("main"),
			tac.NewBinary(tac.Add, tac.ConstArg(2), tac.ConstArg(3), tac.VarResult(tac.NewTemp(0))),
			tac.NewAssign(v("x"), tac.VarArg(tac.NewTemp(0))),
		},
	}

	g := Build(proc)
	require.Len(t, g.Blocks, 3) // Start, Code, Stop
	assert.Equal(t, KindStart, g.Blocks[0].Kind)
	assert.Equal(t, KindCode, g.Blocks[1].Kind)
	assert.Equal(t, KindStop, g.Blocks[2].Kind)
	assert.Equal(t, []int{1}, g.Blocks[0].Succ)
	assert.Equal(t, []int{2}, g.Blocks[1].Succ)
	assert.Empty(t, g.Blocks[2].Succ)
}

// TestBuildIfElse mirrors spec.md §8's S2: if/else over `(a < b)` produces
// three code blocks plus Start/Stop, with the if-block's relational adding
// an edge alongside its fallthrough.
func TestBuildIfElse(t *testing.T) {
	proc := &tac.Procedure{
		Name: "main",
		Quads: []tac.Quad{
			tac.NewLabel("main"),
			tac.NewBinary(tac.Ge, tac.VarArg(v("a")), tac.VarArg(v("b")), tac.LabelResult("L_end_1")),
			tac.NewAssign(v("c"), tac.ConstArg(1)),
			tac.NewLabel("L_end_1"),
			tac.NewAssign(v("c"), tac.ConstArg(2)),
		},
	}

	g := Build(proc)
	require.Len(t, g.Blocks, 5) // Start, if-block, then-block, else-block, Stop

	ifBlock := g.Blocks[1]
	last, ok := ifBlock.LastQuad()
	require.True(t, ok)
	assert.True(t, last.Op.IsRelational())
	assert.Len(t, ifBlock.Succ, 2) // fallthrough to then, branch to else label
}

func TestBuildWhileLoop(t *testing.T) {
	proc := &tac.Procedure{
		Name: "main",
		Quads: []tac.Quad{
			tac.NewLabel("main"),
			tac.NewLabel("L_top_1"),
			tac.NewBinary(tac.Ge, tac.VarArg(v("i")), tac.VarArg(v("n")), tac.LabelResult("L_end_2")),
			tac.NewBinary(tac.Add, tac.VarArg(v("i")), tac.ConstArg(1), tac.VarResult(v("i"))),
			tac.NewGoto("L_top_1"),
			tac.NewLabel("L_end_2"),
		},
	}

	g := Build(proc)
	// Start, entry(label main), loop header, loop body, exit(label L_end_2), Stop
	require.Len(t, g.Blocks, 6)

	headerIdx, ok := g.BlockByLabel("L_top_1")
	require.True(t, ok)
	header := g.Blocks[headerIdx]
	assert.Len(t, header.Succ, 2)

	bodyIdx := header.Succ[0]
	body := g.Blocks[bodyIdx]
	last, ok := body.LastQuad()
	require.True(t, ok)
	assert.Equal(t, tac.Goto, last.Op)
	assert.Equal(t, []int{headerIdx}, body.Succ)
}

func TestBuildMissingLabelAborts(t *testing.T) {
	proc := &tac.Procedure{
		Name: "main",
		Quads: []tac.Quad{
			tac.NewLabel("main"),
			tac.NewGoto("nowhere"),
		},
	}

	assert.Panics(t, func() { Build(proc) })
}
