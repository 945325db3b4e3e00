package cfg

import (
	"splc/internal/errors"
	"splc/internal/tac"
)

// Build runs the three phases of spec.md §4.2 over proc's linear quads.
func Build(proc *tac.Procedure) *Graph {
	ranges := findLeaders(proc.Quads)
	g := emitBlocks(proc.Name, proc.Quads, ranges)
	resolveEdges(g)
	return g
}

// findLeaders implements Phase 1: a quad is a leader if it is the first
// quad, a label, or immediately follows any jump (goto or relational). The
// result is the half-open ranges partitioning the quad sequence.
func findLeaders(quads []tac.Quad) [][2]int {
	if len(quads) == 0 {
		return nil
	}

	leaders := map[int]bool{0: true}
	for i, q := range quads {
		if q.Op == tac.Label {
			leaders[i] = true
		}
		if q.Op.IsJump() && i+1 < len(quads) {
			leaders[i+1] = true
		}
	}

	starts := make([]int, 0, len(leaders))
	for i := range leaders {
		starts = append(starts, i)
	}
	sortInts(starts)

	ranges := make([][2]int, 0, len(starts))
	for i, s := range starts {
		end := len(quads)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		ranges = append(ranges, [2]int{s, end})
	}
	return ranges
}

func sortInts(xs []int) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j-1] > xs[j]; j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
}

// emitBlocks implements Phase 2: prepend Start, emit one Code block per
// range (wired to its immediate predecessor by a default fallthrough edge),
// append Stop wired from the last code block.
func emitBlocks(procName string, quads []tac.Quad, ranges [][2]int) *Graph {
	g := newGraph(procName)

	startIdx := g.addBlock(&Block{Kind: KindStart, Label: StartLabel})

	prev := startIdx
	for _, r := range ranges {
		block := &Block{Kind: KindCode, Quads: append([]tac.Quad(nil), quads[r[0]:r[1]]...)}
		if first := block.Quads[0]; first.Op == tac.Label {
			block.Label = first.Result.Label
		}
		idx := g.addBlock(block)
		g.Blocks[prev].Succ = append(g.Blocks[prev].Succ, idx)
		prev = idx
	}

	stopIdx := g.addBlock(&Block{Kind: KindStop, Label: StopLabel})
	g.Blocks[prev].Succ = append(g.Blocks[prev].Succ, stopIdx)

	return g
}

// resolveEdges implements Phase 3: rewrite each code block's default
// fallthrough edge according to its last quad.
func resolveEdges(g *Graph) {
	for i, b := range g.Blocks {
		if b.Kind != KindCode {
			continue
		}
		last, ok := b.LastQuad()
		if !ok {
			continue
		}

		switch {
		case last.Op == tac.Goto:
			target := resolveLabel(g, last.Result.Label)
			g.Blocks[i].Succ = []int{target}
		case last.Op.IsRelational():
			target := resolveLabel(g, last.Result.Label)
			g.Blocks[i].Succ = append(g.Blocks[i].Succ, target)
		}
	}
}

func resolveLabel(g *Graph, label string) int {
	idx, ok := g.BlockByLabel(label)
	if !ok {
		errors.Abort("cfg", "quad references undefined label %q", label)
	}
	return idx
}
