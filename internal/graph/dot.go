package graph

import (
	"fmt"
	"strings"

	"splc/internal/cfg"
)

// dotAttributes mirrors original_source/src/base_blocks/dot_graph.rs's
// DOT_ATTRIBUTES constant: a dark graph/node/edge theme suited to viewing
// the rendered file directly rather than through a generic Graphviz theme.
const dotAttributes = `
    graph[bgcolor=grey16,fontname=monospace,fontcolor=grey64,pencolor=grey32,ranksep=1,nodesep=0.5,labeljust=l];
    node [shape=box,color=grey64,fontname=monospace,fontcolor=grey64];
    edge [color=grey64,fontcolor=grey64];
`

// Dot renders g as a Graphviz "digraph" description (spec.md §6's
// visualization surface): one node per block labeled B<i> with its quads
// printed one per line, one edge per successor, and one subgraph cluster
// named "Loop <k>" per entry in loops. Pass graph.Loops(g) (or nil to omit
// clustering).
func Dot(g *cfg.Graph, loops [][]int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "digraph {%s\n", dotAttributes)

	for i, block := range g.Blocks {
		fmt.Fprintf(&b, "%d [xlabel=\"B%d\",label=%q];\n", i, i, blockLabel(block))
	}

	for i, block := range g.Blocks {
		for _, succ := range block.Succ {
			fmt.Fprintf(&b, "%d -> %d;\n", i, succ)
		}
	}

	for i, comp := range loops {
		fmt.Fprintf(&b, "subgraph cluster%d {\n", i)
		b.WriteString("margin=40;\n")
		fmt.Fprintf(&b, "label=\"Loop %d\";\n", i)
		for _, n := range comp {
			fmt.Fprintf(&b, "%d;\n", n)
		}
		b.WriteString("}\n")
	}

	b.WriteString("}\n")
	return b.String()
}

// blockLabel renders one block's body the way dot_graph.rs's Display impl
// for Block does: "start"/"stop" for the sentinels, one quad per line
// otherwise.
func blockLabel(b *cfg.Block) string {
	switch b.Kind {
	case cfg.KindStart:
		return "start"
	case cfg.KindStop:
		return "stop"
	default:
		var lines []string
		for _, q := range b.Quads {
			lines = append(lines, q.String())
		}
		return strings.Join(lines, "\n")
	}
}
