// Package graph supplies the "Misc" component of spec.md §9: strongly
// connected component detection over a built cfg.Graph, used only to label
// loop clusters in the visualization surface (spec.md §6). Grounded on
// original_source/src/optimizations/tarjan.rs's algorithm; the original's
// recursive strong_connect passes its mutable state around in a single
// struct the author's own comment flags for renaming, which this package
// avoids by keeping the per-call state on a dedicated tarjanState receiver
// instead of threading loose reference bundles through free functions.
package graph

import "splc/internal/cfg"

// SCCs returns the strongly connected components of g's block graph, each
// as a sorted slice of block indices, in the order Tarjan's algorithm pops
// them off its stack. A singleton block with no self-loop is still a
// component of size one; callers that only care about loops should filter
// on length (or check for a self-edge) themselves.
func SCCs(g *cfg.Graph) [][]int {
	s := &tarjanState{
		graph:   g,
		index:   make([]int, len(g.Blocks)),
		low:     make([]int, len(g.Blocks)),
		onStack: make([]bool, len(g.Blocks)),
		visited: make([]bool, len(g.Blocks)),
		next:    0,
	}

	for n := range g.Blocks {
		if !s.visited[n] {
			s.strongConnect(n)
		}
	}
	return s.result
}

// tarjanState holds one run's bookkeeping: discovery index and lowlink per
// node, the node stack, and the components found so far.
type tarjanState struct {
	graph   *cfg.Graph
	index   []int
	low     []int
	visited []bool
	onStack []bool
	stack   []int
	next    int
	result  [][]int
}

func (s *tarjanState) strongConnect(v int) {
	s.visited[v] = true
	s.index[v] = s.next
	s.low[v] = s.next
	s.next++
	s.stack = append(s.stack, v)
	s.onStack[v] = true

	for _, w := range s.graph.Blocks[v].Succ {
		switch {
		case !s.visited[w]:
			s.strongConnect(w)
			if s.low[w] < s.low[v] {
				s.low[v] = s.low[w]
			}
		case s.onStack[w]:
			if s.index[w] < s.low[v] {
				s.low[v] = s.index[w]
			}
		}
	}

	if s.low[v] != s.index[v] {
		return
	}

	var component []int
	for {
		n := len(s.stack) - 1
		w := s.stack[n]
		s.stack = s.stack[:n]
		s.onStack[w] = false
		component = append(component, w)
		if w == v {
			break
		}
	}
	sortInts(component)
	s.result = append(s.result, component)
}

func sortInts(xs []int) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j-1] > xs[j]; j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
}

// Loops filters SCCs(g) down to components that represent an actual cycle:
// size greater than one, or a single block with a self-edge.
func Loops(g *cfg.Graph) [][]int {
	var loops [][]int
	for _, comp := range SCCs(g) {
		if len(comp) > 1 {
			loops = append(loops, comp)
			continue
		}
		n := comp[0]
		for _, succ := range g.Blocks[n].Succ {
			if succ == n {
				loops = append(loops, comp)
				break
			}
		}
	}
	return loops
}
