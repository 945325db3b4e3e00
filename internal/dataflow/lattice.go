// Package dataflow implements the generic worklist fixpoint driver of
// spec.md §4.3, shared by reaching definitions (rd.go), live variables
// (live.go), and constant propagation (constprop.go). Grounded on the
// teacher's OptimizationPass/OptimizationPipeline shape (internal/ir's
// single-purpose, composable pass structs), generalized here into one
// direction/lattice-parameterized driver instead of one pass per concern,
// per spec.md §4.3's explicit requirement that RD/LV/CP "share one driver."
package dataflow

import "splc/internal/cfg"

type Direction int

const (
	Forward Direction = iota
	Backward
)

// Lattice is the abstract element type the worklist driver is parameterized
// over (spec.md §3's Lattice contract, reduced to what the driver needs:
// Go's type system gives us Init/Meet/Join/Equal as methods on a value
// rather than spec.md's init/meet/join/join_assign quartet — join_assign is
// just Join used in an accumulating fold, so it needs no separate method).
type Lattice[T any] interface {
	Init(universe int) T
	Meet(a, b T) T
	Join(a, b T) T
	Equal(a, b T) bool
}

// BlockTransfer holds one block's precomputed transfer inputs: A is "gen"
// (or live-variables' "use"), B is "prsv/kill" (or live-variables' "not
// def"). The transfer equation is uniform: result = Join(Meet(confluence, B), A).
// This shape fits any analysis whose per-block effect is elementwise
// (reaching definitions, live variables). Constant propagation's transfer
// is not elementwise — a single quad's result depends on more than one
// variable's incoming value — so it builds its per-block function directly
// instead of going through BlockTransfer.
type BlockTransfer[T any] struct {
	A T
	B T
}

// Apply evaluates the uniform transfer equation for one block.
func (t BlockTransfer[T]) Apply(lattice Lattice[T], confluence T) T {
	return lattice.Join(lattice.Meet(confluence, t.B), t.A)
}

// Result is the per-block fixpoint state. For a forward problem, In is the
// confluence of predecessors and Out is the block's own transfer result;
// for a backward problem the roles swap (Out is the confluence of
// successors, In is the transfer result).
type Result[T any] struct {
	In  []T
	Out []T
}

// Run executes the worklist algorithm of spec.md §4.3 over g, given one
// transfer function per block (indexed the same as g.Blocks) and the
// lattice's universe size. A transfer function maps this block's
// confluence value (the Join of its neighbors' results: predecessors for
// Forward, successors for Backward) to this block's own result value.
func Run[T any](g *cfg.Graph, dir Direction, lattice Lattice[T], universe int, transfer []func(T) T) Result[T] {
	n := len(g.Blocks)
	res := Result[T]{In: make([]T, n), Out: make([]T, n)}
	for i := 0; i < n; i++ {
		res.In[i] = lattice.Init(universe)
		res.Out[i] = lattice.Init(universe)
	}

	preds := predecessors(g)

	var neighborsOf func(int) []int  // blocks whose result feeds this block's confluence
	var propagateTo func(int) []int  // blocks to re-enqueue when this block's result changes
	var confluence func(int) *T      // pointer to this block's confluence slot (In for forward, Out for backward)
	var result func(int) *T          // pointer to this block's transfer-result slot (Out for forward, In for backward)

	if dir == Forward {
		neighborsOf = func(i int) []int { return preds[i] }
		propagateTo = func(i int) []int { return g.Blocks[i].Succ }
		confluence = func(i int) *T { return &res.In[i] }
		result = func(i int) *T { return &res.Out[i] }
	} else {
		neighborsOf = func(i int) []int { return g.Blocks[i].Succ }
		propagateTo = func(i int) []int { return preds[i] }
		confluence = func(i int) *T { return &res.Out[i] }
		result = func(i int) *T { return &res.In[i] }
	}

	order := blockOrder(n, dir)
	queue := append([]int(nil), order...)
	queued := make([]bool, n)
	for _, i := range order {
		queued[i] = true
	}

	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		queued[i] = false

		c := lattice.Init(universe)
		for _, nb := range neighborsOf(i) {
			c = lattice.Join(c, *result(nb))
		}
		*confluence(i) = c

		newResult := transfer[i](c)
		if !lattice.Equal(newResult, *result(i)) {
			*result(i) = newResult
			for _, next := range propagateTo(i) {
				if !queued[next] {
					queued[next] = true
					queue = append(queue, next)
				}
			}
		}
	}

	return res
}

func predecessors(g *cfg.Graph) [][]int {
	preds := make([][]int, len(g.Blocks))
	for i, b := range g.Blocks {
		for _, s := range b.Succ {
			preds[s] = append(preds[s], i)
		}
	}
	return preds
}

func blockOrder(n int, dir Direction) []int {
	order := make([]int, n)
	for i := range order {
		if dir == Forward {
			order[i] = i
		} else {
			order[i] = n - 1 - i
		}
	}
	return order
}
