package dataflow

// BitSetLattice is the Lattice[BitSet] used by reaching definitions and
// live variables: meet is AND, join is OR (spec.md §3).
type BitSetLattice struct{}

func (BitSetLattice) Init(universe int) BitSet { return NewBitSet(universe) }
func (BitSetLattice) Meet(a, b BitSet) BitSet  { return And(a, b) }
func (BitSetLattice) Join(a, b BitSet) BitSet  { return Or(a, b) }
func (BitSetLattice) Equal(a, b BitSet) bool   { return Equal(a, b) }
