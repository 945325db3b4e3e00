// Package symbols implements the symbol table spec.md §6 describes as
// delivered by the (external) semantic analyzer: procedure entries with
// parameter lists carrying is_reference flags, variable entries with a
// type, and type entries for int/bool/array[n] of T.
package symbols

import "fmt"

// Type is the closed union of type expressions this language supports.
type Type interface {
	String() string
	// ByteSize is the size in bytes used to compute array offsets
	// (spec.md §4.1: int = 4, bool = 4, array[n] of T = n * sizeof(T)).
	ByteSize() int
	isType()
}

type IntType struct{}

func (IntType) String() string { return "int" }
func (IntType) ByteSize() int  { return 4 }
func (IntType) isType()        {}

type BoolType struct{}

func (BoolType) String() string { return "bool" }
func (BoolType) ByteSize() int  { return 4 }
func (BoolType) isType()        {}

type ArrayType struct {
	Size    int
	Element Type
}

func (a ArrayType) String() string { return fmt.Sprintf("array[%d] of %s", a.Size, a.Element) }
func (a ArrayType) ByteSize() int  { return a.Size * a.Element.ByteSize() }
func (ArrayType) isType()          {}

var (
	Int  Type = IntType{}
	Bool Type = BoolType{}
)
