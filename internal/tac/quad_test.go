package tac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArgTags(t *testing.T) {
	v := NewSourceVar("x")
	assert.True(t, VarArg(v).IsVar())
	assert.True(t, ConstArg(5).IsConst())
	assert.True(t, EmptyArg().IsEmpty())
}

func TestResultTags(t *testing.T) {
	assert.True(t, VarResult(NewTemp(0)).IsVar())
	assert.True(t, LabelResult("L1").IsLabel())
	assert.True(t, EmptyResult().IsEmpty())
}

func TestOpClassification(t *testing.T) {
	assert.True(t, Lt.IsRelational())
	assert.True(t, Lt.IsJump())
	assert.True(t, Goto.IsJump())
	assert.False(t, Assign.IsJump())
	assert.True(t, Add.IsArithmetic())
	assert.False(t, Neg.IsArithmetic())
}

func TestNewBinaryInvariants(t *testing.T) {
	// spec.md §3: arithmetic quads always have result = Var(_)
	q := NewBinary(Add, ConstArg(1), ConstArg(2), VarResult(NewTemp(0)))
	assert.True(t, q.Result.IsVar())

	// relational quads target a label, never a value
	cond := NewBinary(Lt, VarArg(NewSourceVar("i")), VarArg(NewSourceVar("n")), LabelResult("L_end"))
	assert.True(t, cond.Result.IsLabel())
}

func TestQuadStringDoesNotPanic(t *testing.T) {
	q := NewAssign(NewSourceVar("x"), ConstArg(5))
	assert.NotEmpty(t, q.String())
	lbl := NewLabel("main")
	assert.Equal(t, "main:", lbl.String())
}
