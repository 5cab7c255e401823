package vm_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/NongusStudios/rlox/vm"
)

func TestExecuteArithmetic(t *testing.T) {
	c := vm.NewChunk()
	c.EmitConstant(vm.Number(5), 1)
	c.EmitConstant(vm.Number(4), 1)
	c.Emit(vm.OpAdd, 1)
	c.Emit(vm.OpNegate, 1)
	c.Emit(vm.OpReturn, 1)

	m := vm.New()
	result, err := m.Execute(c)
	assert.NoError(t, err)
	n, ok := result.AsNumber()
	assert.True(t, ok)
	assert.Equal(t, -9.0, n)
}

func TestExecuteReturnsNilOnEmptyStack(t *testing.T) {
	c := vm.NewChunk()
	c.Emit(vm.OpReturn, 1)
	m := vm.New()
	result, err := m.Execute(c)
	assert.NoError(t, err)
	assert.True(t, result.IsNil())
}

func TestExecuteGlobalsPersistAcrossCalls(t *testing.T) {
	m := vm.New()

	define := vm.NewChunk()
	nameIdx := define.AddConstant(vm.String("x"))
	define.EmitConstant(vm.Number(5), 1)
	define.EmitArg(vm.OpDefineGlobal, nameIdx, 1)
	define.Emit(vm.OpReturn, 1)
	_, err := m.Execute(define)
	assert.NoError(t, err)

	read := vm.NewChunk()
	readIdx := read.AddConstant(vm.String("x"))
	read.EmitArg(vm.OpGetGlobal, readIdx, 1)
	read.Emit(vm.OpReturn, 1)
	result, err := m.Execute(read)
	assert.NoError(t, err)
	n, _ := result.AsNumber()
	assert.Equal(t, 5.0, n)
}

func TestExecuteUndefinedGlobalIsRuntimeError(t *testing.T) {
	c := vm.NewChunk()
	idx := c.AddConstant(vm.String("y"))
	c.EmitArg(vm.OpGetGlobal, idx, 7)
	c.Emit(vm.OpReturn, 7)

	m := vm.New()
	_, err := m.Execute(c)
	assert.EqualError(t, err, "Runtime error, at line 7: undefined variable.")
}

func TestExecutePrintWritesToConfiguredOutput(t *testing.T) {
	var buf bytes.Buffer
	m := vm.New(vm.WithOutput(&buf))

	c := vm.NewChunk()
	c.EmitConstant(vm.Number(6), 1)
	c.Emit(vm.OpPrint, 1)
	c.Emit(vm.OpReturn, 1)

	_, err := m.Execute(c)
	assert.NoError(t, err)
	assert.Equal(t, "6\n", buf.String())
}

func TestExecuteSetGlobalDoesNotPop(t *testing.T) {
	m := vm.New()

	define := vm.NewChunk()
	nameIdx := define.AddConstant(vm.String("x"))
	define.EmitConstant(vm.Number(1), 1)
	define.EmitArg(vm.OpDefineGlobal, nameIdx, 1)
	define.Emit(vm.OpReturn, 1)
	_, err := m.Execute(define)
	assert.NoError(t, err)

	set := vm.NewChunk()
	setIdx := set.AddConstant(vm.String("x"))
	set.EmitConstant(vm.Number(2), 2)
	set.EmitArg(vm.OpSetGlobal, setIdx, 2)
	set.Emit(vm.OpReturn, 2)
	result, err := m.Execute(set)
	assert.NoError(t, err)
	n, _ := result.AsNumber()
	assert.Equal(t, 2.0, n, "SetGlobal leaves the assigned value on the stack for Return to pop")
}
