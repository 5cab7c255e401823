package lang_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/NongusStudios/rlox/lang"
	"github.com/NongusStudios/rlox/vm"
)

func ops(t *testing.T, source string) []vm.Opcode {
	t.Helper()
	chunk, err := lang.Compile(source)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	out := make([]vm.Opcode, len(chunk.Code))
	for i, ins := range chunk.Code {
		out[i] = ins.Op
	}
	return out
}

func TestCompileArithmeticPrecedence(t *testing.T) {
	got := ops(t, "-(5 + 4) * 2 / 2;")
	want := []vm.Opcode{
		vm.OpLoadConst, vm.OpLoadConst, vm.OpAdd, vm.OpNegate,
		vm.OpLoadConst, vm.OpMul, vm.OpLoadConst, vm.OpDiv,
		vm.OpPop, vm.OpReturn,
	}
	assert.Equal(t, want, got)
}

func TestCompileLogicalPrecedence(t *testing.T) {
	got := ops(t, "true and false or false and false;")
	want := []vm.Opcode{
		vm.OpTrue, vm.OpFalse, vm.OpAnd,
		vm.OpFalse, vm.OpFalse, vm.OpAnd,
		vm.OpOr, vm.OpPop, vm.OpReturn,
	}
	assert.Equal(t, want, got)
}

func TestCompileStringConcatenation(t *testing.T) {
	got := ops(t, `"Hello, " + "World";`)
	want := []vm.Opcode{vm.OpLoadConst, vm.OpLoadConst, vm.OpAdd, vm.OpPop, vm.OpReturn}
	assert.Equal(t, want, got)
}

func TestCompileComparisonChain(t *testing.T) {
	got := ops(t, "5 == 5 and 5 != 4 and 5 > 4 and 4 < 5 and 5 >= 4 and 4 <= 5;")
	want := []vm.Opcode{
		vm.OpLoadConst, vm.OpLoadConst, vm.OpEqual,
		vm.OpLoadConst, vm.OpLoadConst, vm.OpNotEqual, vm.OpAnd,
		vm.OpLoadConst, vm.OpLoadConst, vm.OpGreaterThan, vm.OpAnd,
		vm.OpLoadConst, vm.OpLoadConst, vm.OpLessThan, vm.OpAnd,
		vm.OpLoadConst, vm.OpLoadConst, vm.OpGreaterEq, vm.OpAnd,
		vm.OpLoadConst, vm.OpLoadConst, vm.OpLessEq, vm.OpAnd,
		vm.OpPop, vm.OpReturn,
	}
	assert.Equal(t, want, got)
}

func TestCompileLetDeclarationAndAssignment(t *testing.T) {
	got := ops(t, "let x = 5; x = x + 1; print x;")
	want := []vm.Opcode{
		vm.OpLoadConst, vm.OpDefineGlobal,
		vm.OpGetGlobal, vm.OpLoadConst, vm.OpAdd, vm.OpSetGlobal, vm.OpPop,
		vm.OpGetGlobal, vm.OpPrint,
		vm.OpReturn,
	}
	assert.Equal(t, want, got)
}

func TestCompileLetWithoutInitializerEmitsNil(t *testing.T) {
	got := ops(t, "let x;")
	want := []vm.Opcode{vm.OpNil, vm.OpDefineGlobal, vm.OpReturn}
	assert.Equal(t, want, got)
}

func TestCompileEveryChunkEndsInReturn(t *testing.T) {
	got := ops(t, "1; 2; 3;")
	assert.Equal(t, vm.OpReturn, got[len(got)-1])
}

func TestCompileErrors(t *testing.T) {
	cases := []struct {
		name   string
		source string
		msg    string
	}{
		{"missing expression", "let x = ;", "expected expression"},
		{"missing paren", "(1 + 2;", "expected ')' after expression"},
		{"missing semicolon", "1 + 2", "expected ';' after expression"},
		{"reserved keyword", "if;", "expected expression"},
		{"invalid assignment target", "1 + 2 = 3;", "invalid assignment target"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := lang.Compile(tc.source)
			if err == nil {
				t.Fatalf("expected error, got none")
			}
			var compileErr *lang.CompileError
			if assert.ErrorAs(t, err, &compileErr) {
				assert.Equal(t, tc.msg, compileErr.Msg)
			}
		})
	}
}

func ExampleCompile() {
	chunk, err := lang.Compile("1 + 2;")
	if err != nil {
		return
	}
	for _, ins := range chunk.Code {
		fmt.Println(ins.Op)
	}
	// Output:
	// LoadConst
	// LoadConst
	// Add
	// Pop
	// Return
}
