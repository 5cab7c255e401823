// Package rlox wires the Scanner/Compiler pair in lang to the VM in vm,
// providing the single entry point the REPL and file driver call.
package rlox

import (
	"github.com/NongusStudios/rlox/lang"
	"github.com/NongusStudios/rlox/vm"
)

// Interpret compiles source and executes the resulting Chunk against m,
// returning the value left by the program's terminating Return opcode.
// A compile failure (lexical or syntactic) is returned without touching
// m's state; a runtime failure may still have mutated m's globals, since
// the VM does not roll back side effects on error.
func Interpret(m *vm.VM, source string) (vm.Value, error) {
	chunk, err := lang.Compile(source)
	if err != nil {
		return vm.Value{}, err
	}
	return m.Execute(chunk)
}
