package vm

import (
	"fmt"
	"strings"
)

// Disassemble renders one line per instruction: "[line] - op" for bare
// opcodes, "[line] - op - constant" for LoadConst, matching the shape of
// the source's Chunk Debug formatting. It is used only behind the VM's
// trace option; it never participates in execution.
func (c *Chunk) Disassemble() string {
	var b strings.Builder
	for _, ins := range c.Code {
		if ins.Op == OpLoadConst {
			fmt.Fprintf(&b, "[%04d] - %s - %v\n", ins.Line, ins.Op, c.Constants.At(ins.Arg))
			continue
		}
		if ins.Op.hasArg() {
			fmt.Fprintf(&b, "[%04d] - %s(%d)\n", ins.Line, ins.Op, ins.Arg)
			continue
		}
		fmt.Fprintf(&b, "[%04d] - %s\n", ins.Line, ins.Op)
	}
	return b.String()
}
