package lang

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/NongusStudios/rlox/vm"
)

// A CompileError is a parse-time failure: a missing expression, a missing
// ')' or ';', or an unexpected Eof. The compiler has no panic-mode
// recovery; the first CompileError (or LexError bubbled up from the
// scanner) aborts Compile.
type CompileError struct {
	Line int
	Msg  string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("Error at line %d: %s", e.Line, e.Msg)
}

// Compiler is a single-pass Pratt parser with one-token lookahead
// (previous, current) that emits directly into a Chunk. It never builds an
// intermediate tree.
type Compiler struct {
	scanner  *Scanner
	previous Token
	current  Token
	chunk    *vm.Chunk
}

// Compile translates source into a Chunk. The returned Chunk always ends
// in an OpReturn instruction. Compilation stops at the first lexical or
// compile error.
func Compile(source string) (*vm.Chunk, error) {
	c := &Compiler{scanner: New(source), chunk: vm.NewChunk()}
	if err := c.advance(); err != nil {
		return nil, err
	}
	for c.current.Kind != Eof {
		if err := c.declaration(); err != nil {
			return nil, err
		}
	}
	c.chunk.Emit(vm.OpReturn, c.previous.Line)
	return c.chunk, nil
}

// advance shifts current into previous and pulls the next token from the
// scanner. A lexical failure is returned as-is; its message is already
// formatted "Error at line L: msg", matching CompileError's rendering.
func (c *Compiler) advance() error {
	c.previous = c.current
	tok, err := c.scanner.Next()
	if err != nil {
		return err
	}
	c.current = tok
	return nil
}

// consume advances past current if it has kind, otherwise fails with msg.
func (c *Compiler) consume(kind Kind, msg string) error {
	if c.current.Kind == kind {
		return c.advance()
	}
	return &CompileError{Line: c.current.Line, Msg: msg}
}

// match advances and reports true if current has kind, otherwise leaves
// the cursor untouched and reports false.
func (c *Compiler) match(kind Kind) (bool, error) {
	if c.current.Kind != kind {
		return false, nil
	}
	return true, c.advance()
}

func (c *Compiler) declaration() error {
	if ok, err := c.match(Let); err != nil {
		return err
	} else if ok {
		return c.letDeclaration()
	}
	return c.statement()
}

// letDeclaration parses `let IDENT ( = expr )? ;`. The identifier is
// interned as a String constant once; DefineGlobal references that same
// index.
func (c *Compiler) letDeclaration() error {
	if err := c.consume(Identifier, "expected variable name"); err != nil {
		return err
	}
	name := c.previous
	nameIdx := c.chunk.AddConstant(vm.String(name.Text))

	hasInit, err := c.match(Equal)
	if err != nil {
		return err
	}
	if hasInit {
		if err := c.expression(); err != nil {
			return err
		}
	} else {
		c.chunk.Emit(vm.OpNil, name.Line)
	}

	if err := c.consume(Semicolon, "expected ';' after variable declaration"); err != nil {
		return err
	}
	c.chunk.EmitArg(vm.OpDefineGlobal, nameIdx, name.Line)
	return nil
}

func (c *Compiler) statement() error {
	if ok, err := c.match(Print); err != nil {
		return err
	} else if ok {
		return c.printStatement()
	}
	return c.expressionStatement()
}

func (c *Compiler) printStatement() error {
	if err := c.expression(); err != nil {
		return err
	}
	if err := c.consume(Semicolon, "expected ';' after value"); err != nil {
		return err
	}
	c.chunk.Emit(vm.OpPrint, c.previous.Line)
	return nil
}

func (c *Compiler) expressionStatement() error {
	if err := c.expression(); err != nil {
		return err
	}
	if err := c.consume(Semicolon, "expected ';' after expression"); err != nil {
		return err
	}
	c.chunk.Emit(vm.OpPop, c.previous.Line)
	return nil
}

func (c *Compiler) expression() error {
	return c.parsePrecedence(PrecAssignment)
}

// parsePrecedence is the Pratt loop: dispatch previous's prefix parselet,
// then keep consuming infix parselets while current's rule binds at least
// as tightly as p.
func (c *Compiler) parsePrecedence(p Precedence) error {
	if err := c.advance(); err != nil {
		return err
	}
	prefix := getRule(c.previous.Kind).prefix
	if prefix == nil {
		return &CompileError{Line: c.previous.Line, Msg: "expected expression"}
	}
	canAssign := p <= PrecAssignment
	if err := prefix(c, canAssign); err != nil {
		return err
	}

	for p <= getRule(c.current.Kind).precedence {
		if err := c.advance(); err != nil {
			return err
		}
		infix := getRule(c.previous.Kind).infix
		if err := infix(c, canAssign); err != nil {
			return err
		}
	}

	if canAssign && c.current.Kind == Equal {
		return &CompileError{Line: c.current.Line, Msg: "invalid assignment target"}
	}
	return nil
}

func (c *Compiler) grouping(_ bool) error {
	if err := c.expression(); err != nil {
		return err
	}
	return c.consume(RParen, "expected ')' after expression")
}

// unary parses its operand at Unary precedence, then emits Negate or Not.
func (c *Compiler) unary(_ bool) error {
	op := c.previous.Kind
	line := c.previous.Line
	if err := c.parsePrecedence(PrecUnary); err != nil {
		return err
	}
	switch op {
	case Minus:
		c.chunk.Emit(vm.OpNegate, line)
	case Bang:
		c.chunk.Emit(vm.OpNot, line)
	}
	return nil
}

// binary records previous's operator kind, then recursively parses the
// right operand one precedence level above the operator's own, giving
// left-associativity.
func (c *Compiler) binary(_ bool) error {
	op := c.previous.Kind
	line := c.previous.Line
	rule := getRule(op)
	if err := c.parsePrecedence(rule.precedence.next()); err != nil {
		return err
	}
	switch op {
	case Plus:
		c.chunk.Emit(vm.OpAdd, line)
	case Minus:
		c.chunk.Emit(vm.OpSub, line)
	case Star:
		c.chunk.Emit(vm.OpMul, line)
	case Slash:
		c.chunk.Emit(vm.OpDiv, line)
	case Equate:
		c.chunk.Emit(vm.OpEqual, line)
	case BangEqual:
		c.chunk.Emit(vm.OpNotEqual, line)
	case GreaterThan:
		c.chunk.Emit(vm.OpGreaterThan, line)
	case GreaterEq:
		c.chunk.Emit(vm.OpGreaterEq, line)
	case LessThan:
		c.chunk.Emit(vm.OpLessThan, line)
	case LessEq:
		c.chunk.Emit(vm.OpLessEq, line)
	case And:
		c.chunk.Emit(vm.OpAnd, line)
	case Or:
		c.chunk.Emit(vm.OpOr, line)
	}
	return nil
}

// number parses previous's slice as f64, stripping '_' separators the
// scanner retained but never validated.
func (c *Compiler) number(_ bool) error {
	text := strings.ReplaceAll(c.previous.Text, "_", "")
	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return &CompileError{Line: c.previous.Line, Msg: "invalid number literal"}
	}
	c.chunk.EmitConstant(vm.Number(n), c.previous.Line)
	return nil
}

// string strips the surrounding quotes from previous's slice.
func (c *Compiler) string(_ bool) error {
	text := c.previous.Text
	if len(text) >= 2 {
		text = text[1 : len(text)-1]
	}
	c.chunk.EmitConstant(vm.String(text), c.previous.Line)
	return nil
}

func (c *Compiler) literal(_ bool) error {
	line := c.previous.Line
	switch c.previous.Kind {
	case True:
		c.chunk.Emit(vm.OpTrue, line)
	case False:
		c.chunk.Emit(vm.OpFalse, line)
	case Nil:
		c.chunk.Emit(vm.OpNil, line)
	}
	return nil
}

// variable emits a global lookup, or (when invoked in assignable position
// and followed by '=') a global store. This is the only parselet that
// inspects the caller's precedence context.
func (c *Compiler) variable(canAssign bool) error {
	name := c.previous
	idx := c.chunk.AddConstant(vm.String(name.Text))

	if canAssign {
		ok, err := c.match(Equal)
		if err != nil {
			return err
		}
		if ok {
			if err := c.expression(); err != nil {
				return err
			}
			c.chunk.EmitArg(vm.OpSetGlobal, idx, name.Line)
			return nil
		}
	}

	c.chunk.EmitArg(vm.OpGetGlobal, idx, name.Line)
	return nil
}
