package vm

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// RuntimeError is a failure raised by the dispatch loop, annotated with
// the source line the VM was executing at the time. Msg carries the text
// of the lower-level error returned by a Value operation.
type RuntimeError struct {
	Line int
	Msg  string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("Runtime error, at line %d: %s", e.Line, e.Msg)
}

// VM is a stack machine that executes one Chunk at a time. A VM owns a
// globals map that survives across Execute calls so that a REPL can build
// up state one line at a time; the value stack itself is local to a single
// Execute call and is always empty when it returns.
type VM struct {
	stack   []Value
	globals map[string]Value
	line    int

	trace bool
	out   io.Writer
	log   *logrus.Logger
}

// Option configures a VM at construction time.
type Option func(*VM)

// WithTrace enables chunk disassembly and per-opcode execution logging at
// Debug level.
func WithTrace(enabled bool) Option {
	return func(v *VM) { v.trace = enabled }
}

// WithOutput overrides where Print writes; it defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(v *VM) { v.out = w }
}

// New returns a VM with an empty global environment.
func New(opts ...Option) *VM {
	v := &VM{
		globals: make(map[string]Value),
		out:     os.Stdout,
		log:     logrus.New(),
	}
	for _, opt := range opts {
		opt(v)
	}
	if !v.trace {
		v.log.SetLevel(logrus.WarnLevel)
	} else {
		v.log.SetLevel(logrus.DebugLevel)
	}
	return v
}

func (v *VM) push(val Value) {
	v.stack = append(v.stack, val)
}

func (v *VM) pop() Value {
	n := len(v.stack)
	val := v.stack[n-1]
	v.stack = v.stack[:n-1]
	return val
}

func (v *VM) peek() Value {
	return v.stack[len(v.stack)-1]
}

func (v *VM) fail(msg string) error {
	v.stack = v.stack[:0]
	return &RuntimeError{Line: v.line, Msg: msg}
}

// Execute runs chunk to completion, returning the value left by its
// terminating Return opcode (Nil if the stack was empty). Reentrant
// execution of a second chunk on the same VM reuses the globals map but
// starts from a fresh, empty value stack.
func (v *VM) Execute(chunk *Chunk) (Value, error) {
	v.stack = v.stack[:0]
	if v.trace {
		v.log.WithField("chunk", chunk.Disassemble()).Debug("executing chunk")
	}

	for _, ins := range chunk.Code {
		v.line = ins.Line
		if v.trace {
			v.log.WithFields(logrus.Fields{"op": ins.Op, "line": ins.Line, "stack": len(v.stack)}).Debug("step")
		}

		switch ins.Op {
		case OpLoadConst:
			v.push(chunk.Constants.At(ins.Arg))

		case OpTrue:
			v.push(Bool(true))
		case OpFalse:
			v.push(Bool(false))
		case OpNil:
			v.push(Nil)

		case OpPop:
			v.pop()

		case OpDefineGlobal:
			name, _ := chunk.Constants.At(ins.Arg).AsString()
			v.globals[name] = v.pop()

		case OpGetGlobal:
			name, _ := chunk.Constants.At(ins.Arg).AsString()
			val, ok := v.globals[name]
			if !ok {
				return Value{}, v.fail("undefined variable.")
			}
			v.push(val)

		case OpSetGlobal:
			name, _ := chunk.Constants.At(ins.Arg).AsString()
			if _, ok := v.globals[name]; !ok {
				return Value{}, v.fail("undefined variable.")
			}
			v.globals[name] = v.peek()

		case OpNegate:
			val, err := v.pop().Negate()
			if err != nil {
				return Value{}, v.fail(err.Error())
			}
			v.push(val)

		case OpNot:
			val, err := v.pop().Not()
			if err != nil {
				return Value{}, v.fail(err.Error())
			}
			v.push(val)

		case OpAdd, OpSub, OpMul, OpDiv, OpEqual, OpNotEqual,
			OpGreaterThan, OpGreaterEq, OpLessThan, OpLessEq, OpAnd, OpOr:
			rhs := v.pop()
			lhs := v.pop()
			result, err := v.binaryOp(ins.Op, lhs, rhs)
			if err != nil {
				return Value{}, v.fail(err.Error())
			}
			v.push(result)

		case OpPrint:
			fmt.Fprintln(v.out, v.pop().String())

		case OpReturn:
			if len(v.stack) == 0 {
				return Nil, nil
			}
			return v.pop(), nil

		default:
			return Value{}, v.fail(fmt.Sprintf("unknown opcode %v", ins.Op))
		}
	}

	return Nil, nil
}

func (v *VM) binaryOp(op Opcode, lhs, rhs Value) (Value, error) {
	switch op {
	case OpAdd:
		return lhs.Add(rhs)
	case OpSub:
		return lhs.Sub(rhs)
	case OpMul:
		return lhs.Mul(rhs)
	case OpDiv:
		return lhs.Div(rhs)
	case OpEqual:
		return Bool(lhs.Equal(rhs)), nil
	case OpNotEqual:
		return Bool(!lhs.Equal(rhs)), nil
	case OpGreaterThan:
		return lhs.Compare(rhs, ">")
	case OpGreaterEq:
		return lhs.Compare(rhs, ">=")
	case OpLessThan:
		return lhs.Compare(rhs, "<")
	case OpLessEq:
		return lhs.Compare(rhs, "<=")
	case OpAnd:
		return lhs.And(rhs)
	case OpOr:
		return lhs.Or(rhs)
	default:
		return Value{}, fmt.Errorf("invalid binary operation.")
	}
}
