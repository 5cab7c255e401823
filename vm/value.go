package vm

import (
	"fmt"
	"math"
	"strconv"

	"github.com/josharian/intern"
)

// Kind tags a Value's active variant.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindString
)

// A Value is a tagged union over the four runtime value kinds. Values are
// cheap to copy: Number and Bool are inline, Nil carries nothing, and
// String holds only a pointer into the intern table, so copying a Value
// never copies string bytes. There is no mutable state reachable from a
// Value; every operation below is functional.
type Value struct {
	kind Kind
	num  float64
	b    bool
	str  *string
}

// Nil is the singular absence value.
var Nil = Value{kind: KindNil}

// Bool constructs a boolean Value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Number constructs a numeric Value.
func Number(n float64) Value {
	return Value{kind: KindNumber, num: n}
}

// String constructs a string Value. The text is interned so that repeated
// literals and repeated global lookups of the same name share one backing
// allocation, the Go-native analog of the source's Rc<String> sharing.
func String(s string) Value {
	interned := intern.String(s)
	return Value{kind: KindString, str: &interned}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNil() bool { return v.kind == KindNil }

// AsBool returns the payload of a Bool value and whether v was a Bool.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsNumber returns the payload of a Number value and whether v was a Number.
func (v Value) AsNumber() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// AsString returns the payload of a String value and whether v was a String.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return *v.str, true
}

// Equal implements the structural equality used by the Equal/NotEqual
// opcodes: values of different kinds are always unequal; Number equality
// is bitwise float equality rather than IEEE == (so NaN equals itself).
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindBool:
		return v.b == o.b
	case KindNumber:
		return math.Float64bits(v.num) == math.Float64bits(o.num)
	case KindString:
		return *v.str == *o.str
	default:
		return false
	}
}

// valueError is a type-mismatch or undefined-operation failure raised
// while evaluating a Value operation. The caller (the VM dispatch loop)
// attaches the current line to produce the final diagnostic.
type valueError struct {
	Msg string
}

func (e *valueError) Error() string { return e.Msg }

// Add implements Number+Number and String+String (concatenation).
func (v Value) Add(rhs Value) (Value, error) {
	switch {
	case v.kind == KindNumber && rhs.kind == KindNumber:
		return Number(v.num + rhs.num), nil
	case v.kind == KindString && rhs.kind == KindString:
		return String(*v.str + *rhs.str), nil
	default:
		return Value{}, &valueError{Msg: "type mismatch or invalid '+' operation."}
	}
}

func (v Value) Sub(rhs Value) (Value, error) {
	if v.kind == KindNumber && rhs.kind == KindNumber {
		return Number(v.num - rhs.num), nil
	}
	return Value{}, &valueError{Msg: "type mismatch or invalid '-' operation."}
}

func (v Value) Mul(rhs Value) (Value, error) {
	if v.kind == KindNumber && rhs.kind == KindNumber {
		return Number(v.num * rhs.num), nil
	}
	return Value{}, &valueError{Msg: "type mismatch or invalid '*' operation."}
}

func (v Value) Div(rhs Value) (Value, error) {
	if v.kind == KindNumber && rhs.kind == KindNumber {
		return Number(v.num / rhs.num), nil
	}
	return Value{}, &valueError{Msg: "type mismatch or invalid '/' operation."}
}

// Compare implements the four ordering operators. op is one of "<" "<=" ">" ">=".
func (v Value) Compare(rhs Value, op string) (Value, error) {
	if v.kind != KindNumber || rhs.kind != KindNumber {
		return Value{}, &valueError{Msg: fmt.Sprintf("only numerical types are comparable, near %s", op)}
	}
	var result bool
	switch op {
	case "<":
		result = v.num < rhs.num
	case "<=":
		result = v.num <= rhs.num
	case ">":
		result = v.num > rhs.num
	case ">=":
		result = v.num >= rhs.num
	}
	return Bool(result), nil
}

// And and Or are eager, Bool-only logical operators; there is no
// short-circuit evaluation because both operands are already on the stack
// by the time the opcode runs.
func (v Value) And(rhs Value) (Value, error) {
	if v.kind != KindBool || rhs.kind != KindBool {
		return Value{}, &valueError{Msg: "only boolean values can be used for 'and' operation."}
	}
	return Bool(v.b && rhs.b), nil
}

func (v Value) Or(rhs Value) (Value, error) {
	if v.kind != KindBool || rhs.kind != KindBool {
		return Value{}, &valueError{Msg: "only boolean values can be used for 'or' operation."}
	}
	return Bool(v.b || rhs.b), nil
}

// Negate implements unary '-'. Only Numbers can be negated.
func (v Value) Negate() (Value, error) {
	if v.kind != KindNumber {
		return Value{}, &valueError{Msg: "type mismatch on unary operation."}
	}
	return Number(-v.num), nil
}

// Not implements unary '!'. Only Bools can be inverted.
func (v Value) Not() (Value, error) {
	if v.kind != KindBool {
		return Value{}, &valueError{Msg: "type mismatch on unary operation."}
	}
	return Bool(!v.b), nil
}

// String renders the value's textual representation for the Print opcode
// and for disassembly, matching the shortest-round-trip decimal form for
// Numbers, "true"/"false" for Bool, "nil" for Nil, and raw text for String.
func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindString:
		return *v.str
	default:
		return "<invalid value>"
	}
}
