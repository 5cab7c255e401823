package lang

// Precedence orders binding strength for the Pratt loop in Compiler.parsePrecedence.
// Values are strictly increasing and consecutive; Precedence arithmetic (next)
// relies on both, stepping up one level with p + 1.
type Precedence int

const (
	PrecNone Precedence = iota
	PrecAssignment
	PrecOr
	PrecAnd
	PrecEquality
	PrecComparison
	PrecTerm
	PrecFactor
	PrecUnary
	PrecCall
	PrecPrimary
)

// next returns the precedence immediately above p, used by binary() to force
// left-associativity: a right operand is parsed at one level above the
// operator's own precedence.
func (p Precedence) next() Precedence {
	if p == PrecPrimary {
		return PrecPrimary
	}
	return p + 1
}

// A parseRule pairs a token kind with its prefix and infix parselets and the
// precedence of its infix use. A nil parselet means the token has no
// behaviour in that position.
type parseRule struct {
	prefix     func(c *Compiler, canAssign bool) error
	infix      func(c *Compiler, canAssign bool) error
	precedence Precedence
}

// rules is indexed by Kind. Entries left zero-valued have no prefix/infix
// parselet and PrecNone, so unmapped tokens fall through as non-expressions.
var rules [Eof + 1]parseRule

func init() {
	rules[LParen] = parseRule{prefix: (*Compiler).grouping}
	rules[Minus] = parseRule{prefix: (*Compiler).unary, infix: (*Compiler).binary, precedence: PrecTerm}
	rules[Plus] = parseRule{infix: (*Compiler).binary, precedence: PrecTerm}
	rules[Star] = parseRule{infix: (*Compiler).binary, precedence: PrecFactor}
	rules[Slash] = parseRule{infix: (*Compiler).binary, precedence: PrecFactor}
	rules[Bang] = parseRule{prefix: (*Compiler).unary}
	rules[Number] = parseRule{prefix: (*Compiler).number}
	rules[Str] = parseRule{prefix: (*Compiler).string}
	rules[Identifier] = parseRule{prefix: (*Compiler).variable}
	rules[True] = parseRule{prefix: (*Compiler).literal}
	rules[False] = parseRule{prefix: (*Compiler).literal}
	rules[Nil] = parseRule{prefix: (*Compiler).literal}
	rules[BangEqual] = parseRule{infix: (*Compiler).binary, precedence: PrecEquality}
	rules[Equate] = parseRule{infix: (*Compiler).binary, precedence: PrecEquality}
	rules[GreaterThan] = parseRule{infix: (*Compiler).binary, precedence: PrecComparison}
	rules[GreaterEq] = parseRule{infix: (*Compiler).binary, precedence: PrecComparison}
	rules[LessThan] = parseRule{infix: (*Compiler).binary, precedence: PrecComparison}
	rules[LessEq] = parseRule{infix: (*Compiler).binary, precedence: PrecComparison}
	rules[And] = parseRule{infix: (*Compiler).binary, precedence: PrecAnd}
	rules[Or] = parseRule{infix: (*Compiler).binary, precedence: PrecOr}
}

func getRule(k Kind) *parseRule {
	return &rules[k]
}
