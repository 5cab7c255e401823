package lang

import "fmt"

// A Kind classifies a Token.
type Kind int

// The complete set of token kinds. Struct, Else, For, Fn, If, Super, and
// StructSelf are recognised by the scanner but have no parselet; the
// compiler rejects them with "expected expression". They are reserved for
// a future extension of the language.
const (
	LParen Kind = iota
	RParen
	LBrace
	RBrace
	Comma
	Dot
	Minus
	Plus
	Semicolon
	Slash
	Star

	Bang
	BangEqual
	Equal
	Equate
	GreaterThan
	GreaterEq
	LessThan
	LessEq

	Identifier
	Str
	Number

	And
	Struct
	Else
	False
	For
	Fn
	If
	Nil
	Or
	Print
	Return
	Super
	StructSelf
	True
	Let

	Eof
)

var kindNames = [...]string{
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}",
	Comma: ",", Dot: ".", Minus: "-", Plus: "+",
	Semicolon: ";", Slash: "/", Star: "*",
	Bang: "!", BangEqual: "!=", Equal: "=", Equate: "==",
	GreaterThan: ">", GreaterEq: ">=", LessThan: "<", LessEq: "<=",
	Identifier: "identifier", Str: "string", Number: "number",
	And: "and", Struct: "struct", Else: "else", False: "false",
	For: "for", Fn: "fn", If: "if", Nil: "nil", Or: "or",
	Print: "print", Return: "return", Super: "super", StructSelf: "self",
	True: "true", Let: "let", Eof: "eof",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// keywords maps keyword text to the token kind it upgrades to.
var keywords = map[string]Kind{
	"and": And, "struct": Struct, "else": Else, "false": False,
	"for": For, "fn": Fn, "if": If, "nil": Nil, "or": Or,
	"print": Print, "return": Return, "super": Super, "self": StructSelf,
	"true": True, "let": Let,
}

// A Token is a lexical item: a kind, the source slice it came from, and
// the one-based line the scanner was on when the token ended (for a string
// literal spanning newlines, its last line). Text borrows from the scanner's
// source string and is only valid for the lifetime of compilation.
type Token struct {
	Kind Kind
	Text string
	Line int
}

func (t Token) String() string {
	return fmt.Sprintf("%v %q (line %d)", t.Kind, t.Text, t.Line)
}
