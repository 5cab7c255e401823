package lang

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Norm is the form to which source text is normalized before scanning,
// matching the NFD normalization the reference lexer applies to its
// io.Reader.
const Norm = norm.NFD

// A LexError is a lexical failure: an unterminated string or an unknown
// character. The scanner does not recover from one; the caller must stop.
type LexError struct {
	Line int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("Error at line %d: %s", e.Line, e.Msg)
}

// A Scanner produces one Token at a time from source text. It is a
// lookahead-1 lexer: callers pull tokens with Next; the scanner never
// looks further ahead than the single rune needed to disambiguate a
// two-character token.
//
// The cursor is the half-open window [start, pos) over src: start marks
// the first unconsumed byte of the token being built, pos is one byte
// past the last rune read. Peek inspects the rune at pos without
// consuming it.
type Scanner struct {
	src   string
	start int
	pos   int
	line  int

	// err records the most recent lexical failure, mirroring the source's
	// readable err field; Next also returns it directly.
	err error
}

// New returns a Scanner over source. The source is normalized to Norm
// before scanning begins.
func New(source string) *Scanner {
	return &Scanner{
		src:  Norm.String(source),
		line: 1,
	}
}

// Err returns the last lexical error encountered, or nil.
func (s *Scanner) Err() error {
	return s.err
}

func (s *Scanner) atEnd() bool {
	return s.pos >= len(s.src)
}

// peek returns the rune at pos without consuming it. It returns rune 0 with
// width 0 at end of input.
func (s *Scanner) peek() (rune, int) {
	if s.atEnd() {
		return 0, 0
	}
	return utf8.DecodeRuneInString(s.src[s.pos:])
}

// advance consumes and returns the rune at pos.
func (s *Scanner) advance() rune {
	r, w := s.peek()
	s.pos += w
	return r
}

// match consumes the rune at pos if it equals want.
func (s *Scanner) match(want rune) bool {
	r, w := s.peek()
	if r != want {
		return false
	}
	s.pos += w
	return true
}

// skipWhitespace consumes a maximal run of whitespace, counting newlines
// into the line counter. It reports whether it consumed anything.
func (s *Scanner) skipWhitespace() bool {
	any := false
	for {
		r, w := s.peek()
		if w == 0 || !unicode.IsSpace(r) {
			return any
		}
		if r == '\n' {
			s.line++
		}
		s.pos += w
		any = true
	}
}

// skipComment consumes a '#' comment up to (not including) the next
// newline. It reports whether it consumed anything.
func (s *Scanner) skipComment() bool {
	if r, _ := s.peek(); r != '#' {
		return false
	}
	for {
		r, w := s.peek()
		if w == 0 || r == '\n' {
			return true
		}
		s.pos += w
	}
}

// Next returns the next token, or a LexError if the source cannot be
// scanned further. After the last real token, and on every subsequent
// call, Next returns the Eof token.
func (s *Scanner) Next() (Token, error) {
	for s.skipWhitespace() || s.skipComment() {
		// a comment can be followed by more whitespace, and vice versa;
		// keep looping until a pass skips nothing
	}

	s.start = s.pos
	if s.atEnd() {
		return s.emit(Eof), nil
	}

	c := s.advance()
	switch {
	case strings.ContainsRune("(){},;+-*/", c):
		return s.emit(singleCharKind[c]), nil

	case c == '.':
		if r, _ := s.peek(); isDigit(r) {
			s.consumeDigits()
			return s.emit(Number), nil
		}
		return s.emit(Dot), nil

	case c == '!':
		if s.match('=') {
			return s.emit(BangEqual), nil
		}
		return s.emit(Bang), nil

	case c == '=':
		if s.match('=') {
			return s.emit(Equate), nil
		}
		return s.emit(Equal), nil

	case c == '>':
		if s.match('=') {
			return s.emit(GreaterEq), nil
		}
		return s.emit(GreaterThan), nil

	case c == '<':
		if s.match('=') {
			return s.emit(LessEq), nil
		}
		return s.emit(LessThan), nil

	case c == '"':
		return s.scanString()

	case isDigit(c):
		s.consumeDigits()
		return s.emit(Number), nil

	case unicode.IsLetter(c):
		s.consumeLetters()
		text := s.src[s.start:s.pos]
		if kind, ok := keywords[text]; ok {
			return s.emit(kind), nil
		}
		return s.emit(Identifier), nil

	default:
		s.err = &LexError{Line: s.line, Msg: "unknown character"}
		return Token{}, s.err
	}
}

var singleCharKind = map[rune]Kind{
	'(': LParen, ')': RParen, '{': LBrace, '}': RBrace,
	',': Comma, ';': Semicolon,
	'+': Plus, '-': Minus, '*': Star, '/': Slash,
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// consumeDigits consumes digits, at most one '.', and any interspersed
// '_' separators, starting from the rune already read.
func (s *Scanner) consumeDigits() {
	sawDot := s.src[s.start] == '.'
	for {
		r, w := s.peek()
		switch {
		case w == 0:
			return
		case isDigit(r) || r == '_':
			s.pos += w
		case r == '.' && !sawDot:
			sawDot = true
			s.pos += w
		default:
			return
		}
	}
}

// consumeLetters consumes a maximal run of alphabetic runes.
func (s *Scanner) consumeLetters() {
	for {
		r, w := s.peek()
		if w == 0 || !unicode.IsLetter(r) {
			return
		}
		s.pos += w
	}
}

// scanString consumes a quoted string literal, counting embedded newlines.
// An unterminated literal is a LexError.
func (s *Scanner) scanString() (Token, error) {
	for {
		r, w := s.peek()
		if w == 0 {
			s.err = &LexError{Line: s.line, Msg: "unterminated string"}
			return Token{}, s.err
		}
		if r == '\n' {
			s.line++
		}
		s.pos += w
		if r == '"' {
			return s.emit(Str), nil
		}
	}
}

func (s *Scanner) emit(kind Kind) Token {
	return Token{Kind: kind, Text: s.src[s.start:s.pos], Line: s.line}
}
