// Package lexer tokenizes filter condition source text.
package lexer

import (
	"strings"

	"github.com/leapstack-labs/leapfilter/pkg/diag"
	"github.com/leapstack-labs/leapfilter/pkg/token"
)

// Lexer tokenizes filter condition input.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination

	errors diag.List
}

// New creates a new Lexer for the given input.
func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// Tokenize returns all tokens of input, without an end-of-input token, and
// every lexical diagnostic found. Lexing continues past errors.
func Tokenize(input string) ([]token.Token, diag.List) {
	l := New(input)
	var tokens []token.Token
	for {
		tok, ok := l.NextToken()
		if !ok {
			break
		}
		if tok.Type != token.ILLEGAL {
			tokens = append(tokens, tok)
		}
	}
	return tokens, l.errors
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// column returns the 1-based column of the current character.
func (l *Lexer) column() int {
	return l.pos + 1
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.input)
}

// NextToken returns the next token, or false at the end of input.
// Characters outside the language are reported and returned as ILLEGAL.
func (l *Lexer) NextToken() (token.Token, bool) {
	l.skipWhitespace()
	if l.atEnd() {
		return token.Token{}, false
	}

	col := l.column()
	var tok token.Token

	switch l.ch {
	case '+':
		tok = l.newToken(token.PLUS, "+")
	case '-':
		tok = l.newToken(token.MINUS, "-")
	case '*':
		tok = l.newToken(token.STAR, "*")
	case '/':
		tok = l.newToken(token.SLASH, "/")
	case '%':
		tok = l.newToken(token.PERCENT, "%")
	case '=':
		tok = l.newToken(token.EQ, "=")
	case '<':
		switch l.peekChar() {
		case '=':
			l.readChar()
			tok = token.Token{Type: token.LE, Literal: "<=", Column: col}
		case '>':
			l.readChar()
			tok = token.Token{Type: token.NE, Literal: "<>", Column: col}
		default:
			tok = l.newToken(token.LT, "<")
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.GE, Literal: ">=", Column: col}
		} else {
			tok = l.newToken(token.GT, ">")
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.NE, Literal: "!=", Column: col}
		} else {
			tok = l.illegal()
		}
	case '.':
		tok = l.newToken(token.DOT, ".")
	case '(':
		tok = l.newToken(token.LPAREN, "(")
	case ')':
		tok = l.newToken(token.RPAREN, ")")
	case '\'', '"':
		return l.readString(col), true
	default:
		switch {
		case isLetter(l.ch) || l.ch == '_':
			return l.readWord(col), true
		case isDigit(l.ch):
			return l.readNumber(col), true
		default:
			tok = l.illegal()
		}
	}

	l.readChar()
	return tok, true
}

// newToken creates a new token at the current column.
func (l *Lexer) newToken(tokenType token.TokenType, literal string) token.Token {
	return token.Token{Type: tokenType, Literal: literal, Column: l.column()}
}

func (l *Lexer) illegal() token.Token {
	tok := l.newToken(token.ILLEGAL, string(l.ch))
	l.addError(diag.UnexpectedChar, tok, "unexpected character %q", l.ch)
	return tok
}

func (l *Lexer) addError(kind diag.Kind, tok token.Token, format string, args ...any) {
	l.errors = append(l.errors, diag.New(kind, tok, format, args...))
}

func (l *Lexer) skipWhitespace() {
	for isSpace(l.ch) && !l.atEnd() {
		l.readChar()
	}
}

// readString reads a quoted string literal. The quote character may be
// escaped inside the literal with a backslash.
func (l *Lexer) readString(col int) token.Token {
	quote := l.ch
	start := l.pos
	l.readChar() // skip opening quote

	var result strings.Builder
	for {
		if l.atEnd() {
			tok := token.Token{Type: token.STRING, Literal: result.String(), Column: col}
			l.addError(diag.IncompleteString, tok, "incomplete string literal %s", l.input[start:])
			return tok
		}
		switch l.ch {
		case quote:
			l.readChar() // skip closing quote
			return token.Token{Type: token.STRING, Literal: result.String(), Column: col}
		case '\\':
			escCol := l.column()
			l.readChar()
			if r, ok := unescape(l.ch); ok {
				result.WriteByte(r)
			} else if l.atEnd() {
				continue
			} else {
				l.addError(diag.InvalidEscapeChar,
					token.Token{Type: token.STRING, Literal: `\` + string(l.ch), Column: escCol},
					"invalid escape character %q", l.ch)
			}
			l.readChar()
		default:
			result.WriteByte(l.ch)
			l.readChar()
		}
	}
}

func unescape(ch byte) (byte, bool) {
	switch ch {
	case '\\', '"', '\'':
		return ch, true
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case 'r':
		return '\r', true
	}
	return 0, false
}

// readWord reads an identifier or keyword. "is" followed by "not" is
// combined into a single ISNOT token.
func (l *Lexer) readWord(col int) token.Token {
	word := l.readIdentifier()
	typ := token.LookupIdent(strings.ToLower(word))
	if typ != token.IS {
		return token.Token{Type: typ, Literal: word, Column: col}
	}

	// Look ahead for "not" without committing
	i := l.pos
	for i < len(l.input) && isSpace(l.input[i]) {
		i++
	}
	j := i
	for j < len(l.input) && (isLetter(l.input[j]) || isDigit(l.input[j]) || l.input[j] == '_') {
		j++
	}
	if i > l.pos && strings.EqualFold(l.input[i:j], "not") {
		for l.pos < j {
			l.readChar()
		}
		return token.Token{Type: token.ISNOT, Literal: word + " " + l.input[i:j], Column: col}
	}
	return token.Token{Type: token.IS, Literal: word, Column: col}
}

// readIdentifier reads an unquoted identifier.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readNumber reads an integer or decimal literal.
func (l *Lexer) readNumber(col int) token.Token {
	start := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch != '.' {
		return token.Token{Type: token.INTEGER, Literal: l.input[start:l.pos], Column: col}
	}

	l.readChar() // skip '.'
	if !isDigit(l.ch) {
		tok := token.Token{Type: token.FLOAT, Literal: l.input[start:l.pos], Column: col}
		l.addError(diag.InvalidFloat, tok, "invalid float literal %q", tok.Literal)
		return tok
	}
	for isDigit(l.ch) {
		l.readChar()
	}
	return token.Token{Type: token.FLOAT, Literal: l.input[start:l.pos], Column: col}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

// isLetter returns true if ch is an ASCII letter.
func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

// isDigit returns true if ch is a digit.
func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
