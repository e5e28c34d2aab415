// Package lexer tokenizes chore source text per the grammar in SPEC_FULL.md §4.A.
package lexer

import (
	"fmt"
	"strings"

	"github.com/chorelang/chore/internal/token"
)

// Lexer scans UTF-8 source text into a stream of tokens. It is not safe for
// concurrent use; each Lexer owns a single pass over one source buffer.
type Lexer struct {
	src  []byte
	pos  int // byte offset of the next unread byte
	line int
	col  int
}

// New creates a Lexer over src. Mixed line endings are accepted: "\r\n" is
// folded to "\n" during scanning so downstream line/column counting stays
// simple.
func New(src string) *Lexer {
	return &Lexer{
		src:  []byte(strings.ReplaceAll(src, "\r\n", "\n")),
		pos:  0,
		line: 1,
		col:  1,
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekAt(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *Lexer) advance() byte {
	b := l.src[l.pos]
	l.pos++
	if b == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return b
}

func (l *Lexer) position() token.Position {
	return token.Position{Line: l.line, Column: l.col, Offset: l.pos}
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentCont(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

// skipWhitespaceAndComments consumes spaces, tabs, newlines, and every
// comment kind except doc comments, which are returned to the caller so
// they can be attached to the following command declaration.
func (l *Lexer) skipWhitespaceAndComments() (doc string, hasDoc bool) {
	for {
		switch {
		case l.peek() == ' ' || l.peek() == '\t' || l.peek() == '\n':
			l.advance()

		case l.peek() == '/' && l.peekAt(1) == '/' && l.peekAt(2) == '/':
			// /// doc comment — retained
			start := l.pos + 3
			l.advance()
			l.advance()
			l.advance()
			for l.peek() != '\n' && l.peek() != 0 {
				l.advance()
			}
			doc = strings.TrimSpace(string(l.src[start:l.pos]))
			hasDoc = true

		case l.peek() == '/' && l.peekAt(1) == '/':
			l.advance()
			l.advance()
			for l.peek() != '\n' && l.peek() != 0 {
				l.advance()
			}

		case l.peek() == '@' && strings.HasPrefix(string(l.src[l.pos:]), "@REM"):
			l.pos += 4
			l.col += 4
			for l.peek() != '\n' && l.peek() != 0 {
				l.advance()
			}

		case l.peek() == '/' && l.peekAt(1) == '*':
			l.advance()
			l.advance()
			for !(l.peek() == '*' && l.peekAt(1) == '/') && l.peek() != 0 {
				l.advance()
			}
			if l.peek() != 0 {
				l.advance()
				l.advance()
			}

		default:
			return doc, hasDoc
		}
	}
}

// NextToken returns the next token in the stream, along with any doc
// comment text encountered immediately before it (hasDoc is true only when
// a /// comment preceded this token with nothing but whitespace/other
// comments in between).
func (l *Lexer) NextToken() (tok token.Token, doc string, hasDoc bool) {
	doc, hasDoc = l.skipWhitespaceAndComments()

	pos := l.position()
	if l.pos >= len(l.src) {
		return token.Token{Type: token.EOF, Position: pos}, doc, hasDoc
	}

	b := l.peek()

	switch {
	case isIdentStart(b):
		start := l.pos
		for isIdentCont(l.peek()) {
			l.advance()
		}
		text := string(l.src[start:l.pos])
		if kw, ok := token.Keywords[text]; ok {
			return token.Token{Type: kw, Text: text, Position: pos}, doc, hasDoc
		}
		return token.Token{Type: token.IDENTIFIER, Text: text, Position: pos}, doc, hasDoc

	case b == '$':
		l.advance()
		start := l.pos
		for isIdentCont(l.peek()) {
			l.advance()
		}
		return token.Token{Type: token.VARIABLE, Text: string(l.src[start:l.pos]), Position: pos}, doc, hasDoc

	case b == '"':
		text, err := l.scanString()
		if err != nil {
			return token.Token{Type: token.ILLEGAL, Text: err.Error(), Position: pos}, doc, hasDoc
		}
		return token.Token{Type: token.STRING, Text: text, Position: pos}, doc, hasDoc

	case b == '=':
		l.advance()
		if l.peek() == '=' {
			l.advance()
			return token.Token{Type: token.EQ_EQ, Text: "==", Position: pos}, doc, hasDoc
		}
		return token.Token{Type: token.EQUALS, Text: "=", Position: pos}, doc, hasDoc

	case b == '!':
		if l.peekAt(1) == '=' {
			l.advance()
			l.advance()
			return token.Token{Type: token.NOT_EQ, Text: "!=", Position: pos}, doc, hasDoc
		}
		l.advance()
		return token.Token{Type: token.ILLEGAL, Text: "!", Position: pos}, doc, hasDoc

	default:
		if tt, ok := token.SingleCharTokens[b]; ok {
			l.advance()
			return token.Token{Type: tt, Text: string(b), Position: pos}, doc, hasDoc
		}
		l.advance()
		return token.Token{Type: token.ILLEGAL, Text: string(b), Position: pos}, doc, hasDoc
	}
}

// scanString consumes a double-quoted string literal, resolving \n \t \" \\
// escapes, and returns its decoded value without the surrounding quotes.
func (l *Lexer) scanString() (string, error) {
	startPos := l.position()
	l.advance() // opening quote
	var b strings.Builder
	for {
		c := l.peek()
		if c == 0 {
			return "", fmt.Errorf("unterminated string starting at %s", startPos)
		}
		if c == '"' {
			l.advance()
			return b.String(), nil
		}
		if c == '\\' {
			l.advance()
			esc := l.peek()
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			default:
				b.WriteByte('\\')
				b.WriteByte(esc)
			}
			l.advance()
			continue
		}
		b.WriteByte(c)
		l.advance()
	}
}

// ScanRawShell consumes the raw shell text of an `exec(...)` statement. It
// must be called immediately after the opening '(' token has been consumed
// by the parser. It scans to the matching ')' at paren depth zero — nested
// parentheses in the shell text balance but are otherwise opaque — and
// leaves the cursor positioned at that ')' so the parser can consume it as
// an ordinary token next.
func (l *Lexer) ScanRawShell() (string, error) {
	start := l.pos
	depth := 0
	for {
		c := l.peek()
		switch c {
		case 0:
			return "", fmt.Errorf("unterminated exec(...) starting at offset %d", start)
		case '(':
			depth++
			l.advance()
		case ')':
			if depth == 0 {
				text := string(l.src[start:l.pos])
				return strings.TrimSpace(text), nil
			}
			depth--
			l.advance()
		default:
			l.advance()
		}
	}
}
