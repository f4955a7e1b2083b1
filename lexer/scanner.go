// Package lexer turns daro source text into a lazy stream of tokens.
package lexer

import (
	"iter"
	"unicode"
	"unicode/utf8"

	"github.com/podhmo/daro/token"
)

// Scanner produces tokens on demand. It never fails: malformed input is
// reported as INVALID tokens or best-effort literals, and the parser decides
// what to do with them.
type Scanner struct {
	src    string
	file   string
	offset int
}

// New creates a scanner over src. file is only used to tag positions.
func New(file, src string) *Scanner {
	return &Scanner{src: src, file: file}
}

// Next returns the next token, or an EOF token once the input is exhausted.
func (s *Scanner) Next() token.Token {
	s.skipTrivia()
	start := s.offset
	if start >= len(s.src) {
		return s.make(token.EOF, start)
	}

	r, w := utf8.DecodeRuneInString(s.src[start:])
	switch {
	case isIdentStart(r):
		s.offset += w
		for s.offset < len(s.src) {
			r, w := utf8.DecodeRuneInString(s.src[s.offset:])
			if !isIdentPart(r) {
				break
			}
			s.offset += w
		}
		return s.make(token.Lookup(s.src[start:s.offset]), start)
	case isDecimal(r):
		return s.scanNumber(start)
	case r == '"':
		return s.scanQuoted(start, '"', token.STRING)
	case r == '\'':
		return s.scanQuoted(start, '\'', token.CHAR)
	}

	if kind, n, ok := token.MatchOperator(s.src[start:]); ok {
		s.offset += n
		return s.make(kind, start)
	}
	s.offset += w
	return s.make(token.INVALID, start)
}

// Peek returns the next token without consuming it.
func (s *Scanner) Peek() token.Token {
	saved := s.offset
	tok := s.Next()
	s.offset = saved
	return tok
}

// HasNext reports whether the next token is of the given kind, without
// consuming it.
func (s *Scanner) HasNext(kind token.Kind) bool {
	return s.Peek().Kind == kind
}

// Revert rewinds the scanner to just before tok, which must have been
// returned by this scanner.
func (s *Scanner) Revert(tok token.Token) {
	s.offset = tok.Pos.Start
}

// Offset returns the current byte offset.
func (s *Scanner) Offset() int { return s.offset }

// All yields the remaining tokens up to, but not including, EOF.
func (s *Scanner) All() iter.Seq[token.Token] {
	return func(yield func(token.Token) bool) {
		for {
			tok := s.Next()
			if tok.Kind == token.EOF || !yield(tok) {
				return
			}
		}
	}
}

func (s *Scanner) make(kind token.Kind, start int) token.Token {
	return token.Token{
		Kind: kind,
		Pos:  token.Position{File: s.file, Start: start, End: s.offset},
		Text: s.src[start:s.offset],
	}
}

func (s *Scanner) skipTrivia() {
	for s.offset < len(s.src) {
		c := s.src[s.offset]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			s.offset++
		case c == '/' && s.peekByte(1) == '/':
			for s.offset < len(s.src) && s.src[s.offset] != '\n' {
				s.offset++
			}
		case c == '/' && s.peekByte(1) == '*':
			s.skipBlockComment()
		default:
			return
		}
	}
}

// skipBlockComment consumes a possibly nested /* */ comment. An unterminated
// comment runs to the end of the input.
func (s *Scanner) skipBlockComment() {
	depth := 0
	for s.offset < len(s.src) {
		switch {
		case s.src[s.offset] == '/' && s.peekByte(1) == '*':
			depth++
			s.offset += 2
		case s.src[s.offset] == '*' && s.peekByte(1) == '/':
			depth--
			s.offset += 2
			if depth == 0 {
				return
			}
		default:
			s.offset++
		}
	}
}

func (s *Scanner) peekByte(n int) byte {
	if s.offset+n < len(s.src) {
		return s.src[s.offset+n]
	}
	return 0
}

func (s *Scanner) scanNumber(start int) token.Token {
	if s.src[s.offset] == '0' {
		var digit func(byte) bool
		switch s.peekByte(1) {
		case 'b', 'B':
			digit = func(c byte) bool { return c == '0' || c == '1' }
		case 'o', 'O':
			digit = func(c byte) bool { return '0' <= c && c <= '7' }
		case 'x', 'X':
			digit = isHex
		}
		if digit != nil {
			s.offset += 2
			digits := s.offset
			for s.offset < len(s.src) && digit(s.src[s.offset]) {
				s.offset++
			}
			if s.offset == digits {
				return s.make(token.INVALID, start)
			}
			return s.make(token.INTEGER, start)
		}
	}

	kind := token.INTEGER
	s.skipDigits()
	if s.offset < len(s.src) && s.src[s.offset] == '.' {
		next := s.peekByte(1)
		switch {
		case isDecimal(rune(next)):
			s.offset++
			s.skipDigits()
			kind = token.REAL
		case next != '.' && !isIdentStart(rune(next)):
			s.offset++
			kind = token.REAL
		}
	}
	if s.offset < len(s.src) && (s.src[s.offset] == 'e' || s.src[s.offset] == 'E') {
		j := s.offset + 1
		if j < len(s.src) && (s.src[j] == '+' || s.src[j] == '-') {
			j++
		}
		if j < len(s.src) && isDecimal(rune(s.src[j])) {
			s.offset = j
			s.skipDigits()
			kind = token.REAL
		}
	}
	return s.make(kind, start)
}

func (s *Scanner) skipDigits() {
	for s.offset < len(s.src) && isDecimal(rune(s.src[s.offset])) {
		s.offset++
	}
}

// scanQuoted consumes a string or char literal. Escapes are skipped, not
// decoded; an unterminated literal keeps what was consumed.
func (s *Scanner) scanQuoted(start int, quote byte, kind token.Kind) token.Token {
	s.offset++
	for s.offset < len(s.src) {
		c := s.src[s.offset]
		switch c {
		case '\\':
			s.offset += 2
			if s.offset > len(s.src) {
				s.offset = len(s.src)
			}
		case quote:
			s.offset++
			return s.make(kind, start)
		default:
			s.offset++
		}
	}
	return s.make(kind, start)
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || isDecimal(r)
}

func isDecimal(r rune) bool { return '0' <= r && r <= '9' }

func isHex(c byte) bool {
	return isDecimal(rune(c)) || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
