package core

import (
	"bytes"
	"fmt"
)

// TokenType represents the type of token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenComment
	TokenKeyword     // true, false, null, obj, endobj, stream, endstream, etc.
	TokenInteger     // 123
	TokenReal        // 3.14
	TokenString      // (hello)
	TokenHexString   // <48656C6C6F>
	TokenName        // /Type
	TokenArrayStart  // [
	TokenArrayEnd    // ]
	TokenDictStart   // <<
	TokenDictEnd     // >>
	TokenIndirectRef // R (after two numbers)
)

// Token represents a lexical token. String tokens carry their decoded bytes.
type Token struct {
	Type  TokenType
	Value []byte
	Pos   int
}

// Lexer tokenizes PDF syntax from an in-memory buffer
type Lexer struct {
	data []byte
	pos  int
}

// NewLexer creates a lexer positioned at offset
func NewLexer(data []byte, offset int) *Lexer {
	if offset < 0 {
		offset = 0
	}
	if offset > len(data) {
		offset = len(data)
	}
	return &Lexer{data: data, pos: offset}
}

// Pos returns the current read offset
func (l *Lexer) Pos() int { return l.pos }

// NextToken returns the next token from the input
func (l *Lexer) NextToken() (*Token, error) {
	l.skipWhitespace()

	if l.pos >= len(l.data) {
		return &Token{Type: TokenEOF, Pos: l.pos}, nil
	}
	start := l.pos
	b := l.data[l.pos]

	switch b {
	case '%':
		return l.readComment(), nil
	case '[':
		l.pos++
		return &Token{Type: TokenArrayStart, Value: []byte{'['}, Pos: start}, nil
	case ']':
		l.pos++
		return &Token{Type: TokenArrayEnd, Value: []byte{']'}, Pos: start}, nil
	case '(':
		return l.readString()
	case '<':
		if l.pos+1 < len(l.data) && l.data[l.pos+1] == '<' {
			l.pos += 2
			return &Token{Type: TokenDictStart, Value: []byte("<<"), Pos: start}, nil
		}
		return l.readHexString()
	case '>':
		if l.pos+1 < len(l.data) && l.data[l.pos+1] == '>' {
			l.pos += 2
			return &Token{Type: TokenDictEnd, Value: []byte(">>"), Pos: start}, nil
		}
		return nil, fmt.Errorf("unexpected '>' at position %d", l.pos)
	case '/':
		return l.readName()
	}

	if isDigit(b) || b == '-' || b == '+' || b == '.' {
		return l.readNumber(), nil
	}
	if isRegular(b) {
		return l.readKeyword(), nil
	}
	return nil, fmt.Errorf("unexpected character %q at position %d", b, l.pos)
}

// skipWhitespace skips PDF whitespace: space, tab, LF, CR, FF and NUL
func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.data) && isWhitespace(l.data[l.pos]) {
		l.pos++
	}
}

func (l *Lexer) readComment() *Token {
	start := l.pos
	for l.pos < len(l.data) && l.data[l.pos] != '\r' && l.data[l.pos] != '\n' {
		l.pos++
	}
	return &Token{Type: TokenComment, Value: l.data[start:l.pos], Pos: start}
}

// readString reads a literal string, resolving escapes
func (l *Lexer) readString() (*Token, error) {
	start := l.pos
	l.pos++ // (
	var buf bytes.Buffer
	depth := 1
	for {
		if l.pos >= len(l.data) {
			return nil, fmt.Errorf("unterminated string at position %d", start)
		}
		b := l.data[l.pos]
		l.pos++
		switch b {
		case '(':
			depth++
			buf.WriteByte(b)
		case ')':
			depth--
			if depth == 0 {
				return &Token{Type: TokenString, Value: buf.Bytes(), Pos: start}, nil
			}
			buf.WriteByte(b)
		case '\\':
			if l.pos >= len(l.data) {
				return nil, fmt.Errorf("unterminated string at position %d", start)
			}
			l.readEscape(&buf)
		default:
			buf.WriteByte(b)
		}
	}
}

func (l *Lexer) readEscape(buf *bytes.Buffer) {
	next := l.data[l.pos]
	l.pos++
	switch next {
	case 'n':
		buf.WriteByte('\n')
	case 'r':
		buf.WriteByte('\r')
	case 't':
		buf.WriteByte('\t')
	case 'b':
		buf.WriteByte('\b')
	case 'f':
		buf.WriteByte('\f')
	case '\r':
		// line continuation
		if l.pos < len(l.data) && l.data[l.pos] == '\n' {
			l.pos++
		}
	case '\n':
	case '0', '1', '2', '3', '4', '5', '6', '7':
		val := next - '0'
		for i := 0; i < 2 && l.pos < len(l.data) && isOctalDigit(l.data[l.pos]); i++ {
			val = val*8 + (l.data[l.pos] - '0')
			l.pos++
		}
		buf.WriteByte(val)
	default:
		buf.WriteByte(next)
	}
}

// readHexString reads <...> and returns the decoded bytes. An odd final
// digit is padded with zero.
func (l *Lexer) readHexString() (*Token, error) {
	start := l.pos
	l.pos++ // <
	var digits []byte
	for {
		if l.pos >= len(l.data) {
			return nil, fmt.Errorf("unterminated hex string at position %d", start)
		}
		b := l.data[l.pos]
		l.pos++
		if b == '>' {
			break
		}
		if isWhitespace(b) {
			continue
		}
		if !isHexDigit(b) {
			return nil, fmt.Errorf("invalid hex digit %q at position %d", b, l.pos-1)
		}
		digits = append(digits, b)
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, len(digits)/2)
	for i := range out {
		out[i] = hexValue(digits[2*i])<<4 | hexValue(digits[2*i+1])
	}
	return &Token{Type: TokenHexString, Value: out, Pos: start}, nil
}

// readName reads /Name, resolving #xx escapes
func (l *Lexer) readName() (*Token, error) {
	start := l.pos
	l.pos++ // /
	var buf bytes.Buffer
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		if isWhitespace(b) || isDelimiter(b) {
			break
		}
		l.pos++
		if b == '#' {
			if l.pos+1 >= len(l.data) || !isHexDigit(l.data[l.pos]) || !isHexDigit(l.data[l.pos+1]) {
				return nil, fmt.Errorf("invalid hex escape in name at position %d", l.pos-1)
			}
			buf.WriteByte(hexValue(l.data[l.pos])<<4 | hexValue(l.data[l.pos+1]))
			l.pos += 2
			continue
		}
		buf.WriteByte(b)
	}
	return &Token{Type: TokenName, Value: buf.Bytes(), Pos: start}, nil
}

func (l *Lexer) readNumber() *Token {
	start := l.pos
	hasDecimal := false
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		if b == '.' && !hasDecimal {
			hasDecimal = true
		} else if !isDigit(b) && !(l.pos == start && (b == '-' || b == '+')) {
			break
		}
		l.pos++
	}
	tokenType := TokenInteger
	if hasDecimal {
		tokenType = TokenReal
	}
	return &Token{Type: tokenType, Value: l.data[start:l.pos], Pos: start}
}

// readKeyword reads a run of regular characters (true, obj, R, stream, ...)
func (l *Lexer) readKeyword() *Token {
	start := l.pos
	for l.pos < len(l.data) && isRegular(l.data[l.pos]) {
		l.pos++
	}
	value := l.data[start:l.pos]
	if len(value) == 1 && value[0] == 'R' {
		return &Token{Type: TokenIndirectRef, Value: value, Pos: start}
	}
	return &Token{Type: TokenKeyword, Value: value, Pos: start}
}

// ReadBytes reads exactly n bytes of raw data
func (l *Lexer) ReadBytes(n int) ([]byte, error) {
	if n < 0 || l.pos+n > len(l.data) {
		return nil, fmt.Errorf("%w: need %d bytes at %d, have %d", ErrInvalidOffset, n, l.pos, len(l.data)-l.pos)
	}
	out := l.data[l.pos : l.pos+n]
	l.pos += n
	return out, nil
}

// SkipStreamEOL consumes the end-of-line marker that follows the stream
// keyword: CRLF, LF, or a lone CR from sloppy writers.
func (l *Lexer) SkipStreamEOL() {
	if l.pos < len(l.data) && l.data[l.pos] == '\r' {
		l.pos++
	}
	if l.pos < len(l.data) && l.data[l.pos] == '\n' {
		l.pos++
	}
}

// IndexFrom returns the offset of the next occurrence of pattern at or after
// the current position, or -1.
func (l *Lexer) IndexFrom(pattern []byte) int {
	i := bytes.Index(l.data[l.pos:], pattern)
	if i < 0 {
		return -1
	}
	return l.pos + i
}

// Seek moves the read position
func (l *Lexer) Seek(pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(l.data) {
		pos = len(l.data)
	}
	l.pos = pos
}

func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == 0
}

func isDelimiter(b byte) bool {
	return b == '(' || b == ')' || b == '<' || b == '>' || b == '[' || b == ']' ||
		b == '{' || b == '}' || b == '/' || b == '%'
}

func isRegular(b byte) bool {
	return !isWhitespace(b) && !isDelimiter(b)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isOctalDigit(b byte) bool {
	return b >= '0' && b <= '7'
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func hexValue(b byte) byte {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10
	}
	return 0
}
