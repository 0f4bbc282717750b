package font

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/pdfdoc/core"
)

var utf16be = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// codespaceRange is one <lo> <hi> pair from a codespace block. Codes match
// byte by byte.
type codespaceRange struct {
	lo, hi []byte
}

func (r codespaceRange) matches(code []byte) bool {
	if len(code) != len(r.lo) {
		return false
	}
	for i, b := range code {
		if b < r.lo[i] || b > r.hi[i] {
			return false
		}
	}
	return true
}

// cmapKey identifies a code by its width, so <41> and <0041> stay distinct.
type cmapKey struct {
	width int
	code  uint32
}

// CMap is a parsed ToUnicode CMap. It implements Encoding.
type CMap struct {
	codespaces []codespaceRange
	mappings   map[cmapKey]string
	reverse    map[string][]byte
	maxDst     int // longest destination, in runes
}

// ParseCMap reads a ToUnicode CMap program.
func ParseCMap(data []byte) (*CMap, error) {
	c := &CMap{
		mappings: make(map[cmapKey]string),
		reverse:  make(map[string][]byte),
	}
	lex := core.NewLexer(data, 0)
	for {
		tok, err := lex.NextToken()
		if err != nil {
			// PostScript procedures and other unsupported syntax
			lex.Seek(lex.Pos() + 1)
			continue
		}
		if tok.Type == core.TokenEOF {
			break
		}
		if tok.Type != core.TokenKeyword {
			continue
		}
		switch string(tok.Value) {
		case "begincodespacerange":
			err = c.parseCodespaces(lex)
		case "beginbfchar":
			err = c.parseBfChar(lex)
		case "beginbfrange":
			err = c.parseBfRange(lex)
		}
		if err != nil {
			return nil, fmt.Errorf("parse cmap: %w", err)
		}
	}
	if len(c.mappings) == 0 {
		return nil, fmt.Errorf("parse cmap: no mappings found")
	}
	sort.Slice(c.codespaces, func(i, j int) bool { return len(c.codespaces[i].lo) < len(c.codespaces[j].lo) })
	return c, nil
}

// ParseToUnicodeCMap decodes a /ToUnicode stream and parses it
func ParseToUnicodeCMap(s *core.Stream) (*CMap, error) {
	data, err := s.Decode()
	if err != nil {
		return nil, fmt.Errorf("decode ToUnicode stream: %w", err)
	}
	return ParseCMap(data)
}

func (c *CMap) parseCodespaces(lex *core.Lexer) error {
	for {
		lo, done, err := nextHex(lex, "endcodespacerange")
		if err != nil || done {
			return err
		}
		hi, _, err := nextHex(lex, "")
		if err != nil {
			return err
		}
		if len(lo) == 0 || len(lo) != len(hi) {
			return fmt.Errorf("codespace range <%X> <%X> has mismatched widths", lo, hi)
		}
		c.codespaces = append(c.codespaces, codespaceRange{lo: lo, hi: hi})
	}
}

func (c *CMap) parseBfChar(lex *core.Lexer) error {
	for {
		src, done, err := nextHex(lex, "endbfchar")
		if err != nil || done {
			return err
		}
		tok, err := lex.NextToken()
		if err != nil {
			return err
		}
		switch tok.Type {
		case core.TokenHexString, core.TokenString:
			c.add(src, decodeDestination(tok.Value))
		case core.TokenName:
			if r, ok := GlyphToRune(string(tok.Value)); ok {
				c.add(src, string(r))
			}
		default:
			return fmt.Errorf("bfchar: unexpected destination %q", tok.Value)
		}
	}
}

func (c *CMap) parseBfRange(lex *core.Lexer) error {
	for {
		lo, done, err := nextHex(lex, "endbfrange")
		if err != nil || done {
			return err
		}
		hi, _, err := nextHex(lex, "")
		if err != nil {
			return err
		}
		if len(lo) != len(hi) || len(lo) > 4 {
			return fmt.Errorf("bfrange <%X> <%X> has invalid widths", lo, hi)
		}
		start, end := codeValue(lo), codeValue(hi)
		if end < start {
			return fmt.Errorf("bfrange <%X> <%X> is reversed", lo, hi)
		}

		tok, err := lex.NextToken()
		if err != nil {
			return err
		}
		switch tok.Type {
		case core.TokenHexString:
			dst := append([]byte(nil), tok.Value...)
			for code := start; code <= end; code++ {
				c.add(codeBytes(code, len(lo)), decodeDestination(dst))
				incrementLast(dst)
				if code == ^uint32(0) {
					break
				}
			}
		case core.TokenArrayStart:
			code := start
			for {
				item, err := lex.NextToken()
				if err != nil {
					return err
				}
				if item.Type == core.TokenArrayEnd || item.Type == core.TokenEOF {
					break
				}
				if item.Type != core.TokenHexString {
					return fmt.Errorf("bfrange array: unexpected %q", item.Value)
				}
				if code <= end {
					c.add(codeBytes(code, len(lo)), decodeDestination(item.Value))
				}
				code++
			}
		default:
			return fmt.Errorf("bfrange: unexpected destination %q", tok.Value)
		}
	}
}

func (c *CMap) add(code []byte, text string) {
	key := cmapKey{width: len(code), code: codeValue(code)}
	c.mappings[key] = text
	if _, ok := c.reverse[text]; !ok && text != "" {
		c.reverse[text] = append([]byte(nil), code...)
	}
	if n := utf8.RuneCountInString(text); n > c.maxDst {
		c.maxDst = n
	}
}

// Lookup returns the text for one code of the given width
func (c *CMap) Lookup(code []byte) (string, bool) {
	s, ok := c.mappings[cmapKey{width: len(code), code: codeValue(code)}]
	return s, ok
}

// Decode splits data into codes using the codespace ranges and maps each
// one. A CMap without codespace ranges tries two-byte then one-byte codes.
// Unmapped codes decode to U+FFFD; a truncated trailing code is an error.
func (c *CMap) Decode(data []byte) (string, error) {
	var sb strings.Builder
	for i := 0; i < len(data); {
		n := c.codeWidth(data[i:])
		if n == 0 {
			return "", fmt.Errorf("cmap: truncated code at byte %d", i)
		}
		if s, ok := c.Lookup(data[i : i+n]); ok {
			sb.WriteString(s)
		} else {
			sb.WriteRune(utf8.RuneError)
		}
		i += n
	}
	return norm.NFC.String(sb.String()), nil
}

func (c *CMap) codeWidth(rest []byte) int {
	if len(c.codespaces) == 0 {
		if len(rest) >= 2 {
			if _, ok := c.Lookup(rest[:2]); ok {
				return 2
			}
		}
		return 1
	}
	shortest := len(c.codespaces[0].lo)
	for _, r := range c.codespaces {
		n := len(r.lo)
		if n <= len(rest) && r.matches(rest[:n]) {
			return n
		}
	}
	if shortest > len(rest) {
		return 0
	}
	return shortest
}

// Encode maps text back to codes, preferring the longest destination that
// matches at each position.
func (c *CMap) Encode(text string) []byte {
	text = norm.NFC.String(text)
	runes := []rune(text)
	var out []byte
	for i := 0; i < len(runes); {
		matched := false
		for n := min(c.maxDst, len(runes)-i); n > 0; n-- {
			if code, ok := c.reverse[string(runes[i:i+n])]; ok {
				out = append(out, code...)
				i += n
				matched = true
				break
			}
		}
		if !matched {
			return nil
		}
	}
	if out == nil {
		out = []byte{}
	}
	return out
}

// nextHex reads one hex string. done is true when the end keyword is found
// instead.
func nextHex(lex *core.Lexer, end string) ([]byte, bool, error) {
	tok, err := lex.NextToken()
	if err != nil {
		return nil, false, err
	}
	switch {
	case tok.Type == core.TokenKeyword && string(tok.Value) == end:
		return nil, true, nil
	case tok.Type == core.TokenHexString:
		return tok.Value, false, nil
	case tok.Type == core.TokenEOF:
		return nil, false, fmt.Errorf("unexpected end of cmap")
	}
	return nil, false, fmt.Errorf("expected hex string, got %q", tok.Value)
}

// decodeDestination reads a UTF-16BE destination string
func decodeDestination(b []byte) string {
	if len(b)%2 == 1 {
		return string(rune(b[0]))
	}
	s, err := utf16be.NewDecoder().Bytes(b)
	if err != nil {
		return string(utf8.RuneError)
	}
	return string(s)
}

func codeValue(b []byte) uint32 {
	var v uint32
	for _, x := range b {
		v = v<<8 | uint32(x)
	}
	return v
}

func codeBytes(v uint32, width int) []byte {
	out := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		out[i] = byte(v)
		v >>= 8
	}
	return out
}

// incrementLast adds one to the last byte of b, carrying into the previous
// one on overflow.
func incrementLast(b []byte) {
	for i := len(b) - 1; i >= 0; i-- {
		b[i]++
		if b[i] != 0 {
			return
		}
	}
}
