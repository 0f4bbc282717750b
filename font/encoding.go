package font

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/pdfdoc/core"
)

// Encoding converts between the bytes a content stream shows with a font
// and Unicode text.
type Encoding interface {
	// Decode turns shown bytes into NFC-normalized text.
	Decode(data []byte) (string, error)
	// Encode turns text back into shown bytes. It returns nil when some
	// character cannot be represented.
	Encode(text string) []byte
}

// SimpleEncoding is a one byte per character encoding backed by a 256 entry
// table. A zero rune marks an unused code.
type SimpleEncoding struct {
	name    string
	table   [256]rune
	reverse map[rune]byte
}

// NewSimpleEncoding builds an encoding from a code table
func NewSimpleEncoding(name string, table [256]rune) *SimpleEncoding {
	e := &SimpleEncoding{name: name, table: table}
	e.buildReverse()
	return e
}

func (e *SimpleEncoding) buildReverse() {
	e.reverse = make(map[rune]byte, 256)
	// the lowest code wins when a rune appears twice
	for code := 255; code >= 0; code-- {
		if r := e.table[code]; r != 0 {
			e.reverse[r] = byte(code)
		}
	}
}

// Name returns the encoding name, e.g. "WinAnsiEncoding"
func (e *SimpleEncoding) Name() string { return e.name }

// Rune returns the character for one code, or 0 when the code is unused.
func (e *SimpleEncoding) Rune(code byte) rune { return e.table[code] }

// Decode maps every byte through the table. Unused codes are dropped, so
// Encode(Decode(b)) can be shorter than b.
func (e *SimpleEncoding) Decode(data []byte) (string, error) {
	var sb strings.Builder
	sb.Grow(len(data))
	for _, b := range data {
		if r := e.table[b]; r != 0 {
			sb.WriteRune(r)
		}
	}
	return norm.NFC.String(sb.String()), nil
}

// Encode maps every character back to its code.
func (e *SimpleEncoding) Encode(text string) []byte {
	text = norm.NFC.String(text)
	out := make([]byte, 0, len(text))
	for _, r := range text {
		code, ok := e.reverse[r]
		if !ok {
			return nil
		}
		out = append(out, code)
	}
	return out
}

// WithDifferences returns a copy of e patched by a /Differences array:
// [code name name ... code name ...]. Unknown glyph names leave their code
// unused.
func (e *SimpleEncoding) WithDifferences(diffs core.Array) (*SimpleEncoding, error) {
	patched := &SimpleEncoding{name: e.name, table: e.table}
	code := -1
	for i, item := range diffs {
		switch v := item.(type) {
		case core.Int:
			if v < 0 || v > 255 {
				return nil, fmt.Errorf("differences: code %d out of range", v)
			}
			code = int(v)
		case core.Name:
			if code < 0 {
				return nil, fmt.Errorf("differences: glyph name %s before any code", v)
			}
			if code > 255 {
				continue
			}
			patched.table[code], _ = GlyphToRune(string(v))
			code++
		default:
			return nil, fmt.Errorf("differences: item %d is %s", i, item.Type())
		}
	}
	patched.buildReverse()
	return patched, nil
}

// GlyphToRune resolves a glyph name: the names in the glyph list, "uniXXXX",
// "uXXXX" to "uXXXXXX", and single-character names.
func GlyphToRune(name string) (rune, bool) {
	if r, ok := glyphNames[name]; ok {
		return r, true
	}
	// "a.sc", "A_B" and similar: use the base name
	if i := strings.IndexByte(name, '.'); i > 0 {
		return GlyphToRune(name[:i])
	}
	switch {
	case strings.HasPrefix(name, "uni") && len(name) == 7:
		if v, err := strconv.ParseUint(name[3:], 16, 32); err == nil {
			return rune(v), true
		}
	case strings.HasPrefix(name, "u") && len(name) >= 5 && len(name) <= 7:
		if v, err := strconv.ParseUint(name[1:], 16, 32); err == nil && utf8.ValidRune(rune(v)) {
			return rune(v), true
		}
	}
	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		return r, true
	}
	return 0, false
}

// EncodingByName returns one of the predefined simple encodings.
func EncodingByName(name string) (*SimpleEncoding, bool) {
	switch name {
	case "WinAnsiEncoding":
		return WinAnsiEncoding, true
	case "MacRomanEncoding":
		return MacRomanEncoding, true
	case "StandardEncoding":
		return StandardEncoding, true
	case "PDFDocEncoding":
		return PDFDocEncoding, true
	}
	return nil, false
}

// The predefined simple encodings
var (
	WinAnsiEncoding  = NewSimpleEncoding("WinAnsiEncoding", charmapTable(charmap.Windows1252))
	MacRomanEncoding = NewSimpleEncoding("MacRomanEncoding", charmapTable(charmap.Macintosh))
	StandardEncoding = NewSimpleEncoding("StandardEncoding", standardTable())
	PDFDocEncoding   = NewSimpleEncoding("PDFDocEncoding", pdfDocTable())
)

// charmapTable copies the printable part of a single-byte code page.
// Control codes other than tab, LF and CR stay unused.
func charmapTable(cm *charmap.Charmap) [256]rune {
	var t [256]rune
	for code := 0; code < 256; code++ {
		r := cm.DecodeByte(byte(code))
		if r == utf8.RuneError || (r < 0x20 && r != '\t' && r != '\n' && r != '\r') || (r >= 0x7f && r < 0xa0) {
			continue
		}
		t[code] = r
	}
	return t
}

func asciiTable() [256]rune {
	var t [256]rune
	for code := 0x20; code < 0x7f; code++ {
		t[code] = rune(code)
	}
	t['\t'], t['\n'], t['\r'] = '\t', '\n', '\r'
	return t
}

func standardTable() [256]rune {
	t := asciiTable()
	t[0x27] = '’'
	t[0x60] = '‘'
	for code, r := range map[byte]rune{
		0xa1: '¡', 0xa2: '¢', 0xa3: '£', 0xa4: '⁄',
		0xa5: '¥', 0xa6: 'ƒ', 0xa7: '§', 0xa8: '¤',
		0xa9: '\'', 0xaa: '“', 0xab: '«', 0xac: '‹',
		0xad: '›', 0xae: 'ﬁ', 0xaf: 'ﬂ', 0xb1: '–',
		0xb2: '†', 0xb3: '‡', 0xb4: '·', 0xb6: '¶',
		0xb7: '•', 0xb8: '‚', 0xb9: '„', 0xba: '”',
		0xbb: '»', 0xbc: '…', 0xbd: '‰', 0xbf: '¿',
		0xc1: '`', 0xc2: '´', 0xc3: 'ˆ', 0xc4: '˜',
		0xc5: '¯', 0xc6: '˘', 0xc7: '˙', 0xc8: '¨',
		0xca: '˚', 0xcb: '¸', 0xcd: '˝', 0xce: '˛',
		0xcf: 'ˇ', 0xd0: '—', 0xe1: 'Æ', 0xe3: 'ª',
		0xe8: 'Ł', 0xe9: 'Ø', 0xea: 'Œ', 0xeb: 'º',
		0xf1: 'æ', 0xf5: 'ı', 0xf8: 'ł', 0xf9: 'ø',
		0xfa: 'œ', 0xfb: 'ß',
	} {
		t[code] = r
	}
	return t
}

// pdfDocTable is Latin-1 with the 0x18-0x1f and 0x80-0xa0 blocks replaced.
func pdfDocTable() [256]rune {
	t := asciiTable()
	for code := 0xa1; code < 0x100; code++ {
		t[code] = rune(code)
	}
	t[0xad] = 0
	copy(t[0x18:0x20], []rune{
		'˘', 'ˇ', 'ˆ', '˙', '˝', '˛', '˚', '˜',
	})
	copy(t[0x80:0xa1], []rune{
		'•', '†', '‡', '…', '—', '–', 'ƒ', '⁄',
		'‹', '›', '−', '‰', '„', '“', '”', '‘',
		'’', '‚', '™', 'ﬁ', 'ﬂ', 'Ł', 'Œ', 'Š',
		'Ÿ', 'Ž', 'ı', 'ł', 'œ', 'š', 'ž', 0,
		'€',
	})
	return t
}
