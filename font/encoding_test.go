package font

import (
	"bytes"
	"testing"

	"github.com/tsawler/pdfdoc/core"
)

func TestWinAnsiEncoding(t *testing.T) {
	tests := []struct {
		name     string
		input    byte
		expected rune
	}{
		{"space", 0x20, ' '},
		{"uppercase A", 0x41, 'A'},
		{"euro sign", 0x80, '€'},
		{"smart quote left", 0x91, '‘'},
		{"smart quote right", 0x92, '’'},
		{"lowercase e-acute", 0xE9, 'é'},
		{"unused code", 0x81, 0},
		{"control code", 0x01, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WinAnsiEncoding.Rune(tt.input); got != tt.expected {
				t.Errorf("Rune(0x%02X) = U+%04X, want U+%04X", tt.input, got, tt.expected)
			}
		})
	}
}

func TestMacRomanEncoding(t *testing.T) {
	tests := []struct {
		input    byte
		expected rune
	}{
		{0x41, 'A'},
		{0x80, 'Ä'},
		{0x8E, 'é'},
		{0xA9, '©'},
		{0xAA, '™'},
	}
	for _, tt := range tests {
		if got := MacRomanEncoding.Rune(tt.input); got != tt.expected {
			t.Errorf("Rune(0x%02X) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestStandardAndPDFDocEncoding(t *testing.T) {
	if got := StandardEncoding.Rune(0x27); got != '’' {
		t.Errorf("StandardEncoding 0x27 = %q", got)
	}
	if got := StandardEncoding.Rune(0xAE); got != 'ﬁ' {
		t.Errorf("StandardEncoding 0xAE = %q", got)
	}
	if got := PDFDocEncoding.Rune(0xA0); got != '€' {
		t.Errorf("PDFDocEncoding 0xA0 = %q", got)
	}
	if got := PDFDocEncoding.Rune(0xE9); got != 'é' {
		t.Errorf("PDFDocEncoding 0xE9 = %q", got)
	}
	if got := PDFDocEncoding.Rune(0x9F); got != 0 {
		t.Errorf("PDFDocEncoding 0x9F = %q, want unused", got)
	}
}

func TestSimpleEncodingRoundTrip(t *testing.T) {
	for _, enc := range []*SimpleEncoding{WinAnsiEncoding, MacRomanEncoding, StandardEncoding, PDFDocEncoding} {
		t.Run(enc.Name(), func(t *testing.T) {
			text := "Hello world!"
			encoded := enc.Encode(text)
			if !bytes.Equal(encoded, []byte(text)) {
				t.Fatalf("Encode(%q) = %q", text, encoded)
			}
			decoded, err := enc.Decode(encoded)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if decoded != text {
				t.Errorf("Decode = %q, want %q", decoded, text)
			}
		})
	}
}

func TestSimpleEncodingUnrepresentable(t *testing.T) {
	if got := WinAnsiEncoding.Encode("snow ☃"); got != nil {
		t.Errorf("Encode = %q, want nil", got)
	}
	if got := WinAnsiEncoding.Encode(""); got == nil || len(got) != 0 {
		t.Errorf("Encode(\"\") = %#v, want empty non-nil", got)
	}
}

func TestEncodeNormalizesInput(t *testing.T) {
	// e followed by a combining acute accent
	got := WinAnsiEncoding.Encode("cafe\u0301")
	if !bytes.Equal(got, []byte{'c', 'a', 'f', 0xE9}) {
		t.Errorf("Encode = % X", got)
	}
}

func TestWithDifferences(t *testing.T) {
	diffs := core.Array{
		core.Int(65), core.Name("Euro"), core.Name("uni263A"),
		core.Int(200), core.Name("eacute"), core.Name("not-a-glyph"),
	}
	enc, err := WinAnsiEncoding.WithDifferences(diffs)
	if err != nil {
		t.Fatalf("WithDifferences: %v", err)
	}

	tests := []struct {
		code byte
		want rune
	}{
		{65, '€'},
		{66, '☺'},
		{67, 'C'},
		{200, 'é'},
		{201, 0},
	}
	for _, tt := range tests {
		if got := enc.Rune(tt.code); got != tt.want {
			t.Errorf("code %d = %q, want %q", tt.code, got, tt.want)
		}
	}

	// the base table is untouched
	if WinAnsiEncoding.Rune(65) != 'A' {
		t.Error("WithDifferences modified the base encoding")
	}
	// lowest code wins for é
	if got := enc.Encode("é"); !bytes.Equal(got, []byte{200}) {
		t.Errorf("Encode(é) = % X, want C8", got)
	}
}

func TestWithDifferencesErrors(t *testing.T) {
	tests := []struct {
		name  string
		diffs core.Array
	}{
		{"name before code", core.Array{core.Name("A")}},
		{"code out of range", core.Array{core.Int(300), core.Name("A")}},
		{"bad item", core.Array{core.Int(1), core.NewString("A")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := StandardEncoding.WithDifferences(tt.diffs); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestGlyphToRune(t *testing.T) {
	tests := []struct {
		name string
		want rune
		ok   bool
	}{
		{"A", 'A', true},
		{"space", ' ', true},
		{"uni00E9", 'é', true},
		{"u1F600", '😀', true},
		{"a.sc", 'a', true},
		{"quotedblleft", '“', true},
		{"xyzzy", 0, false},
	}
	for _, tt := range tests {
		got, ok := GlyphToRune(tt.name)
		if got != tt.want || ok != tt.ok {
			t.Errorf("GlyphToRune(%q) = %q, %v; want %q, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}
