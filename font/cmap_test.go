package font

import (
	"bytes"
	"errors"
	"testing"

	"github.com/tsawler/pdfdoc/core"
)

const identityCMap = `/CIDInit /ProcSet findresource begin
12 dict begin
begincmap
/CIDSystemInfo << /Registry (Adobe) /Ordering (UCS) /Supplement 0 >> def
/CMapName /Adobe-Identity-UCS def
/CMapType 2 def
1 begincodespacerange
<0000> <FFFF>
endcodespacerange
4 beginbfchar
<0003> <0020>
<0004> <0041>
<0005> <0042>
<0010> <00660069>
endbfchar
2 beginbfrange
<0020> <0022> <0061>
<0030> <0031> [<0031> <D83DDE00>]
endbfrange
endcmap
CMapName currentdict /CMap defineresource pop
end
end
`

func TestParseCMap(t *testing.T) {
	cmap, err := ParseCMap([]byte(identityCMap))
	if err != nil {
		t.Fatalf("ParseCMap: %v", err)
	}

	tests := []struct {
		code []byte
		want string
		ok   bool
	}{
		{[]byte{0x00, 0x03}, " ", true},
		{[]byte{0x00, 0x04}, "A", true},
		{[]byte{0x00, 0x10}, "fi", true},
		{[]byte{0x00, 0x20}, "a", true},
		{[]byte{0x00, 0x22}, "c", true},
		{[]byte{0x00, 0x30}, "1", true},
		{[]byte{0x00, 0x31}, "😀", true},
		{[]byte{0x00, 0x07}, "", false},
		{[]byte{0x04}, "", false},
	}
	for _, tt := range tests {
		got, ok := cmap.Lookup(tt.code)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Lookup(% X) = %q, %v; want %q, %v", tt.code, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCMapDecode(t *testing.T) {
	cmap, err := ParseCMap([]byte(identityCMap))
	if err != nil {
		t.Fatalf("ParseCMap: %v", err)
	}

	got, err := cmap.Decode([]byte{0x00, 0x04, 0x00, 0x03, 0x00, 0x21, 0x00, 0x99})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != "A b\uFFFD" {
		t.Errorf("Decode = %q", got)
	}

	if _, err := cmap.Decode([]byte{0x00, 0x04, 0x00}); err == nil {
		t.Error("expected error for truncated code")
	}
}

func TestCMapEncode(t *testing.T) {
	cmap, err := ParseCMap([]byte(identityCMap))
	if err != nil {
		t.Fatalf("ParseCMap: %v", err)
	}

	got := cmap.Encode("fiA ab")
	want := []byte{0x00, 0x10, 0x00, 0x04, 0x00, 0x03, 0x00, 0x20, 0x00, 0x21}
	if !bytes.Equal(got, want) {
		t.Errorf("Encode = % X, want % X", got, want)
	}
	if got := cmap.Encode("Z"); got != nil {
		t.Errorf("Encode(Z) = % X, want nil", got)
	}
}

func TestCMapMixedWidths(t *testing.T) {
	data := `begincmap
2 begincodespacerange
<00> <7F>
<8000> <FFFF>
endcodespacerange
2 beginbfchar
<41> <0041>
<8140> <3000>
endbfchar
endcmap`
	cmap, err := ParseCMap([]byte(data))
	if err != nil {
		t.Fatalf("ParseCMap: %v", err)
	}
	got, err := cmap.Decode([]byte{0x41, 0x81, 0x40, 0x41})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != "A\u3000A" {
		t.Errorf("Decode = %q", got)
	}
}

func TestCMapWithoutCodespace(t *testing.T) {
	data := `beginbfchar
<01> <0058>
<0102> <0059>
endbfchar`
	cmap, err := ParseCMap([]byte(data))
	if err != nil {
		t.Fatalf("ParseCMap: %v", err)
	}
	got, err := cmap.Decode([]byte{0x01, 0x02, 0x01})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != "YX" {
		t.Errorf("Decode = %q, want YX", got)
	}
}

func TestParseCMapErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"no mappings", "begincmap 1 begincodespacerange <00> <FF> endcodespacerange endcmap"},
		{"unterminated bfchar", "1 beginbfchar <01> <0041>"},
		{"reversed range", "1 beginbfrange <05> <01> <0041> endbfrange"},
		{"bad codespace", "1 begincodespacerange <00> <FFFF> endcodespacerange"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseCMap([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestFontEncoding(t *testing.T) {
	toUnicode := core.NewStream(core.Dict{}, []byte(identityCMap))
	objects := map[core.ObjectID]core.Object{
		{Number: 10}: toUnicode,
		{Number: 11}: core.Dict{
			"Type":         core.Name("Encoding"),
			"BaseEncoding": core.Name("WinAnsiEncoding"),
			"Differences":  core.Array{core.Int(65), core.Name("Euro")},
		},
	}
	resolver := ResolverFunc(func(obj core.Object) (core.Object, error) {
		ref, ok := obj.(core.IndirectRef)
		if !ok {
			return obj, nil
		}
		if o, ok := objects[ref.ID()]; ok {
			return o, nil
		}
		return nil, core.ErrObjectNotFound
	})

	tests := []struct {
		name    string
		dict    core.Dict
		input   []byte
		want    string
		wantErr error
	}{
		{
			name:  "default standard encoding",
			dict:  core.Dict{"Subtype": core.Name("Type1"), "BaseFont": core.Name("Times-Roman")},
			input: []byte("it's"),
			want:  "it’s",
		},
		{
			name:  "named encoding",
			dict:  core.Dict{"Subtype": core.Name("Type1"), "Encoding": core.Name("WinAnsiEncoding")},
			input: []byte{'a', 0x80},
			want:  "a€",
		},
		{
			name:  "differences via reference",
			dict:  core.Dict{"Subtype": core.Name("TrueType"), "Encoding": core.IndirectRef{Number: 11}},
			input: []byte("AB"),
			want:  "€B",
		},
		{
			name:  "ToUnicode wins",
			dict:  core.Dict{"Subtype": core.Name("Type0"), "Encoding": core.Name("Identity-H"), "ToUnicode": core.IndirectRef{Number: 10}},
			input: []byte{0x00, 0x04, 0x00, 0x05},
			want:  "AB",
		},
		{
			name:    "composite without ToUnicode",
			dict:    core.Dict{"Subtype": core.Name("Type0"), "Encoding": core.Name("Identity-H")},
			wantErr: ErrEncodingUnavailable,
		},
		{
			name:    "unknown encoding name",
			dict:    core.Dict{"Subtype": core.Name("Type1"), "Encoding": core.Name("Klingon")},
			wantErr: ErrEncodingUnavailable,
		},
		{
			name:    "missing referenced encoding",
			dict:    core.Dict{"Subtype": core.Name("Type1"), "Encoding": core.IndirectRef{Number: 99}},
			wantErr: core.ErrObjectNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := New(tt.dict).Encoding(resolver)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Encoding: %v", err)
			}
			got, err := enc.Decode(tt.input)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got != tt.want {
				t.Errorf("Decode = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFontBaseFont(t *testing.T) {
	f := New(core.Dict{"BaseFont": core.Name("ABCDEF+Helvetica-Bold"), "Subtype": core.Name("TrueType")})
	if got := f.BaseFont(); got != "Helvetica-Bold" {
		t.Errorf("BaseFont = %q", got)
	}
	if f.IsComposite() {
		t.Error("TrueType font reported as composite")
	}
}
