package contentstream

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tsawler/pdfdoc/core"
)

func str(s string) core.String { return core.NewString(s) }

func TestParseOperations(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Operation
	}{
		{
			name:  "text object",
			input: "BT /F1 12 Tf (Hello world!) Tj ET",
			want: []Operation{
				NewOperation("BT"),
				NewOperation("Tf", core.Name("F1"), core.Int(12)),
				NewOperation("Tj", str("Hello world!")),
				NewOperation("ET"),
			},
		},
		{
			name:  "kerned array",
			input: "[(H) -5 (i) 0.5 <20>] TJ",
			want: []Operation{
				NewOperation("TJ", core.Array{str("H"), core.Int(-5), str("i"), core.Real(0.5), core.NewHexString([]byte(" "))}),
			},
		},
		{
			name:  "quote operators",
			input: "(a) ' 1 2 (b) \" T*",
			want: []Operation{
				NewOperation("'", str("a")),
				NewOperation("\"", core.Int(1), core.Int(2), str("b")),
				NewOperation("T*"),
			},
		},
		{
			name:  "operators with digits",
			input: "500 0 d0 0 0 1 1 re f*",
			want: []Operation{
				NewOperation("d0", core.Int(500), core.Int(0)),
				NewOperation("re", core.Int(0), core.Int(0), core.Int(1), core.Int(1)),
				NewOperation("f*"),
			},
		},
		{
			name:  "booleans and comments",
			input: "% comment\ntrue false null BX\n/Tag<</MCID 0>>BDC EMC",
			want: []Operation{
				NewOperation("BX", core.Bool(true), core.Bool(false), core.Null{}),
				NewOperation("BDC", core.Name("Tag"), core.Dict{"MCID": core.Int(0)}),
				NewOperation("EMC"),
			},
		},
		{
			name:  "no whitespace before delimiters",
			input: "q 1 0 0 1 0 0 cm/Im1 Do Q",
			want: []Operation{
				NewOperation("q"),
				NewOperation("cm", core.Int(1), core.Int(0), core.Int(0), core.Int(1), core.Int(0), core.Int(0)),
				NewOperation("Do", core.Name("Im1")),
				NewOperation("Q"),
			},
		},
		{
			name:  "inline image",
			input: "q BI /W 2 /H 1 /BPC 8 /CS /G ID \x00EI\xff\nEI Q",
			want: []Operation{
				NewOperation("q"),
				NewOperation("BI", core.Dict{"W": core.Int(2), "H": core.Int(1), "BPC": core.Int(8), "CS": core.Name("G")},
					core.String{Value: []byte("\x00EI\xff")}),
				NewOperation("Q"),
			},
		},
		{
			name:  "trailing operands dropped",
			input: "BT 1 2",
			want:  []Operation{NewOperation("BT")},
		},
		{
			name:  "empty",
			input: "  \n",
			want:  []Operation{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewParser([]byte(tt.input)).Parse()
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	for _, input := range []string{
		"[(a) Tj",
		"(unclosed",
		"<< /A >> BDC",
		"[ (a) Tj ] TJ",
		"BI /W 1 ID 123",
		"<zz> Tj",
	} {
		if _, err := Decode([]byte(input)); !errors.Is(err, ErrInvalidContent) {
			t.Errorf("Decode(%q) = %v, want ErrInvalidContent", input, err)
		}
	}
}

func TestParsersAreIndependent(t *testing.T) {
	a := NewParser([]byte("1 2 "))
	if _, err := a.Parse(); err != nil {
		t.Fatal(err)
	}
	ops, err := NewParser([]byte("Q")).Parse()
	if err != nil {
		t.Fatal(err)
	}
	if len(ops[0].Operands) != 0 {
		t.Errorf("operands leaked between parsers: %v", ops[0].Operands)
	}
}
