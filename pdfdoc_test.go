package pdfdoc

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/pdfdoc/core"
	"github.com/tsawler/pdfdoc/document"
)

// writeTestPDF saves a document with one page per content string, all
// using a WinAnsi Helvetica font named /F1.
func writeTestPDF(t *testing.T, contents ...string) string {
	t.Helper()

	d := document.New()
	pagesID := d.NewObjectID()
	fontID := d.AddObject(core.Dict{
		"Type":     core.Name("Font"),
		"Subtype":  core.Name("Type1"),
		"BaseFont": core.Name("Helvetica"),
		"Encoding": core.Name("WinAnsiEncoding"),
	})
	kids := core.Array{}
	for _, c := range contents {
		contentID := d.AddObject(core.NewStream(nil, []byte(c)))
		pageID := d.AddObject(core.Dict{
			"Type":      core.Name("Page"),
			"Parent":    pagesID.Ref(),
			"Resources": core.Dict{"Font": core.Dict{"F1": fontID.Ref()}},
			"Contents":  contentID.Ref(),
		})
		kids = append(kids, pageID.Ref())
	}
	d.SetObject(pagesID, core.Dict{"Type": core.Name("Pages"), "Kids": kids, "Count": core.Int(len(kids))})
	d.Trailer.Set("Root", d.AddObject(core.Dict{"Type": core.Name("Catalog"), "Pages": pagesID.Ref()}).Ref())

	path := filepath.Join(t.TempDir(), "test.pdf")
	if err := d.Save(path); err != nil {
		t.Fatalf("failed to save test PDF: %v", err)
	}
	return path
}

func textPage(s string) string {
	return "BT /F1 12 Tf 72 720 Td (" + s + ") Tj ET"
}

func TestOpen(t *testing.T) {
	_, _, err := Open("nonexistent.pdf").Text()
	if err == nil {
		t.Error("expected error for non-existent file")
	}
}

func TestBasicTextExtraction(t *testing.T) {
	path := writeTestPDF(t, textPage("Dinosaurs"), textPage("Birds"))

	text, warnings, err := Open(path).Text()
	if err != nil {
		t.Fatalf("failed to extract text: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %s", FormatWarnings(warnings))
	}
	if text != "Dinosaurs\nBirds\n" {
		t.Errorf("got %q", text)
	}
}

func TestPageSelection(t *testing.T) {
	path := writeTestPDF(t, textPage("one"), textPage("two"), textPage("three"))

	tests := []struct {
		name string
		ext  *Extractor
		want string
	}{
		{"single page", Open(path).Pages(2), "two\n"},
		{"sorted and deduplicated", Open(path).Pages(3, 1, 3), "one\nthree\n"},
		{"cumulative", Open(path).Pages(3).Pages(2), "two\nthree\n"},
		{"range", Open(path).PageRange(2, 3), "two\nthree\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := tt.ext.Text()
			if err != nil {
				t.Fatalf("Text: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInvalidPage(t *testing.T) {
	path := writeTestPDF(t, textPage("one"))

	if _, _, err := Open(path).Pages(5).Text(); err == nil {
		t.Error("expected error for page out of range")
	}
	if _, _, err := Open(path).PageRange(3, 1).Text(); err == nil {
		t.Error("expected error for reversed range")
	}
}

func TestPageCount(t *testing.T) {
	path := writeTestPDF(t, textPage("a"), textPage("b"))

	count, err := Open(path).PageCount()
	if err != nil {
		t.Fatalf("failed to get page count: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 pages, got %d", count)
	}
}

func TestChunks(t *testing.T) {
	path := writeTestPDF(t, "BT /F1 12 Tf (a) Tj ET BT /F1 12 Tf (b) Tj ET")

	chunks, _, err := Open(path).Chunks()
	if err != nil {
		t.Fatalf("Chunks: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].Text != "a\n" || chunks[1].Text != "b\n" {
		t.Errorf("unexpected chunks: %+v", chunks)
	}
}

func TestChainImmutability(t *testing.T) {
	base := Open("doc.pdf")
	withPages := base.Pages(1, 2)
	strict := base.Strict()

	if len(base.options.pages) != 0 {
		t.Error("base extractor should have no pages selected")
	}
	if len(withPages.options.pages) != 2 {
		t.Error("derived extractor should have 2 pages selected")
	}
	if base.options.config.ParsingMode != document.BestEffort {
		t.Error("Strict must not change the base extractor")
	}
	if strict.options.config.ParsingMode != document.Strict {
		t.Error("expected strict parsing mode")
	}
}

func TestMust(t *testing.T) {
	path := writeTestPDF(t, textPage("x"))
	if got := Must(Open(path).PageCount()); got != 1 {
		t.Errorf("got %d", got)
	}
	if got := MustText(Open(path).Text()); got != "x\n" {
		t.Errorf("got %q", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	Must(Open("nonexistent.pdf").PageCount())
}

func TestDocumentEditing(t *testing.T) {
	path := writeTestPDF(t, textPage("Draft report"))

	doc, _, err := Open(path).Document()
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if err := doc.ReplaceText(1, "Draft report", "Final report", "?"); err != nil {
		t.Fatalf("ReplaceText: %v", err)
	}
	out := filepath.Join(t.TempDir(), "out.pdf")
	if err := doc.Save(out); err != nil {
		t.Fatalf("Save: %v", err)
	}

	text, _, err := Open(out).Text()
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if !strings.Contains(text, "Final report") {
		t.Errorf("got %q", text)
	}

	// FromDocument reuses the loaded document
	text, _, err = FromDocument(doc).Text()
	if err != nil || text != "Final report\n" {
		t.Errorf("FromDocument: %q, %v", text, err)
	}
}

func TestFormatWarnings(t *testing.T) {
	got := FormatWarnings([]Warning{
		core.Warnf("xref", "row %d skipped", 4),
		core.Warnf("text", "no font"),
	})
	if !strings.Contains(got, "row 4 skipped") || !strings.Contains(got, "; ") {
		t.Errorf("got %q", got)
	}
}
