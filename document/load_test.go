package document

import (
	"bytes"
	"compress/zlib"
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/pdfdoc/core"
)

// pdfBuilder writes a PDF file object by object and records the offsets
// for the cross-reference section.
type pdfBuilder struct {
	buf     bytes.Buffer
	offsets map[uint32]int64
}

func newPDFBuilder(version string) *pdfBuilder {
	b := &pdfBuilder{offsets: make(map[uint32]int64)}
	fmt.Fprintf(&b.buf, "%%PDF-%s\n", version)
	return b
}

func (b *pdfBuilder) object(num uint32, body string) {
	b.offsets[num] = int64(b.buf.Len())
	fmt.Fprintf(&b.buf, "%d 0 obj\n%s\nendobj\n", num, body)
}

func (b *pdfBuilder) stream(num uint32, dict string, data []byte) {
	b.offsets[num] = int64(b.buf.Len())
	fmt.Fprintf(&b.buf, "%d 0 obj\n%s\nstream\n", num, dict)
	b.buf.Write(data)
	b.buf.WriteString("\nendstream\nendobj\n")
}

// xref writes a classic table and trailer and returns the table offset.
// With no nums the table covers every object written so far.
func (b *pdfBuilder) xref(trailer string, nums ...uint32) int64 {
	offset := int64(b.buf.Len())
	b.buf.WriteString("xref\n")
	if len(nums) == 0 {
		var last uint32
		for num := range b.offsets {
			if num > last {
				last = num
			}
		}
		fmt.Fprintf(&b.buf, "0 %d\n0000000000 65535 f \n", last+1)
		for num := uint32(1); num <= last; num++ {
			if off, ok := b.offsets[num]; ok {
				fmt.Fprintf(&b.buf, "%010d 00000 n \n", off)
			} else {
				b.buf.WriteString("0000000000 65535 f \n")
			}
		}
	}
	for _, num := range nums {
		fmt.Fprintf(&b.buf, "%d 1\n%010d 00000 n \n", num, b.offsets[num])
	}
	fmt.Fprintf(&b.buf, "trailer\n%s\nstartxref\n%d\n%%%%EOF\n", trailer, offset)
	return offset
}

func (b *pdfBuilder) bytes() []byte { return b.buf.Bytes() }

// simpleObjects writes a one page document whose content stream has an
// indirect /Length.
func simpleObjects(b *pdfBuilder, content string) {
	b.object(1, "<< /Type /Catalog /Pages 2 0 R >>")
	b.object(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	b.object(3, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>")
	b.object(4, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")
	b.stream(5, "<< /Length 6 0 R >>", []byte(content))
	b.object(6, fmt.Sprint(len(content)))
}

func simplePDF(content string) []byte {
	b := newPDFBuilder("1.4")
	simpleObjects(b, content)
	b.xref("<< /Size 7 /Root 1 0 R >>")
	return b.bytes()
}

func deflate(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestLoad_Classic(t *testing.T) {
	d, err := Load(context.Background(), simplePDF("BT /F1 12 Tf (Hello world!) Tj ET"), nil)
	require.NoError(t, err)

	assert.Equal(t, "1.4", d.Version)
	assert.Equal(t, uint32(6), d.MaxID)
	assert.Len(t, d.Objects, 6)
	assert.Equal(t, core.SectionTable, d.XRef.Section)
	assert.Empty(t, d.Warnings)

	got, err := d.ExtractText(1)
	require.NoError(t, err)
	assert.Equal(t, "Hello world!\n", got)
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.pdf")
	require.NoError(t, os.WriteFile(path, simplePDF("BT ET"), 0644))

	d, err := Open(context.Background(), path, nil)
	require.NoError(t, err)
	count, err := d.PageCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = Open(context.Background(), "/nonexistent/file.pdf", nil)
	assert.Error(t, err)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		cfg     *Config
		wantErr error
	}{
		{"no header", []byte("hello world"), nil, ErrInvalidHeader},
		{"no version", []byte("%PDF-\n"), nil, ErrInvalidHeader},
		{"no startxref", []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n"), nil, core.ErrInvalidXRef},
		{"bad startxref", []byte("%PDF-1.4\nstartxref\n99999\n%%EOF"), nil, core.ErrInvalidXRef},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(context.Background(), tt.data, tt.cfg)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("invalid config", func(t *testing.T) {
		_, err := Load(context.Background(), simplePDF("BT ET"), &Config{ParsingMode: "sloppy", MaxResolveDepth: 1})
		assert.Error(t, err)
	})
}

func TestReadHeader_AfterJunk(t *testing.T) {
	data := append([]byte("junk before the header\n"), simplePDF("BT ET")...)
	version, err := readHeader(data)
	require.NoError(t, err)
	assert.Equal(t, "1.4", version)
}

func TestLoad_ParsingMode(t *testing.T) {
	b := newPDFBuilder("1.4")
	simpleObjects(b, "BT /F1 12 Tf (x) Tj ET")
	// point the font entry into the middle of its object
	b.offsets[4] += 3
	b.xref("<< /Size 7 /Root 1 0 R >>")

	t.Run("best effort", func(t *testing.T) {
		d, err := Load(context.Background(), b.bytes(), &Config{ParsingMode: BestEffort, MaxResolveDepth: 100})
		require.NoError(t, err)
		assert.NotContains(t, d.Objects, core.ObjectID{Number: 4})
		assert.Contains(t, d.Objects, core.ObjectID{Number: 5})
		require.NotEmpty(t, d.Warnings)
		assert.Equal(t, "load", d.Warnings[len(d.Warnings)-1].Component)
	})

	t.Run("strict", func(t *testing.T) {
		_, err := Load(context.Background(), b.bytes(), &Config{ParsingMode: Strict, MaxResolveDepth: 100})
		assert.Error(t, err)
	})
}

func TestLoad_IncrementalUpdate(t *testing.T) {
	b := newPDFBuilder("1.4")
	simpleObjects(b, "BT /F1 12 Tf (old) Tj ET")
	prev := b.xref("<< /Size 7 /Root 1 0 R /Info 7 0 R >>")

	updated := "BT /F1 12 Tf (new) Tj ET"
	b.stream(5, fmt.Sprintf("<< /Length %d >>", len(updated)), []byte(updated))
	b.object(7, "<< /Title (Updated) >>")
	b.xref(fmt.Sprintf("<< /Size 8 /Root 1 0 R /Prev %d >>", prev), 5, 7)

	d, err := Load(context.Background(), b.bytes(), nil)
	require.NoError(t, err)

	got, err := d.ExtractText(1)
	require.NoError(t, err)
	assert.Equal(t, "new\n", got)

	// /Info comes from the older trailer
	info, err := d.Info()
	require.NoError(t, err)
	title, err := core.AsString(info.Get("Title"))
	require.NoError(t, err)
	assert.Equal(t, "Updated", string(title))
	assert.False(t, d.Trailer.Has("Prev"))
}

func TestLoad_PrevLoop(t *testing.T) {
	b := newPDFBuilder("1.4")
	simpleObjects(b, "BT ET")
	self := b.buf.Len()
	b.xref(fmt.Sprintf("<< /Size 7 /Root 1 0 R /Prev %d >>", self))

	d, err := Load(context.Background(), b.bytes(), nil)
	require.NoError(t, err)
	require.NotEmpty(t, d.Warnings)
	assert.Equal(t, "xref", d.Warnings[0].Component)
}

// xrefStreamPDF packs objects 1-4 into object stream 6 and indexes
// everything with a cross-reference stream, object 7.
func xrefStreamPDF(t *testing.T) []byte {
	t.Helper()
	bodies := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}
	var index, objects strings.Builder
	for i, body := range bodies {
		fmt.Fprintf(&index, "%d %d ", i+1, objects.Len())
		objects.WriteString(body + "\n")
	}
	objstm := deflate(t, []byte(index.String()+objects.String()))

	b := newPDFBuilder("1.5")
	content := "BT /F1 12 Tf (Packed text) Tj ET"
	b.stream(5, fmt.Sprintf("<< /Length %d >>", len(content)), []byte(content))
	b.stream(6, fmt.Sprintf("<< /Type /ObjStm /N 4 /First %d /Filter /FlateDecode /Length %d >>", index.Len(), len(objstm)), objstm)

	xrefOffset := b.buf.Len()
	var rows bytes.Buffer
	row := func(typ byte, field2 uint32, field3 uint16) {
		rows.WriteByte(typ)
		binary.Write(&rows, binary.BigEndian, field2)
		binary.Write(&rows, binary.BigEndian, field3)
	}
	row(0, 0, 65535)
	for i := range bodies {
		row(2, 6, uint16(i))
	}
	row(1, uint32(b.offsets[5]), 0)
	row(1, uint32(b.offsets[6]), 0)
	row(1, uint32(xrefOffset), 0)
	packed := deflate(t, rows.Bytes())
	b.stream(7, fmt.Sprintf("<< /Type /XRef /Size 8 /W [1 4 2] /Root 1 0 R /Filter /FlateDecode /Length %d >>", len(packed)), packed)
	fmt.Fprintf(&b.buf, "startxref\n%d\n%%%%EOF\n", xrefOffset)
	return b.bytes()
}

func TestLoad_XRefAndObjectStreams(t *testing.T) {
	data := xrefStreamPDF(t)
	for _, workers := range []int{0, 4} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			cfg := NewDefaultConfig()
			cfg.ObjectStreamWorkers = workers
			d, err := Load(context.Background(), data, cfg)
			require.NoError(t, err)

			assert.Equal(t, core.SectionStream, d.XRef.Section)
			entry, ok := d.XRef.Get(2)
			require.True(t, ok)
			assert.Equal(t, core.CompressedEntry(6, 1), entry)

			for num := uint32(1); num <= 5; num++ {
				assert.Contains(t, d.Objects, core.ObjectID{Number: num})
			}
			// the containers are gone
			assert.NotContains(t, d.Objects, core.ObjectID{Number: 6})
			assert.NotContains(t, d.Objects, core.ObjectID{Number: 7})
			assert.Equal(t, uint32(7), d.MaxID)

			got, err := d.ExtractText(1)
			require.NoError(t, err)
			assert.Equal(t, "Packed text\n", got)
		})
	}
}

func TestLoad_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Load(ctx, simplePDF("BT ET"), nil)
	assert.ErrorIs(t, err, context.Canceled)
}
