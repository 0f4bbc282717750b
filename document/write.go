package document

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/tsawler/pdfdoc/core"
)

// countingWriter tracks how many bytes have been written, for xref offsets
type countingWriter struct {
	w   *bufio.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}

// WriteTo serializes the document with a classic cross-reference table.
// Objects are written in id order.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: bufio.NewWriter(w)}

	fmt.Fprintf(cw, "%%PDF-%s\n%%\xe2\xe3\xcf\xd3\n", d.Version)

	ids := make([]core.ObjectID, 0, len(d.Objects))
	for id := range d.Objects {
		ids = append(ids, id)
	}
	core.SortIDs(ids)

	offsets := make(map[uint32]int64, len(ids))
	generations := make(map[uint32]uint16, len(ids))
	var maxNum uint32
	var buf bytes.Buffer
	for _, id := range ids {
		buf.Reset()
		if err := core.WriteObject(&buf, d.Objects[id]); err != nil {
			return cw.n, fmt.Errorf("object %s: %w", id, err)
		}
		offsets[id.Number] = cw.n
		generations[id.Number] = id.Generation
		if id.Number > maxNum {
			maxNum = id.Number
		}
		fmt.Fprintf(cw, "%d %d obj\n", id.Number, id.Generation)
		cw.Write(buf.Bytes())
		io.WriteString(cw, "\nendobj\n")
	}

	xrefOffset := cw.n
	fmt.Fprintf(cw, "xref\n0 %d\n", maxNum+1)
	io.WriteString(cw, "0000000000 65535 f \n")
	for num := uint32(1); num <= maxNum; num++ {
		if off, ok := offsets[num]; ok {
			fmt.Fprintf(cw, "%010d %05d n \n", off, generations[num])
		} else {
			io.WriteString(cw, "0000000000 65535 f \n")
		}
	}

	trailer := d.Trailer.Clone()
	trailer.Delete("Prev", "XRefStm", "Type", "Length", "Filter", "DecodeParms", "W", "Index")
	trailer.Set("Size", core.Int(maxNum+1))
	buf.Reset()
	if err := core.WriteObject(&buf, trailer); err != nil {
		return cw.n, fmt.Errorf("trailer: %w", err)
	}
	io.WriteString(cw, "trailer\n")
	cw.Write(buf.Bytes())
	fmt.Fprintf(cw, "\nstartxref\n%d\n%%%%EOF\n", xrefOffset)

	if cw.err != nil {
		return cw.n, cw.err
	}
	return cw.n, cw.w.Flush()
}

// Save writes the document to path
func (d *Document) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := d.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Compress flate-encodes every stream that has no filter yet
func (d *Document) Compress() error {
	for id, obj := range d.Objects {
		if s, ok := obj.(*core.Stream); ok {
			if err := s.Compress(); err != nil {
				return fmt.Errorf("object %s: %w", id, err)
			}
		}
	}
	return nil
}

// Decompress decodes every stream in place. Streams whose filters are not
// supported are left as they are and reported as warnings.
func (d *Document) Decompress() {
	for id, obj := range d.Objects {
		s, ok := obj.(*core.Stream)
		if !ok {
			continue
		}
		if err := s.Decompress(); err != nil {
			d.warn("stream", "object %s left compressed: %v", id, err)
		}
	}
}
