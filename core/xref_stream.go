package core

import (
	"bytes"
	"fmt"
	"io"

	"github.com/tsawler/pdfdoc/logger"
)

const maxFieldWidth = 8

// DecodeXRefStream decodes a cross-reference stream into its entries and the
// trailer dictionary it carries. The layout keys (Length, W, Index) and the
// filter keys are removed from the returned dictionary; the input stream is
// not modified.
//
// Rows whose object number is at or above /Size and rows of unknown type are
// skipped and reported in the table's Warnings, with one warning per
// subsection for the rows beyond /Size. /W must give rows a non-zero width.
// Running out of data in the middle of the row grid is an error.
func DecodeXRefStream(s *Stream) (*XRefTable, Dict, error) {
	data, err := s.Decode()
	if err != nil {
		return nil, nil, fmt.Errorf("decompress xref stream: %w", err)
	}

	size, ok := s.Dict.GetInt("Size")
	if !ok || size < 0 {
		return nil, nil, fmt.Errorf("%w: /Size missing or not a non-negative integer", ErrInvalidXRef)
	}
	widths, err := xrefWidths(s.Dict)
	if err != nil {
		return nil, nil, err
	}

	table := NewXRefTable(uint32(size))
	table.Section = SectionStream

	index, warn := xrefIndex(s.Dict, int64(size))
	if warn != "" {
		table.warn(warn)
	}

	r := bytes.NewReader(data)
	var buf [maxFieldWidth]byte
	for p := 0; p+1 < len(index); p += 2 {
		start, count := index[p], index[p+1]
		var beyond int64
		for i := int64(0); i < count; i++ {
			var fields [3]uint64
			for f, w := range widths {
				v, err := readField(r, buf[:w])
				if err != nil {
					return nil, nil, fmt.Errorf("%w: row %d of subsection %d: %w", ErrInvalidXRef, i, start, err)
				}
				fields[f] = v
			}
			if widths[0] == 0 {
				fields[0] = 1
			}
			if !table.insertRow(start+i, fields) {
				beyond++
			}
		}
		if beyond > 0 {
			table.warn(fmt.Sprintf("%d entries from object %d ignored: /Size is %d", beyond, max(start, int64(size)), size))
		}
	}

	trailer := s.Dict.Clone()
	trailer.Delete("Length", "W", "Index", "Filter", "DecodeParms")
	return table, trailer, nil
}

// insertRow records one decoded row for object number num. It reports false
// for an in-use row at or above /Size, which the caller counts.
func (x *XRefTable) insertRow(num int64, fields [3]uint64) bool {
	if num >= int64(x.Size) {
		return fields[0] == 0
	}
	switch fields[0] {
	case 0:
	case 1:
		x.Insert(uint32(num), NormalEntry(fields[1], uint16(fields[2])))
	case 2:
		if fields[1] > uint64(^uint32(0)) {
			x.warn(fmt.Sprintf("object %d: container number %d out of range", num, fields[1]))
			return true
		}
		x.Insert(uint32(num), CompressedEntry(uint32(fields[1]), uint16(fields[2])))
	default:
		x.warn(fmt.Sprintf("object %d: unknown entry type %d", num, fields[0]))
	}
	return true
}

func (x *XRefTable) warn(msg string) {
	logger.Warn("xref stream: "+msg)
	x.Warnings = append(x.Warnings, Warning{Component: "xref", Message: msg})
}

// readField reads a big-endian unsigned integer of len(buf) bytes. A zero
// width reads nothing and yields 0.
func readField(r io.Reader, buf []byte) (uint64, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	if _, err := io.ReadFull(r, buf); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return 0, err
	}
	var v uint64
	for _, b := range buf {
		v = v<<8 | uint64(b)
	}
	return v, nil
}

func xrefWidths(d Dict) ([3]int, error) {
	var widths [3]int
	w, ok := d.GetArray("W")
	if !ok || len(w) < 3 {
		return widths, fmt.Errorf("%w: /W must be an array of three widths", ErrInvalidXRef)
	}
	for i := range widths {
		n, ok := w.GetInt(i)
		if !ok || n < 0 || n > maxFieldWidth {
			return widths, fmt.Errorf("%w: invalid /W element %d: %s", ErrInvalidXRef, i, w[i])
		}
		widths[i] = int(n)
	}
	// a zero-byte row never runs out of data
	if widths[0]+widths[1]+widths[2] == 0 {
		return widths, fmt.Errorf("%w: /W describes zero-width rows", ErrInvalidXRef)
	}
	return widths, nil
}

// xrefIndex returns the flat (start, count) list. A missing or unreadable
// /Index means one subsection covering [0, size).
func xrefIndex(d Dict, size int64) ([]int64, string) {
	def := []int64{0, size}
	obj, present := d["Index"]
	if !present {
		return def, ""
	}
	arr, ok := obj.(Array)
	if !ok {
		return def, fmt.Sprintf("/Index is %s, using [0 %d]", obj.Type(), size)
	}
	out := make([]int64, 0, len(arr))
	for i := range arr {
		n, ok := arr.GetInt(i)
		if !ok || n < 0 {
			return def, fmt.Sprintf("/Index element %d is not a non-negative integer, using [0 %d]", i, size)
		}
		out = append(out, int64(n))
	}
	return out, ""
}
