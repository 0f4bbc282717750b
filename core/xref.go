package core

import (
	"bytes"
	"fmt"
	"strconv"
)

// XRefEntryType distinguishes the three kinds of cross-reference entries
type XRefEntryType int

const (
	XRefFree XRefEntryType = iota
	XRefNormal
	XRefCompressed
)

// XRefEntry locates one object. Offset and Generation apply to normal
// entries; Container and Index apply to compressed entries.
type XRefEntry struct {
	Type       XRefEntryType
	Offset     uint64
	Generation uint16
	Container  uint32
	Index      uint16
}

// NormalEntry returns an entry for an object stored at a byte offset
func NormalEntry(offset uint64, generation uint16) XRefEntry {
	return XRefEntry{Type: XRefNormal, Offset: offset, Generation: generation}
}

// CompressedEntry returns an entry for an object packed in an object stream
func CompressedEntry(container uint32, index uint16) XRefEntry {
	return XRefEntry{Type: XRefCompressed, Container: container, Index: index}
}

// XRefSection records which syntax a cross-reference section used
type XRefSection int

const (
	SectionTable XRefSection = iota
	SectionStream
)

// XRefTable maps object numbers to their locations. There is at most one
// entry per object number.
type XRefTable struct {
	Entries  map[uint32]XRefEntry
	Size     uint32
	Section  XRefSection
	Warnings []Warning
}

// NewXRefTable creates a new empty XRef table
func NewXRefTable(size uint32) *XRefTable {
	return &XRefTable{Entries: make(map[uint32]XRefEntry), Size: size}
}

// Get retrieves the entry for an object number
func (x *XRefTable) Get(num uint32) (XRefEntry, bool) {
	e, ok := x.Entries[num]
	return e, ok
}

// Insert adds or replaces an entry
func (x *XRefTable) Insert(num uint32, e XRefEntry) {
	x.Entries[num] = e
}

// Len returns the number of entries
func (x *XRefTable) Len() int { return len(x.Entries) }

// Merge overlays an older snapshot underneath x: entries already in x win.
func (x *XRefTable) Merge(older *XRefTable) {
	if older == nil {
		return
	}
	for num, e := range older.Entries {
		if _, ok := x.Entries[num]; !ok {
			x.Entries[num] = e
		}
	}
	if older.Size > x.Size {
		x.Size = older.Size
	}
	x.Warnings = append(x.Warnings, older.Warnings...)
}

// MergeXRefTables merges snapshots given oldest first; later entries shadow
// earlier ones for the same object number.
func MergeXRefTables(tables ...*XRefTable) *XRefTable {
	merged := NewXRefTable(0)
	for i := len(tables) - 1; i >= 0; i-- {
		merged.Merge(tables[i])
	}
	if len(tables) > 0 {
		merged.Section = tables[len(tables)-1].Section
	}
	return merged
}

// FindStartXRef returns the offset recorded after the last "startxref".
func FindStartXRef(data []byte) (int64, error) {
	tail := data
	if len(tail) > 1024 {
		tail = tail[len(tail)-1024:]
	}
	idx := bytes.LastIndex(tail, []byte("startxref"))
	if idx < 0 {
		return 0, fmt.Errorf("%w: startxref not found", ErrInvalidXRef)
	}
	fields := bytes.Fields(tail[idx+len("startxref"):])
	if len(fields) == 0 {
		return 0, fmt.Errorf("%w: missing startxref offset", ErrInvalidXRef)
	}
	offset, err := strconv.ParseInt(string(fields[0]), 10, 64)
	if err != nil || offset < 0 || offset >= int64(len(data)) {
		return 0, fmt.Errorf("%w: bad startxref offset %q", ErrInvalidXRef, fields[0])
	}
	return offset, nil
}

// IsXRefTableAt reports whether a classic "xref" table starts at offset.
func IsXRefTableAt(data []byte, offset int64) bool {
	if offset < 0 || offset >= int64(len(data)) {
		return false
	}
	return bytes.HasPrefix(bytes.TrimLeft(data[offset:], " \t\r\n\f\x00"), []byte("xref"))
}

// ParseXRefTable parses a classic "xref" table at offset together with the
// trailer dictionary that follows it.
func ParseXRefTable(data []byte, offset int64) (*XRefTable, Dict, error) {
	if !IsXRefTableAt(data, offset) {
		return nil, nil, fmt.Errorf("%w: no xref keyword at %d", ErrInvalidXRef, offset)
	}
	lex := NewLexer(data, int(offset))
	if _, err := lex.NextToken(); err != nil { // xref
		return nil, nil, err
	}

	table := NewXRefTable(0)
	for {
		tok, err := lex.NextToken()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidXRef, err)
		}
		if tok.Type == TokenKeyword && string(tok.Value) == "trailer" {
			break
		}
		if tok.Type != TokenInteger {
			return nil, nil, fmt.Errorf("%w: expected subsection header at %d, got %q", ErrInvalidXRef, tok.Pos, tok.Value)
		}
		first, err := strconv.ParseUint(string(tok.Value), 10, 32)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid first object number: %v", ErrInvalidXRef, err)
		}
		countTok, err := lex.NextToken()
		if err != nil || countTok.Type != TokenInteger {
			return nil, nil, fmt.Errorf("%w: invalid subsection count", ErrInvalidXRef)
		}
		count, err := strconv.ParseUint(string(countTok.Value), 10, 32)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid count: %v", ErrInvalidXRef, err)
		}
		for i := uint64(0); i < count; i++ {
			entry, err := readTableEntry(lex)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: entry %d: %v", ErrInvalidXRef, first+i, err)
			}
			if entry.Type == XRefNormal {
				table.Insert(uint32(first+i), entry)
			}
		}
	}

	p := &Parser{lexer: lex}
	obj, err := p.ParseObject()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse trailer dictionary: %w", err)
	}
	trailer, ok := obj.(Dict)
	if !ok {
		return nil, nil, fmt.Errorf("%w: trailer is %s, not a dictionary", ErrInvalidXRef, obj.Type())
	}
	if size, ok := trailer.GetInt("Size"); ok && size >= 0 {
		table.Size = uint32(size)
	}
	return table, trailer, nil
}

// readTableEntry reads "nnnnnnnnnn ggggg n|f". Only in-use entries are
// returned as normal; everything else is free.
func readTableEntry(lex *Lexer) (XRefEntry, error) {
	offTok, err := lex.NextToken()
	if err != nil || offTok.Type != TokenInteger {
		return XRefEntry{}, fmt.Errorf("missing offset")
	}
	genTok, err := lex.NextToken()
	if err != nil || genTok.Type != TokenInteger {
		return XRefEntry{}, fmt.Errorf("missing generation")
	}
	flag, err := lex.NextToken()
	if err != nil || flag.Type != TokenKeyword {
		return XRefEntry{}, fmt.Errorf("missing in-use flag")
	}
	offset, err := strconv.ParseUint(string(offTok.Value), 10, 64)
	if err != nil {
		return XRefEntry{}, fmt.Errorf("invalid offset %q", offTok.Value)
	}
	gen, err := strconv.ParseUint(string(genTok.Value), 10, 32)
	if err != nil {
		return XRefEntry{}, fmt.Errorf("invalid generation %q", genTok.Value)
	}
	switch string(flag.Value) {
	case "n":
		return NormalEntry(offset, uint16(gen)), nil
	case "f":
		return XRefEntry{Type: XRefFree}, nil
	}
	return XRefEntry{}, fmt.Errorf("invalid in-use flag %q", flag.Value)
}
