package core

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// WriteObject appends the PDF syntax for obj to buf. The output parses back
// to an equal object. Streams are written with their dictionary followed by
// the stream/endstream block.
func WriteObject(buf *bytes.Buffer, obj Object) error {
	switch v := obj.(type) {
	case nil, Null:
		buf.WriteString("null")
	case Bool:
		buf.WriteString(v.String())
	case Int:
		buf.WriteString(strconv.FormatInt(int64(v), 10))
	case Real:
		buf.WriteString(formatReal(float64(v)))
	case String:
		writeString(buf, v)
	case Name:
		writeName(buf, string(v))
	case Array:
		buf.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				buf.WriteByte(' ')
			}
			if err := WriteObject(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case Dict:
		return writeDict(buf, v)
	case *Stream:
		if err := writeDict(buf, v.Dict); err != nil {
			return err
		}
		buf.WriteString("\nstream\n")
		buf.Write(v.Data)
		buf.WriteString("\nendstream")
	case IndirectRef:
		fmt.Fprintf(buf, "%d %d R", v.Number, v.Generation)
	default:
		return fmt.Errorf("cannot serialize %T", obj)
	}
	return nil
}

func writeDict(buf *bytes.Buffer, d Dict) error {
	buf.WriteString("<<")
	for _, key := range d.Keys() {
		writeName(buf, key)
		buf.WriteByte(' ')
		if err := WriteObject(buf, d[key]); err != nil {
			return fmt.Errorf("key %s: %w", key, err)
		}
	}
	buf.WriteString(">>")
	return nil
}

// formatReal always keeps a decimal point so the value reads back as Real.
func formatReal(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func writeString(buf *bytes.Buffer, s String) {
	if s.Format == Hexadecimal {
		const hexDigits = "0123456789ABCDEF"
		buf.WriteByte('<')
		for _, b := range s.Value {
			buf.WriteByte(hexDigits[b>>4])
			buf.WriteByte(hexDigits[b&0x0f])
		}
		buf.WriteByte('>')
		return
	}
	buf.WriteByte('(')
	for _, b := range s.Value {
		switch b {
		case '(', ')', '\\':
			buf.WriteByte('\\')
			buf.WriteByte(b)
		case '\r':
			buf.WriteString(`\r`)
		case '\n':
			buf.WriteString(`\n`)
		default:
			buf.WriteByte(b)
		}
	}
	buf.WriteByte(')')
}

func writeName(buf *bytes.Buffer, name string) {
	buf.WriteByte('/')
	for i := 0; i < len(name); i++ {
		b := name[i]
		if b < '!' || b > '~' || b == '#' || isDelimiter(b) {
			fmt.Fprintf(buf, "#%02X", b)
			continue
		}
		buf.WriteByte(b)
	}
}
