package text

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tsawler/pdfdoc/contentstream"
	"github.com/tsawler/pdfdoc/core"
	"github.com/tsawler/pdfdoc/font"
	"github.com/tsawler/pdfdoc/logger"
)

// ErrEmptySearch is returned when asked to replace the empty string
var ErrEmptySearch = errors.New("search text is empty")

// DefaultFallbackChar stands in for characters a font cannot encode during
// partial replacement.
const DefaultFallbackChar = "?"

// fontTracker follows Tf through a program for the substitution engines.
type fontTracker struct {
	encodings Encodings
	current   font.Encoding
	warnings  []core.Warning
}

// apply handles one operation and reports whether it shows text that can
// be rewritten with the current encoding.
func (t *fontTracker) apply(op contentstream.Operation) (bool, error) {
	switch op.Operator {
	case "Tf":
		if len(op.Operands) == 0 {
			return false, fmt.Errorf("Tf: %w: font name", ErrMissingOperand)
		}
		name, err := core.AsName(op.Operands[0])
		if err != nil {
			return false, fmt.Errorf("Tf font operand: %w", err)
		}
		t.current = t.encodings[name]
		return false, nil
	case "Tj", "TJ", "'", "\"":
		if t.current == nil {
			w := core.Warnf("text", "%s: no usable font encoding, occurrences under this font are not replaced", op.Operator)
			logger.Warn("text replacement: " + w.Message)
			t.warnings = append(t.warnings, w)
			return false, nil
		}
		return true, nil
	}
	return false, nil
}

// ReplaceExact rewrites, in place, every shown string whose decoded text is
// exactly search, and every kerned array whose combined text is exactly
// search. Characters the font cannot encode are replaced by the encoding of
// fallback.
//
// A matching array keeps its adjustments. Its string slots receive one
// replacement character each, in order; the slot at the position of the
// last search character takes the rest of the replacement and ends the
// walk, and slots past the end of the replacement become null.
func ReplaceExact(ops []contentstream.Operation, encodings Encodings, search, replacement, fallback string) ([]core.Warning, error) {
	if search == "" {
		return nil, ErrEmptySearch
	}
	t := &fontTracker{encodings: encodings}
	for i := range ops {
		ok, err := t.apply(ops[i])
		if err != nil {
			return t.warnings, fmt.Errorf("operation %d: %w", i, err)
		}
		if !ok {
			continue
		}
		if err := replaceExactOperands(ops[i].Operands, t.current, search, replacement, fallback); err != nil {
			return t.warnings, fmt.Errorf("operation %d (%s): %w", i, ops[i].Operator, err)
		}
	}
	return t.warnings, nil
}

func replaceExactOperands(operands []core.Object, enc font.Encoding, search, replacement, fallback string) error {
	for i, operand := range operands {
		switch v := operand.(type) {
		case core.String:
			decoded, err := enc.Decode(v.Value)
			if err != nil {
				return err
			}
			if decoded == search {
				operands[i] = core.String{Value: encodeRunes(enc, replacement, fallback), Format: v.Format}
			}
		case core.Array:
			var sb strings.Builder
			if err := collectText(&sb, enc, v); err != nil {
				return err
			}
			if sb.String() == search {
				redistribute(v, enc, utf8.RuneCountInString(search), []rune(replacement), fallback)
			}
		}
	}
	return nil
}

// redistribute spreads replacement over the string slots of arr.
func redistribute(arr core.Array, enc font.Encoding, searchLen int, replacement []rune, fallback string) {
	cur := 0
	for i, item := range arr {
		s, ok := item.(core.String)
		if !ok {
			continue
		}
		switch {
		case cur == searchLen-1:
			suffix := ""
			if cur < len(replacement) {
				suffix = string(replacement[cur:])
			}
			arr[i] = core.String{Value: encodeRunes(enc, suffix, fallback), Format: s.Format}
			return
		case cur >= len(replacement):
			arr[i] = core.Null{}
		default:
			arr[i] = core.String{Value: encodeRunes(enc, string(replacement[cur]), fallback), Format: s.Format}
		}
		cur++
	}
}

// ReplacePartial replaces every occurrence of search inside shown strings,
// including each string of a kerned array on its own, and returns the
// number of occurrences replaced. A rewritten string is encoded whole when
// possible, otherwise character by character with fallbackChar standing in
// for what the font cannot encode.
//
// The rewritten string is built from the decoded text, so codes the font's
// encoding does not map (a control byte under WinAnsi, say) are lost from
// any string that contains a match.
func ReplacePartial(ops []contentstream.Operation, encodings Encodings, search, replacement, fallbackChar string) (int, []core.Warning, error) {
	if search == "" {
		return 0, nil, ErrEmptySearch
	}
	t := &fontTracker{encodings: encodings}
	count := 0
	for i := range ops {
		ok, err := t.apply(ops[i])
		if err != nil {
			return count, t.warnings, fmt.Errorf("operation %d: %w", i, err)
		}
		if !ok {
			continue
		}
		for j, operand := range ops[i].Operands {
			switch v := operand.(type) {
			case core.String:
				n, err := replacePartialString(&v, t.current, search, replacement, fallbackChar)
				if err != nil {
					return count, t.warnings, fmt.Errorf("operation %d (%s): %w", i, ops[i].Operator, err)
				}
				ops[i].Operands[j] = v
				count += n
			case core.Array:
				for k, item := range v {
					s, ok := item.(core.String)
					if !ok {
						continue
					}
					n, err := replacePartialString(&s, t.current, search, replacement, fallbackChar)
					if err != nil {
						return count, t.warnings, fmt.Errorf("operation %d (%s): %w", i, ops[i].Operator, err)
					}
					v[k] = s
					count += n
				}
			}
		}
	}
	return count, t.warnings, nil
}

func replacePartialString(s *core.String, enc font.Encoding, search, replacement, fallbackChar string) (int, error) {
	decoded, err := enc.Decode(s.Value)
	if err != nil {
		return 0, err
	}
	n := strings.Count(decoded, search)
	if n == 0 {
		return 0, nil
	}
	updated := strings.ReplaceAll(decoded, search, replacement)
	encoded := enc.Encode(updated)
	if encoded == nil {
		encoded = encodeRunes(enc, updated, fallbackChar)
	}
	s.Value = encoded
	return n, nil
}

// encodeRunes encodes text one character at a time, using the encoding of
// fallback for characters enc cannot represent.
func encodeRunes(enc font.Encoding, text, fallback string) []byte {
	out := []byte{}
	for _, r := range text {
		b := enc.Encode(string(r))
		if len(b) == 0 {
			b = enc.Encode(fallback)
		}
		out = append(out, b...)
	}
	return out
}
