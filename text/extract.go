package text

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tsawler/pdfdoc/contentstream"
	"github.com/tsawler/pdfdoc/core"
	"github.com/tsawler/pdfdoc/font"
	"github.com/tsawler/pdfdoc/logger"
)

// ErrMissingOperand is returned when an operator lacks an operand it needs
var ErrMissingOperand = errors.New("missing operand")

// wordGap is the TJ adjustment, in thousandths of a unit of text space, at
// or beyond which extraction inserts a space.
const wordGap = -100

// Encodings maps font resource names (without the slash) to the encoding
// used for text shown in that font.
type Encodings map[string]font.Encoding

// Chunk is one extraction result: either text or the error that replaced it.
type Chunk struct {
	Text string
	Err  error
}

// extractor holds the state of one pass over a page
type extractor struct {
	encodings Encodings
	current   font.Encoding
	text      strings.Builder
	chunks    []Chunk
	warnings  []core.Warning
}

// ExtractChunks walks ops and returns the text shown in them, one chunk per
// run of text under a single encoding. Decode failures become error chunks
// in program order. Only a Tf without operands is an error for the page.
func ExtractChunks(ops []contentstream.Operation, encodings Encodings) ([]Chunk, []core.Warning, error) {
	e := &extractor{encodings: encodings}
	for i, op := range ops {
		if err := e.process(op); err != nil {
			return nil, e.warnings, fmt.Errorf("operation %d (%s): %w", i, op.Operator, err)
		}
	}
	e.flush()
	return e.chunks, e.warnings, nil
}

// Concat joins the text of successful chunks and returns the first error.
func Concat(chunks []Chunk) (string, error) {
	var sb strings.Builder
	var firstErr error
	for _, c := range chunks {
		if c.Err != nil {
			if firstErr == nil {
				firstErr = c.Err
			}
			continue
		}
		sb.WriteString(c.Text)
	}
	return sb.String(), firstErr
}

func (e *extractor) process(op contentstream.Operation) error {
	switch op.Operator {
	case "Tf":
		if len(op.Operands) == 0 {
			return fmt.Errorf("%w: font name", ErrMissingOperand)
		}
		e.flush()
		name, err := core.AsName(op.Operands[0])
		if err != nil {
			e.chunks = append(e.chunks, Chunk{Err: fmt.Errorf("Tf font operand: %w", err)})
			e.current = nil
			return nil
		}
		e.current = e.encodings[name]
	case "Tj", "TJ":
		e.show(op.Operator, op.Operands)
	case "'", "\"":
		// both move to the next line before showing
		if e.text.Len() > 0 && !strings.HasSuffix(e.text.String(), "\n") {
			e.text.WriteByte('\n')
		}
		e.show(op.Operator, shownOperands(op))
	case "ET":
		if !strings.HasSuffix(e.text.String(), "\n") {
			e.text.WriteByte('\n')
		}
	}
	return nil
}

func (e *extractor) show(operator string, operands []core.Object) {
	if e.current == nil {
		w := core.Warnf("text", "%s: no usable font encoding, text dropped", operator)
		logger.Warn("text extraction: " + w.Message)
		e.warnings = append(e.warnings, w)
		return
	}
	if err := collectText(&e.text, e.current, operands); err != nil {
		e.chunks = append(e.chunks, Chunk{Err: fmt.Errorf("%s: %w", operator, err)})
	}
}

func (e *extractor) flush() {
	if e.text.Len() == 0 {
		return
	}
	e.chunks = append(e.chunks, Chunk{Text: e.text.String()})
	e.text.Reset()
}

// collectText decodes the strings in operands into sb. Nested arrays are
// followed by a space, and so is a large negative adjustment.
func collectText(sb *strings.Builder, enc font.Encoding, operands []core.Object) error {
	for _, operand := range operands {
		switch v := operand.(type) {
		case core.String:
			s, err := enc.Decode(v.Value)
			if err != nil {
				return err
			}
			sb.WriteString(s)
		case core.Array:
			if err := collectText(sb, enc, v); err != nil {
				return err
			}
			sb.WriteByte(' ')
		case core.Int:
			if v <= wordGap {
				sb.WriteByte(' ')
			}
		case core.Real:
			if v <= wordGap {
				sb.WriteByte(' ')
			}
		}
	}
	return nil
}

// shownOperands drops the spacing operands of the " operator
func shownOperands(op contentstream.Operation) []core.Object {
	if op.Operator == "\"" && len(op.Operands) > 1 {
		return op.Operands[len(op.Operands)-1:]
	}
	return op.Operands
}
