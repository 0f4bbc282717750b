package contentstream

import (
	"bytes"
	"fmt"

	"github.com/tsawler/pdfdoc/core"
)

// Content is a decoded page program.
type Content struct {
	Operations []Operation
}

// Decode parses content stream bytes. Any syntax error is reported as
// ErrInvalidContent.
func Decode(data []byte) (*Content, error) {
	ops, err := NewParser(data).Parse()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidContent, err)
	}
	return &Content{Operations: ops}, nil
}

// Encode serializes the operations, one per line.
func (c *Content) Encode() ([]byte, error) {
	var buf bytes.Buffer
	for i, op := range c.Operations {
		if err := writeOperation(&buf, op); err != nil {
			return nil, fmt.Errorf("operation %d (%s): %w", i, op.Operator, err)
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// Append adds operations at the end of the program.
func (c *Content) Append(ops ...Operation) {
	c.Operations = append(c.Operations, ops...)
}

// Prepend adds operations at the start of the program.
func (c *Content) Prepend(ops ...Operation) {
	c.Operations = append(append([]Operation{}, ops...), c.Operations...)
}

func writeOperation(buf *bytes.Buffer, op Operation) error {
	if op.Operator == "BI" {
		return writeInlineImage(buf, op)
	}
	for _, operand := range op.Operands {
		if err := checkOperand(operand); err != nil {
			return err
		}
		if err := core.WriteObject(buf, operand); err != nil {
			return err
		}
		buf.WriteByte(' ')
	}
	buf.WriteString(op.Operator)
	return nil
}

// checkOperand rejects values that have no content stream syntax.
func checkOperand(obj core.Object) error {
	switch v := obj.(type) {
	case *core.Stream:
		return fmt.Errorf("stream operand not allowed")
	case core.IndirectRef:
		return fmt.Errorf("reference operand %s not allowed", v)
	case core.Array:
		for _, item := range v {
			if err := checkOperand(item); err != nil {
				return err
			}
		}
	case core.Dict:
		for _, item := range v {
			if err := checkOperand(item); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeInlineImage(buf *bytes.Buffer, op Operation) error {
	if len(op.Operands) != 2 {
		return fmt.Errorf("inline image needs a dictionary and data, got %d operands", len(op.Operands))
	}
	dict, err := core.AsDict(op.Operands[0])
	if err != nil {
		return err
	}
	data, err := core.AsString(op.Operands[1])
	if err != nil {
		return err
	}
	buf.WriteString("BI")
	for _, key := range dict.Keys() {
		buf.WriteByte(' ')
		core.WriteObject(buf, core.Name(key))
		buf.WriteByte(' ')
		if err := core.WriteObject(buf, dict[key]); err != nil {
			return err
		}
	}
	buf.WriteString(" ID ")
	buf.Write(data)
	buf.WriteString("\nEI")
	return nil
}
