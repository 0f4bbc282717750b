package contentstream

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/tsawler/pdfdoc/core"
)

// ErrInvalidContent is wrapped by every content decoding error.
var ErrInvalidContent = errors.New("invalid content stream")

// Operation is one operator together with the operands preceding it.
type Operation struct {
	Operator string
	Operands []core.Object
}

// NewOperation creates an operation
func NewOperation(operator string, operands ...core.Object) Operation {
	if operands == nil {
		operands = []core.Object{}
	}
	return Operation{Operator: operator, Operands: operands}
}

// Parser tokenizes a content stream into operations. The operand stack
// belongs to the parser, so parsers are independent of each other.
type Parser struct {
	data     []byte
	lex      *core.Lexer
	operands []core.Object
}

// NewParser creates a new content stream parser for the given data.
func NewParser(data []byte) *Parser {
	return &Parser{data: data, lex: core.NewLexer(data, 0)}
}

// Parse returns all operations in order. Operands left over at the end of
// the data, with no operator to consume them, are discarded.
func (p *Parser) Parse() ([]Operation, error) {
	ops := []Operation{}
	for {
		tok, err := p.lex.NextToken()
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case core.TokenEOF:
			return ops, nil
		case core.TokenComment:
			continue
		case core.TokenKeyword, core.TokenIndirectRef:
			if obj, ok := keywordValue(tok.Value); ok {
				p.operands = append(p.operands, obj)
				continue
			}
			op := Operation{Operator: string(tok.Value), Operands: p.operands}
			if op.Operands == nil {
				op.Operands = []core.Object{}
			}
			p.operands = nil
			if op.Operator == "BI" {
				if op, err = p.parseInlineImage(tok.Pos); err != nil {
					return nil, err
				}
			}
			ops = append(ops, op)
		default:
			obj, err := p.parseValue(tok)
			if err != nil {
				return nil, err
			}
			p.operands = append(p.operands, obj)
		}
	}
}

func keywordValue(kw []byte) (core.Object, bool) {
	switch string(kw) {
	case "true":
		return core.Bool(true), true
	case "false":
		return core.Bool(false), true
	case "null":
		return core.Null{}, true
	}
	return nil, false
}

// parseValue converts tok, and for arrays and dictionaries the tokens
// after it, into an operand.
func (p *Parser) parseValue(tok *core.Token) (core.Object, error) {
	switch tok.Type {
	case core.TokenInteger:
		if v, err := strconv.ParseInt(string(tok.Value), 10, 64); err == nil {
			return core.Int(v), nil
		}
		fallthrough
	case core.TokenReal:
		v, err := strconv.ParseFloat(string(tok.Value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q at position %d", tok.Value, tok.Pos)
		}
		return core.Real(v), nil
	case core.TokenString:
		return core.String{Value: tok.Value, Format: core.Literal}, nil
	case core.TokenHexString:
		return core.String{Value: tok.Value, Format: core.Hexadecimal}, nil
	case core.TokenName:
		return core.Name(tok.Value), nil
	case core.TokenKeyword:
		if obj, ok := keywordValue(tok.Value); ok {
			return obj, nil
		}
	case core.TokenArrayStart:
		return p.parseArray()
	case core.TokenDictStart:
		return p.parseDict(core.TokenDictEnd)
	}
	return nil, fmt.Errorf("unexpected %q at position %d", tok.Value, tok.Pos)
}

func (p *Parser) nextToken() (*core.Token, error) {
	for {
		tok, err := p.lex.NextToken()
		if err != nil || tok.Type != core.TokenComment {
			return tok, err
		}
	}
}

func (p *Parser) parseArray() (core.Object, error) {
	arr := core.Array{}
	for {
		tok, err := p.nextToken()
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case core.TokenArrayEnd:
			return arr, nil
		case core.TokenEOF:
			return nil, fmt.Errorf("unclosed array")
		}
		obj, err := p.parseValue(tok)
		if err != nil {
			return nil, err
		}
		arr = append(arr, obj)
	}
}

// parseDict reads key/value pairs until a token of type end, or, for inline
// images, the ID keyword.
func (p *Parser) parseDict(end core.TokenType) (core.Dict, error) {
	dict := core.Dict{}
	for {
		tok, err := p.nextToken()
		if err != nil {
			return nil, err
		}
		if tok.Type == end && (end != core.TokenKeyword || string(tok.Value) == "ID") {
			return dict, nil
		}
		if tok.Type == core.TokenEOF {
			return nil, fmt.Errorf("unclosed dictionary")
		}
		if tok.Type != core.TokenName {
			return nil, fmt.Errorf("dictionary key must be a name at position %d", tok.Pos)
		}
		vtok, err := p.nextToken()
		if err != nil {
			return nil, err
		}
		value, err := p.parseValue(vtok)
		if err != nil {
			return nil, err
		}
		dict[string(tok.Value)] = value
	}
}

// parseInlineImage reads "BI <pairs> ID <data> EI". The data ends at the
// first EI that is preceded by whitespace and followed by whitespace or the
// end of the stream.
func (p *Parser) parseInlineImage(start int) (Operation, error) {
	dict, err := p.parseDict(core.TokenKeyword)
	if err != nil {
		return Operation{}, fmt.Errorf("inline image at %d: %w", start, err)
	}
	pos := p.lex.Pos()
	if pos < len(p.data) && isSpace(p.data[pos]) {
		pos++
	}
	for i := pos; ; {
		j := bytes.Index(p.data[i:], []byte("EI"))
		if j < 0 {
			return Operation{}, fmt.Errorf("inline image at %d: missing EI", start)
		}
		at := i + j
		after := at + 2
		if at > pos && isSpace(p.data[at-1]) && (after == len(p.data) || isSpace(p.data[after])) {
			p.lex.Seek(after)
			raw := p.data[pos : at-1]
			return NewOperation("BI", dict, core.String{Value: raw}), nil
		}
		i = at + 1
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}
