package core

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// ReferenceResolver resolves indirect references. The parser uses it for
// stream lengths written as "n g R".
type ReferenceResolver interface {
	ResolveReference(ref IndirectRef) (Object, error)
}

// Parser parses PDF objects from an in-memory buffer.
type Parser struct {
	lexer    *Lexer
	resolver ReferenceResolver
}

// NewParser creates a parser reading data from offset.
func NewParser(data []byte, offset int) *Parser {
	return &Parser{lexer: NewLexer(data, offset)}
}

// SetReferenceResolver sets the resolver used for indirect stream lengths.
func (p *Parser) SetReferenceResolver(resolver ReferenceResolver) {
	p.resolver = resolver
}

// Pos returns the offset just after the last consumed token.
func (p *Parser) Pos() int { return p.lexer.Pos() }

// ParseObjectAt parses one direct object starting at offset.
func ParseObjectAt(data []byte, offset int) (Object, error) {
	if offset < 0 || offset >= len(data) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOffset, offset)
	}
	return NewParser(data, offset).ParseObject()
}

// ParseIndirectObjectAt parses "n g obj ... endobj" starting at offset.
// resolver may be nil when no stream uses an indirect /Length.
func ParseIndirectObjectAt(data []byte, offset int, resolver ReferenceResolver) (*IndirectObject, error) {
	if offset < 0 || offset >= len(data) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOffset, offset)
	}
	p := NewParser(data, offset)
	p.SetReferenceResolver(resolver)
	return p.ParseIndirectObject()
}

// next returns the next non-comment token
func (p *Parser) next() (*Token, error) {
	for {
		tok, err := p.lexer.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Type != TokenComment {
			return tok, nil
		}
	}
}

// ParseObject parses the next object: null, boolean, number, string, name,
// array, dictionary or indirect reference.
func (p *Parser) ParseObject() (Object, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	return p.parseFrom(tok)
}

func (p *Parser) parseFrom(tok *Token) (Object, error) {
	switch tok.Type {
	case TokenEOF:
		return nil, io.EOF
	case TokenKeyword:
		switch string(tok.Value) {
		case "null":
			return Null{}, nil
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		}
		return nil, fmt.Errorf("unexpected keyword %q at position %d", tok.Value, tok.Pos)
	case TokenInteger:
		return p.parseNumber(tok)
	case TokenReal:
		val, err := strconv.ParseFloat(string(tok.Value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid real number %q: %w", tok.Value, err)
		}
		return Real(val), nil
	case TokenString:
		return String{Value: tok.Value, Format: Literal}, nil
	case TokenHexString:
		return String{Value: tok.Value, Format: Hexadecimal}, nil
	case TokenName:
		return Name(tok.Value), nil
	case TokenArrayStart:
		return p.parseArray()
	case TokenDictStart:
		return p.parseDict()
	}
	return nil, fmt.Errorf("unexpected token %q at position %d", tok.Value, tok.Pos)
}

// parseNumber parses an integer or an indirect reference "num gen R".
func (p *Parser) parseNumber(tok *Token) (Object, error) {
	first, err := strconv.ParseInt(string(tok.Value), 10, 64)
	if err != nil {
		// "+.5" style or out of range integers
		f, ferr := strconv.ParseFloat(string(tok.Value), 64)
		if ferr != nil {
			return nil, fmt.Errorf("invalid number %q", tok.Value)
		}
		return Real(f), nil
	}

	mark := p.lexer.Pos()
	if ref, ok := p.tryReference(first); ok {
		return ref, nil
	}
	p.lexer.Seek(mark)
	return Int(first), nil
}

func (p *Parser) tryReference(num int64) (IndirectRef, bool) {
	if num < 0 || num > int64(^uint32(0)) {
		return IndirectRef{}, false
	}
	gen, err := p.lexer.NextToken()
	if err != nil || gen.Type != TokenInteger {
		return IndirectRef{}, false
	}
	g, err := strconv.ParseUint(string(gen.Value), 10, 16)
	if err != nil {
		return IndirectRef{}, false
	}
	r, err := p.lexer.NextToken()
	if err != nil || r.Type != TokenIndirectRef {
		return IndirectRef{}, false
	}
	return IndirectRef{Number: uint32(num), Generation: uint16(g)}, true
}

// parseArray parses the remainder of "[obj1 obj2 ...]".
func (p *Parser) parseArray() (Object, error) {
	arr := Array{}
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case TokenArrayEnd:
			return arr, nil
		case TokenEOF:
			return nil, fmt.Errorf("unexpected EOF in array")
		}
		obj, err := p.parseFrom(tok)
		if err != nil {
			return nil, fmt.Errorf("error parsing array element: %w", err)
		}
		arr = append(arr, obj)
	}
}

// parseDict parses the remainder of "<< /Key value ... >>".
func (p *Parser) parseDict() (Object, error) {
	dict := make(Dict)
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case TokenDictEnd:
			return dict, nil
		case TokenEOF:
			return nil, fmt.Errorf("unexpected EOF in dictionary")
		case TokenName:
		default:
			return nil, fmt.Errorf("expected name for dictionary key at position %d, got %q", tok.Pos, tok.Value)
		}
		key := string(tok.Value)
		value, err := p.ParseObject()
		if err != nil {
			return nil, fmt.Errorf("error parsing dictionary value for key '%s': %w", key, err)
		}
		// a null value is equivalent to an absent key
		if _, isNull := value.(Null); isNull {
			continue
		}
		dict[key] = value
	}
}

// ParseIndirectObject parses "num gen obj <object> endobj", including
// stream objects.
func (p *Parser) ParseIndirectObject() (*IndirectObject, error) {
	num, err := p.expectUint("object number", 32)
	if err != nil {
		return nil, err
	}
	gen, err := p.expectUint("generation number", 16)
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("obj"); err != nil {
		return nil, err
	}

	obj, err := p.ParseObject()
	if err != nil {
		return nil, fmt.Errorf("error parsing indirect object value: %w", err)
	}

	mark := p.lexer.Pos()
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	if tok.Type == TokenKeyword && string(tok.Value) == "stream" {
		dict, ok := obj.(Dict)
		if !ok {
			return nil, fmt.Errorf("stream must follow a dictionary")
		}
		stream, err := p.parseStream(dict)
		if err != nil {
			return nil, fmt.Errorf("error parsing stream: %w", err)
		}
		obj = stream
		mark = p.lexer.Pos()
		tok, err = p.next()
		if err != nil {
			return nil, err
		}
	}
	// a missing endobj is tolerated, as many writers omit it
	if tok.Type != TokenKeyword || string(tok.Value) != "endobj" {
		p.lexer.Seek(mark)
	}

	return &IndirectObject{
		ID:     ObjectID{Number: uint32(num), Generation: uint16(gen)},
		Object: obj,
	}, nil
}

func (p *Parser) expectUint(what string, bits int) (uint64, error) {
	tok, err := p.next()
	if err != nil {
		return 0, err
	}
	if tok.Type != TokenInteger {
		return 0, fmt.Errorf("expected %s at position %d, got %q", what, tok.Pos, tok.Value)
	}
	v, err := strconv.ParseUint(string(tok.Value), 10, bits)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", what, err)
	}
	return v, nil
}

func (p *Parser) expectKeyword(kw string) error {
	tok, err := p.next()
	if err != nil {
		return err
	}
	if tok.Type != TokenKeyword || string(tok.Value) != kw {
		return fmt.Errorf("expected '%s' keyword at position %d, got %q", kw, tok.Pos, tok.Value)
	}
	return nil
}

var errBadLength = errors.New("stream length does not reach endstream")

// parseStream reads the data following the "stream" keyword. When /Length
// is missing or wrong the data is delimited by the next "endstream".
func (p *Parser) parseStream(dict Dict) (*Stream, error) {
	p.lexer.SkipStreamEOL()
	start := p.lexer.Pos()

	length, err := p.streamLength(dict)
	if err == nil {
		data, rerr := p.lexer.ReadBytes(length)
		if rerr == nil {
			if p.expectKeyword("endstream") == nil {
				return &Stream{Dict: dict, Data: data}, nil
			}
		}
		err = errBadLength
	}

	p.lexer.Seek(start)
	end := p.lexer.IndexFrom([]byte("endstream"))
	if end < 0 {
		return nil, fmt.Errorf("missing endstream: %w", err)
	}
	data := p.lexer.data[start:end]
	data = bytes.TrimSuffix(data, []byte("\n"))
	data = bytes.TrimSuffix(data, []byte("\r"))
	p.lexer.Seek(end + len("endstream"))
	dict["Length"] = Int(len(data))
	return &Stream{Dict: dict, Data: data}, nil
}

func (p *Parser) streamLength(dict Dict) (int, error) {
	switch v := dict.Get("Length").(type) {
	case Int:
		if v < 0 {
			return 0, fmt.Errorf("invalid stream length: %d", v)
		}
		return int(v), nil
	case IndirectRef:
		if p.resolver == nil {
			return 0, fmt.Errorf("indirect stream length %s without a resolver", v)
		}
		resolved, err := p.resolver.ResolveReference(v)
		if err != nil {
			return 0, fmt.Errorf("failed to resolve stream length reference: %w", err)
		}
		n, err := AsInt(resolved)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid indirect stream length %s", v)
		}
		return int(n), nil
	case nil:
		return 0, fmt.Errorf("stream dictionary missing 'Length' entry")
	default:
		return 0, fmt.Errorf("invalid type for stream length: %s", v.Type())
	}
}
