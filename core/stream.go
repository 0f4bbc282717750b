package core

import (
	"fmt"

	"github.com/tsawler/pdfdoc/internal/filters"
)

// IsCompressed reports whether the stream still carries a /Filter.
func (s *Stream) IsCompressed() bool {
	return s.Dict.Has("Filter")
}

// SetContent replaces the stream data and keeps /Length in step.
func (s *Stream) SetContent(data []byte) {
	s.Data = data
	s.Dict.Set("Length", Int(len(data)))
}

// Decode returns the data with the stream's filter chain applied. The stream
// itself is left untouched.
func (s *Stream) Decode() ([]byte, error) {
	names, params, err := s.filterChain()
	if err != nil {
		return nil, err
	}
	data := s.Data
	for i, name := range names {
		f, ok := filters.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFilter, name)
		}
		data, err = f.Decode(data, params[i])
		if err != nil {
			return nil, fmt.Errorf("filter %d (%s) failed: %w", i, name, err)
		}
	}
	return data, nil
}

// Decompress decodes the data in place and removes /Filter and /DecodeParms.
func (s *Stream) Decompress() error {
	if !s.IsCompressed() {
		return nil
	}
	data, err := s.Decode()
	if err != nil {
		return err
	}
	s.Dict.Delete("Filter", "DecodeParms")
	s.SetContent(data)
	return nil
}

// Compress flate-encodes an unfiltered stream in place. Streams that
// already carry a filter are left alone.
func (s *Stream) Compress() error {
	if s.IsCompressed() {
		return nil
	}
	data, err := filters.Encode("FlateDecode", s.Data, nil)
	if err != nil {
		return fmt.Errorf("compress stream: %w", err)
	}
	s.Dict.Set("Filter", Name("FlateDecode"))
	s.SetContent(data)
	return nil
}

// filterChain normalizes /Filter and /DecodeParms into parallel slices.
func (s *Stream) filterChain() ([]string, []filters.Params, error) {
	var names []string
	switch f := s.Dict.Get("Filter").(type) {
	case nil:
		return nil, nil, nil
	case Name:
		names = []string{string(f)}
	case Array:
		for i, item := range f {
			n, ok := item.(Name)
			if !ok {
				return nil, nil, fmt.Errorf("filter %d is not a name: %s", i, item.Type())
			}
			names = append(names, string(n))
		}
	default:
		return nil, nil, fmt.Errorf("invalid Filter type: %s", f.Type())
	}

	params := make([]filters.Params, len(names))
	switch p := s.Dict.Get("DecodeParms").(type) {
	case Dict:
		params[0] = dictToParams(p)
	case Array:
		for i := range names {
			if d, ok := p.Get(i).(Dict); ok {
				params[i] = dictToParams(d)
			}
		}
	}
	return names, params, nil
}

// dictToParams converts PDF values to the plain Go values filters expect.
func dictToParams(dict Dict) filters.Params {
	params := make(filters.Params, len(dict))
	for k, v := range dict {
		switch obj := v.(type) {
		case Int:
			params[k] = int(obj)
		case Real:
			params[k] = float64(obj)
		case Bool:
			params[k] = bool(obj)
		case Name:
			params[k] = string(obj)
		case String:
			params[k] = string(obj.Value)
		}
	}
	return params
}
