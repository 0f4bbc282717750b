package filters

import "fmt"

// Params holds the decode parameters of one filter, converted from the
// stream's /DecodeParms to plain Go values.
type Params map[string]interface{}

// Filter decodes one stage of a stream's filter chain.
type Filter interface {
	Name() string
	Decode(data []byte, params Params) ([]byte, error)
}

// Encoder is implemented by filters that can also produce encoded data.
type Encoder interface {
	Encode(data []byte, params Params) ([]byte, error)
}

var registry = map[string]Filter{}

func register(f Filter, aliases ...string) {
	registry[f.Name()] = f
	for _, a := range aliases {
		registry[a] = f
	}
}

func init() {
	register(flate{}, "Fl")
	register(asciiHex{}, "AHx")
	register(ascii85Filter{}, "A85")
	register(ccittFax{}, "CCF")
}

// Lookup returns the filter registered under name.
func Lookup(name string) (Filter, bool) {
	f, ok := registry[name]
	return f, ok
}

// Decode applies the named filter.
func Decode(name string, data []byte, params Params) ([]byte, error) {
	f, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("no decoder for filter %s", name)
	}
	return f.Decode(data, params)
}

// Encode applies the encoding direction of the named filter.
func Encode(name string, data []byte, params Params) ([]byte, error) {
	f, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("no encoder for filter %s", name)
	}
	enc, ok := f.(Encoder)
	if !ok {
		return nil, fmt.Errorf("filter %s cannot encode", name)
	}
	return enc.Encode(data, params)
}

// getIntParam returns params[key] as an int, or defaultValue.
func getIntParam(params Params, key string, defaultValue int) int {
	switch v := params[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return defaultValue
}

// getBoolParam returns params[key] as a bool, or defaultValue.
func getBoolParam(params Params, key string, defaultValue bool) bool {
	if v, ok := params[key].(bool); ok {
		return v
	}
	return defaultValue
}
