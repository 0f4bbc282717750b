package filters

import (
	"bytes"
	"encoding/ascii85"
	"encoding/hex"
	"fmt"
)

type asciiHex struct{}

func (asciiHex) Name() string { return "ASCIIHexDecode" }

// Decode reads hex digit pairs up to the '>' end marker, skipping
// whitespace. An odd final digit is treated as if followed by 0.
func (asciiHex) Decode(data []byte, _ Params) ([]byte, error) {
	digits := make([]byte, 0, len(data))
	for _, c := range data {
		if c == '>' {
			break
		}
		if isSpace(c) {
			continue
		}
		digits = append(digits, c)
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, len(digits)/2)
	if _, err := hex.Decode(out, digits); err != nil {
		return nil, fmt.Errorf("ASCIIHexDecode: %w", err)
	}
	return out, nil
}

func (asciiHex) Encode(data []byte, _ Params) ([]byte, error) {
	out := make([]byte, hex.EncodedLen(len(data))+1)
	hex.Encode(out, data)
	out[len(out)-1] = '>'
	return bytes.ToUpper(out), nil
}

type ascii85Filter struct{}

func (ascii85Filter) Name() string { return "ASCII85Decode" }

// Decode strips the optional <~ prefix and the ~> end marker before
// handing the payload to encoding/ascii85, which accepts 'z' groups.
func (ascii85Filter) Decode(data []byte, _ Params) ([]byte, error) {
	data = bytes.TrimSpace(data)
	data = bytes.TrimPrefix(data, []byte("<~"))
	if i := bytes.Index(data, []byte("~>")); i >= 0 {
		data = data[:i]
	}
	out := make([]byte, 4*len(data)+4)
	n, _, err := ascii85.Decode(out, data, true)
	if err != nil {
		return nil, fmt.Errorf("ASCII85Decode: %w", err)
	}
	return out[:n], nil
}

func (ascii85Filter) Encode(data []byte, _ Params) ([]byte, error) {
	out := make([]byte, ascii85.MaxEncodedLen(len(data)))
	n := ascii85.Encode(out, data)
	return append(out[:n], '~', '>'), nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == 0
}
