package filters

import (
	"bytes"
	"io"

	"golang.org/x/image/ccitt"
)

type ccittFax struct{}

func (ccittFax) Name() string { return "CCITTFaxDecode" }

// Decode expands Group 3 or Group 4 fax data. K < 0 selects Group 4,
// Rows 0 lets the decoder find the height, and BlackIs1 inverts the output.
func (ccittFax) Decode(data []byte, params Params) ([]byte, error) {
	sf := ccitt.Group3
	if getIntParam(params, "K", 0) < 0 {
		sf = ccitt.Group4
	}
	rows := getIntParam(params, "Rows", 0)
	if rows == 0 {
		rows = ccitt.AutoDetectHeight
	}
	opts := &ccitt.Options{Invert: getBoolParam(params, "BlackIs1", false)}
	r := ccitt.NewReader(bytes.NewReader(data), ccitt.MSB, sf,
		getIntParam(params, "Columns", 1728), rows, opts)
	return io.ReadAll(r)
}
