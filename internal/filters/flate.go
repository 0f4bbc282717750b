package filters

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
)

type flate struct{}

func (flate) Name() string { return "FlateDecode" }

// Decode inflates zlib data and undoes the predictor named in params.
// A stream cut short after some output still yields that output, since
// writers commonly drop the trailing checksum.
func (flate) Decode(data []byte, params Params) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}
	defer r.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		if !errors.Is(err, io.ErrUnexpectedEOF) || buf.Len() == 0 {
			return nil, fmt.Errorf("zlib decompression failed: %w", err)
		}
	}

	predictor := getIntParam(params, "Predictor", 1)
	if predictor == 1 {
		return buf.Bytes(), nil
	}
	out, err := unpredict(buf.Bytes(), predictor, params)
	if err != nil {
		return nil, fmt.Errorf("predictor failed: %w", err)
	}
	return out, nil
}

// Encode deflates data without a predictor.
func (flate) Encode(data []byte, _ Params) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type rowLayout struct {
	colors   int
	bpc      int
	columns  int
	bytesPP  int
	rowBytes int
}

func layoutFrom(params Params) (rowLayout, error) {
	l := rowLayout{
		colors:  getIntParam(params, "Colors", 1),
		bpc:     getIntParam(params, "BitsPerComponent", 8),
		columns: getIntParam(params, "Columns", 1),
	}
	if l.colors < 1 || l.columns < 1 {
		return l, fmt.Errorf("invalid predictor layout: colors=%d columns=%d", l.colors, l.columns)
	}
	switch l.bpc {
	case 1, 2, 4, 8, 16:
	default:
		return l, fmt.Errorf("unsupported bits per component: %d", l.bpc)
	}
	l.rowBytes = (l.colors*l.bpc*l.columns + 7) / 8
	l.bytesPP = (l.colors*l.bpc + 7) / 8
	return l, nil
}

func unpredict(data []byte, predictor int, params Params) ([]byte, error) {
	l, err := layoutFrom(params)
	if err != nil {
		return nil, err
	}
	switch {
	case predictor == 2:
		return unpredictTIFF(data, l)
	case predictor >= 10 && predictor <= 15:
		return unpredictPNG(data, l)
	}
	return nil, fmt.Errorf("unsupported predictor: %d", predictor)
}

// unpredictTIFF reverses TIFF predictor 2 for 8-bit samples.
func unpredictTIFF(data []byte, l rowLayout) ([]byte, error) {
	if l.bpc != 8 {
		return nil, fmt.Errorf("TIFF predictor 2 only supports 8 bits per component, got %d", l.bpc)
	}
	if len(data)%l.rowBytes != 0 {
		return nil, fmt.Errorf("data size %d is not a multiple of row size %d", len(data), l.rowBytes)
	}
	out := make([]byte, len(data))
	copy(out, data)
	for start := 0; start < len(out); start += l.rowBytes {
		row := out[start : start+l.rowBytes]
		for i := l.colors; i < len(row); i++ {
			row[i] += row[i-l.colors]
		}
	}
	return out, nil
}

// unpredictPNG reverses PNG row filters. Every row starts with its own
// filter type byte; a short final row is tolerated.
func unpredictPNG(data []byte, l rowLayout) ([]byte, error) {
	stride := l.rowBytes + 1
	out := make([]byte, 0, len(data)/stride*l.rowBytes)
	prev := make([]byte, l.rowBytes)
	cur := make([]byte, l.rowBytes)

	for start := 0; start < len(data); start += stride {
		end := start + stride
		if end > len(data) {
			end = len(data)
		}
		ft := data[start]
		row := data[start+1 : end]
		for i := range cur {
			cur[i] = 0
		}
		copy(cur, row)

		for i := 0; i < len(row); i++ {
			var left, upLeft byte
			if i >= l.bytesPP {
				left = cur[i-l.bytesPP]
				upLeft = prev[i-l.bytesPP]
			}
			up := prev[i]
			switch ft {
			case 0:
			case 1:
				cur[i] += left
			case 2:
				cur[i] += up
			case 3:
				cur[i] += byte((int(left) + int(up)) / 2)
			case 4:
				cur[i] += paeth(left, up, upLeft)
			default:
				return nil, fmt.Errorf("unknown PNG filter type %d in row %d", ft, start/stride)
			}
		}
		out = append(out, cur[:len(row)]...)
		prev, cur = cur, prev
	}
	return out, nil
}

// paeth picks whichever of left, above, upper-left is closest to a+b-c.
func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := abs(p-int(a)), abs(p-int(b)), abs(p-int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
