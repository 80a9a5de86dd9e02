package utils

import (
	"bytes"
	"errors"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/qr"
)

var ErrEmptyBarcode = errors.New("nothing to encode")

// BarcodePNG renders content as a PNG label. format is "qr" or "code128" (default).
func BarcodePNG(content, format string) ([]byte, error) {
	if content == "" {
		return nil, ErrEmptyBarcode
	}

	var (
		code          barcode.Barcode
		err           error
		width, height int
	)
	switch format {
	case "qr":
		code, err = qr.Encode(content, qr.M, qr.Auto)
		width, height = 256, 256
	default:
		code, err = code128.Encode(content)
		width, height = 400, 120
	}
	if err != nil {
		return nil, err
	}

	code, err = barcode.Scale(code, width, height)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, code); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
