package monochrome

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrMaskEncoding is returned when a mask can't be decoded as an image.
var ErrMaskEncoding = errors.New("unreadable mask encoding")

// Encode writes the mask as a 1 bit PNG.
func Encode(w io.Writer, m *Image) error {
	return png.Encode(w, m)
}

// Decode reads a mask from any supported image format (PNG, JPEG, GIF, BMP, TIFF, WebP).
func Decode(r io.Reader) (*Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMaskEncoding, err)
	}

	return From(img), nil
}

// EncodeBase64 returns the base64 encoded PNG of the mask, without a data URI prefix.
func EncodeBase64(m *Image) (string, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, m); err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeBase64 decodes a base64 encoded mask image.
// A data URI of the form "data:image/png;base64,..." is accepted too.
func DecodeBase64(s string) (*Image, error) {
	if strings.HasPrefix(s, "data:") {
		_, data, ok := strings.Cut(s, ",")
		if !ok {
			return nil, fmt.Errorf("%w: data URI without payload", ErrMaskEncoding)
		}
		s = data
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMaskEncoding, err)
	}

	return Decode(bytes.NewReader(raw))
}
