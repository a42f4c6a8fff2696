// Package imaging prepares uploaded pictures for storage: it downscales them
// to a bounded size and embeds them as data URIs so persisted gallery items
// never point at transient files.
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

const jpegQuality = 85

// Optimize decodes the image, scales it down so its longest side does not
// exceed maxDimension and re-encodes it. PNG input stays PNG to keep
// transparency; everything else becomes JPEG. It returns the encoded bytes
// and their content type.
func Optimize(r io.Reader, maxDimension int) ([]byte, string, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}

	scaled := scaleDown(src, maxDimension)

	var buf bytes.Buffer
	contentType := "image/jpeg"
	if format == "png" {
		contentType = "image/png"
		err = png.Encode(&buf, scaled)
	} else {
		err = jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return nil, "", fmt.Errorf("encode image: %w", err)
	}

	return buf.Bytes(), contentType, nil
}

// DataURL wraps encoded image bytes in a data URI.
func DataURL(data []byte, contentType string) string {
	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data))
}

// EncodeToDataURL optimizes the image and returns it as a data URI, the
// durable form gallery items are persisted with.
func EncodeToDataURL(r io.Reader, maxDimension int) (string, error) {
	data, contentType, err := Optimize(r, maxDimension)
	if err != nil {
		return "", err
	}
	return DataURL(data, contentType), nil
}

func scaleDown(src image.Image, maxDimension int) image.Image {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if maxDimension <= 0 || (width <= maxDimension && height <= maxDimension) {
		return src
	}

	if width >= height {
		height = height * maxDimension / width
		width = maxDimension
	} else {
		width = width * maxDimension / height
		height = maxDimension
	}
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}
