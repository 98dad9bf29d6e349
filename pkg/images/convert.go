package images

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	// Register the decoders the default converter understands.
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Converter turns an image of a declared type into JPEG bytes. It is an
// injected capability so the pipeline (validate, convert, upload) stays
// testable independent of any codec; HEIC in particular needs an
// external decoder the default converter does not carry.
type Converter interface {
	Convert(data []byte, declaredType string) ([]byte, error)
}

// jpegQuality matches the quality the site has always uploaded at.
const jpegQuality = 70

// StdConverter re-encodes anything Go's image registry can decode
// (png, gif, webp, bmp, tiff) to JPEG.
type StdConverter struct{}

func (StdConverter) Convert(data []byte, declaredType string) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", declaredType, err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("jpeg encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Normalize converts an upload towards JPEG. Already-JPEG bytes pass
// through untouched. When conversion succeeds the returned content type
// is forced to image/jpeg so downstream consumers can trust the
// extension. On ANY conversion failure the original bytes and declared
// type pass through unchanged: uploading an unconverted file beats
// blocking the user.
func Normalize(converter Converter, data []byte, declaredType string) ([]byte, string) {
	if declaredType == "image/jpeg" || declaredType == "image/jpg" {
		return data, "image/jpeg"
	}
	converted, err := converter.Convert(data, declaredType)
	if err != nil {
		return data, declaredType
	}
	return converted, "image/jpeg"
}
