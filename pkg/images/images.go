// Package images is the upload ingestion pipeline: type and size
// validation, normalization towards JPEG, and the data-URL transport
// decode used by the admin forms.
package images

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DefaultMaxUploadSize bounds a single upload. Checked before any store
// call; oversized files are a validation error, never silently truncated.
const DefaultMaxUploadSize = 10 << 20 // 10 MiB

// heicExtensions are accepted by filename even when the environment
// reports no useful MIME type for them.
var heicExtensions = []string{".heic", ".heif"}

// ValidateType accepts a file when its declared MIME type is an image
// family, or its extension matches the HEIC list. The extension check
// exists because some environments fail to report a MIME type for HEIC.
func ValidateType(filename, mimeType string) bool {
	if strings.HasPrefix(mimeType, "image/") {
		return true
	}
	lower := strings.ToLower(filename)
	for _, ext := range heicExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// ValidationError rejects an upload before any network I/O.
type ValidationError struct {
	Filename string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid upload %q: %s", e.Filename, e.Reason)
}

// Validate runs the pre-upload checks: type, then size.
func Validate(filename, mimeType string, size, maxSize int64) error {
	if maxSize <= 0 {
		maxSize = DefaultMaxUploadSize
	}
	if !ValidateType(filename, mimeType) {
		return &ValidationError{Filename: filename, Reason: "unsupported file type " + mimeType}
	}
	if size > maxSize {
		return &ValidationError{Filename: filename, Reason: fmt.Sprintf("file size %d exceeds limit %d", size, maxSize)}
	}
	return nil
}

// DecodeDataURL splits a data:{type};base64,{payload} transport string
// into raw bytes and the declared content type.
func DecodeDataURL(dataURL string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return nil, "", fmt.Errorf("invalid data URL")
	}
	contentType, payload, ok := strings.Cut(rest, ";base64,")
	if !ok || contentType == "" {
		return nil, "", fmt.Errorf("invalid data URL")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("invalid data URL payload: %w", err)
	}
	return data, contentType, nil
}
