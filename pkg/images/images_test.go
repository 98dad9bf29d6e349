package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateType(t *testing.T) {
	cases := []struct {
		name     string
		filename string
		mimeType string
		want     bool
	}{
		{"jpeg mime", "photo.jpg", "image/jpeg", true},
		{"exotic image mime", "photo.avif", "image/avif", true},
		{"heic extension without mime", "IMG_0001.HEIC", "", true},
		{"heif extension with bogus mime", "scan.heif", "application/octet-stream", true},
		{"pdf", "doc.pdf", "application/pdf", false},
		{"no mime no image extension", "notes.txt", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidateType(tc.filename, tc.mimeType))
		})
	}
}

func TestValidate_SizeLimit(t *testing.T) {
	err := Validate("big.jpg", "image/jpeg", DefaultMaxUploadSize+1, 0)
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "big.jpg", validation.Filename)

	assert.NoError(t, Validate("ok.jpg", "image/jpeg", DefaultMaxUploadSize, 0))

	// Explicit limits override the default.
	assert.Error(t, Validate("small-limit.jpg", "image/jpeg", 2048, 1024))
}

func TestDecodeDataURL(t *testing.T) {
	payload := []byte("hello bytes")
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)

	data, contentType, err := DecodeDataURL(dataURL)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
	assert.Equal(t, "image/png", contentType)

	for _, bad := range []string{
		"image/png;base64,AAAA",
		"data:;base64,AAAA",
		"data:image/png;base64,%%%",
		"data:image/png,plain",
	} {
		_, _, err := DecodeDataURL(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 60), G: uint8(y * 60), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalize_ConvertsToJPEG(t *testing.T) {
	data, contentType := Normalize(StdConverter{}, pngBytes(t), "image/png")
	assert.Equal(t, "image/jpeg", contentType)

	// JPEG magic bytes.
	require.GreaterOrEqual(t, len(data), 2)
	assert.Equal(t, []byte{0xff, 0xd8}, data[:2])
}

func TestNormalize_JPEGPassesThrough(t *testing.T) {
	original := []byte("already-jpeg-bytes")
	data, contentType := Normalize(StdConverter{}, original, "image/jpeg")
	assert.Equal(t, original, data)
	assert.Equal(t, "image/jpeg", contentType)

	data, contentType = Normalize(StdConverter{}, original, "image/jpg")
	assert.Equal(t, original, data)
	assert.Equal(t, "image/jpeg", contentType)
}

// failingConverter simulates a codec that cannot handle the input, the
// HEIC-without-decoder case.
type failingConverter struct{}

func (failingConverter) Convert([]byte, string) ([]byte, error) {
	return nil, errors.New("no decoder for this format")
}

// Any conversion failure falls back to the original bytes and declared
// type: the upload proceeds unconverted rather than failing.
func TestNormalize_FailureFallsBackToOriginal(t *testing.T) {
	original := []byte("heic-bytes-we-cannot-decode")

	data, contentType := Normalize(failingConverter{}, original, "image/heic")
	assert.Equal(t, original, data)
	assert.Equal(t, "image/heic", contentType)

	// The default converter hits the same path on undecodable bytes.
	data, contentType = Normalize(StdConverter{}, original, "image/heic")
	assert.Equal(t, original, data)
	assert.Equal(t, "image/heic", contentType)
}

func TestIngestAll(t *testing.T) {
	files := []File{
		{Name: "a.jpg", ContentType: "image/jpeg", Data: []byte("a")},
		{Name: "blocked.pdf", ContentType: "application/pdf", Data: []byte("b")},
		{Name: "c.jpg", ContentType: "image/jpeg", Data: []byte("c")},
	}

	var mu sync.Mutex
	uploaded := map[int]string{}
	upload := func(_ context.Context, index int, data []byte, contentType string) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		uploaded[index] = string(data)
		return fmt.Sprintf("https://cdn.example.com/img-%d", index), nil
	}

	results := IngestAll(context.Background(), StdConverter{}, files, 0, upload)
	require.Len(t, results, 3)

	assert.NoError(t, results[0].Err)
	assert.Equal(t, "https://cdn.example.com/img-0", results[0].URL)

	// The invalid file fails alone; its neighbors commit.
	var validation *ValidationError
	assert.ErrorAs(t, results[1].Err, &validation)
	assert.Empty(t, results[1].URL)

	assert.NoError(t, results[2].Err)
	assert.Equal(t, map[int]string{0: "a", 2: "c"}, uploaded)
}

func TestIngestAll_UploadFailureIsolated(t *testing.T) {
	files := []File{
		{Name: "a.jpg", ContentType: "image/jpeg", Data: []byte("a")},
		{Name: "b.jpg", ContentType: "image/jpeg", Data: []byte("b")},
	}
	boom := errors.New("bucket unavailable")
	upload := func(_ context.Context, index int, _ []byte, _ string) (string, error) {
		if index == 0 {
			return "", boom
		}
		return "ok", nil
	}

	results := IngestAll(context.Background(), StdConverter{}, files, 0, upload)
	assert.ErrorIs(t, results[0].Err, boom)
	assert.Equal(t, "ok", results[1].URL)
}
