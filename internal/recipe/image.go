package recipe

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
)

const thumbnailWidth = 300

var (
	ErrEmptyImage          = errors.New("empty image")
	ErrUnsupportedImage    = errors.New("unsupported image type")
	ErrInvalidImagePayload = errors.New("invalid base64 image payload")
)

// suffixes maps a sniffed content type to the stored file extension.
var suffixes = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/bmp":     ".bmp",
	"image/svg+xml": ".svg",
}

// imagingFormats lists the content types the thumbnailer can re-encode.
var imagingFormats = map[string]imaging.Format{
	"image/jpeg": imaging.JPEG,
	"image/png":  imaging.PNG,
	"image/gif":  imaging.GIF,
	"image/bmp":  imaging.BMP,
}

// Image is a decoded upload ready for storage.
type Image struct {
	Data     []byte
	MimeType string
	Suffix   string
}

// DecodeImage decodes a base64 image payload, either bare or wrapped in a
// data URI, and sniffs its content type.
func DecodeImage(payload string) (*Image, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, ErrEmptyImage
	}

	// data:image/png;base64,iVBOR...
	if strings.HasPrefix(payload, "data:") {
		i := strings.Index(payload, ",")
		if i < 0 {
			return nil, ErrInvalidImagePayload
		}
		payload = payload[i+1:]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImagePayload, err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}

	mimeType := http.DetectContentType(data)
	suffix, ok := suffixes[mimeType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, mimeType)
	}

	return &Image{Data: data, MimeType: mimeType, Suffix: suffix}, nil
}

// Thumbnail downscales a raster image to the listing width, preserving
// aspect ratio. Vector and animated formats are left alone.
func (img *Image) Thumbnail() (*Image, error) {
	format, ok := imagingFormats[img.MimeType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, img.MimeType)
	}

	src, err := imaging.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	resized := imaging.Resize(src, thumbnailWidth, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format); err != nil {
		return nil, fmt.Errorf("encoding thumbnail: %w", err)
	}

	return &Image{Data: buf.Bytes(), MimeType: img.MimeType, Suffix: img.Suffix}, nil
}
