package recipe

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func pngPayload(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test png: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeImage(t *testing.T) {
	raw := pngPayload(t, 4, 4)
	encoded := base64.StdEncoding.EncodeToString(raw)

	tests := []struct {
		name    string
		payload string
		wantErr error
	}{
		{name: "bare base64", payload: encoded},
		{name: "data uri", payload: "data:image/png;base64," + encoded},
		{name: "empty payload", payload: "", wantErr: ErrEmptyImage},
		{name: "data uri without comma", payload: "data:image/png;base64", wantErr: ErrInvalidImagePayload},
		{name: "invalid base64", payload: "not-base64!!!", wantErr: ErrInvalidImagePayload},
		{
			name:    "unsupported content",
			payload: base64.StdEncoding.EncodeToString([]byte("just some text, not an image")),
			wantErr: ErrUnsupportedImage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := DecodeImage(tt.payload)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("DecodeImage() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeImage() error = %v", err)
			}
			if img.MimeType != "image/png" {
				t.Errorf("mime type = %q, want image/png", img.MimeType)
			}
			if img.Suffix != ".png" {
				t.Errorf("suffix = %q, want .png", img.Suffix)
			}
			if !bytes.Equal(img.Data, raw) {
				t.Error("decoded data does not match the original payload")
			}
		})
	}
}

func TestThumbnail(t *testing.T) {
	img := &Image{Data: pngPayload(t, 600, 400), MimeType: "image/png", Suffix: ".png"}

	thumb, err := img.Thumbnail()
	if err != nil {
		t.Fatalf("Thumbnail() error = %v", err)
	}

	decoded, err := png.Decode(bytes.NewReader(thumb.Data))
	if err != nil {
		t.Fatalf("decoding thumbnail: %v", err)
	}
	bounds := decoded.Bounds()
	if bounds.Dx() != thumbnailWidth {
		t.Errorf("thumbnail width = %d, want %d", bounds.Dx(), thumbnailWidth)
	}
	if bounds.Dy() != 200 {
		t.Errorf("thumbnail height = %d, want 200 (aspect ratio preserved)", bounds.Dy())
	}
}

func TestThumbnail_UnsupportedFormat(t *testing.T) {
	img := &Image{Data: []byte("<svg/>"), MimeType: "image/svg+xml", Suffix: ".svg"}
	if _, err := img.Thumbnail(); !errors.Is(err, ErrUnsupportedImage) {
		t.Errorf("Thumbnail() error = %v, want %v", err, ErrUnsupportedImage)
	}
}
