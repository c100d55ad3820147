package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func encodeJPEG(img image.Image) []byte {
	var buf bytes.Buffer
	jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

func encodePNG(img image.Image) []byte {
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}

func TestNormalizeJPEG(t *testing.T) {
	photo, err := Normalize(bytes.NewReader(encodeJPEG(solid(100, 60, color.RGBA{255, 0, 0, 255}))))
	if err != nil {
		t.Fatalf("Normalize JPEG: %v", err)
	}
	if photo.MIME != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", photo.MIME)
	}
	if photo.Width != 100 || photo.Height != 60 {
		t.Errorf("small photo should keep its size, got %dx%d", photo.Width, photo.Height)
	}
}

func TestNormalizeDownscalesPreservingAspect(t *testing.T) {
	photo, err := Normalize(bytes.NewReader(encodeJPEG(solid(1600, 400, color.Black))))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if photo.Width != MaxDimension || photo.Height != 200 {
		t.Errorf("expected %dx200, got %dx%d", MaxDimension, photo.Width, photo.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(photo.Data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if img.Bounds().Dx() != photo.Width || img.Bounds().Dy() != photo.Height {
		t.Errorf("encoded size %v does not match reported size", img.Bounds())
	}
}

func TestNormalizeFlattensTransparentPNG(t *testing.T) {
	photo, err := Normalize(bytes.NewReader(encodePNG(solid(10, 10, color.RGBA{0, 0, 0, 0}))))
	if err != nil {
		t.Fatalf("Normalize PNG: %v", err)
	}

	img, _, _ := image.Decode(bytes.NewReader(photo.Data))
	r, g, b, _ := img.At(5, 5).RGBA()
	if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
		t.Errorf("expected transparent pixels to become white, got %d %d %d", r>>8, g>>8, b>>8)
	}
}

func TestNormalizeRejectsUnsupported(t *testing.T) {
	for _, data := range [][]byte{
		[]byte("not an image"),
		[]byte("GIF89a..."),
	} {
		_, err := Normalize(bytes.NewReader(data))
		if !errors.Is(err, ErrUnsupported) {
			t.Errorf("expected ErrUnsupported for %q, got %v", data, err)
		}
	}
}

func TestNormalizeRejectsOversized(t *testing.T) {
	data := append([]byte("\xff\xd8\xff"), make([]byte, MaxUploadBytes)...)
	_, err := Normalize(bytes.NewReader(data))
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported for oversized upload, got %v", err)
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		w, h, wantW, wantH int
	}{
		{800, 800, 800, 800},
		{1600, 800, 800, 400},
		{400, 1600, 200, 800},
		{10000, 1, 800, 1},
	}
	for _, tt := range tests {
		w, h := fit(tt.w, tt.h, 800)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("fit(%d, %d) = %dx%d, want %dx%d", tt.w, tt.h, w, h, tt.wantW, tt.wantH)
		}
	}
}
