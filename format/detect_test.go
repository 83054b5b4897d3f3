package format

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestFormat_String(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{TextractJSON, "Textract JSON"},
		{HOCR, "hOCR"},
		{PNG, "PNG"},
		{JPEG, "JPEG"},
		{TIFF, "TIFF"},
		{BMP, "BMP"},
		{WebP, "WebP"},
		{Unknown, "Unknown"},
		{Format(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("Format(%d).String() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestFormat_Extension(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{TextractJSON, ".json"},
		{HOCR, ".hocr"},
		{PNG, ".png"},
		{JPEG, ".jpg"},
		{TIFF, ".tiff"},
		{BMP, ".bmp"},
		{WebP, ".webp"},
		{Unknown, ""},
	}

	for _, tt := range tests {
		if got := tt.format.Extension(); got != tt.want {
			t.Errorf("Format(%d).Extension() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestFormat_IsImage(t *testing.T) {
	for _, f := range []Format{PNG, JPEG, TIFF, BMP, WebP} {
		if !f.IsImage() {
			t.Errorf("%s should be an image", f)
		}
	}
	for _, f := range []Format{TextractJSON, HOCR, Unknown} {
		if f.IsImage() {
			t.Errorf("%s should not be an image", f)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"results.json", TextractJSON},
		{"results.JSON", TextractJSON},
		{"scan.hocr", HOCR},
		{"scan.html", HOCR},
		{"scan.htm", HOCR},
		{"page.png", PNG},
		{"page.jpg", JPEG},
		{"page.JPEG", JPEG},
		{"page.tif", TIFF},
		{"page.tiff", TIFF},
		{"page.bmp", BMP},
		{"page.webp", WebP},
		{"/path/to/results.json", TextractJSON},
		{"report.pdf", Unknown},
		{"noextension", Unknown},
		{"", Unknown},
	}

	for _, tt := range tests {
		if got := Detect(tt.filename); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestDetectFromMagic(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"png", []byte("\x89PNG\r\n\x1a\nrest"), PNG},
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}, JPEG},
		{"tiff little endian", []byte("II*\x00rest"), TIFF},
		{"tiff big endian", []byte("MM\x00*rest"), TIFF},
		{"bmp", []byte("BM\x00\x00"), BMP},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), WebP},
		{"riff not webp", []byte("RIFF\x00\x00\x00\x00WAVEfmt "), Unknown},
		{"json object", []byte(`{"Blocks": []}`), TextractJSON},
		{"json array with space", []byte("\n  [{}]"), TextractJSON},
		{"doctype", []byte("<!DOCTYPE html><html>"), HOCR},
		{"html lowercase", []byte("<html><body>"), HOCR},
		{"xhtml", []byte(`<?xml version="1.0"?><html xmlns="http://www.w3.org/1999/xhtml">`), HOCR},
		{"xml only", []byte(`<?xml version="1.0"?><root/>`), Unknown},
		{"empty", nil, Unknown},
		{"text", []byte("hello"), Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFromMagic(tt.data); got != tt.want {
				t.Errorf("DetectFromMagic() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectFromReader(t *testing.T) {
	got, err := DetectFromReader(strings.NewReader(`{"DocumentMetadata": {"Pages": 1}}`))
	if err != nil {
		t.Fatalf("DetectFromReader() error: %v", err)
	}
	if got != TextractJSON {
		t.Errorf("Expected TextractJSON, got %v", got)
	}

	big := append([]byte("<html>"), bytes.Repeat([]byte("x"), 2048)...)
	got, err = DetectFromReader(bytes.NewReader(big))
	if err != nil {
		t.Fatalf("DetectFromReader() error: %v", err)
	}
	if got != HOCR {
		t.Errorf("Expected HOCR, got %v", got)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestDetectFromReaderError(t *testing.T) {
	if _, err := DetectFromReader(failingReader{}); err == nil {
		t.Error("Expected read error")
	}
}
