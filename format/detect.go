// Package format provides input format detection for sectioner.
package format

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
)

// Format represents a supported input format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// TextractJSON indicates stored text-detection results in JSON.
	TextractJSON
	// HOCR indicates hOCR HTML output.
	HOCR
	// PNG indicates a PNG page image.
	PNG
	// JPEG indicates a JPEG page image.
	JPEG
	// TIFF indicates a TIFF page image.
	TIFF
	// BMP indicates a BMP page image.
	BMP
	// WebP indicates a WebP page image.
	WebP
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case TextractJSON:
		return "Textract JSON"
	case HOCR:
		return "hOCR"
	case PNG:
		return "PNG"
	case JPEG:
		return "JPEG"
	case TIFF:
		return "TIFF"
	case BMP:
		return "BMP"
	case WebP:
		return "WebP"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case TextractJSON:
		return ".json"
	case HOCR:
		return ".hocr"
	case PNG:
		return ".png"
	case JPEG:
		return ".jpg"
	case TIFF:
		return ".tiff"
	case BMP:
		return ".bmp"
	case WebP:
		return ".webp"
	default:
		return ""
	}
}

// IsImage reports whether the format is a page image that needs OCR.
func (f Format) IsImage() bool {
	switch f {
	case PNG, JPEG, TIFF, BMP, WebP:
		return true
	default:
		return false
	}
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json":
		return TextractJSON
	case ".hocr", ".html", ".htm":
		return HOCR
	case ".png":
		return PNG
	case ".jpg", ".jpeg":
		return JPEG
	case ".tif", ".tiff":
		return TIFF
	case ".bmp":
		return BMP
	case ".webp":
		return WebP
	default:
		return Unknown
	}
}

// DetectFromMagic checks leading bytes to determine format.
// Returns Unknown if the format cannot be determined from the bytes alone.
func DetectFromMagic(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return PNG
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return JPEG
	case bytes.HasPrefix(data, []byte("II*\x00")), bytes.HasPrefix(data, []byte("MM\x00*")):
		return TIFF
	case bytes.HasPrefix(data, []byte("BM")):
		return BMP
	case len(data) >= 12 && bytes.Equal(data[:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return WebP
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if len(trimmed) == 0 {
		return Unknown
	}

	// JSON documents start with an object or array
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return TextractJSON
	}

	if detectHTMLMagic(trimmed) {
		return HOCR
	}

	return Unknown
}

// detectHTMLMagic checks if the data looks like HTML or XHTML content.
func detectHTMLMagic(data []byte) bool {
	upper := strings.ToUpper(string(data[:min(512, len(data))]))
	if strings.HasPrefix(upper, "<!DOCTYPE HTML") || strings.HasPrefix(upper, "<HTML") {
		return true
	}
	// XML declaration followed by html-like content could be XHTML
	if strings.HasPrefix(upper, "<?XML") && strings.Contains(upper, "<HTML") {
		return true
	}
	return false
}

// DetectFromReader inspects the start of the content to determine format.
func DetectFromReader(r io.Reader) (Format, error) {
	magic := make([]byte, 512)
	n, err := io.ReadFull(r, magic)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return Unknown, err
	}
	return DetectFromMagic(magic[:n]), nil
}
