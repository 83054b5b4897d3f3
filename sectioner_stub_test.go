//go:build !ocr

package sectioner

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/tsawler/sectioner/ocr"
)

func TestOpenImageWithoutOCR(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 10, 10))); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "page.png")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := Open(path).Sections()
	if !errors.Is(err, ocr.ErrOCRNotEnabled) {
		t.Errorf("Expected ErrOCRNotEnabled, got %v", err)
	}
}
