//go:build ocr

// Package ocr provides the OCR side of segmentation: the page-result types
// the layout engine consumes, decoders for stored results (Textract JSON,
// hOCR), pagination over a result service, and line recognition from images.
//
// Image recognition wraps the Tesseract OCR engine via gosseract. It requires
// Tesseract to be installed on the system. On macOS, install via:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/tsawler/sectioner/logging"
	"github.com/tsawler/sectioner/model"
)

// Client wraps Tesseract for OCR operations.
type Client struct {
	client *gosseract.Client
}

// New creates a new OCR client.
// The client should be closed when no longer needed to release resources.
func New() (*Client, error) {
	client := gosseract.NewClient()
	return &Client{client: client}, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// RecognizeLines performs OCR on one page image and returns its text lines
// as a PageResult. Line boxes are normalized by the image dimensions, so the
// result can be fed to the layout engine like any stored OCR output.
func (c *Client) RecognizeLines(imageData []byte, page int) (*PageResult, error) {
	width, height, err := ImageSize(imageData)
	if err != nil {
		return nil, err
	}

	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := c.client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	result := &PageResult{
		Blocks: []Block{NewBlock(BlockTypePage, page, "", model.NewBBox(0, 0, 1, 1))},
	}
	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)
		if text == "" {
			continue
		}
		box := model.NewBBoxFromPixels(
			float64(b.Box.Min.X), float64(b.Box.Min.Y),
			float64(b.Box.Max.X), float64(b.Box.Max.Y),
			float64(width), float64(height))

		block := NewLineBlock(page, text, box)
		block.Confidence = b.Confidence
		result.Blocks = append(result.Blocks, block)
	}

	logging.Logger().Debug("recognized page",
		"page", page,
		"lines", result.LineCount())

	return result, nil
}

// SetLanguage sets the recognition language. Several languages are joined
// with "+", as in "eng+fra". The default is "eng".
func (c *Client) SetLanguage(lang string) error {
	return c.client.SetLanguage(lang)
}
