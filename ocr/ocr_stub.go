//go:build !ocr

// Package ocr provides the OCR side of segmentation: the page-result types
// the layout engine consumes, decoders for stored results (Textract JSON,
// hOCR), pagination over a result service, and line recognition from images.
//
// This build does not include Tesseract. Image recognition functions return
// ErrOCRNotEnabled; decoding stored results works normally.
//
// To enable image recognition, rebuild with the "ocr" build tag:
//
//	go build -tags ocr
package ocr

// Client is a stub OCR client that returns errors for all operations.
type Client struct{}

// New returns an error indicating OCR support is not enabled.
func New() (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Close is a no-op for the stub client.
// It is safe to call on a nil client.
func (c *Client) Close() error {
	return nil
}

// RecognizeLines returns ErrOCRNotEnabled.
func (c *Client) RecognizeLines(imageData []byte, page int) (*PageResult, error) {
	return nil, ErrOCRNotEnabled
}

// SetLanguage returns ErrOCRNotEnabled.
func (c *Client) SetLanguage(lang string) error {
	return ErrOCRNotEnabled
}
