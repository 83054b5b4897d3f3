package ocr

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// DecodeTextract reads text-detection results in the Textract JSON shape.
// The input may be a single response object or an array of responses
// (the pages of a paginated job, in order). An empty array is a document
// without pages and decodes to an empty slice.
//
// Single-page synchronous responses omit Block.Page; when the document
// metadata reports one page those blocks are assigned page 1.
func DecodeTextract(r io.Reader) ([]PageResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading OCR results: %w", err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrNoPages
	}

	var results []PageResult
	if data[0] == '[' {
		if err := json.Unmarshal(data, &results); err != nil {
			return nil, fmt.Errorf("decoding OCR results: %w", err)
		}
	} else {
		var single PageResult
		if err := json.Unmarshal(data, &single); err != nil {
			return nil, fmt.Errorf("decoding OCR results: %w", err)
		}
		results = []PageResult{single}
	}

	if len(results) == 0 {
		return []PageResult{}, nil
	}

	if md := results[0].DocumentMetadata; md != nil && md.Pages == 1 {
		for i := range results {
			for j := range results[i].Blocks {
				if results[i].Blocks[j].Page == 0 {
					results[i].Blocks[j].Page = 1
				}
			}
		}
	}

	return results, nil
}

// ReadTextractFile decodes a Textract JSON file.
func ReadTextractFile(path string) ([]PageResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return DecodeTextract(f)
}

// EncodeTextract writes results as a JSON array in the same shape
// DecodeTextract accepts.
func EncodeTextract(w io.Writer, results []PageResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
