// Package sectioner provides a fluent API for splitting OCR output into
// sections and paragraphs.
//
// Basic usage:
//
//	sections, warnings, err := sectioner.Open("results.json").Sections()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", sectioner.FormatWarnings(warnings))
//	}
//
// With options:
//
//	doc, _, err := sectioner.Open("scan.hocr").
//	    IndentBand(0.10, 0.14).
//	    ExcludeRunningLines().
//	    Document()
//
// Headerless documents are split from line spacing alone:
//
//	paras, _, err := sectioner.Open("letter.json").Paragraphs()
//
// For lower-level control, the layout and ocr packages are also available.
package sectioner

import (
	"context"
	"errors"
	"fmt"

	"github.com/tsawler/sectioner/ocr"
)

var (
	// ErrUnsupportedFormat is returned when an input file is not OCR output
	// or a page image
	ErrUnsupportedFormat = errors.New("unsupported input format")

	// ErrHeaderlessMode is returned when sections are requested in
	// headerless mode
	ErrHeaderlessMode = errors.New("sections require a header detection mode")
)

// Open returns a Segmenter reading OCR results from a file. Textract JSON,
// hOCR and page images (with the ocr build tag) are accepted. The file is
// read by the terminal operation.
//
// Example:
//
//	sections, warnings, err := sectioner.Open("results.json").Sections()
func Open(filename string) *Segmenter {
	return &Segmenter{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromPages returns a Segmenter over page results already in memory.
//
// Example:
//
//	pages, err := ocr.DecodeTextract(r)
//	if err != nil {
//	    // handle error
//	}
//	doc, warnings, err := sectioner.FromPages(pages).Document()
func FromPages(pages []ocr.PageResult) *Segmenter {
	return &Segmenter{
		pages:   pages,
		loaded:  true,
		options: defaultOptions(),
	}
}

// FromJob collects every page of an OCR job through fetcher and returns a
// Segmenter over them. Fetch failures are reported by the terminal operation.
//
// Example:
//
//	doc, _, err := sectioner.FromJob(ctx, client, jobID).Path(location).Document()
func FromJob(ctx context.Context, fetcher ocr.PageFetcher, jobID string) *Segmenter {
	pages, err := ocr.Collect(ctx, fetcher, jobID)
	s := FromPages(pages)
	if err != nil {
		s.err = fmt.Errorf("collecting job %s: %w", jobID, err)
	}
	s.options.path = jobID
	return s
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustResult is a helper that wraps a terminal operation and panics if the
// error is non-nil. It discards warnings and returns just the value.
//
// Example:
//
//	doc := sectioner.MustResult(sectioner.Open("results.json").Document())
func MustResult[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
