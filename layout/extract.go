package layout

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/sectioner/logging"
	"github.com/tsawler/sectioner/model"
	"github.com/tsawler/sectioner/ocr"
)

var (
	// ErrMalformedInput is returned when an OCR block lacks a type tag or a
	// LINE block lacks geometry. No partial output is produced.
	ErrMalformedInput = errors.New("malformed OCR input")

	// ErrInvalidConfig is returned by constructors given unusable settings
	ErrInvalidConfig = errors.New("invalid layout configuration")
)

// LineRecord is one OCR-detected text line with derived geometry.
// Sequence is the only ordering key; geometry is used for classification.
type LineRecord struct {
	// Text is the recognized line text
	Text string

	// Page is the 1-based page number
	Page int

	// Sequence is the reading-order position across all pages, from 1
	Sequence int

	// LeftIndent, TopOffset and Width are page fractions rounded to 2 places
	LeftIndent float64
	TopOffset  float64
	Width      float64

	// Height is the box height rounded to 3 places, a proxy for font size
	Height float64

	// SpaceBefore and SpaceAfter are set by the SpacingAnnotator.
	// nil means not computed.
	SpaceBefore *float64
	SpaceAfter  *float64
}

// HasSpacing reports whether both spacing values are present
func (l *LineRecord) HasSpacing() bool {
	return l != nil && l.SpaceBefore != nil && l.SpaceAfter != nil
}

// Bottom returns the bottom edge of the line
func (l *LineRecord) Bottom() float64 {
	return l.TopOffset + l.Height
}

// ExtractConfig holds configuration for line extraction
type ExtractConfig struct {
	// NormalizeText applies Unicode NFC and trims surrounding whitespace
	// Default: true
	NormalizeText bool
}

// DefaultExtractConfig returns the default extraction configuration
func DefaultExtractConfig() ExtractConfig {
	return ExtractConfig{
		NormalizeText: true,
	}
}

// LineExtractor turns OCR page results into ordered LineRecords
type LineExtractor struct {
	config ExtractConfig
}

// NewLineExtractor creates an extractor with default configuration
func NewLineExtractor() *LineExtractor {
	return &LineExtractor{
		config: DefaultExtractConfig(),
	}
}

// NewLineExtractorWithConfig creates an extractor with custom configuration
func NewLineExtractorWithConfig(config ExtractConfig) *LineExtractor {
	return &LineExtractor{
		config: config,
	}
}

// LineLayout is the result of extraction
type LineLayout struct {
	// Lines in reading order; Lines[i].Sequence == i+1
	Lines []LineRecord

	// Heights groups sequence numbers by rounded height
	Heights *HeightIndex
}

// Extract keeps the LINE blocks of pages in input order and numbers them
// with one running counter. Any malformed block aborts extraction.
func (e *LineExtractor) Extract(pages []ocr.PageResult) (*LineLayout, error) {
	result := &LineLayout{Heights: NewHeightIndex()}
	seq := 0

	for pi, page := range pages {
		for bi, block := range page.Blocks {
			if block.BlockType == "" {
				return nil, fmt.Errorf("%w: result %d block %d has no block type", ErrMalformedInput, pi, bi)
			}
			if !block.IsLine() {
				continue
			}

			line, err := e.buildLine(block)
			if err != nil {
				return nil, fmt.Errorf("%w: result %d block %d: %s", ErrMalformedInput, pi, bi, err)
			}

			seq++
			line.Sequence = seq
			result.Lines = append(result.Lines, line)
			result.Heights.Add(line.Height, seq)
		}
	}

	logging.Logger().Debug("extracted lines",
		"results", len(pages),
		"lines", len(result.Lines),
		"heights", result.Heights.Len())

	return result, nil
}

// buildLine converts a LINE block, rejecting missing geometry
func (e *LineExtractor) buildLine(block ocr.Block) (LineRecord, error) {
	if block.Geometry == nil {
		return LineRecord{}, errors.New("missing geometry")
	}
	box := block.Geometry.BoundingBox
	if box == nil {
		return LineRecord{}, errors.New("missing bounding box")
	}
	if missing := box.Missing(); len(missing) > 0 {
		return LineRecord{}, fmt.Errorf("bounding box missing %s", strings.Join(missing, ", "))
	}
	if block.Page < 1 {
		return LineRecord{}, fmt.Errorf("invalid page %d", block.Page)
	}

	text := block.Text
	if e.config.NormalizeText {
		text = strings.TrimSpace(norm.NFC.String(text))
	}

	return LineRecord{
		Text:       text,
		Page:       block.Page,
		LeftIndent: model.Round(*box.Left, 2),
		TopOffset:  model.Round(*box.Top, 2),
		Width:      model.Round(*box.Width, 2),
		Height:     model.Round(*box.Height, 3),
	}, nil
}

// LineCount returns the number of extracted lines
func (l *LineLayout) LineCount() int {
	if l == nil {
		return 0
	}
	return len(l.Lines)
}

// GetLine returns the line with the given sequence number, or nil
func (l *LineLayout) GetLine(sequence int) *LineRecord {
	if l == nil || sequence < 1 || sequence > len(l.Lines) {
		return nil
	}
	return &l.Lines[sequence-1]
}

// PageCount returns the highest page number seen
func (l *LineLayout) PageCount() int {
	if l == nil {
		return 0
	}
	pages := 0
	for _, line := range l.Lines {
		if line.Page > pages {
			pages = line.Page
		}
	}
	return pages
}

// GetText returns all line texts joined by newlines
func (l *LineLayout) GetText() string {
	if l == nil {
		return ""
	}
	texts := make([]string, len(l.Lines))
	for i, line := range l.Lines {
		texts[i] = line.Text
	}
	return strings.Join(texts, "\n")
}
