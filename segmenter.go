package sectioner

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/tsawler/sectioner/format"
	"github.com/tsawler/sectioner/layout"
	"github.com/tsawler/sectioner/logging"
	"github.com/tsawler/sectioner/model"
	"github.com/tsawler/sectioner/ocr"
)

// Segmenter provides a fluent interface for segmenting OCR output.
// Each configuration method returns a new Segmenter instance, making it
// safe for concurrent use and allowing method chaining.
type Segmenter struct {
	// Source
	filename string
	pages    []ocr.PageResult
	loaded   bool

	// Configuration
	options SegmentOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Segmenter with a copy of options.
func (s *Segmenter) clone() *Segmenter {
	return &Segmenter{
		filename: s.filename,
		pages:    s.pages,
		loaded:   s.loaded,
		options:  s.options.clone(),
		err:      s.err,
	}
}

// load returns the page results, reading the input file if needed.
func (s *Segmenter) load() ([]ocr.PageResult, error) {
	if s.loaded {
		return s.pages, nil
	}
	if s.filename == "" {
		return nil, fmt.Errorf("no input specified")
	}

	data, err := os.ReadFile(s.filename)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.filename, err)
	}

	f := format.Detect(s.filename)
	if f == format.Unknown {
		f = format.DetectFromMagic(data)
	}

	logging.Logger().Debug("loading input",
		"file", s.filename,
		"format", f.String(),
		"bytes", len(data))

	switch {
	case f == format.TextractJSON:
		pages, err := ocr.DecodeTextract(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.filename, err)
		}
		return pages, nil

	case f == format.HOCR:
		pages, err := ocr.DecodeHOCR(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.filename, err)
		}
		return pages, nil

	case f.IsImage():
		client, err := ocr.New()
		if err != nil {
			return nil, fmt.Errorf("recognizing %s: %w", s.filename, err)
		}
		defer client.Close()

		if s.options.language != "" {
			if err := client.SetLanguage(s.options.language); err != nil {
				return nil, fmt.Errorf("recognizing %s: %w", s.filename, err)
			}
		}

		page, err := client.RecognizeLines(data, 1)
		if err != nil {
			return nil, fmt.Errorf("recognizing %s: %w", s.filename, err)
		}
		return []ocr.PageResult{*page}, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, s.filename)
	}
}

// path returns the document path recorded in results
func (s *Segmenter) path() string {
	if s.options.path != "" {
		return s.options.path
	}
	return s.filename
}

// ============================================================================
// Configuration Methods (return new Segmenter instance)
// ============================================================================

// Mode selects the segmentation mode.
//
// Example:
//
//	doc, _, err := sectioner.Open("results.json").Mode(model.ModeHeaderless).Document()
func (s *Segmenter) Mode(mode model.Mode) *Segmenter {
	newSeg := s.clone()
	newSeg.options.mode = mode
	return newSeg
}

// FontHeight detects headers by clustering line heights. This is the default.
func (s *Segmenter) FontHeight() *Segmenter {
	return s.Mode(model.ModeFontHeight)
}

// IndentBand detects headers as lines whose left indent lies within
// [start, end], as fractions of the page width. An invalid band is
// reported by the terminal operation.
//
// Example:
//
//	sections, _, err := sectioner.Open("results.json").IndentBand(0.10, 0.14).Sections()
func (s *Segmenter) IndentBand(start, end float64) *Segmenter {
	newSeg := s.Mode(model.ModeIndentBand)
	band := layout.IndentBandConfig{Start: start, End: end}
	if err := band.Validate(); err != nil && newSeg.err == nil {
		newSeg.err = err
	}
	newSeg.options.indentBand = band
	return newSeg
}

// Headerless splits lines into paragraphs from spacing and width cues.
func (s *Segmenter) Headerless() *Segmenter {
	return s.Mode(model.ModeHeaderless)
}

// Duplicates sets how repeated header texts are handled.
//
// Example:
//
//	sections, _, err := sectioner.Open("results.json").Duplicates(layout.CollapseToLast).Sections()
func (s *Segmenter) Duplicates(policy layout.DuplicatePolicy) *Segmenter {
	newSeg := s.clone()
	newSeg.options.duplicates = policy
	return newSeg
}

// ExcludeRunningLines removes text repeated in the top and bottom margins
// of several pages, such as titles and page numbers, before segmentation.
func (s *Segmenter) ExcludeRunningLines() *Segmenter {
	newSeg := s.clone()
	newSeg.options.excludeRunning = true
	return newSeg
}

// RunningLineConfig sets the running line detection parameters and
// enables the filter.
func (s *Segmenter) RunningLineConfig(config layout.RunningLineConfig) *Segmenter {
	newSeg := s.ExcludeRunningLines()
	newSeg.options.running = config
	return newSeg
}

// ByPeriod makes Paragraphs end a paragraph at every line ending in a
// period instead of using spacing cues. Text after the last period is
// dropped.
func (s *Segmenter) ByPeriod() *Segmenter {
	newSeg := s.clone()
	newSeg.options.byPeriod = true
	return newSeg
}

// Language sets the OCR language used for image input, such as "eng" or
// "eng+fra". Stored OCR results are not affected.
func (s *Segmenter) Language(lang string) *Segmenter {
	newSeg := s.clone()
	newSeg.options.language = lang
	return newSeg
}

// RawText keeps recognized text exactly as the OCR engine returned it,
// without Unicode normalization or trimming.
func (s *Segmenter) RawText() *Segmenter {
	newSeg := s.clone()
	newSeg.options.normalizeText = false
	return newSeg
}

// Path sets the document path recorded in results. It defaults to the
// input file name.
func (s *Segmenter) Path(path string) *Segmenter {
	newSeg := s.clone()
	newSeg.options.path = path
	return newSeg
}

// ============================================================================
// Terminal Operations (execute segmentation and return results)
// ============================================================================

// Lines returns the extracted line records in reading order.
func (s *Segmenter) Lines() ([]layout.LineRecord, []Warning, error) {
	if s.err != nil {
		return nil, nil, s.err
	}

	pages, err := s.load()
	if err != nil {
		return nil, nil, err
	}

	var warnings []Warning
	if s.options.excludeRunning {
		result := layout.NewRunningLineDetectorWithConfig(s.options.running).Detect(pages)
		filtered, removed := result.Filter(pages)
		if removed > 0 {
			pages = filtered
			warnings = append(warnings, Warning{
				Code:    WarningRunningLinesRemoved,
				Message: fmt.Sprintf("removed %d running line(s): %s", removed, strings.Join(result.Texts(), ", ")),
			})
		}
	}

	lines, err := layout.NewLineExtractorWithConfig(s.options.extractConfig()).Extract(pages)
	if err != nil {
		return nil, warnings, err
	}
	if lines.LineCount() == 0 {
		warnings = append(warnings, Warning{
			Code:    WarningEmptyDocument,
			Message: "no text lines found",
		})
	}

	return lines.Lines, warnings, nil
}

// Headers returns the detected headers in order, with the duplicate
// policy applied. In headerless mode it returns ErrHeaderlessMode.
func (s *Segmenter) Headers() ([]layout.Header, []Warning, error) {
	lines, warnings, err := s.Lines()
	if err != nil {
		return nil, warnings, err
	}
	headers, more, err := s.detectHeaders(lines)
	return headers, append(warnings, more...), err
}

// detectHeaders runs the configured header detector over lines
func (s *Segmenter) detectHeaders(lines []layout.LineRecord) ([]layout.Header, []Warning, error) {
	var detector layout.HeaderDetector
	switch s.options.mode {
	case model.ModeFontHeight:
		detector = layout.NewFontHeightDetector()
	case model.ModeIndentBand:
		d, err := layout.NewIndentBandDetectorWithConfig(s.options.indentBand)
		if err != nil {
			return nil, nil, err
		}
		detector = d
	default:
		return nil, nil, ErrHeaderlessMode
	}

	headers := detector.Detect(lines)

	var warnings []Warning
	if len(headers) == 0 && len(lines) > 0 {
		warnings = append(warnings, Warning{
			Code:    WarningNoHeaders,
			Message: fmt.Sprintf("no headers found in %s mode", s.options.mode),
		})
	}
	if dups := layout.DuplicateTexts(headers); len(dups) > 0 {
		warnings = append(warnings, Warning{
			Code:    WarningDuplicateHeaders,
			Message: fmt.Sprintf("repeated header text (%s): %q", s.options.duplicates, dups),
		})
	}

	return s.options.duplicates.Apply(headers), warnings, nil
}

// Sections returns one section per header with the text that follows it.
// In headerless mode it returns ErrHeaderlessMode.
//
// Example:
//
//	sections, warnings, err := sectioner.Open("results.json").Sections()
func (s *Segmenter) Sections() ([]model.Section, []Warning, error) {
	lines, warnings, err := s.Lines()
	if err != nil {
		return nil, warnings, err
	}

	headers, more, err := s.detectHeaders(lines)
	warnings = append(warnings, more...)
	if err != nil {
		return nil, warnings, err
	}

	blocks := layout.NewAssembler().Sections(headers, lines)
	sections := make([]model.Section, len(blocks))
	for i, b := range blocks {
		sections[i] = model.Section{
			Header: b.Header.Text,
			Anchor: b.Header.Anchor,
			Page:   b.Header.Page,
			Text:   b.Text,
		}
	}
	return sections, warnings, nil
}

// Paragraphs splits the lines into paragraphs using spacing and width
// cues, or at periods after ByPeriod. It ignores the header mode.
//
// Example:
//
//	paras, _, err := sectioner.Open("letter.json").Paragraphs()
func (s *Segmenter) Paragraphs() ([]string, []Warning, error) {
	lines, warnings, err := s.Lines()
	if err != nil {
		return nil, warnings, err
	}

	entries := layout.NewSpacingAnnotator().Annotate(lines)
	if s.options.byPeriod {
		return layout.NewAssembler().SentenceParagraphs(entries), warnings, nil
	}
	return layout.NewAssembler().Paragraphs(entries), warnings, nil
}

// Document returns the segmentation result for the configured mode.
//
// Example:
//
//	doc, warnings, err := sectioner.Open("results.json").Document()
//	fmt.Println(doc.ToMarkdown())
func (s *Segmenter) Document() (*model.Document, []Warning, error) {
	doc := model.NewDocument(s.path(), s.options.mode)

	if s.options.mode.IsHeaderBased() {
		sections, warnings, err := s.Sections()
		if err != nil {
			return nil, warnings, err
		}
		for _, sec := range sections {
			doc.AddSection(sec)
		}
		return doc, warnings, nil
	}

	paras, warnings, err := s.Paragraphs()
	if err != nil {
		return nil, warnings, err
	}
	for _, p := range paras {
		doc.AddParagraph(p)
	}
	return doc, warnings, nil
}

// Text returns the document as plain text.
func (s *Segmenter) Text() (string, []Warning, error) {
	doc, warnings, err := s.Document()
	if err != nil {
		return "", warnings, err
	}
	return doc.ExtractText(), warnings, nil
}

// Markdown returns the document as Markdown, with sections as headings.
func (s *Segmenter) Markdown() (string, []Warning, error) {
	doc, warnings, err := s.Document()
	if err != nil {
		return "", warnings, err
	}
	return doc.ToMarkdown(), warnings, nil
}

// Classify returns the document with each non-empty section labelled by
// the classifier. Paragraph results are returned unlabelled.
//
// Example:
//
//	doc, _, err := sectioner.Open("results.json").Classify(ctx, sentimentClient)
func (s *Segmenter) Classify(ctx context.Context, c Classifier) (*model.Document, []Warning, error) {
	doc, warnings, err := s.Document()
	if err != nil {
		return nil, warnings, err
	}

	for i := range doc.Sections {
		if err := ctx.Err(); err != nil {
			return nil, warnings, err
		}
		sec := &doc.Sections[i]
		if sec.Text == "" {
			continue
		}
		label, err := c.Classify(ctx, sec.Text)
		if err != nil {
			return nil, warnings, fmt.Errorf("classifying section %q: %w", sec.Header, err)
		}
		sec.Sentiment = label
	}

	logging.Logger().Debug("classified sections",
		"path", doc.Path,
		"sections", doc.SectionCount())

	return doc, warnings, nil
}
