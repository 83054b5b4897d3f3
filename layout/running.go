package layout

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/tsawler/sectioner/logging"
	"github.com/tsawler/sectioner/model"
	"github.com/tsawler/sectioner/ocr"
)

// RegionType indicates whether a running line is at the top or bottom of
// the page
type RegionType int

const (
	RegionHeader RegionType = iota
	RegionFooter
)

func (r RegionType) String() string {
	if r == RegionHeader {
		return "header"
	}
	return "footer"
}

var (
	digitsPattern     = regexp.MustCompile(`\d+`)
	pageNumberPattern = regexp.MustCompile(`^(?i)(page\s*)?-?\s*#\s*-?(\s*(of|/)\s*#)?$`)
)

// RunningLine is text repeated in the page margin across pages, such as
// a document title or page number
type RunningLine struct {
	// Region is the page margin the line appears in
	Region RegionType

	// Text is the line text with digit runs replaced by '#'
	Text string

	// IsPageNumber indicates the text is a page number
	IsPageNumber bool

	// BBox covers every occurrence
	BBox model.BBox

	// Pages lists the page numbers the line appears on
	Pages []int

	// Confidence is the detection confidence (0.0 to 1.0)
	Confidence float64
}

// RunningLineConfig holds configuration for running line detection.
// Distances are fractions of the page.
type RunningLineConfig struct {
	// HeaderBand is the distance from the top of the page searched for headers
	// Default: 0.08
	HeaderBand float64

	// FooterBand is the distance from the bottom of the page searched for footers
	// Default: 0.08
	FooterBand float64

	// MinOccurrenceRatio is the minimum fraction of pages a text must appear on
	// Default: 0.5
	MinOccurrenceRatio float64

	// PositionTolerance is the maximum vertical drift between occurrences
	// Default: 0.02
	PositionTolerance float64

	// XPositionTolerance is the maximum horizontal drift between occurrences
	// Default: 0.05
	XPositionTolerance float64

	// MinPages is the minimum number of pages required for detection
	// Default: 2
	MinPages int
}

// DefaultRunningLineConfig returns sensible default configuration
func DefaultRunningLineConfig() RunningLineConfig {
	return RunningLineConfig{
		HeaderBand:         0.08,
		FooterBand:         0.08,
		MinOccurrenceRatio: 0.5,
		PositionTolerance:  0.02,
		XPositionTolerance: 0.05,
		MinPages:           2,
	}
}

// RunningLineDetector finds running headers and footers in OCR results
type RunningLineDetector struct {
	config RunningLineConfig
}

// NewRunningLineDetector creates a detector with default configuration
func NewRunningLineDetector() *RunningLineDetector {
	return &RunningLineDetector{
		config: DefaultRunningLineConfig(),
	}
}

// NewRunningLineDetectorWithConfig creates a detector with custom configuration
func NewRunningLineDetectorWithConfig(config RunningLineConfig) *RunningLineDetector {
	return &RunningLineDetector{
		config: config,
	}
}

// RunningLineResult contains the detection results
type RunningLineResult struct {
	Headers []RunningLine
	Footers []RunningLine

	// Config used for detection
	Config RunningLineConfig
}

// candidate is a LINE block inside a page margin
type candidate struct {
	Text string
	Box  model.BBox
	Page int
}

// Detect finds LINE texts repeated in the page margins of results
func (d *RunningLineDetector) Detect(pages []ocr.PageResult) *RunningLineResult {
	result := &RunningLineResult{Config: d.config}

	pageSet := make(map[int]bool)
	var headers, footers []candidate

	for _, page := range pages {
		for _, block := range page.Blocks {
			if !block.IsLine() || block.Geometry == nil || !block.Geometry.BoundingBox.Complete() {
				continue
			}
			box := block.Geometry.BoundingBox.BBox()
			pageSet[block.Page] = true

			c := candidate{Text: strings.TrimSpace(block.Text), Box: box, Page: block.Page}
			switch {
			case box.Top < d.config.HeaderBand:
				headers = append(headers, c)
			case box.Bottom() > 1-d.config.FooterBand:
				footers = append(footers, c)
			}
		}
	}

	totalPages := len(pageSet)
	if totalPages < d.config.MinPages {
		return result
	}

	result.Headers = d.findRepeatingPatterns(headers, totalPages, RegionHeader)
	result.Footers = d.findRepeatingPatterns(footers, totalPages, RegionFooter)

	logging.Logger().Debug("running lines",
		"pages", totalPages,
		"headers", len(result.Headers),
		"footers", len(result.Footers))

	return result
}

// findRepeatingPatterns finds text that repeats across pages
func (d *RunningLineDetector) findRepeatingPatterns(candidates []candidate, totalPages int, region RegionType) []RunningLine {
	if len(candidates) == 0 {
		return nil
	}

	groups := make(map[string][]candidate)
	for _, c := range candidates {
		key := normalizeForComparison(c.Text)
		groups[key] = append(groups[key], c)
	}

	minOccurrences := int(float64(totalPages) * d.config.MinOccurrenceRatio)
	if minOccurrences < d.config.MinPages {
		minOccurrences = d.config.MinPages
	}

	var lines []RunningLine
	for text, group := range groups {
		// Single characters are usually OCR noise unless they are page numbers
		if len(text) <= 2 && !isPageNumberPattern(text) {
			continue
		}

		pages := make(map[int]bool)
		for _, c := range group {
			pages[c.Page] = true
		}
		if len(pages) < minOccurrences {
			continue
		}
		if !d.hasConsistentPosition(group) {
			continue
		}

		pageList := make([]int, 0, len(pages))
		for p := range pages {
			pageList = append(pageList, p)
		}
		sort.Ints(pageList)

		bbox := group[0].Box
		for _, c := range group[1:] {
			bbox = bbox.Union(c.Box)
		}

		lines = append(lines, RunningLine{
			Region:       region,
			Text:         text,
			IsPageNumber: isPageNumberPattern(text),
			BBox:         bbox,
			Pages:        pageList,
			Confidence:   d.calculateConfidence(len(pages), totalPages),
		})
	}

	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Confidence != lines[j].Confidence {
			return lines[i].Confidence > lines[j].Confidence
		}
		return lines[i].Text < lines[j].Text
	})

	return lines
}

// hasConsistentPosition checks if candidates appear at consistent positions
func (d *RunningLineDetector) hasConsistentPosition(group []candidate) bool {
	if len(group) < 2 {
		return false
	}

	ref := group[0].Box
	for _, c := range group[1:] {
		if absFloat(c.Box.Top-ref.Top) > d.config.PositionTolerance {
			return false
		}
		if absFloat(c.Box.Left-ref.Left) > d.config.XPositionTolerance {
			return false
		}
	}
	return true
}

// calculateConfidence scores a group by the share of pages it covers
func (d *RunningLineDetector) calculateConfidence(pages, totalPages int) float64 {
	if totalPages == 0 {
		return 0
	}
	confidence := float64(pages)/float64(totalPages)*0.9 + 0.1
	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}

// normalizeForComparison replaces digit runs with '#'
func normalizeForComparison(text string) string {
	return digitsPattern.ReplaceAllString(strings.TrimSpace(text), "#")
}

// isPageNumberPattern checks if normalized text looks like a page number
// ("#", "Page #", "- # -", "# of #")
func isPageNumberPattern(normalized string) bool {
	return pageNumberPattern.MatchString(strings.TrimSpace(normalized))
}

// Matches reports whether a LINE block is one of the detected running lines
func (r *RunningLineResult) Matches(block ocr.Block) bool {
	if r == nil || !block.IsLine() || block.Geometry == nil || !block.Geometry.BoundingBox.Complete() {
		return false
	}
	box := block.Geometry.BoundingBox.BBox()
	text := normalizeForComparison(block.Text)

	var regions []RunningLine
	switch {
	case box.Top < r.Config.HeaderBand:
		regions = r.Headers
	case box.Bottom() > 1-r.Config.FooterBand:
		regions = r.Footers
	default:
		return false
	}

	for _, rl := range regions {
		if rl.Text == text && containsPage(rl.Pages, block.Page) {
			return true
		}
	}
	return false
}

// Filter returns copies of pages without the detected running lines.
// The second value is the number of blocks removed.
func (r *RunningLineResult) Filter(pages []ocr.PageResult) ([]ocr.PageResult, int) {
	if !r.HasRunningLines() {
		return pages, 0
	}

	removed := 0
	out := make([]ocr.PageResult, len(pages))
	for i, page := range pages {
		out[i] = page
		out[i].Blocks = make([]ocr.Block, 0, len(page.Blocks))
		for _, block := range page.Blocks {
			if r.Matches(block) {
				removed++
				continue
			}
			out[i].Blocks = append(out[i].Blocks, block)
		}
	}
	return out, removed
}

// containsPage checks if a page is in the list
func containsPage(pages []int, page int) bool {
	for _, p := range pages {
		if p == page {
			return true
		}
	}
	return false
}

// HasHeaders returns true if running headers were detected
func (r *RunningLineResult) HasHeaders() bool {
	return r != nil && len(r.Headers) > 0
}

// HasFooters returns true if running footers were detected
func (r *RunningLineResult) HasFooters() bool {
	return r != nil && len(r.Footers) > 0
}

// HasRunningLines returns true if anything was detected
func (r *RunningLineResult) HasRunningLines() bool {
	return r.HasHeaders() || r.HasFooters()
}

// Texts returns the normalized texts of all detected running lines
func (r *RunningLineResult) Texts() []string {
	if r == nil {
		return nil
	}
	var texts []string
	for _, rl := range r.Headers {
		texts = append(texts, rl.Text)
	}
	for _, rl := range r.Footers {
		texts = append(texts, rl.Text)
	}
	return texts
}

// Summary returns a short description of the result
func (r *RunningLineResult) Summary() string {
	if !r.HasRunningLines() {
		return "no running headers or footers"
	}
	return fmt.Sprintf("%d running header(s), %d running footer(s)", len(r.Headers), len(r.Footers))
}

func absFloat(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
