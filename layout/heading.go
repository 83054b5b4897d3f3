package layout

import (
	"fmt"

	"github.com/tsawler/sectioner/logging"
)

// Header is a line selected as a section boundary. Anchor is the line's
// sequence number; Text is a label only and may repeat.
type Header struct {
	Text   string
	Anchor int
	Page   int
}

// HeaderDetector selects header lines. Implementations return every
// header in sequence order.
type HeaderDetector interface {
	Detect(lines []LineRecord) []Header
}

// headerFromLine builds a Header for a line
func headerFromLine(line LineRecord) Header {
	return Header{Text: line.Text, Anchor: line.Sequence, Page: line.Page}
}

// ============================================================================
// Font height detection
// ============================================================================

// FontHeightDetector selects lines whose height is a header tier height
type FontHeightDetector struct{}

// NewFontHeightDetector creates a font height detector
func NewFontHeightDetector() *FontHeightDetector {
	return &FontHeightDetector{}
}

// Detect builds the height index for lines, derives the tiers and returns
// every line whose height is a header height.
func (d *FontHeightDetector) Detect(lines []LineRecord) []Header {
	index := NewHeightIndex()
	for _, line := range lines {
		index.Add(line.Height, line.Sequence)
	}
	return d.DetectWithTiers(lines, HeaderTiers(index))
}

// DetectWithTiers selects headers against precomputed tiers
func (d *FontHeightDetector) DetectWithTiers(lines []LineRecord, tiers []Tier) []Header {
	if len(tiers) == 0 {
		return nil
	}

	headerHeights := make(map[float64]bool, len(tiers))
	for _, t := range tiers {
		headerHeights[t.Header] = true
	}

	var headers []Header
	for _, line := range lines {
		if headerHeights[line.Height] {
			headers = append(headers, headerFromLine(line))
		}
	}

	logging.Logger().Debug("font height headers",
		"tiers", len(tiers),
		"headers", len(headers))

	return headers
}

// ============================================================================
// Indentation band detection
// ============================================================================

// IndentBandConfig holds the left-indent band that marks a header
type IndentBandConfig struct {
	// Start is the lowest left indent of a header (inclusive)
	// Default: 0.10
	Start float64

	// End is the highest left indent of a header (inclusive)
	// Default: 0.14
	End float64
}

// DefaultIndentBandConfig returns the default band
func DefaultIndentBandConfig() IndentBandConfig {
	return IndentBandConfig{
		Start: 0.10,
		End:   0.14,
	}
}

// Validate checks that the band is ordered and within the page
func (c IndentBandConfig) Validate() error {
	if c.Start < 0 || c.Start > 1 || c.End < 0 || c.End > 1 {
		return fmt.Errorf("%w: indent band [%g, %g] outside [0, 1]", ErrInvalidConfig, c.Start, c.End)
	}
	if c.Start > c.End {
		return fmt.Errorf("%w: indent band start %g after end %g", ErrInvalidConfig, c.Start, c.End)
	}
	return nil
}

// IndentBandDetector selects lines whose left indent falls in a band
type IndentBandDetector struct {
	config IndentBandConfig
}

// NewIndentBandDetector creates a detector with the default band
func NewIndentBandDetector() *IndentBandDetector {
	return &IndentBandDetector{
		config: DefaultIndentBandConfig(),
	}
}

// NewIndentBandDetectorWithConfig creates a detector with a custom band
func NewIndentBandDetectorWithConfig(config IndentBandConfig) (*IndentBandDetector, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &IndentBandDetector{
		config: config,
	}, nil
}

// Config returns the detector's band
func (d *IndentBandDetector) Config() IndentBandConfig {
	return d.config
}

// Detect returns every line with Start <= LeftIndent <= End
func (d *IndentBandDetector) Detect(lines []LineRecord) []Header {
	var headers []Header
	for _, line := range lines {
		if line.LeftIndent >= d.config.Start && line.LeftIndent <= d.config.End {
			headers = append(headers, headerFromLine(line))
		}
	}

	logging.Logger().Debug("indent band headers",
		"start", d.config.Start,
		"end", d.config.End,
		"headers", len(headers))

	return headers
}

// ============================================================================
// Duplicate header text
// ============================================================================

// DuplicatePolicy controls headers that share the same text
type DuplicatePolicy int

const (
	// KeepAll keeps every occurrence as its own section
	KeepAll DuplicatePolicy = iota

	// CollapseToLast keeps one header per text, positioned where the text
	// was first seen but anchored at its last occurrence
	CollapseToLast
)

// String returns the policy name
func (p DuplicatePolicy) String() string {
	switch p {
	case KeepAll:
		return "keep-all"
	case CollapseToLast:
		return "collapse-to-last"
	default:
		return "unknown"
	}
}

// ParseDuplicatePolicy parses a policy name
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch s {
	case "", "keep-all":
		return KeepAll, nil
	case "collapse-to-last", "collapse":
		return CollapseToLast, nil
	default:
		return KeepAll, fmt.Errorf("%w: unknown duplicate policy %q", ErrInvalidConfig, s)
	}
}

// Apply returns headers with the policy applied. The input is not modified.
func (p DuplicatePolicy) Apply(headers []Header) []Header {
	if p == CollapseToLast {
		return CollapseDuplicates(headers)
	}
	out := make([]Header, len(headers))
	copy(out, headers)
	return out
}

// CollapseDuplicates keeps one header per text. The header stays at the
// position its text was first seen and takes the last-seen anchor.
// Positions follow the input order, which for the detectors here is
// sequence order across every height tier, never grouped by tier.
func CollapseDuplicates(headers []Header) []Header {
	position := make(map[string]int, len(headers))
	var out []Header
	for _, h := range headers {
		if i, ok := position[h.Text]; ok {
			out[i].Anchor = h.Anchor
			out[i].Page = h.Page
			continue
		}
		position[h.Text] = len(out)
		out = append(out, h)
	}
	return out
}

// DuplicateTexts returns header texts that occur more than once, in the
// order their second occurrence is seen
func DuplicateTexts(headers []Header) []string {
	counts := make(map[string]int, len(headers))
	var dups []string
	for _, h := range headers {
		counts[h.Text]++
		if counts[h.Text] == 2 {
			dups = append(dups, h.Text)
		}
	}
	return dups
}
