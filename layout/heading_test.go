package layout

import (
	"errors"
	"fmt"
	"testing"

	"github.com/tsawler/sectioner/ocr"
)

// scenarioPages builds eleven lines where 1, 5 and 9 are taller headers
func scenarioPages() []ocr.PageResult {
	headers := map[int]string{1: "Intro", 5: "Body", 9: "Outro"}
	var blocks []ocr.Block
	for seq := 1; seq <= 11; seq++ {
		top := float64(seq) * 0.05
		if text, ok := headers[seq]; ok {
			blocks = append(blocks, makeLine(1, text, 0.1, top, 0.3, 0.03))
			continue
		}
		blocks = append(blocks, makeLine(1, fmt.Sprintf("line%d", seq), 0.2, top, 0.7, 0.02))
	}
	return []ocr.PageResult{makePage(1, blocks...)}
}

// makeRecords builds records with the given left indents
func makeRecords(indents ...float64) []LineRecord {
	lines := make([]LineRecord, len(indents))
	for i, indent := range indents {
		lines[i] = LineRecord{
			Text:       fmt.Sprintf("t%d", i+1),
			Page:       1,
			Sequence:   i + 1,
			LeftIndent: indent,
			Height:     0.02,
		}
	}
	return lines
}

// headerAnchors returns the anchors of headers
func headerAnchors(headers []Header) []int {
	anchors := make([]int, len(headers))
	for i, h := range headers {
		anchors[i] = h.Anchor
	}
	return anchors
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFontHeightDetectorScenario(t *testing.T) {
	result, err := NewLineExtractor().Extract(scenarioPages())
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}

	tiers := HeaderTiers(result.Heights)
	m := TierMap(tiers)
	if len(m) != 1 || m[0.03] != 0.02 {
		t.Errorf("Expected tier map {0.03: 0.02}, got %v", m)
	}

	headers := NewFontHeightDetector().Detect(result.Lines)
	if !equalInts(headerAnchors(headers), []int{1, 5, 9}) {
		t.Fatalf("Expected anchors [1 5 9], got %v", headerAnchors(headers))
	}
	if headers[0].Text != "Intro" || headers[1].Text != "Body" || headers[2].Text != "Outro" {
		t.Errorf("Unexpected header texts %+v", headers)
	}

	withTiers := NewFontHeightDetector().DetectWithTiers(result.Lines, tiers)
	if !equalInts(headerAnchors(withTiers), headerAnchors(headers)) {
		t.Error("Expected DetectWithTiers to match Detect")
	}
}

func TestFontHeightDetectorNoTiers(t *testing.T) {
	lines := makeRecords(0.1, 0.2, 0.3)
	if headers := NewFontHeightDetector().Detect(lines); len(headers) != 0 {
		t.Errorf("Expected no headers for a single height, got %v", headers)
	}
	if headers := NewFontHeightDetector().Detect(nil); len(headers) != 0 {
		t.Errorf("Expected no headers for empty input, got %v", headers)
	}
}

func TestIndentBandDetector(t *testing.T) {
	lines := makeRecords(0.12, 0.20, 0.10, 0.14, 0.09, 0.15)
	// Font height does not matter
	lines[1].Height = 0.05

	headers := NewIndentBandDetector().Detect(lines)
	if !equalInts(headerAnchors(headers), []int{1, 3, 4}) {
		t.Errorf("Expected anchors [1 3 4], got %v", headerAnchors(headers))
	}
}

func TestIndentBandDetectorWithConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  IndentBandConfig
		wantErr bool
	}{
		{"default", DefaultIndentBandConfig(), false},
		{"single point", IndentBandConfig{Start: 0.2, End: 0.2}, false},
		{"reversed", IndentBandConfig{Start: 0.3, End: 0.2}, true},
		{"negative", IndentBandConfig{Start: -0.1, End: 0.2}, true},
		{"beyond page", IndentBandConfig{Start: 0.1, End: 1.5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewIndentBandDetectorWithConfig(tt.config)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("Expected ErrInvalidConfig, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if d.Config() != tt.config {
				t.Errorf("Config() = %+v, want %+v", d.Config(), tt.config)
			}
		})
	}
}

func TestHeaderDetectorInterface(t *testing.T) {
	var detectors []HeaderDetector
	detectors = append(detectors, NewFontHeightDetector(), NewIndentBandDetector())

	for _, d := range detectors {
		if headers := d.Detect(nil); len(headers) != 0 {
			t.Errorf("%T: expected no headers for empty input", d)
		}
	}
}

// ============================================================================
// Duplicate header tests
// ============================================================================

func duplicateHeaders() []Header {
	return []Header{
		{Text: "Summary", Anchor: 1, Page: 1},
		{Text: "Details", Anchor: 4, Page: 1},
		{Text: "Summary", Anchor: 8, Page: 2},
	}
}

func TestKeepAllPolicy(t *testing.T) {
	in := duplicateHeaders()
	out := KeepAll.Apply(in)

	if !equalInts(headerAnchors(out), []int{1, 4, 8}) {
		t.Errorf("Expected every occurrence, got %v", headerAnchors(out))
	}
	out[0].Text = "changed"
	if in[0].Text != "Summary" {
		t.Error("Apply must not modify its input")
	}
}

func TestCollapseToLastPolicy(t *testing.T) {
	out := CollapseToLast.Apply(duplicateHeaders())

	if len(out) != 2 {
		t.Fatalf("Expected 2 headers, got %d", len(out))
	}
	if out[0].Text != "Summary" || out[0].Anchor != 8 || out[0].Page != 2 {
		t.Errorf("Expected Summary first with last anchor 8, got %+v", out[0])
	}
	if out[1].Text != "Details" || out[1].Anchor != 4 {
		t.Errorf("Expected Details at 4, got %+v", out[1])
	}
}

func TestCollapseToLastAcrossTiers(t *testing.T) {
	lines := makeRecords(0.2, 0.2, 0.2, 0.2, 0.2, 0.2, 0.2, 0.2, 0.2, 0.2)
	tall := map[int]string{1: "Title", 6: "Title"}
	mid := map[int]string{3: "Part", 8: "Part"}
	for i := range lines {
		seq := lines[i].Sequence
		if text, ok := tall[seq]; ok {
			lines[i].Text, lines[i].Height = text, 0.04
		} else if text, ok := mid[seq]; ok {
			lines[i].Text, lines[i].Height = text, 0.03
		}
	}

	headers := NewFontHeightDetector().Detect(lines)
	if !equalInts(headerAnchors(headers), []int{1, 3, 6, 8}) {
		t.Fatalf("Expected headers from both tiers in sequence order, got %v", headerAnchors(headers))
	}

	out := CollapseToLast.Apply(headers)
	if len(out) != 2 || out[0].Text != "Title" || out[1].Text != "Part" {
		t.Fatalf("Expected [Title Part] in sequence order, got %+v", out)
	}
	if !equalInts(headerAnchors(out), []int{6, 8}) {
		t.Errorf("Expected last anchors [6 8], got %v", headerAnchors(out))
	}
}

func TestDuplicateTexts(t *testing.T) {
	headers := append(duplicateHeaders(), Header{Text: "Summary", Anchor: 9})
	dups := DuplicateTexts(headers)
	if len(dups) != 1 || dups[0] != "Summary" {
		t.Errorf("DuplicateTexts() = %v, want [Summary]", dups)
	}
	if DuplicateTexts(nil) != nil {
		t.Error("Expected nil for no headers")
	}
}

func TestParseDuplicatePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    DuplicatePolicy
		wantErr bool
	}{
		{"", KeepAll, false},
		{"keep-all", KeepAll, false},
		{"collapse-to-last", CollapseToLast, false},
		{"collapse", CollapseToLast, false},
		{"first", KeepAll, true},
	}

	for _, tt := range tests {
		got, err := ParseDuplicatePolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDuplicatePolicy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseDuplicatePolicy(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if KeepAll.String() != "keep-all" || CollapseToLast.String() != "collapse-to-last" || DuplicatePolicy(9).String() != "unknown" {
		t.Error("Unexpected policy names")
	}
}
