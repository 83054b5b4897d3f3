package sectioner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/sectioner/layout"
	"github.com/tsawler/sectioner/model"
	"github.com/tsawler/sectioner/ocr"
)

// scenarioPages builds eleven lines where 1, 5 and 9 are taller headers
// that also sit in the default indent band
func scenarioPages() []ocr.PageResult {
	headers := map[int]string{1: "Intro", 5: "Body", 9: "Outro"}
	blocks := []ocr.Block{ocr.NewBlock(ocr.BlockTypePage, 1, "", model.NewBBox(0, 0, 1, 1))}
	for seq := 1; seq <= 11; seq++ {
		top := float64(seq) * 0.05
		if text, ok := headers[seq]; ok {
			blocks = append(blocks, ocr.NewLineBlock(1, text, model.NewBBox(0.12, top, 0.3, 0.03)))
			continue
		}
		blocks = append(blocks, ocr.NewLineBlock(1, fmt.Sprintf("line%d", seq), model.NewBBox(0.2, top, 0.7, 0.02)))
	}
	return []ocr.PageResult{{Blocks: blocks}}
}

// writeTextract stores pages as a Textract JSON file
func writeTextract(t *testing.T, name string, pages []ocr.PageResult) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := ocr.EncodeTextract(f, pages); err != nil {
		t.Fatal(err)
	}
	return path
}

func checkScenarioSections(t *testing.T, sections []model.Section) {
	t.Helper()
	want := []struct{ header, text string }{
		{"Intro", "line2 line3 line4"},
		{"Body", "line6 line7 line8"},
		{"Outro", "line10 line11"},
	}
	if len(sections) != len(want) {
		t.Fatalf("Expected %d sections, got %d", len(want), len(sections))
	}
	for i, w := range want {
		if sections[i].Header != w.header || sections[i].Text != w.text {
			t.Errorf("Section %d = %q: %q, want %q: %q", i, sections[i].Header, sections[i].Text, w.header, w.text)
		}
	}
}

func TestOpenTextractSections(t *testing.T) {
	path := writeTextract(t, "results.json", scenarioPages())

	sections, warnings, err := Open(path).Sections()
	if err != nil {
		t.Fatalf("Sections() error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("Unexpected warnings: %s", FormatWarnings(warnings))
	}
	checkScenarioSections(t, sections)
	if sections[1].Anchor != 5 || sections[1].Page != 1 {
		t.Errorf("Unexpected anchor/page %+v", sections[1])
	}
}

func TestIndentBandSections(t *testing.T) {
	sections, _, err := FromPages(scenarioPages()).IndentBand(0.10, 0.14).Sections()
	if err != nil {
		t.Fatalf("Sections() error: %v", err)
	}
	checkScenarioSections(t, sections)
}

func TestIndentBandInvalid(t *testing.T) {
	_, _, err := FromPages(scenarioPages()).IndentBand(0.3, 0.2).Sections()
	if !errors.Is(err, layout.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestDetectFormatFromContent(t *testing.T) {
	path := writeTextract(t, "results.dat", scenarioPages())

	lines, _, err := Open(path).Lines()
	if err != nil {
		t.Fatalf("Lines() error: %v", err)
	}
	if len(lines) != 11 {
		t.Errorf("Expected 11 lines, got %d", len(lines))
	}
}

func TestUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.7"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := Open(path).Sections()
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, _, err := Open(filepath.Join(t.TempDir(), "missing.json")).Lines(); err == nil {
		t.Error("Expected error for missing file")
	}
	if _, _, err := Open("").Lines(); err == nil {
		t.Error("Expected error without input")
	}
}

func TestHOCRMatchesTextract(t *testing.T) {
	hocr := `<html><body>
<div class="ocr_page" title="bbox 0 0 1000 1000">
  <span class="ocr_line" title="bbox 120 50 420 80">Intro</span>
  <span class="ocr_line" title="bbox 200 100 900 120">first line</span>
  <span class="ocr_line" title="bbox 200 150 900 170">second line</span>
</div>
</body></html>`
	hocrPath := filepath.Join(t.TempDir(), "scan.hocr")
	if err := os.WriteFile(hocrPath, []byte(hocr), 0o644); err != nil {
		t.Fatal(err)
	}

	textractPath := writeTextract(t, "scan.json", []ocr.PageResult{{Blocks: []ocr.Block{
		ocr.NewLineBlock(1, "Intro", model.NewBBox(0.12, 0.05, 0.3, 0.03)),
		ocr.NewLineBlock(1, "first line", model.NewBBox(0.2, 0.1, 0.7, 0.02)),
		ocr.NewLineBlock(1, "second line", model.NewBBox(0.2, 0.15, 0.7, 0.02)),
	}}})

	fromHOCR, _, err := Open(hocrPath).Lines()
	if err != nil {
		t.Fatalf("hOCR Lines() error: %v", err)
	}
	fromTextract, _, err := Open(textractPath).Lines()
	if err != nil {
		t.Fatalf("Textract Lines() error: %v", err)
	}

	if len(fromHOCR) != len(fromTextract) {
		t.Fatalf("Line counts differ: %d vs %d", len(fromHOCR), len(fromTextract))
	}
	for i := range fromHOCR {
		if fromHOCR[i] != fromTextract[i] {
			t.Errorf("Line %d differs: %+v vs %+v", i, fromHOCR[i], fromTextract[i])
		}
	}
}

func TestMalformedInput(t *testing.T) {
	pages := []ocr.PageResult{{Blocks: []ocr.Block{{BlockType: ocr.BlockTypeLine, Page: 1, Text: "x"}}}}

	doc, _, err := FromPages(pages).Document()
	if !errors.Is(err, layout.ErrMalformedInput) {
		t.Errorf("Expected ErrMalformedInput, got %v", err)
	}
	if doc != nil {
		t.Error("Expected no partial document")
	}
}

func TestEmptyDocument(t *testing.T) {
	for _, mode := range []model.Mode{model.ModeFontHeight, model.ModeIndentBand, model.ModeHeaderless} {
		doc, warnings, err := FromPages(nil).Mode(mode).Document()
		if err != nil {
			t.Fatalf("%s: unexpected error %v", mode, err)
		}
		if doc.SectionCount() != 0 || doc.ParagraphCount() != 0 {
			t.Errorf("%s: expected empty document", mode)
		}
		if !HasWarning(warnings, WarningEmptyDocument) {
			t.Errorf("%s: expected empty document warning", mode)
		}
	}
}

func TestNoHeadersFound(t *testing.T) {
	sections, warnings, err := FromPages(scenarioPages()).IndentBand(0.5, 0.6).Sections()
	if err != nil {
		t.Fatalf("Sections() error: %v", err)
	}
	if len(sections) != 0 {
		t.Errorf("Expected no sections, got %d", len(sections))
	}
	if !HasWarning(warnings, WarningNoHeaders) {
		t.Error("Expected no-headers warning")
	}
}

func TestChainImmutability(t *testing.T) {
	base := FromPages(scenarioPages())
	headerless := base.Headerless()

	if base.options.mode != model.ModeFontHeight {
		t.Error("Base segmenter mode changed")
	}
	if headerless.options.mode != model.ModeHeaderless {
		t.Error("Expected headerless mode on derived segmenter")
	}

	raw := base.RawText()
	if !base.options.normalizeText || raw.options.normalizeText {
		t.Error("RawText must only affect the derived segmenter")
	}
}

func TestHeaderlessMode(t *testing.T) {
	_, _, err := FromPages(scenarioPages()).Headerless().Sections()
	if !errors.Is(err, ErrHeaderlessMode) {
		t.Errorf("Expected ErrHeaderlessMode, got %v", err)
	}
	if _, _, err := FromPages(scenarioPages()).Headerless().Headers(); !errors.Is(err, ErrHeaderlessMode) {
		t.Errorf("Expected ErrHeaderlessMode from Headers, got %v", err)
	}

	doc, _, err := FromPages(scenarioPages()).Headerless().Path("memo").Document()
	if err != nil {
		t.Fatalf("Document() error: %v", err)
	}
	if doc.Path != "memo" || doc.Mode != model.ModeHeaderless {
		t.Errorf("Unexpected document %+v", doc)
	}
	if doc.SectionCount() != 0 {
		t.Error("Expected no sections in headerless mode")
	}

	paras, _, err := FromPages(scenarioPages()).Paragraphs()
	if err != nil {
		t.Fatalf("Paragraphs() error: %v", err)
	}
	if len(paras) != doc.ParagraphCount() {
		t.Errorf("Paragraphs() and Document() disagree: %d vs %d", len(paras), doc.ParagraphCount())
	}
}

func TestDuplicateHeaders(t *testing.T) {
	pages := scenarioPages()
	// Rename "Outro" to "Intro"
	for i := range pages[0].Blocks {
		if pages[0].Blocks[i].Text == "Outro" {
			pages[0].Blocks[i].Text = "Intro"
		}
	}

	sections, warnings, err := FromPages(pages).Sections()
	if err != nil {
		t.Fatalf("Sections() error: %v", err)
	}
	if len(sections) != 3 {
		t.Errorf("Expected every occurrence kept, got %d sections", len(sections))
	}
	if !HasWarning(warnings, WarningDuplicateHeaders) {
		t.Error("Expected duplicate header warning")
	}

	collapsed, _, err := FromPages(pages).Duplicates(layout.CollapseToLast).Sections()
	if err != nil {
		t.Fatalf("Sections() error: %v", err)
	}
	if len(collapsed) != 2 {
		t.Fatalf("Expected 2 collapsed sections, got %d", len(collapsed))
	}
	// Intro keeps its first position but moves to anchor 9, ahead of Body
	if collapsed[0].Header != "Intro" || collapsed[0].Anchor != 9 || collapsed[0].Text != "" {
		t.Errorf("Unexpected collapsed section %+v", collapsed[0])
	}
	if collapsed[1].Text != "line6 line7 line8 Intro line10 line11" {
		t.Errorf("Unexpected collapsed section %+v", collapsed[1])
	}
}

func TestExcludeRunningLines(t *testing.T) {
	var pages []ocr.PageResult
	for p := 1; p <= 3; p++ {
		pages = append(pages, ocr.PageResult{Blocks: []ocr.Block{
			ocr.NewLineBlock(p, "Quarterly Review", model.NewBBox(0.4, 0.02, 0.2, 0.02)),
			ocr.NewLineBlock(p, "Heading", model.NewBBox(0.12, 0.2, 0.3, 0.03)),
			ocr.NewLineBlock(p, "body text", model.NewBBox(0.2, 0.3, 0.7, 0.02)),
			ocr.NewLineBlock(p, fmt.Sprintf("- %d -", p), model.NewBBox(0.48, 0.95, 0.04, 0.02)),
		}})
	}

	lines, warnings, err := FromPages(pages).ExcludeRunningLines().Lines()
	if err != nil {
		t.Fatalf("Lines() error: %v", err)
	}
	if len(lines) != 6 {
		t.Errorf("Expected 6 lines after filtering, got %d", len(lines))
	}
	if !HasWarning(warnings, WarningRunningLinesRemoved) {
		t.Error("Expected running lines warning")
	}
	for i, line := range lines {
		if line.Sequence != i+1 {
			t.Errorf("Expected contiguous sequence, got %d at %d", line.Sequence, i)
		}
	}

	unfiltered, _, err := FromPages(pages).Lines()
	if err != nil {
		t.Fatalf("Lines() error: %v", err)
	}
	if len(unfiltered) != 12 {
		t.Errorf("Expected filter to be opt-in, got %d lines", len(unfiltered))
	}
}

func TestClassify(t *testing.T) {
	calls := 0
	classifier := ClassifierFunc(func(ctx context.Context, text string) (string, error) {
		calls++
		if strings.Contains(text, "line6") {
			return "NEGATIVE", nil
		}
		return "POSITIVE", nil
	})

	doc, _, err := FromPages(scenarioPages()).Classify(context.Background(), classifier)
	if err != nil {
		t.Fatalf("Classify() error: %v", err)
	}
	if calls != 3 {
		t.Errorf("Expected 3 classifier calls, got %d", calls)
	}
	if doc.Sections[0].Sentiment != "POSITIVE" || doc.Sections[1].Sentiment != "NEGATIVE" {
		t.Errorf("Unexpected sentiments %+v", doc.Sections)
	}
}

func TestClassifyErrors(t *testing.T) {
	boom := errors.New("service unavailable")
	failing := ClassifierFunc(func(ctx context.Context, text string) (string, error) {
		return "", boom
	})
	if _, _, err := FromPages(scenarioPages()).Classify(context.Background(), failing); !errors.Is(err, boom) {
		t.Errorf("Expected classifier error, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	never := ClassifierFunc(func(ctx context.Context, text string) (string, error) {
		t.Error("Classifier called after cancellation")
		return "", nil
	})
	if _, _, err := FromPages(scenarioPages()).Classify(ctx, never); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestFromJob(t *testing.T) {
	pages := scenarioPages()
	fetcher := ocr.PageFetcherFunc(func(ctx context.Context, jobID, nextToken string) (*ocr.PageResult, error) {
		p := pages[0]
		return &p, nil
	})

	doc, _, err := FromJob(context.Background(), fetcher, "job-7").Document()
	if err != nil {
		t.Fatalf("Document() error: %v", err)
	}
	if doc.Path != "job-7" {
		t.Errorf("Expected job ID as default path, got %q", doc.Path)
	}
	checkScenarioSections(t, doc.Sections)

	failing := ocr.PageFetcherFunc(func(ctx context.Context, jobID, nextToken string) (*ocr.PageResult, error) {
		return nil, errors.New("throttled")
	})
	if _, _, err := FromJob(context.Background(), failing, "job-8").Document(); err == nil {
		t.Error("Expected collection error")
	}
}

func TestTextAndMarkdown(t *testing.T) {
	md, _, err := FromPages(scenarioPages()).Markdown()
	if err != nil {
		t.Fatalf("Markdown() error: %v", err)
	}
	if !strings.HasPrefix(md, "## Intro\n\nline2 line3 line4\n\n") {
		t.Errorf("Unexpected markdown %q", md)
	}

	text, _, err := FromPages(scenarioPages()).Text()
	if err != nil {
		t.Fatalf("Text() error: %v", err)
	}
	if !strings.Contains(text, "Body\nline6 line7 line8\n") {
		t.Errorf("Unexpected text %q", text)
	}
}

func TestMust(t *testing.T) {
	doc := MustResult(FromPages(scenarioPages()).Document())
	if doc.SectionCount() != 3 {
		t.Errorf("Expected 3 sections, got %d", doc.SectionCount())
	}

	defer func() {
		if recover() == nil {
			t.Error("Expected Must to panic")
		}
	}()
	Must(0, errors.New("fail"))
}

func TestFormatWarnings(t *testing.T) {
	warnings := []Warning{
		{Code: WarningNoHeaders, Message: "none"},
		{Code: WarningDuplicateHeaders, Message: "twice"},
	}
	got := FormatWarnings(warnings)
	if got != "no-headers: none; duplicate-headers: twice" {
		t.Errorf("FormatWarnings() = %q", got)
	}
	if FormatWarnings(nil) != "" {
		t.Error("Expected empty string for no warnings")
	}
	if HasWarning(warnings, WarningEmptyDocument) {
		t.Error("Unexpected empty-document warning")
	}
}

func letterPages() []ocr.PageResult {
	texts := []string{"Dear team,", "the report is done.", "Thanks", "for reading.", "Regards", "Sam"}
	var blocks []ocr.Block
	for i, text := range texts {
		blocks = append(blocks, ocr.NewLineBlock(1, text, model.NewBBox(0.1, 0.1+float64(i)*0.05, 0.6, 0.02)))
	}
	return []ocr.PageResult{{Blocks: blocks}}
}

func TestParagraphsByPeriod(t *testing.T) {
	base := FromPages(letterPages())

	paras, _, err := base.ByPeriod().Paragraphs()
	if err != nil {
		t.Fatalf("Paragraphs() error: %v", err)
	}
	want := []string{"the report is done.", "Thanks for reading."}
	if len(paras) != len(want) {
		t.Fatalf("Expected %q, got %q", want, paras)
	}
	for i := range want {
		if paras[i] != want[i] {
			t.Errorf("Paragraph %d = %q, want %q", i, paras[i], want[i])
		}
	}

	if base.options.byPeriod {
		t.Error("ByPeriod must only affect the derived segmenter")
	}
	spacing, _, err := base.Paragraphs()
	if err != nil {
		t.Fatalf("Paragraphs() error: %v", err)
	}
	if len(spacing) != 1 || !strings.HasSuffix(spacing[0], "Regards") {
		t.Errorf("Expected spacing assembly by default, got %q", spacing)
	}

	doc, _, err := base.Headerless().ByPeriod().Document()
	if err != nil {
		t.Fatalf("Document() error: %v", err)
	}
	if doc.ParagraphCount() != 2 {
		t.Errorf("Expected 2 paragraphs in document, got %d", doc.ParagraphCount())
	}
}

func TestLanguageOption(t *testing.T) {
	base := FromPages(scenarioPages())
	withLang := base.Language("eng+fra")

	if base.options.language != "" || withLang.options.language != "eng+fra" {
		t.Errorf("Unexpected languages %q / %q", base.options.language, withLang.options.language)
	}

	// Stored results ignore the recognition language
	sections, _, err := withLang.Sections()
	if err != nil {
		t.Fatalf("Sections() error: %v", err)
	}
	checkScenarioSections(t, sections)
}

func TestHOCRLineWithoutBBoxIsMalformed(t *testing.T) {
	hocr := `<div class="ocr_page" title="bbox 0 0 1000 1000">
  <span class="ocr_line" title="bbox 100 100 900 120">First line</span>
  <span class="ocr_line" title="x_size 20">Second line</span>
  <span class="ocr_line" title="bbox 100 300 900 320">Third line</span>
</div>`
	path := filepath.Join(t.TempDir(), "scan.hocr")
	if err := os.WriteFile(path, []byte(hocr), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := Open(path).Lines(); !errors.Is(err, layout.ErrMalformedInput) {
		t.Errorf("Expected ErrMalformedInput, got %v", err)
	}
}

func TestOpenEmptyResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, warnings, err := Open(path).Document()
	if err != nil {
		t.Fatalf("Document() error: %v", err)
	}
	if doc.SectionCount() != 0 {
		t.Errorf("Expected no sections, got %d", doc.SectionCount())
	}
	if !HasWarning(warnings, WarningEmptyDocument) {
		t.Error("Expected empty document warning")
	}
}
