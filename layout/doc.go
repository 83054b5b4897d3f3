// Package layout segments OCR text lines into sections and paragraphs.
//
// The package works on the LINE detections of OCR page results. Lines are
// numbered in reading order and that number is the only ordering used when
// text is grouped.
//
// # Extraction
//
// The [LineExtractor] keeps LINE blocks and derives rounded geometry:
//
//	lines, err := layout.NewLineExtractor().Extract(pages)
//
// A block without a type, or a LINE block without a complete bounding box,
// fails with [ErrMalformedInput].
//
// # Header Detection
//
// Two [HeaderDetector] strategies are available:
//
//   - [FontHeightDetector] - groups lines by height and treats every tier
//     above the body height as a header height
//   - [IndentBandDetector] - treats lines whose left indent falls in a
//     band (default 0.10 to 0.14) as headers
//
// Both return every header in sequence order. [DuplicatePolicy] decides
// whether repeated header texts stay separate or collapse to one.
//
// # Assembly
//
// The [Assembler] builds one [ParagraphBlock] per header from the lines
// between consecutive anchors. Without headers, the [SpacingAnnotator]
// measures the gaps around each line and [Assembler.Paragraphs] splits at
// lines that sit further from the line above than the line below:
//
//	entries := layout.NewSpacingAnnotator().Annotate(lines.Lines)
//	paras := layout.NewAssembler().Paragraphs(entries)
//
// # Running Headers and Footers
//
// For multi-page documents, the [RunningLineDetector] finds text repeated in
// the page margins so it can be removed before extraction:
//
//	result := layout.NewRunningLineDetector().Detect(pages)
//	pages, removed := result.Filter(pages)
package layout
